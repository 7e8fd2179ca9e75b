package main

import (
	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gdamore/tcell/v2"
)

type keyAction uint8

const (
	actionNone keyAction = iota
	actionMove
	actionReplay
	actionRestartLevel
	actionNextLevel
	actionRestartGame
	actionQuit
)

// keyFor maps a key press to an action. Letters are matched case-insensitively.
func keyFor(key tcell.Key, r rune) (keyAction, labyrinth.Direction) {
	switch key {
	case tcell.KeyUp:
		return actionMove, labyrinth.Up
	case tcell.KeyDown:
		return actionMove, labyrinth.Down
	case tcell.KeyLeft:
		return actionMove, labyrinth.Left
	case tcell.KeyRight:
		return actionMove, labyrinth.Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, 0
	case tcell.KeyRune:
	default:
		return actionNone, 0
	}

	switch r {
	case 'w', 'W':
		return actionMove, labyrinth.Up
	case 's', 'S':
		return actionMove, labyrinth.Down
	case 'a', 'A':
		return actionMove, labyrinth.Left
	case 'd', 'D':
		return actionMove, labyrinth.Right
	case 'b', 'B':
		return actionReplay, 0
	case 'r', 'R':
		return actionRestartLevel, 0
	case 'n', 'N':
		return actionNextLevel, 0
	case 'g', 'G':
		return actionRestartGame, 0
	case 'q', 'Q':
		return actionQuit, 0
	}
	return actionNone, 0
}
