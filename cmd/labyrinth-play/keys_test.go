package main

import (
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		r      rune
		action keyAction
		dir    labyrinth.Direction
	}{
		{name: "arrow up", key: tcell.KeyUp, action: actionMove, dir: labyrinth.Up},
		{name: "arrow left", key: tcell.KeyLeft, action: actionMove, dir: labyrinth.Left},
		{name: "s", key: tcell.KeyRune, r: 's', action: actionMove, dir: labyrinth.Down},
		{name: "D", key: tcell.KeyRune, r: 'D', action: actionMove, dir: labyrinth.Right},
		{name: "replay", key: tcell.KeyRune, r: 'b', action: actionReplay},
		{name: "restart", key: tcell.KeyRune, r: 'r', action: actionRestartLevel},
		{name: "next", key: tcell.KeyRune, r: 'n', action: actionNextLevel},
		{name: "new game", key: tcell.KeyRune, r: 'g', action: actionRestartGame},
		{name: "quit", key: tcell.KeyRune, r: 'q', action: actionQuit},
		{name: "escape", key: tcell.KeyEscape, action: actionQuit},
		{name: "other letter", key: tcell.KeyRune, r: 'x', action: actionNone},
		{name: "tab", key: tcell.KeyTab, action: actionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, dir := keyFor(tt.key, tt.r)
			assert.Equal(t, tt.action, action)
			if tt.action == actionMove {
				assert.Equal(t, tt.dir, dir)
			}
		})
	}
}
