package main

import (
	"fmt"
	"strings"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault = tcell.StyleDefault
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHazard  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFound   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorPurple)
)

// glyph returns how the cell at p is drawn. The player hides anything below it.
func glyph(r labyrinth.Round, p labyrinth.Position) (rune, tcell.Style) {
	if p == r.Player {
		return '@', stylePlayer
	}
	for id, t := range r.Targets {
		if t.Position != p {
			continue
		}
		switch {
		case r.FoundTargets.Has(id):
			return '✓', styleFound
		case id == r.ActiveTargetID:
			return '★', styleTarget
		}
	}
	switch r.Grid.At(p) {
	case labyrinth.Wall:
		return '█', styleWall
	case labyrinth.Hazard:
		return '▒', styleHazard
	}
	return '·', styleDefault
}

// statusLine summarises the session above the grid.
func statusLine(s labyrinth.State) string {
	r := s.Round
	hearts := strings.Repeat("♥", r.Lives) + strings.Repeat("♡", max(0, labyrinth.StartingLives(r.Level)-r.Lives))
	return fmt.Sprintf("Level %d/%d  %s  ⏱ %ds  Score %d  [%s]", r.Level, labyrinth.MaxLevel, hearts, r.TimeRemaining, s.Score, r.Status)
}

const helpLine = "arrows/WASD move  b AI (BFS)  r restart  n next  g new game  q quit"

type screenWriter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

func drawText(s screenWriter, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}

// draw renders the whole frame: status, notice, grid, flash message and help.
func draw(s screenWriter, state labyrinth.State, notice, flash string) {
	drawText(s, 0, 0, statusLine(state), styleStatus)
	drawText(s, 0, 1, notice, styleDefault)

	r := state.Round
	top := 3
	if r.Grid != nil {
		for row := range r.Grid.Rows() {
			for col := range r.Grid.Cols() {
				ch, style := glyph(r, labyrinth.Position{Row: row, Col: col})
				s.SetContent(col*2, top+row, ch, nil, style)
			}
		}
		top += r.Grid.Rows()
	}

	drawText(s, 0, top+1, flash, styleHazard)
	drawText(s, 0, top+3, helpLine, styleWall)
}
