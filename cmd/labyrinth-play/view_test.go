package main

import (
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellRecorder map[[2]int]rune

func (c cellRecorder) SetContent(x, y int, primary rune, _ []rune, _ tcell.Style) {
	c[[2]int{x, y}] = primary
}

func loadedState(t *testing.T) labyrinth.State {
	t.Helper()
	g, err := labyrinth.ParseGrid([][]int{{0, 1, 2}, {0, 0, 0}})
	require.NoError(t, err)
	layout := labyrinth.Layout{
		Grid: g,
		Targets: map[labyrinth.TargetID]labyrinth.Target{
			"okhtik": {ID: "okhtik", NameLocal: "أختك", NameAlt: "ta sœur", Position: labyrinth.Position{Row: 1, Col: 2}},
		},
	}
	s, _ := labyrinth.NewMachine(nil).LoadLevel(labyrinth.NewState(), 1, layout)
	require.Equal(t, labyrinth.StatusInProgress, s.Round.Status)
	return s
}

func TestGlyphs(t *testing.T) {
	r := loadedState(t).Round

	tests := map[labyrinth.Position]rune{
		{}:               '@',
		{Col: 1}:         '█',
		{Col: 2}:         '▒',
		{Row: 1}:         '·',
		{Row: 1, Col: 2}: '★',
	}
	for p, want := range tests {
		got, _ := glyph(r, p)
		assert.Equal(t, string(want), string(got), p.String())
	}
}

func TestDrawPlacesGridBelowStatus(t *testing.T) {
	s := loadedState(t)
	rec := cellRecorder{}
	draw(rec, s, "notice", "")

	assert.Equal(t, 'L', rec[[2]int{0, 0}])
	assert.Equal(t, 'n', rec[[2]int{0, 1}])
	assert.Equal(t, '@', rec[[2]int{0, 3}])
	assert.Equal(t, '█', rec[[2]int{2, 3}])
	assert.Equal(t, '★', rec[[2]int{4, 4}])
}

func TestStatusLine(t *testing.T) {
	s := loadedState(t)
	s.Score = 4
	assert.Equal(t, "Level 1/3  ♥♥♥  ⏱ 60s  Score 4  [in_progress]", statusLine(s))

	s, _ = labyrinth.NewMachine(nil).Move(s, labyrinth.Up)
	assert.Contains(t, statusLine(s), "♥♥♡")
}
