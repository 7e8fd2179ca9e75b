package mazesource

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	game_i "github.com/beka-birhanu/vinom-common/interfaces/game"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serpentine is a carved 4x4 maze whose only route snakes through every row.
var serpentine = []string{
	".......",
	"######.",
	".......",
	".######",
	".......",
	"######.",
	".......",
}

func cellsOf(rows []string) [][]labyrinth.CellType {
	cells := make([][]labyrinth.CellType, len(rows))
	for r, row := range rows {
		for _, ch := range row {
			if ch == '#' {
				cells[r] = append(cells[r], labyrinth.Wall)
			} else {
				cells[r] = append(cells[r], labyrinth.Open)
			}
		}
	}
	return cells
}

func testWilson(t *testing.T, seed uint64) *Wilson {
	t.Helper()
	levels, err := DefaultLevels()
	require.NoError(t, err)
	l, err := logger.New("TEST", "", io.Discard)
	require.NoError(t, err)
	return &Wilson{levels: levels, logger: l, rand: rand.New(rand.NewPCG(seed, seed+1))}
}

func TestPlaceFollowsLevelRules(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		w := testWilson(t, seed)
		for level := labyrinth.MinLevel; level <= labyrinth.MaxLevel; level++ {
			lc := w.levels[level]
			layout, err := w.place(cellsOf(serpentine), lc)
			require.NoError(t, err, "seed %d level %d", seed, level)
			require.NoError(t, layout.Validate(level))

			assert.Equal(t, labyrinth.Open, layout.Grid.At(layout.Start))
			assert.GreaterOrEqual(t, len(layout.Targets), lc.Targets.Min)
			assert.LessOrEqual(t, len(layout.Targets), lc.Targets.Max)

			hazards := 0
			for _, row := range layout.Grid.Codes() {
				for _, code := range row {
					if code == labyrinth.Hazard.Code() {
						hazards++
					}
				}
			}
			assert.GreaterOrEqual(t, hazards, lc.Hazards.Min, "level %d", level)
			assert.LessOrEqual(t, hazards, lc.Hazards.Max, "level %d", level)

			for id, target := range layout.Targets {
				assert.Equal(t, id, target.ID)
				assert.NotEmpty(t, target.NameLocal)
				path := pathsource.ShortestPath(layout.Grid, layout.Start, target.Position)
				require.NotEmpty(t, path, "%s unreachable without hazards", id)
				assert.GreaterOrEqual(t, len(path), lc.MinPath)
			}
		}
	}
}

func TestPlaceNeedsFarCells(t *testing.T) {
	w := testWilson(t, 7)
	lc := w.levels[3]
	lc.MinPath = 40

	_, err := w.place(cellsOf(serpentine), lc)
	assert.ErrorIs(t, err, errTooFewCandidates)
}

func TestFetchGivesUpAfterAttempts(t *testing.T) {
	w := testWilson(t, 3)
	calls := 0
	w.newMaze = func(width, height int) (game_i.Maze, error) {
		calls++
		return nil, assert.AnError
	}

	_, err := w.Fetch(context.Background(), 2)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, maxAttempts, calls)
}

func TestNewWilsonRequiresCollaborators(t *testing.T) {
	_, err := NewWilson(&WilsonConfig{})
	assert.ErrorIs(t, err, ErrMissingFactory)
}
