// Package mazesource supplies level layouts, generated in process or fetched over HTTP.
package mazesource

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	game_i "github.com/beka-birhanu/vinom-common/interfaces/game"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/zyedidia/generic/mapset"
)

const maxAttempts = 3

// Generator errors.
var (
	ErrGenerationFailed  = errors.New("could not generate a playable labyrinth")
	ErrMissingFactory    = errors.New("maze factory is required")
	ErrMissingEncoder    = errors.New("position encoder is required")
	ErrMissingLogger     = errors.New("logger is required")
	errTooFewCandidates  = errors.New("not enough far cells for the targets")
	errTooFewHazardSlots = errors.New("not enough free cells for the hazards")
)

// MazeFactory builds a perfect maze of width x height cells.
type MazeFactory func(width, height int) (game_i.Maze, error)

// WilsonConfig holds the collaborators of a Wilson generator.
type WilsonConfig struct {
	MazeFactory MazeFactory
	Encoder     game_i.GameEncoder // Builds the positions used to probe passages.
	Levels      Levels             // Optional, defaults to the embedded table.
	Rand        *rand.Rand         // Optional.
	Logger      general_i.Logger
}

// Wilson generates layouts from Wilson spanning-tree mazes. Every cell of the maze
// becomes an open grid cell and every wall between two cells a grid cell of its own.
type Wilson struct {
	newMaze MazeFactory
	encoder game_i.GameEncoder
	levels  Levels
	logger  general_i.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

func NewWilson(c *WilsonConfig) (*Wilson, error) {
	if c.MazeFactory == nil {
		return nil, ErrMissingFactory
	}
	if c.Encoder == nil {
		return nil, ErrMissingEncoder
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}

	w := &Wilson{
		newMaze: c.MazeFactory,
		encoder: c.Encoder,
		levels:  c.Levels,
		logger:  c.Logger,
		rand:    c.Rand,
	}
	if w.levels == nil {
		levels, err := DefaultLevels()
		if err != nil {
			return nil, err
		}
		w.levels = levels
	}
	if w.rand == nil {
		w.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return w, nil
}

// Fetch generates a layout for level, trying a few mazes before giving up.
func (w *Wilson) Fetch(ctx context.Context, level int) (labyrinth.Layout, error) {
	level = labyrinth.ClampLevel(level)
	lc, ok := w.levels[level]
	if !ok {
		return labyrinth.Layout{}, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return labyrinth.Layout{}, ctxErr
		}

		var cells [][]labyrinth.CellType
		cells, err = w.carve(lc.Cells)
		if err == nil {
			var layout labyrinth.Layout
			if layout, err = w.place(cells, lc); err == nil {
				return layout, nil
			}
		}
		w.logger.Warning(fmt.Sprintf("generating level %d, attempt %d: %s", level, attempt, err))
	}
	return labyrinth.Layout{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// carve turns an n x n cell maze into a (2n-1) x (2n-1) grid of open and wall cells.
func (w *Wilson) carve(n int) ([][]labyrinth.CellType, error) {
	m, err := w.newMaze(n, n)
	if err != nil {
		return nil, fmt.Errorf("creating maze: %w", err)
	}

	size := 2*n - 1
	cells := make([][]labyrinth.CellType, size)
	for r := range cells {
		cells[r] = make([]labyrinth.CellType, size)
		for c := range cells[r] {
			cells[r][c] = labyrinth.Wall
		}
	}

	passages := 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			cells[2*r][2*c] = labyrinth.Open
			if c+1 < n && w.passage(m, r, c, false) {
				cells[2*r][2*c+1] = labyrinth.Open
				passages++
			}
			if r+1 < n && w.passage(m, r, c, true) {
				cells[2*r+1][2*c] = labyrinth.Open
				passages++
			}
		}
	}
	if passages != n*n-1 {
		w.logger.Warning(fmt.Sprintf("maze of %d cells has %d passages", n*n, passages))
	}
	return cells, nil
}

// passage reports whether the maze lets the player leave cell (row, col) to the south,
// or to the east when south is false.
func (w *Wilson) passage(m game_i.Maze, row, col int, south bool) bool {
	pos := w.encoder.NewCellPosition()
	pos.SetRow(int32(row))
	pos.SetCol(int32(col))

	var err error
	if south {
		_, err = m.NewValidMove(pos, "South")
	} else {
		_, err = m.NewValidMove(pos, "East")
	}
	return err == nil
}

// place hides family members far from the start and sprinkles hazards off their
// shortest routes, so every member stays reachable without stepping on a hazard.
func (w *Wilson) place(cells [][]labyrinth.CellType, lc LevelConfig) (labyrinth.Layout, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := labyrinth.Position{}
	grid, err := labyrinth.NewGrid(cells)
	if err != nil {
		return labyrinth.Layout{}, err
	}

	var (
		far    []labyrinth.Position
		routes = map[labyrinth.Position][]labyrinth.Position{}
	)
	for r := range grid.Rows() {
		for c := range grid.Cols() {
			p := labyrinth.Position{Row: r, Col: c}
			if p == start || grid.At(p) != labyrinth.Open {
				continue
			}
			path := pathsource.ShortestPath(grid, start, p)
			if len(path) >= lc.MinPath {
				far = append(far, p)
				routes[p] = path
			}
		}
	}

	count := w.between(lc.Targets)
	if len(far) < count {
		return labyrinth.Layout{}, fmt.Errorf("%w: %d of %d", errTooFewCandidates, len(far), count)
	}
	w.rand.Shuffle(len(far), func(i, j int) { far[i], far[j] = far[j], far[i] })
	members := w.rand.Perm(len(Family))

	safe := mapset.New[labyrinth.Position]()
	safe.Put(start)
	targets := make(map[labyrinth.TargetID]labyrinth.Target, count)
	for k := range count {
		member := Family[members[k]]
		pos := far[k]
		targets[member.ID] = labyrinth.Target{
			ID:        member.ID,
			NameLocal: member.NameLocal,
			NameAlt:   member.NameAlt,
			Position:  pos,
		}
		for _, p := range routes[pos] {
			safe.Put(p)
		}
	}

	var free []labyrinth.Position
	for r := range grid.Rows() {
		for c := range grid.Cols() {
			if p := (labyrinth.Position{Row: r, Col: c}); !safe.Has(p) {
				free = append(free, p)
			}
		}
	}
	hazards := w.between(lc.Hazards)
	if len(free) < hazards {
		return labyrinth.Layout{}, fmt.Errorf("%w: %d of %d", errTooFewHazardSlots, len(free), hazards)
	}
	w.rand.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	final := make([][]labyrinth.CellType, len(cells))
	for r := range cells {
		final[r] = append([]labyrinth.CellType(nil), cells[r]...)
	}
	for _, p := range free[:hazards] {
		final[p.Row][p.Col] = labyrinth.Hazard
	}
	if grid, err = labyrinth.NewGrid(final); err != nil {
		return labyrinth.Layout{}, err
	}

	layout := labyrinth.Layout{Grid: grid, Start: start, Targets: targets}
	return layout, layout.Validate(lc.Level)
}

func (w *Wilson) between(r Range) int {
	return r.Min + w.rand.IntN(r.Max-r.Min+1)
}
