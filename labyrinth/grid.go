package labyrinth

import (
	"errors"
	"fmt"
	"strings"
)

// Grid-related errors.
var (
	ErrEmptyGrid     = errors.New("grid is empty")
	ErrRaggedGrid    = errors.New("grid rows have different lengths")
	ErrUnknownCell   = errors.New("unknown cell code")
	ErrUnknownDir    = errors.New("unknown direction")
	ErrOutOfBounds   = errors.New("position is outside the grid")
	ErrBlockedCell   = errors.New("position is not an open cell")
	ErrNoTargets     = errors.New("no targets")
	ErrTooFewTargets = errors.New("not enough targets for the level")
	ErrTargetID      = errors.New("target id does not match its key")
)

// CellType is the closed set of cell kinds a grid is made of.
type CellType uint8

const (
	Open   CellType = iota // Walkable cell.
	Wall                   // Blocks movement, costs one life.
	Hazard                 // Walkable, costs two lives on entry.
)

// ParseCellType maps a wire cell code (0, 1, 2) to a CellType.
func ParseCellType(code int) (CellType, error) {
	switch code {
	case 0:
		return Open, nil
	case 1:
		return Wall, nil
	case 2:
		return Hazard, nil
	}
	return Open, fmt.Errorf("%w: %d", ErrUnknownCell, code)
}

// Code returns the wire code of the cell type.
func (c CellType) Code() int {
	return int(c)
}

func (c CellType) String() string {
	switch c {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case Hazard:
		return "hazard"
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

// Position is a (row, col) coordinate on the grid.
type Position struct {
	Row int
	Col int
}

// Add returns the position shifted by the given offset.
func (p Position) Add(o Position) Position {
	return Position{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Adjacent reports whether q is one orthogonal step away from p.
func (p Position) Adjacent(q Position) bool {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	return dr*dr+dc*dc == 1
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four move signals.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

var directionOffsets = map[Direction]Position{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
	Right: {Row: 0, Col: 1},
}

var directionNames = map[string]Direction{
	"up":    Up,
	"north": Up,
	"down":  Down,
	"south": Down,
	"left":  Left,
	"west":  Left,
	"right": Right,
	"east":  Right,
}

// ParseDirection accepts up/down/left/right and the compass names.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Up, fmt.Errorf("%w: %q", ErrUnknownDir, s)
	}
	return d, nil
}

// Offset is the unit step of the direction.
func (d Direction) Offset() Position {
	return directionOffsets[d]
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Grid is an immutable rectangular matrix of cells.
type Grid struct {
	cells [][]CellType
	rows  int
	cols  int
}

// NewGrid copies rows into a new grid. Rows must be non-empty and of equal length.
func NewGrid(rows [][]CellType) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len(rows[0])
	cells := make([][]CellType, len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedGrid, r, len(row), cols)
		}
		cells[r] = append([]CellType(nil), row...)
	}

	return &Grid{cells: cells, rows: len(rows), cols: cols}, nil
}

// ParseGrid builds a grid from wire cell codes.
func ParseGrid(codes [][]int) (*Grid, error) {
	rows := make([][]CellType, len(codes))
	for r, line := range codes {
		rows[r] = make([]CellType, len(line))
		for c, code := range line {
			cell, err := ParseCellType(code)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			rows[r][c] = cell
		}
	}
	return NewGrid(rows)
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the cell at p. The caller must check InBounds first.
func (g *Grid) At(p Position) CellType {
	return g.cells[p.Row][p.Col]
}

// Codes returns the grid as wire cell codes.
func (g *Grid) Codes() [][]int {
	out := make([][]int, g.rows)
	for r, row := range g.cells {
		out[r] = make([]int, g.cols)
		for c, cell := range row {
			out[r][c] = cell.Code()
		}
	}
	return out
}

// String renders the grid one row per line: '.' open, '#' wall, '!' hazard.
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		for _, cell := range row {
			switch cell {
			case Wall:
				b.WriteByte('#')
			case Hazard:
				b.WriteByte('!')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TargetID identifies a family member in a layout.
type TargetID string

// Target is a family member the player may be asked to reach.
type Target struct {
	ID        TargetID
	NameLocal string // Darija display name.
	NameAlt   string // French display name.
	Position  Position
}

// Layout is one Maze Source response: a grid, a start cell and the targets placed on it.
type Layout struct {
	Grid    *Grid
	Start   Position
	Targets map[TargetID]Target
}

// Validate checks the layout can host a round of the given level.
func (l Layout) Validate(level int) error {
	if l.Grid == nil {
		return ErrEmptyGrid
	}
	if !l.Grid.InBounds(l.Start) {
		return fmt.Errorf("start %s: %w", l.Start, ErrOutOfBounds)
	}
	if l.Grid.At(l.Start) != Open {
		return fmt.Errorf("start %s: %w", l.Start, ErrBlockedCell)
	}
	if len(l.Targets) == 0 {
		return ErrNoTargets
	}
	if level >= MaxLevel && len(l.Targets) < targetsToWinFinalLevel {
		return fmt.Errorf("%w: level %d needs %d, got %d", ErrTooFewTargets, level, targetsToWinFinalLevel, len(l.Targets))
	}
	for id, t := range l.Targets {
		if t.ID != id {
			return fmt.Errorf("target %q carries id %q: %w", id, t.ID, ErrTargetID)
		}
		if !l.Grid.InBounds(t.Position) {
			return fmt.Errorf("target %q at %s: %w", id, t.Position, ErrOutOfBounds)
		}
		if l.Grid.At(t.Position) != Open {
			return fmt.Errorf("target %q at %s: %w", id, t.Position, ErrBlockedCell)
		}
	}
	return nil
}
