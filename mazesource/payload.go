package mazesource

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
)

// ErrMalformed is returned for a maze payload that cannot describe a layout.
var ErrMalformed = errors.New("malformed maze payload")

// Payload is the JSON body served by a remote maze source.
type Payload struct {
	Grid    [][]int                  `json:"grid"`
	Start   []int                    `json:"start"`
	Targets map[string]TargetPayload `json:"targets"`
}

type TargetPayload struct {
	NameAr string `json:"name_ar"`
	NameFr string `json:"name_fr"`
	Pos    []int  `json:"pos"`
}

// Layout converts the payload. Placement rules are checked when the round is loaded.
func (p Payload) Layout() (labyrinth.Layout, error) {
	grid, err := labyrinth.ParseGrid(p.Grid)
	if err != nil {
		return labyrinth.Layout{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	start, err := pair(p.Start)
	if err != nil {
		return labyrinth.Layout{}, fmt.Errorf("%w: start: %w", ErrMalformed, err)
	}

	targets := make(map[labyrinth.TargetID]labyrinth.Target, len(p.Targets))
	for id, t := range p.Targets {
		pos, err := pair(t.Pos)
		if err != nil {
			return labyrinth.Layout{}, fmt.Errorf("%w: target %s: %w", ErrMalformed, id, err)
		}
		targets[labyrinth.TargetID(id)] = labyrinth.Target{
			ID:        labyrinth.TargetID(id),
			NameLocal: t.NameAr,
			NameAlt:   t.NameFr,
			Position:  pos,
		}
	}
	return labyrinth.Layout{Grid: grid, Start: start, Targets: targets}, nil
}

// NewPayload is the inverse of Layout.
func NewPayload(l labyrinth.Layout) Payload {
	p := Payload{
		Grid:    l.Grid.Codes(),
		Start:   []int{l.Start.Row, l.Start.Col},
		Targets: make(map[string]TargetPayload, len(l.Targets)),
	}
	for id, t := range l.Targets {
		p.Targets[string(id)] = TargetPayload{
			NameAr: t.NameLocal,
			NameFr: t.NameAlt,
			Pos:    []int{t.Position.Row, t.Position.Col},
		}
	}
	return p
}

func pair(v []int) (labyrinth.Position, error) {
	if len(v) != 2 {
		return labyrinth.Position{}, fmt.Errorf("want [row, col], got %v", v)
	}
	return labyrinth.Position{Row: v[0], Col: v[1]}, nil
}
