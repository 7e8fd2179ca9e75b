package labyrinth

import (
	"errors"
	"fmt"
)

// Replay errors.
var (
	ErrEmptyPath     = errors.New("path is empty")
	ErrNotInProgress = errors.New("round is not in progress")
	ErrLocked        = errors.New("a replay is already running")
	ErrInvalidPath   = errors.New("path is not walkable from the player")
)

// ReplayStep is one position of a replay.
type ReplayStep struct {
	Position Position
	Final    bool
	Label    string // Algorithm that produced the path.
}

// Replay is a finite, non-restartable cursor over a validated path.
type Replay struct {
	steps []Position
	label string
	next  int
}

// Next yields the following step. ok is false once the path is exhausted.
func (p *Replay) Next() (step ReplayStep, ok bool) {
	if p.next >= len(p.steps) {
		return ReplayStep{}, false
	}
	pos := p.steps[p.next]
	p.next++
	return ReplayStep{Position: pos, Final: p.next == len(p.steps), Label: p.label}, true
}

// Len returns the number of steps in the replay.
func (p *Replay) Len() int {
	return len(p.steps)
}

// StartReplay locks manual movement and returns the cursor that drives the player along
// path. The path must start on or next to the player and move one cell at a time over
// non-wall cells.
func (m *Machine) StartReplay(s State, path []Position, label string) (State, *Replay, error) {
	r := s.Round
	switch {
	case len(path) == 0:
		return s, nil, ErrEmptyPath
	case r.Status != StatusInProgress:
		return s, nil, ErrNotInProgress
	case r.Locked:
		return s, nil, ErrLocked
	}

	prev := r.Player
	for i, p := range path {
		if !r.Grid.InBounds(p) || r.Grid.At(p) == Wall {
			return s, nil, fmt.Errorf("%w: step %d at %s", ErrInvalidPath, i, p)
		}
		if p != prev && !p.Adjacent(prev) {
			return s, nil, fmt.Errorf("%w: step %d jumps from %s to %s", ErrInvalidPath, i, prev, p)
		}
		prev = p
	}

	r.Locked = true
	s.Round = r
	return s, &Replay{steps: append([]Position(nil), path...), label: label}, nil
}

// AdvanceReplayStep moves the player to the step's position. Only the final step runs
// the win check, and it releases the lock whatever the outcome.
func (m *Machine) AdvanceReplayStep(s State, step ReplayStep) (State, []Event) {
	r := s.Round
	if r.Status != StatusInProgress || !r.Locked {
		return s, nil
	}

	r.Player = step.Position
	events := []Event{{Kind: EventReplayStep, Sound: SoundMove}}
	if !step.Final {
		s.Round = r
		return s, events
	}

	r.Locked = false
	s.Round = r
	s, found := m.arrive(s, NoticeReplayWon, step.Label)
	return s, append(events, found...)
}

// EndReplay releases the lock of an abandoned replay.
func (m *Machine) EndReplay(s State) State {
	s.Round.Locked = false
	return s
}
