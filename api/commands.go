package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/google/uuid"
)

// Command actions.
const (
	ActionNewSession   = "new_session"
	ActionLoadLevel    = "load_level"
	ActionMove         = "move"
	ActionReplay       = "replay"
	ActionRestartLevel = "restart_level"
	ActionAdvanceLevel = "advance_level"
	ActionRestartGame  = "restart_game"
	ActionState        = "state"
	ActionEndSession   = "end_session"
)

// DefaultAlgorithm is the path search used when a replay names none.
const DefaultAlgorithm = "bfs"

// Command errors.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingPlayer = errors.New("player id is required")
	ErrMissingLevel  = errors.New("level is required")
)

// Command is a player request, whatever transport it came from.
type Command struct {
	Action    string
	Player    uuid.UUID
	Direction string
	Level     int
	Algorithm string
}

// Dispatcher runs commands against the player sessions.
type Dispatcher struct {
	sessions i.GameSessionManager
}

func NewDispatcher(sessions i.GameSessionManager) *Dispatcher {
	return &Dispatcher{sessions: sessions}
}

// Dispatch runs cmd and returns the resulting state of the player's game. On error the
// state is the game's latest one when it is known.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (labyrinth.State, error) {
	if cmd.Player == uuid.Nil {
		return labyrinth.State{}, ErrMissingPlayer
	}

	switch cmd.Action {
	case ActionNewSession:
		return d.sessions.NewSession(ctx, cmd.Player)
	case ActionEndSession:
		game, err := d.sessions.Session(cmd.Player)
		if err != nil {
			return labyrinth.State{}, err
		}
		last := game.Snapshot()
		return last, d.sessions.EndSession(cmd.Player)
	}

	game, err := d.sessions.Session(cmd.Player)
	if err != nil {
		return labyrinth.State{}, err
	}

	switch cmd.Action {
	case ActionLoadLevel:
		if cmd.Level == 0 {
			return game.Snapshot(), ErrMissingLevel
		}
		return game.LoadLevel(ctx, cmd.Level)
	case ActionMove:
		dir, err := labyrinth.ParseDirection(cmd.Direction)
		if err != nil {
			return game.Snapshot(), err
		}
		return game.Move(dir), nil
	case ActionReplay:
		algorithm := cmd.Algorithm
		if algorithm == "" {
			algorithm = DefaultAlgorithm
		}
		return game.Replay(ctx, algorithm)
	case ActionRestartLevel:
		return game.RestartLevel(ctx)
	case ActionAdvanceLevel:
		return game.AdvanceLevel(ctx)
	case ActionRestartGame:
		return game.RestartGame(ctx)
	case ActionState:
		return game.Snapshot(), nil
	}
	return game.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
}
