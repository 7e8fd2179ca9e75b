package i

import (
	"context"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
)

// GameServer runs the rounds of one player session.
type GameServer interface {
	// Start runs the event loop until Stop is called.
	Start()

	// Stop cancels the timer and any replay, then ends the event loop.
	Stop()

	// LoadLevel replaces the current round with a fresh round of the given level.
	LoadLevel(ctx context.Context, level int) (labyrinth.State, error)

	// RestartLevel reloads the current level.
	RestartLevel(ctx context.Context) (labyrinth.State, error)

	// AdvanceLevel loads the next level once the current one is won and unlocked.
	AdvanceLevel(ctx context.Context) (labyrinth.State, error)

	// RestartGame clears the score and loads the first level.
	RestartGame(ctx context.Context) (labyrinth.State, error)

	// Move applies a move signal and returns the resulting state.
	Move(dir labyrinth.Direction) labyrinth.State

	// Replay asks the path source for a path to the active target and animates it.
	Replay(ctx context.Context, algorithm string) (labyrinth.State, error)

	// Snapshot returns the latest published state.
	Snapshot() labyrinth.State

	// Subscribe returns a channel signalled after every state change and a func to cancel it.
	Subscribe() (<-chan struct{}, func())
}
