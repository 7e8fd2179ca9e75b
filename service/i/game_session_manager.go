package i

import (
	"context"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/google/uuid"
)

// GameSessionManager manages game sessions and provides session-related information.
type GameSessionManager interface {
	// NewSession starts a game for the player and loads the first level.
	NewSession(ctx context.Context, playerID uuid.UUID) (labyrinth.State, error)

	// Session returns the running game of the player.
	Session(playerID uuid.UUID) (GameServer, error)

	// EndSession stops the player's game and forgets it.
	EndSession(playerID uuid.UUID) error

	StopAll()

	// SessionInfo returns the public key, socket address.
	SessionInfo(uuid.UUID) ([]byte, string, error)
}
