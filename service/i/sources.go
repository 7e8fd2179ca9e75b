package i

import (
	"context"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
)

// MazeSource supplies the layout of a level.
type MazeSource interface {
	Fetch(ctx context.Context, level int) (labyrinth.Layout, error)
}

// PathRequest describes the path wanted from the player to a target.
type PathRequest struct {
	TargetID  labyrinth.TargetID
	Algorithm string
	From      labyrinth.Position
	Goal      labyrinth.Position
	Grid      *labyrinth.Grid
}

// PathSource returns the ordered positions from the player to the target. An empty
// path means the target is unreachable.
type PathSource interface {
	FindPath(ctx context.Context, req PathRequest) ([]labyrinth.Position, error)
}

// SoundPlayer is the fire-and-forget audio hook.
type SoundPlayer interface {
	Play(sound labyrinth.Sound) error
}
