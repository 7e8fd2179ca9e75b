package api

import (
	"context"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPlaysASession(t *testing.T) {
	d := NewDispatcher(newSessions(t))
	ctx := context.Background()
	player := uuid.New()

	s, err := d.Dispatch(ctx, Command{Action: ActionNewSession, Player: player})
	require.NoError(t, err)
	require.Equal(t, labyrinth.StatusInProgress, s.Round.Status)

	for _, dir := range []string{"right", "right", "down", "down"} {
		s, err = d.Dispatch(ctx, Command{Action: ActionMove, Player: player, Direction: dir})
		require.NoError(t, err)
	}
	assert.Equal(t, labyrinth.StatusWon, s.Round.Status)

	s, err = d.Dispatch(ctx, Command{Action: ActionAdvanceLevel, Player: player})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Round.Level)

	s, err = d.Dispatch(ctx, Command{Action: ActionLoadLevel, Player: player, Level: 3})
	assert.ErrorIs(t, err, service.ErrLoadFailed)
	assert.Equal(t, labyrinth.StatusError, s.Round.Status)

	s, err = d.Dispatch(ctx, Command{Action: ActionRestartGame, Player: player})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 1, s.Round.Level)

	_, err = d.Dispatch(ctx, Command{Action: ActionEndSession, Player: player})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, Command{Action: ActionState, Player: player})
	assert.ErrorIs(t, err, service.ErrNoSession)
}

func TestDispatchRejections(t *testing.T) {
	d := NewDispatcher(newSessions(t))
	ctx := context.Background()
	player := uuid.New()
	_, err := d.Dispatch(ctx, Command{Action: ActionNewSession, Player: player})
	require.NoError(t, err)

	_, err = d.Dispatch(ctx, Command{Action: ActionMove})
	assert.ErrorIs(t, err, ErrMissingPlayer)
	_, err = d.Dispatch(ctx, Command{Action: ActionMove, Player: player, Direction: "diagonal"})
	assert.ErrorIs(t, err, labyrinth.ErrUnknownDir)
	_, err = d.Dispatch(ctx, Command{Action: ActionLoadLevel, Player: player})
	assert.ErrorIs(t, err, ErrMissingLevel)
	_, err = d.Dispatch(ctx, Command{Action: "fly", Player: player})
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = d.Dispatch(ctx, Command{Action: ActionAdvanceLevel, Player: player})
	assert.ErrorIs(t, err, service.ErrCannotAdvance)
}
