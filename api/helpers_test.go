package api

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	"github.com/beka-birhanu/family-labyrinth/service"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) general_i.Logger {
	t.Helper()
	l, err := logger.New("TEST", "", io.Discard)
	require.NoError(t, err)
	return l
}

type fixedMazes struct {
	layout labyrinth.Layout
}

func (f fixedMazes) Fetch(context.Context, int) (labyrinth.Layout, error) {
	return f.layout, nil
}

// corridor is a 3x3 grid around a wall with one member in the far corner.
func corridor(t *testing.T) labyrinth.Layout {
	t.Helper()
	g, err := labyrinth.ParseGrid([][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	require.NoError(t, err)
	return labyrinth.Layout{
		Grid: g,
		Targets: map[labyrinth.TargetID]labyrinth.Target{
			"khouk": {ID: "khouk", NameLocal: "خوك", NameAlt: "ton frère", Position: labyrinth.Position{Row: 2, Col: 2}},
		},
	}
}

func newSessions(t *testing.T) *service.GameSessionManager {
	t.Helper()
	layout := corridor(t)
	gsm, err := service.NewGameSessionManager(&service.Config{
		GameFactory: func(uuid.UUID) (i.GameServer, error) {
			game, err := service.NewGame(&service.GameConfig{
				Mazes:              fixedMazes{layout: layout},
				Paths:              pathsource.Solver{},
				Machine:            labyrinth.NewMachine(func(int) int { return 0 }),
				Logger:             testLogger(t),
				TickInterval:       time.Hour,
				ReplayStepInterval: time.Millisecond,
			})
			if err != nil {
				return nil, err
			}
			return game, nil
		},
		Encoder: statusOnly{},
		Logger:  testLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(gsm.StopAll)
	return gsm
}

type statusOnly struct{}

func (statusOnly) MarshalState(s labyrinth.State) ([]byte, error) {
	return []byte(s.Round.Status.String()), nil
}
