package wire

import (
	"encoding/json"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct{}

func (echo) Notice(n labyrinth.Notice) string { return "msg:" + string(n.Key) }

func inProgress(t *testing.T) labyrinth.State {
	t.Helper()
	grid, err := labyrinth.ParseGrid([][]int{{0, 1}, {2, 0}})
	require.NoError(t, err)
	layout := labyrinth.Layout{
		Grid:  grid,
		Start: labyrinth.Position{},
		Targets: map[labyrinth.TargetID]labyrinth.Target{
			"book": {ID: "book", NameLocal: "بوك", NameAlt: "ton père", Position: labyrinth.Position{Row: 1, Col: 1}},
		},
	}
	s, _ := labyrinth.NewMachine(nil).LoadLevel(labyrinth.NewState(), 2, layout)
	require.Equal(t, labyrinth.StatusInProgress, s.Round.Status)
	return s
}

func TestMarshalStateRoundTrip(t *testing.T) {
	e := &Encoder{Messages: echo{}}
	payload, err := e.MarshalState(inProgress(t))
	require.NoError(t, err)

	msg, err := UnmarshalState(payload)
	require.NoError(t, err)
	fields := msg.AsMap()

	assert.Equal(t, "in_progress", fields["status"])
	assert.Equal(t, float64(2), fields["level"])
	assert.Equal(t, float64(3), fields["lives"])
	assert.Equal(t, float64(50), fields["timeRemaining"])
	assert.Equal(t, []any{[]any{float64(0), float64(1)}, []any{float64(2), float64(0)}}, fields["grid"])
	assert.Equal(t, []any{float64(0), float64(0)}, fields["player"])
	assert.Equal(t, false, fields["canAdvance"])

	active := fields["activeTarget"].(map[string]any)
	assert.Equal(t, "book", active["id"])
	assert.Equal(t, "بوك", active["nameLocal"])

	notice := fields["notice"].(map[string]any)
	assert.Equal(t, "find_target", notice["key"])
	assert.Equal(t, "msg:find_target", notice["message"])
}

func TestMarshalStateJSONWithoutRound(t *testing.T) {
	e := &Encoder{}
	payload, err := e.MarshalStateJSON(labyrinth.NewState())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.Equal(t, "loading", fields["status"])
	assert.Nil(t, fields["activeTarget"])
	assert.NotContains(t, fields, "grid")
	assert.NotContains(t, fields["notice"], "message")
}
