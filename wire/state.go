// Package wire encodes game states for clients.
package wire

import (
	"maps"
	"slices"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Translator renders a notice as text.
type Translator interface {
	Notice(n labyrinth.Notice) string
}

// Encoder serialises states as google.protobuf.Struct messages.
type Encoder struct {
	Messages Translator // Optional; without it notices carry no text.
}

// MarshalState encodes s in the protobuf binary format.
func (e *Encoder) MarshalState(s labyrinth.State) ([]byte, error) {
	msg, err := e.StateStruct(s)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// MarshalStateJSON encodes s as JSON.
func (e *Encoder) MarshalStateJSON(s labyrinth.State) ([]byte, error) {
	msg, err := e.StateStruct(s)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(msg)
}

// UnmarshalState decodes a payload produced by MarshalState.
func UnmarshalState(b []byte) (*structpb.Struct, error) {
	msg := &structpb.Struct{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// StateStruct converts s into a Struct.
func (e *Encoder) StateStruct(s labyrinth.State) (*structpb.Struct, error) {
	r := s.Round

	notice := map[string]any{
		"key":  string(r.Notice.Key),
		"args": anySlice(r.Notice.Args),
	}
	if e.Messages != nil {
		notice["message"] = e.Messages.Notice(r.Notice)
	}

	fields := map[string]any{
		"score":            s.Score,
		"maxLevelUnlocked": s.MaxLevelUnlocked,
		"canAdvance":       s.CanAdvance(),
		"level":            r.Level,
		"status":           r.Status.String(),
		"reason":           string(r.Reason),
		"lives":            r.Lives,
		"maxLives":         labyrinth.StartingLives(r.Level),
		"timeRemaining":    r.TimeRemaining,
		"locked":           r.Locked,
		"diagnostic":       r.Diagnostic,
		"notice":           notice,
		"found":            idSlice(r.Found()),
		"player":           position(r.Player),
		"start":            position(r.Start),
		"activeTarget":     nil,
	}

	if r.Grid != nil {
		grid := make([]any, 0, r.Grid.Rows())
		for _, row := range r.Grid.Codes() {
			cells := make([]any, len(row))
			for c, code := range row {
				cells[c] = code
			}
			grid = append(grid, cells)
		}
		fields["grid"] = grid
	}

	targets := make(map[string]any, len(r.Targets))
	for _, id := range slices.Sorted(maps.Keys(r.Targets)) {
		targets[string(id)] = target(r.Targets[id])
	}
	fields["targets"] = targets
	if t, ok := r.ActiveTarget(); ok {
		fields["activeTarget"] = target(t)
	}

	return structpb.NewStruct(fields)
}

func position(p labyrinth.Position) []any {
	return []any{p.Row, p.Col}
}

func target(t labyrinth.Target) map[string]any {
	return map[string]any{
		"id":        string(t.ID),
		"nameLocal": t.NameLocal,
		"nameAlt":   t.NameAlt,
		"pos":       position(t.Position),
	}
}

func idSlice(ids []labyrinth.TargetID) []any {
	out := make([]any, len(ids))
	for n, id := range ids {
		out[n] = string(id)
	}
	return out
}

func anySlice(args []any) []any {
	out := make([]any, len(args))
	for n, a := range args {
		switch v := a.(type) {
		case labyrinth.TargetID:
			out[n] = string(v)
		default:
			out[n] = v
		}
	}
	return out
}
