package api

import (
	"context"

	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the labyrinth service. Responses are the encoded states.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call invokes method with the given request fields.
func (c *Client) Call(ctx context.Context, method string, player uuid.UUID, fields map[string]any) (*structpb.Struct, error) {
	req := map[string]any{fieldPlayer: player.String()}
	for k, v := range fields {
		req[k] = v
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) NewSession(ctx context.Context, player uuid.UUID) (*structpb.Struct, error) {
	return c.Call(ctx, "NewSession", player, nil)
}

func (c *Client) Move(ctx context.Context, player uuid.UUID, direction string) (*structpb.Struct, error) {
	return c.Call(ctx, "Move", player, map[string]any{fieldDirection: direction})
}

func (c *Client) LoadLevel(ctx context.Context, player uuid.UUID, level int) (*structpb.Struct, error) {
	return c.Call(ctx, "LoadLevel", player, map[string]any{fieldLevel: level})
}

func (c *Client) Replay(ctx context.Context, player uuid.UUID, algorithm string) (*structpb.Struct, error) {
	return c.Call(ctx, "Replay", player, map[string]any{fieldAlgorithm: algorithm})
}

func (c *Client) State(ctx context.Context, player uuid.UUID) (*structpb.Struct, error) {
	return c.Call(ctx, "State", player, nil)
}
