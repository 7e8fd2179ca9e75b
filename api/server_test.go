package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/beka-birhanu/family-labyrinth/wire"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	require.NoError(t, RegisterLabyrinthServer(srv, &ServerConfig{
		Sessions: newSessions(t),
		Encoder:  &wire.Encoder{},
		Logger:   testLogger(t),
	}))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func field(s *structpb.Struct, name string) any {
	return s.AsMap()[name]
}

func TestGRPCSession(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	player := uuid.New()

	res, err := c.NewSession(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", field(res, "status"))
	assert.Equal(t, float64(1), field(res, "level"))
	assert.Equal(t, "khouk", field(res, "activeTarget").(map[string]any)["id"])

	for _, dir := range []string{"east", "east", "south", "south"} {
		res, err = c.Move(ctx, player, dir)
		require.NoError(t, err)
	}
	assert.Equal(t, "won", field(res, "status"))
	assert.Equal(t, float64(1), field(res, "score"))
	assert.Equal(t, true, field(res, "canAdvance"))

	res, err = c.Call(ctx, "AdvanceLevel", player, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), field(res, "level"))

	_, err = c.Call(ctx, "AdvanceLevel", player, nil)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	info, err := c.Call(ctx, "SessionInfo", player, nil)
	require.NoError(t, err)
	assert.Equal(t, "", field(info, "serverAddr"))

	_, err = c.Call(ctx, "EndSession", player, nil)
	require.NoError(t, err)
	_, err = c.State(ctx, player)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCReplay(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	player := uuid.New()
	_, err := c.NewSession(ctx, player)
	require.NoError(t, err)

	_, err = c.Replay(ctx, player, "bfs")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		res, err := c.State(ctx, player)
		return err == nil && field(res, "status") == "won"
	}, 2*time.Second, 5*time.Millisecond)

	res, err := c.State(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "replay_won", field(res, "notice").(map[string]any)["key"])
	assert.Equal(t, false, field(res, "locked"))
}

func TestGRPCInvalidArguments(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	player := uuid.New()
	_, err := c.NewSession(ctx, player)
	require.NoError(t, err)

	_, err = c.Move(ctx, player, "diagonal")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.LoadLevel(ctx, player, 3)
	assert.Equal(t, codes.Unavailable, status.Code(err), "final level needs two members")

	out := new(structpb.Struct)
	err = c.conn.Invoke(ctx, "/"+ServiceName+"/State", &structpb.Struct{}, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	in, err := structpb.NewStruct(map[string]any{fieldPlayer: "not-a-uuid"})
	require.NoError(t, err)
	err = c.conn.Invoke(ctx, "/"+ServiceName+"/Move", in, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServiceDescriptor(t *testing.T) {
	desc := serviceDesc()
	assert.Equal(t, ServiceName, desc.ServiceName)
	assert.Nil(t, desc.Metadata, "no .proto file backs the service")

	var names []string
	for _, m := range desc.Methods {
		names = append(names, m.MethodName)
	}
	assert.Equal(t, []string{
		"SessionInfo", "AdvanceLevel", "EndSession", "LoadLevel", "Move",
		"NewSession", "Replay", "RestartGame", "RestartLevel", "State",
	}, names)
}
