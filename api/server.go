// Package api exposes player sessions over gRPC, websockets and plain HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the full gRPC service name. The service has no .proto file: every
// method takes and returns a google.protobuf.Struct, so any protobuf runtime can call it
// by name. Responses carry the state built by StateEncoder, or the SessionInfo fields.
const ServiceName = "labyrinth.v1.Labyrinth"

// Request fields, all optional except playerId:
//
//	playerId   string, uuid of the player (every method)
//	direction  string, up/down/left/right or north/south/west/east (Move)
//	level      number, 1..3 (LoadLevel)
//	algorithm  string, "bfs" | "dfs", empty means bfs (Replay)
const (
	fieldPlayer    = "playerId"
	fieldDirection = "direction"
	fieldLevel     = "level"
	fieldAlgorithm = "algorithm"
)

// RPC methods and the command each one runs.
var methods = map[string]string{
	"NewSession":   ActionNewSession,
	"LoadLevel":    ActionLoadLevel,
	"Move":         ActionMove,
	"Replay":       ActionReplay,
	"RestartLevel": ActionRestartLevel,
	"AdvanceLevel": ActionAdvanceLevel,
	"RestartGame":  ActionRestartGame,
	"State":        ActionState,
	"EndSession":   ActionEndSession,
}

const sessionInfoMethod = "SessionInfo"

// StateEncoder converts a state into a response message.
type StateEncoder interface {
	StateStruct(s labyrinth.State) (*structpb.Struct, error)
}

// labyrinthHandler is the handler type of the service descriptor.
type labyrinthHandler interface {
	handle(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error)
}

type Server struct {
	gameSessionManager i.GameSessionManager
	dispatcher         *Dispatcher
	encoder            StateEncoder
	logger             general_i.Logger
}

// ServerConfig holds the collaborators of a Server.
type ServerConfig struct {
	Sessions i.GameSessionManager
	Encoder  StateEncoder
	Logger   general_i.Logger
}

// RegisterLabyrinthServer registers the labyrinth service on gsr.
func RegisterLabyrinthServer(gsr grpc.ServiceRegistrar, c *ServerConfig) error {
	if c.Sessions == nil || c.Encoder == nil || c.Logger == nil {
		return errors.New("sessions, encoder and logger are required")
	}
	server := &Server{
		gameSessionManager: c.Sessions,
		dispatcher:         NewDispatcher(c.Sessions),
		encoder:            c.Encoder,
		logger:             c.Logger,
	}

	gsr.RegisterService(serviceDesc(), server)
	return nil
}

func serviceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*labyrinthHandler)(nil),
		Streams:     []grpc.StreamDesc{},
	}
	for _, name := range append([]string{sessionInfoMethod}, sortedMethods()...) {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(name),
		})
	}
	return desc
}

func sortedMethods() []string {
	return slices.Sorted(maps.Keys(methods))
}

func unaryHandler(method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		h := srv.(labyrinthHandler)
		if interceptor == nil {
			return h.handle(ctx, method, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return h.handle(ctx, method, req.(*structpb.Struct))
		})
	}
}

func (s *Server) handle(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	cmd, err := commandFrom(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if method == sessionInfoMethod {
		return s.sessionInfo(cmd.Player)
	}

	cmd.Action = methods[method]
	state, err := s.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("%s for player %s: %s", method, cmd.Player, err))
		return nil, statusFrom(err)
	}
	if cmd.Action == ActionEndSession {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}

	res, err := s.encoder.StateStruct(state)
	if err != nil {
		s.logger.Error(fmt.Sprintf("encoding state for player %s: %s", cmd.Player, err))
		return nil, status.Error(codes.Internal, "encoding state")
	}
	return res, nil
}

func (s *Server) sessionInfo(playerID uuid.UUID) (*structpb.Struct, error) {
	pubKey, serverAddr, err := s.gameSessionManager.SessionInfo(playerID)
	if err != nil {
		return nil, statusFrom(err)
	}
	res, err := structpb.NewStruct(map[string]any{
		"serverPubKey": string(pubKey),
		"serverAddr":   serverAddr,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return res, nil
}

func commandFrom(req *structpb.Struct) (Command, error) {
	fields := req.GetFields()

	raw := fields[fieldPlayer].GetStringValue()
	if raw == "" {
		return Command{}, ErrMissingPlayer
	}
	playerID, err := uuid.Parse(raw)
	if err != nil {
		return Command{}, fmt.Errorf("parsing playerId: %w", err)
	}

	return Command{
		Player:    playerID,
		Direction: fields[fieldDirection].GetStringValue(),
		Level:     int(fields[fieldLevel].GetNumberValue()),
		Algorithm: fields[fieldAlgorithm].GetStringValue(),
	}, nil
}

// statusFrom maps service errors to gRPC status codes.
func statusFrom(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, service.ErrNoSession):
		code = codes.NotFound
	case errors.Is(err, ErrMissingPlayer), errors.Is(err, ErrMissingLevel),
		errors.Is(err, ErrUnknownAction), errors.Is(err, labyrinth.ErrUnknownDir):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrCannotAdvance), errors.Is(err, service.ErrReplayRejected),
		errors.Is(err, service.ErrUnreachable), errors.Is(err, service.ErrStaleRound):
		code = codes.FailedPrecondition
	case errors.Is(err, service.ErrLoadFailed):
		code = codes.Unavailable
	case errors.Is(err, service.ErrGameStopped), errors.Is(err, context.Canceled):
		code = codes.Aborted
	}
	return status.Error(code, err.Error())
}
