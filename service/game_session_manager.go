package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	"github.com/google/uuid"
)

// UDP action and record types.
const (
	moveActionType         = 3 << iota // Payload: one direction byte.
	stateRequestActionType             // No payload.
	replayActionType                   // Payload: algorithm tag.

	gameStateRecordType = 10
	gameEndedRecordType = 11
)

// Session errors.
var (
	ErrNoSession          = errors.New("no session")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingGameFactory = errors.New("game factory is required")
	ErrMissingEncoder     = errors.New("state encoder is required")
)

// StateEncoder turns a state into the bytes pushed to UDP clients.
type StateEncoder interface {
	MarshalState(s labyrinth.State) ([]byte, error)
}

// broadcaster pushes encoded states to players.
type broadcaster interface {
	pushState(players []uuid.UUID, payload []byte)
	pushEnd(players []uuid.UUID, payload []byte)
}

type socketBroadcaster struct {
	socket socket_i.ServerSocketManager
}

func (b *socketBroadcaster) pushState(players []uuid.UUID, payload []byte) {
	b.socket.BroadcastToClients(players, gameStateRecordType, payload)
}

func (b *socketBroadcaster) pushEnd(players []uuid.UUID, payload []byte) {
	b.socket.BroadcastToClients(players, gameEndedRecordType, payload)
}

type session struct {
	game       i.GameServer
	stopListen func()
}

// GameSessionManager runs one game per player and relays its states over UDP.
type GameSessionManager struct {
	socket      socket_i.ServerSocketManager
	broadcast   broadcaster
	sessions    map[uuid.UUID]session
	gameFactory func(uuid.UUID) (i.GameServer, error)
	encoder     StateEncoder
	logger      general_i.Logger
	sync.RWMutex
}

// Config holds the collaborators of a GameSessionManager. Socket may be nil when
// clients only use gRPC and websockets.
type Config struct {
	Socket      socket_i.ServerSocketManager
	GameFactory func(playerID uuid.UUID) (i.GameServer, error)
	Encoder     StateEncoder
	Logger      general_i.Logger
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.GameFactory == nil {
		return nil, ErrMissingGameFactory
	}
	if c.Encoder == nil {
		return nil, ErrMissingEncoder
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}

	gsm := &GameSessionManager{
		socket:      c.Socket,
		gameFactory: c.GameFactory,
		encoder:     c.Encoder,
		logger:      c.Logger,
		sessions:    make(map[uuid.UUID]session),
	}

	if c.Socket != nil {
		gsm.broadcast = &socketBroadcaster{socket: c.Socket}
		c.Socket.SetClientRequestHandler(gsm.writePlayerRequest)
		c.Socket.SetClientAuthenticator(gsm)
	}
	return gsm, nil
}

// NewSession starts a game for the player and loads the first level. A player who
// already has a session gets a fresh one.
func (g *GameSessionManager) NewSession(ctx context.Context, playerID uuid.UUID) (labyrinth.State, error) {
	game, err := g.gameFactory(playerID)
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating game for player %s: %s", playerID, err))
		return labyrinth.State{}, err
	}

	go game.Start()
	updates, unsubscribe := game.Subscribe()
	listenerDone := make(chan struct{})
	stopListen := func() {
		unsubscribe()
		close(listenerDone)
	}

	g.Lock()
	old, replaced := g.sessions[playerID]
	g.sessions[playerID] = session{game: game, stopListen: stopListen}
	g.Unlock()

	if replaced {
		old.stopListen()
		old.game.Stop()
		g.logger.Info(fmt.Sprintf("replaced session of player: %s", playerID))
	}

	go g.listenGame(playerID, game, updates, listenerDone)
	g.logger.Info(fmt.Sprintf("started new game for player: %s", playerID))

	return game.LoadLevel(ctx, labyrinth.MinLevel)
}

// Session returns the running game of the player.
func (g *GameSessionManager) Session(playerID uuid.UUID) (i.GameServer, error) {
	g.RLock()
	defer g.RUnlock()
	s, ok := g.sessions[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	return s.game, nil
}

// EndSession stops the player's game and forgets it.
func (g *GameSessionManager) EndSession(playerID uuid.UUID) error {
	g.Lock()
	s, ok := g.sessions[playerID]
	delete(g.sessions, playerID)
	g.Unlock()

	if !ok {
		return ErrNoSession
	}
	s.stopListen()
	s.game.Stop()
	g.logger.Info(fmt.Sprintf("ended session of player: %s", playerID))
	return nil
}

func (g *GameSessionManager) SessionInfo(playerID uuid.UUID) ([]byte, string, error) {
	g.RLock()
	defer g.RUnlock()
	if _, ok := g.sessions[playerID]; !ok {
		return nil, "", ErrNoSession
	}
	if g.socket == nil {
		return nil, "", nil
	}
	return g.socket.GetPublicKey(), g.socket.GetAddr(), nil
}

// Authenticate accepts a UDP token made of the player's uuid bytes.
func (g *GameSessionManager) Authenticate(s []byte) (uuid.UUID, error) {
	g.RLock()
	defer g.RUnlock()
	id, err := uuid.FromBytes(s)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	if _, ok := g.sessions[id]; !ok {
		return uuid.Nil, fmt.Errorf("player %s: %w", id, ErrNoSession)
	}

	g.logger.Info(fmt.Sprintf("authenticated player: %s", id))
	return id, nil
}

func (g *GameSessionManager) listenGame(playerID uuid.UUID, game i.GameServer, updates <-chan struct{}, done <-chan struct{}) {
	players := []uuid.UUID{playerID}
	var lastStatus labyrinth.Status
	for {
		select {
		case <-done:
			return
		case <-updates:
			state := game.Snapshot()
			payload, err := g.encoder.MarshalState(state)
			if err != nil {
				g.logger.Error(fmt.Sprintf("encoding state of player %s: %s", playerID, err))
				continue
			}
			if g.broadcast == nil {
				continue
			}
			g.broadcast.pushState(players, payload)
			if status := state.Round.Status; status.Terminal() && status != lastStatus {
				g.broadcast.pushEnd(players, payload)
			}
			lastStatus = state.Round.Status
		}
	}
}

func (g *GameSessionManager) writePlayerRequest(pID uuid.UUID, actionType byte, payload []byte) {
	game, err := g.Session(pID)
	if err != nil {
		g.logger.Warning("received request for player without session")
		return
	}

	switch actionType {
	case moveActionType:
		if len(payload) != 1 || labyrinth.Direction(payload[0]) > labyrinth.Right {
			g.logger.Warning(fmt.Sprintf("invalid move payload from player: %s", pID))
			return
		}
		game.Move(labyrinth.Direction(payload[0]))
	case stateRequestActionType:
		g.resend(pID, game)
	case replayActionType:
		if _, err := game.Replay(context.Background(), string(payload)); err != nil {
			g.logger.Warning(fmt.Sprintf("replay for player %s: %s", pID, err))
			g.resend(pID, game)
			return
		}
	default:
		g.logger.Warning(fmt.Sprintf("unknown action type %d from player: %s", actionType, pID))
		return
	}
	g.logger.Info(fmt.Sprintf("processed request for player: %s", pID))
}

// resend pushes the current state once more, for clients that missed a datagram.
func (g *GameSessionManager) resend(pID uuid.UUID, game i.GameServer) {
	if g.broadcast == nil {
		return
	}
	payload, err := g.encoder.MarshalState(game.Snapshot())
	if err != nil {
		g.logger.Error(fmt.Sprintf("encoding state of player %s: %s", pID, err))
		return
	}
	g.broadcast.pushState([]uuid.UUID{pID}, payload)
}

func (g *GameSessionManager) StopAll() {
	g.Lock()
	sessions := g.sessions
	g.sessions = make(map[uuid.UUID]session)
	g.Unlock()

	for _, s := range sessions {
		s.stopListen()
		s.game.Stop()
	}
}
