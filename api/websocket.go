package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// JSONStateEncoder renders states pushed to browsers.
type JSONStateEncoder interface {
	MarshalStateJSON(s labyrinth.State) ([]byte, error)
}

// wsCommand is a command sent by a browser.
type wsCommand struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
	Level     int    `json:"level,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
}

type wsError struct {
	Error string `json:"error"`
}

// WebsocketGateway streams a running session to a browser and relays its commands.
// Sessions are created and ended over gRPC; a socket only attaches to one.
type WebsocketGateway struct {
	sessions   i.GameSessionManager
	dispatcher *Dispatcher
	encoder    JSONStateEncoder
	logger     general_i.Logger
	upgrader   websocket.Upgrader
}

// WebsocketConfig holds the collaborators of a WebsocketGateway.
type WebsocketConfig struct {
	Sessions i.GameSessionManager
	Encoder  JSONStateEncoder
	Logger   general_i.Logger
}

func NewWebsocketGateway(c *WebsocketConfig) *WebsocketGateway {
	return &WebsocketGateway{
		sessions:   c.Sessions,
		dispatcher: NewDispatcher(c.Sessions),
		encoder:    c.Encoder,
		logger:     c.Logger,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// ServeHTTP handles GET /ws?player=<uuid>.
func (g *WebsocketGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(r.URL.Query().Get("player"))
	if err != nil {
		http.Error(w, "player must be a uuid", http.StatusBadRequest)
		return
	}
	game, err := g.sessions.Session(playerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warning(fmt.Sprintf("upgrading connection of player %s: %s", playerID, err))
		return
	}
	defer conn.Close()
	g.logger.Info(fmt.Sprintf("websocket attached for player: %s", playerID))

	var writeMu sync.Mutex
	write := func(fn func() error) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := fn(); err != nil {
			g.logger.Warning(fmt.Sprintf("writing to player %s: %s", playerID, err))
		}
	}
	pushState := func() {
		data, err := g.encoder.MarshalStateJSON(game.Snapshot())
		if err != nil {
			g.logger.Error(fmt.Sprintf("encoding state of player %s: %s", playerID, err))
			return
		}
		write(func() error { return conn.WriteMessage(websocket.TextMessage, data) })
	}

	updates, unsubscribe := game.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		pushState()
		for {
			select {
			case <-ctx.Done():
				return
			case <-updates:
				pushState()
			}
		}
	}()

	for {
		var msg wsCommand
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warning(fmt.Sprintf("reading from player %s: %s", playerID, err))
			}
			return
		}

		switch msg.Action {
		case ActionNewSession, ActionEndSession:
			write(func() error {
				return conn.WriteJSON(wsError{Error: fmt.Sprintf("%s is not available over websocket", msg.Action)})
			})
			continue
		}

		_, err := g.dispatcher.Dispatch(ctx, Command{
			Action:    msg.Action,
			Player:    playerID,
			Direction: msg.Direction,
			Level:     msg.Level,
			Algorithm: msg.Algorithm,
		})
		if err != nil {
			write(func() error { return conn.WriteJSON(wsError{Error: err.Error()}) })
		}
		if msg.Action == ActionState {
			pushState()
		}
	}
}
