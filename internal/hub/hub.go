package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ongw/whatword/internal/game"
	"github.com/ongw/whatword/internal/session"
)

// Hub manages WebSocket connections watching served games
type Hub struct {
	// Connection pools organized by game ID
	games map[uuid.UUID]map[*Connection]struct{}
	mu    sync.RWMutex

	upgrader websocket.Upgrader
	config   Config
}

// Connection is one WebSocket client of a game
type Connection struct {
	ID     string
	GameID uuid.UUID
	CanAct bool // holds the host token; inbound actions are dispatched

	conn        *websocket.Conn
	send        chan []byte
	hub         *Hub
	session     *session.Session
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once

	ConnectedAt time.Time
}

// Config holds configuration for WebSocket connections
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConfig returns default WebSocket configuration
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1024,
		SendBuffer:     64,
		CheckOrigin:    func(r *http.Request) bool { return true },
	}
}

// Message is what the server writes to clients.
type Message struct {
	Type  string         `json:"type"` // "snapshot", "event" or "error"
	State *game.Snapshot `json:"state,omitempty"`
	Event *game.Event    `json:"event,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Command is what clients write to the server.
type Command struct {
	Action string `json:"action"`
}

// New creates a hub.
func New(config Config) *Hub {
	return &Hub{
		games: make(map[uuid.UUID]map[*Connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// Serve upgrades the request and streams the session's events to the
// client until either side goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, s *session.Session, canAct bool) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	events, unsubscribe := s.Subscribe(h.config.SendBuffer)
	c := &Connection{
		ID:          uuid.NewString(),
		GameID:      s.ID,
		CanAct:      canAct,
		conn:        ws,
		send:        make(chan []byte, h.config.SendBuffer),
		hub:         h,
		session:     s,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}
	h.register(c)

	snap := s.Snapshot()
	c.enqueue(Message{Type: "snapshot", State: &snap})

	go c.forward(events)
	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("game_id", s.ID.String()).
		Bool("can_act", canAct).
		Msg("websocket connection established")
	return nil
}

// Count returns the number of open connections for a game.
func (h *Hub) Count(gameID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// CloseGame disconnects every client of a game.
func (h *Hub) CloseGame(gameID uuid.UUID) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.games[gameID]))
	for c := range h.games[gameID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.close()
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[c.GameID] == nil {
		h.games[c.GameID] = make(map[*Connection]struct{})
	}
	h.games[c.GameID][c] = struct{}{}
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.games[c.GameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, c.GameID)
		}
	}
}

// close tears the connection down once; every pump ends after it.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.unregister(c)
		c.unsubscribe()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		log.Info().
			Str("connection_id", c.ID).
			Str("game_id", c.GameID.String()).
			Msg("websocket connection closed")
	})
}

// forward turns session events into outbound messages. The subscription
// ends on close or when the session itself is closed.
func (c *Connection) forward(events <-chan game.Event) {
	for e := range events {
		c.enqueue(Message{Type: "event", Event: &e})
	}
	c.close()
}

func (c *Connection) enqueue(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Msg("marshal websocket message")
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, dropping message")
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("write websocket message")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("send ping")
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.hub.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close")
			}
			return
		}
		c.handleCommand(message)
		_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}

func (c *Connection) handleCommand(message []byte) {
	if !c.CanAct {
		c.enqueue(Message{Type: "error", Error: "read_only"})
		return
	}
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.enqueue(Message{Type: "error", Error: "bad_json"})
		return
	}
	in, err := game.ParseInput(cmd.Action)
	if err != nil || in == game.InputTick {
		c.enqueue(Message{Type: "error", Error: "unknown_action"})
		return
	}
	if _, err := c.session.Dispatch(context.Background(), in); err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidTransition):
			c.enqueue(Message{Type: "error", Error: "invalid_transition"})
		case errors.Is(err, session.ErrClosed):
			c.close()
		default:
			log.Warn().Err(err).Str("connection_id", c.ID).Msg("dispatch websocket action")
		}
	}
}
