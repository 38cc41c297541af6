package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type roomMembers interface {
	Members(roomCode string) []string
}

// client serializes writes to one connection; gorilla allows a single
// concurrent writer per Conn.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) send(message *Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.conn.WriteJSON(message)
}

// Hub fans events out to live connections. Deliveries happen on the caller's
// goroutine, so events broadcast under a room lock reach every member in the
// same order.
type Hub struct {
	logger  *slog.Logger
	members roomMembers

	mu    sync.RWMutex
	conns map[string]*client
}

func NewHub(logger *slog.Logger, members roomMembers) *Hub {
	return &Hub{
		logger:  logger,
		members: members,
		conns:   make(map[string]*client),
	}
}

func (that *Hub) Register(connID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[connID] = &client{conn: conn}
}

func (that *Hub) Unregister(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, connID)
}

// ToRoom - delivers the event to every connection associated with the room.
// Connections that are already gone are skipped.
func (that *Hub) ToRoom(roomCode, event string, payload any) {
	for _, connID := range that.members.Members(roomCode) {
		that.ToConnection(connID, event, payload)
	}
}

// ToConnection - delivers the event to exactly one connection.
func (that *Hub) ToConnection(connID, event string, payload any) {
	log := that.logger.With("method", "ToConnection")

	that.mu.RLock()
	target, ok := that.conns[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "event", event, "error", err)
		return
	}

	message := &Message{
		Action:  event,
		Payload: body,
	}

	if err = target.send(message); err != nil {
		log.Error("failed to write message", "event", event, "connID", connID, "error", err)
	}
}
