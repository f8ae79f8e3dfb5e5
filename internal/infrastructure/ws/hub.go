package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/collab"
)

const defaultSendBuffer = 64

// client is one live socket. send is closed by the hub when the client is
// unregistered, which tells the write pump to finish.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks live connections and implements queue.Sender for them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*client
	sendBuffer int
	log        zerolog.Logger
}

func NewHub(sendBuffer int, log zerolog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Hub{
		clients:    make(map[string]*client),
		sendBuffer: sendBuffer,
		log:        log,
	}
}

func (h *Hub) register(id string, conn *websocket.Conn) *client {
	c := &client{id: id, conn: conn, send: make(chan []byte, h.sendBuffer)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

// Send encodes msg and queues it for connID without blocking. It returns
// false when the connection is gone or its buffer is full.
func (h *Hub) Send(connID string, msg collab.Message) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.MessageType()).Msg("encode outbound message")
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		h.log.Warn().Str("conn_id", connID).Str("type", msg.MessageType()).Msg("send buffer full, message dropped")
		return false
	}
}

// Len counts live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll sends a going-away close frame to every connection and closes it.
// Each connection's read loop then runs its normal disconnect path. Writes
// happen outside the lock so Send and unregister keep running meanwhile.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.RUnlock()

	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = conn.Close()
	}
}
