package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Attendance messages
	MessageAttendanceUpdated MessageType = "attendance_updated"

	// Event messages
	MessageEventCreated MessageType = "event_created"
	MessageEventDeleted MessageType = "event_deleted"

	// System messages
	MessagePing  MessageType = "ping"
	MessagePong  MessageType = "pong"
	MessageAck   MessageType = "ack"
	MessageError MessageType = "error"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID     string
	UserID string
	Role   auth.Role
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan []byte
	Rooms  map[string]bool // Subscribed rooms (event:<id>, user:<id>)
	mu     sync.Mutex
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients map[*Client]bool

	// Clients indexed by room for broadcasting
	roomClients map[string]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	broadcast     chan []byte
	roomBroadcast chan *RoomMessage

	// Closed when Run returns
	done chan struct{}

	log *zerolog.Logger
	mu  sync.RWMutex
}

// RoomMessage represents a message to be sent to a specific room
type RoomMessage struct {
	Room    string
	Message []byte
	Exclude string // User ID to exclude from broadcast
}

// NewHub creates a new Hub
func NewHub(log *zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		roomClients:   make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 256),
		roomBroadcast: make(chan *RoomMessage, 256),
		done:          make(chan struct{}),
		log:           log,
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().Msg("[Hub] WebSocket hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			h.log.Info().Msg("[Hub] WebSocket hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToAll(message)

		case rm := <-h.roomBroadcast:
			h.broadcastToRoom(rm)

		case <-pingTicker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.log.Debug().
		Str("user_id", client.UserID).
		Str("client_id", client.ID).
		Int("total_clients", len(h.clients)).
		Msg("[Hub] Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	client.mu.Lock()
	for room := range client.Rooms {
		if clients, ok := h.roomClients[room]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, room)
			}
		}
	}
	client.mu.Unlock()

	close(client.Send)
	h.log.Debug().
		Str("user_id", client.UserID).
		Str("client_id", client.ID).
		Int("total_clients", len(h.clients)).
		Msg("[Hub] Client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.Send)
	}
	h.clients = make(map[*Client]bool)
	h.roomClients = make(map[string]map[*Client]bool)
}

// deliver queues message for client, dropping the client when its buffer is
// full. Callers hold h.mu.
func (h *Hub) deliver(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		go h.Unregister(client)
		return false
	}
}

func (h *Hub) broadcastToAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		h.deliver(client, message)
	}
}

func (h *Hub) broadcastToRoom(rm *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.roomClients[rm.Room]
	if !ok {
		return
	}

	sentCount := 0
	for client := range clients {
		if rm.Exclude != "" && client.UserID == rm.Exclude {
			continue
		}
		if h.deliver(client, rm.Message) {
			sentCount++
		}
	}
	h.log.Debug().Str("room", rm.Room).Int("sent", sentCount).Msg("[Hub] Broadcast to room")
}

func (h *Hub) pingClients() {
	data, _ := json.Marshal(Message{Type: MessagePing, Timestamp: time.Now()})
	h.broadcastToAll(data)
}

// ============================================
// Public Methods for Room Management
// ============================================

// JoinRoom adds a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()

	if h.roomClients[room] == nil {
		h.roomClients[room] = make(map[*Client]bool)
	}
	h.roomClients[room][client] = true

	h.log.Debug().Str("user_id", client.UserID).Str("room", room).Msg("[Hub] Client joined room")
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	delete(client.Rooms, room)
	client.mu.Unlock()

	if clients, ok := h.roomClients[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.roomClients, room)
		}
	}

	h.log.Debug().Str("user_id", client.UserID).Str("room", room).Msg("[Hub] Client left room")
}

// Register hands a client to the hub loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ============================================
// Public Methods for Sending Messages
// ============================================

// SendToRoom broadcasts a message to all clients in a room
func (h *Hub) SendToRoom(room string, msgType MessageType, payload map[string]interface{}, excludeUserID string) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.log.Error().Err(err).Msg("[Hub] Error marshaling message")
		return
	}

	select {
	case h.roomBroadcast <- &RoomMessage{Room: room, Message: data, Exclude: excludeUserID}:
	default:
		h.log.Warn().Str("room", room).Str("type", string(msgType)).Msg("[Hub] Broadcast queue full, message dropped")
	}
}

// SendToAll broadcasts a message to every connected client
func (h *Hub) SendToAll(msgType MessageType, payload map[string]interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.log.Error().Err(err).Msg("[Hub] Error marshaling message")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn().Str("type", string(msgType)).Msg("[Hub] Broadcast queue full, message dropped")
	}
}

// ============================================
// Query Methods
// ============================================

// GetRoomClients returns the number of clients in a room
func (h *Hub) GetRoomClients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.roomClients[room]; ok {
		return len(clients)
	}
	return 0
}

// GetConnectedClientsCount returns total connected clients
func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
