package socket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/gorilla/websocket"
)

// WebSocket connection constants
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer (4KB)
	maxMessageSize int64 = 4096
)

// ClientMessage represents an incoming message from a client
type ClientMessage struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
}

// EventRoom names the room that receives live updates for an event.
func EventRoom(eventID int64) string {
	return "event:" + strconv.FormatInt(eventID, 10)
}

func validEventRoom(room string) bool {
	id, ok := strings.CutPrefix(room, "event:")
	if !ok {
		return false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	return err == nil && n > 0
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn().Err(err).Str("user_id", c.UserID).Msg("[Client] WebSocket error")
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.Hub.log.Debug().Err(err).Str("user_id", c.UserID).Msg("[Client] Error parsing message")
		c.send(MessageError, map[string]interface{}{"error": "invalid message"})
		return
	}

	switch msg.Action {
	case "join":
		if !validEventRoom(msg.Room) {
			c.send(MessageError, map[string]interface{}{"error": "unknown room", "room": msg.Room})
			return
		}
		// Event rooms carry attendee ids, same as the attendance endpoint
		if !auth.Satisfies(auth.CapabilityElevated, c.Role) {
			c.send(MessageError, map[string]interface{}{"error": "insufficient_role", "room": msg.Room})
			return
		}
		c.Hub.JoinRoom(c, msg.Room)
		c.send(MessageAck, map[string]interface{}{"action": "joined", "room": msg.Room})

	case "leave":
		if msg.Room != "" {
			c.Hub.LeaveRoom(c, msg.Room)
			c.send(MessageAck, map[string]interface{}{"action": "left", "room": msg.Room})
		}

	case "ping":
		c.send(MessagePong, map[string]interface{}{"time": time.Now().Unix()})

	case "pong":

	default:
		c.Hub.log.Debug().Str("action", msg.Action).Str("user_id", c.UserID).Msg("[Client] Unknown action")
	}
}

func (c *Client) send(msgType MessageType, payload map[string]interface{}) {
	data, _ := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})

	select {
	case c.Send <- data:
	default:
		c.Hub.log.Warn().Str("user_id", c.UserID).Str("type", string(msgType)).Msg("[Client] Send buffer full")
	}
}
