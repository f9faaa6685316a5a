package socket

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	Hub      *Hub
	verifier *auth.Verifier
	roles    auth.RoleResolver
}

// NewHandler creates a new WebSocket handler. Tokens and roles are checked
// the same way as the REST API.
func NewHandler(hub *Hub, verifier *auth.Verifier, roles auth.RoleResolver) *Handler {
	return &Handler{Hub: hub, verifier: verifier, roles: roles}
}

// HandleWebSocket handles WebSocket upgrade requests. Browsers cannot set
// headers on the upgrade request, so the token may come as ?token=.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	principal, err := h.verifier.Verify(tokenString)
	if err != nil {
		h.Hub.log.Info().Err(err).Msg("[WebSocket] Token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "reason": auth.Reason(err)})
		return
	}

	role, err := h.roles.ResolveRole(c.Request.Context(), principal.Email)
	if errors.Is(err, auth.ErrNoRoleAssigned) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No role assigned", "reason": auth.Reason(err)})
		return
	}
	if err != nil {
		h.Hub.log.Error().Err(err).Str("user_id", principal.Subject).Msg("[WebSocket] Role lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Hub.log.Warn().Err(err).Msg("[WebSocket] Upgrade error")
		return
	}

	client := NewClient(h.Hub, principal.Subject, role, conn)
	h.Hub.Register(client)
	h.Hub.JoinRoom(client, "user:"+principal.Subject)

	go client.WritePump()
	go client.ReadPump()
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, userID string, role auth.Role, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   role,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan []byte, 256),
		Rooms:  make(map[string]bool),
	}
}
