package handlers

import (
	"net/http"

	"fittrack-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, userService: userService}
}

// HandleWebSocket upgrades the connection and keeps it registered until
// the client disconnects. The stream is push-only: social events go out,
// nothing the client sends is interpreted.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	// Validate token
	userID, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Upgrade connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	// Read loop. Incoming frames are discarded, but reading keeps
	// control messages flowing and detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}
	}
}
