package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types pushed to connected clients
const (
	EventNewFollower      = "new_follower"
	EventWorkoutLiked     = "workout_liked"
	EventWorkoutCommented = "workout_commented"
	EventPostShared       = "post_shared"
)

// Event is a realtime social notification
type Event struct {
	Type      string `json:"type"`
	ActorID   string `json:"actor_id,omitempty"`
	WorkoutID string `json:"workout_id,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// WSHub manages WebSocket connections and pushes social events to them
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has an open connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// SendToUser delivers an event to a specific user if they are connected
func (h *WSHub) SendToUser(userID string, event Event) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

// Notify delivers an event to a user, dropping it silently when they
// are offline. Realtime events are best effort.
func (h *WSHub) Notify(userID string, event Event) {
	if !h.IsOnline(userID) {
		return
	}
	if err := h.SendToUser(userID, event); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("event", event.Type).Msg("Failed to push event")
	}
}

// Broadcast delivers an event to every online user except the actor.
// Used for events without a single recipient, like a new shared post.
func (h *WSHub) Broadcast(actorID string, event Event) {
	h.mu.RLock()
	userIDs := make([]string, 0, len(h.connections))
	for id := range h.connections {
		if id != actorID {
			userIDs = append(userIDs, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range userIDs {
		h.Notify(id, event)
	}
}
