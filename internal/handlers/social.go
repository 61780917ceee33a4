package handlers

import (
	"encoding/json"
	"net/http"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SocialHandler handles follow, like and comment HTTP requests
type SocialHandler struct {
	socialService *services.SocialService
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

type followRequest struct {
	UserID string `json:"user_id"`
}

// ToggleFollow handles POST /api/v1/social/follow
func (h *SocialHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	followed, err := h.socialService.ToggleFollow(r.Context(), userID, req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := "unfollowed"
	if followed {
		status = "followed"
	}
	log.Info().Str("user_id", userID).Str("target_id", req.UserID).Str("status", status).Msg("Follow toggled")
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ListFollowing handles GET /api/v1/social/following
func (h *SocialHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.socialService.ListFollowing(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"following": entries,
		"count":     len(entries),
	})
}

// ListFollowers handles GET /api/v1/social/followers
func (h *SocialHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.socialService.ListFollowers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"followers": entries,
		"count":     len(entries),
	})
}

// ToggleLike handles POST /api/v1/workouts/{workout_id}/like
func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID := chi.URLParam(r, "workout_id")

	liked, err := h.socialService.ToggleLike(r.Context(), userID, workoutID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := "unliked"
	if liked {
		status = "liked"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

type commentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/v1/workouts/{workout_id}/comments
func (h *SocialHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID := chi.URLParam(r, "workout_id")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.socialService.AddComment(r.Context(), userID, workoutID, req.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /api/v1/workouts/{workout_id}/comments
func (h *SocialHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	workoutID := chi.URLParam(r, "workout_id")

	comments, err := h.socialService.ListComments(r.Context(), workoutID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"count":    len(comments),
	})
}

// DeleteComment handles DELETE /api/v1/comments/{comment_id}
func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	commentID := chi.URLParam(r, "comment_id")

	if err := h.socialService.DeleteComment(r.Context(), userID, commentID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
