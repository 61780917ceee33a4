package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

type shareRequest struct {
	WorkoutID string `json:"workout_id"`
	Caption   string `json:"caption"`
}

// Share handles POST /api/v1/feed/share
func (h *FeedHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.feedService.ShareWorkout(r.Context(), userID, req.WorkoutID, req.Caption)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", post.ID).Str("workout_id", req.WorkoutID).Msg("Workout shared")
	respondJSON(w, http.StatusCreated, post)
}

// Get handles GET /api/v1/feed
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, "page must be a positive integer", http.StatusBadRequest)
			return
		}
		page = parsed
	}
	pageSize := 0
	if v := r.URL.Query().Get("page_size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, "page_size must be a positive integer", http.StatusBadRequest)
			return
		}
		pageSize = parsed
	}

	filters := services.FeedFilters{
		Timeframe:   services.Timeframe(r.URL.Query().Get("timeframe")),
		WorkoutType: models.WorkoutType(r.URL.Query().Get("workout_type")),
	}

	feed, err := h.feedService.GetFeed(r.Context(), userID, filters, services.FeedPagination{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

// Engagement handles GET /api/v1/feed/engagement
func (h *FeedHandler) Engagement(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summary, err := h.feedService.GetEngagement(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
