package handlers

import (
	"encoding/json"
	"net/http"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// GoalHandler handles goal-related HTTP requests
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// Create handles POST /api/v1/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in services.GoalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Str("goal_id", goal.ID).Msg("Goal created")
	respondJSON(w, http.StatusCreated, goal)
}

// List handles GET /api/v1/goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	goals, err := h.goalService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

// Update handles PUT /api/v1/goals/{goal_id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID := chi.URLParam(r, "goal_id")

	var in services.GoalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID, goalID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// Delete handles DELETE /api/v1/goals/{goal_id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID := chi.URLParam(r, "goal_id")

	if err := h.goalService.Delete(r.Context(), userID, goalID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
