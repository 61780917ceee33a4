package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// WorkoutHandler handles workout-related HTTP requests
type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

// NewWorkoutHandler creates a new workout handler
func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// Create handles POST /api/v1/workouts
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in services.WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := h.workoutService.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Str("workout_id", workout.ID).Msg("Workout created")
	respondJSON(w, http.StatusCreated, workout)
}

// List handles GET /api/v1/workouts
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	var startDate, endDate *time.Time
	if v := r.URL.Query().Get("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, "start_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		startDate = &d
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, "end_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		endDate = &d
	}

	workouts, total, err := h.workoutService.List(r.Context(), userID, startDate, endDate, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"workouts": workouts,
		"total":    total,
	})
}

// Get handles GET /api/v1/workouts/{workout_id}
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workoutID := chi.URLParam(r, "workout_id")

	workout, err := h.workoutService.Get(r.Context(), workoutID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, workout)
}

// Update handles PUT /api/v1/workouts/{workout_id}
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID := chi.URLParam(r, "workout_id")

	var in services.WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := h.workoutService.Update(r.Context(), userID, workoutID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Str("workout_id", workoutID).Msg("Workout updated")
	respondJSON(w, http.StatusOK, workout)
}

// Delete handles DELETE /api/v1/workouts/{workout_id}
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID := chi.URLParam(r, "workout_id")

	if err := h.workoutService.Delete(r.Context(), userID, workoutID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Str("workout_id", workoutID).Msg("Workout deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/v1/workouts/summary
func (h *WorkoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summary, err := h.workoutService.Summary(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Statistics handles GET /api/v1/workouts/statistics
func (h *WorkoutHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.workoutService.Statistics(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
