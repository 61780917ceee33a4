package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/services"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	profiles, err := h.profileService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var upd services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, upd)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
