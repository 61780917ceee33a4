package handlers

import (
	"encoding/json"
	"net/http"

	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ImageHandler handles image upload HTTP requests
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Presign handles POST /api/v1/images/presign.
// The returned object URL is attached to a profile or workout by a
// follow-up update once the client has uploaded the bytes.
func (h *ImageHandler) Presign(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.imageService.PresignUpload(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("kind", string(req.Kind)).
		Str("content_type", req.ContentType).
		Msg("Pre-signed upload URL generated")
	respondJSON(w, http.StatusOK, response)
}
