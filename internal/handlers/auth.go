package handlers

import (
	"encoding/json"
	"net/http"

	"fittrack-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	token, err := h.userService.GenerateJWT(user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	respondJSON(w, http.StatusCreated, authResponse{
		ID: user.ID, Username: user.Username, Email: user.Email, Token: token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	respondJSON(w, http.StatusOK, authResponse{
		ID: user.ID, Username: user.Username, Email: user.Email, Token: token,
	})
}
