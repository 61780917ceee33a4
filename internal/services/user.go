package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpDays        = 30
	minPasswordLength = 8
)

type userStore interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserService handles registration, login and token validation
type UserService struct {
	users     userStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users userStore, jwtSecret string) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret}
}

// Register creates a new user account. The profile row is created in the
// same transaction as the user, so a registered user always has one.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.InvalidInput("username is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.InvalidInput("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &models.UserProfile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Name:      username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, "", apperr.InvalidInput("invalid username or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.InvalidInput("invalid username or password")
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}
