package repository

import (
	"context"
	"errors"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithProfile creates a user and its profile in a single transaction.
// The profile row always exists for a registered user, so both inserts
// succeed or neither does.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.UserProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, userQuery,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("username or email already taken")
		}
		return apperr.Unavailable("failed to create user", err)
	}

	profileQuery := `
		INSERT INTO user_profiles (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, profileQuery,
		profile.ID, profile.UserID, profile.Name, profile.CreatedAt, profile.UpdatedAt,
	); err != nil {
		return apperr.Unavailable("failed to create profile", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Unavailable("failed to commit registration", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unavailable("failed to get user", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unavailable("failed to get user by username", err)
	}
	return &user, nil
}

// Exists checks whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, apperr.Unavailable("failed to check user existence", err)
	}
	return exists, nil
}
