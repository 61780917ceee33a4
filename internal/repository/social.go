package repository

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SocialRepository handles database operations for follows, likes and comments
type SocialRepository struct {
	db *pgxpool.Pool
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(db *pgxpool.Pool) *SocialRepository {
	return &SocialRepository{db: db}
}

// ToggleFollow creates the follow edge if absent or deletes it if present,
// in a single transaction so two concurrent toggles cannot both insert or
// both delete. Returns true when the edge exists after the call.
func (r *SocialRepository) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperr.Unavailable("failed to begin follow toggle", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx,
		`SELECT id FROM user_follows WHERE follower_id = $1 AND following_id = $2 FOR UPDATE`,
		followerID, followingID,
	).Scan(&id)

	switch {
	case err == pgx.ErrNoRows:
		_, err = tx.Exec(ctx,
			`INSERT INTO user_follows (id, follower_id, following_id, created_at) VALUES ($1, $2, $3, $4)`,
			uuid.New().String(), followerID, followingID, time.Now(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				// lost the race to a concurrent follow; the edge exists now
				return true, tx.Commit(ctx)
			}
			return false, apperr.Unavailable("failed to create follow", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, apperr.Unavailable("failed to commit follow", err)
		}
		return true, nil
	case err != nil:
		return false, apperr.Unavailable("failed to check follow", err)
	default:
		if _, err := tx.Exec(ctx, `DELETE FROM user_follows WHERE id = $1`, id); err != nil {
			return false, apperr.Unavailable("failed to delete follow", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, apperr.Unavailable("failed to commit unfollow", err)
		}
		return false, nil
	}
}

// ListFollowingIDs returns the IDs of every user that userID follows
func (r *SocialRepository) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT following_id FROM user_follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to list following", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Unavailable("failed to scan following id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating following", err)
	}
	return ids, nil
}

// FollowEntry pairs a follow edge with the counterpart's username
type FollowEntry struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFollowing returns the users that userID follows, newest edge first
func (r *SocialRepository) ListFollowing(ctx context.Context, userID string) ([]FollowEntry, error) {
	query := `
		SELECT u.id, u.username, f.created_at
		FROM user_follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listFollowEntries(ctx, query, userID)
}

// ListFollowers returns the users following userID, newest edge first
func (r *SocialRepository) ListFollowers(ctx context.Context, userID string) ([]FollowEntry, error) {
	query := `
		SELECT u.id, u.username, f.created_at
		FROM user_follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listFollowEntries(ctx, query, userID)
}

func (r *SocialRepository) listFollowEntries(ctx context.Context, query, userID string) ([]FollowEntry, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to list follow entries", err)
	}
	defer rows.Close()

	var entries []FollowEntry
	for rows.Next() {
		var e FollowEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.CreatedAt); err != nil {
			return nil, apperr.Unavailable("failed to scan follow entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating follow entries", err)
	}
	return entries, nil
}

// ToggleLike creates the like if absent or deletes it if present, in a
// single transaction. Returns true when the like exists after the call.
func (r *SocialRepository) ToggleLike(ctx context.Context, userID, workoutID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperr.Unavailable("failed to begin like toggle", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx,
		`SELECT id FROM workout_likes WHERE user_id = $1 AND workout_id = $2 FOR UPDATE`,
		userID, workoutID,
	).Scan(&id)

	switch {
	case err == pgx.ErrNoRows:
		_, err = tx.Exec(ctx,
			`INSERT INTO workout_likes (id, user_id, workout_id, created_at) VALUES ($1, $2, $3, $4)`,
			uuid.New().String(), userID, workoutID, time.Now(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return true, tx.Commit(ctx)
			}
			return false, apperr.Unavailable("failed to create like", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, apperr.Unavailable("failed to commit like", err)
		}
		return true, nil
	case err != nil:
		return false, apperr.Unavailable("failed to check like", err)
	default:
		if _, err := tx.Exec(ctx, `DELETE FROM workout_likes WHERE id = $1`, id); err != nil {
			return false, apperr.Unavailable("failed to delete like", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, apperr.Unavailable("failed to commit unlike", err)
		}
		return false, nil
	}
}

// CreateComment creates a new comment on a workout
func (r *SocialRepository) CreateComment(ctx context.Context, c *models.WorkoutComment) error {
	query := `
		INSERT INTO workout_comments (id, user_id, workout_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.WorkoutID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return apperr.Unavailable("failed to create comment", err)
	}
	return nil
}

// GetCommentByID retrieves a comment by ID
func (r *SocialRepository) GetCommentByID(ctx context.Context, id string) (*models.WorkoutComment, error) {
	query := `
		SELECT c.id, c.user_id, u.username, c.workout_id, c.content, c.created_at, c.updated_at
		FROM workout_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	var c models.WorkoutComment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Username, &c.WorkoutID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Unavailable("failed to get comment", err)
	}
	return &c, nil
}

// ListComments retrieves the comments on a workout, newest first
func (r *SocialRepository) ListComments(ctx context.Context, workoutID string) ([]*models.WorkoutComment, error) {
	query := `
		SELECT c.id, c.user_id, u.username, c.workout_id, c.content, c.created_at, c.updated_at
		FROM workout_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.workout_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, workoutID)
	if err != nil {
		return nil, apperr.Unavailable("failed to list comments", err)
	}
	defer rows.Close()

	var comments []*models.WorkoutComment
	for rows.Next() {
		var c models.WorkoutComment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Username, &c.WorkoutID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperr.Unavailable("failed to scan comment", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment by ID
func (r *SocialRepository) DeleteComment(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM workout_comments WHERE id = $1`, id)
	if err != nil {
		return apperr.Unavailable("failed to delete comment", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}
