package repository

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository handles database operations for shared workout posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new workout post. The (workout_id, user_id) pair is
// unique, so sharing the same workout twice surfaces as a Conflict.
func (r *PostRepository) Create(ctx context.Context, p *models.WorkoutPost) error {
	query := `
		INSERT INTO workout_posts (id, user_id, workout_id, caption, shared_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.UserID, p.WorkoutID, p.Caption, p.SharedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("workout already shared")
		}
		return apperr.Unavailable("failed to create post", err)
	}
	return nil
}

// ListFeedCandidates returns every post authored by one of authorIDs,
// joined with its workout and annotated with like/comment counts and
// whether the viewer has liked the workout. Filtering, ordering and
// pagination happen in the feed aggregator.
func (r *PostRepository) ListFeedCandidates(ctx context.Context, authorIDs []string, viewerID string) ([]*models.FeedItem, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT p.id, p.user_id, u.username, p.workout_id, p.caption, p.shared_at,
		       w.title, w.workout_type, w.duration_minutes, w.date_logged,
		       (SELECT COUNT(*) FROM workout_likes l WHERE l.workout_id = w.id) AS likes_count,
		       (SELECT COUNT(*) FROM workout_comments c WHERE c.workout_id = w.id) AS comments_count,
		       EXISTS(
		           SELECT 1 FROM workout_likes l
		           WHERE l.workout_id = w.id AND l.user_id = $2
		       ) AS has_liked
		FROM workout_posts p
		JOIN workouts w ON w.id = p.workout_id
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, authorIDs, viewerID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load feed candidates", err)
	}
	defer rows.Close()

	var items []*models.FeedItem
	for rows.Next() {
		var it models.FeedItem
		err := rows.Scan(
			&it.ID, &it.UserID, &it.Username, &it.WorkoutID, &it.Caption, &it.SharedAt,
			&it.Title, &it.WorkoutType, &it.DurationMinutes, &it.DateLogged,
			&it.LikesCount, &it.CommentsCount, &it.HasLiked,
		)
		if err != nil {
			return nil, apperr.Unavailable("failed to scan feed candidate", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating feed candidates", err)
	}
	return items, nil
}

// EngagementCounts holds activity numbers over a trailing window
type EngagementCounts struct {
	Posts    int `json:"posts"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Engagement counts a user's posts shared since the window start, and the
// likes and comments received on that user's workouts in the same window
func (r *PostRepository) Engagement(ctx context.Context, userID string, since time.Time) (*EngagementCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM workout_posts p
			 WHERE p.user_id = $1 AND p.shared_at >= $2),
			(SELECT COUNT(*) FROM workout_likes l
			 JOIN workouts w ON w.id = l.workout_id
			 WHERE w.user_id = $1 AND l.created_at >= $2),
			(SELECT COUNT(*) FROM workout_comments c
			 JOIN workouts w ON w.id = c.workout_id
			 WHERE w.user_id = $1 AND c.created_at >= $2)
	`
	var e EngagementCounts
	if err := r.db.QueryRow(ctx, query, userID, since).Scan(&e.Posts, &e.Likes, &e.Comments); err != nil {
		return nil, apperr.Unavailable("failed to compute engagement counts", err)
	}
	return &e, nil
}
