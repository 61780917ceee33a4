package services

import (
	"context"
	"strings"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/repository"

	"github.com/google/uuid"
)

type socialStore interface {
	ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error)
	ToggleLike(ctx context.Context, userID, workoutID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]repository.FollowEntry, error)
	ListFollowers(ctx context.Context, userID string) ([]repository.FollowEntry, error)
	CreateComment(ctx context.Context, c *models.WorkoutComment) error
	GetCommentByID(ctx context.Context, id string) (*models.WorkoutComment, error)
	ListComments(ctx context.Context, workoutID string) ([]*models.WorkoutComment, error)
	DeleteComment(ctx context.Context, id string) error
}

type userChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SocialService handles follows, likes and comments
type SocialService struct {
	social   socialStore
	users    userChecker
	workouts workoutGetter
	hub      *WSHub
}

// NewSocialService creates a new social service
func NewSocialService(social socialStore, users userChecker, workouts workoutGetter, hub *WSHub) *SocialService {
	return &SocialService{social: social, users: users, workouts: workouts, hub: hub}
}

// ToggleFollow follows the target if no edge exists, otherwise unfollows.
// Returns true when the caller now follows the target.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if targetID == "" {
		return false, apperr.InvalidInput("user_id is required")
	}
	if followerID == targetID {
		return false, apperr.Conflict("cannot follow yourself")
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperr.NotFound("user not found")
	}

	followed, err := s.social.ToggleFollow(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}
	if followed && s.hub != nil {
		s.hub.Notify(targetID, Event{Type: EventNewFollower, ActorID: followerID})
	}
	return followed, nil
}

// ListFollowing returns the users that userID follows
func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]repository.FollowEntry, error) {
	return s.social.ListFollowing(ctx, userID)
}

// ListFollowers returns the users following userID
func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]repository.FollowEntry, error) {
	return s.social.ListFollowers(ctx, userID)
}

// ToggleLike likes the workout if the caller has not liked it yet,
// otherwise removes the like. Returns true when the like now exists.
func (s *SocialService) ToggleLike(ctx context.Context, userID, workoutID string) (bool, error) {
	if workoutID == "" {
		return false, apperr.InvalidInput("workout_id is required")
	}

	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return false, err
	}

	liked, err := s.social.ToggleLike(ctx, userID, workoutID)
	if err != nil {
		return false, err
	}
	if liked && s.hub != nil && workout.OwnerID() != userID {
		s.hub.Notify(workout.OwnerID(), Event{Type: EventWorkoutLiked, ActorID: userID, WorkoutID: workoutID})
	}
	return liked, nil
}

// AddComment creates a comment on a workout
func (s *SocialService) AddComment(ctx context.Context, userID, workoutID, content string) (*models.WorkoutComment, error) {
	if workoutID == "" {
		return nil, apperr.InvalidInput("workout_id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidInput("content is required")
	}

	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.WorkoutComment{
		ID:        uuid.New().String(),
		UserID:    userID,
		WorkoutID: workoutID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.social.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.hub != nil && workout.OwnerID() != userID {
		s.hub.Notify(workout.OwnerID(), Event{
			Type: EventWorkoutCommented, ActorID: userID,
			WorkoutID: workoutID, CommentID: comment.ID,
		})
	}
	return comment, nil
}

// ListComments returns the comments on a workout, newest first
func (s *SocialService) ListComments(ctx context.Context, workoutID string) ([]*models.WorkoutComment, error) {
	if workoutID == "" {
		return nil, apperr.InvalidInput("workout_id is required")
	}
	if _, err := s.workouts.GetByID(ctx, workoutID); err != nil {
		return nil, err
	}
	return s.social.ListComments(ctx, workoutID)
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *SocialService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.social.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID() != userID {
		return apperr.Forbidden("cannot delete someone else's comment")
	}
	return s.social.DeleteComment(ctx, commentID)
}
