package services

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/google/uuid"
)

type goalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, id string) error
}

// GoalService handles fitness goal CRUD
type GoalService struct {
	goals goalStore
	now   func() time.Time
}

// NewGoalService creates a new goal service
func NewGoalService(goals goalStore) *GoalService {
	return &GoalService{goals: goals, now: time.Now}
}

// GoalInput carries the user-settable goal fields
type GoalInput struct {
	Type        models.GoalType `json:"type"`
	Description string          `json:"description"`
	Target      string          `json:"target"`
	Deadline    *time.Time      `json:"deadline"`
	Completed   bool            `json:"completed"`
}

func validateGoalInput(in GoalInput) error {
	if !models.ValidGoalType(in.Type) {
		return apperr.InvalidInput("unknown goal type")
	}
	if in.Description == "" {
		return apperr.InvalidInput("description is required")
	}
	if in.Target == "" {
		return apperr.InvalidInput("target is required")
	}
	return nil
}

// Create sets a new goal for a user
func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	if err := validateGoalInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	g := &models.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        in.Type,
		Description: in.Description,
		Target:      in.Target,
		Deadline:    in.Deadline,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns a user's goals ordered by deadline, then newest first
func (s *GoalService) List(ctx context.Context, userID string) ([]*models.Goal, error) {
	return s.goals.ListByOwner(ctx, userID)
}

// Update modifies a goal. Only the owner may update it.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in GoalInput) (*models.Goal, error) {
	if err := validateGoalInput(in); err != nil {
		return nil, err
	}

	g, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.OwnerID() != userID {
		return nil, apperr.Forbidden("cannot modify someone else's goal")
	}

	g.Type = in.Type
	g.Description = in.Description
	g.Target = in.Target
	g.Deadline = in.Deadline
	g.Completed = in.Completed
	g.UpdatedAt = s.now()

	if err := s.goals.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a goal. Only the owner may delete it.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	g, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return err
	}
	if g.OwnerID() != userID {
		return apperr.Forbidden("cannot delete someone else's goal")
	}
	return s.goals.Delete(ctx, goalID)
}
