package services

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"
)

type profileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	List(ctx context.Context, limit, offset int) ([]*models.UserProfile, error)
	Update(ctx context.Context, p *models.UserProfile) error
}

// ProfileService handles profile reads and updates
type ProfileService struct {
	profiles profileStore
	now      func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(profiles profileStore) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// ProfileResponse is a profile with its derived fields
type ProfileResponse struct {
	*models.UserProfile
	BMI *float64 `json:"bmi"`
	Age *int     `json:"age"`
}

func (s *ProfileService) toResponse(p *models.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		UserProfile: p,
		BMI:         p.BMI(),
		Age:         p.Age(s.now()),
	}
}

// Get returns the profile owned by userID
func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(p), nil
}

// List returns profiles annotated with workout counts, newest first
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]*ProfileResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	profiles, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]*ProfileResponse, len(profiles))
	for i, p := range profiles {
		responses[i] = s.toResponse(p)
	}
	return responses, nil
}

// ProfileUpdate carries the mutable profile fields
type ProfileUpdate struct {
	Name            string     `json:"name"`
	Weight          *float64   `json:"weight"`
	Height          *float64   `json:"height"`
	FitnessGoals    *string    `json:"fitness_goals"`
	Gender          *string    `json:"gender"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	ProfileImageURL *string    `json:"profile_image_url"`
}

// Update validates and persists profile changes for userID
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*ProfileResponse, error) {
	if upd.Weight != nil && (*upd.Weight < 0 || *upd.Weight > 500) {
		return nil, apperr.InvalidInput("weight must be between 0 and 500")
	}
	if upd.Height != nil && (*upd.Height < 0 || *upd.Height > 300) {
		return nil, apperr.InvalidInput("height must be between 0 and 300")
	}
	if upd.Gender != nil {
		switch *upd.Gender {
		case "M", "F", "O":
		default:
			return nil, apperr.InvalidInput("gender must be one of M, F, O")
		}
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.Name = upd.Name
	p.Weight = upd.Weight
	p.Height = upd.Height
	p.FitnessGoals = upd.FitnessGoals
	p.Gender = upd.Gender
	p.DateOfBirth = upd.DateOfBirth
	p.ProfileImageURL = upd.ProfileImageURL
	p.UpdatedAt = s.now()

	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.toResponse(p), nil
}
