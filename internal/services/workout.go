package services

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/cache"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const statsCacheTTL = 5 * time.Minute

type workoutStore interface {
	Create(ctx context.Context, w *models.Workout) error
	GetByID(ctx context.Context, id string) (*models.Workout, error)
	ListByOwner(ctx context.Context, userID string, startDate, endDate *time.Time, limit, offset int) ([]*models.Workout, int, error)
	Update(ctx context.Context, w *models.Workout) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, userID string, today time.Time) (*repository.SummaryStats, error)
	TypeDistribution(ctx context.Context, userID string) ([]repository.TypeStats, error)
	MonthlyTrends(ctx context.Context, userID string) ([]repository.MonthStats, error)
	IntensityDistribution(ctx context.Context, userID string) ([]repository.IntensityStats, error)
	ActiveDates(ctx context.Context, userID string, today time.Time) ([]time.Time, error)
	Recent(ctx context.Context, userID string, limit int) ([]*models.Workout, error)
}

// WorkoutService handles workout CRUD and statistics
type WorkoutService struct {
	workouts workoutStore
	cache    *cache.Cache
	now      func() time.Time
}

// NewWorkoutService creates a new workout service
func NewWorkoutService(workouts workoutStore, c *cache.Cache) *WorkoutService {
	return &WorkoutService{workouts: workouts, cache: c, now: time.Now}
}

// WorkoutInput carries the user-settable workout fields
type WorkoutInput struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	WorkoutType     models.WorkoutType `json:"workout_type"`
	Intensity       models.Intensity   `json:"intensity"`
	DurationMinutes int                `json:"duration_minutes"`
	Calories        int                `json:"calories"`
	DateLogged      time.Time          `json:"date_logged"`
	ImageURL        *string            `json:"image_url"`
}

func validateWorkoutInput(in WorkoutInput) error {
	if in.Title == "" {
		return apperr.InvalidInput("title is required")
	}
	if in.WorkoutType != "" && !models.ValidWorkoutType(in.WorkoutType) {
		return apperr.InvalidInput("unknown workout type")
	}
	if in.Intensity != "" && !models.ValidIntensity(in.Intensity) {
		return apperr.InvalidInput("unknown intensity")
	}
	if in.DurationMinutes <= 0 {
		return apperr.InvalidInput("duration_minutes must be positive")
	}
	if in.Calories < 0 {
		return apperr.InvalidInput("calories must not be negative")
	}
	if in.DateLogged.IsZero() {
		return apperr.InvalidInput("date_logged is required")
	}
	return nil
}

// Create logs a new workout for a user
func (s *WorkoutService) Create(ctx context.Context, userID string, in WorkoutInput) (*models.Workout, error) {
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	if in.WorkoutType == "" {
		in.WorkoutType = models.WorkoutTypeOther
	}
	if in.Intensity == "" {
		in.Intensity = models.IntensityModerate
	}

	now := s.now()
	w := &models.Workout{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           in.Title,
		Description:     in.Description,
		WorkoutType:     in.WorkoutType,
		Intensity:       in.Intensity,
		DurationMinutes: in.DurationMinutes,
		Calories:        in.Calories,
		DateLogged:      in.DateLogged,
		ImageURL:        in.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.workouts.Create(ctx, w); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, userID)
	return w, nil
}

// Get returns a workout by ID
func (s *WorkoutService) Get(ctx context.Context, id string) (*models.Workout, error) {
	return s.workouts.GetByID(ctx, id)
}

// List returns a page of the user's workouts, optionally date-filtered
func (s *WorkoutService) List(ctx context.Context, userID string, startDate, endDate *time.Time, limit, offset int) ([]*models.Workout, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, 0, apperr.InvalidInput("end_date must not be before start_date")
	}
	return s.workouts.ListByOwner(ctx, userID, startDate, endDate, limit, offset)
}

// Update modifies a workout. Only the owner may update it.
func (s *WorkoutService) Update(ctx context.Context, userID, workoutID string, in WorkoutInput) (*models.Workout, error) {
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}

	w, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if w.OwnerID() != userID {
		return nil, apperr.Forbidden("cannot modify someone else's workout")
	}

	w.Title = in.Title
	w.Description = in.Description
	if in.WorkoutType != "" {
		w.WorkoutType = in.WorkoutType
	}
	if in.Intensity != "" {
		w.Intensity = in.Intensity
	}
	w.DurationMinutes = in.DurationMinutes
	w.Calories = in.Calories
	w.DateLogged = in.DateLogged
	w.ImageURL = in.ImageURL
	w.UpdatedAt = s.now()

	if err := s.workouts.Update(ctx, w); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, userID)
	return w, nil
}

// Delete removes a workout. Only the owner may delete it.
func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID string) error {
	w, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return err
	}
	if w.OwnerID() != userID {
		return apperr.Forbidden("cannot delete someone else's workout")
	}
	if err := s.workouts.Delete(ctx, workoutID); err != nil {
		return err
	}
	s.invalidateStats(ctx, userID)
	return nil
}

// WorkoutSummary is the aggregate overview of a user's workouts
type WorkoutSummary struct {
	repository.SummaryStats
	RecentWorkouts []*models.Workout `json:"recent_workouts"`
}

// Summary returns the aggregate overview for a user, cached briefly
func (s *WorkoutService) Summary(ctx context.Context, userID string) (*WorkoutSummary, error) {
	cacheKey := "workout_summary:" + userID
	var cached WorkoutSummary
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Summary cache read failed")
	}

	stats, err := s.workouts.Summary(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	recent, err := s.workouts.Recent(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	summary := &WorkoutSummary{SummaryStats: *stats, RecentWorkouts: recent}
	if err := s.cache.SetJSON(ctx, cacheKey, summary, statsCacheTTL); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Summary cache write failed")
	}
	return summary, nil
}

// WorkoutStatistics holds the detailed breakdowns and streaks
type WorkoutStatistics struct {
	WorkoutTypes          []repository.TypeStats      `json:"workout_types"`
	MonthlyTrends         []repository.MonthStats     `json:"monthly_trends"`
	IntensityDistribution []repository.IntensityStats `json:"intensity_distribution"`
	Streaks               StreakResult                `json:"streaks"`
}

// Statistics returns detailed workout breakdowns for a user, cached briefly
func (s *WorkoutService) Statistics(ctx context.Context, userID string) (*WorkoutStatistics, error) {
	cacheKey := "workout_statistics:" + userID
	var cached WorkoutStatistics
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Statistics cache read failed")
	}

	types, err := s.workouts.TypeDistribution(ctx, userID)
	if err != nil {
		return nil, err
	}
	trends, err := s.workouts.MonthlyTrends(ctx, userID)
	if err != nil {
		return nil, err
	}
	intensities, err := s.workouts.IntensityDistribution(ctx, userID)
	if err != nil {
		return nil, err
	}
	dates, err := s.workouts.ActiveDates(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	stats := &WorkoutStatistics{
		WorkoutTypes:          types,
		MonthlyTrends:         trends,
		IntensityDistribution: intensities,
		Streaks:               ComputeStreaks(dates, s.now()),
	}
	if err := s.cache.SetJSON(ctx, cacheKey, stats, statsCacheTTL); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Statistics cache write failed")
	}
	return stats, nil
}

func (s *WorkoutService) invalidateStats(ctx context.Context, userID string) {
	err := s.cache.Delete(ctx, "workout_summary:"+userID, "workout_statistics:"+userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Stats cache invalidation failed")
	}
}
