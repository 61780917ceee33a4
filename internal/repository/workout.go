package repository

import (
	"context"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkoutRepository handles database operations for workouts
type WorkoutRepository struct {
	db *pgxpool.Pool
}

// NewWorkoutRepository creates a new workout repository
func NewWorkoutRepository(db *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

const workoutColumns = `
	id, user_id, title, description, workout_type, intensity,
	duration_minutes, calories, date_logged, image_url, created_at, updated_at
`

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var w models.Workout
	err := row.Scan(
		&w.ID, &w.UserID, &w.Title, &w.Description, &w.WorkoutType, &w.Intensity,
		&w.DurationMinutes, &w.Calories, &w.DateLogged, &w.ImageURL,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create creates a new workout
func (r *WorkoutRepository) Create(ctx context.Context, w *models.Workout) error {
	query := `
		INSERT INTO workouts (` + workoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		w.ID, w.UserID, w.Title, w.Description, w.WorkoutType, w.Intensity,
		w.DurationMinutes, w.Calories, w.DateLogged, w.ImageURL, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return apperr.Unavailable("failed to create workout", err)
	}
	return nil
}

// GetByID retrieves a workout by ID
func (r *WorkoutRepository) GetByID(ctx context.Context, id string) (*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = $1`
	w, err := scanWorkout(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("workout not found")
		}
		return nil, apperr.Unavailable("failed to get workout", err)
	}
	return w, nil
}

// ListByOwner retrieves a user's workouts, newest date first, optionally
// restricted to a date range
func (r *WorkoutRepository) ListByOwner(ctx context.Context, userID string, startDate, endDate *time.Time, limit, offset int) ([]*models.Workout, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM workouts
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date_logged >= $2)
		  AND ($3::date IS NULL OR date_logged <= $3)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID, startDate, endDate).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("failed to count workouts", err)
	}

	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date_logged >= $2)
		  AND ($3::date IS NULL OR date_logged <= $3)
		ORDER BY date_logged DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, userID, startDate, endDate, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("failed to list workouts", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, 0, apperr.Unavailable("failed to scan workout", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Unavailable("error iterating workouts", err)
	}
	return workouts, total, nil
}

// Update persists the mutable workout fields
func (r *WorkoutRepository) Update(ctx context.Context, w *models.Workout) error {
	query := `
		UPDATE workouts
		SET title = $1, description = $2, workout_type = $3, intensity = $4,
		    duration_minutes = $5, calories = $6, date_logged = $7,
		    image_url = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.Exec(ctx, query,
		w.Title, w.Description, w.WorkoutType, w.Intensity,
		w.DurationMinutes, w.Calories, w.DateLogged, w.ImageURL, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return apperr.Unavailable("failed to update workout", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("workout not found")
	}
	return nil
}

// Delete removes a workout by ID
func (r *WorkoutRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return apperr.Unavailable("failed to delete workout", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("workout not found")
	}
	return nil
}

// SummaryStats holds aggregate workout numbers for one user
type SummaryStats struct {
	TotalWorkouts     int     `json:"total_workouts"`
	TotalDuration     int     `json:"total_duration"`
	TotalCalories     int     `json:"total_calories"`
	AvgDuration       float64 `json:"avg_duration"`
	MostFrequentType  *string `json:"most_frequent_workout"`
	WorkoutsThisWeek  int     `json:"workouts_this_week"`
	WorkoutsThisMonth int     `json:"workouts_this_month"`
}

// Summary computes the aggregate statistics for a user's workouts
func (r *WorkoutRepository) Summary(ctx context.Context, userID string, today time.Time) (*SummaryStats, error) {
	lastWeek := today.AddDate(0, 0, -7)
	lastMonth := today.AddDate(0, 0, -30)

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(calories), 0),
		       COALESCE(ROUND(AVG(duration_minutes)::numeric, 2), 0),
		       COUNT(*) FILTER (WHERE date_logged >= $2),
		       COUNT(*) FILTER (WHERE date_logged >= $3)
		FROM workouts
		WHERE user_id = $1
	`
	var s SummaryStats
	err := r.db.QueryRow(ctx, query, userID, lastWeek, lastMonth).Scan(
		&s.TotalWorkouts, &s.TotalDuration, &s.TotalCalories, &s.AvgDuration,
		&s.WorkoutsThisWeek, &s.WorkoutsThisMonth,
	)
	if err != nil {
		return nil, apperr.Unavailable("failed to compute workout summary", err)
	}

	typeQuery := `
		SELECT workout_type
		FROM workouts
		WHERE user_id = $1
		GROUP BY workout_type
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`
	var mostFrequent string
	err = r.db.QueryRow(ctx, typeQuery, userID).Scan(&mostFrequent)
	if err != nil && err != pgx.ErrNoRows {
		return nil, apperr.Unavailable("failed to find most frequent workout type", err)
	}
	if err == nil {
		s.MostFrequentType = &mostFrequent
	}
	return &s, nil
}

// TypeStats holds per-workout-type aggregates
type TypeStats struct {
	WorkoutType   models.WorkoutType `json:"workout_type"`
	Count         int                `json:"count"`
	TotalDuration int                `json:"total_duration"`
	TotalCalories int                `json:"total_calories"`
	AvgDuration   float64            `json:"avg_duration"`
}

// TypeDistribution computes per-type aggregates for a user, most common first
func (r *WorkoutRepository) TypeDistribution(ctx context.Context, userID string) ([]TypeStats, error) {
	query := `
		SELECT workout_type, COUNT(*),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(calories), 0),
		       COALESCE(ROUND(AVG(duration_minutes)::numeric, 2), 0)
		FROM workouts
		WHERE user_id = $1
		GROUP BY workout_type
		ORDER BY COUNT(*) DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to compute type distribution", err)
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var t TypeStats
		if err := rows.Scan(&t.WorkoutType, &t.Count, &t.TotalDuration, &t.TotalCalories, &t.AvgDuration); err != nil {
			return nil, apperr.Unavailable("failed to scan type distribution", err)
		}
		stats = append(stats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating type distribution", err)
	}
	return stats, nil
}

// MonthStats holds per-calendar-month aggregates
type MonthStats struct {
	Month         time.Time `json:"month"`
	WorkoutCount  int       `json:"workout_count"`
	TotalDuration int       `json:"total_duration"`
	TotalCalories int       `json:"total_calories"`
	AvgDuration   float64   `json:"avg_duration"`
}

// MonthlyTrends computes per-month aggregates for a user in chronological order
func (r *WorkoutRepository) MonthlyTrends(ctx context.Context, userID string) ([]MonthStats, error) {
	query := `
		SELECT date_trunc('month', date_logged) AS month, COUNT(*),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(calories), 0),
		       COALESCE(ROUND(AVG(duration_minutes)::numeric, 2), 0)
		FROM workouts
		WHERE user_id = $1
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to compute monthly trends", err)
	}
	defer rows.Close()

	var stats []MonthStats
	for rows.Next() {
		var m MonthStats
		if err := rows.Scan(&m.Month, &m.WorkoutCount, &m.TotalDuration, &m.TotalCalories, &m.AvgDuration); err != nil {
			return nil, apperr.Unavailable("failed to scan monthly trends", err)
		}
		stats = append(stats, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating monthly trends", err)
	}
	return stats, nil
}

// IntensityStats holds per-intensity aggregates
type IntensityStats struct {
	Intensity     models.Intensity `json:"intensity"`
	Count         int              `json:"count"`
	AvgDuration   float64          `json:"avg_duration"`
	AvgCalories   float64          `json:"avg_calories"`
	TotalDuration int              `json:"total_duration"`
	TotalCalories int              `json:"total_calories"`
}

// IntensityDistribution computes per-intensity aggregates for a user
func (r *WorkoutRepository) IntensityDistribution(ctx context.Context, userID string) ([]IntensityStats, error) {
	query := `
		SELECT intensity, COUNT(*),
		       COALESCE(ROUND(AVG(duration_minutes)::numeric, 2), 0),
		       COALESCE(ROUND(AVG(calories)::numeric, 2), 0),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(calories), 0)
		FROM workouts
		WHERE user_id = $1
		GROUP BY intensity
		ORDER BY intensity
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to compute intensity distribution", err)
	}
	defer rows.Close()

	var stats []IntensityStats
	for rows.Next() {
		var s IntensityStats
		if err := rows.Scan(&s.Intensity, &s.Count, &s.AvgDuration, &s.AvgCalories, &s.TotalDuration, &s.TotalCalories); err != nil {
			return nil, apperr.Unavailable("failed to scan intensity distribution", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating intensity distribution", err)
	}
	return stats, nil
}

// ActiveDates returns the distinct dates on which a user logged workouts,
// up to and including today, in ascending order
func (r *WorkoutRepository) ActiveDates(ctx context.Context, userID string, today time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date_logged
		FROM workouts
		WHERE user_id = $1 AND date_logged <= $2
		ORDER BY date_logged
	`
	rows, err := r.db.Query(ctx, query, userID, today)
	if err != nil {
		return nil, apperr.Unavailable("failed to list active dates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, apperr.Unavailable("failed to scan active date", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating active dates", err)
	}
	return dates, nil
}

// Recent returns the user's most recent workouts by logged date
func (r *WorkoutRepository) Recent(ctx context.Context, userID string, limit int) ([]*models.Workout, error) {
	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE user_id = $1
		ORDER BY date_logged DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperr.Unavailable("failed to list recent workouts", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, apperr.Unavailable("failed to scan recent workout", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating recent workouts", err)
	}
	return workouts, nil
}
