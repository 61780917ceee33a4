package repository

import (
	"context"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	p.id, p.user_id, p.name, p.weight, p.height, p.fitness_goals,
	p.gender, p.date_of_birth, p.profile_image_url,
	(SELECT COUNT(*) FROM workouts w WHERE w.user_id = p.user_id) AS workouts_count,
	p.created_at, p.updated_at
`

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Weight, &p.Height, &p.FitnessGoals,
		&p.Gender, &p.DateOfBirth, &p.ProfileImageURL, &p.WorkoutsCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID retrieves the profile owned by a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles p WHERE p.user_id = $1`
	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, apperr.Unavailable("failed to get profile", err)
	}
	return profile, nil
}

// List retrieves profiles ordered by creation date, newest first,
// each annotated with the owner's workout count
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles p
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperr.Unavailable("failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperr.Unavailable("failed to scan profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating profiles", err)
	}
	return profiles, nil
}

// Update persists the mutable profile fields
func (r *ProfileRepository) Update(ctx context.Context, p *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET name = $1, weight = $2, height = $3, fitness_goals = $4,
		    gender = $5, date_of_birth = $6, profile_image_url = $7, updated_at = $8
		WHERE user_id = $9
	`
	result, err := r.db.Exec(ctx, query,
		p.Name, p.Weight, p.Height, p.FitnessGoals,
		p.Gender, p.DateOfBirth, p.ProfileImageURL, p.UpdatedAt, p.UserID,
	)
	if err != nil {
		return apperr.Unavailable("failed to update profile", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("profile not found")
	}
	return nil
}
