package repository

import (
	"context"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoalRepository handles database operations for goals
type GoalRepository struct {
	db *pgxpool.Pool
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, type, description, target, deadline, completed, created_at, updated_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Type, &g.Description, &g.Target,
		&g.Deadline, &g.Completed, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create creates a new goal
func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		g.ID, g.UserID, g.Type, g.Description, g.Target,
		g.Deadline, g.Completed, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return apperr.Unavailable("failed to create goal", err)
	}
	return nil
}

// GetByID retrieves a goal by ID
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	g, err := scanGoal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("goal not found")
		}
		return nil, apperr.Unavailable("failed to get goal", err)
	}
	return g, nil
}

// ListByOwner retrieves a user's goals ordered by deadline, then newest first
func (r *GoalRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline ASC NULLS LAST, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to list goals", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, apperr.Unavailable("failed to scan goal", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("error iterating goals", err)
	}
	return goals, nil
}

// Update persists the mutable goal fields
func (r *GoalRepository) Update(ctx context.Context, g *models.Goal) error {
	query := `
		UPDATE goals
		SET type = $1, description = $2, target = $3, deadline = $4,
		    completed = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		g.Type, g.Description, g.Target, g.Deadline, g.Completed, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return apperr.Unavailable("failed to update goal", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("goal not found")
	}
	return nil
}

// Delete removes a goal by ID
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return apperr.Unavailable("failed to delete goal", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("goal not found")
	}
	return nil
}
