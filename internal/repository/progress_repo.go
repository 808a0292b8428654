package repository

import (
	"context"
	"fmt"

	"storygeo/internal/database"
	"storygeo/internal/models"
)

// ProgressRepository handles the adventure_progress table
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Record inserts one quiz completion and sets its ID
func (r *ProgressRepository) Record(ctx context.Context, p *models.AdventureProgress) error {
	query := `
		INSERT INTO adventure_progress (profile_id, adventure_id, score, completed, completed_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, p.ProfileID, p.AdventureID, p.Score, p.Completed, p.Date.UTC())
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	p.ID = id
	return nil
}

// ListByProfile returns up to limit rows for a profile, newest first.
// A limit of zero or less returns every row.
func (r *ProgressRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]models.AdventureProgress, error) {
	query := `
		SELECT id, profile_id, adventure_id, score, completed, completed_at
		FROM adventure_progress
		WHERE profile_id = ?
		ORDER BY completed_at DESC, id DESC
	`
	args := []interface{}{profileID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

// List returns every row, oldest first
func (r *ProgressRepository) List(ctx context.Context) ([]models.AdventureProgress, error) {
	return r.query(ctx, `
		SELECT id, profile_id, adventure_id, score, completed, completed_at
		FROM adventure_progress
		ORDER BY id
	`)
}

func (r *ProgressRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.AdventureProgress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var progress []models.AdventureProgress
	for rows.Next() {
		var p models.AdventureProgress
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.AdventureID, &p.Score, &p.Completed, &p.Date); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// DeleteByProfile removes every row for a profile
func (r *ProgressRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM adventure_progress WHERE profile_id = ?", profileID); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}
