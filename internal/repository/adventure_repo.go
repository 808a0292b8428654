package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storygeo/internal/database"
	"storygeo/internal/models"
)

// AdventureRepository stores generated adventures as JSON documents
type AdventureRepository struct {
	db database.DBTX
}

// NewAdventureRepository creates a new adventure repository
func NewAdventureRepository(db database.DBTX) *AdventureRepository {
	return &AdventureRepository{db: db}
}

// Save inserts an adventure. Adventures never change after creation.
func (r *AdventureRepository) Save(ctx context.Context, adv *models.Adventure) error {
	doc, err := json.Marshal(adv)
	if err != nil {
		return fmt.Errorf("failed to encode adventure: %w", err)
	}

	query := "INSERT INTO adventures (id, title, document, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, adv.ID, adv.Title, string(doc), adv.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save adventure: %w", err)
	}
	return nil
}

// GetByID retrieves an adventure, returning nil when it does not exist
func (r *AdventureRepository) GetByID(ctx context.Context, id string) (*models.Adventure, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, "SELECT document FROM adventures WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get adventure: %w", err)
	}
	return decodeAdventure(doc)
}

// List returns all stored adventures, newest first
func (r *AdventureRepository) List(ctx context.Context) ([]models.Adventure, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM adventures ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query adventures: %w", err)
	}
	defer rows.Close()

	var adventures []models.Adventure
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan adventure: %w", err)
		}
		adv, err := decodeAdventure(doc)
		if err != nil {
			return nil, err
		}
		adventures = append(adventures, *adv)
	}
	return adventures, rows.Err()
}

func decodeAdventure(doc string) (*models.Adventure, error) {
	var adv models.Adventure
	if err := json.Unmarshal([]byte(doc), &adv); err != nil {
		return nil, fmt.Errorf("failed to decode adventure: %w", err)
	}
	return &adv, nil
}
