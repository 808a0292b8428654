package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"storygeo/internal/database"
	"storygeo/internal/models"
	"storygeo/internal/repository"
	"storygeo/internal/storage"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                     `json:"version"`
	ExportedAt   time.Time                  `json:"exported_at"`
	DatabaseType string                     `json:"database_type"`
	Profile      json.RawMessage            `json:"profile,omitempty"`
	Adventures   []models.Adventure         `json:"adventures"`
	Progress     []models.AdventureProgress `json:"progress"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d adventures, %d progress rows, profile=%t",
		len(backup.Adventures), len(backup.Progress), backup.Profile != nil)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.GetDialect().DriverName(),
	}

	profile, err := repository.NewKVRepository(s.db).Get(ctx, storage.ProfileKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to export profile: %w", err)
	default:
		backup.Profile = profile
	}

	adventures, err := repository.NewAdventureRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export adventures: %w", err)
	}
	backup.Adventures = adventures

	progress, err := repository.NewProgressRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export progress: %w", err)
	}
	backup.Progress = progress

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in one transaction. Adventures that
// already exist are kept; progress rows are appended.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	imported := 0
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		adventures := repository.NewAdventureRepository(tx)
		for i := range backup.Adventures {
			adv := &backup.Adventures[i]
			if err := adv.Validate(); err != nil {
				return fmt.Errorf("failed to import adventure %s: %w", adv.ID, err)
			}
			existing, err := adventures.GetByID(ctx, adv.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := adventures.Save(ctx, adv); err != nil {
				return fmt.Errorf("failed to import adventure %s: %w", adv.ID, err)
			}
			imported++
		}

		progress := repository.NewProgressRepository(tx)
		for i := range backup.Progress {
			if err := progress.Record(ctx, &backup.Progress[i]); err != nil {
				return fmt.Errorf("failed to import progress: %w", err)
			}
		}

		if backup.Profile != nil {
			if err := repository.NewKVRepository(tx).Set(ctx, storage.ProfileKey, backup.Profile); err != nil {
				return fmt.Errorf("failed to import profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Database import completed successfully: %d new adventures, %d progress rows", imported, len(backup.Progress))
	return nil
}

// Clear deletes every stored adventure, progress row and setting
func (s *BackupService) Clear(ctx context.Context) error {
	// Delete in reverse order of dependencies
	tables := []string{"adventure_progress", "adventures", "kv_store"}
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
