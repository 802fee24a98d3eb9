package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// SaveCollectionRun inserts or updates a collection run
func (s *PostgresStore) SaveCollectionRun(ctx context.Context, run *models.CollectionRun) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}

	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal collection run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collection_runs (id, status, run_json, started_at, finished_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			run_json = EXCLUDED.run_json,
			finished_at = EXCLUDED.finished_at,
			updated_at = NOW()
	`, run.ID, string(run.Status), string(runJSON), run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save collection run: %w", err)
	}

	return nil
}

// GetCollectionRun retrieves a collection run by id, nil when it does not exist
func (s *PostgresStore) GetCollectionRun(ctx context.Context, id string) (*models.CollectionRun, error) {
	return s.scanRun(s.db.QueryRowContext(ctx, `
		SELECT run_json FROM collection_runs WHERE id = $1
	`, id))
}

// GetLatestCollectionRun retrieves the most recently started collection run, nil when there is none
func (s *PostgresStore) GetLatestCollectionRun(ctx context.Context) (*models.CollectionRun, error) {
	return s.scanRun(s.db.QueryRowContext(ctx, `
		SELECT run_json FROM collection_runs ORDER BY started_at DESC LIMIT 1
	`))
}

func (s *PostgresStore) scanRun(row *sql.Row) (*models.CollectionRun, error) {
	var runJSON []byte
	err := row.Scan(&runJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get collection run: %w", err)
	}

	var run models.CollectionRun
	if err := json.Unmarshal(runJSON, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection run: %w", err)
	}
	return &run, nil
}
