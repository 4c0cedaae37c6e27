package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	RunRunning = "running"
	RunSuccess = "success"
	RunError   = "error"
)

// SyncRun records one upload or sync pass so the outcome and its log
// file can be fetched after the fact.
type SyncRun struct {
	ID         uuid.UUID
	Kind       string
	FileName   string
	Status     string
	Message    string
	LogFile    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (s *Store) CreateSyncRun(ctx context.Context, kind, fileName, logFile string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_runs (id, kind, file_name, status, log_file, started_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, kind, fileName, RunRunning, logFile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert sync run: %w", err)
	}
	return id, nil
}

func (s *Store) CompleteSyncRun(ctx context.Context, id uuid.UUID, status, message string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sync_runs SET status = $2, message = $3, finished_at = now()
		WHERE id = $1`, id, status, message)
	if err != nil {
		return fmt.Errorf("complete sync run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetSyncRun(ctx context.Context, id uuid.UUID) (SyncRun, error) {
	var r SyncRun
	err := s.pool.QueryRow(ctx, `
		SELECT id, kind, file_name, status, message, log_file, started_at, finished_at
		FROM sync_runs WHERE id = $1`, id).
		Scan(&r.ID, &r.Kind, &r.FileName, &r.Status, &r.Message, &r.LogFile, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SyncRun{}, ErrNotFound
		}
		return SyncRun{}, fmt.Errorf("get sync run %s: %w", id, err)
	}
	return r, nil
}
