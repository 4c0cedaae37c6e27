// Package store is the document store for reconciled manufacturing
// documents. Documents follow a draft/submitted/cancelled lifecycle;
// submitted documents are immutable and can only be cancelled, after
// which an amended successor may reference them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// DocStatus is the lifecycle state of a submittable document.
type DocStatus int16

const (
	StatusDraft DocStatus = iota
	StatusSubmitted
	StatusCancelled
)

func (s DocStatus) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Submitted"
	case StatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("DocStatus(%d)", int16(s))
	}
}

type Store struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}
