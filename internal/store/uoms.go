package store

import (
	"context"
	"fmt"
)

// EnsureUOM creates the canonical unit if it does not exist yet. Safe to
// call repeatedly with the same name.
func (s *Store) EnsureUOM(ctx context.Context, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO uoms (uom_name, enabled) VALUES ($1, TRUE)
		ON CONFLICT (uom_name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("ensure uom %s: %w", name, err)
	}
	return nil
}
