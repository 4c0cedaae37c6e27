package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OptGenel is the optimization document for one cutting run, keyed by
// the legacy opt number. It carries a profile consumption list from OPT
// uploads and a cut-piece list from DST uploads.
type OptGenel struct {
	ID          uuid.UUID
	OptNo       string
	OptCode     string
	MachineName string
	Profiles    []OptProfile
	DSTItems    []OptDSTItem
}

type OptProfile struct {
	ItemCode  string
	ItemName  string
	AmountBoy decimal.Decimal
	AmountMt  decimal.Decimal
	AmountPcs decimal.Decimal
}

type OptDSTItem struct {
	ItemCode string
	ItemName string
	Size     decimal.Decimal
}

func (s *Store) FindOptGenelByCode(ctx context.Context, optCode string) (OptGenel, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, opt_no, opt_code, machine_name FROM opt_genel WHERE opt_code = $1`, optCode)
	var o OptGenel
	if err := row.Scan(&o.ID, &o.OptNo, &o.OptCode, &o.MachineName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OptGenel{}, ErrNotFound
		}
		return OptGenel{}, fmt.Errorf("query opt genel %s: %w", optCode, err)
	}
	return o, nil
}

// SaveOptGenel upserts the document by opt number and replaces its
// profile list.
func (s *Store) SaveOptGenel(ctx context.Context, o *OptGenel) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO opt_genel (id, opt_no, opt_code, machine_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (opt_no) DO UPDATE SET
				opt_code = EXCLUDED.opt_code,
				machine_name = EXCLUDED.machine_name,
				updated_at = now()`,
			o.ID, o.OptNo, o.OptCode, o.MachineName)
		if err != nil {
			return fmt.Errorf("upsert opt genel %s: %w", o.OptNo, err)
		}
		// The upsert may have kept an earlier row's id.
		if err := tx.QueryRow(ctx, `SELECT id FROM opt_genel WHERE opt_no = $1`, o.OptNo).Scan(&o.ID); err != nil {
			return fmt.Errorf("reload opt genel id: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM opt_profiles WHERE opt_genel_id = $1`, o.ID); err != nil {
			return fmt.Errorf("clear opt profiles: %w", err)
		}
		for i, p := range o.Profiles {
			_, err := tx.Exec(ctx, `
				INSERT INTO opt_profiles (opt_genel_id, idx, item_code, item_name, amount_boy, amount_mt, amount_pcs)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				o.ID, i, p.ItemCode, p.ItemName, p.AmountBoy, p.AmountMt, p.AmountPcs)
			if err != nil {
				return fmt.Errorf("insert opt profile %d: %w", i, err)
			}
		}
		return nil
	})
}

// ReplaceOptGenelDST swaps the cut-piece list of an existing document.
func (s *Store) ReplaceOptGenelDST(ctx context.Context, id uuid.UUID, items []OptDSTItem) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM opt_dst_items WHERE opt_genel_id = $1`, id); err != nil {
			return fmt.Errorf("clear dst items: %w", err)
		}
		for i, it := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO opt_dst_items (opt_genel_id, idx, item_code, item_name, size)
				VALUES ($1, $2, $3, $4, $5)`,
				id, i, it.ItemCode, it.ItemName, it.Size)
			if err != nil {
				return fmt.Errorf("insert dst item %d: %w", i, err)
			}
		}
		return nil
	})
}
