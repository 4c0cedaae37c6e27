package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BOM is a bill of materials for one finished item. At most one
// non-cancelled BOM exists per item code; cancel-and-amend chains are
// linked through AmendedFrom.
type BOM struct {
	ID              uuid.UUID
	ItemCode        string
	Company         string
	Quantity        decimal.Decimal
	RMCostBasis     string
	BuyingPriceList string
	Status          DocStatus
	AmendedFrom     *uuid.UUID
	TotalCost       decimal.Decimal
	Lines           []BOMLine
}

type BOMLine struct {
	ItemCode    string
	ItemName    string
	Description string
	UOM         string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
}

// FindBOMByItem returns the most recent BOM for the item, whatever its
// lifecycle state, with lines loaded. Returns ErrNotFound when the item
// has never had a BOM.
func (s *Store) FindBOMByItem(ctx context.Context, itemCode string) (BOM, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, item_code, company, quantity, rm_cost_basis, buying_price_list,
		       docstatus, amended_from, total_cost
		FROM boms WHERE item_code = $1
		ORDER BY created_at DESC LIMIT 1`, itemCode)
	var b BOM
	err := row.Scan(&b.ID, &b.ItemCode, &b.Company, &b.Quantity, &b.RMCostBasis,
		&b.BuyingPriceList, &b.Status, &b.AmendedFrom, &b.TotalCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BOM{}, ErrNotFound
		}
		return BOM{}, fmt.Errorf("query bom for %s: %w", itemCode, err)
	}

	lines, err := s.bomLines(ctx, b.ID)
	if err != nil {
		return BOM{}, err
	}
	b.Lines = lines
	return b, nil
}

func (s *Store) bomLines(ctx context.Context, bomID uuid.UUID) ([]BOMLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_code, item_name, description, uom, qty, rate
		FROM bom_lines WHERE bom_id = $1 ORDER BY idx`, bomID)
	if err != nil {
		return nil, fmt.Errorf("query bom lines: %w", err)
	}
	defer rows.Close()

	var lines []BOMLine
	for rows.Next() {
		var l BOMLine
		if err := rows.Scan(&l.ItemCode, &l.ItemName, &l.Description, &l.UOM, &l.Qty, &l.Rate); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// CreateBOM persists a new draft BOM with its lines and assigns its ID.
func (s *Store) CreateBOM(ctx context.Context, b *BOM) error {
	b.ID = uuid.New()
	b.Status = StatusDraft
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO boms (id, item_code, company, quantity, rm_cost_basis, buying_price_list,
			                  docstatus, amended_from, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			b.ID, b.ItemCode, b.Company, b.Quantity, b.RMCostBasis, b.BuyingPriceList,
			b.Status, b.AmendedFrom, b.TotalCost)
		if err != nil {
			return fmt.Errorf("insert bom for %s: %w", b.ItemCode, err)
		}
		return insertBOMLines(ctx, tx, b.ID, b.Lines)
	})
}

// UpdateBOM rebuilds a draft BOM in place: header fields are refreshed
// and the whole line collection is replaced. Submitted and cancelled
// BOMs are rejected.
func (s *Store) UpdateBOM(ctx context.Context, b *BOM) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE boms SET company = $2, quantity = $3, rm_cost_basis = $4,
			       buying_price_list = $5, total_cost = $6, updated_at = now()
			WHERE id = $1 AND docstatus = $7`,
			b.ID, b.Company, b.Quantity, b.RMCostBasis, b.BuyingPriceList, b.TotalCost, StatusDraft)
		if err != nil {
			return fmt.Errorf("update bom %s: %w", b.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update bom %s: not an editable draft", b.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM bom_lines WHERE bom_id = $1`, b.ID); err != nil {
			return fmt.Errorf("clear bom lines: %w", err)
		}
		return insertBOMLines(ctx, tx, b.ID, b.Lines)
	})
}

func (s *Store) SubmitBOM(ctx context.Context, id uuid.UUID) error {
	return s.transitionBOM(ctx, id, StatusDraft, StatusSubmitted)
}

func (s *Store) CancelBOM(ctx context.Context, id uuid.UUID) error {
	return s.transitionBOM(ctx, id, StatusSubmitted, StatusCancelled)
}

func (s *Store) transitionBOM(ctx context.Context, id uuid.UUID, from, to DocStatus) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE boms SET docstatus = $3, updated_at = now()
		WHERE id = $1 AND docstatus = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("transition bom %s to %s: %w", id, to, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition bom %s: document is not %s", id, from)
	}
	return nil
}

func insertBOMLines(ctx context.Context, tx pgx.Tx, bomID uuid.UUID, lines []BOMLine) error {
	for i, l := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO bom_lines (bom_id, idx, item_code, item_name, description, uom, qty, rate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			bomID, i, l.ItemCode, l.ItemName, l.Description, l.UOM, l.Qty, l.Rate)
		if err != nil {
			return fmt.Errorf("insert bom line %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
