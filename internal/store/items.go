package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Item is a master record for either a finished product (keyed
// "<order>-<position>") or a raw material (keyed "erc-<stock code>").
type Item struct {
	Code          string
	Name          string
	Group         string
	StockUOM      string
	Description   string
	ValuationRate decimal.Decimal
	WeightPerUnit decimal.Decimal
	Serial        string
	Width         decimal.Decimal
	Height        decimal.Decimal
	Color         string
	Quantity      decimal.Decimal
	Remarks       string
	PozID         int64
}

const itemColumns = `item_code, item_name, item_group, stock_uom, description,
	valuation_rate, weight_per_unit, serial, width, height, color, quantity, remarks, poz_id`

func (s *Store) GetItem(ctx context.Context, code string) (Item, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_code = $1`, code)
	var it Item
	err := row.Scan(&it.Code, &it.Name, &it.Group, &it.StockUOM, &it.Description,
		&it.ValuationRate, &it.WeightPerUnit, &it.Serial, &it.Width, &it.Height,
		&it.Color, &it.Quantity, &it.Remarks, &it.PozID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("query item %s: %w", code, err)
	}
	return it, nil
}

func (s *Store) ItemExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE item_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item %s: %w", code, err)
	}
	return exists, nil
}

// UpsertItem inserts the item or refreshes every descriptive and costing
// attribute of an existing one. The item code is the identity and never
// changes.
func (s *Store) UpsertItem(ctx context.Context, it Item) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (item_code) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			item_group = EXCLUDED.item_group,
			stock_uom = EXCLUDED.stock_uom,
			description = EXCLUDED.description,
			valuation_rate = EXCLUDED.valuation_rate,
			weight_per_unit = EXCLUDED.weight_per_unit,
			serial = EXCLUDED.serial,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			color = EXCLUDED.color,
			quantity = EXCLUDED.quantity,
			remarks = EXCLUDED.remarks,
			poz_id = EXCLUDED.poz_id,
			updated_at = now()`,
		it.Code, it.Name, it.Group, it.StockUOM, it.Description,
		it.ValuationRate, it.WeightPerUnit, it.Serial, it.Width, it.Height,
		it.Color, it.Quantity, it.Remarks, it.PozID)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.Code, err)
	}
	return nil
}
