package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SalesOrder is the header document produced once per uploaded MLY file.
// ErcomOrderNo is the legacy order number and the uniqueness key that
// prevents duplicate creation on re-runs.
type SalesOrder struct {
	ID           uuid.UUID
	ErcomOrderNo string
	Customer     string
	Company      string
	OrderType    string
	OrderDate    *time.Time
	DeliveryDate *time.Time
	Status       DocStatus
	AmendedFrom  *uuid.UUID
	Lines        []SalesOrderLine
	Taxes        []TaxLine
}

type SalesOrderLine struct {
	ItemCode         string
	ItemName         string
	Description      string
	ItemGroup        string
	UOM              string
	Qty              decimal.Decimal
	Rate             decimal.Decimal
	ConversionFactor decimal.Decimal
	DeliveryDate     *time.Time
}

type TaxLine struct {
	ChargeType  string
	AccountHead string
	Description string
	Rate        decimal.Decimal
}

// FindSalesOrderByOrderNo returns the most recent sales order carrying
// the legacy order number, with lines and taxes loaded.
func (s *Store) FindSalesOrderByOrderNo(ctx context.Context, orderNo string) (SalesOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, ercom_order_no, customer, company, order_type, order_date, delivery_date,
		       docstatus, amended_from
		FROM sales_orders WHERE ercom_order_no = $1
		ORDER BY created_at DESC LIMIT 1`, orderNo)
	var so SalesOrder
	err := row.Scan(&so.ID, &so.ErcomOrderNo, &so.Customer, &so.Company, &so.OrderType,
		&so.OrderDate, &so.DeliveryDate, &so.Status, &so.AmendedFrom)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SalesOrder{}, ErrNotFound
		}
		return SalesOrder{}, fmt.Errorf("query sales order %s: %w", orderNo, err)
	}

	if so.Lines, err = s.salesOrderLines(ctx, so.ID); err != nil {
		return SalesOrder{}, err
	}
	if so.Taxes, err = s.salesOrderTaxes(ctx, so.ID); err != nil {
		return SalesOrder{}, err
	}
	return so, nil
}

func (s *Store) salesOrderLines(ctx context.Context, id uuid.UUID) ([]SalesOrderLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_code, item_name, description, item_group, uom, qty, rate, conversion_factor, delivery_date
		FROM sales_order_lines WHERE sales_order_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query sales order lines: %w", err)
	}
	defer rows.Close()

	var lines []SalesOrderLine
	for rows.Next() {
		var l SalesOrderLine
		if err := rows.Scan(&l.ItemCode, &l.ItemName, &l.Description, &l.ItemGroup,
			&l.UOM, &l.Qty, &l.Rate, &l.ConversionFactor, &l.DeliveryDate); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *Store) salesOrderTaxes(ctx context.Context, id uuid.UUID) ([]TaxLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT charge_type, account_head, description, rate
		FROM sales_order_taxes WHERE sales_order_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query sales order taxes: %w", err)
	}
	defer rows.Close()

	var taxes []TaxLine
	for rows.Next() {
		var t TaxLine
		if err := rows.Scan(&t.ChargeType, &t.AccountHead, &t.Description, &t.Rate); err != nil {
			return nil, fmt.Errorf("scan tax line: %w", err)
		}
		taxes = append(taxes, t)
	}
	return taxes, rows.Err()
}

// CreateSalesOrder persists a new draft sales order with its lines and
// taxes and assigns its ID.
func (s *Store) CreateSalesOrder(ctx context.Context, so *SalesOrder) error {
	so.ID = uuid.New()
	so.Status = StatusDraft
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO sales_orders (id, ercom_order_no, customer, company, order_type,
			                          order_date, delivery_date, docstatus, amended_from)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			so.ID, so.ErcomOrderNo, so.Customer, so.Company, so.OrderType,
			so.OrderDate, so.DeliveryDate, so.Status, so.AmendedFrom)
		if err != nil {
			return fmt.Errorf("insert sales order %s: %w", so.ErcomOrderNo, err)
		}
		return insertSalesOrderChildren(ctx, tx, so)
	})
}

// UpdateSalesOrder rebuilds a draft sales order in place, replacing both
// the line and tax collections.
func (s *Store) UpdateSalesOrder(ctx context.Context, so *SalesOrder) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE sales_orders SET customer = $2, company = $3, order_type = $4,
			       order_date = $5, delivery_date = $6, updated_at = now()
			WHERE id = $1 AND docstatus = $7`,
			so.ID, so.Customer, so.Company, so.OrderType, so.OrderDate, so.DeliveryDate, StatusDraft)
		if err != nil {
			return fmt.Errorf("update sales order %s: %w", so.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update sales order %s: not an editable draft", so.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sales_order_lines WHERE sales_order_id = $1`, so.ID); err != nil {
			return fmt.Errorf("clear sales order lines: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sales_order_taxes WHERE sales_order_id = $1`, so.ID); err != nil {
			return fmt.Errorf("clear sales order taxes: %w", err)
		}
		return insertSalesOrderChildren(ctx, tx, so)
	})
}

func (s *Store) SubmitSalesOrder(ctx context.Context, id uuid.UUID) error {
	return s.transitionSalesOrder(ctx, id, StatusDraft, StatusSubmitted)
}

func (s *Store) CancelSalesOrder(ctx context.Context, id uuid.UUID) error {
	return s.transitionSalesOrder(ctx, id, StatusSubmitted, StatusCancelled)
}

func (s *Store) transitionSalesOrder(ctx context.Context, id uuid.UUID, from, to DocStatus) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sales_orders SET docstatus = $3, updated_at = now()
		WHERE id = $1 AND docstatus = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("transition sales order %s to %s: %w", id, to, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition sales order %s: document is not %s", id, from)
	}
	return nil
}

func insertSalesOrderChildren(ctx context.Context, tx pgx.Tx, so *SalesOrder) error {
	for i, l := range so.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO sales_order_lines (sales_order_id, idx, item_code, item_name, description,
			                               item_group, uom, qty, rate, conversion_factor, delivery_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			so.ID, i, l.ItemCode, l.ItemName, l.Description, l.ItemGroup,
			l.UOM, l.Qty, l.Rate, l.ConversionFactor, l.DeliveryDate)
		if err != nil {
			return fmt.Errorf("insert sales order line %d: %w", i, err)
		}
	}
	for i, t := range so.Taxes {
		_, err := tx.Exec(ctx, `
			INSERT INTO sales_order_taxes (sales_order_id, idx, charge_type, account_head, description, rate)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			so.ID, i, t.ChargeType, t.AccountHead, t.Description, t.Rate)
		if err != nil {
			return fmt.Errorf("insert tax line %d: %w", i, err)
		}
	}
	return nil
}
