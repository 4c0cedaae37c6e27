// Package reconcile turns legacy spreadsheet exports into manufacturing
// documents. One pass processes one uploaded file end to end, sheet by
// sheet, synchronously; a failed precondition aborts the pass and the
// target document keeps its pre-pass state.
package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/ozerpan/ercom-sync/internal/config"
	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// Store is the document-store surface a pass needs. *store.Store
// implements it.
type Store interface {
	ItemExists(ctx context.Context, code string) (bool, error)
	GetItem(ctx context.Context, code string) (store.Item, error)
	UpsertItem(ctx context.Context, it store.Item) error
	EnsureUOM(ctx context.Context, name string) error

	FindAccount(ctx context.Context, name, number string) (store.Account, error)
	CreateAccount(ctx context.Context, a store.Account) error

	FindBOMByItem(ctx context.Context, itemCode string) (store.BOM, error)
	CreateBOM(ctx context.Context, b *store.BOM) error
	UpdateBOM(ctx context.Context, b *store.BOM) error
	SubmitBOM(ctx context.Context, id uuid.UUID) error
	CancelBOM(ctx context.Context, id uuid.UUID) error

	FindSalesOrderByOrderNo(ctx context.Context, orderNo string) (store.SalesOrder, error)
	CreateSalesOrder(ctx context.Context, so *store.SalesOrder) error
	UpdateSalesOrder(ctx context.Context, so *store.SalesOrder) error
	SubmitSalesOrder(ctx context.Context, id uuid.UUID) error
	CancelSalesOrder(ctx context.Context, id uuid.UUID) error

	FindOptGenelByCode(ctx context.Context, optCode string) (store.OptGenel, error)
	SaveOptGenel(ctx context.Context, o *store.OptGenel) error
	ReplaceOptGenelDST(ctx context.Context, id uuid.UUID, items []store.OptDSTItem) error
}

// Source is the read-only window into the legacy database. *ercom.Client
// implements it.
type Source interface {
	GetOrder(ctx context.Context, orderNo string) (ercom.Order, error)
	ListPositions(ctx context.Context, orderNo string) ([]ercom.Position, error)
	MachineNumber(ctx context.Context, otoNo string) (int, error)
}

// Engine runs reconciliation passes. It is stateless between passes;
// company-level defaults are injected once at construction.
type Engine struct {
	store    Store
	source   Source
	defaults config.Defaults
}

func NewEngine(s Store, src Source, defaults config.Defaults) *Engine {
	return &Engine{store: s, source: src, defaults: defaults}
}

// resolveUnit maps a unit label to its canonical unit and makes sure
// the unit record exists. Idempotent.
func (e *Engine) resolveUnit(ctx context.Context, label string) (string, error) {
	uom := CanonicalUnit(label)
	if err := e.store.EnsureUOM(ctx, uom); err != nil {
		return "", err
	}
	return uom, nil
}
