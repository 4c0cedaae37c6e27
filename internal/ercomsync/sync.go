// Package ercomsync mirrors legacy records into the document store.
// These are one-shot, non-reconciling inserts: existing records are
// skipped, never rewritten, so the syncs are safe to re-run.
package ercomsync

import (
	"context"

	"github.com/ozerpan/ercom-sync/internal/config"
	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// Store is the document-store surface the syncs need. *store.Store
// implements it.
type Store interface {
	ItemExists(ctx context.Context, code string) (bool, error)
	UpsertItem(ctx context.Context, it store.Item) error
	CreateBOM(ctx context.Context, b *store.BOM) error

	CustomerExists(ctx context.Context, name string) (bool, error)
	CreateCustomer(ctx context.Context, c store.Customer, addr *store.Address, contact *store.Contact) error

	TesDetayExists(ctx context.Context, sayac int64) (bool, error)
	CreateTesDetay(ctx context.Context, td store.TesDetay) error
}

// Source is the legacy read client surface. *ercom.Client implements it.
type Source interface {
	ListPositionsRecent(ctx context.Context, limit int) ([]ercom.Position, error)
	ListCustomers(ctx context.Context) ([]ercom.CariRow, error)
	ListTesDetay(ctx context.Context, limit int) ([]ercom.TesDetayRow, error)
	MachineNumber(ctx context.Context, otoNo string) (int, error)
}

type Syncer struct {
	store    Store
	source   Source
	defaults config.Defaults

	itemLimit     int
	tesDetayLimit int
}

func New(s Store, src Source, cfg config.Config) *Syncer {
	return &Syncer{
		store:         s,
		source:        src,
		defaults:      cfg.Defaults,
		itemLimit:     cfg.ItemSyncLimit,
		tesDetayLimit: cfg.TesDetaySyncLimit,
	}
}
