package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/store"
)

type fakeStore struct {
	items    map[string]store.Item
	uoms     []string
	uomCalls map[string]int
	accounts []store.Account
	boms     []*store.BOM
	orders   []*store.SalesOrder
	opts     []*store.OptGenel
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:    map[string]store.Item{},
		uomCalls: map[string]int{},
	}
}

func (f *fakeStore) ItemExists(_ context.Context, code string) (bool, error) {
	_, ok := f.items[code]
	return ok, nil
}

func (f *fakeStore) GetItem(_ context.Context, code string) (store.Item, error) {
	it, ok := f.items[code]
	if !ok {
		return store.Item{}, store.ErrNotFound
	}
	return it, nil
}

func (f *fakeStore) UpsertItem(_ context.Context, it store.Item) error {
	f.items[it.Code] = it
	return nil
}

func (f *fakeStore) EnsureUOM(_ context.Context, name string) error {
	f.uomCalls[name]++
	for _, u := range f.uoms {
		if u == name {
			return nil
		}
	}
	f.uoms = append(f.uoms, name)
	return nil
}

func (f *fakeStore) FindAccount(_ context.Context, name, number string) (store.Account, error) {
	for _, a := range f.accounts {
		if a.Name == name && a.Number == number {
			return a, nil
		}
	}
	return store.Account{}, store.ErrNotFound
}

func (f *fakeStore) CreateAccount(_ context.Context, a store.Account) error {
	f.accounts = append(f.accounts, a)
	return nil
}

func (f *fakeStore) FindBOMByItem(_ context.Context, itemCode string) (store.BOM, error) {
	for i := len(f.boms) - 1; i >= 0; i-- {
		if f.boms[i].ItemCode == itemCode {
			return *f.boms[i], nil
		}
	}
	return store.BOM{}, store.ErrNotFound
}

func (f *fakeStore) CreateBOM(_ context.Context, b *store.BOM) error {
	b.ID = uuid.New()
	b.Status = store.StatusDraft
	cp := *b
	f.boms = append(f.boms, &cp)
	return nil
}

func (f *fakeStore) UpdateBOM(_ context.Context, b *store.BOM) error {
	for i, existing := range f.boms {
		if existing.ID == b.ID {
			if existing.Status != store.StatusDraft {
				return fmt.Errorf("bom %s: not an editable draft", b.ID)
			}
			cp := *b
			cp.Status = store.StatusDraft
			f.boms[i] = &cp
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) SubmitBOM(_ context.Context, id uuid.UUID) error {
	return f.transitionBOM(id, store.StatusDraft, store.StatusSubmitted)
}

func (f *fakeStore) CancelBOM(_ context.Context, id uuid.UUID) error {
	return f.transitionBOM(id, store.StatusSubmitted, store.StatusCancelled)
}

func (f *fakeStore) transitionBOM(id uuid.UUID, from, to store.DocStatus) error {
	for _, b := range f.boms {
		if b.ID == id {
			if b.Status != from {
				return fmt.Errorf("bom %s: cannot move %s to %s", id, b.Status, to)
			}
			b.Status = to
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) FindSalesOrderByOrderNo(_ context.Context, orderNo string) (store.SalesOrder, error) {
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].ErcomOrderNo == orderNo {
			return *f.orders[i], nil
		}
	}
	return store.SalesOrder{}, store.ErrNotFound
}

func (f *fakeStore) CreateSalesOrder(_ context.Context, so *store.SalesOrder) error {
	so.ID = uuid.New()
	so.Status = store.StatusDraft
	cp := *so
	f.orders = append(f.orders, &cp)
	return nil
}

func (f *fakeStore) UpdateSalesOrder(_ context.Context, so *store.SalesOrder) error {
	for i, existing := range f.orders {
		if existing.ID == so.ID {
			if existing.Status != store.StatusDraft {
				return fmt.Errorf("sales order %s: not an editable draft", so.ID)
			}
			cp := *so
			cp.Status = store.StatusDraft
			f.orders[i] = &cp
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) SubmitSalesOrder(_ context.Context, id uuid.UUID) error {
	return f.transitionSalesOrder(id, store.StatusDraft, store.StatusSubmitted)
}

func (f *fakeStore) CancelSalesOrder(_ context.Context, id uuid.UUID) error {
	return f.transitionSalesOrder(id, store.StatusSubmitted, store.StatusCancelled)
}

func (f *fakeStore) transitionSalesOrder(id uuid.UUID, from, to store.DocStatus) error {
	for _, so := range f.orders {
		if so.ID == id {
			if so.Status != from {
				return fmt.Errorf("sales order %s: cannot move %s to %s", id, so.Status, to)
			}
			so.Status = to
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) FindOptGenelByCode(_ context.Context, optCode string) (store.OptGenel, error) {
	for _, o := range f.opts {
		if o.OptCode == optCode {
			return *o, nil
		}
	}
	return store.OptGenel{}, store.ErrNotFound
}

func (f *fakeStore) SaveOptGenel(_ context.Context, o *store.OptGenel) error {
	for _, existing := range f.opts {
		if existing.OptNo == o.OptNo {
			o.ID = existing.ID
			*existing = *o
			return nil
		}
	}
	o.ID = uuid.New()
	cp := *o
	f.opts = append(f.opts, &cp)
	return nil
}

func (f *fakeStore) ReplaceOptGenelDST(_ context.Context, id uuid.UUID, items []store.OptDSTItem) error {
	for _, o := range f.opts {
		if o.ID == id {
			o.DSTItems = items
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeSource struct {
	order     ercom.Order
	positions []ercom.Position
	machines  map[string]int
}

func (f *fakeSource) GetOrder(_ context.Context, orderNo string) (ercom.Order, error) {
	if f.order.SiparisNo != orderNo {
		return ercom.Order{}, ercom.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeSource) ListPositions(_ context.Context, orderNo string) ([]ercom.Position, error) {
	var out []ercom.Position
	for _, p := range f.positions {
		if p.SiparisNo == orderNo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) MachineNumber(_ context.Context, otoNo string) (int, error) {
	n, ok := f.machines[otoNo]
	if !ok {
		return 0, ercom.ErrNotFound
	}
	return n, nil
}
