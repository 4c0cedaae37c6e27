package reconcile

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ozerpan/ercom-sync/internal/store"
)

func TestEnsureTaxAccountCreatesOnce(t *testing.T) {
	st := newFakeStore()
	eng := NewEngine(st, &fakeSource{}, testDefaults())
	ctx := context.Background()

	first, err := eng.ensureTaxAccount(ctx)
	if err != nil {
		t.Fatalf("ensureTaxAccount error = %v", err)
	}
	second, err := eng.ensureTaxAccount(ctx)
	if err != nil {
		t.Fatalf("ensureTaxAccount error = %v", err)
	}

	if len(st.accounts) != 1 {
		t.Fatalf("accounts created = %d, want 1", len(st.accounts))
	}
	if first.Name != second.Name || first.Number != second.Number {
		t.Fatal("repeated calls must return the same account")
	}
	if first.AccountType != "Tax" || !first.TaxRate.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected account: %+v", first)
	}
}

func TestAttachTaxLineIsIdempotent(t *testing.T) {
	acct := store.Account{Name: "ERCOM HESAPLANAN KDV 20", TaxRate: decimal.NewFromInt(20)}
	so := &store.SalesOrder{}

	attachTaxLine(so, acct)
	attachTaxLine(so, acct)

	if len(so.Taxes) != 1 {
		t.Fatalf("tax lines = %d, want 1", len(so.Taxes))
	}
	tax := so.Taxes[0]
	if tax.ChargeType != "On Net Total" || tax.AccountHead != acct.Name || tax.Description != acct.Name {
		t.Fatalf("unexpected tax line: %+v", tax)
	}
}
