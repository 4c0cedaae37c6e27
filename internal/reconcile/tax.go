package reconcile

import (
	"context"
	"errors"

	"github.com/ozerpan/ercom-sync/internal/store"
)

// ensureTaxAccount returns the fixed sales-tax ledger account, creating
// it under the company's tax parent on first use. Lookup is by the
// compound name+number key, so repeated passes never create duplicates.
func (e *Engine) ensureTaxAccount(ctx context.Context) (store.Account, error) {
	d := e.defaults
	acct, err := e.store.FindAccount(ctx, d.TaxAccountName, d.TaxAccountNumber)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Account{}, err
	}

	acct = store.Account{
		Name:          d.TaxAccountName,
		Number:        d.TaxAccountNumber,
		ParentAccount: d.TaxParentAccount(),
		Currency:      d.TaxCurrency,
		AccountType:   "Tax",
		TaxRate:       d.TaxRate,
	}
	if err := e.store.CreateAccount(ctx, acct); err != nil {
		return store.Account{}, err
	}
	return acct, nil
}

// attachTaxLine appends the percentage tax line to the order unless a
// line for the same account is already present.
func attachTaxLine(so *store.SalesOrder, acct store.Account) {
	for _, tax := range so.Taxes {
		if tax.AccountHead == acct.Name {
			return
		}
	}
	so.Taxes = append(so.Taxes, store.TaxLine{
		ChargeType:  "On Net Total",
		AccountHead: acct.Name,
		Description: acct.Name,
		Rate:        acct.TaxRate,
	})
}
