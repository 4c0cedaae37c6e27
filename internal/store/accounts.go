package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Account is a ledger account. The tax account used by sales-order
// reconciliation is looked up by the compound name+number key.
type Account struct {
	Name          string
	Number        string
	ParentAccount string
	Currency      string
	AccountType   string
	TaxRate       decimal.Decimal
}

func (s *Store) FindAccount(ctx context.Context, name, number string) (Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT account_name, account_number, parent_account, currency, account_type, tax_rate
		FROM accounts WHERE account_name = $1 AND account_number = $2`, name, number)
	var a Account
	err := row.Scan(&a.Name, &a.Number, &a.ParentAccount, &a.Currency, &a.AccountType, &a.TaxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("query account %s %s: %w", name, number, err)
	}
	return a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (account_name, account_number, parent_account, currency, account_type, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.Name, a.Number, a.ParentAccount, a.Currency, a.AccountType, a.TaxRate)
	if err != nil {
		return fmt.Errorf("create account %s: %w", a.Name, err)
	}
	return nil
}
