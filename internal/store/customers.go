package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Customer struct {
	ID           uuid.UUID
	Name         string
	ErcomCode    string
	CustomerType string
	TaxID        string
	TaxOffice    string
}

type Address struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	AddressLine1 string
	AddressLine2 string
	City         string
	Phone        string
	Fax          string
}

type Contact struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	FirstName  string
	Email      string
	Phone      string
	Mobile     string
}

func (s *Store) CustomerExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer %q: %w", name, err)
	}
	return exists, nil
}

// CreateCustomer stores the customer together with its primary address and
// contact in one transaction. Either child may be nil when the source row
// carried no usable data for it.
func (s *Store) CreateCustomer(ctx context.Context, c Customer, addr *Address, contact *Contact) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		c.ID = uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO customers (id, customer_name, ercom_code, customer_type, tax_id, tax_office)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.Name, c.ErcomCode, c.CustomerType, c.TaxID, c.TaxOffice)
		if err != nil {
			return fmt.Errorf("insert customer %q: %w", c.Name, err)
		}
		if addr != nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO addresses (id, customer_id, address_line1, address_line2, city, phone, fax)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New(), c.ID, addr.AddressLine1, addr.AddressLine2, addr.City, addr.Phone, addr.Fax)
			if err != nil {
				return fmt.Errorf("insert address for %q: %w", c.Name, err)
			}
		}
		if contact != nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO contacts (id, customer_id, first_name, email, phone, mobile)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), c.ID, contact.FirstName, contact.Email, contact.Phone, contact.Mobile)
			if err != nil {
				return fmt.Errorf("insert contact for %q: %w", c.Name, err)
			}
		}
		return nil
	})
}
