package ercomsync

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ozerpan/ercom-sync/internal/store"
)

// SeedStats summarizes one seed-sync pass.
type SeedStats struct {
	Customers int
	Items     int
}

// SyncErcom seeds the document store from the legacy database: dealer
// accounts become customers with their primary address and contact,
// and the newest positions become finished-item masters each with an
// initial draft BOM. Already-seeded records are skipped.
func (s *Syncer) SyncErcom(ctx context.Context, log *slog.Logger) (SeedStats, error) {
	var stats SeedStats

	customers, err := s.syncCustomers(ctx, log)
	if err != nil {
		return stats, err
	}
	stats.Customers = customers

	items, err := s.syncItems(ctx, log)
	if err != nil {
		return stats, err
	}
	stats.Items = items

	return stats, nil
}

func (s *Syncer) syncCustomers(ctx context.Context, log *slog.Logger) (int, error) {
	rows, err := s.source.ListCustomers(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		log.Warn("no customer data found")
		return 0, nil
	}

	created := 0
	for _, row := range rows {
		if row.Adi == "" {
			continue
		}
		exists, err := s.store.CustomerExists(ctx, row.Adi)
		if err != nil {
			return created, err
		}
		if exists {
			log.Info("customer already exists", "name", row.Adi)
			continue
		}

		c := store.Customer{
			Name:         row.Adi,
			ErcomCode:    row.Kod,
			CustomerType: "Company",
			TaxID:        row.VergiNo,
			TaxOffice:    row.VDairesi,
		}
		addr := &store.Address{
			AddressLine1: row.Adres1,
			AddressLine2: row.Adres2,
			City:         row.Sehir,
			Phone:        row.Telefon1,
			Fax:          row.Faks,
		}
		if addr.AddressLine1 == "" {
			addr.AddressLine1 = row.Adi
		}
		if addr.City == "" {
			addr.City = "Bilinmiyor"
		}
		contact := &store.Contact{
			FirstName: row.Adi,
			Email:     row.Email,
		}
		if isValidPhone(row.Telefon1) {
			contact.Phone = strings.TrimSpace(row.Telefon1)
		}
		if isValidPhone(row.Telefon2) {
			contact.Mobile = strings.TrimSpace(row.Telefon2)
		}

		if err := s.store.CreateCustomer(ctx, c, addr, contact); err != nil {
			return created, err
		}
		log.Info("created customer", "name", row.Adi)
		created++
	}
	return created, nil
}

func (s *Syncer) syncItems(ctx context.Context, log *slog.Logger) (int, error) {
	positions, err := s.source.ListPositionsRecent(ctx, s.itemLimit)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		log.Warn("no item data found")
		return 0, nil
	}

	created := 0
	for _, poz := range positions {
		itemCode := fmt.Sprintf("%s-%d", poz.SiparisNo, poz.PozNo)
		exists, err := s.store.ItemExists(ctx, itemCode)
		if err != nil {
			return created, err
		}
		if exists {
			log.Info("item already exists", "item_code", itemCode)
			continue
		}

		qty := decimal.NewFromFloat(poz.Adet)
		err = s.store.UpsertItem(ctx, store.Item{
			Code:          itemCode,
			Name:          itemCode,
			Group:         "All Item Groups",
			StockUOM:      "Unit",
			Description:   poz.Aciklama,
			ValuationRate: decimal.NewFromFloat(poz.Tutar),
			Serial:        poz.Seri,
			Width:         decimal.NewFromFloat(poz.Genislik),
			Height:        decimal.NewFromFloat(poz.Yukseklik),
			Color:         poz.Renk,
			Quantity:      qty,
			Remarks:       poz.Notlar,
			PozID:         poz.PozID,
		})
		if err != nil {
			return created, err
		}

		// Initial draft BOM: a single self-referencing line, filled in
		// by the first MLY upload for this order.
		bom := store.BOM{
			ItemCode: itemCode,
			Company:  s.defaults.Company,
			Quantity: qty,
			Lines:    []store.BOMLine{{ItemCode: itemCode, ItemName: itemCode}},
		}
		if err := s.store.CreateBOM(ctx, &bom); err != nil {
			return created, err
		}
		log.Info("created item", "item_code", itemCode)
		created++
	}
	return created, nil
}

var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

func isValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}
