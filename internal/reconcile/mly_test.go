package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ozerpan/ercom-sync/internal/config"
	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/store"
)

func testDefaults() config.Defaults {
	return config.Defaults{
		Company:          "Ozerpan",
		CompanyAbbr:      "OZ",
		BuyingPriceList:  "Standard Selling",
		RawMaterialGroup: "Raw Material",
		TaxAccountName:   "ERCOM HESAPLANAN KDV 20",
		TaxAccountNumber: "391.99",
		TaxRate:          decimal.NewFromInt(20),
		TaxCurrency:      "TRY",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSheets(t *testing.T, order [][]string, sheets map[string][][]string) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	write := func(name string, rows [][]string) {
		if first {
			f.SetSheetName("Sheet1", name)
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = v
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	for _, row := range order {
		write(row[0], sheets[row[0]])
	}
	path := filepath.Join(t.TempDir(), "S2401_MLY1.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

// mlySheet builds one conforming sheet: body rows tagged with '#', then
// the three-row header block carrying order number, position number and
// total price.
func mlySheet(orderNo, pozNo, totalPrice string, body [][]string) [][]string {
	rows := [][]string{
		{"Stok Kodu", "Açıklama", "Miktar", "Birim", "Birim Fiyat", "Toplam Fiyat"},
	}
	rows = append(rows, body...)
	rows = append(rows,
		[]string{orderNo, "", "", "", "", totalPrice},
		[]string{pozNo, "", "", "", "", ""},
		[]string{"toplam", "", "", "", "", ""},
	)
	return rows
}

func mlyFixture(t *testing.T) (string, *fakeStore, *fakeSource, *Engine) {
	t.Helper()
	path := writeSheets(t,
		[][]string{{"Sayfa1"}},
		map[string][][]string{
			"Sayfa1": mlySheet("S2401", "1", "1.250,00 TL", [][]string{
				{"#101", "PVC Profil", "", "mtül", "10,00 TL", "25,00 TL"},
			}),
		},
	)
	st := newFakeStore()
	src := &fakeSource{
		order: ercom.Order{SiparisNo: "S2401", CariUnvan: "ACME PENCERE"},
		positions: []ercom.Position{
			{PozID: 7, SiparisNo: "S2401", PozNo: 1, Adet: 2, Seri: "S70", Renk: "Beyaz", Aciklama: "Pencere"},
		},
	}
	return path, st, src, NewEngine(st, src, testDefaults())
}

func seedDraftBOM(st *fakeStore, itemCode string) *store.BOM {
	b := &store.BOM{ItemCode: itemCode}
	_ = st.CreateBOM(context.Background(), b)
	return st.boms[len(st.boms)-1]
}

func TestProcessMLYReusesDraftBOM(t *testing.T) {
	path, st, _, eng := mlyFixture(t)
	seeded := seedDraftBOM(st, "S2401-1")

	if err := eng.ProcessMLY(context.Background(), path, discardLogger()); err != nil {
		t.Fatalf("ProcessMLY error = %v", err)
	}

	if len(st.boms) != 1 {
		t.Fatalf("bom count = %d, want 1 (draft reused in place)", len(st.boms))
	}
	bom := st.boms[0]
	if bom.ID != seeded.ID {
		t.Fatal("draft BOM was replaced instead of reused")
	}
	if bom.Status != store.StatusSubmitted {
		t.Fatalf("bom status = %v, want submitted", bom.Status)
	}
	if len(bom.Lines) != 1 {
		t.Fatalf("bom lines = %d, want 1", len(bom.Lines))
	}
	line := bom.Lines[0]
	if line.ItemCode != "erc-101" {
		t.Fatalf("line item = %q, want erc-101", line.ItemCode)
	}
	if !line.Qty.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("derived qty = %s, want 2.5", line.Qty)
	}
	if !line.Rate.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("line rate = %s, want 10", line.Rate)
	}
	if line.UOM != "Mtul" {
		t.Fatalf("line uom = %q, want Mtul", line.UOM)
	}

	if _, ok := st.items["erc-101"]; !ok {
		t.Fatal("raw material master was not upserted")
	}
	fi, ok := st.items["S2401-1"]
	if !ok {
		t.Fatal("finished item master was not upserted")
	}
	if !fi.ValuationRate.Equal(decimal.RequireFromString("1250")) {
		t.Fatalf("finished item valuation = %s, want 1250", fi.ValuationRate)
	}
	if fi.PozID != 7 {
		t.Fatalf("finished item poz id = %d, want 7", fi.PozID)
	}
}

func TestProcessMLYSubmitsSalesOrderWithTaxLine(t *testing.T) {
	path, st, _, eng := mlyFixture(t)
	seedDraftBOM(st, "S2401-1")

	if err := eng.ProcessMLY(context.Background(), path, discardLogger()); err != nil {
		t.Fatalf("ProcessMLY error = %v", err)
	}

	if len(st.orders) != 1 {
		t.Fatalf("sales order count = %d, want 1", len(st.orders))
	}
	so := st.orders[0]
	if so.Status != store.StatusSubmitted {
		t.Fatalf("sales order status = %v, want submitted", so.Status)
	}
	if so.Customer != "ACME PENCERE" {
		t.Fatalf("customer = %q", so.Customer)
	}
	if len(so.Lines) != 1 {
		t.Fatalf("sales order lines = %d, want 1", len(so.Lines))
	}
	line := so.Lines[0]
	if line.ItemCode != "S2401-1" {
		t.Fatalf("line item = %q", line.ItemCode)
	}
	if !line.Qty.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("line qty = %s, want 2", line.Qty)
	}
	if !line.Rate.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("line rate = %s, want bom total cost 25", line.Rate)
	}
	if len(so.Taxes) != 1 {
		t.Fatalf("tax lines = %d, want 1", len(so.Taxes))
	}
	if so.Taxes[0].AccountHead != "ERCOM HESAPLANAN KDV 20" {
		t.Fatalf("tax account head = %q", so.Taxes[0].AccountHead)
	}
	if len(st.accounts) != 1 {
		t.Fatalf("accounts created = %d, want 1", len(st.accounts))
	}
	if st.accounts[0].ParentAccount != "391 - HESAPLANAN KDV - OZ" {
		t.Fatalf("tax parent = %q", st.accounts[0].ParentAccount)
	}
}

func TestProcessMLYRerunCancelsAndAmends(t *testing.T) {
	path, st, _, eng := mlyFixture(t)
	seedDraftBOM(st, "S2401-1")

	ctx := context.Background()
	if err := eng.ProcessMLY(ctx, path, discardLogger()); err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	firstBOM := *st.boms[0]
	firstSO := *st.orders[0]

	if err := eng.ProcessMLY(ctx, path, discardLogger()); err != nil {
		t.Fatalf("second pass error = %v", err)
	}

	if len(st.boms) != 2 {
		t.Fatalf("bom count after rerun = %d, want 2", len(st.boms))
	}
	if st.boms[0].Status != store.StatusCancelled {
		t.Fatalf("predecessor bom status = %v, want cancelled", st.boms[0].Status)
	}
	successor := st.boms[1]
	if successor.Status != store.StatusSubmitted {
		t.Fatalf("successor bom status = %v, want submitted", successor.Status)
	}
	if successor.AmendedFrom == nil || *successor.AmendedFrom != firstBOM.ID {
		t.Fatal("successor bom does not reference the cancelled predecessor")
	}

	if len(st.orders) != 2 {
		t.Fatalf("sales order count after rerun = %d, want 2", len(st.orders))
	}
	if st.orders[0].Status != store.StatusCancelled {
		t.Fatalf("predecessor sales order status = %v, want cancelled", st.orders[0].Status)
	}
	soSuccessor := st.orders[1]
	if soSuccessor.AmendedFrom == nil || *soSuccessor.AmendedFrom != firstSO.ID {
		t.Fatal("successor sales order does not reference the cancelled predecessor")
	}
	if len(soSuccessor.Taxes) != 1 {
		t.Fatalf("successor tax lines = %d, want 1", len(soSuccessor.Taxes))
	}
}

func TestProcessMLYMissingBOMAbortsPass(t *testing.T) {
	path, st, _, eng := mlyFixture(t)

	err := eng.ProcessMLY(context.Background(), path, discardLogger())
	var notFound *BOMNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *BOMNotFoundError", err)
	}
	if notFound.ItemCode != "S2401-1" {
		t.Fatalf("item code = %q", notFound.ItemCode)
	}
	if len(st.orders) != 0 {
		t.Fatal("sales order must not be created when the pass aborts")
	}
}

func TestProcessMLYUnknownOrderAborts(t *testing.T) {
	path, st, src, eng := mlyFixture(t)
	seedDraftBOM(st, "S2401-1")
	src.order.SiparisNo = "OTHER"

	err := eng.ProcessMLY(context.Background(), path, discardLogger())
	var notFound *OrderNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *OrderNotFoundError", err)
	}
}

func TestProcessMLYSkipsSheetsPastAvailablePositions(t *testing.T) {
	body := [][]string{{"#101", "PVC Profil", "", "mtül", "10,00 TL", "25,00 TL"}}
	path := writeSheets(t,
		[][]string{{"Sayfa1"}, {"Sayfa2"}},
		map[string][][]string{
			"Sayfa1": mlySheet("S2401", "1", "1.250,00 TL", body),
			"Sayfa2": mlySheet("S2401", "2", "900,00 TL", body),
		},
	)
	st := newFakeStore()
	src := &fakeSource{
		order: ercom.Order{SiparisNo: "S2401", CariUnvan: "ACME PENCERE"},
		positions: []ercom.Position{
			{PozID: 7, SiparisNo: "S2401", PozNo: 1, Adet: 2},
		},
	}
	eng := NewEngine(st, src, testDefaults())
	seedDraftBOM(st, "S2401-1")

	if err := eng.ProcessMLY(context.Background(), path, discardLogger()); err != nil {
		t.Fatalf("ProcessMLY error = %v", err)
	}
	if len(st.orders) != 1 || len(st.orders[0].Lines) != 1 {
		t.Fatal("overrun sheet must be skipped, not processed")
	}
}

func TestProcessMLYEmptyBodyYieldsBOMWithoutLines(t *testing.T) {
	path := writeSheets(t,
		[][]string{{"Sayfa1"}},
		map[string][][]string{
			"Sayfa1": mlySheet("S2401", "1", "1.250,00 TL", nil),
		},
	)
	st := newFakeStore()
	src := &fakeSource{
		order:     ercom.Order{SiparisNo: "S2401", CariUnvan: "ACME PENCERE"},
		positions: []ercom.Position{{PozID: 7, SiparisNo: "S2401", PozNo: 1, Adet: 2}},
	}
	eng := NewEngine(st, src, testDefaults())
	seedDraftBOM(st, "S2401-1")

	if err := eng.ProcessMLY(context.Background(), path, discardLogger()); err != nil {
		t.Fatalf("ProcessMLY error = %v", err)
	}
	bom := st.boms[0]
	if bom.Status != store.StatusSubmitted {
		t.Fatalf("bom status = %v, want submitted", bom.Status)
	}
	if len(bom.Lines) != 0 {
		t.Fatalf("bom lines = %d, want 0", len(bom.Lines))
	}
}

func TestProcessMLYMissingColumnFails(t *testing.T) {
	path := writeSheets(t,
		[][]string{{"Sayfa1"}},
		map[string][][]string{
			"Sayfa1": {
				{"Malzeme", "Miktar"},
				{"x", "1"},
			},
		},
	)
	st := newFakeStore()
	eng := NewEngine(st, &fakeSource{}, testDefaults())

	err := eng.ProcessMLY(context.Background(), path, discardLogger())
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingColumnError", err)
	}
	if missing.Column != "Stok Kodu" {
		t.Fatalf("column = %q", missing.Column)
	}
}
