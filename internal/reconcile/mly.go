package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/excel"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// Column names are a hard contract with the desktop export.
const (
	colStockCode   = "Stok Kodu"
	colTotalPrice  = "Toplam Fiyat"
	colUnitPrice   = "Birim Fiyat"
	colUnit        = "Birim"
	colUnitWeight  = "Birim Kg."
	colManualQty   = "Miktar"
	colDescription = "Açıklama"
)

const (
	// Each sheet's last three rows form the header block: row 0 holds
	// the order number (whole-file) or first key half (per sheet), row 1
	// the position number.
	headerRows = 3

	// Body rows are tagged with this sentinel in the stock-code column.
	sentinelPrefix = "#"

	// Raw material masters are keyed by prefix + legacy stock code.
	rawMaterialPrefix = "erc-"

	finishedItemUOM   = "Nos"
	finishedItemGroup = "All Item Groups"
)

// ProcessMLY reconciles one MLY workbook: every sheet becomes a
// finished item with a rebuilt, submitted BOM, and the whole file
// becomes one sales order submitted at the end. Sheet i pairs with
// position i of the legacy order; sheets past the available positions
// are skipped with a warning.
func (e *Engine) ProcessMLY(ctx context.Context, path string, log *slog.Logger) error {
	wb, err := excel.Open(path)
	if err != nil {
		return &FileFormatError{Reason: err.Error()}
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return &FileFormatError{Reason: "workbook has no sheets"}
	}

	orderNo, err := e.orderNumber(wb, sheets[0])
	if err != nil {
		return err
	}
	log.Info("processing order", "order_no", orderNo, "sheets", len(sheets))

	order, err := e.source.GetOrder(ctx, orderNo)
	if errors.Is(err, ercom.ErrNotFound) {
		return &OrderNotFoundError{OrderNo: orderNo}
	}
	if err != nil {
		return err
	}
	positions, err := e.source.ListPositions(ctx, orderNo)
	if err != nil {
		return err
	}

	var soLines []store.SalesOrderLine
	for i, sheet := range sheets {
		grid, err := wb.Rows(sheet)
		if err != nil {
			return &FileFormatError{Reason: err.Error()}
		}
		tbl := excel.NewTable(grid)
		if len(tbl.Rows) == 0 {
			log.Warn("skipping empty sheet", "sheet", sheet)
			continue
		}
		if i >= len(positions) {
			log.Warn("skipping sheet without matching position", "sheet", sheet, "index", i)
			continue
		}
		line, err := e.processSheet(ctx, sheet, tbl, positions[i], log)
		if err != nil {
			return err
		}
		soLines = append(soLines, *line)
	}

	return e.reconcileSalesOrder(ctx, orderNo, order, soLines, log)
}

// orderNumber applies the header-block extraction to the first sheet of
// the whole file: the order number sits in the stock-code column of the
// third-from-last row.
func (e *Engine) orderNumber(wb *excel.Workbook, sheet string) (string, error) {
	grid, err := wb.Rows(sheet)
	if err != nil {
		return "", &FileFormatError{Reason: err.Error()}
	}
	tbl := excel.NewTable(grid)
	if len(tbl.Rows) == 0 {
		return "", &FileFormatError{Reason: "workbook is empty"}
	}
	if _, ok := tbl.Col(colStockCode); !ok {
		return "", &MissingColumnError{Column: colStockCode, Sheet: sheet}
	}
	orderNo := tbl.Cell(tbl.Tail(headerRows)[0], colStockCode)
	if orderNo == "" {
		return "", &FileFormatError{Reason: "order number missing from header block"}
	}
	return orderNo, nil
}

// processSheet rebuilds one finished item and its BOM, returning the
// sales-order line the sheet contributes.
func (e *Engine) processSheet(ctx context.Context, sheet string, tbl *excel.Table, poz ercom.Position, log *slog.Logger) (*store.SalesOrderLine, error) {
	for _, col := range []string{colStockCode, colTotalPrice} {
		if _, ok := tbl.Col(col); !ok {
			return nil, &MissingColumnError{Column: col, Sheet: sheet}
		}
	}

	tail := tbl.Tail(headerRows)
	if len(tail) < 2 {
		return nil, &FileFormatError{Reason: "sheet " + sheet + " has no header block"}
	}
	itemCode := tbl.Cell(tail[0], colStockCode) + "-" + tbl.Cell(tail[1], colStockCode)
	totalPrice, err := ParseMoneyOrZero(tbl.Cell(tail[0], colTotalPrice))
	if err != nil {
		return nil, err
	}
	log.Info("processing item", "sheet", sheet, "item_code", itemCode)

	qty := decimal.NewFromFloat(poz.Adet)
	err = e.store.UpsertItem(ctx, store.Item{
		Code:          itemCode,
		Name:          itemCode,
		Group:         finishedItemGroup,
		StockUOM:      finishedItemUOM,
		Description:   poz.Aciklama,
		ValuationRate: totalPrice,
		Serial:        poz.Seri,
		Width:         decimal.NewFromFloat(poz.Genislik),
		Height:        decimal.NewFromFloat(poz.Yukseklik),
		Color:         poz.Renk,
		Quantity:      qty,
		Remarks:       poz.Notlar,
		PozID:         poz.PozID,
	})
	if err != nil {
		return nil, err
	}

	lines, totalCost, err := e.buildBOMLines(ctx, tbl)
	if err != nil {
		return nil, err
	}
	if err := e.reconcileBOM(ctx, itemCode, qty, lines, totalCost, log); err != nil {
		return nil, err
	}

	return &store.SalesOrderLine{
		ItemCode:         itemCode,
		ItemName:         itemCode,
		Description:      poz.Aciklama,
		ItemGroup:        finishedItemGroup,
		UOM:              finishedItemUOM,
		Qty:              qty,
		Rate:             totalCost,
		ConversionFactor: decimal.NewFromInt(1),
	}, nil
}

// buildBOMLines walks the sentinel-tagged body rows and derives one BOM
// line per raw material. The raw-material master is upserted first so
// its valuation rate reflects the row's unit price, then consumption is
// derived from the row's total price against that rate.
func (e *Engine) buildBOMLines(ctx context.Context, tbl *excel.Table) ([]store.BOMLine, decimal.Decimal, error) {
	var lines []store.BOMLine
	totalCost := decimal.Zero

	for _, row := range tbl.Body(headerRows) {
		stockCode := tbl.Cell(row, colStockCode)
		if !strings.HasPrefix(stockCode, sentinelPrefix) {
			continue
		}
		key := rawMaterialPrefix + strings.TrimLeft(stockCode, sentinelPrefix)

		rate, err := ParseMoneyOrZero(tbl.Cell(row, colUnitPrice))
		if err != nil {
			return nil, decimal.Zero, err
		}
		amount, err := ParseMoneyOrZero(tbl.Cell(row, colTotalPrice))
		if err != nil {
			return nil, decimal.Zero, err
		}
		uom, err := e.resolveUnit(ctx, tbl.Cell(row, colUnit))
		if err != nil {
			return nil, decimal.Zero, err
		}
		weight, err := ParseMoneyOrZero(tbl.Cell(row, colUnitWeight))
		if err != nil {
			return nil, decimal.Zero, err
		}

		name := tbl.Cell(row, colDescription)
		if name == "" {
			name = key
		}
		err = e.store.UpsertItem(ctx, store.Item{
			Code:          key,
			Name:          name,
			Group:         e.defaults.RawMaterialGroup,
			StockUOM:      uom,
			Description:   name,
			ValuationRate: rate,
			WeightPerUnit: weight,
		})
		if err != nil {
			return nil, decimal.Zero, err
		}

		// The item master is authoritative for the rate.
		item, err := e.store.GetItem(ctx, key)
		if err != nil {
			return nil, decimal.Zero, err
		}
		qty, err := DeriveQuantity(amount, item.ValuationRate, tbl.Cell(row, colManualQty))
		if err != nil {
			return nil, decimal.Zero, err
		}

		lines = append(lines, store.BOMLine{
			ItemCode:    key,
			ItemName:    item.Name,
			Description: item.Description,
			UOM:         uom,
			Qty:         qty,
			Rate:        item.ValuationRate,
		})
		totalCost = totalCost.Add(qty.Mul(item.ValuationRate))
	}

	return lines, totalCost, nil
}

// reconcileBOM applies the lifecycle transition for one finished item's
// BOM and submits the result. The seed sync creates the initial BOM, so
// a missing one is a precondition failure, not a create.
func (e *Engine) reconcileBOM(ctx context.Context, itemCode string, qty decimal.Decimal, lines []store.BOMLine, totalCost decimal.Decimal, log *slog.Logger) error {
	existing, err := e.store.FindBOMByItem(ctx, itemCode)
	if errors.Is(err, store.ErrNotFound) {
		return &BOMNotFoundError{ItemCode: itemCode}
	}
	if err != nil {
		return err
	}

	b := store.BOM{
		ItemCode:        itemCode,
		Company:         e.defaults.Company,
		Quantity:        qty,
		RMCostBasis:     "Price List",
		BuyingPriceList: e.defaults.BuyingPriceList,
		TotalCost:       totalCost,
		Lines:           lines,
	}

	action := PlanTransition(true, existing.Status)
	switch action {
	case ReuseDraft:
		b.ID = existing.ID
		b.Status = store.StatusDraft
		b.AmendedFrom = existing.AmendedFrom
		if err := e.store.UpdateBOM(ctx, &b); err != nil {
			return err
		}
	case CancelAndAmend:
		if err := e.store.CancelBOM(ctx, existing.ID); err != nil {
			return err
		}
		b.AmendedFrom = &existing.ID
		if err := e.store.CreateBOM(ctx, &b); err != nil {
			return err
		}
	default:
		if err := e.store.CreateBOM(ctx, &b); err != nil {
			return err
		}
	}
	log.Info("rebuilt bom", "item_code", itemCode, "action", action.String(), "lines", len(lines))

	return e.store.SubmitBOM(ctx, b.ID)
}

// reconcileSalesOrder applies the lifecycle transition for the order's
// sales order, attaches the tax line, and submits. Runs once per pass,
// after every sheet has contributed its line.
func (e *Engine) reconcileSalesOrder(ctx context.Context, orderNo string, order ercom.Order, lines []store.SalesOrderLine, log *slog.Logger) error {
	acct, err := e.ensureTaxAccount(ctx)
	if err != nil {
		return err
	}

	for i := range lines {
		lines[i].DeliveryDate = order.SevkTarihi
	}
	so := store.SalesOrder{
		ErcomOrderNo: orderNo,
		Customer:     order.CariUnvan,
		Company:      e.defaults.Company,
		OrderType:    "Sales",
		OrderDate:    order.SipTarihi,
		DeliveryDate: order.SevkTarihi,
		Lines:        lines,
	}

	existing, err := e.store.FindSalesOrderByOrderNo(ctx, orderNo)
	exists := true
	if errors.Is(err, store.ErrNotFound) {
		exists = false
	} else if err != nil {
		return err
	}
	if exists {
		so.Taxes = existing.Taxes
	}
	attachTaxLine(&so, acct)

	action := PlanTransition(exists, existing.Status)
	switch action {
	case ReuseDraft:
		so.ID = existing.ID
		so.Status = store.StatusDraft
		so.AmendedFrom = existing.AmendedFrom
		if err := e.store.UpdateSalesOrder(ctx, &so); err != nil {
			return err
		}
	case CancelAndAmend:
		if err := e.store.CancelSalesOrder(ctx, existing.ID); err != nil {
			return err
		}
		so.AmendedFrom = &existing.ID
		if err := e.store.CreateSalesOrder(ctx, &so); err != nil {
			return err
		}
	default:
		if err := e.store.CreateSalesOrder(ctx, &so); err != nil {
			return err
		}
	}
	log.Info("rebuilt sales order", "order_no", orderNo, "action", action.String(), "lines", len(lines))

	return e.store.SubmitSalesOrder(ctx, so.ID)
}
