package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ozerpan/ercom-sync/internal/excel"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// DST exports use uppercase headers and bare legacy stock codes; the
// raw-material prefix is applied on lookup.
const (
	colDSTStockCode   = "STOK KODU"
	colDSTDescription = "AÇIKLAMA"
	colDSTSize        = "OLCU"
)

// ProcessDST replaces the cut-piece list of an existing optimization
// document with the contents of a DST workbook.
func (e *Engine) ProcessDST(ctx context.Context, path, optCode string, log *slog.Logger) error {
	opt, err := e.store.FindOptGenelByCode(ctx, optCode)
	if errors.Is(err, store.ErrNotFound) {
		return &OptNotFoundError{OptCode: optCode}
	}
	if err != nil {
		return err
	}

	wb, err := excel.Open(path)
	if err != nil {
		return &FileFormatError{Reason: err.Error()}
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return &FileFormatError{Reason: "workbook has no sheets"}
	}
	grid, err := wb.Rows(sheets[0])
	if err != nil {
		return &FileFormatError{Reason: err.Error()}
	}
	tbl := excel.NewTable(grid)
	if len(tbl.Rows) == 0 {
		return &FileFormatError{Reason: "workbook is empty"}
	}
	for _, col := range []string{colDSTStockCode, colDSTDescription, colDSTSize} {
		if _, ok := tbl.Col(col); !ok {
			return &MissingColumnError{Column: col, Sheet: sheets[0]}
		}
	}
	log.Info("processing dst file", "opt_code", optCode, "rows", len(tbl.Rows))

	var items []store.OptDSTItem
	for _, row := range tbl.Rows {
		stockCode := tbl.Cell(row, colDSTStockCode)
		if stockCode == "" {
			continue
		}
		key := rawMaterialPrefix + stockCode
		exists, err := e.store.ItemExists(ctx, key)
		if err != nil {
			return err
		}
		if !exists {
			return &ItemNotFoundError{StockCode: stockCode}
		}

		size, err := ParseMoneyOrZero(tbl.Cell(row, colDSTSize))
		if err != nil {
			return err
		}
		items = append(items, store.OptDSTItem{
			ItemCode: key,
			ItemName: tbl.Cell(row, colDSTDescription),
			Size:     size,
		})
	}

	if err := e.store.ReplaceOptGenelDST(ctx, opt.ID, items); err != nil {
		return err
	}
	log.Info("replaced cut-piece list", "opt_no", opt.OptNo, "items", len(items))
	return nil
}
