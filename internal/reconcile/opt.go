package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/excel"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// OPT exports carry a preamble: the spreadsheet's first row is decor
// (its 4th cell holds the opt number as a leading digit run), the real
// column headers sit on the third row, data follows.
const optHeaderRow = 2

const (
	colOptAmountBoy = "Adet"
	colOptAmountMt  = "Kullanılan"
	colOptAmountPcs = "Parça"
)

// ProcessOPT upserts the optimization document for one cutting run from
// an OPT workbook. Every referenced profile must already exist as an
// item master.
func (e *Engine) ProcessOPT(ctx context.Context, path, optCode string, log *slog.Logger) error {
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
	if len(grid) == 0 {
		return &FileFormatError{Reason: "workbook is empty"}
	}

	optNo := leadingDigits(cellAt(grid[0], 3))
	if optNo == "" {
		return &FileFormatError{Reason: "opt number missing from header row"}
	}
	log.Info("processing opt file", "opt_no", optNo, "opt_code", optCode)

	tbl := excel.NewTableAt(grid, optHeaderRow)
	if len(tbl.Rows) == 0 {
		return &FileFormatError{Reason: "no data rows after header"}
	}
	for _, col := range []string{colStockCode, colDescription, colOptAmountBoy, colOptAmountMt, colOptAmountPcs} {
		if _, ok := tbl.Col(col); !ok {
			return &MissingColumnError{Column: col, Sheet: sheets[0]}
		}
	}

	machineNo, err := e.source.MachineNumber(ctx, optNo)
	if errors.Is(err, ercom.ErrNotFound) || (err == nil && machineNo == 0) {
		return &MachineNotFoundError{OptNo: optNo}
	}
	if err != nil {
		return err
	}

	opt := store.OptGenel{
		OptNo:       optNo,
		OptCode:     optCode,
		MachineName: ercom.MachineName(machineNo),
	}
	for _, row := range tbl.Rows {
		stockCode := tbl.Cell(row, colStockCode)
		if stockCode == "" {
			continue
		}
		exists, err := e.store.ItemExists(ctx, stockCode)
		if err != nil {
			return err
		}
		if !exists {
			return &ItemNotFoundError{StockCode: stockCode}
		}

		boy, err := ParseMoneyOrZero(tbl.Cell(row, colOptAmountBoy))
		if err != nil {
			return err
		}
		mt, err := ParseMoneyOrZero(tbl.Cell(row, colOptAmountMt))
		if err != nil {
			return err
		}
		pcs, err := ParseMoneyOrZero(tbl.Cell(row, colOptAmountPcs))
		if err != nil {
			return err
		}
		opt.Profiles = append(opt.Profiles, store.OptProfile{
			ItemCode:  stockCode,
			ItemName:  tbl.Cell(row, colDescription),
			AmountBoy: boy,
			AmountMt:  mt,
			AmountPcs: pcs,
		})
	}

	if err := e.store.SaveOptGenel(ctx, &opt); err != nil {
		return err
	}
	log.Info("saved optimization document", "opt_no", optNo, "profiles", len(opt.Profiles))
	return nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}
