// Package excel reads the cutting-program spreadsheets exported by the
// legacy desktop application. Sheets are exposed as string grids with
// header-aware tables on top, since the exports use text cells for
// numbers and money alike.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Workbook struct {
	f *excelize.File
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows returns the sheet as a string grid. Every row is padded to the
// width of the widest row so column indexes stay valid throughout.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// Table is a sheet slice with named column access.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable reads column names from the first grid row. The legacy
// exports sometimes pad headers with whitespace, so names are trimmed.
func NewTable(grid [][]string) *Table {
	return NewTableAt(grid, 0)
}

// NewTableAt reads column names from the given row index; everything
// after it becomes data.
func NewTableAt(grid [][]string, headerRow int) *Table {
	t := &Table{index: map[string]int{}}
	if headerRow >= len(grid) {
		return t
	}
	for i, name := range grid[headerRow] {
		name = strings.TrimSpace(name)
		t.Columns = append(t.Columns, name)
		if _, ok := t.index[name]; !ok && name != "" {
			t.index[name] = i
		}
	}
	t.Rows = grid[headerRow+1:]
	return t
}

// Col returns the index of a named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell returns the trimmed value of a named column in the given row, or
// the empty string when the column is absent.
func (t *Table) Cell(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Tail returns the last n data rows.
func (t *Table) Tail(n int) [][]string {
	if len(t.Rows) <= n {
		return t.Rows
	}
	return t.Rows[len(t.Rows)-n:]
}

// Body returns the data rows above the tail block.
func (t *Table) Body(tailLen int) [][]string {
	if len(t.Rows) <= tailLen {
		return nil
	}
	return t.Rows[:len(t.Rows)-tailLen]
}
