package reconcile

import "fmt"

// The error types below separate user-correctable preconditions (sync
// the database first, fix the export) from genuinely malformed input.
// Precondition failures abort the whole pass; malformed optional cells
// never do.

// FileFormatError means the workbook could not be read or does not
// follow the export layout.
type FileFormatError struct {
	Reason string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("invalid file: %s", e.Reason)
}

// MissingColumnError means a mandatory column is absent from a sheet.
type MissingColumnError struct {
	Column string
	Sheet  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}

// FormatError means a numeric or money cell could not be parsed.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse numeric value %q", e.Value)
}

// OrderNotFoundError means the legacy source has no order row for the
// number extracted from the file.
type OrderNotFoundError struct {
	OrderNo string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found, sync the database before uploading the file", e.OrderNo)
}

// BOMNotFoundError means no BOM exists for a finished-item key. The
// seed sync creates the initial BOM, so this points at a missed sync.
type BOMNotFoundError struct {
	ItemCode string
}

func (e *BOMNotFoundError) Error() string {
	return fmt.Sprintf("BOM for the item %s does not exist", e.ItemCode)
}

// ItemNotFoundError means a referenced item master is missing.
type ItemNotFoundError struct {
	StockCode string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item not found for stock code %s", e.StockCode)
}

// OptNotFoundError means a DST upload references an optimization
// document that was never created by an OPT upload.
type OptNotFoundError struct {
	OptCode string
}

func (e *OptNotFoundError) Error() string {
	return fmt.Sprintf("optimization document with code %s does not exist", e.OptCode)
}

// MachineNotFoundError means the legacy source has no machine mapping
// for an optimization run.
type MachineNotFoundError struct {
	OptNo string
}

func (e *MachineNotFoundError) Error() string {
	return fmt.Sprintf("machine not found for opt number %s", e.OptNo)
}
