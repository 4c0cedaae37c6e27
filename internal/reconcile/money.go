package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a locale-formatted money or measurement cell to a
// decimal. The exports write Turkish notation with an optional currency
// marker: "1.234,56" is 1234.56 and "123,45 tl" is 123.45. Dots are
// thousands separators and are removed, the comma is the decimal point.
func ParseMoney(text string) (decimal.Decimal, error) {
	cleaned := strings.ToLower(text)
	cleaned = strings.ReplaceAll(cleaned, "tl", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &FormatError{Value: text}
	}
	return d, nil
}

// ParseMoneyOrZero is ParseMoney for optional cells: an empty cell is
// zero, anything else must parse.
func ParseMoneyOrZero(text string) (decimal.Decimal, error) {
	if strings.TrimSpace(text) == "" {
		return decimal.Zero, nil
	}
	return ParseMoney(text)
}
