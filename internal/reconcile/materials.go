package reconcile

import "github.com/shopspring/decimal"

// quantityPrecision is the rounding applied to derived consumption
// quantities.
const quantityPrecision = 7

// DeriveQuantity computes the consumed quantity of a raw material from
// the row's total price and the item's unit valuation. The export does
// not carry a reliable physical quantity, so consumption is inferred
// from cost allocation: qty = amount / rate, rounded. Only when the
// rate is exactly zero does the manual quantity cell take over; an
// empty manual cell yields zero.
func DeriveQuantity(amount, rate decimal.Decimal, manualQty string) (decimal.Decimal, error) {
	if rate.IsZero() {
		return ParseMoneyOrZero(manualQty)
	}
	return amount.Div(rate).Round(quantityPrecision), nil
}
