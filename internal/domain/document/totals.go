package document

import (
	"github.com/shopspring/decimal"

	"docpress/internal/core/types"
)

var decimalOne = decimal.NewFromInt(1)

// Totals holds the financial summary computed from line items.
type Totals struct {
	Subtotal   types.Money `json:"subtotal"`
	TaxAmount  types.Money `json:"taxAmount"`
	GrandTotal types.Money `json:"grandTotal"`
}

// TaxPolicy is the tax configuration applied when computing totals.
type TaxPolicy struct {
	// Rate is a decimal fraction, e.g. 0.16 for 16%.
	Rate types.Money
	// Include controls whether tax is added at all.
	Include bool
}

// LineTotal computes unitPrice x quantity for one item with no intermediate
// rounding.
func LineTotal(item LineItem) types.Money {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CalculateTotals computes subtotal, tax and grand total from line items.
// Pure: no shared state, identical inputs always yield identical outputs.
func CalculateTotals(items []LineItem, policy TaxPolicy) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}

	taxAmount := decimal.Zero
	if policy.Include {
		taxAmount = subtotal.Mul(policy.Rate)
	}

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}

// ConvertForDisplay converts a base-currency amount to the secondary display
// currency using the record's immutable rate snapshot. Non-mutating: stored
// base-currency fields are never rewritten.
func ConvertForDisplay(amount, rateSnapshot types.Money) types.Money {
	if rateSnapshot.Sign() <= 0 {
		return amount
	}
	return amount.DivRound(rateSnapshot, 2)
}

// ApplyTotals recomputes every line total and the document totals in place.
// Input line totals are ignored: the engine is the single source of truth.
func (r *Record) ApplyTotals(policy TaxPolicy) {
	for i := range r.Items {
		r.Items[i].LineTotal = LineTotal(r.Items[i])
	}
	totals := CalculateTotals(r.Items, policy)
	r.Subtotal = totals.Subtotal
	r.TaxAmount = totals.TaxAmount
	r.GrandTotal = totals.GrandTotal
}
