package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docpress/internal/core/types"
)

func item(name string, qty int, unitPrice string) LineItem {
	return LineItem{
		Name:      name,
		Quantity:  qty,
		UnitPrice: types.MustMoney(unitPrice),
	}
}

func TestCalculateTotals_WithTax(t *testing.T) {
	items := []LineItem{item("Consultancy", 2, "1000")}
	policy := TaxPolicy{Rate: types.MustMoney("0.16"), Include: true}

	totals := CalculateTotals(items, policy)

	assert.True(t, totals.Subtotal.Equal(types.MustMoney("2000")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(types.MustMoney("320")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(types.MustMoney("2320")), "grand total %s", totals.GrandTotal)
}

func TestCalculateTotals_TaxExcluded(t *testing.T) {
	items := []LineItem{
		item("Cabling", 3, "450.50"),
		item("Labour", 1, "8000"),
	}
	policy := TaxPolicy{Rate: types.MustMoney("0.16"), Include: false}

	totals := CalculateTotals(items, policy)

	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal))
	assert.True(t, totals.Subtotal.Equal(types.MustMoney("9351.50")))
}

func TestCalculateTotals_NoDriftAcrossManyItems(t *testing.T) {
	// 0.1 summed 1000 times is exactly 100 in decimal arithmetic.
	items := make([]LineItem, 1000)
	for i := range items {
		items[i] = item("Part", 1, "0.1")
	}

	totals := CalculateTotals(items, TaxPolicy{})
	assert.True(t, totals.Subtotal.Equal(types.MustMoney("100")), "subtotal %s", totals.Subtotal)
}

func TestCalculateTotals_Pure(t *testing.T) {
	items := []LineItem{item("Router", 4, "125.25")}
	policy := TaxPolicy{Rate: types.MustMoney("0.16"), Include: true}

	first := CalculateTotals(items, policy)
	for i := 0; i < 10; i++ {
		again := CalculateTotals(items, policy)
		assert.True(t, first.Subtotal.Equal(again.Subtotal))
		assert.True(t, first.TaxAmount.Equal(again.TaxAmount))
		assert.True(t, first.GrandTotal.Equal(again.GrandTotal))
	}
}

func TestApplyTotals_NeverTrustsInputLineTotals(t *testing.T) {
	rec := NewRecord(TypeInvoice, Customer{Name: "Acme"})
	lied := item("Switch", 2, "500")
	lied.LineTotal = types.MustMoney("1") // bogus caller-supplied value
	rec.Items = []LineItem{lied}

	rec.ApplyTotals(TaxPolicy{Rate: types.MustMoney("0.16"), Include: true})

	assert.True(t, rec.Items[0].LineTotal.Equal(types.MustMoney("1000")))
	assert.True(t, rec.Subtotal.Equal(types.MustMoney("1000")))
	assert.True(t, rec.GrandTotal.Equal(types.MustMoney("1160")))
}

func TestConvertForDisplay(t *testing.T) {
	amount := types.MustMoney("2600")
	rate := types.MustMoney("130")

	assert.True(t, ConvertForDisplay(amount, rate).Equal(types.MustMoney("20")))

	// A non-positive snapshot falls back to the base amount.
	assert.True(t, ConvertForDisplay(amount, types.Zero()).Equal(amount))

	// Conversion never rewrites the base amount.
	assert.True(t, amount.Equal(types.MustMoney("2600")))
}

func TestConvertForDisplay_Rounds(t *testing.T) {
	got := ConvertForDisplay(types.MustMoney("1000"), types.MustMoney("130"))
	assert.Equal(t, "7.69", got.StringFixed(2))
}
