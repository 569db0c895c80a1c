package render

import (
	"fmt"
	"strings"

	"docpress/internal/core/types"
	"docpress/internal/domain/document"
)

// formatAmount renders a base-currency amount for a monetary cell: converted
// through the record's snapshot rate when a secondary display currency is
// selected, then formatted per the configured notation.
func (r resolved) formatAmount(amount, rateSnapshot types.Money) string {
	if r.convertsCurrency() {
		amount = document.ConvertForDisplay(amount, rateSnapshot)
	}
	if r.NumberFormat == NumberCompact {
		return formatCompact(amount)
	}
	return formatPlain(amount)
}

// formatPlain renders 1234567.8 as "1,234,567.80".
func formatPlain(amount types.Money) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + "." + parts[1]
	if neg {
		return "-" + out
	}
	return out
}

// formatCompact renders short-scale compact notation: 1234 -> "1.2K",
// 2500000 -> "2.5M". Values under a thousand keep the plain form.
func formatCompact(amount types.Money) string {
	abs := amount.Abs()

	type scale struct {
		limit  types.Money
		suffix string
	}
	scales := []scale{
		{types.NewMoneyFromInt(1_000_000_000), "B"},
		{types.NewMoneyFromInt(1_000_000), "M"},
		{types.NewMoneyFromInt(1_000), "K"},
	}

	for _, sc := range scales {
		if abs.GreaterThanOrEqual(sc.limit) {
			v := amount.DivRound(sc.limit, 1)
			s := v.StringFixed(1)
			s = strings.TrimSuffix(s, ".0")
			return s + sc.suffix
		}
	}
	return formatPlain(amount)
}

// currencyCell prefixes an amount with the display currency label, as used
// in the summary box ("Ksh 2,320.00").
func (r resolved) currencyCell(amount, rateSnapshot types.Money) string {
	label := r.DisplayCurrency
	if label == "" {
		label = r.BaseCurrency
	}
	if label == "" {
		return r.formatAmount(amount, rateSnapshot)
	}
	return fmt.Sprintf("%s %s", label, r.formatAmount(amount, rateSnapshot))
}
