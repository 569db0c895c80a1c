package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docpress/internal/core/types"
)

func TestFormatPlain(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"75":         "75.00",
		"1234.5":     "1,234.50",
		"1234567.8":  "1,234,567.80",
		"-9876543.2": "-9,876,543.20",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatPlain(types.MustMoney(in)), "input %s", in)
	}
}

func TestFormatCompact(t *testing.T) {
	cases := map[string]string{
		"999":        "999.00",
		"1000":       "1K",
		"1234":       "1.2K",
		"2500000":    "2.5M",
		"1000000000": "1B",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatCompact(types.MustMoney(in)), "input %s", in)
	}
}

func TestFormatAmountConvertsThroughSnapshot(t *testing.T) {
	s := DefaultSettings()
	s.BaseCurrency = "Ksh"
	s.DisplayCurrency = "USD"
	r := resolveSettings(s)

	amount := types.MustMoney("2600")
	rate := types.MustMoney("130")

	assert.Equal(t, "20.00", r.formatAmount(amount, rate))
	assert.Equal(t, "USD 20.00", r.currencyCell(amount, rate))

	// Stored amount is untouched: conversion is display-only.
	assert.True(t, amount.Equal(types.MustMoney("2600")))
}

func TestFormatAmountNoConversionSameCurrency(t *testing.T) {
	r := resolveSettings(DefaultSettings())
	assert.Equal(t, "Ksh 2,600.00", r.currencyCell(types.MustMoney("2600"), types.MustMoney("130")))
}
