// Package sequence provides domain contracts for commercial document numbering.
// Implementations live in pkg/sequence and the infrastructure layer.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// DocType identifies a commercial document kind. The three kinds differ only
// in label, number prefix and a couple of optional date fields.
type DocType string

const (
	TypeQuotation DocType = "quotation"
	TypeProforma  DocType = "proforma"
	TypeInvoice   DocType = "invoice"
)

// Valid reports whether t is one of the known document kinds.
func (t DocType) Valid() bool {
	switch t {
	case TypeQuotation, TypeProforma, TypeInvoice:
		return true
	}
	return false
}

// Prefix returns the 3-letter number prefix for the document kind.
func (t DocType) Prefix() string {
	switch t {
	case TypeQuotation:
		return "QUO"
	case TypeProforma:
		return "PRO"
	case TypeInvoice:
		return "INV"
	}
	return "DOC"
}

// MaxPerDay is the capacity of the two-digit per-day sequence.
// Exceeding it must raise an explicit error, never wrap the padded field.
const MaxPerDay = 99

// DateKeyLayout is the layout of Counters.LastResetDate.
const DateKeyLayout = "2006-01-02"

// DateKey returns the calendar-day key governing the shared daily reset.
func DateKey(at time.Time) string {
	return at.Format(DateKeyLayout)
}

// Format builds a document number.
// Pattern: PREFIX-MMDD-NN (e.g. QUO-0501-01).
func Format(t DocType, at time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%02d", t.Prefix(), at.Format("0102"), n)
}

// Counters is the single durable record owned by the allocator: one integer
// counter per document type plus one shared reset date. All three counters
// reset together on the first allocation of a new calendar day.
type Counters struct {
	Quotation     int    `json:"quotationCount" db:"quotation_count"`
	Proforma      int    `json:"proformaCount" db:"proforma_count"`
	Invoice       int    `json:"invoiceCount" db:"invoice_count"`
	LastResetDate string `json:"lastResetDate" db:"last_reset_date"`
}

// Get returns the counter value for a document type.
func (c Counters) Get(t DocType) int {
	switch t {
	case TypeQuotation:
		return c.Quotation
	case TypeProforma:
		return c.Proforma
	case TypeInvoice:
		return c.Invoice
	}
	return 0
}

// Set stores the counter value for a document type.
func (c *Counters) Set(t DocType, n int) {
	switch t {
	case TypeQuotation:
		c.Quotation = n
	case TypeProforma:
		c.Proforma = n
	case TypeInvoice:
		c.Invoice = n
	}
}

// Allocator allocates human-readable per-day document numbers.
// This is the domain contract - implementations live outside core.
type Allocator interface {
	// Peek computes what the next number would be without mutating state.
	// Safe for previews; never burns a number.
	Peek(ctx context.Context, t DocType, at time.Time) (string, error)

	// Next atomically increments the persisted counter for t and returns the
	// formatted number. Must be invoked at most once per finalized document:
	// calling it merely to preview burns the number.
	Next(ctx context.Context, t DocType, at time.Time) (string, error)
}

// CounterStore persists the Counters record across process restarts.
//
// The design assumes a single logical writer per allocation and provides no
// cross-process locking; a networked deployment must wrap Load/Save in an
// atomic compare-and-increment primitive.
type CounterStore interface {
	Load(ctx context.Context) (Counters, error)
	Save(ctx context.Context, c Counters) error
}
