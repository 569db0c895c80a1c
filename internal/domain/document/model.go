// Package document provides the commercial document record (quotation,
// proforma invoice, tax invoice) and its lifecycle operations.
package document

import (
	"context"
	"time"

	"docpress/internal/core/apperror"
	"docpress/internal/core/id"
	"docpress/internal/core/sequence"
	"docpress/internal/core/types"
)

// Type aliases the shared document kind so callers read document.TypeInvoice.
type Type = sequence.DocType

const (
	TypeQuotation = sequence.TypeQuotation
	TypeProforma  = sequence.TypeProforma
	TypeInvoice   = sequence.TypeInvoice
)

// Status tracks the commercial state of a record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Customer is the customer snapshot embedded in a record. It is copied from
// the client directory at creation time so later client edits never rewrite
// issued documents.
type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"taxId,omitempty"`
}

// LineItem is one row of a document: a quantity of a named product or
// service at a unit price. LineTotal is always recomputed by the engine,
// never trusted verbatim from input.
type LineItem struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	LineTotal   types.Money `json:"lineTotal"`
}

// Record is a commercial document. Created as a draft (no permanent number),
// finalized once (number allocated, totals frozen), then append-only history.
// Converting never mutates the source; it creates a new linked Record.
type Record struct {
	ID     id.ID  `db:"id" json:"id"`
	Number string `db:"number" json:"number,omitempty"`
	Type   Type   `db:"doc_type" json:"type"`
	Status Status `db:"status" json:"status"`

	IssuedDate time.Time  `db:"issued_date" json:"issuedDate"`
	DueDate    *time.Time `db:"due_date" json:"dueDate,omitempty"`
	ValidUntil *time.Time `db:"valid_until" json:"validUntil,omitempty"`

	Customer Customer   `db:"-" json:"customer"`
	Items    []LineItem `db:"-" json:"items"`

	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount  types.Money `db:"tax_amount" json:"taxAmount"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	// CurrencyRate is the exchange-rate snapshot captured at creation/edit
	// time. Immutable thereafter: later changes to the global rate must never
	// retroactively alter a saved record's secondary-currency display.
	CurrencyRate types.Money `db:"currency_rate" json:"currencyRate"`

	Responsibilities string `db:"-" json:"clientResponsibilities,omitempty"`
	Terms            string `db:"-" json:"termsAndConditions,omitempty"`

	// SourceNumber links a converted document to the number it was
	// converted from.
	SourceNumber string `db:"source_number" json:"convertedFrom,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewRecord creates a draft record with a generated internal ID.
func NewRecord(t Type, customer Customer) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:           id.New(),
		Type:         t,
		Status:       StatusDraft,
		IssuedDate:   now,
		Customer:     customer,
		Items:        make([]LineItem, 0),
		CurrencyRate: types.NewMoneyFromInt(1),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Finalized reports whether a permanent number has been allocated.
func (r *Record) Finalized() bool {
	return r.Number != ""
}

// Touch updates the modification timestamp.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// Validate checks the record at the call boundary, before totals or
// rendering. Zero line items or a missing customer name are rejected here so
// the renderer never sees them.
func (r *Record) Validate(ctx context.Context) error {
	if !r.Type.Valid() {
		return apperror.NewValidation("unknown document type").
			WithDetail("field", "type").
			WithDetail("value", string(r.Type))
	}

	if r.Customer.Name == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customer.name")
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
		if item.Name == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	if r.CurrencyRate.Sign() <= 0 {
		return apperror.NewValidation("currency rate snapshot must be positive").
			WithDetail("field", "currencyRate")
	}

	return nil
}

// Label returns the human-readable title band text for the document kind.
func Label(t Type) string {
	switch t {
	case TypeQuotation:
		return "PRICE QUOTATION"
	case TypeProforma:
		return "PROFORMA INVOICE"
	default:
		return "INVOICE"
	}
}
