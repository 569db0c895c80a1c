// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"docpress/internal/core/types"
	"docpress/internal/domain/document"
)

// --- Requests ---

// CustomerPayload is the customer snapshot carried by a document.
type CustomerPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
}

// LineItemPayload is one billed line.
type LineItemPayload struct {
	ID          string      `json:"id"`
	Name        string      `json:"name" binding:"required"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity" binding:"required,gt=0"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// CreateDocumentRequest creates a new draft.
type CreateDocumentRequest struct {
	Type     string            `json:"type" binding:"required,oneof=quotation proforma invoice"`
	Customer CustomerPayload   `json:"customer" binding:"required"`
	Items    []LineItemPayload `json:"items" binding:"required,min=1,dive"`

	IssuedDate *time.Time `json:"issuedDate"`
	DueDate    *time.Time `json:"dueDate"`
	ValidUntil *time.Time `json:"validUntil"`

	// CurrencyRate is the exchange-rate snapshot frozen into the document.
	// Zero means the server default of 1.
	CurrencyRate types.Money `json:"currencyRate"`

	Responsibilities string `json:"responsibilities"`
	Terms            string `json:"terms"`
}

// UpdateDocumentRequest replaces the mutable parts of a draft.
type UpdateDocumentRequest struct {
	Customer CustomerPayload   `json:"customer" binding:"required"`
	Items    []LineItemPayload `json:"items" binding:"required,min=1,dive"`

	IssuedDate *time.Time `json:"issuedDate"`
	DueDate    *time.Time `json:"dueDate"`
	ValidUntil *time.Time `json:"validUntil"`

	CurrencyRate types.Money `json:"currencyRate"`

	Responsibilities string `json:"responsibilities"`
	Terms            string `json:"terms"`
}

// ConvertDocumentRequest derives a document of another type.
type ConvertDocumentRequest struct {
	TargetType string `json:"targetType" binding:"required,oneof=quotation proforma invoice"`
}

// ListDocumentsRequest filters the document list.
type ListDocumentsRequest struct {
	Type string `form:"type" binding:"omitempty,oneof=quotation proforma invoice"`
}

// --- Responses ---

// IDResponse carries a created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// NumberResponse carries an allocated or previewed document number.
type NumberResponse struct {
	Number string `json:"number"`
}

// LineItemResponse mirrors LineItemPayload plus the computed line total.
type LineItemResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	LineTotal   types.Money `json:"lineTotal"`
}

// DocumentResponse is the full document representation.
type DocumentResponse struct {
	ID         string          `json:"id"`
	Number     string          `json:"number,omitempty"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	IssuedDate time.Time       `json:"issuedDate"`
	DueDate    *time.Time      `json:"dueDate,omitempty"`
	ValidUntil *time.Time      `json:"validUntil,omitempty"`
	Customer   CustomerPayload `json:"customer"`

	Items []LineItemResponse `json:"items"`

	Subtotal     types.Money `json:"subtotal"`
	TaxAmount    types.Money `json:"taxAmount"`
	GrandTotal   types.Money `json:"grandTotal"`
	CurrencyRate types.Money `json:"currencyRate"`

	Responsibilities string `json:"responsibilities,omitempty"`
	Terms            string `json:"terms,omitempty"`
	SourceNumber     string `json:"sourceNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// FromRecord maps a domain record to its API representation.
func FromRecord(rec *document.Record) DocumentResponse {
	items := make([]LineItemResponse, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, LineItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Category:    it.Category,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}

	return DocumentResponse{
		ID:         rec.ID.String(),
		Number:     rec.Number,
		Type:       string(rec.Type),
		Status:     string(rec.Status),
		IssuedDate: rec.IssuedDate,
		DueDate:    rec.DueDate,
		ValidUntil: rec.ValidUntil,
		Customer: CustomerPayload{
			ID:      rec.Customer.ID,
			Name:    rec.Customer.Name,
			Phone:   rec.Customer.Phone,
			Email:   rec.Customer.Email,
			Address: rec.Customer.Address,
			TaxID:   rec.Customer.TaxID,
		},
		Items:            items,
		Subtotal:         rec.Subtotal,
		TaxAmount:        rec.TaxAmount,
		GrandTotal:       rec.GrandTotal,
		CurrencyRate:     rec.CurrencyRate,
		Responsibilities: rec.Responsibilities,
		Terms:            rec.Terms,
		SourceNumber:     rec.SourceNumber,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// FromRecords maps a slice of records.
func FromRecords(recs []*document.Record) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// ToCustomer maps the payload to the domain snapshot.
func (p CustomerPayload) ToCustomer() document.Customer {
	return document.Customer{
		ID:      p.ID,
		Name:    p.Name,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
		TaxID:   p.TaxID,
	}
}

// ToItems maps line item payloads to domain items. Line totals are computed
// by the domain layer, never trusted from the client.
func ToItems(payloads []LineItemPayload) []document.LineItem {
	items := make([]document.LineItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, document.LineItem{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
		})
	}
	return items
}
