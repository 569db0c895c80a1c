package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"docpress/internal/core/apperror"
	"docpress/internal/core/id"
	"docpress/internal/core/sequence"
	"docpress/pkg/logger"
)

var tracer = otel.Tracer("docpress/document")

// Repository persists document records. Implementations live in the
// infrastructure layer; a memory implementation backs tests and the CLI.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, recID id.ID) (*Record, error)
	List(ctx context.Context, t Type) ([]*Record, error)
}

// Service provides the document lifecycle: draft, finalize, convert.
type Service struct {
	repo      Repository
	allocator sequence.Allocator

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a document service.
func NewService(repo Repository, allocator sequence.Allocator) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Test helper.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateDraft validates the record, captures its currency snapshot and
// computes totals, then persists it. The permanent number is NOT allocated
// here: drafts carry no number until finalized.
func (s *Service) CreateDraft(ctx context.Context, rec *Record, policy TaxPolicy) error {
	if rec.CurrencyRate.Sign() <= 0 {
		// Snapshot defaults to parity when the caller supplies none.
		rec.CurrencyRate = decimalOne
	}

	if err := rec.Validate(ctx); err != nil {
		return err
	}

	rec.ApplyTotals(policy)
	rec.Status = StatusDraft
	rec.Touch()

	if err := s.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("create draft: %w", err)
	}

	logger.Info(ctx, "draft created",
		"id", rec.ID,
		"type", rec.Type,
		"grand_total", rec.GrandTotal)
	return nil
}

// UpdateDraft revalidates and recomputes a draft in place. Finalized records
// are append-only history and cannot be edited.
func (s *Service) UpdateDraft(ctx context.Context, rec *Record, policy TaxPolicy) error {
	existing, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	if existing.Finalized() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentFinalized,
			"Cannot modify a finalized document.",
		).WithDetail("number", existing.Number)
	}

	// The snapshot captured at creation survives draft edits only when the
	// caller did not supply a fresh one.
	if rec.CurrencyRate.Sign() <= 0 {
		rec.CurrencyRate = existing.CurrencyRate
	}

	if err := rec.Validate(ctx); err != nil {
		return err
	}

	rec.ApplyTotals(policy)
	rec.CreatedAt = existing.CreatedAt
	rec.Touch()

	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	return nil
}

// GetByID retrieves a record.
func (s *Service) GetByID(ctx context.Context, recID id.ID) (*Record, error) {
	return s.repo.GetByID(ctx, recID)
}

// List returns records, optionally narrowed to one type. Empty t means all.
func (s *Service) List(ctx context.Context, t Type) ([]*Record, error) {
	return s.repo.List(ctx, t)
}

// PeekNumber previews the next number for a type without burning it.
func (s *Service) PeekNumber(ctx context.Context, t Type) (string, error) {
	return s.allocator.Peek(ctx, t, s.now())
}

// Finalize allocates the permanent number for a draft. The allocator is
// called exactly once per document: finalizing twice is rejected before any
// number is burned.
func (s *Service) Finalize(ctx context.Context, recID id.ID) (*Record, error) {
	ctx, span := tracer.Start(ctx, "document.finalize",
		trace.WithAttributes(attribute.String("document.id", recID.String())))
	defer span.End()

	rec, err := s.repo.GetByID(ctx, recID)
	if err != nil {
		return nil, err
	}

	if rec.Finalized() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeDocumentFinalized,
			"Document already has a permanent number.",
		).WithDetail("number", rec.Number)
	}

	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.allocator.Next(ctx, rec.Type, s.now())
	if err != nil {
		return nil, err
	}

	rec.Number = number
	rec.Touch()
	span.SetAttributes(attribute.String("document.number", number))

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist finalized record: %w", err)
	}

	logger.Info(ctx, "document finalized",
		"id", rec.ID,
		"number", rec.Number)
	return rec, nil
}

// Convert creates a NEW record of another type linked to the source via
// lineage. The source is never mutated.
//
// Numbering rule: conversion always preserves the source number's date and
// sequence suffix and swaps only the prefix (QUO-0501-03 -> INV-0501-03).
// Only first-time finalization calls the allocator.
func (s *Service) Convert(ctx context.Context, recID id.ID, toType Type) (*Record, error) {
	ctx, span := tracer.Start(ctx, "document.convert",
		trace.WithAttributes(attribute.String("document.target_type", string(toType))))
	defer span.End()

	if !toType.Valid() {
		return nil, apperror.NewValidation("unknown target document type").
			WithDetail("type", string(toType))
	}

	src, err := s.repo.GetByID(ctx, recID)
	if err != nil {
		return nil, err
	}

	if src.Type == toType {
		return nil, apperror.NewConflict("document already has the requested type")
	}
	if !src.Finalized() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Only finalized documents can be converted.",
		).WithDetail("id", src.ID.String())
	}

	now := s.now().UTC()
	out := &Record{
		ID:           id.New(),
		Number:       convertedNumber(src.Number, toType),
		Type:         toType,
		Status:       StatusDraft,
		IssuedDate:   now,
		Customer:     src.Customer,
		Items:        append([]LineItem(nil), src.Items...),
		Subtotal:     src.Subtotal,
		TaxAmount:    src.TaxAmount,
		GrandTotal:   src.GrandTotal,
		CurrencyRate: src.CurrencyRate,

		Responsibilities: src.Responsibilities,
		Terms:            src.Terms,
		SourceNumber:     src.Number,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// Due/valid-until dates are type-specific and do not carry over.

	if err := s.repo.Create(ctx, out); err != nil {
		return nil, fmt.Errorf("create converted record: %w", err)
	}

	logger.Info(ctx, "document converted",
		"from", src.Number,
		"to", out.Number,
		"type", toType)
	return out, nil
}

// convertedNumber swaps the prefix and keeps everything after the first
// hyphen, preserving the date+sequence lineage.
func convertedNumber(srcNumber string, toType Type) string {
	parts := strings.SplitN(srcNumber, "-", 2)
	if len(parts) < 2 {
		return toType.Prefix() + "-" + srcNumber
	}
	return toType.Prefix() + "-" + parts[1]
}
