// Package sequence implements the document number allocator over a pluggable
// counter store. The store decides durability (file, memory, Postgres); the
// service owns the shared daily reset and the capacity rule.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docpress/internal/core/apperror"
	core "docpress/internal/core/sequence"
)

// Service allocates per-day document numbers from a CounterStore.
//
// The mutex serializes allocations within this process. Cross-process callers
// can still race on a shared store; deployments with multiple writers need an
// atomic compare-and-increment around the store.
type Service struct {
	mu    sync.Mutex
	store core.CounterStore
}

// New creates an allocator backed by the given store.
func New(store core.CounterStore) *Service {
	return &Service{store: store}
}

// Peek computes the next number for t without mutating the store.
func (s *Service) Peek(ctx context.Context, t core.DocType, at time.Time) (string, error) {
	if !t.Valid() {
		return "", apperror.NewValidation("unknown document type").WithDetail("type", string(t))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counters, err := s.load(ctx, at)
	if err != nil {
		return "", err
	}

	next := counters.Get(t) + 1
	if next > core.MaxPerDay {
		return "", apperror.NewSequenceCapacity(string(t), next)
	}
	return core.Format(t, at, next), nil
}

// Next increments the persisted counter for t and returns the formatted
// number. The first allocation of a new calendar day resets all three
// counters to zero before the requested one is incremented.
func (s *Service) Next(ctx context.Context, t core.DocType, at time.Time) (string, error) {
	if !t.Valid() {
		return "", apperror.NewValidation("unknown document type").WithDetail("type", string(t))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counters, err := s.load(ctx, at)
	if err != nil {
		return "", err
	}

	next := counters.Get(t) + 1
	if next > core.MaxPerDay {
		return "", apperror.NewSequenceCapacity(string(t), next)
	}

	counters.Set(t, next)
	if err := s.store.Save(ctx, counters); err != nil {
		return "", fmt.Errorf("save counters: %w", err)
	}

	return core.Format(t, at, next), nil
}

// load reads the counters and applies the shared daily reset view: a stored
// record from a different calendar day counts as all-zero.
func (s *Service) load(ctx context.Context, at time.Time) (core.Counters, error) {
	counters, err := s.store.Load(ctx)
	if err != nil {
		return core.Counters{}, fmt.Errorf("load counters: %w", err)
	}

	today := core.DateKey(at)
	if counters.LastResetDate != today {
		counters = core.Counters{LastResetDate: today}
	}
	return counters, nil
}

// Ensure compile-time interface compliance.
var _ core.Allocator = (*Service)(nil)
