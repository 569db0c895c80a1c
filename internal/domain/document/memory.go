package document

import (
	"context"
	"sort"
	"sync"

	"docpress/internal/core/apperror"
	"docpress/internal/core/id"
)

// MemoryRepository is an in-process Repository. Backs unit tests and the
// render CLI, which has no database.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[id.ID]*Record
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[id.ID]*Record)}
}

// Create implements Repository.
func (r *MemoryRepository) Create(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; exists {
		return apperror.NewConflict("record already exists").WithDetail("id", rec.ID.String())
	}
	cloned := *rec
	cloned.Items = append([]LineItem(nil), rec.Items...)
	r.records[rec.ID] = &cloned
	return nil
}

// Update implements Repository.
func (r *MemoryRepository) Update(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; !exists {
		return apperror.NewNotFound("document", rec.ID.String())
	}
	cloned := *rec
	cloned.Items = append([]LineItem(nil), rec.Items...)
	r.records[rec.ID] = &cloned
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(ctx context.Context, recID id.ID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recID]
	if !ok {
		return nil, apperror.NewNotFound("document", recID.String())
	}
	cloned := *rec
	cloned.Items = append([]LineItem(nil), rec.Items...)
	return &cloned, nil
}

// List implements Repository.
func (r *MemoryRepository) List(ctx context.Context, t Type) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0)
	for _, rec := range r.records {
		if t != "" && rec.Type != t {
			continue
		}
		cloned := *rec
		cloned.Items = append([]LineItem(nil), rec.Items...)
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Ensure compile-time interface compliance.
var _ Repository = (*MemoryRepository)(nil)
