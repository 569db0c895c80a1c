package sequence

import (
	"context"
	"time"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid store dependencies.
type MockAllocator struct {
	PeekFunc func(ctx context.Context, t DocType, at time.Time) (string, error)
	NextFunc func(ctx context.Context, t DocType, at time.Time) (string, error)

	// NextCalls counts invocations of Next for at-most-once assertions.
	NextCalls int
}

// Peek implements Allocator.
func (m *MockAllocator) Peek(ctx context.Context, t DocType, at time.Time) (string, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, t, at)
	}
	return Format(t, at, 1), nil
}

// Next implements Allocator.
func (m *MockAllocator) Next(ctx context.Context, t DocType, at time.Time) (string, error) {
	m.NextCalls++
	if m.NextFunc != nil {
		return m.NextFunc(ctx, t, at)
	}
	return Format(t, at, m.NextCalls), nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
