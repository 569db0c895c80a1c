package sequence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpress/internal/core/apperror"
	core "docpress/internal/core/sequence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestNext_MonotonicWithinDay(t *testing.T) {
	svc := New(NewMemoryStore())
	ctx := context.Background()
	day := date(2024, time.May, 1)

	want := []string{"QUO-0501-01", "QUO-0501-02", "QUO-0501-03"}
	for _, expected := range want {
		got, err := svc.Next(ctx, core.TypeQuotation, day)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestNext_DailyResetIsShared(t *testing.T) {
	store := NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	day1 := date(2024, time.May, 1)
	for i := 0; i < 3; i++ {
		_, err := svc.Next(ctx, core.TypeQuotation, day1)
		require.NoError(t, err)
	}
	_, err := svc.Next(ctx, core.TypeInvoice, day1)
	require.NoError(t, err)
	_, err = svc.Next(ctx, core.TypeProforma, day1)
	require.NoError(t, err)

	// First allocation on the next day resets all three counters.
	day2 := date(2024, time.May, 2)
	got, err := svc.Next(ctx, core.TypeQuotation, day2)
	require.NoError(t, err)
	assert.Equal(t, "QUO-0502-01", got)

	counters, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counters.Quotation)
	assert.Equal(t, 0, counters.Invoice)
	assert.Equal(t, 0, counters.Proforma)
	assert.Equal(t, "2024-05-02", counters.LastResetDate)
}

func TestPeek_DoesNotBurnNumbers(t *testing.T) {
	svc := New(NewMemoryStore())
	ctx := context.Background()
	day := date(2024, time.May, 1)

	for i := 0; i < 5; i++ {
		got, err := svc.Peek(ctx, core.TypeInvoice, day)
		require.NoError(t, err)
		assert.Equal(t, "INV-0501-01", got)
	}

	got, err := svc.Next(ctx, core.TypeInvoice, day)
	require.NoError(t, err)
	assert.Equal(t, "INV-0501-01", got)

	got, err = svc.Peek(ctx, core.TypeInvoice, day)
	require.NoError(t, err)
	assert.Equal(t, "INV-0501-02", got)
}

func TestNext_CapacityError(t *testing.T) {
	store := NewMemoryStore()
	day := date(2024, time.May, 1)
	require.NoError(t, store.Save(context.Background(), core.Counters{
		Invoice:       core.MaxPerDay,
		LastResetDate: core.DateKey(day),
	}))

	svc := New(store)
	_, err := svc.Next(context.Background(), core.TypeInvoice, day)
	require.Error(t, err)
	assert.True(t, apperror.IsSequenceCapacity(err))

	// Peek reports the same exhaustion instead of a wrapped number.
	_, err = svc.Peek(context.Background(), core.TypeInvoice, day)
	require.Error(t, err)
	assert.True(t, apperror.IsSequenceCapacity(err))

	// The stored counter never advances past the capacity.
	counters, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.MaxPerDay, counters.Invoice)
}

func TestNext_UnknownType(t *testing.T) {
	svc := New(NewMemoryStore())
	_, err := svc.Next(context.Background(), core.DocType("receipt"), time.Now())
	require.Error(t, err)
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "counters.json")
	ctx := context.Background()
	day := date(2024, time.May, 1)

	svc := New(NewFileStore(path))
	got, err := svc.Next(ctx, core.TypeQuotation, day)
	require.NoError(t, err)
	assert.Equal(t, "QUO-0501-01", got)

	// New service over the same file continues the sequence.
	svc2 := New(NewFileStore(path))
	got, err = svc2.Next(ctx, core.TypeQuotation, day)
	require.NoError(t, err)
	assert.Equal(t, "QUO-0501-02", got)
}

func TestFileStore_MissingFileLoadsZero(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	counters, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Counters{}, counters)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counters.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load(context.Background())
	require.Error(t, err)
}
