package sequence

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "docpress/internal/core/sequence"
)

// Mock objects

type mockRow struct {
	counters core.Counters
	err      error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	*dest[0].(*int) = m.counters.Quotation
	*dest[1].(*int) = m.counters.Proforma
	*dest[2].(*int) = m.counters.Invoice
	*dest[3].(*string) = m.counters.LastResetDate
	return nil
}

type mockQuerier struct {
	saved *core.Counters
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.saved == nil {
		return &mockRow{err: pgx.ErrNoRows}
	}
	return &mockRow{counters: *m.saved}
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if len(args) == 4 {
		m.saved = &core.Counters{
			Quotation:     args[0].(int),
			Proforma:      args[1].(int),
			Invoice:       args[2].(int),
			LastResetDate: args[3].(string),
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestLoadMissingRowReadsAsZero(t *testing.T) {
	store := NewPostgresStore(&mockQuerier{})

	c, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Counters{}, c)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	q := &mockQuerier{}
	store := NewPostgresStore(q)
	ctx := context.Background()

	want := core.Counters{
		Quotation:     2,
		Proforma:      0,
		Invoice:       7,
		LastResetDate: "2024-05-01",
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
