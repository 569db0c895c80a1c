package document

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpress/internal/core/apperror"
	"docpress/internal/core/sequence"
	"docpress/internal/core/types"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time {
		return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
	}
}

func testPolicy() TaxPolicy {
	return TaxPolicy{Rate: types.MustMoney("0.16"), Include: true}
}

func draftRecord(t Type) *Record {
	rec := NewRecord(t, Customer{
		Name:    "Jomo Enterprises",
		Phone:   "+254 711 000 111",
		Email:   "accounts@jomo.example",
		Address: "Mombasa Road, Nairobi",
	})
	rec.Items = []LineItem{
		{Name: "Server installation", Quantity: 1, UnitPrice: types.MustMoney("45000")},
		{Name: "CAT6 cabling", Quantity: 120, UnitPrice: types.MustMoney("250")},
	}
	return rec
}

func TestCreateDraft_ComputesTotalsAndSnapshot(t *testing.T) {
	svc := NewService(NewMemoryRepository(), &sequence.MockAllocator{})
	ctx := context.Background()

	rec := draftRecord(TypeQuotation)
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))

	assert.Empty(t, rec.Number, "drafts carry no permanent number")
	assert.True(t, rec.Subtotal.Equal(types.MustMoney("75000")))
	assert.True(t, rec.TaxAmount.Equal(types.MustMoney("12000")))
	assert.True(t, rec.GrandTotal.Equal(types.MustMoney("87000")))
	assert.True(t, rec.CurrencyRate.Equal(types.MustMoney("1")), "snapshot defaults to parity")
}

func TestCreateDraft_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), &sequence.MockAllocator{})
	ctx := context.Background()

	noItems := NewRecord(TypeInvoice, Customer{Name: "Acme"})
	err := svc.CreateDraft(ctx, noItems, testPolicy())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	noName := draftRecord(TypeInvoice)
	noName.Customer.Name = ""
	err = svc.CreateDraft(ctx, noName, testPolicy())
	require.Error(t, err)
}

func TestFinalize_AllocatesExactlyOnce(t *testing.T) {
	alloc := &sequence.MockAllocator{}
	svc := NewService(NewMemoryRepository(), alloc).WithClock(fixedClock(2024, time.May, 1))
	ctx := context.Background()

	rec := draftRecord(TypeQuotation)
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))

	finalized, err := svc.Finalize(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUO-0501-01", finalized.Number)
	assert.Equal(t, 1, alloc.NextCalls)

	// Finalizing again is rejected before the allocator burns a number.
	_, err = svc.Finalize(ctx, rec.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentFinalized, appErr.Code)
	assert.Equal(t, 1, alloc.NextCalls)
}

func TestPeekNumber_DoesNotAllocate(t *testing.T) {
	alloc := &sequence.MockAllocator{}
	svc := NewService(NewMemoryRepository(), alloc).WithClock(fixedClock(2024, time.May, 1))

	got, err := svc.PeekNumber(context.Background(), TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-0501-01", got)
	assert.Equal(t, 0, alloc.NextCalls)
}

func TestConvert_PreservesSuffixAndLineage(t *testing.T) {
	alloc := &sequence.MockAllocator{}
	svc := NewService(NewMemoryRepository(), alloc).WithClock(fixedClock(2024, time.May, 1))
	ctx := context.Background()

	rec := draftRecord(TypeQuotation)
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))
	finalized, err := svc.Finalize(ctx, rec.ID)
	require.NoError(t, err)

	converted, err := svc.Convert(ctx, finalized.ID, TypeInvoice)
	require.NoError(t, err)

	assert.Equal(t, "INV-0501-01", converted.Number, "prefix swapped, suffix preserved")
	assert.Equal(t, finalized.Number, converted.SourceNumber)
	assert.Equal(t, StatusDraft, converted.Status)
	assert.NotEqual(t, finalized.ID, converted.ID)
	assert.Equal(t, 1, alloc.NextCalls, "conversion never calls the allocator")

	// The source record is untouched.
	src, err := svc.GetByID(ctx, finalized.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeQuotation, src.Type)
	assert.Equal(t, "QUO-0501-01", src.Number)
	assert.Empty(t, src.SourceNumber)

	// Totals and the currency snapshot carry over unchanged.
	assert.True(t, converted.GrandTotal.Equal(src.GrandTotal))
	assert.True(t, converted.CurrencyRate.Equal(src.CurrencyRate))
}

func TestConvert_RequiresFinalizedSource(t *testing.T) {
	svc := NewService(NewMemoryRepository(), &sequence.MockAllocator{})
	ctx := context.Background()

	rec := draftRecord(TypeQuotation)
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))

	_, err := svc.Convert(ctx, rec.ID, TypeInvoice)
	require.Error(t, err)
}

func TestUpdateDraft_RejectedAfterFinalize(t *testing.T) {
	svc := NewService(NewMemoryRepository(), &sequence.MockAllocator{}).
		WithClock(fixedClock(2024, time.May, 1))
	ctx := context.Background()

	rec := draftRecord(TypeInvoice)
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))
	_, err := svc.Finalize(ctx, rec.ID)
	require.NoError(t, err)

	rec.Items[0].Quantity = 99
	err = svc.UpdateDraft(ctx, rec, testPolicy())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentFinalized, appErr.Code)
}

func TestUpdateDraft_KeepsCurrencySnapshot(t *testing.T) {
	svc := NewService(NewMemoryRepository(), &sequence.MockAllocator{})
	ctx := context.Background()

	rec := draftRecord(TypeQuotation)
	rec.CurrencyRate = types.MustMoney("130")
	require.NoError(t, svc.CreateDraft(ctx, rec, testPolicy()))

	edit := *rec
	edit.CurrencyRate = types.Zero() // caller supplies nothing
	edit.Items = append([]LineItem(nil), rec.Items...)
	require.NoError(t, svc.UpdateDraft(ctx, &edit, testPolicy()))

	stored, err := svc.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrencyRate.Equal(types.MustMoney("130")))
}
