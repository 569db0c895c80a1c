package render

import (
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpress/internal/domain/document"
)

func testLayout(t *testing.T, s Settings, rec *document.Record) *layout {
	t.Helper()

	res := resolveSettings(s)
	pdf := gofpdf.New(res.orientation, "mm", res.sizeStr, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(res.font, "", res.bodySize)

	l := &layout{pdf: pdf, res: res, rec: rec}
	l.pageW, l.pageH = pdf.GetPageSize()
	l.contentW = l.pageW - 2*pageMargin
	return l
}

func TestPairHeightSymmetric(t *testing.T) {
	a := &Box{Title: "A", LineH: billToLineH, Lines: []Line{{Text: "one"}, {Text: "two"}, {Text: "three"}}}
	b := &Box{Title: "B", LineH: metaLineH, Lines: []Line{{Text: "one"}}}

	assert.Equal(t, PairHeight(a, b), PairHeight(b, a))
	assert.Equal(t, a.RequiredHeight(), PairHeight(a, b))
}

func TestBoxRequiredHeightIncludesReserve(t *testing.T) {
	plain := &Box{LineH: metaLineH, Lines: []Line{{Text: "x"}, {Text: "y"}}}
	reserved := &Box{LineH: metaLineH, Lines: []Line{{Text: "x"}, {Text: "y"}}, Extra: barcodeReserve}

	assert.Equal(t, plain.RequiredHeight()+barcodeReserve, reserved.RequiredHeight())
}

func TestBillToBoxShrinksWithDisabledFields(t *testing.T) {
	rec := &document.Record{
		Type: document.TypeInvoice,
		Customer: document.Customer{
			Name:    "Jomo Enterprises",
			Phone:   "+254 700 000 000",
			Email:   "jomo@example.com",
			Address: "P.O. Box 1, Nairobi",
			TaxID:   "A001234567Z",
		},
	}

	full := DefaultSettings()
	l := testLayout(t, full, rec)
	boxW := (l.contentW - boxGap) / 2
	withAll := l.buildBillToBox(boxW)

	trimmed := full
	trimmed.IncludeClientAddress = false
	trimmed.IncludeClientPhone = false
	lt := testLayout(t, trimmed, rec)
	without := lt.buildBillToBox(boxW)

	require.Greater(t, len(withAll.Lines), len(without.Lines))
	assert.Greater(t, withAll.RequiredHeight(), without.RequiredHeight())

	// Disabled flag and absent data behave identically.
	noData := *rec
	noData.Customer.Address = ""
	noData.Customer.Phone = ""
	la := testLayout(t, full, &noData)
	absent := la.buildBillToBox(boxW)
	assert.Equal(t, without.RequiredHeight(), absent.RequiredHeight())
}

func TestMetaBoxDatesByType(t *testing.T) {
	issued := mustDate(t, "2024-05-01")
	due := mustDate(t, "2024-05-31")

	quote := &document.Record{
		Type:       document.TypeQuotation,
		Number:     "QUO-0501-01",
		IssuedDate: issued,
		ValidUntil: &due,
	}
	l := testLayout(t, DefaultSettings(), quote)
	b := l.buildMetaBox()

	require.Len(t, b.Lines, 3)
	assert.Equal(t, "Quotation No:", b.Lines[0].Text)
	assert.Equal(t, "QUO-0501-01", b.Lines[0].Value)
	assert.Equal(t, "Valid Until:", b.Lines[2].Text)
	assert.Equal(t, "2024-05-31", b.Lines[2].Value)
	assert.Equal(t, barcodeReserve, b.Extra)

	invoice := &document.Record{
		Type:       document.TypeInvoice,
		IssuedDate: issued,
		DueDate:    &due,
	}
	li := testLayout(t, DefaultSettings(), invoice)
	bi := li.buildMetaBox()

	require.Len(t, bi.Lines, 3)
	assert.Equal(t, "Invoice No:", bi.Lines[0].Text)
	assert.Equal(t, "DRAFT", bi.Lines[0].Value)
	assert.Equal(t, "Due Date:", bi.Lines[2].Text)

	// Drafts have no number, so no barcode reserve either.
	assert.Zero(t, bi.Extra)
}
