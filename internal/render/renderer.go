package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"docpress/internal/core/apperror"
	"docpress/internal/domain/document"
	"docpress/pkg/logger"
)

var tracer = otel.Tracer("docpress/render")

// Artifact is a finished multi-page document plus its derived filename.
type Artifact struct {
	Content  []byte
	Filename string
	Pages    int
}

// Renderer lays out document records into PDF artifacts. A Renderer is
// immutable after construction and safe for sequential reuse; each Render
// call resolves settings into its own snapshot.
type Renderer struct {
	settings Settings
	company  Company
}

// New creates a renderer for one settings/company configuration.
func New(settings Settings, company Company) *Renderer {
	return &Renderer{settings: settings, company: company}
}

// Render lays out the record and returns the finished artifact. Rendering is
// all-or-nothing: any internal layout error yields an error and no partial
// output. Only asset loading degrades gracefully (the image is omitted and
// layout continues).
func (r *Renderer) Render(ctx context.Context, rec *document.Record) (*Artifact, error) {
	ctx, span := tracer.Start(ctx, "render.document")
	defer span.End()

	if err := r.settings.Validate(); err != nil {
		return nil, err
	}
	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	res := resolveSettings(r.settings)

	pdf := gofpdf.New(res.orientation, "mm", res.sizeStr, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	l := &layout{pdf: pdf, res: res, company: r.company, rec: rec}
	l.pageW, l.pageH = pdf.GetPageSize()
	l.contentW = l.pageW - 2*pageMargin

	if res.IncludeWatermark {
		l.watermark()
	}
	l.header(ctx)
	l.titleBand()
	l.detailBoxes()
	l.itemTable()
	l.paymentSummary()
	l.textSections()
	l.footerDisclaimer()
	l.stampPageNumbers()

	if pdf.Err() {
		return nil, apperror.NewRenderFailure(pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperror.NewRenderFailure(err)
	}

	span.SetAttributes(attribute.Int("render.pages", pdf.PageCount()))

	return &Artifact{
		Content:  buf.Bytes(),
		Filename: Filename(rec, time.Now()),
		Pages:    pdf.PageCount(),
	}, nil
}

// WriteArtifact saves a rendered artifact under dir. The file is written to
// a temp name and renamed so a failure never leaves a partial artifact.
func WriteArtifact(a *Artifact, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(a.Content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	path := filepath.Join(dir, a.Filename)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("place artifact: %w", err)
	}
	return path, nil
}

// layout is the per-render drawing state. The cursor y is the running
// vertical position deciding where the next section starts and whether a
// page break is needed.
type layout struct {
	pdf     *gofpdf.Fpdf
	res     resolved
	company Company
	rec     *document.Record

	pageW    float64
	pageH    float64
	contentW float64
	y        float64
}

// bottomLimit is the end of the printable area.
func (l *layout) bottomLimit() float64 {
	return l.pageH - pageMargin
}

// newPage starts a fresh page and resets the cursor to the top margin.
func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = pageMargin
}

// --- Step 1: watermark ---

// watermark draws the company name diagonally at low opacity beneath
// everything else on the first page.
func (l *layout) watermark() {
	text := l.company.Name
	if text == "" {
		return
	}

	pdf := l.pdf
	pdf.SetAlpha(0.1, "Normal")
	pdf.TransformBegin()
	cx, cy := l.pageW/2, l.pageH/2
	pdf.TransformRotate(45, cx, cy)
	pdf.SetFont(l.res.font, "B", 60)
	pdf.SetTextColor(200, 200, 200)
	pdf.Text(cx-pdf.GetStringWidth(text)/2, cy, text)
	pdf.TransformEnd()
	pdf.SetAlpha(1, "Normal")
}

// --- Step 2: header ---

// header places the logo on the left and the company identity block on the
// right inside a fixed nominal height region.
func (l *layout) header(ctx context.Context) {
	pdf := l.pdf
	headerY := pageMargin

	if l.res.IncludeHeader {
		logo, err := loadLogo(l.company)
		if err != nil {
			// AssetLoadError is non-fatal: keep the layout going.
			logger.Warn(ctx, "logo unavailable, rendering without it", "error", err)
		}
		if logo != nil && err == nil {
			w, h := logo.fit(60, headerHeight)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("company-logo", opts, bytes.NewReader(logo.PNG))
			pdf.ImageOptions("company-logo", pageMargin, headerY, w, h, false, opts, 0, "")
		}
	}

	if l.res.IncludeCompanyDetails {
		right := l.pageW - pageMargin
		y := headerY + 5.0

		pdf.SetFont(l.res.font, "B", 20)
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		l.textRight(right, y, l.company.Name)
		y += 7

		pdf.SetFont(l.res.font, "", 10)
		pdf.SetTextColor(colorSecondary[0], colorSecondary[1], colorSecondary[2])
		for _, line := range l.companyLines() {
			l.textRight(right, y, line)
			y += 5
		}
	}

	// The header region reserves its nominal height even when sparse so the
	// title band lands at a stable position.
	l.y = headerY + headerHeight + 10
}

func (l *layout) companyLines() []string {
	c := l.company
	lines := make([]string, 0, 5)
	if c.Address1 != "" {
		lines = append(lines, c.Address1)
	}
	if c.Address2 != "" {
		lines = append(lines, c.Address2)
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	if c.TaxID != "" {
		lines = append(lines, "PIN: "+c.TaxID)
	}
	return lines
}

func (l *layout) textRight(right, y float64, s string) {
	l.pdf.Text(right-l.pdf.GetStringWidth(s), y, s)
}

// --- Step 3: title band ---

func (l *layout) titleBand() {
	pdf := l.pdf
	titleY := l.y

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(pageMargin, titleY, l.contentW, titleBarH, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(l.res.font, "B", 14)
	label := document.Label(l.rec.Type)
	pdf.Text(l.pageW/2-pdf.GetStringWidth(label)/2, titleY+7, label)

	l.y = titleY + titleBarH + 5
}

// --- Step 4: Bill To / Meta paired boxes ---

func (l *layout) detailBoxes() {
	detailsY := l.y
	boxW := (l.contentW - boxGap) / 2
	rightX := pageMargin + boxW + boxGap

	l.setBodyFont()
	billTo := l.buildBillToBox(boxW)
	meta := l.buildMetaBox()

	h := PairHeight(billTo, meta)

	if l.res.IncludeCustomerDetails {
		l.drawBox(billTo, pageMargin, detailsY, boxW, h)
	}
	l.drawBox(meta, rightX, detailsY, boxW, h)

	if l.res.IncludeBarcode && l.rec.Number != "" {
		barTop := detailsY + boxContentTop + float64(len(meta.Lines))*metaLineH + 2
		if barTop+barcodeH < detailsY+h {
			key := barcode.RegisterCode128(l.pdf, l.rec.Number)
			barcode.Barcode(l.pdf, key, rightX+(boxW-barcodeW)/2, barTop, barcodeW, barcodeH, false)
		}
	}

	l.y = detailsY + h + 10
}

// buildBillToBox assembles the customer snapshot lines. Every flag-gated
// field contributes zero lines when disabled or absent, so the box height
// shrinks with it.
func (l *layout) buildBillToBox(boxW float64) *Box {
	b := &Box{Title: "Bill To:", LineH: billToLineH}
	c := l.rec.Customer

	if c.ID != "" {
		b.Lines = append(b.Lines, Line{Text: "Customer ID: " + c.ID})
	}
	b.Lines = append(b.Lines, Line{Text: "Name: " + c.Name})
	if c.Phone != "" && l.res.IncludeClientPhone {
		b.Lines = append(b.Lines, Line{Text: "Phone: " + c.Phone})
	}
	if c.Email != "" && l.res.IncludeClientEmail {
		b.Lines = append(b.Lines, Line{Text: "Email: " + c.Email})
	}
	if c.TaxID != "" && l.res.IncludeClientTaxID {
		b.Lines = append(b.Lines, Line{Text: "Tax PIN: " + c.TaxID})
	}
	if c.Address != "" && l.res.IncludeClientAddress {
		for _, line := range l.pdf.SplitText("Address: "+c.Address, boxW-2*boxPadX) {
			b.Lines = append(b.Lines, Line{Text: line})
		}
	}
	return b
}

func (l *layout) buildMetaBox() *Box {
	rec := l.rec

	var title, numberLabel string
	switch rec.Type {
	case document.TypeQuotation:
		title, numberLabel = "Quotation Details:", "Quotation No:"
	case document.TypeProforma:
		title, numberLabel = "Proforma Details:", "Proforma No:"
	default:
		title, numberLabel = "Invoice Details:", "Invoice No:"
	}

	number := rec.Number
	if number == "" {
		number = "DRAFT"
	}

	b := &Box{Title: title, LineH: metaLineH}
	b.Lines = append(b.Lines,
		Line{Text: numberLabel, Value: number},
		Line{Text: "Issued Date:", Value: rec.IssuedDate.Format("2006-01-02")},
	)

	if rec.Type == document.TypeQuotation && rec.ValidUntil != nil {
		b.Lines = append(b.Lines, Line{Text: "Valid Until:", Value: rec.ValidUntil.Format("2006-01-02")})
	} else if rec.DueDate != nil {
		b.Lines = append(b.Lines, Line{Text: "Due Date:", Value: rec.DueDate.Format("2006-01-02")})
	}

	if l.res.IncludeBarcode && rec.Number != "" {
		b.Extra = barcodeReserve
	}
	return b
}

// drawBox paints a box frame with its header strip and content lines at the
// shared row height h.
func (l *layout) drawBox(b *Box, x, y, w, h float64) {
	pdf := l.pdf

	pdf.SetDrawColor(colorBorder[0], colorBorder[1], colorBorder[2])
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, w, h, "D")

	if b.Title != "" {
		pdf.SetFillColor(colorBoxFill[0], colorBoxFill[1], colorBoxFill[2])
		pdf.Rect(x, y, w, boxHeaderH, "F")
		pdf.SetFont(l.res.font, "B", 9)
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		pdf.Text(x+3, y+5, b.Title)
	}

	l.setBodyFont()
	cy := y + boxContentTop
	for _, line := range b.Lines {
		pdf.Text(x+boxPadX, cy, line.Text)
		if line.Value != "" {
			pdf.Text(x+metaValueX, cy, line.Value)
		}
		cy += b.LineH
	}
}

func (l *layout) setBodyFont() {
	l.pdf.SetFont(l.res.font, "", l.res.bodySize)
	l.pdf.SetTextColor(0, 0, 0)
}

// --- Step 6: Payment / Summary paired boxes ---

func (l *layout) paymentSummary() {
	res := l.res
	boxW := (l.contentW - boxGap) / 2
	rightX := pageMargin + boxW + boxGap

	payment := &Box{Title: "Payment Details", LineH: billToLineH}
	if res.IncludePaymentDetails {
		for _, line := range res.PaymentLines {
			payment.Lines = append(payment.Lines, Line{Text: line})
		}
	}

	summaryRows := 1 // subtotal
	if res.IncludeTax {
		summaryRows++
	}
	summaryH := boxHeaderH + float64(summaryRows)*summaryRowH + totalBandH + boxPadV

	maxH := summaryH
	if res.IncludePaymentDetails {
		if ph := payment.RequiredHeight(); ph > maxH {
			maxH = ph
		}
	}

	// Footer page-break guard: never let the row spill past the printable
	// area; start a new page and reset the cursor instead.
	top := l.y
	if top+maxH > l.bottomLimit() {
		l.newPage()
		top = l.y
	}

	if res.IncludePaymentDetails {
		l.drawBox(payment, pageMargin, top, boxW, maxH)
	}

	l.drawBox(&Box{Title: "Summary"}, rightX, top, boxW, maxH)
	l.summaryContent(rightX, top, boxW)

	l.y = top + maxH
}

func (l *layout) summaryContent(x, top, boxW float64) {
	pdf := l.pdf
	rec := l.rec
	res := l.res

	labelX := x + boxPadX
	valueRight := x + boxW - boxPadX
	y := top + 14.0

	l.setBodyFont()
	pdf.Text(labelX, y, "Subtotal")
	sub := res.currencyCell(rec.Subtotal, rec.CurrencyRate)
	pdf.Text(valueRight-pdf.GetStringWidth(sub), y, sub)
	y += summaryRowH

	if res.IncludeTax {
		taxLabel := fmt.Sprintf("VAT (%s%%)", res.TaxRate.Mul(decimal.NewFromInt(100)).String())
		pdf.Text(labelX, y, taxLabel)
		tax := res.currencyCell(rec.TaxAmount, rec.CurrencyRate)
		pdf.Text(valueRight-pdf.GetStringWidth(tax), y, tax)
		y += summaryRowH
	}

	// Grand total band inside the box.
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(x, y-4, boxW, totalBandH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(res.font, "B", res.bodySize)
	pdf.Text(labelX, y+2, "Grand Total")
	total := res.currencyCell(rec.GrandTotal, rec.CurrencyRate)
	pdf.Text(valueRight-pdf.GetStringWidth(total), y+2, total)
}

// --- Step 7: free-text sections ---

func (l *layout) textSections() {
	if !l.res.IncludeTerms {
		return
	}

	sections := []struct {
		title   string
		content string
	}{
		{"Client Responsibilities", l.rec.Responsibilities},
		{"Terms & Conditions", l.rec.Terms},
	}

	for _, s := range sections {
		if s.content == "" {
			continue
		}
		l.textSection(s.title, s.content)
	}
}

// textSection draws one titled free-text block, spilling onto further pages
// line by line when it outgrows the current one.
func (l *layout) textSection(title, content string) {
	pdf := l.pdf
	y := l.y + sectionGap

	if y+20 > l.pageH-20 {
		l.newPage()
		y = l.y
	}

	pdf.SetFont(l.res.font, "B", 10)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Text(pageMargin, y, title)
	y += 5

	l.setBodyFont()
	for _, line := range pdf.SplitText(content, l.contentW) {
		if y > l.bottomLimit() {
			l.newPage()
			y = l.y + 5
			l.setBodyFont()
		}
		pdf.Text(pageMargin, y, line)
		y += sectionLineH
	}

	l.y = y
}

// --- Step 8: footer + deferred page numbers ---

func (l *layout) footerDisclaimer() {
	if !l.res.IncludeFooter || l.res.FooterText == "" {
		return
	}

	pdf := l.pdf
	pdf.SetFont(l.res.font, "I", 8)
	pdf.SetTextColor(50, 50, 50)
	pdf.Text(l.pageW/2-pdf.GetStringWidth(l.res.FooterText)/2, l.pageH-17, l.res.FooterText)
}

// stampPageNumbers writes "Page i of N" onto every page in a second pass.
// The total is unknown until layout completes, so this can never run inline
// during the first pass.
func (l *layout) stampPageNumbers() {
	pdf := l.pdf
	total := pdf.PageCount()

	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetFont(l.res.font, "", 8)
		pdf.SetTextColor(0, 0, 0)
		s := fmt.Sprintf("Page %d of %d", i, total)
		pdf.Text(l.pageW-pageMargin-pdf.GetStringWidth(s), l.pageH-5, s)
	}
}
