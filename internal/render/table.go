package render

import (
	"strconv"

	"docpress/internal/domain/document"
)

// --- Step 5: itemized table ---

// tableColumns returns the four column widths for the current page. The
// description column flexes with page width, the numeric columns are fixed.
func (l *layout) tableColumns() [4]float64 {
	return [4]float64{l.contentW - 90, 20, 35, 35}
}

func (l *layout) itemTable() {
	cols := l.tableColumns()
	l.drawTableHeader(cols)

	l.setBodyFont()
	for i, item := range l.rec.Items {
		lines := l.itemLines(item.Name, item.Description, cols[0]-2*tableCellPad)
		rowH := float64(len(lines))*tableLineH + 2*tableCellPad

		// Rows never split: a row that does not fit moves whole to a fresh
		// page under a repeated header.
		if l.y+rowH > l.bottomLimit() {
			l.newPage()
			l.drawTableHeader(cols)
			l.setBodyFont()
		}

		l.drawRow(cols, lines, item, rowH, i%2 == 1)
		l.y += rowH
	}

	l.y += 10
}

// itemLines wraps the item name, and its description underneath when
// enabled, into the available column width.
func (l *layout) itemLines(name, description string, width float64) []string {
	lines := l.pdf.SplitText(name, width)
	if l.res.IncludeItemDescriptions && description != "" {
		lines = append(lines, l.pdf.SplitText(description, width)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func (l *layout) drawTableHeader(cols [4]float64) {
	pdf := l.pdf

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(pageMargin, l.y, l.contentW, tableHeaderH, "F")

	pdf.SetFont(l.res.font, "B", l.res.bodySize)
	pdf.SetTextColor(255, 255, 255)

	headers := [4]string{"Description", "Qty", "Unit Price", "Total"}
	x := float64(pageMargin)
	baseline := l.y + 5.5
	for i, h := range headers {
		pdf.Text(x+cols[i]/2-pdf.GetStringWidth(h)/2, baseline, h)
		x += cols[i]
	}

	l.y += tableHeaderH
}

func (l *layout) drawRow(cols [4]float64, lines []string, item document.LineItem, rowH float64, zebra bool) {
	pdf := l.pdf
	top := l.y

	if zebra {
		pdf.SetFillColor(colorZebra[0], colorZebra[1], colorZebra[2])
		pdf.Rect(pageMargin, top, l.contentW, rowH, "F")
	}

	pdf.SetDrawColor(colorBorder[0], colorBorder[1], colorBorder[2])
	pdf.SetLineWidth(0.1)
	x := float64(pageMargin)
	for _, w := range cols {
		pdf.Rect(x, top, w, rowH, "D")
		x += w
	}

	l.setBodyFont()

	// Description column, line by line.
	baseline := top + tableCellPad + 3
	for _, line := range lines {
		pdf.Text(pageMargin+tableCellPad, baseline, line)
		baseline += tableLineH
	}

	mid := top + rowH/2 + 1.5

	// Qty centered.
	qtyX := pageMargin + cols[0]
	qtyText := strconv.Itoa(item.Quantity)
	pdf.Text(qtyX+cols[1]/2-pdf.GetStringWidth(qtyText)/2, mid, qtyText)

	// Unit price and line total right aligned.
	priceX := qtyX + cols[1]
	priceText := l.res.formatAmount(item.UnitPrice, l.rec.CurrencyRate)
	pdf.Text(priceX+cols[2]-tableCellPad-pdf.GetStringWidth(priceText), mid, priceText)

	totalX := priceX + cols[2]
	totalText := l.res.formatAmount(item.LineTotal, l.rec.CurrencyRate)
	pdf.Text(totalX+cols[3]-tableCellPad-pdf.GetStringWidth(totalText), mid, totalText)
}
