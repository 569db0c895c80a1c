package render

// Layout constants, in millimetres unless noted. The geometry is specific to
// the fixed section set of commercial documents and is not configurable.
const (
	pageMargin = 15.0
	boxGap     = 5.0

	boxHeaderH    = 7.0  // title strip inside a box
	boxPadV       = 4.0  // bottom padding inside a box
	boxContentTop = 12.0 // first content baseline offset from box top
	boxPadX       = 4.0  // left inset for box content

	headerHeight = 35.0 // nominal logo/company header region
	titleBarH    = 10.0

	billToLineH = 4.0
	metaLineH   = 5.0
	metaValueX  = 45.0 // value column offset inside the meta box

	barcodeW       = 40.0
	barcodeH       = 10.0
	barcodeReserve = 15.0 // extra box space when the barcode is enabled

	tableHeaderH = 8.0
	tableLineH   = 5.0
	tableCellPad = 1.5

	summaryRowH = 6.0
	totalBandH  = 10.0

	sectionGap   = 10.0
	sectionLineH = 4.0
)

// Brand palette.
var (
	colorPrimary   = [3]int{0, 153, 255}  // brand blue
	colorSecondary = [3]int{31, 41, 55}   // dark gray
	colorBorder    = [3]int{200, 200, 200}
	colorBoxFill   = [3]int{240, 240, 240}
	colorZebra     = [3]int{245, 247, 250}
)

// Line is one content line of a Box. A two-column line carries a Value drawn
// at the box's value column; otherwise Text spans the box width.
type Line struct {
	Text  string
	Value string
}

// Box is the layout primitive for the paired sections: a bordered region
// with a header strip and ordered content lines. Required height is
// computed, never guessed: hidden or absent fields contribute no lines and
// therefore reserve zero space.
type Box struct {
	Title string
	Lines []Line

	// LineH is the vertical advance per content line.
	LineH float64

	// Extra reserves additional space after the lines (barcode strip).
	Extra float64
}

// RequiredHeight computes the height the box needs for its content:
// header strip + lines + padding + any reserved extra.
func (b *Box) RequiredHeight() float64 {
	return boxHeaderH + float64(len(b.Lines))*b.LineH + boxPadV + b.Extra
}

// PairHeight returns the shared drawn height for two boxes placed in the
// same row. Both are drawn with the max of their required heights so their
// borders align regardless of differing content length.
func PairHeight(a, b *Box) float64 {
	ha, hb := a.RequiredHeight(), b.RequiredHeight()
	if ha > hb {
		return ha
	}
	return hb
}
