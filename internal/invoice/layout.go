package invoice

// Page geometry, in millimeters. A4 portrait with a uniform margin; all
// section heights are fixed except the item table, which flows.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	PageMargin = 14.0

	ContentWidth = PageWidth - 2*PageMargin

	headerFullHeight    = 35.0 // first page banner
	headerCompactHeight = 16.0 // redrawn on every later page
	footerCompactHeight = 28.0 // running footer, every page

	billToHeight    = 40.0
	orderInfoHeight = 25.0

	tableHeadHeight = 8.0
	tableRowHeight  = 8.0

	totalsBaseHeight   = 95.0
	totalsOptionalLine = 10.0

	notesHeight       = 40.0
	termsFooterHeight = 60.0

	// Bottom reserves that force a section onto a fresh page when the
	// cursor has sunk too far. Evaluated after the table has rendered.
	totalsBreakReserve = 100.0
	notesBreakReserve  = 80.0
	footerBreakReserve = 70.0
)

// Item table column widths as fractions of the content width.
const (
	ColNameFrac  = 0.24
	ColDescFrac  = 0.33
	ColQtyFrac   = 0.10
	ColPriceFrac = 0.15
	ColTotalFrac = 0.18
)

// SectionKind identifies a planned content section. The compact header and
// footer bands are deliberately absent: they are page-scoped decorations
// stamped by the renderer on every page, not content sections.
type SectionKind int

const (
	SectionBillTo SectionKind = iota
	SectionOrderInfo
	SectionTableHeader
	SectionTableRows
	SectionTotals
	SectionNotes
	SectionTermsFooter
)

// Section places one content block on a page. Page numbers are 1-based.
// RowStart/RowEnd bound a half-open row range and are meaningful only for
// SectionTableRows.
type Section struct {
	Kind     SectionKind
	Page     int
	Y        float64
	RowStart int
	RowEnd   int
}

// Plan is the ordered placement of every content section. Walking it in
// order and honoring the Page field reproduces the document exactly.
type Plan struct {
	Sections  []Section
	PageCount int
}

// PlanDocument decides section placement and page breaks for the given
// totals, details and line count. Pure; performs no drawing.
//
// Rows flow until one more row would not fit above the running footer, at
// which point the table continues on a new page under a fresh table header.
// A row is never split. Totals, notes and the terms footer are atomic and
// move wholesale to a new page when the cursor passes their reserve line.
func PlanDocument(totals Totals, d Details, lineCount int) Plan {
	var sections []Section
	page := 1
	y := PageMargin + headerFullHeight

	place := func(kind SectionKind, height float64) {
		sections = append(sections, Section{Kind: kind, Page: page, Y: y})
		y += height
	}

	newPage := func() {
		page++
		y = PageMargin + headerCompactHeight
	}

	place(SectionBillTo, billToHeight)
	place(SectionOrderInfo, orderInfoHeight)

	place(SectionTableHeader, tableHeadHeight)
	rowLimit := PageHeight - footerCompactHeight
	segmentStart := 0
	segmentY := y
	for i := 0; i < lineCount; i++ {
		if y+tableRowHeight > rowLimit {
			sections = append(sections, Section{
				Kind: SectionTableRows, Page: page, Y: segmentY,
				RowStart: segmentStart, RowEnd: i,
			})
			newPage()
			place(SectionTableHeader, tableHeadHeight)
			segmentStart = i
			segmentY = y
		}
		y += tableRowHeight
	}
	if lineCount > 0 {
		sections = append(sections, Section{
			Kind: SectionTableRows, Page: page, Y: segmentY,
			RowStart: segmentStart, RowEnd: lineCount,
		})
	}

	if y > PageHeight-totalsBreakReserve {
		newPage()
	}
	place(SectionTotals, totalsHeight(totals))

	if d.Notes != "" {
		if y > PageHeight-notesBreakReserve {
			newPage()
		}
		place(SectionNotes, notesHeight)
	}

	if y > PageHeight-footerBreakReserve {
		newPage()
	}
	place(SectionTermsFooter, termsFooterHeight)

	return Plan{Sections: sections, PageCount: page}
}

// totalsHeight grows the fixed totals block by one line unit per optional
// row: discount, service charges, and the partial/remaining pair.
func totalsHeight(t Totals) float64 {
	return totalsBaseHeight + float64(optionalTotalLines(t))*totalsOptionalLine
}

func optionalTotalLines(t Totals) int {
	n := 0
	if t.DiscountAmount.IsPositive() {
		n++
	}
	if t.ServiceCharges.IsPositive() {
		n++
	}
	if t.ShowRemaining {
		n++
	}
	return n
}
