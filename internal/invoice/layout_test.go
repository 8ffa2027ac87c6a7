package invoice

import "testing"

func manyLines(n int) []SelectedLine {
	lines := make([]SelectedLine, n)
	for i := range lines {
		lines[i] = SelectedLine{
			Item:     LineItem{ID: string(rune('a' + i%26)), Name: "Part", UnitPrice: dec(10)},
			Quantity: 1,
		}
	}
	return lines
}

func sectionsOfKind(p Plan, kind SectionKind) []Section {
	var out []Section
	for _, s := range p.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func TestPlanSmallInvoiceFitsOnePageOfRows(t *testing.T) {
	totals := Calculate(testLines(), Details{})
	plan := PlanDocument(totals, Details{}, 2)

	rows := sectionsOfKind(plan, SectionTableRows)
	if len(rows) != 1 || rows[0].Page != 1 {
		t.Fatalf("expected one row segment on page 1, got %+v", rows)
	}
	if rows[0].RowStart != 0 || rows[0].RowEnd != 2 {
		t.Errorf("row range = [%d,%d), want [0,2)", rows[0].RowStart, rows[0].RowEnd)
	}
}

func TestPlanLargeSelectionSpansPages(t *testing.T) {
	lines := manyLines(60)
	totals := Calculate(lines, Details{})
	plan := PlanDocument(totals, Details{}, len(lines))

	if plan.PageCount < 2 {
		t.Fatalf("60 lines should span at least 2 pages, got %d", plan.PageCount)
	}

	// The table header must be redrawn at the top of every page that
	// carries continuation rows.
	headers := sectionsOfKind(plan, SectionTableHeader)
	rows := sectionsOfKind(plan, SectionTableRows)
	if len(headers) != len(rows) {
		t.Fatalf("header segments (%d) != row segments (%d)", len(headers), len(rows))
	}
	for i, seg := range rows {
		if headers[i].Page != seg.Page {
			t.Errorf("segment %d: header on page %d, rows on page %d", i, headers[i].Page, seg.Page)
		}
	}
}

func TestPlanRowsAreNeverSplit(t *testing.T) {
	lines := manyLines(60)
	totals := Calculate(lines, Details{})
	plan := PlanDocument(totals, Details{}, len(lines))

	// Segments must be contiguous, non-overlapping and cover every row.
	next := 0
	for _, seg := range sectionsOfKind(plan, SectionTableRows) {
		if seg.RowStart != next {
			t.Fatalf("segment starts at %d, want %d", seg.RowStart, next)
		}
		if seg.RowEnd <= seg.RowStart {
			t.Fatalf("empty segment [%d,%d)", seg.RowStart, seg.RowEnd)
		}
		// Every row in the segment must fit above the running footer.
		bottom := seg.Y + float64(seg.RowEnd-seg.RowStart)*tableRowHeight
		if bottom > PageHeight-footerCompactHeight+1e-9 {
			t.Errorf("segment [%d,%d) overruns the footer reserve: bottom=%.1f", seg.RowStart, seg.RowEnd, bottom)
		}
		next = seg.RowEnd
	}
	if next != 60 {
		t.Fatalf("segments cover %d rows, want 60", next)
	}
}

func TestPlanTotalsBlockIsAtomic(t *testing.T) {
	for n := 1; n <= 80; n++ {
		lines := manyLines(n)
		totals := Calculate(lines, Details{})
		plan := PlanDocument(totals, Details{}, n)

		ts := sectionsOfKind(plan, SectionTotals)
		if len(ts) != 1 {
			t.Fatalf("n=%d: expected exactly one totals section, got %d", n, len(ts))
		}
		// The break rule guarantees the block starts above the reserve
		// line, so it is never pushed across a page boundary mid-block.
		if ts[0].Y > PageHeight-totalsBreakReserve {
			t.Errorf("n=%d: totals start at %.1f, past the reserve line", n, ts[0].Y)
		}
	}
}

func TestPlanNotesOnlyWhenPresent(t *testing.T) {
	totals := Calculate(testLines(), Details{})

	withNotes := PlanDocument(totals, Details{Notes: "handle with care"}, 2)
	if len(sectionsOfKind(withNotes, SectionNotes)) != 1 {
		t.Error("notes section missing when notes text is set")
	}

	without := PlanDocument(totals, Details{}, 2)
	if len(sectionsOfKind(without, SectionNotes)) != 0 {
		t.Error("notes section planned for empty notes")
	}
}

func TestPlanSectionOrderIsStable(t *testing.T) {
	totals := Calculate(testLines(), Details{ServiceCharges: dec(50), Notes: "n"})
	plan := PlanDocument(totals, Details{Notes: "n"}, 2)

	var kinds []SectionKind
	for _, s := range plan.Sections {
		kinds = append(kinds, s.Kind)
	}
	want := []SectionKind{SectionBillTo, SectionOrderInfo, SectionTableHeader, SectionTableRows, SectionTotals, SectionNotes, SectionTermsFooter}
	if len(kinds) != len(want) {
		t.Fatalf("section kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("section %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestPlanOptionalTotalLinesGrowBlock(t *testing.T) {
	base := totalsHeight(Totals{})
	grown := totalsHeight(Totals{
		DiscountAmount: dec(10),
		ServiceCharges: dec(5),
		ShowRemaining:  true,
	})
	if grown != base+3*totalsOptionalLine {
		t.Errorf("totals height = %.1f, want %.1f", grown, base+3*totalsOptionalLine)
	}
}

func TestPlanPagesAreMonotonic(t *testing.T) {
	lines := manyLines(120)
	totals := Calculate(lines, Details{})
	plan := PlanDocument(totals, Details{Notes: "long job"}, len(lines))

	last := 0
	for _, s := range plan.Sections {
		if s.Page < last {
			t.Fatalf("section pages go backwards: %+v", plan.Sections)
		}
		if s.Page > plan.PageCount {
			t.Fatalf("section on page %d beyond PageCount %d", s.Page, plan.PageCount)
		}
		last = s.Page
	}
}
