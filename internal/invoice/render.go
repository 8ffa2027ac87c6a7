package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ErrRenderFailed is the single failure surfaced when drawing goes wrong.
// The partially built document is discarded; callers never see partial
// output.
var ErrRenderFailed = errors.New("invoice: document rendering failed")

type rgb struct{ r, g, b int }

var (
	bandColor   = rgb{31, 41, 55}    // dark header/footer bands
	accentColor = rgb{217, 119, 6}   // totals emphasis, rules, labels
	mutedColor  = rgb{107, 114, 128} // secondary text
	zebraColor  = rgb{245, 245, 245}
)

var statusColors = map[PaymentStatus]rgb{
	StatusPaid:      {46, 125, 50},
	StatusPending:   {198, 40, 40},
	StatusPartial:   {245, 124, 0},
	StatusAdvance:   {21, 101, 192},
	StatusOverdue:   {127, 0, 0},
	StatusCancelled: {97, 97, 97},
}

func statusColor(s PaymentStatus) rgb {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return mutedColor
}

type renderer struct {
	pdf     *gofpdf.Fpdf
	shop    ShopInfo
	client  ClientInfo
	details Details
	lines   []SelectedLine
	totals  Totals
}

// renderDocument walks the plan and draws every section into a new PDF.
// The compact header and footer bands are wired as per-page hooks so they
// appear on every page, including pages holding only table continuation
// rows. Page breaks come exclusively from the plan; the backend's automatic
// break is disabled.
func renderDocument(shop ShopInfo, client ClientInfo, d Details, lines []SelectedLine, totals Totals, plan Plan) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+d.InvoiceNumber, true)
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	r := &renderer{pdf: pdf, shop: shop, client: client, details: d, lines: lines, totals: totals}
	pdf.SetHeaderFunc(r.pageHeader)
	pdf.SetFooterFunc(r.pageFooter)

	for _, s := range plan.Sections {
		for pdf.PageNo() < s.Page {
			pdf.AddPage()
		}
		pdf.SetXY(PageMargin, s.Y)
		switch s.Kind {
		case SectionBillTo:
			r.drawBillTo()
		case SectionOrderInfo:
			r.drawOrderInfo()
		case SectionTableHeader:
			r.drawTableHeader()
		case SectionTableRows:
			r.drawRows(s.RowStart, s.RowEnd)
		case SectionTotals:
			r.drawTotals()
		case SectionNotes:
			r.drawNotes()
		case SectionTermsFooter:
			r.drawTermsFooter()
		}
	}

	if pdf.Err() {
		return nil, ErrRenderFailed
	}
	return pdf, nil
}

// pageHeader stamps the banner on page one and the compact variant on every
// continuation page.
func (r *renderer) pageHeader() {
	pdf := r.pdf
	pdf.SetFillColor(bandColor.r, bandColor.g, bandColor.b)

	if pdf.PageNo() == 1 {
		pdf.Rect(0, 0, PageWidth, PageMargin+headerFullHeight-7, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 22)
		pdf.SetXY(PageMargin, 12)
		pdf.CellFormat(ContentWidth*0.6, 10, r.shop.Name, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(ContentWidth*0.4, 10, "TAX INVOICE", "", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetXY(PageMargin, 24)
		pdf.CellFormat(ContentWidth*0.6, 6, "Contact: "+r.shop.ContactNumber, "", 0, "L", false, 0, "")
		meta := r.details.InvoiceNumber
		if r.details.IssueDate != "" {
			meta += "  |  " + r.details.IssueDate
		}
		pdf.CellFormat(ContentWidth*0.4, 6, meta, "", 1, "R", false, 0, "")
		return
	}

	pdf.Rect(0, 0, PageWidth, PageMargin+headerCompactHeight-6, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(PageMargin, 8)
	pdf.CellFormat(ContentWidth*0.5, 8, r.shop.Name, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(ContentWidth*0.5, 8, r.details.InvoiceNumber+" (continued)", "", 0, "R", false, 0, "")
}

// pageFooter is the running footer band: abbreviated terms, thank-you line,
// shop contact and the page counter. Drawn on every page regardless of
// which sections landed there.
func (r *renderer) pageFooter() {
	pdf := r.pdf
	pdf.SetY(-(footerCompactHeight - 4))

	pdf.SetDrawColor(accentColor.r, accentColor.g, accentColor.b)
	pdf.SetLineWidth(0.6)
	y := pdf.GetY()
	pdf.Line(PageMargin, y, PageWidth-PageMargin, y)

	terms := r.details.Terms
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	pdf.SetY(y + 2)
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(mutedColor.r, mutedColor.g, mutedColor.b)
	pdf.CellFormat(ContentWidth, 4, r.truncate(terms[0], ContentWidth), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(bandColor.r, bandColor.g, bandColor.b)
	pdf.CellFormat(ContentWidth, 5, "Thank you for your business!", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(mutedColor.r, mutedColor.g, mutedColor.b)
	pdf.CellFormat(ContentWidth/2, 5, r.shop.Name+"  |  "+r.shop.ContactNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(ContentWidth/2, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
}

func (r *renderer) drawBillTo() {
	pdf := r.pdf
	r.label("BILL TO")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(ContentWidth, 6, r.client.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if r.client.CompanyName != "" {
		pdf.SetX(PageMargin)
		pdf.CellFormat(ContentWidth, 5, r.client.CompanyName, "", 1, "L", false, 0, "")
	}
	pdf.SetX(PageMargin)
	pdf.CellFormat(ContentWidth, 5, "Phone: "+r.client.Phone, "", 1, "L", false, 0, "")
	if r.client.Email != "" {
		pdf.SetX(PageMargin)
		pdf.CellFormat(ContentWidth, 5, "Email: "+r.client.Email, "", 1, "L", false, 0, "")
	}
	if r.client.GSTNumber != "" {
		pdf.SetX(PageMargin)
		pdf.CellFormat(ContentWidth, 5, "GSTIN: "+r.client.GSTNumber, "", 1, "L", false, 0, "")
	}
	if r.client.Address != "" {
		pdf.SetX(PageMargin)
		pdf.MultiCell(ContentWidth, 5, r.client.Address, "", "L", false)
	}
}

func (r *renderer) drawOrderInfo() {
	pdf := r.pdf
	half := ContentWidth / 2

	r.label("ORDER DETAILS")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)

	row := func(lk, lv, rk, rv string) {
		pdf.SetX(PageMargin)
		pdf.CellFormat(half*0.35, 5, lk, "", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.65, 5, lv, "", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.35, 5, rk, "", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.65, 5, rv, "", 1, "L", false, 0, "")
	}

	row("Order No:", r.details.OrderNumber, "Payment Terms:", r.details.PaymentTerms)
	row("Delivery Date:", r.details.DeliveryDate, "Payment Method:", r.details.PaymentMethod)
	row("Warranty:", r.details.WarrantyPeriod, "", "")

	// Status chip in the payment-status highlight color.
	c := statusColor(r.details.PaymentStatus)
	pdf.SetX(PageMargin + half)
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(34, 6, strings.ToUpper(string(r.details.PaymentStatus)), "", 1, "C", true, 0, "")
}

func (r *renderer) drawTableHeader() {
	pdf := r.pdf
	pdf.SetFillColor(bandColor.r, bandColor.g, bandColor.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 9)

	pdf.CellFormat(ContentWidth*ColNameFrac, tableHeadHeight, "ITEM", "", 0, "L", true, 0, "")
	pdf.CellFormat(ContentWidth*ColDescFrac, tableHeadHeight, "DESCRIPTION", "", 0, "L", true, 0, "")
	pdf.CellFormat(ContentWidth*ColQtyFrac, tableHeadHeight, "QTY", "", 0, "C", true, 0, "")
	pdf.CellFormat(ContentWidth*ColPriceFrac, tableHeadHeight, "UNIT PRICE", "", 0, "R", true, 0, "")
	pdf.CellFormat(ContentWidth*ColTotalFrac, tableHeadHeight, "AMOUNT", "", 1, "R", true, 0, "")
}

func (r *renderer) drawRows(start, end int) {
	pdf := r.pdf
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(zebraColor.r, zebraColor.g, zebraColor.b)
	pdf.SetFont("Arial", "", 9)

	for i := start; i < end; i++ {
		line := r.lines[i]
		fill := i%2 == 1
		pdf.SetX(PageMargin)
		pdf.CellFormat(ContentWidth*ColNameFrac, tableRowHeight, r.truncate(line.Item.Name, ContentWidth*ColNameFrac), "", 0, "L", fill, 0, "")
		pdf.CellFormat(ContentWidth*ColDescFrac, tableRowHeight, r.truncate(line.Item.Description(), ContentWidth*ColDescFrac), "", 0, "L", fill, 0, "")
		pdf.CellFormat(ContentWidth*ColQtyFrac, tableRowHeight, fmt.Sprintf("%d", line.Quantity), "", 0, "C", fill, 0, "")
		pdf.CellFormat(ContentWidth*ColPriceFrac, tableRowHeight, FormatAmount(line.Item.UnitPrice), "", 0, "R", fill, 0, "")
		pdf.CellFormat(ContentWidth*ColTotalFrac, tableRowHeight, FormatAmount(line.Amount()), "", 1, "R", fill, 0, "")
	}
}

func (r *renderer) drawTotals() {
	pdf := r.pdf
	labelW, valueW := 58.0, 42.0
	x := PageWidth - PageMargin - labelW - valueW

	moneyRow := func(label string, v string, c rgb, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.SetX(x)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, v, "", 1, "R", false, 0, "")
	}

	black := rgb{0, 0, 0}
	moneyRow("Subtotal", FormatAmount(r.totals.Subtotal), black, false)
	if r.totals.DiscountAmount.IsPositive() {
		moneyRow("Discount", "- "+FormatAmount(r.totals.DiscountAmount), black, false)
	}
	if r.totals.ServiceCharges.IsPositive() {
		moneyRow("Service Charges", FormatAmount(r.totals.ServiceCharges), black, false)
	}
	moneyRow("Taxable Amount", FormatAmount(r.totals.TaxableAmount), black, false)
	moneyRow("GST (18%)", FormatAmount(r.totals.Tax), black, false)

	// Grand total on an accent band; never separated from the rows above.
	pdf.SetX(x)
	pdf.SetFillColor(accentColor.r, accentColor.g, accentColor.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(labelW, 9, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 9, FormatAmount(r.totals.Total), "", 1, "R", true, 0, "")

	if r.totals.ShowRemaining {
		c := statusColor(r.details.PaymentStatus)
		moneyRow("Amount Received", FormatAmount(r.totals.PartialAmount), c, false)
		moneyRow("Remaining Amount", FormatAmount(r.totals.RemainingAmount), c, true)
	}
}

func (r *renderer) drawNotes() {
	pdf := r.pdf
	r.label("NOTES")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetX(PageMargin)
	pdf.MultiCell(ContentWidth, 5, r.details.Notes, "", "L", false)
}

func (r *renderer) drawTermsFooter() {
	pdf := r.pdf
	r.label("TERMS & CONDITIONS")

	terms := r.details.Terms
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, clause := range terms {
		pdf.SetX(PageMargin)
		pdf.MultiCell(ContentWidth*0.65, 4.5, fmt.Sprintf("%d. %s", i+1, clause), "", "L", false)
	}

	// Signature block bottom-right of the band.
	sigX := PageWidth - PageMargin - 60
	pdf.SetXY(sigX, pdf.GetY()+10)
	pdf.SetDrawColor(bandColor.r, bandColor.g, bandColor.b)
	pdf.SetLineWidth(0.3)
	pdf.Line(sigX, pdf.GetY(), sigX+60, pdf.GetY())
	pdf.SetXY(sigX, pdf.GetY()+1)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(60, 5, "Authorised Signatory, "+r.shop.Name, "", 1, "C", false, 0, "")
}

// label prints a small accent section heading.
func (r *renderer) label(text string) {
	pdf := r.pdf
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(accentColor.r, accentColor.g, accentColor.b)
	pdf.CellFormat(ContentWidth, 6, text, "", 1, "L", false, 0, "")
	pdf.SetX(PageMargin)
}

// truncate shortens s until it fits in width mm at the current font.
func (r *renderer) truncate(s string, width float64) string {
	if r.pdf.GetStringWidth(s) <= width-2 {
		return s
	}
	for len(s) > 0 && r.pdf.GetStringWidth(s+"...") > width-2 {
		s = s[:len(s)-1]
	}
	return s + "..."
}
