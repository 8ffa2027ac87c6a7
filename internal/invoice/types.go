// Package invoice implements the invoice generation engine: financial
// totals, reference numbers, currency formatting, page layout planning and
// PDF rendering. Everything up to the renderer is pure data-in/data-out so
// it can be tested without touching a PDF backend.
package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType selects how the discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PaymentStatus enum constants
type PaymentStatus string

const (
	StatusPaid      PaymentStatus = "Paid"
	StatusPending   PaymentStatus = "Pending"
	StatusPartial   PaymentStatus = "Partial"
	StatusAdvance   PaymentStatus = "Advance"
	StatusOverdue   PaymentStatus = "Overdue"
	StatusCancelled PaymentStatus = "Cancelled"
)

// LineItem is a purchasable catalog item as the engine sees it.
// Stock is informational only; the engine never mutates it.
type LineItem struct {
	ID            string
	Name          string
	Brand         string
	Model         string
	UnitPrice     decimal.Decimal
	StockQuantity int
}

// Description synthesizes the table description column from brand and model.
func (it LineItem) Description() string {
	parts := make([]string, 0, 2)
	if it.Brand != "" {
		parts = append(parts, it.Brand)
	}
	if it.Model != "" {
		parts = append(parts, it.Model)
	}
	return strings.Join(parts, " ")
}

// SelectedLine is a catalog item plus the quantity being billed.
type SelectedLine struct {
	Item     LineItem
	Quantity int
}

// Amount returns unit price x quantity for this line.
func (l SelectedLine) Amount() decimal.Decimal {
	return l.Item.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Selection holds the lines being billed, keyed by item id so the same item
// never appears twice. Insertion order is preserved for rendering.
type Selection struct {
	lines map[string]*SelectedLine
	order []string
}

func NewSelection() *Selection {
	return &Selection{lines: make(map[string]*SelectedLine)}
}

// Add puts an item in the selection. Re-adding an already selected item
// increments its quantity instead of creating a second line.
func (s *Selection) Add(item LineItem, quantity int) {
	if quantity < 1 {
		return
	}
	if line, ok := s.lines[item.ID]; ok {
		line.Quantity += quantity
		return
	}
	s.lines[item.ID] = &SelectedLine{Item: item, Quantity: quantity}
	s.order = append(s.order, item.ID)
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line entirely; zero or negative lines are never kept.
func (s *Selection) SetQuantity(itemID string, quantity int) {
	line, ok := s.lines[itemID]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.Remove(itemID)
		return
	}
	line.Quantity = quantity
}

// Remove drops a line from the selection.
func (s *Selection) Remove(itemID string) {
	if _, ok := s.lines[itemID]; !ok {
		return
	}
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Lines returns the selected lines in insertion order.
func (s *Selection) Lines() []SelectedLine {
	out := make([]SelectedLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

func (s *Selection) Len() int {
	return len(s.order)
}

// ClientInfo is the bill-to party. Name and Phone are required before
// generation starts; everything else is optional.
type ClientInfo struct {
	Name        string
	Phone       string
	Email       string
	Address     string
	GSTNumber   string
	CompanyName string
}

// Details carries the operator-entered invoice metadata.
type Details struct {
	InvoiceNumber  string
	OrderNumber    string
	IssueDate      string
	PaymentTerms   string
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	PartialAmount  decimal.Decimal
	DeliveryDate   string
	WarrantyPeriod string
	ServiceCharges decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   DiscountType
	Notes          string
	Terms          []string
}

// ShopInfo identifies the issuing shop on headers and footers.
type ShopInfo struct {
	Name          string
	ContactNumber string
}

// DefaultTerms is the fixed clause list printed verbatim on the final
// terms band when the caller supplies none.
var DefaultTerms = []string{
	"Goods once sold will not be taken back or exchanged.",
	"Warranty covers manufacturing defects only; physical and liquid damage are excluded.",
	"Repaired devices not collected within 30 days are kept at the owner's risk.",
	"All disputes are subject to local jurisdiction only.",
}
