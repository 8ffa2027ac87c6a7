package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes. Only the methods the services under test reach are
// backed by real maps; the rest return not-found.

type fakePartRepo struct {
	parts map[uuid.UUID]*model.Part
}

func newFakePartRepo(parts ...*model.Part) *fakePartRepo {
	r := &fakePartRepo{parts: make(map[uuid.UUID]*model.Part)}
	for _, p := range parts {
		r.parts[p.ID] = p
	}
	return r
}

func (r *fakePartRepo) Create(ctx context.Context, part *model.Part) error {
	if part.ID == uuid.Nil {
		part.ID = uuid.New()
	}
	r.parts[part.ID] = part
	return nil
}

func (r *fakePartRepo) Update(ctx context.Context, part *model.Part) error {
	r.parts[part.ID] = part
	return nil
}

func (r *fakePartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.parts, id)
	return nil
}

func (r *fakePartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	if p, ok := r.parts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePartRepo) FindBySKU(ctx context.Context, sku string) (*model.Part, error) {
	for _, p := range r.parts {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePartRepo) List(ctx context.Context, page, limit int, search string) ([]model.Part, int64, error) {
	out := make([]model.Part, 0, len(r.parts))
	for _, p := range r.parts {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePartRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	p, ok := r.parts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity = stock
	return nil
}

func (r *fakePartRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	return r.FindByID(ctx, id)
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo(customers ...*model.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (r *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	out := make([]model.AuditLog, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// fakeTxManager runs the callback without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func testPart(sku, name string, price float64, stock int) *model.Part {
	return &model.Part{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          name,
		Brand:         "Acme",
		Model:         "X1",
		UnitPrice:     decimal.NewFromFloat(price),
		StockQuantity: stock,
	}
}

func TestGenerateInvoiceStreamsPDF(t *testing.T) {
	part := testPart("SCR-001", "Screen Assembly", 2500, 10)
	partRepo := newFakePartRepo(part)
	auditRepo := &fakeAuditRepo{}
	generator := invoice.NewGenerator(
		invoice.ShopInfo{Name: "FixPoint Repairs", ContactNumber: "+91 98765 43210"},
		invoice.NewReferenceGenerator(nil, &invoice.CounterSource{}),
	)

	svc := NewInvoiceService(partRepo, newFakeCustomerRepo(), auditRepo, generator)

	artifact, err := svc.GenerateInvoice(context.Background(), uuid.NewString(), GenerateInvoiceRequest{
		Lines: []InvoiceLineRequest{{PartID: part.ID.String(), Quantity: 2}},
		Client: InvoiceClientRequest{
			Name:  "Asha Verma",
			Phone: "+91 90000 00001",
		},
	})
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if !bytes.HasPrefix(artifact.Data, []byte("%PDF")) {
		t.Errorf("artifact data does not start with %%PDF")
	}
	if artifact.ContentType != "application/pdf" {
		t.Errorf("content type = %q", artifact.ContentType)
	}
	if artifact.PageCount < 1 {
		t.Errorf("page count = %d", artifact.PageCount)
	}
	if !strings.HasPrefix(artifact.Filename, "Invoice_INV-") {
		t.Errorf("filename = %q", artifact.Filename)
	}

	if len(auditRepo.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(auditRepo.entries))
	}
	if auditRepo.entries[0].Action != model.ActionGenerateInvoice {
		t.Errorf("audit action = %q", auditRepo.entries[0].Action)
	}
}

func TestGenerateInvoiceUnknownPart(t *testing.T) {
	svc := NewInvoiceService(newFakePartRepo(), newFakeCustomerRepo(), &fakeAuditRepo{}, invoice.NewGenerator(invoice.ShopInfo{Name: "Shop"}, nil))

	_, err := svc.GenerateInvoice(context.Background(), "", GenerateInvoiceRequest{
		Lines:  []InvoiceLineRequest{{PartID: uuid.NewString(), Quantity: 1}},
		Client: InvoiceClientRequest{Name: "A", Phone: "1"},
	})
	if err == nil {
		t.Fatal("expected error for unknown part")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v", err)
	}
}

func TestGenerateInvoiceResolvesStoredCustomer(t *testing.T) {
	part := testPart("BAT-002", "Battery", 1200, 4)
	customer := &model.Customer{
		ID:      uuid.New(),
		Name:    "Ravi Iyer",
		Phone:   "+91 90000 00002",
		Address: "12 MG Road, Bengaluru",
	}

	svc := NewInvoiceService(
		newFakePartRepo(part),
		newFakeCustomerRepo(customer),
		&fakeAuditRepo{},
		invoice.NewGenerator(invoice.ShopInfo{Name: "Shop"}, nil),
	)

	artifact, err := svc.GenerateInvoice(context.Background(), "", GenerateInvoiceRequest{
		Lines:  []InvoiceLineRequest{{PartID: part.ID.String(), Quantity: 1}},
		Client: InvoiceClientRequest{CustomerID: customer.ID.String()},
	})
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if !strings.Contains(artifact.Filename, "Ravi_Iyer") {
		t.Errorf("filename %q does not carry the stored customer name", artifact.Filename)
	}
}

func TestGenerateInvoiceRepeatedLinesMerge(t *testing.T) {
	part := testPart("CAM-003", "Camera Module", 900, 6)
	svc := NewInvoiceService(
		newFakePartRepo(part),
		newFakeCustomerRepo(),
		&fakeAuditRepo{},
		invoice.NewGenerator(invoice.ShopInfo{Name: "Shop"}, nil),
	)

	// The same part twice must merge into one line, not fail or duplicate.
	artifact, err := svc.GenerateInvoice(context.Background(), "", GenerateInvoiceRequest{
		Lines: []InvoiceLineRequest{
			{PartID: part.ID.String(), Quantity: 1},
			{PartID: part.ID.String(), Quantity: 2},
		},
		Client: InvoiceClientRequest{Name: "Walk In", Phone: "0"},
	})
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if artifact.PageCount != 1 {
		t.Errorf("page count = %d, want 1", artifact.PageCount)
	}
}
