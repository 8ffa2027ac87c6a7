package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fixpoint-works/repairdesk-api/internal/model"

	"github.com/google/uuid"
)

type fakeMovementRepo struct {
	movements []*model.StockMovement
}

func (r *fakeMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	r.movements = append(r.movements, movement)
	return nil
}

func (r *fakeMovementRepo) ListByPart(ctx context.Context, partID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	out := make([]model.StockMovement, 0, len(r.movements))
	for _, m := range r.movements {
		if m.PartID == partID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func newTestCatalogService(partRepo *fakePartRepo, movementRepo *fakeMovementRepo, auditRepo *fakeAuditRepo) CatalogService {
	return NewCatalogService(partRepo, movementRepo, auditRepo, fakeTxManager{}, nil)
}

func TestAdjustStockRecordsMovement(t *testing.T) {
	part := testPart("SCR-001", "Screen Assembly", 2500, 5)
	partRepo := newFakePartRepo(part)
	movementRepo := &fakeMovementRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := newTestCatalogService(partRepo, movementRepo, auditRepo)

	res, err := svc.AdjustStock(context.Background(), uuid.NewString(), part.ID.String(), AdjustStockRequest{
		Change: 3,
		Reason: "supplier delivery",
	})
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if res.StockQuantity != 8 {
		t.Errorf("stock = %d, want 8", res.StockQuantity)
	}

	if len(movementRepo.movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movementRepo.movements))
	}
	m := movementRepo.movements[0]
	if m.ChangeType != model.StockChangeIn || m.QuantityChanged != 3 || m.StockAfter != 8 {
		t.Errorf("movement = %+v", m)
	}
	if len(auditRepo.entries) != 1 || auditRepo.entries[0].Action != model.ActionAdjustStock {
		t.Errorf("expected one ADJUST_STOCK audit entry")
	}
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	part := testPart("BAT-002", "Battery", 1200, 2)
	svc := newTestCatalogService(newFakePartRepo(part), &fakeMovementRepo{}, &fakeAuditRepo{})

	_, err := svc.AdjustStock(context.Background(), "", part.ID.String(), AdjustStockRequest{Change: -5})
	if err == nil {
		t.Fatal("expected error when stock would go negative")
	}
	if !strings.Contains(err.Error(), "negative") {
		t.Errorf("err = %v", err)
	}
}

func TestAdjustStockOutMovement(t *testing.T) {
	part := testPart("CAM-003", "Camera Module", 900, 6)
	movementRepo := &fakeMovementRepo{}
	svc := newTestCatalogService(newFakePartRepo(part), movementRepo, &fakeAuditRepo{})

	if _, err := svc.AdjustStock(context.Background(), "", part.ID.String(), AdjustStockRequest{Change: -2, Reason: "sold over the counter"}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if movementRepo.movements[0].ChangeType != model.StockChangeOut {
		t.Errorf("change type = %q, want OUT", movementRepo.movements[0].ChangeType)
	}
}

func TestCreatePartDuplicateSKU(t *testing.T) {
	part := testPart("SCR-001", "Screen Assembly", 2500, 5)
	svc := newTestCatalogService(newFakePartRepo(part), &fakeMovementRepo{}, &fakeAuditRepo{})

	_, err := svc.CreatePart(context.Background(), "", CreatePartRequest{
		SKU:       "SCR-001",
		Name:      "Another Screen",
		UnitPrice: 1000,
	})
	if err == nil {
		t.Fatal("expected duplicate SKU rejection")
	}
}

func TestGetMovementsFiltersByPart(t *testing.T) {
	partA := testPart("A-1", "A", 10, 1)
	partB := testPart("B-1", "B", 10, 1)
	movementRepo := &fakeMovementRepo{}
	movementRepo.movements = append(movementRepo.movements,
		&model.StockMovement{ID: uuid.New(), PartID: partA.ID, ChangeType: model.StockChangeIn, QuantityChanged: 1, StockAfter: 2},
		&model.StockMovement{ID: uuid.New(), PartID: partB.ID, ChangeType: model.StockChangeIn, QuantityChanged: 1, StockAfter: 2},
	)
	svc := newTestCatalogService(newFakePartRepo(partA, partB), movementRepo, &fakeAuditRepo{})

	movements, total, err := svc.GetMovements(context.Background(), partA.ID.String(), 1, 20)
	if err != nil {
		t.Fatalf("GetMovements: %v", err)
	}
	if total != 1 || len(movements) != 1 {
		t.Errorf("got %d movements (total %d), want 1", len(movements), total)
	}
}
