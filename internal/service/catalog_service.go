package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"
	ws "github.com/fixpoint-works/repairdesk-api/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreatePartRequest struct {
	SKU       string  `json:"sku" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	UnitPrice float64 `json:"unit_price" binding:"required,min=0"`
}

type UpdatePartRequest struct {
	SKU       string  `json:"sku" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	UnitPrice float64 `json:"unit_price" binding:"required,min=0"`
}

type AdjustStockRequest struct {
	Change int    `json:"change" binding:"required"`
	Reason string `json:"reason"`
}

type PartResponse struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	UnitPrice     string `json:"unit_price"`
	StockQuantity int    `json:"stock_quantity"`
}

// Websocket Payload
type StockEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type StockMovementResponse struct {
	ID              string `json:"id"`
	ChangeType      string `json:"change_type"`
	QuantityChanged int    `json:"quantity_changed"`
	StockAfter      int    `json:"stock_after"`
	Reason          string `json:"reason,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type CatalogService interface {
	GetParts(ctx context.Context, page, limit int, search string) ([]PartResponse, int64, error)
	GetPart(ctx context.Context, id string) (PartResponse, error)
	CreatePart(ctx context.Context, userID string, req CreatePartRequest) (PartResponse, error)
	UpdatePart(ctx context.Context, userID string, id string, req UpdatePartRequest) (PartResponse, error)
	DeletePart(ctx context.Context, userID string, id string) error
	AdjustStock(ctx context.Context, userID string, id string, req AdjustStockRequest) (PartResponse, error)
	GetMovements(ctx context.Context, id string, page, limit int) ([]StockMovementResponse, int64, error)
}

type catalogService struct {
	partRepo     repository.PartRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewCatalogService(
	partRepo repository.PartRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		partRepo:     partRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func toPartResponse(p *model.Part) PartResponse {
	return PartResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Model:         p.Model,
		UnitPrice:     p.UnitPrice.StringFixed(2),
		StockQuantity: p.StockQuantity,
	}
}

func (s *catalogService) GetParts(ctx context.Context, page, limit int, search string) ([]PartResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	parts, total, err := s.partRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PartResponse, 0, len(parts))
	for i := range parts {
		res = append(res, toPartResponse(&parts[i]))
	}
	return res, total, nil
}

func (s *catalogService) GetPart(ctx context.Context, id string) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, fmt.Errorf("invalid part id: %w", err)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartResponse{}, errors.New("part not found")
		}
		return PartResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toPartResponse(part), nil
}

func (s *catalogService) CreatePart(ctx context.Context, userID string, req CreatePartRequest) (PartResponse, error) {
	if _, err := s.partRepo.FindBySKU(ctx, req.SKU); err == nil {
		return PartResponse{}, errors.New("a part with this SKU already exists")
	}

	part := model.Part{
		SKU:           req.SKU,
		Name:          req.Name,
		Brand:         req.Brand,
		Model:         req.Model,
		UnitPrice:     decimal.NewFromFloat(req.UnitPrice),
		StockQuantity: 0,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partRepo.Create(txCtx, &part); err != nil {
			return fmt.Errorf("failed to create part: %w", err)
		}
		return s.writeAudit(txCtx, userID, model.ActionCreatePart, part.ID.String(), part.Name, req)
	})
	if err != nil {
		return PartResponse{}, err
	}

	return toPartResponse(&part), nil
}

func (s *catalogService) UpdatePart(ctx context.Context, userID string, id string, req UpdatePartRequest) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, fmt.Errorf("invalid part id: %w", err)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartResponse{}, errors.New("part not found")
		}
		return PartResponse{}, fmt.Errorf("database error: %w", err)
	}

	part.SKU = req.SKU
	part.Name = req.Name
	part.Brand = req.Brand
	part.Model = req.Model
	part.UnitPrice = decimal.NewFromFloat(req.UnitPrice)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partRepo.Update(txCtx, part); err != nil {
			return fmt.Errorf("failed to update part: %w", err)
		}
		return s.writeAudit(txCtx, userID, model.ActionUpdatePart, part.ID.String(), part.Name, req)
	})
	if err != nil {
		return PartResponse{}, err
	}

	return toPartResponse(part), nil
}

func (s *catalogService) DeletePart(ctx context.Context, userID string, id string) error {
	partID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid part id: %w", err)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("part not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partRepo.Delete(txCtx, partID); err != nil {
			return fmt.Errorf("failed to delete part: %w", err)
		}
		return s.writeAudit(txCtx, userID, model.ActionDeletePart, part.ID.String(), part.Name, map[string]interface{}{"deleted": true})
	})
}

// AdjustStock applies a manual stock change under a row lock, records the
// movement, and broadcasts the new level to connected back-office clients.
func (s *catalogService) AdjustStock(ctx context.Context, userID string, id string, req AdjustStockRequest) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, fmt.Errorf("invalid part id: %w", err)
	}

	var part *model.Part
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		part, findErr = s.partRepo.FindByIDForUpdate(txCtx, partID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return errors.New("part not found")
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		newStock := part.StockQuantity + req.Change
		if newStock < 0 {
			return fmt.Errorf("stock cannot go negative: current %d, change %d", part.StockQuantity, req.Change)
		}

		if err := s.partRepo.UpdateStock(txCtx, partID, newStock); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		part.StockQuantity = newStock

		changeType := model.StockChangeIn
		if req.Change < 0 {
			changeType = model.StockChangeOut
		}
		movement := &model.StockMovement{
			PartID:          partID,
			ChangeType:      changeType,
			QuantityChanged: req.Change,
			StockAfter:      newStock,
			Reason:          req.Reason,
		}
		if err := s.movementRepo.Create(txCtx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		return s.writeAudit(txCtx, userID, model.ActionAdjustStock, part.ID.String(), part.Name, req)
	})
	if err != nil {
		return PartResponse{}, err
	}

	s.broadcastStock(part)
	return toPartResponse(part), nil
}

func (s *catalogService) GetMovements(ctx context.Context, id string, page, limit int) ([]StockMovementResponse, int64, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid part id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	movements, total, err := s.movementRepo.ListByPart(ctx, partID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, StockMovementResponse{
			ID:              m.ID.String(),
			ChangeType:      m.ChangeType,
			QuantityChanged: m.QuantityChanged,
			StockAfter:      m.StockAfter,
			Reason:          m.Reason,
			CreatedAt:       m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return res, total, nil
}

func (s *catalogService) broadcastStock(part *model.Part) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(StockEvent{
		Event: "stock_updated",
		Data: map[string]interface{}{
			"part_id":        part.ID.String(),
			"sku":            part.SKU,
			"stock_quantity": part.StockQuantity,
		},
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func (s *catalogService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(payload)
	audit := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
