package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceLineRequest struct {
	PartID   string `json:"part_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type InvoiceClientRequest struct {
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
	CompanyName string `json:"company_name"`
}

type InvoiceDetailsRequest struct {
	InvoiceNumber  string  `json:"invoice_number"`
	OrderNumber    string  `json:"order_number"`
	PaymentTerms   string  `json:"payment_terms"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentStatus  string  `json:"payment_status"`
	PartialAmount  float64 `json:"partial_amount"`
	DeliveryDate   string  `json:"delivery_date"`
	WarrantyPeriod string  `json:"warranty_period"`
	ServiceCharges float64 `json:"service_charges"`
	Discount       float64 `json:"discount"`
	DiscountType   string  `json:"discount_type"`
	Notes          string  `json:"notes"`
}

type GenerateInvoiceRequest struct {
	Lines   []InvoiceLineRequest  `json:"lines" binding:"required,min=1,dive"`
	Client  InvoiceClientRequest  `json:"client" binding:"required"`
	Details InvoiceDetailsRequest `json:"details"`
}

type InvoiceService interface {
	GenerateInvoice(ctx context.Context, userID string, req GenerateInvoiceRequest) (*invoice.Artifact, error)
}

type invoiceService struct {
	partRepo     repository.PartRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	generator    *invoice.Generator
}

func NewInvoiceService(
	partRepo repository.PartRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	generator *invoice.Generator,
) InvoiceService {
	return &invoiceService{
		partRepo:     partRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		generator:    generator,
	}
}

// GenerateInvoice resolves the requested parts against the catalog, runs
// the generation pipeline and records the run in the audit trail. The PDF
// is streamed back to the caller and never persisted.
func (s *invoiceService) GenerateInvoice(ctx context.Context, userID string, req GenerateInvoiceRequest) (*invoice.Artifact, error) {
	selection := invoice.NewSelection()
	for _, line := range req.Lines {
		partID, err := uuid.Parse(line.PartID)
		if err != nil {
			return nil, fmt.Errorf("invalid part id %q: %w", line.PartID, err)
		}
		part, err := s.partRepo.FindByID(ctx, partID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("part %s not found", line.PartID)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		selection.Add(invoice.LineItem{
			ID:            part.ID.String(),
			Name:          part.Name,
			Brand:         part.Brand,
			Model:         part.Model,
			UnitPrice:     part.UnitPrice,
			StockQuantity: part.StockQuantity,
		}, line.Quantity)
	}

	client, err := s.resolveClient(ctx, req.Client)
	if err != nil {
		return nil, err
	}

	artifact, err := s.generator.Generate(invoice.Request{
		Lines:   selection.Lines(),
		Client:  client,
		Details: toInvoiceDetails(req.Details),
	})
	if err != nil {
		return nil, err
	}

	s.logGeneration(ctx, userID, client, artifact, len(req.Lines))
	return artifact, nil
}

// resolveClient prefers the stored customer record when an id is given;
// inline fields act as overrides for walk-in clients.
func (s *invoiceService) resolveClient(ctx context.Context, req InvoiceClientRequest) (invoice.ClientInfo, error) {
	client := invoice.ClientInfo{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
		CompanyName: req.CompanyName,
	}

	if req.CustomerID == "" {
		return client, nil
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return invoice.ClientInfo{}, fmt.Errorf("invalid customer id: %w", err)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invoice.ClientInfo{}, errors.New("customer not found")
		}
		return invoice.ClientInfo{}, fmt.Errorf("database error: %w", err)
	}

	if client.Name == "" {
		client.Name = customer.Name
	}
	if client.Phone == "" {
		client.Phone = customer.Phone
	}
	if client.Email == "" {
		client.Email = customer.Email
	}
	if client.Address == "" {
		client.Address = customer.Address
	}
	if client.GSTNumber == "" {
		client.GSTNumber = customer.GSTNumber
	}
	if client.CompanyName == "" {
		client.CompanyName = customer.CompanyName
	}
	return client, nil
}

func toInvoiceDetails(req InvoiceDetailsRequest) invoice.Details {
	return invoice.Details{
		InvoiceNumber:  req.InvoiceNumber,
		OrderNumber:    req.OrderNumber,
		PaymentTerms:   req.PaymentTerms,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  invoice.PaymentStatus(req.PaymentStatus),
		PartialAmount:  decimal.NewFromFloat(req.PartialAmount),
		DeliveryDate:   req.DeliveryDate,
		WarrantyPeriod: req.WarrantyPeriod,
		ServiceCharges: decimal.NewFromFloat(req.ServiceCharges),
		Discount:       decimal.NewFromFloat(req.Discount),
		DiscountType:   invoice.DiscountType(req.DiscountType),
		Notes:          req.Notes,
	}
}

// logGeneration is best effort; a failed audit write never voids an
// already rendered invoice.
func (s *invoiceService) logGeneration(ctx context.Context, userID string, client invoice.ClientInfo, artifact *invoice.Artifact, lineCount int) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]interface{}{
		"filename":   artifact.Filename,
		"page_count": artifact.PageCount,
		"line_count": lineCount,
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     model.ActionGenerateInvoice,
		EntityID:   artifact.Filename,
		EntityName: client.Name,
		Details:    string(details),
	})
}
