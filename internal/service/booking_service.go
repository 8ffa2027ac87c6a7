package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	CustomerID       string `json:"customer_id"`
	DeviceBrand      string `json:"device_brand" binding:"required"`
	DeviceModel      string `json:"device_model" binding:"required"`
	IssueDescription string `json:"issue_description" binding:"required"`
	ScheduledAt      string `json:"scheduled_at"` // RFC 3339, optional
	Note             string `json:"note"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type BookingResponse struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Customer         *CustomerResponse `json:"customer,omitempty"`
	DeviceBrand      string            `json:"device_brand"`
	DeviceModel      string            `json:"device_model"`
	IssueDescription string            `json:"issue_description"`
	Status           string            `json:"status"`
	ScheduledAt      *time.Time        `json:"scheduled_at,omitempty"`
	Note             string            `json:"note,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (BookingResponse, error)
	UpdateStatus(ctx context.Context, userID string, id string, req UpdateBookingStatusRequest) (BookingResponse, error)
	GetBooking(ctx context.Context, id string) (BookingResponse, error)
	ListBookings(ctx context.Context, status string, page, limit int) ([]BookingResponse, int64, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	refs         *invoice.ReferenceGenerator
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	refs *invoice.ReferenceGenerator,
) BookingService {
	if refs == nil {
		refs = invoice.NewReferenceGenerator(nil, nil)
	}
	return &bookingService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		refs:         refs,
	}
}

// validTransitions encodes the repair workflow. Cancellation is allowed
// from any state except delivered.
var validTransitions = map[string][]string{
	model.BookingStatusReceived:   {model.BookingStatusInProgress, model.BookingStatusCancelled},
	model.BookingStatusInProgress: {model.BookingStatusReady, model.BookingStatusCancelled},
	model.BookingStatusReady:      {model.BookingStatusDelivered, model.BookingStatusCancelled},
	model.BookingStatusDelivered:  {},
	model.BookingStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func toBookingResponse(b *model.Booking) BookingResponse {
	res := BookingResponse{
		ID:               b.ID.String(),
		Code:             b.Code,
		DeviceBrand:      b.DeviceBrand,
		DeviceModel:      b.DeviceModel,
		IssueDescription: b.IssueDescription,
		Status:           b.Status,
		ScheduledAt:      b.ScheduledAt,
		Note:             b.Note,
		CreatedAt:        b.CreatedAt,
	}
	if b.Customer != nil {
		c := toCustomerResponse(b.Customer)
		res.Customer = &c
	}
	return res
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (BookingResponse, error) {
	booking := model.Booking{
		Code:             s.refs.Next(invoice.PrefixOrder),
		DeviceBrand:      req.DeviceBrand,
		DeviceModel:      req.DeviceModel,
		IssueDescription: req.IssueDescription,
		Status:           model.BookingStatusReceived,
		Note:             req.Note,
	}

	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return BookingResponse{}, fmt.Errorf("invalid customer id: %w", err)
		}
		customer, err := s.customerRepo.FindByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BookingResponse{}, errors.New("customer not found")
			}
			return BookingResponse{}, fmt.Errorf("database error: %w", err)
		}
		booking.CustomerID = &customer.ID
		booking.Customer = customer
	}

	if req.ScheduledAt != "" {
		scheduled, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return BookingResponse{}, fmt.Errorf("invalid scheduled_at, expected RFC 3339: %w", err)
		}
		booking.ScheduledAt = &scheduled
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Create(txCtx, &booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return s.logBooking(txCtx, userID, model.ActionCreateBooking, &booking, req)
	})
	if err != nil {
		return BookingResponse{}, err
	}

	return toBookingResponse(&booking), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, userID string, id string, req UpdateBookingStatusRequest) (BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("invalid booking id: %w", err)
	}

	booking, err := s.bookingRepo.FindByIDWithCustomer(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingResponse{}, errors.New("booking not found")
		}
		return BookingResponse{}, fmt.Errorf("database error: %w", err)
	}

	if !canTransition(booking.Status, req.Status) {
		return BookingResponse{}, fmt.Errorf("cannot move booking from %s to %s", booking.Status, req.Status)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, req.Status); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		booking.Status = req.Status
		return s.logBooking(txCtx, userID, model.ActionUpdateBooking, booking, req)
	})
	if err != nil {
		return BookingResponse{}, err
	}

	return toBookingResponse(booking), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("invalid booking id: %w", err)
	}
	booking, err := s.bookingRepo.FindByIDWithCustomer(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingResponse{}, errors.New("booking not found")
		}
		return BookingResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toBookingResponse(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, page, limit int) ([]BookingResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	bookings, total, err := s.bookingRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		res = append(res, toBookingResponse(&bookings[i]))
	}
	return res, total, nil
}

func (s *bookingService) logBooking(ctx context.Context, userID, action string, booking *model.Booking, payload interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   booking.Code,
		EntityName: booking.DeviceBrand + " " + booking.DeviceModel,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
