package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookingRepo) FindByIDWithCustomer(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	b, ok := r.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) List(ctx context.Context, status string, page, limit int) ([]model.Booking, int64, error) {
	out := make([]model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if status == "" || b.Status == status {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func newTestBookingService(bookingRepo *fakeBookingRepo, auditRepo *fakeAuditRepo) BookingService {
	return NewBookingService(
		bookingRepo,
		newFakeCustomerRepo(),
		auditRepo,
		fakeTxManager{},
		invoice.NewReferenceGenerator(nil, &invoice.CounterSource{}),
	)
}

func TestCreateBookingAssignsCodeAndStatus(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	svc := newTestBookingService(newFakeBookingRepo(), auditRepo)

	booking, err := svc.CreateBooking(context.Background(), "", CreateBookingRequest{
		DeviceBrand:      "Samsung",
		DeviceModel:      "Galaxy S22",
		IssueDescription: "Cracked screen",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if !strings.HasPrefix(booking.Code, "ORD-") {
		t.Errorf("code = %q, want ORD- prefix", booking.Code)
	}
	if booking.Status != model.BookingStatusReceived {
		t.Errorf("status = %q, want %q", booking.Status, model.BookingStatusReceived)
	}
	if len(auditRepo.entries) != 1 || auditRepo.entries[0].Action != model.ActionCreateBooking {
		t.Errorf("expected one CREATE_BOOKING audit entry, got %+v", auditRepo.entries)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{model.BookingStatusReceived, model.BookingStatusInProgress, true},
		{model.BookingStatusReceived, model.BookingStatusCancelled, true},
		{model.BookingStatusReceived, model.BookingStatusDelivered, false},
		{model.BookingStatusInProgress, model.BookingStatusReady, true},
		{model.BookingStatusReady, model.BookingStatusDelivered, true},
		{model.BookingStatusDelivered, model.BookingStatusReceived, false},
		{model.BookingStatusCancelled, model.BookingStatusInProgress, false},
	}

	for _, tc := range tests {
		repo := newFakeBookingRepo()
		booking := &model.Booking{
			ID:               uuid.New(),
			Code:             "ORD-20250307-001",
			DeviceBrand:      "Apple",
			DeviceModel:      "iPhone 13",
			IssueDescription: "Battery drain",
			Status:           tc.from,
		}
		repo.bookings[booking.ID] = booking

		svc := newTestBookingService(repo, &fakeAuditRepo{})
		_, err := svc.UpdateStatus(context.Background(), "", booking.ID.String(), UpdateBookingStatusRequest{Status: tc.to})

		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s -> %s: expected rejection", tc.from, tc.to)
		}
	}
}

func TestCreateBookingScheduledAtValidation(t *testing.T) {
	svc := newTestBookingService(newFakeBookingRepo(), &fakeAuditRepo{})

	_, err := svc.CreateBooking(context.Background(), "", CreateBookingRequest{
		DeviceBrand:      "Xiaomi",
		DeviceModel:      "Note 10",
		IssueDescription: "No charge",
		ScheduledAt:      "tomorrow afternoon",
	})
	if err == nil {
		t.Fatal("expected error for non RFC 3339 scheduled_at")
	}
}
