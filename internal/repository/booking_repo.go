package repository

import (
	"context"

	"github.com/fixpoint-works/repairdesk-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByIDWithCustomer(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, status string, page, limit int) ([]model.Booking, int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithCustomer(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).Preload("Customer").First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Booking{}).Where("id = ?", id).Update("status", status).Error
}

func (r *bookingRepository) List(ctx context.Context, status string, page, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Booking{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Customer")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
