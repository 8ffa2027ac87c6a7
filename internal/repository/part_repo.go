package repository

import (
	"context"

	"github.com/fixpoint-works/repairdesk-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	Update(ctx context.Context, part *model.Part) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindBySKU(ctx context.Context, sku string) (*model.Part, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Part, int64, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error)
}

type partRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(ctx context.Context, part *model.Part) error {
	return GetDB(ctx, r.db).Create(part).Error
}

func (r *partRepository) Update(ctx context.Context, part *model.Part) error {
	return GetDB(ctx, r.db).Save(part).Error
}

func (r *partRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Part{}).Error
}

func (r *partRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) FindBySKU(ctx context.Context, sku string) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).Where("sku = ?", sku).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) List(ctx context.Context, page, limit int, search string) ([]model.Part, int64, error) {
	var parts []model.Part
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Part{})
	if search != "" {
		db = db.Where("name ILIKE ? OR brand ILIKE ? OR model ILIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&parts).Error; err != nil {
		return nil, 0, err
	}

	return parts, total, nil
}

func (r *partRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return GetDB(ctx, r.db).Model(&model.Part{}).Where("id = ?", id).Update("stock_quantity", stock).Error
}

func (r *partRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}
