package repository

import (
	"context"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallanRepository handles database operations for challans and their
// line items. All queries are scoped to the owning user.
type ChallanRepository struct {
	db *gorm.DB
}

func NewChallanRepository(db *gorm.DB) *ChallanRepository {
	return &ChallanRepository{db: db}
}

// Create persists the challan together with its items
func (r *ChallanRepository) Create(ctx context.Context, challan *domain.Challan) error {
	return r.db.WithContext(ctx).Create(challan).Error
}

func (r *ChallanRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Challan, error) {
	var challan domain.Challan
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Customer").
		Where("owner_user_id = ? AND id = ?", ownerID, id).
		First(&challan).Error
	if err != nil {
		return nil, err
	}
	return &challan, nil
}

// List returns the owner's challans newest first
func (r *ChallanRepository) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Challan, error) {
	var challans []domain.Challan
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Customer").
		Where("owner_user_id = ?", ownerID).
		Order("date DESC, created_at DESC").
		Find(&challans).Error
	return challans, err
}

// Delete soft-deletes the challan. Returns gorm.ErrRecordNotFound when
// no live row matched.
func (r *ChallanRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Challan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChallanRepository) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Challan{}).
		Where("owner_user_id = ?", ownerID).
		Count(&count).Error
	return int(count), err
}
