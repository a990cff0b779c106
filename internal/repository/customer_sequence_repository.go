package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerSequenceRepository hands out sequential customer numbers per
// owner. The sequence row is read under SELECT FOR UPDATE inside a
// transaction so two concurrent creates never receive the same number.
type CustomerSequenceRepository struct {
	db *gorm.DB
}

// NewCustomerSequenceRepository creates a new CustomerSequenceRepository
func NewCustomerSequenceRepository(db *gorm.DB) *CustomerSequenceRepository {
	return &CustomerSequenceRepository{db: db}
}

// NextNumber atomically retrieves and advances the sequence for an owner.
// If no sequence exists yet, one is created and 1 is returned.
func (r *CustomerSequenceRepository) NextNumber(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var seq domain.CustomerSequence
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_user_id = ?", ownerID).
			First(&seq)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			seq = domain.CustomerSequence{
				OwnerUserID: ownerID,
				NextNumber:  2,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create customer sequence: %w", err)
			}
			next = 1
			return nil
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get customer sequence: %w", result.Error)
		}

		next = seq.NextNumber
		if err := tx.Model(&seq).Updates(map[string]interface{}{
			"next_number": next + 1,
			"updated_at":  time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update customer sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return next, nil
}
