package repository

import (
	"context"
	"errors"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository handles database operations for customers.
// Every query is scoped to the owning user; a customer belonging to
// another user is indistinguishable from one that does not exist.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND id = ?", ownerID, id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete soft-deletes the customer. Returns gorm.ErrRecordNotFound when
// no live row matched, so deleting twice surfaces as not found.
func (r *CustomerRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, err
}

// FindDuplicate looks for a live customer of the same owner with the
// identical identity tuple. Returns nil when no duplicate exists.
func (r *CustomerRepository) FindDuplicate(ctx context.Context, ownerID uuid.UUID, name, firmName, firmAddress, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND name = ? AND firm_name = ? AND firm_address = ? AND email = ?",
			ownerID, name, firmName, firmAddress, email).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
