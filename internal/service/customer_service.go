package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	sequenceRepo *repository.CustomerSequenceRepository
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	sequenceRepo *repository.CustomerSequenceRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		sequenceRepo: sequenceRepo,
		logger:       logger,
	}
}

// Create registers a customer for the user. The display code is taken
// from the owner's sequence, so codes are unique and strictly
// increasing even under concurrent creates.
func (s *CustomerService) Create(ctx context.Context, ownerID uuid.UUID, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	dup, err := s.customerRepo.FindDuplicate(ctx, ownerID, req.Name, req.FirmName, req.FirmAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate customer: %w", err)
	}
	if dup != nil {
		return nil, ErrDuplicateCustomer
	}

	number, err := s.sequenceRepo.NextNumber(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate customer number: %w", err)
	}

	customer := &domain.Customer{
		OwnerUserID: ownerID,
		Code:        fmt.Sprintf("CUST%03d", number),
		Name:        req.Name,
		FirmName:    req.FirmName,
		FirmAddress: req.FirmAddress,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTIN:       req.GSTIN,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code),
		zap.String("owner_id", ownerID.String()),
	)

	dto := domain.CustomerToDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	dto := domain.CustomerToDTO(customer)
	return &dto, nil
}

func (s *CustomerService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.CustomerDTO, error) {
	customers, err := s.customerRepo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]domain.CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, domain.CustomerToDTO(&customers[i]))
	}
	return dtos, nil
}

// Update edits customer details. The code is never changed.
func (s *CustomerService) Update(ctx context.Context, ownerID, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Name = req.Name
	customer.FirmName = req.FirmName
	customer.FirmAddress = req.FirmAddress
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.GSTIN = req.GSTIN

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	dto := domain.CustomerToDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.customerRepo.Delete(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted",
		zap.String("customer_id", id.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return nil
}
