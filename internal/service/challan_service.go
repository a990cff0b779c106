package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/pricing"
	"github.com/dispatchbook/challan-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChallanService struct {
	challanRepo  *repository.ChallanRepository
	customerRepo *repository.CustomerRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

func NewChallanService(
	challanRepo *repository.ChallanRepository,
	customerRepo *repository.CustomerRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *ChallanService {
	return &ChallanService{
		challanRepo:  challanRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Create builds and persists a challan. Line amounts and document
// totals are computed here; any totals in the request are ignored.
// The firm header falls back to the owner's business profile.
func (s *ChallanService) Create(ctx context.Context, ownerID uuid.UUID, req *domain.CreateChallanRequest) (*domain.ChallanDTO, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	challan := &domain.Challan{
		OwnerUserID:  ownerID,
		ChallanNo:    req.ChallanNo,
		Date:         date,
		PONumber:     req.PONumber,
		VehicleNo:    req.VehicleNo,
		EOE:          req.EOE,
		ReceiverSign: req.ReceiverSign,
		IssuedBy:     req.IssuedBy,
	}

	if req.PODate != "" {
		poDate, err := time.Parse("2006-01-02", req.PODate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid po date", ErrInvalidInput)
		}
		challan.PODate = &poDate
	}

	if err := s.applyCustomerRef(ctx, ownerID, challan, &req.Customer); err != nil {
		return nil, err
	}

	if err := s.applyFirmHeader(ctx, ownerID, challan); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, pricing.Line{Quantity: item.Quantity, Rate: item.Rate})
	}
	totals, err := pricing.ComputeTotals(lines, req.TaxPercentage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	challan.TaxPercentage = req.TaxPercentage
	challan.SubTotal = totals.SubTotal
	challan.TaxAmount = totals.TaxAmount
	challan.GrandTotal = totals.GrandTotal

	challan.Items = make([]domain.ChallanItem, 0, len(req.Items))
	for i, item := range req.Items {
		amount, err := pricing.LineAmount(item.Quantity, item.Rate)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i+1, err)
		}
		challan.Items = append(challan.Items, domain.ChallanItem{
			Position:    i + 1,
			Particulars: item.Particulars,
			HSNCode:     item.HSNCode,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
	}

	if err := s.challanRepo.Create(ctx, challan); err != nil {
		return nil, fmt.Errorf("failed to create challan: %w", err)
	}

	s.logger.Info("challan created",
		zap.String("challan_id", challan.ID.String()),
		zap.String("challan_no", challan.ChallanNo),
		zap.String("owner_id", ownerID.String()),
		zap.String("grand_total", challan.GrandTotal.String()),
	)

	// Reload for the preloaded customer on referenced challans
	created, err := s.challanRepo.GetByID(ctx, ownerID, challan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload challan: %w", err)
	}
	dto := domain.ChallanToDTO(created)
	return &dto, nil
}

// applyCustomerRef validates the customer descriptor: exactly one of a
// stored-customer reference or an inline snapshot
func (s *ChallanService) applyCustomerRef(ctx context.Context, ownerID uuid.UUID, challan *domain.Challan, ref *domain.ChallanCustomerRef) error {
	hasRef := ref.CustomerID != nil
	hasSnapshot := ref.Name != "" || ref.Address != ""

	switch {
	case hasRef && hasSnapshot:
		return fmt.Errorf("%w: provide either customerId or customer details, not both", ErrInvalidInput)
	case hasRef:
		// The reference must point at the caller's own customer
		customer, err := s.customerRepo.GetByID(ctx, ownerID, *ref.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to resolve customer: %w", err)
		}
		challan.CustomerID = ref.CustomerID
		// Snapshot the customer so the challan keeps its consignee block
		// after the customer record is deleted. While the customer is
		// live the current record still wins at read time.
		challan.CustomerName = customer.Name
		challan.CustomerAddress = customer.FirmAddress
		challan.CustomerGSTIN = customer.GSTIN
	case hasSnapshot:
		if ref.Name == "" || ref.Address == "" {
			return fmt.Errorf("%w: customer name and address are required", ErrInvalidInput)
		}
		challan.CustomerName = ref.Name
		challan.CustomerAddress = ref.Address
		challan.CustomerGSTIN = ref.GSTIN
	default:
		return fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}
	return nil
}

// applyFirmHeader fills blank firm fields from the owner's business profile
func (s *ChallanService) applyFirmHeader(ctx context.Context, ownerID uuid.UUID, challan *domain.Challan) error {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load owner profile: %w", err)
	}
	if challan.FirmName == "" {
		challan.FirmName = owner.BusinessName
	}
	if challan.FirmGSTIN == "" {
		challan.FirmGSTIN = owner.BusinessGSTIN
	}
	if challan.FirmPAN == "" {
		challan.FirmPAN = owner.BusinessPAN
	}
	if challan.FirmContact == "" {
		challan.FirmContact = owner.BusinessContact
	}
	return nil
}

func (s *ChallanService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ChallanDTO, error) {
	challan, err := s.challanRepo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challan: %w", err)
	}
	dto := domain.ChallanToDTO(challan)
	return &dto, nil
}

// GetModel returns the raw challan model, used by the PDF renderer
func (s *ChallanService) GetModel(ctx context.Context, ownerID, id uuid.UUID) (*domain.Challan, error) {
	challan, err := s.challanRepo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challan: %w", err)
	}
	return challan, nil
}

// List returns the owner's challans, newest first, with the total count
func (s *ChallanService) List(ctx context.Context, ownerID uuid.UUID) (*domain.ChallanListResponse, error) {
	challans, err := s.challanRepo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challans: %w", err)
	}
	total, err := s.challanRepo.Count(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count challans: %w", err)
	}

	dtos := make([]domain.ChallanDTO, 0, len(challans))
	for i := range challans {
		dtos = append(dtos, domain.ChallanToDTO(&challans[i]))
	}
	return &domain.ChallanListResponse{Challans: dtos, Total: total}, nil
}

func (s *ChallanService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.challanRepo.Delete(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete challan: %w", err)
	}

	s.logger.Info("challan deleted",
		zap.String("challan_id", id.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return nil
}
