package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request and response shapes for the JSON API.
// Dates cross the wire as ISO 8601 strings.

// RegisterRequest creates a new account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`

	BusinessName    string `json:"businessName,omitempty" validate:"omitempty,max=200"`
	BusinessAddress string `json:"businessAddress,omitempty" validate:"omitempty,max=500"`
	BusinessGSTIN   string `json:"businessGstin,omitempty" validate:"omitempty,gstin"`
	BusinessPAN     string `json:"businessPan,omitempty" validate:"omitempty,len=10,alphanum"`
	BusinessContact string `json:"businessContact,omitempty" validate:"omitempty,phone"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest updates the account name and business profile
type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	BusinessName    string `json:"businessName,omitempty" validate:"omitempty,max=200"`
	BusinessAddress string `json:"businessAddress,omitempty" validate:"omitempty,max=500"`
	BusinessGSTIN   string `json:"businessGstin,omitempty" validate:"omitempty,gstin"`
	BusinessPAN     string `json:"businessPan,omitempty" validate:"omitempty,len=10,alphanum"`
	BusinessContact string `json:"businessContact,omitempty" validate:"omitempty,phone"`
}

// UserDTO is the public representation of an account.
// The password hash never appears here.
type UserDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	BusinessName    string    `json:"businessName,omitempty"`
	BusinessAddress string    `json:"businessAddress,omitempty"`
	BusinessGSTIN   string    `json:"businessGstin,omitempty"`
	BusinessPAN     string    `json:"businessPan,omitempty"`
	BusinessContact string    `json:"businessContact,omitempty"`
	CreatedAt       string    `json:"createdAt"` // ISO 8601
	UpdatedAt       string    `json:"updatedAt"` // ISO 8601
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// CreateCustomerRequest registers a new customer; the code is assigned
// by the server and cannot be supplied
type CreateCustomerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	FirmName    string `json:"firmName" validate:"required,max=200"`
	FirmAddress string `json:"firmAddress,omitempty" validate:"omitempty,max=500"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone"`
	GSTIN       string `json:"gstin,omitempty" validate:"omitempty,gstin"`
}

// UpdateCustomerRequest edits customer details; the code is immutable
type UpdateCustomerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	FirmName    string `json:"firmName" validate:"required,max=200"`
	FirmAddress string `json:"firmAddress,omitempty" validate:"omitempty,max=500"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone"`
	GSTIN       string `json:"gstin,omitempty" validate:"omitempty,gstin"`
}

type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	FirmName    string    `json:"firmName"`
	FirmAddress string    `json:"firmAddress,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	GSTIN       string    `json:"gstin,omitempty"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
	UpdatedAt   string    `json:"updatedAt"` // ISO 8601
}

// ChallanCustomerRef describes the customer on a new challan: either a
// reference to a stored customer or an inline snapshot, never both
type ChallanCustomerRef struct {
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
	Name       string     `json:"name,omitempty" validate:"omitempty,max=200"`
	Address    string     `json:"address,omitempty" validate:"omitempty,max=500"`
	GSTIN      string     `json:"gstin,omitempty" validate:"omitempty,gstin"`
}

// ChallanItemRequest is one line of a new challan. Quantity and rate
// bounds are enforced by the pricing engine; the amount is computed,
// any client-sent value is ignored.
type ChallanItemRequest struct {
	Particulars string          `json:"particulars" validate:"required,max=500"`
	HSNCode     string          `json:"hsnCode,omitempty" validate:"omitempty,max=20"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// CreateChallanRequest creates a challan with its line items
type CreateChallanRequest struct {
	ChallanNo string             `json:"challanNo" validate:"required,max=50"`
	Date      string             `json:"date" validate:"required,datetime=2006-01-02"`
	Customer  ChallanCustomerRef `json:"customer"`

	PONumber  string `json:"poNumber,omitempty" validate:"omitempty,max=50"`
	PODate    string `json:"poDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	VehicleNo string `json:"vehicleNo,omitempty" validate:"omitempty,max=20"`

	Items         []ChallanItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxPercentage decimal.Decimal      `json:"taxPercentage"`

	EOE          string `json:"eoe,omitempty" validate:"omitempty,max=100"`
	ReceiverSign string `json:"receiverSign,omitempty" validate:"omitempty,max=200"`
	IssuedBy     string `json:"issuedBy,omitempty" validate:"omitempty,max=200"`
}

type ChallanItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Position    int             `json:"position"`
	Particulars string          `json:"particulars"`
	HSNCode     string          `json:"hsnCode,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ChallanCustomerDTO is the customer block on a rendered challan. For a
// referenced customer it reflects the current customer record; for a
// snapshot it is the data captured at creation.
type ChallanCustomerDTO struct {
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
	Code       string     `json:"code,omitempty"`
	Name       string     `json:"name"`
	Address    string     `json:"address,omitempty"`
	GSTIN      string     `json:"gstin,omitempty"`
}

type ChallanDTO struct {
	ID        uuid.UUID `json:"id"`
	ChallanNo string    `json:"challanNo"`
	Date      string    `json:"date"` // ISO 8601, date only

	FirmName    string `json:"firmName,omitempty"`
	FirmGSTIN   string `json:"firmGstin,omitempty"`
	FirmPAN     string `json:"firmPan,omitempty"`
	FirmContact string `json:"firmContact,omitempty"`

	Customer ChallanCustomerDTO `json:"customer"`

	PONumber  string `json:"poNumber,omitempty"`
	PODate    string `json:"poDate,omitempty"`
	VehicleNo string `json:"vehicleNo,omitempty"`

	Items         []ChallanItemDTO `json:"items"`
	TaxPercentage decimal.Decimal  `json:"taxPercentage"`
	SubTotal      decimal.Decimal  `json:"subTotal"`
	TaxAmount     decimal.Decimal  `json:"taxAmount"`
	GrandTotal    decimal.Decimal  `json:"grandTotal"`

	EOE          string `json:"eoe,omitempty"`
	ReceiverSign string `json:"receiverSign,omitempty"`
	IssuedBy     string `json:"issuedBy,omitempty"`

	CreatedAt string `json:"createdAt"` // ISO 8601
	UpdatedAt string `json:"updatedAt"` // ISO 8601
}

// ChallanListResponse wraps the owner's challans with the total count
type ChallanListResponse struct {
	Challans []ChallanDTO `json:"challans"`
	Total    int          `json:"total"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// UserToDTO converts a user model to its public representation
func UserToDTO(u *User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		BusinessName:    u.BusinessName,
		BusinessAddress: u.BusinessAddress,
		BusinessGSTIN:   u.BusinessGSTIN,
		BusinessPAN:     u.BusinessPAN,
		BusinessContact: u.BusinessContact,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CustomerToDTO converts a customer model to its public representation
func CustomerToDTO(c *Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		FirmName:    c.FirmName,
		FirmAddress: c.FirmAddress,
		Email:       c.Email,
		Phone:       c.Phone,
		GSTIN:       c.GSTIN,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ChallanToDTO converts a challan with its items. When the challan
// references a stored customer, the preloaded record supplies the
// customer block; otherwise the snapshot fields do.
func ChallanToDTO(c *Challan) ChallanDTO {
	dto := ChallanDTO{
		ID:            c.ID,
		ChallanNo:     c.ChallanNo,
		Date:          c.Date.UTC().Format("2006-01-02"),
		FirmName:      c.FirmName,
		FirmGSTIN:     c.FirmGSTIN,
		FirmPAN:       c.FirmPAN,
		FirmContact:   c.FirmContact,
		PONumber:      c.PONumber,
		VehicleNo:     c.VehicleNo,
		TaxPercentage: c.TaxPercentage,
		SubTotal:      c.SubTotal,
		TaxAmount:     c.TaxAmount,
		GrandTotal:    c.GrandTotal,
		EOE:           c.EOE,
		ReceiverSign:  c.ReceiverSign,
		IssuedBy:      c.IssuedBy,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.PODate != nil {
		dto.PODate = c.PODate.UTC().Format("2006-01-02")
	}

	if c.HasCustomerRef() && c.Customer != nil {
		dto.Customer = ChallanCustomerDTO{
			CustomerID: c.CustomerID,
			Code:       c.Customer.Code,
			Name:       c.Customer.Name,
			Address:    c.Customer.FirmAddress,
			GSTIN:      c.Customer.GSTIN,
		}
	} else {
		dto.Customer = ChallanCustomerDTO{
			CustomerID: c.CustomerID,
			Name:       c.CustomerName,
			Address:    c.CustomerAddress,
			GSTIN:      c.CustomerGSTIN,
		}
	}

	dto.Items = make([]ChallanItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		dto.Items = append(dto.Items, ChallanItemDTO{
			ID:          item.ID,
			Position:    item.Position,
			Particulars: item.Particulars,
			HSNCode:     item.HSNCode,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return dto
}
