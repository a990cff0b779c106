package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate assigns the id in application code so the models work on
// every supported database, not only ones with gen_random_uuid()
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an account that owns customers and challans
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
	// Business profile, used to pre-fill the challan header
	BusinessName    string `gorm:"type:varchar(200);column:business_name"`
	BusinessAddress string `gorm:"type:varchar(500);column:business_address"`
	BusinessGSTIN   string `gorm:"type:varchar(15);column:business_gstin"`
	BusinessPAN     string `gorm:"type:varchar(10);column:business_pan"`
	BusinessContact string `gorm:"type:varchar(50);column:business_contact"`
}

// Customer represents a billing customer owned by a single user
type Customer struct {
	BaseModel
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_user_id"`
	Owner       *User     `gorm:"foreignKey:OwnerUserID"`
	// Code is the sequential display id, CUST001 and upwards per owner
	Code        string `gorm:"type:varchar(20);not null;index"`
	Name        string `gorm:"type:varchar(200);not null;index"`
	FirmName    string `gorm:"type:varchar(200);not null;column:firm_name"`
	FirmAddress string `gorm:"type:varchar(500);column:firm_address"`
	Email       string `gorm:"type:varchar(255)"`
	Phone       string `gorm:"type:varchar(20)"`
	GSTIN       string `gorm:"type:varchar(15);column:gstin"`
}

// CustomerSequence tracks the next customer number per owner.
// Rows are advanced under a row lock so concurrent creates never
// hand out the same code.
type CustomerSequence struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:owner_user_id"`
	NextNumber  int       `gorm:"not null;default:1;column:next_number"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id in application code
func (s *CustomerSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Challan represents a delivery challan document.
//
// The customer is either a reference (CustomerID set, resolved to the
// current customer record when the challan is read) or an embedded
// snapshot (CustomerName/CustomerAddress/CustomerGSTIN captured at
// creation time). Exactly one of the two forms is present.
type Challan struct {
	BaseModel
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_user_id"`
	Owner       *User     `gorm:"foreignKey:OwnerUserID"`
	ChallanNo   string    `gorm:"type:varchar(50);not null;index;column:challan_no"`
	Date        time.Time `gorm:"not null;index"`

	// Issuing firm header, defaulted from the owner's business profile
	FirmName    string `gorm:"type:varchar(200);column:firm_name"`
	FirmGSTIN   string `gorm:"type:varchar(15);column:firm_gstin"`
	FirmPAN     string `gorm:"type:varchar(10);column:firm_pan"`
	FirmContact string `gorm:"type:varchar(50);column:firm_contact"`

	CustomerID      *uuid.UUID `gorm:"type:uuid;index;column:customer_id"`
	Customer        *Customer  `gorm:"foreignKey:CustomerID"`
	CustomerName    string     `gorm:"type:varchar(200);column:customer_name"`
	CustomerAddress string     `gorm:"type:varchar(500);column:customer_address"`
	CustomerGSTIN   string     `gorm:"type:varchar(15);column:customer_gstin"`

	PONumber  string     `gorm:"type:varchar(50);column:po_number"`
	PODate    *time.Time `gorm:"column:po_date"`
	VehicleNo string     `gorm:"type:varchar(20);column:vehicle_no"`

	Items []ChallanItem `gorm:"foreignKey:ChallanID;constraint:OnDelete:CASCADE"`

	// Totals are always computed server-side from the items
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;column:tax_percentage"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null;column:sub_total"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;column:tax_amount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:grand_total"`

	EOE          string `gorm:"type:varchar(100);column:eoe"`
	ReceiverSign string `gorm:"type:varchar(200);column:receiver_sign"`
	IssuedBy     string `gorm:"type:varchar(200);column:issued_by"`
}

// HasCustomerRef reports whether the challan references a stored customer
// rather than carrying an inline snapshot
func (c *Challan) HasCustomerRef() bool {
	return c.CustomerID != nil
}

// ChallanItem represents a single line on a challan
type ChallanItem struct {
	BaseModel
	ChallanID   uuid.UUID `gorm:"type:uuid;not null;index;column:challan_id"`
	Challan     *Challan  `gorm:"foreignKey:ChallanID"`
	Position    int       `gorm:"not null"`
	Particulars string    `gorm:"type:varchar(500);not null"`
	HSNCode     string    `gorm:"type:varchar(20);column:hsn_code"`
	// Amount is always Quantity * Rate, recomputed on the server
	Quantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Rate     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}
