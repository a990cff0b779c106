package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dispatchbook/challan-api/internal/database"
	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory SQLite database with the
// full schema. Each call gets its own database, so tests never see
// each other's data.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database survives across pooled connections
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")
	return db
}

// CreateTestUser creates a user with a business profile and returns it
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:            "Test User",
		Email:           email,
		PasswordHash:    "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		BusinessName:    "Test Traders",
		BusinessAddress: "12 Market Road, Pune",
		BusinessGSTIN:   "27AAPFU0939F1ZV",
		BusinessPAN:     "AAPFU0939F",
		BusinessContact: "+91 98765 43210",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestCustomer creates a customer for the owner and returns it
func CreateTestCustomer(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name, code string) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		OwnerUserID: ownerID,
		Code:        code,
		Name:        name,
		FirmName:    name + " Industries",
		FirmAddress: "45 Industrial Estate, Nashik",
		Email:       "contact@example.com",
		Phone:       "+91 91234 56789",
		GSTIN:       "27AABCU9603R1ZM",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestChallan creates a challan with one item and consistent totals
func CreateTestChallan(t *testing.T, db *gorm.DB, ownerID uuid.UUID, challanNo string, date time.Time) *domain.Challan {
	t.Helper()

	challan := &domain.Challan{
		OwnerUserID:     ownerID,
		ChallanNo:       challanNo,
		Date:            date,
		FirmName:        "Test Traders",
		CustomerName:    "Walk-in Buyer",
		CustomerAddress: "8 Station Road, Mumbai",
		TaxPercentage:   decimal.NewFromInt(18),
		SubTotal:        decimal.NewFromInt(1000),
		TaxAmount:       decimal.NewFromInt(180),
		GrandTotal:      decimal.NewFromInt(1180),
		Items: []domain.ChallanItem{
			{
				Position:    1,
				Particulars: "MS Angle 40x40",
				HSNCode:     "7216",
				Quantity:    decimal.NewFromInt(10),
				Rate:        decimal.NewFromInt(100),
				Amount:      decimal.NewFromInt(1000),
			},
		},
	}
	require.NoError(t, db.Create(challan).Error)
	return challan
}
