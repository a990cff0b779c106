package repository_test

import (
	"context"
	"testing"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/repository"
	"github.com/dispatchbook/challan-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestCustomerRepositoryOwnerScoping tests that every query is limited
// to the owning user
func TestCustomerRepositoryOwnerScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	stranger := testutil.CreateTestUser(t, db, "stranger@example.com")

	customer := testutil.CreateTestCustomer(t, db, owner.ID, "Sharma Steel", "CUST001")

	t.Run("owner can read", func(t *testing.T) {
		got, err := repo.GetByID(ctx, owner.ID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sharma Steel", got.Name)
		assert.Equal(t, "CUST001", got.Code)
	})

	t.Run("another user sees not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, stranger.ID, customer.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("another user cannot delete", func(t *testing.T) {
		err := repo.Delete(ctx, stranger.ID, customer.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		// Still visible to the owner
		_, err = repo.GetByID(ctx, owner.ID, customer.ID)
		assert.NoError(t, err)
	})

	t.Run("list only returns own customers", func(t *testing.T) {
		testutil.CreateTestCustomer(t, db, stranger.ID, "Gupta Traders", "CUST001")

		list, err := repo.List(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Sharma Steel", list[0].Name)
	})
}

// TestCustomerRepositoryDelete tests soft delete semantics
func TestCustomerRepositoryDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	customer := testutil.CreateTestCustomer(t, db, owner.ID, "Sharma Steel", "CUST001")

	require.NoError(t, repo.Delete(ctx, owner.ID, customer.ID))

	t.Run("deleted customer is gone", func(t *testing.T) {
		_, err := repo.GetByID(ctx, owner.ID, customer.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, owner.ID, customer.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("row survives as a soft delete", func(t *testing.T) {
		var count int64
		err := db.Unscoped().Model(&domain.Customer{}).
			Where("id = ?", customer.ID).
			Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

// TestFindDuplicate tests the duplicate identity check
func TestFindDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	existing := testutil.CreateTestCustomer(t, db, owner.ID, "Sharma Steel", "CUST001")

	t.Run("matching tuple is a duplicate", func(t *testing.T) {
		dup, err := repo.FindDuplicate(ctx, owner.ID,
			existing.Name, existing.FirmName, existing.FirmAddress, existing.Email)
		require.NoError(t, err)
		require.NotNil(t, dup)
		assert.Equal(t, existing.ID, dup.ID)
	})

	t.Run("different name is not a duplicate", func(t *testing.T) {
		dup, err := repo.FindDuplicate(ctx, owner.ID,
			"Another Name", existing.FirmName, existing.FirmAddress, existing.Email)
		require.NoError(t, err)
		assert.Nil(t, dup)
	})

	t.Run("same tuple under another owner is not a duplicate", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db, "stranger@example.com")
		dup, err := repo.FindDuplicate(ctx, stranger.ID,
			existing.Name, existing.FirmName, existing.FirmAddress, existing.Email)
		require.NoError(t, err)
		assert.Nil(t, dup)
	})
}
