package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dispatchbook/challan-api/internal/auth"
	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/http/handler"
	"github.com/dispatchbook/challan-api/internal/repository"
	"github.com/dispatchbook/challan-api/internal/service"
	"github.com/dispatchbook/challan-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createCustomerHandler(t *testing.T, db *gorm.DB) *handler.CustomerHandler {
	t.Helper()
	logger := zap.NewNop()
	customerService := service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewCustomerSequenceRepository(db),
		logger,
	)
	return handler.NewCustomerHandler(customerService, logger)
}

func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

// TestCustomerHandler_Create tests the Create endpoint
func TestCustomerHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createCustomerHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	ctx := userContext(owner)

	t.Run("creates with an assigned code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", jsonBody(t, domain.CreateCustomerRequest{
			Name:     "Sharma Steel",
			FirmName: "Sharma Steel Industries",
			GSTIN:    "27AABCU9603R1ZM",
		})).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var customer domain.CustomerDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customer))
		assert.Equal(t, "CUST001", customer.Code)
		assert.Equal(t, "Sharma Steel", customer.Name)
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", jsonBody(t, domain.CreateCustomerRequest{
			Name:     "Sharma Steel",
			FirmName: "Sharma Steel Industries",
			GSTIN:    "27AABCU9603R1ZM",
		})).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("bad gstin fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", jsonBody(t, domain.CreateCustomerRequest{
			Name:     "Gupta Traders",
			FirmName: "Gupta Trading Co",
			GSTIN:    "12345",
		})).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "gSTIN")
	})

	t.Run("bad phone fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", jsonBody(t, domain.CreateCustomerRequest{
			Name:     "Gupta Traders",
			FirmName: "Gupta Trading Co",
			Phone:    "abc",
		})).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", jsonBody(t, domain.CreateCustomerRequest{
			FirmName: "Gupta Trading Co",
		})).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// TestCustomerHandler_GetUpdateDelete tests the id-addressed endpoints
func TestCustomerHandler_GetUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createCustomerHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	ctx := userContext(owner)

	customer := testutil.CreateTestCustomer(t, db, owner.ID, "Sharma Steel", "CUST001")

	t.Run("get returns the customer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers/"+customer.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": customer.ID.String()}))

		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.CustomerDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, customer.ID, got.ID)
	})

	t.Run("invalid id is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers/not-a-uuid", nil).
			WithContext(withChiContext(ctx, map[string]string{"id": "not-a-uuid"}))

		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/customers/"+id, nil).
			WithContext(withChiContext(ctx, map[string]string{"id": id}))

		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("another user's customer is not found", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db, "stranger@example.com")
		req := httptest.NewRequest(http.MethodGet, "/customers/"+customer.ID.String(), nil).
			WithContext(withChiContext(userContext(stranger), map[string]string{"id": customer.ID.String()}))

		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update keeps the code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/customers/"+customer.ID.String(),
			jsonBody(t, domain.UpdateCustomerRequest{
				Name:     "Sharma Steel & Alloys",
				FirmName: "Sharma Steel Industries",
			})).
			WithContext(withChiContext(ctx, map[string]string{"id": customer.ID.String()}))

		rr := httptest.NewRecorder()
		h.Update(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.CustomerDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Sharma Steel & Alloys", got.Name)
		assert.Equal(t, "CUST001", got.Code)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": customer.ID.String()}))

		rr := httptest.NewRecorder()
		h.Delete(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		req = httptest.NewRequest(http.MethodGet, "/customers/"+customer.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": customer.ID.String()}))
		rr = httptest.NewRecorder()
		h.Get(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		// Double delete is also not found
		req = httptest.NewRequest(http.MethodDelete, "/customers/"+customer.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": customer.ID.String()}))
		rr = httptest.NewRecorder()
		h.Delete(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// TestCustomerHandler_List tests the List endpoint
func TestCustomerHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createCustomerHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	stranger := testutil.CreateTestUser(t, db, "stranger@example.com")

	testutil.CreateTestCustomer(t, db, owner.ID, "Sharma Steel", "CUST001")
	testutil.CreateTestCustomer(t, db, owner.ID, "Gupta Traders", "CUST002")
	testutil.CreateTestCustomer(t, db, stranger.ID, "Verma Metals", "CUST001")

	req := httptest.NewRequest(http.MethodGet, "/customers", nil).WithContext(userContext(owner))
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var list []domain.CustomerDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}
