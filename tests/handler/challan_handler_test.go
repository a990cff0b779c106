package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/http/handler"
	"github.com/dispatchbook/challan-api/internal/pdf"
	"github.com/dispatchbook/challan-api/internal/repository"
	"github.com/dispatchbook/challan-api/internal/service"
	"github.com/dispatchbook/challan-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createChallanHandler(t *testing.T, db *gorm.DB) *handler.ChallanHandler {
	t.Helper()
	logger := zap.NewNop()
	challanService := service.NewChallanService(
		repository.NewChallanRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewUserRepository(db),
		logger,
	)
	return handler.NewChallanHandler(challanService, pdf.NewRenderer(), logger)
}

func challanRequestBody() domain.CreateChallanRequest {
	return domain.CreateChallanRequest{
		ChallanNo: "DC/2026/042",
		Date:      "2026-08-20",
		Customer: domain.ChallanCustomerRef{
			Name:    "Walk-in Buyer",
			Address: "8 Station Road, Mumbai",
		},
		Items: []domain.ChallanItemRequest{
			{Particulars: "MS Plate 5mm", HSNCode: "7208", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(2500)},
			{Particulars: "MS Channel 75", HSNCode: "7216", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(1200)},
		},
		TaxPercentage: decimal.NewFromInt(18),
	}
}

// TestChallanHandler_Create tests the Create endpoint
func TestChallanHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createChallanHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	ctx := userContext(owner)

	t.Run("creates with computed totals", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, challanRequestBody())).
			WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

		var created domain.ChallanDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "DC/2026/042", created.ChallanNo)
		assert.True(t, created.SubTotal.Equal(decimal.NewFromInt(8600)))
		assert.True(t, created.TaxAmount.Equal(decimal.NewFromInt(1548)))
		assert.True(t, created.GrandTotal.Equal(decimal.NewFromInt(10148)))
		require.Len(t, created.Items, 2)
	})

	t.Run("missing items fails validation", func(t *testing.T) {
		body := challanRequestBody()
		body.Items = nil
		req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, body)).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad date format fails validation", func(t *testing.T) {
		body := challanRequestBody()
		body.Date = "20/08/2026"
		req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, body)).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("zero quantity is a bad request", func(t *testing.T) {
		body := challanRequestBody()
		body.Items[0].Quantity = decimal.Zero
		req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, body)).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown customer reference is not found", func(t *testing.T) {
		unknown := uuid.New()
		body := challanRequestBody()
		body.Customer = domain.ChallanCustomerRef{CustomerID: &unknown}
		req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, body)).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("client-sent totals are ignored", func(t *testing.T) {
		// Send extra total fields in the raw body; the server recomputes
		raw := `{
			"challanNo": "DC/2026/050",
			"date": "2026-08-22",
			"customer": {"name": "Walk-in Buyer", "address": "8 Station Road, Mumbai"},
			"items": [{"particulars": "Binding Wire", "quantity": "1", "rate": "100"}],
			"taxPercentage": "0",
			"subTotal": "999999",
			"grandTotal": "999999"
		}`
		req := httptest.NewRequest(http.MethodPost, "/challans", strings.NewReader(raw)).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

		var created domain.ChallanDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.True(t, created.SubTotal.Equal(decimal.NewFromInt(100)))
		assert.True(t, created.GrandTotal.Equal(decimal.NewFromInt(100)))
	})
}

// TestChallanHandler_GetListDelete tests read and delete endpoints
func TestChallanHandler_GetListDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createChallanHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	ctx := userContext(owner)

	// Create through the handler so the fixture matches production shape
	req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, challanRequestBody())).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.ChallanDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	t.Run("get returns the challan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/challans/"+created.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": created.ID.String()}))

		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.ChallanDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Walk-in Buyer", got.Customer.Name)
	})

	t.Run("list returns the challan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/challans", nil).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var list domain.ChallanListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Len(t, list.Challans, 1)
		assert.Equal(t, 1, list.Total)
	})

	t.Run("another user sees nothing", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db, "stranger@example.com")
		strangerCtx := userContext(stranger)

		req := httptest.NewRequest(http.MethodGet, "/challans/"+created.ID.String(), nil).
			WithContext(withChiContext(strangerCtx, map[string]string{"id": created.ID.String()}))
		rr := httptest.NewRecorder()
		h.Get(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		req = httptest.NewRequest(http.MethodGet, "/challans", nil).WithContext(strangerCtx)
		rr = httptest.NewRecorder()
		h.List(rr, req)

		var list domain.ChallanListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Empty(t, list.Challans)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/challans/"+created.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": created.ID.String()}))
		rr := httptest.NewRecorder()
		h.Delete(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		req = httptest.NewRequest(http.MethodGet, "/challans/"+created.ID.String(), nil).
			WithContext(withChiContext(ctx, map[string]string{"id": created.ID.String()}))
		rr = httptest.NewRecorder()
		h.Get(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// TestChallanHandler_PDF tests the rendered document endpoint
func TestChallanHandler_PDF(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createChallanHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "owner@example.com")
	ctx := userContext(owner)

	req := httptest.NewRequest(http.MethodPost, "/challans", jsonBody(t, challanRequestBody())).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.ChallanDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	t.Run("renders a pdf document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/challans/"+created.ID.String()+"/pdf", nil).
			WithContext(withChiContext(ctx, map[string]string{"id": created.ID.String()}))

		rr := httptest.NewRecorder()
		h.PDF(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		// Slashes in the challan number must not break the filename
		assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="challan-DC-2026-042.pdf"`)
		assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"), "body does not look like a PDF")
	})

	t.Run("unknown challan is not found", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/challans/"+id+"/pdf", nil).
			WithContext(withChiContext(ctx, map[string]string{"id": id}))

		rr := httptest.NewRecorder()
		h.PDF(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
