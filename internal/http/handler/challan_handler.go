package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dispatchbook/challan-api/internal/auth"
	"github.com/dispatchbook/challan-api/internal/domain"
	"github.com/dispatchbook/challan-api/internal/pdf"
	"github.com/dispatchbook/challan-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChallanHandler struct {
	challanService *service.ChallanService
	renderer       *pdf.Renderer
	logger         *zap.Logger
}

func NewChallanHandler(challanService *service.ChallanService, renderer *pdf.Renderer, logger *zap.Logger) *ChallanHandler {
	return &ChallanHandler{
		challanService: challanService,
		renderer:       renderer,
		logger:         logger,
	}
}

// Create creates a challan with server-computed totals
func (h *ChallanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateChallanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	challan, err := h.challanService.Create(r.Context(), userCtx.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Customer not found")
		default:
			h.logger.Error("failed to create challan", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create challan")
		}
		return
	}

	respondJSON(w, http.StatusCreated, challan)
}

// List returns the user's challans, newest first
func (h *ChallanHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	list, err := h.challanService.List(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list challans", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list challans")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// Get returns one challan by id
func (h *ChallanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challan id")
		return
	}

	challan, err := h.challanService.GetByID(r.Context(), userCtx.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Challan not found")
			return
		}
		h.logger.Error("failed to get challan", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get challan")
		return
	}

	respondJSON(w, http.StatusOK, challan)
}

// Delete soft-deletes a challan
func (h *ChallanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challan id")
		return
	}

	if err := h.challanService.Delete(r.Context(), userCtx.UserID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Challan not found")
			return
		}
		h.logger.Error("failed to delete challan", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete challan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PDF renders the challan as a printable document
func (h *ChallanHandler) PDF(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challan id")
		return
	}

	challan, err := h.challanService.GetModel(r.Context(), userCtx.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Challan not found")
			return
		}
		h.logger.Error("failed to get challan", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get challan")
		return
	}

	data, err := h.renderer.RenderChallan(challan)
	if err != nil {
		h.logger.Error("failed to render challan pdf", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to render challan")
		return
	}

	filename := strings.ReplaceAll(challan.ChallanNo, "/", "-")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="challan-%s.pdf"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
