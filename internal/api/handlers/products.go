package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/ratings"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

// ProductHandler handles product and rating API endpoints
// ⭐ SSOT: 제품 API 핸들러는 이 구조체에서만
type ProductHandler struct {
	svc    *ratings.Service
	logger *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc *ratings.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: log,
	}
}

// List returns all products with their rating summary
// GET /api/products?phase=0&status=Scale&limit=10
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter ratings.ListFilter

	if v := q.Get("phase"); v != "" {
		phase, err := contracts.ParsePhase(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid phase filter (expected 0, 1 or 2)")
			return
		}
		filter.Phase = &phase
	}

	if v := q.Get("status"); v != "" {
		if !contracts.IsValidStatusLabel(v) {
			respondError(w, http.StatusBadRequest, "Invalid status filter (expected Scale, Optimize, Test or Retire)")
			return
		}
		filter.Status = contracts.StatusLabel(v)
	}

	// 잘못된 limit 은 무시
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	products, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	respondList(w, len(products), products)
}

// Create stores a new product
// POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ratings.CreateProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.svc.Create(r.Context(), in)
	if err != nil {
		if contracts.IsValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create product")
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondData(w, http.StatusCreated, detail, "Product created successfully")
}

// Get returns a product with its full rating breakdown
// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleLookupError(w, err, id, "Failed to fetch product")
		return
	}

	respondData(w, http.StatusOK, detail, "")
}

// Update applies a partial update
// PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch contracts.ProductPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		if contracts.IsValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.handleLookupError(w, err, id, "Failed to update product")
		return
	}

	respondData(w, http.StatusOK, detail, "Product updated successfully")
}

// Delete removes a product
// DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleLookupError(w, err, id, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted successfully"})
}

// RatingHistory returns the rating trend of a product
// GET /api/products/{id}/rating-history
func (h *ProductHandler) RatingHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	history, err := h.svc.History(r.Context(), id)
	if err != nil {
		h.handleLookupError(w, err, id, "Failed to fetch rating history")
		return
	}

	respondList(w, len(history), history)
}

// PortfolioSummary returns label/phase counts and averages
// GET /api/portfolio/summary
func (h *ProductHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.PortfolioSummary(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build portfolio summary")
		respondError(w, http.StatusInternalServerError, "Failed to fetch portfolio summary")
		return
	}

	respondData(w, http.StatusOK, summary, "")
}

// Score rates an ad-hoc product record without storing it
// POST /api/score
func (h *ProductHandler) Score(w http.ResponseWriter, r *http.Request) {
	var rec contracts.ProductRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondData(w, http.StatusOK, h.svc.Score(rec), "")
}

func (h *ProductHandler) handleLookupError(w http.ResponseWriter, err error, id, message string) {
	if errors.Is(err, contracts.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.logger.WithError(err).WithField("product_id", id).Error(message)
	respondError(w, http.StatusInternalServerError, message)
}
