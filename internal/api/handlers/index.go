package handlers

import (
	"net/http"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// Version of the HTTP API
const Version = "1.0.0"

// Endpoint describes one API route in the index
type Endpoint struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
	Body        map[string]string `json:"body,omitempty"`
}

// IndexHandler serves the API index and health check
type IndexHandler struct {
	algoVersion string
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(algoVersion string) *IndexHandler {
	return &IndexHandler{algoVersion: algoVersion}
}

// Health returns server health status
// GET /health
func (h *IndexHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"service":     "cohorent-api",
		"algoVersion": h.algoVersion,
	})
}

// Index describes the available endpoints and the rating system
// GET /api
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "Cohorent API",
		"version":     Version,
		"description": "Product intelligence and scoring platform API",
		"endpoints": map[string]Endpoint{
			"list": {
				Method:      http.MethodGet,
				Path:        "/api/products",
				Description: "List all products with ratings",
				QueryParams: map[string]string{
					"phase":  "Filter by phase (0, 1, or 2)",
					"status": "Filter by status label (Scale, Optimize, Test, Retire)",
					"limit":  "Limit number of results",
				},
			},
			"get": {
				Method:      http.MethodGet,
				Path:        "/api/products/{id}",
				Description: "Get detailed product information and rating",
			},
			"create": {
				Method:      http.MethodPost,
				Path:        "/api/products",
				Description: "Create a new product",
				Body: map[string]string{
					"name":            "string (required)",
					"description":     "string",
					"category":        "string (required)",
					"tags":            "string[]",
					"phase":           "number (0, 1, or 2) (required)",
					"externalSignals": "object (optional)",
					"economics":       "object (optional)",
					"performance":     "object (optional for phase 0)",
				},
			},
			"update": {
				Method:      http.MethodPut,
				Path:        "/api/products/{id}",
				Description: "Update an existing product",
			},
			"delete": {
				Method:      http.MethodDelete,
				Path:        "/api/products/{id}",
				Description: "Delete a product",
			},
			"ratingHistory": {
				Method:      http.MethodGet,
				Path:        "/api/products/{id}/rating-history",
				Description: "Get historical ratings for a product",
			},
			"portfolioSummary": {
				Method:      http.MethodGet,
				Path:        "/api/portfolio/summary",
				Description: "Get status and phase counts with average rating and confidence",
			},
			"score": {
				Method:      http.MethodPost,
				Path:        "/api/score",
				Description: "Score a product record without storing it",
			},
		},
		"ratingSystem": map[string]interface{}{
			"scale":           "300-900",
			"pillars":         []string{"Demand Velocity", "Red Ocean Pressure", "Unit Economics", "Live Performance (for live products)"},
			"confidenceIndex": "0.00-1.00",
			"statusLabels":    contracts.AllStatusLabels(),
			"algoVersion":     h.algoVersion,
		},
	})
}
