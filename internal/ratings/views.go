package ratings

import (
	"strings"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// PillarSummary holds pillar scores only
type PillarSummary struct {
	DemandVelocity   int  `json:"demandVelocity"`
	RedOceanPressure int  `json:"redOceanPressure"`
	UnitEconomics    int  `json:"unitEconomics"`
	LivePerformance  *int `json:"livePerformance,omitempty"`
}

// RatingSummary is the compact rating shown in lists and history
type RatingSummary struct {
	Rating          int                   `json:"rating"`
	ConfidenceIndex float64               `json:"confidenceIndex"`
	StatusLabel     contracts.StatusLabel `json:"statusLabel"`
	AlgoVersion     string                `json:"algoVersion"`
	Timestamp       time.Time             `json:"timestamp"`
	Pillars         PillarSummary         `json:"pillars"`
}

// ProductSummary is one list entry
type ProductSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Phase       contracts.Phase `json:"phase"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Rating      RatingSummary   `json:"rating"`
}

// ProductDetail is a product with its raw bundles and full rating breakdown
type ProductDetail struct {
	*contracts.Product
	Rating contracts.RatingSnapshot `json:"rating"`
}

func summarize(snap contracts.RatingSnapshot) RatingSummary {
	rs := RatingSummary{
		Rating:          snap.Rating,
		ConfidenceIndex: snap.ConfidenceIndex,
		StatusLabel:     snap.StatusLabel,
		AlgoVersion:     snap.AlgoVersion,
		Timestamp:       snap.Timestamp,
		Pillars: PillarSummary{
			DemandVelocity:   snap.DemandVelocity.Score,
			RedOceanPressure: snap.RedOceanPressure.Score,
			UnitEconomics:    snap.UnitEconomics.Score,
		},
	}
	if snap.LivePerformance != nil {
		lp := snap.LivePerformance.Score
		rs.Pillars.LivePerformance = &lp
	}
	return rs
}

func newProductSummary(p *contracts.Product, snap contracts.RatingSnapshot) ProductSummary {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Tags:        tags,
		Phase:       p.Phase,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Rating:      summarize(snap),
	}
}

// CreateProductInput is the body of a create request.
// Phase is a pointer so that a missing phase is distinguishable from Idea (0).
type CreateProductInput struct {
	Name            string                     `json:"name"`
	Description     string                     `json:"description"`
	Category        string                     `json:"category"`
	Tags            []string                   `json:"tags"`
	Phase           *contracts.Phase           `json:"phase"`
	ExternalSignals *contracts.ExternalSignals `json:"externalSignals,omitempty"`
	Economics       *contracts.Economics       `json:"economics,omitempty"`
	Performance     *contracts.Performance     `json:"performance,omitempty"`
}

// Validate checks required fields
func (in *CreateProductInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if in.Phase == nil {
		missing = append(missing, "phase")
	}
	if len(missing) > 0 {
		return contracts.NewValidationError("", "missing required fields: "+strings.Join(missing, ", "))
	}
	if !in.Phase.Valid() {
		return contracts.NewValidationError("phase", "must be 0, 1 or 2")
	}
	return nil
}

func validateRequired(name, category string) error {
	if strings.TrimSpace(name) == "" {
		return contracts.NewValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(category) == "" {
		return contracts.NewValidationError("category", "must not be empty")
	}
	return nil
}
