package contracts

import "time"

// ExternalSignals holds market-side demand and competition signals.
// nil 포인터 = 미입력 (0 과 구분됨, coverage 계산의 기준)
type ExternalSignals struct {
	SearchVolume             *float64 `json:"searchVolume,omitempty"`
	SearchTrendSlope         *float64 `json:"searchTrendSlope,omitempty"`   // -1 ~ 1
	KeywordIntentRatio       *float64 `json:"keywordIntentRatio,omitempty"` // 0 ~ 1
	SocialEngagementVelocity *float64 `json:"socialEngagementVelocity,omitempty"`
	CompetitorReviewDepth    *float64 `json:"competitorReviewDepth,omitempty"`
	CPCEstimate              *float64 `json:"cpcEstimate,omitempty"`
	SellerSaturation         *float64 `json:"sellerSaturation,omitempty"`
}

// Economics holds per-unit economics
type Economics struct {
	GrossMarginPercent *float64 `json:"grossMarginPercent,omitempty"` // 0 ~ 100
	COGS               *float64 `json:"cogs,omitempty"`
	LandedCost         *float64 `json:"landedCost,omitempty"`
	ReturnRate         *float64 `json:"returnRate,omitempty"`         // 0 ~ 100
	CategoryReturnRate *float64 `json:"categoryReturnRate,omitempty"` // returnRate 없을 때 대체
}

// Performance is a live sales snapshot, meaningful only for live phases
type Performance struct {
	UnitsSold          *float64 `json:"unitsSold,omitempty"`
	Sessions           *float64 `json:"sessions,omitempty"`
	ConversionRate     *float64 `json:"conversionRate,omitempty"`     // 0 ~ 100
	RepeatPurchaseRate *float64 `json:"repeatPurchaseRate,omitempty"` // 0 ~ 100
	DiscountDependency *float64 `json:"discountDependency,omitempty"` // 0 ~ 100
}

// ProductRecord is the scoring input
// ⭐ SSOT: 스코어링 엔진 입력은 이 타입만 사용
type ProductRecord struct {
	Phase           Phase            `json:"phase"`
	ExternalSignals *ExternalSignals `json:"externalSignals,omitempty"`
	Economics       *Economics       `json:"economics,omitempty"`
	Performance     *Performance     `json:"performance,omitempty"`
}

// Product is a catalog entry
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Category        string           `json:"category"`
	Tags            []string         `json:"tags"`
	Phase           Phase            `json:"phase"`
	ExternalSignals *ExternalSignals `json:"externalSignals,omitempty"`
	Economics       *Economics       `json:"economics,omitempty"`
	Performance     *Performance     `json:"performance,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Record extracts the scoring input of the product
func (p *Product) Record() ProductRecord {
	return ProductRecord{
		Phase:           p.Phase,
		ExternalSignals: p.ExternalSignals,
		Economics:       p.Economics,
		Performance:     p.Performance,
	}
}

// Clone returns a deep copy so stores never share bundles with callers
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.ExternalSignals != nil {
		es := *p.ExternalSignals
		c.ExternalSignals = &es
	}
	if p.Economics != nil {
		ec := *p.Economics
		c.Economics = &ec
	}
	if p.Performance != nil {
		perf := *p.Performance
		c.Performance = &perf
	}
	return &c
}

// ProductPatch is a partial update. nil fields are left untouched,
// metric bundles are merged field by field.
type ProductPatch struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Phase           *Phase           `json:"phase,omitempty"`
	ExternalSignals *ExternalSignals `json:"externalSignals,omitempty"`
	Economics       *Economics       `json:"economics,omitempty"`
	Performance     *Performance     `json:"performance,omitempty"`
}

// Apply merges the patch into p
func (patch *ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.Phase != nil {
		p.Phase = *patch.Phase
	}
	if patch.ExternalSignals != nil {
		if p.ExternalSignals == nil {
			p.ExternalSignals = &ExternalSignals{}
		}
		dst, src := p.ExternalSignals, patch.ExternalSignals
		mergeField(&dst.SearchVolume, src.SearchVolume)
		mergeField(&dst.SearchTrendSlope, src.SearchTrendSlope)
		mergeField(&dst.KeywordIntentRatio, src.KeywordIntentRatio)
		mergeField(&dst.SocialEngagementVelocity, src.SocialEngagementVelocity)
		mergeField(&dst.CompetitorReviewDepth, src.CompetitorReviewDepth)
		mergeField(&dst.CPCEstimate, src.CPCEstimate)
		mergeField(&dst.SellerSaturation, src.SellerSaturation)
	}
	if patch.Economics != nil {
		if p.Economics == nil {
			p.Economics = &Economics{}
		}
		dst, src := p.Economics, patch.Economics
		mergeField(&dst.GrossMarginPercent, src.GrossMarginPercent)
		mergeField(&dst.COGS, src.COGS)
		mergeField(&dst.LandedCost, src.LandedCost)
		mergeField(&dst.ReturnRate, src.ReturnRate)
		mergeField(&dst.CategoryReturnRate, src.CategoryReturnRate)
	}
	if patch.Performance != nil {
		if p.Performance == nil {
			p.Performance = &Performance{}
		}
		dst, src := p.Performance, patch.Performance
		mergeField(&dst.UnitsSold, src.UnitsSold)
		mergeField(&dst.Sessions, src.Sessions)
		mergeField(&dst.ConversionRate, src.ConversionRate)
		mergeField(&dst.RepeatPurchaseRate, src.RepeatPurchaseRate)
		mergeField(&dst.DiscountDependency, src.DiscountDependency)
	}
}

func mergeField(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Ptr returns a pointer to v (optional metric literals)
func Ptr[T any](v T) *T {
	return &v
}
