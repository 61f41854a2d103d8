// Package demo generates a deterministic sample catalog.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// DefaultCount is the size of the sample catalog
const DefaultCount = 15

// DefaultSeed makes repeated seeding produce the same catalog
const DefaultSeed int64 = 20240601

var productNames = []string{
	"Premium Wireless Earbuds",
	"Organic Green Tea Set",
	"Ergonomic Office Chair",
	"Smart Home Hub Pro",
	"Artisan Coffee Maker",
	"Yoga Mat Ultra",
	"LED Desk Lamp",
	"Portable Power Bank",
	"Bamboo Cutting Board",
	"Memory Foam Pillow",
	"Stainless Steel Water Bottle",
	"Bluetooth Speaker Mini",
	"Leather Wallet Classic",
	"Ceramic Plant Pots",
	"Digital Kitchen Scale",
}

var categories = []string{
	"Electronics",
	"Home & Kitchen",
	"Health & Wellness",
	"Office Supplies",
	"Sports & Outdoors",
}

var tagPool = []string{
	"premium", "eco-friendly", "bestseller", "trending", "new",
	"budget", "luxury", "sustainable", "innovative", "classic",
}

// Idea 2 : EarlyLive 2 : MatureLive 3
var phaseWeights = []contracts.Phase{
	contracts.PhaseIdea, contracts.PhaseIdea,
	contracts.PhaseEarlyLive, contracts.PhaseEarlyLive,
	contracts.PhaseMatureLive, contracts.PhaseMatureLive, contracts.PhaseMatureLive,
}

// Generator builds sample products from a seeded source
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a generator. 같은 seed + now 는 같은 카탈로그를 만든다.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: now.UTC(),
	}
}

// Products generates count products with ids prod_000, prod_001, ...
func (g *Generator) Products(count int) []*contracts.Product {
	out := make([]*contracts.Product, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.product(i))
	}
	return out
}

func (g *Generator) product(index int) *contracts.Product {
	phase := phaseWeights[g.rng.Intn(len(phaseWeights))]

	tags := make([]string, g.intBetween(1, 3))
	for i := range tags {
		tags[i] = pick(g.rng, tagPool)
	}

	p := &contracts.Product{
		ID:          fmt.Sprintf("prod_%03d", index),
		Name:        productNames[index%len(productNames)],
		Description: "A high-quality product designed for modern consumers.",
		Category:    pick(g.rng, categories),
		Tags:        tags,
		Phase:       phase,
		ExternalSignals: &contracts.ExternalSignals{
			SearchVolume:             g.intPtr(1000, 50000),
			SearchTrendSlope:         g.floatPtr(-0.5, 0.8),
			KeywordIntentRatio:       g.floatPtr(0.2, 0.9),
			SocialEngagementVelocity: g.intPtr(100, 5000),
			CompetitorReviewDepth:    g.intPtr(50, 2000),
			CPCEstimate:              g.floatPtr(0.5, 5.0),
			SellerSaturation:         g.intPtr(10, 150),
		},
		Economics: &contracts.Economics{
			GrossMarginPercent: g.floatPtr(15, 70),
			COGS:               g.floatPtr(5, 50),
			LandedCost:         g.floatPtr(8, 60),
			ReturnRate:         g.floatPtr(2, 25),
		},
		CreatedAt: g.now.Add(-time.Duration(g.intBetween(1, 90)) * 24 * time.Hour),
		UpdatedAt: g.now,
	}

	if phase.IsLive() {
		p.Performance = &contracts.Performance{
			UnitsSold:          g.intPtr(10, 500),
			Sessions:           g.intPtr(100, 10000),
			ConversionRate:     g.floatPtr(1, 8),
			RepeatPurchaseRate: g.floatPtr(5, 40),
			DiscountDependency: g.floatPtr(10, 60),
		}
	}
	return p
}

// intBetween returns an int in [lo, hi]
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// floatBetween returns a float in [lo, hi)
func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) intPtr(lo, hi int) *float64 {
	v := float64(g.intBetween(lo, hi))
	return &v
}

func (g *Generator) floatPtr(lo, hi float64) *float64 {
	v := g.floatBetween(lo, hi)
	return &v
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
