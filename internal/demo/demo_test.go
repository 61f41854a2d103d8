package demo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cohorent/backend/internal/catalog"
	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/internal/scoring"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

var now = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func inRange(t *testing.T, name string, v *float64, lo, hi float64) {
	t.Helper()
	require.NotNil(t, v, name)
	assert.GreaterOrEqual(t, *v, lo, name)
	assert.LessOrEqual(t, *v, hi, name)
}

func TestGenerator_Products(t *testing.T) {
	products := NewGenerator(DefaultSeed, now).Products(DefaultCount)
	require.Len(t, products, DefaultCount)

	for i, p := range products {
		assert.Equal(t, productNames[i%len(productNames)], p.Name)
		assert.True(t, p.Phase.Valid())
		assert.Contains(t, categories, p.Category)
		assert.NotEmpty(t, p.Tags)
		assert.LessOrEqual(t, len(p.Tags), 3)
		assert.Equal(t, now, p.UpdatedAt)
		assert.True(t, p.CreatedAt.Before(now))

		es := p.ExternalSignals
		inRange(t, "searchVolume", es.SearchVolume, 1000, 50000)
		inRange(t, "searchTrendSlope", es.SearchTrendSlope, -0.5, 0.8)
		inRange(t, "keywordIntentRatio", es.KeywordIntentRatio, 0.2, 0.9)
		inRange(t, "cpcEstimate", es.CPCEstimate, 0.5, 5)
		inRange(t, "sellerSaturation", es.SellerSaturation, 10, 150)
		inRange(t, "grossMarginPercent", p.Economics.GrossMarginPercent, 15, 70)
		inRange(t, "returnRate", p.Economics.ReturnRate, 2, 25)

		if p.Phase.IsLive() {
			require.NotNil(t, p.Performance)
			inRange(t, "unitsSold", p.Performance.UnitsSold, 10, 500)
			inRange(t, "conversionRate", p.Performance.ConversionRate, 1, 8)
		} else {
			assert.Nil(t, p.Performance)
		}
	}

	assert.Equal(t, "prod_000", products[0].ID)
	assert.Equal(t, "prod_014", products[14].ID)
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(42, now).Products(5)
	b := NewGenerator(42, now).Products(5)
	assert.Equal(t, a, b)

	c := NewGenerator(43, now).Products(5)
	assert.NotEqual(t, a, c)
}

func TestSeed_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMemoryRepository()
	products := NewGenerator(DefaultSeed, now).Products(4)

	created, err := Seed(ctx, repo, products, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	created, err = Seed(ctx, repo, NewGenerator(DefaultSeed, now).Products(6), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "demo.db"), nil)
	require.NoError(t, err)
	defer rec.Close()

	gen := NewGenerator(DefaultSeed, now)
	products := gen.Products(DefaultCount)

	recorded, err := gen.Backfill(ctx, rec, scoring.NewEngine(nil), products)
	require.NoError(t, err)

	total := 0
	for _, p := range products {
		entries, err := rec.History(ctx, p.ID, 0)
		require.NoError(t, err)

		if p.Phase != contracts.PhaseMatureLive {
			assert.Empty(t, entries)
			continue
		}
		assert.GreaterOrEqual(t, len(entries), 3)
		assert.LessOrEqual(t, len(entries), 7)
		for _, e := range entries {
			assert.GreaterOrEqual(t, e.Rating, 300)
			assert.LessOrEqual(t, e.Rating, 900)
			assert.GreaterOrEqual(t, e.ConfidenceIndex, 0.3)
			assert.True(t, e.Timestamp.Before(now))
		}
		total += len(entries)
	}
	assert.Equal(t, recorded, total)
}
