package estimate_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
)

func pct(v float64) *float64 { return &v }

func photoStandard() domain.EstimateSelection {
	return domain.EstimateSelection{
		ServiceType:   domain.ServicePhotography,
		PackageID:     "photo-standard",
		CoverageHours: 8,
	}
}

func TestCompute_Scenarios(t *testing.T) {
	cat := estimate.DefaultCatalog()
	settings := domain.EstimateSettings{}

	cases := []struct {
		name    string
		mutate  func(*domain.EstimateSelection)
		sub     int64
		express int64
		total   int64
	}{
		{"standard photography", func(*domain.EstimateSelection) {}, 25000, 0, 25000},
		{"two extra hours", func(s *domain.EstimateSelection) { s.CoverageHours = 10 }, 30000, 0, 30000},
		{"drone add-on", func(s *domain.EstimateSelection) { s.FeatureIDs = []string{estimate.FeatureDrone} }, 33000, 0, 33000},
		{"drone with express", func(s *domain.EstimateSelection) {
			s.FeatureIDs = []string{estimate.FeatureDrone}
			s.ExpressRequested = true
		}, 33000, 6600, 39600},
		{"both services", func(s *domain.EstimateSelection) {
			s.ServiceType = domain.ServiceBoth
			s.PackageID = "photo-premium"
		}, 60000, 0, 60000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := photoStandard()
			tc.mutate(&sel)
			res, err := estimate.Compute(cat, settings, sel)
			require.NoError(t, err)
			assert.Equal(t, tc.sub, res.Subtotal)
			assert.Equal(t, tc.express, res.ExpressSurcharge)
			assert.Equal(t, tc.total, res.Total)
			assert.Equal(t, res.Subtotal+res.ExpressSurcharge, res.Total)
		})
	}
}

func TestCompute_BothIgnoresPackageChoice(t *testing.T) {
	cat := estimate.DefaultCatalog()
	a, err := estimate.Compute(cat, domain.EstimateSettings{}, domain.EstimateSelection{ServiceType: domain.ServiceBoth, PackageID: "video-basic", CoverageHours: 8})
	require.NoError(t, err)
	b, err := estimate.Compute(cat, domain.EstimateSettings{}, domain.EstimateSelection{ServiceType: domain.ServiceBoth, CoverageHours: 8})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a.Lines, 2)
	assert.Equal(t, "photo-standard", a.Lines[0].ItemID)
	assert.Equal(t, "video-standard", a.Lines[1].ItemID)
}

func TestCompute_CoverageBounds(t *testing.T) {
	cat := estimate.DefaultCatalog()
	for _, h := range []int{4, 8, 12} {
		sel := photoStandard()
		sel.CoverageHours = h
		_, err := estimate.Compute(cat, domain.EstimateSettings{}, sel)
		assert.NoError(t, err, "hours=%d", h)
	}
	for _, h := range []int{-1, 0, 3, 13} {
		sel := photoStandard()
		sel.CoverageHours = h
		_, err := estimate.Compute(cat, domain.EstimateSettings{}, sel)
		assert.ErrorIs(t, err, estimate.ErrInvalidSelection, "hours=%d", h)
	}
}

func TestCompute_NoExtraChargeUpToIncludedHours(t *testing.T) {
	cat := estimate.DefaultCatalog()
	for h := estimate.MinCoverageHours; h <= estimate.IncludedCoverageHours; h++ {
		sel := photoStandard()
		sel.CoverageHours = h
		res, err := estimate.Compute(cat, domain.EstimateSettings{}, sel)
		require.NoError(t, err)
		assert.Equal(t, int64(25000), res.Subtotal, "hours=%d", h)
	}
}

func TestCompute_InvalidPackage(t *testing.T) {
	cat := estimate.DefaultCatalog()

	sel := photoStandard()
	sel.PackageID = "nope"
	_, err := estimate.Compute(cat, domain.EstimateSettings{}, sel)
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)

	// package exists but in the other category
	sel = photoStandard()
	sel.PackageID = "video-standard"
	_, err = estimate.Compute(cat, domain.EstimateSettings{}, sel)
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)

	sel = photoStandard()
	sel.ServiceType = "drone"
	_, err = estimate.Compute(cat, domain.EstimateSettings{}, sel)
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
}

func TestCompute_BothNeedsStandardTiers(t *testing.T) {
	cat := estimate.DefaultCatalog()
	var trimmed domain.Catalog
	trimmed.Features = cat.Features
	for _, p := range cat.Packages {
		if p.ID != "video-standard" {
			trimmed.Packages = append(trimmed.Packages, p)
		}
	}
	_, err := estimate.Compute(trimmed, domain.EstimateSettings{}, domain.EstimateSelection{ServiceType: domain.ServiceBoth, CoverageHours: 8})
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
}

func TestCompute_UnknownFeaturesIgnored(t *testing.T) {
	sel := photoStandard()
	sel.FeatureIDs = []string{"teleporter", estimate.FeatureGimbal, estimate.FeatureGimbal}
	res, err := estimate.Compute(estimate.DefaultCatalog(), domain.EstimateSettings{}, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), res.Subtotal)
	assert.Len(t, res.Lines, 2)
}

func TestCompute_SettingsOverrides(t *testing.T) {
	settings := domain.EstimateSettings{
		Prices: map[string]int64{
			"photo-standard":          30000,
			estimate.FeatureDrone:     10000,
			estimate.KeyExtraHourRate: 3000,
		},
		ExpressPercent: pct(10),
	}
	sel := photoStandard()
	sel.FeatureIDs = []string{estimate.FeatureDrone, estimate.FeatureColorCorrection}
	sel.CoverageHours = 9
	sel.ExpressRequested = true

	res, err := estimate.Compute(estimate.DefaultCatalog(), settings, sel)
	require.NoError(t, err)
	// 30000 + 10000 + 4000 (default) + 3000
	assert.Equal(t, int64(47000), res.Subtotal)
	assert.Equal(t, int64(4700), res.ExpressSurcharge)
	assert.Equal(t, int64(51700), res.Total)

	last := res.Lines[len(res.Lines)-1]
	assert.Equal(t, domain.LineExtraHours, last.Kind)
	assert.Equal(t, 1, last.Qty)
	assert.Equal(t, int64(3000), last.Amount)
}

func TestCompute_RoundsHalfUp(t *testing.T) {
	settings := domain.EstimateSettings{
		Prices:         map[string]int64{"photo-standard": 25001},
		ExpressPercent: pct(50),
	}
	sel := photoStandard()
	sel.ExpressRequested = true
	res, err := estimate.Compute(estimate.DefaultCatalog(), settings, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(12501), res.ExpressSurcharge)

	settings.ExpressPercent = pct(12.5)
	settings.Prices["photo-standard"] = 25004
	res, err = estimate.Compute(estimate.DefaultCatalog(), settings, sel)
	require.NoError(t, err)
	// 3125.5 rounds up
	assert.Equal(t, int64(3126), res.ExpressSurcharge)
	assert.Equal(t, int64(28130), res.Total)
}

func TestCompute_NoExpressNoSurcharge(t *testing.T) {
	settings := domain.EstimateSettings{ExpressPercent: pct(99)}
	res, err := estimate.Compute(estimate.DefaultCatalog(), settings, photoStandard())
	require.NoError(t, err)
	assert.Zero(t, res.ExpressSurcharge)
}

func TestCompute_NegativeConfigRejected(t *testing.T) {
	cat := estimate.DefaultCatalog()

	_, err := estimate.Compute(cat, domain.EstimateSettings{Prices: map[string]int64{estimate.FeatureDrone: -1}}, photoStandard())
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)

	_, err = estimate.Compute(cat, domain.EstimateSettings{ExpressPercent: pct(-5)}, photoStandard())
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)

	cat.Features[0].UnitPrice = -10
	_, err = estimate.Compute(cat, domain.EstimateSettings{}, photoStandard())
	assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
}

func TestCompute_ExpressPercentBounded(t *testing.T) {
	sel := photoStandard()
	sel.ExpressRequested = true
	for _, p := range []float64{100.01, 1e300, math.Inf(1), math.NaN()} {
		_, err := estimate.Compute(estimate.DefaultCatalog(), domain.EstimateSettings{ExpressPercent: pct(p)}, sel)
		assert.ErrorIs(t, err, estimate.ErrInvalidSelection, "pct=%v", p)
	}

	res, err := estimate.Compute(estimate.DefaultCatalog(), domain.EstimateSettings{ExpressPercent: pct(100)}, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), res.Total)
}

func TestCompute_OverflowRejected(t *testing.T) {
	cat := estimate.DefaultCatalog()

	t.Run("subtotal", func(t *testing.T) {
		sel := photoStandard()
		sel.FeatureIDs = []string{estimate.FeatureDrone}
		settings := domain.EstimateSettings{Prices: map[string]int64{"photo-standard": math.MaxInt64 - 1000}}
		_, err := estimate.Compute(cat, settings, sel)
		assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
	})

	t.Run("extra hours", func(t *testing.T) {
		sel := photoStandard()
		sel.CoverageHours = 12
		settings := domain.EstimateSettings{Prices: map[string]int64{estimate.KeyExtraHourRate: math.MaxInt64 / 2}}
		_, err := estimate.Compute(cat, settings, sel)
		assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
	})

	t.Run("express surcharge", func(t *testing.T) {
		sel := photoStandard()
		sel.ExpressRequested = true
		settings := domain.EstimateSettings{
			Prices:         map[string]int64{"photo-standard": 1_000_000_000_000_000},
			ExpressPercent: pct(100),
		}
		_, err := estimate.Compute(cat, settings, sel)
		assert.ErrorIs(t, err, estimate.ErrInvalidSelection)
	})

	t.Run("total", func(t *testing.T) {
		// subtotal fits and the surcharge is zero, so only the sum is checked
		sel := photoStandard()
		sel.ExpressRequested = true
		settings := domain.EstimateSettings{
			Prices:         map[string]int64{"photo-standard": math.MaxInt64},
			ExpressPercent: pct(0),
		}
		res, err := estimate.Compute(cat, settings, sel)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), res.Total)
	})
}

func TestCompute_LargestSettablePricesFit(t *testing.T) {
	cat := estimate.DefaultCatalog()
	prices := make(map[string]int64)
	for k := range estimate.DefaultPrices(cat) {
		prices[k] = estimate.MaxPrice
	}
	sel := domain.EstimateSelection{
		ServiceType: domain.ServiceBoth,
		FeatureIDs: []string{
			estimate.FeaturePhotoCoverage, estimate.FeatureVideoCoverage, estimate.FeatureDrone,
			estimate.FeatureGimbal, estimate.FeatureColorCorrection, estimate.FeatureAdvancedEditing,
		},
		CoverageHours:    estimate.MaxCoverageHours,
		ExpressRequested: true,
	}
	res, err := estimate.Compute(cat, domain.EstimateSettings{Prices: prices, ExpressPercent: pct(estimate.MaxExpressPercent)}, sel)
	require.NoError(t, err)
	// 2 packages + 6 features + 4 extra hours
	assert.Equal(t, 12*estimate.MaxPrice, res.Subtotal)
	assert.Equal(t, res.Subtotal, res.ExpressSurcharge)
	assert.Equal(t, 2*res.Subtotal, res.Total)
}

func TestCompute_DeterministicAndConcurrent(t *testing.T) {
	cat := estimate.DefaultCatalog()
	settings := domain.EstimateSettings{Prices: estimate.DefaultPrices(cat), ExpressPercent: pct(20)}
	sel := domain.EstimateSelection{
		ServiceType:      domain.ServiceVideography,
		PackageID:        "video-premium",
		FeatureIDs:       []string{estimate.FeatureAdvancedEditing, estimate.FeatureDrone},
		CoverageHours:    12,
		ExpressRequested: true,
	}
	want, err := estimate.Compute(cat, settings, sel)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.EstimateResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = estimate.Compute(cat, settings, sel)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
	// inputs are not mutated
	assert.Equal(t, []string{estimate.FeatureAdvancedEditing, estimate.FeatureDrone}, sel.FeatureIDs)
	assert.Equal(t, estimate.DefaultPrices(estimate.DefaultCatalog()), settings.Prices)
}

func TestDefaultPricesAndKnownKey(t *testing.T) {
	cat := estimate.DefaultCatalog()
	prices := estimate.DefaultPrices(cat)
	assert.Equal(t, int64(18000), prices[estimate.FeaturePhotoCoverage])
	assert.Equal(t, int64(25000), prices[estimate.FeatureVideoCoverage])
	assert.Equal(t, int64(8000), prices[estimate.FeatureDrone])
	assert.Equal(t, int64(5000), prices[estimate.FeatureGimbal])
	assert.Equal(t, int64(4000), prices[estimate.FeatureColorCorrection])
	assert.Equal(t, int64(7000), prices[estimate.FeatureAdvancedEditing])
	assert.Equal(t, int64(2500), prices[estimate.KeyExtraHourRate])

	assert.True(t, estimate.KnownKey(cat, "photo-basic"))
	assert.True(t, estimate.KnownKey(cat, estimate.KeyExtraHourRate))
	assert.False(t, estimate.KnownKey(cat, "express"))
}
