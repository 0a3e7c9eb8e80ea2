package estimate

import "wedsnap/internal/domain"

const (
	MinCoverageHours      = 4
	MaxCoverageHours      = 12
	IncludedCoverageHours = 8

	DefaultExtraHourRate  int64   = 2500
	DefaultExpressPercent float64 = 20

	// MaxPrice caps a single seller-configured price, in PKR. Compute does
	// not rely on it and checks its own arithmetic.
	MaxPrice          int64   = 1_000_000_000
	MaxExpressPercent float64 = 100

	// KeyExtraHourRate is the settings price key for the per-hour rate
	// charged beyond IncludedCoverageHours.
	KeyExtraHourRate = "extra_hour_rate"
)

// Feature ids of the default catalog.
const (
	FeaturePhotoCoverage   = "photography-coverage"
	FeatureVideoCoverage   = "videography-coverage"
	FeatureDrone           = "drone-shots"
	FeatureGimbal          = "gimbal-stabilizer"
	FeatureColorCorrection = "color-correction"
	FeatureAdvancedEditing = "advanced-editing"
)

// DefaultCatalog returns a fresh copy of the system catalog. Prices are PKR.
func DefaultCatalog() domain.Catalog {
	return domain.Catalog{
		Packages: []domain.Package{
			{ID: "photo-basic", Category: domain.ServicePhotography, Tier: domain.TierBasic, Name: "Basic Photography", Description: "Single photographer, edited highlights", BasePrice: 15000},
			{ID: "photo-standard", Category: domain.ServicePhotography, Tier: domain.TierStandard, Name: "Standard Photography", Description: "Lead photographer and assistant, full edited gallery", BasePrice: 25000},
			{ID: "photo-premium", Category: domain.ServicePhotography, Tier: domain.TierPremium, Name: "Premium Photography", Description: "Two photographers, album and pre-event shoot", BasePrice: 40000},
			{ID: "video-basic", Category: domain.ServiceVideography, Tier: domain.TierBasic, Name: "Basic Videography", Description: "Single camera, highlight reel", BasePrice: 20000},
			{ID: "video-standard", Category: domain.ServiceVideography, Tier: domain.TierStandard, Name: "Standard Videography", Description: "Two cameras, highlight reel and full event film", BasePrice: 35000},
			{ID: "video-premium", Category: domain.ServiceVideography, Tier: domain.TierPremium, Name: "Premium Videography", Description: "Cinematic crew, teaser, highlight reel and documentary edit", BasePrice: 55000},
		},
		Features: []domain.Feature{
			{ID: FeaturePhotoCoverage, Name: "Photography Coverage", Description: "Additional photographer for the event", UnitPrice: 18000},
			{ID: FeatureVideoCoverage, Name: "Videography Coverage", Description: "Additional videographer for the event", UnitPrice: 25000},
			{ID: FeatureDrone, Name: "Drone Shots", Description: "Aerial footage and stills", UnitPrice: 8000},
			{ID: FeatureGimbal, Name: "Gimbal / Stabilizer", Description: "Stabilized walking shots", UnitPrice: 5000},
			{ID: FeatureColorCorrection, Name: "Basic Color Correction", Description: "Exposure and white balance pass", UnitPrice: 4000},
			{ID: FeatureAdvancedEditing, Name: "Advanced Editing Package", Description: "Color grading, retouching and sound design", UnitPrice: 7000},
		},
	}
}

// DefaultPrices flattens a catalog into the settings price table, including
// the extra-hour rate.
func DefaultPrices(cat domain.Catalog) map[string]int64 {
	out := make(map[string]int64, len(cat.Packages)+len(cat.Features)+1)
	for _, p := range cat.Packages {
		out[p.ID] = p.BasePrice
	}
	for _, f := range cat.Features {
		out[f.ID] = f.UnitPrice
	}
	out[KeyExtraHourRate] = DefaultExtraHourRate
	return out
}

// KnownKey reports whether key can be priced in settings for cat.
func KnownKey(cat domain.Catalog, key string) bool {
	if key == KeyExtraHourRate {
		return true
	}
	for _, p := range cat.Packages {
		if p.ID == key {
			return true
		}
	}
	for _, f := range cat.Features {
		if f.ID == key {
			return true
		}
	}
	return false
}
