package domain

// EstimateSettings is a seller's pricing snapshot. Prices is keyed by
// catalog entry id (plus the extra-hour rate key); a missing key means the
// system default applies. A nil ExpressPercent means the default percent.
type EstimateSettings struct {
	SellerID       string           `json:"sellerId"`
	Prices         map[string]int64 `json:"prices"`
	ExpressPercent *float64         `json:"expressDeliverySurchargePercent,omitempty"`
	UpdatedAt      string           `json:"updatedAt,omitempty"`
}

type EstimateSelection struct {
	ServiceType      ServiceType `json:"serviceType"`
	PackageID        string      `json:"selectedPackageId"`
	FeatureIDs       []string    `json:"selectedFeatureIds"`
	CoverageHours    int         `json:"coverageHours"`
	ExpressRequested bool        `json:"expressDeliveryRequested"`
}

type LineKind string

const (
	LinePackage    LineKind = "package"
	LineFeature    LineKind = "feature"
	LineExtraHours LineKind = "extra_hours"
)

type EstimateLine struct {
	Kind      LineKind `json:"kind"`
	ItemID    string   `json:"itemId"`
	Name      string   `json:"name"`
	Qty       int      `json:"qty"`
	UnitPrice int64    `json:"unitPrice"`
	Amount    int64    `json:"amount"`
}

type EstimateResult struct {
	Lines            []EstimateLine `json:"lines"`
	Subtotal         int64          `json:"subtotal"`
	ExpressSurcharge int64          `json:"expressSurcharge"`
	Total            int64          `json:"total"`
}
