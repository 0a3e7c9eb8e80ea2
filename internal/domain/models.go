package domain

type ServiceType string

const (
	ServicePhotography ServiceType = "photography"
	ServiceVideography ServiceType = "videography"
	ServiceBoth        ServiceType = "both"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServicePhotography, ServiceVideography, ServiceBoth:
		return true
	}
	return false
}

type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Package is a priced bundle of coverage for one category.
type Package struct {
	ID          string      `db:"id" json:"id"`
	Category    ServiceType `db:"category" json:"category"`
	Tier        Tier        `db:"tier" json:"tier"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	BasePrice   int64       `db:"unit_price" json:"basePrice"`
}

// Feature is an optional add-on charged once per estimate.
type Feature struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	UnitPrice   int64  `db:"unit_price" json:"unitPrice"`
}

type Catalog struct {
	Packages []Package `json:"packages"`
	Features []Feature `json:"features"`
}

// PackagesFor returns the packages of one category in catalog order.
func (c Catalog) PackagesFor(cat ServiceType) []Package {
	var out []Package
	for _, p := range c.Packages {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

type Gig struct {
	ID            string      `db:"id" json:"id"`
	SellerID      string      `db:"seller_id" json:"sellerId"`
	SellerName    string      `db:"seller_name" json:"sellerName"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description"`
	ServiceType   ServiceType `db:"service_type" json:"serviceType"`
	City          string      `db:"city" json:"city"`
	StartingPrice int64       `db:"starting_price" json:"startingPrice"`
	Active        bool        `db:"active" json:"active"`
	CreatedAt     string      `db:"created_at" json:"createdAt"`
	UpdatedAt     string      `db:"updated_at" json:"updatedAt,omitempty"`
}
