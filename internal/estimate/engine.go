// Package estimate prices a buyer's package selection against a seller's
// settings. Everything here is pure: no I/O and no shared state, so
// Compute is safe to call concurrently.
package estimate

import (
	"errors"
	"fmt"
	"math"

	"wedsnap/internal/domain"
)

// ErrInvalidSelection is the only error Compute returns. Callers match it
// with errors.Is; the wrapped message names the offending input.
var ErrInvalidSelection = errors.New("invalid selection")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSelection, fmt.Sprintf(format, args...))
}

// Compute turns a selection into a priced breakdown.
//
// Steps run in a fixed order: base package, features, extra hours, then the
// express surcharge on the resulting subtotal. Unknown feature ids are
// skipped and duplicates count once. With ServiceBoth the standard tier of
// each category is charged and PackageID is ignored. CoverageHours has no
// default here; callers fill in IncludedCoverageHours themselves.
func Compute(cat domain.Catalog, settings domain.EstimateSettings, sel domain.EstimateSelection) (domain.EstimateResult, error) {
	if err := checkPrices(cat, settings); err != nil {
		return domain.EstimateResult{}, err
	}

	hours := sel.CoverageHours
	if hours < MinCoverageHours || hours > MaxCoverageHours {
		return domain.EstimateResult{}, invalid("coverage hours %d outside [%d,%d]", hours, MinCoverageHours, MaxCoverageHours)
	}

	var res domain.EstimateResult

	pkgs, err := basePackages(cat, sel)
	if err != nil {
		return domain.EstimateResult{}, err
	}
	for _, p := range pkgs {
		price := PriceOf(settings, p.ID, p.BasePrice)
		res.Lines = append(res.Lines, domain.EstimateLine{
			Kind: domain.LinePackage, ItemID: p.ID, Name: p.Name, Qty: 1, UnitPrice: price, Amount: price,
		})
		if res.Subtotal, err = addMoney(res.Subtotal, price); err != nil {
			return domain.EstimateResult{}, err
		}
	}

	selected := make(map[string]struct{}, len(sel.FeatureIDs))
	for _, id := range sel.FeatureIDs {
		selected[id] = struct{}{}
	}
	for _, f := range cat.Features {
		if _, ok := selected[f.ID]; !ok {
			continue
		}
		price := PriceOf(settings, f.ID, f.UnitPrice)
		res.Lines = append(res.Lines, domain.EstimateLine{
			Kind: domain.LineFeature, ItemID: f.ID, Name: f.Name, Qty: 1, UnitPrice: price, Amount: price,
		})
		if res.Subtotal, err = addMoney(res.Subtotal, price); err != nil {
			return domain.EstimateResult{}, err
		}
	}

	if extra := hours - IncludedCoverageHours; extra > 0 {
		rate := PriceOf(settings, KeyExtraHourRate, DefaultExtraHourRate)
		if rate > math.MaxInt64/int64(extra) {
			return domain.EstimateResult{}, invalid("extra hour charge out of range")
		}
		amount := int64(extra) * rate
		res.Lines = append(res.Lines, domain.EstimateLine{
			Kind: domain.LineExtraHours, ItemID: KeyExtraHourRate, Name: "Extra coverage hours", Qty: extra, UnitPrice: rate, Amount: amount,
		})
		if res.Subtotal, err = addMoney(res.Subtotal, amount); err != nil {
			return domain.EstimateResult{}, err
		}
	}

	if sel.ExpressRequested {
		if res.ExpressSurcharge, err = percentOf(res.Subtotal, expressPercent(settings)); err != nil {
			return domain.EstimateResult{}, err
		}
	}
	if res.Total, err = addMoney(res.Subtotal, res.ExpressSurcharge); err != nil {
		return domain.EstimateResult{}, err
	}
	return res, nil
}

func basePackages(cat domain.Catalog, sel domain.EstimateSelection) ([]domain.Package, error) {
	switch sel.ServiceType {
	case domain.ServicePhotography, domain.ServiceVideography:
		for _, p := range cat.PackagesFor(sel.ServiceType) {
			if p.ID == sel.PackageID {
				return []domain.Package{p}, nil
			}
		}
		return nil, invalid("unknown %s package %q", sel.ServiceType, sel.PackageID)
	case domain.ServiceBoth:
		out := make([]domain.Package, 0, 2)
		for _, c := range []domain.ServiceType{domain.ServicePhotography, domain.ServiceVideography} {
			p, ok := standardTier(cat, c)
			if !ok {
				return nil, invalid("no standard %s package in catalog", c)
			}
			out = append(out, p)
		}
		return out, nil
	default:
		return nil, invalid("unknown service type %q", sel.ServiceType)
	}
}

func standardTier(cat domain.Catalog, c domain.ServiceType) (domain.Package, bool) {
	for _, p := range cat.PackagesFor(c) {
		if p.Tier == domain.TierStandard {
			return p, true
		}
	}
	return domain.Package{}, false
}

func checkPrices(cat domain.Catalog, s domain.EstimateSettings) error {
	for k, v := range s.Prices {
		if err := checkPrice(k, v); err != nil {
			return err
		}
	}
	for _, p := range cat.Packages {
		if err := checkPrice(p.ID, p.BasePrice); err != nil {
			return err
		}
	}
	for _, f := range cat.Features {
		if err := checkPrice(f.ID, f.UnitPrice); err != nil {
			return err
		}
	}
	if s.ExpressPercent != nil {
		pct := *s.ExpressPercent
		if math.IsNaN(pct) || pct < 0 || pct > MaxExpressPercent {
			return invalid("express surcharge percent %v outside [0,%v]", pct, MaxExpressPercent)
		}
	}
	return nil
}

func checkPrice(key string, v int64) error {
	if v < 0 {
		return invalid("negative price for %q", key)
	}
	return nil
}

// addMoney fails instead of wrapping; both operands are non-negative.
func addMoney(a, b int64) (int64, error) {
	if b > math.MaxInt64-a {
		return 0, invalid("amount out of range")
	}
	return a + b, nil
}

// PriceOf is the seller override for key, else fallback.
func PriceOf(s domain.EstimateSettings, key string, fallback int64) int64 {
	if v, ok := s.Prices[key]; ok {
		return v
	}
	return fallback
}

func expressPercent(s domain.EstimateSettings) float64 {
	if s.ExpressPercent == nil {
		return DefaultExpressPercent
	}
	return *s.ExpressPercent
}

// percentOf rounds half up. The percent is taken to two decimal places so
// the arithmetic stays in integers.
func percentOf(amount int64, pct float64) (int64, error) {
	bps := int64(math.Round(pct * 100))
	if bps > 0 && amount > (math.MaxInt64-5000)/bps {
		return 0, invalid("express surcharge out of range")
	}
	return (amount*bps + 5000) / 10000, nil
}
