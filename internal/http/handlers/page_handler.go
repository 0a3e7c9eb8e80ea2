package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

// PageHandler serves the server-rendered calculator. The form submits back
// to the same URL with GET, so it works without JavaScript.
type PageHandler struct {
	Users     *repos.UserRepo
	Estimates *services.EstimateService
}

type priceRow struct {
	ID    string
	Name  string
	Price int64
}

// GET /calculator/:sellerId?service=&package=&feature=&hours=&express=
func (h *PageHandler) Calculator(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("sellerId"))
	if !ok {
		return notFoundPage(c, "Seller not found")
	}
	ctx := c.UserContext()
	seller, err := h.Users.ByID(ctx, id)
	if err != nil || seller.Role != domain.RoleSeller {
		return notFoundPage(c, "Seller not found")
	}
	cat, settings, err := h.Estimates.Snapshot(ctx, id)
	if err != nil {
		applog.Error(c, "calculator.load.fail", err, map[string]any{"seller_id": id})
		return err
	}

	packages := make([]priceRow, 0, len(cat.Packages))
	for _, p := range cat.Packages {
		packages = append(packages, priceRow{ID: p.ID, Name: p.Name, Price: estimate.PriceOf(settings, p.ID, p.BasePrice)})
	}
	features := make([]priceRow, 0, len(cat.Features))
	for _, f := range cat.Features {
		features = append(features, priceRow{ID: f.ID, Name: f.Name, Price: estimate.PriceOf(settings, f.ID, f.UnitPrice)})
	}

	data := fiber.Map{
		"Seller":        seller,
		"Packages":      packages,
		"Features":      features,
		"ExtraHourRate": estimate.PriceOf(settings, estimate.KeyExtraHourRate, estimate.DefaultExtraHourRate),
		"MinHours":      estimate.MinCoverageHours,
		"MaxHours":      estimate.MaxCoverageHours,
	}

	service := strings.TrimSpace(c.Query("service"))
	if service == "" {
		return render(c, "calculator", data)
	}
	sel := domain.EstimateSelection{
		ServiceType:      domain.ServiceType(strings.ToLower(service)),
		PackageID:        c.Query("package"),
		CoverageHours:    c.QueryInt("hours", estimate.IncludedCoverageHours),
		ExpressRequested: c.QueryBool("express", false),
	}
	for _, raw := range c.Context().QueryArgs().PeekMulti("feature") {
		if fid, ok := validate.ID(string(raw)); ok {
			sel.FeatureIDs = append(sel.FeatureIDs, fid)
		}
	}
	data["Selection"] = sel
	res, err := estimate.Compute(cat, settings, sel)
	if err != nil {
		applog.Security(c, "estimate.invalid", map[string]any{"reason": err.Error()})
		data["Err"] = "Please check your selection: coverage must be between 4 and 12 hours and the package must match the service."
		c.Status(fiber.StatusBadRequest)
		return render(c, "calculator", data)
	}
	data["Result"] = res
	return render(c, "calculator", data)
}
