package handlers

import (
	"github.com/gofiber/fiber/v2"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
	applog "wedsnap/internal/log"
	"wedsnap/internal/services"
)

type EstimateHandler struct {
	Estimates *services.EstimateService
}

type selectionRequest struct {
	ServiceType              string   `json:"serviceType" validate:"required,servicetype"`
	SelectedPackageID        string   `json:"selectedPackageId" validate:"omitempty,slug"`
	SelectedFeatureIDs       []string `json:"selectedFeatureIds" validate:"max=32,dive,slug"`
	CoverageHours            *int     `json:"coverageHours"`
	ExpressDeliveryRequested bool     `json:"expressDeliveryRequested"`
}

// selection fills in the included hours only when coverageHours is absent;
// an explicit value, zero included, goes to the engine as sent.
func (r selectionRequest) selection() domain.EstimateSelection {
	hours := estimate.IncludedCoverageHours
	if r.CoverageHours != nil {
		hours = *r.CoverageHours
	}
	return domain.EstimateSelection{
		ServiceType:      domain.ServiceType(r.ServiceType),
		PackageID:        r.SelectedPackageID,
		FeatureIDs:       r.SelectedFeatureIDs,
		CoverageHours:    hours,
		ExpressRequested: r.ExpressDeliveryRequested,
	}
}

type estimateRequest struct {
	selectionRequest
	SellerID string `json:"sellerId" validate:"omitempty,slug"`
}

// POST /api/v1/estimate
func (h *EstimateHandler) Estimate(c *fiber.Ctx) error {
	var req estimateRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	res, err := h.Estimates.Quote(c.UserContext(), req.SellerID, req.selection())
	if err != nil {
		return serviceError(c, "estimate", err)
	}
	return c.JSON(res)
}

// GET /api/v1/catalog
func (h *EstimateHandler) Catalog(c *fiber.Ctx) error {
	cat, err := h.Estimates.Catalog.Load(c.UserContext())
	if err != nil {
		applog.Error(c, "catalog.load.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgInternal)
	}
	return c.JSON(fiber.Map{
		"packages": cat.Packages,
		"features": cat.Features,
		"defaults": fiber.Map{
			"extraHourRate":                   estimate.DefaultExtraHourRate,
			"expressDeliverySurchargePercent": estimate.DefaultExpressPercent,
			"includedCoverageHours":           estimate.IncludedCoverageHours,
			"minCoverageHours":                estimate.MinCoverageHours,
			"maxCoverageHours":                estimate.MaxCoverageHours,
		},
	})
}
