package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "wedsnap/internal/log"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

type SettingsHandler struct {
	Settings *services.SettingsService
	Gigs     *services.GigService
}

// GET /api/v1/sellers/:id/settings
func (h *SettingsHandler) Show(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	s, err := h.Settings.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, "settings", err)
	}
	return c.JSON(s)
}

type settingsRequest struct {
	Prices         map[string]int64 `json:"prices" validate:"max=64"`
	ExpressPercent *float64         `json:"expressDeliverySurchargePercent"`
}

// PUT /api/v1/seller/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	var req settingsRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	s, err := h.Settings.Update(c.UserContext(), u.ID, services.SettingsUpdate{Prices: req.Prices, ExpressPercent: req.ExpressPercent})
	if err != nil {
		return serviceError(c, "settings", err)
	}
	applog.Audit(c, "settings.update", map[string]any{"keys": len(req.Prices), "express": req.ExpressPercent != nil})

	if err := h.Gigs.RefreshStartingPrices(c.UserContext(), u.ID); err != nil {
		applog.Error(c, "gigs.refresh.fail", err, nil)
	}
	return c.JSON(s)
}
