package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"wedsnap/internal/domain"
	"wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

type GigHandler struct {
	Gigs *services.GigService
}

// GET /api/v1/gigs?q=&service=&city=&seller=&page=
func (h *GigHandler) Search(c *fiber.Ctx) error {
	var f repos.GigFilter
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return fail(c, fiber.StatusBadRequest, "Enter a valid keyword (letters/numbers only)")
		}
		f.Q = strings.ToLower(q)
	}
	if raw := c.Query("service"); raw != "" {
		st, ok := validate.ServiceType(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "service"})
			return fail(c, fiber.StatusBadRequest, "invalid service type")
		}
		f.ServiceType = st
	}
	if raw := c.Query("city"); raw != "" {
		city, ok := validate.City(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "city"})
			return fail(c, fiber.StatusBadRequest, "invalid city")
		}
		f.City = city
	}
	if raw := c.Query("seller"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "seller"})
			return fail(c, fiber.StatusBadRequest, "invalid seller")
		}
		f.SellerID = id
	}

	page := c.QueryInt("page", 1)
	gigs, err := h.Gigs.Search(c.UserContext(), f, page, c.QueryInt("pageSize", 0))
	if err != nil {
		log.Error(c, "gigs.search.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load results. Please retry.")
	}
	return c.JSON(fiber.Map{"gigs": gigs, "count": len(gigs), "page": page})
}

// GET /api/v1/gigs/:id
func (h *GigHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	g, err := h.Gigs.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, "gigs", err)
	}
	if !g.Active {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(g)
}

type gigRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=80"`
	Description string `json:"description" validate:"max=1000"`
	ServiceType string `json:"serviceType" validate:"required,servicetype"`
	City        string `json:"city" validate:"omitempty,city"`
}

// POST /api/v1/seller/gigs
func (h *GigHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req gigRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		city = u.City
	}
	g, err := h.Gigs.Create(c.UserContext(), u.ID, services.GigInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ServiceType: domain.ServiceType(req.ServiceType),
		City:        city,
	})
	if err != nil {
		return serviceError(c, "gigs", err)
	}
	log.Audit(c, "gig.create", map[string]any{"gig_id": g.ID, "starting_price": g.StartingPrice})
	return c.Status(fiber.StatusCreated).JSON(g)
}

// GET /api/v1/seller/gigs
func (h *GigHandler) Mine(c *fiber.Ctx) error {
	gigs, err := h.Gigs.ListBySeller(c.UserContext(), currentUser(c).ID)
	if err != nil {
		log.Error(c, "gigs.mine.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgInternal)
	}
	return c.JSON(fiber.Map{"gigs": gigs})
}
