package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

type BookingHandler struct {
	Bookings     *services.BookingService
	CookieSecure bool
}

type bookingRequest struct {
	selectionRequest
	SellerID    string `json:"sellerId" validate:"required,slug"`
	GigID       string `json:"gigId" validate:"omitempty,slug"`
	BuyerName   string `json:"buyerName" validate:"required,min=1,max=40"`
	BuyerEmail  string `json:"buyerEmail" validate:"required,email,max=50"`
	EventDate   string `json:"eventDate" validate:"required,isodate"`
	ClientTotal int64  `json:"clientTotal"`
}

func (h *BookingHandler) viewer(c *fiber.Ctx) services.Viewer {
	return services.Viewer{SessionID: c.Cookies("sid"), User: currentUser(c)}
}

// POST /api/v1/bookings
func (h *BookingHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c, h.CookieSecure)
	var req bookingRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	placed, err := h.Bookings.Place(c.UserContext(), sid, services.BookingRequest{
		SellerID:    req.SellerID,
		GigID:       req.GigID,
		BuyerName:   strings.TrimSpace(req.BuyerName),
		BuyerEmail:  strings.TrimSpace(req.BuyerEmail),
		EventDate:   req.EventDate,
		Selection:   req.selection(),
		ClientTotal: req.ClientTotal,
	})
	if err != nil {
		return serviceError(c, "booking.place", err)
	}
	applog.Audit(c, "booking.place", map[string]any{
		"booking_id":   placed.ID,
		"seller_id":    req.SellerID,
		"server_total": placed.Estimate.Total,
		"client_total": placed.ClientTotal,
		"mismatch":     placed.Mismatch(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       placed.ID,
		"status":   repos.BookingPending,
		"estimate": placed.Estimate,
	})
}

// GET /api/v1/bookings/:id
func (h *BookingHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	b, lines, err := h.Bookings.Get(c.UserContext(), id, h.viewer(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			applog.Security(c, "access.denied.booking", map[string]any{"booking_id": id})
			return fail(c, fiber.StatusNotFound, "Booking not found")
		}
		return serviceError(c, "booking.view", err)
	}
	return c.JSON(fiber.Map{"booking": b, "lines": lines})
}

// GET /api/v1/bookings lists the bookings placed from this browser session.
func (h *BookingHandler) History(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return c.JSON(fiber.Map{"bookings": []repos.BookingSummary{}})
	}
	out, err := h.Bookings.History(c.UserContext(), sid)
	if err != nil {
		applog.Error(c, "bookings.history.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load bookings")
	}
	return c.JSON(fiber.Map{"bookings": out})
}

// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if err := h.Bookings.Cancel(c.UserContext(), id, h.viewer(c)); err != nil {
		return serviceError(c, "booking.cancel", err)
	}
	applog.Audit(c, "booking.cancel", map[string]any{"booking_id": id})
	return c.JSON(fiber.Map{"id": id, "status": repos.BookingCanceled})
}

// GET /api/v1/seller/bookings?status=
func (h *BookingHandler) Inbox(c *fiber.Ctx) error {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	switch status {
	case "", repos.BookingPending, repos.BookingAccepted, repos.BookingDeclined, repos.BookingCanceled:
	default:
		applog.Security(c, "validation.fail", map[string]any{"field": "status"})
		return fail(c, fiber.StatusBadRequest, "invalid status")
	}
	out, err := h.Bookings.Inbox(c.UserContext(), currentUser(c).ID, status)
	if err != nil {
		applog.Error(c, "bookings.inbox.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load bookings")
	}
	return c.JSON(fiber.Map{"bookings": out})
}

type decisionRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=ACCEPTED DECLINED"`
}

// POST /api/v1/seller/bookings/:id/status
func (h *BookingHandler) Decide(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	var req decisionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	u := currentUser(c)
	if err := h.Bookings.Decide(c.UserContext(), u.ID, id, req.Status); err != nil {
		return serviceError(c, "booking.decide", err)
	}
	applog.Audit(c, "booking.decide", map[string]any{"booking_id": id, "status": req.Status})
	return c.JSON(fiber.Map{"id": id, "status": req.Status})
}
