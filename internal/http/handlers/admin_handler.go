package handlers

import (
	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Bookings *services.BookingService
	Users    *repos.UserRepo
	Settings *services.SettingsService
}

// GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out, err := h.Bookings.Latest(c.UserContext(), limit)
	if err != nil {
		applog.Error(c, "admin.bookings.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load bookings")
	}
	return c.JSON(fiber.Map{"bookings": out})
}

// GET /api/v1/admin/users lists buyers and sellers.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.ListNonAdmin(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load users")
	}
	return c.JSON(fiber.Map{"users": users})
}

// DeleteUser deletes a user and related data, canceling their pending
// bookings as buyer or seller, and evicts any cached seller settings.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "missing id")
	}
	if u := currentUser(c); u != nil && u.ID == id {
		return fail(c, fiber.StatusBadRequest, "cannot delete yourself")
	}
	if err := h.Users.DeleteUserCascade(c.UserContext(), id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return fail(c, fiber.StatusBadRequest, "could not delete user")
	}
	h.Settings.Forget(c.UserContext(), id)
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
