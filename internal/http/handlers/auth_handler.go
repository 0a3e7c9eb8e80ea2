package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"wedsnap/internal/log"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func ensureSID(c *fiber.Ctx, secure bool) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secure,
		})
	}
	return sid
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c, h.CookieSecure)
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !validate.Password(req.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	u, err := h.Auth.Login(c.UserContext(), sid, email, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrBadCreds) {
			log.Error(c, "auth.login.error", err, nil)
			return fail(c, fiber.StatusInternalServerError, msgInternal)
		}
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	c.Locals("user_id", u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email, "role": u.Role})
	return c.JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			log.Error(c, "auth.logout.fail", err, nil)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// GET /api/v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}
