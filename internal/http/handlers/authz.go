package handlers

import (
	"github.com/gofiber/fiber/v2"

	"wedsnap/internal/domain"
	applog "wedsnap/internal/log"
	"wedsnap/internal/services"
)

// AttachUser resolves the sid cookie to a logged-in user, if any, for the
// rest of the chain.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("user_id", u.ID)
			}
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func requireRole(role, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return fail(c, fiber.StatusUnauthorized, "login required")
		}
		if role != "" && u.Role != role {
			applog.Security(c, action, map[string]any{"role": u.Role})
			return fail(c, fiber.StatusForbidden, "forbidden")
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in. AttachUser must run first.
func RequireUser() fiber.Handler { return requireRole("", "") }

func RequireSeller() fiber.Handler { return requireRole(domain.RoleSeller, "access.denied.seller") }

func RequireAdmin() fiber.Handler { return requireRole(domain.RoleAdmin, "access.denied.admin") }
