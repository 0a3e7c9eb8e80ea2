package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wedsnap/internal/estimate"
	applog "wedsnap/internal/log"
	"wedsnap/internal/services"
	"wedsnap/internal/validate"
)

const msgInternal = "Something went wrong. Please try again."

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// parseBody decodes and validates a JSON or form body into dst. On failure
// the 400 response has already been written and ok is false.
func parseBody(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "malformed_body"})
		return false, fail(c, fiber.StatusBadRequest, "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		fields := validate.Fields(err)
		applog.Security(c, "validation.fail", map[string]any{"fields": fields})
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "fields": fields})
	}
	return true, nil
}

// serviceError maps service and engine errors onto HTTP statuses. Only
// errors raised by our own validation reach the client verbatim.
func serviceError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, estimate.ErrInvalidSelection),
		errors.Is(err, services.ErrInvalidSettings),
		errors.Is(err, services.ErrInvalidInput):
		applog.Security(c, action+".invalid", map[string]any{"reason": err.Error()})
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, "access.denied."+action, nil)
		return fail(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, "booking is no longer pending")
	}
	applog.Error(c, action+".fail", err, nil)
	return fail(c, fiber.StatusInternalServerError, msgInternal)
}

// ErrorHandler is the app-wide fallback. Fiber errors keep their status
// and public message; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fail(c, fe.Code, fe.Message)
	}
	applog.Error(c, "server.error", err, nil)
	return fail(c, fiber.StatusInternalServerError, msgInternal)
}
