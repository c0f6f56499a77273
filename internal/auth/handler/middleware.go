package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsUserID = "user_id"

// RequireAuth validates the Bearer session token and stashes the caller's
// user ID for downstream handlers.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	claims, err := h.tokens.VerifySession(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	c.Locals(localsUserID, claims.UserID)

	return c.Next()
}

// RequirePermission gates a route on the permission oracle.
func (h *AuthHandler) RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(localsUserID).(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		allowed, err := h.oracle.HasPermission(c.Context(), userID, permission)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "temporary failure, please retry"})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		return c.Next()
	}
}
