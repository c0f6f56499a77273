package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/login/otp", h.SubmitOtp)
	app.Post("/api/v1/password/expired", h.ChangeExpiredPassword)

	// Administrator lock management
	admin := app.Group("/api/v1/admin", h.RequireAuth, h.RequirePermission(constant.PermissionLockUsers))
	admin.Post("/user/:id/lock", h.LockUser)
	admin.Delete("/user/:id/lock", h.UnlockUser)
	admin.Get("/locked-users", h.GetLockedUsers)
}
