package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/internal/auth/dto"
	"github.com/nusacargo/backoffice-auth/internal/auth/service"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      service.TokenGenerator
	oracle      domain.PermissionOracle
}

func NewAuthHandler(authService *service.AuthService, tokens service.TokenGenerator, oracle domain.PermissionOracle) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, oracle: oracle}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if pv, ok := autherror.AsPolicyViolation(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "password does not meet policy",
				"errors": pv.Reasons,
			})
		}

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())
	input.Fingerprint = c.Get("X-Device-Fingerprint")

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(stateStatus(result.State)).JSON(result)
}

func (h *AuthHandler) SubmitOtp(c *fiber.Ctx) error {
	var input dto.SubmitOtpInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())
	input.Fingerprint = c.Get("X-Device-Fingerprint")

	result, err := h.authService.SubmitOtp(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(stateStatus(result.State)).JSON(result)
}

func (h *AuthHandler) ChangeExpiredPassword(c *fiber.Ctx) error {
	var input dto.ChangeExpiredPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	out, err := h.authService.ChangeExpiredPassword(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}
	if !out.OK {
		return c.Status(fiber.StatusBadRequest).JSON(out)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) LockUser(c *fiber.Ctx) error {
	var input dto.LockUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.authService.LockUser(c.Context(), c.Params("id"), input.Until); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) UnlockUser(c *fiber.Ctx) error {
	if err := h.authService.UnlockUser(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) GetLockedUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListLockedUsers(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.LockedUserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, dto.LockedUserOutput{ID: u.ID, Email: u.Email, Username: u.Username})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func stateStatus(state domain.LoginState) int {
	switch state {
	case domain.StateLocked:
		return fiber.StatusLocked
	case domain.StateRejected:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusOK
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, autherror.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrPendingLoginClosed):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, autherror.ErrDeliveryFailure):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": autherror.ErrDeliveryFailure.Error()})
	case errors.Is(err, autherror.ErrStorageFailure):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "temporary failure, please retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
