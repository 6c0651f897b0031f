package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/domain"
)

// Locals keys populated by the validator stages for the terminal
// handlers.
const (
	LocalAuthUser = "authUser"
	LocalToken    = "token"
	LocalNewUser  = "newUser"
)

// LoginRequest accepts the current generic-identifier contract and the
// legacy field names as aliases.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r *LoginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

// LoginValidator runs the credential validation stage. On success the
// resolved user and signed token are stashed in Locals and control
// passes to the terminal handler; any failure short-circuits with the
// mapped rejection.
func LoginValidator(svc domain.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}

		user, token, err := svc.ValidateLogin(c.UserContext(), req.identifier(), req.Password)
		if err != nil {
			return respondError(c, err)
		}

		c.Locals(LocalAuthUser, user)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// RegisterValidator runs the registration validation stage. On success
// the sanitized, unsaved profile is stashed in Locals; the terminal
// handler performs the write.
func RegisterValidator(svc domain.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input domain.RegistrationInput
		if err := c.BodyParser(&input); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}

		sanitized, err := svc.ValidateRegistration(c.UserContext(), &input)
		if err != nil {
			return respondError(c, err)
		}

		c.Locals(LocalNewUser, sanitized)
		return c.Next()
	}
}

func respondError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return fail(c, appErr.Code, appErr.Message)
	}
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
