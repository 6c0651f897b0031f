package api

import (
	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/api/middleware"
	"medlink.com/internal/config"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// AuthHandler terminates the auth pipelines: the validator stages do the
// checking, these handlers perform the single authoritative operation
// and render the response.
type AuthHandler struct {
	svc domain.AccountService
	cfg *config.Config
}

func NewAuthHandler(svc domain.AccountService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Register persists the sanitized profile prepared by RegisterValidator
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	user, ok := c.Locals(middleware.LocalNewUser).(*model.User)
	if !ok {
		return handleError(c, domain.NewInternalError("registration pipeline produced no profile", nil))
	}

	if err := h.svc.CreateUser(c.UserContext(), user); err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusCreated, user)
}

// Login returns the token and user resolved by LoginValidator
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	user, ok := c.Locals(middleware.LocalAuthUser).(*model.User)
	token, _ := c.Locals(middleware.LocalToken).(string)
	if !ok || token == "" {
		return handleError(c, domain.NewInternalError("login pipeline produced no result", nil))
	}

	return SendSuccess(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout acknowledges the request. There is no server-side invalidation;
// the token stays valid until its natural expiry.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return SendMessage(c, fiber.StatusOK, "Logged out successfully")
}

// GetMe returns the current user's public projection
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(string)
	if id == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Success: false, Message: "Unauthorized"})
	}

	user, err := h.svc.GetUser(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, user)
}

// CreateTestPatient provisions the fixed diagnostic account, refused in
// production
// POST /api/auth/register/test-patient
func (h *AuthHandler) CreateTestPatient(c *fiber.Ctx) error {
	if h.cfg.IsProduction() {
		return c.Status(fiber.StatusForbidden).JSON(Response{Success: false, Message: "Not available in production"})
	}

	user, err := h.svc.EnsureTestPatient(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, user)
}
