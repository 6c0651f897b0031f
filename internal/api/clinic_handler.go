package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// ClinicHandler serves the clinic directory endpoints.
type ClinicHandler struct {
	svc domain.ClinicService
}

func NewClinicHandler(svc domain.ClinicService) *ClinicHandler {
	return &ClinicHandler{svc: svc}
}

// GetClinics lists clinics
// GET /api/clinics
func (h *ClinicHandler) GetClinics(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	clinics, total, err := h.svc.GetClinics(c.UserContext(), page, pageSize)
	if err != nil {
		return handleError(c, err)
	}

	return SendPaginatedResponse(c, clinics, page, pageSize, total)
}

// GetClinic fetches one clinic
// GET /api/clinics/:id
func (h *ClinicHandler) GetClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid clinic id"})
	}

	clinic, err := h.svc.GetClinic(c.UserContext(), uint(id))
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, clinic)
}

// CreateClinic registers a new clinic
// POST /api/clinics
func (h *ClinicHandler) CreateClinic(c *fiber.Ctx) error {
	var clinic model.Clinic
	if err := c.BodyParser(&clinic); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid request body"})
	}

	if err := h.svc.CreateClinic(c.UserContext(), &clinic); err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusCreated, clinic)
}

// UpdateClinic updates clinic fields
// PUT /api/clinics/:id
func (h *ClinicHandler) UpdateClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid clinic id"})
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid request body"})
	}

	clinic, err := h.svc.UpdateClinic(c.UserContext(), uint(id), updates)
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, clinic)
}

// DeleteClinic removes a clinic
// DELETE /api/clinics/:id
func (h *ClinicHandler) DeleteClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid clinic id"})
	}

	if err := h.svc.DeleteClinic(c.UserContext(), uint(id)); err != nil {
		return handleError(c, err)
	}

	return SendMessage(c, fiber.StatusOK, "Clinic deleted successfully")
}
