package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/domain"
	"medlink.com/internal/model"
)

// RecordHandler serves the medical record endpoints. Role scoping is
// enforced in the service using the identity the auth middleware put in
// Locals.
type RecordHandler struct {
	svc domain.RecordService
}

func NewRecordHandler(svc domain.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

type recordRequest struct {
	UserID      string `json:"userId"`
	PatientName string `json:"patientName"`
	Diagnosis   string `json:"diagnosis"`
	Treatment   string `json:"treatment"`
	Date        string `json:"date"`
}

func callerIdentity(c *fiber.Ctx) (string, string) {
	id, _ := c.Locals("id").(string)
	role, _ := c.Locals("role").(string)
	return id, role
}

// GetRecords lists records visible to the caller
// GET /api/records
func (h *RecordHandler) GetRecords(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	userID, role := callerIdentity(c)
	records, total, err := h.svc.GetRecords(c.UserContext(), userID, role, page, pageSize)
	if err != nil {
		return handleError(c, err)
	}

	return SendPaginatedResponse(c, records, page, pageSize, total)
}

// GetRecord fetches one record
// GET /api/records/:id
func (h *RecordHandler) GetRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid record id"})
	}

	userID, role := callerIdentity(c)
	record, err := h.svc.GetRecord(c.UserContext(), uint(id), userID, role)
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, record)
}

// CreateRecord stores a new record
// POST /api/records
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid request body"})
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid date format, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	record := &model.MedicalRecord{
		UserID:      req.UserID,
		PatientName: req.PatientName,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Date:        date,
	}

	if err := h.svc.CreateRecord(c.UserContext(), record); err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusCreated, record)
}

// UpdateRecord updates record fields
// PUT /api/records/:id
func (h *RecordHandler) UpdateRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid record id"})
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid request body"})
	}

	record, err := h.svc.UpdateRecord(c.UserContext(), uint(id), updates)
	if err != nil {
		return handleError(c, err)
	}

	return SendSuccess(c, fiber.StatusOK, record)
}

// DeleteRecord removes a record
// DELETE /api/records/:id
func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "Invalid record id"})
	}

	if err := h.svc.DeleteRecord(c.UserContext(), uint(id)); err != nil {
		return handleError(c, err)
	}

	return SendMessage(c, fiber.StatusOK, "Record deleted successfully")
}
