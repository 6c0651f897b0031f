package api

import (
	"errors"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"medlink.com/internal/domain"
)

// Response is the uniform JSON envelope for every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination metadata
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// PagedData wraps a list payload with its pagination info.
type PagedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// SendSuccess writes the success envelope with the given status.
func SendSuccess(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

// SendMessage writes a success envelope carrying only a message.
func SendMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: true, Message: message})
}

// SendPaginatedResponse writes a paginated success envelope.
func SendPaginatedResponse(c *fiber.Ctx, items interface{}, page, pageSize int, total int64) error {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return SendSuccess(c, fiber.StatusOK, PagedData{
		Items: items,
		Pagination: Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: totalPage,
		},
	})
}

// handleError maps service errors onto the failure envelope. Expected
// business failures carry their own status; anything else is a 500 with
// a safe message while the cause is logged for operators.
func handleError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= 500 {
			log.Printf("API: internal error on %s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(appErr.Code).JSON(Response{Success: false, Message: appErr.Message})
	}

	log.Printf("API: unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(Response{
		Success: false,
		Message: "Internal server error",
	})
}
