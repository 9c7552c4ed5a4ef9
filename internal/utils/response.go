package utils

import "github.com/gofiber/fiber/v2"

// Envelope status values. Every response carries 1 on success, 0 on failure.
const (
	StatusOK     = 1
	StatusFailed = 0
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Status:  StatusOK,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given HTTP status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Status:  StatusFailed,
		Message: message,
	})
}
