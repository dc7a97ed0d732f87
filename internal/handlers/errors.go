package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-reviewer/internal/models"
	"alfredoptarigan/resume-reviewer/internal/services"
)

// statusFor maps service errors onto the status code and the fixed message
// returned to callers. Internal error text never reaches the response.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNoFile):
		return fiber.StatusBadRequest, "No file uploaded"
	case errors.Is(err, services.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, "File is too large"
	case errors.Is(err, services.ErrNotPDF):
		return fiber.StatusUnsupportedMediaType, "Please upload a PDF file"
	case errors.Is(err, services.ErrExtraction):
		return fiber.StatusUnprocessableEntity, "Could not read the uploaded PDF"
	case errors.Is(err, services.ErrProviderTimeout), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "Review provider timed out"
	case errors.Is(err, services.ErrProvider):
		return fiber.StatusBadGateway, "Review provider failed"
	case errors.Is(err, services.ErrBusy), errors.Is(err, services.ErrPoolStopped):
		return fiber.StatusServiceUnavailable, "Review service is busy, please try again"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code, message := statusFor(err)
	return c.Status(code).JSON(models.ErrorResponse{Error: message})
}

// ErrorHandler is the fiber.Config ErrorHandler. fiber errors keep their own
// message; anything else is reported generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
