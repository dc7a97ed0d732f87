package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers the API endpoints on app.
func SetupRoutes(app *fiber.App, reviewRoute string, reviewHandler *ReviewHandler) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	app.Post(reviewRoute, reviewHandler.HandleReview)
}
