package api

import (
	"github.com/bilgisen/spacecards/internal/config"
	"github.com/bilgisen/spacecards/internal/middleware"
	"github.com/bilgisen/spacecards/internal/session"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, content ContentService, store session.Store, cfg *config.Config) {
	handlers := NewHandlers(cfg, content, store)

	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)
	api.Get("/categories", handlers.GetCategories)

	// Content endpoints
	api.Get("/flashcards", middleware.ValidateQuery[SearchQuery](), handlers.GetFlashcards)
	api.Get("/flashcards/:id", handlers.GetFlashcard)
	api.Get("/mix", middleware.ValidateQuery[SearchQuery](), handlers.GetMix)
	api.Get("/mix/:id", handlers.GetMixItem)
	api.Get("/home", handlers.GetHome)

	// Session-scoped view state
	withSession := middleware.NewSession()
	api.Get("/feeds/:feed/view", withSession, middleware.ValidateQuery[ViewQuery](), handlers.GetFeedView)

	sessions := api.Group("/sessions")
	{
		sessions.Get("/:feed", withSession, handlers.GetSession)
		sessions.Put("/:feed", withSession, middleware.ValidateBody[ViewportSignal](), handlers.PutSession)
		sessions.Delete("/:feed", withSession, handlers.DeleteSession)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
