package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/example/bajraguru/internal/config"
	"github.com/example/bajraguru/internal/handlers"
	"github.com/example/bajraguru/internal/middleware"
	"github.com/example/bajraguru/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	imageService := services.NewImageService(cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(cfg)
	productHandler := handlers.NewProductHandler(db, imageService, cfg.MaxFileSize)
	feedbackHandler := handlers.NewFeedbackHandler(db)
	contactHandler := handlers.NewContactHandler(db)

	requireAdmin := middleware.AuthMiddleware(cfg)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	// Auth routes. Login is rate limited since the credential space is a
	// single shared password.
	auth := api.Group("/auth")
	auth.Post("/login", loginLimiter(), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/verify", requireAdmin, authHandler.Verify)

	// Products
	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products, requireAdmin)

	// Feedback: public read and submit, admin delete
	feedback := api.Group("/feedback")
	feedback.Get("/", feedbackHandler.ListFeedback)
	feedback.Post("/", submitLimiter(), feedbackHandler.CreateFeedback)
	feedback.Delete("/:id", requireAdmin, feedbackHandler.DeleteFeedback)

	// Contact: public submit, admin read and delete
	contact := api.Group("/contact")
	contact.Post("/", submitLimiter(), contactHandler.CreateMessage)
	contact.Get("/", requireAdmin, contactHandler.ListMessages)
	contact.Delete("/:id", requireAdmin, contactHandler.DeleteMessage)
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts. Please try again in 15 minutes.",
			})
		},
	})
}

func submitLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many submissions. Please try again later.",
			})
		},
	})
}
