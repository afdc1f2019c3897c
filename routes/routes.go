package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "salescoach/controllers"
	"salescoach/middleware"
	"salescoach/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db, log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile))

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth.Post("/login", authController.Login)
	auth.Get("/profile/:userId", authController.GetProfile)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, generator utils.TextGenerator) {
	sessionController := controller.NewSessionController(db, log.New(os.Stdout, "SESSION: ", log.LstdFlags))
	customerController := controller.NewCustomerController(db, log.New(os.Stdout, "CUSTOMER: ", log.LstdFlags))

	analyzer := utils.NewAnalyzer(db, generator, log.New(os.Stdout, "ANALYZER: ", log.LstdFlags))
	analyticsController := controller.NewAnalyticsController(db, analyzer, log.New(os.Stdout, "ANALYTICS: ", log.LstdFlags))

	requestLogger := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Session routes
	session := app.Group("/sessions", requestLogger)
	session.Post("/", sessionController.CreateSession)
	session.Get("/salesperson/:salespersonId", sessionController.GetSessions)
	session.Get("/:sessionId", sessionController.GetSession)

	// Customer routes
	customer := app.Group("/customers", requestLogger)
	customer.Get("/", customerController.GetCustomers)
	customer.Get("/:customerId", customerController.GetCustomer)
	customer.Patch("/:customerId/notes", customerController.UpdateCustomerNotes)

	// Analytics routes; the model-invoking endpoints are rate limited
	analytics := app.Group("/analytics", requestLogger)
	analytics.Post("/analyze/:sessionId", middleware.AnalyzeRateLimiter(), analyticsController.AnalyzeSession)
	analytics.Post("/followup/:sessionId", middleware.AnalyzeRateLimiter(), analyticsController.RegenerateFollowup)
	analytics.Get("/session/:sessionId", analyticsController.GetSessionAnalytics)
	analytics.Get("/customer/:customerId", analyticsController.GetCustomerAnalytics)
	analytics.Get("/salesperson/:salespersonId/stats", analyticsController.GetSalespersonStats)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, generator utils.TextGenerator) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"message": "Sales Analytics API is running",
		})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db, generator)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Route not found",
			"message": "Cannot " + c.Method() + " " + c.OriginalURL(),
		})
	})
}
