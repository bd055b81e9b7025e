package main

import (
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/looooooty/basesweb/internal/config"
	"github.com/looooooty/basesweb/internal/handlers"
	"github.com/looooooty/basesweb/internal/middleware"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/types"
)

// @title Looooooty Bases API
// @version 1.0.0
// @description Application intake and base status portal for the Looooooty community

// @host localhost:4000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey StaffCode
// @in header
// @name X-Staff-Code

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire services over the shared data directory
	forms := services.NewFormRegistry(cfg.DataDir, cfg.GuildID, cfg.BaseMemberRoleID)
	bases := services.NewBaseRegistry(cfg.DataDir)
	bot := services.NewBotClient(cfg)
	applications := services.NewApplicationService(cfg.DataDir, forms, bot, cfg.GuildID, cfg.BaseMemberRoleID)
	stats := services.NewStatsService(cfg.DataDir, cfg.GuildID)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("basesweb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Liveness probe
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":  true,
			"now": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Create handlers
	baseHandler := &handlers.BaseHandler{Bases: bases}
	formHandler := &handlers.FormHandler{Forms: forms}
	appHandler := &handlers.ApplicationHandler{Applications: applications}
	statsHandler := &handlers.StatsHandler{Stats: stats}

	// Public routes under /api
	api := app.Group("/api")
	api.Get("/bases", baseHandler.GetBases)
	api.Get("/forms", formHandler.GetActiveForms)
	api.Post("/apply", appHandler.SubmitApplication)

	// Staff routes behind the shared staff code
	staff := api.Group("/staff", middleware.RequireStaff(middleware.SharedSecret(cfg.StaffCode)))
	staff.Get("/stats", statsHandler.GetStats)

	staff.Put("/bases", baseHandler.SetBases)
	staff.Post("/bases", baseHandler.CreateBase)

	staff.Get("/forms", formHandler.GetAllForms)
	staff.Post("/forms", formHandler.CreateForm)
	staff.Put("/forms/:id", formHandler.UpdateForm)
	staff.Post("/forms/:id/toggle", formHandler.ToggleForm)
	staff.Delete("/forms/:id", formHandler.DeleteForm)

	staff.Get("/applications", appHandler.GetApplications)
	staff.Post("/applications", appHandler.CreateApplication)
	staff.Post("/applications/:id/approve", appHandler.ApproveApplication)
	staff.Post("/applications/:id/reject", appHandler.RejectApplication)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log.Printf("Starting server on %s (data dir %s)", addr, cfg.DataDir)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	var custom *types.CustomError
	if errors.As(err, &custom) {
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
