package main

import (
	"fmt"
	"log"
	"time"

	"github.com/codeyu/roomplan-2d-viewer/internal/common/config"
	"github.com/codeyu/roomplan-2d-viewer/internal/common/middleware"
	"github.com/codeyu/roomplan-2d-viewer/internal/gateway/handlers"
	"github.com/codeyu/roomplan-2d-viewer/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Floorplan.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
		AppName:      "API Gateway",
	})

	// Бандлы с моделью крупные, даём апстриму время.
	floorplan := proxy.New(cfg.FloorplanURL, time.Duration(cfg.WriteTimeout)*time.Second*6)

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("GATEWAY"))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(floorplan.Ping))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(handlers.DefaultSpecPath))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Room Plan API v1",
			"status":  "ok",
		})
	})

	// Floor Plan Service
	api.All("/*", floorplan.Strip("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1/* to %s", floorplan.Upstream())

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
