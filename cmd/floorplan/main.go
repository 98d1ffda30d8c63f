package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codeyu/roomplan-2d-viewer/internal/common/config"
	"github.com/codeyu/roomplan-2d-viewer/internal/common/middleware"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/handlers"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/mapper"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/repository"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Floor Plan Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// ============================================================
	// Storage
	// ============================================================

	dbPath := cfg.Floorplan.DBPath
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.Init(initCtx); err != nil {
		cancel()
		log.Fatalf("Failed to init db: %v", err)
	}
	cancel()

	fs := storage.NewFileStorage(cfg.Floorplan.StorageDir)

	palette, err := mapper.NewPalette(cfg.Floorplan.Raster.Background, cfg.Floorplan.Raster.Accent)
	if err != nil {
		log.Fatalf("Invalid raster palette: %v", err)
	}
	renderer := mapper.NewRenderer(palette, cfg.Floorplan.Raster.Margin)
	units := dimension.ParseMode(cfg.Floorplan.Units)

	h := handlers.New(repo, fs, renderer, units)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Floorplan.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
		AppName:      "Floor Plan Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("FLOORPLAN"))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			log.Printf("[FLOORPLAN] DB ping failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Floor Plan Routes
	// ============================================================

	h.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Floorplan.Port)
	log.Printf("Starting Floor Plan Service on %s (env: %s, units: %s)", addr, cfg.Environment, units)
	log.Printf("Database: %s, exports: %s", dbPath, fs.Root())

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
