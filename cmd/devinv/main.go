package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"devinv/internal/config"
	"devinv/internal/http/handlers"
	"devinv/internal/inventory"
	applog "devinv/internal/log"
	"devinv/internal/repos"
	"devinv/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	var store inventory.Store
	if cfg.Store == config.StoreMemory {
		store = inventory.NewMemoryStore()
		log.Printf("[store] in-memory")
	} else {
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		store = repos.NewDeviceRepo(db)
	}

	gen := services.NewSeededGenerator(uint64(cfg.Seed))
	deps := handlers.NewDeps(store, cfg, gen)

	if cfg.DemoDevices > 0 {
		seedDemo(deps.DeviceHandler.P, cfg.DemoDevices)
	}

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			if rerr := handlers.Message(c, fiber.StatusInternalServerError, "Something went wrong. Please try again."); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.CSRF())

	// ---------- App handlers ----------
	h := deps.DeviceHandler

	app.Get("/", h.Page)
	app.Post("/devices", h.Add)
	app.Post("/devices/update", h.Update)
	app.Post("/devices/delete", h.Delete)
	app.Post("/devices/clear", h.Clear)
	app.Post("/devices/:id/select", h.Select)
	app.Post("/form/type", h.TypeChange)
	app.Post("/generate", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.generate.hit", nil)
			return handlers.Message(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}), h.Generate)
	app.Get("/charts", h.Charts)

	// API
	api := app.Group("/api/v1")
	api.Get("/devices", h.Devices)
	api.Get("/charts/:kind", h.ChartJSON)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return handlers.Message(c, fiber.StatusNotFound, "Page not found")
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// seedDemo fills an empty store once so a fresh install has something to show.
func seedDemo(p *services.Presenter, n int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	devs, err := p.Store.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(devs) > 0 {
		return
	}
	p.OnBulkGenerate(ctx, n)
	applog.NewOp().Info("seed.demo", map[string]any{"per_category": n})
}
