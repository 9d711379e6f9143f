package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/handler"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/scheduler"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalw("invalid configuration", "error", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.Development})
	if err != nil {
		logger.Default().Fatalw("failed to build logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	// money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, log, cfg.Development)
	if err != nil {
		log.Fatalw("database unavailable", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalw("migration failed", "error", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	policy := access.NewPolicy(access.DefaultRules())

	authService := service.NewAuthService(userRepo, tokens, log)
	productService := service.NewProductService(db, productRepo, wsHub, log)
	saleService := service.NewSaleService(db, productRepo, saleRepo, wsHub, cfg.BusinessLocation, log)
	expenseService := service.NewExpenseService(expenseRepo, cfg.BusinessLocation, log)
	reportService := service.NewReportService(saleRepo, expenseRepo, reportRepo, productRepo, wsHub,
		cfg.BusinessLocation, cfg.ReportRangeDays, log)

	// 5. Seed the initial admin account
	if created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Warnw("failed to seed admin user", "error", err)
	} else if created {
		log.Infow("admin user created", "email", cfg.AdminEmail)
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "POS Inventory v1.0",
		ErrorHandler: handler.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, x-auth-token",
		AllowCredentials: true,
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, try again later")
		},
	}))

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Products: handler.NewProductHandler(productService),
		Sales:    handler.NewSaleHandler(saleService),
		Expenses: handler.NewExpenseHandler(expenseService),
		Reports:  handler.NewReportHandler(reportService),
	}, middleware.RequireAuth(tokens, policy, log))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Add(c) {
			return
		}
		defer wsHub.Remove(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Report scheduler
	sched, err := scheduler.New(cfg.ReportSchedule, cfg.BusinessLocation, reportService, log)
	if err != nil {
		log.Fatalw("invalid report schedule", "error", err)
	}
	sched.Start()

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	sched.Stop(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
