package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth     *AuthHandler
	Products *ProductHandler
	Sales    *SaleHandler
	Expenses *ExpenseHandler
	Reports  *ReportHandler
}

// RegisterRoutes mounts the API. Public routes are registered before the
// auth middleware so they never reach it.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Get("/ping", Ping)
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/auth/me", h.Auth.Me)
	protected.Post("/auth/register", h.Auth.Register)

	protected.Get("/products", h.Products.List)
	protected.Post("/products", h.Products.Create)
	protected.Get("/products/:id", h.Products.Get)
	protected.Put("/products/:id", h.Products.Update)
	protected.Delete("/products/:id", h.Products.Delete)

	protected.Get("/sales", h.Sales.List)
	protected.Post("/sales", h.Sales.Create)
	protected.Get("/sales/today", h.Sales.Today)
	protected.Get("/sales/:id", h.Sales.Get)
	protected.Delete("/sales/:id", h.Sales.Delete)

	protected.Get("/expenses", h.Expenses.List)
	protected.Post("/expenses", h.Expenses.Create)
	protected.Get("/expenses/today", h.Expenses.Today)
	protected.Delete("/expenses/:id", h.Expenses.Delete)

	protected.Get("/reports", h.Reports.List)
	protected.Get("/reports/status", h.Reports.Status)
	protected.Post("/reports/generate", h.Reports.Generate)
	protected.Get("/reports/summary", h.Reports.Summary)
	protected.Get("/reports/sales", h.Reports.Sales)
	protected.Get("/reports/expenses", h.Reports.Expenses)
	protected.Get("/reports/stock", h.Reports.Stock)
}
