package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/controllers"
	"invoicing-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, log *zap.Logger) {
	auth := controllers.NewAuthHandler(db, log)
	products := controllers.NewProductHandler(db, log)
	invoices := controllers.NewInvoiceHandler(db, log)
	reports := controllers.NewReportHandler(db, log)
	exports := controllers.NewExportHandler(db, log)

	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", auth.Register)
	api.Post("/login", auth.Login)
	api.Post("/logout", auth.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard runs before any state-changing handler
	protected.Use(middlewares.Idempotency(db))

	// Profile
	protected.Get("/profile", auth.Profile)
	protected.Put("/profile", auth.UpdateProfile)

	// Catalog
	protected.Post("/product", products.Create)
	protected.Get("/products", products.List)
	protected.Get("/product/:id", products.Get)
	protected.Put("/product/:id", products.Update)
	protected.Delete("/product/:id", products.SoftDelete)

	// Invoices
	protected.Post("/invoice", invoices.Create)
	protected.Get("/invoices", invoices.List)
	protected.Get("/invoices/export", exports.InvoiceSheet)
	protected.Get("/invoice/:id", invoices.Get)
	protected.Put("/invoice/:id", invoices.Update)
	protected.Delete("/invoice/:id", invoices.Delete)
	protected.Get("/invoice/:id/revisions", invoices.Revisions)
	protected.Get("/invoice/:id/pdf", exports.InvoicePDF)

	// Reporting
	protected.Get("/reports/monthly-profit", reports.MonthlyProfit)
	protected.Get("/dashboard", reports.Dashboard)
}
