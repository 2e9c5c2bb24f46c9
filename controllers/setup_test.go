package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicing-backend/middlewares"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Invoice{},
		&models.InvoiceLine{}, &models.InvoiceRevision{}, &models.IdempotencyKey{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestApp wires the handlers onto a Fiber app without the auth middleware
// so handler behavior can be exercised directly.
func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(log)})

	products := NewProductHandler(db, log)
	invoices := NewInvoiceHandler(db, log)
	reports := NewReportHandler(db, log)
	exports := NewExportHandler(db, log)

	api := app.Group("/api")
	api.Post("/product", products.Create)
	api.Get("/products", products.List)
	api.Get("/product/:id", products.Get)
	api.Put("/product/:id", products.Update)
	api.Delete("/product/:id", products.SoftDelete)

	api.Post("/invoice", invoices.Create)
	api.Get("/invoices", invoices.List)
	api.Get("/invoices/export", exports.InvoiceSheet)
	api.Get("/invoice/:id", invoices.Get)
	api.Put("/invoice/:id", invoices.Update)
	api.Delete("/invoice/:id", invoices.Delete)
	api.Get("/invoice/:id/revisions", invoices.Revisions)
	api.Get("/invoice/:id/pdf", exports.InvoicePDF)

	api.Get("/reports/monthly-profit", reports.MonthlyProfit)
	api.Get("/dashboard", reports.Dashboard)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decode(t *testing.T, raw []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func createProduct(t *testing.T, db *gorm.DB, name string, cost, selling float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, CostPrice: cost, SellingPrice: selling, Unit: "pcs"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
