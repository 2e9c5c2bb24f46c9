package controllers

import (
	"invoicing-backend/billing"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReportHandler(db *gorm.DB, log *zap.Logger) *ReportHandler {
	return &ReportHandler{db: db, log: log}
}

// GET /api/reports/monthly-profit
// Parallel label/value arrays of profit per calendar month, ascending.
// Grouping happens client-side over the fetched lines so the result is
// identical across database dialects.
func (h *ReportHandler) MonthlyProfit(c *fiber.Ctx) error {
	var lines []models.InvoiceLine
	err := h.db.Preload("Invoice").
		Where("invoice_id IS NOT NULL AND product_id IS NOT NULL").
		Find(&lines).Error
	if err != nil {
		return err
	}

	months, profits := billing.MonthlyProfitSeries(lines)
	return c.JSON(fiber.Map{
		"months":  months,
		"profits": profits,
	})
}

// GET /api/dashboard
// Headline numbers for the landing page: product/invoice counts and total
// income (sales, not profit) across all invoices.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	var totalProducts, totalInvoices int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Invoice{}).Count(&totalInvoices).Error; err != nil {
		return err
	}

	var lines []models.InvoiceLine
	if err := h.db.Find(&lines).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_products": totalProducts,
		"total_invoices": totalInvoices,
		"total_income":   billing.InvoiceTotal(lines),
	})
}
