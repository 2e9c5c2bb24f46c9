package controllers

import (
	"errors"
	"fmt"

	"invoicing-backend/apperrors"
	"invoicing-backend/billing"
	"invoicing-backend/documents"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExportHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewExportHandler(db *gorm.DB, log *zap.Logger) *ExportHandler {
	return &ExportHandler{db: db, log: log}
}

// GET /api/invoice/:id/pdf
func (h *ExportHandler) InvoicePDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var invoice models.Invoice
	err = h.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_lines.id") }).
		Preload("Lines.Product").
		Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("invoice")
		}
		return err
	}

	doc := documents.InvoiceDocument{
		ID:       invoice.ID,
		Date:     invoice.Date,
		Customer: invoice.Customer,
		Contact:  invoice.Contact,
		Email:    invoice.Email,
		Comments: invoice.Comments,
		Total:    invoice.Total,
	}
	for _, line := range invoice.Lines {
		name := ""
		if line.Product != nil {
			name = line.Product.Name
		}
		doc.Rows = append(doc.Rows, documents.InvoiceRow{
			Product:  name,
			Price:    line.SellingPriceSnapshot,
			Quantity: line.Quantity,
			Total:    billing.LineTotal(line),
		})
	}

	out, err := documents.RenderInvoicePDF(doc)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice_%d.pdf"`, invoice.ID))
	return c.Send(out)
}

// GET /api/invoices/export
func (h *ExportHandler) InvoiceSheet(c *fiber.Ctx) error {
	var invoices []models.Invoice
	if err := h.db.Order("date, id").Find(&invoices).Error; err != nil {
		return err
	}

	rows := make([]documents.InvoiceSummary, 0, len(invoices))
	for _, invoice := range invoices {
		rows = append(rows, documents.InvoiceSummary{
			Date:     invoice.Date,
			Customer: invoice.Customer,
			Contact:  invoice.Contact,
			Email:    invoice.Email,
			Comments: invoice.Comments,
			Total:    invoice.Total,
		})
	}

	out, err := documents.RenderInvoiceSheet(rows)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	return c.Send(out)
}
