package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"invoicing-backend/apperrors"
	"invoicing-backend/billing"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InvoiceLineDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type InvoiceCreateDTO struct {
	Customer string           `json:"customer" validate:"required,min=1"`
	Contact  string           `json:"contact"`
	Email    string           `json:"email" validate:"omitempty,email"`
	Comments string           `json:"comments"`
	Lines    []InvoiceLineDTO `json:"lines" validate:"omitempty,dive"`
}

type InvoiceHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInvoiceHandler(db *gorm.DB, log *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{db: db, log: log}
}

// buildLine resolves the product and copies its current prices into the new
// line's snapshot fields. This is a point-in-time capture: the line never
// reads the live product again, so later catalog edits leave historical
// invoices untouched.
func buildLine(tx *gorm.DB, dto InvoiceLineDTO) (models.InvoiceLine, error) {
	var line models.InvoiceLine
	if dto.Quantity < 1 {
		return line, apperrors.Validation("quantity must be at least 1")
	}

	var product models.Product
	if err := tx.Where("id = ?", dto.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return line, apperrors.Validation("unknown product %q", dto.ProductID)
		}
		return line, err
	}

	line = models.InvoiceLine{
		ProductID:            &product.Id,
		Quantity:             dto.Quantity,
		CostPriceSnapshot:    product.CostPrice,
		SellingPriceSnapshot: product.SellingPrice,
	}
	return line, nil
}

func buildLines(tx *gorm.DB, dtos []InvoiceLineDTO) ([]models.InvoiceLine, error) {
	lines := make([]models.InvoiceLine, 0, len(dtos))
	for _, dto := range dtos {
		line, err := buildLine(tx, dto)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// parseInvoiceDTO binds the request body, trims it, and only then
// validates, so a whitespace-only customer is rejected like an empty one.
func parseInvoiceDTO(c *fiber.Ctx) (InvoiceCreateDTO, error) {
	var dto InvoiceCreateDTO
	if err := c.BodyParser(&dto); err != nil {
		return dto, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(&dto)
	if err := middlewares.ValidateStruct(&dto); err != nil {
		return dto, err
	}
	return dto, nil
}

// POST /api/invoice
// The invoice, its lines and the cached total are written as one
// transaction; a failing line aborts the whole write.
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	dto, err := parseInvoiceDTO(c)
	if err != nil {
		return err
	}

	var invoice models.Invoice
	err = h.db.Transaction(func(tx *gorm.DB) error {
		lines, err := buildLines(tx, dto.Lines)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			Date:     time.Now().UTC(),
			Customer: dto.Customer,
			Contact:  dto.Contact,
			Email:    dto.Email,
			Comments: dto.Comments,
			Lines:    lines,
			Total:    billing.InvoiceTotal(lines),
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return err
	}

	h.log.Info("invoice created",
		zap.Uint("id", invoice.ID),
		zap.Int("lines", len(invoice.Lines)),
		zap.Float64("total", invoice.Total),
	)
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// PUT /api/invoice/:id
// Replaces the entire line set (delete-all-then-recreate), re-snapshots
// prices from the live catalog and recomputes the cached total, all in one
// transaction. The creation date is immutable; the pre-edit state is kept as
// an InvoiceRevision.
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	dto, err := parseInvoiceDTO(c)
	if err != nil {
		return err
	}

	var invoice models.Invoice
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").Where("id = ?", id).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("invoice")
			}
			return err
		}

		if err := appendRevision(tx, &invoice); err != nil {
			return err
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}

		lines, err := buildLines(tx, dto.Lines)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = &invoice.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		invoice.Customer = dto.Customer
		invoice.Contact = dto.Contact
		invoice.Email = dto.Email
		invoice.Comments = dto.Comments
		invoice.Lines = lines
		invoice.Total = billing.InvoiceTotal(lines)

		return tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]any{
			"customer": invoice.Customer,
			"contact":  invoice.Contact,
			"email":    invoice.Email,
			"comments": invoice.Comments,
			"total":    invoice.Total,
		}).Error
	})
	if err != nil {
		return err
	}

	h.log.Info("invoice updated", zap.Uint("id", invoice.ID), zap.Float64("total", invoice.Total))
	return c.JSON(invoice)
}

// appendRevision stores the pre-edit invoice state as a JSON snapshot.
func appendRevision(tx *gorm.DB, invoice *models.Invoice) error {
	blob, err := json.Marshal(invoice)
	if err != nil {
		return err
	}
	var last int
	err = tx.Model(&models.InvoiceRevision{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(MAX(revision_no), 0)").
		Scan(&last).Error
	if err != nil {
		return err
	}
	row := models.InvoiceRevision{
		InvoiceID:  invoice.ID,
		RevisionNo: last + 1,
		Snapshot:   blob,
	}
	return tx.Create(&row).Error
}

// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var invoices []models.Invoice
	if err := h.db.Order("date DESC, id DESC").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(invoices)
}

// GET /api/invoice/:id
// Returns the invoice with its lines plus the derived sales total and
// profit, computed on read from the line snapshots.
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	invoice, err := h.find(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice":      invoice,
		"total_sales":  billing.InvoiceTotal(invoice.Lines),
		"total_profit": billing.InvoiceProfit(invoice.Lines),
	})
}

// DELETE /api/invoice/:id
// Cascades to the invoice's lines and revisions.
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	invoice, err := h.find(c)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceRevision{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, invoice.ID).Error
	})
	if err != nil {
		return err
	}

	h.log.Info("invoice deleted", zap.Uint("id", invoice.ID))
	return c.JSON(fiber.Map{"message": "invoice deleted"})
}

// GET /api/invoice/:id/revisions
func (h *InvoiceHandler) Revisions(c *fiber.Ctx) error {
	invoice, err := h.find(c)
	if err != nil {
		return err
	}

	var revisions []models.InvoiceRevision
	if err := h.db.Where("invoice_id = ?", invoice.ID).Order("revision_no").Find(&revisions).Error; err != nil {
		return err
	}
	return c.JSON(revisions)
}

func (h *InvoiceHandler) find(c *fiber.Ctx) (models.Invoice, error) {
	var invoice models.Invoice
	id, err := c.ParamsInt("id")
	if err != nil {
		return invoice, fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	err = h.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_lines.id") }).
		Preload("Lines.Product").
		Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invoice, apperrors.NotFound("invoice")
		}
		return invoice, err
	}
	return invoice, nil
}
