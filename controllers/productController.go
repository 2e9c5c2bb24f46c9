package controllers

import (
	"errors"

	"invoicing-backend/apperrors"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductCreateDTO struct {
	Name         string  `json:"name" validate:"required,min=1"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
	Unit         string  `json:"unit"`
}

type ProductUpdateDTO struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	CostPrice    *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	Unit         *string  `json:"unit"`
}

type ProductHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProductHandler(db *gorm.DB, log *zap.Logger) *ProductHandler {
	return &ProductHandler{db: db, log: log}
}

// POST /api/product
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var dto ProductCreateDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	// Trim before validating so whitespace-only names are rejected, not
	// persisted as empty strings.
	utils.NormalizeDTO(&dto)
	if err := middlewares.ValidateStruct(&dto); err != nil {
		return err
	}

	product := models.Product{
		Name:         dto.Name,
		CostPrice:    dto.CostPrice,
		SellingPrice: dto.SellingPrice,
		Unit:         dto.Unit,
	}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	h.log.Info("product created", zap.String("id", product.Id), zap.String("name", product.Name))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GET /api/products
// Lists non-deleted products in catalog (creation) order.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Where("deleted = ?", false).Order("created_at, id").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/product/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.find(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// PUT /api/product/:id
// Updates name/prices/unit for *future* invoice lines only; lines already
// written keep their price snapshots.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	product, err := h.find(c.Params("id"))
	if err != nil {
		return err
	}

	var dto ProductUpdateDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)
	if err := middlewares.ValidateStruct(&dto); err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&dto)
	if len(updates) == 0 {
		return c.JSON(product)
	}
	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}
	product, err = h.find(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// DELETE /api/product/:id
// Soft delete: the row stays so existing invoice lines keep resolving.
func (h *ProductHandler) SoftDelete(c *fiber.Ctx) error {
	product, err := h.find(c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.db.Model(&product).Update("deleted", true).Error; err != nil {
		return err
	}
	h.log.Info("product soft-deleted", zap.String("id", product.Id))
	return c.JSON(fiber.Map{"message": "product deleted"})
}

func (h *ProductHandler) find(id string) (models.Product, error) {
	var product models.Product
	if err := h.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, apperrors.NotFound("product")
		}
		return product, err
	}
	return product, nil
}
