package controllers

import (
	"errors"

	"invoicing-backend/apperrors"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required,min=1"`
	LastName        string `json:"last_name" validate:"required,min=1"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateDTO struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type AuthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuthHandler(db *gorm.DB, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, log: log}
}

// POST /api/registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var dto RegisterDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	if dto.Password != dto.PasswordConfirm {
		return apperrors.Validation("passwords do not match")
	}

	var existing models.User
	err := h.db.Where("email = ?", dto.Email).First(&existing).Error
	if err == nil {
		return apperrors.Validation("email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := models.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
	}
	user.SetPassword(dto.Password)
	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	h.log.Info("user registered", zap.String("id", user.Id))
	return c.Status(fiber.StatusCreated).JSON(user)
}

// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var dto LoginDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	var user models.User
	if err := h.db.Where("email = ?", dto.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if err := user.ComparePassword(dto.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

// POST /api/logout
// Auth is a stateless Bearer token; the client just discards it.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}

// GET /api/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// PUT /api/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var dto ProfileUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	if dto.FirstName != nil {
		user.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		user.LastName = *dto.LastName
	}
	if dto.Email != nil {
		user.Email = *dto.Email
	}
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AuthHandler) currentUser(c *fiber.Ctx) (models.User, error) {
	var user models.User
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return user, fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
	}
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, apperrors.NotFound("user")
		}
		return user, err
	}
	return user, nil
}
