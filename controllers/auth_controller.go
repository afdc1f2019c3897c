package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salescoach/models"
	"salescoach/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAuthController(db *gorm.DB, logger *log.Logger) *AuthController {
	return &AuthController{
		DB:     db,
		Logger: logger,
	}
}

type LoginRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Mobile         string `json:"mobile" validate:"required,max=20"`
	OrganizationID string `json:"organizationId" validate:"omitempty,max=50"`
	ZoneID         string `json:"zoneId" validate:"omitempty,max=50"`
	StoreID        string `json:"storeId" validate:"omitempty,max=50"`
}

// userPayload is the identity object returned to the client, which
// persists it locally and presents it on every request.
func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":               user.ID,
		"name":             user.Name,
		"mobile":           user.Mobile,
		"organizationId":   user.OrganizationID,
		"organizationName": user.OrganizationName,
		"zoneId":           user.ZoneID,
		"storeId":          user.StoreID,
	}
}

// Login resolves a salesperson by mobile number, creating the account
// on first contact. Repeat logins update the display name and any
// supplied tags in place; the identifier never changes.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.RespondError(c, err, "Authentication failed")
	}

	var user models.User
	err := ac.DB.Where("mobile = ?", req.Mobile).First(&user).Error
	switch {
	case err == nil:
		user.Name = req.Name
		if req.OrganizationID != "" {
			user.OrganizationID = req.OrganizationID
		}
		if req.ZoneID != "" {
			user.ZoneID = req.ZoneID
		}
		if req.StoreID != "" {
			user.StoreID = req.StoreID
		}
		if err := ac.DB.Save(&user).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Authentication failed", err)
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:             req.Name,
			Mobile:           req.Mobile,
			OrganizationID:   req.OrganizationID,
			OrganizationName: models.DefaultOrganizationName,
			ZoneID:           req.ZoneID,
			StoreID:          req.StoreID,
			IsActive:         true,
		}
		if user.OrganizationID == "" {
			user.OrganizationID = models.DefaultOrganizationID
		}
		if user.ZoneID == "" {
			user.ZoneID = models.DefaultZoneID
		}
		if user.StoreID == "" {
			user.StoreID = models.DefaultStoreID
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent first login with the same mobile;
				// the other request's row wins
				if ferr := ac.DB.Where("mobile = ?", req.Mobile).First(&user).Error; ferr != nil {
					return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Authentication failed", ferr)
				}
				break
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Authentication failed", err)
		}
		ac.Logger.Printf("Created salesperson %d (%s)", user.ID, user.Mobile)

	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(&user),
	})
}

// GetProfile fetches a salesperson by id.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	var user models.User
	if err := ac.DB.First(&user, utils.ParseUint(c.Params("userId"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(&user),
	})
}
