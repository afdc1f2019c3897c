package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salescoach/models"
	"salescoach/utils"
)

type CustomerController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCustomerController(db *gorm.DB, logger *log.Logger) *CustomerController {
	return &CustomerController{
		DB:     db,
		Logger: logger,
	}
}

// findOrCreateCustomer deduplicates customers by the (name, phone,
// organization) triple. A duplicate-key failure means a concurrent
// request created the same customer first; the lookup is retried
// instead of surfacing the conflict.
func findOrCreateCustomer(db *gorm.DB, name, phone, organizationID, zoneID, storeID string, creatorID uint) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("name = ? AND phone = ? AND organization_id = ?", name, phone, organizationID).
		First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		Name:            name,
		Phone:           phone,
		OrganizationID:  organizationID,
		ZoneID:          zoneID,
		StoreID:         storeID,
		CreatedByID:     creatorID,
		LastContactDate: time.Now(),
	}
	if err := db.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if ferr := db.Where("name = ? AND phone = ? AND organization_id = ?", name, phone, organizationID).
				First(&customer).Error; ferr != nil {
				return nil, &utils.ConflictError{Message: "customer created concurrently: " + ferr.Error()}
			}
			return &customer, nil
		}
		return nil, err
	}
	return &customer, nil
}

// recordContact increments the session counter and stamps the last
// contact time. Called exactly once per new session, never
// retroactively. The increment happens in SQL so concurrent session
// creations for the same customer cannot lose a count.
func recordContact(db *gorm.DB, customer *models.Customer) error {
	now := time.Now()
	if err := db.Model(customer).Updates(map[string]interface{}{
		"total_sessions":    gorm.Expr("total_sessions + ?", 1),
		"last_contact_date": now,
	}).Error; err != nil {
		return err
	}
	customer.TotalSessions++
	customer.LastContactDate = now
	return nil
}

// GetCustomers returns customers matching the query filters, most
// recently contacted first.
func (cc *CustomerController) GetCustomers(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Customer{})

	if organizationID := c.Query("organizationId"); organizationID != "" {
		query = query.Where("organization_id = ?", organizationID)
	}
	if salespersonID := c.Query("salespersonId"); salespersonID != "" {
		query = query.Where("created_by_id = ?", utils.ParseUint(salespersonID))
	}
	// Strict filtering by name and phone when provided
	if name := c.Query("name"); name != "" {
		query = query.Where("name = ?", name)
	}
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone = ?", phone)
	}

	var customers []models.Customer
	if err := query.Order("last_contact_date DESC").Find(&customers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customers", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"customers": customers,
	})
}

// GetCustomer fetches one customer by id.
func (cc *CustomerController) GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := cc.DB.First(&customer, utils.ParseUint(c.Params("customerId"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Customer not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customer", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"customer": customer,
	})
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateCustomerNotes replaces the free-text notes in full, no merge.
func (cc *CustomerController) UpdateCustomerNotes(c *fiber.Ctx) error {
	var req UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, utils.ParseUint(c.Params("customerId"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Customer not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notes", err)
	}

	if err := cc.DB.Model(&customer).Update("notes", req.Notes).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notes", err)
	}
	customer.Notes = req.Notes

	return c.JSON(fiber.Map{
		"success":  true,
		"customer": customer,
	})
}
