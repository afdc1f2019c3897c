package controller

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salescoach/models"
	"salescoach/utils"
)

type SessionController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewSessionController(db *gorm.DB, logger *log.Logger) *SessionController {
	return &SessionController{
		DB:     db,
		Logger: logger,
	}
}

type CreateSessionRequest struct {
	SalespersonID  uint   `json:"salespersonId" validate:"required"`
	CustomerName   string `json:"customerName" validate:"required,max=100"`
	CustomerPhone  string `json:"customerPhone" validate:"required,max=20"`
	Transcript     string `json:"transcript" validate:"required"`
	Duration       int    `json:"duration" validate:"required,gte=0"`
	OrganizationID string `json:"organizationId" validate:"omitempty,max=50"`
	ZoneID         string `json:"zoneId" validate:"omitempty,max=50"`
	StoreID        string `json:"storeId" validate:"omitempty,max=50"`
}

// CreateSession records a finished conversation. The customer is
// deduplicated by (name, phone, organization) and its contact counter
// incremented once; session tags inherit from the salesperson unless
// overridden in the request.
func (sc *SessionController) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.RespondError(c, err, "Failed to create session")
	}

	var salesperson models.User
	if err := sc.DB.First(&salesperson, req.SalespersonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Salesperson not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session", err)
	}

	organizationID := req.OrganizationID
	if organizationID == "" {
		organizationID = salesperson.OrganizationID
	}
	zoneID := req.ZoneID
	if zoneID == "" {
		zoneID = salesperson.ZoneID
	}
	storeID := req.StoreID
	if storeID == "" {
		storeID = salesperson.StoreID
	}

	customer, err := findOrCreateCustomer(sc.DB, req.CustomerName, req.CustomerPhone,
		organizationID, zoneID, storeID, salesperson.ID)
	if err != nil {
		return utils.RespondError(c, err, "Failed to create session")
	}

	if err := recordContact(sc.DB, customer); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session", err)
	}

	session := models.SaleSession{
		SalespersonID:  salesperson.ID,
		CustomerID:     customer.ID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Transcript:     req.Transcript,
		Duration:       req.Duration,
		SessionDate:    time.Now(),
		OrganizationID: organizationID,
		ZoneID:         zoneID,
		StoreID:        storeID,
	}

	if err := sc.DB.Create(&session).Error; err != nil {
		utils.LogError("session_create", err, map[string]interface{}{
			"salesperson_id": salesperson.ID,
			"customer_id":    customer.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session", err)
	}

	sc.Logger.Printf("Session %d created for salesperson %d, customer %d",
		session.ID, salesperson.ID, customer.ID)

	return c.JSON(fiber.Map{
		"success": true,
		"session": fiber.Map{
			"id":            session.ID,
			"customerName":  session.CustomerName,
			"customerPhone": session.CustomerPhone,
			"duration":      session.Duration,
			"sessionDate":   session.SessionDate,
		},
	})
}

// GetSessions returns a salesperson's sessions, newest first, paginated.
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	salespersonID := utils.ParseUint(c.Params("salespersonId"))

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var sessions []models.SaleSession
	if err := sc.DB.Where("salesperson_id = ?", salespersonID).
		Order("session_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch sessions", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": sessions,
	})
}

// GetSession fetches one session by id.
func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	var session models.SaleSession
	if err := sc.DB.First(&session, utils.ParseUint(c.Params("sessionId"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch session", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}
