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

type AnalyticsController struct {
	DB       *gorm.DB
	Analyzer *utils.Analyzer
	Logger   *log.Logger
}

func NewAnalyticsController(db *gorm.DB, analyzer *utils.Analyzer, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{
		DB:       db,
		Analyzer: analyzer,
		Logger:   logger,
	}
}

// AnalyzeSession runs the analysis pipeline for a session, or returns
// the existing record when the session was already analyzed.
func (anc *AnalyticsController) AnalyzeSession(c *fiber.Ctx) error {
	sessionID := utils.ParseUint(c.Params("sessionId"))

	analytics, err := anc.Analyzer.Analyze(c.Context(), sessionID)
	if err != nil {
		return utils.RespondError(c, err, "Failed to analyze session")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"analytics": analytics,
	})
}

// GetSessionAnalytics fetches the analytics record for a session.
func (anc *AnalyticsController) GetSessionAnalytics(c *fiber.Ctx) error {
	sessionID := utils.ParseUint(c.Params("sessionId"))

	var analytics models.Analytics
	if err := anc.DB.Where("session_id = ?", sessionID).First(&analytics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Analytics not found",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch analytics", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"analytics": analytics,
	})
}

// GetCustomerAnalytics returns the full analytics history for a
// customer, newest analysis first.
func (anc *AnalyticsController) GetCustomerAnalytics(c *fiber.Ctx) error {
	customerID := utils.ParseUint(c.Params("customerId"))

	var analytics []models.Analytics
	if err := anc.DB.Where("customer_id = ?", customerID).
		Order("analysis_date DESC").
		Find(&analytics).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customer analytics", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"analytics": analytics,
	})
}

type FollowupRequest struct {
	CustomerReply string `json:"customerReply" validate:"required"`
}

// RegenerateFollowup rebuilds the follow-up message from the customer's
// reply. When the model is unavailable the templated fallback is
// returned with a note instead of an error.
func (anc *AnalyticsController) RegenerateFollowup(c *fiber.Ctx) error {
	var req FollowupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.RespondError(c, err, "Failed to generate follow-up")
	}

	sessionID := utils.ParseUint(c.Params("sessionId"))

	message, usedFallback, err := anc.Analyzer.RegenerateFollowup(c.Context(), sessionID, req.CustomerReply)
	if err != nil {
		return utils.RespondError(c, err, "Failed to generate follow-up")
	}

	response := fiber.Map{
		"success":         true,
		"followupMessage": message,
	}
	if usedFallback {
		response["note"] = "Follow-up generated using fallback system"
	}
	return c.JSON(response)
}

// GetSalespersonStats aggregates a salesperson's analytics within the
// trailing window given by the period query parameter (days, default
// 30).
func (anc *AnalyticsController) GetSalespersonStats(c *fiber.Ctx) error {
	salespersonID := utils.ParseUint(c.Params("salespersonId"))

	period, err := strconv.Atoi(c.Query("period", "30"))
	if err != nil || period < 1 {
		period = 30
	}
	dateFrom := time.Now().AddDate(0, 0, -period)

	var records []models.Analytics
	if err := anc.DB.Where("salesperson_id = ? AND analysis_date >= ?", salespersonID, dateFrom).
		Find(&records).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch analytics stats", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   utils.ComputeSalespersonStats(records),
	})
}
