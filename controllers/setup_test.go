package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"salescoach/config"
	"salescoach/models"
	"salescoach/routes"
	"salescoach/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDB(db))
	return db
}

// stubGenerator is a canned TextGenerator that counts invocations.
type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateText(context.Context, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestApp(t *testing.T, generator utils.TextGenerator) (*fiber.App, *gorm.DB) {
	t.Helper()

	// Keep the limiter out of the way for tests
	config.AppConfig.RateLimitAnalyze = 1000

	db := setupTestDB(t)
	app := fiber.New()
	routes.SetupRoutes(app, db, generator)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, payload
}

func seedUser(t *testing.T, db *gorm.DB, name, mobile string) *models.User {
	t.Helper()

	user := models.User{
		Name:             name,
		Mobile:           mobile,
		OrganizationID:   models.DefaultOrganizationID,
		OrganizationName: models.DefaultOrganizationName,
		ZoneID:           models.DefaultZoneID,
		StoreID:          models.DefaultStoreID,
		IsActive:         true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCustomer(t *testing.T, db *gorm.DB, creator *models.User, name, phone string, lastContact time.Time) *models.Customer {
	t.Helper()

	customer := models.Customer{
		Name:            name,
		Phone:           phone,
		OrganizationID:  creator.OrganizationID,
		ZoneID:          creator.ZoneID,
		StoreID:         creator.StoreID,
		CreatedByID:     creator.ID,
		LastContactDate: lastContact,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func seedSession(t *testing.T, db *gorm.DB, user *models.User, customer *models.Customer, sessionDate time.Time) *models.SaleSession {
	t.Helper()

	session := models.SaleSession{
		SalespersonID:  user.ID,
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		CustomerPhone:  customer.Phone,
		Transcript:     "Salesperson: Hello. Customer: The price seems high.",
		Duration:       205,
		SessionDate:    sessionDate,
		OrganizationID: user.OrganizationID,
		ZoneID:         user.ZoneID,
		StoreID:        user.StoreID,
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}
