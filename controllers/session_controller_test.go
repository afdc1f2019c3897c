package controller_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescoach/models"
)

func createSessionBody(salespersonID uint) map[string]interface{} {
	return map[string]interface{}{
		"salespersonId": salespersonID,
		"customerName":  "Ravi",
		"customerPhone": "8887776665",
		"transcript":    "Salesperson: Hello. Customer: The price seems high.",
		"duration":      205,
	}
}

func TestCreateSessionDeduplicatesCustomer(t *testing.T) {
	app, db := newTestApp(t, &stubGenerator{})
	user := seedUser(t, db, "Asha", "9998887776")

	for i := 0; i < 2; i++ {
		status, payload := doJSON(t, app, http.MethodPost, "/sessions", createSessionBody(user.ID))
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, payload["success"])
	}

	var customerCount int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customerCount).Error)
	assert.EqualValues(t, 1, customerCount, "same (name, phone, organization) must stay one customer")

	var customer models.Customer
	require.NoError(t, db.Where("name = ? AND phone = ?", "Ravi", "8887776665").First(&customer).Error)
	assert.Equal(t, 2, customer.TotalSessions)

	var sessionCount int64
	require.NoError(t, db.Model(&models.SaleSession{}).Count(&sessionCount).Error)
	assert.EqualValues(t, 2, sessionCount)
}

func TestCreateSessionInheritsSalespersonTags(t *testing.T) {
	app, db := newTestApp(t, &stubGenerator{})
	user := seedUser(t, db, "Asha", "9998887776")

	status, payload := doJSON(t, app, http.MethodPost, "/sessions", createSessionBody(user.ID))
	require.Equal(t, http.StatusOK, status)

	sessionID := uint(payload["session"].(map[string]interface{})["id"].(float64))

	var session models.SaleSession
	require.NoError(t, db.First(&session, sessionID).Error)
	assert.Equal(t, user.OrganizationID, session.OrganizationID)
	assert.Equal(t, user.ZoneID, session.ZoneID)
	assert.Equal(t, user.StoreID, session.StoreID)
	assert.False(t, session.IsAnalyzed)

	var customer models.Customer
	require.NoError(t, db.First(&customer, session.CustomerID).Error)
	assert.Equal(t, user.ID, customer.CreatedByID)
	assert.Equal(t, user.OrganizationID, customer.OrganizationID)
}

func TestCreateSessionRequiresFields(t *testing.T) {
	app, db := newTestApp(t, &stubGenerator{})
	user := seedUser(t, db, "Asha", "9998887776")

	body := createSessionBody(user.ID)
	delete(body, "transcript")

	status, payload := doJSON(t, app, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", payload["error"])
}

func TestCreateSessionUnknownSalesperson(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	status, payload := doJSON(t, app, http.MethodPost, "/sessions", createSessionBody(999))
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Salesperson not found", payload["error"])
}

func TestGetSessionsNewestFirstPaginated(t *testing.T) {
	app, db := newTestApp(t, &stubGenerator{})
	user := seedUser(t, db, "Asha", "9998887776")
	customer := seedCustomer(t, db, user, "Ravi", "8887776665", time.Now())

	base := time.Now().Add(-time.Hour)
	oldest := seedSession(t, db, user, customer, base)
	middle := seedSession(t, db, user, customer, base.Add(10*time.Minute))
	newest := seedSession(t, db, user, customer, base.Add(20*time.Minute))

	status, payload := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/sessions/salesperson/%d?page=1&limit=2", user.ID), nil)
	require.Equal(t, http.StatusOK, status)

	sessions := payload["sessions"].([]interface{})
	require.Len(t, sessions, 2)
	assert.EqualValues(t, newest.ID, sessions[0].(map[string]interface{})["id"])
	assert.EqualValues(t, middle.ID, sessions[1].(map[string]interface{})["id"])

	status, payload = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/sessions/salesperson/%d?page=2&limit=2", user.ID), nil)
	require.Equal(t, http.StatusOK, status)

	sessions = payload["sessions"].([]interface{})
	require.Len(t, sessions, 1)
	assert.EqualValues(t, oldest.ID, sessions[0].(map[string]interface{})["id"])
}

func TestGetSessionNotFound(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	status, payload := doJSON(t, app, http.MethodGet, "/sessions/999", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Session not found", payload["error"])
}
