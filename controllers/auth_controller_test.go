package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginCreatesSalespersonWithDefaultTags(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	status, payload := doJSON(t, app, http.MethodPost, "/auth/login", map[string]interface{}{
		"name":   "Asha",
		"mobile": "9998887776",
	})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])

	user := payload["user"].(map[string]interface{})
	assert.Equal(t, "Asha", user["name"])
	assert.Equal(t, "9998887776", user["mobile"])
	assert.Equal(t, "ORG001", user["organizationId"])
	assert.Equal(t, "TechCorp Solutions", user["organizationName"])
	assert.Equal(t, "ZONE001", user["zoneId"])
	assert.Equal(t, "STORE001", user["storeId"])
	assert.NotZero(t, user["id"])
}

func TestLoginUpdatesExistingSalesperson(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	_, first := doJSON(t, app, http.MethodPost, "/auth/login", map[string]interface{}{
		"name":   "Asha",
		"mobile": "9998887776",
	})

	status, second := doJSON(t, app, http.MethodPost, "/auth/login", map[string]interface{}{
		"name":   "Asha K",
		"mobile": "9998887776",
		"zoneId": "ZONE042",
	})

	require.Equal(t, http.StatusOK, status)

	firstUser := first["user"].(map[string]interface{})
	secondUser := second["user"].(map[string]interface{})

	assert.Equal(t, firstUser["id"], secondUser["id"], "identifier never changes for the same mobile")
	assert.Equal(t, "Asha K", secondUser["name"])
	assert.Equal(t, "ZONE042", secondUser["zoneId"])
}

func TestLoginRequiresNameAndMobile(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	status, payload := doJSON(t, app, http.MethodPost, "/auth/login", map[string]interface{}{
		"name": "Asha",
	})

	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", payload["error"])
	assert.Contains(t, payload["message"], "mobile")
}

func TestGetProfile(t *testing.T) {
	app, db := newTestApp(t, &stubGenerator{})
	user := seedUser(t, db, "Asha", "9998887776")

	status, payload := doJSON(t, app, http.MethodGet, fmt.Sprintf("/auth/profile/%d", user.ID), nil)

	require.Equal(t, http.StatusOK, status)
	got := payload["user"].(map[string]interface{})
	assert.Equal(t, "Asha", got["name"])
}

func TestGetProfileNotFound(t *testing.T) {
	app, _ := newTestApp(t, &stubGenerator{})

	status, payload := doJSON(t, app, http.MethodGet, "/auth/profile/999", nil)

	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", payload["error"])
}
