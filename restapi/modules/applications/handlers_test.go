package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
)

func newTestApp(inventory Inventory) *fiber.App {
	app := fiber.New()
	app.Get("/api/v1/applications", auth.RequireAuth, List(inventory))
	app.Post("/api/v1/applications", auth.RequireAuth, Create(inventory))
	app.Delete("/api/v1/applications", auth.RequireAuth, Delete(inventory))
	return app
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := auth.GenerateJWT("alice")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeApplication(t *testing.T, resp *http.Response) model.Application {
	t.Helper()
	var app model.Application
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&app))
	return app
}

func TestCreateListDeleteRestoreFlow(t *testing.T) {
	app := newTestApp(NewMemoryInventory())
	body := []byte(`{"name":"nginx","vendor":"F5","version":"1.27.0","category":"web server"}`)

	// create
	resp, err := app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeApplication(t, resp)
	assert.NotEmpty(t, created.Key)
	assert.Equal(t, "alice", created.UserID)
	require.NotNil(t, created.VersionMajor)
	assert.Equal(t, 1, *created.VersionMajor)

	// duplicate of an active record conflicts
	resp, err = app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// listed while active
	resp, err = app.Test(authedRequest(t, fiber.MethodGet, "/api/v1/applications", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed []model.Application
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)

	// soft delete
	resp, err = app.Test(authedRequest(t, fiber.MethodDelete, "/api/v1/applications?id="+created.Key, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// gone from the list
	resp, err = app.Test(authedRequest(t, fiber.MethodGet, "/api/v1/applications", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Empty(t, listed)

	// re-adding the same identity restores under the original id with 200
	resp, err = app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	restored := decodeApplication(t, resp)
	assert.Equal(t, created.Key, restored.Key)
	assert.False(t, restored.Deleted)
}

func TestCreateConflictAndRestoreWithoutVersion(t *testing.T) {
	app := newTestApp(NewMemoryInventory())
	body := []byte(`{"name":"nginx","vendor":"F5"}`)

	resp, err := app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeApplication(t, resp)
	assert.Empty(t, created.Version)

	// version-less identity tuples conflict like any other
	resp, err = app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(authedRequest(t, fiber.MethodDelete, "/api/v1/applications?id="+created.Key, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// and restore under the original id, never a fresh insert
	resp, err = app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	restored := decodeApplication(t, resp)
	assert.Equal(t, created.Key, restored.Key)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"vendor":"F5"}`},
		{name: "blank name", body: `{"name":"   ","vendor":"F5"}`},
		{name: "missing vendor", body: `{"name":"nginx"}`},
		{name: "malformed json", body: `{"name":`},
	}

	app := newTestApp(NewMemoryInventory())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(authedRequest(t, fiber.MethodPost, "/api/v1/applications", []byte(tt.body)))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestDeleteValidation(t *testing.T) {
	inventory := NewMemoryInventory()
	app := newTestApp(inventory)

	// missing id
	resp, err := app.Test(authedRequest(t, fiber.MethodDelete, "/api/v1/applications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// unknown id
	resp, err = app.Test(authedRequest(t, fiber.MethodDelete, "/api/v1/applications?id=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteForeignApplicationIsNotFound(t *testing.T) {
	inventory := NewMemoryInventory()
	bob := model.NewApplication("bob", "redis", "Redis Ltd", "7.4.0", "cache")
	_, err := inventory.CreateOrRestore(context.Background(), bob)
	require.NoError(t, err)

	app := newTestApp(inventory)
	resp, err := app.Test(authedRequest(t, fiber.MethodDelete, "/api/v1/applications?id="+bob.Key, nil))
	require.NoError(t, err)
	// indistinguishable from a missing record
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	app := newTestApp(NewMemoryInventory())

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/applications", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/applications", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
