package handlers_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/http/handlers"
)

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())

	// Routes that trigger an internal error
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/v1/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Use(handlers.Fallback)

	var resp *httpResponse
	entries := captureLogs(t, func() {
		resp = get(t, app, "/err")
	})
	assert.Equal(t, fiber.StatusInternalServerError, resp.code)
	assert.Contains(t, resp.body, "Something went wrong")
	assert.NotContains(t, resp.body, "secret")
	e, ok := findLog(entries, "server.error")
	require.True(t, ok)
	assert.Contains(t, e.Err, "db timeout")

	resp = get(t, app, "/api/v1/err")
	assert.Equal(t, fiber.StatusInternalServerError, resp.code)
	assert.JSONEq(t, `{"error":"request failed"}`, resp.body)

	resp = get(t, app, "/nowhere")
	assert.Equal(t, fiber.StatusNotFound, resp.code)
	assert.Contains(t, resp.body, "Page not found")

	resp = get(t, app, "/api/v1/nowhere")
	assert.Equal(t, fiber.StatusNotFound, resp.code)
	assert.JSONEq(t, `{"error":"not found"}`, resp.body)
}

type httpResponse struct {
	code int
	body string
}

func get(t *testing.T, app *fiber.App, path string) *httpResponse {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &httpResponse{code: resp.StatusCode, body: string(b)}
}
