package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	apphttp "github.com/jhoicas/catalog-exchange/internal/interfaces/http"
)

func newErrorApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop()), BodyLimit: 8})
	app.Use(recover.New())
	app.All("/exchange/:companyId", func(c *fiber.Ctx) error {
		if c.Query("mode") == "boom" {
			panic("nil map")
		}
		return errors.New("pgx: connection reset")
	})
	app.Get("/api/boom", func(c *fiber.Ctx) error { panic("nil map") })
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var b bytes.Buffer
	_, err = b.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, b.String()
}

func TestErrorHandler_Exchange(t *testing.T) {
	app := newErrorApp()

	tests := []struct {
		name   string
		req    *http.Request
		status int
		body   string
	}{
		{"panic en el handler", httptest.NewRequest(http.MethodGet, "/exchange/c1?mode=boom", nil),
			http.StatusInternalServerError, "ERROR\nserver error"},
		{"error devuelto", httptest.NewRequest(http.MethodGet, "/exchange/c1?mode=init", nil),
			http.StatusInternalServerError, "ERROR\nserver error"},
		{"ruta inexistente", httptest.NewRequest(http.MethodGet, "/exchange/c1/extra", nil),
			http.StatusNotFound, "ERROR\ncannot get /exchange/c1/extra"},
		{"cuerpo demasiado grande", httptest.NewRequest(http.MethodPost, "/exchange/c1?mode=file&filename=import.xml",
			strings.NewReader(strings.Repeat("x", 64))),
			http.StatusRequestEntityTooLarge, "ERROR\nrequest entity too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := send(t, app, tt.req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, body)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
		})
	}
}

func TestErrorHandler_APIRespondeJSON(t *testing.T) {
	app := newErrorApp()

	resp, body := send(t, app, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", out.Code)
	assert.Equal(t, "server error", out.Message)

	resp, body = send(t, app, httptest.NewRequest(http.MethodGet, "/api/nada", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
}
