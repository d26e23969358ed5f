package middleware

import (
	"net/http/httptest"
	"testing"

	"Grocery-Tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(jwtService jwt.JWTService) *fiber.App {
	m := NewMiddleware()
	app := fiber.New()
	app.Use(m.MetricsMiddleware())
	app.Get("/me", m.AuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	app.Post("/admin", m.AuthMiddleware(jwtService), m.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret")
	app := newTestApp(jwtService)

	token, err := jwtService.GenerateTokenUser("7d0c5bb4-6f0e-4b8a-9d35-6a9a0f7f0a11", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret")
	app := newTestApp(jwtService)

	userToken, err := jwtService.GenerateTokenUser("7d0c5bb4-6f0e-4b8a-9d35-6a9a0f7f0a11", "user")
	require.NoError(t, err)
	adminToken, err := jwtService.GenerateTokenUser("7d0c5bb4-6f0e-4b8a-9d35-6a9a0f7f0a12", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
