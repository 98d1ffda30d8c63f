package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	healthy := true
	app := fiber.New()
	app.Get("/live", LivenessProbe)
	app.Get("/startup", StartupProbe)
	app.Get("/ready", ReadinessProbe(func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	}))

	for path, want := range map[string]int{"/live": 200, "/startup": 200, "/ready": 200} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}

	healthy = false
	resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "connection refused")
}

func TestSwagger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.3\n"), 0o644))

	app := fiber.New()
	app.Get("/docs", SwaggerUI)
	app.Get("/docs/openapi.yaml", SwaggerSpec(path))
	app.Get("/docs/missing.yaml", SwaggerSpec(filepath.Join(t.TempDir(), "nope.yaml")))

	resp, err := app.Test(httptest.NewRequest("GET", "/docs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "/docs/openapi.yaml")

	resp, err = app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "openapi: 3.0.3\n", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/docs/missing.yaml", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestDefaultSpecIsShipped(t *testing.T) {
	_, err := os.Stat(filepath.Join("..", "..", "..", DefaultSpecPath))
	assert.NoError(t, err)
}
