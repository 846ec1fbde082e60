package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/pkg/circuitbreaker"
	"github.com/reflectionapp/reflection/api/internal/repository"
	"github.com/reflectionapp/reflection/api/internal/repository/memory"
	"github.com/reflectionapp/reflection/api/internal/testutil"
)

func setupApp(t *testing.T) (*fiber.App, *Dependencies) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", Version: "test", BodyLimit: 1 << 20},
		Store:  config.StoreConfig{Backend: config.BackendMemory},
		JWT:    config.JWTConfig{Secret: "test-secret", Issuer: "reflection", Expiry: time.Hour},
	}

	backend := memory.New()
	scenario := testutil.NewScenario()
	scenario.SeedConfidence(t, backend)
	scenario.SeedEnergy(t, backend)
	scenario.SeedFocus(t, backend)

	store := repository.NewGuardedStore(config.BackendMemory, backend,
		circuitbreaker.NewRegistry(circuitbreaker.Config{}), 0, zap.NewNop())

	deps := newDependencies(cfg, zap.NewNop(), store)
	t.Cleanup(deps.Close)
	return newApp(deps), deps
}

func get(t *testing.T, app *fiber.App, path, token string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRoutes_HealthIsPublic(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/health", "/livez", "/readyz", "/version", "/metrics", "/openapi.yaml"} {
		resp, _ := get(t, app, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRoutes_V1RequiresToken(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := get(t, app, "/v1/values/confidence", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, app, "/v1/tables", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_ValuesForUser(t *testing.T) {
	app, deps := setupApp(t)

	token, err := deps.AuthService.IssueToken(testutil.EmailU2, "U2")
	require.NoError(t, err)

	for _, dataset := range []string{"confidence", "energy", "focus"} {
		resp, body := get(t, app, "/v1/values/"+dataset, token)
		require.Equal(t, http.StatusOK, resp.StatusCode, dataset)

		var out struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, 2, out.Count, dataset)
	}
}

func TestRoutes_GetOneNotFound(t *testing.T) {
	app, deps := setupApp(t)

	token, err := deps.AuthService.IssueToken(testutil.EmailU1, "U1")
	require.NoError(t, err)

	resp, _ := get(t, app, "/v1/values/focus/"+testutil.NewScenario().Missing.String(), token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_Tables(t *testing.T) {
	app, deps := setupApp(t)

	token, err := deps.AuthService.IssueToken(testutil.EmailU1, "U1")
	require.NoError(t, err)

	resp, _ := get(t, app, "/v1/tables/EnergyData", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, app, "/v1/tables/Unknown", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_UnknownRoute(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := get(t, app, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Cannot GET /nope")
}

func TestInitDependencies_AppliesSeedFile(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", Version: "test", BodyLimit: 1 << 20},
		Store:  config.StoreConfig{Backend: config.BackendMemory, SeedFile: "testdata/seed.yaml"},
		JWT:    config.JWTConfig{Secret: "test-secret", Issuer: "reflection", Expiry: time.Hour},
	}

	deps, err := initDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	app := newApp(deps)

	token, err := deps.AuthService.IssueToken(testutil.EmailU2, "U2")
	require.NoError(t, err)

	want := map[string]int{"confidence": 2, "energy": 1, "focus": 0}
	for dataset, count := range want {
		resp, body := get(t, app, "/v1/values/"+dataset, token)
		require.Equal(t, http.StatusOK, resp.StatusCode, dataset)

		var out struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, count, out.Count, dataset)
	}

	resp, _ := get(t, app, "/v1/values/energy/2b000000-0000-4000-8000-000000000002", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInitDependencies_BadSeedFile(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendMemory, SeedFile: "testdata/missing.yaml"},
	}

	_, err := initDependencies(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed file")
}
