package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

func TestTablesHandler(t *testing.T) {
	h := NewTablesHandler()
	app := fiber.New()
	app.Get("/v1/tables", h.ListTables)
	app.Get("/v1/tables/:name", h.GetTable)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/tables", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list struct {
		Data  []domain.Table `json:"data"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 8, list.Count)
	assert.Equal(t, domain.Tables(), list.Data)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/tables/RecurssionData", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var table domain.Table
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	assert.Equal(t, "RecurssionData", table.PartitionKey)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/tables/MoodData", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
