package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reflectionapp/reflection/api/internal/domain"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
)

// TablesHandler lists the partition key registry
type TablesHandler struct{}

// NewTablesHandler creates a new tables handler
func NewTablesHandler() *TablesHandler {
	return &TablesHandler{}
}

// ListTables handles GET /v1/tables
func (h *TablesHandler) ListTables(c *fiber.Ctx) error {
	tables := domain.Tables()
	return c.JSON(fiber.Map{
		"data":  tables,
		"count": len(tables),
	})
}

// GetTable handles GET /v1/tables/:name
func (h *TablesHandler) GetTable(c *fiber.Ctx) error {
	table, ok := domain.LookupTable(c.Params("name"))
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, apperrors.CodeNotFound, "table not found")
	}
	return c.JSON(table)
}
