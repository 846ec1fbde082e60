package handler

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/domain"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
	"github.com/reflectionapp/reflection/api/internal/pkg/id"
	"github.com/reflectionapp/reflection/api/internal/validator"
)

// MaxBatchIDs bounds the id list accepted by the batch endpoint
const MaxBatchIDs = 500

// ValuesReader serves the lookups of one values dataset
type ValuesReader[T domain.ValueEntity] interface {
	GetAllForUser(ctx context.Context, email string) ([]T, error)
	GetByID(ctx context.Context, id *uuid.UUID) ([]T, error)
	GetAllByIDs(ctx context.Context, ids []*uuid.UUID) ([]T, error)
	GetOne(ctx context.Context, id *uuid.UUID) (*T, error)
}

// BatchRequest is the body of POST /batch. A null element selects records
// without an identifier.
type BatchRequest struct {
	IDs []*uuid.UUID `json:"ids" validate:"required,max=500"`
}

// ValuesResponse wraps a list of records
type ValuesResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// ValuesHandler handles the read endpoints of one values dataset
type ValuesHandler[T domain.ValueEntity] struct {
	values ValuesReader[T]
	logger *zap.Logger
}

// NewValuesHandler creates a new values handler
func NewValuesHandler[T domain.ValueEntity](values ValuesReader[T], logger *zap.Logger) *ValuesHandler[T] {
	return &ValuesHandler[T]{
		values: values,
		logger: logger,
	}
}

// RegisterRoutes registers the dataset routes on router
func (h *ValuesHandler[T]) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.ListForUser)
	router.Get("/stream", h.StreamForUser)
	router.Get("/by-id", h.ListByID)
	router.Post("/batch", h.ListByIDs)
	router.Get("/:id", h.GetOne)
}

// ListForUser handles GET / - default records plus the caller's own
func (h *ValuesHandler[T]) ListForUser(c *fiber.Ctx) error {
	email, err := RequireEmail(c)
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.values.GetAllForUser(c.UserContext(), email)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(ValuesResponse[T]{Data: records, Count: len(records)})
}

// StreamForUser handles GET /stream - same records as ListForUser, one JSON
// document per line
func (h *ValuesHandler[T]) StreamForUser(c *fiber.Ctx) error {
	email, err := RequireEmail(c)
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.values.GetAllForUser(c.UserContext(), email)
	if err != nil {
		return handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		enc := json.NewEncoder(w)
		for i := range records {
			if err := enc.Encode(records[i]); err != nil {
				h.logger.Warn("values stream aborted", zap.Error(err))
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

// ListByID handles GET /by-id?id= - default records plus the record with id.
// A missing id selects records without an identifier.
func (h *ValuesHandler[T]) ListByID(c *fiber.Ctx) error {
	recordID, err := id.ParseOptional(c.Query("id"))
	if err != nil {
		return handleError(c, apperrors.BadRequest("invalid id").WithDetail("id", c.Query("id")).WithError(err))
	}

	records, err := h.values.GetByID(c.UserContext(), recordID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(ValuesResponse[T]{Data: records, Count: len(records)})
}

// ListByIDs handles POST /batch - records whose id is listed
func (h *ValuesHandler[T]) ListByIDs(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, apperrors.BadRequest("invalid request body").WithError(err))
	}
	if err := validator.Validate(req); err != nil {
		return handleError(c, err)
	}

	records, err := h.values.GetAllByIDs(c.UserContext(), req.IDs)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(ValuesResponse[T]{Data: records, Count: len(records)})
}

// GetOne handles GET /:id - the first record with id. "null" selects a record
// without an identifier.
func (h *ValuesHandler[T]) GetOne(c *fiber.Ctx) error {
	recordID, err := id.ParseOptional(c.Params("id"))
	if err != nil {
		return handleError(c, apperrors.BadRequest("invalid id").WithDetail("id", c.Params("id")).WithError(err))
	}

	record, err := h.values.GetOne(c.UserContext(), recordID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(record)
}
