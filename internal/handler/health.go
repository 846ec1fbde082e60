package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reflectionapp/reflection/api/internal/pkg/circuitbreaker"
)

// StoreChecker reports the table store's health
type StoreChecker interface {
	Ping(ctx context.Context) error
	Backend() string
	Breakers() []circuitbreaker.Snapshot
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store     StoreChecker
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StoreChecker, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatus represents health check status
type HealthStatus struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version"`
	Uptime    string                    `json:"uptime"`
	Timestamp string                    `json:"timestamp"`
	Backend   string                    `json:"backend"`
	Checks    map[string]string         `json:"checks"`
	Breakers  []circuitbreaker.Snapshot `json:"breakers"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Backend:   h.store.Backend(),
		Checks:    make(map[string]string),
		Breakers:  h.store.Breakers(),
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["store"] = "unhealthy: " + err.Error()
	} else {
		status.Checks["store"] = "healthy"
	}

	for _, b := range status.Breakers {
		if b.State != circuitbreaker.StateOpen.String() {
			continue
		}
		status.Checks[b.Name] = b.State
		if status.Status == "healthy" {
			status.Status = "degraded"
		}
	}

	statusCode := fiber.StatusOK
	if status.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(status)
}

// Liveness handles GET /livez - basic liveness probe
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// Readiness handles GET /readyz - readiness probe
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"reason": h.store.Backend() + " unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/livez", h.Liveness)
	app.Get("/readyz", h.Readiness)
	app.Get("/version", h.Version)
}
