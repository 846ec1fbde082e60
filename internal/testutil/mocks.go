// Package testutil provides shared test utilities for the values API.
package testutil

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/middleware"
)

// MockStore is a mock implementation of the table store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TableEntity), args.Error(1)
}

func (m *MockStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	args := m.Called(ctx, table, entity)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTelemetry is a mock implementation of telemetry.Client
type MockTelemetry struct {
	mock.Mock
}

func (m *MockTelemetry) TrackEvent(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockTelemetry) TrackException(ctx context.Context, err error) {
	m.Called(ctx, err)
}

// NewMockTelemetry returns a MockTelemetry that accepts any call
func NewMockTelemetry() *MockTelemetry {
	m := new(MockTelemetry)
	m.On("TrackEvent", mock.Anything, mock.Anything).Return()
	m.On("TrackException", mock.Anything, mock.Anything).Return()
	return m
}

// TestEmailMiddleware creates a middleware that sets the caller's email in context.
// Use this in tests to simulate authenticated requests.
func TestEmailMiddleware(email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(string(middleware.ContextKeyEmail), email)
		return c.Next()
	}
}
