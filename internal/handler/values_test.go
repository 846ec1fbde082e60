package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/domain"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
	"github.com/reflectionapp/reflection/api/internal/repository/memory"
	"github.com/reflectionapp/reflection/api/internal/service"
	"github.com/reflectionapp/reflection/api/internal/testutil"
)

func setupConfidenceApp(t *testing.T, email string) (*fiber.App, testutil.Scenario) {
	t.Helper()

	store := memory.New()
	sc := testutil.NewScenario()
	sc.SeedConfidence(t, store)

	svcs := service.NewValuesServices(store, testutil.NewMockTelemetry(), zap.NewNop())

	app := fiber.New()
	if email != "" {
		app.Use(testutil.TestEmailMiddleware(email))
	}
	NewValuesHandler[domain.ConfidenceValue](svcs.Confidence, zap.NewNop()).
		RegisterRoutes(app.Group("/v1/values/confidence"))
	return app, sc
}

func decodeList(t *testing.T, body io.Reader) ValuesResponse[domain.ConfidenceValue] {
	t.Helper()
	var resp ValuesResponse[domain.ConfidenceValue]
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func recordValues(records []domain.ConfidenceValue) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out
}

func TestValuesHandler_ListForUser(t *testing.T) {
	tests := []struct {
		email  string
		values []string
	}{
		{email: testutil.EmailU2, values: []string{"Steady", "Shaky"}},
		{email: testutil.EmailU3, values: []string{"Steady"}},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			app, _ := setupConfidenceApp(t, tt.email)

			resp, err := app.Test(httptest.NewRequest("GET", "/v1/values/confidence", nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			list := decodeList(t, resp.Body)
			assert.Equal(t, tt.values, recordValues(list.Data))
			assert.Equal(t, len(tt.values), list.Count)
		})
	}
}

func TestValuesHandler_RequiresEmail(t *testing.T) {
	app, _ := setupConfidenceApp(t, "")

	for _, path := range []string{"/v1/values/confidence", "/v1/values/confidence/stream"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestValuesHandler_StreamForUser(t *testing.T) {
	app, _ := setupConfidenceApp(t, testutil.EmailU2)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/values/confidence/stream", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get(fiber.HeaderContentType))

	var got []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var rec domain.ConfidenceValue
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec.Value)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"Steady", "Shaky"}, got)
}

func TestValuesHandler_ListByID(t *testing.T) {
	app, sc := setupConfidenceApp(t, testutil.EmailU3)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/values/confidence/by-id?id="+sc.B.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Steady", "Shaky"}, recordValues(decodeList(t, resp.Body).Data))

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/values/confidence/by-id", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Steady"}, recordValues(decodeList(t, resp.Body).Data))

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/values/confidence/by-id?id=not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestValuesHandler_ListByIDs(t *testing.T) {
	app, sc := setupConfidenceApp(t, testutil.EmailU3)

	tests := []struct {
		name   string
		body   string
		status int
		values []string
	}{
		{name: "listed id only", body: `{"ids":["` + sc.B.String() + `"]}`, status: 200, values: []string{"Shaky"}},
		{name: "both ids", body: `{"ids":["` + sc.A.String() + `","` + sc.B.String() + `"]}`, status: 200, values: []string{"Steady", "Shaky"}},
		{name: "null matches nothing here", body: `{"ids":[null]}`, status: 200, values: []string{}},
		{name: "missing ids", body: `{}`, status: 400},
		{name: "bad uuid", body: `{"ids":["nope"]}`, status: 400},
		{name: "malformed body", body: `{`, status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/values/confidence/batch", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)

			if tt.status == 200 {
				assert.Equal(t, tt.values, recordValues(decodeList(t, resp.Body).Data))
			}
		})
	}
}

func TestValuesHandler_BatchLimit(t *testing.T) {
	app, _ := setupConfidenceApp(t, testutil.EmailU3)

	ids := make([]string, MaxBatchIDs+1)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	body, err := json.Marshal(map[string][]string{"ids": ids})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/v1/values/confidence/batch", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, apperrors.CodeValidation, errResp.Code)
	require.Len(t, errResp.Fields, 1)
	assert.Equal(t, "ids", errResp.Fields[0].Field)
}

func TestValuesHandler_GetOne(t *testing.T) {
	app, sc := setupConfidenceApp(t, testutil.EmailU3)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/values/confidence/"+sc.B.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rec domain.ConfidenceValue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "Shaky", rec.Value)
	assert.Equal(t, sc.B, *rec.ConfidenceDataID)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/values/confidence/"+sc.Missing.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/values/confidence/null", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/values/confidence/xyz", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, apperrors.CodeBadRequest, errResp.Code)
	assert.Equal(t, "xyz", errResp.Details["id"])
}

// MockValuesReader is a mock implementation of ValuesReader
type MockValuesReader struct {
	mock.Mock
}

func (m *MockValuesReader) GetAllForUser(ctx context.Context, email string) ([]domain.FocusValue, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FocusValue), args.Error(1)
}

func (m *MockValuesReader) GetByID(ctx context.Context, id *uuid.UUID) ([]domain.FocusValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FocusValue), args.Error(1)
}

func (m *MockValuesReader) GetAllByIDs(ctx context.Context, ids []*uuid.UUID) ([]domain.FocusValue, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FocusValue), args.Error(1)
}

func (m *MockValuesReader) GetOne(ctx context.Context, id *uuid.UUID) (*domain.FocusValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FocusValue), args.Error(1)
}

func TestValuesHandler_StoreUnavailable(t *testing.T) {
	unavailable := apperrors.StoreUnavailable("FocusData is unavailable").WithError(errors.New("dial tcp: refused"))

	reader := new(MockValuesReader)
	reader.On("GetAllForUser", mock.Anything, testutil.EmailU1).Return(nil, unavailable)
	reader.On("GetByID", mock.Anything, (*uuid.UUID)(nil)).Return(nil, unavailable)
	reader.On("GetOne", mock.Anything, (*uuid.UUID)(nil)).Return(nil, unavailable)

	app := fiber.New()
	app.Use(testutil.TestEmailMiddleware(testutil.EmailU1))
	NewValuesHandler[domain.FocusValue](reader, zap.NewNop()).RegisterRoutes(app.Group("/focus"))

	for _, path := range []string{"/focus", "/focus/stream", "/focus/by-id", "/focus/null"} {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, apperrors.CodeStoreUnavailable, errResp.Code)
			assert.NotContains(t, errResp.Message, "refused")
		})
	}
}
