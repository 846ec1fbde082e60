//go:build e2e
// +build e2e

package e2e

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/service"
)

var datasets = []string{"confidence", "energy", "focus"}

// record holds the dataset-independent fields of a values record
type record struct {
	Value          string `json:"value"`
	IsDefaultFlag  bool   `json:"isDefaultFlag"`
	CreatedByEmail string `json:"createdByEmail"`
}

type listResponse struct {
	Data  []json.RawMessage `json:"data"`
	Count int               `json:"count"`
}

// E2ETestSuite runs end-to-end API tests against a running Reflection instance
type E2ETestSuite struct {
	suite.Suite
	baseURL string
	email   string
	token   string
	client  *http.Client
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}

func (s *E2ETestSuite) SetupSuite() {
	s.baseURL = os.Getenv("REFLECTION_API_URL")
	if s.baseURL == "" {
		s.baseURL = "http://localhost:8080"
	}

	s.email = os.Getenv("REFLECTION_E2E_EMAIL")
	if s.email == "" {
		s.email = "e2e@example.com"
	}

	// Tokens are minted with the server's secret
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		s.T().Fatal("JWT_SECRET environment variable is required")
	}
	auth := service.NewAuthService(&config.Config{JWT: config.JWTConfig{
		Secret: secret,
		Issuer: "reflection",
		Expiry: time.Hour,
	}})
	token, err := auth.IssueToken(s.email, "e2e")
	require.NoError(s.T(), err)
	s.token = token

	s.client = &http.Client{
		Timeout: 30 * time.Second,
	}

	// Wait for API to be ready
	s.waitForAPI()
}

func (s *E2ETestSuite) waitForAPI() {
	maxAttempts := 30
	for i := 0; i < maxAttempts; i++ {
		resp, err := s.client.Get(s.baseURL + "/readyz")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}
	s.T().Fatal("API failed to become ready within timeout")
}

// ============ HELPER METHODS ============

func (s *E2ETestSuite) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	return s.client.Do(req)
}

func (s *E2ETestSuite) parseResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	if v != nil {
		err = json.Unmarshal(body, v)
		require.NoError(s.T(), err, "Failed to parse response: %s", string(body))
	}
}

func (s *E2ETestSuite) list(path string) listResponse {
	resp, err := s.doRequest(http.MethodGet, path, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, path)

	var out listResponse
	s.parseResponse(resp, &out)
	require.NotNil(s.T(), out.Data, "data must be an array: %s", path)
	require.Len(s.T(), out.Data, out.Count)
	return out
}

// ============ HEALTH CHECK TESTS ============

func (s *E2ETestSuite) TestHealthEndpoint() {
	resp, err := s.client.Get(s.baseURL + "/health")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	s.parseResponse(resp, &result)
	assert.Contains(s.T(), []interface{}{"healthy", "degraded"}, result["status"])
	assert.NotEmpty(s.T(), result["backend"])
}

func (s *E2ETestSuite) TestMetricsEndpoint() {
	resp, err := s.client.Get(s.baseURL + "/metrics")
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), string(body), "reflection_http_requests_total")
}

// ============ AUTH TESTS ============

func (s *E2ETestSuite) TestUnauthorizedAccess() {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/v1/values/confidence", nil)
	require.NoError(s.T(), err)

	resp, err := s.client.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
}

// ============ TABLE TESTS ============

func (s *E2ETestSuite) TestTables() {
	resp, err := s.doRequest(http.MethodGet, "/v1/tables", nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var result struct {
		Count int `json:"count"`
	}
	s.parseResponse(resp, &result)
	assert.Equal(s.T(), 8, result.Count)
}

// ============ VALUES TESTS ============

func (s *E2ETestSuite) TestValuesVisibleToCaller() {
	for _, dataset := range datasets {
		out := s.list("/v1/values/" + dataset)
		for _, raw := range out.Data {
			var r record
			require.NoError(s.T(), json.Unmarshal(raw, &r))
			assert.True(s.T(), r.IsDefaultFlag || r.CreatedByEmail == s.email,
				"%s record %q is neither default nor owned by the caller", dataset, r.Value)
		}
	}
}

func (s *E2ETestSuite) TestStreamMatchesList() {
	for _, dataset := range datasets {
		out := s.list("/v1/values/" + dataset)

		resp, err := s.doRequest(http.MethodGet, "/v1/values/"+dataset+"/stream", nil)
		require.NoError(s.T(), err)
		require.Equal(s.T(), http.StatusOK, resp.StatusCode)
		assert.True(s.T(), strings.HasPrefix(resp.Header.Get("Content-Type"), "application/x-ndjson"))

		var lines int
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) != "" {
				lines++
			}
		}
		resp.Body.Close()
		require.NoError(s.T(), scanner.Err())
		assert.Equal(s.T(), out.Count, lines, dataset)
	}
}

func (s *E2ETestSuite) TestByIDIncludesDefaults() {
	for _, dataset := range datasets {
		defaults := 0
		for _, raw := range s.list("/v1/values/" + dataset).Data {
			var r record
			require.NoError(s.T(), json.Unmarshal(raw, &r))
			if r.IsDefaultFlag {
				defaults++
			}
		}

		out := s.list("/v1/values/" + dataset + "/by-id?id=" + uuid.NewString())
		assert.Equal(s.T(), defaults, out.Count, dataset)
	}
}

func (s *E2ETestSuite) TestBatch() {
	resp, err := s.doRequest(http.MethodPost, "/v1/values/focus/batch", map[string]interface{}{
		"ids": []string{uuid.NewString()},
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var out listResponse
	s.parseResponse(resp, &out)
	assert.Equal(s.T(), 0, out.Count)

	ids := make([]string, 501)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	resp, err = s.doRequest(http.MethodPost, "/v1/values/focus/batch", map[string]interface{}{"ids": ids})
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) TestGetOne() {
	resp, err := s.doRequest(http.MethodGet, "/v1/values/energy/"+uuid.NewString(), nil)
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	resp, err = s.doRequest(http.MethodGet, "/v1/values/energy/not-a-uuid", nil)
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}
