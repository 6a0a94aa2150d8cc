package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-scraper-api/internal/core/ingredient"
	"recipe-scraper-api/internal/core/scraper"
	"recipe-scraper-api/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-secret"

// mockProvider 固定值的 Provider，各時間欄位給非零值
type mockProvider struct{}

func (m *mockProvider) Title() (string, error) { return "Lemon Cake", nil }
func (m *mockProvider) Ingredients() ([]string, error) { return []string{"2 cups flour"}, nil }
func (m *mockProvider) Instructions() (any, error) { return "Mix\nBake", nil }
func (m *mockProvider) Yields() (string, error) { return "Serves 4", nil }
func (m *mockProvider) PrepTime() (int, error) { return 15, nil }
func (m *mockProvider) CookTime() (int, error) { return 30, nil }
func (m *mockProvider) TotalTime() (int, error) { return 45, nil }
func (m *mockProvider) Image() (string, error) { return "", fmt.Errorf("no image") }
func (m *mockProvider) Description() (string, error) { return "Zesty.", nil }
func (m *mockProvider) Host() (string, error) { return "good.example", nil }
func (m *mockProvider) Ratings() (float64, error) { return 0, fmt.Errorf("no ratings") }
func (m *mockProvider) Cuisine() (string, error) { return "", fmt.Errorf("no cuisine") }

type mockFactory struct {
	err   error
	hosts []string
}

func (f *mockFactory) Scrape(context.Context, string) (scraper.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &mockProvider{}, nil
}

func (f *mockFactory) SupportedHosts() []string { return f.hosts }

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "testing", Debug: false, Version: "1.0.0", Name: "recipe-scraper-api"},
		Auth: config.AuthConfig{APIKey: testAPIKey},
		Server: config.ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Scraper:   config.ScraperConfig{Timeout: 30 * time.Second, UserAgent: "test"},
		RateLimit: config.RateLimitConfig{Enabled: false},
		LogLevel:  "error",
	}
}

func newTestRouter(t *testing.T, factory scraper.Factory) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := scraper.NewService(factory, ingredient.NewService(ingredient.NewRuleParser()))
	router, err := SetupRouter(testConfig(), svc)
	require.NoError(t, err)
	return router
}

func doRequest(router *gin.Engine, method, path string, body []byte, withKey bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if withKey {
		req.Header.Set("X-Mobile-Api-Key", testAPIKey)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMissingKey(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodGet, "/health", nil, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Unauthorized Access", body["error"])
}

func TestAuthWrongKey(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Mobile-Api-Key", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodGet, "/health", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestScrapeEmptyBody(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodPost, "/scrape", []byte(`{}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_url", body["error_type"])
}

func TestScrapeNotJSON(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodPost, "/scrape", []byte("not json"), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_url", body["error_type"])
}

func TestScrapeBadScheme(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodPost, "/scrape", []byte(`{"url":"ftp://x"}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_url", body["error_type"])
}

func TestScrapeProviderAcquisitionFailure(t *testing.T) {
	router := newTestRouter(t, &mockFactory{err: fmt.Errorf("site not supported")})

	w := doRequest(router, http.MethodPost, "/scrape", []byte(`{"url":"https://bad.example/r"}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "scraping_failed", body["error_type"])
	assert.Contains(t, body["error"], "site not supported")
}

func TestScrapeSuccess(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodPost, "/scrape", []byte(`{"url":"https://good.example/recipe"}`), true)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)

	// 所有欄位的 key 都要在，缺的欄位是 null 而不是缺 key
	for _, key := range []string{
		"title", "ingredients", "instructions", "yields",
		"prep_time", "cook_time", "total_time",
		"image", "description", "host", "ratings", "cuisine",
	} {
		_, present := data[key]
		assert.True(t, present, "missing key %q", key)
	}

	assert.Equal(t, "Lemon Cake", data["title"])
	assert.Nil(t, data["image"])
	assert.Nil(t, data["ratings"])
	assert.Equal(t, "15", data["prep_time"])
	assert.Equal(t, float64(4), data["yields"])

	ingredients, ok := data["ingredients"].([]any)
	require.True(t, ok)
	require.Len(t, ingredients, 1)
	first, ok := ingredients[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "flour", first["name"])
	assert.Equal(t, 2.0, first["quantity"])
	assert.Equal(t, "cup", first["unit"])

	assert.Equal(t, []any{"Mix", "Bake"}, data["instructions"])
}

func TestSupportedSites(t *testing.T) {
	router := newTestRouter(t, &mockFactory{hosts: []string{"a.example", "b.example"}})

	w := doRequest(router, http.MethodGet, "/supported-sites", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, []any{"a.example", "b.example"}, body["sites"])
}

func TestNotFoundRoute(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodGet, "/nope", nil, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "not_found", body["error_type"])
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &mockFactory{})

	w := doRequest(router, http.MethodGet, "/scrape", nil, true)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "method_not_allowed", body["error_type"])
}
