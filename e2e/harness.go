// Package e2e provides end-to-end testing infrastructure for market-sentiment.
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-sentiment/config"
	"market-sentiment/e2e/mocks"
	"market-sentiment/internal/api"
	"market-sentiment/internal/app"
	"market-sentiment/models"
)

// TestHarness runs the real router and upstream clients against a mock of
// every provider.
type TestHarness struct {
	t          *testing.T
	ctx        context.Context
	cancel     context.CancelFunc
	mockServer *mocks.MockServer
	app        *app.App
	router     http.Handler
	config     *config.Config
}

// NewTestHarness creates a new test harness.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	return &TestHarness{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Setup starts the mock upstream and builds the application against it.
// configure, when given, adjusts the configuration before the app is built.
func (h *TestHarness) Setup(configure ...func(*config.Config)) error {
	h.mockServer = mocks.NewMockServer()

	h.config = h.mockServer.Config()
	for _, fn := range configure {
		fn(h.config)
	}

	h.app = app.NewFromConfig(h.config)

	handler := api.NewHandler(h.app, h.config)
	h.router = api.NewRouter(handler, h.config)

	return nil
}

// Teardown cleans up all test resources.
func (h *TestHarness) Teardown() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.mockServer != nil {
		h.mockServer.Close()
	}
}

// Context returns the test context.
func (h *TestHarness) Context() context.Context {
	return h.ctx
}

// MockServer returns the mock server for configuring responses.
func (h *TestHarness) MockServer() *mocks.MockServer {
	return h.mockServer
}

// App returns the application instance.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Router returns the HTTP router for making requests.
func (h *TestHarness) Router() http.Handler {
	return h.router
}

// Config returns the test configuration.
func (h *TestHarness) Config() *config.Config {
	return h.config
}

// DoRequest performs an HTTP request and returns the response.
func (h *TestHarness) DoRequest(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil).WithContext(h.ctx)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// Get performs a GET request, requires a 200 and decodes the body into out.
func (h *TestHarness) Get(t *testing.T, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	w := h.DoRequest(http.MethodGet, path)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: expected status 200, got %d: %s", path, w.Code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: failed to decode response: %v", path, err)
		}
	}
	return w
}

// Metadata decodes only the metadata of an envelope.
func Metadata(t *testing.T, w *httptest.ResponseRecorder) models.Metadata {
	t.Helper()

	var env struct {
		Metadata models.Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode metadata: %v", err)
	}
	return env.Metadata
}
