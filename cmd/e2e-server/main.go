// Package main provides a standalone HTTP server for E2E testing.
// It serves the real routes and upstream clients against an in-process mock
// of every provider, so dashboard tests get live-quality responses without
// credentials or network access.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"market-sentiment/e2e/mocks"
	"market-sentiment/internal/api"
	"market-sentiment/internal/app"
	"market-sentiment/observability"
)

func main() {
	// Initialize logger in development mode for tests
	observability.InitLogger(false)
	observability.InitMetrics()

	port := os.Getenv("E2E_SERVER_PORT")
	if port == "" {
		port = "9090"
	}

	upstream := mocks.NewMockServer()
	defer upstream.Close()
	observability.Info("mock upstream started", "url", upstream.URL())

	cfg := upstream.Config()
	if p, err := strconv.Atoi(port); err == nil {
		cfg.Server.Port = p
	}
	// Simulate provider outages, e.g. E2E_FAILING_PROVIDERS=finnhub,twitter
	for _, name := range splitList(os.Getenv("E2E_FAILING_PROVIDERS")) {
		upstream.SetProviderError(name, http.StatusServiceUnavailable)
		observability.Info("provider failing", "provider", name)
	}

	application := app.NewFromConfig(cfg)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting E2E test server", "port", port, "url", fmt.Sprintf("http://localhost:%s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down E2E test server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}

	observability.Info("E2E test server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
