// Package api is the HTTP surface of killick: settings, rendered telemetry,
// the websocket live feed and operational endpoints.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"killick/pkg/version"
)

// Handlers groups everything NewServer routes to.
type Handlers struct {
	Settings  *SettingsHandler
	Telemetry *TelemetryHandler
	Theme     *ThemeState
	Hub       *Hub
}

// NewServer creates and configures the HTTP server.
// shutdown is called from POST /api/shutdown.
func NewServer(addr string, h *Handlers, shutdown func()) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     withRequestLog(NewMux(h, shutdown)),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: websocket connections are long lived and manage
		// their own write deadlines.
		IdleTimeout: 60 * time.Second,
	}
}

// NewMux registers every route on a new ServeMux.
func NewMux(h *Handlers, shutdown func()) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	mux.HandleFunc("/api/settings", h.Settings.HandleSettings)

	mux.HandleFunc("GET /api/telemetry", h.Telemetry.handleTelemetry)
	mux.HandleFunc("GET /api/telemetry/raw", h.Telemetry.handleRaw)
	mux.HandleFunc("GET /api/route", h.Telemetry.handleRoute)

	mux.HandleFunc("GET /api/theme", h.Theme.handleTheme)
	mux.HandleFunc("GET /api/ws", h.Hub.HandleWS)

	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("GET /api/log/tail", handleLogTail)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Let the response flush first
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Get())
}
