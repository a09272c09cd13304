package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"killick/pkg/dashboard"
	"killick/pkg/geo"
	"killick/pkg/telemetry"
	"killick/pkg/units"
)

// TelemetryHandler serves the dashboard state.
type TelemetryHandler struct {
	board *dashboard.Board
}

// NewTelemetryHandler creates a handler reading from board.
func NewTelemetryHandler(board *dashboard.Board) *TelemetryHandler {
	return &TelemetryHandler{board: board}
}

// RawResponse is the last raw sample. Missing channels are null.
type RawResponse struct {
	Time     string              `json:"time"`
	Position geo.Point           `json:"position"`
	Waypoint geo.Point           `json:"waypoint"`
	Values   map[string]*float64 `json:"values"`
}

func (h *TelemetryHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	frame, err := h.board.Frame()
	if err != nil {
		writeNoSample(w, err)
		return
	}
	writeJSON(w, frame)
}

func (h *TelemetryHandler) handleRaw(w http.ResponseWriter, r *http.Request) {
	s, err := h.board.Sample()
	if err != nil {
		writeNoSample(w, err)
		return
	}

	resp := RawResponse{
		Time:     s.Time.UTC().Format(time.RFC3339),
		Position: s.Position,
		Waypoint: s.Waypoint,
		Values:   make(map[string]*float64),
	}
	for key, v := range s.Values() {
		if units.IsMissing(v) {
			resp.Values[key] = nil
			continue
		}
		resp.Values[key] = &v
	}
	writeJSON(w, resp)
}

// handleRoute returns the boat and its waypoint as GeoJSON.
func (h *TelemetryHandler) handleRoute(w http.ResponseWriter, r *http.Request) {
	s, err := h.board.Sample()
	if err != nil {
		writeNoSample(w, err)
		return
	}

	props := map[string]any{"time": s.Time.UTC().Format(time.RFC3339)}
	if !units.IsMissing(s.COG) {
		props["cog"] = units.ToDegrees(s.COG)
	}

	fc := geo.Route(s.Position, s.Waypoint, props)
	data, err := fc.MarshalJSON()
	if err != nil {
		slog.Error("Failed to encode route", "error", err)
		http.Error(w, "Failed to encode route", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write route response", "error", err)
	}
}

func writeNoSample(w http.ResponseWriter, err error) {
	if errors.Is(err, telemetry.ErrNoSample) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
