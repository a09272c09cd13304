package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"killick/pkg/settings"
)

const maxSettingsBody = 64 << 10

// SettingsHandler exposes the display settings.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(st *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// HandleSettings is a unified handler for all settings methods, facilitating CORS/OPTIONS.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.HandleGetSettings(w, r)
	case http.MethodPut, http.MethodPost:
		h.HandleSetSettings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleGetSettings returns every current setting.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Snapshot())
}

// HandleSetSettings applies a JSON object of name to string value. Changes
// are applied in name order; the response is the resulting settings map.
func (h *SettingsHandler) HandleSetSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	updates, err := parseSettingsUpdate(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, name := range slices.Sorted(maps.Keys(updates)) {
		h.store.Set(name, updates[name])
	}
	slog.Debug("Settings updated via API", "count", len(updates))

	writeJSON(w, h.store.Snapshot())
}

func parseSettingsUpdate(body []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}

	out := make(map[string]string, len(raw))
	for name, v := range raw {
		if name == "" {
			return nil, fmt.Errorf("empty setting name")
		}
		var s string
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) || json.Unmarshal(v, &s) != nil {
			return nil, fmt.Errorf("setting %q must be a string", name)
		}
		out[name] = s
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
