package api

import (
	"net/http"
	"sync"
)

// ThemeState records the current theme and pushes changes to websocket
// clients. It implements settings.ThemeApplier.
type ThemeState struct {
	mu      sync.RWMutex
	dark    bool
	applied bool
	hub     *Hub
}

// NewThemeState creates a ThemeState. hub may be nil.
func NewThemeState(hub *Hub) *ThemeState {
	return &ThemeState{hub: hub}
}

// ApplyTheme sets the flag. Clients are only notified when it flips, or on
// the first call.
func (t *ThemeState) ApplyTheme(dark bool) {
	t.mu.Lock()
	changed := !t.applied || t.dark != dark
	t.dark = dark
	t.applied = true
	t.mu.Unlock()

	if changed && t.hub != nil {
		t.hub.PublishTheme(dark)
	}
}

// Dark reports whether the dark theme is active.
func (t *ThemeState) Dark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dark
}

func (t *ThemeState) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"dark": t.Dark()})
}
