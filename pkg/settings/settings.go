// Package settings holds the user's display preferences (units and theme),
// persists them as a single JSON blob and notifies listeners when one changes.
//
// A Store is created once by the composition root and passed to whoever needs
// it. Set runs to completion before returning: persistence, every listener
// registered for the name, then the theme side effect. None of these failures
// reach the caller; they are logged and counted.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"killick/pkg/config"
	"killick/pkg/metrics"
	"killick/pkg/store"
)

// ErrMalformed is returned when the persisted blob is not a JSON object.
var ErrMalformed = errors.New("malformed settings blob")

const defaultPersistTimeout = 2 * time.Second

// Defaults returns a fresh copy of the default settings.
func Defaults() map[string]string {
	return map[string]string{
		config.SettingSpeedUnit:    "knots",
		config.SettingDistanceUnit: "nm",
		config.SettingDepthUnit:    "feet",
		config.SettingTheme:        "light",
	}
}

// Store is the settings store. The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	listeners map[string][]*Subscription
	wildcard  []*Subscription

	// writeMu orders changes with their writes so the stored blob always
	// matches the latest in-memory map.
	writeMu sync.Mutex

	backend store.StateStore
	theme   ThemeApplier
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTheme sets the side effect run after every change.
func WithTheme(t ThemeApplier) Option {
	return func(s *Store) { s.theme = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPersistTimeout bounds each read or write against the backend.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Store and loads persisted settings from backend. backend may
// be nil, in which case the store runs on defaults and every write fails.
func New(backend store.StateStore, opts ...Option) *Store {
	s := &Store{
		listeners: make(map[string][]*Subscription),
		backend:   backend,
		theme:     NopTheme{},
		logger:    slog.Default(),
		timeout:   defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.values = s.load()
	return s
}

// Get returns the current value of name.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Snapshot returns a copy of every current setting.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Set changes name to value. Setting the value already stored is a no-op:
// nothing is written, no listener runs and the theme is not re-applied.
func (s *Store) Set(name, value string) {
	if !s.write(name, value) {
		return
	}
	s.notify(name, value)
	s.Apply()
}

// write updates the map and persists it. It reports false for a no-op.
// Listeners run after writeMu is released so they may call Set.
func (s *Store) write(name, value string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if cur, ok := s.values[name]; ok && cur == value {
		s.mu.Unlock()
		return false
	}
	s.values[name] = value
	snapshot := maps.Clone(s.values)
	s.mu.Unlock()

	metrics.SettingChanges.WithLabelValues(metricLabel(name)).Inc()
	s.logger.Info("Setting changed", "name", name, "value", value)

	s.persist(snapshot)
	return true
}

// Apply runs the theme side effect against the current theme value.
func (s *Store) Apply() {
	theme, _ := s.Get(config.SettingTheme)
	s.theme.ApplyTheme(theme == config.ThemeDark)
}

func (s *Store) load() map[string]string {
	values := Defaults()

	persisted, err := s.read()
	if errors.Is(err, errNotStored) {
		s.logger.Warn("No stored settings, using defaults", "key", config.KeySettings)
		return values
	}
	if err != nil {
		metrics.SettingsLoadFailures.Inc()
		s.logger.Warn("Failed to load settings, using defaults", "key", config.KeySettings, "error", err)
		return values
	}

	maps.Copy(values, persisted)
	s.logger.Debug("Settings loaded", "count", len(values))
	return values
}

var errNotStored = errors.New("no settings stored")

func (s *Store) read() (map[string]string, error) {
	if s.backend == nil {
		return nil, store.ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	blob, ok, err := s.backend.GetState(ctx, config.KeySettings)
	if err != nil {
		return nil, err
	}
	if !ok || blob == "" {
		return nil, errNotStored
	}
	return s.decode(blob)
}

// decode accepts a flat JSON object. Scalars written by other clients keep
// their textual form; nulls are dropped and nested values are skipped.
func (s *Store) decode(blob string) (map[string]string, error) {
	if !gjson.Valid(blob) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.Parse(blob)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is %s", ErrMalformed, root.Type)
	}

	out := make(map[string]string)
	root.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.Null:
		case value.IsObject() || value.IsArray():
			s.logger.Warn("Ignoring nested setting", "name", key.String())
		default:
			out[key.String()] = value.String()
		}
		return true
	})
	return out, nil
}

func (s *Store) persist(values map[string]string) {
	if s.backend == nil {
		metrics.SettingsPersistFailures.Inc()
		s.logger.Error("Failed to save settings", "error", store.ErrUnavailable)
		return
	}

	blob, err := json.Marshal(values)
	if err != nil {
		metrics.SettingsPersistFailures.Inc()
		s.logger.Error("Failed to encode settings", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.SetState(ctx, config.KeySettings, string(blob)); err != nil {
		metrics.SettingsPersistFailures.Inc()
		s.logger.Error("Failed to save settings", "error", err)
	}
}

// metricLabel bounds label cardinality; setting names are open-ended.
func metricLabel(name string) string {
	if _, ok := Defaults()[name]; ok {
		return name
	}
	return "other"
}
