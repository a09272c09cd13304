// Package dashboard renders raw telemetry for display using the units the user
// picked, and re-renders whenever one of those units changes.
package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"killick/pkg/config"
	"killick/pkg/geo"
	"killick/pkg/metrics"
	"killick/pkg/settings"
	"killick/pkg/telemetry"
	"killick/pkg/units"
)

// Render reasons, also used as metric labels.
const (
	ReasonSample = "sample"
	ReasonUnit   = "unit"
	ReasonTheme  = "theme"
)

// Frame is one rendered dashboard state.
type Frame struct {
	Seq      uint64                  `json:"seq"`
	Time     time.Time               `json:"time"`
	Reason   string                  `json:"reason"`
	Dark     bool                    `json:"dark"`
	Position geo.Point               `json:"position"`
	Waypoint geo.Point               `json:"waypoint"`
	Values   map[string]units.Result `json:"values"`
	Units    map[string]string       `json:"units"`
}

// Sink receives every rendered frame.
type Sink interface {
	PublishFrame(f *Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f *Frame)

// PublishFrame implements Sink.
func (fn SinkFunc) PublishFrame(f *Frame) { fn(f) }

// Settings is the part of the settings store the board needs.
type Settings interface {
	Get(name string) (string, bool)
	OnChange(name string, fn func(value string)) *settings.Subscription
}

var unitSettings = map[units.Metric]string{
	units.Depth:    config.SettingDepthUnit,
	units.AWS:      config.SettingSpeedUnit,
	units.SOG:      config.SettingSpeedUnit,
	units.Distance: config.SettingDistanceUnit,
}

// Board keeps the last raw sample and its rendering.
type Board struct {
	// renderMu is held from build to the last sink so sinks see frames in
	// build order. Sinks must not call back into Update.
	renderMu sync.Mutex
	mu       sync.Mutex
	seq      uint64
	settings Settings
	logger   *slog.Logger
	sample   telemetry.Sample
	hasData  bool
	last     *Frame
	sinks    []Sink
	subs     []*settings.Subscription
}

// New creates a board and subscribes it to unit and theme changes.
func New(st Settings, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{
		settings: st,
		logger:   logger,
	}
	for _, name := range []string{config.SettingSpeedUnit, config.SettingDistanceUnit, config.SettingDepthUnit} {
		b.subs = append(b.subs, st.OnChange(name, func(string) { b.render(ReasonUnit) }))
	}
	b.subs = append(b.subs, st.OnChange(config.SettingTheme, func(string) { b.render(ReasonTheme) }))
	return b
}

// AddSink registers s for every future frame.
func (b *Board) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Update stores a new raw sample and renders it.
func (b *Board) Update(s *telemetry.Sample) {
	b.mu.Lock()
	b.sample = *s
	b.hasData = true
	b.mu.Unlock()

	b.render(ReasonSample)
}

// Frame returns the last rendered frame.
func (b *Board) Frame() (*Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return nil, telemetry.ErrNoSample
	}
	return b.last, nil
}

// Sample returns the last raw sample.
func (b *Board) Sample() (telemetry.Sample, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasData {
		return telemetry.Sample{}, telemetry.ErrNoSample
	}
	return b.sample, nil
}

// Close unsubscribes the board from the settings store.
func (b *Board) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (b *Board) render(reason string) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	b.mu.Lock()
	if !b.hasData {
		b.mu.Unlock()
		return
	}
	frame := b.build(reason)
	b.last = frame
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()

	metrics.DashboardRenders.WithLabelValues(reason).Inc()
	b.logger.Debug("Dashboard rendered", "reason", reason, "sinks", len(sinks))

	for _, s := range sinks {
		s.PublishFrame(frame)
	}
}

// build must be called with b.mu held.
func (b *Board) build(reason string) *Frame {
	b.seq++
	f := &Frame{
		Seq:      b.seq,
		Time:     b.sample.Time,
		Reason:   reason,
		Position: b.sample.Position,
		Waypoint: b.sample.Waypoint,
		Values:   make(map[string]units.Result, len(units.Metrics())),
		Units:    make(map[string]string, 3),
	}

	theme, _ := b.settings.Get(config.SettingTheme)
	f.Dark = theme == config.ThemeDark

	for _, m := range units.Metrics() {
		unit := ""
		if name, ok := unitSettings[m]; ok {
			unit, _ = b.settings.Get(name)
			f.Units[name] = unit
		}
		f.Values[m.String()] = units.ConvertKey(m.String(), b.sample.Value(m), unit)
	}
	return f
}
