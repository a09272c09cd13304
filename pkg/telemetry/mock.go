package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"killick/pkg/config"
	"killick/pkg/geo"
	"killick/pkg/logging"
	"killick/pkg/units"
)

const (
	trackWindow    = 5
	depthSwell     = 0.5 // meters
	depthSwellTime = 30 * time.Second
)

// MockSource simulates a boat motoring between two waypoints under a steady
// true wind. It advances on every Sample by the wall time since the last one.
type MockSource struct {
	mu     sync.Mutex
	cfg    config.MockConfig
	now    func() time.Time
	logger *slog.Logger

	start   time.Time
	last    time.Time
	pos     geo.Point
	from    geo.Point
	to      geo.Point
	heading float64 // degrees true
	track   *geo.TrackBuffer
	closed  bool
}

// MockOption configures a MockSource.
type MockOption func(*MockSource)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockSource) { m.now = now }
}

// WithMockLogger sets the logger.
func WithMockLogger(l *slog.Logger) MockOption {
	return func(m *MockSource) { m.logger = l }
}

// NewMock creates a mock source at the configured start position.
func NewMock(cfg config.MockConfig, opts ...MockOption) *MockSource {
	m := &MockSource{
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default(),
		pos:    geo.Point{Lat: cfg.StartLat, Lon: cfg.StartLon},
		from:   geo.Point{Lat: cfg.StartLat, Lon: cfg.StartLon},
		to:     geo.Point{Lat: cfg.WaypointLat, Lon: cfg.WaypointLon},
		track:  geo.NewTrackBuffer(trackWindow),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.start = m.now()
	m.last = m.start
	m.heading = geo.Bearing(m.pos, m.to)
	m.track.Push(m.pos)
	return m
}

// Sample implements Source.
func (m *MockSource) Sample(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Sample{}, fmt.Errorf("%w: mock source closed", ErrNoSample)
	}

	now := m.now()
	if dt := now.Sub(m.last).Seconds(); dt > 0 {
		m.step(dt)
	}
	m.last = now

	return m.sample(now), nil
}

// Close implements Source.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockSource) step(dt float64) {
	travel := m.cfg.Speed * dt
	remaining := geo.Distance(m.pos, m.to)
	m.heading = geo.Bearing(m.pos, m.to)

	if travel >= remaining {
		m.pos = m.to
	} else if travel > 0 {
		m.pos = geo.DestinationPoint(m.pos, travel, m.heading)
	}

	if geo.Distance(m.pos, m.to) <= m.cfg.ArrivalRadius.Meters() {
		m.logger.Info("Mock boat reached waypoint, turning back",
			"lat", m.to.Lat, "lon", m.to.Lon)
		m.from, m.to = m.to, m.from
		m.heading = geo.Bearing(m.pos, m.to)
		m.track.Reset()
	}

	logging.Trace(m.logger, "Mock boat stepped", "dt", dt, "lat", m.pos.Lat, "lon", m.pos.Lon)
}

func (m *MockSource) sample(now time.Time) Sample {
	course, ok := m.track.Push(m.pos)
	if !ok {
		course = m.heading
	}

	aws, awa := apparentWind(m.cfg.WindFrom, m.cfg.WindSpeed, m.heading, m.cfg.Speed)

	elapsed := now.Sub(m.start).Seconds()
	depth := m.cfg.Depth + depthSwell*math.Sin(2*math.Pi*elapsed/depthSwellTime.Seconds())

	return Sample{
		Time:     now,
		Position: m.pos,
		Waypoint: m.to,
		Depth:    depth,
		AWA:      units.ToRadians(awa),
		AWS:      aws,
		SOG:      m.cfg.Speed,
		COG:      units.ToRadians(course),
		Distance: geo.Distance(m.pos, m.to),
	}
}

// apparentWind combines the true wind (from direction, degrees true) with the
// boat's own motion. It returns the apparent speed and the apparent angle
// relative to the heading in degrees, negative to port.
func apparentWind(trueFrom, trueSpeed, heading, boatSpeed float64) (speed, angle float64) {
	tf := units.ToRadians(trueFrom)
	h := units.ToRadians(heading)

	// Air velocity, north/east components
	n := -trueSpeed*math.Cos(tf) - boatSpeed*math.Cos(h)
	e := -trueSpeed*math.Sin(tf) - boatSpeed*math.Sin(h)

	speed = math.Hypot(n, e)
	if speed == 0 {
		return 0, 0
	}
	from := units.ToDegrees(math.Atan2(-e, -n))
	return speed, geo.RelativeAngle(from, heading)
}

// NewSource builds the source selected in cfg.
func NewSource(cfg *config.TelemetryConfig, opts ...MockOption) (Source, error) {
	switch cfg.Source {
	case "", "mock":
		return NewMock(cfg.Mock, opts...), nil
	default:
		return nil, fmt.Errorf("unknown telemetry source %q", cfg.Source)
	}
}
