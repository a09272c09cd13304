// Package telemetry provides raw boat samples in SI units.
package telemetry

import (
	"context"
	"errors"
	"time"

	"killick/pkg/geo"
	"killick/pkg/units"
)

var (
	// ErrNoSample is returned when a source has nothing to report yet.
	ErrNoSample = errors.New("no telemetry sample available")
)

// Source produces telemetry samples.
type Source interface {
	// Sample returns the current state of the boat.
	Sample(ctx context.Context) (Sample, error)
	// Close releases resources held by the source.
	Close() error
}

// Sample is a snapshot of the boat in SI units. Absent channels hold
// units.Missing.
type Sample struct {
	Time     time.Time
	Position geo.Point
	Waypoint geo.Point

	Depth    float64 // meters below transducer
	AWA      float64 // radians, negative is port
	AWS      float64 // m/s
	SOG      float64 // m/s
	COG      float64 // radians true
	Distance float64 // meters to waypoint
}

// Empty returns a sample with every channel missing.
func Empty() Sample {
	return Sample{
		Depth:    units.Missing,
		AWA:      units.Missing,
		AWS:      units.Missing,
		SOG:      units.Missing,
		COG:      units.Missing,
		Distance: units.Missing,
	}
}

// Value returns the channel for m, or units.Missing for metrics the sample
// does not carry.
func (s *Sample) Value(m units.Metric) float64 {
	switch m {
	case units.Depth:
		return s.Depth
	case units.AWA:
		return s.AWA
	case units.AWS:
		return s.AWS
	case units.SOG:
		return s.SOG
	case units.COG:
		return s.COG
	case units.Distance:
		return s.Distance
	default:
		return units.Missing
	}
}

// Values returns every channel keyed by its telemetry key.
func (s *Sample) Values() map[string]float64 {
	out := make(map[string]float64, len(units.Metrics()))
	for _, m := range units.Metrics() {
		out[m.String()] = s.Value(m)
	}
	return out
}
