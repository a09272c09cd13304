// Package units converts raw SI telemetry samples (meters, meters per second,
// radians) into display strings in the unit the user picked.
//
// Conversion is a pure function of the metric, the sample and the target unit.
// Callers read the target unit from the settings store and pass it in.
package units

import (
	"math"
)

// Metric identifies a telemetry channel with its own conversion rule.
type Metric int

const (
	// Unknown is any key without a conversion rule; samples pass through.
	Unknown Metric = iota
	// Depth below the transducer, meters.
	Depth
	// AWA is the apparent wind angle, signed radians (negative is port).
	AWA
	// AWS is the apparent wind speed, meters per second.
	AWS
	// SOG is the speed over ground, meters per second.
	SOG
	// COG is the course over ground, radians true.
	COG
	// Distance is a distance in meters (e.g. to the next waypoint).
	Distance
)

var metricKeys = map[Metric]string{
	Depth:    "Depth",
	AWA:      "AWA",
	AWS:      "AWS",
	SOG:      "SOG",
	COG:      "COG",
	Distance: "Distance",
}

// Metrics lists every metric with a conversion rule.
func Metrics() []Metric {
	return []Metric{Depth, AWA, AWS, SOG, COG, Distance}
}

// String returns the telemetry key of the metric.
func (m Metric) String() string {
	if k, ok := metricKeys[m]; ok {
		return k
	}
	return "Unknown"
}

// ParseMetric maps a telemetry key to its metric. Keys are case sensitive;
// anything unrecognised is Unknown.
func ParseMetric(key string) Metric {
	for m, k := range metricKeys {
		if k == key {
			return m
		}
	}
	return Unknown
}

// Target unit tokens as they are stored in the settings.
const (
	Feet              = "feet"
	Knots             = "knots"
	KilometersPerHour = "km/h"
	NauticalMiles     = "nm"
	Kilometers        = "km"
)

// Sentinel is displayed instead of a number for invalid or out-of-range input.
const Sentinel = "--"

// Missing marks an absent sample.
var Missing = math.NaN()

// IsMissing reports whether v marks an absent sample.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

const (
	metersToFeet    = 3.28084
	msToKnots       = 1.94384
	msToKmh         = 3.6
	metersToNM      = 0.000539957
	metersPerKm     = 1000
	depthSentinel   = 42000000
	speedDecimalCap = 9.999
)

// Result is a display-ready value. UnitSpace goes between Value and Unit.
type Result struct {
	Value     string `json:"value"`
	Unit      string `json:"unit"`
	UnitSpace string `json:"unitSpace"`
}

// String joins value, spacing and unit.
func (r Result) String() string {
	return r.Value + r.UnitSpace + r.Unit
}

// ConvertKey converts a sample identified by its telemetry key.
func ConvertKey(key string, value float64, unit string) Result {
	return Convert(ParseMetric(key), value, unit)
}

// Convert converts a raw SI sample of metric m into the target unit.
// An empty or unrecognised unit selects the SI default for the metric.
func Convert(m Metric, value float64, unit string) Result {
	switch m {
	case Depth:
		return convertDepth(value, unit)
	case AWA:
		return convertAWA(value)
	case AWS, SOG:
		return convertSpeed(value, unit)
	case COG:
		return convertCOG(value)
	case Distance:
		return convertDistance(value, unit)
	default:
		// Unknown keys pass through unchanged.
		return passthrough(value)
	}
}

func convertDepth(v float64, unit string) Result {
	// NaN fails the comparison as well.
	if !(v < depthSentinel) {
		return Result{Value: Sentinel, Unit: sentinelLabel(unit, "m"), UnitSpace: " "}
	}

	label := "m"
	if unit == Feet {
		v *= metersToFeet
		label = "ft"
	}

	digits := 1
	if v > 3 {
		digits = 0
	}
	return Result{Value: FormatFixed(v, digits), Unit: label, UnitSpace: " "}
}

// convertAWA has no NaN guard: a missing angle renders "NaN" on the starboard side.
func convertAWA(v float64) Result {
	side := "starboard"
	if v < 0 {
		side = "port"
	}
	return Result{
		Value:     FormatFixed(math.Abs(v)*(180/math.Pi), 0),
		Unit:      "° " + side,
		UnitSpace: "",
	}
}

func convertSpeed(v float64, unit string) Result {
	if IsMissing(v) {
		return Result{Value: Sentinel, Unit: sentinelLabel(unit, "m/s"), UnitSpace: " "}
	}

	label := "m/s"
	switch unit {
	case Knots:
		v *= msToKnots
		label = Knots
	case KilometersPerHour:
		v *= msToKmh
		label = KilometersPerHour
	}

	digits := 1
	if v == 0 || v >= speedDecimalCap {
		digits = 0
	}
	return Result{Value: FormatFixed(v, digits), Unit: label, UnitSpace: " "}
}

func convertCOG(v float64) Result {
	return Result{Value: FormatFixed(v*(180/math.Pi), 0), Unit: "° T", UnitSpace: ""}
}

func convertDistance(v float64, unit string) Result {
	switch unit {
	case NauticalMiles:
		return Result{Value: FormatFixed(v*metersToNM, 1), Unit: NauticalMiles, UnitSpace: " "}
	case Kilometers:
		return Result{Value: FormatFixed(v/metersPerKm, 1), Unit: Kilometers, UnitSpace: " "}
	}

	digits := 1
	if v > 100 {
		digits = 0
	}
	return Result{Value: FormatFixed(v, digits), Unit: "m", UnitSpace: " "}
}

func passthrough(v float64) Result {
	return Result{Value: formatRaw(v), Unit: "", UnitSpace: ""}
}

// sentinelLabel keeps the unit the caller asked for on a sentinel result.
func sentinelLabel(unit, fallback string) string {
	if unit == "" {
		return fallback
	}
	return unit
}
