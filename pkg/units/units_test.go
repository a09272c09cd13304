package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value float64
		unit  string
		want  Result
	}{
		// Depth
		{"depth sentinel keeps requested unit", "Depth", 42000000, Feet, Result{"--", "feet", " "}},
		{"depth above sentinel", "Depth", 50000000, Feet, Result{"--", "feet", " "}},
		{"depth sentinel default unit", "Depth", 42000000, "", Result{"--", "m", " "}},
		{"depth missing", "Depth", Missing, Feet, Result{"--", "feet", " "}},
		{"depth feet deep", "Depth", 10, Feet, Result{"33", "ft", " "}},
		{"depth feet shallow", "Depth", 0.5, Feet, Result{"1.6", "ft", " "}},
		{"depth feet precision on displayed value", "Depth", 1, Feet, Result{"3", "ft", " "}},
		{"depth meters shallow", "Depth", 2, "", Result{"2.0", "m", " "}},
		{"depth meters deep", "Depth", 5, "meters", Result{"5", "m", " "}},

		// Speed
		{"sog knots below cap", "SOG", 5, Knots, Result{"9.7", "knots", " "}},
		{"sog knots above cap", "SOG", 6, Knots, Result{"12", "knots", " "}},
		{"sog zero", "SOG", 0, Knots, Result{"0", "knots", " "}},
		{"sog missing", "SOG", Missing, Knots, Result{"--", "knots", " "}},
		{"sog missing kmh", "SOG", Missing, KilometersPerHour, Result{"--", "km/h", " "}},
		{"sog missing default", "SOG", Missing, "", Result{"--", "m/s", " "}},
		{"sog kmh small", "SOG", 2, KilometersPerHour, Result{"7.2", "km/h", " "}},
		{"sog kmh large", "SOG", 5, KilometersPerHour, Result{"18", "km/h", " "}},
		{"sog default unit", "SOG", 3, "", Result{"3.0", "m/s", " "}},
		{"sog default unit large", "SOG", 10, "", Result{"10", "m/s", " "}},
		{"aws shares speed rule", "AWS", 5, Knots, Result{"9.7", "knots", " "}},

		// Angles
		{"awa port", "AWA", -0.5, "", Result{"29", "° port", ""}},
		{"awa starboard", "AWA", 0.5, "", Result{"29", "° starboard", ""}},
		{"awa zero is starboard", "AWA", 0, "", Result{"0", "° starboard", ""}},
		{"awa missing has no guard", "AWA", Missing, "", Result{"NaN", "° starboard", ""}},
		{"cog east", "COG", math.Pi / 2, "", Result{"90", "° T", ""}},
		{"cog one radian", "COG", 1, "", Result{"57", "° T", ""}},

		// Distance
		{"distance nm", "Distance", 1852, NauticalMiles, Result{"1.0", "nm", " "}},
		{"distance km", "Distance", 1500, Kilometers, Result{"1.5", "km", " "}},
		{"distance meters far", "Distance", 250, "", Result{"250", "m", " "}},
		{"distance meters tie rounds up", "Distance", 50.25, "", Result{"50.3", "m", " "}},
		{"distance meters far tie", "Distance", 150.5, "", Result{"151", "m", " "}},

		// Passthrough
		{"unknown key", "Foo", 42, "bar", Result{"42", "", ""}},
		{"unknown key fraction", "Foo", 3.25, "", Result{"3.25", "", ""}},
		{"unknown key below exponent threshold", "Foo", 1e20, "", Result{"100000000000000000000", "", ""}},
		{"unknown key exponent threshold", "Foo", 1e21, "", Result{"1e+21", "", ""}},
		{"unknown key huge", "Foo", 1e300, "", Result{"1e+300", "", ""}},
		{"unknown key huge negative", "Foo", -2.5e22, "", Result{"-2.5e+22", "", ""}},
		{"keys are case sensitive", "depth", 10, Feet, Result{"10", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertKey(tt.key, tt.value, tt.unit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_AllMetricsHandled(t *testing.T) {
	for _, m := range Metrics() {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, m, ParseMetric(m.String()))
			got := Convert(m, 1, "")
			assert.NotEmpty(t, got.Unit, "metric %s fell through to passthrough", m)
		})
	}
	assert.Equal(t, Unknown, ParseMetric("Foo"))
	assert.Equal(t, "Unknown", Unknown.String())
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "9.7 knots", ConvertKey("SOG", 5, Knots).String())
	assert.Equal(t, "29° port", ConvertKey("AWA", -0.5, "").String())
	assert.Equal(t, "42", ConvertKey("Foo", 42, "").String())
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		v      float64
		digits int
		want   string
	}{
		{0.5, 0, "1"},
		{2.5, 0, "3"},
		{-2.5, 0, "-3"},
		{1.005, 2, "1.00"},
		{1.45, 1, "1.4"},
		{-0.04, 1, "-0.0"},
		{0, 2, "0.00"},
		{123.456, 0, "123"},
		{0.001, 1, "0.0"},
		{0.05, 3, "0.050"},
		{9.7192, 1, "9.7"},
		{math.NaN(), 1, "NaN"},
		{math.Inf(1), 0, "Infinity"},
		{math.Inf(-1), 0, "-Infinity"},
		{1e21, 2, "1e+21"},
	}

	for _, tt := range tests {
		got := FormatFixed(tt.v, tt.digits)
		assert.Equal(t, tt.want, got, "FormatFixed(%v, %d)", tt.v, tt.digits)
	}
}

func TestAngleHelpers(t *testing.T) {
	assert.InDelta(t, math.Pi, ToRadians(180), 1e-15)
	assert.InDelta(t, 180.0, ToDegrees(math.Pi), 1e-12)

	for _, x := range []float64{0, 1, -1, 45, 90.5, -179.99, 360, 1234.5678, 1e-9} {
		got := ToDegrees(ToRadians(x))
		assert.InDelta(t, x, got, 1e-12*math.Max(1, math.Abs(x)), "round trip of %v", x)
	}
}

func TestConvertWindAngle(t *testing.T) {
	assert.Equal(t, Result{"0", "°", ""}, ConvertWindAngle(Missing))
	assert.Equal(t, Result{"0", "°", ""}, ConvertWindAngle(0))

	port := ConvertWindAngle(-0.5)
	assert.Contains(t, port.Value, "-28.64")
	assert.Equal(t, "°", port.Unit)
	assert.Empty(t, port.UnitSpace)

	// No side qualifier, unlike the AWA arm.
	assert.NotContains(t, ConvertWindAngle(0.5).Unit, "starboard")
}
