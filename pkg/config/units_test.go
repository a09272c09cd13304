package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "250ms", want: 250 * time.Millisecond},
		{in: "90s", want: 90 * time.Second},
		{in: "1.5h", want: 90 * time.Minute},
		{in: "1d", want: Day},
		{in: "2w", want: 2 * Week},
		{in: "1d12h", want: 36 * time.Hour},
		{in: "0.5d", want: 12 * time.Hour},
		{in: " 3d ", want: 3 * Day},
		{in: ""},
		{in: "soon", wantErr: true},
		{in: "3dx", wantErr: true},
		{in: "d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "0s", Duration(0).String())
	assert.Equal(t, "2w", Duration(2*Week).String())
	assert.Equal(t, "3d", Duration(3*Day).String())
	assert.Equal(t, "1m0s", Duration(time.Minute).String())
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "200m", want: 200},
		{in: "1.5km", want: 1500},
		{in: "0.5nm", want: 926},
		{in: "2cbl", want: 370.4},
		{in: "10ft", want: 3.048},
		{in: "42", want: 42},
		{in: ""},
		{in: "10 fathoms", wantErr: true},
		{in: "nm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDistance(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDistance_String(t *testing.T) {
	assert.Equal(t, "1nm", Distance(1852).String())
	assert.Equal(t, "2km", Distance(2000).String())
	assert.Equal(t, "200m", Distance(200).String())
	assert.Equal(t, "0m", Distance(0).String())
	assert.InDelta(t, 0.5, Distance(926).NauticalMiles(), 1e-12)
}

func TestUnitsYAML(t *testing.T) {
	type doc struct {
		Every Duration `yaml:"every"`
		Leg   Distance `yaml:"leg"`
		Bare  Distance `yaml:"bare"`
		Float Distance `yaml:"float"`
	}

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("every: 1d\nleg: 0.5nm\nbare: 250\nfloat: 12.5\n"), &d))
	assert.Equal(t, Day, time.Duration(d.Every))
	assert.InDelta(t, 926.0, d.Leg.Meters(), 1e-9)
	assert.Equal(t, 250.0, d.Bare.Meters())
	assert.Equal(t, 12.5, d.Float.Meters())

	out, err := yaml.Marshal(doc{Every: Duration(Week), Leg: Distance(1852), Bare: Distance(75)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "every: 1w")
	assert.Contains(t, string(out), "leg: 1nm")
	assert.Contains(t, string(out), "bare: 75m")

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Duration(Week), back.Every)
	assert.Equal(t, Distance(1852), back.Leg)

	assert.Error(t, yaml.Unmarshal([]byte("leg: far\n"), &d))
}
