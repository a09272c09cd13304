package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads "1d", "2w" and "1d12h" from YAML
// as well as everything time.ParseDuration accepts.
type Duration time.Duration

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// String prints whole days and weeks with their own suffix.
func (d Duration) String() string {
	td := time.Duration(d)
	switch {
	case td == 0:
		return "0s"
	case td%Week == 0:
		return strconv.FormatInt(int64(td/Week), 10) + "w"
	case td%Day == 0:
		return strconv.FormatInt(int64(td/Day), 10) + "d"
	}
	return td.String()
}

// ParseDuration parses a duration, adding d and w to the standard units.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !strings.ContainsAny(s, "dw") {
		return time.ParseDuration(s)
	}

	var total time.Duration
	rest := s
	for rest != "" {
		num, unit, tail, err := splitQuantity(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		base, ok := durationUnits[unit]
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, unit)
		}
		total += time.Duration(num * float64(base))
		rest = tail
	}
	return total, nil
}

var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  Day,
	"w":  Week,
}

// splitQuantity reads one "<number><unit>" pair off the front of s.
func splitQuantity(s string) (num float64, unit, rest string, err error) {
	i := strings.IndexFunc(s, func(r rune) bool { return r != '.' && !unicode.IsDigit(r) })
	if i <= 0 {
		return 0, "", "", fmt.Errorf("expected a number at %q", s)
	}
	j := strings.IndexFunc(s[i:], func(r rune) bool { return r == '.' || unicode.IsDigit(r) })
	if j < 0 {
		j = len(s) - i
	}
	num, err = strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", "", err
	}
	return num, s[i : i+j], s[i+j:], nil
}

// Distance is a length in meters. YAML accepts bare numbers (meters) or
// strings with one of the distanceUnits suffixes.
type Distance float64

func (d Distance) Meters() float64 { return float64(d) }

// NauticalMiles returns the distance in international nautical miles.
func (d Distance) NauticalMiles() float64 { return float64(d) / MetersPerNauticalMile }

const MetersPerNauticalMile = 1852.0

// Longest suffix first so "nm" and "km" win over "m".
var distanceUnits = []struct {
	suffix string
	meters float64
}{
	{"cbl", MetersPerNauticalMile / 10},
	{"nm", MetersPerNauticalMile},
	{"km", 1000},
	{"ft", 0.3048},
	{"m", 1},
}

func (d *Distance) UnmarshalYAML(value *yaml.Node) error {
	var f float64
	if value.Tag == "!!int" || value.Tag == "!!float" {
		if err := value.Decode(&f); err != nil {
			return err
		}
		*d = Distance(f)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	m, err := ParseDistance(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Distance(m)
	return nil
}

// MarshalYAML writes whole nautical miles and kilometers with their suffix
// and anything else in meters.
func (d Distance) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d Distance) String() string {
	m := float64(d)
	for _, u := range []struct {
		suffix string
		meters float64
	}{{"nm", MetersPerNauticalMile}, {"km", 1000}} {
		if m != 0 && math.Mod(m, u.meters) == 0 {
			return strconv.FormatFloat(m/u.meters, 'f', -1, 64) + u.suffix
		}
	}
	return strconv.FormatFloat(m, 'f', -1, 64) + "m"
}

// ParseDistance returns meters for a string such as "0.5nm", "2cbl",
// "1.5km", "30ft" or "200m". A bare number is meters.
func ParseDistance(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	mult := 1.0
	numStr := s
	for _, u := range distanceUnits {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.meters
			numStr = strings.TrimSuffix(s, u.suffix)
			break
		}
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid distance %q: %w", s, err)
	}
	return val * mult, nil
}
