package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p1   Point
		p2   Point
		want float64
	}{
		{
			name: "Same Point",
			p1:   Point{Lat: 0, Lon: 0},
			p2:   Point{Lat: 0, Lon: 0},
			want: 0,
		},
		{
			name: "Cowes to Portsmouth",
			p1:   Point{Lat: 50.7660, Lon: -1.2980},
			p2:   Point{Lat: 50.7960, Lon: -1.1080},
			want: 13800, // Approx 13.8km
		},
		{
			name: "Equator 1 degree",
			p1:   Point{Lat: 0, Lon: 0},
			p2:   Point{Lat: 0, Lon: 1},
			want: 111319, // Approx 111km
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			// 1% margin for earth radius differences
			margin := tt.want * 0.01
			if tt.want == 0 {
				margin = 1e-6
			}
			if math.Abs(got-tt.want) > margin {
				t.Errorf("Distance() = %v, want %v (+/- %v)", got, tt.want, margin)
			}
		})
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name string
		to   Point
		want float64
	}{
		{"North", Point{Lat: 1, Lon: 0}, 0},
		{"East", Point{Lat: 0, Lon: 1}, 90},
		{"South", Point{Lat: -1, Lon: 0}, 180},
		{"West", Point{Lat: 0, Lon: -1}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(Point{}, tt.to)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Bearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDestinationPoint(t *testing.T) {
	start := Point{Lat: 50.7660, Lon: -1.2980}
	for _, bearing := range []float64{0, 45, 135, 270} {
		dest := DestinationPoint(start, 1852, bearing)
		if d := Distance(start, dest); math.Abs(d-1852) > 1 {
			t.Errorf("bearing %v: distance = %v, want 1852", bearing, d)
		}
		if b := Bearing(start, dest); math.Abs(NormalizeAngle(b-bearing)) > 0.1 {
			t.Errorf("bearing %v: got bearing %v", bearing, b)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, angle, heading float64
	}{
		{0, 0, 0},
		{190, -170, 190},
		{-190, 170, 170},
		{360, 0, 0},
		{-90, -90, 270},
		{540, 180, 180},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); got != tt.angle {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.angle)
		}
		if got := NormalizeHeading(tt.in); got != tt.heading {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tt.in, got, tt.heading)
		}
	}
}

func TestRelativeAngle(t *testing.T) {
	// Wind from 225 on a 180 heading comes over the starboard bow.
	if got := RelativeAngle(225, 180); got != 45 {
		t.Errorf("RelativeAngle = %v, want 45", got)
	}
	// Wind from 10 on a 350 heading is 20 to starboard, not 340 to port.
	if got := RelativeAngle(10, 350); got != 20 {
		t.Errorf("RelativeAngle = %v, want 20", got)
	}
	if got := RelativeAngle(300, 0); got != -60 {
		t.Errorf("RelativeAngle = %v, want -60", got)
	}
}

func TestRoute(t *testing.T) {
	pos := Point{Lat: 50.7660, Lon: -1.2980}
	wp := Point{Lat: 50.8470, Lon: -1.3110}
	fc := Route(pos, wp, map[string]any{"sog": 3.1})

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	boat := fc.Features[0]
	if boat.Properties["role"] != "boat" || boat.Properties["sog"] != 3.1 {
		t.Errorf("unexpected boat properties: %v", boat.Properties)
	}
	if got := FromOrb(boat.Geometry.Bound().Min); got != pos {
		t.Errorf("boat geometry = %v, want %v", got, pos)
	}
	if d, ok := fc.Features[2].Properties["distance"].(float64); !ok || d < 8000 || d > 10000 {
		t.Errorf("unexpected leg distance %v", fc.Features[2].Properties["distance"])
	}
}
