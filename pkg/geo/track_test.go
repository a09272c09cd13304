package geo

import (
	"math"
	"testing"
)

func TestTrackBuffer(t *testing.T) {
	tests := []struct {
		name       string
		windowSize int
		points     []Point
		wantOK     []bool
		wantCourse []float64 // after each push
	}{
		{
			name:       "Three fix window",
			windowSize: 3,
			points: []Point{
				{Lat: 10, Lon: 20},
				{Lat: 11, Lon: 20}, // north
				{Lat: 11, Lon: 21}, // 10,20 -> 11,21 roughly NE
				{Lat: 10, Lon: 21}, // 11,20 -> 10,21 roughly SE
			},
			wantOK:     []bool{false, true, true, true},
			wantCourse: []float64{0, 0, 45, 135},
		},
		{
			name:       "Stationary",
			windowSize: 2,
			points:     []Point{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 1}},
			wantOK:     []bool{false, false},
			wantCourse: []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTrackBuffer(tt.windowSize)
			for i, p := range tt.points {
				got, ok := b.Push(p)
				if ok != tt.wantOK[i] {
					t.Fatalf("step %d: ok = %v, want %v", i, ok, tt.wantOK[i])
				}
				if math.Abs(got-tt.wantCourse[i]) > 1.0 {
					t.Errorf("step %d: Push() = %v, want approx %v", i, got, tt.wantCourse[i])
				}
			}
		})
	}
}

func TestTrackBuffer_Reset(t *testing.T) {
	b := NewTrackBuffer(5)
	b.Push(Point{10, 20})
	b.Push(Point{11, 20})

	if b.Len() != 2 {
		t.Errorf("Expected 2 fixes, got %d", b.Len())
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Expected 0 fixes after reset, got %d", b.Len())
	}
	if _, ok := b.Push(Point{12, 20}); ok {
		t.Error("expected no course right after reset")
	}
}
