// Package geo holds the small amount of spherical geometry the boat model
// needs, on top of orb.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Orb returns p as an orb point (lon, lat).
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point.
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lon: p.Lon()}
}

// Distance returns the great-circle distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.Distance(p1.Orb(), p2.Orb())
}

// DestinationPoint returns the point distMeters from start along bearing (degrees).
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	return FromOrb(orbgeo.PointAtBearingAndDistance(start.Orb(), bearing, distMeters))
}

// Bearing returns the initial bearing from p1 to p2 in degrees, [0, 360).
func Bearing(p1, p2 Point) float64 {
	return NormalizeHeading(orbgeo.Bearing(p1.Orb(), p2.Orb()))
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	for angleDeg > 180 {
		angleDeg -= 360
	}
	for angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}

// NormalizeHeading maps any angle to [0, 360).
func NormalizeHeading(angleDeg float64) float64 {
	h := math.Mod(angleDeg, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// RelativeAngle returns the angle of target relative to heading, both in
// degrees, in [-180, 180]. Negative is to port.
func RelativeAngle(target, heading float64) float64 {
	return NormalizeAngle(target - heading)
}

// Route builds a GeoJSON collection with the boat position and the active
// waypoint joined by a line.
func Route(pos, waypoint Point, props map[string]any) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	boat := geojson.NewFeature(pos.Orb())
	boat.Properties["role"] = "boat"
	for k, v := range props {
		boat.Properties[k] = v
	}
	fc.Append(boat)

	wp := geojson.NewFeature(waypoint.Orb())
	wp.Properties["role"] = "waypoint"
	fc.Append(wp)

	leg := geojson.NewFeature(orb.LineString{pos.Orb(), waypoint.Orb()})
	leg.Properties["role"] = "leg"
	leg.Properties["distance"] = Distance(pos, waypoint)
	fc.Append(leg)

	return fc
}
