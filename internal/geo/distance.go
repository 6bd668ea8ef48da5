package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a coordinate pair in degrees.
//
// A nil *Point means "no coordinates". Records that carry optional
// lat/lng fields convert through PointOf, so a half-filled pair never
// becomes a Point.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PointOf builds a Point from optional coordinates. It returns nil when
// either coordinate is missing or not a finite number.
func PointOf(lat, lng *float64) *Point {
	if lat == nil || lng == nil {
		return nil
	}
	if !finite(*lat) || !finite(*lng) {
		return nil
	}
	return &Point{Lat: *lat, Lng: *lng}
}

// Unknown reports whether d is the "unknown distance" sentinel.
func Unknown(d float64) bool {
	return math.IsInf(d, 1)
}

// DistanceKm returns the great-circle distance between a and b in
// kilometers, or +Inf when either point is absent.
func DistanceKm(a, b *Point) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}

	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	x := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Rounding can push x a hair past 1 for antipodal points.
	if x > 1 {
		x = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(x))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
