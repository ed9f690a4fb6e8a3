// Package geo holds the small amount of coordinate math PathQuest needs:
// points, bounding boxes, viewport panning and great-circle distance.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within WGS84 ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// String renders the point with five decimals (about one metre).
func (p Point) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

// DistanceMeters returns the haversine distance between two points.
func DistanceMeters(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Bounds is a bounding box. Boxes crossing the antimeridian are not supported.
type Bounds struct {
	MinLat float64 `json:"minLat" toml:"min_lat"`
	MinLng float64 `json:"minLng" toml:"min_lng"`
	MaxLat float64 `json:"maxLat" toml:"max_lat"`
	MaxLng float64 `json:"maxLng" toml:"max_lng"`
}

// IsZero reports whether b is the zero box.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// Valid reports whether b is a well-formed box within WGS84 ranges.
func (b Bounds) Valid() bool {
	return Point{Lat: b.MinLat, Lng: b.MinLng}.Valid() &&
		Point{Lat: b.MaxLat, Lng: b.MaxLng}.Valid() &&
		b.MinLat < b.MaxLat && b.MinLng < b.MaxLng
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Around builds a box of the given half-size in degrees centred on p.
func Around(p Point, halfDeg float64) Bounds {
	return Bounds{
		MinLat: p.Lat - halfDeg,
		MinLng: p.Lng - halfDeg,
		MaxLat: p.Lat + halfDeg,
		MaxLng: p.Lng + halfDeg,
	}.clamp()
}

// Pan shifts the box by a fraction of its own size. dx moves east, dy moves
// north. The box keeps its size when it hits the edge of the world.
func (b Bounds) Pan(dx, dy float64) Bounds {
	width := b.MaxLng - b.MinLng
	height := b.MaxLat - b.MinLat

	shiftLng := clampShift(dx*width, b.MinLng, b.MaxLng, -180, 180)
	shiftLat := clampShift(dy*height, b.MinLat, b.MaxLat, -90, 90)

	return Bounds{
		MinLat: b.MinLat + shiftLat,
		MinLng: b.MinLng + shiftLng,
		MaxLat: b.MaxLat + shiftLat,
		MaxLng: b.MaxLng + shiftLng,
	}
}

// Zoom scales the box around its centre. factor < 1 zooms in.
func (b Bounds) Zoom(factor float64) Bounds {
	if factor <= 0 {
		return b
	}
	c := b.Center()
	halfLat := (b.MaxLat - b.MinLat) / 2 * factor
	halfLng := (b.MaxLng - b.MinLng) / 2 * factor
	return Bounds{
		MinLat: c.Lat - halfLat,
		MinLng: c.Lng - halfLng,
		MaxLat: c.Lat + halfLat,
		MaxLng: c.Lng + halfLng,
	}.clamp()
}

func (b Bounds) clamp() Bounds {
	b.MinLat = math.Max(b.MinLat, -90)
	b.MaxLat = math.Min(b.MaxLat, 90)
	b.MinLng = math.Max(b.MinLng, -180)
	b.MaxLng = math.Min(b.MaxLng, 180)
	return b
}

func clampShift(shift, lo, hi, min, max float64) float64 {
	if lo+shift < min {
		return min - lo
	}
	if hi+shift > max {
		return max - hi
	}
	return shift
}
