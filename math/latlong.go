// math/latlong.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"fmt"
	gomath "math"
)

const NMPerLatitude = 60

const NauticalMilesToFeet = 6076.12
const FeetToNauticalMiles = 1 / NauticalMilesToFeet

// Latitudes are clamped to this when computing the local longitude scale;
// closer to the poles 1/cos(lat) blows up.
const maxGeodesyLatitude = 89.5

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float32

func (p Point2LL) Longitude() float32 {
	return p[0]
}

func (p Point2LL) Latitude() float32 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (26.083300, 54.000000)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// NMPerLongitude returns the number of nautical miles per degree of
// longitude at the given point; longitude lines converge toward the poles
// so this shrinks with cos(latitude). The latitude is clamped so that the
// result stays usefully non-zero near the poles.
func NMPerLongitude(p Point2LL) float32 {
	lat := Clamp(p[1], -maxGeodesyLatitude, maxGeodesyLatitude)
	return NMPerLatitude * float32(gomath.Cos(float64(lat)/180*gomath.Pi))
}

// NMDistance2LL returns the great-circle distance in nautical miles
// between two provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float32 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	const R = 6371000 // metres
	rad := func(d float64) float64 { return d / 180 * gomath.Pi }
	lat1, lon1 := rad(float64(a[1])), rad(float64(a[0]))
	lat2, lon2 := rad(float64(b[1])), rad(float64(b[0]))
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	dm := R * c // in metres

	return float32(dm * 0.000539957)
}

// Bearing2LL returns the initial great-circle bearing in degrees, [0,360),
// from the first point to the second.
func Bearing2LL(from Point2LL, to Point2LL) float32 {
	rad := func(d float64) float64 { return d / 180 * gomath.Pi }
	lat1, lon1 := rad(float64(from[1])), rad(float64(from[0]))
	lat2, lon2 := rad(float64(to[1])), rad(float64(to[0]))
	dlon := lon2 - lon1

	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	return NormalizeHeading(float32(gomath.Atan2(y, x) / gomath.Pi * 180))
}

// BearingRange returns both the initial great-circle bearing in degrees,
// [0,360), and the range in nautical miles from the first point to the
// second.
func BearingRange(from Point2LL, to Point2LL) (bearing float32, rangeNM float32) {
	return Bearing2LL(from, to), NMDistance2LL(from, to)
}

// NM2LL converts a point expressed in nautical mile coordinates to
// lat-long.
func NM2LL(p [2]float32, nmPerLongitude float32) Point2LL {
	return Point2LL{p[0] / nmPerLongitude, p[1] / NMPerLatitude}
}

// LL2NM converts a point expressed in latitude-longitude coordinates to
// nautical mile coordinates; this is useful for example for reasoning
// about distances, since both axes then have the same measure.
func LL2NM(p Point2LL, nmPerLongitude float32) [2]float32 {
	return [2]float32{p[0] * nmPerLongitude, p[1] * NMPerLatitude}
}

// Offset2LL returns the point at distance dist nm along the vector with
// heading hdg from the given point. It assumes a (locally) flat earth:
// the latitude delta is dist*cos(hdg)/60 and the longitude delta is
// scaled by the local longitude compression.
func Offset2LL(pll Point2LL, hdg float32, dist float32) Point2LL {
	nmPerLongitude := NMPerLongitude(pll)
	p := LL2NM(pll, nmPerLongitude)
	v := SinCos(Radians(hdg))
	v = Scale2f(v, dist)
	p = Add2f(p, v)
	return NM2LL(p, nmPerLongitude)
}

// Positions are stored as [longitude, latitude] arrays in JSON.
func (p Point2LL) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float32(p))
}

func (p *Point2LL) UnmarshalJSON(b []byte) error {
	var pt [2]float32
	err := json.Unmarshal(b, &pt)
	if err == nil {
		*p = pt
	}
	return err
}
