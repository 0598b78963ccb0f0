// Package geo handles geographic value types, spherical distance and planar topology tests.
package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTypeMismatch marks a missing, ill-shaped or non-numeric point or numeric argument.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidDuration marks a non-positive elapsed time.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidDistance marks a negative or non-finite distance.
	ErrInvalidDistance = errors.New("invalid distance")
	// ErrInvalidPolygon marks a ring with fewer than three vertices.
	ErrInvalidPolygon = errors.New("invalid polygon")
	// ErrTooManyPoints marks a point generation step too small for the leg.
	ErrTooManyPoints = errors.New("too many points")
)

// Point is a geographic coordinate in degrees.
// Ranges are not enforced: latitude should be within [-90, 90], longitude within [-180, 180].
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Polygon is an implicitly closed ring: the edge from the last vertex back to the first is
// always part of it. A ring whose last vertex repeats the first is accepted as well.
type Polygon []Point

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return isFinite(p.Lat) && isFinite(p.Lon)
}

// Equal reports whether both coordinates are exactly equal.
func (p Point) Equal(o Point) bool {
	return p.Lat == o.Lat && p.Lon == o.Lon
}

// String formats the point as "lat,lon".
func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lon)
}

// CheckPoint returns ErrTypeMismatch when p has a non-finite coordinate.
func CheckPoint(name string, p Point) error {
	if !p.Finite() {
		return fmt.Errorf("%w: %s has non-numeric coordinates (%v, %v)", ErrTypeMismatch, name, p.Lat, p.Lon)
	}
	return nil
}

// CheckNumber returns ErrTypeMismatch when v is NaN or infinite.
func CheckNumber(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s is not a number (%v)", ErrTypeMismatch, name, v)
	}
	return nil
}

// CheckPolygon validates every vertex and the vertex count of a ring.
// A duplicated closing vertex does not count towards the minimum of three.
func CheckPolygon(name string, ring Polygon) error {
	for i, p := range ring {
		if err := CheckPoint(fmt.Sprintf("%s[%d]", name, i), p); err != nil {
			return err
		}
	}

	if len(ring.Open()) < 3 {
		return fmt.Errorf("%w: %s needs at least 3 vertices, got %d", ErrInvalidPolygon, name, len(ring))
	}
	return nil
}

// Open returns the ring without a duplicated closing vertex.
func (r Polygon) Open() Polygon {
	if n := len(r); n > 1 && r[0].Equal(r[n-1]) {
		return r[:n-1]
	}
	return r
}

// Closed returns the ring with its first vertex repeated at the end, as GeoJSON and KML expect.
func (r Polygon) Closed() Polygon {
	open := r.Open()
	if len(open) == 0 {
		return nil
	}

	out := make(Polygon, 0, len(open)+1)
	out = append(out, open...)
	return append(out, open[0])
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeBearing maps any angle in degrees to [0, 360).
func NormalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}
