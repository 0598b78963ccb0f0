package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by every spherical formula.
	EarthRadiusKm = 6371.0
	earthRadiusM  = EarthRadiusKm * 1000

	// DefaultStep is the spacing in meters used by GeneratePoints when none is given.
	DefaultStep = 100.0

	// MaxGeneratedPoints caps the number of points GeneratePoints returns for one leg.
	MaxGeneratedPoints = 1_000_000
)

// SphericalResult is the great-circle distance and initial bearing between two points.
type SphericalResult struct {
	DistanceKm float64 `json:"distance" yaml:"distance"`
	BearingDeg float64 `json:"bearing" yaml:"bearing"`
}

// SphericalDistance returns the haversine distance (km, rounded to 2 decimals)
// and the forward azimuth from p1 to p2.
func SphericalDistance(p1, p2 Point) SphericalResult {
	return SphericalResult{
		DistanceKm: math.Round(HaversineKm(p1, p2)*100) / 100,
		BearingDeg: Bearing(p1, p2),
	}
}

// HaversineKm returns the unrounded great-circle distance in kilometers.
func HaversineKm(p1, p2 Point) float64 {
	return EarthRadiusKm * centralAngle(p1, p2)
}

func centralAngle(p1, p2 Point) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(p2.Lon - p1.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push h a hair outside [0, 1] near antipodes
	h = math.Max(0, math.Min(1, h))

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from p1 to p2 in degrees [0, 360).
func Bearing(p1, p2 Point) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	dLon := toRadians(p2.Lon - p1.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeBearing(toDegrees(math.Atan2(y, x)))
}

// Destination returns the point reached from origin after distanceMeters along bearingDeg on the sphere.
func Destination(origin Point, bearingDeg, distanceMeters float64) Point {
	lat1 := toRadians(origin.Lat)
	lon1 := toRadians(origin.Lon)
	theta := toRadians(bearingDeg)
	delta := distanceMeters / earthRadiusM

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	lat2 := math.Asin(math.Max(-1, math.Min(1, sinLat2)))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{Lat: toDegrees(lat2), Lon: toDegrees(lon2)}
}

// GeneratePoints returns points every stepMeters from p1 towards p2 along the initial bearing,
// excluding both endpoints. A non-positive step falls back to DefaultStep.
// A step that would yield more than MaxGeneratedPoints points is ErrTooManyPoints.
func GeneratePoints(p1, p2 Point, stepMeters float64) ([]Point, error) {
	if err := CheckPoint("p1", p1); err != nil {
		return nil, err
	}
	if err := CheckPoint("p2", p2); err != nil {
		return nil, err
	}
	if err := CheckNumber("step", stepMeters); err != nil {
		return nil, err
	}
	if stepMeters <= 0 {
		stepMeters = DefaultStep
	}

	total := HaversineKm(p1, p2) * 1000
	bearing := Bearing(p1, p2)

	count := total / stepMeters
	if count > MaxGeneratedPoints {
		return nil, fmt.Errorf("%w: step %v m over %.3f m asks for more than %d points",
			ErrTooManyPoints, stepMeters, total, MaxGeneratedPoints)
	}

	points := make([]Point, 0, int(count))
	for k := 1; float64(k)*stepMeters < total; k++ {
		points = append(points, Destination(p1, bearing, float64(k)*stepMeters))
	}

	return points, nil
}
