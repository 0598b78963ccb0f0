// Package vincenty solves the direct and inverse geodesic problems on an ellipsoid.
//
// T. Vincenty, "Direct and Inverse Solutions of Geodesics on the Ellipsoid with application of
// nested equations", Survey Review, vol XXIII no 176, 1975.
//
// Both solutions iterate to a fixed point. Iteration is capped at MaxIterations; nearly antipodal
// points may not converge within the cap and yield a *ConvergenceError. Callers that need an
// answer anyway can fall back to the spherical distance in package geo.
package vincenty

import (
	"math"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
)

const (
	// MaxIterations bounds the work done by a single solution.
	MaxIterations = 200
	// Tolerance is the convergence threshold on λ (inverse) and σ (direct), in radians.
	Tolerance = 1e-12
)

// InverseResult is the geodesic between two points.
// For coincident points every field is zero.
type InverseResult struct {
	DistanceMeters    float64 `json:"distance" yaml:"distance"`
	InitialBearingDeg float64 `json:"initialBearing" yaml:"initialBearing"`
	FinalBearingDeg   float64 `json:"finalBearing" yaml:"finalBearing"`
	Iterations        int     `json:"iterations" yaml:"iterations"`
}

// DirectResult is the end of a geodesic walked from an origin.
type DirectResult struct {
	Destination     geo.Point `json:"point" yaml:"point"`
	FinalBearingDeg float64   `json:"finalBearing" yaml:"finalBearing"`
	Iterations      int       `json:"iterations" yaml:"iterations"`
}

// outcome tags the end state of a bounded iteration.
type outcome struct {
	converged  bool
	iterations int
}

// iterate calls step until it reports a change within Tolerance or the cap is reached.
// step returns the change of the iterated quantity and whether to stop early.
func iterate(step func() (delta float64, done bool)) outcome {
	for i := 1; i <= MaxIterations; i++ {
		delta, done := step()
		if done {
			return outcome{converged: true, iterations: i}
		}
		if math.IsNaN(delta) {
			return outcome{iterations: i}
		}
		if math.Abs(delta) <= Tolerance {
			return outcome{converged: true, iterations: i}
		}
	}
	return outcome{iterations: MaxIterations}
}

// Solver runs Vincenty solutions on one ellipsoid. The zero value uses WGS84.
type Solver struct {
	Ellipsoid ellipsoid.Ellipsoid
}

// New returns a solver for e; a zero ellipsoid selects WGS84.
func New(e ellipsoid.Ellipsoid) *Solver {
	return &Solver{Ellipsoid: e.OrDefault()}
}

// Inverse solves the inverse problem on WGS84.
func Inverse(p1, p2 geo.Point) (InverseResult, error) {
	return New(ellipsoid.WGS84).Inverse(p1, p2)
}

// Direct solves the direct problem on WGS84.
func Direct(p1 geo.Point, distanceMeters, initialBearingDeg float64) (DirectResult, error) {
	return New(ellipsoid.WGS84).Direct(p1, distanceMeters, initialBearingDeg)
}

// Inverse returns the distance (meters, rounded to the millimeter) between p1 and p2 along
// the geodesic, with initial and final bearings in [0, 360).
func (s *Solver) Inverse(p1, p2 geo.Point) (InverseResult, error) {
	if err := geo.CheckPoint("p1", p1); err != nil {
		return InverseResult{}, err
	}
	if err := geo.CheckPoint("p2", p2); err != nil {
		return InverseResult{}, err
	}

	e := s.Ellipsoid.OrDefault()
	a, b, f := e.A, e.B, e.F

	L := toRadians(p2.Lon - p1.Lon)
	sinU1, cosU1 := reducedLatitude(toRadians(p1.Lat), f)
	sinU2, cosU2 := reducedLatitude(toRadians(p2.Lat), f)

	var sinLambda, cosLambda, sinSigma, cosSigma, sigma, sinAlpha, cosSqAlpha, cos2SigmaM float64
	coincident := false

	lambda := L
	out := iterate(func() (float64, bool) {
		sinLambda, cosLambda = math.Sincos(lambda)

		t := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt((cosU2*sinLambda)*(cosU2*sinLambda) + t*t)
		if sinSigma == 0 {
			coincident = true
			return 0, true
		}

		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		cos2SigmaM = 0 // equatorial line
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		return lambda - prev, false
	})

	if coincident {
		return InverseResult{}, nil
	}
	if !out.converged {
		return InverseResult{}, &ConvergenceError{Op: "inverse", Iterations: out.iterations}
	}

	A, B := seriesCoefficients(cosSqAlpha, a, b)
	deltaSigma := sigmaCorrection(B, sinSigma, cosSigma, cos2SigmaM)
	distance := b * A * (sigma - deltaSigma)

	alpha1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	alpha2 := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)

	return InverseResult{
		DistanceMeters:    math.Round(distance*1000) / 1000,
		InitialBearingDeg: azimuthDegrees(alpha1),
		FinalBearingDeg:   azimuthDegrees(alpha2),
		Iterations:        out.iterations,
	}, nil
}

// Direct returns the point reached from p1 after distanceMeters along the geodesic leaving at
// initialBearingDeg, and the bearing on arrival. Longitude is normalized to [-180, 180).
func (s *Solver) Direct(p1 geo.Point, distanceMeters, initialBearingDeg float64) (DirectResult, error) {
	if err := geo.CheckPoint("p1", p1); err != nil {
		return DirectResult{}, err
	}
	if err := geo.CheckNumber("distance", distanceMeters); err != nil {
		return DirectResult{}, err
	}
	if err := geo.CheckNumber("initialBearing", initialBearingDeg); err != nil {
		return DirectResult{}, err
	}

	e := s.Ellipsoid.OrDefault()
	a, b, f := e.A, e.B, e.F

	sinAlpha1, cosAlpha1 := math.Sincos(toRadians(initialBearingDeg))
	tanU1 := (1 - f) * math.Tan(toRadians(p1.Lat))
	sinU1, cosU1 := reducedLatitude(toRadians(p1.Lat), f)

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	A, B := seriesCoefficients(cosSqAlpha, a, b)

	var sinSigma, cosSigma, cos2SigmaM float64

	sigma := distanceMeters / (b * A)
	out := iterate(func() (float64, bool) {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)

		prev := sigma
		sigma = distanceMeters/(b*A) + sigmaCorrection(B, sinSigma, cosSigma, cos2SigmaM)

		return sigma - prev, false
	})
	if !out.converged {
		return DirectResult{}, &ConvergenceError{Op: "direct", Iterations: out.iterations}
	}

	x := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1, (1-f)*math.Sqrt(sinAlpha*sinAlpha+x*x))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)

	C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	L := lambda - (1-C)*f*sinAlpha*
		(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	lambda2 := math.Mod(toRadians(p1.Lon)+L+3*math.Pi, 2*math.Pi) - math.Pi

	return DirectResult{
		Destination:     geo.Point{Lat: toDegrees(phi2), Lon: toDegrees(lambda2)},
		FinalBearingDeg: azimuthDegrees(math.Atan2(sinAlpha, -x)),
		Iterations:      out.iterations,
	}, nil
}

// reducedLatitude returns sin and cos of the reduced latitude U, where tan U = (1-f) tan φ.
func reducedLatitude(phi, f float64) (sinU, cosU float64) {
	tanU := (1 - f) * math.Tan(phi)
	cosU = 1 / math.Sqrt(1+tanU*tanU)
	return tanU * cosU, cosU
}

// seriesCoefficients returns Vincenty's A and B from u² = cos²α (a²-b²)/b².
func seriesCoefficients(cosSqAlpha, a, b float64) (A, B float64) {
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A = 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B = uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	return A, B
}

func sigmaCorrection(B, sinSigma, cosSigma, cos2SigmaM float64) float64 {
	return B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
}

func azimuthDegrees(alpha float64) float64 {
	return geo.NormalizeBearing(toDegrees(math.Mod(alpha+2*math.Pi, 2*math.Pi)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
