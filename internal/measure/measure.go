// Package measure is the single entry point for "how far apart are these two points":
// it picks the spherical or the ellipsoidal model, attaches the bearing and, given an elapsed
// time, the derived speed.
package measure

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/vincenty"
)

// ErrUnknownMethod is returned for a method name other than haversine or vincenty.
var ErrUnknownMethod = errors.New("unknown distance method")

// Method selects the earth model.
type Method string

const (
	Haversine Method = "haversine"
	Vincenty  Method = "vincenty"
)

// ParseMethod accepts a case-insensitive method name; empty selects Haversine.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case "", Haversine:
		return Haversine, nil
	case Vincenty:
		return Vincenty, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// Options tune Distance. The zero value measures on the sphere without speed.
type Options struct {
	Method    Method
	Ellipsoid ellipsoid.Ellipsoid // vincenty only, zero means WGS84

	// ElapsedSeconds, when non-zero, adds speed and pace to the result.
	ElapsedSeconds float64

	// Fallback measures on the sphere when the ellipsoidal solution does not converge.
	Fallback bool

	// Observe, when set, receives the outcome of every ellipsoidal solution.
	Observe func(op string, iterations int, err error)
}

// Result of Distance. Distance is always in kilometers.
type Result struct {
	Distance float64 `json:"distance" yaml:"distance"`
	Unit     string  `json:"unit" yaml:"unit"`
	Method   Method  `json:"method" yaml:"method"`
	Bearing  float64 `json:"bearing" yaml:"bearing"`

	TimeUsedInSeconds float64 `json:"timeUsedInSeconds,omitempty" yaml:"timeUsedInSeconds,omitempty"`
	SpeedKph          float64 `json:"speedKph,omitempty" yaml:"speedKph,omitempty"`
	SpeedMph          float64 `json:"speedMph,omitempty" yaml:"speedMph,omitempty"`
	SpeedMpk          string  `json:"speedMpk,omitempty" yaml:"speedMpk,omitempty"`
}

// Distance measures p1 to p2.
func Distance(p1, p2 geo.Point, opts Options) (Result, error) {
	km, method, err := Leg(p1, p2, opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Distance: km,
		Unit:     "km",
		Method:   method,
		Bearing:  geo.Bearing(p1, p2),
	}
	if method == Haversine {
		res.Distance = math.Round(km*100) / 100
	}

	if opts.ElapsedSeconds != 0 {
		speed, err := geo.DeriveSpeed(res.Distance, opts.ElapsedSeconds)
		if err != nil {
			return Result{}, err
		}

		res.TimeUsedInSeconds = opts.ElapsedSeconds
		res.SpeedKph = speed.Kph
		res.SpeedMph = speed.Mph
		res.SpeedMpk = speed.Pace.String()
	}

	return res, nil
}

// Leg returns the unrounded distance from p1 to p2 in kilometers and the method that produced
// it. Sums of legs, such as a track length, should be built from Leg and rounded once.
func Leg(p1, p2 geo.Point, opts Options) (float64, Method, error) {
	if err := geo.CheckPoint("p1", p1); err != nil {
		return 0, "", err
	}
	if err := geo.CheckPoint("p2", p2); err != nil {
		return 0, "", err
	}

	method := opts.Method
	if method == "" {
		method = Haversine
	}

	switch method {
	case Haversine:
		return geo.HaversineKm(p1, p2), Haversine, nil

	case Vincenty:
		inv, err := vincenty.New(opts.Ellipsoid).Inverse(p1, p2)
		if opts.Observe != nil {
			iterations := inv.Iterations
			var convErr *vincenty.ConvergenceError
			if errors.As(err, &convErr) {
				iterations = convErr.Iterations
			}
			opts.Observe("inverse", iterations, err)
		}

		switch {
		case err == nil:
			return inv.DistanceMeters / 1000, Vincenty, nil

		case opts.Fallback && errors.Is(err, vincenty.ErrConvergenceFailure):
			log.Debug().Err(err).Stringer("p1", p1).Stringer("p2", p2).Msg("falling back to haversine")
			return geo.HaversineKm(p1, p2), Haversine, nil

		default:
			return 0, "", err
		}

	default:
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
