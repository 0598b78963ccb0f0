package geo

import (
	"fmt"
	"math"
)

const kmToMiles = 0.621371

// Pace is time per kilometer split into whole minutes and remaining seconds.
type Pace struct {
	Minutes int
	Seconds float64
}

// String formats the pace as "m:ss.ss". A zero pace (no movement) prints as "-:--".
func (p Pace) String() string {
	if p.Minutes == 0 && p.Seconds == 0 {
		return "-:--"
	}
	return fmt.Sprintf("%d:%05.2f", p.Minutes, p.Seconds)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML render the "m:ss.ss" form.
func (p Pace) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Speed is a distance over an elapsed time in several units.
type Speed struct {
	Kph  float64 `json:"speedKph" yaml:"speedKph"`
	Mph  float64 `json:"speedMph" yaml:"speedMph"`
	Pace Pace    `json:"speedMpk" yaml:"speedMpk"`
}

// DeriveSpeed converts a distance in km over elapsedSeconds into km/h, mph and pace.
// Pace stays zero when the distance is zero.
func DeriveSpeed(distanceKm, elapsedSeconds float64) (Speed, error) {
	if !isFinite(elapsedSeconds) || elapsedSeconds <= 0 {
		return Speed{}, fmt.Errorf("%w: elapsed seconds must be positive, got %v", ErrInvalidDuration, elapsedSeconds)
	}
	if !isFinite(distanceKm) || distanceKm < 0 {
		return Speed{}, fmt.Errorf("%w: %v km", ErrInvalidDistance, distanceKm)
	}

	kph := distanceKm / (elapsedSeconds / 3600)
	s := Speed{
		Kph: kph,
		Mph: kph * kmToMiles,
	}

	if kph > 0 {
		minutesPerKm := 60 / kph
		whole := math.Floor(minutesPerKm)
		s.Pace = Pace{
			Minutes: int(whole),
			Seconds: (minutesPerKm - whole) * 60,
		}
	}

	return s, nil
}
