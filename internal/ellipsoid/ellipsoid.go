// Package ellipsoid holds the reference ellipsoids and datums used by the geodesic solver.
package ellipsoid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknown is returned when an ellipsoid or datum name is not in the catalog.
var ErrUnknown = errors.New("unknown ellipsoid")

// Ellipsoid describes a reference ellipsoid.
// A and B are the semi-major and semi-minor axes in meters, F is the flattening (a-b)/a.
type Ellipsoid struct {
	Name string  `json:"name" yaml:"name"`
	A    float64 `json:"a" yaml:"a"`
	B    float64 `json:"b" yaml:"b"`
	F    float64 `json:"f" yaml:"f"`
}

// Reference ellipsoids. At least one of a, b, f is derived from the defining constants of each.
var (
	WGS84        = Ellipsoid{Name: "WGS84", A: 6378137, B: 6356752.314245, F: 1 / 298.257223563}
	GRS80        = Ellipsoid{Name: "GRS80", A: 6378137, B: 6356752.314140, F: 1 / 298.257222101}
	Airy1830     = Ellipsoid{Name: "Airy1830", A: 6377563.396, B: 6356256.909, F: 1 / 299.3249646}
	AiryModified = Ellipsoid{Name: "AiryModified", A: 6377340.189, B: 6356034.448, F: 1 / 299.3249646}
	Bessel1841   = Ellipsoid{Name: "Bessel1841", A: 6377397.155, B: 6356078.962818, F: 1 / 299.1528128}
	Clarke1866   = Ellipsoid{Name: "Clarke1866", A: 6378206.4, B: 6356583.8, F: 1 / 294.978698214}
	Intl1924     = Ellipsoid{Name: "Intl1924", A: 6378388, B: 6356911.946, F: 1 / 297} // aka Hayford
	WGS72        = Ellipsoid{Name: "WGS72", A: 6378135, B: 6356750.5, F: 1 / 298.26}
)

var ellipsoids = map[string]Ellipsoid{
	"wgs84":        WGS84,
	"grs80":        GRS80,
	"airy1830":     Airy1830,
	"airymodified": AiryModified,
	"bessel1841":   Bessel1841,
	"clarke1866":   Clarke1866,
	"intl1924":     Intl1924,
	"hayford":      Intl1924,
	"wgs72":        WGS72,
}

// Lookup returns the ellipsoid registered under name, ignoring case.
// An empty name resolves to WGS84.
func Lookup(name string) (Ellipsoid, error) {
	if name == "" {
		return WGS84, nil
	}

	e, ok := ellipsoids[strings.ToLower(name)]
	if !ok {
		return Ellipsoid{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	return e, nil
}

// All returns every catalog ellipsoid once, sorted by name.
func All() []Ellipsoid {
	seen := make(map[string]bool, len(ellipsoids))
	out := make([]Ellipsoid, 0, len(ellipsoids))
	for _, e := range ellipsoids {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsZero reports whether e carries no parameters.
func (e Ellipsoid) IsZero() bool {
	return e.A == 0 && e.B == 0 && e.F == 0
}

// OrDefault returns e, or WGS84 when e is the zero value.
func (e Ellipsoid) OrDefault() Ellipsoid {
	if e.IsZero() {
		return WGS84
	}
	return e
}
