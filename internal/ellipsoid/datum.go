package ellipsoid

import (
	"fmt"
	"sort"
	"strings"
)

// Transform holds Helmert parameters from WGS84 to a datum.
// Translations are in meters, rotations in arc seconds, scale in ppm.
// No operation in this module applies it; it is carried for callers doing datum conversion.
type Transform struct {
	TX float64 `json:"tx" yaml:"tx"`
	TY float64 `json:"ty" yaml:"ty"`
	TZ float64 `json:"tz" yaml:"tz"`
	RX float64 `json:"rx" yaml:"rx"`
	RY float64 `json:"ry" yaml:"ry"`
	RZ float64 `json:"rz" yaml:"rz"`
	S  float64 `json:"s" yaml:"s"`
}

// Datum is a named reference to an ellipsoid.
type Datum struct {
	Name      string    `json:"name" yaml:"name"`
	Ellipsoid Ellipsoid `json:"ellipsoid" yaml:"ellipsoid"`
	Transform Transform `json:"transform" yaml:"transform"`
}

var datums = map[string]Datum{
	"wgs84": {Name: "WGS84", Ellipsoid: WGS84},
	// functionally equivalent to WGS84
	"nad83": {Name: "NAD83", Ellipsoid: GRS80, Transform: Transform{
		TX: 1.004, TY: -1.910, TZ: -0.515, RX: 0.0267, RY: 0.00034, RZ: 0.011, S: -0.0015,
	}},
	"osgb36": {Name: "OSGB36", Ellipsoid: Airy1830, Transform: Transform{
		TX: -446.448, TY: 125.157, TZ: -542.060, RX: -0.1502, RY: -0.2470, RZ: -0.8421, S: 20.4894,
	}},
	"ed50": {Name: "ED50", Ellipsoid: Intl1924, Transform: Transform{
		TX: 89.5, TY: 93.8, TZ: 123.1, RZ: 0.156, S: -1.2,
	}},
	"irl1975": {Name: "Irl1975", Ellipsoid: AiryModified, Transform: Transform{
		TX: -482.530, TY: 130.596, TZ: -564.557, RX: -1.042, RY: -0.214, RZ: -0.631, S: -8.150,
	}},
	"tokyojapan": {Name: "TokyoJapan", Ellipsoid: Bessel1841, Transform: Transform{
		TX: 148, TY: -507, TZ: -685,
	}},
	"nad27": {Name: "NAD27", Ellipsoid: Clarke1866, Transform: Transform{
		TX: 8, TY: -160, TZ: -176,
	}},
	"wgs72": {Name: "WGS72", Ellipsoid: WGS72, Transform: Transform{
		TZ: -4.5, RZ: 0.554, S: -0.22,
	}},
}

// LookupDatum returns the datum registered under name, ignoring case.
// An empty name resolves to WGS84.
func LookupDatum(name string) (Datum, error) {
	if name == "" {
		return datums["wgs84"], nil
	}

	d, ok := datums[strings.ToLower(name)]
	if !ok {
		return Datum{}, fmt.Errorf("%w datum: %q", ErrUnknown, name)
	}

	return d, nil
}

// Datums returns all known datums sorted by name.
func Datums() []Datum {
	out := make([]Datum, 0, len(datums))
	for _, d := range datums {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve looks a name up as an ellipsoid first and as a datum second.
func Resolve(name string) (Ellipsoid, error) {
	if e, err := Lookup(name); err == nil {
		return e, nil
	}

	d, err := LookupDatum(name)
	if err != nil {
		return Ellipsoid{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	return d.Ellipsoid, nil
}
