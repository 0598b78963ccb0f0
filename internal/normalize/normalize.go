// Package normalize turns the loosely shaped coordinate input accepted at the edges
// (HTTP bodies, CLI arguments, YAML files) into geo values.
//
// Accepted point shapes:
//
//	{"lat": 59.9, "lon": 10.6}     also lng, latitude/longitude
//	{"y": 59.9, "x": 10.6}
//	[59.9, 10.6]
//	"59.9,10.6"
//
// Accepted point lists: an array of point shapes, a flat numeric array [lat, lon, lat, lon, ...],
// a "lat,lon;lat,lon" string or an encoded Google polyline.
//
// Every failure wraps geo.ErrTypeMismatch.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-polyline"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geodesy/internal/geo"
)

var (
	latKeys = []string{"lat", "latitude", "y"}
	lonKeys = []string{"lon", "lng", "long", "longitude", "x"}
)

// Point converts a decoded JSON/YAML value into a point.
func Point(v interface{}) (geo.Point, error) {
	var (
		p   geo.Point
		err error
	)

	switch t := v.(type) {
	case map[string]interface{}:
		p, err = pointFromMap(t)
	case []interface{}:
		p, err = pointFromPair(t)
	case string:
		p, err = ParsePoint(t)
	case geo.Point:
		p = t
	case nil:
		return geo.Point{}, mismatch("point is missing")
	default:
		return geo.Point{}, mismatch("unsupported point value %T", v)
	}
	if err != nil {
		return geo.Point{}, err
	}

	if err := geo.CheckPoint("point", p); err != nil {
		return geo.Point{}, err
	}
	return p, nil
}

// Points converts a decoded JSON/YAML value into a point list.
func Points(v interface{}) ([]geo.Point, error) {
	switch t := v.(type) {
	case string:
		return ParsePoints(t)
	case []geo.Point:
		return t, nil
	case geo.Polygon:
		return t, nil
	case []interface{}:
		if allNumbers(t) {
			return pointsFromFlat(t)
		}

		out := make([]geo.Point, 0, len(t))
		for i, item := range t {
			p, err := Point(item)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			out = append(out, p)
		}
		return out, nil
	case nil:
		return nil, mismatch("point list is missing")
	default:
		return nil, mismatch("unsupported point list %T", v)
	}
}

// Polygon converts a value into a ring with at least three distinct vertices.
func Polygon(v interface{}) (geo.Polygon, error) {
	points, err := Points(v)
	if err != nil {
		return nil, err
	}

	ring := geo.Polygon(points)
	if err := geo.CheckPolygon("polygon", ring); err != nil {
		return nil, err
	}
	return ring, nil
}

// ParsePoint parses "lat,lon" or a JSON/YAML point document.
func ParsePoint(s string) (geo.Point, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		doc, err := Decode([]byte(s))
		if err != nil {
			return geo.Point{}, err
		}
		return Point(doc)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, mismatch("point %q is not lat,lon", s)
	}

	lat, err := parseFloat(parts[0])
	if err != nil {
		return geo.Point{}, err
	}
	lon, err := parseFloat(parts[1])
	if err != nil {
		return geo.Point{}, err
	}

	p := geo.Point{Lat: lat, Lon: lon}
	if err := geo.CheckPoint("point", p); err != nil {
		return geo.Point{}, err
	}
	return p, nil
}

// ParsePoints parses "lat,lon;lat,lon", an encoded polyline or a JSON/YAML list document.
func ParsePoints(s string) ([]geo.Point, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, mismatch("point list is empty")
	case strings.HasPrefix(s, "["):
		doc, err := Decode([]byte(s))
		if err != nil {
			return nil, err
		}
		return Points(doc)
	case isPolyline(s):
		return DecodePolyline(s)
	}

	var out []geo.Point
	for i, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePoint(part)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Decode reads a YAML or JSON document into generic values.
func Decode(data []byte) (interface{}, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", geo.ErrTypeMismatch, err)
	}
	return doc, nil
}

// DecodePolyline decodes a Google encoded polyline (precision 5).
func DecodePolyline(encoded string) ([]geo.Point, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: decode polyline: %v", geo.ErrTypeMismatch, err)
	}
	if len(rest) != 0 {
		return nil, mismatch("polyline has %d trailing bytes", len(rest))
	}

	points := make([]geo.Point, len(coords))
	for i, c := range coords {
		points[i] = geo.Point{Lat: c[0], Lon: c[1]}
	}
	return points, nil
}

// EncodePolyline encodes points as a Google polyline.
func EncodePolyline(points []geo.Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

func pointFromMap(m map[string]interface{}) (geo.Point, error) {
	lower := make(map[string]interface{}, len(m))
	for k, v := range m {
		lower[strings.ToLower(k)] = v
	}

	lat, err := pick(lower, latKeys)
	if err != nil {
		return geo.Point{}, err
	}
	lon, err := pick(lower, lonKeys)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

func pick(m map[string]interface{}, keys []string) (float64, error) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			f, ok := number(v)
			if !ok {
				return 0, mismatch("field %q is %T, not a number", k, v)
			}
			return f, nil
		}
	}
	return 0, mismatch("missing field %s", strings.Join(keys, "/"))
}

func pointFromPair(pair []interface{}) (geo.Point, error) {
	if len(pair) != 2 {
		return geo.Point{}, mismatch("point array has %d elements, want 2", len(pair))
	}

	lat, ok := number(pair[0])
	if !ok {
		return geo.Point{}, mismatch("latitude is %T, not a number", pair[0])
	}
	lon, ok := number(pair[1])
	if !ok {
		return geo.Point{}, mismatch("longitude is %T, not a number", pair[1])
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

func pointsFromFlat(values []interface{}) ([]geo.Point, error) {
	if len(values)%2 != 0 {
		return nil, mismatch("flat coordinate array has odd length %d", len(values))
	}

	out := make([]geo.Point, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		p, err := Point(values[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i/2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func allNumbers(values []interface{}) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := number(v); !ok {
			return false
		}
	}
	return true
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", geo.ErrTypeMismatch, err)
	}
	return f, nil
}

// isPolyline reports whether s only holds characters of the polyline alphabet (63..126),
// which excludes digits, signs, commas and semicolons.
func isPolyline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 63 || s[i] > 126 {
			return false
		}
	}
	return true
}

func mismatch(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{geo.ErrTypeMismatch}, args...)...)
}
