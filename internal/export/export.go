// Package export writes geometry as GeoJSON (JSON or YAML) or KML.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/twpayne/go-kml"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geodesy/internal/geo"
)

// ErrUnknownFormat is returned by ParseFormat and Write for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Format of an exported document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	KML  Format = "kml"
)

// ParseFormat accepts json (alias geojson), yaml (alias yml) and kml.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json", "geojson":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "kml":
		return KML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case KML:
		return "application/vnd.google-earth.kml+xml"
	default:
		return "application/geo+json"
	}
}

// Write encodes fc to w in the given format. name titles the KML document.
func Write(w io.Writer, fc geo.GeoJSONFeatureCollection, format Format, name string) error {
	switch format {
	case JSON:
		return WriteGeoJSON(w, fc)
	case YAML:
		return WriteYAML(w, fc)
	case KML:
		return WriteKML(w, fc, name)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteGeoJSON writes fc as indented JSON.
func WriteGeoJSON(w io.Writer, fc geo.GeoJSONFeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes fc as YAML with the GeoJSON structure.
func WriteYAML(w io.Writer, fc geo.GeoJSONFeatureCollection) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}

// WriteKML writes fc as a KML document with one placemark per feature.
func WriteKML(w io.Writer, fc geo.GeoJSONFeatureCollection, name string) error {
	children := make([]kml.Element, 0, len(fc.Features)+1)
	if name != "" {
		children = append(children, kml.Name(name))
	}

	for i, f := range fc.Features {
		geometry, err := kmlGeometry(f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}

		placemark := []kml.Element{}
		if n, ok := f.Properties["name"].(string); ok && n != "" {
			placemark = append(placemark, kml.Name(n))
		}
		if d := description(f.Properties); d != "" {
			placemark = append(placemark, kml.Description(d))
		}
		placemark = append(placemark, geometry)

		children = append(children, kml.Placemark(placemark...))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func kmlGeometry(g geo.GeoJSONGeometry) (kml.Element, error) {
	switch g.Type {
	case "Point":
		c, ok := g.Coordinates.([]float64)
		if !ok || len(c) < 2 {
			return nil, fmt.Errorf("point coordinates are %T", g.Coordinates)
		}
		return kml.Point(kml.Coordinates(kml.Coordinate{Lon: c[0], Lat: c[1]})), nil

	case "LineString":
		c, ok := g.Coordinates.([][]float64)
		if !ok {
			return nil, fmt.Errorf("line coordinates are %T", g.Coordinates)
		}
		return kml.LineString(kml.Coordinates(coordinates(c)...)), nil

	case "Polygon":
		rings, ok := g.Coordinates.([][][]float64)
		if !ok || len(rings) == 0 {
			return nil, fmt.Errorf("polygon coordinates are %T", g.Coordinates)
		}
		return kml.Polygon(
			kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coordinates(rings[0])...))),
		), nil

	default:
		return nil, fmt.Errorf("unsupported geometry %q", g.Type)
	}
}

func coordinates(lonLats [][]float64) []kml.Coordinate {
	out := make([]kml.Coordinate, 0, len(lonLats))
	for _, c := range lonLats {
		if len(c) < 2 {
			continue
		}
		out = append(out, kml.Coordinate{Lon: c[0], Lat: c[1]})
	}
	return out
}

// description joins the non-name properties as "key: value" lines, sorted by key.
func description(props map[string]interface{}) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k != "name" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %v", k, props[k])
	}
	return sb.String()
}
