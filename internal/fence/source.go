package fence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/normalize"
)

// Internal structures for GeoJSON parsing
type sourceDocument struct {
	Type     string          `json:"type"`
	Features []sourceFeature `json:"features"`
	Geometry *sourceGeometry `json:"geometry"`

	// bare geometry documents
	Coordinates json.RawMessage `json:"coordinates"`
}

type sourceFeature struct {
	Geometry sourceGeometry `json:"geometry"`
}

type sourceGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// fetchSource reads a GeoJSON document from a file path or an http(s) URL and returns
// the outer ring of its first polygon.
func fetchSource(ctx context.Context, client *http.Client, source string) (geo.Polygon, error) {
	data, err := readSource(ctx, client, source)
	if err != nil {
		return nil, err
	}

	return parseSource(data)
}

func readSource(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	log.Trace().Str("source", source).Int64("bytes", resp.ContentLength).Msg("Fence source downloaded")

	return io.ReadAll(resp.Body)
}

func parseSource(data []byte) (geo.Polygon, error) {
	var doc sourceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", geo.ErrTypeMismatch, err)
	}

	var geometries []sourceGeometry
	switch doc.Type {
	case "FeatureCollection":
		for _, f := range doc.Features {
			geometries = append(geometries, f.Geometry)
		}
	case "Feature":
		if doc.Geometry != nil {
			geometries = append(geometries, *doc.Geometry)
		}
	default:
		geometries = append(geometries, sourceGeometry{Type: doc.Type, Coordinates: doc.Coordinates})
	}

	for _, g := range geometries {
		if g.Type != "Polygon" {
			continue
		}

		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("%w: polygon coordinates: %v", geo.ErrTypeMismatch, err)
		}
		if len(rings) == 0 {
			break
		}

		// GeoJSON positions are [lon, lat]
		points := make([]interface{}, 0, len(rings[0]))
		for _, pos := range rings[0] {
			if len(pos) < 2 {
				return nil, fmt.Errorf("%w: position has %d elements", geo.ErrTypeMismatch, len(pos))
			}
			points = append(points, geo.Point{Lat: pos[1], Lon: pos[0]})
		}
		return normalize.Polygon(points)
	}

	return nil, fmt.Errorf("%w: document has no polygon", geo.ErrInvalidPolygon)
}
