package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geodesy/internal/geo"
)

var square = geo.Polygon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 3}, {Lat: 3, Lon: 3}, {Lat: 3, Lon: 0}}

func sample() geo.GeoJSONFeatureCollection {
	return geo.NewFeatureCollection(
		geo.PolygonFeature(square, map[string]interface{}{"name": "square", "kind": "fence"}),
		geo.LineStringFeature([]geo.Point{{Lat: 70.1, Lon: 30.5}, {Lat: 59.9, Lon: 10.6}}, nil),
		geo.PointFeature(geo.Point{Lat: 70.1, Lon: 30.5}, map[string]interface{}{"name": "vardø"}),
	)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":        JSON,
		"geojson": JSON,
		"JSON":    JSON,
		"yml":     YAML,
		"yaml":    YAML,
		" kml ":   KML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("shp")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, "application/geo+json", JSON.ContentType())
	assert.Equal(t, "application/vnd.google-earth.kml+xml", KML.ContentType())
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), JSON, ""))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 3)
	assert.Equal(t, "Polygon", doc.Features[0].Geometry.Type)
	assert.JSONEq(t, `[[[0,0],[3,0],[3,3],[0,3],[0,0]]]`, string(doc.Features[0].Geometry.Coordinates))
	assert.JSONEq(t, `[[30.5,70.1],[10.6,59.9]]`, string(doc.Features[1].Geometry.Coordinates))
	assert.Empty(t, doc.Features[1].Properties)
	assert.JSONEq(t, `[30.5,70.1]`, string(doc.Features[2].Geometry.Coordinates))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), YAML, ""))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])

	features, ok := doc["features"].([]interface{})
	require.True(t, ok)
	assert.Len(t, features, 3)
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), KML, "fences"))

	out := buf.String()
	assert.Contains(t, out, `<kml xmlns="http://www.opengis.net/kml/2.2">`)
	assert.Contains(t, out, "<name>fences</name>")
	assert.Contains(t, out, "<name>square</name>")
	assert.Contains(t, out, "<description>kind: fence</description>")
	assert.Contains(t, out, "<coordinates>0,0 3,0 3,3 0,3 0,0</coordinates>")
	assert.Contains(t, out, "<coordinates>30.5,70.1 10.6,59.9</coordinates>")
	assert.Contains(t, out, "<coordinates>30.5,70.1</coordinates>")

	// well formed
	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestWriteKML_BadGeometry(t *testing.T) {
	fc := geo.NewFeatureCollection(geo.GeoJSONFeature{
		Type:     "Feature",
		Geometry: geo.GeoJSONGeometry{Type: "MultiPoint", Coordinates: [][]float64{{1, 2}}},
	})

	err := WriteKML(&bytes.Buffer{}, fc, "")
	assert.Error(t, err)

	err = Write(&bytes.Buffer{}, fc, Format("shp"), "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
