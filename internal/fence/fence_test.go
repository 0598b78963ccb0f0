package fence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/geo"
)

const remoteFeature = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 1]}},
    {"type": "Feature", "properties": {}, "geometry": {
      "type": "Polygon",
      "coordinates": [[[10, 0], [20, 0], [20, 10], [10, 10], [10, 0]]]
    }}
  ]
}`

func intPtr(i int) *int { return &i }

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote.geojson" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(remoteFeature))
	}))
	defer srv.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "local.geojson")
	require.NoError(t, os.WriteFile(local,
		[]byte(`{"type":"Polygon","coordinates":[[[0,10],[5,10],[5,15],[0,15]]]}`), 0o600))

	cfg, err := config.Parse([]byte(`
fences:
  - name: square
    aliases: [box]
    polygon: "0,0;0,3;3,3;3,0"
  - name: remote
    index: 1
    source: ` + srv.URL + `/remote.geojson
  - name: local
    source: ` + local + `
  - name: broken
    source: ` + srv.URL + `/missing.geojson
`))
	require.NoError(t, err)

	reg, err := Load(context.Background(), srv.Client(), cfg)
	require.NoError(t, err)

	// broken is skipped, remote sorts first by index
	require.Equal(t, 3, reg.Len())
	names := []string{}
	for _, f := range reg.All() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"remote", "local", "square"}, names)

	remote, err := reg.Resolve("REMOTE")
	require.NoError(t, err)
	assert.Len(t, remote.Ring, 5)
	assert.True(t, remote.Contains(geo.Point{Lat: 5, Lon: 15}))

	local2, err := reg.Resolve("local")
	require.NoError(t, err)
	assert.True(t, local2.Contains(geo.Point{Lat: 12, Lon: 2}))

	box, err := reg.Resolve("box")
	require.NoError(t, err)
	assert.Equal(t, "square", box.Name)

	_, err = reg.Resolve("nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Containing(t *testing.T) {
	reg := NewRegistry(
		Fence{Name: "square", Ring: geo.Polygon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 3}, {Lat: 3, Lon: 3}, {Lat: 3, Lon: 0}}},
		Fence{Name: "big", index: intPtr(0), Ring: geo.Polygon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0}}},
	)

	inside := reg.Containing(geo.Point{Lat: 1, Lon: 1})
	require.Len(t, inside, 2)
	assert.Equal(t, "big", inside[0].Name)
	assert.Equal(t, "square", inside[1].Name)

	assert.Len(t, reg.Containing(geo.Point{Lat: 5, Lon: 5}), 1)
	assert.Empty(t, reg.Containing(geo.Point{Lat: 50, Lon: 50}))
}

func TestRegistry_FeatureCollection(t *testing.T) {
	reg := NewRegistry(
		Fence{Name: "square", Description: "unit", Aliases: []string{"box"},
			Ring: geo.Polygon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 3}, {Lat: 3, Lon: 3}, {Lat: 3, Lon: 0}}},
	)

	fc, err := reg.FeatureCollection()
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry.Type)
	assert.Equal(t, "square", fc.Features[0].Properties["name"])
	assert.Equal(t, "unit", fc.Features[0].Properties["description"])
	assert.Equal(t, "box", fc.Features[0].Properties["aliases"])

	fc, err = reg.FeatureCollection("box")
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)

	_, err = reg.FeatureCollection("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseSource(t *testing.T) {
	_, err := parseSource([]byte(`{"type":"Point","coordinates":[1,2]}`))
	assert.ErrorIs(t, err, geo.ErrInvalidPolygon)

	_, err = parseSource([]byte(`not json`))
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)

	ring, err := parseSource([]byte(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1]]]}}`))
	require.NoError(t, err)
	assert.Equal(t, geo.Point{Lat: 0, Lon: 1}, ring[1])
}
