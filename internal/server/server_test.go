package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/fence"
)

const testConfig = `
method: haversine
step: 300
fences:
  - name: square
    aliases: [box]
    polygon: "0,0;0,3;3,3;3,0"
  - name: big
    index: 0
    polygon: [[0, 0], [0, 10], [10, 10], [10, 0]]
`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	reg, err := fence.Load(context.Background(), nil, cfg)
	require.NoError(t, err)

	return NewServerContext(cfg, reg, []byte("<!doctype html><title>geodesy</title>")).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, rd))

	res := rec.Result()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestIndex(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "<title>geodesy</title>")

	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	res, _ = do(t, h, http.MethodGet, "/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCatalog(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodGet, "/api/ellipsoids", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ellipsoids []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &ellipsoids))
	assert.Len(t, ellipsoids, 8)

	res, body = do(t, h, http.MethodGet, "/api/datums", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var datums []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &datums))
	assert.Len(t, datums, 8)
}

func TestDistance(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, out map[string]interface{})
	}{
		{
			name:   "haversine objects",
			body:   `{"p1":{"lat":70.3369224,"lon":30.3411273},"p2":{"lat":59.8939528,"lon":10.6450348}}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]interface{}) {
				assert.Equal(t, 1468.28, out["distance"])
				assert.Equal(t, "km", out["unit"])
				assert.Equal(t, "haversine", out["method"])
			},
		},
		{
			name:   "vincenty strings with speed",
			body:   `{"p1":"70.3369224,30.3411273","p2":[59.8939528,10.6450348],"method":"vincenty","timeUsed":432000}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]interface{}) {
				assert.InDelta(t, 1472.85899, out["distance"], 1e-9)
				assert.Equal(t, "vincenty", out["method"])
				assert.Equal(t, 432000.0, out["timeUsedInSeconds"])
				assert.Contains(t, out, "speedMpk")
			},
		},
		{
			name:   "fallback",
			body:   `{"p1":[0,0],"p2":[0.5,179.7],"method":"vincenty","fallback":true}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]interface{}) {
				assert.Equal(t, "haversine", out["method"])
			},
		},
		{
			name:   "convergence failure",
			body:   `{"p1":[0,0],"p2":[0.5,179.7],"method":"vincenty"}`,
			status: http.StatusUnprocessableEntity,
		},
		{name: "missing p2", body: `{"p1":[0,0]}`, status: http.StatusBadRequest},
		{name: "bad shape", body: `{"p1":[0,0],"p2":{"lat":"x"}}`, status: http.StatusBadRequest},
		{name: "unknown method", body: `{"p1":[0,0],"p2":[1,1],"method":"taxi"}`, status: http.StatusBadRequest},
		{name: "unknown ellipsoid", body: `{"p1":[0,0],"p2":[1,1],"ellipsoid":"mars"}`, status: http.StatusBadRequest},
		{name: "negative time", body: `{"p1":[0,0],"p2":[1,1],"timeUsed":-3}`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"p1":[0,0],"p2":[1,1],"speed":3}`, status: http.StatusBadRequest},
		{name: "not json", body: `hello`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := do(t, h, http.MethodPost, "/api/distance", tt.body)
			require.Equal(t, tt.status, res.StatusCode, string(body))

			out := decode(t, body)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, out["error"])
				return
			}
			tt.check(t, out)
		})
	}
}

func TestInverseAndDirect(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodPost, "/api/inverse",
		`{"p1":[70.3369224,30.3411273],"p2":[59.8939528,10.6450348],"ellipsoid":"WGS84"}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	out := decode(t, body)
	assert.InDelta(t, 1472858.99, out["distance"], 1e-6)
	assert.InDelta(t, 227.7704951964118, out["initialBearing"], 1e-9)
	assert.InDelta(t, 209.79851310389347, out["finalBearing"], 1e-9)

	res, body = do(t, h, http.MethodPost, "/api/direct",
		`{"p1":{"lat":70.3705708,"lon":31.1049573},"distance":10000,"bearing":360}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	out = decode(t, body)
	point, ok := out["point"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 70.46020285321445, point["lat"], 1e-9)
	assert.InDelta(t, 31.1049573, point["lon"], 1e-9)

	res, _ = do(t, h, http.MethodPost, "/api/inverse", `{"p1":[0,0],"p2":[0.5,179.7]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res, _ = do(t, h, http.MethodGet, "/api/inverse", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestDestinationAndPoints(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodPost, "/api/destination", `{"p1":[70,30],"bearing":360,"distance":10000}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	point := decode(t, body)["point"].(map[string]interface{})
	assert.InDelta(t, 70.08993216059186, point["lat"], 1e-9)

	// configured step is 300 m
	res, body = do(t, h, http.MethodPost, "/api/points", `{"p1":[70,30],"p2":[70.01,30.01],"encode":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	out := decode(t, body)
	assert.Equal(t, 3.0, out["count"])
	assert.Equal(t, 300.0, out["step"])
	assert.NotEmpty(t, out["polyline"])

	res, body = do(t, h, http.MethodPost, "/api/points", `{"p1":[70,30],"p2":[70.01,30.01],"step":100}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	out = decode(t, body)
	assert.Equal(t, 11.0, out["count"])
	assert.NotContains(t, out, "polyline")

	res, body = do(t, h, http.MethodPost, "/api/points", `{"p1":[70,30],"p2":[70,30]}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Equal(t, []interface{}{}, decode(t, body)["points"])

	res, body = do(t, h, http.MethodPost, "/api/points", `{"p1":[0,0],"p2":[0,90],"step":1e-15}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(body))
	assert.Contains(t, decode(t, body)["error"], "too many points")
}

func TestSpeed(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodPost, "/api/speed", `{"distanceKm":12,"seconds":3600}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	out := decode(t, body)
	assert.Equal(t, 12.0, out["speedKph"])
	assert.Equal(t, "5:00.00", out["speedMpk"])

	res, _ = do(t, h, http.MethodPost, "/api/speed", `{"distanceKm":12,"seconds":0}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPolygonPredicates(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		path, body, key string
		want            bool
	}{
		{path: "/api/inside", body: `{"point":[1,1],"polygon":"0,0;0,3;3,3;3,0"}`, key: "inside", want: true},
		{path: "/api/inside", body: `{"point":{"y":5,"x":5},"polygon":[0,0,0,3,3,3,3,0]}`, key: "inside", want: false},
		{path: "/api/intersect", body: `{"a1":[0,0],"a2":[3,3],"b1":[0,2],"b2":[4,1]}`, key: "intersect", want: true},
		{path: "/api/intersect", body: `{"a1":[0,0],"a2":[0,1],"b1":[1,0],"b2":[1,1]}`, key: "intersect", want: false},
		{path: "/api/overlap", body: `{"a":[[1,1],[1,4],[8,4],[8,1]],"b":[[3,0],[3,6],[7,6],[7,0]]}`, key: "overlap", want: true},
		{path: "/api/overlap", body: `{"a":"0,0;0,3;3,3;3,0","b":"10,10;10,12;12,12;12,10"}`, key: "overlap", want: false},
	}

	for _, tt := range tests {
		res, body := do(t, h, http.MethodPost, tt.path, tt.body)
		require.Equal(t, http.StatusOK, res.StatusCode, string(body))
		assert.Equal(t, tt.want, decode(t, body)[tt.key], tt.body)
	}

	res, _ := do(t, h, http.MethodPost, "/api/inside", `{"point":[1,1],"polygon":"0,0;1,1"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, h, http.MethodPost, "/api/intersect", `{"a1":[0,0],"a2":[3,3],"b1":[0,2]}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestFences(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodGet, "/api/fences", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var fences []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &fences))
	require.Len(t, fences, 2)
	assert.Equal(t, "big", fences[0]["name"])

	res, body = do(t, h, http.MethodGet, "/api/fences/contains?lat=1&lon=1", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &fences))
	assert.Len(t, fences, 2)

	res, body = do(t, h, http.MethodGet, "/api/fences/contains?point=50,50", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))

	res, _ = do(t, h, http.MethodGet, "/api/fences/contains?lat=north&lon=1", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = do(t, h, http.MethodGet, "/fences/box/contains?lat=1&lon=1", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decode(t, body)
	assert.Equal(t, "square", out["fence"])
	assert.Equal(t, true, out["inside"])

	res, _ = do(t, h, http.MethodGet, "/fences/lake/contains?lat=1&lon=1", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFenceExport(t *testing.T) {
	h := newTestServer(t)

	res, body := do(t, h, http.MethodGet, "/fences/square.geojson", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/geo+json", res.Header.Get("Content-Type"))
	assert.Equal(t, "FeatureCollection", decode(t, body)["type"])

	res, body = do(t, h, http.MethodGet, "/fences/box.kml", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", res.Header.Get("Content-Type"))
	assert.True(t, bytes.Contains(body, []byte("<name>square</name>")))

	res, body = do(t, h, http.MethodGet, "/fences/big.yaml", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "type: FeatureCollection")

	res, _ = do(t, h, http.MethodGet, "/fences/square.shp", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, h, http.MethodGet, "/fences/nowhere.kml", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = do(t, h, http.MethodGet, "/fences/square", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)

	do(t, h, http.MethodGet, "/api/ellipsoids", "")
	res, body := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `geodesy_http_requests_total{method="GET",path="GET /api/ellipsoids",status="200"}`)
}

// metricValue reads one series from the /metrics page, zero when it is not exported yet.
func metricValue(t *testing.T, h http.Handler, series string) float64 {
	t.Helper()

	_, body := do(t, h, http.MethodGet, "/metrics", "")
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, series+" ") {
			v, err := strconv.ParseFloat(strings.TrimPrefix(line, series+" "), 64)
			require.NoError(t, err, line)
			return v
		}
	}
	return 0
}

func TestDistance_ObservesSolver(t *testing.T) {
	h := newTestServer(t)

	converged := `geodesy_solver_outcomes_total{op="inverse",outcome="converged"}`
	failed := `geodesy_solver_outcomes_total{op="inverse",outcome="convergence_failure"}`
	beforeConverged := metricValue(t, h, converged)
	beforeFailed := metricValue(t, h, failed)

	res, body := do(t, h, http.MethodPost, "/api/distance", `{"p1":[70.3369224,30.3411273],"p2":[59.8939528,10.6450348],"method":"vincenty"}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	res, body = do(t, h, http.MethodPost, "/api/distance", `{"p1":[0,0],"p2":[0.5,179.7],"method":"vincenty","fallback":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	assert.Equal(t, beforeConverged+1, metricValue(t, h, converged))
	assert.Equal(t, beforeFailed+1, metricValue(t, h, failed))
}
