package measure

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/vincenty"
)

var (
	vardo = geo.Point{Lat: 70.3369224, Lon: 30.3411273}
	oslo  = geo.Point{Lat: 59.8939528, Lon: 10.6450348}

	// fails to converge within the iteration cap
	antipodeA = geo.Point{Lat: 0, Lon: 0}
	antipodeB = geo.Point{Lat: 0.5, Lon: 179.7}
)

func TestDistance_Haversine(t *testing.T) {
	res, err := Distance(vardo, oslo, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1468.28, res.Distance)
	assert.Equal(t, "km", res.Unit)
	assert.Equal(t, Haversine, res.Method)
	assert.InDelta(t, 227.7385, res.Bearing, 1e-4)
	assert.Zero(t, res.TimeUsedInSeconds)
	assert.Empty(t, res.SpeedMpk)
}

func TestDistance_Vincenty(t *testing.T) {
	res, err := Distance(vardo, oslo, Options{Method: Vincenty})
	require.NoError(t, err)

	assert.InDelta(t, 1472.85899, res.Distance, 1e-9)
	assert.Equal(t, Vincenty, res.Method)
	// bearing stays spherical whatever the method
	assert.InDelta(t, geo.Bearing(vardo, oslo), res.Bearing, 1e-12)

	airy, err := Distance(vardo, oslo, Options{Method: Vincenty, Ellipsoid: ellipsoid.Airy1830})
	require.NoError(t, err)
	assert.NotEqual(t, res.Distance, airy.Distance)
}

func TestDistance_Speed(t *testing.T) {
	res, err := Distance(vardo, oslo, Options{ElapsedSeconds: 86400 * 5})
	require.NoError(t, err)

	assert.Equal(t, 432000.0, res.TimeUsedInSeconds)
	assert.InDelta(t, 12.24, res.SpeedKph, 0.005)
	assert.InDelta(t, 7.60, res.SpeedMph, 0.01)
	assert.Equal(t, "4:54.22", res.SpeedMpk)

	_, err = Distance(vardo, oslo, Options{ElapsedSeconds: -5})
	assert.ErrorIs(t, err, geo.ErrInvalidDuration)
}

func TestDistance_Fallback(t *testing.T) {
	_, err := Distance(antipodeA, antipodeB, Options{Method: Vincenty})
	assert.ErrorIs(t, err, vincenty.ErrConvergenceFailure)

	res, err := Distance(antipodeA, antipodeB, Options{Method: Vincenty, Fallback: true})
	require.NoError(t, err)
	assert.Equal(t, Haversine, res.Method)
	assert.Equal(t, geo.SphericalDistance(antipodeA, antipodeB).DistanceKm, res.Distance)
	assert.InDelta(t, 19950.25, res.Distance, 0.01)
}

func TestDistance_Errors(t *testing.T) {
	_, err := Distance(geo.Point{Lat: math.NaN()}, oslo, Options{})
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)

	_, err = Distance(vardo, oslo, Options{Method: "manhattan"})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestLeg_Unrounded(t *testing.T) {
	// a few meters apart: the rounded distance is zero, the leg is not
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 0.00004, Lon: 0}

	res, err := Distance(a, b, Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Distance)

	km, method, err := Leg(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, Haversine, method)
	assert.InDelta(t, 0.0044478, km, 1e-7)

	km, method, err = Leg(a, b, Options{Method: Vincenty})
	require.NoError(t, err)
	assert.Equal(t, Vincenty, method)
	assert.InDelta(t, 0.004423, km, 1e-6)

	km, method, err = Leg(antipodeA, antipodeB, Options{Method: Vincenty, Fallback: true})
	require.NoError(t, err)
	assert.Equal(t, Haversine, method)
	assert.Equal(t, geo.HaversineKm(antipodeA, antipodeB), km)
}

func TestDistance_Observe(t *testing.T) {
	type call struct {
		op         string
		iterations int
		err        error
	}
	var calls []call
	observe := func(op string, iterations int, err error) {
		calls = append(calls, call{op, iterations, err})
	}

	_, err := Distance(vardo, oslo, Options{Observe: observe})
	require.NoError(t, err)
	assert.Empty(t, calls, "haversine does not run the solver")

	_, err = Distance(vardo, oslo, Options{Method: Vincenty, Observe: observe})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, call{"inverse", 4, nil}, calls[0])

	_, err = Distance(antipodeA, antipodeB, Options{Method: Vincenty, Fallback: true, Observe: observe})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, vincenty.MaxIterations, calls[1].iterations)
	assert.ErrorIs(t, calls[1].err, vincenty.ErrConvergenceFailure)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "", want: Haversine},
		{in: "haversine", want: Haversine},
		{in: " Vincenty ", want: Vincenty},
		{in: "VINCENTY", want: Vincenty},
		{in: "flat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultJSON(t *testing.T) {
	res, err := Distance(vardo, oslo, Options{})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "haversine", decoded["method"])
	assert.NotContains(t, decoded, "speedKph")
	assert.NotContains(t, decoded, "timeUsedInSeconds")
}
