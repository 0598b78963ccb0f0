package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSpeed(t *testing.T) {
	s, err := DeriveSpeed(1468.28, 86400*5)
	require.NoError(t, err)

	assert.InDelta(t, 12.24, s.Kph, 0.005)
	assert.InDelta(t, 7.60, s.Mph, 0.01)
	assert.Equal(t, 4, s.Pace.Minutes)
	assert.InDelta(t, 54.22, s.Pace.Seconds, 0.01)
	assert.Equal(t, "4:54.22", s.Pace.String())
}

func TestDeriveSpeed_Errors(t *testing.T) {
	tests := []struct {
		name     string
		km, secs float64
		want     error
	}{
		{name: "zero seconds", km: 10, secs: 0, want: ErrInvalidDuration},
		{name: "negative seconds", km: 10, secs: -1, want: ErrInvalidDuration},
		{name: "nan seconds", km: 10, secs: math.NaN(), want: ErrInvalidDuration},
		{name: "negative distance", km: -1, secs: 60, want: ErrInvalidDistance},
		{name: "infinite distance", km: math.Inf(1), secs: 60, want: ErrInvalidDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveSpeed(tt.km, tt.secs)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDeriveSpeed_Stationary(t *testing.T) {
	s, err := DeriveSpeed(0, 600)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Kph)
	assert.Equal(t, "-:--", s.Pace.String())
}

func TestSpeedJSON(t *testing.T) {
	s, err := DeriveSpeed(12, 3600)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 12.0, decoded["speedKph"])
	assert.InDelta(t, 7.456452, decoded["speedMph"], 1e-9)
	assert.Equal(t, "5:00.00", decoded["speedMpk"])
}
