// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr string
	}{
		{name: "paris", lat: 48.8566, lon: 2.3522},
		{name: "lat lower bound", lat: -90, lon: 0},
		{name: "lat upper bound", lat: 90, lon: 0},
		{name: "lon lower bound", lat: 0, lon: -180},
		{name: "lon upper bound", lat: 0, lon: 180},
		{name: "lat too high", lat: 90.0001, lon: 0, wantErr: "outside [-90, 90]"},
		{name: "lat too low", lat: -91, lon: 0, wantErr: "outside [-90, 90]"},
		{name: "lon too high", lat: 0, lon: 180.5, wantErr: "outside [-180, 180]"},
		{name: "lon too low", lat: 0, lon: -181, wantErr: "outside [-180, 180]"},
		{name: "lat NaN", lat: math.NaN(), lon: 0, wantErr: "outside [-90, 90]"},
		{name: "lon infinite", lat: 0, lon: math.Inf(1), wantErr: "outside [-180, 180]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, err := NewCoordinate(tt.lat, tt.lon)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.lat, coord.Lat)
			assert.Equal(t, tt.lon, coord.Lon)
		})
	}
}

func TestParseCoordinate(t *testing.T) {
	coord, err := ParseCoordinate(" 48.8566 ", "2.3522")
	require.NoError(t, err)
	assert.Equal(t, 48.8566, coord.Lat)
	assert.Equal(t, 2.3522, coord.Lon)

	_, err = ParseCoordinate("north", "2.3522")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `latitude "north" is not a number`)

	_, err = ParseCoordinate("48.8566", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")

	_, err = ParseCoordinate("123.4", "2.3522")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside [-90, 90]")
}

func TestCoordinateString(t *testing.T) {
	coord, err := NewCoordinate(-34.9, -56.16)
	require.NoError(t, err)
	assert.Equal(t, "(-34.9, -56.16)", coord.String())
}
