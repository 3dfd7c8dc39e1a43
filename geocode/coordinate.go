// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a validated (latitude, longitude) pair. Values are
// checked at construction so an invalid pair never reaches the wire.
type Coordinate struct {
	Lat float64
	Lon float64
}

// NewCoordinate validates the pair against the WGS84 value ranges.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %v outside [-90, 90]", lat)
	}

	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return Coordinate{}, fmt.Errorf("longitude %v outside [-180, 180]", lon)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// ParseCoordinate builds a Coordinate from the raw cell values of a
// tabular row.
func ParseCoordinate(lat, lon string) (Coordinate, error) {
	latValue, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("latitude %q is not a number", lat)
	}

	lonValue, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("longitude %q is not a number", lon)
	}

	return NewCoordinate(latValue, lonValue)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lon, 'f', -1, 64))
}
