// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves coordinates into human-readable locations
// using the OpenStreetMap Nominatim reverse geocoding service.
package geocode

import "context"

// StatusSuccess marks an AddressRecord that was resolved upstream.
// Any other status is a human-readable error description.
const StatusSuccess = "success"

// AddressRecord is the normalized result of one reverse-geocode lookup.
// Every field except Status may be empty: the upstream service omits
// subdivisions it does not know about.
type AddressRecord struct {
	City        string
	State       string
	Country     string
	CountryCode string
	Postcode    string
	DisplayName string
	Status      string
}

// OK reports whether the lookup succeeded.
func (r AddressRecord) OK() bool {
	return r.Status == StatusSuccess
}

// ErrorRecord builds a record carrying only a failure status. All
// location fields stay unset so downstream consumers can't confuse a
// failed row with an empty-but-successful one.
func ErrorRecord(err error) AddressRecord {
	return AddressRecord{Status: "error: " + err.Error()}
}

// Geocoder resolves a coordinate into an address record. Implementations
// never fail hard: upstream problems are carried in the record's Status
// so a batch can keep going row by row.
type Geocoder interface {
	Reverse(ctx context.Context, coord Coordinate) AddressRecord
}
