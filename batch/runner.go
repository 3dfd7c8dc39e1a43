// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch runs reverse-geocode lookups over a table of
// coordinates, one row at a time, paced to the upstream rate limit.
package batch

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Connerpang/geo-converter/geocode"
	"github.com/Connerpang/geo-converter/tabular"
)

// Defaults for a batch run. One second between calls is the Nominatim
// usage policy ceiling.
const (
	DefaultLatColumn = "latitude"
	DefaultLonColumn = "longitude"
	DefaultDelay     = time.Second
)

// ResultColumns are appended, in order, to every output row.
var ResultColumns = []string{
	"city",
	"state",
	"country",
	"country_code",
	"postcode",
	"display_name",
	"status",
}

// Options configures a Runner.
type Options struct {
	// LatColumn is the name of the latitude column in the input
	LatColumn string

	// LonColumn is the name of the longitude column in the input
	LonColumn string

	// Delay is the fixed interval between consecutive lookups. The
	// first lookup is never delayed.
	Delay time.Duration
}

func (o *Options) withDefaults() Options {
	opts := Options{
		LatColumn: DefaultLatColumn,
		LonColumn: DefaultLonColumn,
		Delay:     DefaultDelay,
	}

	if o == nil {
		return opts
	}

	if o.LatColumn != "" {
		opts.LatColumn = o.LatColumn
	}

	if o.LonColumn != "" {
		opts.LonColumn = o.LonColumn
	}

	if o.Delay > 0 {
		opts.Delay = o.Delay
	}

	return opts
}

// Metrics tracks counters for one batch run.
type Metrics struct {
	Processed  int
	Successful int
	Failed     int
}

// ProgressFunc is notified with (processed, total) after every row.
type ProgressFunc func(processed, total int)

// Runner enriches tables row by row. Rows are processed strictly in
// input order with a single lookup in flight: the upstream service
// enforces a global one-request-per-second ceiling and parallel
// dispatch risks getting the client blocked.
type Runner struct {
	geocoder geocode.Geocoder
	options  Options
	Metrics  Metrics
}

// NewRunner creates a runner backed by the given geocoder.
func NewRunner(geocoder geocode.Geocoder, options *Options) *Runner {
	return &Runner{
		geocoder: geocoder,
		options:  options.withDefaults(),
	}
}

// Run enriches every row of table with the geocoder's answer and
// returns a new table with ResultColumns appended. Row-level failures
// (bad coordinates, upstream errors) land in the row's status column
// and never abort the batch. The only early exit is ctx cancellation,
// in which case the rows processed so far are returned along with the
// context's error.
func (r *Runner) Run(ctx context.Context, table *tabular.Table, progress ProgressFunc) (*tabular.Table, error) {
	latIdx, ok := table.Column(r.options.LatColumn)
	if !ok {
		return nil, fmt.Errorf("latitude column %q not found in input (available: %s)",
			r.options.LatColumn, strings.Join(table.Header(), ", "))
	}

	lonIdx, ok := table.Column(r.options.LonColumn)
	if !ok {
		return nil, fmt.Errorf("longitude column %q not found in input (available: %s)",
			r.options.LonColumn, strings.Join(table.Header(), ", "))
	}

	out := table.WithColumns(ResultColumns...)
	total := table.Len()

	// A token-per-delay limiter spaces the calls: the first token is
	// available immediately, so an N-row batch waits (N-1) delays.
	limiter := rate.NewLimiter(rate.Every(r.options.Delay), 1)

	for i := 0; i < total; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return out, err
		}

		row := table.Row(i)
		record := r.lookup(ctx, row[latIdx], row[lonIdx])

		// A lookup aborted by cancellation is not a processed row.
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		r.Metrics.Processed++
		if record.OK() {
			r.Metrics.Successful++
		} else {
			r.Metrics.Failed++
		}

		out.Append(append(slices.Clone(row), resultFields(record)...))

		if progress != nil {
			progress(i+1, total)
		}
	}

	return out, nil
}

func (r *Runner) lookup(ctx context.Context, lat, lon string) geocode.AddressRecord {
	coord, err := geocode.ParseCoordinate(lat, lon)
	if err != nil {
		// Never send a malformed coordinate upstream.
		return geocode.ErrorRecord(err)
	}

	return r.geocoder.Reverse(ctx, coord)
}

// resultFields serializes a record in ResultColumns order.
func resultFields(record geocode.AddressRecord) []string {
	return []string{
		record.City,
		record.State,
		record.Country,
		record.CountryCode,
		record.Postcode,
		record.DisplayName,
		record.Status,
	}
}
