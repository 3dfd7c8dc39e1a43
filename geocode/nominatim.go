// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Connerpang/geo-converter/utils/httputils"
)

// Defaults for the Nominatim client. The user agent identifies the tool
// as required by the Nominatim usage policy.
const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org/reverse"
	DefaultUserAgent = "GeoConverter/1.0 (Reverse Geocoding App)"

	defaultTimeout = 10 * time.Second
)

// CityKeys are the address sub-fields consulted, in priority order, when
// extracting a locality name. Nominatim files a settlement under a
// different key depending on its size and region, so the first present,
// non-empty candidate wins. An address with none of them simply has no
// city.
var CityKeys = []string{"city", "town", "village", "municipality", "hamlet"}

// Options configures a NominatimClient.
type Options struct {
	// BaseURL is the reverse geocoding endpoint
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Timeout bounds each lookup, connection included
	Timeout time.Duration

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// NominatimClient issues one GET per lookup against a Nominatim
// /reverse endpoint. It keeps no state between calls: no retries, no
// caching.
type NominatimClient struct {
	baseURL string
	client  *http.Client
}

// NewNominatimClient creates a client with the provided options.
func NewNominatimClient(options *Options) *NominatimClient {
	if options == nil {
		options = &Options{}
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: http.DefaultTransport,
	}

	userAgent := DefaultUserAgent
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: loggingTransport,
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &NominatimClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: headerTransport,
		},
	}
}

// nominatimResponse is the subset of the /reverse payload we consume.
// Address sub-fields vary freely per place, hence the map.
type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// Reverse resolves coord into an AddressRecord. Network failures,
// non-2xx statuses and malformed payloads all land in the record's
// Status instead of an error return.
func (c *NominatimClient) Reverse(ctx context.Context, coord Coordinate) AddressRecord {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return ErrorRecord(fmt.Errorf("building request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ErrorRecord(fmt.Errorf("reverse geocoding request failed: %w", err))
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ErrorRecord(fmt.Errorf("nominatim returned status %d", resp.StatusCode))
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ErrorRecord(fmt.Errorf("decoding response: %w", err))
	}

	// Nominatim reports "Unable to geocode" and friends in-band with a
	// 200 status.
	if body.Error != "" {
		return ErrorRecord(fmt.Errorf("nominatim: %s", body.Error))
	}

	return AddressRecord{
		City:        extractCity(body.Address),
		State:       body.Address["state"],
		Country:     body.Address["country"],
		CountryCode: strings.ToUpper(body.Address["country_code"]),
		Postcode:    body.Address["postcode"],
		DisplayName: body.DisplayName,
		Status:      StatusSuccess,
	}
}

func extractCity(address map[string]string) string {
	for _, key := range CityKeys {
		if v := address[key]; v != "" {
			return v
		}
	}

	return ""
}
