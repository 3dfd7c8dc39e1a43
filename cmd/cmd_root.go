// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "geoconv",
	Short: "reverse geocoding for CSV files of coordinates",
	Long: `
geoconv enriches CSV files of latitude/longitude pairs with
human-readable location metadata (city, state, country, postcode)
looked up against the OpenStreetMap Nominatim service, and writes the
result back as CSV.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func userAgent() string {
	return fmt.Sprintf("GeoConverter/%s (Reverse Geocoding App)", Version)
}
