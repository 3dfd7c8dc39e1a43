// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Connerpang/geo-converter/batch"
	"github.com/Connerpang/geo-converter/geocode"
	"github.com/Connerpang/geo-converter/tabular"
)

var (
	convertGeocodeOptions = &geocode.Options{}
	convertBatchOptions   = &batch.Options{}
	convertOutput         string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.csv>",
	Short: "Enrich a CSV of coordinates with reverse-geocoded locations",
	Long: `
Reads a CSV file with latitude/longitude columns, looks every row up
against the Nominatim reverse geocoding service (one request per delay
interval, per the usage policy), and writes the input rows back with
city, state, country, country_code, postcode, display_name and status
columns appended.

Interrupting the run (Ctrl-C) stops it between rows; the rows already
processed are still written out.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}

		table, err := tabular.Read(f)
		f.Close()

		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		convertGeocodeOptions.UserAgent = userAgent()
		client := geocode.NewNominatimClient(convertGeocodeOptions)
		runner := batch.NewRunner(client, convertBatchOptions)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(table.Len(),
				progressbar.OptionSetDescription("Geocoding "+args[0]),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		start := time.Now()

		result, runErr := runner.Run(ctx, table, func(processed, total int) {
			if bar == nil {
				log.Printf("Processed row %d of %d", processed, total)
			} else if err := bar.Add(1); err != nil {
				log.Printf("Updating progress bar - %s", err)
			}
		})
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}

		out := os.Stdout
		if convertOutput != "" {
			out, err = os.Create(convertOutput)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer out.Close()
		}

		if err := tabular.Write(out, result); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		if errors.Is(runErr, context.Canceled) {
			log.Printf("Interrupted - wrote the %d rows processed so far", runner.Metrics.Processed)
		}

		log.Printf("Geocoded %d of %d rows successfully in %s",
			runner.Metrics.Successful,
			runner.Metrics.Processed,
			time.Since(start).Round(time.Second),
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	registerGeocodingFlags(convertCmd, convertGeocodeOptions, convertBatchOptions)
	convertCmd.Flags().StringVarP(
		&convertOutput,
		"output",
		"o",
		"",
		"Output file (defaults to stdout)",
	)
}

// registerGeocodingFlags wires the shared geocoding configuration
// surface: column names, pacing delay and upstream endpoint.
func registerGeocodingFlags(cmd *cobra.Command, gOpts *geocode.Options, bOpts *batch.Options) {
	cmd.Flags().StringVar(
		&bOpts.LatColumn,
		"lat-column",
		batch.DefaultLatColumn,
		"Name of the latitude column (matched case-insensitively)",
	)
	cmd.Flags().StringVar(
		&bOpts.LonColumn,
		"lon-column",
		batch.DefaultLonColumn,
		"Name of the longitude column (matched case-insensitively)",
	)
	cmd.Flags().DurationVar(
		&bOpts.Delay,
		"delay",
		batch.DefaultDelay,
		"Fixed interval between consecutive lookups",
	)
	cmd.Flags().StringVar(
		&gOpts.BaseURL,
		"endpoint",
		geocode.DefaultBaseURL,
		"Reverse geocoding endpoint",
	)
	cmd.Flags().BoolVar(
		&gOpts.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	cmd.Flags().BoolVar(
		&gOpts.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
