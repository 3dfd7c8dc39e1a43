// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Connerpang/geo-converter/geocode"
	"github.com/Connerpang/geo-converter/webui"
)

var serveOptions = &webui.Options{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local web interface (upload, geocode, download)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		serveOptions.Geocode.UserAgent = userAgent()
		client := geocode.NewNominatimClient(&serveOptions.Geocode)
		server := webui.NewServer(client, serveOptions)

		fmt.Printf("🌍 Geo converter running at http://%s\n", serveOptions.Listen)
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	registerGeocodingFlags(serveCmd, &serveOptions.Geocode, &serveOptions.Batch)
	serveCmd.Flags().StringVar(
		&serveOptions.Listen,
		"listen",
		"localhost:8080",
		"Address to bind the web interface to",
	)
}
