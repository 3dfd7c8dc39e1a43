// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/Connerpang/geo-converter/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
