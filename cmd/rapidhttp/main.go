// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command rapidhttp sends HTTP requests from the command line and
// benchmarks endpoints.
package main

import (
	"os"

	"github.com/gogama/rapidhttp/internal/cli"
)

// Main runs the command and returns the process exit code.
func Main() int {
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
