// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/notate-project/notate/cmd/notate/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands whose non-zero exit is a result rather than a
		// failure (detect, fmt --check) return an ExitError. Don't
		// print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
