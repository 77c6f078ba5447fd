// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"

	// Commit is the short git SHA of the build, suffixed with "-dirty"
	// when the tree had uncommitted changes.
	Commit = "unknown"

	// Date is the UTC timestamp of the build.
	Date = "unknown"
)

// Build describes the binary this process was compiled into. The JSON
// field names are the machine-readable contract of "notate version
// --json".
type Build struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

// Current returns the build information compiled into this binary.
func Current() Build {
	return Build{
		Version:  Version,
		Commit:   Commit,
		Date:     Date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a one-line version string suitable for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}

// Full returns detailed version information including Go version.
func Full() string {
	build := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", Info(), build.Go, build.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
