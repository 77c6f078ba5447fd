// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the notate
// binary.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [Version] -- semantic version string (set manually for releases)
//   - [Commit] -- short git SHA of the build, "-dirty" suffix when the
//     tree had uncommitted changes
//   - [Date] -- UTC timestamp of the build
//
// These default to "0.1.0-dev" / "unknown" when not injected, which
// occurs during development builds and test runs. For example:
//
//	go build -ldflags "-X github.com/notate-project/notate/lib/version.Commit=$(git rev-parse --short HEAD)"
//
// [Current] bundles the injected values with the runtime's Go version
// and platform into a [Build], the JSON shape of "notate version
// --json". [Info], [Full], and [Short] format the same data for human
// eyes.
package version
