// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	build := Current()
	if build.Version != Version || build.Commit != Commit || build.Date != Date {
		t.Errorf("Current() = %+v, want the package vars", build)
	}
	if build.Go != runtime.Version() {
		t.Errorf("Go = %q, want %q", build.Go, runtime.Version())
	}
	if !strings.Contains(build.Platform, "/") {
		t.Errorf("Platform = %q, want GOOS/GOARCH", build.Platform)
	}
}

func TestFormatting(t *testing.T) {
	if !strings.Contains(Info(), Version) || !strings.Contains(Info(), Commit) {
		t.Errorf("Info() = %q, missing version or commit", Info())
	}
	if !strings.Contains(Full(), runtime.Version()) {
		t.Errorf("Full() = %q, missing Go version", Full())
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
