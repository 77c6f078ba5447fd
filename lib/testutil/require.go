// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "fmt"

// RequireNoError fails the test when err is non-nil.
//
//	nb := mustBuild(t)
//	testutil.RequireNoError(t, err, "parsing %s", path)
func RequireNoError(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v: %s", err, formatMessage(msgAndArgs))
	}
}

// RequireError fails the test when err is nil.
func RequireError(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error, got nil: %s", formatMessage(msgAndArgs))
	}
}

// RequireEqual fails the test when got differs from want.
//
//	testutil.RequireEqual(t, cell.Type, notebook.Code, "cell %d", i)
func RequireEqual[T comparable](t interface {
	Helper()
	Fatalf(format string, args ...any)
}, got, want T, msgAndArgs ...any) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v: %s", got, want, formatMessage(msgAndArgs))
	}
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
