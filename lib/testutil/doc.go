// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test assertion helpers.
//
// The helpers accept a minimal testing interface (Helper plus Fatalf)
// rather than *testing.T so they work with *testing.B and wrapped
// test contexts. All failures are fatal: a failed requirement is not
// recoverable and stops the test immediately.
//
// [RequireNotebooksEqual] compares notebooks with the same tolerance
// as notebook.Equal and, on failure, prints a field-by-field account
// of where the two diverge ([DiffNotebooks]).
package testutil
