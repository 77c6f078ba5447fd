// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the notate binary.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct factory, and a
// Run function. Commands are assembled into a tree in cmd/notate/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Flags are declared as struct tags on a command's parameter struct and
// bound with [BindFlags]; see the package-level documentation on that
// function for the tag grammar. Commands return the struct from their
// Params field and read the populated fields inside Run.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// The package also carries the pieces of ambient plumbing every notate
// command shares: [NewLogger] (slog handler selection by stderr TTY
// state), [LoadConfig] (the operator's optional config.jsonc), [ExitError]
// (non-zero exit without an error message), and [JSONOutput] (an
// embeddable --json flag with an EmitJSON helper).
package cli
