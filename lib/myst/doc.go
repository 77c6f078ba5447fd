// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package myst converts between MyST markdown text and the notebook
// model, in both directions, preserving content and metadata so that a
// document survives the round trip unchanged.
//
// # Text form
//
// A document is ordinary markdown with three embedded constructs:
//
//   - an optional front matter block ("---" delimited YAML) holding the
//     notebook metadata,
//   - "+++" block-break lines separating markdown cells, optionally
//     carrying the next cell's metadata as inline JSON,
//   - "```{code-cell}" and "```{raw-cell}" fences holding code and raw
//     cells, with cell metadata as directive options at the top of the
//     fence body.
//
// Everything between those constructs becomes markdown cells.
//
// # Strictness
//
// Parse is strict by default: the first metadata fragment that fails to
// decode aborts the conversion with a *MetadataError locating the
// fragment. The Tolerant option downgrades every such failure to an
// empty mapping and keeps going, which is the mode format detection
// uses; a tolerant parse always produces a notebook.
//
// # Detection
//
// Matches and Detect classify arbitrary text, using the file extension
// when one is available: the extensions reported by Extensions(false)
// are exclusive to this format, while .md needs the content checks
// (front matter present, a non-markdown cell somewhere, or an explicit
// format name in the notebook metadata).
//
// Conversions share no state; all functions are safe for concurrent use.
package myst
