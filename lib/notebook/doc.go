// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package notebook defines the in-memory document model shared by every
// conversion in this repository: an ordered sequence of typed cells plus
// document-level metadata, following the nbformat v4 schema.
//
// # Metadata ordering
//
// Notebook and cell metadata use the [Metadata] type rather than a plain
// map. Go maps do not preserve insertion order, and order is load-bearing
// here: serializing a document must reproduce metadata keys in the order
// they were read, or round-tripping a file would reorder it. Metadata
// preserves insertion order for its keys and for every nested mapping.
//
// # Numbers
//
// JSON and YAML decoding in this package and its consumers normalizes
// numbers to int64 (when the literal has no fraction or exponent) or
// float64. Whole-valued floats are re-encoded with a trailing ".0" so a
// value's numeric type survives a round trip.
//
// # File format
//
// [Read] and [Write] implement the nbformat v4 JSON interchange format.
// Cell sources are accepted as either a string or an array of lines and
// are always written as arrays of newline-terminated lines. Write keeps
// metadata keys in document order rather than sorting them, so a
// read/write cycle preserves the order a file arrived with.
package notebook
