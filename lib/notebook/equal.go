// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package notebook

import "strings"

// Equal reports whether two notebooks hold the same content: schema
// version, document metadata, and cells in order. Cell sources that
// differ only by a single trailing newline compare equal, the transient
// "_source_lines" cell-metadata key is ignored, and cell IDs and
// attachments do not participate (they are identity and transport
// concerns, not content).
func Equal(a, b *Notebook) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.NBFormat != b.NBFormat || a.NBFormatMinor != b.NBFormatMinor {
		return false
	}
	if !a.Metadata.Equal(b.Metadata) {
		return false
	}
	if len(a.Cells) != len(b.Cells) {
		return false
	}
	for i := range a.Cells {
		if !cellEqual(a.Cells[i], b.Cells[i]) {
			return false
		}
	}
	return true
}

func cellEqual(a, b *Cell) bool {
	if a.Type != b.Type {
		return false
	}
	if !sourceEqual(a.Source, b.Source) {
		return false
	}
	if !metadataEqualIgnoringLines(a.Metadata, b.Metadata) {
		return false
	}
	if (a.ExecutionCount == nil) != (b.ExecutionCount == nil) {
		return false
	}
	if a.ExecutionCount != nil && *a.ExecutionCount != *b.ExecutionCount {
		return false
	}
	if len(a.Outputs) != len(b.Outputs) {
		return false
	}
	for i := range a.Outputs {
		if !valueEqual(a.Outputs[i], b.Outputs[i]) {
			return false
		}
	}
	return true
}

// sourceEqual ignores one trailing newline on either side.
func sourceEqual(a, b string) bool {
	return strings.TrimSuffix(a, "\n") == strings.TrimSuffix(b, "\n")
}

// SourceLinesKey is the reserved cell-metadata key under which the
// parser records a cell's source line span when line tracking is
// enabled. The value is advisory provenance and never participates in
// equality.
const SourceLinesKey = "_source_lines"

func metadataEqualIgnoringLines(a, b *Metadata) bool {
	return StripSourceLines(a).Equal(StripSourceLines(b))
}

// StripSourceLines returns m without the SourceLinesKey entry. The
// original is untouched; when the key is absent m itself is returned.
func StripSourceLines(m *Metadata) *Metadata {
	if _, ok := m.Get(SourceLinesKey); !ok {
		return m
	}
	clone := m.Clone()
	clone.Delete(SourceLinesKey)
	return clone
}
