// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package notebook

import (
	"crypto/rand"
	"encoding/hex"
)

// CellType identifies the kind of a cell.
type CellType string

// The three cell kinds of the nbformat v4 schema.
const (
	Markdown CellType = "markdown"
	Code     CellType = "code"
	Raw      CellType = "raw"
)

// Cell is a single notebook cell. Source is held without a mandated
// trailing newline; serializers append one where their format requires
// it, and [Equal] ignores a single trailing-newline difference.
type Cell struct {
	// Type is the cell kind. Values other than the three defined
	// constants are representable (the ipynb reader preserves whatever
	// it finds) but most operations reject them.
	Type CellType

	// ID is the nbformat 4.5 cell identifier. Empty when the cell came
	// from a file written before identifiers existed.
	ID string

	// Source is the cell's textual content.
	Source string

	// Metadata holds the cell's structured attributes in document order.
	Metadata *Metadata

	// ExecutionCount is the prompt number of a code cell; nil when the
	// cell has not been executed. Unused for other cell types.
	ExecutionCount *int64

	// Outputs holds a code cell's outputs as opaque decoded JSON values.
	// This package never interprets them; it only carries them through.
	Outputs []any

	// Attachments carries the cell's attachments verbatim, if any. The
	// text form has no encoding for attachments, so they survive ipynb
	// round trips only.
	Attachments any
}

// Notebook is an ordered sequence of cells plus document metadata.
type Notebook struct {
	// NBFormat and NBFormatMinor are the schema version of the source
	// file. Notebooks built by this package are 4.5.
	NBFormat      int
	NBFormatMinor int

	// Metadata is the document-level metadata (kernelspec,
	// language_info, and whatever else the document carries).
	Metadata *Metadata

	// Cells in document order. Order is the only ordering signal; cells
	// do not reference one another.
	Cells []*Cell
}

// New returns an empty notebook at the schema version this package
// writes.
func New() *Notebook {
	return &Notebook{NBFormat: 4, NBFormatMinor: 5, Metadata: NewMetadata()}
}

// NewMarkdownCell returns a markdown cell with a fresh ID and empty
// metadata.
func NewMarkdownCell(source string) *Cell {
	return &Cell{Type: Markdown, ID: newCellID(), Source: source, Metadata: NewMetadata()}
}

// NewCodeCell returns an unexecuted code cell with a fresh ID, empty
// metadata, and no outputs.
func NewCodeCell(source string) *Cell {
	return &Cell{Type: Code, ID: newCellID(), Source: source, Metadata: NewMetadata(), Outputs: []any{}}
}

// NewRawCell returns a raw cell with a fresh ID and empty metadata.
func NewRawCell(source string) *Cell {
	return &Cell{Type: Raw, ID: newCellID(), Source: source, Metadata: NewMetadata()}
}

// newCellID returns an 8-character hex identifier, the shape notebook
// tooling generates for nbformat 4.5 cells.
func newCellID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
