// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package myst

import (
	"errors"
	"fmt"

	"github.com/notate-project/notate/lib/notebook"
)

// MetadataError reports a metadata fragment that could not be decoded:
// malformed front matter, an unreadable block-break mapping, or fence
// options the directive parser rejected. Callers can use errors.As to
// extract the position:
//
//	var metaErr *myst.MetadataError
//	if errors.As(err, &metaErr) {
//	    fmt.Println(metaErr.Line)
//	}
type MetadataError struct {
	// Reason describes what failed to decode.
	Reason string
	// Line is the 0-based source line of the construct, -1 when
	// unknown.
	Line int
	// Cell is the 1-based index the affected cell would have had, -1
	// when the failure is not tied to a cell.
	Cell int
	// Err is the underlying decode error, when there is one.
	Err error
}

func (e *MetadataError) Error() string {
	msg := "myst metadata: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	switch {
	case e.Cell >= 0 && e.Line >= 0:
		msg += fmt.Sprintf(" (cell %d, line %d)", e.Cell, e.Line)
	case e.Line >= 0:
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	return msg
}

func (e *MetadataError) Unwrap() error { return e.Err }

// IsMetadataError reports whether err is or wraps a *MetadataError.
func IsMetadataError(err error) bool {
	var metaErr *MetadataError
	return errors.As(err, &metaErr)
}

// UnsupportedCellError is returned by Serialize for cell types the
// text form has no encoding for.
type UnsupportedCellError struct {
	// Index is the 0-based position of the cell in the notebook.
	Index int
	// Type is the cell's declared type.
	Type notebook.CellType
}

func (e *UnsupportedCellError) Error() string {
	return fmt.Sprintf("cell %d: unsupported cell type %q", e.Index, string(e.Type))
}
