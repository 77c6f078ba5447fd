// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package myst

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/notate-project/notate/lib/directive"
	"github.com/notate-project/notate/lib/mdscan"
	"github.com/notate-project/notate/lib/metablock"
	"github.com/notate-project/notate/lib/notebook"
)

// Default directive names for the fences that hold code and raw cells.
const (
	CodeDirective = "code-cell"
	RawDirective  = "raw-cell"
)

// ParseOption adjusts how Parse reads a document.
type ParseOption func(*parseConfig)

type parseConfig struct {
	codeTag    string
	rawTag     string
	tolerant   bool
	trackLines bool
}

// Tolerant downgrades every metadata decode failure to an empty
// mapping and keeps parsing; a tolerant parse always returns a
// notebook. The default is strict: the first bad fragment aborts with
// a *MetadataError.
func Tolerant() ParseOption {
	return func(c *parseConfig) { c.tolerant = true }
}

// TrackLines records each cell's position in the source text under the
// notebook.SourceLinesKey metadata key, as a 0-based half-open
// [start, end) line range.
func TrackLines() ParseOption {
	return func(c *parseConfig) { c.trackLines = true }
}

// WithDirectives overrides the directive names marking code and raw
// cells. The defaults are CodeDirective and RawDirective.
func WithDirectives(code, raw string) ParseOption {
	return func(c *parseConfig) {
		c.codeTag = code
		c.rawTag = raw
	}
}

// fold is the parser's walk state: the index of the next unconsumed
// source line, the metadata announced by the last block break (owed to
// the next markdown cell), and the cells emitted so far.
type fold struct {
	cursor  int
	pending *notebook.Metadata
	cells   []*notebook.Cell
}

// Parse converts MyST markdown text into a notebook. Front matter
// becomes the notebook metadata, directive fences become code and raw
// cells, and the text in between becomes markdown cells split on "+++"
// block breaks.
func Parse(text string, opts ...ParseOption) (*notebook.Notebook, error) {
	cfg := parseConfig{codeTag: CodeDirective, rawTag: RawDirective}
	for _, opt := range opts {
		opt(&cfg)
	}
	codeTag := "{" + cfg.codeTag + "}"
	rawTag := "{" + cfg.rawTag + "}"

	result := mdscan.Scan(text)
	lines := result.Lines

	nb := notebook.New()
	acc := fold{pending: notebook.NewMetadata()}

	for _, event := range result.Events {
		switch event.Kind {
		case mdscan.EventFrontMatter:
			metadata, err := parseFrontMatter(event.FrontMatter)
			if err != nil {
				if !cfg.tolerant {
					return nil, err
				}
				metadata = notebook.NewMetadata()
			}
			nb.Metadata = metadata
			acc.cursor = event.LineEnd

		case mdscan.EventBlockBreak:
			flushMarkdown(&acc, lines, event.LineStart, cfg.trackLines)
			pending, err := parseBreakMetadata(event, len(acc.cells)+1)
			if err != nil && !cfg.tolerant {
				return nil, err
			}
			acc.pending = pending
			acc.cursor = event.LineEnd

		case mdscan.EventFencedBlock:
			if event.Name != codeTag && event.Name != rawTag {
				// An ordinary fence; it stays part of the
				// surrounding markdown.
				continue
			}
			flushMarkdown(&acc, lines, event.LineStart, cfg.trackLines)
			// The word after the directive name (event.Argument) is
			// the optional lexer hint; it does not affect parsing.
			_, options, bodyLines, err := directive.Parse("", event.Body, directive.CellSpec())
			if err != nil {
				if !cfg.tolerant {
					return nil, &MetadataError{
						Reason: "cell options could not be read",
						Line:   event.LineStart,
						Cell:   len(acc.cells) + 1,
						Err:    err,
					}
				}
				options, bodyLines = notebook.NewMetadata(), nil
			}
			if cfg.trackLines {
				options.Set(notebook.SourceLinesKey, lineSpan(event.LineStart, event.LineEnd))
			}
			var cell *notebook.Cell
			if event.Name == codeTag {
				cell = notebook.NewCodeCell(strings.Join(bodyLines, "\n"))
			} else {
				cell = notebook.NewRawCell(strings.Join(bodyLines, "\n"))
			}
			cell.Metadata = options
			acc.cells = append(acc.cells, cell)
			acc.pending = notebook.NewMetadata()
			acc.cursor = event.LineEnd
		}
	}

	// Trailing lines past the last construct become a final markdown
	// cell even when they are all blank; with no lines left, leftover
	// pending metadata has no cell to attach to and is dropped.
	if acc.cursor < len(lines) {
		if cfg.trackLines {
			acc.pending.Set(notebook.SourceLinesKey, lineSpan(acc.cursor, len(lines)))
		}
		cell := notebook.NewMarkdownCell(fmtMarkdown(strings.Join(lines[acc.cursor:], "\n")))
		cell.Metadata = acc.pending
		acc.cells = append(acc.cells, cell)
	}

	nb.Cells = acc.cells
	return nb, nil
}

// ParseFile reads the file at path and parses it.
func ParseFile(path string, opts ...ParseOption) (*notebook.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nb, err := Parse(string(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// flushMarkdown emits the lines between the cursor and upto as a
// markdown cell carrying the pending metadata. A span that trims to
// nothing produces no cell and leaves the pending metadata alone; the
// caller resets it either way.
func flushMarkdown(acc *fold, lines []string, upto int, trackLines bool) {
	if upto > len(lines) {
		upto = len(lines)
	}
	if acc.cursor >= upto {
		return
	}
	source := fmtMarkdown(strings.Join(lines[acc.cursor:upto], "\n"))
	if source == "" {
		return
	}
	if trackLines {
		acc.pending.Set(notebook.SourceLinesKey, lineSpan(acc.cursor, upto))
	}
	cell := notebook.NewMarkdownCell(source)
	cell.Metadata = acc.pending
	acc.cells = append(acc.cells, cell)
}

func lineSpan(start, end int) []any {
	return []any{int64(start), int64(end)}
}

// fmtMarkdown trims trailing whitespace and leading blank lines, the
// normal form for markdown cell sources.
func fmtMarkdown(text string) string {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	return strings.TrimLeft(text, "\n")
}

// parseFrontMatter decodes the front matter block into the notebook
// metadata.
func parseFrontMatter(text string) (*notebook.Metadata, error) {
	value, err := metablock.ParseValue(text)
	if err != nil {
		return nil, &MetadataError{Reason: "notebook metadata", Line: 0, Cell: -1, Err: err}
	}
	if value == nil {
		return notebook.NewMetadata(), nil
	}
	m, ok := value.(*notebook.Metadata)
	if !ok {
		return nil, &MetadataError{Reason: "notebook metadata is not a mapping", Line: 0, Cell: -1}
	}
	return m, nil
}

// parseBreakMetadata decodes the inline JSON a block break carries into
// the next markdown cell's metadata. On failure the returned mapping is
// empty, so tolerant callers can use it directly.
func parseBreakMetadata(event mdscan.Event, cellIndex int) (*notebook.Metadata, error) {
	content := strings.TrimSpace(event.Content)
	if content == "" {
		return notebook.NewMetadata(), nil
	}
	value, err := decodeInlineJSON(content)
	if err != nil {
		return notebook.NewMetadata(), &MetadataError{
			Reason: "markdown cell metadata could not be read",
			Line:   event.LineStart,
			Cell:   cellIndex,
			Err:    err,
		}
	}
	m, ok := value.(*notebook.Metadata)
	if !ok {
		return notebook.NewMetadata(), &MetadataError{
			Reason: "markdown cell metadata is not a mapping",
			Line:   event.LineStart,
			Cell:   cellIndex,
		}
	}
	return m, nil
}

// decodeInlineJSON decodes exactly one JSON value, rejecting trailing
// content.
func decodeInlineJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	value, err := notebook.DecodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return value, nil
}
