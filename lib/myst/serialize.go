// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package myst

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/notate-project/notate/lib/metablock"
	"github.com/notate-project/notate/lib/notebook"
)

// SerializeOption adjusts how Serialize writes a document.
type SerializeOption func(*serializeConfig)

type serializeConfig struct {
	codeTag      string
	rawTag       string
	defaultLexer string
}

// WithLexer sets the lexer word annotated on code fences when the
// notebook metadata does not name one under
// language_info.pygments_lexer. Absent both, code fences carry no
// lexer word.
func WithLexer(lexer string) SerializeOption {
	return func(c *serializeConfig) { c.defaultLexer = lexer }
}

// WithFenceDirectives overrides the directive names written on code
// and raw cell fences. The defaults are CodeDirective and RawDirective.
func WithFenceDirectives(code, raw string) SerializeOption {
	return func(c *serializeConfig) {
		c.codeTag = code
		c.rawTag = raw
	}
}

// Serialize converts a notebook into MyST markdown text. Notebook
// metadata becomes the front matter, markdown cells are separated by
// "+++" block breaks where they would otherwise merge on re-parse, and
// code and raw cells become directive fences with their metadata as
// fence options. Line-tracking metadata recorded by a TrackLines parse
// is dropped. Fails with *UnsupportedCellError when a cell's type has
// no text encoding.
func Serialize(nb *notebook.Notebook, opts ...SerializeOption) (string, error) {
	cfg := serializeConfig{codeTag: CodeDirective, rawTag: RawDirective}
	for _, opt := range opts {
		opt(&cfg)
	}

	lexer := cfg.defaultLexer
	if name, ok := nb.Metadata.DigString("language_info", "pygments_lexer"); ok {
		lexer = name
	}

	var b strings.Builder

	if nb.Metadata.Len() > 0 {
		block, err := metablock.Dump(nb.Metadata, false)
		if err != nil {
			return "", fmt.Errorf("notebook metadata: %w", err)
		}
		b.WriteString(block)
	}

	lastCellMarkdown := false
	for i, cell := range nb.Cells {
		switch cell.Type {
		case notebook.Markdown:
			metadata := notebook.StripSourceLines(cell.Metadata)
			if metadata.Len() > 0 {
				// Direct call: json.Marshal compacts marshaler output,
				// which would strip the ", " and ": " separators the
				// marker format uses.
				encoded, err := metadata.MarshalJSON()
				if err != nil {
					return "", fmt.Errorf("cell %d metadata: %w", i, err)
				}
				b.WriteString("\n+++ ")
				b.Write(encoded)
				b.WriteByte('\n')
			} else if lastCellMarkdown {
				b.WriteString("\n+++\n")
			}
			b.WriteByte('\n')
			writeSource(&b, cell.Source)
			lastCellMarkdown = true

		case notebook.Code, notebook.Raw:
			tag := cfg.codeTag
			if cell.Type == notebook.Raw {
				tag = cfg.rawTag
			}
			b.WriteString("\n```{" + tag + "}")
			if lexer != "" && cell.Type == notebook.Code {
				b.WriteString(" " + lexer)
			}
			b.WriteByte('\n')
			metadata := notebook.StripSourceLines(cell.Metadata)
			if metadata.Len() > 0 {
				block, err := metablock.Dump(metadata, true)
				if err != nil {
					return "", fmt.Errorf("cell %d metadata: %w", i, err)
				}
				b.WriteString(block)
			} else if strings.HasPrefix(cell.Source, metablock.Delimiter) || strings.HasPrefix(cell.Source, ":") {
				// A source opening like an options block needs a
				// blank line so it reads back as content.
				b.WriteByte('\n')
			}
			writeSource(&b, cell.Source)
			b.WriteString("```\n")
			lastCellMarkdown = false

		default:
			return "", &UnsupportedCellError{Index: i, Type: cell.Type}
		}
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace) + "\n", nil
}

// SerializeTo writes the serialized document to w.
func SerializeTo(w io.Writer, nb *notebook.Notebook, opts ...SerializeOption) error {
	text, err := Serialize(nb, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// writeSource emits source, newline-terminated.
func writeSource(b *strings.Builder, source string) {
	b.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		b.WriteByte('\n')
	}
}
