// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package myst

import (
	"strings"

	"github.com/notate-project/notate/lib/metablock"
	"github.com/notate-project/notate/lib/notebook"
)

// FormatName is the name this format declares in notebook metadata
// under jupytext.text_representation.format_name.
const FormatName = "myst"

// DetectOptions adjusts Matches and Detect. The zero value applies the
// default rules: the text must open with front matter and must hold at
// least one non-markdown cell, unless the extension alone settles the
// question.
type DetectOptions struct {
	// AllowMissingMeta accepts documents that do not open with a
	// front matter block.
	AllowMissingMeta bool
	// AllowMarkdownOnly accepts documents with no code or raw cells.
	AllowMarkdownOnly bool
	// TrackLines records cell source positions in the notebook
	// returned by Detect.
	TrackLines bool
}

// Extensions returns the file extensions recognized as this format.
// The exclusive extensions identify it outright; plain .md (returned
// only when includeMarkdown is set) additionally needs the content
// rules.
func Extensions(includeMarkdown bool) []string {
	if includeMarkdown {
		return []string{".md", ".myst", ".mystnb", ".mnb"}
	}
	return []string{".myst", ".mystnb", ".mnb"}
}

// Matches reports whether text is a MyST notebook document. ext, when
// non-empty, is the file's extension (with or without the leading
// dot).
func Matches(text, ext string, opts DetectOptions) bool {
	_, ok := Detect(text, ext, opts)
	return ok
}

// Detect classifies text like Matches and additionally returns the
// tolerantly parsed notebook, saving callers a second parse. The
// notebook is nil when the text does not match.
func Detect(text, ext string, opts DetectOptions) (*notebook.Notebook, bool) {
	parseOpts := []ParseOption{Tolerant()}
	if opts.TrackLines {
		parseOpts = append(parseOpts, TrackLines())
	}

	exclusive := hasExclusiveExtension(ext)
	if !exclusive && !opts.AllowMissingMeta && !strings.HasPrefix(text, metablock.Delimiter) {
		return nil, false
	}
	nb, err := Parse(text, parseOpts...)
	if err != nil {
		return nil, false
	}
	if exclusive {
		return nb, true
	}
	if name, ok := nb.Metadata.DigString("jupytext", "text_representation", "format_name"); ok && name == FormatName {
		return nb, true
	}
	if !opts.AllowMarkdownOnly && allMarkdown(nb) {
		return nil, false
	}
	return nb, true
}

// hasExclusiveExtension reports whether ext's final dot-component is
// one of the extensions used only by this format. Compound extensions
// count by their last component, and a missing leading dot is
// forgiven.
func hasExclusiveExtension(ext string) bool {
	if ext == "" {
		return false
	}
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i:]
	} else {
		ext = "." + ext
	}
	for _, known := range Extensions(false) {
		if ext == known {
			return true
		}
	}
	return false
}

// allMarkdown reports whether every cell is a markdown cell; an empty
// notebook counts as all markdown.
func allMarkdown(nb *notebook.Notebook) bool {
	for _, cell := range nb.Cells {
		if cell.Type != notebook.Markdown {
			return false
		}
	}
	return true
}
