// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package myst

import (
	"testing"

	"github.com/notate-project/notate/lib/notebook"
)

func TestExtensions(t *testing.T) {
	exclusive := Extensions(false)
	if len(exclusive) != 3 {
		t.Errorf("exclusive extensions = %v", exclusive)
	}
	for _, ext := range exclusive {
		if ext == ".md" {
			t.Error("exclusive list includes .md")
		}
	}
	withMD := Extensions(true)
	if len(withMD) != 4 || withMD[0] != ".md" {
		t.Errorf("full extension list = %v", withMD)
	}
}

func TestMatchesExclusiveExtension(t *testing.T) {
	// The extension settles it regardless of content.
	cases := []string{".myst", "myst", ".mystnb", ".mnb", "nb.mystnb"}
	for _, ext := range cases {
		if !Matches("no front matter here", ext, DetectOptions{}) {
			t.Errorf("ext %q did not match", ext)
		}
	}
	if Matches("no front matter here", ".ipynb", DetectOptions{}) {
		t.Error(".ipynb matched")
	}
}

func TestMatchesRequiresFrontMatter(t *testing.T) {
	text := "```{code-cell}\nx\n```\n"
	if Matches(text, ".md", DetectOptions{}) {
		t.Error("matched without front matter")
	}
	if !Matches(text, ".md", DetectOptions{AllowMissingMeta: true}) {
		t.Error("did not match with AllowMissingMeta")
	}
}

func TestMatchesFormatName(t *testing.T) {
	text := joinLines(
		"---",
		"jupytext:",
		"  text_representation:",
		"    format_name: myst",
		"---",
		"Just prose, not a single code cell.",
	)
	// The declared format name overrides the non-markdown-cell rule.
	if !Matches(text, ".md", DetectOptions{}) {
		t.Error("declared format name did not match")
	}

	other := joinLines(
		"---",
		"jupytext:",
		"  text_representation:",
		"    format_name: light",
		"---",
		"Just prose.",
	)
	if Matches(other, ".md", DetectOptions{}) {
		t.Error("foreign format name matched")
	}
}

func TestMatchesNonMarkdownRule(t *testing.T) {
	markdownOnly := "---\ntitle: t\n---\nPlain prose.\n"
	if Matches(markdownOnly, ".md", DetectOptions{}) {
		t.Error("markdown-only document matched")
	}
	if !Matches(markdownOnly, ".md", DetectOptions{AllowMarkdownOnly: true}) {
		t.Error("did not match with AllowMarkdownOnly")
	}

	withCode := "---\ntitle: t\n---\n```{code-cell}\nx\n```\n"
	if !Matches(withCode, ".md", DetectOptions{}) {
		t.Error("document with a code cell did not match")
	}
}

func TestDetectReturnsNotebook(t *testing.T) {
	text := "---\ntitle: t\n---\n```{code-cell}\nx = 1\n```\n"
	nb, ok := Detect(text, ".md", DetectOptions{})
	if !ok || nb == nil {
		t.Fatalf("Detect = %v, %v", nb, ok)
	}
	if len(nb.Cells) != 1 || nb.Cells[0].Type != notebook.Code {
		t.Errorf("cells = %+v", nb.Cells)
	}

	nb, ok = Detect(text, ".md", DetectOptions{TrackLines: true})
	if !ok {
		t.Fatal("TrackLines detect did not match")
	}
	if _, found := nb.Cells[0].Metadata.Get(notebook.SourceLinesKey); !found {
		t.Error("TrackLines notebook has no source lines")
	}

	if nb, ok := Detect("Prose.\n", ".md", DetectOptions{}); ok || nb != nil {
		t.Errorf("non-match returned %v, %v", nb, ok)
	}
}

func TestDetectToleratesBadMetadata(t *testing.T) {
	// Detection parses tolerantly; broken metadata downgrades to empty
	// instead of failing the match.
	text := "---\na: [unclosed\n---\n```{code-cell}\nx\n```\n"
	nb, ok := Detect(text, ".md", DetectOptions{})
	if !ok {
		t.Fatal("did not match")
	}
	if nb.Metadata.Len() != 0 {
		t.Errorf("metadata = %v, want empty", nb.Metadata.Keys())
	}
}
