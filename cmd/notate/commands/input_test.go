// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notate-project/notate/lib/notebook"
)

// isolateConfig points config loading at a missing file so tests see
// the defaults regardless of the host environment.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("NOTATE_CONFIG", filepath.Join(t.TempDir(), "config.jsonc"))
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"analysis.ipynb", formatIpynb},
		{"analysis.IPYNB", formatIpynb},
		{"analysis.md", formatMyST},
		{"analysis.myst", formatMyST},
		{"analysis.mystnb", formatMyST},
		{"analysis.mnb", formatMyST},
		{"analysis.txt", ""},
		{"analysis", ""},
		{"-", ""},
	}
	for _, test := range tests {
		if got := classifyPath(test.path); got != test.want {
			t.Errorf("classifyPath(%q) = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"json object", `{"cells": []}`, formatIpynb},
		{"json after whitespace", "\n\t  {\"cells\": []}", formatIpynb},
		{"front matter", "---\na: 1\n---\n", formatMyST},
		{"plain prose", "# Title\n", formatMyST},
		{"empty", "", formatMyST},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := sniffFormat([]byte(test.data)); got != test.want {
				t.Errorf("sniffFormat(%q) = %q, want %q", test.data, got, test.want)
			}
		})
	}
}

func TestCheckFormat(t *testing.T) {
	if err := checkFormat(formatMyST); err != nil {
		t.Errorf("myst should be valid: %v", err)
	}
	if err := checkFormat(formatIpynb); err != nil {
		t.Errorf("ipynb should be valid: %v", err)
	}
	if err := checkFormat("html"); err == nil {
		t.Error("html should be rejected")
	}
}

func TestOtherFormat(t *testing.T) {
	if got := otherFormat(formatMyST); got != formatIpynb {
		t.Errorf("otherFormat(myst) = %q", got)
	}
	if got := otherFormat(formatIpynb); got != formatMyST {
		t.Errorf("otherFormat(ipynb) = %q", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	nb := notebook.New()
	nb.Cells = []*notebook.Cell{
		notebook.NewMarkdownCell("# Title"),
		notebook.NewCodeCell("x = 1"),
	}

	for _, format := range []string{formatMyST, formatIpynb} {
		t.Run(format, func(t *testing.T) {
			data, err := encodeOutput(nb, format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := decodeInput(data, format, false, false)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !notebook.Equal(nb, got) {
				t.Errorf("round trip changed the notebook:\n%#v", got.Cells)
			}
		})
	}
}

func TestFallbackLexer(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"language_info name", `{"language_info": {"name": "python"}}`, "python"},
		{"kernelspec language", `{"kernelspec": {"language": "julia"}}`, "julia"},
		{"language_info wins", `{"kernelspec": {"language": "julia"}, "language_info": {"name": "python"}}`, "python"},
		{"kernelspec name is not a language", `{"kernelspec": {"name": "python3"}}`, ""},
		{"no metadata", `{}`, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			nb := notebook.New()
			if err := nb.Metadata.UnmarshalJSON([]byte(test.metadata)); err != nil {
				t.Fatal(err)
			}
			if got := fallbackLexer(nb); got != test.want {
				t.Errorf("fallbackLexer = %q, want %q", got, test.want)
			}
		})
	}
}

func TestEncodeAnnotatesLexer(t *testing.T) {
	nb := notebook.New()
	nb.Metadata.Set("language_info", metadataWith(t, "name", "python"))
	nb.Cells = []*notebook.Cell{notebook.NewCodeCell("x = 1")}

	data, err := encodeOutput(nb, formatMyST)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "```{code-cell} python\n") {
		t.Errorf("fence not annotated with the language:\n%s", data)
	}
}

// metadataWith builds a one-key metadata mapping.
func metadataWith(t *testing.T, key string, value any) *notebook.Metadata {
	t.Helper()
	m := notebook.NewMetadata()
	m.Set(key, value)
	return m
}

func TestLoadNotebook(t *testing.T) {
	dir := t.TempDir()

	mystPath := filepath.Join(dir, "doc.md")
	mystText := "---\nkernelspec:\n  name: python3\n---\n\nProse.\n\n```{code-cell}\nx = 1\n```\n"
	if err := os.WriteFile(mystPath, []byte(mystText), 0o644); err != nil {
		t.Fatal(err)
	}
	nb, err := loadNotebook(mystPath)
	if err != nil {
		t.Fatalf("loadNotebook(myst): %v", err)
	}
	if len(nb.Cells) != 2 {
		t.Errorf("expected 2 cells, got %d", len(nb.Cells))
	}

	// An ipynb body behind a neutral extension loads through the
	// content sniff.
	sniffPath := filepath.Join(dir, "doc.txt")
	data, err := encodeOutput(nb, formatIpynb)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sniffPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	sniffed, err := loadNotebook(sniffPath)
	if err != nil {
		t.Fatalf("loadNotebook(sniffed): %v", err)
	}
	if !notebook.Equal(nb, sniffed) {
		t.Error("sniffed load should match the myst load")
	}

	if _, err := loadNotebook(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("missing file should error")
	}
}
