// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notate-project/notate/cmd/notate/cli"
)

func TestDetectFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		requireMeta bool
		wantMyST    bool
		wantReason  string
	}{
		{
			name:       "exclusive extension",
			file:       "doc.myst",
			content:    "Just prose, no cells.\n",
			wantMyST:   true,
			wantReason: "myst extension",
		},
		{
			name:       "declared format",
			file:       "doc.md",
			content:    "---\njupytext:\n  text_representation:\n    format_name: myst\n---\n\nProse only.\n",
			wantMyST:   true,
			wantReason: "front matter declares myst",
		},
		{
			name:       "code cells",
			file:       "doc.md",
			content:    "---\nkernelspec:\n  name: python3\n---\n\n```{code-cell}\nx = 1\n```\n",
			wantMyST:   true,
			wantReason: "contains notebook cells",
		},
		{
			name:       "markdown only",
			file:       "doc.md",
			content:    "# Just prose\n\nNothing else.\n",
			wantMyST:   false,
			wantReason: "no notebook cells",
		},
		{
			name:        "missing front matter",
			file:        "doc.md",
			content:     "```{code-cell}\nx = 1\n```\n",
			requireMeta: true,
			wantMyST:    false,
			wantReason:  "no front matter",
		},
		{
			name:        "front matter without cells",
			file:        "doc.md",
			content:     "---\ntitle: notes\n---\n\nProse.\n",
			requireMeta: true,
			wantMyST:    false,
			wantReason:  "no notebook cells",
		},
		{
			name:       "cells without front matter allowed by default",
			file:       "doc.md",
			content:    "```{code-cell}\nx = 1\n```\n",
			wantMyST:   true,
			wantReason: "contains notebook cells",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), test.file)
			if err := os.WriteFile(path, []byte(test.content), 0o644); err != nil {
				t.Fatal(err)
			}
			result := detectFile(path, test.requireMeta)
			if result.MyST != test.wantMyST {
				t.Errorf("MyST = %v, want %v (reason %q)", result.MyST, test.wantMyST, result.Reason)
			}
			if result.Reason != test.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, test.wantReason)
			}
			if result.Path != path {
				t.Errorf("Path = %q, want %q", result.Path, path)
			}
		})
	}
}

func TestDetectFileUnreadable(t *testing.T) {
	result := detectFile(filepath.Join(t.TempDir(), "missing.md"), false)
	if result.MyST {
		t.Error("unreadable file should not match")
	}
	if !strings.Contains(result.Reason, "no such file") {
		t.Errorf("reason should carry the read error, got %q", result.Reason)
	}
}

func TestRunDetectExitCode(t *testing.T) {
	dir := t.TempDir()
	mystPath := filepath.Join(dir, "notebook.md")
	prosePath := filepath.Join(dir, "prose.md")
	if err := os.WriteFile(mystPath, []byte("```{code-cell}\nx\n```\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(prosePath, []byte("# Prose\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runDetect(&detectParams{}, []string{mystPath}); err != nil {
		t.Errorf("all-myst input should exit 0, got %v", err)
	}

	err := runDetect(&detectParams{}, []string{mystPath, prosePath})
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("mixed input should return an ExitError, got %v", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
}

func TestRunDetectRequiresFiles(t *testing.T) {
	err := runDetect(&detectParams{}, nil)
	if err == nil || !strings.Contains(err.Error(), "at least one file") {
		t.Errorf("expected an argument error, got %v", err)
	}
}

func TestRunDetectJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prose.md")
	if err := os.WriteFile(path, []byte("# Prose\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	params := detectParams{}
	params.OutputJSON = true
	err := runDetect(&params, []string{path})
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("JSON mode should keep the exit contract, got %v", err)
	}
}
