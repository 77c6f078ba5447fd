// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package nbview

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/notate-project/notate/lib/notebook"
)

// ColorMode selects how much styling Render emits.
type ColorMode int

const (
	// Color256 forces the ANSI 256-color profile. This is the
	// default: rendered notebooks are for terminal display, and
	// detecting the profile from the environment would strip all
	// styling whenever stdout is not a TTY (pagers, pipes, tests).
	Color256 ColorMode = iota

	// ColorNone renders plain text with no escape sequences.
	ColorNone
)

func (mode ColorMode) profile() termenv.Profile {
	if mode == ColorNone {
		return termenv.Ascii
	}
	return termenv.ANSI256
}

// Options configures Render. The zero value renders at 80 columns
// with the default theme in 256-color mode.
type Options struct {
	// Width is the column budget for prose reflow. Zero or negative
	// means 80.
	Width int

	// Color selects the output color profile.
	Color ColorMode

	// Lexer names the chroma lexer for code cells, overriding the
	// notebook's language metadata.
	Lexer string

	// Theme overrides the color palette. The zero value means
	// DefaultTheme.
	Theme Theme
}

// Render produces a styled terminal view of the notebook's cells in
// document order. Markdown becomes reflowed prose, code cells become
// highlighted blocks under an execution-count prompt, raw cells stay
// verbatim and dimmed. Cells of any other type are an error.
func Render(nb *notebook.Notebook, opts Options) (string, error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme
	}

	// The writer only matters for profile auto-detection, which the
	// explicit SetColorProfile below bypasses. SetColorProfile is
	// required: lipgloss re-detects from the environment unless the
	// profile is set explicitly on the renderer itself.
	profile := opts.Color.profile()
	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	styles.SetColorProfile(profile)

	lexer := opts.Lexer
	if lexer == "" {
		lexer = notebookLexer(nb)
	}

	var blocks []string
	for i, cell := range nb.Cells {
		var rendered string
		switch cell.Type {
		case notebook.Markdown:
			rendered = renderProse(cell.Source, opts.Theme, opts.Width, styles)
		case notebook.Code:
			rendered = renderCode(cell, lexer, opts.Theme, styles)
		case notebook.Raw:
			rendered = renderRaw(cell.Source, opts.Theme, styles)
		default:
			return "", fmt.Errorf("cell %d: cannot render cell type %q", i, cell.Type)
		}
		if rendered != "" {
			blocks = append(blocks, rendered)
		}
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// notebookLexer picks the chroma lexer from the notebook's language
// metadata, most specific source first.
func notebookLexer(nb *notebook.Notebook) string {
	if name, ok := nb.Metadata.DigString("language_info", "pygments_lexer"); ok {
		return name
	}
	if name, ok := nb.Metadata.DigString("language_info", "name"); ok {
		return name
	}
	if name, ok := nb.Metadata.DigString("kernelspec", "language"); ok {
		return name
	}
	return ""
}

// renderCode renders a code cell: an execution-count prompt on its
// own line, then the highlighted source indented beneath it. Code is
// never wrapped.
func renderCode(cell *notebook.Cell, lexer string, theme Theme, styles *lipgloss.Renderer) string {
	prompt := "In [ ]:"
	if cell.ExecutionCount != nil {
		prompt = fmt.Sprintf("In [%d]:", *cell.ExecutionCount)
	}

	var b strings.Builder
	b.WriteString(styles.NewStyle().Foreground(theme.Prompt).Bold(true).Render(prompt))

	source := strings.TrimRight(cell.Source, "\n")
	if source != "" {
		highlighted := highlight(source, lexer, theme, styles)
		for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}

// renderRaw renders a raw cell verbatim, dimmed, line by line.
func renderRaw(source string, theme Theme, styles *lipgloss.Renderer) string {
	source = strings.TrimRight(source, "\n")
	if source == "" {
		return ""
	}
	faint := styles.NewStyle().Foreground(theme.Faint).Faint(true)

	var b strings.Builder
	for i, line := range strings.Split(source, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(faint.Render(line))
	}
	return b.String()
}

// highlight syntax-highlights code with chroma. An empty language or
// ColorNone mode skips chroma entirely (the terminal256 formatter
// always emits escapes); unknown languages tokenise with chroma's
// plaintext fallback lexer.
func highlight(code, language string, theme Theme, styles *lipgloss.Renderer) string {
	plain := styles.NewStyle().Foreground(theme.Faint)
	if language == "" || styles.ColorProfile() == termenv.Ascii {
		return plain.Render(code)
	}
	var b strings.Builder
	if err := quick.Highlight(&b, code, language, "terminal256", "monokai"); err != nil {
		return plain.Render(code)
	}
	return b.String()
}
