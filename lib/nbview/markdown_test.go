// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package nbview

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func testStyles() *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)
	return renderer
}

// plain renders markdown and returns ANSI-stripped visible text.
func plain(input string, width int) string {
	return ansi.Strip(renderProse(input, DefaultTheme, width, testStyles()))
}

// styled renders markdown and returns the raw ANSI-styled output.
func styled(input string, width int) string {
	return renderProse(input, DefaultTheme, width, testStyles())
}

func TestProseEmpty(t *testing.T) {
	if result := styled("", 80); result != "" {
		t.Errorf("expected empty output for empty input, got %q", result)
	}
	if result := styled("  \n\t\n", 80); result != "" {
		t.Errorf("expected empty output for blank input, got %q", result)
	}
}

func TestProseParagraphReflow(t *testing.T) {
	// Source hard-wrapped at ~40 columns; at width 120 the soft
	// breaks should become spaces with no wrapping.
	input := "This paragraph was written at a\nnarrow width with hard line\nbreaks embedded in it."
	result := plain(input, 120)

	if strings.Contains(result, "\n") {
		t.Errorf("expected a single line at width 120, got:\n%s", result)
	}
	if !strings.Contains(result, "at a narrow width") {
		t.Errorf("expected soft breaks converted to spaces, got:\n%s", result)
	}
}

func TestProseParagraphWrapNarrow(t *testing.T) {
	input := "This paragraph should be wrapped to fit the target width."
	for _, line := range strings.Split(plain(input, 30), "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q (len=%d)", line, len(line))
		}
	}
}

func TestProseHardLineBreak(t *testing.T) {
	// Two trailing spaces make a hard break in CommonMark.
	result := plain("Line one  \nLine two", 80)
	if !strings.Contains(result, "Line one\nLine two") {
		t.Errorf("expected hard line break preserved, got:\n%s", result)
	}
}

func TestProseHeading(t *testing.T) {
	input := "# Title\n\nBody text."
	result := plain(input, 80)

	if !strings.Contains(result, "Title") || !strings.Contains(result, "Body text.") {
		t.Fatalf("missing content, got:\n%s", result)
	}
	if strings.HasPrefix(result, "\n") {
		t.Errorf("expected no leading blank lines, got:\n%q", result)
	}
	if !strings.Contains(result, "Title\n\nBody") {
		t.Errorf("expected blank line after heading, got:\n%s", result)
	}
	if styled(input, 80) == result {
		t.Error("expected ANSI styling on heading output")
	}
}

func TestProseEmphasis(t *testing.T) {
	input := "Mix of *italic*, **bold**, and ***both***."
	result := plain(input, 80)

	for _, want := range []string{"italic", "bold", "both"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in output:\n%s", want, result)
		}
	}
	if styled(input, 80) == result {
		t.Error("expected ANSI styling on emphasis output")
	}
}

func TestProseCodeSpan(t *testing.T) {
	result := plain("Call `parse()` first.", 80)
	if !strings.Contains(result, "parse()") {
		t.Errorf("missing code span text, got:\n%s", result)
	}
}

func TestProseFencedCodeBlock(t *testing.T) {
	input := "Before.\n\n```python\nif x:\n    print(x)\n```\n\nAfter."
	result := plain(input, 80)

	if !strings.Contains(result, "if x:\n    print(x)") {
		t.Errorf("expected code lines preserved without reflow, got:\n%s", result)
	}
	if !strings.Contains(result, "Before.") || !strings.Contains(result, "After.") {
		t.Errorf("missing surrounding prose, got:\n%s", result)
	}
}

func TestProseFencedCodeBlockHighlighting(t *testing.T) {
	result := styled("```python\nimport os\n```", 80)
	if !strings.Contains(result, "\x1b[") {
		t.Error("expected ANSI escapes from syntax highlighting")
	}
}

func TestProseDirectiveFenceKeepsContent(t *testing.T) {
	// An embedded directive has an info string chroma cannot resolve;
	// the body must still come through intact.
	result := plain("```{note}\nMind the gap.\n```", 80)
	if !strings.Contains(result, "Mind the gap.") {
		t.Errorf("missing directive body, got:\n%s", result)
	}
}

func TestProseBlockquote(t *testing.T) {
	result := plain("> Quoted text that\n> spans source lines.", 80)

	if !strings.Contains(result, "│") {
		t.Fatalf("expected quote bar prefix, got:\n%s", result)
	}
	for _, line := range strings.Split(result, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "│") {
			t.Errorf("expected quote bar on every line, got: %q", line)
		}
	}
}

func TestProseUnorderedList(t *testing.T) {
	result := plain("- one\n- two\n- three", 80)
	for _, want := range []string{"- one", "- two", "- three"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing list item %q, got:\n%s", want, result)
		}
	}
}

func TestProseOrderedList(t *testing.T) {
	result := plain("1. first\n2. second", 80)
	if !strings.Contains(result, "1. first") || !strings.Contains(result, "2. second") {
		t.Errorf("missing ordered items, got:\n%s", result)
	}
}

func TestProseNestedListIndent(t *testing.T) {
	result := plain("- outer\n  - inner", 80)

	var outerIndent, innerIndent int
	for _, line := range strings.Split(result, "\n") {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if strings.Contains(line, "inner") {
			innerIndent = indent
		} else if strings.Contains(line, "outer") {
			outerIndent = indent
		}
	}
	if innerIndent <= outerIndent {
		t.Errorf("expected inner item indented past outer: outer=%d inner=%d\n%s",
			outerIndent, innerIndent, result)
	}
}

func TestProseListItemReflow(t *testing.T) {
	input := "- A long item that\n  was hard-wrapped in the source."
	result := plain(input, 80)
	if !strings.Contains(result, "item that was hard-wrapped") {
		t.Errorf("expected list item text reflowed, got:\n%s", result)
	}
}

func TestProseTaskCheckbox(t *testing.T) {
	result := plain("- [x] done\n- [ ] pending", 80)
	if !strings.Contains(result, "[x]") || !strings.Contains(result, "[ ]") {
		t.Errorf("missing checkbox markers, got:\n%s", result)
	}
}

func TestProseStrikethrough(t *testing.T) {
	input := "Keep ~~remove~~ keep."
	result := plain(input, 80)
	if !strings.Contains(result, "remove") {
		t.Errorf("missing strikethrough text, got:\n%s", result)
	}
	if styled(input, 80) == result {
		t.Error("expected ANSI styling for strikethrough")
	}
}

func TestProseLink(t *testing.T) {
	result := plain("See [the docs](https://example.com).", 80)
	if !strings.Contains(result, "the docs") {
		t.Error("missing link text")
	}
	if !strings.Contains(result, "(https://example.com)") {
		t.Errorf("missing link URL, got:\n%s", result)
	}
}

func TestProseAutoLink(t *testing.T) {
	result := plain("Visit https://example.com today.", 80)
	if !strings.Contains(result, "https://example.com") {
		t.Errorf("missing autolink, got:\n%s", result)
	}
}

func TestProseImage(t *testing.T) {
	result := plain("![a plot](plot.png)", 80)
	if !strings.Contains(result, "[a plot]") || !strings.Contains(result, "(plot.png)") {
		t.Errorf("missing image placeholder, got:\n%s", result)
	}
}

func TestProseThematicBreak(t *testing.T) {
	result := plain("Above.\n\n---\n\nBelow.", 40)
	if !strings.Contains(result, "───") {
		t.Errorf("expected horizontal rule, got:\n%s", result)
	}
}

func TestProseTable(t *testing.T) {
	input := "| Name | Count |\n|------|-------|\n| alpha | 1 |\n| beta | 22 |"
	result := plain(input, 80)

	for _, want := range []string{"Name", "Count", "alpha", "beta"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing table content %q, got:\n%s", want, result)
		}
	}
	if !strings.Contains(result, "───") {
		t.Errorf("missing header separator, got:\n%s", result)
	}
}

func TestProseTableNarrow(t *testing.T) {
	// Oversized cells must be capped to the available width.
	input := "| A | B |\n|---|---|\n| " + strings.Repeat("x", 60) + " | " + strings.Repeat("y", 60) + " |"
	for _, line := range strings.Split(plain(input, 40), "\n") {
		if lipgloss.Width(line) > 40 {
			t.Errorf("table line exceeds width 40: %q", line)
		}
	}
}

func TestProseDefinitionList(t *testing.T) {
	result := plain("Term\n:   Its description.", 80)
	if !strings.Contains(result, "Term") || !strings.Contains(result, "Its description.") {
		t.Errorf("missing definition list content, got:\n%s", result)
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>hello</p>", "hello"},
		{"no tags", "no tags"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"<br/>", ""},
		{"", ""},
	}
	for _, test := range tests {
		if got := stripHTMLTags(test.input); got != test.want {
			t.Errorf("stripHTMLTags(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
