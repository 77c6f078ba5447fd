// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package nbview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// proseParserInstance is built once and shared. The parser
// configuration never changes and goldmark parsers are safe to share;
// per-call state lives in the reader passed to Parse.
var (
	proseParserInstance goldmark.Markdown
	proseParserOnce     sync.Once
)

func proseParser() goldmark.Markdown {
	proseParserOnce.Do(func() {
		proseParserInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return proseParserInstance
}

// renderProse turns one markdown cell into styled terminal text. Soft
// line breaks in the source become spaces so hard-wrapped prose
// reflows at the requested width; fenced code, lists, quotes, and
// tables keep their structure.
func renderProse(input string, theme Theme, width int, styles *lipgloss.Renderer) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := proseParser().Parser().Parse(text.NewReader(source))

	writer := &proseWriter{
		source: source,
		theme:  theme,
		width:  width,
		styles: styles,
		// Start as if a blank line precedes the output so block
		// handlers that force separation do not open with one.
		newlines: 2,
	}
	ast.Walk(document, writer.walk)
	return strings.TrimRight(writer.out.String(), "\n")
}

// proseWriter walks a goldmark AST and accumulates styled terminal
// text. Inline content collects in a buffer and is word-wrapped as a
// unit when its block closes. Block containers (quotes, list items)
// push line prefixes that apply to every wrapped line; a one-shot
// override replaces the prefix on the first line of a list item so
// the bullet lands there.
type proseWriter struct {
	source []byte
	theme  Theme
	width  int
	styles *lipgloss.Renderer

	out    strings.Builder
	inline strings.Builder

	// prefixes is the stack of open container prefixes, one entry per
	// blockquote bar or list-item indent.
	prefixes []string

	// firstLine, when set, replaces the joined prefix for the next
	// emitted line only.
	firstLine string

	lists []listLevel

	// Inline style depth. Counters rather than booleans so nested
	// emphasis unwinds correctly.
	bold   int
	italic int
	strike int

	// newlines is the run of newline bytes at the end of out, used to
	// manage blank lines between blocks.
	newlines int
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (w *proseWriter) style() lipgloss.Style {
	return w.styles.NewStyle()
}

func (w *proseWriter) joined() string {
	return strings.Join(w.prefixes, "")
}

// contentWidth is the wrap budget left of the current prefixes,
// clamped so deeply nested content still gets a usable column.
func (w *proseWriter) contentWidth() int {
	width := w.width - lipgloss.Width(w.joined())
	if width < 8 {
		width = 8
	}
	return width
}

func (w *proseWriter) push(prefix string) {
	w.prefixes = append(w.prefixes, prefix)
}

func (w *proseWriter) pop() {
	if len(w.prefixes) > 0 {
		w.prefixes = w.prefixes[:len(w.prefixes)-1]
	}
}

func (w *proseWriter) emit(s string) {
	if s == "" {
		return
	}
	w.out.WriteString(s)

	trailing := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\n'; i-- {
		trailing++
	}
	if trailing == len(s) {
		w.newlines += trailing
	} else {
		w.newlines = trailing
	}
}

func (w *proseWriter) newline() {
	if w.newlines < 1 {
		w.emit("\n")
	}
}

func (w *proseWriter) blankLine() {
	for w.newlines < 2 {
		w.emit("\n")
	}
}

// linePrefix returns the prefix for the next emitted line, consuming
// the one-shot first-line override when one is pending.
func (w *proseWriter) linePrefix() string {
	if w.firstLine != "" {
		prefix := w.firstLine
		w.firstLine = ""
		return prefix
	}
	return w.joined()
}

// prefixed prepends the line prefix to every line of content.
func (w *proseWriter) prefixed(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(w.linePrefix())
		} else {
			b.WriteString(w.joined())
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// flushInline wraps the accumulated inline run at the current width
// and prefixes each resulting line. Resets the buffer.
func (w *proseWriter) flushInline() string {
	content := w.inline.String()
	w.inline.Reset()
	if content == "" {
		return ""
	}
	return w.prefixed(ansi.Wrap(content, w.contentWidth(), " ,.;-"))
}

// styledText applies the current inline style depth to a text run.
func (w *proseWriter) styledText(content string) string {
	style := w.style().Foreground(w.theme.Text)
	if w.bold > 0 {
		style = style.Bold(true)
	}
	if w.italic > 0 {
		style = style.Italic(true)
	}
	if w.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineContent renders a node's children into a standalone string,
// saving and restoring the inline buffer and style counters so the
// caller's context is unaffected.
func (w *proseWriter) inlineContent(node ast.Node) string {
	saved := w.inline.String()
	savedBold, savedItalic, savedStrike := w.bold, w.italic, w.strike

	w.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, w.walk)
	}
	result := w.inline.String()

	w.inline.Reset()
	w.inline.WriteString(saved)
	w.bold, w.italic, w.strike = savedBold, savedItalic, savedStrike

	return result
}

func (w *proseWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	// Block nodes.
	case ast.KindDocument:
		// Nothing on entering or leaving.

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
		} else {
			flushed := w.flushInline()
			if flushed != "" {
				w.emit(flushed)
				w.newline()
				if !w.inTightList() {
					w.blankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
		} else {
			w.closeHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			w.fencedCode(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			w.indentedCode(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			w.push("│ ")
		} else {
			w.pop()
			w.blankLine()
		}

	case ast.KindList:
		if entering {
			w.enterList(node.(*ast.List))
		} else {
			w.leaveList()
		}

	case ast.KindListItem:
		if entering {
			w.enterItem()
		} else {
			w.leaveItem()
		}

	case ast.KindThematicBreak:
		if entering {
			w.rule()
		}

	case ast.KindHTMLBlock:
		if entering {
			w.htmlBlock(node)
			return ast.WalkSkipChildren, nil
		}

	// Inline nodes.
	case ast.KindText:
		if entering {
			w.textNode(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		w.emphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			w.codeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			w.link(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(w.source))
			w.inline.WriteString(w.style().Foreground(w.theme.Link).Render(url))
		}

	case ast.KindImage:
		if entering {
			w.image(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			w.rawHTML(node.(*ast.RawHTML))
		}

	// GFM extension nodes.
	case extast.KindStrikethrough:
		if entering {
			w.strike++
		} else {
			w.strike--
		}

	case extast.KindTable:
		if entering {
			w.table(node)
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				done := w.style().Foreground(w.theme.Prompt)
				w.inline.WriteString(done.Render("[x]") + " ")
			} else {
				w.inline.WriteString(w.styledText("[ ] "))
			}
		}

	// Definition list extension nodes.
	case extast.KindDefinitionList:
		// Container, no handling needed.

	case extast.KindDefinitionTerm:
		if entering {
			w.inline.Reset()
		} else {
			w.closeDefinitionTerm()
		}

	case extast.KindDefinitionDescription:
		if entering {
			w.push("  ")
		} else {
			w.pop()
		}
	}

	return ast.WalkContinue, nil
}

// --- Block handlers ---

func (w *proseWriter) closeHeading(heading *ast.Heading) {
	// Headings carry their own style; drop whatever styledText
	// applied while the children walked.
	content := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if content == "" {
		return
	}

	style := w.style().Bold(true).Foreground(w.theme.Text)
	if heading.Level <= 2 {
		style = style.Foreground(w.theme.Heading)
	}

	wrapped := ansi.Wrap(style.Render(content), w.contentWidth(), " ,.;-")
	w.blankLine()
	w.emit(w.prefixed(wrapped))
	w.newline()
	w.blankLine()
}

func (w *proseWriter) fencedCode(node *ast.FencedCodeBlock) {
	language := string(node.Language(w.source))
	code := strings.TrimRight(blockText(node, w.source), "\n")
	w.codeLines(highlight(code, language, w.theme, w.styles))
}

func (w *proseWriter) indentedCode(node ast.Node) {
	code := strings.TrimRight(blockText(node, w.source), "\n")
	w.codeLines(w.style().Foreground(w.theme.Faint).Render(code))
}

// codeLines emits pre-styled code line by line, prefixed but never
// wrapped.
func (w *proseWriter) codeLines(styled string) {
	w.blankLine()
	for _, line := range strings.Split(strings.TrimRight(styled, "\n"), "\n") {
		w.emit(w.linePrefix() + line)
		w.newline()
	}
	w.blankLine()
}

func (w *proseWriter) enterList(list *ast.List) {
	start := 0
	if list.IsOrdered() {
		start = list.Start
	}
	w.lists = append(w.lists, listLevel{
		ordered: list.IsOrdered(),
		next:    start,
		tight:   list.IsTight,
	})
}

func (w *proseWriter) leaveList() {
	if len(w.lists) > 0 {
		w.lists = w.lists[:len(w.lists)-1]
	}
	if !w.inTightList() {
		w.blankLine()
	}
}

func (w *proseWriter) inTightList() bool {
	if len(w.lists) == 0 {
		return false
	}
	return w.lists[len(w.lists)-1].tight
}

func (w *proseWriter) enterItem() {
	if len(w.lists) == 0 {
		return
	}
	level := &w.lists[len(w.lists)-1]

	var bullet string
	if level.ordered {
		bullet = fmt.Sprintf("%d. ", level.next)
		level.next++
	} else {
		bullet = "- "
	}

	// The override carries the full current prefix plus the bullet;
	// continuation lines get matching whitespace from the stack.
	w.firstLine = w.joined() + bullet
	w.push(strings.Repeat(" ", len(bullet)))
}

func (w *proseWriter) leaveItem() {
	w.pop()
	if w.inTightList() {
		w.newline()
	} else {
		w.blankLine()
	}
}

func (w *proseWriter) rule() {
	line := strings.Repeat("─", w.contentWidth())
	w.blankLine()
	w.emit(w.prefixed(w.style().Foreground(w.theme.Rule).Render(line)))
	w.newline()
	w.blankLine()
}

func (w *proseWriter) htmlBlock(node ast.Node) {
	stripped := strings.TrimSpace(stripHTMLTags(blockText(node, w.source)))
	if stripped == "" {
		return
	}
	faint := w.style().Foreground(w.theme.Faint)
	w.emit(w.prefixed(faint.Render(stripped)))
	w.newline()
	w.blankLine()
}

// --- Inline handlers ---

func (w *proseWriter) textNode(node *ast.Text) {
	value := string(node.Segment.Value(w.source))
	w.inline.WriteString(w.styledText(value))

	if node.SoftLineBreak() {
		// Soft breaks become spaces so hard-wrapped source reflows
		// at any terminal width.
		w.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		w.inline.WriteString("\n")
	}
}

func (w *proseWriter) emphasis(node *ast.Emphasis, entering bool) {
	counter := &w.italic
	if node.Level >= 2 {
		counter = &w.bold
	}
	if entering {
		*counter++
	} else {
		*counter--
	}
}

func (w *proseWriter) codeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch inline := child.(type) {
		case *ast.Text:
			code.Write(inline.Segment.Value(w.source))
		case *ast.String:
			code.Write(inline.Value)
		}
	}
	w.inline.WriteString(w.style().Foreground(w.theme.Faint).Render(code.String()))
}

func (w *proseWriter) link(node *ast.Link) {
	// inlineContent already applies inline styling to the link text.
	w.inline.WriteString(w.inlineContent(node))
	if url := string(node.Destination); url != "" {
		linkStyle := w.style().Foreground(w.theme.Link)
		w.inline.WriteString(" " + linkStyle.Render("("+url+")"))
	}
}

func (w *proseWriter) image(node *ast.Image) {
	alt := w.inlineContent(node)
	faint := w.style().Foreground(w.theme.Faint)
	w.inline.WriteString(faint.Render("[" + alt + "]"))
	if url := string(node.Destination); url != "" {
		w.inline.WriteString(" " + w.style().Foreground(w.theme.Link).Render("("+url+")"))
	}
}

func (w *proseWriter) rawHTML(node *ast.RawHTML) {
	var html strings.Builder
	for i := 0; i < node.Segments.Len(); i++ {
		segment := node.Segments.At(i)
		html.Write(segment.Value(w.source))
	}
	if stripped := stripHTMLTags(html.String()); stripped != "" {
		w.inline.WriteString(w.style().Foreground(w.theme.Faint).Render(stripped))
	}
}

func (w *proseWriter) closeDefinitionTerm() {
	// The term replaces inline styling with its own bold style.
	content := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if content == "" {
		return
	}
	bold := w.style().Foreground(w.theme.Text).Bold(true)
	w.emit(w.prefixed(bold.Render(content)))
	w.newline()
}

// --- Tables ---

const tableGap = "  "

func (w *proseWriter) table(node ast.Node) {
	table := node.(*extast.Table)

	var header []string
	var rows [][]string
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			header = w.tableCells(child)
		case extast.KindTableRow:
			rows = append(rows, w.tableCells(child))
		}
	}

	columns := len(header)
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return
	}

	// Natural widths from the widest cell, then an equal-share cap
	// when the table would overflow the available width.
	widths := make([]int, columns)
	measure := func(row []string) {
		for i, cell := range row {
			if width := lipgloss.Width(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	total := len(tableGap) * (columns - 1)
	for _, width := range widths {
		total += width
	}
	if available := w.contentWidth(); total > available {
		share := (available - len(tableGap)*(columns-1)) / columns
		if share < 3 {
			share = 3
		}
		for i := range widths {
			if widths[i] > share {
				widths[i] = share
			}
		}
	}

	w.blankLine()
	if len(header) > 0 {
		bold := w.style().Bold(true).Foreground(w.theme.Text)
		w.emit(w.linePrefix() + w.tableRow(header, widths, table.Alignments, bold))
		w.newline()

		parts := make([]string, columns)
		for i, width := range widths {
			parts[i] = strings.Repeat("─", width)
		}
		ruleStyle := w.style().Foreground(w.theme.Rule)
		w.emit(w.joined() + ruleStyle.Render(strings.Join(parts, tableGap)))
		w.newline()
	}
	for _, row := range rows {
		w.emit(w.joined() + w.tableRow(row, widths, table.Alignments, w.style()))
		w.newline()
	}
	w.blankLine()
}

func (w *proseWriter) tableCells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() == extast.KindTableCell {
			cells = append(cells, w.inlineContent(cell))
		}
	}
	return cells
}

func (w *proseWriter) tableRow(cells []string, widths []int, alignments []extast.Alignment, base lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, "…")
		}

		pad := width - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}

		var alignment extast.Alignment
		if i < len(alignments) {
			alignment = alignments[i]
		}
		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", pad) + cell
		case extast.AlignCenter:
			left := pad / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", pad-left)
		default:
			cell += strings.Repeat(" ", pad)
		}
		parts[i] = cell
	}
	return base.Render(strings.Join(parts, tableGap))
}

// --- Utilities ---

// blockText concatenates the raw source lines of a block node.
func blockText(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}

// stripHTMLTags drops angle-bracket tags and returns the text content.
func stripHTMLTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
