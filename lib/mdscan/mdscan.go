// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package mdscan turns a markdown document into the flat event
// sequence the document parser consumes: an optional front-matter
// event followed by block-break and fenced-block events in document
// order, each carrying a 0-based half-open line span over the original
// document.
//
// The scanner is the only place in the repository that touches the
// markdown AST. It walks just the top level of the parse tree, so
// constructs nested inside lists or quotes are never reported; nested
// cell directives are out of scope for the whole format. Fenced blocks
// without an info string are also not reported, since they cannot name
// a directive.
//
// Front matter is split off before the markdown parse (markdown proper
// has no front-matter notion) and all positions are shifted back so
// they refer to the full document. Line endings are normalized to LF
// first; spans index the normalized lines returned in [Result.Lines].
package mdscan

import (
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// EventKind discriminates scanner events.
type EventKind int

// The event kinds the scanner reports.
const (
	// EventFrontMatter is the document-leading metadata block. At most
	// one, always first.
	EventFrontMatter EventKind = iota
	// EventBlockBreak is a cell boundary marker line.
	EventBlockBreak
	// EventFencedBlock is a fenced code block with an info string.
	EventFencedBlock
)

func (k EventKind) String() string {
	switch k {
	case EventFrontMatter:
		return "front-matter"
	case EventBlockBreak:
		return "block-break"
	case EventFencedBlock:
		return "fenced-block"
	}
	return "unknown"
}

// Event is one construct found in the document. LineStart and LineEnd
// are 0-based and half-open: LineEnd is the first line past the
// construct, including any closing fence line.
type Event struct {
	Kind      EventKind
	LineStart int
	LineEnd   int

	// FrontMatter is the YAML text between the delimiters
	// (EventFrontMatter only).
	FrontMatter string

	// Content is the trimmed text after the marker (EventBlockBreak
	// only).
	Content string

	// Name is the first word of the fence's info string and Argument
	// the rest; Body is the verbatim fence body (EventFencedBlock
	// only).
	Name     string
	Argument string
	Body     string
}

// Result is a scanned document.
type Result struct {
	// Events in document order.
	Events []Event
	// Lines is the normalized document split into lines, the index
	// space all event spans refer to.
	Lines []string
}

var (
	parserOnce sync.Once
	mdParser   parser.Parser
)

// markdownParser returns the shared goldmark parser. It is built once
// and never reconfigured; every Scan call gets its own reader, so
// concurrent scans are isolated from each other.
func markdownParser() parser.Parser {
	parserOnce.Do(func() {
		md := goldmark.New(
			goldmark.WithParserOptions(
				parser.WithBlockParsers(
					util.Prioritized(defaultBlockBreakParser, 50),
				),
			),
		)
		mdParser = md.Parser()
	})
	return mdParser
}

// Scan parses text and returns its events and normalized lines.
func Scan(input string) *Result {
	normalized := normalizeLineEndings(input)
	lines := splitDocumentLines(normalized)
	result := &Result{Lines: lines}

	bodyStart := 0
	if yamlText, end, ok := frontMatter(lines); ok {
		result.Events = append(result.Events, Event{
			Kind:        EventFrontMatter,
			LineStart:   0,
			LineEnd:     end,
			FrontMatter: yamlText,
		})
		bodyStart = end
	}

	body := []byte(strings.Join(lines[bodyStart:], "\n"))
	doc := markdownParser().Parse(text.NewReader(body))
	index := newLineIndex(body)

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *BlockBreak:
			start := bodyStart + index.lineAt(node.Segment.Start)
			result.Events = append(result.Events, Event{
				Kind:      EventBlockBreak,
				LineStart: start,
				LineEnd:   start + 1,
				Content:   node.Content,
			})
		case *ast.FencedCodeBlock:
			event, ok := fenceEvent(node, body, index, lines, bodyStart)
			if ok {
				result.Events = append(result.Events, event)
			}
		}
	}
	return result
}

func fenceEvent(node *ast.FencedCodeBlock, body []byte, index *lineIndex, lines []string, bodyStart int) (Event, bool) {
	if node.Info == nil {
		return Event{}, false
	}
	info := strings.TrimSpace(string(node.Info.Segment.Value(body)))
	if info == "" {
		return Event{}, false
	}
	name, argument, _ := strings.Cut(info, " ")

	openLine := index.lineAt(node.Info.Segment.Start)
	var bodyText strings.Builder
	afterBody := openLine + 1
	if count := node.Lines().Len(); count > 0 {
		for i := 0; i < count; i++ {
			segment := node.Lines().At(i)
			bodyText.Write(segment.Value(body))
		}
		afterBody = index.lineAt(node.Lines().At(count-1).Start) + 1
	}
	end := afterBody
	if docLine := bodyStart + afterBody; docLine < len(lines) && isClosingFence(lines[docLine]) {
		end++
	}
	return Event{
		Kind:      EventFencedBlock,
		LineStart: bodyStart + openLine,
		LineEnd:   bodyStart + end,
		Name:      name,
		Argument:  strings.TrimSpace(argument),
		Body:      bodyText.String(),
	}, true
}

// isClosingFence matches a line holding nothing but a code fence: at
// most three leading spaces, then three or more backticks or tildes.
func isClosingFence(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	trimmed = strings.TrimRight(trimmed, " \t")
	if len(trimmed) < 3 {
		return false
	}
	marker := trimmed[0]
	if marker != '`' && marker != '~' {
		return false
	}
	return strings.Count(trimmed, string(marker)) == len(trimmed)
}

// frontMatter recognizes a document that opens with a --- line and
// returns the YAML between it and the closing --- line, plus the
// 0-based line index just past the close.
func frontMatter(lines []string) (yamlText string, end int, ok bool) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return "", 0, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return strings.Join(lines[1:i], "\n"), i + 1, true
		}
	}
	return "", 0, false
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitDocumentLines splits without a phantom final line for
// newline-terminated text.
func splitDocumentLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineIndex maps byte offsets in a source buffer to 0-based line
// numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (x *lineIndex) lineAt(offset int) int {
	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
}
