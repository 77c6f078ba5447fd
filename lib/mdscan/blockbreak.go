// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package mdscan

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// BlockBreak is the AST node for a cell boundary marker: a line of
// three or more plus signs, optionally followed by inline content.
// Standard markdown has no such construct, so it is registered as a
// custom block parser ahead of the list parser (which would otherwise
// claim the leading "+").
type BlockBreak struct {
	ast.BaseBlock
	// Content is the trimmed text after the marker, usually an inline
	// JSON mapping or nothing.
	Content string
	// Segment is the marker line's extent in the parsed source.
	Segment text.Segment
}

// KindBlockBreak is the node kind of BlockBreak.
var KindBlockBreak = ast.NewNodeKind("BlockBreak")

// Kind implements ast.Node.
func (n *BlockBreak) Kind() ast.NodeKind { return KindBlockBreak }

// Dump implements ast.Node.
func (n *BlockBreak) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Content": n.Content}, nil)
}

// breakPattern matches a break marker line: at most three leading
// spaces, then three or more plus signs (whitespace between them
// allowed), then arbitrary trailing content.
var breakPattern = regexp.MustCompile(`^ {0,3}\+\s*(?:\+\s*){2,}(.*)$`)

type blockBreakParser struct{}

var defaultBlockBreakParser = &blockBreakParser{}

func (p *blockBreakParser) Trigger() []byte { return []byte{'+'} }

func (p *blockBreakParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if width, _ := util.IndentWidth(line, reader.LineOffset()); width > 3 {
		return nil, parser.NoChildren
	}
	match := breakPattern.FindSubmatch(bytes.TrimRight(line, " \t\r\n"))
	if match == nil {
		return nil, parser.NoChildren
	}
	node := &BlockBreak{
		Content: string(bytes.TrimSpace(match[1])),
		Segment: segment,
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *blockBreakParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *blockBreakParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *blockBreakParser) CanInterruptParagraph() bool { return true }

func (p *blockBreakParser) CanAcceptIndentedLine() bool { return false }
