// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package nbview renders notebooks as styled text for terminal
// display.
//
// The renderer is read-only: it never mutates the notebook, and it
// renders the source form of each cell. Markdown cells are parsed with
// goldmark and reflowed to the requested width; code cells appear as
// syntax-highlighted blocks under an execution-count prompt; raw cells
// are dimmed and kept verbatim. Outputs and attachments are not
// rendered.
//
// # Color
//
// Rendering forces the ANSI 256-color profile by default. Output is
// meant for terminal display, often through a pager or a pipe, where
// profile auto-detection would strip all styling. ColorNone disables
// styling entirely for plain-text output.
//
// # Width
//
// Width governs prose: paragraphs, headings, and list items reflow to
// fit, with soft line breaks in the source treated as spaces. Code is
// never wrapped. Wrapping and width measurement go through x/ansi, so
// escape sequences do not count against the budget.
package nbview
