// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package nbview

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for rendered notebooks. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	Text  lipgloss.Color
	Faint lipgloss.Color

	// Heading is the foreground for level-1 and level-2 headings.
	// Deeper headings use Text, bold.
	Heading lipgloss.Color

	// Rule colors horizontal rules and table separators.
	Rule lipgloss.Color

	// Prompt is the execution-count gutter on code cells.
	Prompt lipgloss.Color

	// Link is the foreground for URLs.
	Link lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme, designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	Text:    lipgloss.Color("252"),
	Faint:   lipgloss.Color("245"),
	Heading: lipgloss.Color("255"),
	Rule:    lipgloss.Color("240"),
	Prompt:  lipgloss.Color("114"),
	Link:    lipgloss.Color("75"),
}
