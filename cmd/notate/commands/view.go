// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notate-project/notate/cmd/notate/cli"
	"github.com/notate-project/notate/lib/nbview"
	"github.com/notate-project/notate/lib/notebook"
)

// viewParams holds the parameters for the view command.
type viewParams struct {
	Lexer string `flag:"lexer" desc:"chroma lexer for code cells (default: from notebook metadata)"`
}

// viewCommand returns the "notate view" command.
func viewCommand() *cli.Command {
	var params viewParams

	return &cli.Command{
		Name:    "view",
		Summary: "Browse a notebook interactively",
		Description: `Open the notebook in a full-screen scrollable viewer. The render
reflows to the terminal width and follows resizes.

Keys: j/k or the arrows scroll by line, d/u by half a page, g/G jump
to the top or bottom, q quits.`,
		Usage: "notate view [flags] <file>",
		Examples: []cli.Example{
			{
				Description: "Browse a notebook",
				Command:     "notate view analysis.ipynb",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runView(&params, args)
		},
	}
}

func runView(params *viewParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("view takes exactly one notebook file, got %d arguments", len(args))
	}

	nb, err := loadNotebook(args[0])
	if err != nil {
		return err
	}
	// Render once up front so malformed notebooks fail with a plain
	// error instead of inside the alternate screen.
	if _, err := nbview.Render(nb, nbview.Options{Lexer: params.Lexer}); err != nil {
		return err
	}

	program := tea.NewProgram(newViewModel(nb, args[0], params.Lexer),
		tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// viewKeyMap defines the key bindings for the notebook viewer.
type viewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

// defaultViewKeys is the built-in key binding set. Vim-style movement
// (j/k) alongside standard arrow keys and page up/down.
func defaultViewKeys() viewKeyMap {
	return viewKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("u", "ctrl+u", "pgup"),
			key.WithHelp("u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("d", "ctrl+d", "pgdown"),
			key.WithHelp("d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Chrome rows rendered outside the viewport: one header line and one
// help line.
const viewChromeLines = 2

// viewModel is the bubbletea model for the notebook viewer: a single
// scrollable viewport holding the rendered notebook, with a title
// line above and a help line below.
type viewModel struct {
	nb    *notebook.Notebook
	path  string
	lexer string
	keys  viewKeyMap

	viewport viewport.Model
	ready    bool

	headerStyle lipgloss.Style
	helpStyle   lipgloss.Style
	trackStyle  lipgloss.Style
	thumbStyle  lipgloss.Style
}

func newViewModel(nb *notebook.Notebook, path, lexer string) viewModel {
	return viewModel{
		nb:          nb,
		path:        path,
		lexer:       lexer,
		keys:        defaultViewKeys(),
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		trackStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		thumbStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.HalfUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keys.HalfDown):
			m.viewport.HalfViewDown()
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.LineDown(3)
		}

	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

// resize re-renders the notebook at the new width and restores the
// scroll position, clamped to the new line count. One column on the
// right is reserved for the scrollbar.
func (m viewModel) resize(width, height int) viewModel {
	offset := m.viewport.YOffset
	contentWidth := max(width-1, 1)
	m.viewport.Width = contentWidth
	m.viewport.Height = max(height-viewChromeLines, 1)

	content, err := nbview.Render(m.nb, nbview.Options{Width: contentWidth, Lexer: m.lexer})
	if err == nil {
		m.viewport.SetContent(content)
	}

	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	m.viewport.SetYOffset(offset)
	m.ready = true
	return m
}

func (m viewModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.scrollbarView())
	return m.headerView() + "\n" + body + "\n" + m.helpView()
}

// scrollbarView renders the right-hand scrollbar column: a thumb
// sized to the visible share of the content over a dim track. When
// the content fits, the thumb spans the full height.
func (m viewModel) scrollbarView() string {
	height := m.viewport.Height
	if height <= 0 {
		return ""
	}
	total := m.viewport.TotalLineCount()

	lines := make([]string, height)
	if total <= height {
		for i := range lines {
			lines[i] = m.thumbStyle.Render("┃")
		}
		return strings.Join(lines, "\n")
	}

	thumbSize := height * height / total
	if thumbSize < 1 {
		thumbSize = 1
	}
	trackRange := height - thumbSize
	thumbOffset := 0
	if scrollable := total - height; scrollable > 0 && trackRange > 0 {
		thumbOffset = m.viewport.YOffset * trackRange / scrollable
	}
	if thumbOffset+thumbSize > height {
		thumbOffset = height - thumbSize
	}

	for i := range lines {
		if i >= thumbOffset && i < thumbOffset+thumbSize {
			lines[i] = m.thumbStyle.Render("┃")
		} else {
			lines[i] = m.trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}

func (m viewModel) headerView() string {
	cells := "1 cell"
	if n := len(m.nb.Cells); n != 1 {
		cells = fmt.Sprintf("%d cells", n)
	}
	return m.headerStyle.Render(fmt.Sprintf(" %s (%s)", m.path, cells))
}

// helpView renders the bottom help bar with key hints and position.
func (m viewModel) helpView() string {
	help := " q quit  j/k scroll  d/u half page  g/G top/bottom"

	position := ""
	switch {
	case m.viewport.TotalLineCount() <= m.viewport.Height:
	case m.viewport.YOffset == 0:
		position = "top"
	case m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount():
		position = "bottom"
	default:
		percent := float64(m.viewport.YOffset) /
			float64(m.viewport.TotalLineCount()-m.viewport.Height) * 100
		position = fmt.Sprintf("%d%%", int(percent))
	}
	if position != "" {
		help += fmt.Sprintf("  [%s]", position)
	}
	return m.helpStyle.Render(help)
}
