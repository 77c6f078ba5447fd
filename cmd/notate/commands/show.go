// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/notate-project/notate/cmd/notate/cli"
	"github.com/notate-project/notate/lib/nbview"
)

// showParams holds the parameters for the show command.
type showParams struct {
	Width   int    `flag:"width,w" desc:"render width in columns (default: terminal width)"`
	Lexer   string `flag:"lexer" desc:"chroma lexer for code cells (default: from notebook metadata)"`
	NoColor bool   `flag:"no-color" desc:"disable colors"`
}

// showCommand returns the "notate show" command.
func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Render a notebook to the terminal",
		Description: `Print a styled view of the notebook: markdown cells as reflowed
prose, code cells as highlighted blocks under their execution counts,
raw cells verbatim. Both ipynb and MyST markdown inputs work.

Color defaults to on when stdout is a terminal; override with
--no-color or the color setting in the config file.`,
		Usage: "notate show [flags] <file>",
		Examples: []cli.Example{
			{
				Description: "Render a notebook",
				Command:     "notate show analysis.ipynb",
			},
			{
				Description: "Page through a wide render with colors kept",
				Command:     "notate show -w 120 analysis.md | less -R",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runShow(&params, args)
		},
	}
}

func runShow(params *showParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show takes exactly one notebook file, got %d arguments", len(args))
	}

	config, err := cli.LoadConfig()
	if err != nil {
		return err
	}

	nb, err := loadNotebook(args[0])
	if err != nil {
		return err
	}

	opts := nbview.Options{
		Width: displayWidth(params.Width, config),
		Lexer: params.Lexer,
	}
	if !useColor(params.NoColor, config) {
		opts.Color = nbview.ColorNone
	}

	text, err := nbview.Render(nb, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(os.Stdout, text)
	return err
}

// displayWidth resolves the render width: the flag wins, then the
// config file, then the terminal size, then 80 columns.
func displayWidth(flagWidth int, config *cli.Config) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if config.Width > 0 {
		return config.Width
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// useColor resolves the color decision from the flag, the config, and
// whether stdout is a terminal.
func useColor(noColor bool, config *cli.Config) bool {
	if noColor || config.Color == cli.ColorNever {
		return false
	}
	if config.Color == cli.ColorAlways {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
