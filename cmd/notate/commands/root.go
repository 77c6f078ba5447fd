// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete notate CLI command tree. Every
// subcommand lives here rather than in its own package so the tree
// stays one flat list; the cli package supplies the dispatch, flag
// binding, and help machinery.
package commands

import (
	"fmt"

	"github.com/notate-project/notate/cmd/notate/cli"
	"github.com/notate-project/notate/lib/version"
)

// Root builds and returns the complete notate CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "notate",
		Description: `Notate: Jupyter notebooks as MyST markdown.

Convert notebooks between the ipynb format and MyST markdown text,
detect and normalize MyST documents, and render notebooks as styled
terminal output.`,
		Subcommands: []*cli.Command{
			convertCommand(),
			detectCommand(),
			fmtCommand(),
			showCommand(),
			viewCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Convert a notebook to MyST markdown",
				Command:     "notate convert analysis.ipynb -o analysis.md",
			},
			{
				Description: "Convert the markdown back to a notebook",
				Command:     "notate convert analysis.md -o analysis.ipynb",
			},
			{
				Description: "Check which markdown files are MyST notebooks",
				Command:     "notate detect docs/*.md",
			},
			{
				Description: "Normalize a MyST document in place",
				Command:     "notate fmt -w analysis.md",
			},
			{
				Description: "Render a notebook to the terminal",
				Command:     "notate show analysis.ipynb",
			},
			{
				Description: "Browse a notebook interactively",
				Command:     "notate view analysis.ipynb",
			},
		},
	}
}

// versionCommand returns the "notate version" command.
func versionCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			if done, err := params.EmitJSON(version.Current()); done {
				return err
			}
			fmt.Printf("notate %s\n", version.Full())
			return nil
		},
	}
}
