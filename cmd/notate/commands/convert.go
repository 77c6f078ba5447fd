// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/notate-project/notate/cmd/notate/cli"
)

// convertParams holds the parameters for the convert command.
type convertParams struct {
	To          string `flag:"to" desc:"target format: myst or ipynb (default: the opposite of the input)"`
	From        string `flag:"from" desc:"input format: myst or ipynb (required when reading stdin)"`
	Output      string `flag:"output,o" desc:"output path (default: stdout)"`
	Strict      bool   `flag:"strict" desc:"fail on malformed embedded metadata instead of recovering"`
	SourceLines bool   `flag:"source-lines" desc:"record source line spans in cell metadata"`
	Verbose     bool   `flag:"verbose,v" desc:"enable debug logging"`
}

// convertCommand returns the "notate convert" command.
func convertCommand() *cli.Command {
	var params convertParams

	return &cli.Command{
		Name:    "convert",
		Summary: "Convert between MyST markdown and ipynb",
		Description: `Read a notebook in one format and write it in the other. The input
format comes from --from, or the file extension, or a content sniff;
the target defaults to the opposite of the input.

Conversion preserves everything the target format can express: cell
sources, cell and notebook metadata, and (for ipynb output) recorded
outputs and execution counts. Malformed metadata embedded in markdown
input is kept as literal text unless --strict is set.`,
		Usage: "notate convert [flags] <file>",
		Examples: []cli.Example{
			{
				Description: "Notebook to MyST markdown",
				Command:     "notate convert analysis.ipynb -o analysis.md",
			},
			{
				Description: "MyST markdown back to a notebook",
				Command:     "notate convert analysis.md -o analysis.ipynb",
			},
			{
				Description: "Convert from stdin, naming the input format",
				Command:     "notate convert --from myst - < analysis.md",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runConvert(&params, args)
		},
	}
}

func runConvert(params *convertParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("convert takes exactly one input file, got %d arguments", len(args))
	}
	path := args[0]

	config, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	strict := params.Strict || config.Strict
	logger := cli.NewLogger(params.Verbose).With("command", "convert")

	from := params.From
	if from == "" && path == "-" {
		return fmt.Errorf("reading stdin requires --from (myst or ipynb)")
	}
	if from != "" {
		if err := checkFormat(from); err != nil {
			return err
		}
	}
	if params.To != "" {
		if err := checkFormat(params.To); err != nil {
			return err
		}
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}
	if from == "" {
		from = classifyPath(path)
		if from == "" {
			from = sniffFormat(data)
			logger.Debug("sniffed input format", "path", path, "format", from)
		}
	}

	to := params.To
	if to == "" {
		to = otherFormat(from)
	}
	if to == from {
		return fmt.Errorf("input is already %s (use \"notate fmt\" to normalize myst documents)", to)
	}

	nb, err := decodeInput(data, from, strict, params.SourceLines)
	if err != nil {
		if path == "-" {
			return err
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("parsed input", "format", from, "cells", len(nb.Cells))

	out, err := encodeOutput(nb, to)
	if err != nil {
		return err
	}

	if params.Output == "" || params.Output == "-" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(params.Output, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", params.Output, err)
	}
	logger.Info("converted", "from", from, "to", to, "output", params.Output)
	return nil
}
