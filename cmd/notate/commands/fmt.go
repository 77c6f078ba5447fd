// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/notate-project/notate/cmd/notate/cli"
	"github.com/notate-project/notate/lib/myst"
)

// fmtParams holds the parameters for the fmt command.
type fmtParams struct {
	Write   bool `flag:"write,w" desc:"rewrite files in place instead of printing"`
	Check   bool `flag:"check" desc:"print files whose formatting would change and exit 1"`
	Strict  bool `flag:"strict" desc:"fail on malformed embedded metadata instead of recovering"`
	Verbose bool `flag:"verbose,v" desc:"enable debug logging"`
}

// fmtCommand returns the "notate fmt" command.
func fmtCommand() *cli.Command {
	var params fmtParams

	return &cli.Command{
		Name:    "fmt",
		Summary: "Normalize MyST documents",
		Description: `Reformat MyST markdown by parsing it to a notebook and serializing it
back: front matter is re-dumped in canonical YAML, cell options and
metadata markers are normalized, and code fences gain the lexer
annotation when the document declares its language.

With no arguments, reads stdin and prints the result. With files, the
default prints each formatted document to stdout; -w rewrites the
files in place and --check only reports which files would change.`,
		Usage: "notate fmt [flags] [file...]",
		Examples: []cli.Example{
			{
				Description: "Normalize stdin to stdout",
				Command:     "notate fmt < analysis.md",
			},
			{
				Description: "Rewrite files in place",
				Command:     "notate fmt -w docs/*.md",
			},
			{
				Description: "Fail CI when files need formatting",
				Command:     "notate fmt --check docs/*.md",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runFmt(&params, args)
		},
	}
}

func runFmt(params *fmtParams, args []string) error {
	if params.Write && params.Check {
		return fmt.Errorf("-w and --check are mutually exclusive")
	}

	config, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	strict := params.Strict || config.Strict

	if len(args) == 0 {
		if params.Write || params.Check {
			return fmt.Errorf("-w and --check require file arguments")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		formatted, err := reformat(string(data), strict)
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, formatted)
		return err
	}

	logger := cli.NewLogger(params.Verbose).With("command", "fmt")

	changed := 0
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("cannot read", "path", path, "error", err)
			failed++
			continue
		}
		formatted, err := reformat(string(data), strict)
		if err != nil {
			logger.Error("cannot format", "path", path, "error", err)
			failed++
			continue
		}
		same := formatted == string(data)

		switch {
		case params.Check:
			if !same {
				fmt.Println(path)
				changed++
			}
		case params.Write:
			if same {
				logger.Debug("unchanged", "path", path)
				continue
			}
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				logger.Error("cannot rewrite", "path", path, "error", err)
				failed++
				continue
			}
			logger.Info("rewrote", "path", path)
			changed++
		default:
			if _, err := io.WriteString(os.Stdout, formatted); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	if params.Check && changed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// reformat round-trips one document through the notebook model. It
// shares encodeOutput with convert so formatting a converted file is
// always a no-op.
func reformat(text string, strict bool) (string, error) {
	nb, err := myst.Parse(text, parseOptions(strict, false)...)
	if err != nil {
		return "", err
	}
	out, err := encodeOutput(nb, formatMyST)
	return string(out), err
}
