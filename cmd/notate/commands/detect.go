// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/notate-project/notate/cmd/notate/cli"
	"github.com/notate-project/notate/lib/metablock"
	"github.com/notate-project/notate/lib/myst"
	"github.com/notate-project/notate/lib/notebook"
)

// detectParams holds the parameters for the detect command.
type detectParams struct {
	cli.JSONOutput
	RequireMeta bool `flag:"require-meta" desc:"only match documents that open with front matter"`
}

// detectResult is the per-file verdict, also used for --json output.
type detectResult struct {
	Path   string `json:"path"`
	MyST   bool   `json:"myst"`
	Reason string `json:"reason"`
}

// detectCommand returns the "notate detect" command.
func detectCommand() *cli.Command {
	var params detectParams

	return &cli.Command{
		Name:    "detect",
		Summary: "Report which files are MyST notebook documents",
		Description: `Classify each file as a MyST notebook document or not, with the
reason. A file matches through its extension (.myst, .mystnb, .mnb),
through front matter that declares the myst format, or by containing
at least one code or raw cell.

Exits 0 when every file matches, 1 otherwise, so the command works as
a filter in scripts.`,
		Usage: "notate detect [flags] <file>...",
		Examples: []cli.Example{
			{
				Description: "Classify the markdown files in a directory",
				Command:     "notate detect docs/*.md",
			},
			{
				Description: "Require front matter, machine-readable output",
				Command:     "notate detect --require-meta --json docs/*.md",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runDetect(&params, args)
		},
	}
}

func runDetect(params *detectParams, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("detect requires at least one file")
	}

	results := make([]detectResult, 0, len(args))
	allMyST := true
	for _, path := range args {
		result := detectFile(path, params.RequireMeta)
		if !result.MyST {
			allMyST = false
		}
		results = append(results, result)
	}

	if done, err := params.EmitJSON(results); done {
		if err != nil {
			return err
		}
	} else {
		for _, result := range results {
			verdict := "myst"
			if !result.MyST {
				verdict = "not myst"
			}
			fmt.Printf("%s: %s (%s)\n", result.Path, verdict, result.Reason)
		}
	}

	if !allMyST {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// detectFile classifies one file and derives the human-readable reason
// for the verdict.
func detectFile(path string, requireMeta bool) detectResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return detectResult{Path: path, Reason: err.Error()}
	}
	text := string(data)
	ext := filepath.Ext(path)
	opts := myst.DetectOptions{AllowMissingMeta: !requireMeta}

	if nb, ok := myst.Detect(text, ext, opts); ok {
		switch {
		case slices.Contains(myst.Extensions(false), strings.ToLower(ext)):
			return detectResult{Path: path, MyST: true, Reason: "myst extension"}
		case declaresMyST(nb):
			return detectResult{Path: path, MyST: true, Reason: "front matter declares myst"}
		default:
			return detectResult{Path: path, MyST: true, Reason: "contains notebook cells"}
		}
	}

	// Detection parses tolerantly, so a miss means one of its two
	// gates failed: the front matter requirement or the cell rule.
	if requireMeta && !strings.HasPrefix(text, metablock.Delimiter) {
		return detectResult{Path: path, Reason: "no front matter"}
	}
	return detectResult{Path: path, Reason: "no notebook cells"}
}

// declaresMyST reports whether the notebook's front matter names this
// format under jupytext.text_representation.
func declaresMyST(nb *notebook.Notebook) bool {
	name, ok := nb.Metadata.DigString("jupytext", "text_representation", "format_name")
	return ok && name == myst.FormatName
}
