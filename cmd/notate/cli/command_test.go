// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "notate",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "convert",
				Run: func(args []string) error {
					called = "convert"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"convert"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "convert" {
		t.Errorf("dispatched to %q, want %q", called, "convert")
	}
}

func TestCommand_Execute_PassesPositionalArgs(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "notate",
		Subcommands: []*Command{
			{
				Name: "detect",
				Run: func(args []string) error {
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"detect", "a.md", "b.md"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 2 || receivedArgs[0] != "a.md" || receivedArgs[1] != "b.md" {
		t.Errorf("args = %v, want [a.md b.md]", receivedArgs)
	}
}

func TestCommand_Execute_ParamsParsing(t *testing.T) {
	type params struct {
		Output string `flag:"output,o" desc:"output path"`
		Strict bool   `flag:"strict" desc:"strict metadata parsing"`
	}

	var p params
	var positional []string

	command := &Command{
		Name:   "convert",
		Params: func() any { return &p },
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"-o", "out.ipynb", "--strict", "doc.md"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if p.Output != "out.ipynb" {
		t.Errorf("Output = %q, want %q", p.Output, "out.ipynb")
	}
	if !p.Strict {
		t.Error("Strict = false, want true")
	}
	if len(positional) != 1 || positional[0] != "doc.md" {
		t.Errorf("positional = %v, want [doc.md]", positional)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	type params struct {
		Write bool `flag:"write,w" desc:"rewrite files in place"`
		Check bool `flag:"check" desc:"exit 1 when files differ"`
	}

	command := &Command{
		Name:   "fmt",
		Params: func() any { return new(params) },
		Run:    func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--chek"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --check") {
		t.Errorf("error = %q, want suggestion for '--check'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "chek") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	type params struct {
		Write bool `flag:"write,w" desc:"rewrite files in place"`
	}

	command := &Command{
		Name:   "fmt",
		Params: func() any { return new(params) },
		Run:    func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_HelpFlagAfterFlags(t *testing.T) {
	type params struct {
		Width int `flag:"width" desc:"render width"`
	}

	ran := false
	command := &Command{
		Name:   "show",
		Params: func() any { return new(params) },
		Run: func(args []string) error {
			ran = true
			return nil
		},
	}

	// --help in a later position surfaces as pflag.ErrHelp and prints
	// help instead of running.
	if err := command.Execute([]string{"--width", "100", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if ran {
		t.Error("Run executed, want help output instead")
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "notate",
		Subcommands: []*Command{
			{Name: "convert"},
			{Name: "detect"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"convrt"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"convert\"") {
		t.Errorf("error = %q, want suggestion for 'convert'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "notate",
		Subcommands: []*Command{
			{Name: "convert"},
			{Name: "detect"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "notate",
				Summary: "MyST notebook conversion",
				Subcommands: []*Command{
					{Name: "convert", Summary: "Convert between formats"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "notate",
		Subcommands: []*Command{
			{Name: "convert", Summary: "Convert between formats"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "notate",
		Description: "Round-trip conversion between MyST markdown and Jupyter notebooks.",
		Subcommands: []*Command{
			{Name: "convert", Summary: "Convert between MyST and ipynb"},
			{Name: "detect", Summary: "Report whether files are MyST documents"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Convert a notebook to MyST markdown",
				Command:     "notate convert notebook.ipynb -o notebook.md",
			},
			{
				Description: "Check which markdown files are MyST notebooks",
				Command:     "notate detect docs/*.md",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"Round-trip conversion between MyST markdown and Jupyter notebooks.",
		"Usage:",
		"notate <command> [flags]",
		"Commands:",
		"convert",
		"Convert between MyST and ipynb",
		"detect",
		"Report whether files are MyST documents",
		"Examples:",
		"notate convert notebook.ipynb -o notebook.md",
		"notate detect docs/*.md",
		"Run 'notate <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithParams(t *testing.T) {
	type params struct {
		Width   int  `flag:"width" desc:"render width in columns"`
		NoColor bool `flag:"no-color" desc:"disable colored output"`
	}

	command := &Command{
		Name:    "show",
		Summary: "Render a notebook to the terminal",
		Usage:   "notate show [flags] <file>",
		Params:  func() any { return new(params) },
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"notate show [flags] <file>",
		"Flags:",
		"width",
		"render width in columns",
		"no-color",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "notate"}
	sub := &Command{Name: "fmt", parent: root}

	if got := root.fullName(); got != "notate" {
		t.Errorf("root.fullName() = %q, want %q", got, "notate")
	}
	if got := sub.fullName(); got != "notate fmt" {
		t.Errorf("sub.fullName() = %q, want %q", got, "notate fmt")
	}
}
