// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package directive splits the body of a fenced directive into its
// option mapping and its remaining content lines.
//
// Options come in two spellings at the very top of the body: a YAML
// block fenced by --- lines, or a run of lines each prefixed with a
// colon. After the options are removed, one leading blank line is
// dropped from what remains (it separates options from content), and
// the rest is the content.
//
// A [Spec] describes the directive being parsed. There is no dynamic
// directive registry here; the one consumer of this package is the
// cell-directive shape returned by [CellSpec], but the Spec fields keep
// the contract explicit rather than baked in.
package directive

import (
	"fmt"
	"strings"

	"github.com/notate-project/notate/lib/metablock"
	"github.com/notate-project/notate/lib/notebook"
)

// Spec describes a directive's argument and content contract.
type Spec struct {
	// RequiredArguments and OptionalArguments bound the number of
	// whitespace-separated words accepted on the directive's first line.
	RequiredArguments int
	OptionalArguments int

	// HasContent permits body content after the options.
	HasContent bool

	// ValidateOptions, when non-nil, is applied to the parsed option
	// mapping. Cell directives perform no validation.
	ValidateOptions func(*notebook.Metadata) error
}

// CellSpec returns the directive shape used for code and raw cells: no
// required arguments, one optional argument (a lexer hint that parsing
// ignores), content allowed, options unvalidated.
func CellSpec() Spec {
	return Spec{RequiredArguments: 0, OptionalArguments: 1, HasContent: true}
}

// ParseError reports a directive body that could not be split into
// options and content. It wraps the YAML error when one caused it.
type ParseError struct {
	// Reason describes what was wrong with the body.
	Reason string
	// Err is the underlying decode error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directive: %s: %v", e.Reason, e.Err)
	}
	return "directive: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse splits a directive's first-line argument text and body into
// (arguments, options, content lines) under spec. The argument text is
// split on whitespace and counted against the spec's bounds. Option
// parsing failures, non-mapping options, and contract violations all
// return a *ParseError.
func Parse(argument, body string, spec Spec) ([]string, *notebook.Metadata, []string, error) {
	arguments, err := parseArguments(argument, spec)
	if err != nil {
		return nil, nil, nil, err
	}
	content, options, err := parseOptions(body)
	if err != nil {
		return nil, nil, nil, err
	}
	if spec.ValidateOptions != nil {
		if err := spec.ValidateOptions(options); err != nil {
			return nil, nil, nil, &ParseError{Reason: "invalid options", Err: err}
		}
	}
	bodyLines := splitLines(content)
	// One blank line may separate the options from the content.
	if len(bodyLines) > 0 && strings.TrimSpace(bodyLines[0]) == "" {
		bodyLines = bodyLines[1:]
	}
	if len(bodyLines) > 0 && !spec.HasContent {
		return nil, nil, nil, &ParseError{Reason: "directive accepts no content"}
	}
	return arguments, options, bodyLines, nil
}

func parseArguments(argument string, spec Spec) ([]string, error) {
	words := strings.Fields(argument)
	if len(words) < spec.RequiredArguments {
		return nil, &ParseError{Reason: fmt.Sprintf(
			"%d argument(s) required, %d supplied", spec.RequiredArguments, len(words))}
	}
	if len(words) > spec.RequiredArguments+spec.OptionalArguments {
		return nil, &ParseError{Reason: fmt.Sprintf(
			"maximum %d argument(s) allowed, %d supplied",
			spec.RequiredArguments+spec.OptionalArguments, len(words))}
	}
	return words, nil
}

// parseOptions removes a leading option block from body and returns the
// remaining content plus the decoded mapping.
func parseOptions(body string) (string, *notebook.Metadata, error) {
	var yamlBlock string
	content := body
	switch {
	case strings.HasPrefix(body, metablock.Delimiter):
		lines := splitLines(body)[1:]
		closing := -1
		for i, line := range lines {
			if isDashFence(line) {
				closing = i
				break
			}
		}
		if closing >= 0 {
			yamlBlock = dedent(strings.Join(lines[:closing], "\n"))
			content = strings.Join(lines[closing+1:], "\n")
		} else {
			// Unterminated block: the whole body is options.
			yamlBlock = dedent(strings.Join(lines, "\n"))
			content = ""
		}
	case strings.HasPrefix(strings.TrimLeft(body, " \t"), ":"):
		lines := splitLines(body)
		var optionLines []string
		for len(lines) > 0 {
			stripped := strings.TrimLeft(lines[0], " \t")
			if !strings.HasPrefix(stripped, ":") {
				break
			}
			optionLines = append(optionLines, stripped[1:])
			lines = lines[1:]
		}
		yamlBlock = strings.Join(optionLines, "\n")
		content = strings.Join(lines, "\n")
	default:
		return content, notebook.NewMetadata(), nil
	}

	value, err := metablock.ParseValue(yamlBlock)
	if err != nil {
		return "", nil, &ParseError{Reason: "invalid options YAML", Err: err}
	}
	if value == nil {
		return content, notebook.NewMetadata(), nil
	}
	options, ok := value.(*notebook.Metadata)
	if !ok {
		return "", nil, &ParseError{Reason: fmt.Sprintf(
			"invalid options (not a mapping): %s", strings.TrimSpace(yamlBlock))}
	}
	return content, options, nil
}

// isDashFence matches a closing option-block line: three or more
// dashes and nothing else.
func isDashFence(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 3 {
		return false
	}
	return strings.Count(trimmed, "-") == len(trimmed)
}

// splitLines splits on newlines without manufacturing a final empty
// line for newline-terminated text.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// dedent removes the longest common leading whitespace from every
// non-blank line.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		for !strings.HasPrefix(line, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return text
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
