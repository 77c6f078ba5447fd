// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

// Package metablock encodes metadata mappings as the YAML metadata
// blocks the text form embeds in fenced cells, and decodes both block
// spellings back into a mapping.
//
// A block has two spellings. The compact form prefixes every line of
// the YAML dump with a colon and needs no delimiters:
//
//	:other: true
//	:tags: [hide-output, show-input]
//
// The delimited form encloses the dump between --- lines and is
// required whenever the dump contains a line that does not begin with a
// letter (nested mappings indent their lines, block sequences start
// with a dash, multi-line strings produce literal blocks, non-letter
// keys get quoted):
//
//	---
//	other:
//	  more: true
//	tags: [hide-output, show-input]
//	---
//
// Sequences are dumped flow style unless a direct element is a mapping;
// mappings are always block style (except inside a flow sequence, where
// YAML permits no block nodes). Other tools writing this format follow
// the same dump policy, so documents converge to the same shape
// regardless of which tool wrote them.
package metablock

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/notate-project/notate/lib/notebook"
)

// Delimiter is the line that opens and closes a delimited metadata
// block (and the document's front matter).
const Delimiter = "---"

// ParseError reports block text that could not be decoded into the
// metadata value vocabulary, either because the YAML itself is invalid
// or because it decodes to a shape the model cannot hold.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "metadata block: " + e.Reason + ": " + e.Err.Error()
	}
	return "metadata block: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Dump encodes m as a metadata block. The compact form is used only
// when compact is true and every line of the underlying YAML dump
// begins with a letter; otherwise the delimited form. An empty mapping
// dumps to the empty string.
func Dump(m *notebook.Metadata, compact bool) (string, error) {
	if m.Len() == 0 {
		return "", nil
	}
	node, err := encodeValue(m, false)
	if err != nil {
		return "", fmt.Errorf("metadata block: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("metadata block: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("metadata block: %w", err)
	}
	dump := buf.String()
	lines := strings.Split(strings.TrimSuffix(dump, "\n"), "\n")
	if compact && allLinesCompactSafe(lines) {
		return ":" + strings.Join(lines, "\n:") + "\n\n", nil
	}
	return Delimiter + "\n" + dump + Delimiter + "\n", nil
}

// allLinesCompactSafe reports whether every line begins with a letter,
// the condition under which prefixing each line with ":" still reads
// back as the same mapping.
func allLinesCompactSafe(lines []string) bool {
	for _, line := range lines {
		r, _ := utf8.DecodeRuneInString(line)
		if line == "" || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Parse decodes a metadata block in either spelling, or bare YAML with
// no block dressing at all, into a mapping. Anything that decodes to a
// non-mapping value fails with a *ParseError.
func Parse(text string) (*notebook.Metadata, error) {
	value, err := ParseValue(stripBlockDressing(text))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return notebook.NewMetadata(), nil
	}
	m, ok := value.(*notebook.Metadata)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("decoded to %s, not a mapping", valueKindName(value))}
	}
	return m, nil
}

// stripBlockDressing removes the compact form's colon prefixes or the
// delimited form's enclosing lines, leaving bare YAML. Text in neither
// shape passes through unchanged.
func stripBlockDressing(text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if isCompact(lines) {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, ":")
		}
		return strings.Join(lines, "\n")
	}
	if len(lines) >= 2 && strings.TrimRight(lines[0], " \t") == Delimiter {
		last := len(lines) - 1
		end := strings.TrimRight(lines[last], " \t")
		if end == Delimiter || end == "..." {
			return strings.Join(lines[1:last], "\n")
		}
	}
	return strings.Join(lines, "\n")
}

func isCompact(lines []string) bool {
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return false
		}
		seen = true
	}
	return seen
}

// ParseValue decodes bare YAML text into the shared metadata value
// vocabulary: *notebook.Metadata for mappings (key order preserved),
// []any for sequences, and string/bool/int64/float64/nil scalars.
// Timestamps and unrecognized tags stay raw strings; round-trip
// fidelity beats type fidelity for values the model cannot represent.
// Decode failures are *ParseError values.
func ParseValue(text string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Reason: "invalid YAML", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return decodeNode(doc.Content[0])
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeNode(n.Content[0])
	case yaml.MappingNode:
		m := notebook.NewMetadata()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &ParseError{Reason: fmt.Sprintf("line %d: mapping key is not a scalar", keyNode.Line)}
			}
			value, err := decodeNode(valueNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, value)
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return decodeScalar(n), nil
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	}
	return nil, &ParseError{Reason: fmt.Sprintf("line %d: unsupported YAML node kind", n.Line)}
}

func decodeScalar(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	// Strings, timestamps, and anything the model cannot hold keep
	// their source text.
	return n.Value
}

func encodeValue(v any, inFlow bool) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(t)}, nil
	case *notebook.Metadata:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if inFlow {
			node.Style = yaml.FlowStyle
		}
		for _, key := range t.Keys() {
			value, _ := t.Get(key)
			valueNode, err := encodeValue(value, inFlow)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			node.Content = append(node.Content, keyNode, valueNode)
		}
		return node, nil
	case []any:
		// Flow style unless a direct element is a mapping; a flow
		// sequence carries flow down to everything inside it.
		flow := inFlow
		if !flow {
			flow = true
			for _, item := range t {
				if _, ok := item.(*notebook.Metadata); ok {
					flow = false
					break
				}
			}
		}
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if flow {
			node.Style = yaml.FlowStyle
		}
		for _, item := range t {
			itemNode, err := encodeValue(item, flow)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported metadata value type %T", v)
	}
}

// formatYAMLFloat keeps whole-valued floats distinguishable from
// integers across a reload.
func formatYAMLFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch s {
	case "+Inf":
		return ".inf"
	case "-Inf":
		return "-.inf"
	case "NaN":
		return ".nan"
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func valueKindName(v any) string {
	switch v.(type) {
	case *notebook.Metadata:
		return "a mapping"
	case []any:
		return "a sequence"
	default:
		return fmt.Sprintf("a %T scalar", v)
	}
}
