// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read decodes an nbformat v4 notebook from JSON. Cell sources given as
// arrays of lines are joined into a single string; metadata mappings
// keep their key order.
func Read(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := DecodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	root, ok := value.(*Metadata)
	if !ok {
		return nil, fmt.Errorf("decode notebook: top level is %s, not an object", jsonTypeName(value))
	}

	nb := New()
	if v, ok := root.Get("nbformat"); ok {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("decode notebook: nbformat is %s", jsonTypeName(v))
		}
		nb.NBFormat = int(n)
	}
	if v, ok := root.Get("nbformat_minor"); ok {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("decode notebook: nbformat_minor is %s", jsonTypeName(v))
		}
		nb.NBFormatMinor = int(n)
	}
	if nb.NBFormat != 4 {
		return nil, fmt.Errorf("decode notebook: unsupported nbformat %d (want 4)", nb.NBFormat)
	}
	if v, ok := root.Get("metadata"); ok {
		m, ok := v.(*Metadata)
		if !ok {
			return nil, fmt.Errorf("decode notebook: metadata is %s, not an object", jsonTypeName(v))
		}
		nb.Metadata = m
	}
	rawCells, ok := root.Get("cells")
	if !ok {
		return nil, fmt.Errorf("decode notebook: missing cells array")
	}
	cellList, ok := rawCells.([]any)
	if !ok {
		return nil, fmt.Errorf("decode notebook: cells is %s, not an array", jsonTypeName(rawCells))
	}
	for i, rawCell := range cellList {
		obj, ok := rawCell.(*Metadata)
		if !ok {
			return nil, fmt.Errorf("decode notebook: cell %d is %s, not an object", i, jsonTypeName(rawCell))
		}
		cell, err := decodeCell(obj)
		if err != nil {
			return nil, fmt.Errorf("decode notebook: cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

// ReadFile decodes the nbformat file at path.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nb, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

func decodeCell(obj *Metadata) (*Cell, error) {
	rawType, ok := obj.Get("cell_type")
	if !ok {
		return nil, fmt.Errorf("missing cell_type")
	}
	typeName, ok := rawType.(string)
	if !ok {
		return nil, fmt.Errorf("cell_type is %s, not a string", jsonTypeName(rawType))
	}
	cell := &Cell{Type: CellType(typeName), Metadata: NewMetadata()}
	if v, ok := obj.Get("id"); ok {
		if s, ok := v.(string); ok {
			cell.ID = s
		}
	}
	if v, ok := obj.Get("metadata"); ok {
		m, ok := v.(*Metadata)
		if !ok {
			return nil, fmt.Errorf("metadata is %s, not an object", jsonTypeName(v))
		}
		cell.Metadata = m
	}
	if v, ok := obj.Get("source"); ok {
		source, err := decodeSource(v)
		if err != nil {
			return nil, err
		}
		cell.Source = source
	}
	if cell.Type == Code {
		if v, ok := obj.Get("execution_count"); ok && v != nil {
			n, ok := v.(int64)
			if !ok {
				return nil, fmt.Errorf("execution_count is %s", jsonTypeName(v))
			}
			cell.ExecutionCount = &n
		}
		cell.Outputs = []any{}
		if v, ok := obj.Get("outputs"); ok {
			outputs, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("outputs is %s, not an array", jsonTypeName(v))
			}
			cell.Outputs = outputs
		}
	}
	if v, ok := obj.Get("attachments"); ok {
		cell.Attachments = v
	}
	return cell, nil
}

// decodeSource accepts the two source spellings the schema allows: a
// single string, or an array of (usually newline-terminated) lines.
func decodeSource(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []any:
		var b strings.Builder
		for i, line := range s {
			text, ok := line.(string)
			if !ok {
				return "", fmt.Errorf("source line %d is %s, not a string", i, jsonTypeName(line))
			}
			b.WriteString(text)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("source is %s, not a string or array", jsonTypeName(v))
	}
}

// Write encodes nb as nbformat v4 JSON: one-space indent, a trailing
// newline, sources as arrays of lines, metadata keys in document order.
func Write(w io.Writer, nb *Notebook) error {
	// Direct call: json.Marshal would HTML-escape the marshaler
	// output, and notebook files keep "<" and friends literal.
	encoded, err := buildDocument(nb).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, encoded, "", " "); err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}

// WriteFile writes nb to path, creating or truncating it.
func WriteFile(path string, nb *Notebook) error {
	var buf bytes.Buffer
	if err := Write(&buf, nb); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func buildDocument(nb *Notebook) *Metadata {
	doc := NewMetadata()
	cells := make([]any, 0, len(nb.Cells))
	for _, cell := range nb.Cells {
		cells = append(cells, buildCell(cell))
	}
	doc.Set("cells", cells)
	doc.Set("metadata", nb.Metadata)
	doc.Set("nbformat", int64(nb.NBFormat))
	doc.Set("nbformat_minor", int64(nb.NBFormatMinor))
	return doc
}

func buildCell(cell *Cell) *Metadata {
	obj := NewMetadata()
	if cell.Attachments != nil {
		obj.Set("attachments", cell.Attachments)
	}
	obj.Set("cell_type", string(cell.Type))
	if cell.Type == Code {
		if cell.ExecutionCount != nil {
			obj.Set("execution_count", *cell.ExecutionCount)
		} else {
			obj.Set("execution_count", nil)
		}
	}
	if cell.ID != "" {
		obj.Set("id", cell.ID)
	}
	obj.Set("metadata", cell.Metadata)
	if cell.Type == Code {
		outputs := cell.Outputs
		if outputs == nil {
			outputs = []any{}
		}
		obj.Set("outputs", outputs)
	}
	obj.Set("source", sourceLines(cell.Source))
	return obj
}

// sourceLines splits a source string into the array-of-lines form,
// keeping newlines attached to their lines.
func sourceLines(source string) []any {
	if source == "" {
		return []any{}
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := make([]any, len(lines))
	for i, line := range lines {
		out[i] = line
	}
	return out
}
