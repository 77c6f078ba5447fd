// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Metadata is a string-keyed mapping that preserves insertion order.
// Values are JSON-representable: string, bool, int64, float64, nil,
// []any, or nested *Metadata. It marshals to and from JSON with keys in
// insertion order; decoded numbers are normalized to int64 or float64.
//
// The zero value and nil are both usable for reads; Set requires a
// value obtained from [NewMetadata] or decoding.
type Metadata struct {
	keys   []string
	values map[string]any
}

// NewMetadata returns an empty metadata mapping.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended after all existing
// keys; an existing key keeps its position.
func (m *Metadata) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Metadata) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Dig walks a path of keys through nested mappings and returns the value
// at the end of the path. It returns false if any intermediate value is
// missing or not itself a mapping.
func (m *Metadata) Dig(path ...string) (any, bool) {
	var current any = m
	for _, key := range path {
		inner, ok := current.(*Metadata)
		if !ok {
			return nil, false
		}
		current, ok = inner.Get(key)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// DigString is Dig for string-valued leaves; it returns false when the
// value at the path is absent or not a string.
func (m *Metadata) DigString(path ...string) (string, bool) {
	v, ok := m.Dig(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	if m == nil {
		return out
	}
	for _, key := range m.keys {
		out.Set(key, cloneValue(m.values[key]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Metadata:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two mappings hold the same keys and deeply equal
// values. Key order does not affect equality; it only affects
// serialization.
func (m *Metadata) Equal(other *Metadata) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil {
		return true
	}
	for _, key := range m.keys {
		ov, ok := other.Get(key)
		if !ok || !valueEqual(m.values[key], ov) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case *Metadata:
		bv, ok := b.(*Metadata)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// MarshalJSON encodes the mapping as a JSON object with keys in insertion
// order. Strings are not HTML-escaped, and whole-valued floats keep a
// ".0" suffix so their type survives a reload.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, key := range m.keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeJSONString(&buf, key); err != nil {
				return nil, err
			}
			buf.WriteString(": ")
			if err := writeJSONValue(&buf, m.values[key]); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		return writeJSONString(buf, t)
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("cannot encode %v as JSON", t)
		}
		buf.WriteString(formatJSONFloat(t))
	case json.Number:
		buf.WriteString(t.String())
	case *Metadata:
		data, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(data)
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported metadata value type %T", v)
	}
	return nil
}

// writeJSONString encodes s without the HTML escaping json.Marshal
// applies; notebook files keep "<" and friends literal.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// formatJSONFloat keeps whole-valued floats recognizably float-typed.
func formatJSONFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// UnmarshalJSON decodes a JSON object, preserving key order and
// normalizing numbers to int64 or float64.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := DecodeJSONValue(dec)
	if err != nil {
		return err
	}
	decoded, ok := value.(*Metadata)
	if !ok {
		return fmt.Errorf("expected a JSON object, got %s", jsonTypeName(value))
	}
	*m = *decoded
	return nil
}

// DecodeJSONValue reads one complete JSON value from dec, decoding
// objects to *Metadata (in key order) and arrays to []any. The decoder
// should have UseNumber set; numbers are normalized to int64 or float64.
func DecodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewMetadata()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %v, not a string", keyTok)
				}
				value, err := DecodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				value, err := DecodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case json.Number:
		return normalizeNumber(t), nil
	default:
		// string, bool, or nil.
		return tok, nil
	}
}

func normalizeNumber(n json.Number) any {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case *Metadata:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return "number"
	}
}
