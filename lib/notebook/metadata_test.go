// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package notebook

import (
	"encoding/json"
	"slices"
	"testing"
)

func mustDecode(t *testing.T, text string) *Metadata {
	t.Helper()
	m := NewMetadata()
	if err := json.Unmarshal([]byte(text), m); err != nil {
		t.Fatalf("decoding %q: %v", text, err)
	}
	return m
}

func TestMetadataInsertionOrder(t *testing.T) {
	m := NewMetadata()
	m.Set("zebra", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	if got := m.Keys(); !slices.Equal(got, []string{"zebra", "alpha", "mid"}) {
		t.Fatalf("keys = %v, want insertion order", got)
	}

	// Updating an existing key keeps its position.
	m.Set("alpha", 20)
	if got := m.Keys(); !slices.Equal(got, []string{"zebra", "alpha", "mid"}) {
		t.Fatalf("keys after update = %v", got)
	}
	v, ok := m.Get("alpha")
	if !ok || v != 20 {
		t.Fatalf("alpha = %v, want 20", v)
	}

	m.Delete("zebra")
	if got := m.Keys(); !slices.Equal(got, []string{"alpha", "mid"}) {
		t.Fatalf("keys after delete = %v", got)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
}

func TestMetadataJSONRoundTrip(t *testing.T) {
	input := `{"zebra": 1, "alpha": {"nested": [1, 2, {"deep": true}]}, "text": "a <b> & c"}`
	m := mustDecode(t, input)

	if got := m.Keys(); !slices.Equal(got, []string{"zebra", "alpha", "text"}) {
		t.Fatalf("decoded key order = %v", got)
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != input {
		t.Fatalf("round trip changed text:\n got %s\nwant %s", encoded, input)
	}
}

func TestMetadataNumberNormalization(t *testing.T) {
	m := mustDecode(t, `{"int": 3, "float": 2.5, "whole": 1.0, "exp": 1e3, "big": 99999999999}`)

	if v, _ := m.Get("int"); v != int64(3) {
		t.Errorf("int = %#v, want int64(3)", v)
	}
	if v, _ := m.Get("float"); v != 2.5 {
		t.Errorf("float = %#v, want 2.5", v)
	}
	if v, _ := m.Get("whole"); v != 1.0 {
		t.Errorf("whole = %#v, want float64(1)", v)
	}
	if v, _ := m.Get("exp"); v != 1000.0 {
		t.Errorf("exp = %#v, want float64(1000)", v)
	}
	if v, _ := m.Get("big"); v != int64(99999999999) {
		t.Errorf("big = %#v, want int64", v)
	}

	// A whole-valued float must not come back out as an integer literal.
	encoded, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded := mustDecode(t, string(encoded))
	if v, _ := decoded.Get("whole"); v != 1.0 {
		t.Errorf("whole after round trip = %#v, want float64(1)", v)
	}
}

func TestMetadataRejectsNonObject(t *testing.T) {
	for _, text := range []string{`[1, 2]`, `"s"`, `42`, `null`} {
		m := NewMetadata()
		if err := json.Unmarshal([]byte(text), m); err == nil {
			t.Errorf("decoding %s succeeded, want error", text)
		}
	}
}

func TestMetadataDig(t *testing.T) {
	m := mustDecode(t, `{"kernelspec": {"name": "python3", "info": {"version": 3}}}`)

	if v, ok := m.DigString("kernelspec", "name"); !ok || v != "python3" {
		t.Errorf("DigString(kernelspec, name) = %q, %v", v, ok)
	}
	if v, ok := m.Dig("kernelspec", "info", "version"); !ok || v != int64(3) {
		t.Errorf("Dig(...version) = %#v, %v", v, ok)
	}
	if _, ok := m.Dig("kernelspec", "name", "deeper"); ok {
		t.Error("Dig through a scalar should fail")
	}
	if _, ok := m.Dig("missing"); ok {
		t.Error("Dig of absent key should fail")
	}
	if _, ok := m.DigString("kernelspec", "info", "version"); ok {
		t.Error("DigString of non-string should fail")
	}
}

func TestMetadataEqual(t *testing.T) {
	a := mustDecode(t, `{"x": 1, "y": {"z": [1, "a", null]}}`)
	b := mustDecode(t, `{"y": {"z": [1, "a", null]}, "x": 1}`)
	if !a.Equal(b) {
		t.Error("key order should not affect equality")
	}

	c := mustDecode(t, `{"x": 1, "y": {"z": [1, "a", true]}}`)
	if a.Equal(c) {
		t.Error("differing nested value should not compare equal")
	}

	// int64 and float64 are distinct values even when numerically equal.
	d := mustDecode(t, `{"x": 1.0, "y": {"z": [1, "a", null]}}`)
	if a.Equal(d) {
		t.Error("int64(1) should not equal float64(1)")
	}

	var nilMeta *Metadata
	if !nilMeta.Equal(NewMetadata()) {
		t.Error("nil and empty should compare equal")
	}
}

func TestMetadataClone(t *testing.T) {
	a := mustDecode(t, `{"outer": {"inner": [1, 2]}}`)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone should compare equal")
	}
	inner, _ := b.Dig("outer")
	inner.(*Metadata).Set("inner", "changed")
	if a.Equal(b) {
		t.Error("mutating the clone should not affect the original")
	}
}
