// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/notate-project/notate/lib/notebook"
)

// RequireNotebooksEqual fails the test when the two notebooks differ
// under notebook.Equal, printing one line per differing field.
//
//	testutil.RequireNotebooksEqual(t, reparsed, original, "round trip")
func RequireNotebooksEqual(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, got, want *notebook.Notebook, msgAndArgs ...any) {
	t.Helper()
	if diff := DiffNotebooks(got, want); diff != "" {
		t.Fatalf("notebooks differ: %s\n%s", formatMessage(msgAndArgs), diff)
	}
}

// DiffNotebooks describes the content differences between two
// notebooks, one line per differing field. It applies the same
// tolerance as notebook.Equal: a single trailing source newline and
// the source-lines metadata key never count as differences. Returns
// the empty string when the notebooks are equal.
func DiffNotebooks(got, want *notebook.Notebook) string {
	if notebook.Equal(got, want) {
		return ""
	}
	if got == nil || want == nil {
		return fmt.Sprintf("nil notebook: got nil=%t, want nil=%t\n", got == nil, want == nil)
	}

	var b strings.Builder
	if got.NBFormat != want.NBFormat || got.NBFormatMinor != want.NBFormatMinor {
		fmt.Fprintf(&b, "format: got %d.%d, want %d.%d\n",
			got.NBFormat, got.NBFormatMinor, want.NBFormat, want.NBFormatMinor)
	}
	if !got.Metadata.Equal(want.Metadata) {
		fmt.Fprintf(&b, "metadata: got %s, want %s\n",
			compactJSON(got.Metadata), compactJSON(want.Metadata))
	}
	if len(got.Cells) != len(want.Cells) {
		fmt.Fprintf(&b, "cell count: got %d, want %d\n", len(got.Cells), len(want.Cells))
	}

	shared := min(len(got.Cells), len(want.Cells))
	for i := 0; i < shared; i++ {
		diffCells(&b, i, got.Cells[i], want.Cells[i])
	}
	for i := shared; i < len(got.Cells); i++ {
		fmt.Fprintf(&b, "cell %d: unexpected %s cell %q\n",
			i, got.Cells[i].Type, clip(got.Cells[i].Source))
	}
	for i := shared; i < len(want.Cells); i++ {
		fmt.Fprintf(&b, "cell %d: missing %s cell %q\n",
			i, want.Cells[i].Type, clip(want.Cells[i].Source))
	}
	return b.String()
}

func diffCells(b *strings.Builder, index int, got, want *notebook.Cell) {
	if got.Type != want.Type {
		fmt.Fprintf(b, "cell %d: type: got %q, want %q\n", index, got.Type, want.Type)
	}
	if strings.TrimSuffix(got.Source, "\n") != strings.TrimSuffix(want.Source, "\n") {
		fmt.Fprintf(b, "cell %d: source: got %q, want %q\n",
			index, clip(got.Source), clip(want.Source))
	}

	gotMeta := notebook.StripSourceLines(got.Metadata)
	wantMeta := notebook.StripSourceLines(want.Metadata)
	if !gotMeta.Equal(wantMeta) {
		fmt.Fprintf(b, "cell %d: metadata: got %s, want %s\n",
			index, compactJSON(gotMeta), compactJSON(wantMeta))
	}

	if describeCount(got.ExecutionCount) != describeCount(want.ExecutionCount) {
		fmt.Fprintf(b, "cell %d: execution count: got %s, want %s\n",
			index, describeCount(got.ExecutionCount), describeCount(want.ExecutionCount))
	}

	// Detection must be structural, like notebook.Equal: JSON text
	// hides a number differing only in type (1 versus 1.0).
	if !outputsEqual(got.Outputs, want.Outputs) {
		gotOut, wantOut := outputsJSON(got.Outputs), outputsJSON(want.Outputs)
		if gotOut == wantOut {
			fmt.Fprintf(b, "cell %d: outputs: differ only in value types (%s)\n", index, gotOut)
		} else {
			fmt.Fprintf(b, "cell %d: outputs: got %s, want %s\n", index, gotOut, wantOut)
		}
	}
}

// outputsEqual compares output lists the way notebook.Equal does, by
// wrapping them in metadata mappings and reusing the deep comparison.
func outputsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	am, bm := notebook.NewMetadata(), notebook.NewMetadata()
	am.Set("outputs", a)
	bm.Set("outputs", b)
	return am.Equal(bm)
}

// outputsJSON renders an outputs list for diff lines, treating nil
// and empty the same way notebook.Equal does.
func outputsJSON(outputs []any) string {
	if len(outputs) == 0 {
		return "[]"
	}
	return compactJSON(outputs)
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}

func describeCount(count *int64) string {
	if count == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *count)
}

// clip shortens long cell sources so diff lines stay readable.
func clip(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
