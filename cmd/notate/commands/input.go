// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/notate-project/notate/lib/myst"
	"github.com/notate-project/notate/lib/notebook"
)

// Format names accepted by the --from and --to flags.
const (
	formatMyST  = "myst"
	formatIpynb = "ipynb"
)

// checkFormat validates a user-supplied format name.
func checkFormat(name string) error {
	if name != formatMyST && name != formatIpynb {
		return fmt.Errorf("unknown format %q (want %s or %s)", name, formatMyST, formatIpynb)
	}
	return nil
}

// otherFormat returns the opposite end of the conversion pair.
func otherFormat(name string) string {
	if name == formatIpynb {
		return formatMyST
	}
	return formatIpynb
}

// classifyPath names the format implied by the file extension, or ""
// when the extension decides nothing and the content must be sniffed.
func classifyPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ipynb" {
		return formatIpynb
	}
	if slices.Contains(myst.Extensions(true), ext) {
		return formatMyST
	}
	return ""
}

// sniffFormat guesses the format from content alone: ipynb files are
// JSON objects, anything else is treated as markdown text.
func sniffFormat(data []byte) string {
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("{")) {
		return formatIpynb
	}
	return formatMyST
}

// readInput reads a whole input file. The path "-" means stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// parseOptions assembles the parse options shared by the conversion
// commands. Recovery is the default; strict turns it off.
func parseOptions(strict, sourceLines bool) []myst.ParseOption {
	var opts []myst.ParseOption
	if !strict {
		opts = append(opts, myst.Tolerant())
	}
	if sourceLines {
		opts = append(opts, myst.TrackLines())
	}
	return opts
}

// decodeInput parses raw input bytes in the named format.
func decodeInput(data []byte, format string, strict, sourceLines bool) (*notebook.Notebook, error) {
	if format == formatIpynb {
		return notebook.Read(bytes.NewReader(data))
	}
	return myst.Parse(string(data), parseOptions(strict, sourceLines)...)
}

// fallbackLexer names the lexer annotated on code fences when the
// notebook does not declare language_info.pygments_lexer: the plain
// language name, which highlighters accept directly.
func fallbackLexer(nb *notebook.Notebook) string {
	if name, ok := nb.Metadata.DigString("language_info", "name"); ok {
		return name
	}
	if name, ok := nb.Metadata.DigString("kernelspec", "language"); ok {
		return name
	}
	return ""
}

// encodeOutput renders the notebook in the named format.
func encodeOutput(nb *notebook.Notebook, format string) ([]byte, error) {
	if format == formatIpynb {
		var buf bytes.Buffer
		if err := notebook.Write(&buf, nb); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	text, err := myst.Serialize(nb, myst.WithLexer(fallbackLexer(nb)))
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// loadNotebook reads a notebook in either format for display. The
// format comes from the extension, falling back to a content sniff,
// and parsing is always tolerant.
func loadNotebook(path string) (*notebook.Notebook, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	format := classifyPath(path)
	if format == "" {
		format = sniffFormat(data)
	}
	nb, err := decodeInput(data, format, false, false)
	if err != nil {
		if path == "-" {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}
