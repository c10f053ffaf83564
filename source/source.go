// Package source decodes schema and data documents into plain JSON values:
// map[string]any, []any, string, json.Number (or Go numbers for YAML),
// bool and nil.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

// Format selects the decoder.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// FormatOf guesses the format of a file from its extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatAuto
}

// JSON decodes a single JSON document. Numbers are kept as json.Number so
// large integers survive literal comparison.
func JSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("source: invalid JSON: %w", err)
	}
	// trailing garbage after the first value
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("source: invalid JSON: unexpected data after top-level value")
	}
	return out, nil
}

// Decode decodes b with the given format. FormatAuto tries JSON first and
// falls back to YAML.
func Decode(b []byte, f Format) (any, error) {
	switch f {
	case FormatJSON:
		return JSON(b)
	case FormatYAML:
		return YAML(b)
	}
	v, jerr := JSON(b)
	if jerr == nil {
		return v, nil
	}
	v, yerr := YAML(b)
	if yerr != nil {
		return nil, fmt.Errorf("source: document must be JSON or YAML: %w", errors.Join(jerr, yerr))
	}
	return v, nil
}

// File reads and decodes the document at path, choosing the decoder from the
// extension.
func File(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(b, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Normalize converts any JSON-marshalable value (structs, typed maps and
// slices, *jsonschema.Schema) into plain JSON values.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, json.Number:
		return v, nil
	case []byte:
		return JSON(v.([]byte))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("source: cannot marshal input: %w", err)
	}
	return JSON(b)
}
