package schemamatch

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidUnion   = "invalid_union"
	CodeCustom         = "custom"
	CodeParseError     = "parse_error"
	// CodeDuplicateKey is reported by source.DuplicateKeys, not by validators.
	CodeDuplicateKey = "duplicate_key"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	// Expected is the description of the validator that rejected the value,
	// for example Literal<"a"> or Shape<{b:any}>.
	Expected string
	// Value is the actual input found at Path. It is nil for missing keys.
	Value any
	Hint  string // Optional: remediation hints.
	Cause error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"key":"b"}) for i18n and
	// observability.
	Params map[string]any

	// segs holds the unescaped accessors behind Path when the issue was
	// built from a PathRef. "/" is both the root and the member named "",
	// so Path alone cannot tell them apart.
	segs []string
}

// Segments returns the property/index accessors of Path.
func (it Issue) Segments() []string {
	if it.segs != nil {
		return append([]string{}, it.segs...)
	}
	return SplitPointer(it.Path)
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_literal at /b (expected Literal<"b">)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Expected != "" {
			fmt.Fprintf(b, " (expected %s)", it.Expected)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Configuration and contract errors. Compile and ToSchema wrap these in a
// *SchemaError; match them with errors.Is.
var (
	ErrUnknownType          = errors.New("schemamatch: unknown schema type")
	ErrMissingDefinition    = errors.New("schemamatch: missing definition")
	ErrInvalidDefinitions   = errors.New("schemamatch: expecting some definitions")
	ErrUnsupportedValidator = errors.New("schemamatch: unsupported validator")
	ErrDefinitionConflict   = errors.New("schemamatch: conflicting definitions")
)

// SchemaError reports a fatal problem found while compiling a schema or
// walking a validator tree.
type SchemaError struct {
	Err error
	// Location is a JSON Pointer into the schema document ("/" for the root).
	// Empty when the error is not tied to a schema position.
	Location string
	Value    any
	Detail   string
}

func (e *SchemaError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Err.Error())
	if e.Value != nil {
		fmt.Fprintf(b, " %q", fmt.Sprint(e.Value))
	}
	if e.Location != "" {
		fmt.Fprintf(b, " at %s", e.Location)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }
