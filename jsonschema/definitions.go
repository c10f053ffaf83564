package jsonschema

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gowebpki/jcs"

	schemamatch "github.com/reoring/schemamatch"
)

// DefinitionsPrefix is the only $ref form both directions understand.
const DefinitionsPrefix = "#/definitions/"

// Definitions maps definition names to schemas.
type Definitions map[string]*Schema

// RefTo returns the $ref string pointing at definitions[name].
func RefTo(name string) string { return DefinitionsPrefix + name }

// RefName strips DefinitionsPrefix from ref. ok is false for any other form.
func RefName(ref string) (name string, ok bool) {
	if !strings.HasPrefix(ref, DefinitionsPrefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, DefinitionsPrefix), true
}

// Resolve looks name up in a raw definitions map. An empty name counts as
// missing, and so does an entry holding a falsy JSON value: null, false,
// zero or "". true is a valid target that accepts anything.
func Resolve(name string, defs map[string]any) (any, bool) {
	if name == "" || defs == nil {
		return nil, false
	}
	v, ok := defs[name]
	if !ok || falsy(v) {
		return nil, false
	}
	return v, true
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	}
	return Equal(v, 0)
}

// Merge returns a new map holding the entries of every argument. Later maps
// win on key collision. The result is nil when all inputs are empty.
func Merge(ds ...Definitions) Definitions {
	var out Definitions
	for _, d := range ds {
		for k, v := range d {
			if out == nil {
				out = Definitions{}
			}
			out[k] = v
		}
	}
	return out
}

// MergeStrict is Merge that refuses to bind one name to two different
// schemas. Equal fragments (same pointer or same canonical JSON) are
// accepted.
func MergeStrict(ds ...Definitions) (Definitions, error) {
	var out Definitions
	for _, d := range ds {
		for k, v := range d {
			if out == nil {
				out = Definitions{}
			}
			if prev, ok := out[k]; ok {
				same, err := SameSchema(prev, v)
				if err != nil {
					return nil, err
				}
				if !same {
					return nil, &schemamatch.SchemaError{
						Err:    schemamatch.ErrDefinitionConflict,
						Value:  k,
						Detail: prev.String() + " vs " + v.String(),
					}
				}
				continue
			}
			out[k] = v
		}
	}
	return out, nil
}

// SameSchema reports whether a and b serialize to the same canonical JSON.
func SameSchema(a, b *Schema) (bool, error) {
	if a == b {
		return true, nil
	}
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

// Canonical renders s as RFC 8785 canonical JSON.
func Canonical(s *Schema) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}
