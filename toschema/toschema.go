// Package toschema walks a validator tree and emits the JSON Schema it
// enforces.
//
// Named validators become $ref entries whose targets are collected into a
// single definitions table on the root schema. Unions map to oneOf and
// intersections to allOf, so compiling the result yields a validator that
// accepts the same values.
package toschema

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/dsl"
	js "github.com/reoring/schemamatch/jsonschema"
)

// Options controls the emitted document.
type Options struct {
	// Dialect is written to $schema on the root when set.
	Dialect string
}

// Draft07 is the dialect URI of JSON Schema draft-07.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// ToSchema returns the JSON Schema for v.
func ToSchema(v schemamatch.Validator) (*js.Schema, error) {
	return ToSchemaWithOptions(v, Options{})
}

// ToSchemaWithOptions is ToSchema with document options.
func ToSchemaWithOptions(v schemamatch.Validator, opts Options) (*js.Schema, error) {
	w := &walker{seen: map[*dsl.NamedValidator]bool{}}
	s, err := w.walk(v, schemamatch.Root())
	if err != nil {
		return nil, err
	}
	if len(w.defs) > 0 {
		// a bare $ref root is shared with its referrers; copy before attaching
		root := *s
		root.Definitions = w.defs
		s = &root
	}
	if opts.Dialect != "" {
		s.Schema = opts.Dialect
	}
	return s, nil
}

// MarshalJSON renders the schema for v as indented JSON.
func MarshalJSON(v schemamatch.Validator) ([]byte, error) {
	s, err := ToSchema(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

type walker struct {
	defs js.Definitions
	// seen marks named validators already emitted or being emitted, which
	// is what stops recursive graphs.
	seen map[*dsl.NamedValidator]bool
}

func unsupported(v schemamatch.Validator, at schemamatch.PathRef) error {
	return &schemamatch.SchemaError{
		Err:      schemamatch.ErrUnsupportedValidator,
		Location: at.Pointer(),
		Value:    fmt.Sprintf("%T", v),
	}
}

func (w *walker) walk(v schemamatch.Validator, at schemamatch.PathRef) (*js.Schema, error) {
	u := schemamatch.Unwrap(v)
	if u == nil {
		return nil, &schemamatch.SchemaError{
			Err:      schemamatch.ErrUnsupportedValidator,
			Location: at.Pointer(),
			Detail:   "wrapper resolved to nil",
		}
	}
	switch u.Kind() {
	case schemamatch.KindAny, schemamatch.KindGuard:
		return &js.Schema{}, nil
	case schemamatch.KindString, schemamatch.KindNumber, schemamatch.KindBool,
		schemamatch.KindNull, schemamatch.KindObject, schemamatch.KindArray:
		return &js.Schema{Type: u.Kind().String()}, nil
	case schemamatch.KindLiteral:
		l, ok := u.(*dsl.LiteralValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		return literal(l.Values()), nil
	case schemamatch.KindShape:
		s, ok := u.(*dsl.ShapeValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		return w.shape(s, at)
	case schemamatch.KindArrayOf:
		a, ok := u.(*dsl.ArrayOfValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		items, err := w.walk(a.Elem(), at.Field("items"))
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case schemamatch.KindOr:
		o, ok := u.(*dsl.OrValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		l, r, err := w.pair(o.Left(), o.Right(), at.Field("oneOf"))
		if err != nil {
			return nil, err
		}
		return &js.Schema{OneOf: []*js.Schema{l, r}}, nil
	case schemamatch.KindAnd:
		a, ok := u.(*dsl.AndValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		l, r, err := w.pair(a.Left(), a.Right(), at.Field("allOf"))
		if err != nil {
			return nil, err
		}
		return &js.Schema{AllOf: []*js.Schema{l, r}}, nil
	case schemamatch.KindNamed:
		n, ok := u.(*dsl.NamedValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		return w.named(n)
	case schemamatch.KindMapped:
		m, ok := u.(*dsl.MappedValidator)
		if !ok {
			return nil, unsupported(u, at)
		}
		return w.walk(m.Inner(), at)
	}
	// KindInvalid, or a wrapper that cannot be unwrapped
	return nil, unsupported(u, at)
}

func (w *walker) pair(l, r schemamatch.Validator, at schemamatch.PathRef) (*js.Schema, *js.Schema, error) {
	ls, err := w.walk(l, at.Index(0))
	if err != nil {
		return nil, nil, err
	}
	rs, err := w.walk(r, at.Index(1))
	if err != nil {
		return nil, nil, err
	}
	return ls, rs, nil
}

func (w *walker) shape(s *dsl.ShapeValidator, at schemamatch.PathRef) (*js.Schema, error) {
	keys := s.Keys()
	out := &js.Schema{Type: "object"}
	if len(keys) > 0 {
		out.Properties = make(map[string]*js.Schema, len(keys))
	}
	for _, k := range keys {
		ps, err := w.walk(s.Field(k), at.Field("properties").Field(k))
		if err != nil {
			return nil, err
		}
		out.Properties[k] = ps
	}
	if !s.Partial() && len(keys) > 0 {
		out.Required = keys
	}
	return out, nil
}

func (w *walker) named(n *dsl.NamedValidator) (*js.Schema, error) {
	ref := &js.Schema{Ref: js.RefTo(n.Name())}
	if w.seen[n] {
		return ref, nil
	}
	w.seen[n] = true
	body, err := w.walk(n.Inner(), schemamatch.At("/definitions").Field(n.Name()))
	if err != nil {
		return nil, err
	}
	defs, err := js.MergeStrict(w.defs, js.Definitions{n.Name(): body})
	if err != nil {
		return nil, err
	}
	w.defs = defs
	return ref, nil
}

// literal emits an enum for a single value. The empty set becomes
// {"enum": []}, which matches nothing. Sets of several values have no
// schema counterpart in the supported subset and widen to {}.
func literal(vals []any) *js.Schema {
	switch len(vals) {
	case 0:
		return &js.Schema{Enum: []any{}}
	case 1:
	default:
		return &js.Schema{}
	}
	out := &js.Schema{Enum: []any{vals[0]}}
	out.Type = typeOf(vals[0])
	return out
}

func typeOf(v any) string {
	if v == nil {
		return "null"
	}
	if _, ok := v.(json.Number); ok {
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return ""
}
