// Package compile turns JSON Schema documents into validators.
//
// Each clause a schema node carries (type, properties/required, items, enum,
// anyOf, oneOf, allOf, $ref) compiles to its own validator and the clauses
// are combined with dsl.Every, so every clause must hold. Clauses that are
// absent contribute nothing; a node without any clause accepts everything.
package compile

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/dsl"
	"github.com/reoring/schemamatch/internal/classify"
	js "github.com/reoring/schemamatch/jsonschema"
	"github.com/reoring/schemamatch/source"
)

// Compile builds a validator for schema. definitions backs $ref resolution;
// when nil, schema's own definitions member is used.
func Compile(schema any, definitions map[string]any) (schemamatch.Validator, error) {
	v, _, err := CompileWithOptions(schema, Options{Definitions: definitions})
	return v, err
}

// CompileWithOptions is Compile with diagnostics. schema may be a decoded
// JSON value, raw JSON bytes, a *jsonschema.Schema or anything that
// marshals to JSON.
func CompileWithOptions(schema any, opts Options) (schemamatch.Validator, Diag, error) {
	d := &simpleDiag{}
	root, err := source.Normalize(schema)
	if err != nil {
		return nil, d, fmt.Errorf("compile: %w", err)
	}
	var defs any
	if opts.Definitions != nil {
		nd, err := source.Normalize(opts.Definitions)
		if err != nil {
			return nil, d, fmt.Errorf("compile: definitions: %w", err)
		}
		defs = nd
	}
	c := &compiler{diag: d, refs: map[refKey]schemamatch.Validator{}}
	v, err := c.compile(root, defs, schemamatch.Root())
	if err != nil {
		return nil, d, err
	}
	return v, d, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(schema any, definitions map[string]any) schemamatch.Validator {
	v, err := Compile(schema, definitions)
	if err != nil {
		panic(err)
	}
	return v
}

type refKey struct {
	defs uintptr
	name string
}

type compiler struct {
	diag *simpleDiag
	// refs memoises one named validator per definitions map and name so
	// recursive definitions close into a cycle instead of recursing forever.
	refs map[refKey]schemamatch.Validator
}

func (c *compiler) compile(node any, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	if defs == nil {
		if m, ok := node.(map[string]any); ok && m["definitions"] != nil {
			defs = m["definitions"]
		}
	}
	cat := classify.Of(node)
	if cat.List {
		if !cat.AllOf {
			return dsl.Any(), nil
		}
		return c.every(node.([]any), defs, at)
	}
	m, ok := node.(map[string]any)
	if !ok {
		return dsl.Any(), nil
	}
	warnIgnored(m, at.Pointer(), c.diag)

	var clauses []schemamatch.Validator
	add := func(v schemamatch.Validator, err error) error {
		if err != nil {
			return err
		}
		clauses = append(clauses, v)
		return nil
	}
	if cat.Ref {
		if err := add(c.ref(m["$ref"].(string), defs, at.Field("$ref"))); err != nil {
			return nil, err
		}
	}
	if cat.Type {
		if err := add(compileType(m["type"], at.Field("type"))); err != nil {
			return nil, err
		}
	}
	if cat.Required || cat.Properties {
		if err := add(c.object(m, cat, defs, at)); err != nil {
			return nil, err
		}
	}
	if cat.Items {
		if err := add(c.items(m["items"], defs, at.Field("items"))); err != nil {
			return nil, err
		}
	}
	if cat.Enum {
		vals := m["enum"].([]any)
		lits := make([]schemamatch.Validator, len(vals))
		for i, lv := range vals {
			lits[i] = dsl.Literal(lv)
		}
		clauses = append(clauses, dsl.Some(lits...))
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		alts, ok := classify.SchemaList(m[key])
		if !ok {
			continue
		}
		if err := add(c.some(alts, defs, at.Field(key))); err != nil {
			return nil, err
		}
	}
	if cat.AllOf {
		if err := add(c.every(m["allOf"].([]any), defs, at.Field("allOf"))); err != nil {
			return nil, err
		}
	}
	return dsl.Every(clauses...), nil
}

func (c *compiler) ref(ref string, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	name, ok := js.RefName(ref)
	if !ok {
		return nil, &schemamatch.SchemaError{
			Err:      schemamatch.ErrMissingDefinition,
			Location: at.Pointer(),
			Value:    ref,
			Detail:   "only " + js.DefinitionsPrefix + "<name> references are supported",
		}
	}
	dm, ok := defs.(map[string]any)
	if !ok {
		return nil, &schemamatch.SchemaError{
			Err:      schemamatch.ErrInvalidDefinitions,
			Location: at.Pointer(),
			Detail:   fmt.Sprintf("resolving %s against %s", ref, render(defs)),
		}
	}
	key := refKey{defs: reflect.ValueOf(dm).Pointer(), name: name}
	if v, ok := c.refs[key]; ok {
		return v, nil
	}
	target, ok := js.Resolve(name, dm)
	if !ok {
		return nil, &schemamatch.SchemaError{
			Err:      schemamatch.ErrMissingDefinition,
			Location: at.Pointer(),
			Value:    ref,
			Detail:   "in " + render(dm),
		}
	}
	var inner schemamatch.Validator
	named := dsl.Named(name, dsl.Lazy(func() schemamatch.Validator { return inner }))
	c.refs[key] = named
	v, err := c.compile(target, dm, schemamatch.At("/definitions").Field(name))
	if err != nil {
		delete(c.refs, key)
		return nil, err
	}
	inner = v
	return named, nil
}

func compileType(t any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	switch tv := t.(type) {
	case string:
		return primitiveFor(tv, at)
	case []any:
		alts := make([]schemamatch.Validator, 0, len(tv))
		for i, e := range tv {
			s, ok := e.(string)
			if !ok {
				return nil, unknownType(e, at.Index(i))
			}
			v, err := primitiveFor(s, at.Index(i))
			if err != nil {
				return nil, err
			}
			alts = append(alts, v)
		}
		return dsl.Some(alts...), nil
	}
	return nil, unknownType(t, at)
}

func primitiveFor(name string, at schemamatch.PathRef) (schemamatch.Validator, error) {
	switch name {
	case "integer", "number":
		return dsl.Number(), nil
	case "string":
		return dsl.String(), nil
	case "boolean":
		return dsl.Bool(), nil
	case "null":
		return dsl.Null(), nil
	case "object":
		return dsl.Object(), nil
	case "array":
		return dsl.Array(), nil
	}
	return nil, unknownType(name, at)
}

func unknownType(v any, at schemamatch.PathRef) error {
	return &schemamatch.SchemaError{Err: schemamatch.ErrUnknownType, Location: at.Pointer(), Value: v}
}

// object compiles properties and required into one clause: required keys
// form a shape, the remaining properties a partial shape.
func (c *compiler) object(m map[string]any, cat classify.Categories, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	var props map[string]any
	if cat.Properties {
		props = m["properties"].(map[string]any)
	}
	var required []string
	seen := map[string]bool{}
	if cat.Required {
		for _, k := range requiredKeys(m["required"]) {
			if !seen[k] {
				seen[k] = true
				required = append(required, k)
			}
		}
	}

	fields := make(map[string]schemamatch.Validator, len(props)+len(required))
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v, err := c.compile(props[k], defs, at.Field("properties").Field(k))
		if err != nil {
			return nil, err
		}
		fields[k] = v
	}

	b := dsl.Shape()
	var optional []string
	for _, k := range names {
		if !seen[k] {
			optional = append(optional, k)
		}
	}
	for _, k := range optional {
		b.Field(k, fields[k]).Optional()
	}
	for _, k := range required {
		v, ok := fields[k]
		if !ok {
			v = dsl.Any()
		}
		b.Field(k, v)
	}
	if len(optional) == 0 && len(required) == 0 {
		// properties: {} still demands an object
		return dsl.PartialOf(nil), nil
	}
	return b.Build()
}

func requiredKeys(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, e.(string))
		}
		return out
	}
	return nil
}

func (c *compiler) items(items any, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	if tuple, ok := items.([]any); ok {
		c.diag.warnf("tuple-form items at %s: every element must satisfy all %d schemas", at.Pointer(), len(tuple))
		elem, err := c.every(tuple, defs, at)
		if err != nil {
			return nil, err
		}
		return dsl.ArrayOf(elem), nil
	}
	elem, err := c.compile(items, defs, at)
	if err != nil {
		return nil, err
	}
	return dsl.ArrayOf(elem), nil
}

func (c *compiler) each(nodes []any, defs any, at schemamatch.PathRef) ([]schemamatch.Validator, error) {
	out := make([]schemamatch.Validator, 0, len(nodes))
	for i, n := range nodes {
		v, err := c.compile(n, defs, at.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *compiler) some(nodes []any, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	vs, err := c.each(nodes, defs, at)
	if err != nil {
		return nil, err
	}
	return dsl.Some(vs...), nil
}

func (c *compiler) every(nodes []any, defs any, at schemamatch.PathRef) (schemamatch.Validator, error) {
	vs, err := c.each(nodes, defs, at)
	if err != nil {
		return nil, err
	}
	return dsl.Every(vs...), nil
}

func render(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// IsConfigError reports whether err is one of the fatal schema errors
// Compile returns.
func IsConfigError(err error) bool {
	return errors.Is(err, schemamatch.ErrUnknownType) ||
		errors.Is(err, schemamatch.ErrMissingDefinition) ||
		errors.Is(err, schemamatch.ErrInvalidDefinitions)
}
