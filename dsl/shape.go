package dsl

import (
	"context"
	"sort"
	"strings"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/i18n"
)

// ShapeValidator matches objects carrying the declared keys. When partial,
// every key is optional: absent keys are skipped, present keys are checked.
// Keys that are not declared pass through untouched.
type ShapeValidator struct {
	keys    []string
	fields  map[string]schemamatch.Validator
	partial bool
}

// ShapeOf builds a shape requiring every key of fields. Keys are declared in
// sorted order.
func ShapeOf(fields map[string]schemamatch.Validator) *ShapeValidator {
	return newShape(sortedKeys(fields), fields, false)
}

// PartialOf builds a shape where every key of fields is optional.
func PartialOf(fields map[string]schemamatch.Validator) *ShapeValidator {
	return newShape(sortedKeys(fields), fields, true)
}

func newShape(keys []string, fields map[string]schemamatch.Validator, partial bool) *ShapeValidator {
	cp := make(map[string]schemamatch.Validator, len(fields))
	for _, k := range keys {
		cp[k] = fields[k]
	}
	return &ShapeValidator{keys: append([]string(nil), keys...), fields: cp, partial: partial}
}

func sortedKeys(fields map[string]schemamatch.Validator) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keys returns the declared keys in declaration order.
func (s *ShapeValidator) Keys() []string { return append([]string(nil), s.keys...) }

// Field returns the validator declared for key, or nil.
func (s *ShapeValidator) Field(key string) schemamatch.Validator { return s.fields[key] }

// Partial reports whether all keys are optional.
func (s *ShapeValidator) Partial() bool { return s.partial }

func (s *ShapeValidator) Kind() schemamatch.Kind { return schemamatch.KindShape }

func (s *ShapeValidator) String() string {
	b := &strings.Builder{}
	if s.partial {
		b.WriteString("Partial<{")
	} else {
		b.WriteString("Shape<{")
	}
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(s.fields[k].String())
	}
	b.WriteString("}>")
	return b.String()
}

func (s *ShapeValidator) Parse(ctx context.Context, v any) (any, error) {
	src, ok := asObject(v)
	if !ok {
		iss := schemamatch.Reject(schemamatch.CodeInvalidType, s, v)
		iss[0].Hint = "expected object"
		return nil, iss
	}
	out := make(map[string]any, len(src))
	for k, fv := range src {
		out[k] = fv
	}
	var iss schemamatch.Issues
	for _, k := range s.keys {
		fv, present := src[k]
		if !present {
			if s.partial {
				continue
			}
			it := schemamatch.IssueAt(schemamatch.Root().Field(k), schemamatch.CodeRequired,
				i18n.T(schemamatch.CodeRequired, map[string]string{"key": k}), map[string]any{"key": k})
			it.Expected = s.String()
			it.Hint = "missing property"
			iss = schemamatch.AppendIssues(iss, it)
		} else {
			pv, err := s.fields[k].Parse(ctx, fv)
			if err != nil {
				iss = schemamatch.AppendIssues(iss, schemamatch.Rebase(schemamatch.Root().Field(k), schemamatch.ToIssues(err))...)
			} else {
				out[k] = pv
			}
		}
		if len(iss) > 0 && schemamatch.IsFailFast(ctx) {
			return nil, iss
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ---- builder ----

type shapeBuilder struct {
	keys     []string
	fields   map[string]schemamatch.Validator
	optional map[string]struct{}
	dup      string
}

type shapeFieldStep struct {
	b    *shapeBuilder
	name string
}

// Shape starts a shape builder. Fields are required unless marked Optional
// and keep their declaration order.
func Shape() *shapeBuilder {
	return &shapeBuilder{fields: map[string]schemamatch.Validator{}, optional: map[string]struct{}{}}
}

// Field registers a required field.
func (b *shapeBuilder) Field(name string, v schemamatch.Validator) *shapeFieldStep {
	if _, exists := b.fields[name]; exists && b.dup == "" {
		b.dup = name
	} else if !exists {
		b.keys = append(b.keys, name)
	}
	b.fields[name] = v
	return &shapeFieldStep{b: b, name: name}
}

// Optional marks the field as optional and returns the builder.
func (f *shapeFieldStep) Optional() *shapeBuilder {
	f.b.optional[f.name] = struct{}{}
	return f.b
}

// Required marks the field as required (default) and returns the builder.
func (f *shapeFieldStep) Required() *shapeBuilder {
	delete(f.b.optional, f.name)
	return f.b
}

func (f *shapeFieldStep) Field(name string, v schemamatch.Validator) *shapeFieldStep {
	return f.b.Field(name, v)
}
func (f *shapeFieldStep) Build() (schemamatch.Validator, error) { return f.b.Build() }
func (f *shapeFieldStep) MustBuild() schemamatch.Validator      { return f.b.MustBuild() }

// Build returns a shape when all fields share one presence mode, otherwise
// And(partial shape of the optional fields, shape of the required fields).
func (b *shapeBuilder) Build() (schemamatch.Validator, error) {
	if b.dup != "" {
		return nil, schemamatch.Issues{schemamatch.Issue{
			Path:    "/",
			Code:    schemamatch.CodeParseError,
			Message: i18n.T(schemamatch.CodeParseError, nil),
			Hint:    "duplicate field " + b.dup,
		}}
	}
	var req, opt []string
	for _, k := range b.keys {
		if _, ok := b.optional[k]; ok {
			opt = append(opt, k)
		} else {
			req = append(req, k)
		}
	}
	switch {
	case len(opt) == 0:
		return newShape(req, b.fields, false), nil
	case len(req) == 0:
		return newShape(opt, b.fields, true), nil
	}
	return And(newShape(opt, b.fields, true), newShape(req, b.fields, false)), nil
}

// MustBuild is like Build but panics on error.
func (b *shapeBuilder) MustBuild() schemamatch.Validator {
	v, err := b.Build()
	if err != nil {
		panic(err)
	}
	return v
}
