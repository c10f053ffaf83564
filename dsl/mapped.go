package dsl

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/i18n"
)

// MappedValidator post-processes the success value of its inner validator.
// It has no schema of its own.
type MappedValidator struct {
	inner schemamatch.Validator
	fn    func(any) (any, error)
}

// Map runs fn on every value v accepts. An error from fn becomes a
// parse_error issue unless it already is Issues.
func Map(v schemamatch.Validator, fn func(any) (any, error)) *MappedValidator {
	return &MappedValidator{inner: v, fn: fn}
}

// MapTo is Map with a typed transform.
func MapTo[T any](v schemamatch.Validator, fn func(any) (T, error)) *MappedValidator {
	return Map(v, func(in any) (any, error) { return fn(in) })
}

func (m *MappedValidator) Inner() schemamatch.Validator { return m.inner }
func (m *MappedValidator) Kind() schemamatch.Kind       { return schemamatch.KindMapped }
func (m *MappedValidator) String() string               { return m.inner.String() }

func (m *MappedValidator) Parse(ctx context.Context, v any) (any, error) {
	mid, err := m.inner.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	out, err := m.fn(mid)
	if err == nil {
		return out, nil
	}
	if iss, ok := schemamatch.AsIssues(err); ok {
		return nil, iss
	}
	return nil, schemamatch.Issues{{
		Path:     "/",
		Code:     schemamatch.CodeParseError,
		Message:  i18n.T(schemamatch.CodeParseError, nil),
		Expected: m.String(),
		Value:    v,
		Hint:     err.Error(),
		Cause:    err,
	}}
}

// GuardValidator is an opaque predicate with no structural schema.
type GuardValidator struct {
	name string
	pred func(any) bool
}

// Guard accepts values for which pred returns true. name describes the check
// in failure reports.
func Guard(name string, pred func(any) bool) *GuardValidator {
	return &GuardValidator{name: name, pred: pred}
}

func (g *GuardValidator) Name() string           { return g.name }
func (g *GuardValidator) Kind() schemamatch.Kind { return schemamatch.KindGuard }
func (g *GuardValidator) String() string         { return g.name }

func (g *GuardValidator) Parse(_ context.Context, v any) (any, error) {
	if g.pred(v) {
		return v, nil
	}
	return nil, schemamatch.Reject(schemamatch.CodeCustom, g, v)
}
