package schemamatch

import (
	"context"
	"fmt"
)

// Validator is a composed runtime matcher. Parse returns the accepted value
// (possibly transformed by Mapped layers) or Issues describing the failure.
type Validator interface {
	Parse(ctx context.Context, v any) (any, error)
	// Kind identifies the composition variant for introspection.
	Kind() Kind
	// String describes the validator in failure reports, for example
	// Or<Literal<"a">,Literal<"b">>.
	String() string
}

// Unwrapper is implemented by transparent decorators (KindWrapped).
type Unwrapper interface {
	Unwrap() Validator
}

// Unwrap strips every transparent decorator around v.
func Unwrap(v Validator) Validator {
	for v != nil && v.Kind() == KindWrapped {
		u, ok := v.(Unwrapper)
		if !ok {
			return v
		}
		v = u.Unwrap()
	}
	return v
}

// SafeParse parses v, returning (nil, false) on validation error.
func SafeParse(ctx context.Context, s Validator, v any) (any, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		return nil, false
	}
	return val, true
}

// Is returns true if v conforms to the validator s.
func Is(ctx context.Context, s Validator, v any) bool {
	_, err := s.Parse(ctx, v)
	return err == nil
}

// ParseAs parses v and asserts the result to T. A result of another Go type
// is reported as an invalid_type issue at the root.
func ParseAs[T any](ctx context.Context, s Validator, v any) (T, error) {
	var zero T
	out, err := s.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, Issues{{
			Path:     "/",
			Code:     CodeInvalidType,
			Message:  fmt.Sprintf("expected Go type %T, got %T", zero, out),
			Expected: s.String(),
			Value:    out,
		}}
	}
	return t, nil
}

// ---- Parse-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// Shape validators stop at the first failing key when it is set.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
