package dsl

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
	js "github.com/reoring/schemamatch/jsonschema"
)

// LiteralValidator accepts values equal to one of a fixed set of JSON
// scalars. Numbers compare by value, so 1, 1.0 and json.Number("1") match
// each other.
type LiteralValidator struct {
	values []any
}

// Literal accepts exactly v.
func Literal(v any) *LiteralValidator { return &LiteralValidator{values: []any{v}} }

// Literals accepts any of vs. With no values nothing is accepted.
func Literals(vs ...any) *LiteralValidator {
	return &LiteralValidator{values: append([]any(nil), vs...)}
}

// Values returns a copy of the accepted literals in declaration order.
func (l *LiteralValidator) Values() []any { return append([]any(nil), l.values...) }

func (l *LiteralValidator) Kind() schemamatch.Kind { return schemamatch.KindLiteral }

func (l *LiteralValidator) String() string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		parts[i] = renderValue(v)
	}
	return "Literal<" + joinDescriptions(parts) + ">"
}

func (l *LiteralValidator) Parse(_ context.Context, v any) (any, error) {
	for _, want := range l.values {
		if js.Equal(want, v) {
			return v, nil
		}
	}
	return nil, schemamatch.Reject(schemamatch.CodeInvalidLiteral, l, v)
}
