package dsl

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
)

// Any accepts every value, including nil. It is the identity of And.
func Any() schemamatch.Validator { return anyValidator{} }

// String matches Go strings (and types whose underlying type is string).
func String() schemamatch.Validator { return primitive{kind: schemamatch.KindString} }

// Number matches every Go integer and float kind as well as json.Number.
// JSON Schema "integer" compiles to Number too.
func Number() schemamatch.Validator { return primitive{kind: schemamatch.KindNumber} }

// Bool matches Go booleans.
func Bool() schemamatch.Validator { return primitive{kind: schemamatch.KindBool} }

// Null matches nil.
func Null() schemamatch.Validator { return primitive{kind: schemamatch.KindNull} }

// Object matches maps with string keys without looking at their entries.
func Object() schemamatch.Validator { return primitive{kind: schemamatch.KindObject} }

// Array matches slices and arrays without looking at their elements.
func Array() schemamatch.Validator { return primitive{kind: schemamatch.KindArray} }

type anyValidator struct{}

func (anyValidator) Parse(_ context.Context, v any) (any, error) { return v, nil }
func (anyValidator) Kind() schemamatch.Kind                      { return schemamatch.KindAny }
func (anyValidator) String() string                              { return "any" }

type primitive struct{ kind schemamatch.Kind }

func (p primitive) Kind() schemamatch.Kind { return p.kind }
func (p primitive) String() string         { return p.kind.String() }

func (p primitive) Parse(_ context.Context, v any) (any, error) {
	if p.matches(v) {
		return v, nil
	}
	iss := schemamatch.Reject(schemamatch.CodeInvalidType, p, v)
	iss[0].Hint = "expected " + p.kind.String()
	return nil, iss
}

func (p primitive) matches(v any) bool {
	switch p.kind {
	case schemamatch.KindString:
		return isString(v)
	case schemamatch.KindNumber:
		return isNumber(v)
	case schemamatch.KindBool:
		return isBool(v)
	case schemamatch.KindNull:
		return v == nil
	case schemamatch.KindObject:
		return isObject(v)
	case schemamatch.KindArray:
		return isArray(v)
	}
	return false
}
