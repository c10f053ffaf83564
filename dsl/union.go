package dsl

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
)

// OrValidator accepts a value matching either side, trying Left first.
type OrValidator struct {
	left, right schemamatch.Validator
}

// Or builds the union of two validators.
func Or(left, right schemamatch.Validator) *OrValidator {
	return &OrValidator{left: left, right: right}
}

// Some folds vs into nested Or nodes from the left. A single validator is
// returned as is; with none, nothing is accepted.
func Some(vs ...schemamatch.Validator) schemamatch.Validator {
	if len(vs) == 0 {
		return Literals()
	}
	out := vs[0]
	for _, v := range vs[1:] {
		out = Or(out, v)
	}
	return out
}

func (o *OrValidator) Left() schemamatch.Validator  { return o.left }
func (o *OrValidator) Right() schemamatch.Validator { return o.right }

func (o *OrValidator) Kind() schemamatch.Kind { return schemamatch.KindOr }

func (o *OrValidator) String() string {
	return "Or<" + joinDescriptions([]string{o.left.String(), o.right.String()}) + ">"
}

func (o *OrValidator) Parse(ctx context.Context, v any) (any, error) {
	out, lerr := o.left.Parse(ctx, v)
	if lerr == nil {
		return out, nil
	}
	out, rerr := o.right.Parse(ctx, v)
	if rerr == nil {
		return out, nil
	}
	iss := schemamatch.Reject(schemamatch.CodeInvalidUnion, o, v)
	iss[0].Params = map[string]any{
		"left":  schemamatch.ToIssues(lerr),
		"right": schemamatch.ToIssues(rerr),
	}
	return nil, iss
}

// AndValidator requires both sides. Right parses the output of Left, so a
// Mapped left side feeds its transformed value forward.
type AndValidator struct {
	left, right schemamatch.Validator
}

// And builds the intersection of two validators.
func And(left, right schemamatch.Validator) *AndValidator {
	return &AndValidator{left: left, right: right}
}

// Every folds vs into nested And nodes from the left. With none, Any is
// returned.
func Every(vs ...schemamatch.Validator) schemamatch.Validator {
	if len(vs) == 0 {
		return Any()
	}
	out := vs[0]
	for _, v := range vs[1:] {
		out = And(out, v)
	}
	return out
}

func (a *AndValidator) Left() schemamatch.Validator  { return a.left }
func (a *AndValidator) Right() schemamatch.Validator { return a.right }

func (a *AndValidator) Kind() schemamatch.Kind { return schemamatch.KindAnd }

func (a *AndValidator) String() string {
	return "And<" + joinDescriptions([]string{a.left.String(), a.right.String()}) + ">"
}

func (a *AndValidator) Parse(ctx context.Context, v any) (any, error) {
	mid, err := a.left.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return a.right.Parse(ctx, mid)
}
