package dsl

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
)

// ArrayOfValidator matches slices whose every element satisfies the element
// validator. Parse returns a new []any holding the parsed elements.
type ArrayOfValidator struct {
	elem schemamatch.Validator
}

// ArrayOf builds a homogeneous array validator.
func ArrayOf(elem schemamatch.Validator) *ArrayOfValidator { return &ArrayOfValidator{elem: elem} }

// Elem returns the element validator.
func (a *ArrayOfValidator) Elem() schemamatch.Validator { return a.elem }

func (a *ArrayOfValidator) Kind() schemamatch.Kind { return schemamatch.KindArrayOf }
func (a *ArrayOfValidator) String() string         { return "ArrayOf<" + a.elem.String() + ">" }

func (a *ArrayOfValidator) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := asArray(v)
	if !ok {
		iss := schemamatch.Reject(schemamatch.CodeInvalidType, a, v)
		iss[0].Hint = "expected array"
		return nil, iss
	}
	out := make([]any, len(arr))
	var iss schemamatch.Issues
	for i, ev := range arr {
		pv, err := a.elem.Parse(ctx, ev)
		if err != nil {
			iss = schemamatch.AppendIssues(iss, schemamatch.Rebase(schemamatch.Root().Index(i), schemamatch.ToIssues(err))...)
			if schemamatch.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
