package dsl

import (
	"context"
	"sync"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/i18n"
)

// NamedValidator registers its inner validator under a name. The schema
// walker emits it as a $ref into definitions.
type NamedValidator struct {
	name  string
	inner schemamatch.Validator
}

// Named tags v with name. Failures are reported by the inner validator; the
// name is what outer descriptions show, which keeps recursive graphs
// printable.
func Named(name string, v schemamatch.Validator) *NamedValidator {
	return &NamedValidator{name: name, inner: v}
}

func (n *NamedValidator) Name() string                 { return n.name }
func (n *NamedValidator) Inner() schemamatch.Validator { return n.inner }
func (n *NamedValidator) Kind() schemamatch.Kind       { return schemamatch.KindNamed }
func (n *NamedValidator) String() string               { return n.name }

func (n *NamedValidator) Parse(ctx context.Context, v any) (any, error) {
	return n.inner.Parse(ctx, v)
}

// LazyValidator defers building its target until first use. It is a
// transparent wrapper: Unwrap returns the target.
type LazyValidator struct {
	once   sync.Once
	fn     func() schemamatch.Validator
	target schemamatch.Validator
}

// Lazy wraps a thunk producing the real validator. The thunk runs at most
// once. Use it to close recursive references; the node should sit under a
// Named validator so descriptions and schemas stay finite.
func Lazy(fn func() schemamatch.Validator) *LazyValidator { return &LazyValidator{fn: fn} }

func (l *LazyValidator) Unwrap() schemamatch.Validator {
	l.once.Do(func() {
		if l.fn != nil {
			l.target = l.fn()
		}
	})
	return l.target
}

func (l *LazyValidator) Kind() schemamatch.Kind { return schemamatch.KindWrapped }
func (l *LazyValidator) String() string         { return "Lazy" }

func (l *LazyValidator) Parse(ctx context.Context, v any) (any, error) {
	t := l.Unwrap()
	if t == nil {
		return nil, schemamatch.Issues{{
			Path:    "/",
			Code:    schemamatch.CodeParseError,
			Message: i18n.T(schemamatch.CodeParseError, nil),
			Hint:    "lazy validator resolved to nil",
			Value:   v,
		}}
	}
	return t.Parse(ctx, v)
}

// described overrides the description of a validator without changing what
// it matches or the schema it produces.
type described struct {
	inner schemamatch.Validator
	desc  string
}

// Describe returns v with desc used in failure reports.
func Describe(v schemamatch.Validator, desc string) schemamatch.Validator {
	return described{inner: v, desc: desc}
}

func (d described) Unwrap() schemamatch.Validator { return d.inner }
func (d described) Kind() schemamatch.Kind        { return schemamatch.KindWrapped }
func (d described) String() string                { return d.desc }

func (d described) Parse(ctx context.Context, v any) (any, error) {
	out, err := d.inner.Parse(ctx, v)
	if err == nil {
		return out, nil
	}
	iss := schemamatch.ToIssues(err)
	res := make(schemamatch.Issues, len(iss))
	for i, it := range iss {
		if it.Path == "/" {
			it.Expected = d.desc
		}
		res[i] = it
	}
	return nil, res
}
