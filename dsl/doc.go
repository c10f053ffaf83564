// Package dsl provides the validator primitives: bare type checks, literal
// sets, shapes, homogeneous arrays, unions, intersections, named and mapped
// validators, and opaque guards.
//
// Every constructor returns an immutable schemamatch.Validator whose Kind
// identifies the composition variant, so trees built here can be walked back
// into JSON Schema by package toschema.
//
//	user := dsl.Shape().
//		Field("id", dsl.Number()).
//		Field("nick", dsl.String()).Optional().
//		MustBuild()
//	status := dsl.Some(dsl.Literal("active"), dsl.Literal("banned"))
//	_, err := dsl.Every(user, dsl.ShapeOf(map[string]schemamatch.Validator{"status": status})).Parse(ctx, in)
package dsl
