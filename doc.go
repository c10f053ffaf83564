// Package schemamatch converts between JSON Schema documents and composable
// runtime validators.
//
//   - Validator: the composed runtime matcher (see package dsl for constructors)
//   - Issues: a stable error model (JSON Pointer path, code, message, expected, value)
//   - compile: JSON Schema -> Validator, with #/definitions/* references
//   - toschema: Validator -> JSON Schema, hoisting named validators into definitions
//
// Design policy:
//   - Keep only the vocabulary shared by both directions in the root package.
//   - Place validator primitives under dsl/, the two compilers under compile/
//     and toschema/, and the CLI under cmd/schemamatch.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := compile.Compile(schemaDoc, nil)
//	out, err := v.Parse(ctx, input)
//	if iss, ok := schemamatch.AsIssues(err); ok { ... }
//
//	s, err := toschema.ToSchema(dsl.Named("user", userValidator))
package schemamatch
