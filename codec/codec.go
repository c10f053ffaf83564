// Package codec pairs a wire validator with a decode and an encode step.
//
// Decoding runs through a dsl.Mapped validator, so a codec can sit anywhere
// in a validator tree and still emit the schema of its wire side.
package codec

import (
	"context"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/dsl"
)

// Codec converts between values accepted by In and domain values.
type Codec struct {
	in     schemamatch.Validator
	mapped *dsl.MappedValidator
	encode func(any) (any, error)
}

// New builds a codec. decode receives values In already accepted; encode
// output is checked against In again.
func New(in schemamatch.Validator, decode, encode func(any) (any, error)) *Codec {
	return &Codec{in: in, mapped: dsl.Map(in, decode), encode: encode}
}

// In is the wire-side validator.
func (c *Codec) In() schemamatch.Validator { return c.in }

// Validator returns the decoding validator for use inside shapes, arrays
// and unions.
func (c *Codec) Validator() schemamatch.Validator { return c.mapped }

// Decode validates a wire value and converts it.
func (c *Codec) Decode(ctx context.Context, wire any) (any, error) {
	return c.mapped.Parse(ctx, wire)
}

// Encode converts a domain value back and validates the result.
func (c *Codec) Encode(ctx context.Context, domain any) (any, error) {
	out, err := c.encode(domain)
	if err != nil {
		return nil, schemamatch.ToIssues(err)
	}
	return c.in.Parse(ctx, out)
}
