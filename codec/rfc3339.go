package codec

import (
	"fmt"
	"time"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/dsl"
)

// TimeRFC3339 converts between RFC3339 strings and time.Time. Encoding
// normalises to UTC.
func TimeRFC3339() *Codec {
	return New(dsl.Describe(dsl.String(), "rfc3339"), decodeRFC3339, encodeRFC3339)
}

func decodeRFC3339(v any) (any, error) {
	s, _ := v.(string)
	// RFC3339Nano also accepts values without fractional seconds
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("invalid RFC3339 time %q: %w", s, err)
	}
	return t, nil
}

func encodeRFC3339(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		iss := schemamatch.Issues{{
			Path:     "/",
			Code:     schemamatch.CodeInvalidType,
			Expected: "time.Time",
			Value:    v,
		}}
		return nil, iss
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}
