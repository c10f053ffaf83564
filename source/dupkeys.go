package source

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/i18n"
)

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	next         int
	at           schemamatch.PathRef
}

// DuplicateKeys reports object members whose key already appeared in the
// same object of the JSON document b. Decoders keep the last value, so
// these are otherwise invisible to validation. max > 0 caps the result.
func DuplicateKeys(b []byte, max int) (schemamatch.Issues, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var iss schemamatch.Issues
	var stack []*dupFrame
	// child returns the location of the value about to start.
	child := func() schemamatch.PathRef {
		if len(stack) == 0 {
			return schemamatch.Root()
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
			return top.at.Field(top.key)
		}
		at := top.at.Index(top.next)
		top.next++
		return at
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return iss, fmt.Errorf("source: invalid JSON: %w", err)
		}
		if d, ok := tok.(stdjson.Delim); ok && (d == '}' || d == ']') {
			stack = stack[:len(stack)-1]
			continue
		}
		if s, ok := tok.(string); ok && len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.object && top.expectingKey {
				if _, dup := top.keys[s]; dup {
					iss = schemamatch.AppendIssues(iss, schemamatch.IssueAt(top.at.Field(s), schemamatch.CodeDuplicateKey,
						i18n.T(schemamatch.CodeDuplicateKey, map[string]string{"key": s}), map[string]any{"key": s}))
					if max > 0 && len(iss) >= max {
						return iss, nil
					}
				}
				top.keys[s] = struct{}{}
				top.key = s
				top.expectingKey = false
				continue
			}
		}
		at := child()
		if d, ok := tok.(stdjson.Delim); ok {
			stack = append(stack, &dupFrame{
				object:       d == '{',
				keys:         map[string]struct{}{},
				expectingKey: d == '{',
				at:           at,
			})
		}
	}
	return iss, nil
}
