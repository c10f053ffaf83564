// Package middleware validates JSON request bodies at an HTTP boundary.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/source"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Options tunes Validate.
type Options struct {
	MaxBodyBytes int64
	// AllowDuplicateKeys skips the duplicate key check. By default a body
	// repeating a key in one object is rejected with 400.
	AllowDuplicateKeys bool
	FailFast           bool
}

type ctxKeyValue struct{}

// accepted boxes the body so a JSON null is still found.
type accepted struct{ v any }

// ContextWithValue attaches an accepted body to ctx.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, accepted{v: v})
}

// ValueFromContext returns the body accepted by Validate. ok is false when
// ctx carries none; a null body yields (nil, true).
func ValueFromContext(ctx context.Context) (any, bool) {
	a, ok := ctx.Value(ctxKeyValue{}).(accepted)
	return a.v, ok
}

// Validate returns middleware that decodes the request body as JSON and
// parses it with v. Bodies over the limit get 413, unreadable or malformed
// ones 400 and rejected ones 422; all carry ErrorPayload. Accepted values reach next via ValueFromContext.
func Validate(v schemamatch.Validator, opts Options) func(http.Handler) http.Handler {
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				writeIssues(w, status, schemamatch.ToIssues(err))
				return
			}
			if !opts.AllowDuplicateKeys {
				dups, err := source.DuplicateKeys(body, 0)
				if err == nil && len(dups) > 0 {
					writeIssues(w, http.StatusBadRequest, dups)
					return
				}
			}
			doc, err := source.JSON(body)
			if err != nil {
				writeIssues(w, http.StatusBadRequest, schemamatch.ToIssues(err))
				return
			}
			ctx := schemamatch.WithFailFast(r.Context(), opts.FailFast)
			out, err := v.Parse(ctx, doc)
			if err != nil {
				writeIssues(w, http.StatusUnprocessableEntity, schemamatch.ToIssues(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), out)))
		})
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues schemamatch.Issues) map[string]any {
	list := make([]map[string]any, 0, len(issues))
	for _, it := range issues {
		e := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if it.Expected != "" {
			e["expected"] = it.Expected
		}
		if it.Code != schemamatch.CodeRequired && it.Code != schemamatch.CodeParseError && it.Code != schemamatch.CodeDuplicateKey {
			e["value"] = it.Value
		}
		list = append(list, e)
	}
	return map[string]any{"issues": list}
}

func writeIssues(w http.ResponseWriter, status int, iss schemamatch.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorPayload(iss))
}
