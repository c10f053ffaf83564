package schemamatch

import (
	"fmt"

	"github.com/reoring/schemamatch/i18n"
)

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params, segs: segmentsOf(p)}
}

// Reject builds the single-issue failure reported by a leaf validator:
// the localized message for code, the description of the rejecting
// validator and the value it was given.
func Reject(code string, expected fmt.Stringer, value any) Issues {
	return Issues{{
		Path:     "/",
		Code:     code,
		Message:  i18n.T(code, map[string]string{"expected": expected.String()}),
		Expected: expected.String(),
		Value:    value,
	}}
}

// Rebase prefixes every issue path with base. Child validators report paths
// relative to the value they were given; containers rebase them under the
// key or index they descended into.
func Rebase(base PathRef, iss Issues) Issues {
	prefix := segmentsOf(base)
	if len(prefix) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		rel := it.Segments()
		segs := make([]string, 0, len(prefix)+len(rel))
		segs = append(append(segs, prefix...), rel...)
		it.segs = segs
		it.Path = pointerOf(segs)
		out[i] = it
	}
	return out
}

// ToIssues converts any error into Issues. Errors that are not Issues become
// a single parse_error issue at the root carrying the error as Cause.
func ToIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil) + ": " + err.Error(), Cause: err}}
}
