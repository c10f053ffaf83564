package schemamatch_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	schemamatch "github.com/reoring/schemamatch"
)

func TestIssues_Error(t *testing.T) {
	iss := schemamatch.Issues{
		{Path: "/b", Code: schemamatch.CodeInvalidLiteral, Expected: `Literal<"b">`},
		{Path: "/c", Code: schemamatch.CodeRequired},
	}
	if got, want := iss.Error(), `invalid_literal at /b (expected Literal<"b">); required at /c`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	var many schemamatch.Issues
	for i := 0; i < 5; i++ {
		many = schemamatch.AppendIssues(many, schemamatch.Root().Index(i).Issue(schemamatch.CodeCustom, "x"))
	}
	if got := many.Error(); !strings.HasSuffix(got, "; ... (total 5)") || strings.Contains(got, "/3") {
		t.Fatalf("Error() = %q", got)
	}
	if (schemamatch.Issues{}).Error() != "" {
		t.Fatal("empty Issues must render empty")
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	base := schemamatch.Issues{{Path: "/", Code: schemamatch.CodeCustom}}
	iss, ok := schemamatch.AsIssues(fmt.Errorf("decode: %w", base))
	if !ok || len(iss) != 1 {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
	if _, ok := schemamatch.AsIssues(errors.New("plain")); ok {
		t.Fatal("plain error is not Issues")
	}
	if _, ok := schemamatch.AsIssues(nil); ok {
		t.Fatal("nil is not Issues")
	}
}

func TestToIssues(t *testing.T) {
	if schemamatch.ToIssues(nil) != nil {
		t.Fatal("ToIssues(nil) must be nil")
	}
	cause := errors.New("boom")
	iss := schemamatch.ToIssues(cause)
	if len(iss) != 1 || iss[0].Code != schemamatch.CodeParseError || iss[0].Path != "/" {
		t.Fatalf("ToIssues = %+v", iss)
	}
	if !errors.Is(iss[0].Cause, cause) || !strings.Contains(iss[0].Message, "boom") {
		t.Fatalf("cause not kept: %+v", iss[0])
	}
}

func TestRebase(t *testing.T) {
	iss := schemamatch.Issues{{Path: "/"}, {Path: "/x/0"}, {Path: ""}}
	got := schemamatch.Rebase(schemamatch.Root().Field("a").Index(2), iss)
	want := []string{"/a/2", "/a/2/x/0", "/a/2"}
	for i, it := range got {
		if it.Path != want[i] {
			t.Fatalf("path %d = %q, want %q", i, it.Path, want[i])
		}
	}
	if iss[1].Path != "/x/0" {
		t.Fatal("Rebase must not mutate its input")
	}
	empty := schemamatch.Rebase(schemamatch.Root().Field(""), schemamatch.Issues{{Path: "/x"}, {Path: "/"}})
	if empty[0].Path != "//x" || !reflect.DeepEqual(empty[1].Segments(), []string{""}) {
		t.Fatalf("rebased under empty key: %+v", empty)
	}
	if same := schemamatch.Rebase(schemamatch.Root(), iss); &same[0] != &iss[0] {
		t.Fatal("rebasing on the root is a no-op")
	}
}

func TestReject(t *testing.T) {
	iss := schemamatch.Reject(schemamatch.CodeInvalidType, schemamatch.KindString, 3)
	if len(iss) != 1 {
		t.Fatalf("len = %d", len(iss))
	}
	it := iss[0]
	if it.Path != "/" || it.Expected != "string" || it.Value != 3 || it.Message == "" {
		t.Fatalf("issue = %+v", it)
	}
}

func TestSchemaError(t *testing.T) {
	err := error(&schemamatch.SchemaError{
		Err:      schemamatch.ErrUnknownType,
		Location: "/properties/a/type",
		Value:    "invalid",
	})
	if got, want := err.Error(), `schemamatch: unknown schema type "invalid" at /properties/a/type`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(fmt.Errorf("compile: %w", err), schemamatch.ErrUnknownType) {
		t.Fatal("errors.Is must see the sentinel")
	}
	var se *schemamatch.SchemaError
	if !errors.As(err, &se) || se.Location != "/properties/a/type" {
		t.Fatalf("errors.As = %v", se)
	}

	detail := &schemamatch.SchemaError{Err: schemamatch.ErrInvalidDefinitions, Detail: "got array"}
	if got, want := detail.Error(), "schemamatch: expecting some definitions: got array"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestPathRef(t *testing.T) {
	p := schemamatch.Root().Field("a/b").Field("m~n").Index(3)
	if got := p.Pointer(); got != "/a~1b/m~0n/3" {
		t.Fatalf("Pointer = %q", got)
	}
	if got := schemamatch.SplitPointer(p.Pointer()); !reflect.DeepEqual(got, []string{"a/b", "m~n", "3"}) {
		t.Fatalf("SplitPointer = %q", got)
	}
	if got := schemamatch.At("/definitions/x").Field("y").Pointer(); got != "/definitions/x/y" {
		t.Fatalf("At = %q", got)
	}
	if schemamatch.At("/").Pointer() != "/" || len(schemamatch.SplitPointer("/")) != 0 {
		t.Fatal("root pointer")
	}

	base := schemamatch.Root().Field("a")
	_ = base.Field("x")
	if base.Field("y").Pointer() != "/a/y" {
		t.Fatal("siblings must not share storage")
	}

	it := base.Issue(schemamatch.CodeCustom, "bad", "key", "a", "dangling")
	if it.Path != "/a" || it.Params["key"] != "a" || len(it.Params) != 1 {
		t.Fatalf("Issue = %+v", it)
	}
	if got := it.Segments(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("Segments = %q", got)
	}
}
