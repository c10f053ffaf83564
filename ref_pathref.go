package schemamatch

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

// Root returns the PathRef of the document root ("/").
func Root() PathRef { return &pathRef{parts: nil} }

// At parses a JSON Pointer into a PathRef. Segments are kept escaped.
func At(path string) PathRef {
	if path == "" || path == "/" {
		return Root()
	}
	return &pathRef{parts: strings.Split(strings.TrimPrefix(path, "/"), "/")}
}

// SplitPointer decodes a JSON Pointer into unescaped segments. The root
// pointer yields an empty slice.
func SplitPointer(path string) []string {
	out := []string{}
	if path == "" || path == "/" {
		return out
	}
	for _, p := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		out = append(out, unescape(p))
	}
	return out
}

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	return &pathRef{parts: append(append([]string{}, p.parts...), escape(name))}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return IssueAt(p, code, msg, m)
}

func (p *pathRef) segments() []string {
	out := make([]string, len(p.parts))
	for i, s := range p.parts {
		out[i] = unescape(s)
	}
	return out
}

func segmentsOf(p PathRef) []string {
	if pr, ok := p.(*pathRef); ok {
		return pr.segments()
	}
	return SplitPointer(p.Pointer())
}

// pointerOf renders unescaped segments; no segments is the root "/".
func pointerOf(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(escape(s))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
