// Package pathelem defines the resolved path component the tracer emits
// for every match: unlike a token, which may still carry a wildcard,
// slice, or filter, a path element names exactly one concrete step, an
// object key or an array index, because by the time a match record
// exists, every wildcard/slice/filter/union step that produced it has
// already been resolved against the document.
package pathelem

import (
	"strconv"
	"strings"
)

// Elem is one step of a resolved match path.
type Elem struct {
	IsIndex bool
	Name    string // valid when !IsIndex
	Index   int    // valid when IsIndex
}

// Name builds a property-name element.
func Name(name string) Elem { return Elem{Name: name} }

// Idx builds an array-index element.
func Idx(i int) Elem { return Elem{IsIndex: true, Index: i} }

// String renders the element the way it would appear as a single path
// token: the bare name, or the index as decimal text.
func (e Elem) String() string {
	if e.IsIndex {
		return strconv.Itoa(e.Index)
	}
	return e.Name
}

// Canonical renders a resolved match path as the bracketed dot path
// notation the facade reports back to callers: "$.a[0].b". Names that
// aren't safe as a bare dot-identifier fall back to bracket-and-quote
// notation, e.g. "$['a b']".
func Canonical(path []Elem) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, e := range path {
		if e.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.Index))
			b.WriteByte(']')
			continue
		}
		if isSafeIdentifier(e.Name) {
			b.WriteByte('.')
			b.WriteString(e.Name)
		} else {
			b.WriteString("['")
			b.WriteString(strings.ReplaceAll(e.Name, "'", "\\'"))
			b.WriteString("']")
		}
	}
	return b.String()
}

func isSafeIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// Pointer renders a resolved match path as an RFC 6901 JSON Pointer:
// each component becomes "/component", with "~" escaped to "~0" and
// "/" escaped to "~1".
func Pointer(path []Elem) string {
	if len(path) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range path {
		b.WriteByte('/')
		b.WriteString(escapePointerToken(e.String()))
	}
	return b.String()
}

func escapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}
