// Package evalbackend defines the pluggable expression capability the
// tracer calls into for filter "[?(...)]" and script "[(...)]" steps: a
// two-operation contract of compile-once, run-many, so a backend can
// amortize parsing cost across repeated evaluation of the same fragment
// against different bindings.
package evalbackend

import (
	"encoding/json"
	"errors"
)

// ErrDisabled is returned by a Backend that forbids filter/script steps
// entirely, so the tracer can surface it as a policy error rather than a
// malformed-expression error.
var ErrDisabled = errors.New("jsonpath: filter/script evaluation is disabled")

// Bindings is the environment a compiled Program runs against. The
// tracer populates it per §4.2's binding table before every Run call;
// field names deliberately mirror the rewritten meta-token names so a
// backend can expose them to its own expression language verbatim.
type Bindings struct {
	Value          any    // _$_v: the value under test
	ValueName      any    // _$_vname / _$_property: current key or index
	Parent         any    // _$_parent
	ParentProperty any    // _$_parentProperty
	Root           any    // _$_root: the document root
	Path           string // _$_path: canonical path string of Value
	Extra          map[string]any
}

// Program is a compiled fragment ready to run repeatedly against
// different bindings.
type Program interface {
	Run(b Bindings) (any, error)
}

// Backend compiles source fragments into reusable Programs. Compiled
// programs are memoized by the caller under a key combining the
// backend's tag and the source text, per §4.2.
type Backend interface {
	// Tag identifies the backend for cache-key purposes (e.g. "safe").
	Tag() string
	Compile(source string) (Program, error)
}

// Binding names the tracer writes into (and every backend reads
// bindings by) after rewriting a fragment's JSONPath meta-tokens, per
// §4.2's rewrite table.
const (
	BindValue          = "_$_v"
	BindValueName      = "_$_vname"
	BindProperty       = "_$_property" // alias of BindValueName
	BindParent         = "_$_parent"
	BindParentProperty = "_$_parentProperty"
	BindRoot           = "_$_root"
	BindPath           = "_$_path"
)

// ToMap flattens Bindings into the variable environment a tree-walking
// backend resolves identifiers against.
func (b Bindings) ToMap() map[string]any {
	m := make(map[string]any, len(b.Extra)+6)
	for k, v := range b.Extra {
		m[k] = v
	}
	m[BindValue] = b.Value
	m[BindValueName] = b.ValueName
	m[BindProperty] = b.ValueName
	m[BindParent] = b.Parent
	m[BindParentProperty] = b.ParentProperty
	m[BindRoot] = b.Root
	m[BindPath] = b.Path
	return m
}

// Undefined marks the result of a missing member or index access. It is
// distinct from nil so a filter like "@.price" can test for the
// property's presence rather than for JSON null.
type Undefined struct{}

// Truthy applies the tracer's generic filter-truthiness test to any
// backend's result: nil, Undefined, boolean false, and the numeric/
// string zero values are falsy; everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Undefined:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
