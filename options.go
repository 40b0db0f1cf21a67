package jsonpath

import (
	"fmt"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/evalbackend/safe"
	"github.com/pathkit/jsonpath/internal/shape"
)

// Match is the "all" result shape: a located value together with both
// of its path notations.
type Match struct {
	Value          any
	Path           string
	Pointer        string
	Parent         any
	ParentProperty any
}

// Callback is invoked once per terminal match found by a query.
type Callback func(value any, kind string, match Match)

// OtherTypeClassifier extends the "@other()" type predicate with a
// caller-supplied category the engine itself doesn't know about.
type OtherTypeClassifier func(v any) bool

// UndefinedCallback synthesizes a value for a path that doesn't exist in
// the document, addressed by its canonical path string (e.g. "$.a['b c']").
type UndefinedCallback func(path string) (any, bool)

// Options configures a query. The zero value is valid and selects every
// documented default: resultType "value", the safe expression backend,
// wrap and autostart both true, flatten false.
type Options struct {
	// ResultType selects the output shape: "value" (default), "path",
	// "pointer", "parent", "parentProperty", or "all".
	ResultType string

	// Flatten spreads one level of nested array results into the
	// surrounding sequence.
	Flatten bool

	// Wrap, when false, returns a single non-multi-match result bare
	// instead of as a one-element sequence. Nil selects the default of
	// true (always a sequence).
	Wrap *bool

	// Sandbox supplies extra bindings visible to the expression
	// backend, alongside the standard "@"-derived ones.
	Sandbox map[string]any

	// Eval selects the expression backend for filter/script steps.
	// Accepted values: nil or "safe" (default), "native", false (or
	// "disabled") to reject every filter/script step, an
	// evalbackend.Backend implementation, or a
	// func(source string, b evalbackend.Bindings) (any, error) callable.
	Eval any

	// Parent and ParentProperty seed the root frame, for queries run
	// against an already-located sub-document.
	Parent         any
	ParentProperty any

	// Callback, when set, is invoked once per terminal match.
	Callback Callback

	// OtherTypeCallback backs the "@other()" type predicate. Using
	// "@other()" without one set is a classifier error.
	OtherTypeCallback OtherTypeClassifier

	// UndefinedCallback synthesizes a value for a missing property
	// addressed by a backtick-escaped literal step or a plain name.
	UndefinedCallback UndefinedCallback

	// IgnoreEvalErrors coerces a filter/script failure to falsy instead
	// of aborting the query.
	IgnoreEvalErrors bool

	// Autostart, unless explicitly false, makes New validate ResultType
	// and Eval at construction time. New takes no document or path and
	// never runs a query itself. Nil selects the default of true.
	Autostart *bool

	// CacheSize bounds the number of compiled paths and compiled
	// programs an Engine holds onto, each counted separately. Zero or
	// negative selects the package default. Only consulted by New (and
	// so by the one-shot Query, which builds its Engine with New); it
	// has no effect in an override passed to Engine.Query.
	CacheSize int
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// resultType validates and returns the effective ResultType.
func (o Options) resultType() (shape.ResultType, error) {
	return shape.Parse(o.ResultType)
}

// backend resolves the Eval option into a concrete evalbackend.Backend.
func (o Options) backend() (evalbackend.Backend, error) {
	switch v := o.Eval.(type) {
	case nil, string:
		name, _ := v.(string)
		switch name {
		case "", "safe":
			return safe.New(), nil
		case "native":
			return evalbackend.Native{}, nil
		case "disabled", "false":
			return evalbackend.Disabled{}, nil
		default:
			return nil, fmt.Errorf("%w: unknown eval backend %q", ErrConfiguration, name)
		}
	case bool:
		if v {
			return nil, fmt.Errorf("%w: eval must name a backend, not true", ErrConfiguration)
		}
		return evalbackend.Disabled{}, nil
	case evalbackend.Backend:
		return v, nil
	case func(source string, b evalbackend.Bindings) (any, error):
		return evalbackend.Func(v), nil
	default:
		return nil, fmt.Errorf("%w: eval option has unsupported type %T", ErrConfiguration, v)
	}
}
