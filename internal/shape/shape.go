// Package shape implements the result shaper (the engine's C4
// component): it turns the tracer's raw match records into whichever
// user-facing shape the caller asked for, and applies the wrap/flatten
// rules that decide whether the result comes back as a bare value or a
// sequence.
package shape

import (
	"errors"
	"fmt"

	"github.com/pathkit/jsonpath/internal/pathelem"
	"github.com/pathkit/jsonpath/internal/trace"
)

// ErrUnknownResultType is returned by Parse for a resultType name the
// shaper doesn't recognize.
var ErrUnknownResultType = errors.New("jsonpath: unknown result type")

// ResultType selects which field(s) of a match record the shaper
// surfaces to the caller.
type ResultType string

const (
	Value          ResultType = "value"
	Path           ResultType = "path"
	Pointer        ResultType = "pointer"
	Parent         ResultType = "parent"
	ParentProperty ResultType = "parentProperty"
	All            ResultType = "all"
)

// Parse validates a resultType name from configuration, defaulting an
// empty string to Value.
func Parse(name string) (ResultType, error) {
	switch ResultType(name) {
	case "":
		return Value, nil
	case Value, Path, Pointer, Parent, ParentProperty, All:
		return ResultType(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResultType, name)
	}
}

// Match is the "all" shape: a record with both canonical path notations
// materialized alongside its value.
type Match struct {
	Value          any
	Path           string
	Pointer        string
	Parent         any
	ParentProperty any
}

// sentinelNotFound is the not-found marker handed back when wrap is
// false and a query produced no matches. It is a distinct comparable
// type rather than nil so callers can tell "found null" from "found
// nothing" with a type assertion if they need to.
type sentinelNotFound struct{}

// NotFound is the nullary marker Shape returns when wrap is false and
// no match was found.
var NotFound any = sentinelNotFound{}

// IsNotFound reports whether v is the shaper's not-found marker.
func IsNotFound(v any) bool {
	_, ok := v.(sentinelNotFound)
	return ok
}

// Callback is invoked once per terminal match, receiving the shaped
// value for that single record, "value" or "property" depending on
// whether the record came from a "~" step, and the full record for
// callers that need more context than the shaped value carries.
type Callback func(shaped any, kind string, record trace.MatchRecord)

// Options configures a single Shape call.
type Options struct {
	ResultType ResultType
	Flatten    bool
	Wrap       bool
	Callback   Callback
}

// Shape converts records into the user-facing result described by opts.
func Shape(records []trace.MatchRecord, opts Options) any {
	shaped := make([]any, 0, len(records))
	for _, r := range records {
		v := one(r, opts.ResultType)
		shaped = append(shaped, v)
		if opts.Callback != nil {
			kind := "value"
			if r.IsProperty {
				kind = "property"
			}
			opts.Callback(v, kind, r)
		}
	}

	if !opts.Wrap {
		if len(shaped) == 0 {
			return NotFound
		}
		if len(shaped) == 1 && !records[0].HasArrExpr {
			return shaped[0]
		}
	}

	if opts.Flatten {
		shaped = flattenOne(shaped)
	}

	return shaped
}

func one(r trace.MatchRecord, rt ResultType) any {
	switch rt {
	case Path:
		return pathelem.Canonical(r.Path)
	case Pointer:
		return pathelem.Pointer(r.Path)
	case Parent:
		return r.Parent
	case ParentProperty:
		return r.ParentProperty
	case All:
		return Match{
			Value:          r.Value,
			Path:           pathelem.Canonical(r.Path),
			Pointer:        pathelem.Pointer(r.Path),
			Parent:         r.Parent,
			ParentProperty: r.ParentProperty,
		}
	case Value:
		fallthrough
	default:
		return r.Value
	}
}

// flattenOne spreads any element that is itself a []any into the
// surrounding sequence, one level deep.
func flattenOne(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if nested, ok := item.([]any); ok {
			out = append(out, nested...)
			continue
		}
		out = append(out, item)
	}
	return out
}
