// Package trace implements the recursive dispatcher that walks a
// compiled token list against a decoded document, producing the match
// records the result shaper turns into a user-facing answer.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/number"
	"github.com/pathkit/jsonpath/internal/pathelem"
	"github.com/pathkit/jsonpath/internal/token"
	"github.com/pathkit/jsonpath/internal/typeclass"
	"github.com/pathkit/jsonpath/internal/value"
)

// ErrEvalDisabled surfaces evalbackend.ErrDisabled with the tracer's own
// wrapping so callers can errors.Is against a single tracer-level error.
var ErrEvalDisabled = errors.New("jsonpath: filter/script step encountered with expression backend disabled")

// ErrClassifierMissing is returned when an "@other()" type predicate is
// encountered but Config.OtherClassifier is nil.
var ErrClassifierMissing = errors.New("jsonpath: @other() used without an OtherClassifier")

// UndefinedCallback synthesizes a value for a path that doesn't exist in
// the document, used by the backtick-escaped literal-property step and
// the direct-property fallback.
type UndefinedCallback func(path []pathelem.Elem) (any, bool)

// MatchRecord is one located value produced by a trace.
type MatchRecord struct {
	Path           []pathelem.Elem
	Value          any
	Parent         any
	ParentProperty any
	HasArrExpr     bool

	// IsProperty is true when this record was produced by a "~" step,
	// so its Value is the enclosing key/index name rather than the
	// value found at Path. The shaper uses this to decide whether a
	// per-match callback should be told "property" or "value".
	IsProperty bool
}

// Config holds everything a trace needs beyond the token list and
// document: the expression capability for filter/script steps and the
// caller's extension points.
type Config struct {
	Backend           evalbackend.Backend
	Programs          *evalbackend.ProgramCache
	IgnoreEvalErrors  bool
	UndefinedCallback UndefinedCallback
	OtherClassifier   typeclass.Other
	Sandbox           map[string]any

	// Parent and ParentProperty seed the root frame's ancestor context,
	// for a trace run against an already-located sub-document. A "^"
	// step or "@parent" reference at the top level resolves against
	// these instead of finding no ancestor at all.
	Parent         any
	ParentProperty any

	root any // set once by Run
}

// item is either a completed match record or a parent-selector sentinel
// awaiting resolution by an ancestor frame.
type item struct {
	record   MatchRecord
	sentinel *sentinel
}

// sentinel defers a "^" step: the frame that produced it doesn't have
// access to its own parent's value, so it hands the truncated path and
// remaining tokens up to whichever ancestor frame does.
type sentinel struct {
	path   []pathelem.Elem
	tokens []token.Token
}

// Run traces tokens (as produced by token.Compile) against doc and
// returns the resulting match records in source order.
func Run(tokens []token.Token, doc any, cfg *Config) ([]MatchRecord, error) {
	cfg.root = doc

	// The leading Root token is dropped here rather than dispatched, so
	// the root frame keeps the Parent/ParentProperty seeded by Config.
	if len(tokens) > 0 && tokens[0].Kind == token.Root {
		tokens = tokens[1:]
	}

	items, err := trace(tokens, doc, nil, cfg.Parent, cfg.ParentProperty, false, cfg)
	if err != nil {
		return nil, err
	}

	// A "^" step that runs off the end of the path it was given still
	// has one more ancestor to try: whatever Config.Parent seeded the
	// root frame with. Without a configured Parent there is nothing
	// left to resolve against, so leave the sentinels for the loop
	// below to drop.
	if cfg.Parent != nil {
		items, err = resolveParents(items, cfg.Parent, nil, cfg)
		if err != nil {
			return nil, err
		}
	}

	records := make([]MatchRecord, 0, len(items))
	for _, it := range items {
		if it.sentinel != nil {
			// A "^" run that outlives every containing frame has nowhere
			// left to resolve against; it simply contributes no match.
			continue
		}
		records = append(records, it.record)
	}
	return records, nil
}

func trace(tokens []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, arrExpr bool, cfg *Config) ([]item, error) {
	if len(tokens) == 0 {
		return []item{{record: MatchRecord{
			Path:           path,
			Value:          val,
			Parent:         parent,
			ParentProperty: parentProperty,
			HasArrExpr:     arrExpr,
		}}}, nil
	}

	loc, rest := tokens[0], tokens[1:]

	switch loc.Kind {
	case token.Root:
		return dispatchAndResolve(rest, val, path, nil, nil, arrExpr, val, nil, cfg)

	case token.Name:
		return dispatchProperty(loc.Value, rest, val, path, parent, parentProperty, arrExpr, cfg)

	case token.LiteralProperty:
		return dispatchProperty(loc.Value, rest, val, path, parent, parentProperty, arrExpr, cfg)

	case token.Index:
		return dispatchIndex(loc.Value, rest, val, path, parent, parentProperty, arrExpr, cfg)

	case token.Wildcard:
		return dispatchWildcard(rest, val, path, parent, parentProperty, cfg)

	case token.Descendant:
		return dispatchDescendant(tokens, rest, val, path, parent, parentProperty, cfg)

	case token.Parent:
		if len(path) == 0 {
			// The frame that produced this "^" has no path of its own
			// left to truncate; defer to whichever ancestor frame does,
			// which for the root frame is Config.Parent, tried once
			// more by Run after this trace returns.
			return []item{{sentinel: &sentinel{path: nil, tokens: rest}}}, nil
		}
		return []item{{sentinel: &sentinel{path: path[:len(path)-1], tokens: rest}}}, nil

	case token.Property:
		return []item{{record: MatchRecord{Path: path, Value: parentProperty, Parent: parent, ParentProperty: parentProperty, HasArrExpr: arrExpr, IsProperty: true}}}, nil

	case token.Slice:
		return dispatchSlice(loc.Value, rest, val, path, parent, parentProperty, cfg)

	case token.Filter:
		return dispatchFilter(loc.Value, rest, val, path, parent, parentProperty, cfg)

	case token.Script:
		return dispatchScript(loc.Value, tokens, val, path, parent, parentProperty, arrExpr, cfg)

	case token.TypePredicate:
		if loc.Value == "other" && cfg.OtherClassifier == nil {
			return nil, ErrClassifierMissing
		}
		if typeclass.Is(val, loc.Value, cfg.OtherClassifier) {
			return []item{{record: MatchRecord{Path: path, Value: val, Parent: parent, ParentProperty: parentProperty, HasArrExpr: arrExpr}}}, nil
		}
		return nil, nil

	case token.Union:
		return dispatchUnion(loc.Value, rest, val, path, parent, parentProperty, cfg)

	default:
		return nil, fmt.Errorf("jsonpath: unhandled token kind %s", loc.Kind)
	}
}

// dispatchAndResolve runs a single recursive step then resolves any
// parent-selector sentinels the recursion produced, using frameValue as
// the value those sentinels resolve against.
func dispatchAndResolve(tokens []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, arrExpr bool, frameValue, frameParent any, cfg *Config) ([]item, error) {
	items, err := trace(tokens, val, path, parent, parentProperty, arrExpr, cfg)
	if err != nil {
		return nil, err
	}
	return resolveParents(items, frameValue, frameParent, cfg)
}

func resolveParents(items []item, frameValue, frameParent any, cfg *Config) ([]item, error) {
	out := make([]item, 0, len(items))
	for _, it := range items {
		if it.sentinel == nil {
			out = append(out, it)
			continue
		}
		resolved, err := trace(it.sentinel.tokens, frameValue, it.sentinel.path, frameParent, nil, false, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}
	return out, nil
}

func dispatchProperty(name string, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, arrExpr bool, cfg *Config) ([]item, error) {
	obj, ok := val.(*value.Object)
	if !ok {
		return nil, nil
	}

	child, present := obj.Get(name)
	childPath := append(append([]pathelem.Elem{}, path...), pathelem.Name(name))

	if !present {
		if cfg.UndefinedCallback == nil {
			return nil, nil
		}
		synthesized, ok := cfg.UndefinedCallback(childPath)
		if !ok {
			return nil, nil
		}
		child = synthesized
	}

	return dispatchAndResolve(rest, child, childPath, val, name, arrExpr, val, parent, cfg)
}

func dispatchIndex(raw string, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, arrExpr bool, cfg *Config) ([]item, error) {
	arr, ok := val.([]any)
	if !ok {
		return nil, nil
	}

	idx, err := token.ParseInt(raw)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		idx += len(arr)
	}
	if idx < 0 || idx >= len(arr) {
		return nil, nil
	}

	childPath := append(append([]pathelem.Elem{}, path...), pathelem.Idx(idx))
	return dispatchAndResolve(rest, arr[idx], childPath, val, idx, arrExpr, val, parent, cfg)
}

func dispatchWildcard(rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, cfg *Config) ([]item, error) {
	var results []item

	switch container := val.(type) {
	case *value.Object:
		for _, key := range container.Keys() {
			child, _ := container.Get(key)
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Name(key))
			items, err := trace(rest, child, childPath, val, key, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	case []any:
		for i, child := range container {
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Idx(i))
			items, err := trace(rest, child, childPath, val, i, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	default:
		return nil, nil
	}

	return resolveParents(results, val, parent, cfg)
}

func dispatchDescendant(tokens, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, cfg *Config) ([]item, error) {
	var results []item

	self, err := trace(rest, val, path, parent, parentProperty, true, cfg)
	if err != nil {
		return nil, err
	}
	results = append(results, self...)

	switch container := val.(type) {
	case *value.Object:
		for _, key := range container.Keys() {
			child, _ := container.Get(key)
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Name(key))
			items, err := trace(tokens, child, childPath, val, key, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	case []any:
		for i, child := range container {
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Idx(i))
			items, err := trace(tokens, child, childPath, val, i, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	}

	return resolveParents(results, val, parent, cfg)
}

func dispatchUnion(raw string, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, cfg *Config) ([]item, error) {
	var results []item

	for _, alt := range token.SplitUnion(raw) {
		items, err := trace(append([]token.Token{alt}, rest...), val, path, parent, parentProperty, true, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, items...)
	}

	return resolveParents(results, val, parent, cfg)
}

func dispatchSlice(raw string, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, cfg *Config) ([]item, error) {
	arr, ok := val.([]any)
	if !ok {
		return nil, nil
	}

	start, end, step, err := parseSlice(raw, len(arr))
	if err != nil {
		return nil, err
	}

	var results []item
	for i := start; i < end; i += step {
		if i < 0 || i >= len(arr) {
			continue
		}
		childPath := append(append([]pathelem.Elem{}, path...), pathelem.Idx(i))
		items, err := trace(rest, arr[i], childPath, val, i, true, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, items...)
	}

	return resolveParents(results, val, parent, cfg)
}

// parseSlice implements Python-style "a:b:c" slice bounds: missing
// components default to 0, len, 1; negative endpoints count from the
// end; results are clamped to [0, len]. A zero or negative step is
// documented as undefined behavior by the engine's own contract; this
// implementation treats it as 1 rather than looping forever or walking
// backward unexpectedly.
func parseSlice(raw string, length int) (start, end, step int, err error) {
	parts := strings.Split(raw, ":")
	start, end, step = 0, length, 1

	if len(parts) > 0 && parts[0] != "" {
		if start, err = token.ParseInt(parts[0]); err != nil {
			return 0, 0, 0, err
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		if end, err = token.ParseInt(parts[1]); err != nil {
			return 0, 0, 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if step, err = token.ParseInt(parts[2]); err != nil {
			return 0, 0, 0, err
		}
	}
	if step <= 0 {
		step = 1
	}

	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	start = clamp(start, 0, length)
	end = clamp(end, 0, length)

	return start, end, step, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dispatchFilter evaluates a "[?(...)]" step against every element of an
// array (or every value of an object), keeping the ones the expression
// judges truthy. A filter body containing a nested "?(" is treated as a
// mini path fragment and traced against the child directly rather than
// handed to the expression backend, since the reference dialect's own
// filter grammar doesn't nest predicates inside a single expression.
func dispatchFilter(raw string, rest []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, cfg *Config) ([]item, error) {
	var results []item

	test := func(child any, childParent any, childProperty any, childPath []pathelem.Elem) (bool, error) {
		if strings.Contains(raw, "?(") {
			return probeNestedFilter(raw, child, cfg)
		}
		return evalPredicate(raw, child, childParent, childProperty, childPath, cfg)
	}

	switch container := val.(type) {
	case []any:
		for i, child := range container {
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Idx(i))
			ok, err := test(child, val, i, childPath)
			if err != nil {
				if cfg.IgnoreEvalErrors {
					continue
				}
				return nil, err
			}
			if !ok {
				continue
			}
			items, err := trace(rest, child, childPath, val, i, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	case *value.Object:
		for _, key := range container.Keys() {
			child, _ := container.Get(key)
			childPath := append(append([]pathelem.Elem{}, path...), pathelem.Name(key))
			ok, err := test(child, val, key, childPath)
			if err != nil {
				if cfg.IgnoreEvalErrors {
					continue
				}
				return nil, err
			}
			if !ok {
				continue
			}
			items, err := trace(rest, child, childPath, val, key, true, cfg)
			if err != nil {
				return nil, err
			}
			results = append(results, items...)
		}
	default:
		return nil, nil
	}

	return resolveParents(results, val, parent, cfg)
}

// probeNestedFilter treats src as a self-contained path fragment (with
// every "@" stripped, since the outer filter already scoped it to the
// child) and reports whether tracing it against child produces at least
// one match. Deep nesting beyond one level is unspecified by the
// engine's own contract; this is a best-effort interpretation, not a
// general recursive-descent filter evaluator.
func probeNestedFilter(src string, child any, cfg *Config) (bool, error) {
	fragment := "$" + strings.ReplaceAll(src, "@", "")
	tokens, err := token.Compile(fragment)
	if err != nil {
		return false, nil
	}
	items, err := trace(tokens, child, nil, nil, nil, false, cfg)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.sentinel == nil {
			return true, nil
		}
	}
	return false, nil
}

func evalPredicate(raw string, child, childParent, childProperty any, childPath []pathelem.Elem, cfg *Config) (bool, error) {
	if cfg.Backend == nil {
		return false, fmt.Errorf("%w: %v", ErrEvalDisabled, evalbackend.ErrDisabled)
	}

	source := rewriteMetaTokens(raw)
	program, err := cfg.Programs.Compile(cfg.Backend, source)
	if err != nil {
		if errors.Is(err, evalbackend.ErrDisabled) {
			return false, fmt.Errorf("%w: %v", ErrEvalDisabled, err)
		}
		return false, err
	}

	result, err := program.Run(evalbackend.Bindings{
		Value:          child,
		ValueName:      childProperty,
		Parent:         childParent,
		ParentProperty: childProperty,
		Root:           cfg.root,
		Path:           pathelem.Canonical(childPath),
		Extra:          cfg.Sandbox,
	})
	if err != nil {
		return false, err
	}
	return evalbackend.Truthy(result), nil
}

// dispatchScript evaluates a "[(...)]" step once against val's own
// bindings and rewrites the numeric or string result into the concrete
// Index or Name step it stands for, then re-enters trace with that step
// prepended to the remaining tokens.
func dispatchScript(raw string, tokens []token.Token, val any, path []pathelem.Elem, parent, parentProperty any, arrExpr bool, cfg *Config) ([]item, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("%w: %v", ErrEvalDisabled, evalbackend.ErrDisabled)
	}

	rest := tokens[1:]
	source := rewriteMetaTokens(raw)
	program, err := cfg.Programs.Compile(cfg.Backend, source)
	if err != nil {
		if errors.Is(err, evalbackend.ErrDisabled) {
			return nil, fmt.Errorf("%w: %v", ErrEvalDisabled, err)
		}
		if cfg.IgnoreEvalErrors {
			return nil, nil
		}
		return nil, err
	}

	result, err := program.Run(evalbackend.Bindings{
		Value:          val,
		ValueName:      parentProperty,
		Parent:         parent,
		ParentProperty: parentProperty,
		Root:           cfg.root,
		Path:           pathelem.Canonical(path),
		Extra:          cfg.Sandbox,
	})
	if err != nil {
		if cfg.IgnoreEvalErrors {
			return nil, nil
		}
		return nil, err
	}

	var synthesized token.Token
	switch v := result.(type) {
	case string:
		synthesized = token.Token{Kind: token.Name, Value: v}
	default:
		// A custom or native backend (§4.2) may hand back any of Go's
		// integer types rather than just float64/int; try the exact
		// integer conversion before falling back to float truncation.
		if i, err := number.ToStrictInt(v); err == nil {
			synthesized = token.Token{Kind: token.Index, Value: strconv.Itoa(i)}
		} else if f, ok := number.ToFloat64(v); ok {
			synthesized = token.Token{Kind: token.Index, Value: strconv.FormatInt(int64(f), 10)}
		} else {
			return nil, nil
		}
	}

	return trace(append([]token.Token{synthesized}, rest...), val, path, parent, parentProperty, arrExpr, cfg)
}

// rewriteMetaTokens rewrites a filter or script fragment's JSONPath
// meta-tokens ("@", "@parent", "@parentProperty", "@root", "@path") into
// the binding names every backend reads Bindings by, per the engine's
// meta-token rewrite table. Longer, more specific tokens are matched
// before their shorter prefixes so "@parentProperty" isn't stolen by a
// rule meant for "@parent".
func rewriteMetaTokens(src string) string {
	replacer := strings.NewReplacer(
		"@parentProperty", evalbackend.BindParentProperty,
		"@parent", evalbackend.BindParent,
		"@root", evalbackend.BindRoot,
		"@path", evalbackend.BindPath,
		"@property", evalbackend.BindProperty,
	)
	src = replacer.Replace(src)

	var b strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '@' {
			b.WriteByte(c)
			continue
		}
		b.WriteString(evalbackend.BindValue)
	}
	return b.String()
}
