package jsonpath

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/pathelem"
	"github.com/pathkit/jsonpath/internal/shape"
	"github.com/pathkit/jsonpath/internal/token"
	"github.com/pathkit/jsonpath/internal/trace"
	"github.com/pathkit/jsonpath/internal/typeclass"
	"github.com/pathkit/jsonpath/internal/value"
)

// NotFound is the marker a query returns when Wrap is false and no
// match was found.
var NotFound = shape.NotFound

// IsNotFound reports whether v is the engine's not-found marker.
func IsNotFound(v any) bool { return shape.IsNotFound(v) }

// CompiledPath is a path expression already normalized into its token
// list, so repeated queries against it skip re-parsing even on a cache
// miss. Build one with Compile.
type CompiledPath struct {
	tokens []token.Token
	source string
}

// String returns the expression text CompiledPath was built from.
func (c CompiledPath) String() string { return c.source }

// Compile normalizes a path expression outside of any Engine's cache,
// for a caller that wants to hold onto the compiled form itself (e.g.
// to share one CompiledPath across several Engines).
func Compile(expr string) (CompiledPath, error) {
	tokens, err := token.Compile(expr)
	if err != nil {
		return CompiledPath{}, classify(err)
	}
	return CompiledPath{tokens: tokens, source: expr}, nil
}

// Engine holds compiled-path and compiled-program caches plus a set of
// default Options, so a caller issuing many queries only pays parsing
// and compilation costs once per distinct expression.
type Engine struct {
	id       string
	defaults Options
	paths    *token.Cache
	programs *evalbackend.ProgramCache
}

// New constructs an Engine with opts as its defaults. Every Query call
// may override any field via its own Options argument.
//
// Unless opts.Autostart is explicitly set to false, New eagerly
// validates opts.ResultType and opts.Eval so a configuration mistake
// surfaces at construction time rather than on the first query.
func New(opts Options) (*Engine, error) {
	if boolOr(opts.Autostart, true) {
		if _, err := opts.resultType(); err != nil {
			return nil, classify(err)
		}
		if _, err := opts.backend(); err != nil {
			return nil, classify(err)
		}
	}

	return &Engine{
		id:       uuid.NewString(),
		defaults: opts,
		paths:    token.NewCache(opts.CacheSize),
		programs: evalbackend.NewProgramCache(opts.CacheSize),
	}, nil
}

// ID returns the engine's correlation ID, stable for its lifetime. It
// has no semantic meaning beyond letting a caller tell concurrent
// Engine instances apart in logs.
func (e *Engine) ID() string { return e.id }

// CacheStats reports the occupancy of the engine's compiled-path and
// compiled-program caches, for callers exposing runtime diagnostics.
type CacheStats struct {
	Paths    token.Stats
	Programs evalbackend.Stats
}

// CacheStats returns a snapshot of the engine's cache occupancy.
func (e *Engine) CacheStats() CacheStats {
	return CacheStats{Paths: e.paths.Stats(), Programs: e.programs.Stats()}
}

// Validate reports whether expr is a syntactically valid path expression
// without tracing it against any document. A successful Validate does
// not populate the engine's path cache; use Query if the same
// expression will be queried afterward.
func (e *Engine) Validate(expr string) error {
	_, err := token.Compile(expr)
	return classify(err)
}

// Query runs path (a string or a CompiledPath) against doc and returns
// the shaped result. override, if non-nil, replaces the Engine's
// defaults for this call only.
func (e *Engine) Query(doc any, path any, override *Options) (any, error) {
	opts := e.defaults
	if override != nil {
		opts = *override
	}

	tokens, err := e.resolvePath(path)
	if err != nil {
		return nil, err
	}

	root, err := resolveDocument(doc)
	if err != nil {
		return nil, classify(err)
	}

	return e.run(tokens, root, opts)
}

func (e *Engine) resolvePath(path any) ([]token.Token, error) {
	switch p := path.(type) {
	case CompiledPath:
		return p.tokens, nil
	case string:
		tokens, err := e.paths.Compile(p)
		if err != nil {
			return nil, classify(err)
		}
		return tokens, nil
	default:
		return nil, fmt.Errorf("%w: path must be a string or a CompiledPath, got %T", ErrConfiguration, path)
	}
}

func (e *Engine) run(tokens []token.Token, root any, opts Options) (any, error) {
	resultType, err := opts.resultType()
	if err != nil {
		return nil, classify(err)
	}
	backend, err := opts.backend()
	if err != nil {
		return nil, classify(err)
	}

	var other typeclass.Other
	if opts.OtherTypeCallback != nil {
		other = typeclass.Other(opts.OtherTypeCallback)
	}

	var undefined trace.UndefinedCallback
	if opts.UndefinedCallback != nil {
		undefined = func(path []pathelem.Elem) (any, bool) {
			return opts.UndefinedCallback(pathelem.Canonical(path))
		}
	}

	cfg := &trace.Config{
		Backend:           backend,
		Programs:          e.programs,
		IgnoreEvalErrors:  opts.IgnoreEvalErrors,
		UndefinedCallback: undefined,
		OtherClassifier:   other,
		Sandbox:           opts.Sandbox,
		Parent:            opts.Parent,
		ParentProperty:    opts.ParentProperty,
	}

	records, err := trace.Run(tokens, root, cfg)
	if err != nil {
		return nil, classify(err)
	}

	var callback shape.Callback
	if opts.Callback != nil {
		callback = func(shaped any, kind string, record trace.MatchRecord) {
			opts.Callback(shaped, kind, Match{
				Value:          record.Value,
				Path:           pathelem.Canonical(record.Path),
				Pointer:        pathelem.Pointer(record.Path),
				Parent:         record.Parent,
				ParentProperty: record.ParentProperty,
			})
		}
	}

	return shape.Shape(records, shape.Options{
		ResultType: resultType,
		Flatten:    opts.Flatten,
		Wrap:       boolOr(opts.Wrap, true),
		Callback:   callback,
	}), nil
}

// resolveDocument accepts an already-decoded document in the engine's own
// value model (*value.Object, []any, scalars) as well as raw JSON text
// supplied as a string or []byte, decoding the latter on the fly. A plain
// Go map[string]any is not converted; build the document with value.Decode
// or value.DecodeBytes so property steps can traverse it.
func resolveDocument(doc any) (any, error) {
	switch d := doc.(type) {
	case string:
		return value.DecodeBytes([]byte(d))
	case []byte:
		return value.DecodeBytes(d)
	default:
		return doc, nil
	}
}

// Validate reports whether expr is a syntactically valid path expression
// without compiling any expression backend or tracing it against a
// document. It mirrors what a zero-argument constructor call validates
// in the reference dialect before any document is available.
func Validate(expr string) error {
	_, err := token.Compile(expr)
	return classify(err)
}

// Query is a convenience one-shot call: build a throw-away Engine from
// opts, run a single query, and return its result. A caller issuing
// repeated queries should construct an Engine with New instead, so
// compiled paths and programs are cached across calls.
func Query(doc any, path string, opts Options) (any, error) {
	engine, err := New(opts)
	if err != nil {
		return nil, err
	}
	return engine.Query(doc, path, nil)
}
