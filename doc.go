// Package jsonpath is a JSONPath-flavored query engine: compile a path
// expression once, trace it against a decoded JSON document, and shape
// the matches into whichever form the caller needs.
//
// A one-shot query needs nothing but a document and an expression:
//
//	result, err := jsonpath.Query(doc, "$.store.book[?(@.price<10)].title", jsonpath.Options{})
//
// A caller issuing many queries against the same or different documents
// should construct an Engine once instead, so the compiled-path and
// compiled-program caches are shared across calls:
//
//	engine, err := jsonpath.New(jsonpath.Options{ResultType: "path"})
//	result, err := engine.Query(doc, "$..author", nil)
//
// The reference dialect's constructor can return a bare scalar instead
// of an engine instance when invoked with no arguments other than a
// document and a path, by throwing the scalar as an internal control
// exception that a zero-argument call site catches. That trick exists
// to route around a single-return-value constructor in a language
// where "new" must return an object. Go's multi-value return makes it
// unnecessary here: Query and Engine.Query already return (any, error)
// directly, so there is nothing for a sentinel to unwrap and no
// internal exception to throw.
package jsonpath
