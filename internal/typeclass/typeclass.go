// Package typeclass implements the type predicate ("@t()" path step)
// classifier the tracer dispatches to: a fixed set of host-type tests
// plus one caller-extensible escape hatch ("other").
package typeclass

import (
	"reflect"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/number"
	"github.com/pathkit/jsonpath/internal/value"
)

// Other is invoked for the "other" predicate, letting a caller extend
// the classifier with domain-specific categories the engine itself
// doesn't know about.
type Other func(v any) bool

// Is reports whether v belongs to the named class. kind is one of
// token.TypeKinds; an unrecognized kind is never true.
func Is(v any, kind string, other Other) bool {
	switch kind {
	case "null":
		return v == nil
	case "undefined":
		_, ok := v.(evalbackend.Undefined)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		_, ok := number.ToFloat64(v)
		return ok
	case "integer":
		return number.IsInteger(v)
	case "nonFinite":
		return number.IsNonFinite(v)
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(*value.Object)
		return ok
	case "function":
		return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
	case "scalar":
		return isScalar(v)
	case "other":
		if other == nil {
			return false
		}
		return other(v)
	default:
		return false
	}
}

// isScalar reports whether v is anything other than an object, array,
// or callable, the tracer's residual "everything else" category.
func isScalar(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case *value.Object, []any:
		return false
	}
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return false
	}
	return true
}
