// Package token implements the path normalizer (the engine's C1
// component): it turns an expression string into a flat sequence of
// tagged steps the tracer can consume one at a time, and memoizes that
// work per expression text.
//
// Tokens are a tagged variant rather than a string with a sentinel
// prefix: the normalizer already knows what kind of step it scanned,
// so the tracer never has to re-sniff a string to find out.
package token

import "fmt"

// Kind tags the shape of a single compiled path step.
type Kind uint8

const (
	Root           Kind = iota // "$"
	Name                       // a literal property name
	Index                      // an array index, kept as text (e.g. "-1")
	Wildcard                   // "*"
	Descendant                 // ".."
	Parent                     // "^"
	Property                   // "~"
	Slice                      // "start:end:step"
	Union                      // "a,b,c", the tracer splits on commas
	Filter                     // "?(...)", Value holds the inner expression text
	Script                     // "(...)", Value holds the inner expression text
	TypePredicate              // "@kind()", Value holds the bare kind name
	LiteralProperty            // "`name", follow literally, no operator interpretation
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Name:
		return "name"
	case Index:
		return "index"
	case Wildcard:
		return "wildcard"
	case Descendant:
		return "descendant"
	case Parent:
		return "parent"
	case Property:
		return "property"
	case Slice:
		return "slice"
	case Union:
		return "union"
	case Filter:
		return "filter"
	case Script:
		return "script"
	case TypePredicate:
		return "typePredicate"
	case LiteralProperty:
		return "literalProperty"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is one compiled path step.
type Token struct {
	Kind  Kind
	Value string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// TypeKinds lists the classifier names recognized by "@<kind>()" steps,
// longest-prefix-safe order doesn't matter since each is matched whole.
var TypeKinds = []string{
	"null", "boolean", "number", "string", "integer",
	"undefined", "nonFinite", "scalar", "array", "object",
	"function", "other",
}
