package token

import "errors"

// ErrSyntax indicates the expression's bracket/quote/parenthetical
// structure is corrupt enough that no token list can be produced: an
// unterminated "[", an unterminated quote, or an unbalanced "?(...)"/
// "(...)" slot. Anything less structural (an unknown property name, a
// step that will never match) is not rejected here; it surfaces later as
// an empty trace result, per the normalizer's best-effort contract.
var ErrSyntax = errors.New("jsonpath: syntax error")
