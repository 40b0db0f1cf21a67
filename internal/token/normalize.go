package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Compile turns an expression string into its token list. The result
// always begins with a Root token. Compile is pure in its input string;
// see Cache for memoization.
func Compile(expr string) ([]Token, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' {
		return nil, fmt.Errorf("%w: expression must start with '$'", ErrSyntax)
	}

	tokens := []Token{{Kind: Root, Value: "$"}}

	s := &scanner{expr: expr, i: 1}
	for s.i < len(s.expr) {
		if err := s.step(&tokens); err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

type scanner struct {
	expr string
	i    int
}

// step consumes exactly one path step (or a run of "^" parent steps, or
// a descendant marker) starting at s.i, appending to tokens.
func (s *scanner) step(tokens *[]Token) error {
	c := s.expr[s.i]

	switch {
	case c == '.':
		return s.stepDot(tokens)
	case c == '[':
		return s.stepBracket(tokens)
	case c == '^':
		s.stepParentRun(tokens)
		return nil
	case c == '~':
		s.i++
		*tokens = append(*tokens, Token{Kind: Property, Value: "~"})
		return nil
	case c == '@':
		kind, next, ok := matchTypePredicate(s.expr, s.i)
		if !ok {
			return fmt.Errorf("%w: unexpected '@' at position %d", ErrSyntax, s.i)
		}
		s.i = next
		*tokens = append(*tokens, Token{Kind: TypePredicate, Value: kind})
		return nil
	default:
		return fmt.Errorf("%w: unexpected character %q at position %d", ErrSyntax, c, s.i)
	}
}

func (s *scanner) stepDot(tokens *[]Token) error {
	// ".." (or a run of 3+ dots, collapsed to one descendant marker).
	if s.i+1 < len(s.expr) && s.expr[s.i+1] == '.' {
		j := s.i
		for j < len(s.expr) && s.expr[j] == '.' {
			j++
		}
		s.i = j
		*tokens = append(*tokens, Token{Kind: Descendant, Value: ".."})

		if s.i >= len(s.expr) {
			return nil
		}
		// A descendant marker may be immediately followed by another step
		// with no separator of its own, e.g. "$..*" or "$..[0]" or "$..^".
		return s.stepAfterDescendant(tokens)
	}

	s.i++ // consume single '.'
	if s.i >= len(s.expr) {
		return fmt.Errorf("%w: path cannot end with '.'", ErrSyntax)
	}
	return s.stepAfterDescendant(tokens)
}

// stepAfterDescendant parses the step that follows a '.' or '..'
// separator: wildcard, literal property, parent run, property selector,
// a bracket step, or a plain name.
func (s *scanner) stepAfterDescendant(tokens *[]Token) error {
	c := s.expr[s.i]
	switch {
	case c == '*':
		s.i++
		*tokens = append(*tokens, Token{Kind: Wildcard, Value: "*"})
		return nil
	case c == '`':
		return s.stepLiteralProperty(tokens)
	case c == '^':
		s.stepParentRun(tokens)
		return nil
	case c == '~':
		s.i++
		*tokens = append(*tokens, Token{Kind: Property, Value: "~"})
		return nil
	case c == '[':
		return s.stepBracket(tokens)
	case c == '@':
		kind, next, ok := matchTypePredicate(s.expr, s.i)
		if !ok {
			return fmt.Errorf("%w: unexpected '@' at position %d", ErrSyntax, s.i)
		}
		s.i = next
		*tokens = append(*tokens, Token{Kind: TypePredicate, Value: kind})
		return nil
	default:
		name, next, err := parseName(s.expr, s.i)
		if err != nil {
			return err
		}
		s.i = next
		*tokens = append(*tokens, Token{Kind: Name, Value: name})
		return nil
	}
}

func (s *scanner) stepLiteralProperty(tokens *[]Token) error {
	s.i++ // consume '`'
	start := s.i
	for s.i < len(s.expr) && s.expr[s.i] != '.' && s.expr[s.i] != '[' {
		s.i++
	}
	if s.i == start {
		return fmt.Errorf("%w: literal property name cannot be empty after '`'", ErrSyntax)
	}
	*tokens = append(*tokens, Token{Kind: LiteralProperty, Value: s.expr[start:s.i]})
	return nil
}

func (s *scanner) stepParentRun(tokens *[]Token) {
	for s.i < len(s.expr) && s.expr[s.i] == '^' {
		s.i++
		*tokens = append(*tokens, Token{Kind: Parent, Value: "^"})
	}
}

func parseName(expr string, i int) (string, int, error) {
	start := i
	for i < len(expr) && isNameRune(expr[i]) {
		i++
	}
	if start == i {
		return "", i, fmt.Errorf("%w: empty name at position %d", ErrSyntax, start)
	}
	return expr[start:i], i, nil
}

func isNameRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '_' || b == '-'
}

func (s *scanner) stepBracket(tokens *[]Token) error {
	open := s.i
	s.i++ // consume '['
	if s.i >= len(s.expr) {
		return fmt.Errorf("%w: unterminated '[' at position %d", ErrSyntax, open)
	}

	if s.expr[s.i] == '?' && s.i+1 < len(s.expr) && s.expr[s.i+1] == '(' {
		return s.stepFilterOrScript(tokens, open, Filter, "?(")
	}
	if s.expr[s.i] == '(' {
		return s.stepFilterOrScript(tokens, open, Script, "(")
	}

	return s.stepUnionOrIndex(tokens, open)
}

func (s *scanner) stepFilterOrScript(tokens *[]Token, open int, kind Kind, prefix string) error {
	end := findMatchingBracket(s.expr, open)
	if end == -1 {
		return fmt.Errorf("%w: unterminated bracket expression starting at position %d", ErrSyntax, open)
	}

	inner := s.expr[open+1 : end] // between '[' and ']', e.g. `?(@.a>1)` or `(@.length-1)`
	if !strings.HasPrefix(inner, prefix) || !strings.HasSuffix(inner, ")") {
		return fmt.Errorf("%w: malformed %s expression '[%s]'", ErrSyntax, kind, inner)
	}

	body := inner[len(prefix) : len(inner)-1]
	*tokens = append(*tokens, Token{Kind: kind, Value: strings.TrimSpace(body)})
	s.i = end + 1
	return nil
}

func (s *scanner) stepUnionOrIndex(tokens *[]Token, open int) error {
	end, err := scanBracketContentEnd(s.expr, s.i)
	if err != nil {
		return err
	}
	content := s.expr[s.i:end]
	s.i = end + 1

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fmt.Errorf("%w: empty bracket selector starting at position %d", ErrSyntax, open)
	}

	parts := splitTopLevelCommas(trimmed)
	if len(parts) > 1 {
		*tokens = append(*tokens, Token{Kind: Union, Value: trimmed})
		return nil
	}

	*tokens = append(*tokens, classifyBracketPart(strings.TrimSpace(parts[0])))
	return nil
}

func classifyBracketPart(part string) Token {
	if part == "*" {
		return Token{Kind: Wildcard, Value: "*"}
	}
	if isQuoted(part) {
		return Token{Kind: Name, Value: part[1 : len(part)-1]}
	}
	if strings.Contains(part, ":") {
		return Token{Kind: Slice, Value: part}
	}
	return Token{Kind: Index, Value: part}
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"')
}

// findMatchingBracket returns the index of the ']' that closes the '['
// at position start, skipping over quoted strings so a property name
// like "a]b" inside quotes doesn't end the scan early. Bracket depth is
// tracked so a nested "[...]" inside a filter or script body (e.g.
// "[?(@.tags[0]=='x')]") is consumed as part of the body rather than
// closing the outer bracket.
func findMatchingBracket(expr string, start int) int {
	if start >= len(expr) || expr[start] != '[' {
		return -1
	}

	depth := 0
	var quote byte

	for i := start; i < len(expr); i++ {
		c := expr[i]

		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// scanBracketContentEnd finds the unquoted ']' closing a union/slice/
// index bracket whose content never itself contains '['.
func scanBracketContentEnd(expr string, start int) (int, error) {
	var quote byte
	for i := start; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ']':
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unterminated '[' at position %d", ErrSyntax, start)
}

// splitTopLevelCommas splits on commas that are not inside a quoted
// string, e.g. `'a,b',c` -> ["'a,b'", "c"].
func splitTopLevelCommas(s string) []string {
	var parts []string
	var b strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}

func matchTypePredicate(expr string, i int) (kind string, next int, ok bool) {
	if expr[i] != '@' {
		return "", i, false
	}
	rest := expr[i+1:]
	for _, k := range TypeKinds {
		if strings.HasPrefix(rest, k+"()") {
			return k, i + 1 + len(k) + 2, true
		}
	}
	return "", i, false
}

// SplitUnion splits a Union token's raw value into its alternative
// steps, classifying each one the same way a single bracket selector
// would be classified at compile time. The tracer calls this once per
// Union token it dispatches, per the normalizer/tracer split described
// for union handling.
func SplitUnion(raw string) []Token {
	parts := splitTopLevelCommas(raw)
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		tokens = append(tokens, classifyBracketPart(strings.TrimSpace(part)))
	}
	return tokens
}

// ParseInt is a small helper so callers of Index/Slice tokens don't each
// reimplement signed-int parsing with the same error wrapping.
func ParseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrSyntax, s)
	}
	return v, nil
}
