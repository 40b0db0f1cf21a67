package token

import (
	"errors"
	"testing"
)

func TestCompileSimpleDotPath(t *testing.T) {
	got, err := Compile("$.a.b.c")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Name, "b"},
		{Name, "c"},
	}
	assertTokens(t, got, want)
}

func TestCompileBracketIndexAndSlice(t *testing.T) {
	got, err := Compile("$.a[1:4]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Slice, "1:4"},
	}
	assertTokens(t, got, want)
}

func TestCompileNegativeIndex(t *testing.T) {
	got, err := Compile("$.a[-1]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Index, "-1"},
	}
	assertTokens(t, got, want)
}

func TestCompileFilterExpression(t *testing.T) {
	got, err := Compile("$.x[?(@.n>1)].n")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "x"},
		{Filter, "@.n>1"},
		{Name, "n"},
	}
	assertTokens(t, got, want)
}

func TestCompileScriptExpression(t *testing.T) {
	got, err := Compile("$.a[(@.length-1)]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Script, "@.length-1"},
	}
	assertTokens(t, got, want)
}

func TestCompileDescendant(t *testing.T) {
	got, err := Compile("$..b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Descendant, ".."},
		{Name, "b"},
	}
	assertTokens(t, got, want)
}

func TestCompileDescendantWildcardNoSeparator(t *testing.T) {
	got, err := Compile("$..*")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Descendant, ".."},
		{Wildcard, "*"},
	}
	assertTokens(t, got, want)
}

func TestCompileDescendantBracketNoSeparator(t *testing.T) {
	got, err := Compile("$..[0]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Descendant, ".."},
		{Index, "0"},
	}
	assertTokens(t, got, want)
}

func TestCompileParentRunExplodes(t *testing.T) {
	got, err := Compile("$.a.b.c.d.^^")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Name, "b"},
		{Name, "c"},
		{Name, "d"},
		{Parent, "^"},
		{Parent, "^"},
	}
	assertTokens(t, got, want)
}

func TestCompilePropertySelector(t *testing.T) {
	got, err := Compile("$.k~")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "k"},
		{Property, "~"},
	}
	assertTokens(t, got, want)
}

func TestCompileUnionOfQuotedNames(t *testing.T) {
	got, err := Compile("$['a','c']")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Union, "'a','c'"},
	}
	assertTokens(t, got, want)
}

func TestCompileSingleQuotedNameIsNameNotUnion(t *testing.T) {
	got, err := Compile("$['a']")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
	}
	assertTokens(t, got, want)
}

func TestCompileTypePredicate(t *testing.T) {
	got, err := Compile("$.a@string()")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{TypePredicate, "string"},
	}
	assertTokens(t, got, want)
}

func TestCompileLiteralBacktickProperty(t *testing.T) {
	got, err := Compile("$.a.`weird.name")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{LiteralProperty, "weird.name"},
	}
	assertTokens(t, got, want)
}

func TestCompileNestedFilterBrackets(t *testing.T) {
	got, err := Compile("$.x[?(@.tags[0]=='a')]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "x"},
		{Filter, "@.tags[0]=='a'"},
	}
	assertTokens(t, got, want)
}

func TestCompileWildcard(t *testing.T) {
	got, err := Compile("$.a[*]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []Token{
		{Root, "$"},
		{Name, "a"},
		{Wildcard, "*"},
	}
	assertTokens(t, got, want)
}

func TestCompileRejectsEmptyExpression(t *testing.T) {
	if _, err := Compile(""); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile(\"\") error = %v, want ErrSyntax", err)
	}
}

func TestCompileRejectsMissingRoot(t *testing.T) {
	if _, err := Compile("a.b"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestCompileRejectsUnterminatedBracket(t *testing.T) {
	if _, err := Compile("$.a[0"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestCompileRejectsUnterminatedFilter(t *testing.T) {
	if _, err := Compile("$.a[?(@.b>1]"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestCompileRejectsTrailingDot(t *testing.T) {
	if _, err := Compile("$.a."); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestCompileRejectsEmptyBracket(t *testing.T) {
	if _, err := Compile("$.a[]"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestParseIntWrapsErrSyntax(t *testing.T) {
	if _, err := ParseInt("nope"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("ParseInt error = %v, want ErrSyntax", err)
	}
	v, err := ParseInt("-3")
	if err != nil || v != -3 {
		t.Fatalf("ParseInt(-3) = (%d, %v), want (-3, nil)", v, err)
	}
}

func assertTokens(t *testing.T, got, want []Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}
