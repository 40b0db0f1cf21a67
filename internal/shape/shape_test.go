package shape

import (
	"reflect"
	"testing"

	"github.com/pathkit/jsonpath/internal/pathelem"
	"github.com/pathkit/jsonpath/internal/trace"
)

func records() []trace.MatchRecord {
	return []trace.MatchRecord{
		{Path: []pathelem.Elem{pathelem.Name("a")}, Value: 1, Parent: "root", ParentProperty: "a"},
		{Path: []pathelem.Elem{pathelem.Name("b")}, Value: 2, Parent: "root", ParentProperty: "b", HasArrExpr: true},
	}
}

func TestParseDefaultsToValue(t *testing.T) {
	rt, err := Parse("")
	if err != nil || rt != Value {
		t.Fatalf("Parse(\"\") = %v, %v, want Value, nil", rt, err)
	}
}

func TestParseRejectsUnknownName(t *testing.T) {
	if _, err := Parse("bogus"); err == nil {
		t.Fatal("expected error for unknown result type")
	}
}

func TestShapeValueWrapped(t *testing.T) {
	got := Shape(records(), Options{ResultType: Value, Wrap: true})
	want := []any{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Shape = %v, want %v", got, want)
	}
}

func TestShapeUnwrapsSingleNonMultiMatch(t *testing.T) {
	single := records()[:1]
	got := Shape(single, Options{ResultType: Value, Wrap: false})
	if got != 1 {
		t.Fatalf("Shape = %v, want unwrapped 1", got)
	}
}

func TestShapeKeepsSequenceForMultiMatchEvenWhenSingleAndUnwrapRequested(t *testing.T) {
	single := records()[1:] // HasArrExpr = true
	got := Shape(single, Options{ResultType: Value, Wrap: false})
	want := []any{2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Shape = %v, want %v", got, want)
	}
}

func TestShapeEmptyWithoutWrapReturnsNotFoundSentinel(t *testing.T) {
	got := Shape(nil, Options{ResultType: Value, Wrap: false})
	if !IsNotFound(got) {
		t.Fatalf("Shape = %v, want not-found sentinel", got)
	}
}

func TestShapePathAndPointer(t *testing.T) {
	recs := []trace.MatchRecord{
		{Path: []pathelem.Elem{pathelem.Name("a"), pathelem.Idx(0)}, Value: "x"},
	}
	if got := Shape(recs, Options{ResultType: Path, Wrap: true}); !reflect.DeepEqual(got, []any{"$.a[0]"}) {
		t.Errorf("Path shape = %v", got)
	}
	if got := Shape(recs, Options{ResultType: Pointer, Wrap: true}); !reflect.DeepEqual(got, []any{"/a/0"}) {
		t.Errorf("Pointer shape = %v", got)
	}
}

func TestShapeAllMaterializesBothPaths(t *testing.T) {
	recs := []trace.MatchRecord{
		{Path: []pathelem.Elem{pathelem.Name("a")}, Value: "x", Parent: "root", ParentProperty: "a"},
	}
	got := Shape(recs, Options{ResultType: All, Wrap: true}).([]any)
	m := got[0].(Match)
	if m.Value != "x" || m.Path != "$.a" || m.Pointer != "/a" || m.ParentProperty != "a" {
		t.Fatalf("Match = %+v", m)
	}
}

func TestShapeFlattenSpreadsNestedArraysOneLevel(t *testing.T) {
	recs := []trace.MatchRecord{
		{Path: []pathelem.Elem{pathelem.Name("a")}, Value: []any{1, 2}},
		{Path: []pathelem.Elem{pathelem.Name("b")}, Value: 3},
	}
	got := Shape(recs, Options{ResultType: Value, Wrap: true, Flatten: true})
	want := []any{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Shape = %v, want %v", got, want)
	}
}

func TestShapeInvokesCallbackPerMatchWithKind(t *testing.T) {
	var kinds []string
	recs := []trace.MatchRecord{
		{Path: []pathelem.Elem{pathelem.Name("a")}, Value: "k", IsProperty: true},
		{Path: []pathelem.Elem{pathelem.Name("b")}, Value: 1},
	}
	Shape(recs, Options{ResultType: Value, Wrap: true, Callback: func(shaped any, kind string, record trace.MatchRecord) {
		kinds = append(kinds, kind)
	}})
	want := []string{"property", "value"}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
}
