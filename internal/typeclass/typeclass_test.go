package typeclass

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/value"
)

func TestIsFixedCategories(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", 1)

	tests := []struct {
		name string
		v    any
		kind string
		want bool
	}{
		{"null_is_null", nil, "null", true},
		{"zero_is_not_null", float64(0), "null", false},
		{"undefined", evalbackend.Undefined{}, "undefined", true},
		{"nil_is_not_undefined", nil, "undefined", false},
		{"boolean_true", true, "boolean", true},
		{"boolean_wrong_type", "true", "boolean", false},
		{"string", "hi", "string", true},
		{"number_float", float64(1.5), "number", true},
		{"number_json", json.Number("42"), "number", true},
		{"integer_exact", float64(3), "integer", true},
		{"integer_fraction", float64(3.5), "integer", false},
		{"non_finite_inf", math.Inf(1), "nonFinite", true},
		{"non_finite_normal", float64(1), "nonFinite", false},
		{"array", []any{1, 2}, "array", true},
		{"object", obj, "object", true},
		{"object_wrong", []any{}, "object", false},
		{"scalar_string", "x", "scalar", true},
		{"scalar_object_is_not_scalar", obj, "scalar", false},
		{"scalar_array_is_not_scalar", []any{}, "scalar", false},
		{"scalar_null_is_scalar", nil, "scalar", true},
		{"unknown_kind", "x", "not-a-kind", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.v, tt.kind, nil); got != tt.want {
				t.Errorf("Is(%#v, %q) = %v, want %v", tt.v, tt.kind, got, tt.want)
			}
		})
	}
}

func TestIsOtherDelegatesToCallback(t *testing.T) {
	called := false
	other := func(v any) bool {
		called = true
		return v == "special"
	}

	if !Is("special", "other", other) {
		t.Fatal("Is(other) = false, want true")
	}
	if !called {
		t.Fatal("other classifier was not invoked")
	}

	if Is("special", "other", nil) {
		t.Fatal("Is(other) with nil classifier should be false")
	}
}
