package number

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64AcceptsEveryNumericKind(t *testing.T) {
	cases := []any{
		int(3), int8(3), int16(3), int32(3), int64(3),
		uint(3), uint8(3), uint16(3), uint32(3), uint64(3),
		float32(3), float64(3), json.Number("3"),
	}
	for _, c := range cases {
		got, ok := ToFloat64(c)
		if !ok || got != 3 {
			t.Fatalf("ToFloat64(%#v) = (%v, %v), want (3, true)", c, got, ok)
		}
	}
}

func TestToFloat64RejectsNonNumeric(t *testing.T) {
	if _, ok := ToFloat64("3"); ok {
		t.Fatal("expected string to be rejected")
	}
	if _, ok := ToFloat64(nil); ok {
		t.Fatal("expected nil to be rejected")
	}
}

func TestToFloat64RejectsMalformedJSONNumber(t *testing.T) {
	if _, ok := ToFloat64(json.Number("not-a-number")); ok {
		t.Fatal("expected malformed json.Number to be rejected")
	}
}

func TestToStrictIntAcceptsIntegerKinds(t *testing.T) {
	got, err := ToStrictInt(int32(7))
	if err != nil || got != 7 {
		t.Fatalf("ToStrictInt(int32(7)) = (%d, %v), want (7, nil)", got, err)
	}
}

func TestToStrictIntRejectsFloat(t *testing.T) {
	if _, err := ToStrictInt(3.5); err == nil {
		t.Fatal("expected float64 to be rejected")
	}
}

func TestIsIntegerTrueForWholeNumbers(t *testing.T) {
	if !IsInteger(float64(4)) {
		t.Fatal("expected 4.0 to be an integer")
	}
	if IsInteger(4.5) {
		t.Fatal("expected 4.5 not to be an integer")
	}
	if IsInteger("4") {
		t.Fatal("expected non-numeric value not to be an integer")
	}
}

func TestIsNonFiniteDetectsNaNAndInf(t *testing.T) {
	if !IsNonFinite(math.NaN()) {
		t.Fatal("expected NaN to be non-finite")
	}
	if !IsNonFinite(math.Inf(1)) {
		t.Fatal("expected +Inf to be non-finite")
	}
	if IsNonFinite(float64(1)) {
		t.Fatal("expected 1.0 to be finite")
	}
	if IsNonFinite("nan") {
		t.Fatal("expected non-numeric value not to be non-finite")
	}
}
