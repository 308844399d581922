package vector

import (
	"math"
	"testing"
)

func TestSerialize_Format(t *testing.T) {
	cases := []struct {
		name string
		in   []float32
		want string
	}{
		{"nil", nil, "[]"},
		{"empty", []float32{}, "[]"},
		{"single", []float32{1}, "[1]"},
		{"several", []float32{0.5, -1.25, 3}, "[0.5,-1.25,3]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Serialize(tc.in); got != tc.want {
				t.Errorf("Serialize(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	v := []float32{0.0234375, -17.5, 1e-7, 42}
	if Serialize(v) != Serialize(append([]float32(nil), v...)) {
		t.Error("identical vectors serialize differently")
	}
}

func TestRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0},
		{1.5, -2.25, 0.125},
		{0.1, 0.2, 0.3}, // not exactly representable
		{float32(math.Pi), float32(-math.E), 1e-20, 1e20},
	}
	for _, v := range vectors {
		got, err := Parse(Serialize(v))
		if err != nil {
			t.Fatalf("parse failed for %v: %v", v, err)
		}
		if len(got) != len(v) {
			t.Fatalf("length mismatch: %d vs %d", len(got), len(v))
		}
		for i := range v {
			if got[i] != v[i] {
				t.Errorf("component %d: %v != %v", i, got[i], v[i])
			}
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, s := range []string{"", "1,2,3", "[1,2", "1,2]", "[a,b]", "[1,,2]"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty vector, got %v", got)
	}
}
