package formula

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		formula string
		want    Counts
	}{
		{"C6H12O6", Counts{C: 6, H: 12, O: 6}},
		{"CH4", Counts{C: 1, H: 4}},
		{"H2O", Counts{H: 2, O: 1}},
		{"C10H16N5O13P3", Counts{C: 10, H: 16, N: 5, O: 13, P: 3}},
		{"C3H7NO2S", Counts{C: 3, H: 7, N: 1, O: 2, S: 1}},
		// Elements outside the descriptor set are ignored
		{"NaCl", Counts{}},
		{"C2H3NaO2", Counts{C: 2, H: 3, O: 2}},
		{"", Counts{}},
	}
	for _, tc := range tests {
		got := Parse(tc.formula)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.formula, diff)
		}
	}
}

func TestHCRatio(t *testing.T) {
	r := Parse("C6H12O6").HCRatio()
	if math.Abs(r-2.0) > 1e-12 {
		t.Errorf("HCRatio: %f, should be 2.0", r)
	}
	if !math.IsNaN(Parse("H2O").HCRatio()) {
		t.Errorf("HCRatio: should be NaN without carbon")
	}
}

func TestHeteroatoms(t *testing.T) {
	n := Parse("C10H16N5O13P3").Heteroatoms()
	if n != 21 {
		t.Errorf("Heteroatoms: %d, should be 21", n)
	}
	if Parse("CH4").Heteroatoms() != 0 {
		t.Errorf("Heteroatoms: should be 0 for methane")
	}
}
