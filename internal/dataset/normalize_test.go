package dataset

import (
	"math"
	"testing"
)

func TestMinMaxGlobalAcrossSeries(t *testing.T) {
	a := Series{Features: [][]float64{{0, 5}, {2, 5}}}
	b := Series{Features: [][]float64{{-2, 5}, {6, 5}}}
	mm, err := FitMinMax([]Series{a, b})
	if err != nil {
		t.Fatalf("FitMinMax: %v", err)
	}
	if mm.Min[0] != -2 || mm.Max[0] != 6 {
		t.Fatalf("unexpected extrema %v %v", mm.Min, mm.Max)
	}
	if mm.Max[1] != 5+zeroVarianceEpsilon {
		t.Fatalf("zero variance column not widened: %v", mm.Max[1])
	}

	scaled := mm.Apply(b)
	if scaled.Features[0][0] != 0 || scaled.Features[1][0] != 1 {
		t.Fatalf("unexpected scaling %v", scaled.Features)
	}
	if scaled.Features[0][1] != 0 {
		t.Fatalf("constant column should map to 0, got %v", scaled.Features[0][1])
	}
	if b.Features[0][0] != -2 {
		t.Fatalf("Apply modified its input")
	}
	for _, row := range mm.Apply(a).Features {
		for _, v := range row {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("scaled value %v outside [0, 1]", v)
			}
		}
	}
}

func TestFitMinMaxErrors(t *testing.T) {
	if _, err := FitMinMax(nil); err == nil {
		t.Fatal("expected error for no data")
	}
	if _, err := FitMinMax([]Series{{Features: [][]float64{{1, 2}, {3}}}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}
