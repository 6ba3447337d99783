package dataset

import (
	"math"
	"testing"
)

func TestDownsampleBinMeans(t *testing.T) {
	sig := Signal{
		Time:  []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 9},
		Value: []float64{1, 3, 5, 7, 9, 11, 13, 15, 17, 100},
	}
	axis, means, err := Downsample(0, 4, sig, 4)
	if err != nil {
		t.Fatalf("Downsample: %v", err)
	}
	wantAxis := []float64{0, 4.0 / 3, 8.0 / 3, 4}
	for i := range wantAxis {
		if math.Abs(axis[i]-wantAxis[i]) > 1e-12 {
			t.Fatalf("axis[%d]=%v want %v", i, axis[i], wantAxis[i])
		}
	}
	// bins [0,1], (1,2], (2,3], (3,4]; t=9 is outside the range
	want := []float64{3, 8, 12, 16}
	for i := range want {
		if means[i] != want[i] {
			t.Fatalf("means[%d]=%v want %v", i, means[i], want[i])
		}
	}
}

func TestDownsampleEmptyBinsCarryForward(t *testing.T) {
	sig := Signal{Time: []float64{2.5}, Value: []float64{4}}
	_, means, err := Downsample(0, 4, sig, 4)
	if err != nil {
		t.Fatalf("Downsample: %v", err)
	}
	want := []float64{0, 0, 4, 4}
	for i := range want {
		if means[i] != want[i] {
			t.Fatalf("means[%d]=%v want %v", i, means[i], want[i])
		}
	}
}

func TestDownsampleAndMerge(t *testing.T) {
	signals := map[string]Signal{
		"IPLA": {Time: []float64{0, 1, 2}, Value: []float64{2, 2, 2}},
	}
	s, err := DownsampleAndMerge("shot", 0, 2, signals, []string{"IPLA", "RNT"}, 2)
	if err != nil {
		t.Fatalf("DownsampleAndMerge: %v", err)
	}
	if s.Len() != 2 || len(s.Time) != 2 {
		t.Fatalf("unexpected shape %d/%d", s.Len(), len(s.Time))
	}
	for _, row := range s.Features {
		if row[0] != 2 || row[1] != 0 {
			t.Fatalf("unexpected row %v", row)
		}
	}
}

func TestDownsampleRejectsBadArgs(t *testing.T) {
	if _, _, err := Downsample(0, 1, Signal{}, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, _, err := Downsample(1, 1, Signal{}, 2); err == nil {
		t.Fatal("expected error for empty range")
	}
	if _, _, err := Downsample(0, 1, Signal{Time: []float64{0}}, 2); err == nil {
		t.Fatal("expected error for mismatched signal")
	}
	if _, err := DownsampleAndMerge("x", 0, 1, map[string]Signal{}, []string{"a"}, -1); err == nil {
		t.Fatal("expected error for negative length")
	}
	if _, err := DownsampleAndMerge("x", 0, 1, map[string]Signal{}, nil, 2); err == nil {
		t.Fatal("expected error without keys")
	}
}

func TestResampleSeries(t *testing.T) {
	s := Series{
		ID:       "shot.csv",
		Root:     "r",
		Time:     []float64{0, 1, 2, 3},
		Features: [][]float64{{1, 10}, {3, 30}, {5, 50}, {7, 70}},
		Targets:  []float64{0, 0, 1, 1},
	}
	got, err := Resample(s, []string{"IPLA", "RNT"}, 2)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if got.ID != "shot.csv" || got.Root != "r" || got.Len() != 2 {
		t.Fatalf("unexpected series %+v", got)
	}
	// bins [0,1.5] and (1.5,3]
	want := [][]float64{{2, 20}, {6, 60}}
	for i := range want {
		if got.Features[i][0] != want[i][0] || got.Features[i][1] != want[i][1] {
			t.Fatalf("row %d = %v want %v", i, got.Features[i], want[i])
		}
	}
	if got.Targets[0] != 0 || got.Targets[1] != 1 {
		t.Fatalf("unexpected targets %v", got.Targets)
	}
	if got.Time[0] != 0 || got.Time[1] != 3 {
		t.Fatalf("unexpected axis %v", got.Time)
	}
}

func TestResampleRejectsBadSeries(t *testing.T) {
	if _, err := Resample(Series{ID: "x"}, []string{"a"}, 2); err == nil {
		t.Fatal("expected error for empty series")
	}
	s := Series{ID: "x", Time: []float64{0, 1}, Features: [][]float64{{1}, {2}}}
	if _, err := Resample(s, []string{"a", "b"}, 2); err == nil {
		t.Fatal("expected error for key count mismatch")
	}
	one := Series{ID: "x", Time: []float64{0}, Features: [][]float64{{1}}}
	if _, err := Resample(one, []string{"a"}, 2); err == nil {
		t.Fatal("expected error for a single time stamp")
	}
}
