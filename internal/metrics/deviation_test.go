package metrics

import (
	"math"
	"testing"
)

func TestCompareWithinTolerance(t *testing.T) {
	got := [][]float64{{0.1, 0.2}, {0.3, 0.4}}
	want := [][]float64{{0.1, 0.2000001}, {0.3, 0.4}}
	dev, err := Compare(got, want, 1e-6)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !dev.Within || dev.FirstExceeded != -1 {
		t.Fatalf("expected within tolerance, got %+v", dev)
	}
	if math.Abs(dev.MaxAbs-1e-7) > 1e-12 || dev.WorstStep != 0 {
		t.Fatalf("unexpected max %g at %d", dev.MaxAbs, dev.WorstStep)
	}
	if math.Abs(dev.MeanAbs-2.5e-8) > 1e-12 {
		t.Fatalf("unexpected mean %g", dev.MeanAbs)
	}
}

func TestCompareReportsFirstExceeded(t *testing.T) {
	got := [][]float64{{0}, {0.5}, {1}, {0}}
	want := [][]float64{{0}, {0.4}, {0}, {0}}
	dev, err := Compare(got, want, 1e-3)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if dev.Within || dev.FirstExceeded != 1 || dev.WorstStep != 2 || dev.MaxAbs != 1 {
		t.Fatalf("unexpected deviation %+v", dev)
	}
}

func TestCompareNaN(t *testing.T) {
	dev, err := Compare([][]float64{{math.NaN()}}, [][]float64{{0}}, 1)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if dev.Within || !math.IsInf(dev.MaxAbs, 1) {
		t.Fatalf("NaN should exceed tolerance, got %+v", dev)
	}
}

func TestCompareShapeErrors(t *testing.T) {
	if _, err := Compare([][]float64{{1}}, nil, 1); err == nil {
		t.Fatal("expected step count error")
	}
	if _, err := Compare([][]float64{{1, 2}}, [][]float64{{1}}, 1); err == nil {
		t.Fatal("expected width error")
	}
}
