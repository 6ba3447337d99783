package model

import (
	"errors"
	"testing"
)

func TestNewParamsShapeErrors(t *testing.T) {
	ok2x3 := [][]float64{{1, 2, 3}, {4, 5, 6}}
	ok2x2 := [][]float64{{1, 0}, {0, 1}}
	for _, tc := range []struct {
		name string
		wih  [][]float64
		whh  [][]float64
		bih  []float64
		bhh  []float64
		dim  string
	}{
		{"ragged weight_ih", [][]float64{{1, 2, 3}, {4, 5}}, ok2x2, []float64{0, 0}, []float64{0, 0}, DimWeightIH},
		{"empty weight_ih", nil, ok2x2, []float64{0, 0}, []float64{0, 0}, DimWeightIH},
		{"non-square weight_hh", ok2x3, [][]float64{{1, 0, 0}, {0, 1, 0}}, []float64{0, 0}, []float64{0, 0}, DimHiddenToHidden},
		{"weight_hh wrong size", ok2x3, [][]float64{{1}}, []float64{0, 0}, []float64{0, 0}, DimHiddenToHidden},
		{"bias_ih length", ok2x3, ok2x2, []float64{0}, []float64{0, 0}, DimBiasIH},
		{"bias_hh length", ok2x3, ok2x2, []float64{0, 0}, []float64{0, 0, 0}, DimBiasHH},
	} {
		_, err := NewParams(tc.wih, tc.whh, tc.bih, tc.bhh)
		var sm *ShapeMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("%s: expected ShapeMismatchError, got %v", tc.name, err)
		}
		if sm.Dim != tc.dim {
			t.Fatalf("%s: dim=%s want %s", tc.name, sm.Dim, tc.dim)
		}
	}
}

func TestParamsRowsRoundTrip(t *testing.T) {
	wih := [][]float64{{1, 2, 3}, {4, 5, 6}}
	whh := [][]float64{{0.5, -0.5}, {0.25, 0}}
	p, err := NewParams(wih, whh, []float64{0.1, 0.2}, []float64{-0.1, -0.2})
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	if p.InputSize() != 3 || p.HiddenSize() != 2 {
		t.Fatalf("unexpected sizes input=%d hidden=%d", p.InputSize(), p.HiddenSize())
	}
	gotIH, gotHH, bih, bhh := p.Rows()
	if !equalRows(gotIH, wih) || !equalRows(gotHH, whh) {
		t.Fatalf("rows changed: %v %v", gotIH, gotHH)
	}
	if bih[1] != 0.2 || bhh[0] != -0.1 {
		t.Fatalf("biases changed: %v %v", bih, bhh)
	}

	// NewParams copies its inputs.
	wih[0][0] = 99
	if p.WeightIH.At(0, 0) != 1 {
		t.Fatalf("params alias caller slices")
	}
}

func TestValidateNilParams(t *testing.T) {
	var p *Params
	if err := p.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := Compute(nil, Sequence{{1}}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch from Compute, got %v", err)
	}
}

func TestNewRandomParamsSeeded(t *testing.T) {
	a := NewRandomParams(3, 4, 7)
	b := NewRandomParams(3, 4, 7)
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ra, _, _, _ := a.Rows()
	rb, _, _, _ := b.Rows()
	if !equalRows(ra, rb) {
		t.Fatalf("same seed produced different weights")
	}
	for _, row := range ra {
		for _, v := range row {
			if v < -0.5 || v > 0.5 {
				t.Fatalf("weight %v outside U(-1/sqrt(4), 1/sqrt(4))", v)
			}
		}
	}
}
