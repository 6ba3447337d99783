package model

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every ShapeMismatchError.
var ErrShapeMismatch = errors.New("shape mismatch")

// Dimension names reported by ShapeMismatchError.
const (
	DimInputSize      = "input_size"
	DimHiddenToHidden = "hidden_to_hidden"
	DimWeightIH       = "weight_ih"
	DimBiasIH         = "bias_ih"
	DimBiasHH         = "bias_hh"
	DimSequenceLength = "sequence_length"
)

// ShapeMismatchError reports which dimension disagreed and where.
// Index is the offending step or row, or -1 when the mismatch is not positional.
type ShapeMismatchError struct {
	Dim   string
	Index int
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("shape mismatch: %s at index %d: want %d, got %d", e.Dim, e.Index, e.Want, e.Got)
	}
	return fmt.Sprintf("shape mismatch: %s: want %d, got %d", e.Dim, e.Want, e.Got)
}

// Is lets errors.Is(err, ErrShapeMismatch) succeed.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

func mismatch(dim string, index, want, got int) error {
	return &ShapeMismatchError{Dim: dim, Index: index, Want: want, Got: got}
}
