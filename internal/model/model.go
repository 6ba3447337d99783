package model

import "gonum.org/v1/gonum/mat"

// Sequence is an ordered list of input steps, each a vector of InputSize values.
type Sequence [][]float64

// Trajectory holds one output vector per time step, in step order.
type Trajectory [][]float64

// Len returns the number of steps in the trajectory.
func (t Trajectory) Len() int {
	return len(t)
}

// HiddenState is the vector carried from step t-1 into step t.
// It is kept separate from the emitted output so gated units can diverge.
type HiddenState struct {
	vec *mat.VecDense
}

// ZeroState returns the initial hidden state of the given size.
func ZeroState(hiddenSize int) HiddenState {
	return HiddenState{vec: mat.NewVecDense(hiddenSize, nil)}
}

// Values returns a copy of the state vector.
func (h HiddenState) Values() []float64 {
	if h.vec == nil {
		return nil
	}
	out := make([]float64, h.vec.Len())
	copy(out, h.vec.RawVector().Data)
	return out
}

// Recurrence defines the minimal forward functionality required by the verifier.
type Recurrence interface {
	InputSize() int
	HiddenSize() int
	Compute(seq Sequence) (Trajectory, error)
}
