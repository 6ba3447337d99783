package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Elman is a single-layer tanh recurrent unit backed by explicit Params.
type Elman struct {
	params *Params
}

// NewElman validates p and wraps it. p is read, never written.
func NewElman(p *Params) (*Elman, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Elman{params: p}, nil
}

// InputSize implements Recurrence.
func (e *Elman) InputSize() int { return e.params.InputSize() }

// HiddenSize implements Recurrence.
func (e *Elman) HiddenSize() int { return e.params.HiddenSize() }

// Compute implements Recurrence.
func (e *Elman) Compute(seq Sequence) (Trajectory, error) {
	return Compute(e.params, seq)
}

// Compute folds the recurrence h_t = tanh(W_ih·x_t + b_ih + W_hh·h_{t-1} + b_hh)
// over seq, starting from the zero state. All shapes are checked before any
// arithmetic; on error no trajectory is returned.
func Compute(p *Params, seq Sequence) (Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := CheckSequence(p, seq); err != nil {
		return nil, err
	}

	state := ZeroState(p.HiddenSize())
	out := make(Trajectory, len(seq))
	for t, x := range seq {
		y, next := step(p, x, state)
		out[t] = y
		state = next
	}
	return out, nil
}

// Step advances the recurrence by one input. It returns the emitted output
// and the state to feed into the following step.
func Step(p *Params, x []float64, prev HiddenState) ([]float64, HiddenState, error) {
	if err := p.Validate(); err != nil {
		return nil, HiddenState{}, err
	}
	if len(x) != p.InputSize() {
		return nil, HiddenState{}, mismatch(DimInputSize, -1, p.InputSize(), len(x))
	}
	if prev.vec == nil {
		prev = ZeroState(p.HiddenSize())
	} else if prev.vec.Len() != p.HiddenSize() {
		return nil, HiddenState{}, mismatch(DimHiddenToHidden, -1, p.HiddenSize(), prev.vec.Len())
	}
	y, next := step(p, x, prev)
	return y, next, nil
}

// CheckSequence verifies seq is non-empty and every step has InputSize values.
func CheckSequence(p *Params, seq Sequence) error {
	if len(seq) == 0 {
		return mismatch(DimSequenceLength, -1, 1, 0)
	}
	want := p.InputSize()
	for t, x := range seq {
		if len(x) != want {
			return mismatch(DimInputSize, t, want, len(x))
		}
	}
	return nil
}

func step(p *Params, x []float64, prev HiddenState) ([]float64, HiddenState) {
	hidden := p.HiddenSize()

	// raw = W_ih·x + b_ih
	combined := mat.NewVecDense(hidden, nil)
	combined.MulVec(p.WeightIH, mat.NewVecDense(len(x), x))
	combined.AddVec(combined, p.BiasIH)

	var recurrent mat.VecDense
	recurrent.MulVec(p.WeightHH, prev.vec)
	combined.AddVec(combined, &recurrent)
	combined.AddVec(combined, p.BiasHH)

	y := make([]float64, hidden)
	for i := range y {
		y[i] = math.Tanh(combined.AtVec(i))
	}
	next := mat.NewVecDense(hidden, append([]float64(nil), y...))
	return y, HiddenState{vec: next}
}
