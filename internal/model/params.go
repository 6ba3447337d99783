package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Params are the trained weights of a single-layer Elman unit.
// WeightIH is hidden x input, WeightHH is hidden x hidden.
type Params struct {
	WeightIH *mat.Dense
	WeightHH *mat.Dense
	BiasIH   *mat.VecDense
	BiasHH   *mat.VecDense
}

// NewParams builds Params from row-major slices and validates their shapes.
func NewParams(weightIH, weightHH [][]float64, biasIH, biasHH []float64) (*Params, error) {
	wih, err := denseFromRows(DimWeightIH, weightIH, 0)
	if err != nil {
		return nil, err
	}
	hidden, _ := wih.Dims()
	whh, err := denseFromRows(DimHiddenToHidden, weightHH, hidden)
	if err != nil {
		return nil, err
	}
	if len(biasIH) != hidden {
		return nil, mismatch(DimBiasIH, -1, hidden, len(biasIH))
	}
	if len(biasHH) != hidden {
		return nil, mismatch(DimBiasHH, -1, hidden, len(biasHH))
	}
	p := &Params{
		WeightIH: wih,
		WeightHH: whh,
		BiasIH:   mat.NewVecDense(hidden, append([]float64(nil), biasIH...)),
		BiasHH:   mat.NewVecDense(hidden, append([]float64(nil), biasHH...)),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRandomParams draws weights and biases from U(-k, k) with k = 1/sqrt(hiddenSize),
// the default initialisation of common recurrent layer implementations.
func NewRandomParams(inputSize, hiddenSize int, seed int64) *Params {
	if inputSize <= 0 {
		inputSize = 1
	}
	if hiddenSize <= 0 {
		hiddenSize = 1
	}
	rng := rand.New(rand.NewSource(seed))
	k := 1 / math.Sqrt(float64(hiddenSize))
	draw := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = (rng.Float64()*2 - 1) * k
		}
		return out
	}
	return &Params{
		WeightIH: mat.NewDense(hiddenSize, inputSize, draw(hiddenSize*inputSize)),
		WeightHH: mat.NewDense(hiddenSize, hiddenSize, draw(hiddenSize*hiddenSize)),
		BiasIH:   mat.NewVecDense(hiddenSize, draw(hiddenSize)),
		BiasHH:   mat.NewVecDense(hiddenSize, draw(hiddenSize)),
	}
}

// InputSize returns the expected length of each input step.
func (p *Params) InputSize() int {
	if p == nil || p.WeightIH == nil {
		return 0
	}
	_, c := p.WeightIH.Dims()
	return c
}

// HiddenSize returns the length of the hidden state and of each output.
func (p *Params) HiddenSize() int {
	if p == nil || p.WeightIH == nil {
		return 0
	}
	r, _ := p.WeightIH.Dims()
	return r
}

// Validate checks that all four tensors agree on hidden_size.
func (p *Params) Validate() error {
	if p == nil || p.WeightIH == nil {
		return mismatch(DimWeightIH, -1, 1, 0)
	}
	hidden := p.HiddenSize()
	if p.WeightHH == nil {
		return mismatch(DimHiddenToHidden, -1, hidden, 0)
	}
	r, c := p.WeightHH.Dims()
	if r != c {
		return mismatch(DimHiddenToHidden, -1, r, c)
	}
	if r != hidden {
		return mismatch(DimHiddenToHidden, -1, hidden, r)
	}
	if p.BiasIH == nil || p.BiasIH.Len() != hidden {
		return mismatch(DimBiasIH, -1, hidden, vecLen(p.BiasIH))
	}
	if p.BiasHH == nil || p.BiasHH.Len() != hidden {
		return mismatch(DimBiasHH, -1, hidden, vecLen(p.BiasHH))
	}
	return nil
}

// Rows returns the parameters as row-major slices, in NewParams argument order.
func (p *Params) Rows() (weightIH, weightHH [][]float64, biasIH, biasHH []float64) {
	return denseRows(p.WeightIH), denseRows(p.WeightHH), vecValues(p.BiasIH), vecValues(p.BiasHH)
}

// denseFromRows requires len(rows) == wantRows when wantRows > 0, and
// equal-length non-empty rows. A square matrix is required for hidden_to_hidden.
func denseFromRows(dim string, rows [][]float64, wantRows int) (*mat.Dense, error) {
	if wantRows > 0 && len(rows) != wantRows {
		return nil, mismatch(dim, -1, wantRows, len(rows))
	}
	if len(rows) == 0 {
		return nil, mismatch(dim, -1, 1, 0)
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, mismatch(dim, 0, 1, 0)
	}
	if dim == DimHiddenToHidden && cols != len(rows) {
		return nil, mismatch(dim, 0, len(rows), cols)
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, mismatch(dim, i, cols, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func denseRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

func vecValues(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}
	return mat.Col(nil, 0, v)
}

func vecLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
