package dataset

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// zeroVarianceEpsilon widens a constant feature's range so scaling stays finite.
const zeroVarianceEpsilon = 1e-6

// MinMax holds per-feature extrema computed across a whole collection.
type MinMax struct {
	Min []float64
	Max []float64
}

// FitMinMax computes global per-feature minima and maxima over every step of every series.
func FitMinMax(series []Series) (MinMax, error) {
	width := -1
	var cols [][]float64
	for _, s := range series {
		for _, row := range s.Features {
			if width < 0 {
				width = len(row)
				cols = make([][]float64, width)
			}
			if len(row) != width {
				return MinMax{}, errors.New("minmax: ragged feature rows")
			}
			for j, v := range row {
				cols[j] = append(cols[j], v)
			}
		}
	}
	if width <= 0 {
		return MinMax{}, errors.New("minmax: no data")
	}
	mm := MinMax{Min: make([]float64, width), Max: make([]float64, width)}
	for j, col := range cols {
		mm.Min[j] = floats.Min(col)
		mm.Max[j] = floats.Max(col)
		if mm.Max[j] == mm.Min[j] {
			mm.Max[j] = mm.Min[j] + zeroVarianceEpsilon
		}
	}
	return mm, nil
}

// Apply returns a copy of s with every feature scaled to (v - min) / (max - min).
func (m MinMax) Apply(s Series) Series {
	out := s
	out.Features = make([][]float64, len(s.Features))
	for t, row := range s.Features {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if j >= len(m.Min) {
				scaled[j] = v
				continue
			}
			scaled[j] = (v - m.Min[j]) / (m.Max[j] - m.Min[j])
		}
		out.Features[t] = scaled
	}
	return out
}
