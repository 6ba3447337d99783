package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Deviation summarises how far a computed trajectory is from a reference one.
type Deviation struct {
	Steps int
	// MaxAbs is the largest absolute element difference over all steps.
	MaxAbs float64
	// MeanAbs averages the absolute element differences.
	MeanAbs float64
	// WorstStep is the step holding MaxAbs.
	WorstStep int
	// FirstExceeded is the first step with a difference above tolerance, or -1.
	FirstExceeded int
	Within        bool
}

// Compare measures got against want element by element. Both must have the
// same number of steps and the same width at every step. NaN differences count
// as exceeding any tolerance.
func Compare(got, want [][]float64, tolerance float64) (Deviation, error) {
	if len(got) != len(want) {
		return Deviation{}, fmt.Errorf("compare: %d steps against %d reference steps", len(got), len(want))
	}
	dev := Deviation{Steps: len(got), FirstExceeded: -1, Within: true}
	var sum float64
	var n int
	diff := make([]float64, 0)
	for t := range got {
		if len(got[t]) != len(want[t]) {
			return Deviation{}, fmt.Errorf("compare: step %d has %d values, reference %d", t, len(got[t]), len(want[t]))
		}
		if len(got[t]) == 0 {
			continue
		}
		diff = append(diff[:0], got[t]...)
		floats.Sub(diff, want[t])
		for i, d := range diff {
			diff[i] = math.Abs(d)
		}
		stepMax := floats.Max(diff)
		if floats.HasNaN(diff) {
			stepMax = math.Inf(1)
		}
		sum += floats.Sum(diff)
		n += len(diff)
		if stepMax > dev.MaxAbs {
			dev.MaxAbs = stepMax
			dev.WorstStep = t
		}
		if stepMax > tolerance && dev.FirstExceeded < 0 {
			dev.FirstExceeded = t
			dev.Within = false
		}
	}
	if n > 0 {
		dev.MeanAbs = sum / float64(n)
	}
	return dev, nil
}
