package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Signal is a raw, irregularly sampled channel.
type Signal struct {
	Time  []float64
	Value []float64
}

// Downsample averages signal samples inside [begin, end] into length equal-width
// bins and returns the bin time axis (linspace(begin, end, length)) with the means.
// A bin without samples repeats the previous bin's mean, or 0 for a leading bin.
func Downsample(begin, end float64, sig Signal, length int) ([]float64, []float64, error) {
	if length <= 0 {
		return nil, nil, fmt.Errorf("downsample: length must be > 0 (got %d)", length)
	}
	if end <= begin {
		return nil, nil, fmt.Errorf("downsample: end %v must be after begin %v", end, begin)
	}
	if len(sig.Time) != len(sig.Value) {
		return nil, nil, fmt.Errorf("downsample: %d times for %d values", len(sig.Time), len(sig.Value))
	}

	axis := make([]float64, length)
	if length == 1 {
		axis[0] = begin
	} else {
		floats.Span(axis, begin, end)
	}
	edges := make([]float64, length+1)
	floats.Span(edges, begin, end)

	sums := make([]float64, length)
	counts := make([]int, length)
	for i, t := range sig.Time {
		if t < begin || t > end {
			continue
		}
		// right-closed bins, with the first bin also closed on the left
		b := sort.SearchFloat64s(edges, t) - 1
		if b < 0 {
			b = 0
		}
		if b >= length {
			b = length - 1
		}
		sums[b] += sig.Value[i]
		counts[b]++
	}

	means := make([]float64, length)
	prev := 0.0
	for b := range means {
		if counts[b] > 0 {
			prev = sums[b] / float64(counts[b])
		}
		means[b] = prev
	}
	return axis, means, nil
}

// DownsampleAndMerge resamples each keyed signal onto a common axis and returns
// it as a Series with one feature column per key. Empty signals become zeros.
func DownsampleAndMerge(id string, begin, end float64, signals map[string]Signal, keys []string, length int) (Series, error) {
	if length <= 0 {
		return Series{}, fmt.Errorf("downsample: length must be > 0 (got %d)", length)
	}
	if len(keys) == 0 {
		return Series{}, fmt.Errorf("downsample: no keys for %s", id)
	}
	s := Series{ID: id, Features: make([][]float64, length)}
	for t := range s.Features {
		s.Features[t] = make([]float64, len(keys))
	}
	for j, key := range keys {
		axis, means, err := Downsample(begin, end, signals[key], length)
		if err != nil {
			return Series{}, fmt.Errorf("%s: %w", key, err)
		}
		if s.Time == nil {
			s.Time = axis
		}
		for t, v := range means {
			s.Features[t][j] = v
		}
	}
	return s, nil
}

// Resample averages the feature columns of s, named by keys in column order,
// and its targets onto length bins spanning the series time range.
func Resample(s Series, keys []string, length int) (Series, error) {
	if s.Len() == 0 || len(s.Time) != s.Len() {
		return Series{}, fmt.Errorf("resample %s: %d times for %d rows", s.ID, len(s.Time), s.Len())
	}
	if len(keys) != len(s.Features[0]) {
		return Series{}, fmt.Errorf("resample %s: %d keys for %d columns", s.ID, len(keys), len(s.Features[0]))
	}
	begin, end := floats.Min(s.Time), floats.Max(s.Time)

	signals := make(map[string]Signal, len(keys))
	for j, key := range keys {
		col := make([]float64, s.Len())
		for t, row := range s.Features {
			col[t] = row[j]
		}
		signals[key] = Signal{Time: s.Time, Value: col}
	}
	out, err := DownsampleAndMerge(s.ID, begin, end, signals, keys, length)
	if err != nil {
		return Series{}, err
	}
	out.Root = s.Root
	if len(s.Targets) > 0 {
		_, targets, err := Downsample(begin, end, Signal{Time: s.Time, Value: s.Targets}, length)
		if err != nil {
			return Series{}, fmt.Errorf("targets: %w", err)
		}
		out.Targets = targets
	}
	return out, nil
}
