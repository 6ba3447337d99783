package metrics

import "time"

// Window accumulates throughput and deviation across multiple verified cases.
type Window struct {
	cases    int
	steps    int
	load     time.Duration
	compute  time.Duration
	maxAbs   float64
	failures int
}

// Record adds a new measurement to the window.
func (w *Window) Record(steps int, loadTime, computeTime time.Duration, dev Deviation) {
	w.cases++
	w.steps += steps
	w.load += loadTime
	w.compute += computeTime
	if dev.MaxAbs > w.maxAbs {
		w.maxAbs = dev.MaxAbs
	}
	if !dev.Within {
		w.failures++
	}
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Cases: w.cases, Failures: w.failures, MaxAbs: w.maxAbs}
	if w.compute > 0 {
		snap.StepsPerSec = float64(w.steps) / w.compute.Seconds()
	}
	if w.cases > 0 {
		snap.AvgLoadMS = (w.load.Seconds() * 1000) / float64(w.cases)
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(w.cases)
	}

	*w = Window{}
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Cases        int
	Failures     int
	StepsPerSec  float64
	AvgLoadMS    float64
	AvgComputeMS float64
	MaxAbs       float64
}

// Cases returns the number of cases recorded since the last snapshot.
func (w *Window) Cases() int {
	return w.cases
}
