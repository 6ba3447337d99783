package verifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"rnnverify/internal/dataset"
	"rnnverify/internal/fixture"
	"rnnverify/internal/metrics"
	"rnnverify/internal/model"
	"rnnverify/internal/report"
)

// ErrMismatch is returned when at least one case deviates beyond tolerance.
var ErrMismatch = errors.New("verifier: trajectory mismatch")

const maxPanels = 8

// RunConfig captures the knobs required by the verification loop.
type RunConfig struct {
	// Fixtures are JSON golden cases to recompute and compare.
	Fixtures []string

	// Roots maps data roots to series names for CSV runs.
	Roots      map[string][]string
	Series     dataset.SeriesOptions
	Window     int
	Stride     int
	Downsample int
	Normalize  bool
	Params     *model.Params
	HiddenSize int
	NumWorkers int
	ExportDir  string

	Seed      int64
	Tolerance float64
	LogEvery  int
	PlotPath  string
}

// CaseResult is the outcome of one verified case.
type CaseResult struct {
	Name       string
	Steps      int
	Deviation  metrics.Deviation
	Referenced bool
	Saturated  int
	Trajectory model.Trajectory
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Cases    int
	Failed   []string
	MaxAbs   float64
	Results  []CaseResult
	Host     metrics.Host
	Duration time.Duration
}

// Run executes the verification workload: fixtures first, then CSV series.
// It returns ErrMismatch (wrapped) after reporting every failing case.
func Run(ctx context.Context, cfg RunConfig) (Summary, error) {
	if len(cfg.Fixtures) == 0 && len(cfg.Roots) == 0 {
		return Summary{}, errors.New("verifier: nothing to verify")
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-6
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 10
	}

	start := time.Now()
	summary := Summary{Host: metrics.DetectHost()}
	log.Printf("host %s fma=%t", summary.Host, summary.Host.HasFMA())

	var window metrics.Window
	var panels []report.Panel
	record := func(res CaseResult, loadTime, computeTime time.Duration, ref [][]float64) {
		summary.Cases++
		summary.Results = append(summary.Results, res)
		if res.Deviation.MaxAbs > summary.MaxAbs {
			summary.MaxAbs = res.Deviation.MaxAbs
		}
		if !res.Deviation.Within {
			summary.Failed = append(summary.Failed, res.Name)
			log.Printf("case=%s MISMATCH first_step=%d worst_step=%d max_abs=%.3g mean_abs=%.3g",
				res.Name, res.Deviation.FirstExceeded, res.Deviation.WorstStep, res.Deviation.MaxAbs, res.Deviation.MeanAbs)
		}
		window.Record(res.Steps, loadTime, computeTime, res.Deviation)
		if len(panels) < maxPanels {
			panels = append(panels, report.Panel{Title: res.Name, Computed: res.Trajectory, Reference: ref})
		}
		if summary.Cases%cfg.LogEvery == 0 {
			logSnapshot(summary.Cases, window.Snapshot())
		}
	}

	for _, path := range cfg.Fixtures {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		startLoad := time.Now()
		c, err := fixture.Load(path)
		if err != nil {
			return summary, err
		}
		p, err := c.Model()
		if err != nil {
			return summary, err
		}
		unit, err := model.NewElman(p)
		if err != nil {
			return summary, fmt.Errorf("fixture %s: %w", c.Name, err)
		}
		loadTime := time.Since(startLoad)

		var ref [][]float64
		if c.HasReference() {
			ref = c.Reference
		} else {
			log.Printf("case=%s reference=none, checking shapes only", c.Name)
		}

		startCompute := time.Now()
		res, err := Verify(unit, c.Name, c.Sequence(), ref, cfg.Tolerance)
		if err != nil {
			return summary, err
		}
		record(res, loadTime, time.Since(startCompute), ref)
	}

	if len(cfg.Roots) > 0 {
		if err := runSeries(ctx, cfg, record); err != nil {
			return summary, err
		}
	}

	if window.Cases() > 0 {
		logSnapshot(summary.Cases, window.Snapshot())
	}
	if cfg.PlotPath != "" && len(panels) > 0 {
		if err := report.Save(cfg.PlotPath, panels); err != nil {
			return summary, err
		}
		log.Printf("plot=%s panels=%d", cfg.PlotPath, len(panels))
	}

	summary.Duration = time.Since(start)
	log.Printf("cases=%d failed=%d max_abs=%.3g elapsed=%s", summary.Cases, len(summary.Failed), summary.MaxAbs, summary.Duration)
	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf("%d of %d cases (%s): %w",
			len(summary.Failed), summary.Cases, strings.Join(summary.Failed, ", "), ErrMismatch)
	}
	return summary, nil
}

// Verify computes the trajectory of unit over seq and, when ref is non-empty,
// compares it element-wise within tolerance. Without a reference the case
// passes once it computes.
func Verify(unit model.Recurrence, name string, seq model.Sequence, ref [][]float64, tolerance float64) (CaseResult, error) {
	traj, err := unit.Compute(seq)
	if err != nil {
		return CaseResult{}, fmt.Errorf("case %s: %w", name, err)
	}
	res := CaseResult{
		Name:       name,
		Steps:      traj.Len(),
		Saturated:  countSaturated(traj),
		Trajectory: traj,
		Deviation:  metrics.Deviation{Steps: traj.Len(), FirstExceeded: -1, Within: true},
	}
	if len(ref) == 0 {
		return res, nil
	}
	dev, err := metrics.Compare(traj, ref, tolerance)
	if err != nil {
		return CaseResult{}, fmt.Errorf("case %s: %w", name, err)
	}
	res.Deviation = dev
	res.Referenced = true
	return res, nil
}

// countSaturated counts outputs that rounded to ±1 or are not finite.
func countSaturated(traj model.Trajectory) int {
	n := 0
	for _, y := range traj {
		for _, v := range y {
			if math.Abs(v) >= 1 || math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func logSnapshot(cases int, snap metrics.Snapshot) {
	log.Printf("cases=%d steps_per_sec=%.1f load_ms=%.2f compute_ms=%.3f max_abs=%.3g failures=%d",
		cases,
		snap.StepsPerSec,
		snap.AvgLoadMS,
		snap.AvgComputeMS,
		snap.MaxAbs,
		snap.Failures,
	)
}
