package verifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rnnverify/internal/dataset"
	"rnnverify/internal/fixture"
	"rnnverify/internal/model"
)

const (
	casesDir        = "cases"
	trajectoriesDir = "trajectories"
)

type recordFunc func(res CaseResult, loadTime, computeTime time.Duration, ref [][]float64)

// runSeries loads every configured CSV series, optionally resamples,
// normalises and windows them, then runs each through the recurrence.
func runSeries(ctx context.Context, cfg RunConfig, record recordFunc) error {
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = 1
	}
	startLoad := time.Now()
	all, err := dataset.LoadAll(ctx, dataset.LoaderOptions{
		Roots:      cfg.Roots,
		Series:     cfg.Series,
		Seed:       cfg.Seed,
		NumWorkers: workers,
	})
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	log.Printf("series=%d workers=%d load=%s", len(all), workers, time.Since(startLoad))

	all, err = prepareSeries(all, cfg)
	if err != nil {
		return err
	}
	loadPer := time.Since(startLoad) / time.Duration(len(all))

	features := len(featureNames(cfg))
	p := cfg.Params
	if p == nil {
		p = model.NewRandomParams(features, cfg.HiddenSize, cfg.Seed)
		log.Printf("params=random input_size=%d hidden_size=%d seed=%d", p.InputSize(), p.HiddenSize(), cfg.Seed)
	}
	unit, err := model.NewElman(p)
	if err != nil {
		return err
	}
	if unit.InputSize() != features {
		return fmt.Errorf("verifier: %d features for a unit expecting %d: %w", features, unit.InputSize(), model.ErrShapeMismatch)
	}

	for _, s := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		startCompute := time.Now()
		res, err := Verify(unit, s.ID, s.Sequence(), nil, cfg.Tolerance)
		if err != nil {
			return err
		}
		record(res, loadPer, time.Since(startCompute), nil)
		if res.Saturated > 0 {
			log.Printf("case=%s saturated=%d of %d outputs", s.ID, res.Saturated, res.Steps*unit.HiddenSize())
		}
		if cfg.ExportDir != "" {
			if err := exportCase(cfg.ExportDir, p, s, res.Trajectory); err != nil {
				return err
			}
		}
	}
	return nil
}

func prepareSeries(all []dataset.Series, cfg RunConfig) ([]dataset.Series, error) {
	if len(all) == 0 {
		return nil, errors.New("verifier: no series loaded")
	}
	if len(cfg.Roots) > 1 {
		labels := rootLabels(cfg.Roots)
		for i := range all {
			all[i].ID = labels[all[i].Root] + "_" + all[i].ID
		}
	}
	if cfg.Downsample > 0 {
		keys := featureNames(cfg)
		for i := range all {
			r, err := dataset.Resample(all[i], keys, cfg.Downsample)
			if err != nil {
				return nil, err
			}
			all[i] = r
		}
		log.Printf("downsample=%d series=%d", cfg.Downsample, len(all))
	}
	if cfg.Normalize {
		mm, err := dataset.FitMinMax(all)
		if err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
		for i := range all {
			all[i] = mm.Apply(all[i])
		}
	}
	if cfg.Window > 0 {
		stride := cfg.Stride
		if stride <= 0 {
			stride = cfg.Window
		}
		var chunks []dataset.Series
		for _, s := range all {
			w, err := dataset.Windows(s, cfg.Window, stride)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, w...)
		}
		log.Printf("windows=%d window=%d stride=%d", len(chunks), cfg.Window, stride)
		all = chunks
	}
	if len(all) == 0 {
		return nil, errors.New("verifier: no series left after windowing")
	}
	return all, nil
}

func featureNames(cfg RunConfig) []string {
	if len(cfg.Series.Features) > 0 {
		return cfg.Series.Features
	}
	return dataset.DefaultFeatures
}

// rootLabels names each root after its base directory, adding the root's
// sorted position when two roots share a base name.
func rootLabels(roots map[string][]string) map[string]string {
	names := make([]string, 0, len(roots))
	for root := range roots {
		names = append(names, root)
	}
	sort.Strings(names)
	bases := make(map[string]int, len(names))
	for _, root := range names {
		bases[filepath.Base(root)]++
	}
	labels := make(map[string]string, len(names))
	for i, root := range names {
		label := filepath.Base(root)
		if bases[label] > 1 {
			label = fmt.Sprintf("%s%d", label, i)
		}
		labels[root] = label
	}
	return labels
}

// exportCase writes the series as a fixture without reference under
// <dir>/cases, ready to be completed by a reference implementation, and the
// computed trajectory as JSON records under <dir>/trajectories.
func exportCase(dir string, p *model.Params, s dataset.Series, traj model.Trajectory) error {
	if err := fixture.Save(exportName(filepath.Join(dir, casesDir), s.ID), fixture.FromModel(s.ID, p, s.Sequence(), nil)); err != nil {
		return err
	}
	trajPath := exportName(filepath.Join(dir, trajectoriesDir), s.ID)
	if err := os.MkdirAll(filepath.Dir(trajPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(trajPath)
	if err != nil {
		return fmt.Errorf("create trajectory: %w", err)
	}
	if err := fixture.WriteTrajectory(f, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportName(dir, id string) string {
	name, offset, windowed := strings.Cut(filepath.Base(id), "@")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if windowed {
		name += "_" + offset
	}
	return filepath.Join(dir, name+".json")
}
