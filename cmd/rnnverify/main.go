package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rnnverify/internal/config"
	"rnnverify/internal/dataset"
	"rnnverify/internal/fixture"
	"rnnverify/internal/model"
	"rnnverify/internal/verifier"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	fixturesDir := flag.String("fixtures", "", "Override directory of JSON golden cases")
	dataRoots := flag.String("data", "", "Override comma separated CSV data roots")
	paramsPath := flag.String("params", "", "Fixture whose params drive CSV runs")
	skipTargets := flag.Bool("skip-targets", false, "Do not read <root>/targets")
	downsample := flag.Int("downsample", 0, "Resample each CSV series onto N time bins")
	tolerance := flag.Float64("tolerance", 0, "Maximum absolute deviation from reference")
	numWorkers := flag.Int("num-workers", 0, "Number of CSV loader workers")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N cases")
	plotPath := flag.String("plot", "", "Write a trajectory plot to this file")
	exportDir := flag.String("export", "", "Write CSV cases and trajectories under this directory")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		FixturesDir: *fixturesDir,
		DataRoots:   splitList(*dataRoots),
		ParamsPath:  *paramsPath,
		SkipTargets: *skipTargets,
		Downsample:  *downsample,
		Tolerance:   *tolerance,
		NumWorkers:  *numWorkers,
		Seed:        *seed,
		LogEvery:    *logEvery,
		PlotPath:    *plotPath,
		ExportDir:   *exportDir,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var fixtures []string
	if cfg.FixturesDir != "" {
		fixtures, err = dataset.DiscoverFixtures(cfg.FixturesDir)
		if err != nil {
			log.Fatalf("discover fixtures under %s: %v", cfg.FixturesDir, err)
		}
		if len(fixtures) == 0 {
			log.Fatalf("no fixtures discovered under %s", cfg.FixturesDir)
		}
		log.Printf("fixtures=%s cases=%d", cfg.FixturesDir, len(fixtures))
	}

	var roots map[string][]string
	if len(cfg.DataRoots) > 0 {
		roots, err = dataset.DiscoverByRoot(cfg.DataRoots)
		if err != nil {
			log.Fatalf("discover series: %v", err)
		}
		for root, ids := range roots {
			if len(ids) == 0 {
				log.Fatalf("no series discovered under %s", root)
			}
			log.Printf("root=%s series=%d", root, len(ids))
		}
	}

	var params *model.Params
	if cfg.ParamsPath != "" {
		c, err := fixture.Load(cfg.ParamsPath)
		if err != nil {
			log.Fatalf("load params: %v", err)
		}
		if params, err = c.Model(); err != nil {
			log.Fatalf("load params: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := verifier.RunConfig{
		Fixtures: fixtures,
		Roots:    roots,
		Series: dataset.SeriesOptions{
			Features:    cfg.Features,
			SeqLength:   cfg.SeqLength,
			SkipTargets: cfg.SkipTargets,
		},
		Window:     cfg.Window,
		Stride:     cfg.Stride,
		Downsample: cfg.Downsample,
		Normalize:  cfg.Normalize,
		Params:     params,
		HiddenSize: cfg.HiddenSize,
		NumWorkers: cfg.NumWorkers,
		ExportDir:  cfg.ExportDir,
		Seed:       cfg.Seed,
		Tolerance:  cfg.Tolerance,
		LogEvery:   cfg.LogEvery,
		PlotPath:   cfg.PlotPath,
	}

	if _, err := verifier.Run(ctx, runCfg); err != nil {
		log.Fatalf("verification failed: %v", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
