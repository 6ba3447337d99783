package dataset

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
)

// LoaderOptions configures the multi-root series loader.
type LoaderOptions struct {
	Roots      map[string][]string
	Series     SeriesOptions
	Seed       int64
	NumWorkers int
}

// StartLoader reads every series listed in opts.Roots with a pool of workers.
// Series are emitted in a seeded order that alternates between roots and is
// independent of worker scheduling. Series of unexpected length are skipped.
// Both returned channels are closed once loading finishes or ctx is done.
func StartLoader(parent context.Context, opts LoaderOptions) (<-chan Series, <-chan error, error) {
	if len(opts.Roots) == 0 {
		return nil, nil, errors.New("loader: no dataset roots provided")
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 1
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	order := buildRoundRobinOrder(opts.Roots, rand.New(rand.NewSource(opts.Seed)))
	if len(order) == 0 {
		return nil, nil, errors.New("loader: no series discovered")
	}

	ctx, cancel := context.WithCancel(parent)

	jobs := make(chan seriesJob, opts.NumWorkers)
	results := make(chan seriesResult, opts.NumWorkers)
	out := make(chan Series, opts.NumWorkers*2)
	errCh := make(chan error, 1)

	go produceJobs(ctx, jobs, order)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts.Series)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer cancel()
		defer close(out)
		defer close(errCh)
		runAggregator(ctx, results, int64(len(order)), out, errCh)
	}()

	return out, errCh, nil
}

// LoadAll drains StartLoader into a slice.
func LoadAll(ctx context.Context, opts LoaderOptions) ([]Series, error) {
	stream, errCh, err := StartLoader(ctx, opts)
	if err != nil {
		return nil, err
	}
	var all []Series
	for s := range stream {
		all = append(all, s)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

type seriesJob struct {
	id   int64
	root string
	name string
}

type seriesResult struct {
	id     int64
	series Series
	err    error
}

func worker(ctx context.Context, jobs <-chan seriesJob, results chan<- seriesResult, opts SeriesOptions) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			s, err := LoadSeries(ctx, job.root, job.name, opts)
			select {
			case <-ctx.Done():
				return
			case results <- seriesResult{id: job.id, series: s, err: err}:
			}
		}
	}
}

func runAggregator(ctx context.Context, results <-chan seriesResult, total int64, out chan<- Series, errCh chan<- error) {
	pending := make(map[int64]seriesResult)
	var nextID int64
	for nextID < total {
		res, ok := pending[nextID]
		if !ok {
			select {
			case <-ctx.Done():
				return
			case res, ok = <-results:
				if !ok {
					return
				}
				pending[res.id] = res
			}
			continue
		}
		delete(pending, nextID)
		nextID++

		switch {
		case errors.Is(res.err, ErrUnexpectedLength):
			log.Printf("skipping series: %v", res.err)
			continue
		case res.err != nil:
			if !errors.Is(res.err, context.Canceled) {
				errCh <- res.err
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- res.series:
		}
	}
}

func produceJobs(ctx context.Context, jobs chan<- seriesJob, order []orderEntry) {
	defer close(jobs)
	for i, entry := range order {
		select {
		case <-ctx.Done():
			return
		case jobs <- seriesJob{id: int64(i), root: entry.root, name: entry.name}:
		}
	}
}

type orderEntry struct {
	root string
	name string
}

// buildRoundRobinOrder shuffles each root's series with rng, then interleaves
// roots in sorted name order.
func buildRoundRobinOrder(roots map[string][]string, rng *rand.Rand) []orderEntry {
	rootNames := make([]string, 0, len(roots))
	copied := make(map[string][]string, len(roots))
	for root, names := range roots {
		if len(names) == 0 {
			continue
		}
		rootNames = append(rootNames, root)
		copied[root] = append([]string(nil), names...)
	}
	sort.Strings(rootNames)
	if rng != nil {
		for _, root := range rootNames {
			list := copied[root]
			rng.Shuffle(len(list), func(i, j int) {
				list[i], list[j] = list[j], list[i]
			})
		}
	}
	var order []orderEntry
	for {
		advanced := false
		for _, root := range rootNames {
			names := copied[root]
			if len(names) == 0 {
				continue
			}
			order = append(order, orderEntry{root: root, name: names[0]})
			copied[root] = names[1:]
			advanced = true
		}
		if !advanced {
			break
		}
	}
	return order
}
