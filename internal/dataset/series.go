package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rnnverify/internal/model"
)

// DefaultFeatures is the column order used when none is configured.
var DefaultFeatures = []string{"SSXcore", "IPLA", "DAO_EDG7", "RNT", "DAI_EDG7", "ECE_PF"}

// ErrUnexpectedLength marks a series whose length differs from the configured one.
var ErrUnexpectedLength = errors.New("dataset: unexpected sequence length")

const (
	featuresDir  = "features"
	targetsDir   = "targets"
	timeColumn   = "time"
	targetColumn = "target"
)

// Series is one time-series file: a feature row per time step plus targets.
type Series struct {
	ID       string
	Root     string
	Time     []float64
	Features [][]float64
	Targets  []float64
}

// Len returns the number of time steps.
func (s Series) Len() int {
	return len(s.Features)
}

// Sequence exposes the feature rows as recurrence input.
func (s Series) Sequence() model.Sequence {
	return model.Sequence(s.Features)
}

// SeriesOptions controls how a features/targets pair is read.
type SeriesOptions struct {
	// Features lists the columns to extract, in order. Missing columns are zero filled.
	Features []string
	// SeqLength rejects series of a different length when > 0.
	SeqLength int
	// SkipTargets ignores the targets directory.
	SkipTargets bool
}

// LoadSeries reads <root>/features/<id> and <root>/targets/<id>.
func LoadSeries(ctx context.Context, root, id string, opts SeriesOptions) (Series, error) {
	features := opts.Features
	if len(features) == 0 {
		features = DefaultFeatures
	}

	cols, err := readColumns(ctx, filepath.Join(root, featuresDir, id))
	if err != nil {
		return Series{}, fmt.Errorf("read features %s: %w", id, err)
	}
	timeCol, ok := cols[timeColumn]
	if !ok {
		return Series{}, fmt.Errorf("features %s: missing %q column", id, timeColumn)
	}
	steps := len(timeCol)
	if opts.SeqLength > 0 && steps != opts.SeqLength {
		return Series{}, fmt.Errorf("%s: length %d want %d: %w", id, steps, opts.SeqLength, ErrUnexpectedLength)
	}

	s := Series{ID: id, Root: root, Time: timeCol, Features: make([][]float64, steps)}
	for t := range s.Features {
		s.Features[t] = make([]float64, len(features))
	}
	for j, key := range features {
		col, ok := cols[key]
		if !ok {
			log.Printf("series=%s key=%s missing, filling with zeros", id, key)
			continue
		}
		for t := range s.Features {
			s.Features[t][j] = col[t]
		}
	}

	if opts.SkipTargets {
		return s, nil
	}
	tcols, err := readColumns(ctx, filepath.Join(root, targetsDir, id))
	if err != nil {
		return Series{}, fmt.Errorf("read targets %s: %w", id, err)
	}
	targets, ok := tcols[targetColumn]
	if !ok {
		return Series{}, fmt.Errorf("targets %s: missing %q column", id, targetColumn)
	}
	if len(targets) != steps {
		return Series{}, fmt.Errorf("targets %s: %d rows for %d feature rows", id, len(targets), steps)
	}
	s.Targets = targets
	return s, nil
}

// readColumns parses a headed numeric CSV into columns keyed by header name.
func readColumns(ctx context.Context, path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseColumns(ctx, bufio.NewReader(f))
}

func parseColumns(ctx context.Context, r io.Reader) (map[string][]float64, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	cols := make(map[string][]float64, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		cols[names[i]] = nil
	}

	row := 1
	for {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		row++
		for i, field := range rec {
			// leading pandas index column has an empty header
			if names[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row, names[i], err)
			}
			cols[names[i]] = append(cols[names[i]], v)
		}
	}
	return cols, nil
}
