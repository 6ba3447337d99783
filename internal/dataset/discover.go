package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var (
	seriesRegexp  = regexp.MustCompile(`(?i)^[^.].*\.csv$`)
	fixtureRegexp = regexp.MustCompile(`(?i)^[^.].*\.json$`)
)

// DiscoverSeries returns the sorted file names of CSV series in <root>/features.
func DiscoverSeries(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, featuresDir))
	if err != nil {
		return nil, fmt.Errorf("discover series: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !seriesRegexp.MatchString(e.Name()) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// DiscoverFixtures returns paths to JSON fixtures beneath root, sorted.
func DiscoverFixtures(root string) ([]string, error) {
	paths := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if fixtureRegexp.MatchString(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover fixtures: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// DiscoverByRoot scans each root's features directory independently.
func DiscoverByRoot(roots []string) (map[string][]string, error) {
	result := make(map[string][]string, len(roots))
	for _, root := range roots {
		ids, err := DiscoverSeries(root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", root, err)
		}
		result[root] = ids
	}
	return result, nil
}
