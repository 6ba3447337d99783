package dataset

import "fmt"

// Windows cuts s into chunks of window steps every stride steps. The trailing
// remainder shorter than window is dropped. Chunks share memory with s.
func Windows(s Series, window, stride int) ([]Series, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be > 0 (got %d)", window)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("stride must be > 0 (got %d)", stride)
	}
	var out []Series
	for start := 0; start+window <= s.Len(); start += stride {
		chunk := Series{
			ID:       fmt.Sprintf("%s@%d", s.ID, start),
			Root:     s.Root,
			Features: s.Features[start : start+window],
		}
		if len(s.Time) == s.Len() {
			chunk.Time = s.Time[start : start+window]
		}
		if len(s.Targets) == s.Len() {
			chunk.Targets = s.Targets[start : start+window]
		}
		out = append(out, chunk)
	}
	return out, nil
}
