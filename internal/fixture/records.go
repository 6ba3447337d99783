package fixture

import (
	"encoding/json"
	"fmt"
	"io"
)

// Records turns a column table into one JSON object per row, keyed by header.
// Rows shorter than header leave the trailing keys out.
func Records(header []string, rows [][]float64) []map[string]float64 {
	out := make([]map[string]float64, len(rows))
	for i, row := range rows {
		rec := make(map[string]float64, len(header))
		for j, key := range header {
			if j >= len(row) {
				break
			}
			rec[key] = row[j]
		}
		out[i] = rec
	}
	return out
}

// TrajectoryHeader names the columns of a trajectory table: step, then h0..hN-1.
func TrajectoryHeader(hiddenSize int) []string {
	header := make([]string, 0, hiddenSize+1)
	header = append(header, "step")
	for i := 0; i < hiddenSize; i++ {
		header = append(header, fmt.Sprintf("h%d", i))
	}
	return header
}

// WriteTrajectory writes traj as JSON records with a leading step column.
func WriteTrajectory(w io.Writer, traj [][]float64) error {
	if len(traj) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	rows := make([][]float64, len(traj))
	for t, y := range traj {
		row := make([]float64, 0, len(y)+1)
		row = append(row, float64(t))
		rows[t] = append(row, y...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(TrajectoryHeader(len(traj[0])), rows)); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}
