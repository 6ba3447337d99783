// Package report draws computed and reference trajectories side by side.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	defaultWidth  = 8 * vg.Inch
	rowHeight     = 2.5 * vg.Inch
	referenceDash = 4
)

// Panel is one case to draw: its computed trajectory and an optional reference.
type Panel struct {
	Title     string
	Computed  [][]float64
	Reference [][]float64
}

// Units returns the number of hidden units in the panel.
func (p Panel) Units() int {
	if len(p.Computed) == 0 {
		return 0
	}
	return len(p.Computed[0])
}

// NewPlot builds a plot of every hidden unit over time. Computed values are
// solid lines, reference values dashed lines in the same colour.
func NewPlot(p Panel) (*plot.Plot, error) {
	if len(p.Computed) == 0 {
		return nil, errors.New("report: empty trajectory")
	}
	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = "step"
	plt.Y.Label.Text = "h"
	plt.Y.Min, plt.Y.Max = -1, 1
	plt.Legend.Top = true
	plt.Add(plotter.NewGrid())

	for unit := 0; unit < p.Units(); unit++ {
		line, err := unitLine(p.Computed, unit)
		if err != nil {
			return nil, err
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutil.Color(unit)
		plt.Add(line)
		plt.Legend.Add(fmt.Sprintf("h%d", unit), line)

		if len(p.Reference) == 0 {
			continue
		}
		ref, err := unitLine(p.Reference, unit)
		if err != nil {
			return nil, err
		}
		ref.Width = vg.Points(1)
		ref.Color = plotutil.Color(unit)
		ref.Dashes = []vg.Length{vg.Points(referenceDash), vg.Points(referenceDash)}
		plt.Add(ref)
		plt.Legend.Add(fmt.Sprintf("h%d ref", unit), ref)
	}
	return plt, nil
}

// Save draws panels stacked vertically into path. The format follows the
// file extension (svg, png, pdf, ...).
func Save(path string, panels []Panel) error {
	if len(panels) == 0 {
		return errors.New("report: nothing to plot")
	}
	plots := make([][]*plot.Plot, len(panels))
	for i, p := range panels {
		plt, err := NewPlot(p)
		if err != nil {
			return fmt.Errorf("panel %q: %w", p.Title, err)
		}
		plots[i] = []*plot.Plot{plt}
	}

	height := rowHeight * vg.Length(len(panels))
	ext := filepath.Ext(path)
	if ext == "" {
		return fmt.Errorf("report: %s has no extension", path)
	}
	img, err := draw.NewFormattedCanvas(defaultWidth, height, ext[1:])
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(panels), Cols: 1, PadY: vg.Millimeter * 4}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if _, err := img.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write plot: %w", err)
	}
	return f.Close()
}

func unitLine(traj [][]float64, unit int) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(traj))
	for t, y := range traj {
		if unit >= len(y) {
			return nil, fmt.Errorf("report: step %d has %d units, need %d", t, len(y), unit+1)
		}
		pts[t].X = float64(t)
		pts[t].Y = y[unit]
	}
	return plotter.NewLine(pts)
}
