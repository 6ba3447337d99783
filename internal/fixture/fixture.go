// Package fixture reads and writes golden recurrence cases as JSON: the
// parameters of a trained unit, an input sequence and, optionally, the
// trajectory a reference implementation produced for it.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rnnverify/internal/model"
)

// ErrNoInputs is returned when a fixture carries an empty input sequence.
var ErrNoInputs = errors.New("fixture: no inputs")

// Params mirrors model.Params in row-major JSON form.
type Params struct {
	WeightIH [][]float64 `json:"weight_ih"`
	WeightHH [][]float64 `json:"weight_hh"`
	BiasIH   []float64   `json:"bias_ih"`
	BiasHH   []float64   `json:"bias_hh"`
}

// Case is a single golden recurrence case.
type Case struct {
	Name      string      `json:"name"`
	Params    Params      `json:"params"`
	Inputs    [][]float64 `json:"inputs"`
	Reference [][]float64 `json:"reference,omitempty"`
}

// FromModel captures p and seq into a Case. ref may be nil.
func FromModel(name string, p *model.Params, seq model.Sequence, ref model.Trajectory) Case {
	wih, whh, bih, bhh := p.Rows()
	c := Case{
		Name:   name,
		Params: Params{WeightIH: wih, WeightHH: whh, BiasIH: bih, BiasHH: bhh},
		Inputs: [][]float64(seq),
	}
	if ref != nil {
		c.Reference = [][]float64(ref)
	}
	return c
}

// Model builds validated model parameters for the case.
func (c Case) Model() (*model.Params, error) {
	p, err := model.NewParams(c.Params.WeightIH, c.Params.WeightHH, c.Params.BiasIH, c.Params.BiasHH)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", c.Name, err)
	}
	return p, nil
}

// Sequence returns the input steps of the case.
func (c Case) Sequence() model.Sequence {
	return model.Sequence(c.Inputs)
}

// HasReference reports whether the case carries golden outputs.
func (c Case) HasReference() bool {
	return len(c.Reference) > 0
}

// Decode reads one Case from r.
func Decode(r io.Reader) (Case, error) {
	var c Case
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Case{}, fmt.Errorf("decode fixture: %w", err)
	}
	if len(c.Inputs) == 0 {
		return Case{}, ErrNoInputs
	}
	return c, nil
}

// Encode writes c to w as indented JSON.
func Encode(w io.Writer, c Case) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	return nil
}

// Load reads a Case from path. An empty name defaults to the file's base name.
func Load(path string) (Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return Case{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Case{}, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// Save writes c to path, creating parent directories as needed.
func Save(path string, c Case) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixture: %w", err)
	}
	if err := Encode(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
