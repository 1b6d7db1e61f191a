/*
Copyright © 2017 the QMRA risk engine authors.
This file is part of the QMRA risk engine.

The QMRA risk engine is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The QMRA risk engine is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the QMRA risk engine.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package montecarlo drives deterministic Monte Carlo sampling over a named
// collection of distributions, and computes summary statistics over the
// resulting arrays.
package montecarlo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/spatialmodel/qmra/distributions"
	"gonum.org/v1/gonum/stat"
)

// DefaultPercentiles is the default set of percentiles reported for every
// Monte Carlo output array.
var DefaultPercentiles = []float64{5, 25, 50, 75, 95}

// Engine maintains an ordered collection of named distributions and a
// single RNG that drives every draw, so that two engines constructed with
// the same seed and the same sequence of Add calls produce identical
// sample matrices.
type Engine struct {
	rng   *rand.Rand
	names []string
	dists map[string]distributions.Distribution
}

// New constructs an Engine whose single RNG is seeded with seed.
func New(seed int64) *Engine {
	return &Engine{
		rng:   rand.New(rand.NewSource(seed)),
		dists: make(map[string]distributions.Distribution),
	}
}

// Add registers (or replaces) the distribution bound to name. Replacing an
// existing name keeps its original position in the insertion order, so
// sampling order stays stable across a rebind (e.g. rebinding "dilution"
// between sites in the same scenario).
func (e *Engine) Add(name string, d distributions.Distribution) {
	if _, ok := e.dists[name]; !ok {
		e.names = append(e.names, name)
	}
	e.dists[name] = d
}

// Rand returns the engine's single underlying RNG. Pipeline steps that need
// randomness beyond the named distributions (e.g. the Bernoulli draw used
// to discretize a fractional dose) should use this so the whole scenario
// stays driven by one deterministic stream.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Names returns the bound distribution names in insertion order.
func (e *Engine) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Sample draws n values from the distribution bound to name.
func (e *Engine) Sample(name string, n int) ([]float64, error) {
	d, ok := e.dists[name]
	if !ok {
		return nil, fmt.Errorf("montecarlo: no distribution bound to name %q", name)
	}
	return d.Sample(n, e.rng), nil
}

// SampleAll draws n values from every bound distribution, in insertion
// order, and returns them keyed by name.
func (e *Engine) SampleAll(n int) (map[string][]float64, error) {
	out := make(map[string][]float64, len(e.names))
	for _, name := range e.names {
		samples, err := e.Sample(name, n)
		if err != nil {
			return nil, err
		}
		out[name] = samples
	}
	return out, nil
}

// ModelFunc derives a per-iteration output array from the joint samples
// drawn from every bound distribution.
type ModelFunc func(samples map[string][]float64) ([]float64, error)

// Run draws n samples from every bound distribution (in insertion order)
// and applies fn to the resulting joint sample to produce the named output
// variable.
func (e *Engine) Run(n int, variableName string, fn ModelFunc) (*Result, error) {
	samples, err := e.SampleAll(n)
	if err != nil {
		return nil, err
	}
	out, err := fn(samples)
	if err != nil {
		return nil, err
	}
	if len(out) != n {
		return nil, fmt.Errorf("montecarlo: model function for %q returned %d values, want %d", variableName, len(out), n)
	}
	return &Result{Name: variableName, Values: out}, nil
}

// Result holds a named Monte Carlo output array.
type Result struct {
	Name   string
	Values []float64
}

// Stats holds summary statistics for a Monte Carlo output array.
type Stats struct {
	Mean, Median, Std, Min, Max float64
}

// Statistics computes mean, median, sample (n-1) standard deviation, min and
// max over data. data is not modified.
func Statistics(data []float64) Stats {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	mean := stat.Mean(sorted, nil)
	std := stat.StdDev(sorted, nil)
	return Stats{
		Mean:   mean,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Std:    std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Percentiles computes the requested percentiles (0-100 scale) over data.
// If ps is nil, DefaultPercentiles is used.
func Percentiles(data []float64, ps []float64) map[float64]float64 {
	if ps == nil {
		ps = DefaultPercentiles
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	out := make(map[float64]float64, len(ps))
	for _, p := range ps {
		out[p] = stat.Quantile(p/100, stat.Empirical, sorted, nil)
	}
	return out
}

// CheckFinite verifies that every element of data is finite, returning the
// index of the first non-finite value found (or -1 if none).
func CheckFinite(data []float64) int {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
