package distributions

import (
	"math/rand"
	"sort"
)

// EmpiricalCDF samples by uniform selection among the rank statistics of a
// supplied observation vector: no kernel smoothing and no extrapolation
// beyond the observed minimum and maximum. This is the model used for
// per-site dilution-factor datasets (§3, §4.3).
type EmpiricalCDF struct {
	sorted []float64
}

// NewEmpiricalCDF validates and constructs an EmpiricalCDF from an
// observation vector, which must contain at least one value.
func NewEmpiricalCDF(values []float64) (EmpiricalCDF, error) {
	if len(values) == 0 {
		return EmpiricalCDF{}, &InvalidParameterError{"EmpiricalCDF", "requires at least one observed value"}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return EmpiricalCDF{sorted: sorted}, nil
}

// Sample draws n values, each independently and uniformly selected from the
// m observed values (with replacement).
func (d EmpiricalCDF) Sample(n int, rng *rand.Rand) []float64 {
	m := len(d.sorted)
	out := make([]float64, n)
	for i := range out {
		idx := rng.Intn(m)
		out[i] = d.sorted[idx]
	}
	return out
}

// Values returns a copy of the sorted observation vector backing this
// distribution.
func (d EmpiricalCDF) Values() []float64 {
	out := make([]float64, len(d.sorted))
	copy(out, d.sorted)
	return out
}

// Name returns "EmpiricalCDF".
func (d EmpiricalCDF) Name() string { return "EmpiricalCDF" }
