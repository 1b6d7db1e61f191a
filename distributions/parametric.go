package distributions

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform is a uniform distribution over [Min, Max].
type Uniform struct {
	Min, Max float64
}

// NewUniform validates and constructs a Uniform distribution.
func NewUniform(min, max float64) (Uniform, error) {
	if !(min < max) {
		return Uniform{}, &InvalidParameterError{"Uniform", "min must be < max"}
	}
	return Uniform{Min: min, Max: max}, nil
}

// Sample draws n values.
func (u Uniform) Sample(n int, rng *rand.Rand) []float64 {
	d := distuv.Uniform{Min: u.Min, Max: u.Max, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// Name returns "Uniform".
func (u Uniform) Name() string { return "Uniform" }

// Normal is a Gaussian distribution with mean Mean and standard deviation Std.
type Normal struct {
	Mean, Std float64
}

// NewNormal validates and constructs a Normal distribution.
func NewNormal(mean, std float64) (Normal, error) {
	if !(std > 0) {
		return Normal{}, &InvalidParameterError{"Normal", "std must be > 0"}
	}
	return Normal{Mean: mean, Std: std}, nil
}

// Sample draws n values.
func (d Normal) Sample(n int, rng *rand.Rand) []float64 {
	g := distuv.Normal{Mu: d.Mean, Sigma: d.Std, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Rand()
	}
	return out
}

// Name returns "Normal".
func (d Normal) Name() string { return "Normal" }

// Lognormal is a lognormal distribution parameterized on the log scale:
// log(X) ~ Normal(MeanLog, SdLog).
type Lognormal struct {
	MeanLog, SdLog float64
}

// NewLognormal validates and constructs a Lognormal distribution.
func NewLognormal(meanLog, sdLog float64) (Lognormal, error) {
	if !(sdLog > 0) {
		return Lognormal{}, &InvalidParameterError{"Lognormal", "sdlog must be > 0"}
	}
	return Lognormal{MeanLog: meanLog, SdLog: sdLog}, nil
}

// Sample draws n values.
func (d Lognormal) Sample(n int, rng *rand.Rand) []float64 {
	g := distuv.LogNormal{Mu: d.MeanLog, Sigma: d.SdLog, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Rand()
	}
	return out
}

// Name returns "Lognormal".
func (d Lognormal) Name() string { return "Lognormal" }

// Triangular is a triangular distribution with lower limit Min, mode Mode,
// and upper limit Max.
type Triangular struct {
	Min, Mode, Max float64
}

// NewTriangular validates and constructs a Triangular distribution.
func NewTriangular(min, mode, max float64) (Triangular, error) {
	if !(min <= mode && mode <= max && min < max) {
		return Triangular{}, &InvalidParameterError{"Triangular", "requires min <= mode <= max and min < max"}
	}
	return Triangular{Min: min, Mode: mode, Max: max}, nil
}

// Sample draws n values.
func (d Triangular) Sample(n int, rng *rand.Rand) []float64 {
	t := distuv.Triangle{Min: d.Min, Max: d.Max, Mode: d.Mode, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = t.Rand()
	}
	return out
}

// Name returns "Triangular".
func (d Triangular) Name() string { return "Triangular" }
