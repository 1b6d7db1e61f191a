package distributions

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// maxRejectionAttempts bounds the number of rejection-sampling draws
// attempted per requested sample before falling back to clamping, so a
// pathological (min, max) window that excludes nearly all of the parent
// distribution's mass can't spin forever.
const maxRejectionAttempts = 10000

// TruncatedNormal is a Normal(Mean, Std) distribution restricted to
// [Min, Max] by rejection sampling.
type TruncatedNormal struct {
	Mean, Std, Min, Max float64
}

// NewTruncatedNormal validates and constructs a TruncatedNormal distribution.
func NewTruncatedNormal(mean, std, min, max float64) (TruncatedNormal, error) {
	if !(std > 0) {
		return TruncatedNormal{}, &InvalidParameterError{"TruncatedNormal", "std must be > 0"}
	}
	if !(min < max) {
		return TruncatedNormal{}, &InvalidParameterError{"TruncatedNormal", "min must be < max"}
	}
	return TruncatedNormal{Mean: mean, Std: std, Min: min, Max: max}, nil
}

// Sample draws n values via rejection sampling against the parent Normal.
func (d TruncatedNormal) Sample(n int, rng *rand.Rand) []float64 {
	g := distuv.Normal{Mu: d.Mean, Sigma: d.Std, Src: rng}
	return rejectionSample(n, d.Min, d.Max, g.Rand)
}

// Name returns "TruncatedNormal".
func (d TruncatedNormal) Name() string { return "TruncatedNormal" }

// TruncatedLognormal is a Lognormal(MeanLog, SdLog) distribution restricted
// to [Min, Max] by rejection sampling.
type TruncatedLognormal struct {
	MeanLog, SdLog, Min, Max float64
}

// NewTruncatedLognormal validates and constructs a TruncatedLognormal distribution.
func NewTruncatedLognormal(meanLog, sdLog, min, max float64) (TruncatedLognormal, error) {
	if !(sdLog > 0) {
		return TruncatedLognormal{}, &InvalidParameterError{"TruncatedLognormal", "sdlog must be > 0"}
	}
	if !(min < max) {
		return TruncatedLognormal{}, &InvalidParameterError{"TruncatedLognormal", "min must be < max"}
	}
	return TruncatedLognormal{MeanLog: meanLog, SdLog: sdLog, Min: min, Max: max}, nil
}

// Sample draws n values via rejection sampling against the parent Lognormal.
func (d TruncatedLognormal) Sample(n int, rng *rand.Rand) []float64 {
	g := distuv.LogNormal{Mu: d.MeanLog, Sigma: d.SdLog, Src: rng}
	return rejectionSample(n, d.Min, d.Max, g.Rand)
}

// Name returns "TruncatedLognormal".
func (d TruncatedLognormal) Name() string { return "TruncatedLognormal" }

// TruncatedLogLogistic is the four-parameter right-skewed log-logistic
// distribution used for shellfish meal size, restricted to [Min, Max].
// Its CDF is F(x) = 1 / (1 + ((x-Gamma)/Beta)^(-Alpha)) for x > Gamma,
// inverted directly (no rejection needed away from the tails, but draws
// are still clamped into [Min, Max] for numerical robustness per the
// reference behavior).
type TruncatedLogLogistic struct {
	Alpha, Beta, Gamma, Min, Max float64
}

// DefaultMealSize is the reference shellfish meal-size distribution
// (grams), used when a scenario doesn't override it.
var DefaultMealSize = TruncatedLogLogistic{
	Alpha: 2.2046,
	Beta:  75.072,
	Gamma: -0.9032,
	Min:   5,
	Max:   800,
}

// NewTruncatedLogLogistic validates and constructs a TruncatedLogLogistic distribution.
func NewTruncatedLogLogistic(alpha, beta, gamma, min, max float64) (TruncatedLogLogistic, error) {
	if !(alpha > 0 && beta > 0) {
		return TruncatedLogLogistic{}, &InvalidParameterError{"TruncatedLogLogistic", "alpha and beta must be > 0"}
	}
	if !(min < max) {
		return TruncatedLogLogistic{}, &InvalidParameterError{"TruncatedLogLogistic", "min must be < max"}
	}
	return TruncatedLogLogistic{Alpha: alpha, Beta: beta, Gamma: gamma, Min: min, Max: max}, nil
}

// Sample draws n values by inverse-CDF transform, clamped to [Min, Max].
func (d TruncatedLogLogistic) Sample(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		u := rng.Float64()
		x := d.Gamma + d.Beta*math.Pow(u/(1-u), 1/d.Alpha)
		out[i] = clampRange(x, d.Min, d.Max)
	}
	return out
}

// Name returns "TruncatedLogLogistic".
func (d TruncatedLogLogistic) Name() string { return "TruncatedLogLogistic" }

// rejectionSample draws n values from draw, discarding (and redrawing)
// any outside [min, max]. If the acceptance rate is too low to fill the
// budget of maxRejectionAttempts per sample, the last draw is clamped
// into range rather than looping forever.
func rejectionSample(n int, min, max float64, draw func() float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		var x float64
		ok := false
		for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
			x = draw()
			if x >= min && x <= max {
				ok = true
				break
			}
		}
		if !ok {
			x = clampRange(x, min, max)
		}
		out[i] = x
	}
	return out
}

func clampRange(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
