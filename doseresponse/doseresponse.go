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

// Package doseresponse holds a collection of functions for calculating the
// probability of infection caused by an ingested dose of a pathogen.
package doseresponse

import (
	"fmt"
	"math"
)

// Model is an interface for any type that can calculate the probability of
// infection caused by dose d, in organisms.
type Model interface {
	PInfection(d float64) float64
	Name() string
}

// BetaBinomial implements the exact Beta-Binomial (hypergeometric) dose-response
// model used by default for norovirus:
//
//	log_q(d) = lnΓ(β+d) + lnΓ(α+β) − lnΓ(α+β+d) − lnΓ(β)
//	P(infection|d) = clamp(1 − exp(log_q(d)), 0, 1)
//
// The log-gamma function is used directly rather than combining naive Γ
// values, which overflow for d greater than about 170.
type BetaBinomial struct {
	Alpha, Beta float64
}

// PInfection calculates the probability of infection for dose d organisms.
// d must be >= 0.
func (m BetaBinomial) PInfection(d float64) float64 {
	if d < 0 {
		panic(fmt.Errorf("doseresponse: BetaBinomial: negative dose %g", d))
	}
	lgB, _ := math.Lgamma(m.Beta + d)
	lgAB, _ := math.Lgamma(m.Alpha + m.Beta)
	lgABd, _ := math.Lgamma(m.Alpha + m.Beta + d)
	lgBeta, _ := math.Lgamma(m.Beta)
	logQ := lgB + lgAB - lgABd - lgBeta
	p := 1 - math.Exp(logQ)
	return clamp(p)
}

// Name returns the model name used for registry lookups.
func (m BetaBinomial) Name() string { return "beta_binomial" }

// BetaPoisson implements the approximate Beta-Poisson dose-response model:
//
//	P(infection|d) = 1 − (1 + d/β)^(−α)
//
// This approximation is only valid when β >> 1; callers must reject
// configurations with β < 1 (see pathogen.Registry, which refuses such a
// default for norovirus).
type BetaPoisson struct {
	Alpha, Beta float64
}

// PInfection calculates the probability of infection for dose d organisms.
func (m BetaPoisson) PInfection(d float64) float64 {
	if d < 0 {
		panic(fmt.Errorf("doseresponse: BetaPoisson: negative dose %g", d))
	}
	p := 1 - math.Pow(1+d/m.Beta, -m.Alpha)
	return clamp(p)
}

// Name returns the model name used for registry lookups.
func (m BetaPoisson) Name() string { return "beta_poisson" }

// Invalid reports whether this parameterization falls outside the regime
// where the Beta-Poisson approximation to the exact hypergeometric model
// is valid (β < 1).
func (m BetaPoisson) Invalid() bool { return m.Beta < 1 }

// Exponential implements the single-hit exponential dose-response model:
//
//	P(infection|d) = 1 − exp(−r·d)
type Exponential struct {
	R float64
}

// PInfection calculates the probability of infection for dose d organisms.
func (m Exponential) PInfection(d float64) float64 {
	if d < 0 {
		panic(fmt.Errorf("doseresponse: Exponential: negative dose %g", d))
	}
	return clamp(1 - math.Exp(-m.R*d))
}

// Name returns the model name used for registry lookups.
func (m Exponential) Name() string { return "exponential" }

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// New constructs a Model by name from a parameter map, as looked up from a
// pathogen.Registry. Unknown names fail with an *UnknownModelError.
func New(name string, params map[string]float64) (Model, error) {
	switch name {
	case "beta_binomial":
		return BetaBinomial{Alpha: params["alpha"], Beta: params["beta"]}, nil
	case "beta_poisson":
		m := BetaPoisson{Alpha: params["alpha"], Beta: params["beta"]}
		if m.Invalid() {
			return nil, fmt.Errorf("doseresponse: beta_poisson parameters invalid: beta=%g < 1, the approximation does not hold", m.Beta)
		}
		return m, nil
	case "exponential":
		return Exponential{R: params["r"]}, nil
	default:
		return nil, &UnknownModelError{Model: name}
	}
}

// UnknownModelError is returned by New when the requested model name is not
// one of the closed set of supported dose-response models.
type UnknownModelError struct{ Model string }

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("doseresponse: unknown dose-response model %q", e.Model)
}

// Vectorize applies m to every element of doses, returning a newly
// allocated array of infection probabilities.
func Vectorize(m Model, doses []float64) []float64 {
	out := make([]float64, len(doses))
	for i, d := range doses {
		out[i] = m.PInfection(d)
	}
	return out
}
