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

// Package distributions holds parametric and empirical probability
// distributions used to drive the Monte Carlo sampling layer of the risk
// model. Every distribution is deterministic given an RNG seed.
package distributions

import (
	"fmt"
	"math/rand"
)

// Distribution is any named random variable that can be drawn from given
// an RNG.
type Distribution interface {
	// Sample draws n independent values using rng.
	Sample(n int, rng *rand.Rand) []float64

	// Name returns the distribution's descriptive name, e.g. "Uniform".
	Name() string
}

// InvalidParameterError reports that a distribution's construction
// parameters violate its documented invariants.
type InvalidParameterError struct {
	Distribution string
	Msg          string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("distributions: invalid parameter for %s: %s", e.Distribution, e.Msg)
}

// Constant is a degenerate distribution that always returns the same
// value, used to bind a fixed (non-random) scenario input into the Monte
// Carlo engine alongside genuinely random distributions.
type Constant struct {
	Value float64
}

// Sample returns n copies of Value; rng is unused.
func (c Constant) Sample(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c.Value
	}
	return out
}

// Name returns "Constant".
func (c Constant) Name() string { return "Constant" }
