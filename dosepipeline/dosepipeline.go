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

// Package dosepipeline composes the per-iteration arithmetic that turns a
// source-water pathogen concentration into an ingested, discretized dose:
// treatment attenuation, receiving-water dilution, exposure volume, and
// fractional-organism discretization.
package dosepipeline

import (
	"fmt"
	"math"
	"math/rand"
)

// Treat applies a log10 treatment reduction to each concentration:
// C_treated = C * 10^(-LRV). lrv may vary per iteration (drawn from
// Normal(LRV, sigma) when treatment-efficacy uncertainty is configured).
func Treat(conc, lrv []float64) []float64 {
	out := make([]float64, len(conc))
	for i := range conc {
		l := lrv[i]
		if l < 0 {
			l = 0 // a negative draw from the uncertainty distribution cannot increase the dose
		}
		out[i] = conc[i] * math.Pow(10, -l)
	}
	return out
}

// Dilute applies receiving-water dilution: C_recv = C_treated / D.
// Every dilution factor must be >= 1; a factor below 1 would amplify
// concentration rather than attenuate it, which is a precondition
// violation rather than something to silently accept.
func Dilute(treated, dilution []float64) ([]float64, error) {
	out := make([]float64, len(treated))
	for i, d := range dilution {
		if d < 1 {
			return nil, fmt.Errorf("dosepipeline: invalid dilution factor %g at iteration %d: must be >= 1", d, i)
		}
		out[i] = treated[i] / d
	}
	return out, nil
}

// RawDose computes the expected (non-integer) ingested dose in organisms:
// d_raw = C_recv * (V / 1000), converting the exposure volume from
// milliliters (or, for the shellfish route, meal mass in grams) to liters
// (kilograms).
func RawDose(concReceiving, volume []float64) []float64 {
	out := make([]float64, len(concReceiving))
	for i := range concReceiving {
		out[i] = concReceiving[i] * (volume[i] / 1000)
	}
	return out
}

// Discretize converts each expected dose d_raw into an integer organism
// count: floor(d_raw) plus a Bernoulli draw on the fractional remainder.
// This matches the reference spreadsheet's fractional-organism handling
// and is applied immediately before dose-response.
func Discretize(rawDose []float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(rawDose))
	for i, d := range rawDose {
		whole := math.Floor(d)
		frac := d - whole
		if rng.Float64() < frac {
			whole++
		}
		out[i] = whole
	}
	return out
}

// Bioaccumulate computes pathogen concentration in shellfish tissue from
// ambient receiving-water concentration and a bioaccumulation factor:
// C_tissue = C_recv * BAF.
func Bioaccumulate(concReceiving, baf []float64) []float64 {
	out := make([]float64, len(concReceiving))
	for i := range concReceiving {
		out[i] = concReceiving[i] * baf[i]
	}
	return out
}

// MethodHarmonisationFactor scales a measured concentration for comparison
// between water-only measurements and tissue-exposure assessments. It is
// applied once, inside the pathogen-concentration binding, never again at
// the dose stage.
const (
	MHFWater     = 1.0
	MHFShellfish = 18.5
)

// Dose composes the full per-iteration dose pipeline for the primary
// contact (swimming) route: treatment, dilution, volume, and fractional
// discretization. It does not apply bioaccumulation; see DoseShellfish for
// the shellfish-consumption route.
func Dose(conc, lrv, dilution, volume []float64, rng *rand.Rand) ([]float64, error) {
	treated := Treat(conc, lrv)
	recv, err := Dilute(treated, dilution)
	if err != nil {
		return nil, err
	}
	raw := RawDose(recv, volume)
	return Discretize(raw, rng), nil
}

// DoseShellfish composes the full per-iteration dose pipeline for the
// shellfish-consumption route: treatment, dilution, bioaccumulation into
// tissue, meal-size ingestion, and fractional discretization.
func DoseShellfish(conc, lrv, dilution, baf, mealSize []float64, rng *rand.Rand) ([]float64, error) {
	treated := Treat(conc, lrv)
	recv, err := Dilute(treated, dilution)
	if err != nil {
		return nil, err
	}
	tissue := Bioaccumulate(recv, baf)
	raw := RawDose(tissue, mealSize)
	return Discretize(raw, rng), nil
}

// SwimmingVolume computes the per-event ingestion volume (mL) from an
// ingestion rate (mL/h) and exposure duration (h), the two-distribution
// decomposition offered for the primary-contact route.
func SwimmingVolume(rateMLPerHour, durationHours []float64) []float64 {
	out := make([]float64, len(rateMLPerHour))
	for i := range rateMLPerHour {
		out[i] = rateMLPerHour[i] * durationHours[i]
	}
	return out
}
