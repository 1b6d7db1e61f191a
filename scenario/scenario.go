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

// Package scenario holds the exposure-scenario configuration record and the
// batch orchestrator that evaluates scenarios against the dose-response,
// distribution, and Monte Carlo layers to produce result.Result records.
package scenario

import "fmt"

// ExposureRoute is a closed enum of the two supported exposure pathways.
type ExposureRoute string

const (
	PrimaryContact       ExposureRoute = "primary_contact"
	ShellfishConsumption ExposureRoute = "shellfish_consumption"
)

// DefaultN is the default Monte Carlo iteration count used when a Scenario
// doesn't specify one.
const DefaultN = 10000

// DefaultHockeyStickP is the default P breakpoint for a HockeyStick
// concentration binding when one isn't supplied.
const DefaultHockeyStickP = 0.95

// ConcentrationBinding describes how a scenario's pathogen concentration is
// supplied: either a fixed value, or a HockeyStick distribution over
// {Min, Median, Max} with an optional P breakpoint.
type ConcentrationBinding struct {
	// Fixed, if non-nil, is a constant concentration in organisms/L.
	Fixed *float64

	// Min, Median, Max define a HockeyStick distribution when Fixed is nil.
	Min, Median, Max float64

	// P is the HockeyStick tail breakpoint; defaults to DefaultHockeyStickP
	// when zero and Fixed is nil.
	P float64
}

// DilutionBinding describes how a scenario's receiving-water dilution is
// supplied. Exactly one of Fixed, Values, or Sites should be set.
type DilutionBinding struct {
	// Fixed, if non-nil, is a constant dilution factor (must be >= 1).
	Fixed *float64

	// Values, if non-empty, is a single-site empirical sample of dilution
	// factors (an ECDF).
	Values []float64

	// Sites, if non-empty, maps site name to a per-site empirical sample of
	// dilution factors. When set, the orchestrator emits one Result per
	// site.
	Sites map[string][]float64

	// UseMedian, if true, collapses Values/Sites to their median instead of
	// sampling the full empirical distribution (Dilution_Method "Median").
	UseMedian bool
}

// IngestionKind selects how a scenario's exposure volume is supplied.
type IngestionKind int

const (
	// IngestionFixed uses a constant volume (mL, or grams for shellfish).
	IngestionFixed IngestionKind = iota
	// IngestionUniform draws volume from Uniform{Min,Max}.
	IngestionUniform
	// IngestionRouteDefault uses the route-specific decomposition: rate x
	// duration for primary_contact, the default meal-size distribution for
	// shellfish_consumption.
	IngestionRouteDefault
)

// IngestionBinding describes how a scenario's per-event exposure volume
// is supplied.
type IngestionBinding struct {
	Kind     IngestionKind
	Fixed    float64
	Min, Max float64
}

// Scenario is one row of the scenario table: a fully-specified exposure
// assessment to be evaluated by the Orchestrator.
type Scenario struct {
	ScenarioID string
	PathogenID string
	Route      ExposureRoute

	// TreatmentLRV is the nominal log10 treatment reduction (>= 0).
	TreatmentLRV float64
	// TreatmentLRVUncertaintySigma, if > 0, draws LRV per iteration from
	// Normal(TreatmentLRV, TreatmentLRVUncertaintySigma) instead of using
	// the fixed value.
	TreatmentLRVUncertaintySigma float64

	Dilution      DilutionBinding
	Concentration ConcentrationBinding
	Ingestion     IngestionBinding

	ExposureFrequencyPerYear float64
	ExposedPopulation        float64

	// N is the Monte Carlo iteration count; DefaultN is used when zero.
	N int

	// Seed, if non-nil, overrides the per-scenario RNG seed that would
	// otherwise be derived from the batch's base seed and this scenario's
	// ordinal position.
	Seed *int64
}

// Validate checks the invariants from §3 and §4.5 that don't require
// constructing a distribution to detect (those are surfaced by the
// distributions package at bind time).
func (s Scenario) Validate() error {
	if s.ScenarioID == "" {
		return &InvalidInputError{Msg: "scenario_id is required"}
	}
	if s.Route != PrimaryContact && s.Route != ShellfishConsumption {
		return &InvalidInputError{Msg: fmt.Sprintf("scenario %s: unknown exposure_route %q", s.ScenarioID, s.Route)}
	}
	if s.TreatmentLRV < 0 {
		return &InvalidParameterError{Msg: fmt.Sprintf("scenario %s: treatment_lrv must be >= 0, got %g", s.ScenarioID, s.TreatmentLRV)}
	}
	if s.ExposureFrequencyPerYear <= 0 {
		return &InvalidInputError{Msg: fmt.Sprintf("scenario %s: exposure_frequency_per_year must be > 0", s.ScenarioID)}
	}
	if s.ExposedPopulation < 0 {
		return &InvalidInputError{Msg: fmt.Sprintf("scenario %s: exposed_population must be >= 0", s.ScenarioID)}
	}
	if s.Dilution.Fixed != nil && *s.Dilution.Fixed < 1 {
		return &InvalidParameterError{Msg: fmt.Sprintf("scenario %s: fixed dilution factor must be >= 1, got %g", s.ScenarioID, *s.Dilution.Fixed)}
	}
	return nil
}

// IterationCount returns the configured iteration count, or DefaultN if unset.
func (s Scenario) IterationCount() int {
	if s.N > 0 {
		return s.N
	}
	return DefaultN
}

// InvalidParameterError reports a scenario or binding parameter that
// violates a documented invariant (e.g. a negative LRV).
type InvalidParameterError struct{ Msg string }

func (e *InvalidParameterError) Error() string { return "scenario: invalid parameter: " + e.Msg }

// InvalidInputError reports a scenario table row that fails required-field
// or type checks.
type InvalidInputError struct{ Msg string }

func (e *InvalidInputError) Error() string { return "scenario: invalid input: " + e.Msg }

// NumericFailureError reports a non-finite intermediate value detected
// during the vectorized Monte Carlo run.
type NumericFailureError struct {
	Variable string
	Index    int
}

func (e *NumericFailureError) Error() string {
	return fmt.Sprintf("scenario: numeric failure in %q at iteration %d", e.Variable, e.Index)
}
