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

// Package result holds the structured per-(scenario, site) output record
// produced by the scenario orchestrator, and the fixed compliance
// threshold it is checked against.
package result

import "math"

// WHOAnnualInfectionThreshold is the fixed WHO recreational-water annual
// infection risk threshold: 1 case per 10,000 exposed people per year.
// This is a constant of the interface, not a per-scenario configuration
// value (see spec §6, §9 open questions).
const WHOAnnualInfectionThreshold = 1e-4

// Status is the compliance verdict for a Result.
type Status string

const (
	Compliant    Status = "COMPLIANT"
	NonCompliant Status = "NON-COMPLIANT"
	Failed       Status = "FAILED"
)

// Percentiles holds the 5th, 50th (median), and 95th percentile of a Monte
// Carlo output array.
type Percentiles struct {
	P5, P50, P95 float64
}

// Valid reports whether the percentile ordering invariant p5 <= p50 <= p95
// holds, and every value is finite.
func (p Percentiles) Valid() bool {
	if math.IsNaN(p.P5) || math.IsNaN(p.P50) || math.IsNaN(p.P95) {
		return false
	}
	return p.P5 <= p.P50 && p.P50 <= p.P95
}

// Result is the output of evaluating one scenario against one dilution
// site. Site is empty for scenarios bound to a single fixed dilution
// value rather than a spatial dataset.
type Result struct {
	ScenarioID string
	Site       string
	Pathogen   string
	ModelName  string
	N          int
	Seed       int64

	PInfection  Percentiles
	AnnualRisk  Percentiles
	MedianIllnessProbability float64
	AnnualIllnessRisk        float64

	PopulationImpact        float64 // expected annual infections in the exposed population
	PopulationIllnessCases  float64 // expected annual illnesses in the exposed population

	Compliance Status

	DilutionMethod string // "ECDF", "Median", or "Fixed"
	PathogenMethod string // "HockeyStick" or "Fixed"

	ErrorKind    string
	ErrorMessage string
}

// NaN is the sentinel value used for numeric fields of a failed Result.
var NaN = math.NaN()

// Failure constructs a failed Result for scenarioID/site, with every
// floating-point field set to the NaN sentinel (N and Seed stay zero) and
// the compliance status set to
// Failed. The batch continues after a failure; see the scenario package.
func Failure(scenarioID, site, errKind, errMsg string) Result {
	return Result{
		ScenarioID:               scenarioID,
		Site:                     site,
		PInfection:               Percentiles{NaN, NaN, NaN},
		AnnualRisk:               Percentiles{NaN, NaN, NaN},
		MedianIllnessProbability: NaN,
		AnnualIllnessRisk:        NaN,
		PopulationImpact:         NaN,
		PopulationIllnessCases:   NaN,
		Compliance:               Failed,
		ErrorKind:                errKind,
		ErrorMessage:             errMsg,
	}
}

// ComplianceStatus returns Compliant iff medianAnnualInfectionRisk is at or
// below WHOAnnualInfectionThreshold, else NonCompliant.
func ComplianceStatus(medianAnnualInfectionRisk float64) Status {
	if medianAnnualInfectionRisk <= WHOAnnualInfectionThreshold {
		return Compliant
	}
	return NonCompliant
}
