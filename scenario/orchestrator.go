package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialmodel/qmra/distributions"
	"github.com/spatialmodel/qmra/dosepipeline"
	"github.com/spatialmodel/qmra/doseresponse"
	"github.com/spatialmodel/qmra/montecarlo"
	"github.com/spatialmodel/qmra/pathogen"
	"github.com/spatialmodel/qmra/result"
)

// Orchestrator iterates a batch of scenarios, binding distributions,
// running the Monte Carlo engine and dose pipeline, and emitting Result
// records. Failure of one scenario does not abort the batch.
type Orchestrator struct {
	Registry *pathogen.Registry

	// BaseSeed seeds the per-scenario RNGs; each scenario's actual seed is
	// derived from BaseSeed and its ordinal index unless the scenario
	// supplies its own Seed override.
	BaseSeed int64
}

// NewOrchestrator constructs an Orchestrator bound to registry, with a base
// seed for deterministic per-scenario RNG derivation.
func NewOrchestrator(registry *pathogen.Registry, baseSeed int64) *Orchestrator {
	return &Orchestrator{Registry: registry, BaseSeed: baseSeed}
}

// SeedFor returns the RNG seed RunBatch would derive for the scenario at
// ordinal position index in a batch, without running it. Callers that
// dispatch scenarios to a worker pool one at a time (rather than calling
// RunBatch with the full slice) should set Scenario.Seed to this value so
// results stay identical to the sequential path.
func (o *Orchestrator) SeedFor(index int) int64 {
	return deriveSeed(o.BaseSeed, index)
}

// RunBatch evaluates every scenario in order, emitting one Result per
// (scenario, site) pair in input order. A scenario that references a
// spatial dilution dataset produces one Result per site.
func (o *Orchestrator) RunBatch(scenarios []Scenario) []result.Result {
	var out []result.Result
	for i, sc := range scenarios {
		if err := sc.Validate(); err != nil {
			out = append(out, result.Failure(sc.ScenarioID, "", errorKind(err), err.Error()))
			continue
		}
		seed := o.BaseSeed
		if sc.Seed != nil {
			seed = *sc.Seed
		} else {
			seed = deriveSeed(o.BaseSeed, i)
		}
		for _, site := range sites(sc.Dilution) {
			out = append(out, o.runOne(sc, site, seed))
		}
	}
	return out
}

// sites returns the ordered list of sites to evaluate for a dilution
// binding: a single empty-string "site" for non-spatial bindings, or the
// sorted site names for a spatial dataset.
func sites(d DilutionBinding) []string {
	if len(d.Sites) == 0 {
		return []string{""}
	}
	names := make([]string, 0, len(d.Sites))
	for name := range d.Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *Orchestrator) runOne(sc Scenario, site string, seed int64) result.Result {
	fail := func(kind string, err error) result.Result {
		return result.Failure(sc.ScenarioID, site, kind, err.Error())
	}

	modelName, err := o.Registry.DefaultModel(sc.PathogenID)
	if err != nil {
		return fail("UnknownPathogen", err)
	}
	params, err := o.Registry.Parameters(sc.PathogenID, modelName)
	if err != nil {
		return fail("UnknownModel", err)
	}
	model, err := doseresponse.New(modelName, params)
	if err != nil {
		return fail("InvalidParameter", err)
	}
	health, err := o.Registry.HealthImpactData(sc.PathogenID)
	if err != nil {
		return fail("UnknownPathogen", err)
	}

	n := sc.IterationCount()
	engine := montecarlo.New(seed)

	concDist, concMethod, err := resolveConcentration(sc.Concentration)
	if err != nil {
		return fail("InvalidParameter", err)
	}
	engine.Add("pathogen_concentration", concDist)

	dilDist, dilMethod, err := resolveDilution(sc.Dilution, site)
	if err != nil {
		return fail("InvalidParameter", err)
	}
	engine.Add("dilution", dilDist)

	if sc.TreatmentLRVUncertaintySigma > 0 {
		lrvDist, err := distributions.NewNormal(sc.TreatmentLRV, sc.TreatmentLRVUncertaintySigma)
		if err != nil {
			return fail("InvalidParameter", err)
		}
		engine.Add("treatment_lrv", lrvDist)
	} else {
		engine.Add("treatment_lrv", distributions.Constant{Value: sc.TreatmentLRV})
	}

	if sc.Route == ShellfishConsumption {
		baf, err := distributions.NewTruncatedNormal(44.9, 20.93, 1, 100)
		if err != nil {
			return fail("InvalidParameter", err)
		}
		engine.Add("baf", baf)
	}

	usesSeparateRateAndDuration := false
	switch sc.Ingestion.Kind {
	case IngestionFixed:
		engine.Add("volume", distributions.Constant{Value: sc.Ingestion.Fixed})
	case IngestionUniform:
		u, err := distributions.NewUniform(sc.Ingestion.Min, sc.Ingestion.Max)
		if err != nil {
			return fail("InvalidParameter", err)
		}
		engine.Add("volume", u)
	case IngestionRouteDefault:
		if sc.Route == ShellfishConsumption {
			engine.Add("volume", distributions.DefaultMealSize)
		} else {
			rate, err := distributions.NewTruncatedLognormal(53, 75, 5, 200)
			if err != nil {
				return fail("InvalidParameter", err)
			}
			duration, err := distributions.NewTriangular(0.2, 1.0, 4.0)
			if err != nil {
				return fail("InvalidParameter", err)
			}
			engine.Add("ingestion_rate", rate)
			engine.Add("duration", duration)
			usesSeparateRateAndDuration = true
		}
	default:
		return fail("InvalidInput", fmt.Errorf("scenario %s: unrecognized ingestion binding", sc.ScenarioID))
	}

	rng := engine.Rand()
	mc, err := engine.Run(n, "p_event", func(samples map[string][]float64) ([]float64, error) {
		conc := samples["pathogen_concentration"]
		lrv := samples["treatment_lrv"]
		dilution := samples["dilution"]

		var doses []float64
		var derr error
		if sc.Route == ShellfishConsumption {
			harmonised := make([]float64, len(conc))
			for i, c := range conc {
				harmonised[i] = c * dosepipeline.MHFShellfish
			}
			doses, derr = dosepipeline.DoseShellfish(harmonised, lrv, dilution, samples["baf"], samples["volume"], rng)
		} else {
			volume := samples["volume"]
			if usesSeparateRateAndDuration {
				volume = dosepipeline.SwimmingVolume(samples["ingestion_rate"], samples["duration"])
			}
			doses, derr = dosepipeline.Dose(conc, lrv, dilution, volume, rng)
		}
		if derr != nil {
			return nil, derr
		}
		return doseresponse.Vectorize(model, doses), nil
	})
	if err != nil {
		return fail("InvalidInput", err)
	}

	if idx := montecarlo.CheckFinite(mc.Values); idx >= 0 {
		return fail("NumericFailure", &NumericFailureError{Variable: "p_event", Index: idx})
	}

	pInf := mc.Values
	f := sc.ExposureFrequencyPerYear
	pIll := make([]float64, n)
	annualInf := make([]float64, n)
	annualIll := make([]float64, n)
	for i, p := range pInf {
		pIll[i] = p * health.PIllnessGivenInfection * health.PopulationSusceptibility
		annualInf[i] = 1 - pow1m(p, f)
		annualIll[i] = 1 - pow1m(pIll[i], f)
	}

	pInfPct := montecarlo.Percentiles(pInf, []float64{5, 50, 95})
	annualInfPct := montecarlo.Percentiles(annualInf, []float64{5, 50, 95})
	medianIll := montecarlo.Percentiles(pIll, []float64{50})[50]
	medianAnnualIll := montecarlo.Percentiles(annualIll, []float64{50})[50]

	return result.Result{
		ScenarioID: sc.ScenarioID,
		Site:       site,
		Pathogen:   sc.PathogenID,
		ModelName:  modelName,
		N:          n,
		Seed:       seed,
		PInfection: result.Percentiles{P5: pInfPct[5], P50: pInfPct[50], P95: pInfPct[95]},
		AnnualRisk: result.Percentiles{P5: annualInfPct[5], P50: annualInfPct[50], P95: annualInfPct[95]},
		MedianIllnessProbability: medianIll,
		AnnualIllnessRisk:        medianAnnualIll,
		PopulationImpact:         sc.ExposedPopulation * annualInfPct[50],
		PopulationIllnessCases:   sc.ExposedPopulation * medianAnnualIll,
		Compliance:               result.ComplianceStatus(annualInfPct[50]),
		DilutionMethod:           dilMethod,
		PathogenMethod:           concMethod,
	}
}

// pow1m computes (1-x)^f, the survival-probability term in the annual-risk
// formula 1-(1-x)^f.
func pow1m(x, f float64) float64 {
	base := 1 - x
	if base <= 0 {
		return 0
	}
	return math.Pow(base, f)
}

func resolveConcentration(c ConcentrationBinding) (distributions.Distribution, string, error) {
	if c.Fixed != nil {
		return distributions.Constant{Value: *c.Fixed}, "Fixed", nil
	}
	p := c.P
	if p == 0 {
		p = DefaultHockeyStickP
	}
	hs, err := distributions.NewHockeyStick(c.Min, c.Median, c.Max, p)
	if err != nil {
		return nil, "", err
	}
	return hs, "HockeyStick", nil
}

func resolveDilution(d DilutionBinding, site string) (distributions.Distribution, string, error) {
	if d.Fixed != nil {
		if *d.Fixed < 1 {
			return nil, "", fmt.Errorf("dilution: fixed factor must be >= 1, got %g", *d.Fixed)
		}
		return distributions.Constant{Value: *d.Fixed}, "Fixed", nil
	}
	values := d.Values
	if len(d.Sites) > 0 {
		v, ok := d.Sites[site]
		if !ok {
			return nil, "", fmt.Errorf("dilution: no samples for site %q", site)
		}
		values = v
	}
	if len(values) == 0 {
		return nil, "", fmt.Errorf("dilution: no binding supplied (need Fixed, Values, or Sites)")
	}
	if d.UseMedian {
		return distributions.Constant{Value: medianOf(values)}, "Median", nil
	}
	ecdf, err := distributions.NewEmpiricalCDF(values)
	if err != nil {
		return nil, "", err
	}
	return ecdf, "ECDF", nil
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	m := len(sorted)
	if m%2 == 1 {
		return sorted[m/2]
	}
	return (sorted[m/2-1] + sorted[m/2]) / 2
}

func errorKind(err error) string {
	switch err.(type) {
	case *InvalidParameterError:
		return "InvalidParameter"
	case *InvalidInputError:
		return "InvalidInput"
	case *NumericFailureError:
		return "NumericFailure"
	default:
		return "InvalidInput"
	}
}
