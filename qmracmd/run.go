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

package qmracmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spatialmodel/qmra/pathogen"
	"github.com/spatialmodel/qmra/result"
	"github.com/spatialmodel/qmra/scenario"
)

// resultRow adapts a result.Result to the CSV output schema.
type resultRow result.Result

func (r resultRow) record() []string {
	res := result.Result(r)
	return []string{
		res.ScenarioID, res.Site, res.Pathogen, res.ModelName,
		fmt.Sprintf("%d", res.N), fmt.Sprintf("%d", res.Seed),
		formatFloat(res.PInfection.P50), formatFloat(res.PInfection.P5), formatFloat(res.PInfection.P95),
		formatFloat(res.AnnualRisk.P50), formatFloat(res.AnnualRisk.P5), formatFloat(res.AnnualRisk.P95),
		formatFloat(res.AnnualIllnessRisk), formatFloat(res.PopulationImpact), formatFloat(res.PopulationIllnessCases),
		string(res.Compliance), res.DilutionMethod, res.PathogenMethod,
		res.ErrorKind, res.ErrorMessage,
	}
}

// loadInputs resolves the --pathogens, --scenarios, --dilution, and
// --concentration flags into a registry and a scenario slice.
func loadInputs(cfg *Cfg) (*pathogen.Registry, []scenario.Scenario, error) {
	var registry *pathogen.Registry
	if path := cfg.GetString("pathogens"); path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, nil, err
		}
		registry, err = pathogen.Load(data)
		if err != nil {
			return nil, nil, err
		}
	} else {
		var err error
		registry, err = pathogen.Default()
		if err != nil {
			return nil, nil, err
		}
	}

	scenariosPath, err := requireFlag(cfg, "scenarios")
	if err != nil {
		return nil, nil, err
	}
	dilutionPath, err := requireFlag(cfg, "dilution")
	if err != nil {
		return nil, nil, err
	}
	dilution, err := loadDilutionTable(dilutionPath)
	if err != nil {
		return nil, nil, err
	}
	concByScenario := map[string]scenario.ConcentrationBinding{}
	if path := cfg.GetString("concentration"); path != "" {
		concByScenario, err = loadConcentrationTable(path)
		if err != nil {
			return nil, nil, err
		}
	}
	scenarios, err := loadScenarioTable(scenariosPath, dilution, concByScenario)
	if err != nil {
		return nil, nil, err
	}
	if n := cfg.GetInt("n"); n > 0 {
		for i := range scenarios {
			scenarios[i].N = n
		}
	}
	return registry, scenarios, nil
}

func readFile(path string) ([]byte, error) {
	f, err := openWithRetry(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Validate parses every input table and reports scenario validation errors
// without running the Monte Carlo batch.
func Validate(cfg *Cfg) error {
	_, scenarios, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	var bad int
	for _, sc := range scenarios {
		if err := sc.Validate(); err != nil {
			log.Printf("scenario %s: %v", sc.ScenarioID, err)
			bad++
		}
	}
	log.Printf("parsed %d scenarios, %d invalid", len(scenarios), bad)
	if bad > 0 {
		return fmt.Errorf("qmracmd: %d scenario(s) failed validation", bad)
	}
	return nil
}

// Run executes the full batch: load inputs, run the orchestrator
// (optionally across a worker pool while preserving input-order emission,
// per the scenario package's deterministic seeding), and write the result
// table.
func Run(cfg *Cfg) error {
	registry, scenarios, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	outputPath, err := checkOutputFile(cfg.GetString("output"))
	if err != nil {
		return err
	}

	orch := scenario.NewOrchestrator(registry, cfg.GetInt64("seed"))
	workers := cfg.GetInt("workers")

	log.Printf("running %d scenarios (workers=%d)", len(scenarios), workers)
	var results []result.Result
	if workers <= 1 {
		results = orch.RunBatch(scenarios)
	} else {
		results = runParallel(orch, scenarios, workers)
	}

	rows := make([]resultRow, len(results))
	for i, r := range results {
		rows[i] = resultRow(r)
	}
	if err := writeResultCSV(outputPath, rows); err != nil {
		return err
	}
	log.Printf("wrote %d result rows to %s", len(rows), outputPath)
	return nil
}

// runParallel evaluates each scenario independently across a worker pool,
// then reassembles results in input order. A scenario without its own Seed
// is given orch.SeedFor(index), the seed RunBatch derives from (baseSeed,
// index) on the sequential path, so this produces results identical to the
// sequential path regardless of scheduling (spec §5).
func runParallel(orch *scenario.Orchestrator, scenarios []scenario.Scenario, workers int) []result.Result {
	type indexed struct {
		i   int
		out []result.Result
	}
	jobs := make(chan int)
	out := make(chan indexed)

	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				sc := scenarios[i]
				if sc.Seed == nil {
					seed := orch.SeedFor(i)
					sc.Seed = &seed
				}
				out <- indexed{i: i, out: orch.RunBatch([]scenario.Scenario{sc})}
			}
		}()
	}
	go func() {
		for i := range scenarios {
			jobs <- i
		}
		close(jobs)
	}()

	perScenario := make([][]result.Result, len(scenarios))
	for range scenarios {
		r := <-out
		perScenario[r.i] = r.out
	}
	var results []result.Result
	for _, rs := range perScenario {
		results = append(results, rs...)
	}
	return results
}
