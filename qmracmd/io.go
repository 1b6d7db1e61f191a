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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/cast"

	"github.com/spatialmodel/qmra/scenario"
)

// openWithRetry opens path, retrying on transient errors (e.g. a network
// mount not yet settled) following the retry idiom used for batch job
// polling elsewhere in this codebase's lineage.
func openWithRetry(path string) (*os.File, error) {
	var f *os.File
	op := func() error {
		var err error
		f, err = os.Open(path)
		if err != nil && os.IsNotExist(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 5 * time.Second
	if err := backoff.Retry(op, b); err != nil {
		return nil, fmt.Errorf("qmracmd: opening %s: %v", path, err)
	}
	return f, nil
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := openWithRetry(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("qmracmd: reading header of %s: %v", path, err)
	}
	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("qmracmd: reading %s: %v", path, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func column(row map[string]string, names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := row[n]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func floatColumn(row map[string]string, names ...string) (float64, bool, error) {
	s, ok := column(row, names...)
	if !ok {
		return 0, false, nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, false, fmt.Errorf("qmracmd: parsing %q as a number: %v", s, err)
	}
	return v, true, nil
}

// loadDilutionTable reads the dilution table (§6: Site_Name/Location,
// Dilution_Factor) into a map of site name to ordered dilution factors.
func loadDilutionTable(path string) (map[string][]float64, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64)
	for _, row := range rows {
		site, _ := column(row, "Site_Name", "Location")
		if site == "" {
			site = "default"
		}
		v, ok, err := floatColumn(row, "Dilution_Factor")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[site] = append(out[site], v)
	}
	return out, nil
}

// loadConcentrationTable reads the pathogen-concentration table (§6) keyed
// by Scenario_ID, yielding either a fixed concentration or a HockeyStick
// triple per scenario.
func loadConcentrationTable(path string) (map[string]scenario.ConcentrationBinding, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]scenario.ConcentrationBinding)
	for _, row := range rows {
		id, _ := column(row, "Scenario_ID")
		if id == "" {
			continue
		}
		binding, err := concentrationFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("qmracmd: concentration row for %s: %v", id, err)
		}
		out[id] = binding
	}
	return out, nil
}

func concentrationFromRow(row map[string]string) (scenario.ConcentrationBinding, error) {
	if v, ok, err := floatColumn(row, "Effluent_Conc"); err != nil {
		return scenario.ConcentrationBinding{}, err
	} else if ok {
		return scenario.ConcentrationBinding{Fixed: &v}, nil
	}
	min, _, err := floatColumn(row, "Min_Concentration")
	if err != nil {
		return scenario.ConcentrationBinding{}, err
	}
	median, _, err := floatColumn(row, "Median_Concentration")
	if err != nil {
		return scenario.ConcentrationBinding{}, err
	}
	max, _, err := floatColumn(row, "Max_Concentration")
	if err != nil {
		return scenario.ConcentrationBinding{}, err
	}
	p, hasP, err := floatColumn(row, "P_Breakpoint")
	if err != nil {
		return scenario.ConcentrationBinding{}, err
	}
	if !hasP {
		p = scenario.DefaultHockeyStickP
	}
	return scenario.ConcentrationBinding{Min: min, Median: median, Max: max, P: p}, nil
}

// loadScenarioTable reads the scenario table (§6) into Scenario records,
// resolving each row's dilution and concentration bindings against the
// supplied datasets.
func loadScenarioTable(path string, dilution map[string][]float64, conc map[string]scenario.ConcentrationBinding) ([]scenario.Scenario, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make([]scenario.Scenario, 0, len(rows))
	for _, row := range rows {
		sc, err := scenarioFromRow(row, dilution, conc)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func scenarioFromRow(row map[string]string, dilution map[string][]float64, conc map[string]scenario.ConcentrationBinding) (scenario.Scenario, error) {
	id, _ := column(row, "Scenario_ID")
	pathogenID, _ := column(row, "Pathogen", "Pathogen_ID")
	routeStr, _ := column(row, "Exposure_Route")

	lrv, _, err := floatColumn(row, "Treatment_LRV")
	if err != nil {
		return scenario.Scenario{}, err
	}
	lrvSigma, _, err := floatColumn(row, "Treatment_LRV_Uncertainty")
	if err != nil {
		return scenario.Scenario{}, err
	}
	freq, _, err := floatColumn(row, "Exposure_Frequency_per_Year")
	if err != nil {
		return scenario.Scenario{}, err
	}
	pop, _, err := floatColumn(row, "Exposed_Population")
	if err != nil {
		return scenario.Scenario{}, err
	}
	n, hasN, err := floatColumn(row, "N")
	if err != nil {
		return scenario.Scenario{}, err
	}

	sc := scenario.Scenario{
		ScenarioID:                   id,
		PathogenID:                   pathogenID,
		Route:                        scenario.ExposureRoute(routeStr),
		TreatmentLRV:                 lrv,
		TreatmentLRVUncertaintySigma: lrvSigma,
		ExposureFrequencyPerYear:     freq,
		ExposedPopulation:            pop,
	}
	if hasN {
		sc.N = int(n)
	}
	if c, ok := conc[id]; ok {
		sc.Concentration = c
	} else if v, ok, err := floatColumn(row, "Effluent_Conc"); err != nil {
		return scenario.Scenario{}, err
	} else if ok {
		sc.Concentration = scenario.ConcentrationBinding{Fixed: &v}
	}

	if len(dilution) == 1 {
		for _, v := range dilution {
			sc.Dilution = scenario.DilutionBinding{Values: v}
		}
	} else if len(dilution) > 1 {
		sc.Dilution = scenario.DilutionBinding{Sites: dilution}
	}
	if v, ok, err := floatColumn(row, "Dilution_Factor"); err != nil {
		return scenario.Scenario{}, err
	} else if ok {
		sc.Dilution = scenario.DilutionBinding{Fixed: &v}
	}

	sc.Ingestion, err = ingestionFromRow(row)
	if err != nil {
		return scenario.Scenario{}, err
	}
	return sc, nil
}

func ingestionFromRow(row map[string]string) (scenario.IngestionBinding, error) {
	if min, ok, err := floatColumn(row, "Volume_Min"); err != nil {
		return scenario.IngestionBinding{}, err
	} else if ok {
		max, _, err := floatColumn(row, "Volume_Max")
		if err != nil {
			return scenario.IngestionBinding{}, err
		}
		return scenario.IngestionBinding{Kind: scenario.IngestionUniform, Min: min, Max: max}, nil
	}
	if v, ok, err := floatColumn(row, "Ingestion_Volume", "Volume"); err != nil {
		return scenario.IngestionBinding{}, err
	} else if ok {
		return scenario.IngestionBinding{Kind: scenario.IngestionFixed, Fixed: v}, nil
	}
	return scenario.IngestionBinding{Kind: scenario.IngestionRouteDefault}, nil
}

// writeResultCSV writes the result table (§6) to path.
func writeResultCSV(path string, rows []resultRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("qmracmd: creating %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"Scenario_ID", "Site", "Pathogen", "Model", "N", "Seed",
		"Pinf_Median", "Pinf_5th", "Pinf_95th",
		"Annual_Risk_Median", "Annual_Risk_5th", "Annual_Risk_95th",
		"Annual_Illness_Risk", "Population_Impact", "Population_Illness_Cases",
		"Compliance_Status", "Dilution_Method", "Pathogen_Method",
		"Error_Kind", "Error_Message",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
