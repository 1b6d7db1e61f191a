package qmracmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spatialmodel/qmra/result"
	"github.com/spatialmodel/qmra/scenario"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDilutionTableSingleSite(t *testing.T) {
	path := writeTempCSV(t, "dilution.csv", "Site_Name,Dilution_Factor\ndefault,5\ndefault,8\ndefault,10\n")
	dilution, err := loadDilutionTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(dilution["default"]) != 3 {
		t.Errorf("got %d dilution values, want 3", len(dilution["default"]))
	}
}

func TestLoadDilutionTableMultiSite(t *testing.T) {
	path := writeTempCSV(t, "dilution.csv", "Location,Dilution_Factor\nDischarge,1\n50m,8\n1000m,400\n")
	dilution, err := loadDilutionTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(dilution) != 3 {
		t.Errorf("got %d sites, want 3", len(dilution))
	}
}

func TestLoadScenarioTableFixedBindings(t *testing.T) {
	dilutionPath := writeTempCSV(t, "dilution.csv", "Site_Name,Dilution_Factor\ndefault,10\n")
	dilution, err := loadDilutionTable(dilutionPath)
	if err != nil {
		t.Fatal(err)
	}
	scenariosPath := writeTempCSV(t, "scenarios.csv",
		"Scenario_ID,Pathogen,Exposure_Route,Treatment_LRV,Effluent_Conc,Ingestion_Volume,Exposure_Frequency_per_Year,Exposed_Population\n"+
			"S1,norovirus,primary_contact,3,1000000,50,20,10000\n")
	scenarios, err := loadScenarioTable(scenariosPath, dilution, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 1 {
		t.Fatalf("got %d scenarios, want 1", len(scenarios))
	}
	sc := scenarios[0]
	if sc.ScenarioID != "S1" || sc.PathogenID != "norovirus" {
		t.Errorf("unexpected scenario: %+v", sc)
	}
	if sc.Route != scenario.PrimaryContact {
		t.Errorf("route = %v, want primary_contact", sc.Route)
	}
	if sc.Concentration.Fixed == nil || *sc.Concentration.Fixed != 1e6 {
		t.Errorf("concentration = %+v, want fixed 1e6", sc.Concentration)
	}
	if sc.Ingestion.Kind != scenario.IngestionFixed || sc.Ingestion.Fixed != 50 {
		t.Errorf("ingestion = %+v, want fixed 50", sc.Ingestion)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("scenario failed validation: %v", err)
	}
}

func TestLoadConcentrationTableHockeyStick(t *testing.T) {
	path := writeTempCSV(t, "conc.csv", "Scenario_ID,Min_Concentration,Median_Concentration,Max_Concentration\nS1,500000,1000000,2000000\n")
	conc, err := loadConcentrationTable(path)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := conc["S1"]
	if !ok {
		t.Fatal("missing binding for S1")
	}
	if b.Fixed != nil {
		t.Error("expected a HockeyStick binding, got Fixed")
	}
	if b.Median != 1e6 {
		t.Errorf("median = %g, want 1e6", b.Median)
	}
	if b.P != scenario.DefaultHockeyStickP {
		t.Errorf("P = %g, want default %g", b.P, scenario.DefaultHockeyStickP)
	}
}

func TestWriteResultCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []resultRow{
		resultRow(result.Result{
			ScenarioID: "S1",
			Pathogen:   "norovirus",
			ModelName:  "beta_binomial",
			N:          10000,
			Seed:       42,
			PInfection: result.Percentiles{P5: 0.1, P50: 0.5, P95: 0.9},
			AnnualRisk: result.Percentiles{P5: 0.2, P50: 0.6, P95: 0.95},
			Compliance: result.NonCompliant,
		}),
	}
	if err := writeResultCSV(path, rows); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty output file")
	}
	parsed, err := readCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 1 {
		t.Fatalf("got %d rows, want 1", len(parsed))
	}
	if parsed[0]["Scenario_ID"] != "S1" {
		t.Errorf("Scenario_ID = %q, want S1", parsed[0]["Scenario_ID"])
	}
	if parsed[0]["Compliance_Status"] != "NON-COMPLIANT" {
		t.Errorf("Compliance_Status = %q, want NON-COMPLIANT", parsed[0]["Compliance_Status"])
	}
}
