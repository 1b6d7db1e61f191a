package pathogen

import "testing"

func TestDefaultNorovirus(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.Get("norovirus")
	if err != nil {
		t.Fatal(err)
	}
	if p.DefaultModel != "beta_binomial" {
		t.Errorf("default model = %q, want beta_binomial", p.DefaultModel)
	}
	params, err := r.Parameters("norovirus", "beta_binomial")
	if err != nil {
		t.Fatal(err)
	}
	if params["alpha"] != 0.04 || params["beta"] != 0.055 {
		t.Errorf("alpha=%g beta=%g, want 0.04, 0.055", params["alpha"], params["beta"])
	}
	hi, err := r.HealthImpactData("norovirus")
	if err != nil {
		t.Fatal(err)
	}
	want := 0.5 * 0.74
	if diff := hi.IllnessToInfectionRatio - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("illness ratio = %g, want %g", hi.IllnessToInfectionRatio, want)
	}
}

func TestUnknownPathogen(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("influenza"); err == nil {
		t.Error("expected UnknownPathogenError")
	} else if _, ok := err.(*UnknownPathogenError); !ok {
		t.Errorf("got %T, want *UnknownPathogenError", err)
	}
}

func TestUnknownModel(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Parameters("norovirus", "beta_poisson"); err == nil {
		t.Error("expected UnknownModelError")
	} else if _, ok := err.(*UnknownModelError); !ok {
		t.Errorf("got %T, want *UnknownModelError", err)
	}
}

func TestNorovirusMustBeBetaBinomial(t *testing.T) {
	bad := []byte(`{"norovirus": {
		"name": "Norovirus",
		"pathogen_type": "virus",
		"default_model": "beta_poisson",
		"dose_response_models": {"beta_poisson": {"params": {"alpha": 0.04, "beta": 0.055}, "source": "bad config"}},
		"health_impact_data": {"probability_illness_given_infection": 0.5, "population_susceptibility": 0.74}
	}}`)
	if _, err := Load(bad); err == nil {
		t.Error("expected configuration error for norovirus default_model=beta_poisson")
	}
}

func TestDefaultRotavirusUsesBetaBinomial(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.Get("rotavirus")
	if err != nil {
		t.Fatal(err)
	}
	if p.DefaultModel != "beta_binomial" {
		t.Errorf("rotavirus default model = %q, want beta_binomial (beta < 1 rules out beta_poisson)", p.DefaultModel)
	}
	params, err := r.Parameters("rotavirus", p.DefaultModel)
	if err != nil {
		t.Fatal(err)
	}
	if params["beta"] >= 1 {
		t.Errorf("rotavirus beta = %g, expected < 1 (the case this test guards against)", params["beta"])
	}
}

func TestAnyPathogenRejectsBetaPoissonBelowOne(t *testing.T) {
	bad := []byte(`{"rotavirus": {
		"name": "Rotavirus",
		"pathogen_type": "virus",
		"default_model": "beta_poisson",
		"dose_response_models": {"beta_poisson": {"params": {"alpha": 0.253, "beta": 0.426}, "source": "bad config"}},
		"health_impact_data": {"probability_illness_given_infection": 0.88, "population_susceptibility": 1.0}
	}}`)
	if _, err := Load(bad); err == nil {
		t.Error("expected configuration error for a non-norovirus pathogen defaulting to beta_poisson with beta<1")
	}
}

func TestList(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	ids := r.List()
	if len(ids) < 3 {
		t.Errorf("expected at least 3 pathogens, got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}
}
