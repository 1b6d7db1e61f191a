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

// Package pathogen holds a registry of validated dose-response parameters
// and health-impact data for waterborne pathogens.
package pathogen

import (
	"encoding/json"
	"fmt"
	"sort"
)

// HealthImpact holds the clinical progression parameters for a pathogen:
// the fraction of infections that become clinically apparent illness and
// the fraction of the exposed population that is susceptible.
type HealthImpact struct {
	// PIllnessGivenInfection is the probability that an infection
	// progresses to illness.
	PIllnessGivenInfection float64 `json:"probability_illness_given_infection"`

	// PopulationSusceptibility is the fraction of the exposed population
	// that is susceptible to infection.
	PopulationSusceptibility float64 `json:"population_susceptibility"`

	// IllnessToInfectionRatio is derived as
	// PIllnessGivenInfection * PopulationSusceptibility.
	IllnessToInfectionRatio float64 `json:"illness_to_infection_ratio"`
}

// Model holds the dose-response parameters for one named model
// (e.g. "beta_binomial") for a pathogen, plus a citation string.
type Model struct {
	Params map[string]float64 `json:"params"`
	Source string             `json:"source"`
}

// Pathogen is an entry in the registry: a pathogen's identity, its
// available dose-response models, and its health-impact data.
type Pathogen struct {
	// Name is the human-readable pathogen name.
	Name string `json:"name"`

	// Class is a taxonomic class tag, e.g. "virus", "bacterium", "protozoan".
	Class string `json:"pathogen_type"`

	// DefaultModel is the name of the dose-response model used unless a
	// scenario overrides it.
	DefaultModel string `json:"default_model"`

	// Models maps dose-response model name to its parameters.
	Models map[string]Model `json:"dose_response_models"`

	// Health holds the clinical progression data for this pathogen.
	Health HealthImpact `json:"health_impact_data"`
}

// UnknownPathogenError is returned when a pathogen id is not present in
// the registry.
type UnknownPathogenError struct{ ID string }

func (e *UnknownPathogenError) Error() string {
	return fmt.Sprintf("pathogen: unknown pathogen %q", e.ID)
}

// UnknownModelError is returned when a dose-response model name is not
// registered for a pathogen.
type UnknownModelError struct {
	PathogenID, Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("pathogen: unknown dose-response model %q for pathogen %q", e.Model, e.PathogenID)
}

// Registry is a process-wide, read-only-after-load collection of
// validated Pathogen records. It must be constructed with Load; the
// zero value is not usable.
type Registry struct {
	pathogens map[string]Pathogen
	order     []string
}

// Load parses the JSON-shaped pathogen parameter file described in the
// interface contract and validates it. Every pathogen must populate its
// DefaultModel with valid parameters; any pathogen defaulting to
// "beta_poisson" is refused if its beta is below 1, since that invalidates
// the approximation (such pathogens must be fit with the exact
// "beta_binomial" model instead). norovirus specifically must default to
// "beta_binomial" with alpha=0.04, beta=0.055.
func Load(data []byte) (*Registry, error) {
	var raw map[string]Pathogen
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pathogen: parsing parameter file: %v", err)
	}
	r := &Registry{pathogens: make(map[string]Pathogen, len(raw))}
	for id, p := range raw {
		if err := validate(id, p); err != nil {
			return nil, err
		}
		p.Health.IllnessToInfectionRatio = p.Health.PIllnessGivenInfection * p.Health.PopulationSusceptibility
		r.pathogens[id] = p
		r.order = append(r.order, id)
	}
	sort.Strings(r.order)
	return r, nil
}

func validate(id string, p Pathogen) error {
	if p.DefaultModel == "" {
		return fmt.Errorf("pathogen: %q has no default_model", id)
	}
	m, ok := p.Models[p.DefaultModel]
	if !ok {
		return fmt.Errorf("pathogen: %q default_model %q has no parameters", id, p.DefaultModel)
	}
	if p.DefaultModel == "beta_poisson" {
		if beta := m.Params["beta"]; beta < 1 {
			return fmt.Errorf("pathogen: %q default_model beta_poisson invalid: beta=%g < 1, the approximation does not hold "+
				"(use beta_binomial instead)", id, beta)
		}
	}
	if id == "norovirus" {
		if p.DefaultModel != "beta_binomial" {
			return fmt.Errorf("pathogen: configuration error: norovirus default_model must be beta_binomial, got %q "+
				"(beta << 1 invalidates the Beta-Poisson approximation)", p.DefaultModel)
		}
		alpha, beta := m.Params["alpha"], m.Params["beta"]
		if alpha != 0.04 || beta != 0.055 {
			return fmt.Errorf("pathogen: configuration error: norovirus beta_binomial parameters must be alpha=0.04, beta=0.055, got alpha=%g, beta=%g", alpha, beta)
		}
	}
	if p.Health.PIllnessGivenInfection < 0 || p.Health.PIllnessGivenInfection > 1 {
		return fmt.Errorf("pathogen: %q probability_illness_given_infection out of [0,1]: %g", id, p.Health.PIllnessGivenInfection)
	}
	if p.Health.PopulationSusceptibility < 0 || p.Health.PopulationSusceptibility > 1 {
		return fmt.Errorf("pathogen: %q population_susceptibility out of [0,1]: %g", id, p.Health.PopulationSusceptibility)
	}
	return nil
}

// List returns the registered pathogen ids in sorted order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the full record for pathogenID.
func (r *Registry) Get(pathogenID string) (Pathogen, error) {
	p, ok := r.pathogens[pathogenID]
	if !ok {
		return Pathogen{}, &UnknownPathogenError{ID: pathogenID}
	}
	return p, nil
}

// DefaultModel returns the default dose-response model name for pathogenID.
func (r *Registry) DefaultModel(pathogenID string) (string, error) {
	p, err := r.Get(pathogenID)
	if err != nil {
		return "", err
	}
	return p.DefaultModel, nil
}

// Parameters returns the parameter map for the named model of pathogenID.
func (r *Registry) Parameters(pathogenID, modelName string) (map[string]float64, error) {
	p, err := r.Get(pathogenID)
	if err != nil {
		return nil, err
	}
	m, ok := p.Models[modelName]
	if !ok {
		return nil, &UnknownModelError{PathogenID: pathogenID, Model: modelName}
	}
	return m.Params, nil
}

// HealthImpactData returns the health-impact block for pathogenID.
func (r *Registry) HealthImpactData(pathogenID string) (HealthImpact, error) {
	p, err := r.Get(pathogenID)
	if err != nil {
		return HealthImpact{}, err
	}
	return p.Health, nil
}
