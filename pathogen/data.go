package pathogen

import _ "embed"

// defaultData is the built-in pathogen parameter file, in the JSON-shaped
// format described by the interface contract. It seeds norovirus (the
// primary pathogen of interest) plus two secondary pathogens: rotavirus,
// whose exact fit has beta < 1 and so defaults to beta_binomial rather
// than the invalid Beta-Poisson approximation, and campylobacter, which
// exercises both the Beta-Poisson and Exponential dose-response models.
//
//go:embed pathogens.json
var defaultData []byte

// Default loads the built-in pathogen registry. It is the normal entry
// point for callers that don't supply their own parameter file.
func Default() (*Registry, error) {
	return Load(defaultData)
}
