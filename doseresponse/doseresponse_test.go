package doseresponse

import (
	"fmt"
	"math"
	"testing"
)

// TestBetaBinomialReferenceVector checks the exact anchor values from the
// verification vector for norovirus parameters alpha=0.04, beta=0.055.
func TestBetaBinomialReferenceVector(t *testing.T) {
	m := BetaBinomial{Alpha: 0.04, Beta: 0.055}
	tests := []struct {
		dose, want float64
	}{
		{1.0, 0.421053},
		{10.0, 0.480735},
		{100.0, 0.527157},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.dose), func(t *testing.T) {
			have := m.PInfection(test.dose)
			if math.Abs(have-test.want) > 1e-6 {
				t.Errorf("P(%g) = %g, want %g", test.dose, have, test.want)
			}
		})
	}
}

func TestBetaBinomialZeroDose(t *testing.T) {
	tests := []BetaBinomial{
		{Alpha: 0.04, Beta: 0.055},
		{Alpha: 1, Beta: 1},
		{Alpha: 0.25, Beta: 100},
	}
	for _, m := range tests {
		if p := m.PInfection(0); p != 0 {
			t.Errorf("P(0) for alpha=%g beta=%g = %g, want exactly 0", m.Alpha, m.Beta, p)
		}
	}
}

func TestBetaBinomialMonotonic(t *testing.T) {
	m := BetaBinomial{Alpha: 0.04, Beta: 0.055}
	doses := []float64{0, 1e-3, 1e-1, 1, 10, 100, 1e3, 1e4, 1e5, 1e6}
	prev := -1.0
	for _, d := range doses {
		p := m.PInfection(d)
		if p < prev {
			t.Errorf("P(%g) = %g is less than P at previous (smaller) dose = %g", d, p, prev)
		}
		prev = p
	}
}

func TestBetaBinomialLargeDoseNoOverflow(t *testing.T) {
	m := BetaBinomial{Alpha: 0.04, Beta: 0.055}
	p := m.PInfection(1e9)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		t.Errorf("P(1e9) = %g, want a finite value", p)
	}
	if p < 0 || p > 1 {
		t.Errorf("P(1e9) = %g, want in [0,1]", p)
	}
}

func TestBetaPoissonInvalid(t *testing.T) {
	m := BetaPoisson{Alpha: 0.145, Beta: 0.5}
	if !m.Invalid() {
		t.Error("expected Invalid() true for beta<1")
	}
	if _, err := New("beta_poisson", map[string]float64{"alpha": 0.145, "beta": 0.5}); err == nil {
		t.Error("expected error constructing beta_poisson with beta<1")
	}
}

func TestBetaPoissonValid(t *testing.T) {
	m, err := New("beta_poisson", map[string]float64{"alpha": 0.145, "beta": 7.59})
	if err != nil {
		t.Fatal(err)
	}
	p := m.PInfection(10)
	if p <= 0 || p >= 1 {
		t.Errorf("P(10) = %g, want in (0,1)", p)
	}
}

func TestExponential(t *testing.T) {
	m := Exponential{R: 0.01}
	p := m.PInfection(0)
	if p != 0 {
		t.Errorf("P(0) = %g, want 0", p)
	}
	p = m.PInfection(1000)
	want := 1 - math.Exp(-10)
	if math.Abs(p-want) > 1e-12 {
		t.Errorf("P(1000) = %g, want %g", p, want)
	}
}

func TestNewUnknownModel(t *testing.T) {
	if _, err := New("log_probit", nil); err == nil {
		t.Error("expected UnknownModelError")
	}
}

func TestVectorize(t *testing.T) {
	m := BetaBinomial{Alpha: 0.04, Beta: 0.055}
	doses := []float64{0, 1, 10, 100}
	out := Vectorize(m, doses)
	if len(out) != len(doses) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(doses))
	}
	for i, d := range doses {
		if out[i] != m.PInfection(d) {
			t.Errorf("Vectorize[%d] = %g, want %g", i, out[i], m.PInfection(d))
		}
	}
}
