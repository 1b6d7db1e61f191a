package distributions

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestUniformInvariants(t *testing.T) {
	if _, err := NewUniform(5, 5); err == nil {
		t.Error("expected error for min==max")
	}
	u, err := NewUniform(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	for _, v := range u.Sample(1000, rng) {
		if v < 1 || v > 2 {
			t.Fatalf("sample %g out of [1,2]", v)
		}
	}
}

func TestTriangularInvariants(t *testing.T) {
	if _, err := NewTriangular(5, 1, 10); err == nil {
		t.Error("expected error for mode < min")
	}
	tr, err := NewTriangular(0.2, 1.0, 4.0)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(2))
	for _, v := range tr.Sample(1000, rng) {
		if v < 0.2 || v > 4.0 {
			t.Fatalf("sample %g out of [0.2,4.0]", v)
		}
	}
}

func TestTruncatedNormalBounds(t *testing.T) {
	d, err := NewTruncatedNormal(44.9, 20.93, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	for _, v := range d.Sample(5000, rng) {
		if v < 1 || v > 100 {
			t.Fatalf("sample %g out of [1,100]", v)
		}
	}
}

func TestDeterminism(t *testing.T) {
	d, _ := NewLognormal(3, 1)
	a := d.Sample(100, rand.New(rand.NewSource(42)))
	b := d.Sample(100, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identical seeds: %g != %g", i, a[i], b[i])
		}
	}
}

// TestHockeyStickMassConservation numerically integrates the PDF and checks
// that the whole distribution, and each of its three regions, integrate to
// the documented masses.
func TestHockeyStickMassConservation(t *testing.T) {
	d, err := NewHockeyStick(100, 1000, 10000, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	const steps = 2_000_000
	total := integrate(d.PDF, d.XMin, d.XMax, steps)
	if math.Abs(total-1.0) > 1e-6 {
		t.Errorf("total mass = %g, want 1.0", total)
	}
	r1 := integrate(d.PDF, d.XMin, d.XMedian, steps)
	if math.Abs(r1-0.5) > 1e-5 {
		t.Errorf("region 1 mass = %g, want 0.5", r1)
	}
	r2 := integrate(d.PDF, d.XMedian, d.XP(), steps)
	if math.Abs(r2-(d.P-0.5)) > 1e-5 {
		t.Errorf("region 2 mass = %g, want %g", r2, d.P-0.5)
	}
	r3 := integrate(d.PDF, d.XP(), d.XMax, steps)
	if math.Abs(r3-(1-d.P)) > 1e-5 {
		t.Errorf("region 3 mass = %g, want %g", r3, 1-d.P)
	}
}

func integrate(f func(float64) float64, lo, hi float64, steps int) float64 {
	h := (hi - lo) / float64(steps)
	sum := 0.5 * (f(lo) + f(hi))
	for i := 1; i < steps; i++ {
		sum += f(lo + float64(i)*h)
	}
	return sum * h
}

// TestHockeyStickSamplingCalibration checks that large-sample draws match
// the analytical median and P-th percentile within the documented tolerance.
func TestHockeyStickSamplingCalibration(t *testing.T) {
	d, err := NewHockeyStick(100, 1000, 10000, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(42))
	const n = 1_000_000
	samples := d.Sample(n, rng)
	for _, v := range samples {
		if v < d.XMin || v > d.XMax {
			t.Fatalf("sample %g outside [%g,%g]", v, d.XMin, d.XMax)
		}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	median := sorted[n/2]
	if math.Abs(median-1000)/1000 > 0.01 {
		t.Errorf("sample median = %g, want within 1%% of 1000", median)
	}
	p95 := sorted[int(0.95*n)]
	xp := d.XP()
	if math.Abs(p95-xp)/xp > 0.02 {
		t.Errorf("sample 95th percentile = %g, want within 2%% of analytical x_P=%g", p95, xp)
	}
}

func TestHockeyStickInvalidParams(t *testing.T) {
	cases := []struct{ min, median, max, p float64 }{
		{1000, 100, 10000, 0.95}, // min >= median
		{100, 1000, 500, 0.95},   // median >= max
		{100, 1000, 10000, 1.1},  // P out of range
		{100, 1000, 10000, 0.3},  // P <= 0.5
	}
	for _, c := range cases {
		if _, err := NewHockeyStick(c.min, c.median, c.max, c.p); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

func TestEmpiricalCDFRoundTrip(t *testing.T) {
	values := []float64{4, 15, 9, 2, 11, 7, 13, 5, 8, 3}
	d, err := NewEmpiricalCDF(values)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	samples := d.Sample(len(values), rng)
	sortedIn := append([]float64(nil), values...)
	sort.Float64s(sortedIn)
	for _, v := range samples {
		found := false
		for _, sv := range sortedIn {
			if v == sv {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("sample %g is not one of the observed values", v)
		}
	}

	const n = 200000
	big := d.Sample(n, rng)
	sort.Float64s(big)
	wantP25, wantP50, wantP75 := sortedIn[2], sortedIn[5], sortedIn[7]
	haveP25 := big[n/4]
	haveP50 := big[n/2]
	haveP75 := big[3*n/4]
	tol := 0.05
	for _, pair := range [][2]float64{{haveP25, wantP25}, {haveP50, wantP50}, {haveP75, wantP75}} {
		if math.Abs(pair[0]-pair[1])/pair[1] > tol {
			t.Errorf("percentile mismatch: have %g, want %g within %.0f%%", pair[0], pair[1], tol*100)
		}
	}
}

func TestEmpiricalCDFRequiresValues(t *testing.T) {
	if _, err := NewEmpiricalCDF(nil); err == nil {
		t.Error("expected error for empty observation vector")
	}
}
