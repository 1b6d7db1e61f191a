package distributions

import (
	"math"
	"math/rand"
)

// HockeyStick is the piecewise-linear, right-skewed distribution used for
// pathogen concentration inputs in this model.
// Its PDF has three linear segments defined by four break points
// {XMin, XMedian, xP, XMax}:
//
//   - Region 1 [XMin, XMedian]: rises linearly from 0; integrates to 0.5.
//   - Region 2 [XMedian, xP]:   continues from peak h1 to h2; integrates to P-0.5.
//   - Region 3 [xP, XMax]:      falls linearly to 0; integrates to 1-P.
//
// xP is found analytically from the mass-conservation constraints; see
// NewHockeyStick.
type HockeyStick struct {
	XMin, XMedian, XMax, P float64

	xP     float64
	h1, h2 float64
}

// NewHockeyStick validates the parameters and solves for the internal
// break point xP and segment heights h1, h2.
func NewHockeyStick(xMin, xMedian, xMax, p float64) (HockeyStick, error) {
	if !(xMin < xMedian && xMedian < xMax) {
		return HockeyStick{}, &InvalidParameterError{"HockeyStick", "requires x_min < x_median < x_max"}
	}
	if !(p > 0 && p < 1) {
		return HockeyStick{}, &InvalidParameterError{"HockeyStick", "requires 0 < P < 1"}
	}
	if !(p > 0.5) {
		return HockeyStick{}, &InvalidParameterError{"HockeyStick", "requires P > 0.5 for a well-formed tail breakpoint"}
	}

	h1 := 1 / (xMedian - xMin)
	tail := xMax - xMedian // total distance available for regions 2 and 3

	// Solve a^2 - (tail + 1/h1)*a + 2*(P-0.5)*tail/h1 = 0 for a = xP - xMedian,
	// derived from the trapezoid-area constraint on region 2 combined with
	// the triangle-area constraint on region 3 (h2 = 2*(1-P)/(xMax-xP)).
	b := tail + 1/h1
	c := 2 * (p - 0.5) * tail / h1
	disc := b*b - 4*c
	if disc < 0 {
		return HockeyStick{}, &InvalidParameterError{"HockeyStick", "no real solution for the P breakpoint with the given parameters"}
	}
	sq := math.Sqrt(disc)
	a1 := (b - sq) / 2
	a2 := (b + sq) / 2
	var a float64
	switch {
	case a1 > 0 && a1 < tail:
		a = a1
	case a2 > 0 && a2 < tail:
		a = a2
	default:
		return HockeyStick{}, &InvalidParameterError{"HockeyStick", "no valid root for the P breakpoint in (x_median, x_max)"}
	}

	xP := xMedian + a
	h2 := 2 * (1 - p) / (xMax - xP)

	return HockeyStick{
		XMin: xMin, XMedian: xMedian, XMax: xMax, P: p,
		xP: xP, h1: h1, h2: h2,
	}, nil
}

// XP returns the analytically-derived third break point.
func (d HockeyStick) XP() float64 { return d.xP }

// PDF evaluates the piecewise-linear density at x.
func (d HockeyStick) PDF(x float64) float64 {
	switch {
	case x < d.XMin || x > d.XMax:
		return 0
	case x <= d.XMedian:
		return d.h1 * (x - d.XMin) / (d.XMedian - d.XMin)
	case x <= d.xP:
		a := d.xP - d.XMedian
		return d.h1 + (d.h2-d.h1)*(x-d.XMedian)/a
	default:
		b := d.XMax - d.xP
		return d.h2 * (1 - (x-d.xP)/b)
	}
}

// Sample draws n values by inverse-CDF transform. Draws are clamped to
// [XMin, XMax] for numerical robustness.
func (d HockeyStick) Sample(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	a := d.xP - d.XMedian
	b := d.XMax - d.xP
	for i := range out {
		u := rng.Float64()
		var x float64
		switch {
		case u <= 0.5:
			x = d.XMin + (d.XMedian-d.XMin)*math.Sqrt(2*u)
		case u <= d.P:
			x = d.XMedian + invertRegion2(u, d.h1, d.h2, a)
		default:
			x = d.xP + invertRegion3(u, d.P, d.h2, b)
		}
		out[i] = clampRange(x, d.XMin, d.XMax)
	}
	return out
}

// invertRegion2 solves (h2-h1)/(2a)*y^2 + h1*y + (0.5-u) = 0 for y in [0,a].
func invertRegion2(u, h1, h2, a float64) float64 {
	slope := (h2 - h1) / a
	if math.Abs(slope) < 1e-12 {
		return (u - 0.5) / h1
	}
	A := slope / 2
	B := h1
	C := 0.5 - u
	disc := B*B - 4*A*C
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	y1 := (-B + sq) / (2 * A)
	y2 := (-B - sq) / (2 * A)
	if y1 >= 0 && y1 <= a {
		return y1
	}
	return y2
}

// invertRegion3 solves -h2/(2b)*y^2 + h2*y + (p-u) = 0 for y in [0,b].
func invertRegion3(u, p, h2, b float64) float64 {
	A := -h2 / (2 * b)
	B := h2
	C := p - u
	disc := B*B - 4*A*C
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	y1 := (-B + sq) / (2 * A)
	y2 := (-B - sq) / (2 * A)
	if y1 >= 0 && y1 <= b {
		return y1
	}
	return y2
}

// Name returns "HockeyStick".
func (d HockeyStick) Name() string { return "HockeyStick" }
