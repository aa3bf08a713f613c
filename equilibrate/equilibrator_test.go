// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// diagCond returns the condition number of the diagonal matrix diag(v),
// max(|v|)/min(|v|).
func diagCond(v []float64) float64 {
	min, max := math.Inf(1), 0.0
	for _, x := range v {
		a := math.Abs(x)
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
	}
	if min == 0 {
		return math.Inf(1)
	}
	return max / min
}

// TestEquilibrateUndoRoundTrip is spec.md §8's round-trip law:
// UndoEquilibration(Equilibrate(P, S)) == (P, S) to within
// 8·ε·κ(diag(rowScale)·diag(colScale)).
func TestEquilibrateUndoRoundTrip(t *testing.T) {
	const machineEps = 2.220446049250313e-16

	a := mat.NewDense(3, 3, []float64{
		10, 1, 0,
		0, 5, 2,
		1, 0, 8,
	})
	b := []float64{3, -2, 7}
	c := []float64{1, 4, 2}
	x := []float64{1, 2, 3}
	y := []float64{0.5, -0.5, 1}
	z := []float64{2, 1, 0.5}

	p := DenseProblem{A: a, B: append([]float64(nil), b...), C: append([]float64(nil), c...)}
	sol := &DenseSolution{
		X: append([]float64(nil), x...),
		Y: append([]float64(nil), y...),
		Z: append([]float64(nil), z...),
	}

	_, eqSol, rec := Equilibrate(p, sol, true, true, 20, 1e-10)

	gotX := append([]float64(nil), eqSol.X...)
	gotY := append([]float64(nil), eqSol.Y...)
	gotZ := append([]float64(nil), eqSol.Z...)
	UndoEquilibration(rec, gotX, gotY, gotZ)

	tol := 8 * machineEps * diagCond(rec.RowScale) * diagCond(rec.ColScale)

	relErr := func(got, want float64) float64 {
		return math.Abs(got-want) / (1 + math.Abs(want))
	}
	for j := range x {
		if e := relErr(gotX[j], x[j]); e > tol {
			t.Errorf("x[%d] = %g, want %g (relative error %g > tol %g)", j, gotX[j], x[j], e, tol)
		}
	}
	for i := range y {
		if e := relErr(gotY[i], y[i]); e > tol {
			t.Errorf("y[%d] = %g, want %g (relative error %g > tol %g)", i, gotY[i], y[i], e, tol)
		}
	}
	for j := range z {
		if e := relErr(gotZ[j], z[j]); e > tol {
			t.Errorf("z[%d] = %g, want %g (relative error %g > tol %g)", j, gotZ[j], z[j], e, tol)
		}
	}
}
