// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kkt

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func smallInputs() Inputs {
	// m=2, n=3 toy constraint matrix; x, z interior (no sign constraints
	// violated), arbitrary nonzero residuals so the three linearizations
	// can be checked against each other.
	a := mat.NewDense(2, 3, []float64{
		1, 1, 0,
		0, 1, 1,
	})
	return Inputs{
		A:   a,
		X:   []float64{1.0, 2.0, 0.5},
		Z:   []float64{2.0, 0.5, 1.0},
		Rc:  []float64{0.1, -0.2, 0.05},
		Rb:  []float64{-0.3, 0.2},
		Rmu: []float64{-0.4, -0.6, -0.2},
	}
}

// solveDense solves J x = rhs with a plain dense solve, used only to check
// internal consistency of the three assembled systems against each other.
func solveDense(t *testing.T, j *mat.Dense, rhs []float64) []float64 {
	t.Helper()
	b := mat.NewVecDense(len(rhs), rhs)
	var x mat.VecDense
	if err := x.SolveVec(j, b); err != nil {
		t.Fatalf("SolveVec: %v", err)
	}
	out := make([]float64, len(rhs))
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

func closeVec(t *testing.T, name string, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch, got %d want %d", name, len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s[%d] = %g, want %g (tol %g)", name, i, got[i], want[i], tol)
		}
	}
}

// TestSystemsAgree checks that FULL, AUGMENTED, and NORMAL, solved exactly,
// recover the same (Δx, Δy, Δz) Newton step for the same unregularized
// inputs: the three forms are algebraically equivalent reductions of the
// same linear system (spec.md §4.3).
func TestSystemsAgree(t *testing.T) {
	in := smallInputs()

	full, err := Assemble(in, FullSystem)
	if err != nil {
		t.Fatalf("Assemble(full): %v", err)
	}
	fx, fy, fz := full.Expand(solveDense(t, full.J, full.RHS))

	aug, err := Assemble(in, AugmentedSystem)
	if err != nil {
		t.Fatalf("Assemble(augmented): %v", err)
	}
	ax, ay, az := aug.Expand(solveDense(t, aug.J, aug.RHS))

	nrm, err := Assemble(in, NormalSystem)
	if err != nil {
		t.Fatalf("Assemble(normal): %v", err)
	}
	nx, ny, nz := nrm.Expand(solveDense(t, nrm.J, nrm.RHS))

	const tol = 1e-9
	closeVec(t, "dx", ax, fx, tol)
	closeVec(t, "dy", ay, fy, tol)
	closeVec(t, "dz", az, fz, tol)
	closeVec(t, "dx", nx, fx, tol)
	closeVec(t, "dy", ny, fy, tol)
	closeVec(t, "dz", nz, fz, tol)
}

// TestExpandSatisfiesFullEquations verifies the recovered step actually
// satisfies the three original (unreduced) Newton equations, independent of
// which system solved for it.
func TestExpandSatisfiesFullEquations(t *testing.T) {
	in := smallInputs()
	m, n := in.A.Dims()

	aug, err := Assemble(in, AugmentedSystem)
	if err != nil {
		t.Fatalf("Assemble(augmented): %v", err)
	}
	dx, dy, dz := aug.Expand(solveDense(t, aug.J, aug.RHS))

	// dual: Aᵀ dy - dz == -Rc
	dual := make([]float64, n)
	for i := 0; i < n; i++ {
		var aTy float64
		for r := 0; r < m; r++ {
			aTy += in.A.At(r, i) * dy[r]
		}
		dual[i] = aTy - dz[i]
	}
	wantDual := make([]float64, n)
	for i := range wantDual {
		wantDual[i] = -in.Rc[i]
	}
	closeVec(t, "dual", dual, wantDual, 1e-9)

	// primal: A dx == -Rb
	primal := make([]float64, m)
	for r := 0; r < m; r++ {
		var row float64
		for c := 0; c < n; c++ {
			row += in.A.At(r, c) * dx[c]
		}
		primal[r] = row
	}
	wantPrimal := make([]float64, m)
	for i := range wantPrimal {
		wantPrimal[i] = -in.Rb[i]
	}
	closeVec(t, "primal", primal, wantPrimal, 1e-9)

	// complementarity: Z dx + X dz == -Rmu
	compl := make([]float64, n)
	for i := 0; i < n; i++ {
		compl[i] = in.Z[i]*dx[i] + in.X[i]*dz[i]
	}
	wantCompl := make([]float64, n)
	for i := range wantCompl {
		wantCompl[i] = -in.Rmu[i]
	}
	closeVec(t, "compl", compl, wantCompl, 1e-9)
}

// TestAssembleUnknownSystem exercises Assemble's error path.
func TestAssembleUnknownSystem(t *testing.T) {
	in := smallInputs()
	if _, err := Assemble(in, System(99)); err == nil {
		t.Fatal("Assemble: expected an error for an unknown system, got nil")
	}
}

// TestNormalMatrixSymmetricPositiveDefinite checks the normal equations
// matrix is the expected size, symmetric, and positive definite, which
// Cholesky (the solver adapter's NORMAL factorization) requires.
func TestNormalMatrixSymmetricPositiveDefinite(t *testing.T) {
	in := smallInputs()
	in.DeltaPerm = 1e-6

	as, err := Assemble(in, NormalSystem)
	if err != nil {
		t.Fatalf("Assemble(normal): %v", err)
	}
	m, _ := in.A.Dims()
	r, c := as.J.Dims()
	if r != m || c != m {
		t.Fatalf("normal system dims = %dx%d, want %dx%d", r, c, m, m)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if math.Abs(as.J.At(i, j)-as.J.At(j, i)) > 1e-12 {
				t.Errorf("normal matrix not symmetric at (%d,%d): %g vs %g", i, j, as.J.At(i, j), as.J.At(j, i))
			}
		}
	}
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, as.J.At(i, j))
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		t.Error("normal matrix is not positive definite")
	}
}

// TestRegularizationPerturbsDiagonal checks that temporary regularization
// moves the full system's diagonal in the documented direction (spec.md
// §4.3: +gamma^2 on the x block, -delta^2 on the y block, -beta^2 on the z
// block) without otherwise changing the off-diagonal structure.
func TestRegularizationPerturbsDiagonal(t *testing.T) {
	in := smallInputs()
	plain, err := Assemble(in, FullSystem)
	if err != nil {
		t.Fatalf("Assemble(full): %v", err)
	}

	in.RegTmp = RegTmp{Gamma: 1, Delta: 1, Beta: 1}
	regd, err := Assemble(in, FullSystem)
	if err != nil {
		t.Fatalf("Assemble(full, regularized): %v", err)
	}

	m, n := in.A.Dims()
	size := 2*n + m
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if i != j && math.Abs(plain.J.At(i, j)-regd.J.At(i, j)) > 1e-12 {
				t.Fatalf("off-diagonal (%d,%d) changed by regularization: %g vs %g", i, j, plain.J.At(i, j), regd.J.At(i, j))
			}
		}
	}

	for i := 0; i < n; i++ {
		if regd.J.At(i, i) <= plain.J.At(i, i) {
			t.Errorf("x-block diagonal %d did not increase: plain %g, regularized %g", i, plain.J.At(i, i), regd.J.At(i, i))
		}
	}
	for i := n; i < n+m; i++ {
		if regd.J.At(i, i) >= plain.J.At(i, i) {
			t.Errorf("y-block diagonal %d did not decrease: plain %g, regularized %g", i, plain.J.At(i, i), regd.J.At(i, i))
		}
	}
	for i := n + m; i < size; i++ {
		if regd.J.At(i, i) >= plain.J.At(i, i) {
			t.Errorf("z-block diagonal %d did not decrease: plain %g, regularized %g", i, plain.J.At(i, i), regd.J.At(i, i))
		}
	}
}
