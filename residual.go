// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Residual holds the primal equality, dual equality, and complementarity
// residuals of the current iterate (spec.md §3), along with their 2-norms
// and the problem-scale-relative forms used by the composite error.
type Residual struct {
	Rb  []float64 // A x - b, perturbed by -delta_perm^2 * y when active
	Rc  []float64 // Aᵀ y + c - z, perturbed by +gamma_perm^2 * x when active
	Rmu []float64 // x ∘ z

	NormRb  float64
	NormRc  float64
	NormRmu float64

	RelRb float64 // NormRb / (1 + normB)
	RelRc float64 // NormRc / (1 + normC)
}

// Compute fills r from the current iterate, following spec.md §4.2 steps
// 4-6 exactly: A x - b, Aᵀ y + c - z, x ∘ z, each perturbed in place by the
// permanent regularizer when it is nonzero.
func Compute(r *Residual, a *mat.Dense, b, c, x, y, z []float64, gammaPerm, deltaPerm, normB, normC float64) {
	m, n := a.Dims()

	if cap(r.Rb) < m {
		r.Rb = make([]float64, m)
	}
	r.Rb = r.Rb[:m]
	for i := 0; i < m; i++ {
		var row float64
		for j := 0; j < n; j++ {
			row += a.At(i, j) * x[j]
		}
		r.Rb[i] = row - b[i]
	}
	if deltaPerm != 0 {
		d2 := deltaPerm * deltaPerm
		for i := range r.Rb {
			r.Rb[i] -= d2 * y[i]
		}
	}
	r.NormRb = floats.Norm(r.Rb, 2)
	r.RelRb = r.NormRb / (1 + normB)

	if cap(r.Rc) < n {
		r.Rc = make([]float64, n)
	}
	r.Rc = r.Rc[:n]
	for j := 0; j < n; j++ {
		var col float64
		for i := 0; i < m; i++ {
			col += a.At(i, j) * y[i]
		}
		r.Rc[j] = col + c[j] - z[j]
	}
	if gammaPerm != 0 {
		g2 := gammaPerm * gammaPerm
		for j := range r.Rc {
			r.Rc[j] += g2 * x[j]
		}
	}
	r.NormRc = floats.Norm(r.Rc, 2)
	r.RelRc = r.NormRc / (1 + normC)

	if cap(r.Rmu) < n {
		r.Rmu = make([]float64, n)
	}
	r.Rmu = r.Rmu[:n]
	for j := 0; j < n; j++ {
		r.Rmu[j] = x[j] * z[j]
	}
	r.NormRmu = floats.Norm(r.Rmu, 2)
}

// RelativeGap returns |prim - dual| / (1 + |prim|) for the given primal and
// dual objective values.
func RelativeGap(prim, dual float64) float64 {
	return math.Abs(prim-dual) / (1 + math.Abs(prim))
}
