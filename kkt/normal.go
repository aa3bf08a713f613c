// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kkt

import "gonum.org/v1/gonum/mat"

// assembleNormal further eliminates Δx from the augmented system (spec.md
// §4.3), giving the m-sized positive (semi)definite system in Δy alone:
//
//	(A diag(Theta) Aᵀ + Delta2*I) Δy = Rb + A diag(Theta) rhs1
//
// where Theta = X / (Z + Gamma2*X) is the x-block's effective barrier
// scaling ("with γ included when nonzero", spec.md §4.3) and
// rhs1 = -Rc - Rmu/X. RegTmp is not used here: NORMAL relies on the
// permanent regularizer alone for definiteness, plus iterative refinement
// in the linear solver adapter for numerical stability (spec.md §9).
func assembleNormal(in Inputs) (*Assembled, error) {
	m, n := in.A.Dims()
	delta2 := sqr(in.DeltaPerm)

	theta := make([]float64, n)
	for i := 0; i < n; i++ {
		theta[i] = in.X[i] / (in.Z[i] + sqr(in.GammaPerm)*in.X[i])
	}

	rhs1 := make([]float64, n)
	elementwiseDiv(rhs1, in.Rmu, in.X)
	for i := 0; i < n; i++ {
		rhs1[i] = -in.Rc[i] - rhs1[i]
	}

	// aTheta = A * diag(theta), built explicitly since gonum has no sparse
	// diagonal-times-dense primitive that avoids materializing it anyway
	// for a dense A.
	aTheta := mat.NewDense(m, n, nil)
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			aTheta.Set(r, c, in.A.At(r, c)*theta[c])
		}
	}

	j := mat.NewDense(m, m, nil)
	j.Mul(aTheta, in.A.T())
	for i := 0; i < m; i++ {
		j.Set(i, i, j.At(i, i)+delta2)
	}

	aThetaRhs1 := mat.NewVecDense(m, nil)
	aThetaRhs1.MulVec(aTheta, mat.NewVecDense(n, rhs1))

	rhs := make([]float64, m)
	for r := 0; r < m; r++ {
		rhs[r] = in.Rb[r] + aThetaRhs1.AtVec(r)
	}

	return &Assembled{System: NormalSystem, J: j, RHS: rhs, in: in, d: theta}, nil
}

func expandNormal(as *Assembled, solved []float64) (dx, dy, dz []float64) {
	m, n := as.in.A.Dims()
	dy = append([]float64(nil), solved[0:m]...)

	rhs1 := make([]float64, n)
	elementwiseDiv(rhs1, as.in.Rmu, as.in.X)
	for i := 0; i < n; i++ {
		rhs1[i] = -as.in.Rc[i] - rhs1[i]
	}

	dx = make([]float64, n)
	for i := 0; i < n; i++ {
		var aTDy float64
		for r := 0; r < m; r++ {
			aTDy += as.in.A.At(r, i) * dy[r]
		}
		dx[i] = as.d[i] * (rhs1[i] - aTDy)
	}

	dz = complementarityStep(as.in, dx)
	return dx, dy, dz
}
