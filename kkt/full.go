// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kkt

import "gonum.org/v1/gonum/mat"

// assembleFull builds the unreduced (2n+m)-sized system in (Δx, Δy, Δz):
//
//	[ Gamma2*I   Aᵀ   -I ] [Δx]   [-Rc       ]
//	[ A          -Delta2*I  0 ] [Δy] = [-Rb       ]
//	[ diag(Z)    0    diag(X) ] [Δz]   [-Rmu      ]
//
// where Gamma2/Delta2 fold together the permanent and (scaled) temporary
// regularization for the x and y blocks respectively (spec.md §4.3).
func assembleFull(in Inputs) (*Assembled, error) {
	m, n := in.A.Dims()
	size := 2*n + m
	scale := regScale(in)
	gamma2 := sqr(in.GammaPerm) + sqr(in.RegTmp.Gamma)*scale
	delta2 := sqr(in.DeltaPerm) + sqr(in.RegTmp.Delta)*scale
	beta2 := sqr(in.RegTmp.Beta) * scale

	j := mat.NewDense(size, size, nil)

	// Row block "dual" (0:n): Aᵀ in columns [n:n+m), -I in [n+m:2n+m).
	for i := 0; i < n; i++ {
		for c := 0; c < m; c++ {
			j.Set(i, n+c, in.A.At(c, i))
		}
		j.Set(i, n+m+i, -1)
		j.Set(i, i, gamma2)
	}

	// Row block "primal" (n:n+m): A in columns [0:n).
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			j.Set(n+r, c, in.A.At(r, c))
		}
		j.Set(n+r, n+r, -delta2)
	}

	// Row block "complementarity" (n+m:2n+m): diag(Z) in [0:n), diag(X) in
	// [n+m:2n+m).
	for i := 0; i < n; i++ {
		row := n + m + i
		j.Set(row, i, in.Z[i])
		j.Set(row, n+m+i, in.X[i]-beta2)
	}

	rhs := make([]float64, size)
	for i := 0; i < n; i++ {
		rhs[i] = -in.Rc[i]
	}
	for r := 0; r < m; r++ {
		rhs[n+r] = -in.Rb[r]
	}
	for i := 0; i < n; i++ {
		rhs[n+m+i] = -in.Rmu[i]
	}

	return &Assembled{System: FullSystem, J: j, RHS: rhs, in: in}, nil
}

func expandFull(as *Assembled, solved []float64) (dx, dy, dz []float64) {
	m, n := as.in.A.Dims()
	dx = append([]float64(nil), solved[0:n]...)
	dy = append([]float64(nil), solved[n:n+m]...)
	dz = append([]float64(nil), solved[n+m:2*n+m]...)
	return dx, dy, dz
}
