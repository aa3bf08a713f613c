// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kkt

import "gonum.org/v1/gonum/mat"

// assembleAugmented eliminates Δz from the full system (spec.md §4.3),
// giving the (n+m)-sized system in (Δx, Δy):
//
//	[ diag(Z/X)+Gamma2*I   Aᵀ          ] [Δx]   [ -Rc - Rmu/X ]
//	[ A                    -Delta2*I  ] [Δy] = [ -Rb         ]
func assembleAugmented(in Inputs) (*Assembled, error) {
	m, n := in.A.Dims()
	size := n + m
	scale := regScale(in)
	gamma2 := sqr(in.GammaPerm) + sqr(in.RegTmp.Gamma)*scale
	delta2 := sqr(in.DeltaPerm) + sqr(in.RegTmp.Delta)*scale

	j := mat.NewDense(size, size, nil)
	for i := 0; i < n; i++ {
		j.Set(i, i, in.Z[i]/in.X[i]+gamma2)
		for c := 0; c < m; c++ {
			j.Set(i, n+c, in.A.At(c, i))
		}
	}
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			j.Set(n+r, c, in.A.At(r, c))
		}
		j.Set(n+r, n+r, -delta2)
	}

	rhs1 := make([]float64, n)
	elementwiseDiv(rhs1, in.Rmu, in.X)
	rhs := make([]float64, size)
	for i := 0; i < n; i++ {
		rhs[i] = -in.Rc[i] - rhs1[i]
	}
	for r := 0; r < m; r++ {
		rhs[n+r] = -in.Rb[r]
	}

	return &Assembled{System: AugmentedSystem, J: j, RHS: rhs, in: in}, nil
}

func expandAugmented(as *Assembled, solved []float64) (dx, dy, dz []float64) {
	m, n := as.in.A.Dims()
	dx = append([]float64(nil), solved[0:n]...)
	dy = append([]float64(nil), solved[n:n+m]...)
	dz = complementarityStep(as.in, dx)
	return dx, dy, dz
}

// complementarityStep recovers Δz = -(Rmu + Z∘Δx) / X from the already
// solved Δx, following the compl eq Z·Δx + X·Δz = -Rmu.
func complementarityStep(in Inputs, dx []float64) []float64 {
	n := len(dx)
	dz := make([]float64, n)
	for i := 0; i < n; i++ {
		dz[i] = -(in.Rmu[i] + in.Z[i]*dx[i]) / in.X[i]
	}
	return dz
}
