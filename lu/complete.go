// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lu implements dense LU factorization with complete (row and
// column) pivoting for general, possibly rectangular matrices.
//
// Complete pivoting searches the entire trailing submatrix for the pivot
// of largest magnitude at each step, rather than only the trailing column
// (partial pivoting). This bounds the growth factor more tightly than
// partial pivoting at the cost of searching the whole (m-k)×(n-k) trailing
// block at step k instead of one column, and is the shape used by LAPACK's
// Dgetc2 for matrices that are nearly singular. Unlike Dgetc2, which
// perturbs a zero/near-zero pivot to avoid overflow in a downstream solve,
// Decompose reports SingularMatrixError on an exact zero pivot instead of
// regularizing it.
package lu

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// SingularMatrixError reports that complete-pivoting elimination hit an
// exact zero pivot at step k.
type SingularMatrixError struct {
	Step int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("lu: singular matrix, zero pivot encountered at step %d", e.Step)
}

// Result holds the factors and permutations produced by Decompose.
//
//	P * A * Qᵀ = L * U
//
// where P moves row i of A to row RowPerm[i] and Q moves column j to
// position ColPerm[j] (P[RowPerm[i], i] = 1, Q[ColPerm[j], j] = 1).
//
// LU packs L (unit lower triangular, implicit unit diagonal) and U (upper
// triangular) into a single m×n dense matrix, following the LAPACK
// convention also used by gonum's own lapack64.Getrf/mat64.LU.
type Result struct {
	LU *mat.Dense

	// RowPerm and ColPerm are the forward row and column permutations
	// obtained by inverting the row/column inverse-permutations
	// accumulated step by step during elimination (spec §4.7, step 3).
	RowPerm []int
	ColPerm []int
}

// Decompose factors the m×n matrix a with complete pivoting. a is not
// modified; the factorization is computed on an internal copy.
func Decompose(a mat.Matrix) (*Result, error) {
	m, n := a.Dims()
	k := m
	if n < k {
		k = n
	}

	lu := mat.DenseCopyOf(a)
	raw := lu.RawMatrix() // blas64.General view, row-major, lda == raw.Stride

	// pinv[i] / qinv[j] track, for each *current* row/column position, the
	// original row/column index now sitting there; RowPerm/ColPerm are
	// their functional inverses, built once elimination completes.
	pinv := identity(m)
	qinv := identity(n)

	bi := blas64.Implementation()
	for step := 0; step < k; step++ {
		pi, pj, pmax := step, step, 0.0
		for i := step; i < m; i++ {
			row := raw.Data[i*raw.Stride:]
			for j := step; j < n; j++ {
				v := row[j]
				if v < 0 {
					v = -v
				}
				if v > pmax {
					pmax, pi, pj = v, i, j
				}
			}
		}

		if pi != step {
			bi.Dswap(n, raw.Data[pi*raw.Stride:], 1, raw.Data[step*raw.Stride:], 1)
			pinv[step], pinv[pi] = pinv[pi], pinv[step]
		}
		if pj != step {
			bi.Dswap(m, raw.Data[pj:], raw.Stride, raw.Data[step:], raw.Stride)
			qinv[step], qinv[pj] = qinv[pj], qinv[step]
		}

		pivot := raw.Data[step*raw.Stride+step]
		if pivot == 0 {
			return nil, &SingularMatrixError{Step: step}
		}

		for i := step + 1; i < m; i++ {
			raw.Data[i*raw.Stride+step] /= pivot
		}
		if step+1 < m && step+1 < n {
			bi.Dger(m-step-1, n-step-1, -1.0,
				raw.Data[(step+1)*raw.Stride+step:], raw.Stride,
				raw.Data[step*raw.Stride+step+1:], 1,
				raw.Data[(step+1)*raw.Stride+step+1:], raw.Stride)
		}
	}

	return &Result{
		LU:      lu,
		RowPerm: invert(pinv),
		ColPerm: invert(qinv),
	}, nil
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// invert returns q such that q[p[i]] == i for all i. Applying invert twice
// recovers the original permutation exactly.
func invert(p []int) []int {
	q := make([]int, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}
