// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equilibrate implements the Ruiz row/column scaling used to
// rescale a problem before the Mehrotra driver runs, and the bookkeeping
// (Record) needed to undo it on the final solution.
//
// No pack dependency offers Ruiz equilibration (it is named only as an
// external collaborator in spec.md §1), so RuizScale is a direct,
// stdlib-only implementation of the classical iterative algorithm; see
// DESIGN.md.
package equilibrate

import "math"

// Scalable is satisfied by any dense or sparse matrix container able to
// report its row/column infinity norms and apply a diagonal row/column
// rescaling in place. DenseMatrix (wrapping a *mat.Dense) and
// *solver.CSCMatrix both implement it,
// letting RuizScale run unmodified over either matrix kind.
type Scalable interface {
	Dims() (rows, cols int)
	RowColInfNorms(rowNorm, colNorm []float64)
	ScaleRows(d []float64)
	ScaleCols(e []float64)
}

// RuizScale applies iterative Ruiz equilibration to a in place, for at
// most maxIter rounds or until every row and column infinity norm is
// within tol of 1. It returns the accumulated row and column scale
// vectors such that, if A0 was the matrix on entry,
//
//	diag(rowScale) * A0 * diag(colScale) == a (after scaling)
func RuizScale(a Scalable, maxIter int, tol float64) (rowScale, colScale []float64) {
	rows, cols := a.Dims()
	rowScale = ones(rows)
	colScale = ones(cols)

	rowNorm := make([]float64, rows)
	colNorm := make([]float64, cols)
	d := make([]float64, rows)
	e := make([]float64, cols)

	for iter := 0; iter < maxIter; iter++ {
		a.RowColInfNorms(rowNorm, colNorm)

		converged := true
		for i, v := range rowNorm {
			if math.Abs(1-v) > tol {
				converged = false
			}
			d[i] = invSqrt(v)
		}
		for j, v := range colNorm {
			if math.Abs(1-v) > tol {
				converged = false
			}
			e[j] = invSqrt(v)
		}
		if converged {
			break
		}

		a.ScaleRows(d)
		a.ScaleCols(e)
		for i := range rowScale {
			rowScale[i] *= d[i]
		}
		for j := range colScale {
			colScale[j] *= e[j]
		}
	}
	return rowScale, colScale
}

func invSqrt(v float64) float64 {
	if v == 0 {
		return 1
	}
	return 1 / math.Sqrt(v)
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
