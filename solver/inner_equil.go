// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "math"

// clone returns an independent copy of m, so a candidate scaling can be
// measured against a scratch matrix without disturbing the caller's copy.
func (m *CSCMatrix) clone() *CSCMatrix {
	return &CSCMatrix{
		Rows:   m.Rows,
		Cols:   m.Cols,
		ColPtr: append([]int(nil), m.ColPtr...),
		RowIdx: append([]int(nil), m.RowIdx...),
		Data:   append([]float64(nil), m.Data...),
	}
}

// symmetricRuizScale runs Ruiz equilibration on a symmetric matrix using one
// scale vector for both rows and columns each round, rather than the
// independent row/col vectors equilibrate.RuizScale computes for a general
// (non-symmetric) matrix. Grounded on the same iterative norm-then-scale
// structure as equilibrate/ruiz.go, specialized to the symmetric case the
// sparse Linear Solver Adapter's assembled J always has.
func symmetricRuizScale(m *CSCMatrix, maxIter int, tol float64) []float64 {
	n := m.Rows
	acc := ones(n)
	rowNorm := make([]float64, n)
	colNorm := make([]float64, n)
	d := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		m.RowColInfNorms(rowNorm, colNorm)

		converged := true
		for i, v := range rowNorm {
			if math.Abs(1-v) > tol {
				converged = false
			}
			d[i] = invSqrt(v)
		}
		if converged {
			break
		}

		m.ScaleRows(d)
		m.ScaleCols(d)
		for i := range acc {
			acc[i] *= d[i]
		}
	}
	return acc
}

// diagonalScale returns the cheaper, non-iterative fallback equilibration:
// 1/sqrt(|J_ii|) per row/column, falling back to 1 for a zero or absent
// diagonal entry.
func diagonalScale(m *CSCMatrix) []float64 {
	d := ones(m.Rows)
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			if m.RowIdx[k] == c {
				if v := math.Abs(m.Data[k]); v > 0 {
					d[c] = invSqrt(v)
				}
			}
		}
	}
	return d
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
