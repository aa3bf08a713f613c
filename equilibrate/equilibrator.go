// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Record stores the scalars and vectors applied by Equilibrate, so that
// UndoEquilibration can invert the transform exactly (spec.md §4.1, §8
// round-trip law). RowScale and ColScale are divisors: the equilibrated
// matrix is diag(1/RowScale) * A * diag(1/ColScale).
type Record struct {
	RowScale []float64
	ColScale []float64
	BScale   float64
	CScale   float64
}

// DenseMatrix adapts a *mat.Dense to the Scalable interface RuizScale
// requires.
type DenseMatrix struct{ *mat.Dense }

// Dims implements Scalable.
func (d DenseMatrix) Dims() (int, int) { return d.Dense.Dims() }

// RowColInfNorms implements Scalable.
func (d DenseMatrix) RowColInfNorms(rowNorm, colNorm []float64) {
	rows, cols := d.Dense.Dims()
	for i := range rowNorm {
		rowNorm[i] = 0
	}
	for j := range colNorm {
		colNorm[j] = 0
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := math.Abs(d.Dense.At(i, j))
			if v > rowNorm[i] {
				rowNorm[i] = v
			}
			if v > colNorm[j] {
				colNorm[j] = v
			}
		}
	}
}

// ScaleRows implements Scalable: row i *= d[i].
func (d DenseMatrix) ScaleRows(s []float64) {
	rows, cols := d.Dense.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.Dense.Set(i, j, d.Dense.At(i, j)*s[i])
		}
	}
}

// ScaleCols implements Scalable: column j *= e[j].
func (d DenseMatrix) ScaleCols(s []float64) {
	rows, cols := d.Dense.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.Dense.Set(i, j, d.Dense.At(i, j)*s[j])
		}
	}
}

// DenseProblem is the minimal view of a Problem/Solution that
// Equilibrate/UndoEquilibration operate on for the dense matrix kind. The
// root package builds one from its Problem's dense matrix and b, c.
type DenseProblem struct {
	A *mat.Dense
	B []float64
	C []float64
}

// DenseSolution is the optional warm-start triple equilibrated alongside
// the problem.
type DenseSolution struct {
	X, Y, Z []float64
}

// Equilibrate runs Ruiz row/column scaling on p.A, rescales b and c, and
// optionally rescales a warm-start solution, following spec.md §4.1
// exactly. sol may be nil if no warm start is supplied. maxIter/tol
// control the inner Ruiz iteration (spec.md §6 ruizMaxIter/ruizEquilTol).
func Equilibrate(p DenseProblem, sol *DenseSolution, primalInit, dualInit bool, maxIter int, tol float64) (DenseProblem, *DenseSolution, Record) {
	eqA := mat.DenseCopyOf(p.A)
	b := append([]float64(nil), p.B...)
	c := append([]float64(nil), p.C...)

	rowScale, colScale := RuizScale(DenseMatrix{eqA}, maxIter, tol)
	// RuizScale returns multipliers; the record keeps their reciprocals, so
	// that eqA = diag(1/rowScale) * A * diag(1/colScale) below.
	for i := range rowScale {
		rowScale[i] = 1 / rowScale[i]
	}
	for j := range colScale {
		colScale[j] = 1 / colScale[j]
	}

	for i := range b {
		b[i] /= rowScale[i]
	}
	for j := range c {
		c[j] /= colScale[j]
	}

	var eqSol *DenseSolution
	if sol != nil {
		eqSol = &DenseSolution{
			X: append([]float64(nil), sol.X...),
			Y: append([]float64(nil), sol.Y...),
			Z: append([]float64(nil), sol.Z...),
		}
		if primalInit {
			for j := range eqSol.X {
				eqSol.X[j] *= colScale[j]
			}
		}
		if dualInit {
			for i := range eqSol.Y {
				eqSol.Y[i] *= rowScale[i]
			}
			for j := range eqSol.Z {
				eqSol.Z[j] /= colScale[j]
			}
		}
	}

	bScale := math.Max(floats.Norm(b, math.Inf(1)), 1)
	cScale := math.Max(floats.Norm(c, math.Inf(1)), 1)
	floats.Scale(1/bScale, b)
	floats.Scale(1/cScale, c)
	if eqSol != nil {
		if primalInit {
			floats.Scale(1/bScale, eqSol.X)
		}
		if dualInit {
			floats.Scale(1/cScale, eqSol.Y)
			floats.Scale(1/cScale, eqSol.Z)
		}
	}

	rec := Record{RowScale: rowScale, ColScale: colScale, BScale: bScale, CScale: cScale}
	return DenseProblem{A: eqA, B: b, C: c}, eqSol, rec
}

// UndoEquilibration inverts Equilibrate's transform on the solution found
// by the driver, in the opposite order it was applied (spec.md §4.1).
func UndoEquilibration(rec Record, x, y, z []float64) {
	for j := range x {
		x[j] *= rec.BScale
	}
	for i := range y {
		y[i] *= rec.CScale
	}
	for j := range z {
		z[j] *= rec.CScale
	}

	for j := range x {
		x[j] /= rec.ColScale[j]
	}
	for i := range y {
		y[i] /= rec.RowScale[i]
	}
	for j := range z {
		z[j] *= rec.ColScale[j]
	}
}
