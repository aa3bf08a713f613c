// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"gonum.org/v1/gonum/mat"

	"github.com/num-ipm/mehrotra/solver"
)

// MatrixKind distinguishes the storage Problem.A uses. It is a closed
// interface (only matrixKind implementations in this package satisfy it),
// standing in for the four matrix-kind variants spec.md §2 item 6
// describes (dense serial/distributed, sparse serial/distributed) without
// resorting to Go generics over the constraint matrix type.
type MatrixKind interface {
	matrixKind()
}

// DenseKind selects a dense *mat.Dense constraint matrix.
type DenseKind struct{}

func (DenseKind) matrixKind() {}

// SparseKind selects a *solver.CSCMatrix constraint matrix.
type SparseKind struct{}

func (SparseKind) matrixKind() {}

// Problem is the immutable linear program (A, b, c) Mehrotra solves:
//
//	min cᵀx  s.t. A x = b, x ≥ 0
//
// Exactly one of Dense or Sparse is set, matching Kind.
type Problem struct {
	Kind   MatrixKind
	Dense  *mat.Dense
	Sparse *solver.CSCMatrix
	B      []float64
	C      []float64
}

// DenseProblem constructs a dense-kind Problem.
func DenseProblem(a *mat.Dense, b, c []float64) Problem {
	return Problem{Kind: DenseKind{}, Dense: a, B: b, C: c}
}

// SparseProblem constructs a sparse-kind Problem.
func SparseProblem(a *solver.CSCMatrix, b, c []float64) Problem {
	return Problem{Kind: SparseKind{}, Sparse: a, B: b, C: c}
}

// Dims returns the constraint matrix's (rows, cols) = (m, n).
func (p Problem) Dims() (m, n int) {
	switch p.Kind.(type) {
	case DenseKind:
		return p.Dense.Dims()
	case SparseKind:
		return p.Sparse.Dims()
	default:
		panic("mehrotra: Problem has an unrecognized MatrixKind")
	}
}

// asDense returns the constraint matrix as a *mat.Dense, densifying a
// sparse problem if necessary. The KKT assembler (package kkt) is shared
// by every matrix-kind variant and operates on *mat.Dense; see DESIGN.md
// for the sparse-path scope reduction this implies.
func (p Problem) asDense() *mat.Dense {
	switch p.Kind.(type) {
	case DenseKind:
		return p.Dense
	case SparseKind:
		return p.Sparse.Dense()
	default:
		panic("mehrotra: Problem has an unrecognized MatrixKind")
	}
}

// Solution is the mutable primal/dual/slack triple (x, y, z). The caller
// owns the backing slices; Mehrotra updates them in place.
type Solution struct {
	X, Y, Z []float64
}

// clone returns a deep copy, used internally so equilibration and
// iteration scratch never alias the caller's slices.
func (s Solution) clone() Solution {
	return Solution{
		X: append([]float64(nil), s.X...),
		Y: append([]float64(nil), s.Y...),
		Z: append([]float64(nil), s.Z...),
	}
}
