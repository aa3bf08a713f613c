// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the Linear Solver Adapter (spec.md §4.4): it
// factors an assembled KKT system once per outer iteration and solves it
// against one or more right-hand sides, removing the effect of any temporary
// regularization by iterative refinement.
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"

	"github.com/num-ipm/mehrotra/kkt"
)

// FactorizationError reports that a factorization failed outright (an exact
// singular pivot, or a Cholesky factorization that found the matrix not
// positive definite).
type FactorizationError struct {
	System kkt.System
	Err    error
}

func (e *FactorizationError) Error() string {
	return fmt.Sprintf("solver: %v factorization failed: %v", e.System, e.Err)
}

func (e *FactorizationError) Unwrap() error { return e.Err }

// SolveError reports that a triangular solve or refinement pass failed to
// reduce the residual within the configured tolerance.
type SolveError struct {
	Iters int
	Resid float64
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solver: refinement did not converge after %d iterations, residual %g", e.Iters, e.Resid)
}

// RefineCtrl controls regularized iterative refinement (spec.md §4.4,
// §9 "Regularization and iterative refinement").
type RefineCtrl struct {
	// ResolveReg selects one direct full-precision solve against the
	// unregularized matrix (true), rather than refining with the
	// regularized factorization as a fixed-point operator (false).
	ResolveReg bool
	// MaxRefineIts bounds refinement iterations. NormalSystem ignores
	// this, since it carries no RegTmp to refine out (spec.md §4.4).
	MaxRefineIts int
	// RelTol is the residual-reduction factor that stops refinement
	// early.
	RelTol float64
}

// Dense factors an assembled dense KKT system once, caching whatever the
// underlying factorization method needs, and solves it against any number
// of right-hand sides via Solve.
//
// FULL and AUGMENTED systems are indefinite in general, so they are
// factored with LU (lapack64.Getrf/Getrs, following mat64/lu.go's wrapping
// pattern). NORMAL is always symmetric positive definite once δ²·I has
// been added (kkt.assembleNormal), so it is factored with mat.Cholesky,
// mirroring the exact pattern optimize/convex/lp's affine-scaling solver
// uses: `var chol mat.Cholesky; chol.Factorize(symMat); chol.SolveVecTo(...)`.
type Dense struct {
	system kkt.System
	orig   *mat.Dense // unregularized J, kept for refinement residuals
	n      int

	// LU path (FULL, AUGMENTED).
	luFactor *mat.Dense
	ipiv     []int

	// Cholesky path (NORMAL).
	chol mat.Cholesky
}

// Factor factors as.J, keeping origJ (the unregularized matrix, or as.J
// itself if no regularization is in play) for refinement.
func Factor(as *kkt.Assembled, origJ *mat.Dense) (*Dense, error) {
	n, _ := as.J.Dims()
	d := &Dense{system: as.System, orig: origJ, n: n}

	switch as.System {
	case kkt.NormalSystem:
		sym := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				sym.SetSym(i, j, as.J.At(i, j))
			}
		}
		if ok := d.chol.Factorize(sym); !ok {
			return nil, &FactorizationError{System: as.System, Err: fmt.Errorf("matrix is not positive definite")}
		}
	default:
		d.luFactor = mat.DenseCopyOf(as.J)
		d.ipiv = make([]int, n)
		raw := d.luFactor.RawMatrix()
		ok := lapack64.Getrf(raw, d.ipiv)
		if !ok {
			return nil, &FactorizationError{System: as.System, Err: fmt.Errorf("exact zero pivot")}
		}
	}
	return d, nil
}

// Solve solves origJ * x = rhs (not the regularized as.J) using the cached
// factorization as a preconditioner, refining away the temporary
// regularization's effect per ctrl. For NormalSystem, ctrl is ignored: the
// system carries no RegTmp (spec.md §4.4).
func (d *Dense) Solve(rhs []float64, ctrl RefineCtrl) ([]float64, error) {
	n := d.n
	x := make([]float64, n)
	d.applyFactorization(rhs, x)

	if d.system == kkt.NormalSystem || d.orig == nil {
		return x, nil
	}

	if ctrl.ResolveReg {
		return d.resolveAgainstOrig(rhs)
	}

	maxIts := ctrl.MaxRefineIts
	if maxIts <= 0 {
		maxIts = 1
	}
	relTol := ctrl.RelTol
	if relTol <= 0 {
		relTol = 1e-10
	}

	resid := make([]float64, n)
	var resid0 float64
	for it := 0; it < maxIts; it++ {
		computeResidual(d.orig, x, rhs, resid)
		normResid := infNorm(resid)
		if it == 0 {
			resid0 = normResid
		}
		if normResid == 0 || (resid0 > 0 && normResid <= relTol*resid0) {
			return x, nil
		}

		corr := make([]float64, n)
		d.applyFactorization(resid, corr)
		for i := range x {
			x[i] += corr[i]
		}
	}

	computeResidual(d.orig, x, rhs, resid)
	if infNorm(resid) > relTol*resid0 && resid0 > 0 {
		return x, &SolveError{Iters: maxIts, Resid: infNorm(resid)}
	}
	return x, nil
}

// resolveAgainstOrig performs a full-precision re-solve directly against the
// unregularized matrix (spec.md §4.4 option (a)), rather than treating the
// regularized factorization as a fixed-point correction operator.
func (d *Dense) resolveAgainstOrig(rhs []float64) ([]float64, error) {
	n := d.n
	b := mat.NewVecDense(n, append([]float64(nil), rhs...))
	var x mat.VecDense
	if err := x.SolveVec(d.orig, b); err != nil {
		return nil, &FactorizationError{System: d.system, Err: err}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

func (d *Dense) applyFactorization(rhs, x []float64) {
	copy(x, rhs)
	switch d.system {
	case kkt.NormalSystem:
		xv := mat.NewVecDense(d.n, x)
		d.chol.SolveVecTo(xv, xv)
	default:
		b := blas64.General{Rows: d.n, Cols: 1, Stride: 1, Data: x}
		lapack64.Getrs(blas.NoTrans, d.luFactor.RawMatrix(), b, d.ipiv)
	}
}

func computeResidual(a *mat.Dense, x, rhs, out []float64) {
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		var row float64
		for j := 0; j < n; j++ {
			row += a.At(i, j) * x[j]
		}
		out[i] = rhs[i] - row
	}
}

func infNorm(v []float64) float64 {
	var m float64
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		if x > m {
			m = x
		}
	}
	return m
}
