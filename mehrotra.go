// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mehrotra implements Mehrotra's predictor-corrector interior-point
// method for linear programs in direct conic form:
//
//	min cᵀx  s.t. A x = b, x ≥ 0
//
// with dual (y, z ≥ 0) satisfying Aᵀy - z + c = 0. Mehrotra is the Driver
// (spec.md §4.6): it equilibrates the problem, synthesizes a starting point
// when the caller does not supply one, runs the predictor-corrector loop to
// convergence or a diagnosed failure, and undoes equilibration on the
// returned iterate.
package mehrotra

import (
	"gonum.org/v1/gonum/mat"

	"github.com/num-ipm/mehrotra/cone"
	"github.com/num-ipm/mehrotra/equilibrate"
	"github.com/num-ipm/mehrotra/grid"
	"github.com/num-ipm/mehrotra/internal/diag"
	"github.com/num-ipm/mehrotra/kkt"
	"github.com/num-ipm/mehrotra/solver"
	"github.com/num-ipm/mehrotra/step"
)

// factored is satisfied by both the dense and sparse Linear Solver Adapter's
// factored-system handles (solver.Dense and solver.SparseFactored), letting
// the driver core stay agnostic to matrix kind past the one factorSystem
// call per outer iteration.
type factored interface {
	Solve(rhs []float64, ctrl solver.RefineCtrl) ([]float64, error)
}

// Mehrotra solves problem in place into solution, using ctrl to select the
// KKT linearization, regularization, step-length rule, and tolerances. It
// is the dense-serial/sparse-serial entry point (spec.md §6); see
// MehrotraDistributed for the grid-aware variant.
func Mehrotra(problem Problem, solution *Solution, ctrl MehrotraCtrl) error {
	return run(problem, solution, ctrl)
}

// MehrotraDistributed is the dense-distributed/sparse-distributed variant.
// It forces solution into grid.Simple() canonical alignment before running
// the same core loop as Mehrotra, copying the result back into the
// caller's (possibly non-canonical) solution on exit, following the
// "distributed alignment coercion" adapter pattern (spec.md §9). g is
// accepted for API symmetry with a genuinely distributed process grid; the
// corpus carries no MPI/process-grid binding to thread collective reduces
// through (see DESIGN.md), so grid.Local is the only implementation and
// every reduce it performs is already local.
func MehrotraDistributed(problem Problem, solution *Solution, ctrl MehrotraCtrl, g grid.Grid, alignment grid.Alignment) error {
	_ = g
	if grid.Coerce(alignment) {
		return run(problem, solution, ctrl)
	}
	scratch := solution.clone()
	if err := run(problem, &scratch, ctrl); err != nil {
		return err
	}
	copy(solution.X, scratch.X)
	copy(solution.Y, scratch.Y)
	copy(solution.Z, scratch.Z)
	return nil
}

// MehrotraPositional is the deprecated positional-argument variant
// (spec.md §6): equivalent to Mehrotra(DenseProblem(a, b, c), &Solution{x,
// y, z}, ctrl).
//
// Deprecated: construct a Problem and Solution and call Mehrotra instead.
func MehrotraPositional(a *mat.Dense, b, c, x, y, z []float64, ctrl MehrotraCtrl) error {
	sol := Solution{X: x, Y: y, Z: z}
	return Mehrotra(DenseProblem(a, b, c), &sol, ctrl)
}

// run is the matrix-kind-agnostic core of the E-I-L-U state machine
// (spec.md §4.6).
func run(problem Problem, solution *Solution, ctrl MehrotraCtrl) error {
	ctrl.setDefaults()

	m, n := problem.Dims()
	if m == 0 || n == 0 {
		return ErrZeroDimensional
	}
	if len(problem.B) != m || len(problem.C) != n ||
		len(solution.X) != n || len(solution.Y) != m || len(solution.Z) != n {
		return ErrDimensionMismatch
	}

	a := mat.DenseCopyOf(problem.asDense())
	b := append([]float64(nil), problem.B...)
	c := append([]float64(nil), problem.C...)
	x := append([]float64(nil), solution.X...)
	y := append([]float64(nil), solution.Y...)
	z := append([]float64(nil), solution.Z...)

	// E: equilibrate.
	var rec equilibrate.Record
	if ctrl.OuterEquil {
		eqProblem, eqSolution, r := equilibrate.Equilibrate(
			equilibrate.DenseProblem{A: a, B: b, C: c},
			&equilibrate.DenseSolution{X: x, Y: y, Z: z},
			ctrl.PrimalInit, ctrl.DualInit, ctrl.RuizMaxIter, ctrl.RuizEquilTol)
		a, b, c = eqProblem.A, eqProblem.B, eqProblem.C
		x, y, z = eqSolution.X, eqSolution.Y, eqSolution.Z
		rec = r
	}

	// I: initialize whatever the caller did not warm-start.
	if !ctrl.PrimalInit || !ctrl.DualInit {
		x0, y0, z0 := initializeStandardShift(a, b, c, ctrl.StandardShift)
		if !ctrl.PrimalInit {
			x = x0
		}
		if !ctrl.DualInit {
			y, z = y0, z0
		}
	}

	var printer *diag.Printer
	if ctrl.Print {
		printer = ctrl.Printer
		if printer == nil {
			printer = diag.NewPrinter()
		}
		printer.Init()
	}

	var st State
	st.Initialize(b, c)

	var sparseAdapter *solver.Sparse
	if _, ok := problem.Kind.(SparseKind); ok {
		sparseAdapter = &solver.Sparse{
			RuizEquilTol: ctrl.RuizEquilTol,
			DiagEquilTol: ctrl.DiagEquilTol,
			RuizMaxIter:  ctrl.RuizMaxIter,
		}
	}

	solveCtrl := solver.RefineCtrl{
		ResolveReg:   ctrl.ResolveReg,
		MaxRefineIts: ctrl.SolveCtrl.MaxRefineIts,
		RelTol:       ctrl.SolveCtrl.RelTol,
	}

	var alphaPri, alphaDual, sigma float64

	// L: the predictor-corrector loop.
	for it := 0; ; it++ {
		if !cone.StrictlyPositive(x) || !cone.StrictlyPositive(z) {
			return &LogicError{Msg: "iterate left the strictly positive orthant"}
		}

		st.Update(a, b, c, x, y, z, ctrl.Reg0Perm, ctrl.Reg1Perm, ctrl.BalanceTol)
		if printer != nil {
			st.PrintResiduals(printer, sigma, alphaPri, alphaDual)
		}

		if st.CompositeError <= ctrl.TargetTol {
			break
		}
		if it == ctrl.MaxIts {
			if st.CompositeError <= ctrl.MinTol {
				break
			}
			return &NonConvergenceError{Iter: it, CompositeError: st.CompositeError, MinTol: ctrl.MinTol}
		}

		in := kkt.Inputs{
			A:         a,
			X:         x,
			Z:         z,
			Rc:        st.Residual.Rc,
			Rb:        st.Residual.Rb,
			Rmu:       st.Residual.Rmu,
			RegTmp:    kkt.RegTmp{Gamma: ctrl.Reg0Tmp, Delta: ctrl.Reg1Tmp, Beta: ctrl.Reg2Tmp},
			GammaPerm: ctrl.Reg0Perm,
			DeltaPerm: ctrl.Reg1Perm,
			BasisSize: ctrl.BasisSize,
		}
		origIn := in
		origIn.RegTmp = kkt.RegTmp{}

		asm, err := kkt.Assemble(in, ctrl.System)
		if err != nil {
			return &FactorizationError{Iter: it, Err: err}
		}
		origAsm, err := kkt.Assemble(origIn, ctrl.System)
		if err != nil {
			return &FactorizationError{Iter: it, Err: err}
		}

		fac, err := factorSystem(asm, origAsm.J, problem.Kind, sparseAdapter)
		if err != nil {
			if st.CompositeError <= ctrl.MinTol {
				break
			}
			return &FactorizationError{Iter: it, Err: err}
		}

		// Predictor (affine-scaling) solve.
		solvedAff, err := fac.Solve(asm.RHS, solveCtrl)
		if err != nil {
			if st.CompositeError <= ctrl.MinTol {
				break
			}
			return &SolveError{Iter: it, Err: err}
		}
		dxAff, _, dzAff := asm.Expand(solvedAff)

		alphaPriAff, alphaDualAff := step.AffineStepLengths(x, dxAff, z, dzAff, ctrl.ForceSameStep)
		muAff := step.AffineMu(x, dxAff, alphaPriAff, z, dzAff, alphaDualAff)
		sigma = step.Sigma(ctrl.SigmaRule, st.Mu, muAff, alphaPriAff, alphaDualAff)

		// Corrector (combined) solve, against the same factorization.
		combIn := in
		combIn.Rb = step.ScaleResiduals(sigma, st.Residual.Rb)
		combIn.Rc = step.ScaleResiduals(sigma, st.Residual.Rc)
		combIn.Rmu = step.CombinedRmu(st.Residual.Rmu, sigma, st.Mu, dxAff, dzAff, ctrl.Mehrotra)

		combAsm, err := kkt.Assemble(combIn, ctrl.System)
		if err != nil {
			return &FactorizationError{Iter: it, Err: err}
		}

		solvedComb, err := fac.Solve(combAsm.RHS, solveCtrl)
		if err != nil {
			if st.CompositeError <= ctrl.MinTol {
				break
			}
			return &SolveError{Iter: it, Err: err}
		}
		dx, dy, dz := combAsm.Expand(solvedComb)

		alphaPri, alphaDual = step.StepLengths(x, dx, z, dz, ctrl.MaxStepRatio, ctrl.ForceSameStep)
		if alphaPri == 0 && alphaDual == 0 {
			if st.CompositeError <= ctrl.MinTol {
				break
			}
			return &NonConvergenceError{Iter: it, CompositeError: st.CompositeError, MinTol: ctrl.MinTol}
		}

		step.Advance(x, y, z, dx, dy, dz, alphaPri, alphaDual)
	}

	// U: undo equilibration.
	if ctrl.OuterEquil {
		equilibrate.UndoEquilibration(rec, x, y, z)
	}

	copy(solution.X, x)
	copy(solution.Y, y)
	copy(solution.Z, z)
	return nil
}

// factorSystem dispatches to the dense or sparse Linear Solver Adapter
// depending on kind, densifying the assembled system's sparsity pattern for
// the sparse path (spec.md §4.4 "Sparse paths"; see DESIGN.md for the scope
// reduction this implies relative to a true distributed multifrontal
// factorization).
func factorSystem(asm *kkt.Assembled, origJ *mat.Dense, kind MatrixKind, sp *solver.Sparse) (factored, error) {
	if _, ok := kind.(SparseKind); ok {
		j := solver.DenseToCSC(asm.J, 1e-300)
		origCSC := solver.DenseToCSC(origJ, 1e-300)
		return sp.Factor(asm, j, origCSC)
	}
	return solver.Factor(asm, origJ)
}
