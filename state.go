// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/num-ipm/mehrotra/cone"
	"github.com/num-ipm/mehrotra/internal/diag"
)

// State carries the iteration-wide scalars and residual vectors the
// Mehrotra driver tracks across outer iterations (spec.md §4.2): the
// barrier parameter, objectives and their relative gap, the residuals and
// their norms, and the DIMACS-style composite error.
type State struct {
	NormB float64
	NormC float64

	MuOld float64
	Mu    float64

	PrimalObj float64
	DualObj   float64
	RelGap    float64

	Residual Residual

	CompositeError float64

	printer *diag.Printer
	iter    int
}

// Initialize records ‖b‖₂, ‖c‖₂ and resets μ_old to 0.1, per spec.md §4.2.
func (s *State) Initialize(b, c []float64) {
	s.NormB = floats.Norm(b, 2)
	s.NormC = floats.Norm(c, 2)
	s.MuOld = 0.1
	s.iter = 0
}

// Update executes one outer iteration's bookkeeping step, in the exact
// order spec.md §4.2 prescribes:
//  1. μ = xᵀz/n.
//  2. Hold μ at μ_old if the complementarity ratio exceeds balanceTol,
//     else take the smaller of μ and μ_old; then μ_old ← μ.
//  3. Primal/dual objectives (cᵀx and -bᵀy) and their relative gap.
//  4. r_b = Ax-b (perturbed by -δ_perm²y), its norm and relative form.
//  5. r_c = Aᵀy+c-z (perturbed by +γ_perm²x), its norm and relative form.
//  6. r_μ = x∘z and its norm.
//  7. Composite DIMACS error = max(relative gap, relative r_b, relative r_c).
func (s *State) Update(a *mat.Dense, b, c, x, y, z []float64, gammaPerm, deltaPerm, balanceTol float64) {
	n := len(x)

	s.Mu = floats.Dot(x, z) / float64(n)
	compRatio := cone.ComplementRatio(x, z, s.Mu)
	if compRatio > balanceTol {
		s.Mu = s.MuOld
	} else if s.Mu > s.MuOld {
		s.Mu = s.MuOld
	}
	s.MuOld = s.Mu

	s.PrimalObj = floats.Dot(c, x)
	s.DualObj = -floats.Dot(b, y)
	s.RelGap = RelativeGap(s.PrimalObj, s.DualObj)

	Compute(&s.Residual, a, b, c, x, y, z, gammaPerm, deltaPerm, s.NormB, s.NormC)

	s.CompositeError = s.RelGap
	if s.Residual.RelRb > s.CompositeError {
		s.CompositeError = s.Residual.RelRb
	}
	if s.Residual.RelRc > s.CompositeError {
		s.CompositeError = s.Residual.RelRc
	}
	s.iter++
}

// PrintResiduals writes one diagnostic line (spec.md §4.2) reporting the
// iteration count, μ, σ, the step lengths, and the composite error for the
// current iteration, via an internal/diag.Printer; the individual residual
// norms are not printed. alphaPri/alphaDual/sigma are 0 when called
// before a step has been computed.
func (s *State) PrintResiduals(w *diag.Printer, sigma, alphaPri, alphaDual float64) {
	if w == nil {
		return
	}
	if err := w.Record(s.iter, s.Mu, sigma, alphaPri, alphaDual, s.CompositeError); err != nil {
		// The printer is a diagnostic convenience; a write failure to the
		// configured writer is not a solver-level error condition.
		_ = err
	}
}

// machineEps is float64's unit roundoff, used to compute the default
// balanceTol = machineEps^-0.19 (spec.md §9).
const machineEps = 2.220446049250313e-16

// DefaultBalanceTol is the historical hard-wired balance tolerance
// (spec.md §9 "possibly buggy source behavior" — treated here as a
// tunable default, per REDESIGN FLAGS and MehrotraCtrl.BalanceTol).
func DefaultBalanceTol() float64 {
	return math.Pow(machineEps, -0.19)
}
