// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"github.com/num-ipm/mehrotra/internal/diag"
	"github.com/num-ipm/mehrotra/kkt"
	"github.com/num-ipm/mehrotra/step"
)

// RefineSettings is the nested control for regularized iterative
// refinement in the Linear Solver Adapter (spec.md §6 "solveCtrl").
type RefineSettings struct {
	RelTol       float64
	MaxRefineIts int
	Progress     bool
	Time         bool
}

// MehrotraCtrl is the control structure accepted by Mehrotra and its
// matrix-kind variants. The zero value is not directly usable; call
// (*MehrotraCtrl).setDefaults (done automatically by Mehrotra) or start
// from DefaultMehrotraCtrl.
type MehrotraCtrl struct {
	// PrimalInit and DualInit report whether the caller's x, and (y, z),
	// are valid warm starts; otherwise the driver synthesizes them.
	PrimalInit bool
	DualInit   bool

	// OuterEquil runs Ruiz equilibration on the problem before solving.
	OuterEquil bool

	// System selects which KKT linearization to solve each iteration.
	System kkt.System

	// Mehrotra includes the second-order Mehrotra cross term
	// Δx_aff∘Δz_aff in the corrector right-hand side.
	Mehrotra bool

	// SigmaRule selects the centrality-parameter rule (spec.md §4.5 step 4).
	SigmaRule step.SigmaRule

	// ForceSameStep requires alphaPri == alphaDual each iteration.
	ForceSameStep bool

	// MaxStepRatio is the fraction of the step-to-boundary actually taken
	// (spec.md §4.5 step 7); the historical hard-wired value is 0.99.
	MaxStepRatio float64

	MaxIts    int
	TargetTol float64
	MinTol    float64

	// Reg0Perm, Reg1Perm, Reg2Perm are the permanent regularizers
	// (γ_perm, δ_perm, β_perm) that alter the problem formulation
	// (spec.md §3). Exposed per REDESIGN FLAGS; default 0 (disabled).
	Reg0Perm float64
	Reg1Perm float64
	Reg2Perm float64

	// Reg0Tmp, Reg1Tmp, Reg2Tmp are the temporary regularization
	// magnitudes (γ_tmp, δ_tmp, β_tmp) used for factoring stability only
	// (spec.md §3, §4.3).
	Reg0Tmp float64
	Reg1Tmp float64
	Reg2Tmp float64

	// StandardShift scales the initializer's positivity shift (spec.md §9
	// Open Question 3; REDESIGN FLAGS). Default 1.5, the historical
	// hard-wired value.
	StandardShift float64

	// RuizEquilTol and RuizMaxIter control the outer Equilibrator's Ruiz
	// iteration (spec.md §4.1, §6), run once before the driver loop starts.
	// RuizEquilTol and DiagEquilTol are also passed to the sparse Linear
	// Solver Adapter, where they gate its inner row/col equilibration of
	// the assembled KKT matrix, computed once on the first outer iteration
	// and reused afterwards (spec.md §4.4 step 3):
	// above RuizEquilTol it runs a symmetric Ruiz pass, between
	// DiagEquilTol and RuizEquilTol a cheaper diagonal pass, and at or
	// below DiagEquilTol it leaves the system unscaled.
	RuizEquilTol float64
	DiagEquilTol float64
	RuizMaxIter  int

	// BasisSize is the power-iteration subspace size for estimating
	// ‖A‖₂ when scaling temporary regularization (spec.md §6, §4.3).
	BasisSize int

	// ResolveReg selects full-precision refinement (true) over bounded
	// refinement (false) in the Linear Solver Adapter (spec.md §6).
	ResolveReg bool

	// SolveCtrl is the nested iterative-refinement control.
	SolveCtrl RefineSettings

	// BalanceTol is the compRatio threshold above which State.Update
	// holds μ at μ_old rather than letting it decrease (spec.md §4.2,
	// §9 Open Question 2). Default math.Pow(machineEps, -0.19).
	BalanceTol float64

	// Print, Time, and CheckResiduals gate diagnostics (spec.md §6).
	Print          bool
	Time           bool
	CheckResiduals bool

	// Printer receives per-iteration diagnostic lines when Print is set.
	// If nil and Print is true, Mehrotra constructs a default
	// internal/diag.Printer writing to os.Stdout.
	Printer *diag.Printer
}

// DefaultMehrotraCtrl returns a MehrotraCtrl with every documented default
// applied (spec.md §6, §9): AUGMENTED_KKT, the Mehrotra cross term and
// step-length σ rule enabled, maxStepRatio 0.99, a single-pass refinement
// budget, and BalanceTol = machineEps^-0.19.
func DefaultMehrotraCtrl() MehrotraCtrl {
	var c MehrotraCtrl
	c.setDefaults()
	c.Mehrotra = true
	return c
}

func (c *MehrotraCtrl) setDefaults() {
	if c.MaxStepRatio == 0 {
		c.MaxStepRatio = 0.99
	}
	if c.StandardShift == 0 {
		c.StandardShift = 1.5
	}
	if c.MaxIts == 0 {
		c.MaxIts = 100
	}
	if c.TargetTol == 0 {
		c.TargetTol = 1e-8
	}
	if c.MinTol == 0 {
		c.MinTol = 1e-6
	}
	if c.RuizEquilTol == 0 {
		c.RuizEquilTol = 1e-2
	}
	if c.DiagEquilTol == 0 {
		c.DiagEquilTol = 1e-2
	}
	if c.RuizMaxIter == 0 {
		c.RuizMaxIter = 20
	}
	if c.BasisSize == 0 {
		c.BasisSize = 4
	}
	if c.BalanceTol == 0 {
		c.BalanceTol = DefaultBalanceTol()
	}
	if c.SolveCtrl.RelTol == 0 {
		c.SolveCtrl.RelTol = 1e-10
	}
	if c.SolveCtrl.MaxRefineIts == 0 {
		c.SolveCtrl.MaxRefineIts = 1
	}
}
