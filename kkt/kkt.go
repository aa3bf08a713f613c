// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kkt assembles and expands the three linearized KKT systems the
// Mehrotra driver can solve each outer iteration: the full (unreduced),
// augmented (Δz eliminated), and normal-equations (Δx also eliminated)
// forms described in spec.md §4.3.
package kkt

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// System selects which linearized KKT form Assemble builds.
type System int

const (
	// AugmentedSystem eliminates Δz, giving an (n+m)-sized system in
	// (Δx, Δy). It is the zero value and the documented default
	// (spec.md §6 "system").
	AugmentedSystem System = iota
	// FullSystem is the unreduced (2n+m)-sized system in (Δx, Δy, Δz).
	FullSystem
	// NormalSystem further eliminates Δx, giving an m-sized system in Δy
	// alone.
	NormalSystem
)

func (s System) String() string {
	switch s {
	case FullSystem:
		return "full"
	case AugmentedSystem:
		return "augmented"
	case NormalSystem:
		return "normal"
	default:
		return fmt.Sprintf("kkt.System(%d)", int(s))
	}
}

// RegTmp holds the temporary regularization magnitudes added to the
// diagonal of the assembled system purely for factorization stability
// (spec.md §4.3, §9 "Regularization and iterative refinement"). They are
// not part of the physical problem and are removed by iterative
// refinement in the linear solver adapter.
type RegTmp struct {
	Gamma float64 // perturbs the x block: +gamma^2
	Delta float64 // perturbs the y block: -delta^2
	Beta  float64 // perturbs the z block: -beta^2 (full system only)
}

// Inputs bundles everything Assemble needs to build a KKT system at the
// current iterate.
type Inputs struct {
	A *mat.Dense // m x n constraint matrix
	X []float64  // current primal iterate, length n, x > 0
	Z []float64  // current dual slack, length n, z > 0

	Rc  []float64 // dual residual, length n
	Rb  []float64 // primal residual, length m
	Rmu []float64 // complementarity residual, length n

	RegTmp RegTmp // zero value disables temporary regularization

	// GammaPerm and DeltaPerm are the permanent regularization
	// coefficients (spec.md §3 "permanent regularizers"). They change the
	// problem formulation itself, so — unlike RegTmp — the same physical
	// perturbation must appear consistently across all three system
	// forms: +GammaPerm^2 on the x-block and -DeltaPerm^2 on the y-block
	// of FULL/AUGMENTED, and +DeltaPerm^2 folded directly into the NORMAL
	// system (the well-known sign flip under Schur-complement
	// elimination), with GammaPerm folded into the normal equations'
	// diagonal scaling (spec.md §4.3 "with γ included when nonzero").
	GammaPerm float64
	DeltaPerm float64

	// BasisSize controls the power-iteration subspace used to estimate
	// ||A||_2 for scaling RegTmp (spec.md §6 "basisSize"); 0 selects a
	// small default.
	BasisSize int
}

// Assembled is the result of Assemble: the linearized system J, its
// right-hand side, and enough of the original inputs to Expand a solved
// reduced vector back into (Δx, Δy, Δz).
type Assembled struct {
	System System
	J      *mat.Dense
	RHS    []float64

	in Inputs
	d  []float64 // Theta = X/(Z+Gamma2*X) elementwise, cached for the normal expand
}

// Assemble builds the linearized KKT matrix and right-hand side for sys at
// the iterate described by in.
func Assemble(in Inputs, sys System) (*Assembled, error) {
	switch sys {
	case FullSystem:
		return assembleFull(in)
	case AugmentedSystem:
		return assembleAugmented(in)
	case NormalSystem:
		return assembleNormal(in)
	default:
		return nil, fmt.Errorf("kkt: unknown system %v", sys)
	}
}

// Inputs returns the Inputs Assemble built as from, letting downstream
// adapters that need the iterate itself (e.g. the sparse Linear Solver
// Adapter's inner-equilibration scaling point, spec.md §4.4 step 3) recover
// it without re-threading X/Z through every call.
func (as *Assembled) Inputs() Inputs { return as.in }

// Expand recovers (Δx, Δy, Δz) from the vector solved against as.J.
func (as *Assembled) Expand(solved []float64) (dx, dy, dz []float64) {
	switch as.System {
	case FullSystem:
		return expandFull(as, solved)
	case AugmentedSystem:
		return expandAugmented(as, solved)
	case NormalSystem:
		return expandNormal(as, solved)
	default:
		panic(fmt.Sprintf("kkt: unknown system %v", as.System))
	}
}

// normEstimate2 estimates ||A||_2 with a short power iteration on AᵀA,
// following spec.md §6's "basisSize" control: a cheap subspace estimate
// rather than a full SVD (mat.Norm(a, 2) would cost an SVD every
// iteration). No pack library offers a 2-norm estimator, so this is a
// direct implementation of the classical method on top of gonum's mat and
// golang.org/x/exp/rand.
func normEstimate2(a *mat.Dense, basisSize int) float64 {
	if basisSize <= 0 {
		basisSize = 4
	}
	_, n := a.Dims()
	rnd := rand.New(rand.NewSource(1))
	v := make([]float64, n)
	for i := range v {
		v[i] = rnd.NormFloat64()
	}
	vVec := mat.NewVecDense(n, v)
	normalize(vVec)

	m, _ := a.Dims()
	u := mat.NewVecDense(m, nil)
	var sigma float64
	for i := 0; i < basisSize; i++ {
		u.MulVec(a, vVec)
		normalize(u)
		vVec.MulVec(a.T(), u)
		sigma = mat.Norm(vVec, 2)
		normalize(vVec)
	}
	return sigma
}

func normalize(v *mat.VecDense) {
	n := mat.Norm(v, 2)
	if n == 0 {
		return
	}
	v.ScaleVec(1/n, v)
}

func regScale(in Inputs) float64 {
	if in.RegTmp == (RegTmp{}) {
		return 0
	}
	return normEstimate2(in.A, in.BasisSize) + 1
}

func sqr(x float64) float64 { return x * x }

func elementwiseDiv(dst, num, den []float64) {
	for i := range dst {
		dst[i] = num[i] / den[i]
	}
}
