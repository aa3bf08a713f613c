// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package step implements the Mehrotra predictor-corrector Step Controller
// (spec.md §4.5): affine step lengths, the centrality parameter σ, the
// combined right-hand side, the final back-off step lengths, and advancing
// the iterate.
package step

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/num-ipm/mehrotra/cone"
)

// SigmaRule selects how Sigma derives the centrality parameter from the
// affine step (spec.md §4.5 step 4).
type SigmaRule int

const (
	// StepLengthRule derives σ jointly from μ_aff/μ and the affine step
	// lengths. This is the default (spec.md §9).
	StepLengthRule SigmaRule = iota
	// MehrotraRule sets σ = (μ_aff/μ)³, clipped to [0, 1].
	MehrotraRule
)

// AffineStepLengths computes α_pri_aff and α_dual_aff, the maximal step
// lengths to the cone boundary along the affine direction (spec.md §4.5
// step 1), optionally forcing them equal (step 2).
func AffineStepLengths(x, dxAff, z, dzAff []float64, forceSameStep bool) (alphaPriAff, alphaDualAff float64) {
	alphaPriAff = cone.MaxStep(x, dxAff)
	alphaDualAff = cone.MaxStep(z, dzAff)
	if forceSameStep {
		m := math.Min(alphaPriAff, alphaDualAff)
		alphaPriAff, alphaDualAff = m, m
	}
	return alphaPriAff, alphaDualAff
}

// AffineMu computes μ_aff = (x̂ᵀẑ)/n at the candidate iterate
// x̂ = x + α_pri_aff Δx_aff, ẑ = z + α_dual_aff Δz_aff (spec.md §4.5 step 3),
// without forming x̂/ẑ explicitly.
func AffineMu(x, dxAff []float64, alphaPriAff float64, z, dzAff []float64, alphaDualAff float64) float64 {
	n := len(x)
	var sum float64
	for j := 0; j < n; j++ {
		xHat := x[j] + alphaPriAff*dxAff[j]
		zHat := z[j] + alphaDualAff*dzAff[j]
		sum += xHat * zHat
	}
	return sum / float64(n)
}

// Sigma computes the centrality parameter via rule (spec.md §4.5 step 4).
func Sigma(rule SigmaRule, mu, muAff, alphaPriAff, alphaDualAff float64) float64 {
	switch rule {
	case MehrotraRule:
		ratio := muAff / mu
		sigma := ratio * ratio * ratio
		return math.Max(0, math.Min(1, sigma))
	default: // StepLengthRule
		ratio := muAff / mu
		avgAlpha := 0.5 * (alphaPriAff + alphaDualAff)
		sigma := ratio * ratio * avgAlpha
		return math.Max(0, math.Min(1, sigma))
	}
}

// CombinedRmu forms the complementarity right-hand side for the combined
// (predictor+corrector) solve (spec.md §4.5 step 5): the baseline x∘z,
// shifted by -σμ, optionally with the second-order Mehrotra cross term
// Δx_aff∘Δz_aff added.
func CombinedRmu(rmuBase []float64, sigma, mu float64, dxAff, dzAff []float64, includeCrossTerm bool) []float64 {
	n := len(rmuBase)
	out := make([]float64, n)
	copy(out, rmuBase)
	shift := sigma * mu
	for j := 0; j < n; j++ {
		out[j] -= shift
		if includeCrossTerm {
			out[j] += dxAff[j] * dzAff[j]
		}
	}
	return out
}

// ScaleResiduals returns (1-σ)·r for each residual vector, the scaling
// spec.md §4.5 step 5 applies to r_b and r_c in the combined right-hand
// side (r_μ is built by CombinedRmu instead).
func ScaleResiduals(sigma float64, r []float64) []float64 {
	out := append([]float64(nil), r...)
	floats.Scale(1-sigma, out)
	return out
}

// StepLengths computes the final back-off step lengths (spec.md §4.5
// step 7): maxStepRatio times the step-to-boundary, capped at 1, optionally
// forced equal between primal and dual.
func StepLengths(x, dx, z, dz []float64, maxStepRatio float64, forceSameStep bool) (alphaPri, alphaDual float64) {
	alphaPri = math.Min(maxStepRatio*cone.MaxStep(x, dx), 1)
	alphaDual = math.Min(maxStepRatio*cone.MaxStep(z, dz), 1)
	if forceSameStep {
		m := math.Min(alphaPri, alphaDual)
		alphaPri, alphaDual = m, m
	}
	return alphaPri, alphaDual
}

// Advance updates the iterate in place (spec.md §4.5 step 8):
// x += alphaPri*dx; y += alphaDual*dy; z += alphaDual*dz.
func Advance(x, y, z, dx, dy, dz []float64, alphaPri, alphaDual float64) {
	for j := range x {
		x[j] += alphaPri * dx[j]
	}
	for i := range y {
		y[i] += alphaDual * dy[i]
	}
	for j := range z {
		z[j] += alphaDual * dz[j]
	}
}
