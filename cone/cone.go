// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cone implements the predicates the Mehrotra driver needs on the
// non-negative orthant: membership, the maximum step to the boundary, and
// the complementarity ratio used to decide whether to hold or shrink the
// barrier parameter.
//
// These predicates are pure arithmetic over []float64 and have no natural
// home in a third-party numerical library in the example corpus (gonum's
// floats package covers norms and elementwise ops but not boundary-step or
// complementarity-ratio predicates specific to the non-negative orthant),
// so they are implemented directly against the standard library.
package cone

import "math"

// NumOutside reports how many components of x are non-positive.
func NumOutside(x []float64) int {
	n := 0
	for _, xi := range x {
		if xi <= 0 {
			n++
		}
	}
	return n
}

// StrictlyPositive reports whether every component of x is strictly
// positive.
func StrictlyPositive(x []float64) bool {
	for _, xi := range x {
		if xi <= 0 {
			return false
		}
	}
	return true
}

// MaxStep returns the largest t in (0, 1] such that x + t*dx stays
// componentwise non-negative, i.e. the distance to the boundary of the
// non-negative orthant along direction dx. If no component of dx is
// negative, the step is unbounded and MaxStep returns 1.
func MaxStep(x, dx []float64) float64 {
	t := 1.0
	for i, dxi := range dx {
		if dxi < 0 {
			ti := -x[i] / dxi
			if ti < t {
				t = ti
			}
		}
	}
	return t
}

// ComplementRatio returns the maximum ratio (x_j*z_j)/mu across components,
// the "complementarity ratio" used by State.Update to decide whether the
// current iterate is too imbalanced to let mu decrease.
func ComplementRatio(x, z []float64, mu float64) float64 {
	if mu <= 0 {
		return math.Inf(1)
	}
	ratio := 0.0
	for i := range x {
		r := (x[i] * z[i]) / mu
		if r > ratio {
			ratio = r
		}
	}
	return ratio
}
