// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mehrotra

import (
	"errors"
	"fmt"
)

// ErrZeroDimensional signifies Mehrotra was called with a problem of size 0.
var ErrZeroDimensional = errors.New("mehrotra: zero dimensional problem")

// ErrDimensionMismatch signifies A, b, c, x, y, z do not have mutually
// consistent dimensions.
var ErrDimensionMismatch = errors.New("mehrotra: dimension mismatch between A, b, c and the solution")

// LogicError signifies an invariant the driver itself is responsible for
// maintaining was violated — x or z lost positivity between iterations.
// Unlike SingularMatrixError or NonConvergenceError, this is never a
// property of the input problem; it always indicates a bug in the driver
// or an adapter (spec.md §7).
type LogicError struct {
	Msg string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("mehrotra: internal logic error: %s", e.Msg)
}

// FactorizationError reports that factoring the assembled KKT system
// failed outright. The driver treats this as benign (and returns the best
// iterate found) if the composite error at the time already meets minTol;
// otherwise it is fatal (spec.md §7).
type FactorizationError struct {
	Iter int
	Err  error
}

func (e *FactorizationError) Error() string {
	return fmt.Sprintf("mehrotra: factorization failed at iteration %d: %v", e.Iter, e.Err)
}

func (e *FactorizationError) Unwrap() error { return e.Err }

// SolveError reports that a triangular solve or regularized refinement
// pass failed to reduce the residual within tolerance. Like
// FactorizationError, it is benign if the composite error already meets
// minTol (spec.md §7).
type SolveError struct {
	Iter int
	Err  error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("mehrotra: linear solve failed at iteration %d: %v", e.Iter, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// NonConvergenceError reports that Mehrotra exhausted maxIts, or both step
// lengths went to zero, with the composite error still above minTol
// (spec.md §4.6, §7).
type NonConvergenceError struct {
	Iter           int
	CompositeError float64
	MinTol         float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("mehrotra: did not converge after %d iterations: composite error %g exceeds minTol %g",
		e.Iter, e.CompositeError, e.MinTol)
}
