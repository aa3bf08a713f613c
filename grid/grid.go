// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid provides the process-grid abstraction referenced by the
// distributed Mehrotra driver variants. The example corpus carries no MPI
// or process-grid binding, so Grid is deliberately minimal: it exists to
// let the driver core be written once against an alignment-coercion
// adapter (spec §9, "distributed alignment coercion") rather than
// special-cased per matrix kind. Local is the only implementation and
// always reports a canonical, single-process alignment.
package grid

// Alignment describes how a distributed operand's data is laid out on a
// Grid. Two operands are compatible without copying iff their Alignment
// values compare equal.
type Alignment struct {
	ColAlign int
	RowAlign int
}

// Simple returns the canonical "simple alignment" that the core Mehrotra
// loop requires its operands to be in before entering the iteration (spec
// §9).
func Simple() Alignment { return Alignment{} }

// Grid abstracts a process grid that distributed Problem/Solution values
// are laid out on. Collective reduces (dot, norm) and broadcasts are
// modeled as ordinary function calls; Local's implementation performs them
// locally, which is correct because a Local grid always has exactly one
// process participating in the collective.
type Grid interface {
	// Size returns the number of processes participating in the grid.
	Size() int
	// Reduce combines a local scalar across every process in the grid
	// (e.g. the partial dot-product contributed by this rank) using sum
	// reduction, and returns the collectively-reduced result.
	Reduce(local float64) float64
}

// Local is the single-process Grid, the only Grid implementation in this
// module. Every collective is a no-op.
type Local struct{}

// Size implements Grid.
func (Local) Size() int { return 1 }

// Reduce implements Grid.
func (Local) Reduce(local float64) float64 { return local }

// Coerce views data already in Simple alignment in place, or reports that
// the caller must copy into canonical scratch first. The core Mehrotra
// loop never runs against non-canonical alignments; callers with
// non-canonical distributed operands copy into Simple-aligned scratch,
// run the core loop, and copy the result back (spec §9).
func Coerce(a Alignment) (canonical bool) {
	return a == Simple()
}
