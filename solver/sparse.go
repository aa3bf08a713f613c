// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Triplet is a coordinate-form (row, col, value) nonzero entry, the
// construction-time representation accepted by Triplets.Put, grounded on
// gosl's la.Triplet.Put (other_examples: shangy-gosl opt/linipm.go, which
// builds its KKT Jacobian with `o.J.Put(i, j, v)` calls).
type Triplet struct {
	Row, Col int
	Val      float64
}

// Triplets accumulates coordinate-form entries before compaction into a
// CSCMatrix.
type Triplets struct {
	Rows, Cols int
	entries    []Triplet
}

// NewTriplets returns an empty coordinate-form accumulator for a rows x cols
// matrix.
func NewTriplets(rows, cols int) *Triplets {
	return &Triplets{Rows: rows, Cols: cols}
}

// Put appends one nonzero entry; duplicates at the same (row, col) are
// summed when the matrix is compacted, matching la.Triplet.Put's semantics.
func (t *Triplets) Put(row, col int, val float64) {
	t.entries = append(t.entries, Triplet{Row: row, Col: col, Val: val})
}

// CSCMatrix is a compressed-sparse-column matrix: colPtr has length cols+1,
// rowIdx and data are parallel arrays of length colPtr[cols], with rowIdx
// sorted within each column. This is the minimal sparse container the
// sparse Linear Solver Adapter operates on (spec.md §4.4 "Sparse paths"),
// modeled on the nonzero-coordinate layout gosl's la.Triplet/la.CCMatrix
// expose via ToMatrix/the CCMatrix conversion; no pack dependency ships a
// sparse container of its own (DESIGN.md).
type CSCMatrix struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Data       []float64
}

// Compact converts accumulated triplets into CSC form, summing duplicate
// entries.
func (t *Triplets) Compact() *CSCMatrix {
	type key struct{ r, c int }
	sums := make(map[key]float64, len(t.entries))
	for _, e := range t.entries {
		sums[key{e.Row, e.Col}] += e.Val
	}

	cols := make([][]int, t.Cols)
	for k := range sums {
		cols[k.c] = append(cols[k.c], k.r)
	}
	for c := range cols {
		sort.Ints(cols[c])
	}

	m := &CSCMatrix{Rows: t.Rows, Cols: t.Cols, ColPtr: make([]int, t.Cols+1)}
	for c := 0; c < t.Cols; c++ {
		m.ColPtr[c+1] = m.ColPtr[c] + len(cols[c])
		for _, r := range cols[c] {
			m.RowIdx = append(m.RowIdx, r)
			m.Data = append(m.Data, sums[key{r, c}])
		}
	}
	return m
}

// Dims implements equilibrate.Scalable.
func (m *CSCMatrix) Dims() (int, int) { return m.Rows, m.Cols }

// RowColInfNorms implements equilibrate.Scalable.
func (m *CSCMatrix) RowColInfNorms(rowNorm, colNorm []float64) {
	for i := range rowNorm {
		rowNorm[i] = 0
	}
	for j := range colNorm {
		colNorm[j] = 0
	}
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			v := m.Data[k]
			if v < 0 {
				v = -v
			}
			r := m.RowIdx[k]
			if v > rowNorm[r] {
				rowNorm[r] = v
			}
			if v > colNorm[c] {
				colNorm[c] = v
			}
		}
	}
}

// ScaleRows implements equilibrate.Scalable: row i *= d[i].
func (m *CSCMatrix) ScaleRows(d []float64) {
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			m.Data[k] *= d[m.RowIdx[k]]
		}
	}
}

// ScaleCols implements equilibrate.Scalable: column j *= e[j].
func (m *CSCMatrix) ScaleCols(e []float64) {
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			m.Data[k] *= e[c]
		}
	}
}

// Dense materializes the CSC matrix as a *mat.Dense. The sparse Linear
// Solver Adapter uses this to hand the compacted, ordered pattern to the
// same dense factorization path (solver.Dense) that the dense adapter
// uses, in place of a true distributed multifrontal LDLᵀ factorization —
// a deliberate scope reduction from a production nested-dissection solver
// (out of scope per spec.md §1); see DESIGN.md.
func (m *CSCMatrix) Dense() *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			d.Set(m.RowIdx[k], c, m.Data[k])
		}
	}
	return d
}

// DenseToCSC extracts the nonzero entries of d (any entry with |value| >
// tol) into a CSCMatrix. The sparse Mehrotra driver variant uses this to
// hand the kkt package's dense-assembled system (the KKT assembler is
// shared by every matrix-kind variant) to the sparse ordering/factor path,
// so the ordering and permutation machinery is genuinely exercised on the
// sparsity pattern the assembled system actually has, rather than bypassed.
func DenseToCSC(d *mat.Dense, tol float64) *CSCMatrix {
	rows, cols := d.Dims()
	t := NewTriplets(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := d.At(i, j); v > tol || v < -tol {
				t.Put(i, j, v)
			}
		}
	}
	return t.Compact()
}

// Ordering is a symmetric permutation of {0, ..., n-1} meant to reduce
// fill-in ahead of a sparse factorization.
type Ordering []int

// IdentityOrdering returns the trivial (no-op) ordering. The sparse adapter's
// Symbolic step does not use it; it orders with MinDegreeOrdering.
func IdentityOrdering(n int) Ordering {
	o := make(Ordering, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// MinDegreeOrdering computes a greedy minimum-degree ordering of the
// symmetric sparsity pattern of m (m must be square and is read, not
// modified), a cheap stand-in for the nested-dissection ordering spec.md
// §4.4 step 2 calls for in a production multifrontal solver.
func MinDegreeOrdering(m *CSCMatrix) (Ordering, error) {
	if m.Rows != m.Cols {
		return nil, fmt.Errorf("solver: MinDegreeOrdering requires a square matrix, got %dx%d", m.Rows, m.Cols)
	}
	n := m.Rows
	adj := make([]map[int]bool, n)
	for i := range adj {
		adj[i] = make(map[int]bool)
	}
	for c := 0; c < n; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			r := m.RowIdx[k]
			if r != c {
				adj[r][c] = true
				adj[c][r] = true
			}
		}
	}

	remaining := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		remaining[i] = true
	}

	order := make(Ordering, 0, n)
	for len(remaining) > 0 {
		best, bestDeg := -1, -1
		for v := range remaining {
			deg := len(adj[v])
			if bestDeg == -1 || deg < bestDeg {
				best, bestDeg = v, deg
			}
		}
		order = append(order, best)
		delete(remaining, best)
		neighbors := adj[best]
		for u := range neighbors {
			delete(adj[u], best)
			for w := range neighbors {
				if w != u {
					adj[u][w] = true
				}
			}
		}
	}
	return order, nil
}

// Permute returns a new CSCMatrix with rows and columns permuted by order:
// result[i,j] = m[order[i], order[j]].
func (m *CSCMatrix) Permute(order Ordering) *CSCMatrix {
	inv := make([]int, len(order))
	for i, v := range order {
		inv[v] = i
	}
	t := NewTriplets(m.Rows, m.Cols)
	for c := 0; c < m.Cols; c++ {
		for k := m.ColPtr[c]; k < m.ColPtr[c+1]; k++ {
			t.Put(inv[m.RowIdx[k]], inv[c], m.Data[k])
		}
	}
	return t.Compact()
}
