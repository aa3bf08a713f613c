// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lu

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestDecomposeSingular(t *testing.T) {
	// spec.md §8: A = ((1,2),(2,4)) triggers SingularMatrix on the second
	// pivot.
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	_, err := Decompose(a)
	if err == nil {
		t.Fatal("Decompose: expected SingularMatrixError, got nil")
	}
	singular, ok := err.(*SingularMatrixError)
	if !ok {
		t.Fatalf("Decompose: expected *SingularMatrixError, got %T: %v", err, err)
	}
	if singular.Step != 1 {
		t.Errorf("Decompose: expected zero pivot at step 1, got step %d", singular.Step)
	}
}

func TestDecomposeIdentity(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	res, err := Decompose(a)
	if err != nil {
		t.Fatalf("Decompose: unexpected error: %v", err)
	}
	for i, v := range res.RowPerm {
		if v != i {
			t.Errorf("RowPerm[%d] = %d, want %d", i, v, i)
		}
	}
	for j, v := range res.ColPerm {
		if v != j {
			t.Errorf("ColPerm[%d] = %d, want %d", j, v, j)
		}
	}
}

func TestDecomposeInvertPermutationRoundTrip(t *testing.T) {
	p := []int{3, 1, 4, 0, 2}
	got := invert(invert(p))
	for i := range p {
		if got[i] != p[i] {
			t.Fatalf("invert(invert(p)) = %v, want %v", got, p)
		}
	}
}

// splitLU reconstructs L (unit lower triangular) and U (upper triangular)
// out of the packed LU factor.
func splitLU(luFactor *mat.Dense) (l, u *mat.Dense) {
	m, n := luFactor.Dims()
	k := m
	if n < k {
		k = n
	}
	l = mat.NewDense(m, k, nil)
	u = mat.NewDense(k, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			switch {
			case i == j:
				l.Set(i, j, 1)
			case i > j:
				l.Set(i, j, luFactor.At(i, j))
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			if j >= i {
				u.Set(i, j, luFactor.At(i, j))
			}
		}
	}
	return l, u
}

// permutationMatrix builds the matrix that moves row i to row perm[i].
func permutationMatrix(perm []int) *mat.Dense {
	n := len(perm)
	p := mat.NewDense(n, n, nil)
	for i, v := range perm {
		p.Set(v, i, 1)
	}
	return p
}

func TestDecomposeRandomFullRank(t *testing.T) {
	// spec.md §8 scenario 6: random 20x15 full-rank matrix.
	rnd := rand.New(rand.NewSource(1))
	const m, n = 20, 15
	data := make([]float64, m*n)
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	a := mat.NewDense(m, n, data)

	res, err := Decompose(a)
	if err != nil {
		t.Fatalf("Decompose: unexpected error: %v", err)
	}

	l, u := splitLU(res.LU)
	lr, lc := l.Dims()
	for i := 0; i < lr; i++ {
		for j := 0; j < lc; j++ {
			if v := math.Abs(l.At(i, j)); v > 1+1e-12 {
				t.Fatalf("L[%d,%d] = %g, want |L| <= 1 (complete pivoting)", i, j, l.At(i, j))
			}
		}
	}

	p := permutationMatrix(res.RowPerm)
	q := permutationMatrix(res.ColPerm)

	var pa, paq, luProd mat.Dense
	pa.Mul(p, a)
	paq.Mul(&pa, q.T())
	luProd.Mul(l, u)

	var diff mat.Dense
	diff.Sub(&paq, &luProd)
	residual := mat.Norm(&diff, 2)
	normA := mat.Norm(a, 2)
	const eps = 2.220446049250313e-16
	if residual > 100*eps*normA {
		t.Errorf("||P A Q^T - L U||_2 = %g, want <= ~%g", residual, 100*eps*normA)
	}
}

func TestDecomposeZeroColumn(t *testing.T) {
	// A problem with a zero column must not panic; complete pivoting will
	// push the zero column to the end and report singularity only once
	// the trailing submatrix is entirely zero.
	a := mat.NewDense(2, 2, []float64{0, 1, 0, 2})
	_, err := Decompose(a)
	if err == nil {
		t.Fatal("Decompose: expected SingularMatrixError for a rank-deficient 2x2 with a zero column")
	}
}
