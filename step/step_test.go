// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package step

import (
	"math"
	"testing"
)

func TestAffineStepLengthsForceSame(t *testing.T) {
	x := []float64{1, 1}
	dx := []float64{-2, -0.5}
	z := []float64{1, 1}
	dz := []float64{-0.25, -4}

	pri, dual := AffineStepLengths(x, dx, z, dz, false)
	if math.Abs(pri-0.5) > 1e-12 {
		t.Errorf("alphaPriAff = %g, want 0.5", pri)
	}
	if math.Abs(dual-0.25) > 1e-12 {
		t.Errorf("alphaDualAff = %g, want 0.25", dual)
	}

	priSame, dualSame := AffineStepLengths(x, dx, z, dz, true)
	if priSame != dualSame {
		t.Errorf("forceSameStep: alphaPriAff %g != alphaDualAff %g", priSame, dualSame)
	}
	if math.Abs(priSame-0.25) > 1e-12 {
		t.Errorf("forceSameStep min = %g, want 0.25", priSame)
	}
}

func TestSigmaClippedToUnitInterval(t *testing.T) {
	if s := Sigma(MehrotraRule, 1.0, 10.0, 1, 1); s != 1 {
		t.Errorf("Sigma(Mehrotra) with muAff > mu = %g, want clipped to 1", s)
	}
	if s := Sigma(MehrotraRule, 1.0, 0.0, 1, 1); s != 0 {
		t.Errorf("Sigma(Mehrotra) with muAff = 0 = %g, want 0", s)
	}
}

func TestCombinedRmuCrossTerm(t *testing.T) {
	base := []float64{1, 2}
	dxAff := []float64{0.1, 0.2}
	dzAff := []float64{0.3, 0.4}

	withoutCross := CombinedRmu(base, 0.5, 2.0, dxAff, dzAff, false)
	if withoutCross[0] != 1-1.0 {
		t.Errorf("CombinedRmu[0] without cross term = %g, want %g", withoutCross[0], 1-1.0)
	}

	withCross := CombinedRmu(base, 0.5, 2.0, dxAff, dzAff, true)
	want0 := 1 - 1.0 + 0.1*0.3
	if math.Abs(withCross[0]-want0) > 1e-12 {
		t.Errorf("CombinedRmu[0] with cross term = %g, want %g", withCross[0], want0)
	}
}

func TestStepLengthsRespectsMaxStepRatio(t *testing.T) {
	x := []float64{1}
	dx := []float64{-1} // step-to-boundary exactly 1
	z := []float64{1}
	dz := []float64{0}

	pri, _ := StepLengths(x, dx, z, dz, 0.99, false)
	if math.Abs(pri-0.99) > 1e-12 {
		t.Errorf("alphaPri = %g, want 0.99", pri)
	}
}

func TestAdvanceUpdatesInPlace(t *testing.T) {
	x := []float64{1, 1}
	y := []float64{0}
	z := []float64{1, 1}
	dx := []float64{0.5, -0.5}
	dy := []float64{1}
	dz := []float64{-0.25, 0.25}

	Advance(x, y, z, dx, dy, dz, 0.5, 0.25)

	wantX := []float64{1.25, 0.75}
	wantY := []float64{0.25}
	wantZ := []float64{0.9375, 1.0625}
	for i := range x {
		if math.Abs(x[i]-wantX[i]) > 1e-12 {
			t.Errorf("x[%d] = %g, want %g", i, x[i], wantX[i])
		}
	}
	for i := range y {
		if math.Abs(y[i]-wantY[i]) > 1e-12 {
			t.Errorf("y[%d] = %g, want %g", i, y[i], wantY[i])
		}
	}
	for i := range z {
		if math.Abs(z[i]-wantZ[i]) > 1e-12 {
			t.Errorf("z[%d] = %g, want %g", i, z[i], wantZ[i])
		}
	}
}
