// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ess

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPosteriorVariance(t *testing.T) {
	// m=2, n=3: chain means 2 and 4, grand mean 3.
	// B/n = ((2-3)² + (4-3)²)/1 = 2
	// W = (1+0+1 + 4+0+4)/(2·2) = 2.5
	// s2 = 2.5·(2/3) + 2 = 11/3
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		2, 4, 6,
	})
	for _, est := range []Estimator{Loop, Vectorized} {
		s2, err := est.PosteriorVariance(x)
		if err != nil {
			t.Fatalf("PosteriorVariance: %v", err)
		}
		if want := 11.0 / 3.0; !aeq(want, s2) {
			t.Errorf("want s2 %v, got %v", want, s2)
		}
	}
}

func TestPosteriorVarianceErrors(t *testing.T) {
	check := func(x mat.Matrix, want error) {
		t.Helper()
		for _, est := range []Estimator{Loop, Vectorized} {
			if _, err := est.PosteriorVariance(x); !errors.Is(err, want) {
				t.Errorf("want %v, got %v", want, err)
			}
			if _, err := est.Estimate(x); !errors.Is(err, want) {
				t.Errorf("Estimate: want %v, got %v", want, err)
			}
		}
	}
	check(mat.NewDense(1, 5, nil), ErrChainCount)
	check(mat.NewDense(3, 1, nil), ErrChainLength)
}

func TestPosteriorVarianceParity(t *testing.T) {
	shapes := [][2]int{{2, 2}, {2, 17}, {3, 8}, {5, 64}, {4, 301}}
	for _, sh := range shapes {
		m, n := sh[0], sh[1]
		x := normChains(m, n, uint64(100*m+n))
		sLoop, err := Loop.PosteriorVariance(x)
		if err != nil {
			t.Fatalf("(%d,%d) Loop: %v", m, n, err)
		}
		sVec, err := Vectorized.PosteriorVariance(x)
		if err != nil {
			t.Fatalf("(%d,%d) Vectorized: %v", m, n, err)
		}
		if !releq(sLoop, sVec, 1e-9) {
			t.Errorf("(%d,%d): Loop %v and Vectorized %v disagree", m, n, sLoop, sVec)
		}
		if sLoop < 0 {
			t.Errorf("(%d,%d): negative posterior variance %v", m, n, sLoop)
		}
	}
}

func TestPosteriorVarianceShift(t *testing.T) {
	x := arChains(4, 200, 0.7, 7)
	var shifted mat.Dense
	shifted.Apply(func(_, _ int, v float64) float64 { return v + 1234.5 }, x)

	for _, est := range []Estimator{Loop, Vectorized} {
		s2, err := est.PosteriorVariance(x)
		if err != nil {
			t.Fatal(err)
		}
		s2s, err := est.PosteriorVariance(&shifted)
		if err != nil {
			t.Fatal(err)
		}
		if !releq(s2, s2s, 1e-8) {
			t.Errorf("shift changed posterior variance: %v vs %v", s2, s2s)
		}
	}
}
