// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ess

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func aeq(expect, got float64) bool {
	return math.Abs(expect-got) < 0.00001
}

// releq reports whether got is within relative tolerance tol of
// expect.
func releq(expect, got, tol float64) bool {
	if expect == got {
		return true
	}
	den := math.Max(math.Abs(expect), math.Abs(got))
	return math.Abs(expect-got)/den < tol
}

// normChains returns an (m × n) chain matrix of i.i.d. standard
// normal draws.
func normChains(m, n int, seed uint64) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	x := mat.NewDense(m, n, nil)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			x.Set(j, i, norm.Rand())
		}
	}
	return x
}

// arChains returns an (m × n) chain matrix where each chain is an
// AR(1) process x[i] = phi·x[i-1] + e[i] with standard normal
// innovations. phi near 1 gives strongly autocorrelated chains.
func arChains(m, n int, phi float64, seed uint64) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	x := mat.NewDense(m, n, nil)
	for j := 0; j < m; j++ {
		cur := norm.Rand()
		x.Set(j, 0, cur)
		for i := 1; i < n; i++ {
			cur = phi*cur + norm.Rand()
			x.Set(j, i, cur)
		}
	}
	return x
}

// walkChains returns an (m × n) chain matrix where each chain is a
// random walk (cumulative sum of standard normal innovations).
func walkChains(m, n int, seed uint64) *mat.Dense {
	return arChains(m, n, 1, seed)
}
