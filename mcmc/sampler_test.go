// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcmc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aclements/go-mcmc/ess"
	"github.com/aclements/go-mcmc/mcmc"
)

// stdNormal is the log density of a product of independent standard
// normals, up to the normalizing constant.
func stdNormal(x []float64) float64 {
	ll := 0.0
	for _, v := range x {
		ll -= v * v / 2
	}
	return ll
}

func TestSamplerValidation(t *testing.T) {
	base := func() *mcmc.Sampler {
		return &mcmc.Sampler{
			Target:     stdNormal,
			Init:       [][]float64{{1}, {-1}},
			Iterations: 10,
			Src:        rand.NewSource(1),
		}
	}

	s := base()
	s.Target = nil
	_, err := s.Run()
	assert.ErrorIs(t, err, mcmc.ErrNoTarget)

	s = base()
	s.Init = nil
	_, err = s.Run()
	assert.ErrorIs(t, err, mcmc.ErrNoChains)

	s = base()
	s.Init = [][]float64{{1, 2}, {3}}
	_, err = s.Run()
	assert.ErrorIs(t, err, mcmc.ErrDimMismatch)

	s = base()
	s.Iterations = 1
	_, err = s.Run()
	assert.ErrorIs(t, err, mcmc.ErrIterations)
}

func TestSamplerShape(t *testing.T) {
	s := &mcmc.Sampler{
		Target:     stdNormal,
		Init:       [][]float64{{2.5, 2.5}, {2.5, -2.5}, {-2.5, 2.5}, {-2.5, -2.5}},
		Iterations: 200,
		Src:        rand.NewSource(7),
	}
	tr, err := s.Run()
	require.NoError(t, err)

	require.Len(t, tr.Params, 2)
	assert.Equal(t, 4, tr.Chains())
	for _, p := range tr.Params {
		m, n := p.Dims()
		assert.Equal(t, 4, m)
		assert.Equal(t, 200, n)
	}

	// The first column must hold the starting points untouched.
	for j, init := range s.Init {
		for k := range init {
			assert.Equal(t, init[k], tr.Params[k].At(j, 0))
		}
	}

	for j := 0; j < tr.Chains(); j++ {
		rate := tr.AcceptanceRate(j)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 1.0)
	}
}

func TestSamplerReproducible(t *testing.T) {
	run := func() *mcmc.Trace {
		s := &mcmc.Sampler{
			Target:     stdNormal,
			Init:       [][]float64{{1, 0}, {-1, 0}},
			Iterations: 100,
			Src:        rand.NewSource(99),
		}
		tr, err := s.Run()
		require.NoError(t, err)
		return tr
	}
	a, b := run(), run()
	for k := range a.Params {
		assert.Equal(t, a.Params[k].RawMatrix().Data, b.Params[k].RawMatrix().Data)
	}
	assert.Equal(t, a.Accepted, b.Accepted)
}

func TestSamplerStdNormalMoments(t *testing.T) {
	s := &mcmc.Sampler{
		Target:     stdNormal,
		Init:       [][]float64{{2.5}, {-2.5}, {1}, {-1}},
		Iterations: 4000,
		Src:        rand.NewSource(5),
	}
	tr, err := s.Run()
	require.NoError(t, err)

	// Pool the post-burn-in halves of all chains; the sample mean
	// and variance should be near 0 and 1.
	var pooled []float64
	m, n := tr.Params[0].Dims()
	for j := 0; j < m; j++ {
		pooled = append(pooled, tr.Params[0].RawRowView(j)[n/2:]...)
	}
	mean, variance := stat.MeanVariance(pooled, nil)
	assert.InDelta(t, 0, mean, 0.25)
	assert.InDelta(t, 1, variance, 0.35)

	// Metropolis steps repeat states, so the chains must show
	// autocorrelation: the ESS has to be well below the raw count.
	e, err := ess.ESS(tr.Params[0])
	require.NoError(t, err)
	assert.Less(t, e, m*n)
	assert.Greater(t, e, 0)
}

func TestSamplerBadCovariance(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{1, 2, 2, 1}) // not positive definite
	s := &mcmc.Sampler{
		Target:     stdNormal,
		Init:       [][]float64{{0, 0}, {1, 1}},
		Iterations: 10,
		Cov:        cov,
		Src:        rand.NewSource(1),
	}
	_, err := s.Run()
	assert.ErrorIs(t, err, mcmc.ErrCovariance)
}

func TestSamplerNeverAccepts(t *testing.T) {
	// A target that is -inf everywhere except the start keeps the
	// chains frozen at their starting points.
	frozen := func(x []float64) float64 {
		if x[0] == 2 || x[0] == -2 {
			return 0
		}
		return math.Inf(-1)
	}
	s := &mcmc.Sampler{
		Target:     frozen,
		Init:       [][]float64{{2}, {-2}},
		Iterations: 50,
		Src:        rand.NewSource(3),
	}
	tr, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, tr.Accepted)
	for j := 0; j < 2; j++ {
		row := tr.Params[0].RawRowView(j)
		for _, v := range row {
			assert.Equal(t, row[0], v)
		}
	}
}
