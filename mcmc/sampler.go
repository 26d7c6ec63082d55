// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mcmc implements a random-walk Metropolis-Hastings sampler.
//
// The sampler draws from an unnormalized target density by proposing
// multivariate-normal innovations around the current state and
// accepting each proposal with probability min(1, exp(ll' - ll)).
// Several independent chains are run from distinct starting points so
// the output can be fed to convergence diagnostics such as package
// ess.
package mcmc // import "github.com/aclements/go-mcmc/mcmc"

import (
	"errors"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

var (
	// ErrNoTarget is returned by Run when no target density is set.
	ErrNoTarget = errors.New("no target density")

	// ErrNoChains is returned by Run when Init is empty or its
	// points have dimension zero.
	ErrNoChains = errors.New("no chain starting points")

	// ErrDimMismatch is returned by Run when the starting points
	// do not all have the same dimension.
	ErrDimMismatch = errors.New("starting points have mixed dimensions")

	// ErrIterations is returned by Run when Iterations is less
	// than two. The initial state occupies the first iteration, so
	// at least one proposal step is required.
	ErrIterations = errors.New("need at least two iterations")

	// ErrCovariance is returned by Run when the proposal
	// covariance has no Cholesky factorization.
	ErrCovariance = errors.New("proposal covariance is not positive definite")
)

// A LogTarget is the logarithm of an unnormalized target density.
type LogTarget func(x []float64) float64

// A Sampler holds the configuration of a random-walk
// Metropolis-Hastings run.
type Sampler struct {
	// Target is the log target density to sample from.
	Target LogTarget

	// Init gives the starting point of each chain. len(Init) is
	// the number of chains; every point must have the same
	// dimension. Starting chains from dispersed points makes
	// between-chain convergence diagnostics meaningful.
	Init [][]float64

	// Iterations is the total number of states recorded per
	// chain, including the starting point.
	Iterations int

	// Cov is the covariance of the multivariate-normal proposal
	// innovation. If nil, the identity is used.
	Cov *mat.SymDense

	// Src is the source of randomness. If nil, a time-seeded
	// source is used. Each chain derives its own independent
	// stream from this source, so a fixed Src makes the whole run
	// reproducible.
	Src rand.Source
}

// A Trace is the recorded output of a sampling run.
type Trace struct {
	// Params[k] is the (chains × iterations) matrix of draws of
	// parameter k, one chain per row. This is the shape consumed
	// by package ess.
	Params []*mat.Dense

	// Accepted[j] is the number of accepted proposals in chain j,
	// out of Iterations-1 proposals.
	Accepted []int

	// Iterations is the number of states recorded per chain.
	Iterations int
}

// Chains returns the number of chains in the trace.
func (tr *Trace) Chains() int { return len(tr.Accepted) }

// AcceptanceRate returns the fraction of proposals chain j accepted.
func (tr *Trace) AcceptanceRate(j int) float64 {
	return float64(tr.Accepted[j]) / float64(tr.Iterations-1)
}

// Run executes the sampler and returns the recorded trace.
func (s *Sampler) Run() (*Trace, error) {
	if s.Target == nil {
		return nil, ErrNoTarget
	}
	if len(s.Init) == 0 {
		return nil, ErrNoChains
	}
	dim := len(s.Init[0])
	for _, p := range s.Init {
		if len(p) != dim {
			return nil, ErrDimMismatch
		}
	}
	if dim == 0 {
		return nil, ErrNoChains
	}
	if s.Iterations < 2 {
		return nil, ErrIterations
	}

	cov := s.Cov
	if cov == nil {
		cov = mat.NewSymDense(dim, nil)
		for i := 0; i < dim; i++ {
			cov.SetSym(i, i, 1)
		}
	}

	src := s.Src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	seeder := rand.New(src)

	m, n := len(s.Init), s.Iterations
	tr := &Trace{
		Params:     make([]*mat.Dense, dim),
		Accepted:   make([]int, m),
		Iterations: n,
	}
	for k := range tr.Params {
		tr.Params[k] = mat.NewDense(m, n, nil)
	}

	zero := make([]float64, dim)
	for j := 0; j < m; j++ {
		chainSrc := rand.NewSource(seeder.Uint64())
		prop, ok := distmv.NewNormal(zero, cov, chainSrc)
		if !ok {
			return nil, ErrCovariance
		}
		uni := rand.New(rand.NewSource(seeder.Uint64()))

		cur := append([]float64(nil), s.Init[j]...)
		ll := s.Target(cur)
		for k := range cur {
			tr.Params[k].Set(j, 0, cur[k])
		}

		step := make([]float64, dim)
		cand := make([]float64, dim)
		for i := 1; i < n; i++ {
			prop.Rand(step)
			floats.AddTo(cand, cur, step)
			llCand := s.Target(cand)

			// Accept when the log density ratio beats a
			// uniform draw.
			if llCand-ll > math.Log(uni.Float64()) {
				copy(cur, cand)
				ll = llCand
				tr.Accepted[j]++
			}
			for k := range cur {
				tr.Params[k].Set(j, i, cur[k])
			}
		}
	}
	return tr, nil
}
