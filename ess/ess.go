// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ess

import (
	"gonum.org/v1/gonum/mat"
)

// An Estimator computes effective sample sizes from a chain matrix of
// shape (m chains × n iterations).
//
// Its two implementations, Loop and Vectorized, are numerically
// equivalent and differ only in evaluation strategy. Loop is the
// plainly-written reference; Vectorized trades it for whole-matrix
// operations and is the one to use on long chains (both are O(m·n²)
// in the worst case, but the constant factor differs considerably).
type Estimator interface {
	// PosteriorVariance returns the pooled (within- plus
	// between-chain) estimate of the marginal posterior variance
	// of the estimand in x.
	//
	// This can fail with ErrChainCount or ErrChainLength if x has
	// fewer than two rows or columns.
	PosteriorVariance(x mat.Matrix) (float64, error)

	// Estimate returns the full effective-sample-size diagnostic
	// for the estimand in x.
	//
	// This can fail with ErrChainCount or ErrChainLength if x has
	// fewer than two rows or columns, or with ErrChainsEqual if
	// every element of x is identical.
	Estimate(x mat.Matrix) (*ESSResult, error)
}

var (
	// Loop is the reference Estimator. It evaluates the variogram
	// with explicit nested loops over matrix elements.
	Loop Estimator = loopEstimator{}

	// Vectorized is the optimized Estimator. It evaluates the
	// variogram on whole sub-matrix slices.
	Vectorized Estimator = vecEstimator{}
)

type loopEstimator struct{}

type vecEstimator struct{}

// DenomFloor is the smallest value allowed for the denominator
// 1 + 2·Σρ of the effective-sample-size formula.
//
// When the autocorrelation scan terminates with a strongly negative
// sum, the raw denominator can reach zero or below, which would
// produce a meaningless negative or unbounded ESS. Denominators below
// this floor are clamped to it and the clamp is reported in
// ESSResult.Clamped.
var DenomFloor = 1e-8

// An ESSResult is the detailed outcome of an effective-sample-size
// estimate.
type ESSResult struct {
	// N is the raw number of draws, m·n.
	N int

	// ESS is the effective sample size: the integer-truncated
	// value of N divided by the (clamped) autocorrelation
	// denominator, capped at N.
	ESS int

	// PostVar is the pooled Gelman-Rubin estimate of the marginal
	// posterior variance used to normalize the variogram.
	PostVar float64

	// TStop is the lag at which the autocorrelation scan stopped.
	// The scan visits lags 1..TStop-1; Rho[TStop:] is untouched.
	// When the scan runs off the end of the chain without the
	// paired autocorrelations turning negative, TStop == n.
	TStop int

	// Rho holds the lag autocorrelation estimates,
	// Rho[t] = 1 - variogram(t)/(2·PostVar). Rho has length n.
	// Rho[0] is 1 by convention and is excluded from the ESS sum,
	// as are the unvisited entries Rho[TStop:], which remain 1.
	Rho []float64

	// Denom is the raw denominator 1 + 2·Σ Rho[1:TStop] before
	// any clamping.
	Denom float64

	// Clamped reports whether Denom fell below DenomFloor and was
	// clamped when computing ESS.
	Clamped bool
}

// ESS returns the effective sample size of the estimand in x using
// the Vectorized estimator.
//
// This can fail with ErrChainCount, ErrChainLength or ErrChainsEqual.
func ESS(x mat.Matrix) (int, error) {
	r, err := Vectorized.Estimate(x)
	if err != nil {
		return 0, err
	}
	return r.ESS, nil
}

// Estimate implements Estimator using nested element loops for the
// variogram.
func (e loopEstimator) Estimate(x mat.Matrix) (*ESSResult, error) {
	m, n := x.Dims()
	postVar, err := e.PosteriorVariance(x)
	if err != nil {
		return nil, err
	}
	variogram := func(t int) float64 {
		sum := 0.0
		for j := 0; j < m; j++ {
			for i := t; i < n; i++ {
				d := x.At(j, i) - x.At(j, i-t)
				sum += d * d
			}
		}
		return sum / float64(m*(n-t))
	}
	return scanRho(m, n, postVar, variogram)
}

// Estimate implements Estimator using sub-matrix slices for the
// variogram.
func (e vecEstimator) Estimate(x mat.Matrix) (*ESSResult, error) {
	m, n := x.Dims()
	postVar, err := e.PosteriorVariance(x)
	if err != nil {
		return nil, err
	}
	d := mat.DenseCopyOf(x)
	var diff mat.Dense
	variogram := func(t int) float64 {
		diff.Sub(d.Slice(0, m, t, n), d.Slice(0, m, 0, n-t))
		fro := mat.Norm(&diff, 2)
		return fro * fro / float64(m*(n-t))
	}
	return scanRho(m, n, postVar, variogram)
}

// scanRho runs the autocorrelation scan shared by both estimators and
// assembles the result.
//
// Lag autocorrelations are estimated from the variogram as
// rho[t] = 1 - variogram(t)/(2·postVar). The scan walks t = 1, 2, ...
// and stops after the first even lag t at which rho[t-1]+rho[t] < 0:
// pairing an odd lag with the following even lag smooths the odd/even
// oscillation of the estimates, so the scan does not stop on a single
// noisy negative value. The terminating pair itself is kept in the
// sum. If no pair turns negative the scan exhausts lags 1..n-1.
func scanRho(m, n int, postVar float64, variogram func(t int) float64) (*ESSResult, error) {
	if postVar == 0 {
		return nil, ErrChainsEqual
	}

	rho := make([]float64, n)
	for i := range rho {
		rho[i] = 1
	}

	t := 1
	negative := false
	for !negative && t < n {
		rho[t] = 1 - variogram(t)/(2*postVar)
		if t%2 == 0 {
			negative = rho[t-1]+rho[t] < 0
		}
		t++
	}

	sum := 0.0
	for _, r := range rho[1:t] {
		sum += r
	}

	res := &ESSResult{
		N:       m * n,
		PostVar: postVar,
		TStop:   t,
		Rho:     rho,
		Denom:   1 + 2*sum,
	}
	denom := res.Denom
	if denom < DenomFloor {
		denom = DenomFloor
		res.Clamped = true
	}
	res.ESS = int(float64(res.N) / denom)
	if res.ESS > res.N {
		// A denominator below 1 (net negative autocorrelation)
		// would claim more effective draws than raw draws.
		res.ESS = res.N
	}
	return res, nil
}
