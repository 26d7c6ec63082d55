// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ess

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrChainCount is returned when the chain matrix has fewer
	// than two chains (rows). The between-chain variance is an
	// unbiased sample variance of the chain means and is undefined
	// for a single chain.
	ErrChainCount = errors.New("need at least two chains")

	// ErrChainLength is returned when the chains have fewer than
	// two iterations (columns). The within-chain variance is
	// undefined for length-1 chains.
	ErrChainLength = errors.New("need at least two iterations per chain")

	// ErrChainsEqual is returned when every draw in the chain
	// matrix is identical. The posterior variance estimate is then
	// zero and autocorrelation is meaningless.
	ErrChainsEqual = errors.New("all draws are equal")
)

// checkChains validates the shape of an (m chains × n iterations)
// chain matrix.
func checkChains(m, n int) error {
	if m < 2 {
		return ErrChainCount
	}
	if n < 2 {
		return ErrChainLength
	}
	return nil
}

// PosteriorVariance returns the Gelman-Rubin pooled estimate of the
// marginal posterior variance of the estimand in x, evaluated with
// explicit element loops.
func (loopEstimator) PosteriorVariance(x mat.Matrix) (float64, error) {
	m, n := x.Dims()
	if err := checkChains(m, n); err != nil {
		return 0, err
	}

	// Chain means and the grand mean.
	mean := make([]float64, m)
	grand := 0.0
	for j := 0; j < m; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x.At(j, i)
		}
		mean[j] = sum / float64(n)
		grand += sum
	}
	grand /= float64(m * n)

	// Between-chain variance term B/n: unbiased sample variance of
	// the chain means about the grand mean.
	bOverN := 0.0
	for j := 0; j < m; j++ {
		d := mean[j] - grand
		bOverN += d * d
	}
	bOverN /= float64(m - 1)

	// Within-chain variance W: pooled squared deviations of each
	// chain about its own mean.
	w := 0.0
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			d := x.At(j, i) - mean[j]
			w += d * d
		}
	}
	w /= float64(m * (n - 1))

	return w*float64(n-1)/float64(n) + bOverN, nil
}

// PosteriorVariance returns the Gelman-Rubin pooled estimate of the
// marginal posterior variance of the estimand in x, evaluated with
// whole-row operations.
func (vecEstimator) PosteriorVariance(x mat.Matrix) (float64, error) {
	m, n := x.Dims()
	if err := checkChains(m, n); err != nil {
		return 0, err
	}

	c := mat.DenseCopyOf(x)
	mean := make([]float64, m)
	for j := 0; j < m; j++ {
		mean[j] = stat.Mean(c.RawRowView(j), nil)
	}

	// The chains have equal length, so the grand mean is the mean
	// of the chain means and B/n is their sample variance.
	bOverN := stat.Variance(mean, nil)

	// Center each row on its own mean; W is then the squared
	// Frobenius norm of the centered matrix.
	for j := 0; j < m; j++ {
		floats.AddConst(-mean[j], c.RawRowView(j))
	}
	fro := mat.Norm(c, 2)
	w := fro * fro / float64(m*(n-1))

	return w*float64(n-1)/float64(n) + bOverN, nil
}
