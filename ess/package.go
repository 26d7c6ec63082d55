// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ess estimates the effective sample size of MCMC output.
//
// The effective sample size (ESS) of a Markov chain Monte Carlo
// estimand is the number of independent draws that would give an
// estimator the same variance as the autocorrelated chain actually
// produced. It is computed by pooling the within-chain and
// between-chain variance into a (slightly over-) estimate of the
// marginal posterior variance, following Gelman et al., and then
// summing variogram-based autocorrelation estimates until consecutive
// pairs of them turn negative.
//
// Input is a gonum matrix of shape (m, n): m independent chains in
// rows, n iterations of a single scalar estimand in columns. Both m
// and n must be at least 2.
//
// Two interchangeable estimators are provided. Loop evaluates the
// variogram with explicit element loops and serves as the reference;
// Vectorized evaluates it with whole-matrix operations and is
// substantially faster on long chains. The two agree up to
// floating-point rounding.
//
// Gelman, A., Carlin, J. B., Stern, H. S., Dunson, D. B., Vehtari,
// A., Rubin, D. B. (2013) Bayesian Data Analysis, third edition,
// sections 11.4-11.5.
package ess // import "github.com/aclements/go-mcmc/ess"
