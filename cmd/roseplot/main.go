// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// roseplot draws example rose plots (polar histograms) of angular
// data in both tick conventions.
//
// It samples two sets of directions, one concentrated (standard
// normal angles) and one uniform on (-π, π), and writes a
// side-by-side figure per convention: polar_radians.png and
// polar_degrees.png.
package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/aclements/go-mcmc/rose"
)

var (
	seed   = flag.Uint64("seed", 1, "random seed")
	nNorm  = flag.Int("nnorm", 10000, "number of normal-direction samples")
	nUnif  = flag.Int("nunif", 100, "number of uniform-direction samples")
	bins   = flag.Int("bins", 16, "number of angular bins")
	outDir = flag.String("o", ".", "output `directory` for figures")
)

func main() {
	flag.Parse()
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
	if err := run(); err != nil {
		slog.Error("roseplot failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	src := rand.NewSource(*seed)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	unif := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src}

	concentrated := make([]float64, *nNorm)
	for i := range concentrated {
		concentrated[i] = norm.Rand()
	}
	uniform := make([]float64, *nUnif)
	for i := range uniform {
		uniform[i] = unif.Rand()
	}

	for _, fig := range []struct {
		conv rose.Convention
		name string
	}{
		{rose.Radians, "polar_radians.png"},
		{rose.Degrees, "polar_degrees.png"},
	} {
		path := filepath.Join(*outDir, fig.name)
		if err := writePair(fig.conv, concentrated, uniform, path); err != nil {
			return err
		}
		slog.Info("figure written", "path", path)
	}
	return nil
}

// writePair renders the two angle samples side by side on square
// panels and writes the figure to path.
func writePair(conv rose.Convention, left, right []float64, path string) error {
	r := rose.Rose{Bins: *bins, Convention: conv}
	plots := [][]*plot.Plot{make([]*plot.Plot, 2)}
	for i, angles := range [][]float64{left, right} {
		p := plot.New()
		if err := r.Plot(p, angles); err != nil {
			return err
		}
		plots[0][i] = p
	}

	img := vgimg.New(8*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: 5 * vg.Millimeter}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots[0] {
		plots[0][i].Draw(canvases[0][i])
	}

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
