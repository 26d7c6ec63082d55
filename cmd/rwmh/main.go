// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rwmh samples a toy two-parameter posterior with random-walk
// Metropolis-Hastings, reports per-chain acceptance rates and the
// effective sample size of each parameter under both ESS estimators
// (with wall-clock timing, so the two can be compared), and writes
// walk and trace figures.
//
// The posterior is that of the mean of a standard normal given the
// observations (0, 0), one observation per coordinate. Chains start
// dispersed at (±2.5, ±2.5).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gopkg.in/yaml.v3"

	"github.com/aclements/go-mcmc/ess"
	"github.com/aclements/go-mcmc/mcmc"
)

type config struct {
	Chains     int     `yaml:"chains"`
	Iterations int     `yaml:"iterations"`
	Seed       uint64  `yaml:"seed"`
	Step       float64 `yaml:"step"`
	OutDir     string  `yaml:"outdir"`
}

func defaultConfig() config {
	return config{
		Chains:     4,
		Iterations: 10000,
		Seed:       0,
		Step:       1,
		OutDir:     ".",
	}
}

var (
	configPath = flag.String("config", "", "YAML config `file`; flags override its values")
	chains     = flag.Int("chains", 4, "number of chains")
	iters      = flag.Int("iters", 10000, "iterations per chain")
	seed       = flag.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	step       = flag.Float64("step", 1, "proposal standard deviation")
	outDir     = flag.String("o", ".", "output `directory` for figures")
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
		slog.Error("rwmh failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (config, error) {
	cfg := defaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", *configPath, err)
		}
	}
	// Explicitly set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chains":
			cfg.Chains = *chains
		case "iters":
			cfg.Iterations = *iters
		case "seed":
			cfg.Seed = *seed
		case "step":
			cfg.Step = *step
		case "o":
			cfg.OutDir = *outDir
		}
	})
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Observed data, one point per coordinate of μ.
	data := []float64{0, 0}
	target := func(mu []float64) float64 {
		ll := 0.0
		for k, d := range data {
			ll += distuv.Normal{Mu: mu[k], Sigma: 1}.LogProb(d)
		}
		return ll
	}

	init := make([][]float64, cfg.Chains)
	for j := range init {
		x, y := 2.5, 2.5
		if j&1 != 0 {
			y = -y
		}
		if j&2 != 0 {
			x = -x
		}
		init[j] = []float64{x, y}
	}

	cov := mat.NewSymDense(2, nil)
	for i := 0; i < 2; i++ {
		cov.SetSym(i, i, cfg.Step*cfg.Step)
	}

	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewSource(cfg.Seed)
	}

	s := &mcmc.Sampler{
		Target:     target,
		Init:       init,
		Iterations: cfg.Iterations,
		Cov:        cov,
		Src:        src,
	}
	slog.Info("sampling", "chains", cfg.Chains, "iterations", cfg.Iterations, "step", cfg.Step)
	start := time.Now()
	tr, err := s.Run()
	if err != nil {
		return err
	}
	slog.Info("sampling done", "elapsed", time.Since(start))

	for j := 0; j < tr.Chains(); j++ {
		slog.Info("acceptance rate",
			"chain", j,
			"rate", fmt.Sprintf("%.2f%%", 100*tr.AcceptanceRate(j)))
	}

	estimators := []struct {
		name string
		est  ess.Estimator
	}{
		{"loop", ess.Loop},
		{"vectorized", ess.Vectorized},
	}
	for k := range tr.Params {
		for _, e := range estimators {
			start := time.Now()
			r, err := e.est.Estimate(tr.Params[k])
			if err != nil {
				return fmt.Errorf("ess of μ%d: %w", k+1, err)
			}
			slog.Info("effective sample size",
				"param", fmt.Sprintf("μ%d", k+1),
				"estimator", e.name,
				"ess", r.ESS,
				"draws", r.N,
				"tstop", r.TStop,
				"elapsed", time.Since(start))
		}
	}

	if err := walkPlot(tr, filepath.Join(cfg.OutDir, "walk.png")); err != nil {
		return err
	}
	if err := tracePlot(tr, filepath.Join(cfg.OutDir, "trace.png")); err != nil {
		return err
	}
	slog.Info("figures written", "dir", cfg.OutDir)
	return nil
}

// walkPlot draws every chain's path through the (μ1, μ2) plane.
func walkPlot(tr *mcmc.Trace, path string) error {
	p := plot.New()
	p.X.Label.Text = "μ1"
	p.Y.Label.Text = "μ2"
	for j := 0; j < tr.Chains(); j++ {
		xs := tr.Params[0].RawRowView(j)
		ys := tr.Params[1].RawRowView(j)
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
		}
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		ln.Color = plotutil.Color(j)
		p.Add(ln)
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// tracePlot draws each parameter's per-iteration trace, one panel per
// parameter, all chains overlaid.
func tracePlot(tr *mcmc.Trace, path string) error {
	plots := [][]*plot.Plot{make([]*plot.Plot, len(tr.Params))}
	for k := range tr.Params {
		p := plot.New()
		p.X.Label.Text = "Iteration"
		p.Y.Label.Text = fmt.Sprintf("μ%d", k+1)
		for j := 0; j < tr.Chains(); j++ {
			row := tr.Params[k].RawRowView(j)
			pts := make(plotter.XYs, len(row))
			for i, v := range row {
				pts[i] = plotter.XY{X: float64(i), Y: v}
			}
			ln, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			ln.Color = plotutil.Color(j)
			p.Add(ln)
		}
		plots[0][k] = p
	}

	img := vgimg.New(10*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(tr.Params),
		PadX: 5 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for k := range plots[0] {
		plots[0][k].Draw(canvases[0][k])
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
