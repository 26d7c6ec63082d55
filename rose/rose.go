// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rose draws polar histograms ("rose plots") of angular data.
//
// A rose plot bins angles into equal angular sectors and draws each
// bin as a wedge whose radius encodes how full the bin is. By default
// the radius is chosen so that wedge AREA is proportional to the
// bin's relative frequency; mapping the raw count to the radius
// instead exaggerates differences, because area grows with the square
// of the radius.
package rose // import "github.com/aclements/go-mcmc/rose"

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A Convention selects how angles are oriented and labeled.
type Convention int

const (
	// Radians places 0 at east with angles growing
	// counterclockwise and labels the axes 0, π/2, -π/π, -π/2,
	// the convention of angles wrapped to (-π, π].
	Radians Convention = iota

	// Degrees rotates the plot a quarter turn so 0° sits where
	// compass-style headings expect it, with labels 0°, 90°,
	// 180°, 270°.
	Degrees
)

// A Rose represents options for constructing a rose plot.
//
// The zero value is a reasonable default configuration: 16 equal-area
// bins labeled in radians.
type Rose struct {
	// Bins is the number of angular bins covering [0, 2π). If
	// zero, 16 bins are used.
	Bins int

	// Frequency, if true, maps each bin's raw count directly to
	// its wedge radius. The default maps counts to radii so that
	// wedge area is proportional to relative frequency.
	Frequency bool

	// Convention selects the orientation and axis labels.
	Convention Convention

	// HideTicks suppresses the angular axis labels.
	HideTicks bool

	// Color is the wedge outline color. If nil, a default blue is
	// used.
	Color color.Color
}

// defaultColor matches the matplotlib "C0" cycle color the original
// blog figures use.
var defaultColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// arcSteps is the number of line segments approximating each wedge's
// outer arc.
const arcSteps = 16

func (r Rose) bins() int {
	if r.Bins == 0 {
		return 16
	}
	if r.Bins < 0 {
		panic("rose: negative bin count")
	}
	return r.Bins
}

// wrap maps an angle to [0, 2π), following the sign convention of
// Python's modulo so negative angles land in the upper half of the
// range.
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Hist bins angles into equal sectors of [0, 2π) after wrapping each
// angle mod 2π. NaN angles are ignored.
func (r Rose) Hist(angles []float64) []int {
	bins := r.bins()
	counts := make([]int, bins)
	width := 2 * math.Pi / float64(bins)
	for _, a := range angles {
		if math.IsNaN(a) {
			continue
		}
		i := int(wrap(a) / width)
		if i == bins {
			// Wrapped angles are < 2π, but rounding in the
			// division can still land on the boundary.
			i = bins - 1
		}
		counts[i]++
	}
	return counts
}

// Radii returns the wedge radius of each bin.
//
// In the default (density) mode each bin is assigned area
// count/total and radius sqrt(area/π); in Frequency mode the radius
// is the raw count.
func (r Rose) Radii(angles []float64) []float64 {
	counts := r.Hist(angles)
	total := 0
	for _, c := range counts {
		total += c
	}
	radii := make([]float64, len(counts))
	for i, c := range counts {
		if r.Frequency {
			radii[i] = float64(c)
			continue
		}
		if total == 0 {
			continue
		}
		area := float64(c) / float64(total)
		radii[i] = math.Sqrt(area / math.Pi)
	}
	return radii
}

// Plot draws the rose plot of angles onto p. It hides p's Cartesian
// axes; the caller should render p on a square canvas so the sectors
// keep their aspect ratio.
func (r Rose) Plot(p *plot.Plot, angles []float64) error {
	radii := r.Radii(angles)
	bins := r.bins()
	width := 2 * math.Pi / float64(bins)
	offset := 0.0
	if r.Convention == Degrees {
		offset = math.Pi / 2
	}
	col := r.Color
	if col == nil {
		col = defaultColor
	}

	maxR := 0.0
	for _, rad := range radii {
		maxR = math.Max(maxR, rad)
	}
	if maxR == 0 {
		maxR = 1
	}

	for i, rad := range radii {
		if rad == 0 {
			continue
		}
		ln, err := plotter.NewLine(wedge(float64(i)*width+offset, width, rad))
		if err != nil {
			return fmt.Errorf("rose: %w", err)
		}
		ln.Color = col
		ln.Width = vg.Points(1)
		p.Add(ln)
	}

	// Outer circle standing in for the polar spine.
	ring, err := plotter.NewLine(arc(0, 2*math.Pi, 1.02*maxR, 4*arcSteps))
	if err != nil {
		return fmt.Errorf("rose: %w", err)
	}
	ring.Color = color.Gray{Y: 0xb0}
	ring.Width = vg.Points(0.5)
	p.Add(ring)

	if !r.HideTicks {
		if err := r.addTicks(p, 1.12*maxR, offset); err != nil {
			return err
		}
	}

	p.HideAxes()
	lim := 1.25 * maxR
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim
	return nil
}

// wedge traces the outline of an unfilled histogram bar in polar
// coordinates: out along one edge, around the arc, and back to the
// origin.
func wedge(theta, width, radius float64) plotter.XYs {
	pts := plotter.XYs{{X: 0, Y: 0}}
	pts = append(pts, arc(theta, width, radius, arcSteps)...)
	pts = append(pts, plotter.XY{X: 0, Y: 0})
	return pts
}

// arc returns points along the circle of the given radius from angle
// theta to theta+width.
func arc(theta, width, radius float64, steps int) plotter.XYs {
	pts := make(plotter.XYs, steps+1)
	for s := 0; s <= steps; s++ {
		a := theta + width*float64(s)/float64(steps)
		pts[s] = plotter.XY{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

func (r Rose) addTicks(p *plot.Plot, radius, offset float64) error {
	var names []string
	if r.Convention == Degrees {
		names = []string{"0°", "90°", "180°", "270°"}
	} else {
		names = []string{"0", "π/2", "−π, π", "−π/2"}
	}
	xys := make(plotter.XYs, len(names))
	for i := range names {
		a := float64(i)*math.Pi/2 + offset
		xys[i] = plotter.XY{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return fmt.Errorf("rose: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)
	return nil
}
