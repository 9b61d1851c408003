// Package chart renders the aggregated results as PNG images.
//
// A Chart is a set of layers sharing the same axes. Numeric layers (lines and
// scatters) are drawn against their x values; categorical layers (strips and
// bars) are drawn at the index of their x value among all the categories of
// the chart.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dedis/student-19-gossip-bls/results"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Range bounds an axis. A nil bound is computed from the data.
type Range struct {
	Min *float64
	Max *float64
}

// Bound is a helper to fill a Range.
func Bound(f float64) *float64 { return &f }

// DefaultRange starts the axis at zero.
var DefaultRange = Range{Min: Bound(0)}

type layerKind int

const (
	line layerKind = iota
	scatter
	strip
	bars
)

type layer struct {
	kind   layerKind
	label  string
	series results.Series
	xs, ys []float64
	color  color.Color
	radius vg.Length
}

// Chart describes one figure.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	YRange Range
	// TightLayout removes the padding around the data.
	TightLayout bool
	// Percent formats the y ticks as percentages of 1.
	Percent bool
	Width   vg.Length
	Height  vg.Length

	layers []layer
}

// New returns a chart with the default size and y range.
func New(title, xLabel, yLabel string) *Chart {
	return &Chart{
		Title:       title,
		XLabel:      xLabel,
		YLabel:      yLabel,
		YRange:      DefaultRange,
		TightLayout: true,
		Width:       6 * vg.Inch,
		Height:      4 * vg.Inch,
	}
}

// AddLine adds the means of a series as a line, with its confidence
// interval as a band around it.
func (c *Chart) AddLine(label string, s results.Series) {
	c.layers = append(c.layers, layer{kind: line, label: label, series: s})
}

// AddScatter adds raw points.
func (c *Chart) AddScatter(label string, xs, ys []float64) {
	c.layers = append(c.layers, layer{kind: scatter, label: label, xs: xs, ys: ys})
}

// AddStrip adds raw points on a categorical x axis, jittered so that equal
// points stay visible.
func (c *Chart) AddStrip(label string, xs, ys []float64, col color.Color, radius vg.Length) {
	c.layers = append(c.layers, layer{kind: strip, label: label, xs: xs, ys: ys,
		color: col, radius: radius})
}

// AddBars adds the means of a series as bars on a categorical x axis, with
// the confidence interval as error bars.
func (c *Chart) AddBars(label string, s results.Series, col color.Color) {
	c.layers = append(c.layers, layer{kind: bars, label: label, series: s, color: col})
}

// Len returns the number of layers.
func (c *Chart) Len() int { return len(c.layers) }

// Path returns where the figure of an analysis is stored.
func Path(root, analysis, name string) string {
	return filepath.Join(root, analysis, name+".png")
}

// Save renders the chart to <root>/<analysis>/<name>.png, overwriting any
// previous figure, and returns the path.
func (c *Chart) Save(root, analysis, name string) (string, error) {
	p, err := c.Plot()
	if err != nil {
		return "", xerrors.Errorf("%s/%s: %v", analysis, name, err)
	}
	path := Path(root, analysis, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", xerrors.Errorf("creating figure directory: %v", err)
	}
	if err := p.Save(c.Width, c.Height, path); err != nil {
		return "", xerrors.Errorf("saving %s: %v", path, err)
	}
	log.Lvl2("Saved", path)
	return path, nil
}

// Plot builds the gonum plot of the chart.
func (c *Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	categories := c.categories()
	for i, l := range c.layers {
		col := l.color
		if col == nil {
			col = plotutil.Color(i)
		}
		var err error
		switch l.kind {
		case line:
			err = addLine(p, l, col)
		case scatter:
			err = addScatter(p, l, col, plotutil.Shape(i))
		case strip:
			err = addStrip(p, l, col, categories, int64(i))
		case bars:
			err = addBars(p, l, col, categories, c.barOffset(i))
		}
		if err != nil {
			return nil, xerrors.Errorf("layer %q: %v", l.label, err)
		}
	}
	if len(categories) > 0 {
		names := make([]string, len(categories))
		for i, v := range categories {
			names[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		p.NominalX(names...)
		p.X.Min = -0.5
		p.X.Max = float64(len(categories)) - 0.5
	}

	if c.YRange.Min != nil {
		p.Y.Min = *c.YRange.Min
	}
	if c.YRange.Max != nil {
		p.Y.Max = *c.YRange.Max
	}
	if p.X.Min > p.X.Max {
		p.X.Min, p.X.Max = 0, 1
	}
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
	if c.Percent {
		p.Y.Tick.Marker = percentTicks{}
	}
	if c.TightLayout {
		p.X.Padding = 0
		p.Y.Padding = 0
	}
	return p, nil
}

// categories returns the sorted x values of the categorical layers.
func (c *Chart) categories() []float64 {
	var xs []float64
	for _, l := range c.layers {
		switch l.kind {
		case strip:
			xs = append(xs, l.xs...)
		case bars:
			for _, pt := range l.series {
				xs = append(xs, pt.X)
			}
		}
	}
	return results.Sorted(xs)
}

// barOffset returns the shift, in categories, of the i-th layer so that the
// bars of the different layers are side by side.
func (c *Chart) barOffset(i int) float64 {
	var n, rank int
	for j, l := range c.layers {
		if l.kind != bars {
			continue
		}
		if j < i {
			rank++
		}
		n++
	}
	if n < 2 {
		return 0
	}
	width := 0.8 / float64(n)
	return -0.4 + width*(float64(rank)+0.5)
}

type percentTicks struct{}

// Ticks implements plot.Ticker.
func (percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value*100)
		}
	}
	return ticks
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finitePairs drops the points gonum cannot draw. This happens when a metric
// is divided by zero live nodes.
func finitePairs(label string, xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if dropped := len(xs) - len(pts); dropped > 0 {
		log.Warnf("%s: dropped %d non-finite points", label, dropped)
	}
	return pts
}

func finiteSeries(label string, s results.Series) results.Series {
	out := make(results.Series, 0, len(s))
	for _, pt := range s {
		if !finite(pt.X) || !finite(pt.Mean) {
			continue
		}
		if !finite(pt.Low) || !finite(pt.High) {
			pt.Low, pt.High = pt.Mean, pt.Mean
		}
		out = append(out, pt)
	}
	if dropped := len(s) - len(out); dropped > 0 {
		log.Warnf("%s: dropped %d non-finite points", label, dropped)
	}
	return out
}

func legend(p *plot.Plot, label string, thumbs ...plot.Thumbnailer) {
	if label != "" {
		p.Legend.Add(label, thumbs...)
	}
}
