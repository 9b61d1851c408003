package chart

import (
	"image/color"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func addLine(p *plot.Plot, l layer, col color.Color) error {
	s := finiteSeries(l.label, l.series)
	if len(s) == 0 {
		return nil
	}
	means := make(plotter.XYs, len(s))
	band := make(plotter.XYs, 0, 2*len(s))
	for i, pt := range s {
		means[i] = plotter.XY{X: pt.X, Y: pt.Mean}
		band = append(band, plotter.XY{X: pt.X, Y: pt.High})
	}
	for i := len(s) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: s[i].X, Y: s[i].Low})
	}

	if len(s) > 1 {
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return err
		}
		poly.Color = fade(col)
		poly.LineStyle.Width = 0
		p.Add(poly)
	}
	ln, err := plotter.NewLine(means)
	if err != nil {
		return err
	}
	ln.Color = col
	ln.Width = vg.Points(2)
	p.Add(ln)
	legend(p, l.label, ln)
	return nil
}

func addScatter(p *plot.Plot, l layer, col color.Color, shape draw.GlyphDrawer) error {
	pts := finitePairs(l.label, l.xs, l.ys)
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = col
	sc.GlyphStyle.Shape = shape
	sc.GlyphStyle.Radius = radius(l)
	p.Add(sc)
	legend(p, l.label, sc)
	return nil
}

// addStrip places every point at the index of its category, moved by a
// jitter that is the same from one run to the next.
func addStrip(p *plot.Plot, l layer, col color.Color, categories []float64, seed int64) error {
	index := make(map[float64]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	rnd := rand.New(rand.NewSource(seed))
	xs := make([]float64, len(l.xs))
	for i, x := range l.xs {
		pos, ok := index[x]
		if !ok {
			// NaN categories never make it to the index.
			xs[i] = x
			continue
		}
		xs[i] = float64(pos) + (rnd.Float64()-0.5)*0.3
	}
	pts := finitePairs(l.label, xs, l.ys)
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = col
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = radius(l)
	p.Add(sc)
	legend(p, l.label, sc)
	return nil
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func addBars(p *plot.Plot, l layer, col color.Color, categories []float64, offset float64) error {
	s := finiteSeries(l.label, l.series)
	if len(s) == 0 {
		return nil
	}
	index := make(map[float64]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	values := make(plotter.Values, len(categories))
	errs := errorPoints{
		XYs:     make(plotter.XYs, len(s)),
		YErrors: make(plotter.YErrors, len(s)),
	}
	for i, pt := range s {
		pos := index[pt.X]
		values[pos] = pt.Mean
		errs.XYs[i] = plotter.XY{X: float64(pos) + offset, Y: pt.Mean}
		errs.YErrors[i].Low = pt.Mean - pt.Low
		errs.YErrors[i].High = pt.High - pt.Mean
	}

	bar, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bar.Color = col
	bar.XMin = offset
	bar.LineStyle.Width = 0

	eb, err := plotter.NewYErrorBars(errs)
	if err != nil {
		return err
	}
	eb.CapWidth = vg.Points(8)
	p.Add(bar, eb)
	legend(p, l.label, bar)
	return nil
}

func radius(l layer) vg.Length {
	if l.radius > 0 {
		return l.radius
	}
	return vg.Points(3)
}

// fade returns the color with a transparency, for the confidence bands.
func fade(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}
}
