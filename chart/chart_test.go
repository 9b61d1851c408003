package chart

import (
	"image/color"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dedis/student-19-gossip-bls/results"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"
	"gonum.org/v1/plot/vg"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

var testSeries = results.Series{
	{X: 0.1, Mean: 1, Low: 0.8, High: 1.2, N: 3},
	{X: 0.2, Mean: 2, Low: 1.5, High: 2.5, N: 3},
	{X: 0.3, Mean: math.Inf(1), Low: math.NaN(), High: math.NaN(), N: 3},
}

func TestChart_Save(t *testing.T) {
	tmp, err := ioutil.TempDir("", "chart")
	require.NoError(t, err)
	defer os.RemoveAll(tmp)

	c := New("Average protocol duration", "message delay (s)", "time (s)")
	c.AddLine("0 failing nodes", testSeries)
	c.AddScatter("runs", []float64{0.1, 0.2, math.NaN()}, []float64{1, 2, 3})
	require.Equal(t, 2, c.Len())

	path, err := c.Save(tmp, "2", "round_wall_sum_by_delay")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "2", "round_wall_sum_by_delay.png"), path)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, fi.Size() > 0)

	// Saving again overwrites the figure.
	_, err = c.Save(tmp, "2", "round_wall_sum_by_delay")
	require.NoError(t, err)
}

func TestChart_Plot(t *testing.T) {
	c := New("", "", "")
	p, err := c.Plot()
	require.NoError(t, err)
	require.Equal(t, 0.0, p.Y.Min)
	require.True(t, p.Y.Max > p.Y.Min)

	c.YRange = Range{Min: Bound(1), Max: Bound(3)}
	c.AddLine("", testSeries[:2])
	p, err = c.Plot()
	require.NoError(t, err)
	require.Equal(t, 1.0, p.Y.Min)
	require.Equal(t, 3.0, p.Y.Max)
	require.Equal(t, 0.1, p.X.Min)
	require.Equal(t, 0.2, p.X.Max)
}

func TestChart_Categories(t *testing.T) {
	c := New("Comparison", "failing nodes", "messages sent")
	c.AddStrip("old", []float64{2, 0, 1, 0}, []float64{4, 5, 6, 7}, color.Black, vg.Points(3))
	c.AddBars("rate", results.Series{{X: 3, Mean: 0.5, Low: 0.2, High: 0.8}}, color.Black)
	c.AddBars("other", results.Series{{X: 0, Mean: 0.1, Low: 0, High: 0.2}}, nil)
	require.Equal(t, []float64{0, 1, 2, 3}, c.categories())

	require.InDelta(t, -0.2, c.barOffset(1), 1e-9)
	require.InDelta(t, 0.2, c.barOffset(2), 1e-9)

	p, err := c.Plot()
	require.NoError(t, err)
	require.Equal(t, -0.5, p.X.Min)
	require.Equal(t, 3.5, p.X.Max)
}

func TestPercentTicks(t *testing.T) {
	ticks := percentTicks{}.Ticks(0, 1)
	var labels []string
	for _, tick := range ticks {
		if tick.Label != "" {
			labels = append(labels, tick.Label)
		}
	}
	require.NotEmpty(t, labels)
	for _, l := range labels {
		require.True(t, strings.HasSuffix(l, "%"), l)
	}
}

func TestFinite(t *testing.T) {
	pts := finitePairs("test", []float64{1, 2, math.Inf(-1), 4}, []float64{1, math.NaN(), 3, 4})
	require.Equal(t, 2, len(pts))
	require.Equal(t, 4.0, pts[1].X)

	s := finiteSeries("test", testSeries)
	require.Equal(t, 2, len(s))

	s = finiteSeries("test", results.Series{{X: 1, Mean: 2, Low: math.NaN(), High: 3}})
	require.Equal(t, 2.0, s[0].Low)
	require.Equal(t, 2.0, s[0].High)
}
