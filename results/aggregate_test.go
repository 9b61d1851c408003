package results

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupBy(t *testing.T) {
	keys := []float64{2, 1, 2, 3, math.NaN(), 1}
	values := []float64{4, 1, 6, math.NaN(), 10, 3}
	groups := GroupBy(keys, values)
	require.Equal(t, 2, len(groups))
	require.Equal(t, 1.0, groups[0].Key)
	require.Equal(t, []float64{1, 3}, groups[0].Values)
	require.Equal(t, 2.0, groups[0].Mean())
	require.Equal(t, 2.0, groups[1].Key)
	require.Equal(t, 5.0, groups[1].Mean())
	require.True(t, math.IsNaN(Group{}.Mean()))
}

func TestBootstrap_Interval(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	low, high := DefaultBootstrap.Interval(values)
	mean := 5.5
	require.True(t, low < mean && mean < high)
	require.True(t, low >= 1 && high <= 10)

	// The same seed gives the same interval.
	low2, high2 := DefaultBootstrap.Interval(values)
	require.Equal(t, low, low2)
	require.Equal(t, high, high2)

	// A narrower level gives a narrower interval.
	narrow := Bootstrap{Samples: 1000, Level: 0.68, Seed: 1}
	nlow, nhigh := narrow.Interval(values)
	require.True(t, nhigh-nlow < high-low)

	low, high = DefaultBootstrap.Interval([]float64{3})
	require.Equal(t, 3.0, low)
	require.Equal(t, 3.0, high)

	low, high = DefaultBootstrap.Interval([]float64{2, 2, 2})
	require.Equal(t, 2.0, low)
	require.Equal(t, 2.0, high)
}

func TestAggregate(t *testing.T) {
	x := []float64{0.2, 0.1, 0.2, 0.1}
	y := []float64{4, 1, 6, 3}
	s := Aggregate(x, y, DefaultBootstrap)
	require.Equal(t, 2, len(s))
	require.Equal(t, 0.1, s[0].X)
	require.Equal(t, 2.0, s[0].Mean)
	require.Equal(t, 2, s[0].N)
	require.True(t, s[0].Low <= s[0].Mean && s[0].Mean <= s[0].High)
	require.Equal(t, 5.0, s[1].Mean)

	rate := Aggregate([]float64{0, 0, 0, 0, 2}, Rate([]bool{true, false, false, false, true}),
		Bootstrap{Samples: 100, Level: 0.68, Seed: 3})
	require.Equal(t, 0.25, rate[0].Mean)
	require.Equal(t, 1.0, rate[1].Mean)
}

func TestSummarize(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9, math.NaN(), math.Inf(1)}
	s := Summarize("round", values)
	require.Equal(t, "round", s.Name)
	require.Equal(t, 8, s.N)
	require.InDelta(t, 5.0, s.Mean, 1e-9)
	require.Equal(t, 2.0, s.Min)
	require.Equal(t, 9.0, s.Max)
	require.InDelta(t, 2.138, s.Dev, 1e-3)
	require.InEpsilon(t, 4.0, s.P50, 0.01)
	require.InEpsilon(t, 9.0, s.P95, 0.01)

	empty := Summarize("none", nil)
	require.Equal(t, 0, empty.N)
	single := Summarize("one", []float64{1.5})
	require.Equal(t, 0.0, single.Dev)
	require.Equal(t, 1.5, single.Mean)
}

func TestWriteSummaries(t *testing.T) {
	var buf bytes.Buffer
	rows := []SummaryRow{
		{Hue: "2 failing nodes", X: 0.1, Low: 1, High: 3, Summary: Summarize("a", []float64{1, 3})},
		{Hue: "", X: 0.2, Summary: Summarize("b", []float64{4})},
	}
	require.NoError(t, WriteSummaries(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, 3, len(records))
	require.Equal(t, summaryHeader, records[0])
	require.Equal(t, "2 failing nodes", records[1][0])
	require.Equal(t, "0.1", records[1][1])
	require.Equal(t, "2", records[1][2])
	require.Equal(t, "2", records[1][3])
	require.Equal(t, "1", records[2][2])
}
