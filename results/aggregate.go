package results

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"sort"
	"strconv"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"go.dedis.ch/onet/v3/log"
	"go.dedis.ch/onet/v3/simul/monitor"
	"gonum.org/v1/gonum/stat"
)

// Group holds the values of all the rows sharing the same key.
type Group struct {
	Key    float64
	Values []float64
}

// Mean returns the average of the group, NaN if it is empty.
func (g Group) Mean() float64 {
	if len(g.Values) == 0 {
		return math.NaN()
	}
	return stat.Mean(g.Values, nil)
}

// GroupBy groups values by key, in increasing order of key. Rows where the
// key or the value is NaN are left out; infinite values are kept.
func GroupBy(keys, values []float64) []Group {
	byKey := make(map[float64][]float64)
	for i, k := range keys {
		if math.IsNaN(k) || math.IsNaN(values[i]) {
			continue
		}
		byKey[k] = append(byKey[k], values[i])
	}
	groups := make([]Group, 0, len(byKey))
	for k, v := range byKey {
		groups = append(groups, Group{Key: k, Values: v})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Bootstrap estimates the confidence interval of a mean by resampling.
type Bootstrap struct {
	// Samples is the number of resamplings.
	Samples int
	// Level of the interval, 0.95 for 95%.
	Level float64
	Seed  int64
}

// DefaultBootstrap is a 95% interval out of 1000 resamplings.
var DefaultBootstrap = Bootstrap{Samples: 1000, Level: 0.95, Seed: 1}

// Interval returns the bounds of the confidence interval of the mean of
// values. With less than two values both bounds are the mean.
func (b Bootstrap) Interval(values []float64) (low, high float64) {
	if len(values) < 2 || b.Samples <= 0 {
		m := Group{Values: values}.Mean()
		return m, m
	}
	rnd := rand.New(rand.NewSource(b.Seed))
	means := make([]float64, b.Samples)
	for s := range means {
		var sum float64
		for range values {
			sum += values[rnd.Intn(len(values))]
		}
		means[s] = sum / float64(len(values))
	}
	sort.Float64s(means)
	tail := (1 - b.Level) / 2
	return stat.Quantile(tail, stat.Empirical, means, nil),
		stat.Quantile(1-tail, stat.Empirical, means, nil)
}

// Point is one aggregated point of a series.
type Point struct {
	X    float64
	Mean float64
	Low  float64
	High float64
	N    int
}

// Series is an aggregated series, sorted by X.
type Series []Point

// Aggregate groups y by x and returns the mean and the confidence interval
// of every group.
func Aggregate(x, y []float64, b Bootstrap) Series {
	groups := GroupBy(x, y)
	s := make(Series, len(groups))
	for i, g := range groups {
		low, high := b.Interval(g.Values)
		s[i] = Point{X: g.Key, Mean: g.Mean(), Low: low, High: high, N: len(g.Values)}
	}
	return s
}

// Rate returns 1 for the true flags and 0 for the others, so that the mean
// of a group is the rate of true flags in this group.
func Rate(flags []bool) []float64 {
	r := make([]float64, len(flags))
	for i, f := range flags {
		if f {
			r[i] = 1
		}
	}
	return r
}

// The histogram records integers: values are stored in thousandths.
const (
	histogramScale = 1000
	histogramMax   = int64(1) << 40
)

// Summary describes the distribution of the values of a group.
type Summary struct {
	Name string
	N    int
	Mean float64
	Dev  float64
	Min  float64
	Max  float64
	P50  float64
	P95  float64
}

// Summarize returns the summary of the finite values.
func Summarize(name string, values []float64) Summary {
	v := monitor.NewValue(name)
	h := hdrhistogram.New(1, histogramMax, 3)
	for _, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		v.Store(x)
		if err := h.RecordValue(int64(math.Round(x * histogramScale))); err != nil {
			log.Lvl3("Not recording", x, "in histogram:", err)
		}
	}
	v.Collect()

	s := Summary{Name: name, N: v.NumValue()}
	if s.N == 0 {
		return s
	}
	s.Mean = v.Avg()
	s.Min = v.Min()
	s.Max = v.Max()
	if s.N > 1 {
		s.Dev = v.Dev()
	}
	s.P50 = float64(h.ValueAtQuantile(50)) / histogramScale
	s.P95 = float64(h.ValueAtQuantile(95)) / histogramScale
	return s
}

// SummaryRow is one line of a summary file.
type SummaryRow struct {
	Hue  string
	X    float64
	Low  float64
	High float64
	Summary
}

var summaryHeader = []string{"hue", "x", "n", "mean", "dev", "min", "max",
	"p50", "p95", "ci_low", "ci_high"}

// WriteSummaries writes the rows as CSV, with a header line.
func WriteSummaries(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		err := cw.Write([]string{
			r.Hue,
			formatFloat(r.X),
			strconv.Itoa(r.N),
			formatFloat(r.Mean),
			formatFloat(r.Dev),
			formatFloat(r.Min),
			formatFloat(r.Max),
			formatFloat(r.P50),
			formatFloat(r.P95),
			formatFloat(r.Low),
			formatFloat(r.High),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
