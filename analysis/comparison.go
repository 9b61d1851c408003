package analysis

import (
	"fmt"
	"image/color"

	"github.com/dedis/student-19-gossip-bls/chart"
	"github.com/dedis/student-19-gossip-bls/results"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// FailureLevel is the confidence level of the failure rates.
const FailureLevel = 0.68

var failureColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}

// Comparison puts the tree protocol and the gossip protocol side by side.
// Both tables must hold the same runs: same number of hosts, failing nodes
// and delays, row by row, one round per run.
type Comparison struct {
	ID        string
	Reference string
	Gossip    string
}

// Name implements Analysis.
func (c *Comparison) Name() string { return c.ID }

// Run implements Analysis.
func (c *Comparison) Run(env *Env) error {
	ref, err := results.LoadNamed(env.DataDir, c.Reference)
	if err != nil {
		return xerrors.Errorf("analysis %s: %v", c.ID, err)
	}
	gossip, err := results.LoadNamed(env.DataDir, c.Gossip)
	if err != nil {
		return xerrors.Errorf("analysis %s: %v", c.ID, err)
	}
	err = gossip.SanityChecks([]string{"gossiptick", "rumorpeers", "shutdownpeers", "treemode"}, nil, true)
	if err != nil {
		return xerrors.Errorf("analysis %s: %s: %w", c.ID, c.Gossip, err)
	}
	if err := sameRuns(ref, gossip); err != nil {
		return xerrors.Errorf("analysis %s: %w", c.ID, err)
	}

	sizes, err := ref.Unique("hosts")
	if err != nil {
		return xerrors.Errorf("analysis %s: %v", c.ID, err)
	}
	if len(sizes) > 1 {
		if err := c.failureRates(env, ref, sizes[1]); err != nil {
			return xerrors.Errorf("analysis %s: %v", c.ID, err)
		}
	} else {
		log.Warnf("analysis %s: only %d network sizes, no failure rates", c.ID, len(sizes))
	}

	succeeded := ref.Filter(func(r results.Record) bool { return !r.IsNull(results.RoundWallAvg) })
	for _, n := range sizes {
		for _, m := range env.Metrics {
			if err := c.strip(env, succeeded, gossip, n, m); err != nil {
				return xerrors.Errorf("analysis %s: %v", c.ID, err)
			}
		}
	}
	return nil
}

// sameRuns checks that the two tables describe the same runs.
func sameRuns(ref, gossip *results.Table) error {
	if ref.Len() != gossip.Len() {
		return &results.SanityError{Column: "rounds", Row: -1,
			Reason: fmt.Sprintf("%d reference runs for %d gossip runs", ref.Len(), gossip.Len())}
	}
	pairs := [][2]string{
		{"hosts", "hosts"},
		{results.Failing, "failingleaves"},
		{"mindelay", "mindelay"},
		{"maxdelay", "maxdelay"},
	}
	for _, p := range pairs {
		a, err := ref.Series(p[0])
		if err != nil {
			return &results.SanityError{Column: p[0], Row: -1, Reason: "missing column"}
		}
		b, err := gossip.Series(p[1])
		if err != nil {
			return &results.SanityError{Column: p[1], Row: -1, Reason: "missing column"}
		}
		for i := range a {
			if a[i] != b[i] {
				return &results.SanityError{Column: p[1], Row: i,
					Reason: fmt.Sprintf("reference has %g, gossip has %g", a[i], b[i])}
			}
		}
	}
	for _, t := range []*results.Table{ref, gossip} {
		rounds, err := t.Column("rounds")
		if err != nil {
			return &results.SanityError{Column: "rounds", Row: -1, Reason: "missing column"}
		}
		for i, r := range rounds.Values {
			if r != 1 {
				return &results.SanityError{Column: "rounds", Row: i,
					Reason: fmt.Sprintf("%q rounds instead of 1", rounds.Raw[i])}
			}
		}
	}
	return nil
}

// failureRates plots how often the reference protocol did not produce any
// signature, by number of failing nodes.
func (c *Comparison) failureRates(env *Env, ref *results.Table, n float64) error {
	part, err := ref.Where("hosts", n)
	if err != nil {
		return err
	}
	failing, err := part.Series(results.Failing)
	if err != nil {
		return err
	}
	failed := make([]bool, part.Len())
	for i := range failed {
		failed[i] = part.Row(i).IsNull(results.RoundWallAvg)
	}
	b := env.Bootstrap
	b.Level = FailureLevel
	rates := results.Aggregate(failing, results.Rate(failed), b)

	ch := chart.New(fmt.Sprintf("Old protocol: rates of total protocol failure (n=%g)", n),
		"failing nodes", "protocol failure rate")
	ch.Percent = true
	ch.AddBars("", rates, failureColor)

	rows := make([]results.SummaryRow, len(rates))
	for i, pt := range rates {
		rows[i] = results.SummaryRow{X: pt.X, Low: pt.Low, High: pt.High,
			Summary: results.Summary{Name: "failure_rate", N: pt.N, Mean: pt.Mean}}
	}
	return save(env, ch, c.ID, "failures", rows)
}

// strip plots every run of both protocols for a network size.
func (c *Comparison) strip(env *Env, ref, gossip *results.Table, n float64, m results.Metric) error {
	ch := chart.New(fmt.Sprintf("Comparison of %s (n=%g)", m.Title, n), "failing nodes", m.Label)
	var rows []results.SummaryRow
	protocols := []struct {
		label string
		table *results.Table
		color color.Color
	}{
		{"old protocol instance", ref, plotutil.Color(1)},
		{"gossip protocol instance", gossip, plotutil.Color(0)},
	}
	for _, p := range protocols {
		part, err := p.table.Where("hosts", n)
		if err != nil {
			return err
		}
		failing, err := part.Series(results.Failing)
		if err != nil {
			return err
		}
		values, err := m.Extract(part)
		if err != nil {
			return err
		}
		ch.AddStrip(p.label, failing, values, p.color, vg.Points(3))
		rows = append(rows, summarize(m, &group{label: p.label, x: failing, y: values}, env.Bootstrap)...)
	}
	return save(env, ch, c.ID, fmt.Sprintf("%s_%g", m.Column, n), rows)
}
