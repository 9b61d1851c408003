// Package analysis turns the result tables of the simulations into figures.
//
// Every analysis reads one or more tables from the data directory, checks
// that the parameters it does not study are constant, and saves one chart
// per metric under <figures>/<analysis>/. Next to every chart a CSV file
// summarizes the plotted groups.
package analysis

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dedis/student-19-gossip-bls/chart"
	"github.com/dedis/student-19-gossip-bls/results"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// Analysis produces the figures of one study.
type Analysis interface {
	Name() string
	Run(env *Env) error
}

// Env holds what is shared by all the analyses of one invocation.
type Env struct {
	DataDir   string
	FigureDir string
	Metrics   []results.Metric
	Bootstrap results.Bootstrap
}

// NewEnv returns an environment with the default metrics and bootstrap.
func NewEnv(dataDir, figureDir string) *Env {
	return &Env{
		DataDir:   dataDir,
		FigureDir: figureDir,
		Metrics:   results.DefaultMetrics,
		Bootstrap: results.DefaultBootstrap,
	}
}

// Kind is how a sweep draws its points.
type Kind string

// Kinds of sweeps.
const (
	// Line draws the mean of every x value, with its confidence interval.
	Line Kind = "line"
	// Scatter draws every run.
	Scatter Kind = "scatter"
)

// Source is a result table read by a sweep.
type Source struct {
	// Name of the table, without the .csv extension.
	Name string `toml:"name"`
	// Label names the runs of this table in the legend.
	Label string `toml:"label"`
	// Expect gives the value some columns must hold in every run of this
	// table.
	Expect map[string]float64 `toml:"expect"`
}

// check verifies the expected values of the source, in column order.
func (src Source) check(t *results.Table) error {
	columns := make([]string, 0, len(src.Expect))
	for c := range src.Expect {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	for _, c := range columns {
		if err := t.ExpectValue(c, src.Expect[c]); err != nil {
			return err
		}
	}
	return nil
}

// Sweep plots the metrics of one or more tables against the parameter that
// varies, with one series per value of the hue parameter.
type Sweep struct {
	ID      string   `toml:"id"`
	Sources []Source `toml:"source"`
	// Params must be constant, except for Varying. If nil, the default
	// parameters present in the table are checked.
	Params  []string `toml:"params"`
	Varying []string `toml:"varying"`
	// Equal columns hold the same value in every run.
	Equal  []string `toml:"equal"`
	X      string   `toml:"x"`
	XLabel string   `toml:"xlabel"`
	// Hue splits the runs in series. Without hue there is one series per
	// source.
	Hue string `toml:"hue"`
	// HueFormat is the legend of a series, {value} being replaced by the
	// value of the hue.
	HueFormat string `toml:"hue_format"`
	// HueNames gives the legend of some hue values.
	HueNames map[string]string `toml:"hue_names"`
	Kind     Kind              `toml:"kind"`
	// Title of the charts; {title} is replaced by the title of the metric
	// and {n} by the number of hosts of the first run.
	Title         string `toml:"title"`
	Suffix        string `toml:"suffix"`
	PerNode       bool   `toml:"per_node"`
	CheckFailures bool   `toml:"check_failures"`
}

// Name implements Analysis.
func (s *Sweep) Name() string { return s.ID }

// Run implements Analysis.
func (s *Sweep) Run(env *Env) error {
	if len(s.Sources) == 0 {
		return xerrors.Errorf("analysis %s: no source", s.ID)
	}
	tables := make([]*results.Table, len(s.Sources))
	for i, src := range s.Sources {
		t, err := results.LoadNamed(env.DataDir, src.Name)
		if err != nil {
			return xerrors.Errorf("analysis %s: %v", s.ID, err)
		}
		err = t.SanityChecks(s.Params, s.Varying, s.CheckFailures)
		if err == nil {
			err = t.SameValues(s.Equal...)
		}
		if err == nil {
			err = src.check(t)
		}
		if err != nil {
			return xerrors.Errorf("analysis %s: %s: %w", s.ID, src.Name, err)
		}
		tables[i] = t
	}

	for _, m := range env.Metrics {
		m.PerNode = m.PerNode || s.PerNode
		c := chart.New(s.title(m, tables[0]), s.XLabel, m.Label)
		var summaries []results.SummaryRow
		for i, t := range tables {
			groups, err := s.split(t, m, s.Sources[i], len(tables) > 1)
			if err != nil {
				return xerrors.Errorf("analysis %s: %v", s.ID, err)
			}
			for _, g := range groups {
				switch s.Kind {
				case Scatter:
					c.AddScatter(g.label, g.x, g.y)
				default:
					c.AddLine(g.label, results.Aggregate(g.x, g.y, env.Bootstrap))
				}
				summaries = append(summaries, summarize(m, g, env.Bootstrap)...)
			}
		}
		if err := save(env, c, s.ID, figureName(m.Column, s.Suffix), summaries); err != nil {
			return xerrors.Errorf("analysis %s: %v", s.ID, err)
		}
	}
	return nil
}

func figureName(column, suffix string) string {
	if suffix == "" {
		return column
	}
	return column + "_" + suffix
}

func (s *Sweep) title(m results.Metric, t *results.Table) string {
	title := s.Title
	if title == "" {
		title = "Average {title} vs. " + s.XLabel
	}
	n := "?"
	if c, err := t.Column("hosts"); err == nil && t.Len() > 0 {
		n = formatValue(c.Values[0])
	}
	return strings.NewReplacer("{title}", m.Title, "{n}", n).Replace(title)
}

// group holds the runs of one series.
type group struct {
	label string
	x, y  []float64
}

// split extracts the metric and divides the runs of the table in series,
// in order of first appearance of their hue.
func (s *Sweep) split(t *results.Table, m results.Metric, src Source, prefix bool) ([]*group, error) {
	x, err := t.Series(s.X)
	if err != nil {
		return nil, err
	}
	y, err := m.Extract(t)
	if err != nil {
		return nil, err
	}
	var hue []float64
	if s.Hue != "" {
		if hue, err = t.Series(s.Hue); err != nil {
			return nil, err
		}
	}

	var groups []*group
	byLabel := make(map[string]*group)
	for i := range x {
		label := src.Label
		if hue != nil {
			label = s.hueLabel(hue[i])
			if prefix && src.Label != "" {
				label = src.Label + ", " + label
			}
		}
		g, ok := byLabel[label]
		if !ok {
			g = &group{label: label}
			byLabel[label] = g
			groups = append(groups, g)
		}
		g.x = append(g.x, x[i])
		g.y = append(g.y, y[i])
	}
	return groups, nil
}

func (s *Sweep) hueLabel(v float64) string {
	value := formatValue(v)
	if name, ok := s.HueNames[value]; ok {
		return name
	}
	if s.HueFormat == "" {
		return value
	}
	return strings.Replace(s.HueFormat, "{value}", value, -1)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "null"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// summarize returns one summary row per x value of the group.
func summarize(m results.Metric, g *group, b results.Bootstrap) []results.SummaryRow {
	var rows []results.SummaryRow
	for _, kv := range results.GroupBy(g.x, g.y) {
		low, high := b.Interval(kv.Values)
		rows = append(rows, results.SummaryRow{
			Hue:     g.label,
			X:       kv.Key,
			Low:     low,
			High:    high,
			Summary: results.Summarize(m.Column, kv.Values),
		})
	}
	return rows
}

// save writes the chart and its summary next to it.
func save(env *Env, c *chart.Chart, id, name string, summaries []results.SummaryRow) error {
	path, err := c.Save(env.FigureDir, id, name)
	if err != nil {
		return err
	}
	csvPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	f, err := os.Create(csvPath)
	if err != nil {
		return xerrors.Errorf("creating summary: %v", err)
	}
	if err := results.WriteSummaries(f, summaries); err != nil {
		f.Close()
		return xerrors.Errorf("writing %s: %v", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return xerrors.Errorf("closing %s: %v", csvPath, err)
	}
	log.Lvl2("Saved", csvPath)
	return nil
}

// Select returns the analyses of the given names, in the order of the
// names. Without names, all the analyses are returned.
func Select(all []Analysis, names []string) ([]Analysis, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Analysis, len(all))
	for _, a := range all {
		byName[a.Name()] = a
	}
	selected := make([]Analysis, 0, len(names))
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return nil, xerrors.Errorf("unknown analysis %q, have %s", name,
				strings.Join(Names(all), ", "))
		}
		selected = append(selected, a)
	}
	return selected, nil
}

// Names returns the sorted names of the analyses.
func Names(all []Analysis) []string {
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name()
	}
	sort.Strings(names)
	return names
}

// RunAll runs the analyses one after the other and stops at the first
// error.
func RunAll(env *Env, analyses []Analysis) error {
	for _, a := range analyses {
		log.Lvl1("Running analysis", a.Name())
		if err := a.Run(env); err != nil {
			return err
		}
	}
	log.Infof("Figures of %d analyses are in %s", len(analyses), env.FigureDir)
	return nil
}
