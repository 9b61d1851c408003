package results

import (
	"golang.org/x/xerrors"
)

// Metric is a measurement that gets plotted.
type Metric struct {
	Column string
	// Label of the y axis.
	Label string
	// Title is inserted in the title of the chart.
	Title string
	// Factor converts the unit of the column, e.g. bytes to kB.
	Factor float64
	// PerNode divides by the number of nodes that did not fail.
	PerNode bool
}

// DefaultMetrics are the three measurements of every analysis.
var DefaultMetrics = []Metric{
	{Column: RoundWallSum, Label: "time until signature (s)", Title: "protocol duration", Factor: 1},
	{Column: BandwidthMsgTxSum, Label: "messages sent", Title: "message count", Factor: 1},
	{Column: BandwidthTxSum, Label: "data sent (kB)", Title: "data transferred", Factor: 0.001},
}

// Extract returns value * factor / rounds for every row. With perNode the
// value is further divided by hosts - failingleaves. A network without any
// live node gives Inf or NaN, which is left to the chart to show.
func Extract(t *Table, column string, factor float64, perNode bool) ([]float64, error) {
	values, err := t.Series(column)
	if err != nil {
		return nil, err
	}
	rounds, err := t.Column("rounds")
	if err != nil {
		return nil, xerrors.Errorf("extracting %s: %v", column, err)
	}
	var hosts, failing *Column
	if perNode {
		if hosts, err = t.Column("hosts"); err != nil {
			return nil, xerrors.Errorf("extracting %s per node: %v", column, err)
		}
		if failing, err = t.Column("failingleaves"); err != nil {
			return nil, xerrors.Errorf("extracting %s per node: %v", column, err)
		}
	}

	out := make([]float64, len(values))
	for i, v := range values {
		v *= factor
		if perNode {
			v /= hosts.Values[i] - failing.Values[i]
		}
		out[i] = v / rounds.Values[i]
	}
	return out, nil
}

// Extract returns the metric of every row of the table.
func (m Metric) Extract(t *Table) ([]float64, error) {
	return Extract(t, m.Column, m.Factor, m.PerNode)
}
