// Package results reads the CSV files written by the onet simulation runner
// and turns them into the series that are plotted.
//
// Every file has one row per run: the parameters of the run (hosts,
// failingleaves, mindelay, ...) followed by the measurements (round_wall_sum,
// bandwidth_tx_sum, ...). An empty measurement means the run failed.
package results

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// Column is a named series of the table. Null cells are stored as NaN.
type Column struct {
	Name    string
	Values  []float64
	Raw     []string
	Numeric bool
}

// IsNull returns whether the i-th cell is null.
func (c *Column) IsNull(i int) bool {
	return math.IsNaN(c.Values[i])
}

// Table is a parsed result file. All columns have the same length.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// Cells parsed as null, like an empty cell.
var nullCells = map[string]bool{"": true, "nan": true, "null": true, "none": true}

func isNullCell(cell string) bool {
	return nullCells[strings.ToLower(cell)]
}

// Parse reads a CSV table with a header line. Column names are lower-cased.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, xerrors.Errorf("reading csv: %v", err)
	}
	if len(records) == 0 {
		return nil, xerrors.New("empty result file")
	}

	t := &Table{index: make(map[string]int), rows: len(records) - 1}
	for _, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, exists := t.index[name]; exists {
			return nil, xerrors.Errorf("duplicate column %q", name)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, &Column{
			Name:    name,
			Values:  make([]float64, t.rows),
			Raw:     make([]string, t.rows),
			Numeric: true,
		})
	}
	for i, record := range records[1:] {
		for j, c := range t.columns {
			cell := strings.TrimSpace(record[j])
			c.Raw[i] = cell
			if isNullCell(cell) {
				c.Values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				c.Numeric = false
				v = math.NaN()
			}
			c.Values[i] = v
		}
	}
	return t, nil
}

// Load parses the result file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening results: %v", err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, xerrors.Errorf("%s: %v", path, err)
	}
	log.Lvlf2("Loaded %d runs from %s", t.Len(), path)
	return t, nil
}

// LoadNamed parses <dir>/<name>.csv, the file the simulation runner writes
// for the run-file <name>.toml.
func LoadNamed(dir, name string) (*Table, error) {
	return Load(filepath.Join(dir, name+".csv"))
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has returns whether the table has a column of that name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// Column returns the column of that name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return nil, xerrors.Errorf("no column %q", name)
	}
	return t.columns[i], nil
}

// Record is a view on one row of a table.
type Record struct {
	t   *Table
	row int
}

// Row returns the i-th row.
func (t *Table) Row(i int) Record {
	return Record{t: t, row: i}
}

// Get returns the value of the column in this row, NaN if the column is
// missing or the cell null.
func (r Record) Get(name string) float64 {
	c, err := r.t.Column(name)
	if err != nil {
		return math.NaN()
	}
	return c.Values[r.row]
}

// IsNull returns whether the cell of that column is null or missing.
func (r Record) IsNull(name string) bool {
	return math.IsNaN(r.Get(name))
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	var rows []int
	for i := 0; i < t.rows; i++ {
		if keep(t.Row(i)) {
			rows = append(rows, i)
		}
	}
	out := &Table{index: t.index, rows: len(rows)}
	for _, c := range t.columns {
		nc := &Column{Name: c.Name, Numeric: c.Numeric,
			Values: make([]float64, len(rows)), Raw: make([]string, len(rows))}
		for j, i := range rows {
			nc.Values[j] = c.Values[i]
			nc.Raw[j] = c.Raw[i]
		}
		out.columns = append(out.columns, nc)
	}
	return out
}

// Where returns the rows where the series has the given value.
func (t *Table) Where(name string, value float64) (*Table, error) {
	s, err := t.Series(name)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(r Record) bool { return s[r.row] == value }), nil
}

// Unique returns the distinct non-null values of the series in order of
// first appearance.
func (t *Table) Unique(name string) ([]float64, error) {
	s, err := t.Series(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[float64]bool)
	var unique []float64
	for _, v := range s {
		if math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique, nil
}

// Names of the derived series.
const (
	// Failing is the total number of failing nodes, whatever the protocol.
	Failing = "failing"
	// Delay is the average message delay.
	Delay = "delay"
)

// Series returns a copy of the values of a column, or of a derived series.
func (t *Table) Series(name string) ([]float64, error) {
	if c, err := t.Column(name); err == nil {
		return append([]float64(nil), c.Values...), nil
	}
	switch strings.ToLower(name) {
	case Failing:
		if t.Has("failingleaves") {
			return t.Series("failingleaves")
		}
		return t.sum("failingleafs", "failingsubleaders")
	case Delay:
		s, err := t.sum("mindelay", "maxdelay")
		if err != nil {
			return nil, err
		}
		for i := range s {
			s[i] /= 2
		}
		return s, nil
	}
	return nil, xerrors.Errorf("no column or derived series %q", name)
}

func (t *Table) sum(a, b string) ([]float64, error) {
	ca, err := t.Column(a)
	if err != nil {
		return nil, err
	}
	cb, err := t.Column(b)
	if err != nil {
		return nil, err
	}
	s := make([]float64, t.rows)
	for i := range s {
		s[i] = ca.Values[i] + cb.Values[i]
	}
	return s, nil
}

// Sorted returns the distinct values sorted in increasing order.
func Sorted(values []float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range values {
		if !math.IsNaN(v) && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
