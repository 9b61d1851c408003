// Package simulation writes the run-files consumed by the onet simulation
// runner and reads them back.
//
// A run-file has the following syntax:
//
//	Name1 = value1
//	Name2 = value2
//	[empty line]
//	n1, n2, n3, n4
//	v11, v12, v13, v14
//	v21, v22, v23, v24
//
// The Name1...Namen are global configuration-options, n1..nn are
// configuration-options for one run. Every row of the table is one run of the
// simulation, so a row that appears k times is run k times.
package simulation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// Header holds the global options of a run-file. The fields are written in
// declaration order, one `Key = value` line each.
type Header struct {
	Simulation string
	Servers    int
	Bf         int
	Rounds     int
	RunWait    string
	Suite      string
}

// NewHeader returns the header used by all the experiments: one round per
// run, ten minutes of run-wait and the bn256 suite.
func NewHeader(protocol string, servers, bf int) Header {
	return Header{
		Simulation: protocol,
		Servers:    servers,
		Bf:         bf,
		Rounds:     1,
		RunWait:    "600s",
		Suite:      "bn256.adapter",
	}
}

// Run is one row of the run-file table.
type Run interface {
	Columns() []string
	Values() []string
}

// RunFile is a complete run-file. Every run is written Repeat times, a
// Repeat of 0 or less meaning once.
type RunFile struct {
	Header Header
	Runs   []Run
	Repeat int
}

// Rows returns the number of table rows that WriteTo will produce.
func (rf *RunFile) Rows() int {
	return len(rf.Runs) * rf.repeat()
}

func (rf *RunFile) repeat() int {
	if rf.Repeat <= 0 {
		return 1
	}
	return rf.Repeat
}

// WriteTo implements io.WriterTo. All runs must have the columns of the
// first run.
func (rf *RunFile) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rf.Header); err != nil {
		return 0, xerrors.Errorf("encoding header: %v", err)
	}
	buf.WriteString("\n")

	if len(rf.Runs) > 0 {
		columns := rf.Runs[0].Columns()
		buf.WriteString(joinRow(columns))
		for i, r := range rf.Runs {
			if !sameColumns(columns, r.Columns()) {
				return 0, xerrors.Errorf("run %d has columns %v instead of %v",
					i, r.Columns(), columns)
			}
			row := joinRow(r.Values())
			for k := 0; k < rf.repeat(); k++ {
				buf.WriteString(row)
			}
		}
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Save writes the run-file to path, overwriting any existing file.
func (rf *RunFile) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("creating run-file: %v", err)
	}
	_, err = rf.WriteTo(f)
	if err != nil {
		f.Close()
		return xerrors.Errorf("writing %s: %v", path, err)
	}
	log.Lvlf2("Wrote %d runs to %s", rf.Rows(), path)
	return f.Close()
}

func joinRow(fields []string) string {
	return strings.Join(fields, ", ") + "\n"
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// formatFloat writes the shortest representation that parses back to f, so
// 0.095 stays 0.095.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// RunConfig represents the configuration to apply for one run: the global
// options of the file merged with the options of its row.
type RunConfig struct {
	fields map[string]string
}

// NewRunConfig returns an empty RunConfig.
func NewRunConfig() *RunConfig {
	return &RunConfig{fields: make(map[string]string)}
}

// The header values keep their quotes in the file, Get strips them.
var replacer = strings.NewReplacer("\"", "", "'", "")

// Get returns the value of the field, case-insensitive.
func (r *RunConfig) Get(field string) string {
	return replacer.Replace(r.fields[strings.ToLower(field)])
}

// Put inserts a new field - value relationship.
func (r *RunConfig) Put(field, value string) {
	r.fields[strings.ToLower(field)] = value
}

// Clone returns a copy of this RunConfig.
func (r *RunConfig) Clone() *RunConfig {
	rc := NewRunConfig()
	for k, v := range r.fields {
		rc.fields[k] = v
	}
	return rc
}

// RunConfigs is the content of a run-file as read by ReadRunFile.
type RunConfigs struct {
	Header  Header
	Columns []string
	Runs    []RunConfig
}

// ReadRunFile reads in a run-file and returns one RunConfig per table row.
// Lines of the header starting with '#' are ignored.
func ReadRunFile(filename string) (*RunConfigs, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, xerrors.Errorf("couldn't open run-file: %v", err)
	}
	defer file.Close()
	return ParseRunFile(file)
}

// ParseRunFile does the work of ReadRunFile on a reader.
func ParseRunFile(r io.Reader) (*RunConfigs, error) {
	rcs := &RunConfigs{}
	master := NewRunConfig()
	var header bytes.Buffer

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}
		if text[0] == '#' {
			continue
		}
		vals := strings.SplitN(text, "=", 2)
		if len(vals) != 2 {
			return nil, xerrors.Errorf("line %q is not properly formatted ( key = value )", text)
		}
		master.Put(strings.TrimSpace(vals[0]), strings.TrimSpace(vals[1]))
		header.WriteString(text + "\n")
	}
	if _, err := toml.Decode(header.String(), &rcs.Header); err != nil {
		return nil, xerrors.Errorf("decoding header: %v", err)
	}

	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if rcs.Columns == nil {
			rcs.Columns = splitRow(text)
			continue
		}
		values := splitRow(text)
		if len(values) != len(rcs.Columns) {
			return nil, xerrors.Errorf("row %q has %d values for %d columns",
				text, len(values), len(rcs.Columns))
		}
		rc := master.Clone()
		for i, v := range values {
			rc.Put(rcs.Columns[i], v)
		}
		rcs.Runs = append(rcs.Runs, *rc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rcs, nil
}

func splitRow(text string) []string {
	fields := strings.Split(text, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// String returns a short description of the file, for the logs.
func (rcs *RunConfigs) String() string {
	return fmt.Sprintf("%s: %d runs of %s", rcs.Header.Simulation, len(rcs.Runs),
		strings.Join(rcs.Columns, ", "))
}
