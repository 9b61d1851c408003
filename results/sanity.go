package results

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/xerrors"
)

// DefaultParameters are the parameter columns an analysis expects to be
// constant unless it declares them as varying.
var DefaultParameters = []string{
	"rounds", "hosts", "failingleaves", "failingsubleaders", "failingleafs",
	"nsubtrees", "mindelay", "maxdelay", "gossiptick", "rumorpeers",
	"shutdownpeers", "treemode",
}

// Outcome columns checked when failures are not allowed.
const (
	RoundWallAvg      = "round_wall_avg"
	RoundWallSum      = "round_wall_sum"
	BandwidthMsgTxSum = "bandwidth_msg_tx_sum"
	BandwidthTxSum    = "bandwidth_tx_sum"
)

// SanityError is returned when a table does not hold what the analysis
// expects. The analysis must not go on.
type SanityError struct {
	Column string
	Row    int
	Reason string
}

func (e *SanityError) Error() string {
	return fmt.Sprintf("sanity check failed: column %s, row %d: %s", e.Column, e.Row, e.Reason)
}

// SanityChecks verifies that every column of params, except the ones of
// varying, holds a single value. If params is nil, DefaultParameters is used
// and the columns absent from the table are skipped; a column given
// explicitly must exist. With checkFailures, every run must have succeeded:
// round_wall_avg is set and the sums are set and non-zero.
func (t *Table) SanityChecks(params, varying []string, checkFailures bool) error {
	allowed := make(map[string]bool)
	for _, v := range varying {
		allowed[strings.ToLower(v)] = true
	}
	explicit := params != nil
	if !explicit {
		params = DefaultParameters
	}

	for _, name := range params {
		if allowed[strings.ToLower(name)] {
			continue
		}
		c, err := t.Column(name)
		if err != nil {
			if explicit {
				return &SanityError{Column: name, Row: -1, Reason: "missing column"}
			}
			continue
		}
		if err := constant(c); err != nil {
			return err
		}
	}

	if !checkFailures {
		return nil
	}
	c, err := t.Column(RoundWallAvg)
	if err != nil {
		return &SanityError{Column: RoundWallAvg, Row: -1, Reason: "missing column"}
	}
	for i := range c.Values {
		if c.IsNull(i) {
			return &SanityError{Column: RoundWallAvg, Row: i, Reason: "failed run"}
		}
	}
	for _, name := range []string{RoundWallSum, BandwidthMsgTxSum, BandwidthTxSum} {
		c, err := t.Column(name)
		if err != nil {
			return &SanityError{Column: name, Row: -1, Reason: "missing column"}
		}
		for i, v := range c.Values {
			if math.IsNaN(v) || v == 0 {
				return &SanityError{Column: name, Row: i, Reason: fmt.Sprintf("value %q", c.Raw[i])}
			}
		}
	}
	return nil
}

// constant uses the raw cells so that null cells count as a value.
func constant(c *Column) error {
	for i := 1; i < len(c.Raw); i++ {
		if !sameCell(c, 0, i) {
			return &SanityError{Column: c.Name, Row: i,
				Reason: fmt.Sprintf("%q differs from %q", c.Raw[i], c.Raw[0])}
		}
	}
	return nil
}

// sameCell compares two cells numerically when both are numbers, so that
// 0.1 and 0.10 are the same, even in a column holding some text.
func sameCell(c *Column, i, j int) bool {
	a, b := c.Values[i], c.Values[j]
	if !math.IsNaN(a) && !math.IsNaN(b) {
		return a == b
	}
	if isNullCell(c.Raw[i]) && isNullCell(c.Raw[j]) {
		return true
	}
	return c.Raw[i] == c.Raw[j]
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// IsSanityError returns whether err is, or wraps, a SanityError.
func IsSanityError(err error) bool {
	var se *SanityError
	return xerrors.As(err, &se)
}

// ExpectValue verifies that every cell of the column holds value.
func (t *Table) ExpectValue(name string, value float64) error {
	c, err := t.Column(name)
	if err != nil {
		return &SanityError{Column: name, Row: -1, Reason: "missing column"}
	}
	for i, v := range c.Values {
		if v != value {
			return &SanityError{Column: c.Name, Row: i,
				Reason: fmt.Sprintf("%q instead of %g", c.Raw[i], value)}
		}
	}
	return nil
}

// SameValues verifies that the columns hold the same value in every row.
func (t *Table) SameValues(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	first, err := t.Column(names[0])
	if err != nil {
		return &SanityError{Column: names[0], Row: -1, Reason: "missing column"}
	}
	for _, name := range names[1:] {
		c, err := t.Column(name)
		if err != nil {
			return &SanityError{Column: name, Row: -1, Reason: "missing column"}
		}
		for i := range c.Values {
			if !sameValue(c.Values[i], first.Values[i]) {
				return &SanityError{Column: c.Name, Row: i,
					Reason: fmt.Sprintf("%q differs from %s %q", c.Raw[i], first.Name, first.Raw[i])}
			}
		}
	}
	return nil
}
