package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dedis/student-19-gossip-bls/results"
	"github.com/stretchr/testify/require"
)

const refHeader = "rounds, hosts, nsubtrees, failingsubleaders, failingleafs, mindelay, maxdelay, " +
	"round_wall_avg, round_wall_sum, bandwidth_msg_tx_sum, bandwidth_tx_sum"

// comparisonTables returns the runs of both protocols for 7 and 16 hosts
// with up to 2 failing nodes. The reference protocol fails when a
// subleader fails.
func comparisonTables() (ref, gossip []string) {
	for _, hosts := range []int{7, 16} {
		for failing := 0; failing <= 2; failing++ {
			for round := 0; round < 2; round++ {
				subleaders := 0
				if failing > 0 && round == 1 {
					subleaders = 1
				}
				if subleaders > 0 {
					ref = append(ref, fmt.Sprintf("1, %d, 2, %d, %d, 0.1, 0.1, , , 10, 1000",
						hosts, subleaders, failing-subleaders))
				} else {
					ref = append(ref, fmt.Sprintf("1, %d, 2, 0, %d, 0.1, 0.1, 0.3, 0.3, %d, %d",
						hosts, failing, hosts, hosts*100))
				}
				gossip = append(gossip, gossipRow(1, hosts, failing, 0.1, 0.07, 3, 2, 1))
			}
		}
	}
	return
}

func TestComparison_Run(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	ref, gossip := comparisonTables()
	env.write(t, "simulations_ref_1", refHeader, ref)
	env.write(t, "simulations_new_1", gossipHeader, gossip)

	require.NoError(t, findBuiltin(t, "1").Run(env.Env))
	env.requireFigures(t, "1", "failures",
		"round_wall_sum_7", "bandwidth_msg_tx_sum_7", "bandwidth_tx_sum_7",
		"round_wall_sum_16", "bandwidth_msg_tx_sum_16", "bandwidth_tx_sum_16")

	records := readSummary(t, filepath.Join(env.FigureDir, "1", "failures.csv"))
	require.Equal(t, 4, len(records))
	// One failure out of two rounds with failing nodes.
	require.Equal(t, "0", records[1][3])
	require.Equal(t, "0.5", records[2][3])
	require.Equal(t, "0.5", records[3][3])

	records = readSummary(t, filepath.Join(env.FigureDir, "1", "round_wall_sum_16.csv"))
	require.Equal(t, "old protocol instance", records[1][0])
	// The failed runs of the reference are not drawn.
	require.Equal(t, "2", records[1][2])
	require.Equal(t, "1", records[2][2])
}

func TestComparison_RunMismatch(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	ref, gossip := comparisonTables()
	gossip[3] = gossipRow(1, 7, 0, 0.1, 0.07, 3, 2, 1)
	env.write(t, "simulations_ref_1", refHeader, ref)
	env.write(t, "simulations_new_1", gossipHeader, gossip)

	err := findBuiltin(t, "1").Run(env.Env)
	require.Error(t, err)
	require.True(t, results.IsSanityError(err))
	require.Contains(t, err.Error(), "failingleaves")

	_, gossip = comparisonTables()
	gossip = gossip[1:]
	env.write(t, "simulations_new_1", gossipHeader, gossip)
	err = findBuiltin(t, "1").Run(env.Env)
	require.True(t, results.IsSanityError(err))
}

func TestSameRuns(t *testing.T) {
	ref, gossip := comparisonTables()
	parse := func(header string, rows []string) *results.Table {
		tab, err := results.Parse(strings.NewReader(header + "\n" + strings.Join(rows, "\n")))
		require.NoError(t, err)
		return tab
	}
	require.NoError(t, sameRuns(parse(refHeader, ref), parse(gossipHeader, gossip)))

	gossip[0] = gossipRow(2, 7, 0, 0.1, 0.07, 3, 2, 1)
	err := sameRuns(parse(refHeader, ref), parse(gossipHeader, gossip))
	require.Error(t, err)
	require.Equal(t, "rounds", err.(*results.SanityError).Column)
}
