package simulation

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// Names of the simulations as registered in onet.
const (
	ReferenceProtocol = "BlsCosiProtocol"
	BundleProtocol    = "BlsCosiBundleProtocol"
)

// Parameters of the comparison between the two protocols.
const (
	ComparisonRounds = 25
	MinDelay         = 0.095
	MaxDelay         = 0.105
	GossipTick       = 0.07
	RumorPeers       = 3
	ShutdownPeers    = 2
	TreeMode         = true
)

// ReferenceDelay is the fixed message delay of the reference sweep.
const ReferenceDelay = 0.1

// BasicRounds is how many times every row of the basic data table is run.
const BasicRounds = 10

// ComparisonHosts are the network sizes compared between the two protocols.
var ComparisonHosts = []int{7, 16, 25, 36}

// FailureCounts returns the numbers of failing nodes to simulate for a given
// number of hosts.
type FailureCounts func(hosts int) []int

// FixedFailures returns the same failure counts for every size.
func FixedFailures(counts ...int) FailureCounts {
	return func(int) []int { return counts }
}

// ByzantineFailures returns 0..f with f = (hosts-1)/3, the most failures a
// byzantine tolerant protocol is expected to survive.
func ByzantineFailures(hosts int) []int {
	f := (hosts - 1) / 3
	counts := make([]int, f+1)
	for i := range counts {
		counts[i] = i
	}
	return counts
}

// Span returns the integers from start up to, but not including, stop.
func Span(start, stop int) []int {
	var s []int
	for i := start; i < stop; i++ {
		s = append(s, i)
	}
	return s
}

// ReferenceRuns enumerates hosts x failures, drawing the split of the failures
// for each of the rounds repetitions. Failure counts larger than the number of
// non-root nodes are skipped.
func ReferenceRuns(s *Sampler, hosts []int, failures FailureCounts,
	rounds int, minDelay, maxDelay float64) ([]Run, error) {
	var runs []Run
	for _, n := range hosts {
		subtrees := Subtrees(n)
		for _, f := range failures(n) {
			if f > n-1 {
				log.Lvl3("Skipping", f, "failures for", n, "hosts")
				continue
			}
			for r := 0; r < rounds; r++ {
				subl, leaves, err := s.SplitFailures(n, f)
				if err != nil {
					return nil, err
				}
				runs = append(runs, ReferenceRun{
					Hosts:             n,
					NSubtrees:         subtrees,
					FailingSubleaders: subl,
					FailingLeafs:      leaves,
					MinDelay:          minDelay,
					MaxDelay:          maxDelay,
				})
			}
		}
	}
	return runs, nil
}

// BundleRuns enumerates hosts x failures with the gossip parameters of
// template, each combination rounds times.
func BundleRuns(hosts []int, failures FailureCounts, rounds int, template BundleRun) []Run {
	var runs []Run
	for _, n := range hosts {
		for _, f := range failures(n) {
			run := template
			run.Hosts = n
			run.FailingLeaves = f
			for r := 0; r < rounds; r++ {
				runs = append(runs, run)
			}
		}
	}
	return runs
}

// ReferenceSweep is the sweep of the reference protocol over 4..25 nodes with
// 0, 2 or 4 failing nodes.
func ReferenceSweep(seed int64) (*RunFile, error) {
	runs, err := ReferenceRuns(NewSampler(seed), Span(4, 26),
		FixedFailures(0, 2, 4), 1, ReferenceDelay, ReferenceDelay)
	if err != nil {
		return nil, err
	}
	return &RunFile{Header: NewHeader(ReferenceProtocol, 1, 1), Runs: runs}, nil
}

// ComparisonSweep returns the run-files of the reference and of the gossip
// protocol over the same networks and the same number of failures.
func ComparisonSweep(seed int64) (ref, bundle *RunFile, err error) {
	runs, err := ReferenceRuns(NewSampler(seed), ComparisonHosts, ByzantineFailures,
		ComparisonRounds, MinDelay, MaxDelay)
	if err != nil {
		return nil, nil, err
	}
	ref = &RunFile{Header: NewHeader(ReferenceProtocol, 1, 1), Runs: runs}
	bundle = &RunFile{
		Header: NewHeader(BundleProtocol, 1, 200),
		Runs: BundleRuns(ComparisonHosts, ByzantineFailures, ComparisonRounds, BundleRun{
			MinDelay:      MinDelay,
			MaxDelay:      MaxDelay,
			GossipTick:    GossipTick,
			RumorPeers:    RumorPeers,
			ShutdownPeers: ShutdownPeers,
			TreeMode:      TreeMode,
		}),
	}
	return ref, bundle, nil
}

// DataPath returns the hand written data table for the basic run-file, with
// an optional suffix: simulation_data.txt or simulation_data_<suffix>.txt.
func DataPath(dir, suffix string) string {
	name := "simulation_data.txt"
	if suffix != "" {
		name = "simulation_data_" + suffix + ".txt"
	}
	return filepath.Join(dir, name)
}

// BasicRunFile copies the table at dataPath below the header of the gossip
// protocol, every row rounds times.
func BasicRunFile(dataPath string, rounds int) (*RunFile, error) {
	f, err := os.Open(dataPath)
	if err != nil {
		return nil, xerrors.Errorf("opening data table: %v", err)
	}
	defer f.Close()

	rf := &RunFile{Header: NewHeader(BundleProtocol, 8, 200), Repeat: rounds}
	var columns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if columns == nil {
			columns = splitRow(text)
			continue
		}
		rf.Runs = append(rf.Runs, RawRun{Names: columns, Fields: splitRow(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading %s: %v", dataPath, err)
	}
	return rf, nil
}
