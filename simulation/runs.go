package simulation

import (
	"strconv"
)

// ReferenceRun is one run of the tree based BlsCosiProtocol. The failing
// nodes are split between the subleaders and the leaves of the tree.
type ReferenceRun struct {
	Hosts             int
	NSubtrees         int
	FailingSubleaders int
	FailingLeafs      int
	MinDelay          float64
	MaxDelay          float64
}

var referenceColumns = []string{"Hosts", "NSubtrees", "FailingSubleaders",
	"FailingLeafs", "MinDelay", "MaxDelay"}

// Columns implements Run.
func (r ReferenceRun) Columns() []string { return referenceColumns }

// Values implements Run.
func (r ReferenceRun) Values() []string {
	return []string{
		strconv.Itoa(r.Hosts),
		strconv.Itoa(r.NSubtrees),
		strconv.Itoa(r.FailingSubleaders),
		strconv.Itoa(r.FailingLeafs),
		formatFloat(r.MinDelay),
		formatFloat(r.MaxDelay),
	}
}

// BundleRun is one run of the gossip based BlsCosiBundleProtocol.
type BundleRun struct {
	Hosts         int
	FailingLeaves int
	MinDelay      float64
	MaxDelay      float64
	GossipTick    float64
	RumorPeers    int
	ShutdownPeers int
	TreeMode      bool
}

var bundleColumns = []string{"Hosts", "FailingLeaves", "MinDelay", "MaxDelay",
	"GossipTick", "RumorPeers", "ShutdownPeers", "TreeMode"}

// Columns implements Run.
func (r BundleRun) Columns() []string { return bundleColumns }

// Values implements Run. TreeMode is written as 1 or 0.
func (r BundleRun) Values() []string {
	treeMode := "0"
	if r.TreeMode {
		treeMode = "1"
	}
	return []string{
		strconv.Itoa(r.Hosts),
		strconv.Itoa(r.FailingLeaves),
		formatFloat(r.MinDelay),
		formatFloat(r.MaxDelay),
		formatFloat(r.GossipTick),
		strconv.Itoa(r.RumorPeers),
		strconv.Itoa(r.ShutdownPeers),
		treeMode,
	}
}

// RawRun is a row copied verbatim from a hand written table.
type RawRun struct {
	Names  []string
	Fields []string
}

// Columns implements Run.
func (r RawRun) Columns() []string { return r.Names }

// Values implements Run.
func (r RawRun) Values() []string { return r.Fields }
