package analysis

import (
	"github.com/dedis/student-19-gossip-bls/results"
)

const failingHue = "{value} failing nodes"

// Builtin returns the analyses of the study, by name:
//
//	1  tree protocol against gossip protocol, with failing nodes
//	2  metrics by message delay
//	3  metrics by number of failing nodes
//	4  metrics by number of nodes, with and without tree aggregation
//	5  metrics by number of nodes, for several delays
//	6  metrics by gossip tick
//	7  metrics by number of rumor targets
//	8  metrics by number of shutdown targets
//	9  metrics by number of rumor targets at constant message rate
//	t  tree aggregation on and off, by message delay
func Builtin() []Analysis {
	return []Analysis{
		&Comparison{ID: "1", Reference: "simulations_ref_1", Gossip: "simulations_new_1"},
		&Sweep{
			ID:            "2",
			Sources:       []Source{{Name: "simulations_2"}},
			Params:        []string{"rounds", "hosts", "gossiptick", "rumorpeers", "shutdownpeers", "treemode"},
			X:             results.Delay,
			XLabel:        "message delay (s)",
			Hue:           "failingleaves",
			HueFormat:     failingHue,
			Kind:          Line,
			Title:         "Average {title} vs. message delay (n={n})",
			Suffix:        "by_delay",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "3",
			Sources:       []Source{{Name: "simulations_3"}},
			Params:        []string{"rounds", "hosts", "mindelay", "maxdelay", "gossiptick", "rumorpeers", "shutdownpeers", "treemode"},
			X:             "failingleaves",
			XLabel:        "failing nodes",
			Kind:          Scatter,
			Title:         "Average {title} vs. number of failing nodes (n={n})",
			Suffix:        "by_failing",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "4",
			Sources:       []Source{{Name: "simulations_4"}},
			Params:        []string{"rounds", "mindelay", "maxdelay", "gossiptick", "rumorpeers", "shutdownpeers"},
			X:             "hosts",
			XLabel:        "nodes",
			Hue:           "treemode",
			HueNames:      map[string]string{"1": "tree aggregation", "0": "no early aggregation"},
			Kind:          Line,
			Title:         "Average {title} vs. number of nodes (no failing nodes)",
			Suffix:        "by_mode",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "5",
			Sources:       []Source{{Name: "simulations_5"}},
			Params:        []string{"rounds", "gossiptick", "rumorpeers", "shutdownpeers", "treemode"},
			X:             "hosts",
			XLabel:        "nodes",
			Hue:           results.Delay,
			HueFormat:     "average message delay: {value}s",
			Kind:          Line,
			Title:         "Average {title} vs. number of nodes (no failing nodes)",
			Suffix:        "by_num_nodes",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "6",
			Sources:       []Source{{Name: "simulations_6"}},
			Params:        []string{"rounds", "hosts", "mindelay", "maxdelay", "rumorpeers", "shutdownpeers", "treemode"},
			X:             "gossiptick",
			XLabel:        "gossip tick (s)",
			Hue:           "failingleaves",
			HueFormat:     failingHue,
			Kind:          Line,
			Title:         "Average {title} vs. gossip tick (n={n})",
			Suffix:        "by_gossip_tick",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "7",
			Sources:       []Source{{Name: "simulations_7"}},
			Params:        []string{"rounds", "hosts", "mindelay", "maxdelay", "gossiptick", "shutdownpeers", "treemode"},
			X:             "rumorpeers",
			XLabel:        "rumor targets",
			Hue:           "failingleaves",
			HueFormat:     failingHue,
			Kind:          Scatter,
			Title:         "Average {title} vs. number of rumor targets (n={n})",
			Suffix:        "by_rumor_peers",
			CheckFailures: true,
		},
		&Sweep{
			ID:            "8",
			Sources:       []Source{{Name: "simulations_8"}},
			Params:        []string{"rounds", "hosts", "mindelay", "maxdelay", "gossiptick", "rumorpeers", "treemode"},
			X:             "shutdownpeers",
			XLabel:        "shutdown targets",
			Hue:           "failingleaves",
			HueFormat:     failingHue,
			Kind:          Scatter,
			Title:         "Average {title} vs. number of shutdown targets (n={n})",
			Suffix:        "by_shutdown_peers",
			CheckFailures: true,
		},
		&Sweep{
			ID:        "9",
			Sources:   []Source{{Name: "simulations_9"}},
			Params:    []string{"rounds", "hosts", "mindelay", "maxdelay", "shutdownpeers", "treemode"},
			X:         "rumorpeers",
			XLabel:    "rumor targets",
			Hue:       "failingleaves",
			HueFormat: failingHue,
			Kind:      Scatter,
			Title: "Average {title} vs. number of rumor targets\n" +
				"(gossip tick adjusted to keep messages per node per second\nconstant) (n={n})",
			Suffix:        "by_rumor_peers",
			CheckFailures: true,
		},
		&Sweep{
			ID: "t",
			Sources: []Source{
				{Name: "simulations_t_on", Label: "treemode on",
					Expect: map[string]float64{"rounds": 1, "failingleaves": 0, "treemode": 1}},
				{Name: "simulations_t_off", Label: "treemode off",
					Expect: map[string]float64{"rounds": 1, "failingleaves": 0, "treemode": 0}},
			},
			Params: []string{"rounds", "hosts", "failingleaves", "gossiptick", "rumorpeers", "shutdownpeers", "treemode"},
			Equal:  []string{"mindelay", "maxdelay"},
			X:      "mindelay",
			XLabel: "message delay (s)",
			Kind:   Line,
			Title:  "{title}: {n} nodes, no failures",
			Suffix: "by_delay",
		},
	}
}
