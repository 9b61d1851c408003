// simgen writes the run-files of the gossip BLS experiments.
//
// Usage:
//
//	simgen basic [suffix]  # simulations.toml from simulation_data[_suffix].txt
//	simgen reference       # simulations_ref_1.toml
//	simgen compare         # simulations_ref_1.toml and simulations_new_1.toml
//	simgen show file.toml
package main

import (
	"os"
	"path/filepath"

	"github.com/dedis/student-19-gossip-bls/simulation"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
	"gopkg.in/urfave/cli.v1"
)

const (
	basicFile     = "simulations.toml"
	referenceFile = "simulations_ref_1.toml"
	bundleFile    = "simulations_new_1.toml"
)

var seedFlag = cli.Int64Flag{
	Name:  "seed",
	Value: simulation.DefaultSeed,
	Usage: "seed of the failure split",
}

var cmds = cli.Commands{
	{
		Name:      "basic",
		Usage:     "repeat the rows of the hand written data table",
		ArgsUsage: "[suffix]",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "rounds, r",
				Value: simulation.BasicRounds,
				Usage: "how many times each row is run",
			},
		},
		Action: basic,
	},
	{
		Name:   "reference",
		Usage:  "sweep of the reference protocol over 4..25 nodes",
		Flags:  []cli.Flag{seedFlag},
		Action: reference,
	},
	{
		Name:   "compare",
		Usage:  "same networks and failures for both protocols",
		Flags:  []cli.Flag{seedFlag},
		Action: compare,
	},
	{
		Name:      "show",
		Usage:     "read back a run-file",
		ArgsUsage: "file.toml",
		Action:    show,
	},
}

func createApp() *cli.App {
	cliApp := cli.NewApp()
	cliApp.Name = "simgen"
	cliApp.Usage = "Generate the simulation run-files."
	cliApp.Version = "0.1"
	cliApp.Commands = cmds
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
		cli.StringFlag{
			Name:  "dir",
			Value: ".",
			Usage: "directory of the data tables and the run-files",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	return cliApp
}

func main() {
	log.ErrFatal(createApp().Run(os.Args))
}

func basic(c *cli.Context) error {
	dir := c.GlobalString("dir")
	rf, err := simulation.BasicRunFile(simulation.DataPath(dir, c.Args().First()), c.Int("rounds"))
	if err != nil {
		return err
	}
	return rf.Save(filepath.Join(dir, basicFile))
}

func reference(c *cli.Context) error {
	rf, err := simulation.ReferenceSweep(c.Int64("seed"))
	if err != nil {
		return err
	}
	return rf.Save(filepath.Join(c.GlobalString("dir"), referenceFile))
}

func compare(c *cli.Context) error {
	ref, bundle, err := simulation.ComparisonSweep(c.Int64("seed"))
	if err != nil {
		return err
	}
	dir := c.GlobalString("dir")
	if err := ref.Save(filepath.Join(dir, referenceFile)); err != nil {
		return err
	}
	return bundle.Save(filepath.Join(dir, bundleFile))
}

func show(c *cli.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("please give the run-file to show")
	}
	rcs, err := simulation.ReadRunFile(c.Args().First())
	if err != nil {
		return err
	}
	log.Info(rcs)
	log.Infof("%+v", rcs.Header)
	return nil
}
