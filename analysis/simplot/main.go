// simplot draws the figures of the gossip BLS experiments from the result
// tables of the simulations.
//
// Usage:
//
//	simplot              # all the analyses
//	simplot 1 4 t        # some of them
//	simplot list
package main

import (
	"os"

	"github.com/dedis/student-19-gossip-bls/analysis"
	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"
)

var cmds = cli.Commands{
	{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "list the analyses",
		Action:  list,
	},
}

func createApp() *cli.App {
	cliApp := cli.NewApp()
	cliApp.Name = "simplot"
	cliApp.Usage = "Plot the results of the simulations."
	cliApp.ArgsUsage = "[analysis...]"
	cliApp.Version = "0.1"
	cliApp.Commands = cmds
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
		cli.StringFlag{
			Name:  "data",
			Value: "test_data",
			Usage: "directory of the result tables",
		},
		cli.StringFlag{
			Name:  "figures",
			Value: "figures",
			Usage: "directory where the figures are written",
		},
		cli.StringFlag{
			Name:  "sweeps",
			Usage: "TOML file with more sweeps",
		},
		cli.IntFlag{
			Name:  "bootstrap",
			Value: analysis.NewEnv("", "").Bootstrap.Samples,
			Usage: "resamplings of the confidence intervals",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	cliApp.Action = run
	return cliApp
}

func main() {
	log.ErrFatal(createApp().Run(os.Args))
}

// analyses returns the builtin analyses and the ones of the sweeps file.
func analyses(c *cli.Context) ([]analysis.Analysis, error) {
	all := analysis.Builtin()
	if path := c.GlobalString("sweeps"); path != "" {
		sweeps, err := analysis.LoadSweeps(path)
		if err != nil {
			return nil, err
		}
		all = analysis.WithSweeps(all, sweeps)
	}
	return all, nil
}

func run(c *cli.Context) error {
	all, err := analyses(c)
	if err != nil {
		return err
	}
	selected, err := analysis.Select(all, c.Args())
	if err != nil {
		return err
	}
	env := analysis.NewEnv(c.GlobalString("data"), c.GlobalString("figures"))
	env.Bootstrap.Samples = c.GlobalInt("bootstrap")
	return analysis.RunAll(env, selected)
}

func list(c *cli.Context) error {
	all, err := analyses(c)
	if err != nil {
		return err
	}
	for _, name := range analysis.Names(all) {
		log.Info(name)
	}
	return nil
}
