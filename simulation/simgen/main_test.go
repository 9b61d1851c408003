package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/dedis/student-19-gossip-bls/simulation"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func TestSimgen(t *testing.T) {
	tmp, err := ioutil.TempDir("", "simgen")
	require.NoError(t, err)
	defer os.RemoveAll(tmp)

	cliApp := createApp()
	require.NoError(t, cliApp.Run([]string{"", "--dir", tmp, "compare"}))

	ref, err := simulation.ReadRunFile(filepath.Join(tmp, referenceFile))
	require.NoError(t, err)
	bundle, err := simulation.ReadRunFile(filepath.Join(tmp, bundleFile))
	require.NoError(t, err)
	require.Equal(t, len(ref.Runs), len(bundle.Runs))
	require.Equal(t, "BlsCosiProtocol", ref.Header.Simulation)
	require.Equal(t, "BlsCosiBundleProtocol", bundle.Header.Simulation)
	require.Equal(t, "0.07", bundle.Runs[0].Get("gossiptick"))

	// The same seed writes the same file.
	first, err := ioutil.ReadFile(filepath.Join(tmp, referenceFile))
	require.NoError(t, err)
	require.NoError(t, cliApp.Run([]string{"", "--dir", tmp, "reference", "--seed", "42"}))
	require.NoError(t, cliApp.Run([]string{"", "--dir", tmp, "compare", "--seed", "42"}))
	second, err := ioutil.ReadFile(filepath.Join(tmp, referenceFile))
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, cliApp.Run([]string{"", "show", filepath.Join(tmp, bundleFile)}))
	require.Error(t, cliApp.Run([]string{"", "show"}))
}

func TestSimgen_Basic(t *testing.T) {
	tmp, err := ioutil.TempDir("", "simgen")
	require.NoError(t, err)
	defer os.RemoveAll(tmp)

	cliApp := createApp()
	// Missing data table.
	require.Error(t, cliApp.Run([]string{"", "--dir", tmp, "basic"}))

	table := []byte("Hosts, GossipTick\n20, 0.1\n30, 0.1\n")
	require.NoError(t, ioutil.WriteFile(filepath.Join(tmp, "simulation_data_big.txt"), table, 0644))
	require.NoError(t, cliApp.Run([]string{"", "--dir", tmp, "basic", "big"}))

	rcs, err := simulation.ReadRunFile(filepath.Join(tmp, basicFile))
	require.NoError(t, err)
	require.Equal(t, 2*simulation.BasicRounds, len(rcs.Runs))
	require.Equal(t, "30", rcs.Runs[len(rcs.Runs)-1].Get("hosts"))
}
