package results

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

const testTable = `rounds, hosts, failingleaves, mindelay, maxdelay, gossiptick, rumorpeers, shutdownpeers, treemode, round_wall_avg, round_wall_sum, bandwidth_msg_tx_sum, bandwidth_tx_sum
1, 16, 0, 0.1, 0.1, 0.1, 2, 2, 1, 0.5, 0.5, 100, 2000
1, 16, 2, 0.1, 0.1, 0.1, 2, 2, 1, 0.7, 0.7, 120, 2400
1, 16, 2, 0.2, 0.2, 0.1, 2, 2, 1, 0.9, 0.9, 140, 2800
1, 16, 5, 0.2, 0.2, 0.1, 2, 2, 1, , , , `

func parseTest(t *testing.T, s string) *Table {
	tab, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return tab
}

func TestParse(t *testing.T) {
	tab := parseTest(t, testTable)
	require.Equal(t, 4, tab.Len())
	require.Equal(t, 13, len(tab.Columns()))
	require.Equal(t, "rounds", tab.Columns()[0])
	require.True(t, tab.Has("HOSTS"))
	require.False(t, tab.Has("nsubtrees"))

	c, err := tab.Column("round_wall_avg")
	require.NoError(t, err)
	require.True(t, c.Numeric)
	require.False(t, c.IsNull(0))
	require.True(t, c.IsNull(3))
	require.Equal(t, 0.7, c.Values[1])

	r := tab.Row(2)
	require.Equal(t, 0.2, r.Get("mindelay"))
	require.True(t, r.IsNull("nsubtrees"))
	require.True(t, tab.Row(3).IsNull("bandwidth_tx_sum"))

	_, err = tab.Column("missing")
	require.Error(t, err)

	_, err = Parse(strings.NewReader(""))
	require.Error(t, err)
	_, err = Parse(strings.NewReader("a, a\n1, 2"))
	require.Error(t, err)
	_, err = Parse(strings.NewReader("a, b\n1, 2, 3"))
	require.Error(t, err)

	tab = parseTest(t, "name, v\nfoo, NaN\nbar, 2")
	c, err = tab.Column("name")
	require.NoError(t, err)
	require.False(t, c.Numeric)
	require.Equal(t, "bar", c.Raw[1])
	require.True(t, tab.Row(0).IsNull("v"))
}

func TestTable_Series(t *testing.T) {
	tab := parseTest(t, testTable)

	delay, err := tab.Series(Delay)
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.1, 0.2, 0.2}, delay)

	failing, err := tab.Series(Failing)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2, 2, 5}, failing)

	ref := parseTest(t, "hosts, failingsubleaders, failingleafs\n7, 1, 1\n7, 0, 2\n7, 2, 0")
	failing, err = ref.Series(Failing)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 2}, failing)

	_, err = ref.Series(Delay)
	require.Error(t, err)
	_, err = ref.Series("unknown")
	require.Error(t, err)

	// Series returns a copy.
	hosts, err := ref.Series("hosts")
	require.NoError(t, err)
	hosts[0] = 100
	require.Equal(t, 7.0, ref.Row(0).Get("hosts"))
}

func TestTable_Filter(t *testing.T) {
	tab := parseTest(t, testTable)

	ok := tab.Filter(func(r Record) bool { return !r.IsNull(RoundWallAvg) })
	require.Equal(t, 3, ok.Len())
	require.Equal(t, 4, tab.Len())

	two, err := tab.Where("failingleaves", 2)
	require.NoError(t, err)
	require.Equal(t, 2, two.Len())
	require.Equal(t, 0.9, two.Row(1).Get(RoundWallSum))

	slow, err := tab.Where(Delay, 0.2)
	require.NoError(t, err)
	require.Equal(t, 2, slow.Len())

	unique, err := tab.Unique("failingleaves")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2, 5}, unique)

	require.Equal(t, []float64{1, 2, 3}, Sorted([]float64{3, 1, math.NaN(), 2, 1}))
}

func TestLoadNamed(t *testing.T) {
	tmp, err := ioutil.TempDir("", "results")
	require.NoError(t, err)
	defer os.RemoveAll(tmp)

	require.NoError(t, ioutil.WriteFile(filepath.Join(tmp, "simulations_2.csv"), []byte(testTable), 0644))
	tab, err := LoadNamed(tmp, "simulations_2")
	require.NoError(t, err)
	require.Equal(t, 4, tab.Len())

	_, err = LoadNamed(tmp, "simulations_3")
	require.Error(t, err)
}
