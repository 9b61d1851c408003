package simulation

import (
	"crypto/cipher"
	"encoding/binary"
	"math"
	"math/big"

	"go.dedis.ch/kyber/v3/util/random"
	"go.dedis.ch/kyber/v3/xof/blake2xb"
	"golang.org/x/xerrors"
)

// DefaultSeed is the seed of all the generated run-files, so that the same
// failures are drawn every time a file is generated.
const DefaultSeed = 42

// Sampler draws pseudo-random samples out of a stream seeded once. Two
// samplers with the same seed return the same samples in the same order.
type Sampler struct {
	stream cipher.Stream
}

// NewSampler returns a sampler whose randomness is a blake2xb stream seeded
// with seed.
func NewSampler(seed int64) *Sampler {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seed))
	return &Sampler{stream: blake2xb.New(buf)}
}

// Intn returns a uniform integer in [0, n). n must be positive.
//
// random.Int never returns 0, so the draw is done here: the smallest number
// of bits holding n-1 is read from the stream until it is below n.
func (s *Sampler) Intn(n int) int {
	mod := big.NewInt(int64(n))
	bitlen := uint(big.NewInt(int64(n - 1)).BitLen())
	for {
		i := new(big.Int).SetBytes(random.Bits(bitlen, false, s.stream))
		if i.Cmp(mod) < 0 {
			return int(i.Int64())
		}
	}
}

// Sample returns k elements of population chosen without replacement, using
// reservoir sampling. The population is not modified.
func (s *Sampler) Sample(population []int, k int) ([]int, error) {
	if k < 0 || k > len(population) {
		return nil, xerrors.Errorf("cannot sample %d out of %d", k, len(population))
	}
	reservoir := make([]int, k)
	copy(reservoir, population[:k])
	for i := k; i < len(population); i++ {
		if j := s.Intn(i + 1); j < k {
			reservoir[j] = population[i]
		}
	}
	return reservoir, nil
}

// Subtrees returns the number of subtrees of the reference protocol's tree
// for the given number of hosts: the integer square root of the non-root
// nodes.
func Subtrees(hosts int) int {
	return int(math.Sqrt(float64(hosts - 1)))
}

// SplitFailures distributes failing nodes over the subleaders and the leaves
// of a tree of hosts nodes. Every non-root node is equally likely to fail.
func (s *Sampler) SplitFailures(hosts, failing int) (subleaders, leaves int, err error) {
	subtrees := Subtrees(hosts)
	population := make([]int, hosts-1)
	for i := 0; i < subtrees; i++ {
		population[i] = 1
	}
	chosen, err := s.Sample(population, failing)
	if err != nil {
		return 0, 0, xerrors.Errorf("splitting failures of %d hosts: %v", hosts, err)
	}
	for _, c := range chosen {
		subleaders += c
	}
	return subleaders, failing - subleaders, nil
}
