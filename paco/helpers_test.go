package paco

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/stretchr/testify/require"
)

// testConfig returns a validated config for a 2-input, 1-output network.
// edit runs before validation.
func testConfig(t *testing.T, edit func(c *Config)) *Config {
	t.Helper()
	c := DefaultConfig()
	c.Network.NumInputs = 2
	c.Network.NumOutputs = 1
	if edit != nil {
		edit(c)
	}
	require.NoError(t, c.Validate())
	return c
}

func newTestArchive(t *testing.T, config *Config) (nn.Network, *Archive) {
	t.Helper()
	base, err := config.BaseNetwork()
	require.NoError(t, err)
	a, err := NewArchive(base, config)
	require.NoError(t, err)
	return base, a
}

func newTestSampler(t *testing.T, config *Config, seed int64) (*Archive, *Sampler) {
	t.Helper()
	base, a := newTestArchive(t, config)
	s, err := NewSampler(base, a, config, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return a, s
}

// evaluated returns an ant on a copy of base with the given weights, in
// connection order, and fitness.
func evaluated(t *testing.T, a *Archive, base nn.Network, fitness float64, weights ...float64) *Ant {
	t.Helper()
	net := base.Clone()
	for i, c := range slices.Collect(nn.Connections(net)) {
		if i < len(weights) {
			require.NoError(t, net.SetWeight(c.From, c.To, weights[i]))
		}
	}
	ant := NewAnt(net, a.BaseIdentities())
	ant.SetFitness(fitness)
	return ant
}

// xorFitness scores a network on XOR; larger is better.
func xorFitness(net nn.Network) float64 {
	cases := [][3]float64{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	errSum := 0.0
	for _, c := range cases {
		net.Reset()
		out, err := net.Process([]float64{c[0], c[1]})
		if err != nil {
			return 0
		}
		d := out[0] - c[2]
		errSum += d * d
	}
	return 4 - errSum
}

// fill runs rounds generations of batch candidates against s, archiving
// all of them with their XOR fitness.
func fill(t *testing.T, a *Archive, s *Sampler, rounds, batch, workers int) []*Ant {
	t.Helper()
	var all []*Ant
	for r := 0; r < rounds; r++ {
		ants, err := s.CreateCandidates(batch, workers)
		require.NoError(t, err)
		require.Len(t, ants, batch)
		for _, ant := range ants {
			ant.SetFitness(xorFitness(ant.Network))
			require.NoError(t, a.Add(ant))
		}
		all = append(all, ants...)
	}
	return all
}

// valueMultisets copies every connection and bias multiset of a.
func valueMultisets(a *Archive) (map[Identity][]float64, map[Identity][]float64) {
	conns := make(map[Identity][]float64)
	for id, vs := range a.connValues {
		conns[id] = slices.Clone(vs)
	}
	biases := make(map[Identity][]float64)
	for id, vs := range a.biasValues {
		biases[id] = slices.Clone(vs)
	}
	return conns, biases
}

func requireSameMultisets(t *testing.T, want, got map[Identity][]float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for id, vs := range want {
		require.ElementsMatch(t, vs, got[id], "identity %d", id)
	}
}
