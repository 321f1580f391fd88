package paco

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	config := testConfig(t, func(c *Config) {
		c.Archive.PopulationCapacity = 6
		c.Sampler.DynamicFunction = "always"
	})
	a, s := newTestSampler(t, config, 21)
	fill(t, a, s, 5, 4, 2)

	path := filepath.Join(t.TempDir(), "archive.gz")
	require.NoError(t, a.SaveCheckpoint(path))

	loaded, base, err := LoadCheckpoint(path, config)
	require.NoError(t, err)
	assert.Equal(t, a.BaseSignature(), nn.Signature(base))
	assert.Equal(t, a.BaseIdentities(), loaded.BaseIdentities())
	assert.Equal(t, a.Stats(), loaded.Stats())
	assert.Equal(t, a.next, loaded.next)

	want, got := a.Ants(), loaded.Ants()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Fitness, got[i].Fitness)
		assert.Equal(t, want[i].Identities, got[i].Identities)
		assert.Equal(t, nn.TakeSnapshot(want[i].Network), nn.TakeSnapshot(got[i].Network))
	}
	wantConns, wantBiases := valueMultisets(a)
	gotConns, gotBiases := valueMultisets(loaded)
	requireSameMultisets(t, wantConns, gotConns)
	requireSameMultisets(t, wantBiases, gotBiases)
	assert.Equal(t, a.pairCounts, loaded.pairCounts)

	// The restored archive keeps working with a sampler.
	resumed, err := NewSampler(base, loaded, config, nil)
	require.NoError(t, err)
	fill(t, loaded, resumed, 1, 3, 1)
	assert.Equal(t, 6, loaded.Len())
}

func TestCheckpointRestoresIntoOtherRepresentation(t *testing.T) {
	config := testConfig(t, func(c *Config) { c.Sampler.DynamicFunction = "always" })
	a, s := newTestSampler(t, config, 22)
	fill(t, a, s, 2, 3, 1)
	path := filepath.Join(t.TempDir(), "archive.gz")
	require.NoError(t, a.SaveCheckpoint(path))

	graph := testConfig(t, func(c *Config) {
		c.Sampler.DynamicFunction = "always"
		c.Network.Representation = string(nn.Graph)
	})
	loaded, base, err := LoadCheckpoint(path, graph)
	require.NoError(t, err)
	_, ok := base.(*nn.GraphNetwork)
	assert.True(t, ok)
	assert.Equal(t, a.Len(), loaded.Len())
	for i, ant := range loaded.Ants() {
		assert.Equal(t, a.Ants()[i].Signature(), ant.Signature())
	}
}

func TestLoadCheckpointErrors(t *testing.T) {
	config := testConfig(t, nil)
	dir := t.TempDir()

	_, _, err := LoadCheckpoint(filepath.Join(dir, "missing.gz"), config)
	assert.ErrorContains(t, err, "failed to open checkpoint file")

	garbage := filepath.Join(dir, "garbage.gz")
	require.NoError(t, os.WriteFile(garbage, []byte("not gzip"), 0o644))
	_, _, err = LoadCheckpoint(garbage, config)
	assert.ErrorContains(t, err, "gzip")

	_, a := newTestArchive(t, config)
	assert.Error(t, a.SaveCheckpoint(filepath.Join(dir, "no", "such", "dir.gz")))
}
