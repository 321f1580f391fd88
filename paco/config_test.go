package paco

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[Network]
num_inputs = 2
num_outputs = 1
`

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Network.NumInputs = 2
	want.Network.NumOutputs = 1
	assert.Equal(t, want.Network, c.Network)
	assert.Equal(t, want.Archive, c.Archive)
	assert.Equal(t, want.Sampler, c.Sampler)
	assert.NotNil(t, c.Functions.Pheromone, "validation resolves the functions")
	assert.Equal(t, nn.Layered, c.Representation())
}

func TestParseConfigFullFile(t *testing.T) {
	c, err := ParseConfig([]byte(`
[Network]
num_inputs         = 3
num_outputs        = 2
hidden_layers      = 4 2
representation     = Graph # comments are stripped
hidden_activation  = tanh
output_activation  = identity
split_activation   = relu
initial_connection = direct
initial_weight     = 0.5

[Archive]
population_capacity   = 7
replacement_policy    = OLDEST
selection_policy      = recency
rank_weight           = exponential
rank_weight_q         = 0.1
reuse_split_knowledge = false ; off

[Sampler]
min_weight          = -2
max_weight          = 3
recurrence_disabled = no
seed                = 42
pheromone_function  = sqrt
deviation_function  = mad_sqrt
dynamic_function    = always
split_function      = half
deviation_scale     = 0.25
max_rejections      = 5
`))
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2}, c.Network.HiddenLayers)
	assert.Equal(t, nn.Graph, c.Representation())
	assert.Equal(t, "tanh", c.Network.HiddenActivation)
	assert.Equal(t, "relu", c.Network.SplitActivation)
	assert.Equal(t, 0.5, c.Network.InitialWeight)

	assert.Equal(t, 7, c.Archive.PopulationCapacity)
	assert.Equal(t, ReplaceOldest, c.Archive.ReplacementPolicy)
	assert.Equal(t, SelectByRecency, c.Archive.SelectionPolicy)
	assert.Equal(t, "exponential", c.Archive.RankWeight)
	assert.False(t, c.Archive.ReuseSplitKnowledge)

	assert.Equal(t, -2.0, c.Sampler.MinWeight)
	assert.Equal(t, 3.0, c.Sampler.MaxWeight)
	assert.False(t, c.Sampler.RecurrenceDisabled)
	assert.Equal(t, int64(42), c.Sampler.Seed)
	assert.Equal(t, 5, c.Sampler.MaxRejections)
	assert.Equal(t, 1.0, c.Functions.Dynamic(10, 0))

	net, err := c.BaseNetwork()
	require.NoError(t, err)
	assert.Equal(t, 4, net.Depth())
	assert.Equal(t, 3*4+4*2+2*2+3*2, nn.ConnectionCount(net))
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"num_inputs":          "[Network]\nnum_inputs = 0\nnum_outputs = 1\n",
		"num_outputs":         "[Network]\nnum_inputs = 1\n",
		"hidden_layers":       minimalConfig + "hidden_layers = 2 0\n",
		"representation":      minimalConfig + "representation = sparse\n",
		"hidden_activation":   minimalConfig + "hidden_activation = cubic\n",
		"initial_connection":  minimalConfig + "initial_connection = some\n",
		"initial_weight":      minimalConfig + "initial_weight = 0\n",
		"population_capacity": minimalConfig + "[Archive]\npopulation_capacity = 0\n",
		"replacement_policy":  minimalConfig + "[Archive]\nreplacement_policy = random\n",
		"selection_policy":    minimalConfig + "[Archive]\nselection_policy = random\n",
		"rank_weight":         minimalConfig + "[Archive]\nrank_weight = cubic\n",
		"max_weight":          minimalConfig + "[Sampler]\nmin_weight = 1\nmax_weight = 1\n",
		"deviation_scale":     minimalConfig + "[Sampler]\ndeviation_scale = -1\n",
		"max_rejections":      minimalConfig + "[Sampler]\nmax_rejections = 0\n",
		"pheromone_function":  minimalConfig + "[Sampler]\npheromone_function = cubic\n",
	}
	for key, data := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paco.ini")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig+"hidden_layers = 3\n"), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, c.Network.HiddenLayers)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.ErrorContains(t, err, "failed to load config file")
}

func TestNetworkSpecCopiesHiddenLayers(t *testing.T) {
	c := testConfig(t, func(c *Config) { c.Network.HiddenLayers = []int{2} })
	spec := c.NetworkSpec()
	spec.Hidden[0] = 9
	assert.Equal(t, []int{2}, c.Network.HiddenLayers)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool(" Yes # note", false))
	assert.False(t, parseBool("off", true))
	assert.True(t, parseBool("maybe", true))
	assert.Equal(t, "graph", cleanIniString("  graph ; inline"))
}
