package paco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPheromoneFunctionsStayInUnitInterval(t *testing.T) {
	for name, fn := range PheromoneFunctions {
		t.Run(name, func(t *testing.T) {
			for pop := 0; pop <= 10; pop++ {
				prev := -1.0
				for n := 0; n <= pop; n++ {
					p := fn(pop, n)
					require.Greater(t, p, 0.0)
					require.Less(t, p, 1.0)
					require.GreaterOrEqual(t, p, prev, "pheromone must not shrink as knowledge grows")
					prev = p
				}
			}
		})
	}
}

func TestDeviationFunctions(t *testing.T) {
	mad := DeviationFunctions["mad"](2)
	assert.Equal(t, 2.0, mad(10, 0, 0), "no knowledge falls back to the scale")
	assert.Equal(t, 2*3.0/4, mad(10, 4, 3))
	assert.Equal(t, minDeviation, mad(10, 4, 0), "agreement is floored")

	madSqrt := DeviationFunctions["mad_sqrt"](1)
	assert.InDelta(t, 0.5, madSqrt(4, 2, 2), 1e-12)
	assert.Equal(t, 1.0, madSqrt(4, 0, 0))
}

func TestDynamicAndSplitFunctions(t *testing.T) {
	dup := DynamicFunctions["duplication"]
	assert.Zero(t, dup(0, 0))
	assert.Zero(t, dup(10, 0))
	assert.Equal(t, 0.5, dup(10, 5))
	assert.Equal(t, 1.0, dup(10, 20))
	assert.Equal(t, 1.0, DynamicFunctions["always"](1, 0))
	assert.Zero(t, DynamicFunctions["never"](1, 1))

	variance := SplitFunctions["variance"]
	assert.Equal(t, 0.5, variance(5, 0, 0))
	assert.Zero(t, variance(5, 3, 0))
	assert.InDelta(t, 1-math.Exp(-1), variance(5, 2, 2), 1e-12)
}

func TestResolveFunctions(t *testing.T) {
	cfg := DefaultConfig().Sampler
	fns, err := ResolveFunctions(cfg)
	require.NoError(t, err)
	assert.NotNil(t, fns.Pheromone)
	assert.NotNil(t, fns.Deviation)
	assert.NotNil(t, fns.Dynamic)
	assert.NotNil(t, fns.Split)

	for _, edit := range []func(c *SamplerConfig){
		func(c *SamplerConfig) { c.PheromoneFunction = "nope" },
		func(c *SamplerConfig) { c.DeviationFunction = "nope" },
		func(c *SamplerConfig) { c.DynamicFunction = "nope" },
		func(c *SamplerConfig) { c.SplitFunction = "nope" },
	} {
		bad := cfg
		edit(&bad)
		_, err := ResolveFunctions(bad)
		assert.ErrorContains(t, err, "nope")
	}
}

func TestRankWeights(t *testing.T) {
	assert.Equal(t, []float64{3, 2, 1}, RankWeightFunctions["linear"](3, 0.3))
	assert.Empty(t, RankWeightFunctions["linear"](0, 0.3))

	w := RankWeightFunctions["exponential"](5, 0.3)
	require.Len(t, w, 5)
	for r := 1; r < len(w); r++ {
		assert.Less(t, w[r], w[r-1], "rank %d", r)
		assert.Greater(t, w[r], 0.0)
	}
}
