package paco

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseFollowsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	weights := []float64{5, 3, 2}
	counts := make([]int, len(weights))
	const draws = 100000
	for i := 0; i < draws; i++ {
		j, ok := Choose(rng, weights)
		require.True(t, ok)
		counts[j]++
	}
	assert.InDelta(t, 0.5, float64(counts[0])/draws, 0.01)
	assert.InDelta(t, 0.3, float64(counts[1])/draws, 0.01)
	assert.InDelta(t, 0.2, float64(counts[2])/draws, 0.01)
}

func TestChooseSinglePositiveWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		j, ok := Choose(rng, []float64{0, -1, 4, math.NaN()})
		require.True(t, ok)
		require.Equal(t, 2, j)
	}
}

func TestChooseNothingToChoose(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, weights := range [][]float64{nil, {}, {0, 0}, {-1, math.NaN()}, {math.Inf(1), 1}} {
		_, ok := Choose(rng, weights)
		assert.False(t, ok, "%v", weights)
	}
}

func TestStatistics(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	assert.Equal(t, 10.0, Sum(values))
	assert.Equal(t, 2.5, Mean(values))
	assert.Equal(t, 2.5, Median(values))
	assert.Equal(t, 3.0, Median([]float64{5, 3, 1}))
	assert.InDelta(t, 1.2909944, Stdev(values), 1e-6)
	assert.Equal(t, 4.0, MaxFloat(values))
	assert.Equal(t, 1.0, MinFloat(values))

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Stdev([]float64{1}))
	assert.True(t, math.IsNaN(Median(nil)))
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
	assert.True(t, math.IsInf(MinFloat(nil), 1))
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "inputs must not be reordered")
}

func TestSumAbsDiffAndClamp(t *testing.T) {
	assert.Equal(t, 3.0, sumAbsDiff([]float64{-1, 1, 2}, 1))
	assert.Zero(t, sumAbsDiff(nil, 5))
	assert.Equal(t, 1.0, clamp(3, -1, 1))
	assert.Equal(t, -1.0, clamp(-3, -1, 1))
	assert.Equal(t, 0.5, clamp(0.5, -1, 1))
}
