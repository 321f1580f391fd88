package paco

import (
	"fmt"
	"math"
)

// PheromoneFunc returns the pheromone level of a connection that
// numberOfValues of populationSize ants know about, in [0, 1].
type PheromoneFunc func(populationSize, numberOfValues int) float64

// DeviationFunc returns the standard deviation used to resample a value
// from numberOfValues known values whose absolute differences to the
// current value sum to sumOfAbsoluteDifferences.
type DeviationFunc func(populationSize, numberOfValues int, sumOfAbsoluteDifferences float64) float64

// DynamicFunc returns the probability that a template whose topology is
// shared by numberOfValues ants of a populationSize archive is mutated.
type DynamicFunc func(populationSize, numberOfValues int) float64

// SplitFunc returns the probability that an existing connection drawn for
// topology dynamics is split rather than removed.
type SplitFunc func(populationSize, numberOfValues int, sumOfAbsoluteDifferences float64) float64

// Functions bundles the scalar functions the sampler calls. The sampler
// only relies on their signatures, never on a formula.
type Functions struct {
	Pheromone PheromoneFunc
	Deviation DeviationFunc
	Dynamic   DynamicFunc
	Split     SplitFunc
}

// PheromoneFunctions maps function names to pheromone functions.
var PheromoneFunctions = map[string]PheromoneFunc{
	// ratio is the smoothed share of the population that knows the value,
	// so unknown connections keep a small non-zero level.
	"ratio": func(pop, n int) float64 {
		return float64(n+1) / float64(pop+2)
	},
	"sqrt": func(pop, n int) float64 {
		return math.Sqrt(float64(n+1) / float64(pop+2))
	},
	"constant": func(int, int) float64 { return 0.5 },
}

// minDeviation keeps resampling from collapsing onto a single value.
const minDeviation = 1e-3

// DeviationFunctions maps function names to constructors taking the
// configured deviation_scale.
var DeviationFunctions = map[string]func(scale float64) DeviationFunc{
	// mad is the mean absolute deviation around the current value.
	"mad": func(scale float64) DeviationFunc {
		return func(_, n int, sum float64) float64 {
			if n == 0 {
				return scale
			}
			return math.Max(minDeviation, scale*sum/float64(n))
		}
	},
	// mad_sqrt narrows the deviation as more of the population agrees.
	"mad_sqrt": func(scale float64) DeviationFunc {
		return func(pop, n int, sum float64) float64 {
			if n == 0 {
				return scale
			}
			return math.Max(minDeviation, scale*sum/float64(n)/math.Sqrt(float64(max(pop, 1))))
		}
	},
}

// DynamicFunctions maps function names to dynamic probability functions.
var DynamicFunctions = map[string]DynamicFunc{
	// duplication mutates more eagerly the more ants share the topology.
	"duplication": func(pop, n int) float64 {
		if pop <= 0 {
			return 0
		}
		return clamp(float64(n)/float64(pop), 0, 1)
	},
	"always": func(int, int) float64 { return 1 },
	"never":  func(int, int) float64 { return 0 },
}

// SplitFunctions maps function names to split probability functions.
var SplitFunctions = map[string]SplitFunc{
	// variance splits connections the population disagrees on.
	"variance": func(_, n int, sum float64) float64 {
		if n == 0 {
			return 0.5
		}
		return 1 - math.Exp(-sum/float64(n))
	},
	"half": func(int, int, float64) float64 { return 0.5 },
}

// ResolveFunctions looks up the functions named by cfg.
func ResolveFunctions(cfg SamplerConfig) (Functions, error) {
	var fns Functions
	var ok bool
	if fns.Pheromone, ok = PheromoneFunctions[cfg.PheromoneFunction]; !ok {
		return Functions{}, fmt.Errorf("invalid pheromone_function '%s'", cfg.PheromoneFunction)
	}
	deviation, ok := DeviationFunctions[cfg.DeviationFunction]
	if !ok {
		return Functions{}, fmt.Errorf("invalid deviation_function '%s'", cfg.DeviationFunction)
	}
	fns.Deviation = deviation(cfg.DeviationScale)
	if fns.Dynamic, ok = DynamicFunctions[cfg.DynamicFunction]; !ok {
		return Functions{}, fmt.Errorf("invalid dynamic_function '%s'", cfg.DynamicFunction)
	}
	if fns.Split, ok = SplitFunctions[cfg.SplitFunction]; !ok {
		return Functions{}, fmt.Errorf("invalid split_function '%s'", cfg.SplitFunction)
	}
	return fns, nil
}

// RankWeightFunc returns the selection score of every rank 0..size-1, rank
// 0 being the best.
type RankWeightFunc func(size int, q float64) []float64

// RankWeightFunctions maps names to rank weighting schemes.
var RankWeightFunctions = map[string]RankWeightFunc{
	"linear": func(size int, _ float64) []float64 {
		w := make([]float64, size)
		for r := range w {
			w[r] = float64(size - r)
		}
		return w
	},
	// exponential is the Gaussian rank kernel of ACO for continuous domains:
	// small q concentrates selection on the best ranks.
	"exponential": func(size int, q float64) []float64 {
		w := make([]float64, size)
		qk := q * float64(size)
		for r := range w {
			w[r] = math.Exp(-float64(r*r)/(2*qk*qk)) / (qk * math.Sqrt(2*math.Pi))
		}
		return w
	},
}
