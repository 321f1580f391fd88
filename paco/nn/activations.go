package nn

import (
	"fmt"
	"math"
)

// ActivationFunc maps a neuron's summed input (weighted inputs plus bias)
// to its activation.
type ActivationFunc func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// Configuration and snapshots refer to activations by these names.
var ActivationFunctions = map[string]ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"sine":     Sine,
	"step":     Step,
	"softsign": Softsign,
}

// DefaultSplitActivation is the activation given to the intermediate neuron
// of a split. Together with a zero bias and a unit outgoing weight it makes
// the two-hop path compute what the replaced connection computed.
const DefaultSplitActivation = "identity"

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: unknown activation function: %s", ErrIllegalArgument, name)
}

// Sigmoid is the logistic function 1 / (1 + exp(-x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped clamps its input to [-1, 1].
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Step returns 1 for positive input and 0 otherwise.
func Step(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Softsign is x / (1 + |x|).
func Softsign(x float64) float64 {
	return x / (1 + math.Abs(x))
}
