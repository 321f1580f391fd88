package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Layer is one layer of a LayeredNetwork.
//
// Row i of the weight matrix holds the incoming weights of neuron i; column
// j holds the weights of every connection from inputs[j] into this layer. A
// column exists exactly as long as at least one of its entries is non-zero.
// Input layers own no bias, weights or inputs.
type Layer struct {
	index   int
	kind    Kind
	neurons []NeuronID

	bias       []float64
	activation []float64
	actNames   []string
	actFns     []ActivationFunc

	weights *mat.Dense
	inputs  []NeuronID
}

func newLayer(index int, kind Kind) *Layer {
	return &Layer{index: index, kind: kind}
}

// Index returns the layer's position in its network.
func (l *Layer) Index() int { return l.index }

// Kind returns the layer's role.
func (l *Layer) Kind() Kind { return l.kind }

// Size returns the number of neurons in the layer.
func (l *Layer) Size() int { return len(l.neurons) }

// Dims returns the logical shape of the weight matrix: one row per neuron,
// one column per distinct input neuron.
func (l *Layer) Dims() (rows, cols int) {
	if l.kind == Input {
		return len(l.neurons), 0
	}
	return len(l.neurons), len(l.inputs)
}

// Inputs returns the input neurons in column order.
func (l *Layer) Inputs() []NeuronID {
	out := make([]NeuronID, len(l.inputs))
	copy(out, l.inputs)
	return out
}

// Activations returns a copy of the layer's activation vector.
func (l *Layer) Activations() []float64 {
	out := make([]float64, len(l.activation))
	copy(out, l.activation)
	return out
}

// addRow appends a neuron regardless of the layer kind.
func (l *Layer) addRow(id NeuronID, bias float64, name string, fn ActivationFunc) {
	l.neurons = append(l.neurons, id)
	l.activation = append(l.activation, 0)
	if l.kind == Input {
		return
	}
	l.weights = appendRow(l.weights, len(l.neurons)-1, len(l.inputs))
	l.bias = append(l.bias, bias)
	l.actNames = append(l.actNames, name)
	l.actFns = append(l.actFns, fn)
}

// removeRow drops neuron i without touching its connections. Callers cut
// the connections first.
func (l *Layer) removeRow(i int) {
	rows, cols := len(l.neurons), len(l.inputs)
	l.weights = deleteRow(l.weights, i, rows, cols)
	l.neurons = append(l.neurons[:i], l.neurons[i+1:]...)
	l.activation = append(l.activation[:i], l.activation[i+1:]...)
	l.bias = append(l.bias[:i], l.bias[i+1:]...)
	l.actNames = append(l.actNames[:i], l.actNames[i+1:]...)
	l.actFns = append(l.actFns[:i], l.actFns[i+1:]...)
}

// column returns the column of from, or -1.
func (l *Layer) column(from NeuronID) int {
	for j, id := range l.inputs {
		if id == from {
			return j
		}
	}
	return -1
}

func (l *Layer) weight(from NeuronID, row int) (float64, bool) {
	j := l.column(from)
	if j < 0 || l.weights == nil {
		return 0, false
	}
	w := l.weights.At(row, j)
	return w, w != 0
}

// connect writes weight into (row, column of from), appending a zero column
// for from first if it is not an input of this layer yet.
func (l *Layer) connect(from NeuronID, row int, weight float64) {
	j := l.column(from)
	if j < 0 {
		l.weights = appendColumn(l.weights, len(l.neurons), len(l.inputs))
		l.inputs = append(l.inputs, from)
		j = len(l.inputs) - 1
	}
	l.weights.Set(row, j, weight)
}

// disconnect zeroes (row, column of from) and drops the column if that was
// its last non-zero entry.
func (l *Layer) disconnect(from NeuronID, row int) {
	j := l.column(from)
	if j < 0 {
		return
	}
	l.weights.Set(row, j, 0)
	if columnIsZero(l.weights, j, len(l.neurons)) {
		l.dropColumn(j)
	}
}

func (l *Layer) dropColumn(j int) {
	l.weights = deleteColumn(l.weights, j, len(l.neurons), len(l.inputs))
	l.inputs = append(l.inputs[:j], l.inputs[j+1:]...)
}

// collect drops every column that no longer carries a connection.
func (l *Layer) collect() {
	for j := len(l.inputs) - 1; j >= 0; j-- {
		if columnIsZero(l.weights, j, len(l.neurons)) {
			l.dropColumn(j)
		}
	}
}

// process computes the layer's new activation. Input layers take input
// verbatim; every other layer computes f(W·x + b), where x[j] is the current
// activation of inputs[j] as returned by read.
func (l *Layer) process(input []float64, read func(NeuronID) float64) error {
	if l.kind == Input {
		if input == nil {
			return fmt.Errorf("%w: input layer %d needs an input vector", ErrIllegalArgument, l.index)
		}
		if len(input) != len(l.neurons) {
			return fmt.Errorf("%w: input vector has %d values, input layer has %d neurons", ErrIllegalArgument, len(input), len(l.neurons))
		}
		copy(l.activation, input)
		return nil
	}
	if input != nil {
		return fmt.Errorf("%w: %s layer %d takes no input vector", ErrIllegalArgument, l.kind, l.index)
	}

	z := make([]float64, len(l.neurons))
	copy(z, l.bias)
	if l.weights != nil {
		x := mat.NewVecDense(len(l.inputs), nil)
		for j, id := range l.inputs {
			x.SetVec(j, read(id))
		}
		var wx mat.VecDense
		wx.MulVec(l.weights, x)
		for i := range z {
			z[i] += wx.AtVec(i)
		}
	}
	for i, fn := range l.actFns {
		l.activation[i] = fn(z[i])
	}
	return nil
}

func (l *Layer) clone() *Layer {
	c := &Layer{
		index:      l.index,
		kind:       l.kind,
		neurons:    append([]NeuronID(nil), l.neurons...),
		activation: append([]float64(nil), l.activation...),
		weights:    cloneDense(l.weights),
	}
	if l.kind != Input {
		c.bias = append([]float64(nil), l.bias...)
		c.actNames = append([]string(nil), l.actNames...)
		c.actFns = append([]ActivationFunc(nil), l.actFns...)
		c.inputs = append([]NeuronID(nil), l.inputs...)
	}
	return c
}
