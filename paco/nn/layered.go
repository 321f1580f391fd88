package nn

import (
	"fmt"
	"math"
	"sort"
)

// LayeredNetwork keeps every non-input layer as a dense weight matrix over
// the layer's distinct input neurons.
type LayeredNetwork struct {
	layers []*Layer
	arena  arena
}

func newLayered() *LayeredNetwork {
	return &LayeredNetwork{}
}

var _ Network = (*LayeredNetwork)(nil)

// Layer returns layer i for inspection. Callers must not keep the pointer
// across structural edits that insert layers.
func (n *LayeredNetwork) Layer(i int) *Layer {
	return n.layers[i]
}

func (n *LayeredNetwork) Depth() int { return len(n.layers) }

func (n *LayeredNetwork) LayerKind(layer int) Kind { return n.layers[layer].kind }

func (n *LayeredNetwork) LayerSize(layer int) int { return len(n.layers[layer].neurons) }

func (n *LayeredNetwork) Neurons(layer int) []NeuronID {
	return append([]NeuronID(nil), n.layers[layer].neurons...)
}

func (n *LayeredNetwork) At(layer, index int) (NeuronID, bool) {
	if layer < 0 || layer >= len(n.layers) {
		return 0, false
	}
	l := n.layers[layer]
	if index < 0 || index >= len(l.neurons) {
		return 0, false
	}
	return l.neurons[index], true
}

func (n *LayeredNetwork) Address(id NeuronID) (Address, bool) {
	return n.arena.address(id)
}

// locate resolves a live neuron to its layer and row.
func (n *LayeredNetwork) locate(id NeuronID) (*Layer, int, error) {
	addr, ok := n.arena.address(id)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, id)
	}
	return n.layers[addr.Layer], addr.Index, nil
}

func (n *LayeredNetwork) Bias(id NeuronID) (float64, error) {
	l, i, err := n.locate(id)
	if err != nil {
		return 0, err
	}
	if l.kind == Input {
		return 0, fmt.Errorf("%w: input neurons carry no bias", ErrUnsupportedOperation)
	}
	return l.bias[i], nil
}

func (n *LayeredNetwork) SetBias(id NeuronID, bias float64) error {
	l, i, err := n.locate(id)
	if err != nil {
		return err
	}
	if l.kind == Input {
		return fmt.Errorf("%w: input neurons carry no bias", ErrUnsupportedOperation)
	}
	l.bias[i] = bias
	return nil
}

func (n *LayeredNetwork) Activation(id NeuronID) (string, error) {
	l, i, err := n.locate(id)
	if err != nil {
		return "", err
	}
	if l.kind == Input {
		return "", fmt.Errorf("%w: input neurons have no activation function", ErrUnsupportedOperation)
	}
	return l.actNames[i], nil
}

func (n *LayeredNetwork) Weight(from, to NeuronID) (float64, bool) {
	if _, ok := n.arena.address(from); !ok {
		return 0, false
	}
	l, row, err := n.locate(to)
	if err != nil || l.kind == Input {
		return 0, false
	}
	return l.weight(from, row)
}

func (n *LayeredNetwork) HasConnection(from, to NeuronID) bool {
	_, ok := n.Weight(from, to)
	return ok
}

func (n *LayeredNetwork) SetWeight(from, to NeuronID, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	if !n.HasConnection(from, to) {
		return fmt.Errorf("%w: no connection %d -> %d", ErrIllegalArgument, from, to)
	}
	l, row, _ := n.locate(to)
	l.connect(from, row, weight)
	return nil
}

func (n *LayeredNetwork) Incoming(id NeuronID) []NeuronID {
	l, row, err := n.locate(id)
	if err != nil || l.kind == Input || l.weights == nil {
		return nil
	}
	var out []NeuronID
	for j, from := range l.inputs {
		if l.weights.At(row, j) != 0 {
			out = append(out, from)
		}
	}
	n.sortByAddress(out)
	return out
}

func (n *LayeredNetwork) Outgoing(id NeuronID) []NeuronID {
	if _, ok := n.arena.address(id); !ok {
		return nil
	}
	var out []NeuronID
	for _, l := range n.layers[1:] {
		j := l.column(id)
		if j < 0 {
			continue
		}
		for row, to := range l.neurons {
			if l.weights.At(row, j) != 0 {
				out = append(out, to)
			}
		}
	}
	n.sortByAddress(out)
	return out
}

func (n *LayeredNetwork) sortByAddress(ids []NeuronID) {
	sort.Slice(ids, func(i, j int) bool {
		return n.arena.records[ids[i]].addr.Less(n.arena.records[ids[j]].addr)
	})
}

func (n *LayeredNetwork) AddConnection(from, to NeuronID, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	if _, ok := n.arena.address(from); !ok {
		return fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, from)
	}
	l, row, err := n.locate(to)
	if err != nil {
		return err
	}
	if l.kind == Input {
		return fmt.Errorf("%w: input neurons take no connections", ErrUnsupportedOperation)
	}
	if _, exists := l.weight(from, row); exists {
		return fmt.Errorf("%w: connection %d -> %d already exists", ErrIllegalState, from, to)
	}
	l.connect(from, row, weight)
	return nil
}

func (n *LayeredNetwork) RemoveConnection(from, to NeuronID) error {
	if !n.HasConnection(from, to) {
		return fmt.Errorf("%w: no connection %d -> %d", ErrIllegalArgument, from, to)
	}
	l, row, _ := n.locate(to)
	l.disconnect(from, row)
	return nil
}

func (n *LayeredNetwork) AddNeuron(layer int, bias float64, activation string) (NeuronID, error) {
	if err := checkLayer(len(n.layers), layer); err != nil {
		return 0, err
	}
	if kind := n.layers[layer].kind; kind != Hidden {
		return 0, fmt.Errorf("%w: cannot add a neuron to the %s layer", ErrUnsupportedOperation, kind)
	}
	fn, err := GetActivation(activation)
	if err != nil {
		return 0, err
	}
	return n.placeNeuron(layer, bias, activation, fn), nil
}

func (n *LayeredNetwork) RemoveNeuron(id NeuronID) error {
	l, row, err := n.locate(id)
	if err != nil {
		return err
	}
	if l.kind != Hidden {
		return fmt.Errorf("%w: cannot remove a neuron from the %s layer", ErrUnsupportedOperation, l.kind)
	}
	if len(l.neurons) == 1 {
		return fmt.Errorf("%w: neuron %d is the last one of layer %d", ErrIllegalState, id, l.index)
	}

	// Outgoing connections: the neuron's column disappears from every layer
	// it feeds, including its own layer for same-layer connections.
	for _, other := range n.layers[1:] {
		if j := other.column(id); j >= 0 {
			other.dropColumn(j)
		}
	}
	// Incoming connections.
	for _, from := range append([]NeuronID(nil), l.inputs...) {
		l.disconnect(from, row)
	}

	l.removeRow(row)
	n.arena.kill(id)
	n.arena.reindex(l.index, l.neurons)
	l.collect()
	return nil
}

func (n *LayeredNetwork) SplitConnection(from, to NeuronID, activation string) (NeuronID, error) {
	return splitConnection(n, from, to, activation)
}

func (n *LayeredNetwork) Process(input []float64) ([]float64, error) {
	if len(input) != len(n.layers[0].neurons) {
		return nil, fmt.Errorf("%w: input vector has %d values, input layer has %d neurons", ErrIllegalArgument, len(input), len(n.layers[0].neurons))
	}
	read := func(id NeuronID) float64 {
		addr := n.arena.records[id].addr
		return n.layers[addr.Layer].activation[addr.Index]
	}
	if err := n.layers[0].process(input, read); err != nil {
		return nil, err
	}
	for _, l := range n.layers[1:] {
		if err := l.process(nil, read); err != nil {
			return nil, err
		}
	}
	return n.layers[len(n.layers)-1].Activations(), nil
}

func (n *LayeredNetwork) Reset() {
	for _, l := range n.layers {
		for i := range l.activation {
			l.activation[i] = 0
		}
	}
}

func (n *LayeredNetwork) Clone() Network {
	c := &LayeredNetwork{
		layers: make([]*Layer, len(n.layers)),
		arena:  n.arena.clone(),
	}
	for i, l := range n.layers {
		c.layers[i] = l.clone()
	}
	return c
}

func (n *LayeredNetwork) appendLayer(kind Kind) {
	n.layers = append(n.layers, newLayer(len(n.layers), kind))
}

// insertLayer puts an empty hidden layer at pos; every later layer and the
// neurons it holds move up by one.
func (n *LayeredNetwork) insertLayer(pos int) {
	n.layers = append(n.layers, nil)
	copy(n.layers[pos+1:], n.layers[pos:])
	n.layers[pos] = newLayer(pos, Hidden)
	for i := pos + 1; i < len(n.layers); i++ {
		n.layers[i].index = i
		n.arena.reindex(i, n.layers[i].neurons)
	}
}

func (n *LayeredNetwork) placeNeuron(layer int, bias float64, activation string, fn ActivationFunc) NeuronID {
	l := n.layers[layer]
	id := n.arena.alloc(Address{Layer: layer, Index: len(l.neurons)})
	l.addRow(id, bias, activation, fn)
	return id
}

func checkWeight(weight float64) error {
	if weight == 0 {
		return fmt.Errorf("%w: a zero weight means no connection", ErrIllegalArgument)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be finite, got %v", ErrIllegalArgument, weight)
	}
	return nil
}
