package nn

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// neuralNode is a neuron of a GraphNetwork. It is also a graph.Node, so it
// can be added to a simple.WeightedDirectedGraph under its handle.
type neuralNode struct {
	id         NeuronID
	bias       float64
	value      float64
	activation string
	fn         ActivationFunc
	// self is the weight of the neuron's connection onto itself; simple
	// graphs do not hold self loops. Zero means no loop.
	self float64
}

// ID implements graph.Node.
func (n *neuralNode) ID() int64 { return int64(n.id) }

type graphLayer struct {
	kind    Kind
	neurons []NeuronID
}

// GraphNetwork keeps neurons as objects wired by the weighted edges of a
// directed graph. Layers only order the neurons for evaluation.
type GraphNetwork struct {
	g      *simple.WeightedDirectedGraph
	nodes  map[NeuronID]*neuralNode
	layers []*graphLayer
	arena  arena
}

func newGraph() *GraphNetwork {
	return &GraphNetwork{
		g:     simple.NewWeightedDirectedGraph(0, 0),
		nodes: make(map[NeuronID]*neuralNode),
	}
}

var _ Network = (*GraphNetwork)(nil)

func (n *GraphNetwork) Depth() int { return len(n.layers) }

func (n *GraphNetwork) LayerKind(layer int) Kind { return n.layers[layer].kind }

func (n *GraphNetwork) LayerSize(layer int) int { return len(n.layers[layer].neurons) }

func (n *GraphNetwork) Neurons(layer int) []NeuronID {
	return append([]NeuronID(nil), n.layers[layer].neurons...)
}

func (n *GraphNetwork) At(layer, index int) (NeuronID, bool) {
	if layer < 0 || layer >= len(n.layers) {
		return 0, false
	}
	l := n.layers[layer]
	if index < 0 || index >= len(l.neurons) {
		return 0, false
	}
	return l.neurons[index], true
}

func (n *GraphNetwork) Address(id NeuronID) (Address, bool) {
	return n.arena.address(id)
}

func (n *GraphNetwork) node(id NeuronID) (*neuralNode, Address, error) {
	addr, ok := n.arena.address(id)
	if !ok {
		return nil, Address{}, fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, id)
	}
	return n.nodes[id], addr, nil
}

func (n *GraphNetwork) Bias(id NeuronID) (float64, error) {
	node, addr, err := n.node(id)
	if err != nil {
		return 0, err
	}
	if n.layers[addr.Layer].kind == Input {
		return 0, fmt.Errorf("%w: input neurons carry no bias", ErrUnsupportedOperation)
	}
	return node.bias, nil
}

func (n *GraphNetwork) SetBias(id NeuronID, bias float64) error {
	node, addr, err := n.node(id)
	if err != nil {
		return err
	}
	if n.layers[addr.Layer].kind == Input {
		return fmt.Errorf("%w: input neurons carry no bias", ErrUnsupportedOperation)
	}
	node.bias = bias
	return nil
}

func (n *GraphNetwork) Activation(id NeuronID) (string, error) {
	node, addr, err := n.node(id)
	if err != nil {
		return "", err
	}
	if n.layers[addr.Layer].kind == Input {
		return "", fmt.Errorf("%w: input neurons have no activation function", ErrUnsupportedOperation)
	}
	return node.activation, nil
}

func (n *GraphNetwork) Weight(from, to NeuronID) (float64, bool) {
	if _, ok := n.arena.address(from); !ok {
		return 0, false
	}
	if _, ok := n.arena.address(to); !ok {
		return 0, false
	}
	if from == to {
		w := n.nodes[from].self
		return w, w != 0
	}
	e := n.g.WeightedEdge(int64(from), int64(to))
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

func (n *GraphNetwork) HasConnection(from, to NeuronID) bool {
	_, ok := n.Weight(from, to)
	return ok
}

func (n *GraphNetwork) SetWeight(from, to NeuronID, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	if !n.HasConnection(from, to) {
		return fmt.Errorf("%w: no connection %d -> %d", ErrIllegalArgument, from, to)
	}
	n.setEdge(from, to, weight)
	return nil
}

func (n *GraphNetwork) setEdge(from, to NeuronID, weight float64) {
	if from == to {
		n.nodes[from].self = weight
		return
	}
	n.g.SetWeightedEdge(simple.WeightedEdge{F: n.nodes[from], T: n.nodes[to], W: weight})
}

func (n *GraphNetwork) Incoming(id NeuronID) []NeuronID {
	if _, ok := n.arena.address(id); !ok {
		return nil
	}
	var out []NeuronID
	froms := n.g.To(int64(id))
	for froms.Next() {
		out = append(out, NeuronID(froms.Node().ID()))
	}
	if n.nodes[id].self != 0 {
		out = append(out, id)
	}
	n.sortByAddress(out)
	return out
}

func (n *GraphNetwork) Outgoing(id NeuronID) []NeuronID {
	if _, ok := n.arena.address(id); !ok {
		return nil
	}
	var out []NeuronID
	tos := n.g.From(int64(id))
	for tos.Next() {
		out = append(out, NeuronID(tos.Node().ID()))
	}
	if n.nodes[id].self != 0 {
		out = append(out, id)
	}
	n.sortByAddress(out)
	return out
}

func (n *GraphNetwork) sortByAddress(ids []NeuronID) {
	sort.Slice(ids, func(i, j int) bool {
		return n.arena.records[ids[i]].addr.Less(n.arena.records[ids[j]].addr)
	})
}

func (n *GraphNetwork) AddConnection(from, to NeuronID, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	if _, ok := n.arena.address(from); !ok {
		return fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, from)
	}
	_, addr, err := n.node(to)
	if err != nil {
		return err
	}
	if n.layers[addr.Layer].kind == Input {
		return fmt.Errorf("%w: input neurons take no connections", ErrUnsupportedOperation)
	}
	if n.HasConnection(from, to) {
		return fmt.Errorf("%w: connection %d -> %d already exists", ErrIllegalState, from, to)
	}
	n.setEdge(from, to, weight)
	return nil
}

func (n *GraphNetwork) RemoveConnection(from, to NeuronID) error {
	if !n.HasConnection(from, to) {
		return fmt.Errorf("%w: no connection %d -> %d", ErrIllegalArgument, from, to)
	}
	if from == to {
		n.nodes[from].self = 0
		return nil
	}
	n.g.RemoveEdge(int64(from), int64(to))
	return nil
}

func (n *GraphNetwork) AddNeuron(layer int, bias float64, activation string) (NeuronID, error) {
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

func (n *GraphNetwork) RemoveNeuron(id NeuronID) error {
	_, addr, err := n.node(id)
	if err != nil {
		return err
	}
	l := n.layers[addr.Layer]
	if l.kind != Hidden {
		return fmt.Errorf("%w: cannot remove a neuron from the %s layer", ErrUnsupportedOperation, l.kind)
	}
	if len(l.neurons) == 1 {
		return fmt.Errorf("%w: neuron %d is the last one of layer %d", ErrIllegalState, id, addr.Layer)
	}
	// Removing the node removes every edge touching it.
	n.g.RemoveNode(int64(id))
	delete(n.nodes, id)
	l.neurons = append(l.neurons[:addr.Index], l.neurons[addr.Index+1:]...)
	n.arena.kill(id)
	n.arena.reindex(addr.Layer, l.neurons)
	return nil
}

func (n *GraphNetwork) SplitConnection(from, to NeuronID, activation string) (NeuronID, error) {
	return splitConnection(n, from, to, activation)
}

// Process evaluates layer by layer. Inside a layer every neuron reads the
// values its sources held before the layer started, which is what the
// matrix form W·x computes.
func (n *GraphNetwork) Process(input []float64) ([]float64, error) {
	in := n.layers[0]
	if len(input) != len(in.neurons) {
		return nil, fmt.Errorf("%w: input vector has %d values, input layer has %d neurons", ErrIllegalArgument, len(input), len(in.neurons))
	}
	for i, id := range in.neurons {
		n.nodes[id].value = input[i]
	}
	for _, l := range n.layers[1:] {
		next := make([]float64, len(l.neurons))
		for i, id := range l.neurons {
			node := n.nodes[id]
			sum := node.bias
			for _, from := range n.Incoming(id) {
				w, _ := n.Weight(from, id)
				sum += w * n.nodes[from].value
			}
			next[i] = node.fn(sum)
		}
		for i, id := range l.neurons {
			n.nodes[id].value = next[i]
		}
	}
	out := n.layers[len(n.layers)-1]
	outputs := make([]float64, len(out.neurons))
	for i, id := range out.neurons {
		outputs[i] = n.nodes[id].value
	}
	return outputs, nil
}

func (n *GraphNetwork) Reset() {
	for _, node := range n.nodes {
		node.value = 0
	}
}

// Acyclic reports whether the connection graph has no cycles, i.e. whether
// every path through the network is free of recurrence.
func (n *GraphNetwork) Acyclic() bool {
	for _, node := range n.nodes {
		if node.self != 0 {
			return false
		}
	}
	_, err := topo.Sort(n.g)
	return err == nil
}

// Clone rebuilds the graph against fresh neuron objects.
func (n *GraphNetwork) Clone() Network {
	c := newGraph()
	c.arena = n.arena.clone()
	c.layers = make([]*graphLayer, len(n.layers))
	for i, l := range n.layers {
		c.layers[i] = &graphLayer{kind: l.kind, neurons: append([]NeuronID(nil), l.neurons...)}
		for _, id := range l.neurons {
			node := *n.nodes[id]
			c.nodes[id] = &node
			c.g.AddNode(&node)
		}
	}
	for id := range n.nodes {
		tos := n.g.From(int64(id))
		for tos.Next() {
			to := NeuronID(tos.Node().ID())
			e := n.g.WeightedEdge(int64(id), int64(to))
			c.g.SetWeightedEdge(simple.WeightedEdge{F: c.nodes[id], T: c.nodes[to], W: e.Weight()})
		}
	}
	return c
}

func (n *GraphNetwork) appendLayer(kind Kind) {
	n.layers = append(n.layers, &graphLayer{kind: kind})
}

func (n *GraphNetwork) insertLayer(pos int) {
	n.layers = append(n.layers, nil)
	copy(n.layers[pos+1:], n.layers[pos:])
	n.layers[pos] = &graphLayer{kind: Hidden}
	for i := pos + 1; i < len(n.layers); i++ {
		n.arena.reindex(i, n.layers[i].neurons)
	}
}

func (n *GraphNetwork) placeNeuron(layer int, bias float64, activation string, fn ActivationFunc) NeuronID {
	l := n.layers[layer]
	id := n.arena.alloc(Address{Layer: layer, Index: len(l.neurons)})
	node := &neuralNode{id: id, bias: bias, activation: activation, fn: fn}
	n.nodes[id] = node
	n.g.AddNode(node)
	l.neurons = append(l.neurons, id)
	return id
}
