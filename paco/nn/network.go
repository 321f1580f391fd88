// Package nn implements networks whose layers, neurons and connections can
// be edited while the network stays ready for evaluation.
//
// Two representations implement the same Network interface: LayeredNetwork
// keeps one dense weight matrix per layer, GraphNetwork keeps neuron objects
// wired in a directed graph. Neurons are referred to by NeuronID handles that
// survive every edit; Address reports where a handle currently sits.
package nn

import (
	"fmt"
	"strings"
)

// Kind is the role of a layer.
type Kind int

const (
	Input Kind = iota
	Hidden
	Output
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Hidden:
		return "hidden"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Representation selects the Network implementation.
type Representation string

const (
	Layered Representation = "layered"
	Graph   Representation = "graph"
)

// ParseRepresentation maps a configuration string onto a Representation.
func ParseRepresentation(s string) (Representation, error) {
	switch Representation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Layered:
		return Layered, nil
	case Graph:
		return Graph, nil
	default:
		return "", fmt.Errorf("%w: unknown representation %q", ErrIllegalArgument, s)
	}
}

// Network is the capability set shared by both representations. A Network
// is not safe for concurrent use; give each goroutine its own Clone.
//
// The first layer is always the input layer and the last the output layer.
// Only hidden layers gain or lose neurons, and only SplitConnection changes
// the number of layers.
type Network interface {
	// Depth returns the number of layers.
	Depth() int
	LayerKind(layer int) Kind
	LayerSize(layer int) int
	// Neurons returns the handles of a layer in in-layer index order.
	Neurons(layer int) []NeuronID
	// At returns the handle of the neuron currently at (layer, index).
	At(layer, index int) (NeuronID, bool)
	// Address returns the current position of a live neuron.
	Address(id NeuronID) (Address, bool)

	Bias(id NeuronID) (float64, error)
	SetBias(id NeuronID, bias float64) error
	// Activation returns the name of the neuron's activation function.
	Activation(id NeuronID) (string, error)

	// Weight returns the weight of from -> to; false if there is no such
	// connection. A connection exists exactly when its weight is non-zero.
	Weight(from, to NeuronID) (float64, bool)
	SetWeight(from, to NeuronID, weight float64) error
	HasConnection(from, to NeuronID) bool
	// Incoming returns the sources of every connection into id, ordered by
	// address. Outgoing returns the targets of every connection out of id,
	// ordered by address.
	Incoming(id NeuronID) []NeuronID
	Outgoing(id NeuronID) []NeuronID

	AddConnection(from, to NeuronID, weight float64) error
	RemoveConnection(from, to NeuronID) error
	// AddNeuron appends a neuron to a hidden layer.
	AddNeuron(layer int, bias float64, activation string) (NeuronID, error)
	// RemoveNeuron deletes a hidden neuron together with every connection
	// touching it. The last neuron of a layer cannot be removed.
	RemoveNeuron(id NeuronID) error
	// SplitConnection replaces from -> to by from -> mid -> to through a new
	// neuron mid and returns mid. from -> mid keeps the original weight,
	// mid -> to gets weight 1 and mid gets bias 0.
	SplitConnection(from, to NeuronID, activation string) (NeuronID, error)

	// Process feeds input through every layer in index order and returns
	// the activation of the output layer.
	Process(input []float64) ([]float64, error)
	// Reset zeroes every activation.
	Reset()
	// Clone returns a deep copy whose handles address the copy's neurons.
	Clone() Network
}

// structure is the set of primitives the shared construction and split
// logic needs on top of Network.
type structure interface {
	Network
	appendLayer(kind Kind)
	insertLayer(pos int)
	// placeNeuron appends a neuron to any layer without checking its kind.
	placeNeuron(layer int, bias float64, activation string, fn ActivationFunc) NeuronID
}

func newEmpty(repr Representation) (structure, error) {
	switch repr {
	case "", Layered:
		return newLayered(), nil
	case Graph:
		return newGraph(), nil
	default:
		return nil, fmt.Errorf("%w: unknown representation %q", ErrIllegalArgument, repr)
	}
}

// splitConnection is the placement rule shared by both representations.
//
// With d = to.Layer - from.Layer, neurons in adjacent layers (|d| == 1) get
// a brand-new hidden layer between them at from.Layer + max(0, d). Otherwise
// the intermediate neuron joins the existing layer next to from in the
// direction of to.
func splitConnection(s structure, from, to NeuronID, activation string) (NeuronID, error) {
	a, ok := s.Address(from)
	if !ok {
		return 0, fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, from)
	}
	b, ok := s.Address(to)
	if !ok {
		return 0, fmt.Errorf("%w: unknown neuron %d", ErrIllegalArgument, to)
	}
	weight, ok := s.Weight(from, to)
	if !ok {
		return 0, fmt.Errorf("%w: no connection %s -> %s to split", ErrIllegalArgument, a, b)
	}
	fn, err := GetActivation(activation)
	if err != nil {
		return 0, err
	}

	d := b.Layer - a.Layer
	var layer int
	if d == 1 || d == -1 {
		layer = a.Layer + max(0, d)
		s.insertLayer(layer)
	} else {
		layer = a.Layer + sign(d)
		if kind := s.LayerKind(layer); kind != Hidden {
			return 0, fmt.Errorf("%w: split %s -> %s needs a neuron in %s layer %d", ErrUnsupportedOperation, a, b, kind, layer)
		}
	}

	mid := s.placeNeuron(layer, 0, activation, fn)
	if err := s.AddConnection(from, mid, weight); err != nil {
		return 0, err
	}
	if err := s.AddConnection(mid, to, 1); err != nil {
		return 0, err
	}
	return mid, s.RemoveConnection(from, to)
}

func sign(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// Connect selects the initial wiring of a network built from a Spec.
type Connect string

const (
	// ConnectNone leaves the network without connections.
	ConnectNone Connect = "none"
	// ConnectFull connects every neuron of a layer to every neuron of the next.
	ConnectFull Connect = "full"
	// ConnectDirect is ConnectFull plus every input to every output.
	ConnectDirect Connect = "direct"
)

// Spec describes a base network: layer sizes, activations and wiring.
type Spec struct {
	Inputs           int
	Hidden           []int
	Outputs          int
	HiddenActivation string
	OutputActivation string
	Connect          Connect
	// InitialWeight is written into every initial connection; zero means 1.
	InitialWeight float64
}

// New builds a network of the requested representation from spec.
func New(repr Representation, spec Spec) (Network, error) {
	if spec.Inputs <= 0 {
		return nil, fmt.Errorf("%w: input layer size must be positive, got %d", ErrIllegalArgument, spec.Inputs)
	}
	if spec.Outputs <= 0 {
		return nil, fmt.Errorf("%w: output layer size must be positive, got %d", ErrIllegalArgument, spec.Outputs)
	}
	for i, n := range spec.Hidden {
		if n <= 0 {
			return nil, fmt.Errorf("%w: hidden layer %d size must be positive, got %d", ErrIllegalArgument, i, n)
		}
	}
	hiddenAct := orDefault(spec.HiddenActivation, "sigmoid")
	outputAct := orDefault(spec.OutputActivation, "sigmoid")
	hiddenFn, err := GetActivation(hiddenAct)
	if err != nil {
		return nil, err
	}
	outputFn, err := GetActivation(outputAct)
	if err != nil {
		return nil, err
	}
	weight := spec.InitialWeight
	if weight == 0 {
		weight = 1
	}

	s, err := newEmpty(repr)
	if err != nil {
		return nil, err
	}
	s.appendLayer(Input)
	for i := 0; i < spec.Inputs; i++ {
		s.placeNeuron(0, 0, "", nil)
	}
	for l, n := range spec.Hidden {
		s.appendLayer(Hidden)
		for i := 0; i < n; i++ {
			s.placeNeuron(l+1, 0, hiddenAct, hiddenFn)
		}
	}
	s.appendLayer(Output)
	out := len(spec.Hidden) + 1
	for i := 0; i < spec.Outputs; i++ {
		s.placeNeuron(out, 0, outputAct, outputFn)
	}

	switch spec.Connect {
	case "", ConnectFull, ConnectDirect:
		for l := 0; l < out; l++ {
			if err := connectLayers(s, l, l+1, weight); err != nil {
				return nil, err
			}
		}
		if spec.Connect == ConnectDirect && out > 1 {
			if err := connectLayers(s, 0, out, weight); err != nil {
				return nil, err
			}
		}
	case ConnectNone:
	default:
		return nil, fmt.Errorf("%w: unknown initial connection %q", ErrIllegalArgument, spec.Connect)
	}
	return s, nil
}

// NewLayered builds a matrix-backed network from spec.
func NewLayered(spec Spec) (*LayeredNetwork, error) {
	n, err := New(Layered, spec)
	if err != nil {
		return nil, err
	}
	return n.(*LayeredNetwork), nil
}

// NewGraph builds a graph-backed network from spec.
func NewGraph(spec Spec) (*GraphNetwork, error) {
	n, err := New(Graph, spec)
	if err != nil {
		return nil, err
	}
	return n.(*GraphNetwork), nil
}

func connectLayers(s structure, from, to int, weight float64) error {
	for _, a := range s.Neurons(from) {
		for _, b := range s.Neurons(to) {
			if err := s.AddConnection(a, b, weight); err != nil {
				return err
			}
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// checkLayer validates a layer index.
func checkLayer(depth, layer int) error {
	if layer < 0 || layer >= depth {
		return fmt.Errorf("%w: layer %d out of range [0, %d)", ErrIllegalArgument, layer, depth)
	}
	return nil
}
