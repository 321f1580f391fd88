package nn

import "fmt"

// Snapshot is a serializable description of a network's structure and
// parameters. It carries no handles; restoring allocates fresh ones.
type Snapshot struct {
	Layers      []LayerSnapshot      `json:"layers"`
	Connections []ConnectionSnapshot `json:"connections"`
}

// LayerSnapshot describes one layer. Bias and Activations are empty for the
// input layer.
type LayerSnapshot struct {
	Kind        Kind      `json:"kind"`
	Size        int       `json:"size"`
	Bias        []float64 `json:"bias,omitempty"`
	Activations []string  `json:"activations,omitempty"`
}

// ConnectionSnapshot describes one connection by endpoint addresses.
type ConnectionSnapshot struct {
	From   Address `json:"from"`
	To     Address `json:"to"`
	Weight float64 `json:"weight"`
}

// TakeSnapshot captures n.
func TakeSnapshot(n Network) Snapshot {
	s := Snapshot{Layers: make([]LayerSnapshot, n.Depth())}
	for l := 0; l < n.Depth(); l++ {
		ls := LayerSnapshot{Kind: n.LayerKind(l), Size: n.LayerSize(l)}
		if ls.Kind != Input {
			for _, id := range n.Neurons(l) {
				b, _ := n.Bias(id)
				a, _ := n.Activation(id)
				ls.Bias = append(ls.Bias, b)
				ls.Activations = append(ls.Activations, a)
			}
		}
		s.Layers[l] = ls
	}
	for c := range Connections(n) {
		s.Connections = append(s.Connections, ConnectionSnapshot{From: c.FromAddr, To: c.ToAddr, Weight: c.Weight})
	}
	return s
}

// Restore builds a network of the requested representation from s.
func Restore(repr Representation, s Snapshot) (Network, error) {
	if len(s.Layers) < 2 {
		return nil, fmt.Errorf("%w: snapshot has %d layers, need at least 2", ErrIllegalArgument, len(s.Layers))
	}
	if s.Layers[0].Kind != Input || s.Layers[len(s.Layers)-1].Kind != Output {
		return nil, fmt.Errorf("%w: snapshot must start with an input layer and end with an output layer", ErrIllegalArgument)
	}
	net, err := newEmpty(repr)
	if err != nil {
		return nil, err
	}
	for l, ls := range s.Layers {
		if l > 0 && l < len(s.Layers)-1 && ls.Kind != Hidden {
			return nil, fmt.Errorf("%w: layer %d must be hidden, got %s", ErrIllegalArgument, l, ls.Kind)
		}
		if ls.Size <= 0 {
			return nil, fmt.Errorf("%w: layer %d size must be positive, got %d", ErrIllegalArgument, l, ls.Size)
		}
		net.appendLayer(ls.Kind)
		if ls.Kind == Input {
			for i := 0; i < ls.Size; i++ {
				net.placeNeuron(l, 0, "", nil)
			}
			continue
		}
		if len(ls.Bias) != ls.Size || len(ls.Activations) != ls.Size {
			return nil, fmt.Errorf("%w: layer %d has %d neurons but %d biases and %d activations", ErrIllegalArgument, l, ls.Size, len(ls.Bias), len(ls.Activations))
		}
		for i := 0; i < ls.Size; i++ {
			fn, err := GetActivation(ls.Activations[i])
			if err != nil {
				return nil, fmt.Errorf("layer %d neuron %d: %w", l, i, err)
			}
			net.placeNeuron(l, ls.Bias[i], ls.Activations[i], fn)
		}
	}
	for _, c := range s.Connections {
		from, ok := net.At(c.From.Layer, c.From.Index)
		if !ok {
			return nil, fmt.Errorf("%w: connection source %s does not exist", ErrIllegalArgument, c.From)
		}
		to, ok := net.At(c.To.Layer, c.To.Index)
		if !ok {
			return nil, fmt.Errorf("%w: connection target %s does not exist", ErrIllegalArgument, c.To)
		}
		if err := net.AddConnection(from, to, c.Weight); err != nil {
			return nil, err
		}
	}
	return net, nil
}
