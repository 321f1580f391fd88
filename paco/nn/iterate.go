package nn

import (
	"iter"
	"strings"
)

// Connection is one edge of a network as seen by the iteration helpers.
type Connection struct {
	From     NeuronID
	To       NeuronID
	FromAddr Address
	ToAddr   Address
	Weight   float64
}

// Link returns the address pair of the connection.
func (c Connection) Link() Link {
	return Link{From: c.FromAddr, To: c.ToAddr}
}

// AllNeurons yields every live neuron with its address, layer by layer in
// in-layer index order.
func AllNeurons(n Network) iter.Seq2[NeuronID, Address] {
	return func(yield func(NeuronID, Address) bool) {
		for l := 0; l < n.Depth(); l++ {
			for i, id := range n.Neurons(l) {
				if !yield(id, Address{Layer: l, Index: i}) {
					return
				}
			}
		}
	}
}

// Connections yields every connection ordered by target address, then by
// source address. The order depends only on the topology, so two networks
// with the same connections yield the same sequence.
func Connections(n Network) iter.Seq[Connection] {
	return func(yield func(Connection) bool) {
		for l := 1; l < n.Depth(); l++ {
			for i, to := range n.Neurons(l) {
				toAddr := Address{Layer: l, Index: i}
				for _, from := range n.Incoming(to) {
					fromAddr, _ := n.Address(from)
					w, _ := n.Weight(from, to)
					if !yield(Connection{From: from, To: to, FromAddr: fromAddr, ToAddr: toAddr, Weight: w}) {
						return
					}
				}
			}
		}
	}
}

// DepthFirst yields every connection once, walking depth-first along
// outgoing connections from each input neuron in turn and then from any
// neuron the walk has not reached.
func DepthFirst(n Network) iter.Seq[Connection] {
	return func(yield func(Connection) bool) {
		visited := make(map[NeuronID]bool)
		var walk func(id NeuronID) bool
		walk = func(id NeuronID) bool {
			visited[id] = true
			fromAddr, _ := n.Address(id)
			for _, to := range n.Outgoing(id) {
				toAddr, _ := n.Address(to)
				w, _ := n.Weight(id, to)
				if !yield(Connection{From: id, To: to, FromAddr: fromAddr, ToAddr: toAddr, Weight: w}) {
					return false
				}
				if !visited[to] && !walk(to) {
					return false
				}
			}
			return true
		}
		for id := range AllNeurons(n) {
			if !visited[id] && !walk(id) {
				return
			}
		}
	}
}

// Signature concatenates every connection as "(from -> to)" in Connections
// order. Networks with equal signatures have the same wiring.
func Signature(n Network) string {
	var sb strings.Builder
	for c := range Connections(n) {
		sb.WriteString(c.Link().String())
	}
	return sb.String()
}

// HiddenNeuronCount returns the number of neurons in hidden layers.
func HiddenNeuronCount(n Network) int {
	count := 0
	for l := 0; l < n.Depth(); l++ {
		if n.LayerKind(l) == Hidden {
			count += n.LayerSize(l)
		}
	}
	return count
}

// ConnectionCount returns the number of connections.
func ConnectionCount(n Network) int {
	count := 0
	for l := 1; l < n.Depth(); l++ {
		for _, id := range n.Neurons(l) {
			count += len(n.Incoming(id))
		}
	}
	return count
}
