package nn

import "fmt"

// NeuronID is a stable handle to a neuron. It stays valid across every
// structural edit of the network that owns it and across Clone; only the
// neuron's Address changes.
type NeuronID int

// Address is the current position of a neuron: its layer index and its
// index inside that layer.
type Address struct {
	Layer int
	Index int
}

// String renders the address as "layer-index".
func (a Address) String() string {
	return fmt.Sprintf("%d-%d", a.Layer, a.Index)
}

// Less orders addresses by layer, then by in-layer index.
func (a Address) Less(b Address) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	return a.Index < b.Index
}

// Link identifies a connection by the addresses of its endpoints.
type Link struct {
	From Address
	To   Address
}

// String renders the link the way it appears in topology signatures.
func (l Link) String() string {
	return fmt.Sprintf("(%s -> %s)", l.From, l.To)
}

// IsForward reports whether an edge from a to b is a forward edge. Edges
// into the same or an earlier layer are recurrent: they read the value the
// source neuron produced on the previous Process call.
func IsForward(a, b Address) bool {
	return a.Layer < b.Layer
}

// record is the arena slot a NeuronID points to.
type record struct {
	addr  Address
	alive bool
}

// arena owns the address of every neuron a network has ever allocated.
// Handles are never reused, so a handle to a removed neuron resolves to
// false instead of silently aliasing a newer neuron.
type arena struct {
	records []record
}

func (a *arena) alloc(addr Address) NeuronID {
	a.records = append(a.records, record{addr: addr, alive: true})
	return NeuronID(len(a.records) - 1)
}

func (a *arena) address(id NeuronID) (Address, bool) {
	if id < 0 || int(id) >= len(a.records) || !a.records[id].alive {
		return Address{}, false
	}
	return a.records[id].addr, true
}

func (a *arena) place(id NeuronID, addr Address) {
	a.records[id].addr = addr
}

func (a *arena) kill(id NeuronID) {
	a.records[id].alive = false
}

func (a *arena) clone() arena {
	records := make([]record, len(a.records))
	copy(records, a.records)
	return arena{records: records}
}

// reindex rewrites the arena records of a layer's neurons so that each
// neuron's address matches its position in the slice.
func (a *arena) reindex(layer int, neurons []NeuronID) {
	for i, id := range neurons {
		a.place(id, Address{Layer: layer, Index: i})
	}
}
