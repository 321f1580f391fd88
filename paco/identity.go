package paco

import (
	"maps"

	"github.com/baldhumanity/paco-go/paco/nn"
)

// Identity is the canonical identity of a neuron or connection. Knowledge
// accumulated under one identity is shared by every ant that maps one of
// its neurons or connections onto it, whatever the ant's exact topology.
//
// Identities an archive has not assigned yet are negative placeholders;
// Archive.Add replaces them with freshly allocated ones.
type Identity int

// Pair identifies a possible connection by the identities of its endpoints.
type Pair struct {
	From Identity
	To   Identity
}

// Identities is the index-mapping table of one topology: the identity of
// every neuron and connection, keyed by current address.
type Identities struct {
	Neurons     map[nn.Address]Identity
	Connections map[nn.Link]Identity
}

// NewIdentities returns an empty table.
func NewIdentities() Identities {
	return Identities{
		Neurons:     make(map[nn.Address]Identity),
		Connections: make(map[nn.Link]Identity),
	}
}

// Clone returns an independent copy of the table.
func (ids Identities) Clone() Identities {
	return Identities{
		Neurons:     maps.Clone(ids.Neurons),
		Connections: maps.Clone(ids.Connections),
	}
}

// Pair returns the endpoint identities of link.
func (ids Identities) Pair(link nn.Link) Pair {
	return Pair{From: ids.Neurons[link.From], To: ids.Neurons[link.To]}
}

// handleTable is an identity table keyed by the handles of one network
// instance, so it survives the address shifts of structural edits.
type handleTable struct {
	neurons map[nn.NeuronID]Identity
	conns   map[[2]nn.NeuronID]Identity
	fresh   Identity
}

// bind keys ids by the handles of net. Entries ids does not cover get
// placeholders.
func bind(net nn.Network, ids Identities) *handleTable {
	t := &handleTable{
		neurons: make(map[nn.NeuronID]Identity),
		conns:   make(map[[2]nn.NeuronID]Identity),
	}
	for id, addr := range nn.AllNeurons(net) {
		identity, ok := ids.Neurons[addr]
		if !ok {
			identity = t.placeholder()
		}
		t.neurons[id] = identity
	}
	for c := range nn.Connections(net) {
		identity, ok := ids.Connections[c.Link()]
		if !ok {
			identity = t.placeholder()
		}
		t.conns[[2]nn.NeuronID{c.From, c.To}] = identity
	}
	return t
}

func (t *handleTable) placeholder() Identity {
	t.fresh--
	return t.fresh
}

func (t *handleTable) connection(from, to nn.NeuronID) Identity {
	return t.conns[[2]nn.NeuronID{from, to}]
}

func (t *handleTable) pair(from, to nn.NeuronID) Pair {
	return Pair{From: t.neurons[from], To: t.neurons[to]}
}

// resolve converts the table back to addresses of net.
func (t *handleTable) resolve(net nn.Network) Identities {
	ids := NewIdentities()
	for id, addr := range nn.AllNeurons(net) {
		ids.Neurons[addr] = t.neurons[id]
	}
	for c := range nn.Connections(net) {
		ids.Connections[c.Link()] = t.connection(c.From, c.To)
	}
	return ids
}
