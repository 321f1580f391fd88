package nn

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionsOrder(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, repr Representation) {
		n := mustNew(t, repr, Spec{Inputs: 2, Outputs: 2, Connect: ConnectNone})
		i0, i1 := neuronAt(t, n, 0, 0), neuronAt(t, n, 0, 1)
		o0, o1 := neuronAt(t, n, 1, 0), neuronAt(t, n, 1, 1)
		// Added out of order on purpose.
		require.NoError(t, n.AddConnection(o1, o0, 0.1))
		require.NoError(t, n.AddConnection(i1, o1, 0.2))
		require.NoError(t, n.AddConnection(i0, o0, 0.3))
		require.NoError(t, n.AddConnection(i1, o0, 0.4))

		var links []string
		for c := range Connections(n) {
			links = append(links, c.Link().String())
		}
		assert.Equal(t, []string{"(0-0 -> 1-0)", "(0-1 -> 1-0)", "(1-1 -> 1-0)", "(0-1 -> 1-1)"}, links)
		assert.Equal(t, "(0-0 -> 1-0)(0-1 -> 1-0)(1-1 -> 1-0)(0-1 -> 1-1)", Signature(n))
	})
}

func TestConnectionsStopsEarly(t *testing.T) {
	n := mustNew(t, Layered, Spec{Inputs: 3, Outputs: 3})
	count := 0
	for range Connections(n) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestSignatureIgnoresWeightsAndHandles(t *testing.T) {
	a := mustNew(t, Layered, Spec{Inputs: 2, Hidden: []int{2}, Outputs: 1})
	b := mustNew(t, Graph, Spec{Inputs: 2, Hidden: []int{2}, Outputs: 1, InitialWeight: 0.5})
	randomizeWeights(t, a, 3)
	assert.Equal(t, Signature(a), Signature(b))

	require.NoError(t, b.RemoveConnection(neuronAt(t, b, 0, 0), neuronAt(t, b, 1, 0)))
	assert.NotEqual(t, Signature(a), Signature(b))
}

func TestDepthFirstVisitsEveryConnectionOnce(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, repr Representation) {
		n := mustNew(t, repr, Spec{Inputs: 2, Hidden: []int{3, 2}, Outputs: 2, Connect: ConnectDirect})
		require.NoError(t, n.AddConnection(neuronAt(t, n, 3, 1), neuronAt(t, n, 1, 0), 0.5))
		require.NoError(t, n.AddConnection(neuronAt(t, n, 2, 0), neuronAt(t, n, 2, 0), 0.5))
		// An isolated hidden neuron with a connection only out of it.
		orphan, err := n.AddNeuron(2, 0, "tanh")
		require.NoError(t, err)
		require.NoError(t, n.AddConnection(orphan, neuronAt(t, n, 3, 0), 0.5))

		want := make(map[Link]int)
		for c := range Connections(n) {
			want[c.Link()]++
		}
		got := make(map[Link]int)
		for c := range DepthFirst(n) {
			got[c.Link()]++
		}
		assert.Equal(t, want, got)
		assert.Len(t, slices.Collect(DepthFirst(n)), ConnectionCount(n))
	})
}

func TestAllNeurons(t *testing.T) {
	n := mustNew(t, Graph, Spec{Inputs: 2, Hidden: []int{1}, Outputs: 3})
	var addrs []Address
	for _, addr := range AllNeurons(n) {
		addrs = append(addrs, addr)
	}
	assert.Equal(t, []Address{
		{Layer: 0, Index: 0}, {Layer: 0, Index: 1},
		{Layer: 1, Index: 0},
		{Layer: 2, Index: 0}, {Layer: 2, Index: 1}, {Layer: 2, Index: 2},
	}, addrs)
	assert.Equal(t, 1, HiddenNeuronCount(n))
}
