package nn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTripAcrossRepresentations(t *testing.T) {
	src := mustNew(t, Layered, Spec{Inputs: 2, Hidden: []int{3}, Outputs: 1, HiddenActivation: "relu"})
	randomizeWeights(t, src, 5)
	require.NoError(t, src.AddConnection(neuronAt(t, src, 2, 0), neuronAt(t, src, 1, 1), -0.3))

	data, err := json.Marshal(TakeSnapshot(src))
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	for _, repr := range representations {
		dst, err := Restore(repr, snap)
		require.NoError(t, err)
		assert.Equal(t, Signature(src), Signature(dst))
		act, err := dst.Activation(neuronAt(t, dst, 1, 2))
		require.NoError(t, err)
		assert.Equal(t, "relu", act)

		a := src.Clone()
		for _, in := range [][]float64{{1, 0}, {0.2, 0.9}} {
			want, err := a.Process(in)
			require.NoError(t, err)
			got, err := dst.Process(in)
			require.NoError(t, err)
			assert.InDeltaSlice(t, want, got, 1e-12)
		}
	}
}

func TestRestoreRejectsMalformedSnapshots(t *testing.T) {
	good := TakeSnapshot(mustNew(t, Graph, Spec{Inputs: 1, Outputs: 1}))

	_, err := Restore(Layered, Snapshot{Layers: good.Layers[:1]})
	assert.ErrorIs(t, err, ErrIllegalArgument)

	bad := good
	bad.Connections = []ConnectionSnapshot{{From: Address{Layer: 0, Index: 4}, To: Address{Layer: 1, Index: 0}, Weight: 1}}
	_, err = Restore(Layered, bad)
	assert.ErrorIs(t, err, ErrIllegalArgument)

	bad = good
	bad.Layers = []LayerSnapshot{good.Layers[0], {Kind: Output, Size: 1, Bias: []float64{0}, Activations: []string{"missing"}}}
	_, err = Restore(Graph, bad)
	assert.ErrorIs(t, err, ErrIllegalArgument)

	bad = good
	bad.Layers = []LayerSnapshot{good.Layers[1], good.Layers[0]}
	_, err = Restore(Graph, bad)
	assert.ErrorIs(t, err, ErrIllegalArgument)
}
