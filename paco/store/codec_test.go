package store

import (
	"testing"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAntRejectsVersionMismatch(t *testing.T) {
	record := NewAntRecord("run-1", testAnt(t, 1))
	record.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeAnt(record)
	require.NoError(t, err)

	_, err = DecodeAnt(data)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestDecodeAntKeepsNetwork(t *testing.T) {
	ant := testAnt(t, 0.25)
	data, err := EncodeAnt(NewAntRecord("run-1", ant))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":1`)

	record, err := DecodeAnt(data)
	require.NoError(t, err)
	assert.Equal(t, nn.TakeSnapshot(ant.Network), record.Network)

	_, err = DecodeAnt([]byte("{"))
	assert.Error(t, err)
}

func TestAntRecordRejectsBadID(t *testing.T) {
	record := NewAntRecord("run-1", testAnt(t, 1))
	record.ID = "not-a-uuid"
	_, err := record.Ant(nn.Layered)
	assert.ErrorContains(t, err, "invalid ant id")
}
