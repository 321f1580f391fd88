// Package store persists archived ants so a driver can keep the results of
// a run after the archive has forgotten them.
package store

import (
	"context"
	"fmt"

	"github.com/baldhumanity/paco-go/paco"
	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/google/uuid"
)

// VersionedRecord carries the versions a record was written with.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// AntRecord is the stored form of an evaluated ant.
type AntRecord struct {
	VersionedRecord
	ID            string      `json:"id"`
	RunID         string      `json:"run_id"`
	Fitness       float64     `json:"fitness"`
	Signature     string      `json:"signature"`
	HiddenNeurons int         `json:"hidden_neurons"`
	Connections   int         `json:"connections"`
	Network       nn.Snapshot `json:"network"`
}

// NewAntRecord captures ant under runID.
func NewAntRecord(runID string, ant *paco.Ant) AntRecord {
	return AntRecord{
		VersionedRecord: VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              ant.ID.String(),
		RunID:           runID,
		Fitness:         ant.Fitness,
		Signature:       ant.Signature(),
		HiddenNeurons:   ant.HiddenNeurons(),
		Connections:     ant.Connections(),
		Network:         nn.TakeSnapshot(ant.Network),
	}
}

// Ant rebuilds the evaluated ant in the given representation. Identities
// are not stored; an archive assigns them again when the ant is added.
func (r AntRecord) Ant(repr nn.Representation) (*paco.Ant, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid ant id %q: %w", r.ID, err)
	}
	net, err := nn.Restore(repr, r.Network)
	if err != nil {
		return nil, fmt.Errorf("restore ant %s: %w", r.ID, err)
	}
	ant := &paco.Ant{ID: id, Network: net, Identities: paco.NewIdentities()}
	ant.SetFitness(r.Fitness)
	return ant, nil
}

// Store persists ant records.
type Store interface {
	Init(ctx context.Context) error
	SaveAnt(ctx context.Context, record AntRecord) error
	GetAnt(ctx context.Context, id string) (AntRecord, bool, error)
	// ListAnts returns the records of a run, fittest first.
	ListAnts(ctx context.Context, runID string) ([]AntRecord, error)
	Close() error
}
