package paco

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/google/uuid"
)

// ArchiveSaveData is the checkpoint form of an Archive. Only the ants and
// the identity allocator are saved; the statistics are rebuilt by adding
// the ants again, so a checkpoint can never disagree with its ants.
type ArchiveSaveData struct {
	Base         nn.Snapshot
	BaseIDs      IdentitySaveData
	NextIdentity Identity
	Ants         []AntSaveData // Insertion order.
}

// AntSaveData is the checkpoint form of an Ant.
type AntSaveData struct {
	ID         uuid.UUID
	Fitness    float64
	Network    nn.Snapshot
	Identities IdentitySaveData
}

// IdentitySaveData flattens an Identities table for gob.
type IdentitySaveData struct {
	Neurons     []NeuronIdentity
	Connections []ConnectionIdentity
}

type NeuronIdentity struct {
	Address  nn.Address
	Identity Identity
}

type ConnectionIdentity struct {
	Link     nn.Link
	Identity Identity
}

func flattenIdentities(ids Identities) IdentitySaveData {
	var out IdentitySaveData
	for addr, id := range ids.Neurons {
		out.Neurons = append(out.Neurons, NeuronIdentity{Address: addr, Identity: id})
	}
	for link, id := range ids.Connections {
		out.Connections = append(out.Connections, ConnectionIdentity{Link: link, Identity: id})
	}
	return out
}

func (d IdentitySaveData) identities() Identities {
	ids := NewIdentities()
	for _, n := range d.Neurons {
		ids.Neurons[n.Address] = n.Identity
	}
	for _, c := range d.Connections {
		ids.Connections[c.Link] = c.Identity
	}
	return ids
}

// SaveCheckpoint saves the archive to a gzip-compressed gob file.
func (a *Archive) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	saveData := ArchiveSaveData{
		Base:         a.baseSnapshot,
		BaseIDs:      flattenIdentities(a.base),
		NextIdentity: a.next,
		Ants:         make([]AntSaveData, len(a.members)),
	}
	for i, m := range a.members {
		saveData.Ants[i] = AntSaveData{
			ID:         m.ant.ID,
			Fitness:    m.ant.Fitness,
			Network:    nn.TakeSnapshot(m.ant.Network),
			Identities: flattenIdentities(m.ant.Identities),
		}
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		return fmt.Errorf("failed to encode archive data: %w", err)
	}
	// Close explicitly so a failed flush is reported.
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint file '%s': %w", filePath, err)
	}
	return nil
}

// LoadCheckpoint restores an archive and its base network from a
// checkpoint. The configuration is not part of the checkpoint; networks are
// restored in config's representation.
func LoadCheckpoint(checkpointPath string, config *Config) (*Archive, nn.Network, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var saveData ArchiveSaveData
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, nil, fmt.Errorf("failed to decode archive data from checkpoint: %w", err)
	}

	repr := config.Representation()
	base, err := nn.Restore(repr, saveData.Base)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore base network: %w", err)
	}
	a, err := NewArchive(base, config)
	if err != nil {
		return nil, nil, err
	}
	a.base = saveData.BaseIDs.identities()
	a.next = saveData.NextIdentity

	// Silence reporters while rebuilding.
	reporters := a.Reporters
	a.Reporters = nil
	for _, saved := range saveData.Ants {
		net, err := nn.Restore(repr, saved.Network)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to restore ant %s: %w", saved.ID, err)
		}
		ant := &Ant{ID: saved.ID, Network: net, Identities: saved.Identities.identities()}
		ant.SetFitness(saved.Fitness)
		if err := a.Add(ant); err != nil {
			return nil, nil, fmt.Errorf("failed to archive ant %s: %w", saved.ID, err)
		}
	}
	a.Reporters = reporters
	return a, base, nil
}
