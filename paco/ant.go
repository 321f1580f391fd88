package paco

import (
	"fmt"
	"math"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/google/uuid"
)

// Ant is one network instance together with its fitness.
//
// Once an ant is added to an Archive its network must not be modified: the
// archive removes the ant's values again by reading them back.
type Ant struct {
	ID         uuid.UUID
	Network    nn.Network
	Fitness    float64
	Evaluated  bool
	Identities Identities

	signature string
}

// NewAnt wraps net with a random ID. ids may be empty; the archive assigns
// identities to whatever the table does not cover.
func NewAnt(net nn.Network, ids Identities) *Ant {
	return &Ant{ID: uuid.New(), Network: net, Identities: ids}
}

// SetFitness records the ant's fitness (higher is better) and marks it as
// evaluated.
func (a *Ant) SetFitness(fitness float64) {
	a.Fitness = fitness
	a.Evaluated = true
}

// Signature returns the topology signature of the ant's network.
func (a *Ant) Signature() string {
	if a.signature != "" {
		return a.signature
	}
	return nn.Signature(a.Network)
}

// HiddenNeurons returns the number of hidden neurons of the ant's network.
func (a *Ant) HiddenNeurons() int {
	return nn.HiddenNeuronCount(a.Network)
}

// Connections returns the number of connections of the ant's network.
func (a *Ant) Connections() int {
	return nn.ConnectionCount(a.Network)
}

func (a *Ant) String() string {
	return fmt.Sprintf("Ant(%s, fitness=%.4f, hidden=%d, connections=%d)", a.ID, a.Fitness, a.HiddenNeurons(), a.Connections())
}

// checkValues rejects networks carrying non-finite weights or biases.
func checkValues(net nn.Network) error {
	for c := range nn.Connections(net) {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return fmt.Errorf("%w: connection %s has weight %v", ErrInvalidWeights, c.Link(), c.Weight)
		}
	}
	for id, addr := range nn.AllNeurons(net) {
		if net.LayerKind(addr.Layer) == nn.Input {
			continue
		}
		if b, _ := net.Bias(id); math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("%w: neuron %s has bias %v", ErrInvalidWeights, addr, b)
		}
	}
	return nil
}
