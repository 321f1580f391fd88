package paco

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/google/uuid"
)

// Archive is the bounded population of evaluated ants and the pheromone
// they carry: for every canonical connection and neuron identity, the
// multiset of weight or bias values the archived ants hold for it.
//
// An Archive is not safe for concurrent use. Samplers that generate
// candidates concurrently read from a Snapshot instead.
type Archive struct {
	config     *Config
	rankWeight RankWeightFunc

	members    []member // Insertion order.
	seq        int64
	topologies map[string]*Topology

	connValues map[Identity][]float64
	biasValues map[Identity][]float64
	pairCounts map[Pair]int

	next          Identity
	base          Identities
	baseSignature string
	baseSnapshot  nn.Snapshot
	readOnly      bool

	Reporters *ReporterSet
}

// Stats summarizes the archive's fitness distribution.
type Stats struct {
	Size          int
	Capacity      int
	Topologies    int
	BestFitness   float64
	WorstFitness  float64
	MeanFitness   float64
	MedianFitness float64
	StdevFitness  float64
}

// NewArchive creates an empty archive for ants derived from base. The
// identities of base's neurons and connections are allocated here, in
// iteration order, so they are the same for every archive built from an
// equal base network.
func NewArchive(base nn.Network, config *Config) (*Archive, error) {
	if config == nil {
		return nil, fmt.Errorf("archive requires a config")
	}
	if base == nil {
		return nil, fmt.Errorf("archive requires a base network")
	}
	rankWeight, ok := RankWeightFunctions[config.Archive.RankWeight]
	if !ok {
		return nil, fmt.Errorf("invalid rank_weight in config: %s", config.Archive.RankWeight)
	}

	a := &Archive{
		config:        config,
		rankWeight:    rankWeight,
		topologies:    make(map[string]*Topology),
		connValues:    make(map[Identity][]float64),
		biasValues:    make(map[Identity][]float64),
		pairCounts:    make(map[Pair]int),
		base:          NewIdentities(),
		baseSignature: nn.Signature(base),
		baseSnapshot:  nn.TakeSnapshot(base),
		Reporters:     &ReporterSet{},
	}
	for _, addr := range nn.AllNeurons(base) {
		a.base.Neurons[addr] = a.alloc()
	}
	for c := range nn.Connections(base) {
		a.base.Connections[c.Link()] = a.alloc()
	}
	return a, nil
}

func (a *Archive) alloc() Identity {
	id := a.next
	a.next++
	return id
}

// Capacity returns the maximum number of archived ants.
func (a *Archive) Capacity() int { return a.config.Archive.PopulationCapacity }

// Len returns the number of archived ants.
func (a *Archive) Len() int { return len(a.members) }

// BaseIdentities returns a copy of the identity table of the base network.
func (a *Archive) BaseIdentities() Identities { return a.base.Clone() }

// BaseSignature returns the topology signature of the base network.
func (a *Archive) BaseSignature() string { return a.baseSignature }

// Add archives an evaluated ant. At capacity the replacement policy evicts
// one ant first. The ant's identity table is replaced by its canonical
// form: the stored table of its topology if the signature is known,
// otherwise its own table with every missing or placeholder entry freshly
// allocated.
func (a *Archive) Add(ant *Ant) error {
	if a.readOnly {
		return ErrReadOnly
	}
	if ant == nil || ant.Network == nil {
		return fmt.Errorf("cannot archive an ant without a network")
	}
	if !ant.Evaluated {
		return fmt.Errorf("%w: ant %s", ErrNotEvaluated, ant.ID)
	}
	if math.IsNaN(ant.Fitness) {
		return fmt.Errorf("%w: ant %s has NaN fitness", ErrNotEvaluated, ant.ID)
	}
	if err := checkValues(ant.Network); err != nil {
		return err
	}
	if a.index(ant.ID) >= 0 {
		return fmt.Errorf("ant %s is already archived", ant.ID)
	}

	if len(a.members) >= a.Capacity() {
		evicted := a.drop(evictionIndex(a.members, a.config.Archive.ReplacementPolicy))
		a.Reporters.AntEvicted(evicted)
	}

	a.seq++
	signature := nn.Signature(ant.Network)
	t, ok := a.topologies[signature]
	if !ok {
		t = newTopology(signature, a.complete(ant.Network, ant.Identities), a.seq)
		a.topologies[signature] = t
	}
	t.Members++
	ant.Identities = t.Identities.Clone()
	ant.signature = signature

	a.members = append(a.members, member{ant: ant, seq: a.seq})
	a.record(ant, true)
	a.Reporters.AntAdded(ant, a.Stats())
	return nil
}

// complete returns the identity table of net built from ids, allocating
// identities for entries ids lacks or holds placeholders for.
func (a *Archive) complete(net nn.Network, ids Identities) Identities {
	out := NewIdentities()
	fresh := make(map[Identity]Identity)
	resolve := func(id Identity, ok bool) Identity {
		if !ok {
			return a.alloc()
		}
		if id < 0 {
			if assigned, seen := fresh[id]; seen {
				return assigned
			}
			fresh[id] = a.alloc()
			return fresh[id]
		}
		if id >= a.next {
			a.next = id + 1
		}
		return id
	}
	for _, addr := range nn.AllNeurons(net) {
		id, ok := ids.Neurons[addr]
		out.Neurons[addr] = resolve(id, ok)
	}
	for c := range nn.Connections(net) {
		id, ok := ids.Connections[c.Link()]
		out.Connections[c.Link()] = resolve(id, ok)
	}
	return out
}

// record adds (or with add false removes) the ant's values to the
// pheromone multisets.
func (a *Archive) record(ant *Ant, add bool) {
	net, ids := ant.Network, ant.Identities
	for c := range nn.Connections(net) {
		link := c.Link()
		id := ids.Connections[link]
		pair := ids.Pair(link)
		if add {
			a.connValues[id] = append(a.connValues[id], c.Weight)
			a.pairCounts[pair]++
			continue
		}
		removeValue(a.connValues, id, c.Weight)
		if a.pairCounts[pair]--; a.pairCounts[pair] <= 0 {
			delete(a.pairCounts, pair)
		}
	}
	for nid, addr := range nn.AllNeurons(net) {
		if net.LayerKind(addr.Layer) == nn.Input {
			continue
		}
		bias, _ := net.Bias(nid)
		id := ids.Neurons[addr]
		if add {
			a.biasValues[id] = append(a.biasValues[id], bias)
		} else {
			removeValue(a.biasValues, id, bias)
		}
	}
}

// removeValue deletes one occurrence of v from the multiset of id, and the
// multiset itself once it is empty.
func removeValue(values map[Identity][]float64, id Identity, v float64) {
	vs := values[id]
	for i, x := range vs {
		if x == v {
			vs[i] = vs[len(vs)-1]
			vs = vs[:len(vs)-1]
			break
		}
	}
	if len(vs) == 0 {
		delete(values, id)
		return
	}
	values[id] = vs
}

func (a *Archive) index(id uuid.UUID) int {
	for i, m := range a.members {
		if m.ant.ID == id {
			return i
		}
	}
	return -1
}

// drop removes members[i] and its values and returns the ant.
func (a *Archive) drop(i int) *Ant {
	ant := a.members[i].ant
	a.members = append(a.members[:i], a.members[i+1:]...)
	a.record(ant, false)
	if t := a.topologies[ant.signature]; t != nil {
		if t.Members--; t.Members <= 0 {
			delete(a.topologies, ant.signature)
		}
	}
	return ant
}

// Remove takes the ant with the given ID out of the archive.
func (a *Archive) Remove(id uuid.UUID) (*Ant, error) {
	if a.readOnly {
		return nil, ErrReadOnly
	}
	i := a.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnt, id)
	}
	return a.drop(i), nil
}

// Ants returns the archived ants ordered by the selection policy, best rank
// first.
func (a *Archive) Ants() []*Ant {
	ranked := rankMembers(a.members, a.config.Archive.SelectionPolicy)
	out := make([]*Ant, len(ranked))
	for i, m := range ranked {
		out[i] = m.ant
	}
	return out
}

// Best returns the fittest archived ant, the oldest one on ties.
func (a *Archive) Best() (*Ant, error) {
	if len(a.members) == 0 {
		return nil, ErrEmptyArchive
	}
	return rankMembers(a.members, SelectByFitness)[0].ant, nil
}

// selectTemplate draws an ant by rank-weighted sampling.
func (a *Archive) selectTemplate(rng *rand.Rand) (*Ant, bool) {
	if len(a.members) == 0 {
		return nil, false
	}
	ranked := rankMembers(a.members, a.config.Archive.SelectionPolicy)
	i, ok := Choose(rng, a.rankWeight(len(ranked), a.config.Archive.RankWeightQ))
	if !ok {
		return nil, false
	}
	return ranked[i].ant, true
}

// ConnectionValues returns a copy of the weights archived for id.
func (a *Archive) ConnectionValues(id Identity) []float64 {
	return slices.Clone(a.connValues[id])
}

// BiasValues returns a copy of the biases archived for id.
func (a *Archive) BiasValues(id Identity) []float64 {
	return slices.Clone(a.biasValues[id])
}

// PairCount returns how many archived ants connect the two neuron
// identities of p.
func (a *Archive) PairCount(p Pair) int {
	return a.pairCounts[p]
}

// TopologyCount returns how many archived ants have the given signature.
func (a *Archive) TopologyCount(signature string) int {
	if t, ok := a.topologies[signature]; ok {
		return t.Members
	}
	return 0
}

// Topologies returns the archived topologies, oldest first.
func (a *Archive) Topologies() []Topology {
	out := make([]Topology, 0, len(a.topologies))
	for _, t := range a.topologies {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(x, y Topology) int {
		return cmp.Compare(x.Created, y.Created)
	})
	return out
}

// Stats summarizes the archive.
func (a *Archive) Stats() Stats {
	fitnesses := make([]float64, len(a.members))
	for i, m := range a.members {
		fitnesses[i] = m.ant.Fitness
	}
	s := Stats{
		Size:       len(a.members),
		Capacity:   a.Capacity(),
		Topologies: len(a.topologies),
	}
	if len(fitnesses) > 0 {
		s.BestFitness = MaxFloat(fitnesses)
		s.WorstFitness = MinFloat(fitnesses)
		s.MeanFitness = Mean(fitnesses)
		s.MedianFitness = Median(fitnesses)
		s.StdevFitness = Stdev(fitnesses)
	}
	return s
}

// Snapshot returns a read-only copy of the archive. The copy shares the
// archived ants, whose networks are never modified, but none of the
// statistics, so it can be read by many goroutines while the original
// keeps changing.
func (a *Archive) Snapshot() *Archive {
	s := &Archive{
		config:        a.config,
		rankWeight:    a.rankWeight,
		members:       slices.Clone(a.members),
		seq:           a.seq,
		topologies:    make(map[string]*Topology, len(a.topologies)),
		connValues:    make(map[Identity][]float64, len(a.connValues)),
		biasValues:    make(map[Identity][]float64, len(a.biasValues)),
		pairCounts:    make(map[Pair]int, len(a.pairCounts)),
		next:          a.next,
		base:          a.base,
		baseSignature: a.baseSignature,
		baseSnapshot:  a.baseSnapshot,
		readOnly:      true,
	}
	for k, t := range a.topologies {
		c := *t
		s.topologies[k] = &c
	}
	for k, v := range a.connValues {
		s.connValues[k] = slices.Clone(v)
	}
	for k, v := range a.biasValues {
		s.biasValues[k] = slices.Clone(v)
	}
	for k, v := range a.pairCounts {
		s.pairCounts[k] = v
	}
	return s
}
