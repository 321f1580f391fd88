package paco

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"
	"sync"

	"github.com/baldhumanity/paco-go/paco/nn"
	"github.com/google/uuid"
)

// DecisionKind is the topology mutation applied to a candidate.
type DecisionKind int

const (
	DecisionNone DecisionKind = iota
	DecisionAdd
	DecisionRemove
	DecisionSplit
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionNone:
		return "none"
	case DecisionAdd:
		return "add"
	case DecisionRemove:
		return "remove"
	case DecisionSplit:
		return "split"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// Decision records how a candidate was derived.
type Decision struct {
	Kind DecisionKind
	// Template is the ID of the template ant, uuid.Nil for the base network.
	Template uuid.UUID
	// Link is the connection added, removed or split, by its addresses in
	// the template.
	Link nn.Link
	// Neuron is the address of the neuron a split created, in the candidate.
	Neuron nn.Address
}

func (d Decision) String() string {
	switch d.Kind {
	case DecisionNone:
		return "none"
	case DecisionSplit:
		return fmt.Sprintf("split %s via %s", d.Link, d.Neuron)
	default:
		return fmt.Sprintf("%s %s", d.Kind, d.Link)
	}
}

// Sampler generates candidate networks from an Archive.
type Sampler struct {
	base      nn.Network
	archive   *Archive
	config    *Config
	fns       Functions
	rng       *rand.Rand
	last      Decision
	Reporters *ReporterSet
}

// NewSampler creates a sampler for archive. base must be the untouched base
// network the archive was created from; rng is the sampler's only source of
// randomness.
func NewSampler(base nn.Network, archive *Archive, config *Config, rng *rand.Rand) (*Sampler, error) {
	if base == nil || archive == nil || config == nil {
		return nil, fmt.Errorf("sampler requires a base network, an archive and a config")
	}
	ids := archive.BaseIdentities()
	count := 0
	for _, addr := range nn.AllNeurons(base) {
		if _, ok := ids.Neurons[addr]; !ok {
			return nil, fmt.Errorf("base network does not match the archive: no neuron %s in the archive's base", addr)
		}
		count++
	}
	if count != len(ids.Neurons) || nn.Signature(base) != archive.BaseSignature() {
		return nil, fmt.Errorf("base network does not match the archive's base network")
	}

	fns := config.Functions
	if fns.Pheromone == nil || fns.Deviation == nil || fns.Dynamic == nil || fns.Split == nil {
		var err error
		if fns, err = ResolveFunctions(config.Sampler); err != nil {
			return nil, fmt.Errorf("failed to resolve sampler functions: %w", err)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(config.Sampler.Seed))
	}
	return &Sampler{
		base:      base.Clone(),
		archive:   archive,
		config:    config,
		fns:       fns,
		rng:       rng,
		Reporters: &ReporterSet{},
	}, nil
}

// LastDecision returns the decision behind the most recent candidate.
func (s *Sampler) LastDecision() Decision { return s.last }

// CreateCandidate samples one candidate ant. Its fitness is unset; its
// identities may hold placeholders until it is archived.
func (s *Sampler) CreateCandidate() (*Ant, error) {
	ant, decision, err := s.create(s.archive, s.rng)
	if err != nil {
		return nil, err
	}
	s.last = decision
	s.Reporters.CandidateCreated(ant, decision)
	return ant, nil
}

// CreateCandidates samples n candidates on up to workers goroutines
// (GOMAXPROCS when workers <= 0). All of them are drawn from one snapshot
// of the archive. Each candidate gets its own RNG seeded from the
// sampler's, so the result only depends on the sampler's seed.
func (s *Sampler) CreateCandidates(n, workers int) ([]*Ant, error) {
	if n <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	snapshot := s.archive.Snapshot()
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = s.rng.Int63()
	}

	ants := make([]*Ant, n)
	decisions := make([]Decision, n)
	errs := make([]error, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(seeds[i]))
				ants[i], decisions[i], errs[i] = s.create(snapshot, rng)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}
	for i, ant := range ants {
		s.Reporters.CandidateCreated(ant, decisions[i])
	}
	s.last = decisions[n-1]
	return ants, nil
}

// create runs template selection, topology dynamics and resampling against
// archive. It only reads s and archive.
func (s *Sampler) create(archive *Archive, rng *rand.Rand) (*Ant, Decision, error) {
	decision := Decision{Kind: DecisionNone}
	var net nn.Network
	var ids Identities
	if template, ok := archive.selectTemplate(rng); ok {
		net, ids = template.Network.Clone(), template.Identities
		decision.Template = template.ID
	} else {
		net, ids = s.base.Clone(), archive.base
	}
	table := bind(net, ids)

	sharing := archive.TopologyCount(nn.Signature(net))
	if rng.Float64() < s.fns.Dynamic(archive.Capacity(), sharing) {
		mutation, err := s.mutate(net, table, archive, rng)
		if err != nil {
			return nil, Decision{}, err
		}
		mutation.Template = decision.Template
		decision = mutation
	}
	if err := s.resample(net, table, archive, rng); err != nil {
		return nil, Decision{}, err
	}

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, Decision{}, fmt.Errorf("failed to generate ant id: %w", err)
	}
	return &Ant{ID: id, Network: net, Identities: table.resolve(net)}, decision, nil
}

// option is one (source, target) pair topology dynamics may act on.
type option struct {
	from, to  nn.NeuronID
	exists    bool
	canRemove bool
	canSplit  bool
}

// mutate draws one topology edit and applies it. An empty option set is a
// dead end and leaves net unchanged.
func (s *Sampler) mutate(net nn.Network, table *handleTable, archive *Archive, rng *rand.Rand) (Decision, error) {
	pop := archive.Len()
	var options []option
	var weights []float64
	for from, fromAddr := range nn.AllNeurons(net) {
		for to, toAddr := range nn.AllNeurons(net) {
			if net.LayerKind(toAddr.Layer) == nn.Input {
				continue
			}
			if net.HasConnection(from, to) {
				o := option{
					from:      from,
					to:        to,
					exists:    true,
					canRemove: removable(net, from, to),
					canSplit:  splittable(net, fromAddr, toAddr),
				}
				if !o.canRemove && !o.canSplit {
					continue
				}
				n := len(archive.connValues[table.connection(from, to)])
				options = append(options, o)
				weights = append(weights, 1-s.fns.Pheromone(pop, n))
				continue
			}
			if s.config.Sampler.RecurrenceDisabled && !nn.IsForward(fromAddr, toAddr) {
				continue
			}
			n := archive.pairCounts[table.pair(from, to)]
			options = append(options, option{from: from, to: to})
			weights = append(weights, s.fns.Pheromone(pop, n))
		}
	}

	i, ok := Choose(rng, weights)
	if !ok {
		return Decision{Kind: DecisionNone}, nil
	}
	o := options[i]
	fromAddr, _ := net.Address(o.from)
	toAddr, _ := net.Address(o.to)
	decision := Decision{Link: nn.Link{From: fromAddr, To: toAddr}}
	key := [2]nn.NeuronID{o.from, o.to}

	if !o.exists {
		decision.Kind = DecisionAdd
		if err := net.AddConnection(o.from, o.to, s.uniform(rng, true)); err != nil {
			return Decision{}, fmt.Errorf("failed to add %s: %w", decision.Link, err)
		}
		table.conns[key] = table.placeholder()
		return decision, nil
	}

	cid := table.connection(o.from, o.to)
	values := archive.connValues[cid]
	weight, _ := net.Weight(o.from, o.to)
	split := rng.Float64() < s.fns.Split(pop, len(values), sumAbsDiff(values, weight))
	if split && !o.canSplit {
		split = false
	} else if !split && !o.canRemove {
		split = true
	}

	if !split {
		decision.Kind = DecisionRemove
		if err := net.RemoveConnection(o.from, o.to); err != nil {
			return Decision{}, fmt.Errorf("failed to remove %s: %w", decision.Link, err)
		}
		delete(table.conns, key)
		return decision, nil
	}

	decision.Kind = DecisionSplit
	mid, err := net.SplitConnection(o.from, o.to, s.config.Network.SplitActivation)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to split %s: %w", decision.Link, err)
	}
	decision.Neuron, _ = net.Address(mid)
	delete(table.conns, key)
	table.neurons[mid] = table.placeholder()
	// The half carrying the original weight keeps the old identity.
	if s.config.Archive.ReuseSplitKnowledge {
		table.conns[[2]nn.NeuronID{o.from, mid}] = cid
	} else {
		table.conns[[2]nn.NeuronID{o.from, mid}] = table.placeholder()
	}
	table.conns[[2]nn.NeuronID{mid, o.to}] = table.placeholder()
	return decision, nil
}

// removable reports whether removing from -> to keeps every non-output
// neuron with an outgoing connection and every neuron with an incoming one.
func removable(net nn.Network, from, to nn.NeuronID) bool {
	fromAddr, _ := net.Address(from)
	if net.LayerKind(fromAddr.Layer) != nn.Output && len(net.Outgoing(from)) <= 1 {
		return false
	}
	return len(net.Incoming(to)) > 1
}

// splittable mirrors the placement rule of nn's SplitConnection: a split
// needs a hidden layer for the new neuron unless a layer is inserted.
func splittable(net nn.Network, a, b nn.Address) bool {
	d := b.Layer - a.Layer
	if d == 1 || d == -1 {
		return true
	}
	layer := a.Layer
	if d > 0 {
		layer++
	} else if d < 0 {
		layer--
	}
	return net.LayerKind(layer) == nn.Hidden
}

// resample redraws every weight and non-input bias of net.
func (s *Sampler) resample(net nn.Network, table *handleTable, archive *Archive, rng *rand.Rand) error {
	pop := archive.Len()
	for _, c := range slices.Collect(nn.Connections(net)) {
		values := archive.connValues[table.connection(c.From, c.To)]
		if err := net.SetWeight(c.From, c.To, s.draw(rng, values, c.Weight, pop, true)); err != nil {
			return fmt.Errorf("failed to resample %s: %w", c.Link(), err)
		}
	}
	for id, addr := range nn.AllNeurons(net) {
		if net.LayerKind(addr.Layer) == nn.Input {
			continue
		}
		bias, err := net.Bias(id)
		if err != nil {
			return err
		}
		values := archive.biasValues[table.neurons[id]]
		if err := net.SetBias(id, s.draw(rng, values, bias, pop, false)); err != nil {
			return fmt.Errorf("failed to resample bias of %s: %w", addr, err)
		}
	}
	return nil
}

// draw samples a value for a parameter whose archived values are values
// and whose template value is current. Without knowledge it draws
// uniformly; otherwise it draws from a normal around current, rejecting
// out-of-range draws at most max_rejections times before clamping.
func (s *Sampler) draw(rng *rand.Rand, values []float64, current float64, pop int, nonZero bool) float64 {
	if len(values) == 0 {
		return s.uniform(rng, nonZero)
	}
	lo, hi := s.config.Sampler.MinWeight, s.config.Sampler.MaxWeight
	sd := s.fns.Deviation(pop, len(values), sumAbsDiff(values, current))
	if math.IsInf(sd, 0) {
		return s.uniform(rng, nonZero)
	}
	if !(sd > 0) {
		sd = 0
	}
	mean := clamp(current, lo, hi)
	x := mean
	for i := 0; i < s.config.Sampler.MaxRejections; i++ {
		x = mean + sd*rng.NormFloat64()
		if x >= lo && x <= hi && (!nonZero || x != 0) {
			return x
		}
	}
	x = clamp(x, lo, hi)
	if nonZero && x == 0 {
		return s.uniform(rng, true)
	}
	return x
}

// uniform draws from [min_weight, max_weight).
func (s *Sampler) uniform(rng *rand.Rand, nonZero bool) float64 {
	lo, hi := s.config.Sampler.MinWeight, s.config.Sampler.MaxWeight
	for {
		x := lo + rng.Float64()*(hi-lo)
		if !nonZero || x != 0 {
			return x
		}
	}
}
