package paco

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter observes the archive and the sampler. Reporters are called
// synchronously from the goroutine that performs the operation.
type Reporter interface {
	// CandidateCreated is called for every candidate the sampler emits.
	CandidateCreated(ant *Ant, decision Decision)
	// AntAdded is called after an ant entered the archive.
	AntAdded(ant *Ant, stats Stats)
	// AntEvicted is called when the replacement policy drops an ant.
	AntEvicted(ant *Ant)
}

// ReporterSet fans events out to every registered reporter. The zero value
// and a nil *ReporterSet are both usable and report nothing.
type ReporterSet struct {
	mu        sync.RWMutex
	reporters []Reporter
}

// Add registers r.
func (rs *ReporterSet) Add(r Reporter) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.reporters = append(rs.reporters, r)
}

// Remove unregisters r.
func (rs *ReporterSet) Remove(r Reporter) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i, other := range rs.reporters {
		if other == r {
			rs.reporters = append(rs.reporters[:i], rs.reporters[i+1:]...)
			return
		}
	}
}

func (rs *ReporterSet) each(fn func(Reporter)) {
	if rs == nil {
		return
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, r := range rs.reporters {
		fn(r)
	}
}

func (rs *ReporterSet) CandidateCreated(ant *Ant, decision Decision) {
	rs.each(func(r Reporter) { r.CandidateCreated(ant, decision) })
}

func (rs *ReporterSet) AntAdded(ant *Ant, stats Stats) {
	rs.each(func(r Reporter) { r.AntAdded(ant, stats) })
}

func (rs *ReporterSet) AntEvicted(ant *Ant) {
	rs.each(func(r Reporter) { r.AntEvicted(ant) })
}

// StdOutReporter prints progress lines. Every Interval-th added ant prints
// an archive summary; ShowDecisions additionally prints every topology
// mutation the sampler makes.
type StdOutReporter struct {
	Out           io.Writer // Defaults to os.Stdout.
	Interval      int
	ShowDecisions bool

	added int
	best  float64
}

// NewStdOutReporter returns a reporter summarizing every interval ants.
func NewStdOutReporter(interval int, showDecisions bool) *StdOutReporter {
	return &StdOutReporter{Interval: interval, ShowDecisions: showDecisions}
}

func (r *StdOutReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *StdOutReporter) CandidateCreated(_ *Ant, decision Decision) {
	if r.ShowDecisions && decision.Kind != DecisionNone {
		fmt.Fprintf(r.out(), " Topology: %s\n", decision)
	}
}

func (r *StdOutReporter) AntAdded(ant *Ant, stats Stats) {
	r.added++
	if r.added == 1 || ant.Fitness > r.best {
		if r.added > 1 {
			fmt.Fprintf(r.out(), " New best ant found! ID: %s, Fitness: %.4f\n", ant.ID, ant.Fitness)
		}
		r.best = ant.Fitness
	}
	if r.Interval > 0 && r.added%r.Interval == 0 {
		fmt.Fprintf(r.out(), "****** %d ants evaluated ******\n", r.added)
		fmt.Fprintf(r.out(), " Archive: %d/%d ants, %d topologies\n", stats.Size, stats.Capacity, stats.Topologies)
		fmt.Fprintf(r.out(), " Fitness: best %.4f, mean %.4f, median %.4f, stdev %.4f\n",
			stats.BestFitness, stats.MeanFitness, stats.MedianFitness, stats.StdevFitness)
	}
}

func (r *StdOutReporter) AntEvicted(ant *Ant) {
	if r.ShowDecisions {
		fmt.Fprintf(r.out(), " Evicted ant %s (fitness %.4f)\n", ant.ID, ant.Fitness)
	}
}
