package paco

import "sort"

// Replacement policies.
const (
	ReplaceWorst  = "worst"  // Evict the lowest fitness, oldest on ties.
	ReplaceOldest = "oldest" // Evict the earliest added ant.
)

// Selection policies, deciding how ants are ranked for template selection.
const (
	SelectByFitness = "fitness" // Rank by fitness, best first.
	SelectByRecency = "recency" // Rank by insertion, newest first.
)

// member is an archived ant with its insertion sequence number.
type member struct {
	ant *Ant
	seq int64
}

// rankMembers returns members sorted best rank first.
func rankMembers(members []member, policy string) []member {
	ranked := make([]member, len(members))
	copy(ranked, members)
	switch policy {
	case SelectByRecency:
		sort.Slice(ranked, func(i, j int) bool {
			return ranked[i].seq > ranked[j].seq
		})
	default:
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].ant.Fitness != ranked[j].ant.Fitness {
				return ranked[i].ant.Fitness > ranked[j].ant.Fitness
			}
			return ranked[i].seq < ranked[j].seq
		})
	}
	return ranked
}

// evictionIndex returns the index in members of the ant policy evicts.
// members must not be empty.
func evictionIndex(members []member, policy string) int {
	victim := 0
	for i, m := range members[1:] {
		i++
		v := members[victim]
		switch policy {
		case ReplaceOldest:
			if m.seq < v.seq {
				victim = i
			}
		default:
			if m.ant.Fitness < v.ant.Fitness || (m.ant.Fitness == v.ant.Fitness && m.seq < v.seq) {
				victim = i
			}
		}
	}
	return victim
}
