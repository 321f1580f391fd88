package paco

// Topology groups the archived ants that share one topology signature. The
// first ant to bring a signature into the archive fixes its identity table;
// later ants with the same signature are canonicalized onto it.
type Topology struct {
	Signature  string
	Members    int        // Ants currently archived under this signature.
	Identities Identities // Canonical table, read-only once created.
	Created    int64      // Archive sequence number of the first member.
}

func newTopology(signature string, ids Identities, seq int64) *Topology {
	return &Topology{
		Signature:  signature,
		Identities: ids,
		Created:    seq,
	}
}
