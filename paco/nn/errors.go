package nn

import "errors"

// Structural precondition failures. Every structural edit validates its
// arguments before touching any state, so a returned error means the
// network is unchanged. Callers should test with errors.Is.
var (
	// ErrUnsupportedOperation is returned for edits a layer kind never admits,
	// e.g. adding a neuron to an input or output layer.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrIllegalState is returned when an edit conflicts with the current
	// structure, e.g. adding a connection that already exists.
	ErrIllegalState = errors.New("illegal state")
	// ErrIllegalArgument is returned for arguments that do not describe a
	// valid target, e.g. an unknown neuron or a nonexistent connection.
	ErrIllegalArgument = errors.New("illegal argument")
)
