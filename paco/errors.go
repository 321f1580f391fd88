package paco

import "errors"

var (
	// ErrEmptyArchive is returned by queries that need at least one ant.
	ErrEmptyArchive = errors.New("archive is empty")
	// ErrNotEvaluated is returned when an ant without a fitness is archived.
	ErrNotEvaluated = errors.New("ant has not been evaluated")
	// ErrInvalidWeights is returned for ants carrying non-finite values.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrUnknownAnt is returned when an ant is not in the archive.
	ErrUnknownAnt = errors.New("unknown ant")
	// ErrReadOnly is returned when an archive snapshot is modified.
	ErrReadOnly = errors.New("archive snapshot is read-only")
)
