package tree

import "errors"

// ErrDuplicateID is returned when two siblings would share an identifier.
// The tree is never left in a partially mutated state: the call that would
// have introduced the duplicate fails and nothing changes.
var ErrDuplicateID = errors.New("duplicate identifier")

// ErrInvalidEntry is returned by Build when no leaf label can be derived
// from a supplied entry path. It indicates bad input data, not a bug.
var ErrInvalidEntry = errors.New("invalid entry")
