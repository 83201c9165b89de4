package tree

import "strings"

// pathSep separates identifiers inside a Path key. Identifiers come from
// single path elements, which can never contain a NUL byte, so the encoding
// is unambiguous.
const pathSep = "\x00"

// Path identifies one node in a forest: the ordered identifiers from the
// top level down to the node, inclusive. Two nodes are the same entity iff
// their Paths are equal; a bare identifier is not unique because the same
// name can recur under different parents.
type Path []string

// Equal reports whether two paths name the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string encoding of the path, usable as a map key.
func (p Path) Key() string {
	return strings.Join(p, pathSep)
}

// Depth is the zero-based depth. Depth 0 means top level with no indentation.
func (p Path) Depth() int {
	return len(p) - 1
}

// Last returns the node's own identifier, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path extended by one identifier. The receiver is not
// modified.
func (p Path) Child(id string) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = id
	return child
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// PathSet is a set of Paths with structural equality. Membership is keyed on
// the canonical encoding, so two Path values with the same identifiers are
// the same member regardless of how they were built.
type PathSet struct {
	members map[string]struct{}
}

// NewPathSet creates an empty set.
func NewPathSet() *PathSet {
	return &PathSet{members: make(map[string]struct{})}
}

// Add inserts the path. Returns true when it was not yet a member.
func (s *PathSet) Add(p Path) bool {
	key := p.Key()
	if _, ok := s.members[key]; ok {
		return false
	}
	s.members[key] = struct{}{}
	return true
}

// Remove deletes the path. Returns true when it was a member.
func (s *PathSet) Remove(p Path) bool {
	key := p.Key()
	if _, ok := s.members[key]; !ok {
		return false
	}
	delete(s.members, key)
	return true
}

// Contains reports membership.
func (s *PathSet) Contains(p Path) bool {
	_, ok := s.members[p.Key()]
	return ok
}

// Len returns the number of members.
func (s *PathSet) Len() int {
	return len(s.members)
}

// Clear removes all members. Returns true when the set was non-empty.
func (s *PathSet) Clear() bool {
	if len(s.members) == 0 {
		return false
	}
	s.members = make(map[string]struct{})
	return true
}
