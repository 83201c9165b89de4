package tree

import (
	"fmt"
	"strings"
)

// Item is one node of the tree: an identifier unique among its siblings, a
// display label, and an ordered list of children. An Item with no children
// is a leaf; expandability is derived from having children, not from a flag.
//
// Items never hold a reference to their parent. Traversal context is the
// Path, threaded explicitly by callers.
type Item struct {
	id       string
	label    string
	children []*Item
}

// NewLeaf creates an item without children. It cannot fail.
func NewLeaf(id, label string) *Item {
	return &Item{id: id, label: label}
}

// New creates an item with the given children. It fails with ErrDuplicateID
// when two children share an identifier.
func New(id, label string, children []*Item) (*Item, error) {
	seen := make(map[string]struct{}, len(children))
	for _, child := range children {
		if _, ok := seen[child.id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, child.id)
		}
		seen[child.id] = struct{}{}
	}
	return &Item{id: id, label: label, children: children}, nil
}

// ID returns the identifier.
func (it *Item) ID() string { return it.id }

// Label returns the display label. Labels may span multiple lines.
func (it *Item) Label() string { return it.label }

// Children returns the ordered child list.
func (it *Item) Children() []*Item { return it.children }

// Child returns the child at index, or nil when out of range.
func (it *Item) Child(index int) *Item {
	if index < 0 || index >= len(it.children) {
		return nil
	}
	return it.children[index]
}

// Height is the number of screen rows the label occupies when rendered.
func (it *Item) Height() int {
	return strings.Count(it.label, "\n") + 1
}

// AddChild appends a child. It fails with ErrDuplicateID when the child's
// identifier already exists among the children; the item is unchanged on
// failure.
func (it *Item) AddChild(child *Item) error {
	for _, existing := range it.children {
		if existing.id == child.id {
			return fmt.Errorf("%w: %q", ErrDuplicateID, child.id)
		}
	}
	it.children = append(it.children, child)
	return nil
}

// NewForest validates a top-level item list under the same sibling
// uniqueness rule that applies to any children slice.
func NewForest(items []*Item) ([]*Item, error) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, item.id)
		}
		seen[item.id] = struct{}{}
	}
	return items, nil
}
