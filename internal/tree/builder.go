package tree

import (
	"fmt"
	"path"
	"sort"
)

// BranchFunc reports whether the entry at the given path is a branch node
// (e.g. a directory). It is supplied by the entry source; the builder itself
// performs no I/O.
type BranchFunc func(entryPath string) bool

// Build converts a flat, duplicate-free list of slash-separated entry paths
// into a forest. Only entries below root are considered; the root itself is
// not represented as a node. At every level branches sort before leaves, and
// nodes of the same kind sort ascending by identifier.
//
// Identifiers are the entries' own name elements, so a Path built from the
// resulting forest is stable across rebuilds as long as the names are.
//
// Build fails with ErrInvalidEntry when an entry yields no usable label, and
// with ErrDuplicateID when two entries collapse onto the same sibling
// identifier.
func Build(root string, entries []string, isBranch BranchFunc) ([]*Item, error) {
	b := &builder{entries: entries, isBranch: isBranch}
	children, err := b.buildChildren(root)
	if err != nil {
		return nil, err
	}
	return NewForest(children)
}

type builder struct {
	entries  []string
	isBranch BranchFunc
}

// buildChildren assembles the sorted child items of one branch by
// partitioning the entry list one path level at a time.
func (b *builder) buildChildren(parent string) ([]*Item, error) {
	type child struct {
		item   *Item
		branch bool
	}
	var children []child
	for _, entry := range b.entries {
		if path.Dir(entry) != parent {
			continue
		}
		item, err := b.build(entry)
		if err != nil {
			return nil, err
		}
		children = append(children, child{item: item, branch: b.isBranch(entry)})
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].branch != children[j].branch {
			return children[i].branch
		}
		return children[i].item.ID() < children[j].item.ID()
	})

	items := make([]*Item, len(children))
	for i, c := range children {
		items[i] = c.item
	}
	return items, nil
}

func (b *builder) build(entry string) (*Item, error) {
	name := path.Base(entry)
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: no label derivable from %q", ErrInvalidEntry, entry)
	}

	if !b.isBranch(entry) {
		return NewLeaf(name, name), nil
	}

	children, err := b.buildChildren(entry)
	if err != nil {
		return nil, err
	}
	return New(name, name, children)
}
