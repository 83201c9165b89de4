package tree

// Flattened is one entry of the visible list: the item together with its
// full Path.
type Flattened struct {
	Path Path
	Item *Item
}

// Depth is the zero-based depth of the entry.
func (f Flattened) Depth() int {
	return f.Path.Depth()
}

// Flatten computes the ordered list of currently visible items: every
// top-level item, plus the children of every item whose own Path is in
// expanded, recursively. Order is pre-order depth-first, children
// immediately after their parent, siblings in forest order.
//
// Flatten never mutates expanded or the items. Expanded entries that match
// no current node are harmless; they simply never match.
func Flatten(expanded *PathSet, items []*Item, prefix Path) []Flattened {
	var result []Flattened
	for _, item := range items {
		path := prefix.Child(item.id)
		result = append(result, Flattened{Path: path, Item: item})
		if expanded.Contains(path) {
			result = append(result, Flatten(expanded, item.children, path)...)
		}
	}
	return result
}
