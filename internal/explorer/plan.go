package explorer

import "github.com/fernview/fern/internal/tree"

// Marker says which branch symbol a row gets.
type Marker int

const (
	// MarkerLeaf marks an item without children.
	MarkerLeaf Marker = iota
	// MarkerClosed marks an item whose children are currently hidden.
	MarkerClosed
	// MarkerOpen marks an item whose children are currently visible.
	MarkerOpen
)

// Row is one visible entry of the render plan. StartRow is relative to the
// top of the viewport; an item spans Height rows when its label is
// multiline.
type Row struct {
	Path     tree.Path
	Item     *tree.Item
	Depth    int
	StartRow int
	Height   int
	Selected bool
	Marker   Marker
}

// Scrollbar summarizes the window for an external scrollbar: how many
// entries are visible overall, how many rows the window currently holds,
// and the index of the first entry in view.
type Scrollbar struct {
	Total  int
	Window int
	Offset int
}

// Window is the render plan for one pass: the half-open range [Start, End)
// of the flattened list that fits the viewport, plus the per-row detail the
// drawing backend needs. The backend only draws; it feeds nothing back.
type Window struct {
	Start     int
	End       int
	Rows      []Row
	Scrollbar Scrollbar
}

// Empty reports whether the window holds no rows.
func (w Window) Empty() bool {
	return len(w.Rows) == 0
}
