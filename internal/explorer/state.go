package explorer

import (
	"math"

	"github.com/fernview/fern/internal/tree"
)

// State owns selection, expansion and scroll position for one tree view.
//
// Every operation is total: nothing here errors, the boolean result reports
// whether anything changed. Operations that read the previous layout
// (SelectNext, SelectPrev, RenderedAt, ClickAt, scrolling bounds) consult
// the caches refreshed by the last Window pass, so they are cheap but only
// reflect mutations once Window has run again.
//
// State survives forest rebuilds. Expanded or selected paths that no longer
// resolve are harmless; they simply stop matching.
type State struct {
	selected tree.Path
	expanded *tree.PathSet

	offset        int
	ensureVisible bool

	// Refreshed by Window on every pass.
	lastWidth        int
	lastHeight       int
	lastBiggestIndex int
	lastIdentifiers  []tree.Path
	lastRendered     []renderedRow
}

// renderedRow remembers which path started at which viewport row.
type renderedRow struct {
	row  int
	path tree.Path
}

// NewState creates a State with nothing selected and nothing expanded.
func NewState() *State {
	return &State{expanded: tree.NewPathSet()}
}

// Selected returns the currently selected path. Empty means no selection.
func (s *State) Selected() tree.Path {
	return s.selected
}

// Expanded returns the expansion set.
func (s *State) Expanded() *tree.PathSet {
	return s.expanded
}

// Offset returns the index of the first visible entry on the last pass.
func (s *State) Offset() int {
	return s.offset
}

// Select sets the selection and schedules a scroll so the selection is in
// view on the next Window pass. Returns true when the selection changed.
func (s *State) Select(path tree.Path) bool {
	s.ensureVisible = true
	changed := !s.selected.Equal(path)
	s.selected = path.Clone()
	return changed
}

// Expand marks a node's children visible. An empty path is a no-op.
// Returns true when the node was newly expanded.
func (s *State) Expand(path tree.Path) bool {
	if len(path) == 0 {
		return false
	}
	return s.expanded.Add(path.Clone())
}

// Collapse hides a node's children. Returns true when it was expanded.
func (s *State) Collapse(path tree.Path) bool {
	return s.expanded.Remove(path)
}

// Toggle flips a node between expanded and collapsed. An empty path is a
// no-op returning false; otherwise something always changes.
func (s *State) Toggle(path tree.Path) bool {
	if len(path) == 0 {
		return false
	}
	if s.expanded.Contains(path) {
		return s.Collapse(path)
	}
	return s.Expand(path)
}

// ToggleSelected toggles the currently selected node and keeps it in view.
// Returns false only when nothing is selected.
func (s *State) ToggleSelected() bool {
	if len(s.selected) == 0 {
		return false
	}
	s.ensureVisible = true
	if s.expanded.Remove(s.selected) {
		return true
	}
	return s.Expand(s.selected)
}

// CollapseAll collapses every expanded node. Returns true when any was
// expanded.
func (s *State) CollapseAll() bool {
	return s.expanded.Clear()
}

// SelectFirst selects the first entry of the last pass, or clears the
// selection when nothing was visible.
func (s *State) SelectFirst() bool {
	var first tree.Path
	if len(s.lastIdentifiers) > 0 {
		first = s.lastIdentifiers[0]
	}
	return s.Select(first)
}

// SelectLast selects the last entry of the last pass, or clears the
// selection when nothing was visible.
func (s *State) SelectLast() bool {
	var last tree.Path
	if len(s.lastIdentifiers) > 0 {
		last = s.lastIdentifiers[len(s.lastIdentifiers)-1]
	}
	return s.Select(last)
}

// SelectNext moves the selection one entry down in the last pass's order.
// When the current selection is not in that order the first entry is
// selected. Returns true when the selection changed.
func (s *State) SelectNext() bool {
	return s.selectRelative(func(pos int) int {
		if pos < 0 {
			return 0
		}
		return pos + 1
	})
}

// SelectPrev moves the selection one entry up in the last pass's order.
// When the current selection is not in that order the last entry is
// selected; that jump-to-end clamp is deliberate, not a fallback to the
// top. Returns true when the selection changed.
func (s *State) SelectPrev() bool {
	return s.selectRelative(func(pos int) int {
		if pos < 0 {
			return math.MaxInt
		}
		if pos == 0 {
			return 0
		}
		return pos - 1
	})
}

func (s *State) selectRelative(move func(pos int) int) bool {
	if len(s.lastIdentifiers) == 0 {
		return false
	}

	found := -1
	for i, id := range s.lastIdentifiers {
		if id.Equal(s.selected) {
			found = i
			break
		}
	}

	newPos := move(found)
	if newPos > s.lastBiggestIndex {
		newPos = s.lastBiggestIndex
	}
	if last := len(s.lastIdentifiers) - 1; newPos > last {
		newPos = last
	}
	if newPos < 0 {
		newPos = 0
	}

	next := s.lastIdentifiers[newPos]
	if s.selected.Equal(next) {
		return false
	}
	return s.Select(next)
}

// RenderedAt returns the path drawn at the given viewport-relative row on
// the last pass, or nil when the row lies outside the last render area.
// A row belongs to the item that started at or above it, so multiline items
// are hit across their whole height.
func (s *State) RenderedAt(row int) tree.Path {
	if row < 0 || row >= s.lastHeight || s.lastWidth < 1 {
		return nil
	}
	for i := len(s.lastRendered) - 1; i >= 0; i-- {
		if row >= s.lastRendered[i].row {
			return s.lastRendered[i].path
		}
	}
	return nil
}

// ClickAt selects what is rendered at the given viewport-relative row, or
// toggles it when it is already selected. Returns false when nothing was
// rendered there.
func (s *State) ClickAt(row int) bool {
	path := s.RenderedAt(row)
	if path == nil {
		return false
	}
	if path.Equal(s.selected) {
		return s.ToggleSelected()
	}
	return s.Select(path)
}

// ScrollSelectedIntoView schedules a scroll on the next Window pass without
// changing the selection.
func (s *State) ScrollSelectedIntoView() {
	s.ensureVisible = true
}

// ScrollUp moves the window up by the given number of entries, saturating
// at the top. Returns true when the offset changed.
func (s *State) ScrollUp(lines int) bool {
	before := s.offset
	s.offset -= lines
	if s.offset < 0 {
		s.offset = 0
	}
	return before != s.offset
}

// ScrollDown moves the window down by the given number of entries,
// saturating at the last entry of the last pass. Returns true when the
// offset changed.
func (s *State) ScrollDown(lines int) bool {
	before := s.offset
	s.offset += lines
	if s.offset > s.lastBiggestIndex {
		s.offset = s.lastBiggestIndex
	}
	return before != s.offset
}
