package explorer

import "github.com/fernview/fern/internal/tree"

// Window runs one viewport pass: it flattens the forest with the current
// expansion set, decides which contiguous slice of the visible list fits
// the given area, and returns the render plan for that slice. As a side
// effect it clamps and persists the scroll offset, consumes a pending
// scroll-into-view request, and refreshes the row caches that SelectNext,
// SelectPrev, RenderedAt and ClickAt read.
//
// Window computes; it never draws. Handing the returned plan to a drawing
// backend is the caller's business, which keeps this testable without a
// terminal.
func (s *State) Window(items []*tree.Item, width, height int) Window {
	s.lastWidth = width
	s.lastHeight = height
	s.lastRendered = s.lastRendered[:0]

	if width < 1 || height < 1 {
		return Window{}
	}

	visible := tree.Flatten(s.expanded, items, nil)
	s.lastBiggestIndex = len(visible) - 1
	if s.lastBiggestIndex < 0 {
		s.lastBiggestIndex = 0
	}
	if len(visible) == 0 {
		s.lastIdentifiers = nil
		s.lastRendered = nil
		return Window{}
	}

	ensureIndex := -1
	if s.ensureVisible && len(s.selected) > 0 {
		for i, entry := range visible {
			if entry.Path.Equal(s.selected) {
				ensureIndex = i
				break
			}
		}
	}

	start, end, used := computeRange(visible, s.offset, height, ensureIndex, s.lastBiggestIndex)

	s.offset = start
	s.ensureVisible = false

	rows := make([]Row, 0, end-start)
	currentRow := 0
	for _, entry := range visible[start:end] {
		row := Row{
			Path:     entry.Path,
			Item:     entry.Item,
			Depth:    entry.Depth(),
			StartRow: currentRow,
			Height:   entry.Item.Height(),
			Selected: entry.Path.Equal(s.selected),
			Marker:   markerFor(entry, s.expanded),
		}
		rows = append(rows, row)
		s.lastRendered = append(s.lastRendered, renderedRow{row: currentRow, path: entry.Path})
		currentRow += row.Height
	}

	s.lastIdentifiers = s.lastIdentifiers[:0]
	for _, entry := range visible {
		s.lastIdentifiers = append(s.lastIdentifiers, entry.Path)
	}

	return Window{
		Start: start,
		End:   end,
		Rows:  rows,
		Scrollbar: Scrollbar{
			Total:  len(visible),
			Window: used,
			Offset: start,
		},
	}
}

// computeRange picks the half-open slice [start, end) of the visible list
// that fits in available rows, honoring variable per-entry heights.
//
// When ensureIndex is non-negative the returned range is guaranteed to
// contain it: the start is clamped down to at most ensureIndex, and when
// the index lies past the grown end the window is extended forward and then
// shrunk from the front until the total height fits again. With
// heterogeneous heights that can leave the window holding fewer entries
// than it otherwise would; keeping the selection visible wins.
func computeRange(visible []tree.Flattened, offset, available, ensureIndex, biggestIndex int) (start, end, used int) {
	start = offset
	if start > biggestIndex {
		start = biggestIndex
	}
	if ensureIndex >= 0 && ensureIndex < start {
		start = ensureIndex
	}

	end = start
	for _, entry := range visible[start:] {
		itemHeight := entry.Item.Height()
		if used+itemHeight > available {
			break
		}
		used += itemHeight
		end++
	}

	if ensureIndex >= 0 {
		for ensureIndex >= end {
			used += visible[end].Item.Height()
			end++
			// Shrink from the front until the window fits again, but never
			// drop the entry being kept in view.
			for used > available && start < ensureIndex {
				used -= visible[start].Item.Height()
				start++
			}
		}
	}

	return start, end, used
}

func markerFor(entry tree.Flattened, expanded *tree.PathSet) Marker {
	if len(entry.Item.Children()) == 0 {
		return MarkerLeaf
	}
	if expanded.Contains(entry.Path) {
		return MarkerOpen
	}
	return MarkerClosed
}
