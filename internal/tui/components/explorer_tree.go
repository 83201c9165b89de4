package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernview/fern/internal/config"
	"github.com/fernview/fern/internal/explorer"
	"github.com/fernview/fern/internal/storage/filesystem"
	"github.com/fernview/fern/internal/tree"
	"github.com/fernview/fern/internal/tui"
)

// SelectionMsg is sent when the selected entry changes.
type SelectionMsg struct {
	Path     tree.Path
	FullPath string
	IsBranch bool
}

// YankedMsg is sent after the selected path was copied to the clipboard.
type YankedMsg struct {
	FullPath string
	Err      error
}

// ToggleHiddenMsg asks the application to re-enumerate with the hidden
// filter flipped.
type ToggleHiddenMsg struct{}

// chrome rows inside the component: top border, title, status line,
// bottom border.
const chromeHeight = 4

// ExplorerTree displays a collapsible directory tree. All tree semantics
// live in explorer.State; this component translates key and mouse input
// into state operations and draws the window the viewport pass returns.
type ExplorerTree struct {
	title   string
	focused bool
	width   int
	height  int

	cfg      config.Config
	keys     KeyMap
	root     string
	revision string
	items    []*tree.Item
	state    *explorer.State

	gPressed bool // For gg sequence
}

// NewExplorerTree creates an empty explorer tree component.
func NewExplorerTree(cfg config.Config) *ExplorerTree {
	return &ExplorerTree{
		title: "Explorer",
		cfg:   cfg,
		keys:  DefaultKeyMap(),
		state: explorer.NewState(),
	}
}

// Init initializes the component.
func (t *ExplorerTree) Init() tea.Cmd {
	return nil
}

// SetSnapshot replaces the forest with a freshly built one. Selection,
// expansion and scroll position survive; paths that no longer resolve
// simply stop matching.
func (t *ExplorerTree) SetSnapshot(snapshot *filesystem.Snapshot) {
	if snapshot == nil {
		return
	}
	t.root = snapshot.Root
	t.revision = snapshot.Revision
	t.items = snapshot.Forest
}

// Revision returns the revision of the snapshot currently displayed.
func (t *ExplorerTree) Revision() string {
	return t.revision
}

// State exposes the navigation state, mainly for tests.
func (t *ExplorerTree) State() *explorer.State {
	return t.state
}

// Update handles messages.
func (t *ExplorerTree) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		return t, nil

	case tui.FocusMsg:
		t.focused = true
		return t, nil

	case tui.BlurMsg:
		t.focused = false
		return t, nil
	}

	if !t.focused {
		return t, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return t.handleKeyMsg(msg)
	case tea.MouseMsg:
		return t.handleMouseMsg(msg)
	}

	return t, nil
}

func (t *ExplorerTree) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	// gg sequence: a lone "g" waits for the second one.
	if t.gPressed {
		t.gPressed = false
		if key.Matches(msg, t.keys.GoToTop) {
			t.state.SelectFirst()
			return t, t.selectionCmd()
		}
		return t, nil
	}

	switch {
	case key.Matches(msg, t.keys.GoToTop):
		t.gPressed = true
		return t, nil

	case key.Matches(msg, t.keys.Down):
		if t.state.SelectNext() {
			return t, t.selectionCmd()
		}

	case key.Matches(msg, t.keys.Up):
		if t.state.SelectPrev() {
			return t, t.selectionCmd()
		}

	case key.Matches(msg, t.keys.GoToBottom):
		if t.state.SelectLast() {
			return t, t.selectionCmd()
		}

	case key.Matches(msg, t.keys.Expand):
		t.state.Expand(t.state.Selected())

	case key.Matches(msg, t.keys.Collapse):
		// Collapse the selected branch; on an already-collapsed node or a
		// leaf, move to the parent instead.
		if !t.state.Collapse(t.state.Selected()) {
			if selected := t.state.Selected(); len(selected) > 1 {
				t.state.Select(selected[:len(selected)-1])
				return t, t.selectionCmd()
			}
		}

	case key.Matches(msg, t.keys.Toggle):
		t.state.ToggleSelected()

	case key.Matches(msg, t.keys.ScrollDown):
		t.state.ScrollDown(1)

	case key.Matches(msg, t.keys.ScrollUp):
		t.state.ScrollUp(1)

	case key.Matches(msg, t.keys.CollapseAll):
		t.state.CollapseAll()
		t.state.ScrollSelectedIntoView()

	case key.Matches(msg, t.keys.Yank):
		return t, t.yankCmd()

	case key.Matches(msg, t.keys.ToggleHidden):
		return t, func() tea.Msg { return ToggleHiddenMsg{} }

	case key.Matches(msg, t.keys.Refresh):
		return t, func() tea.Msg { return tui.RefreshMsg{} }
	}

	return t, nil
}

func (t *ExplorerTree) handleMouseMsg(msg tea.MouseMsg) (tui.Component, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		t.state.ScrollUp(3)

	case msg.Button == tea.MouseButtonWheelDown:
		t.state.ScrollDown(3)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// Translate to a viewport-relative row: top border and title sit
		// above the tree area.
		row := msg.Y - 2
		before := t.state.Selected()
		if t.state.ClickAt(row) && !t.state.Selected().Equal(before) {
			return t, t.selectionCmd()
		}
	}

	return t, nil
}

func (t *ExplorerTree) selectionCmd() tea.Cmd {
	selected := t.state.Selected()
	if len(selected) == 0 {
		return nil
	}
	full := t.fullPath(selected)
	isBranch := false
	if item := t.itemAt(selected); item != nil {
		isBranch = len(item.Children()) > 0
	}
	return func() tea.Msg {
		return SelectionMsg{Path: selected, FullPath: full, IsBranch: isBranch}
	}
}

func (t *ExplorerTree) yankCmd() tea.Cmd {
	selected := t.state.Selected()
	if len(selected) == 0 {
		return nil
	}
	full := t.fullPath(selected)
	return func() tea.Msg {
		return YankedMsg{FullPath: full, Err: clipboard.WriteAll(full)}
	}
}

// fullPath resolves a tree path to an absolute filesystem path.
func (t *ExplorerTree) fullPath(path tree.Path) string {
	return filepath.Join(append([]string{t.root}, path...)...)
}

// itemAt walks the forest down the given path.
func (t *ExplorerTree) itemAt(path tree.Path) *tree.Item {
	items := t.items
	var found *tree.Item
	for _, id := range path {
		found = nil
		for _, item := range items {
			if item.ID() == id {
				found = item
				break
			}
		}
		if found == nil {
			return nil
		}
		items = found.Children()
	}
	return found
}

// View renders the component. This is the render pass: it runs the
// viewport window computation, which also refreshes the row caches the
// navigation operations depend on.
func (t *ExplorerTree) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	innerWidth := t.width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	contentHeight := t.height - chromeHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	// Reserve one column for the scrollbar.
	treeWidth := innerWidth - 1
	window := t.state.Window(t.items, treeWidth, contentHeight)

	lines := make([]string, 0, contentHeight)
	for _, row := range window.Rows {
		lines = append(lines, t.renderRow(row, treeWidth)...)
	}
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", treeWidth))
	}
	lines = lines[:contentHeight]

	bar := renderScrollbar(window.Scrollbar, len(window.Rows), contentHeight)
	for i := range lines {
		lines[i] += bar[i]
	}

	var parts []string
	parts = append(parts, tui.RenderTitle(t.title, innerWidth, t.focused))
	parts = append(parts, lines...)
	parts = append(parts, t.renderStatus(window, innerWidth))

	borderStyle := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
	if t.focused {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("62"))
	} else {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("244"))
	}
	return borderStyle.Render(strings.Join(parts, "\n"))
}

// renderRow draws one entry; multiline labels produce one line per label
// row with the indent repeated and the marker only on the first.
func (t *ExplorerTree) renderRow(row explorer.Row, width int) []string {
	indent := strings.Repeat(" ", t.cfg.IndentWidth*row.Depth)

	var marker string
	switch row.Marker {
	case explorer.MarkerOpen:
		marker = t.cfg.Symbols.Open
	case explorer.MarkerClosed:
		marker = t.cfg.Symbols.Closed
	default:
		marker = t.cfg.Symbols.Leaf
	}

	style := lipgloss.NewStyle()
	if row.Selected {
		if t.focused {
			style = style.
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("229"))
		} else {
			style = style.
				Background(lipgloss.Color("238")).
				Foreground(lipgloss.Color("252"))
		}
	}

	labelLines := strings.Split(row.Item.Label(), "\n")
	rendered := make([]string, 0, len(labelLines))
	for i, labelLine := range labelLines {
		prefix := indent + marker + " "
		if i > 0 {
			prefix = indent + strings.Repeat(" ", lipgloss.Width(marker)+1)
		}
		line := tui.PadRight(prefix+tui.Truncate(labelLine, width-lipgloss.Width(prefix)), width)
		rendered = append(rendered, style.Render(line))
	}
	return rendered
}

// renderScrollbar returns one cell per content line: a thumb over the part
// of the list that is in view, a track elsewhere, blanks when everything
// fits.
func renderScrollbar(bar explorer.Scrollbar, windowRows, height int) []string {
	cells := make([]string, height)
	if height == 0 {
		return cells
	}
	if bar.Total <= windowRows {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	thumbLen := height * windowRows / bar.Total
	if thumbLen < 1 {
		thumbLen = 1
	}
	thumbStart := 0
	if denominator := bar.Total - windowRows; denominator > 0 {
		thumbStart = (height - thumbLen) * bar.Offset / denominator
	}

	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	thumbStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	for i := range cells {
		if i >= thumbStart && i < thumbStart+thumbLen {
			cells[i] = thumbStyle.Render("█")
		} else {
			cells[i] = trackStyle.Render("│")
		}
	}
	return cells
}

func (t *ExplorerTree) renderStatus(window explorer.Window, width int) string {
	status := fmt.Sprintf(" %d entries", window.Scrollbar.Total)
	if selected := t.state.Selected(); len(selected) > 0 {
		status = fmt.Sprintf(" %s · %d entries", selected.Last(), window.Scrollbar.Total)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	return style.Render(tui.PadRight(tui.Truncate(status, width), width))
}

// Title returns the component title.
func (t *ExplorerTree) Title() string {
	return t.title
}

// Focused returns true if focused.
func (t *ExplorerTree) Focused() bool {
	return t.focused
}

// Focus sets the component as focused.
func (t *ExplorerTree) Focus() {
	t.focused = true
}

// Blur removes focus.
func (t *ExplorerTree) Blur() {
	t.focused = false
}

// SetSize sets dimensions.
func (t *ExplorerTree) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Width returns the width.
func (t *ExplorerTree) Width() int {
	return t.width
}

// Height returns the height.
func (t *ExplorerTree) Height() int {
	return t.height
}

// GPressed returns true if waiting for the second 'g' in a gg sequence.
func (t *ExplorerTree) GPressed() bool {
	return t.gPressed
}
