package views

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernview/fern/internal/config"
	"github.com/fernview/fern/internal/storage/filesystem"
	"github.com/fernview/fern/internal/tui"
	"github.com/fernview/fern/internal/tui/components"
)

// Pane represents which pane is focused.
type Pane int

const (
	PaneExplorer Pane = iota
	PanePreview
)

// SnapshotMsg delivers a freshly built forest, either from the initial
// scan, a manual refresh, or the filesystem watcher.
type SnapshotMsg struct {
	Snapshot *filesystem.Snapshot
	Err      error
}

// clearNotificationMsg is sent to clear the notification.
type clearNotificationMsg struct{}

// MainView is the two-pane explorer view: tree on the left, preview on the
// right.
type MainView struct {
	width       int
	height      int
	focusedPane Pane

	cfg     config.Config
	source  *filesystem.Source
	tree    *components.ExplorerTree
	preview *components.PreviewPanel

	showHelp     bool
	notification string
	notifyUntil  time.Time
}

// NewMainView creates the main view over the given entry source.
func NewMainView(cfg config.Config, source *filesystem.Source) *MainView {
	view := &MainView{
		cfg:         cfg,
		source:      source,
		tree:        components.NewExplorerTree(cfg),
		preview:     components.NewPreviewPanel(cfg.PreviewLines),
		focusedPane: PaneExplorer,
	}
	view.tree.Focus()
	return view
}

// Init triggers the initial directory scan.
func (v *MainView) Init() tea.Cmd {
	return v.snapshotCmd()
}

func (v *MainView) snapshotCmd() tea.Cmd {
	source := v.source
	return func() tea.Msg {
		snapshot, err := source.Snapshot(context.Background())
		return SnapshotMsg{Snapshot: snapshot, Err: err}
	}
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	if v.showHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc || keyMsg.String() == "?" || keyMsg.String() == "q" {
				v.showHelp = false
			}
			return v, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.updatePaneSizes()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		// The tree pane starts at the origin, so its viewport-relative
		// coordinates equal the terminal's.
		if msg.X < v.tree.Width() {
			return v.updateTree(msg)
		}
		return v, nil

	case SnapshotMsg:
		if msg.Err != nil {
			return v, v.notify(fmt.Sprintf("scan failed: %v", msg.Err))
		}
		v.tree.SetSnapshot(msg.Snapshot)
		return v, nil

	case components.SelectionMsg:
		v.preview.Show(msg.FullPath, msg.IsBranch)
		return v, nil

	case components.YankedMsg:
		if msg.Err != nil {
			return v, v.notify(fmt.Sprintf("yank failed: %v", msg.Err))
		}
		return v, v.notify(fmt.Sprintf("yanked %s", msg.FullPath))

	case components.ToggleHiddenMsg:
		v.source.SetShowHidden(!v.source.ShowHidden())
		return v, v.snapshotCmd()

	case tui.RefreshMsg:
		return v, v.snapshotCmd()

	case clearNotificationMsg:
		if time.Now().After(v.notifyUntil) {
			v.notification = ""
		}
		return v, nil
	}

	return v.updateFocused(msg)
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return v, tea.Quit

	case "tab":
		v.cycleFocus()
		return v, nil

	case "?":
		v.showHelp = true
		return v, nil
	}

	return v.updateFocused(msg)
}

func (v *MainView) cycleFocus() {
	if v.focusedPane == PaneExplorer {
		v.focusedPane = PanePreview
		v.tree.Blur()
		v.preview.Focus()
	} else {
		v.focusedPane = PaneExplorer
		v.preview.Blur()
		v.tree.Focus()
	}
}

func (v *MainView) updateFocused(msg tea.Msg) (tui.Component, tea.Cmd) {
	if v.focusedPane == PaneExplorer {
		return v.updateTree(msg)
	}
	updated, cmd := v.preview.Update(msg)
	v.preview = updated.(*components.PreviewPanel)
	return v, cmd
}

func (v *MainView) updateTree(msg tea.Msg) (tui.Component, tea.Cmd) {
	updated, cmd := v.tree.Update(msg)
	v.tree = updated.(*components.ExplorerTree)
	return v, cmd
}

func (v *MainView) notify(text string) tea.Cmd {
	v.notification = text
	v.notifyUntil = time.Now().Add(2 * time.Second)
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (v *MainView) updatePaneSizes() {
	contentHeight := v.height - 1 // bottom line for notifications and hints
	if contentHeight < 1 {
		contentHeight = 1
	}

	treeWidth := v.width * 2 / 5
	if treeWidth < 30 {
		treeWidth = 30
	}
	if treeWidth > v.width {
		treeWidth = v.width
	}
	previewWidth := v.width - treeWidth
	if previewWidth < 0 {
		previewWidth = 0
	}

	v.tree.SetSize(treeWidth, contentHeight)
	v.preview.SetSize(previewWidth, contentHeight)
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.showHelp {
		return v.renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, v.tree.View(), v.preview.View())

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	status := " ?: help · tab: switch pane · q: quit"
	if v.notification != "" {
		status = " " + v.notification
	}
	return panes + "\n" + statusStyle.Render(tui.Truncate(status, v.width))
}

func (v *MainView) renderHelp() string {
	rows := []struct{ keys, action string }{
		{"j / ↓, k / ↑", "move selection"},
		{"l / →, h / ←", "expand, collapse"},
		{"enter / space", "toggle branch"},
		{"gg, G", "first, last entry"},
		{"ctrl+e, ctrl+y", "scroll without moving"},
		{"c", "collapse all"},
		{"y", "copy path to clipboard"},
		{".", "show hidden files"},
		{"r", "rescan directory"},
		{"tab", "switch pane"},
		{"q", "quit"},
	}

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	var body string
	for _, row := range rows {
		body += fmt.Sprintf("%s  %s\n", keyStyle.Render(tui.PadRight(row.keys, 16)), row.action)
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Render("Keybindings\n\n" + body + "\nPress ? or esc to close")

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

// Title returns the component title.
func (v *MainView) Title() string {
	return "fern"
}

// Focused returns true; the main view always has focus.
func (v *MainView) Focused() bool {
	return true
}

// Focus sets the component as focused.
func (v *MainView) Focus() {}

// Blur removes focus.
func (v *MainView) Blur() {}

// SetSize sets dimensions.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.updatePaneSizes()
}

// Width returns the width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the height.
func (v *MainView) Height() int {
	return v.height
}

// Tree exposes the explorer tree, mainly for tests.
func (v *MainView) Tree() *components.ExplorerTree {
	return v.tree
}

// Preview exposes the preview panel, mainly for tests.
func (v *MainView) Preview() *components.PreviewPanel {
	return v.preview
}
