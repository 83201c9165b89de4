package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernview/fern/internal/config"
	"github.com/fernview/fern/internal/storage/filesystem"
	"github.com/fernview/fern/internal/tree"
)

// Test helpers for key event simulation. A render pass runs before each
// key so the navigation caches match what is on screen, exactly as in the
// real event loop.

func pressKey(t *testing.T, et *ExplorerTree, key rune) *ExplorerTree {
	t.Helper()
	et.View()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}}
	updated, _ := et.Update(msg)
	return updated.(*ExplorerTree)
}

func pressEnter(t *testing.T, et *ExplorerTree) *ExplorerTree {
	t.Helper()
	et.View()
	msg := tea.KeyMsg{Type: tea.KeyEnter}
	updated, _ := et.Update(msg)
	return updated.(*ExplorerTree)
}

func testSnapshot(t *testing.T) *filesystem.Snapshot {
	t.Helper()
	src, err := tree.New("src", "src", []*tree.Item{
		tree.NewLeaf("app.go", "app.go"),
		tree.NewLeaf("main.go", "main.go"),
	})
	require.NoError(t, err)
	docs, err := tree.New("docs", "docs", []*tree.Item{
		tree.NewLeaf("guide.md", "guide.md"),
	})
	require.NoError(t, err)
	return &filesystem.Snapshot{
		Revision: "rev-1",
		Root:     "/workspace/project",
		Forest:   []*tree.Item{docs, src, tree.NewLeaf("readme.md", "readme.md")},
	}
}

func newTestTree(t *testing.T) *ExplorerTree {
	t.Helper()
	et := NewExplorerTree(config.Default())
	et.SetSnapshot(testSnapshot(t))
	et.SetSize(40, 14)
	et.Focus()
	return et
}

func TestNewExplorerTree(t *testing.T) {
	t.Run("creates empty tree", func(t *testing.T) {
		et := NewExplorerTree(config.Default())
		assert.Equal(t, "Explorer", et.Title())
		assert.False(t, et.Focused())
	})

	t.Run("renders empty string before sizing", func(t *testing.T) {
		et := NewExplorerTree(config.Default())
		assert.Equal(t, "", et.View())
	})
}

func TestExplorerTreeSetSnapshot(t *testing.T) {
	t.Run("adopts forest and revision", func(t *testing.T) {
		et := newTestTree(t)
		assert.Equal(t, "rev-1", et.Revision())
		assert.Contains(t, et.View(), "readme.md")
	})

	t.Run("nil snapshot is ignored", func(t *testing.T) {
		et := newTestTree(t)
		et.SetSnapshot(nil)
		assert.Equal(t, "rev-1", et.Revision())
	})

	t.Run("selection survives a new snapshot", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		selected := et.State().Selected()
		et.SetSnapshot(testSnapshot(t))
		assert.True(t, et.State().Selected().Equal(selected))
	})
}

func TestExplorerTreeNavigation(t *testing.T) {
	t.Run("j selects first entry then moves down", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		assert.True(t, et.State().Selected().Equal(tree.Path{"docs"}))

		et = pressKey(t, et, 'j')
		assert.True(t, et.State().Selected().Equal(tree.Path{"src"}))
	})

	t.Run("k from nowhere jumps to the last entry", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'k')
		assert.True(t, et.State().Selected().Equal(tree.Path{"readme.md"}))
	})

	t.Run("G goes to bottom and gg back to top", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'G')
		assert.True(t, et.State().Selected().Equal(tree.Path{"readme.md"}))

		et = pressKey(t, et, 'g')
		assert.True(t, et.GPressed())
		et = pressKey(t, et, 'g')
		assert.False(t, et.GPressed())
		assert.True(t, et.State().Selected().Equal(tree.Path{"docs"}))
	})

	t.Run("interrupted gg sequence does nothing", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'G')
		et = pressKey(t, et, 'g')
		et = pressKey(t, et, 'j')
		assert.False(t, et.GPressed())
		assert.True(t, et.State().Selected().Equal(tree.Path{"readme.md"}))
	})

	t.Run("unfocused tree ignores keys", func(t *testing.T) {
		et := newTestTree(t)
		et.Blur()
		et = pressKey(t, et, 'j')
		assert.Nil(t, et.State().Selected())
	})
}

func TestExplorerTreeExpandCollapse(t *testing.T) {
	t.Run("l expands the selected branch", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j') // docs
		et = pressKey(t, et, 'l')
		assert.True(t, et.State().Expanded().Contains(tree.Path{"docs"}))
		assert.Contains(t, et.View(), "guide.md")
	})

	t.Run("h collapses an open branch", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		et = pressKey(t, et, 'l')
		et = pressKey(t, et, 'h')
		assert.False(t, et.State().Expanded().Contains(tree.Path{"docs"}))
	})

	t.Run("h on a leaf selects the parent", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		et = pressKey(t, et, 'l')
		et = pressKey(t, et, 'j') // guide.md
		require.True(t, et.State().Selected().Equal(tree.Path{"docs", "guide.md"}))

		et = pressKey(t, et, 'h')
		assert.True(t, et.State().Selected().Equal(tree.Path{"docs"}))
	})

	t.Run("enter toggles the selected branch", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		et = pressEnter(t, et)
		assert.True(t, et.State().Expanded().Contains(tree.Path{"docs"}))
		et = pressEnter(t, et)
		assert.False(t, et.State().Expanded().Contains(tree.Path{"docs"}))
	})

	t.Run("c collapses everything", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		et = pressKey(t, et, 'l')
		et = pressKey(t, et, 'c')
		assert.Equal(t, 0, et.State().Expanded().Len())
	})
}

func TestExplorerTreeMessages(t *testing.T) {
	collect := func(cmd tea.Cmd) tea.Msg {
		if cmd == nil {
			return nil
		}
		return cmd()
	}

	t.Run("selection emits a SelectionMsg with the full path", func(t *testing.T) {
		et := newTestTree(t)
		et.View()
		updated, cmd := et.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		et = updated.(*ExplorerTree)

		msg, ok := collect(cmd).(SelectionMsg)
		require.True(t, ok)
		assert.True(t, msg.Path.Equal(tree.Path{"docs"}))
		assert.True(t, msg.IsBranch)
		assert.True(t, strings.HasSuffix(msg.FullPath, "docs"))
	})

	t.Run("dot requests a hidden toggle", func(t *testing.T) {
		et := newTestTree(t)
		et.View()
		_, cmd := et.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}})
		_, ok := collect(cmd).(ToggleHiddenMsg)
		assert.True(t, ok)
	})
}

func TestExplorerTreeMouse(t *testing.T) {
	t.Run("click selects the row under the cursor", func(t *testing.T) {
		et := newTestTree(t)
		et.View()
		updated, _ := et.Update(tea.MouseMsg{
			Action: tea.MouseActionPress,
			Button: tea.MouseButtonLeft,
			X:      3,
			Y:      3, // second content row
		})
		et = updated.(*ExplorerTree)
		assert.True(t, et.State().Selected().Equal(tree.Path{"src"}))
	})

	t.Run("click on the selected row toggles it", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j') // docs selected
		et.View()
		updated, _ := et.Update(tea.MouseMsg{
			Action: tea.MouseActionPress,
			Button: tea.MouseButtonLeft,
			X:      3,
			Y:      2, // first content row
		})
		et = updated.(*ExplorerTree)
		assert.True(t, et.State().Expanded().Contains(tree.Path{"docs"}))
	})

	t.Run("wheel scrolls without changing selection", func(t *testing.T) {
		et := newTestTree(t)
		et = pressKey(t, et, 'j')
		et.View()
		updated, _ := et.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
		et = updated.(*ExplorerTree)
		assert.True(t, et.State().Selected().Equal(tree.Path{"docs"}))
	})
}

func TestExplorerTreeView(t *testing.T) {
	t.Run("shows markers from the configured symbols", func(t *testing.T) {
		et := newTestTree(t)
		view := et.View()
		assert.Contains(t, view, config.Default().Symbols.Closed)
	})

	t.Run("status line counts visible entries", func(t *testing.T) {
		et := newTestTree(t)
		assert.Contains(t, et.View(), "3 entries")

		et = pressKey(t, et, 'j')
		et = pressKey(t, et, 'l')
		assert.Contains(t, et.View(), "4 entries")
	})
}
