package components

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernview/fern/internal/tui"
)

// PreviewPanel shows the head of the selected file, or a summary for a
// selected directory.
type PreviewPanel struct {
	title   string
	focused bool
	width   int
	height  int

	maxLines int
	path     string
	lines    []string
	err      error
	scroll   int
}

// NewPreviewPanel creates an empty preview panel.
func NewPreviewPanel(maxLines int) *PreviewPanel {
	return &PreviewPanel{
		title:    "Preview",
		maxLines: maxLines,
	}
}

// Init initializes the component.
func (p *PreviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (p *PreviewPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil
	case tui.FocusMsg:
		p.focused = true
		return p, nil
	case tui.BlurMsg:
		p.focused = false
		return p, nil
	}

	if !p.focused {
		return p, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "j", "down":
			if p.scroll < len(p.lines)-1 {
				p.scroll++
			}
		case "k", "up":
			if p.scroll > 0 {
				p.scroll--
			}
		case "g":
			p.scroll = 0
		}
	}

	return p, nil
}

// Show loads the head of the given path into the panel. Directories get a
// child summary instead of file content.
func (p *PreviewPanel) Show(path string, isBranch bool) {
	p.path = path
	p.lines = nil
	p.err = nil
	p.scroll = 0
	if path == "" {
		return
	}

	if isBranch {
		p.lines, p.err = directorySummary(path)
		return
	}
	p.lines, p.err = fileHead(path, p.maxLines)
}

// Path returns the previewed path.
func (p *PreviewPanel) Path() string {
	return p.path
}

// Lines returns the loaded preview lines, mainly for tests.
func (p *PreviewPanel) Lines() []string {
	return p.lines
}

func fileHead(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() && len(lines) < maxLines {
		lines = append(lines, strings.ReplaceAll(scanner.Text(), "\t", "    "))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

func directorySummary(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	dirs, files := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return []string{
		fmt.Sprintf("%d directories, %d files", dirs, files),
	}, nil
}

// View renders the component.
func (p *PreviewPanel) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	innerWidth := p.width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	contentHeight := p.height - 3
	if contentHeight < 0 {
		contentHeight = 0
	}

	var body []string
	switch {
	case p.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
		body = append(body, errStyle.Render(tui.Truncate(p.err.Error(), innerWidth)))
	case p.path == "":
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		body = append(body, dimStyle.Render("Nothing selected"))
	default:
		for i := p.scroll; i < len(p.lines) && len(body) < contentHeight; i++ {
			body = append(body, tui.PadRight(tui.Truncate(p.lines[i], innerWidth), innerWidth))
		}
	}
	for len(body) < contentHeight {
		body = append(body, strings.Repeat(" ", innerWidth))
	}
	body = body[:contentHeight]

	title := p.title
	if p.path != "" {
		title = tui.Truncate(p.path, innerWidth)
	}

	parts := append([]string{tui.RenderTitle(title, innerWidth, p.focused)}, body...)

	borderStyle := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
	if p.focused {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("62"))
	} else {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("244"))
	}
	return borderStyle.Render(strings.Join(parts, "\n"))
}

// Title returns the component title.
func (p *PreviewPanel) Title() string {
	return p.title
}

// Focused returns true if focused.
func (p *PreviewPanel) Focused() bool {
	return p.focused
}

// Focus sets the component as focused.
func (p *PreviewPanel) Focus() {
	p.focused = true
}

// Blur removes focus.
func (p *PreviewPanel) Blur() {
	p.focused = false
}

// SetSize sets dimensions.
func (p *PreviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Width returns the width.
func (p *PreviewPanel) Width() int {
	return p.width
}

// Height returns the height.
func (p *PreviewPanel) Height() int {
	return p.height
}
