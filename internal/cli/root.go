package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fernview/fern/internal/config"
	"github.com/fernview/fern/internal/storage/filesystem"
	"github.com/fernview/fern/internal/tui/views"
)

// RootOptions holds options for the root command.
type RootOptions struct {
	ShowHidden bool
	ConfigPath string
	DebugLog   string
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "fern [dir]",
		Short:   "Fern - A TUI file explorer",
		Long:    "Fern is a collapsible tree explorer for the terminal. It watches the directory for changes and keeps the view current.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runTUI(root, opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.ShowHidden, "hidden", false, "Show hidden files and directories")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default ~/.config/fern/config.yaml)")
	cmd.Flags().StringVar(&opts.DebugLog, "debug", "", "Write debug logs to the given file")

	cmd.AddCommand(NewPrintCommand(opts))

	return cmd
}

func loadConfig(opts *RootOptions) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// setupLogging points slog at the debug file, or discards everything when
// no file was requested so the TUI output stays clean.
func setupLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application over the given directory.
func runTUI(root string, opts *RootOptions) error {
	closeLog, err := setupLogging(opts.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.ShowHidden {
		cfg.ShowHidden = true
	}

	source, err := filesystem.NewSource(root, cfg.ShowHidden)
	if err != nil {
		return err
	}

	model := tuiModel{
		view: views.NewMainView(cfg, source),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := filesystem.NewWatcher(source)
	if err != nil {
		slog.Warn("filesystem watcher unavailable", "error", err)
	} else {
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("filesystem watcher stopped", "error", err)
			}
		}()
		go func() {
			for snapshot := range watcher.Snapshots() {
				p.Send(views.SnapshotMsg{Snapshot: snapshot})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
