package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernview/fern/internal/storage/filesystem"
	"github.com/fernview/fern/internal/tree"
)

// PrintOptions holds options for the print command.
type PrintOptions struct {
	Depth int
}

// NewPrintCommand creates the print command. It renders the tree once to
// stdout without entering the TUI.
func NewPrintCommand(root *RootOptions) *cobra.Command {
	opts := &PrintOptions{}

	cmd := &cobra.Command{
		Use:   "print [dir]",
		Short: "Print the directory tree and exit",
		Long:  "Print the directory tree to stdout, expanded to the given depth, without starting the TUI.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runPrint(cmd.OutOrStdout(), dir, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Expand branches up to this depth (0 expands everything)")

	return cmd
}

func runPrint(out io.Writer, dir string, root *RootOptions, opts *PrintOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if root.ShowHidden {
		cfg.ShowHidden = true
	}

	source, err := filesystem.NewSource(dir, cfg.ShowHidden)
	if err != nil {
		return err
	}
	snapshot, err := source.Snapshot(context.Background())
	if err != nil {
		return err
	}

	expanded := tree.NewPathSet()
	expandBranches(expanded, snapshot.Forest, nil, opts.Depth)

	for _, entry := range tree.Flatten(expanded, snapshot.Forest, nil) {
		marker := cfg.Symbols.Leaf
		if len(entry.Item.Children()) > 0 {
			if expanded.Contains(entry.Path) {
				marker = cfg.Symbols.Open
			} else {
				marker = cfg.Symbols.Closed
			}
		}
		indent := strings.Repeat(" ", cfg.IndentWidth*entry.Depth())
		fmt.Fprintf(out, "%s%s %s\n", indent, marker, entry.Item.Label())
	}
	return nil
}

// expandBranches marks every branch down to maxDepth as expanded. A
// maxDepth of zero means no limit.
func expandBranches(expanded *tree.PathSet, items []*tree.Item, prefix tree.Path, maxDepth int) {
	for _, item := range items {
		if len(item.Children()) == 0 {
			continue
		}
		path := prefix.Child(item.ID())
		if maxDepth > 0 && path.Depth() >= maxDepth {
			continue
		}
		expanded.Add(path)
		expandBranches(expanded, item.Children(), path, maxDepth)
	}
}
