package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernview/fern/internal/tree"
)

// Source enumerates filesystem entries for the tree builder. It is the
// "entry source" side of the boundary: it does the I/O, the builder stays
// pure.
type Source struct {
	root       string
	showHidden bool
}

// Snapshot is one complete, immutable view of the directory tree. A
// producer running in the background hands whole snapshots to the UI
// instead of mutating a forest the render path can see; the revision lets
// consumers tell a fresh snapshot from a stale in-flight one.
type Snapshot struct {
	Revision string
	Root     string
	Forest   []*tree.Item
	Taken    time.Time
}

// NewSource creates a source rooted at the given directory.
func NewSource(root string, showHidden bool) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	return &Source{root: abs, showHidden: showHidden}, nil
}

// Root returns the absolute root directory.
func (s *Source) Root() string {
	return s.root
}

// SetShowHidden toggles whether dotfiles are enumerated.
func (s *Source) SetShowHidden(show bool) {
	s.showHidden = show
}

// ShowHidden reports whether dotfiles are enumerated.
func (s *Source) ShowHidden() bool {
	return s.showHidden
}

// Entries walks the root and returns every entry below it as an ordered,
// duplicate-free list of slash-separated paths. Hidden entries are skipped
// unless the source shows them; unreadable subdirectories are skipped
// rather than failing the whole walk.
func (s *Source) Entries(ctx context.Context) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == s.root {
				return err
			}
			return nil
		}
		if path == s.root {
			return nil
		}
		if !s.showHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		entries = append(entries, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.root, err)
	}
	return entries, nil
}

// IsBranch reports whether the entry is a directory. This is the is-branch
// capability handed to the tree builder.
func (s *Source) IsBranch(entry string) bool {
	info, err := os.Stat(filepath.FromSlash(entry))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Snapshot enumerates the tree and builds a complete forest from it.
func (s *Source) Snapshot(ctx context.Context) (*Snapshot, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	forest, err := tree.Build(filepath.ToSlash(s.root), entries, s.IsBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for %s: %w", s.root, err)
	}
	return &Snapshot{
		Revision: uuid.New().String(),
		Root:     s.root,
		Forest:   forest,
		Taken:    time.Now(),
	}, nil
}
