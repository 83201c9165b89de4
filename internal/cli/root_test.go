package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.Equal(t, "fern [dir]", cmd.Use)
		assert.Equal(t, "1.0.0", cmd.Version)
	})

	t.Run("has hidden flag", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		flag := cmd.PersistentFlags().Lookup("hidden")
		require.NotNil(t, flag)
		assert.Equal(t, "false", flag.DefValue)
	})

	t.Run("has config flag", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		flag := cmd.PersistentFlags().Lookup("config")
		require.NotNil(t, flag)
	})

	t.Run("has debug flag", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		flag := cmd.Flags().Lookup("debug")
		require.NotNil(t, flag)
	})

	t.Run("has print subcommand", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		printCmd, _, err := cmd.Find([]string{"print"})
		require.NoError(t, err)
		assert.Contains(t, printCmd.Use, "print")
	})
}

func TestRunPrint(t *testing.T) {
	writeTree := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "nested"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("hi"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "nested", "deep.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
		return dir
	}

	t.Run("prints full tree by default", func(t *testing.T) {
		dir := writeTree(t)
		var out bytes.Buffer
		err := runPrint(&out, dir, &RootOptions{ConfigPath: filepath.Join(dir, "no-config.yaml")}, &PrintOptions{})
		require.NoError(t, err)

		got := out.String()
		assert.Contains(t, got, "readme.md")
		assert.Contains(t, got, "main.go")
		assert.Contains(t, got, "deep.txt")
		assert.NotContains(t, got, ".hidden")
	})

	t.Run("depth limits expansion", func(t *testing.T) {
		dir := writeTree(t)
		var out bytes.Buffer
		err := runPrint(&out, dir, &RootOptions{ConfigPath: filepath.Join(dir, "no-config.yaml")}, &PrintOptions{Depth: 1})
		require.NoError(t, err)

		got := out.String()
		assert.Contains(t, got, "main.go")
		assert.Contains(t, got, "nested")
		assert.NotContains(t, got, "deep.txt")
	})

	t.Run("hidden flag includes dotfiles", func(t *testing.T) {
		dir := writeTree(t)
		var out bytes.Buffer
		err := runPrint(&out, dir, &RootOptions{ShowHidden: true, ConfigPath: filepath.Join(dir, "no-config.yaml")}, &PrintOptions{})
		require.NoError(t, err)
		assert.Contains(t, out.String(), ".hidden")
	})

	t.Run("rejects missing directory", func(t *testing.T) {
		var out bytes.Buffer
		err := runPrint(&out, filepath.Join(t.TempDir(), "nope"), &RootOptions{}, &PrintOptions{})
		assert.Error(t, err)
	})
}
