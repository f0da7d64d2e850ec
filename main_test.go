package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/onebit/internal/config"
	"github.com/robalobadob/onebit/internal/progress"
	"github.com/robalobadob/onebit/internal/puzzles"
)

// execute runs the root command with a private config and database.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ONEBIT_CONFIG", filepath.Join(dir, "missing.yaml"))
	if os.Getenv("DB_PATH") == "" {
		t.Setenv("DB_PATH", filepath.Join(dir, "onebit.db"))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writePuzzle(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	bell, err := os.ReadFile(filepath.Join("puzzles", "bell.txt"))
	require.NoError(t, err)
	writePuzzle(t, dir, "bell.txt", string(bell))
	writePuzzle(t, dir, "window.txt", "window\nyou look out of it\n")

	out, err := execute(t, "", "verify", "--dir", dir)
	assert.ErrorIs(t, err, errVerifyFailed)
	assert.Contains(t, out, filepath.Join(dir, "bell.txt")+": OK")
	assert.Contains(t, out, filepath.Join(dir, "window.txt")+": FAIL")
	assert.Contains(t, out, `secret "window" is not in the vocabulary`)
	assert.Contains(t, out, "expected 10 clues, got 1")
	assert.Contains(t, out, "1 of 2 puzzles OK")
}

func TestVerifyCommand_BundledPuzzles(t *testing.T) {
	out, err := execute(t, "", "verify", "--dir", "puzzles")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "FAIL")
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	writePuzzle(t, dir, "a.txt", "bell\nit rings\n")
	writePuzzle(t, dir, "b.txt", "ship\nit sails\n\n")
	writePuzzle(t, dir, "notes.md", "ignored")
	dst := filepath.Join(t.TempDir(), "out", "puzzles.json")

	out, err := execute(t, "", "build", "--dir", dir, "--out", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 puzzles")

	set, err := puzzles.Load(dst)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "bell", set[0].Secret)
	assert.Equal(t, []string{"it sails"}, set[1].Clues)
}

func TestPlayPlain(t *testing.T) {
	out, err := execute(t, "hint\n", "play", "--plain", "--ephemeral", "-n", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "guess the word."), out)
	assert.Equal(t, 2, strings.Count(out, "clue: "))
	assert.Contains(t, out, "bye. you got 0 out of 12.")
}

func TestResetCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "progress.db")
	t.Setenv("DB_PATH", dbPath)

	db, err := progress.OpenSQLite(dbPath)
	require.NoError(t, err)
	_, err = progress.NewTracker(db).Add(context.Background(), "bell")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "progress cleared")

	db, err = progress.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer db.Close()
	got, err := progress.NewTracker(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Size())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "onebit.yaml")
	t.Setenv("ONEBIT_CONFIG", path)
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "onebit.db"))
	configForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"config", "init"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "wrote "+path)

	got, err := config.Load(path)
	require.NoError(t, err)
	want := config.DefaultConfig()
	want.Storage.DBPath = got.Storage.DBPath // DB_PATH override
	assert.Equal(t, want, got)

	rootCmd.SetArgs([]string{"config", "init"})
	err = rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	rootCmd.SetArgs([]string{"config", "init", "--force"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	configForce = false
}
