package puzzles

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/onebit/internal/game"
	"github.com/robalobadob/onebit/internal/words"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestParseText(t *testing.T) {
	p, err := ParseText(strings.NewReader("  Moon \n\nit shines at night\n   \n  it has no light of its own  \n"))
	require.NoError(t, err)
	assert.Equal(t, game.Puzzle{
		Secret: "moon",
		Clues:  []string{"it shines at night", "it has no light of its own"},
	}, p)

	_, err = ParseText(strings.NewReader("\n  \n"))
	assert.ErrorIs(t, err, ErrEmptyPuzzle)
}

func TestReadDir_SortedTxtOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "tree\nit has bark\n")
	writeFile(t, dir, "a.txt", "MOON\nit shines\n")
	writeFile(t, dir, "notes.md", "ignored\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	srcs, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, srcs, 2)
	assert.Equal(t, filepath.Join(dir, "a.txt"), srcs[0].Path)
	assert.Equal(t, []game.Puzzle{
		{Secret: "moon", Clues: []string{"it shines"}},
		{Secret: "tree", Clues: []string{"it has bark"}},
	}, Set(srcs))
}

func TestReadDir_EmptyFileFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "\n")
	_, err := ReadDir(dir)
	assert.ErrorIs(t, err, ErrEmptyPuzzle)
}

func TestJSONRoundTrip(t *testing.T) {
	set := []game.Puzzle{{Secret: "moon", Clues: []string{"a & b <c>"}}}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, set))
	assert.Contains(t, buf.String(), `"a & b <c>"`)
	assert.True(t, strings.HasSuffix(buf.String(), "]\n"))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, set, got)

	_, err = ReadJSON(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "moon.txt", "moon\nit shines at night\n")
	out := filepath.Join(t.TempDir(), "nested", "puzzles.json")

	n, err := Build(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, []game.Puzzle{{Secret: "moon", Clues: []string{"it shines at night"}}}, got)

	_, err = Build(t.TempDir(), out)
	assert.ErrorIs(t, err, game.ErrNoPuzzles)
}

func TestLoad_EmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, game.ErrNoPuzzles)
}

// The embedded set must stay in sync with puzzles/*.txt and pass verification.
func TestEmbeddedSet(t *testing.T) {
	embedded, err := Load("")
	require.NoError(t, err)

	srcs, err := ReadDir(filepath.Join("..", "..", "puzzles"))
	require.NoError(t, err)
	if diff := cmp.Diff(Set(srcs), embedded); diff != "" {
		t.Fatalf("assets/puzzles.json is stale; run onebit build (-dir +embedded):\n%s", diff)
	}

	vocab, err := words.Embedded()
	require.NoError(t, err)
	for _, r := range Verify(embedded, vocab) {
		assert.True(t, r.OK(), "%s: %v", r.Secret, r.Problems)
	}
}

func tenClues(clue string) []string {
	out := make([]string, ClueCount)
	for i := range out {
		out[i] = clue
	}
	return out
}

func TestVerify(t *testing.T) {
	vocab := words.New("moon", "it", "shines", "at", "night", "tree")

	bad := tenClues("it shines at night")
	bad[0] = "moons at night"
	bad[1] = "..."
	bad[2] = "it glows"

	reports := Verify([]game.Puzzle{
		{Secret: "moon", Clues: tenClues("it shines at night")},
		{Secret: "Moon", Clues: bad},
		{Secret: "tr3e", Clues: []string{"it"}},
	}, vocab)
	require.Len(t, reports, 3)

	assert.True(t, reports[0].OK(), reports[0].Problems)

	assert.Equal(t, []string{
		`duplicate secret "moon" (also puzzle 0)`,
		`clue 1: "moons" is not in the vocabulary`,
		`clue 1: "moons" is the secret or a variant of it`,
		`clue 2: empty clue`,
		`clue 3: "glows" is not in the vocabulary`,
	}, reports[1].Problems)

	assert.Equal(t, []string{
		`expected 10 clues, got 1`,
		`secret "tr3e" contains non-alpha characters`,
		`secret "tr3e" is not in the vocabulary`,
	}, reports[2].Problems)
}

func TestVerify_EmptyVocabularySkipsWordChecks(t *testing.T) {
	reports := Verify([]game.Puzzle{{Secret: "moon", Clues: tenClues("anything goes here")}}, words.Vocabulary{})
	require.Len(t, reports, 1)
	assert.True(t, reports[0].OK(), reports[0].Problems)
}

func TestVariants(t *testing.T) {
	cases := map[string][]string{
		"bake":   {"bake", "bakes", "baked", "bakeer", "bakeing", "bakely"},
		"baked":  {"bake", "bak"},
		"baking": {"bak", "bake"},
		"moons":  {"moon"},
		"ships":  {"ship", "shipsing"},
	}
	for word, want := range cases {
		vs := Variants(word)
		for _, w := range want {
			assert.True(t, vs.Has(w), "%s -> %s", word, w)
		}
	}
	assert.False(t, Variants("moon").Has("mood"))
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, func() error {
			calls.Add(1)
			return nil
		})
	}()

	// The watcher may not be registered yet; keep touching files until it sees one.
	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		writeFile(t, dir, "moon.txt", "moon\nit shines\n")
		writeFile(t, dir, "ignored.md", "x")
		time.Sleep(50 * time.Millisecond)
	}
	assert.Positive(t, calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
