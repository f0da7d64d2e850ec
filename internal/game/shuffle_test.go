package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every permutation of three items should show up about 1/6 of the time.
// The bounds sit far outside the binomial noise for these sample sizes.
func TestShuffled_Uniform(t *testing.T) {
	const rounds = 60000
	rng := seeded(20240601)
	counts := map[string]int{}
	for i := 0; i < rounds; i++ {
		counts[strings.Join(shuffled(rng, []string{"a", "b", "c"}), "")]++
	}

	require.Len(t, counts, 6)
	want := rounds / 6
	for perm, n := range counts {
		assert.InDelta(t, want, n, float64(want)*0.05, "permutation %s", perm)
	}
}

func TestNew_PuzzleOrderUniform(t *testing.T) {
	const rounds = 12000
	set := []Puzzle{
		{Secret: "a", Clues: []string{"1"}},
		{Secret: "b", Clues: []string{"2"}},
		{Secret: "c", Clues: []string{"3"}},
	}
	rng := seeded(99)
	counts := map[string]int{}
	for i := 0; i < rounds; i++ {
		g, err := New(context.Background(), set, Options{Rand: rng})
		require.NoError(t, err)
		var order strings.Builder
		for _, p := range g.puzzles {
			order.WriteString(p.Secret)
		}
		counts[order.String()]++
	}

	require.Len(t, counts, 6)
	want := rounds / 6
	for perm, n := range counts {
		assert.InDelta(t, want, n, float64(want)*0.12, "order %s", perm)
	}
}

func TestNew_FirstClueUniform(t *testing.T) {
	const rounds = 8000
	set := []Puzzle{{Secret: "x", Clues: []string{"c1", "c2", "c3", "c4"}}}
	rng := seeded(5)
	counts := map[string]int{}
	for i := 0; i < rounds; i++ {
		g, err := New(context.Background(), set, Options{Rand: rng})
		require.NoError(t, err)
		counts[g.Messages()[1].Text]++
	}

	require.Len(t, counts, 4)
	want := rounds / 4
	for clue, n := range counts {
		assert.InDelta(t, want, n, float64(want)*0.12, "clue %s", clue)
	}
}
