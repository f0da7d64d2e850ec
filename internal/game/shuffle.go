package game

import "math/rand"

// shuffled returns a uniformly random permutation of in. The input slice is
// left untouched so loaded puzzles stay immutable.
func shuffled[T any](rng *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
