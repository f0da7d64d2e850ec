// internal/puzzles/verify.go
//
// Content checks for a puzzle set:
//   - exactly ClueCount clues
//   - alphabetic secret, present in the vocabulary
//   - every clue word present in the vocabulary
//   - no clue mentions the secret or a common inflection of it
//   - no empty clue, no duplicate secret
//
// Vocabulary checks are skipped when the vocabulary is empty.

package puzzles

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/onebit/internal/game"
	"github.com/robalobadob/onebit/internal/words"
)

// ClueCount is the number of clues every puzzle is expected to carry.
const ClueCount = 10

// Report lists the problems found in one puzzle.
type Report struct {
	Index    int
	Secret   string
	Problems []string
}

// OK reports whether the puzzle passed every check.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Verify checks every puzzle of set and returns one report per puzzle, in order.
func Verify(set []game.Puzzle, vocab words.Vocabulary) []Report {
	checkVocab := vocab.Len() > 0
	seen := make(map[string]int, len(set))
	out := make([]Report, 0, len(set))

	for i, p := range set {
		secret := strings.ToLower(strings.TrimSpace(p.Secret))
		r := Report{Index: i, Secret: secret}
		addf := func(format string, args ...any) {
			r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
		}

		if len(p.Clues) != ClueCount {
			addf("expected %d clues, got %d", ClueCount, len(p.Clues))
		}
		if !isAlpha(secret) {
			addf("secret %q contains non-alpha characters", secret)
		}
		if checkVocab && !vocab.Has(secret) {
			addf("secret %q is not in the vocabulary", secret)
		}
		if prev, dup := seen[secret]; dup {
			addf("duplicate secret %q (also puzzle %d)", secret, prev)
		} else {
			seen[secret] = i
		}

		banned := Variants(secret)
		for n, clue := range p.Clues {
			ws := words.Extract(clue)
			if len(ws) == 0 {
				addf("clue %d: empty clue", n+1)
				continue
			}
			for _, w := range ws {
				if checkVocab && !vocab.Has(w) {
					addf("clue %d: %q is not in the vocabulary", n+1, w)
				}
				if banned.Has(w) {
					addf("clue %d: %q is the secret or a variant of it", n+1, w)
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// Variants returns word together with its common inflections, in both
// directions: suffixes added, and suffixes stripped for already inflected words.
func Variants(word string) mapset.Set[string] {
	vs := mapset.New[string]()
	vs.Put(word)
	for _, suffix := range []string{"s", "es", "ed", "d", "er", "ers", "est", "ing", "ly"} {
		vs.Put(word + suffix)
	}

	n := len(word)
	if strings.HasSuffix(word, "s") && n > 2 {
		vs.Put(word[:n-1])
	}
	if strings.HasSuffix(word, "es") && n > 3 {
		vs.Put(word[:n-2])
	}
	if strings.HasSuffix(word, "ed") && n > 3 {
		vs.Put(word[:n-2])
		vs.Put(word[:n-1]) // baked -> bake
	}
	if strings.HasSuffix(word, "d") && n > 2 {
		vs.Put(word[:n-1])
	}
	if strings.HasSuffix(word, "er") && n > 3 {
		vs.Put(word[:n-2])
	}
	if strings.HasSuffix(word, "ing") && n > 4 {
		vs.Put(word[:n-3])
		vs.Put(word[:n-3] + "e") // baking -> bake
	}
	if strings.HasSuffix(word, "ly") && n > 3 {
		vs.Put(word[:n-2])
	}
	return vs
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
