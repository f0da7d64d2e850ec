// internal/words/words.go
//
// Vocabulary of one-syllable words used to check puzzle text.
//
// Responsibilities:
//   - Load the vocabulary from a file or fall back to the embedded default.
//   - Answer membership queries.
//   - Split clue text into lowercase words.
//
// File format:
//   Whitespace-separated words; case is ignored and anything that is not
//   purely alphabetic is skipped.
//
// Environment:
//   WORDS_FILE=/path/to/words.txt overrides the embedded list (see config).

package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/onebit/assets"
)

// Vocabulary is a read-only set of lowercase words. The zero value is empty.
type Vocabulary struct {
	set mapset.Set[string]
}

// New builds a vocabulary from the given words.
func New(list ...string) Vocabulary {
	set := mapset.New[string]()
	for _, w := range list {
		if w = strings.ToLower(strings.TrimSpace(w)); isAlpha(w) {
			set.Put(w)
		}
	}
	return Vocabulary{set: set}
}

// Parse reads a whitespace-separated word list.
func Parse(r io.Reader) (Vocabulary, error) {
	var list []string
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Vocabulary{}, fmt.Errorf("read words: %w", err)
	}
	return New(list...), nil
}

// ReadFile loads a word list from path.
func ReadFile(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Vocabulary{}, err
	}
	defer f.Close()
	return Parse(f)
}

var (
	embeddedOnce  sync.Once
	embeddedVocab Vocabulary
	embeddedErr   error
)

// Embedded returns the vocabulary compiled into the binary. It is parsed once.
func Embedded() (Vocabulary, error) {
	embeddedOnce.Do(func() {
		f, err := assets.Open(assets.WordsFile)
		if err != nil {
			embeddedErr = err
			return
		}
		defer f.Close()
		embeddedVocab, embeddedErr = Parse(f)
	})
	return embeddedVocab, embeddedErr
}

// Load reads path, or the embedded vocabulary when path is empty.
func Load(path string) (Vocabulary, error) {
	if path == "" {
		return Embedded()
	}
	return ReadFile(path)
}

// Has reports whether w (any case) is in the vocabulary.
func (v Vocabulary) Has(w string) bool {
	return v.set.Has(strings.ToLower(w))
}

// Len is the number of distinct words.
func (v Vocabulary) Len() int { return v.set.Size() }

var wordRE = regexp.MustCompile(`[a-z]+`)

// Extract splits a line of text into its lowercase alphabetic words.
// Punctuation and digits act as separators.
func Extract(line string) []string {
	return wordRE.FindAllString(strings.ToLower(line), -1)
}

// isAlpha reports whether s is non-empty and all lowercase ASCII letters.
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
