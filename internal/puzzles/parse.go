// internal/puzzles/parse.go
//
// Puzzle text files and the static JSON data source.
//
// Text format (one puzzle per file):
//   line 1   the secret word (lowercased on read)
//   line 2+  clues, one per line
// Lines are trimmed and blank lines are dropped.
//
// JSON format:
//   [{"secret": "moon", "clues": ["it shines at night", ...]}, ...]

package puzzles

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/robalobadob/onebit/internal/game"
)

// ErrEmptyPuzzle is returned for a text file without any non-blank line.
var ErrEmptyPuzzle = errors.New("puzzles: empty puzzle text")

// Source is a puzzle together with the file it was read from.
type Source struct {
	Path   string
	Puzzle game.Puzzle
}

// ParseText reads one puzzle in text format.
func ParseText(r io.Reader) (game.Puzzle, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return game.Puzzle{}, err
	}
	if len(lines) == 0 {
		return game.Puzzle{}, ErrEmptyPuzzle
	}
	return game.Puzzle{Secret: strings.ToLower(lines[0]), Clues: lines[1:]}, nil
}

// ReadDir parses every *.txt file in dir, in filename order.
func ReadDir(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Source
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, Source{Path: path, Puzzle: p})
	}
	return out, nil
}

func readFile(path string) (game.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return game.Puzzle{}, err
	}
	defer f.Close()
	return ParseText(f)
}

// Set strips the file paths.
func Set(srcs []Source) []game.Puzzle {
	out := make([]game.Puzzle, len(srcs))
	for i, s := range srcs {
		out[i] = s.Puzzle
	}
	return out
}

// ReadJSON decodes a puzzle set.
func ReadJSON(r io.Reader) ([]game.Puzzle, error) {
	var set []game.Puzzle
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode puzzles: %w", err)
	}
	return set, nil
}

// WriteJSON encodes a puzzle set, indented, with a trailing newline.
func WriteJSON(w io.Writer, set []game.Puzzle) error {
	if set == nil {
		set = []game.Puzzle{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}
