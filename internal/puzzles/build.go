// internal/puzzles/build.go
//
// Runtime loading of the puzzle set, and the build step that turns a
// directory of text files into the JSON data source.

package puzzles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/onebit/assets"
	"github.com/robalobadob/onebit/internal/game"
)

// Load reads the JSON puzzle set at path, or the embedded default set when
// path is empty. An empty set is reported as game.ErrNoPuzzles.
func Load(path string) ([]game.Puzzle, error) {
	var (
		set []game.Puzzle
		err error
	)
	if path == "" {
		f, oerr := assets.Open(assets.PuzzlesFile)
		if oerr != nil {
			return nil, oerr
		}
		defer f.Close()
		set, err = ReadJSON(f)
	} else {
		f, oerr := os.Open(path)
		if oerr != nil {
			return nil, oerr
		}
		defer f.Close()
		set, err = ReadJSON(f)
	}
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, game.ErrNoPuzzles
	}
	return set, nil
}

// Build reads every puzzle in dir and writes the JSON set to out, replacing
// it atomically. It returns the number of puzzles written.
func Build(dir, out string) (int, error) {
	srcs, err := ReadDir(dir)
	if err != nil {
		return 0, err
	}
	if len(srcs) == 0 {
		return 0, fmt.Errorf("no puzzle files in %s: %w", dir, game.ErrNoPuzzles)
	}

	if d := filepath.Dir(out); d != "." && d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return 0, fmt.Errorf("mkdir %s: %w", d, err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(out), ".puzzles-*.json")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, Set(srcs)); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write %s: %w", out, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return 0, err
	}
	log.Info().Int("puzzles", len(srcs)).Str("out", out).Msg("built puzzle set")
	return len(srcs), nil
}
