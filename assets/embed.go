// assets/embed.go
//
// Static data compiled into the binary:
//   - puzzles.json: the default puzzle set, built from puzzles/*.txt by `onebit build`.
//   - words.txt:    the one-syllable vocabulary used by `onebit verify`.

package assets

import (
	"embed"
	"io"
)

//go:embed puzzles.json words.txt
var FS embed.FS

// PuzzlesFile and WordsFile name the embedded files.
const (
	PuzzlesFile = "puzzles.json"
	WordsFile   = "words.txt"
)

// Open opens one of the embedded files.
func Open(name string) (io.ReadCloser, error) {
	return FS.Open(name)
}
