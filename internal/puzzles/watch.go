// internal/puzzles/watch.go
//
// Watch keeps a build in sync with the puzzle directory.
// Bursts of events (editors write, rename and chmod on save) are collapsed
// into one rebuild after a quiet period.

package puzzles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the quiet period used when Watch is given zero.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls rebuild after *.txt files in dir are created, written, removed
// or renamed. It blocks until ctx is done. Rebuild failures are logged and
// watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, rebuild func() error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info().Str("dir", dir).Msg("watching puzzles")

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".txt") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("puzzle changed")
			fire = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-fire:
			fire = nil
			if err := rebuild(); err != nil {
				log.Error().Err(err).Msg("rebuild puzzles")
			}
		}
	}
}
