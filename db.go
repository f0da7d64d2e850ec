// db.go
//
// Backend selection for the solved set and the shared loading helpers of
// the commands.
//   - Ephemeral: in-memory KV, nothing survives the process.
//   - Otherwise: SQLite at storage.db_path (WAL, migrations in
//     internal/progress/sql).

package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/onebit/internal/config"
	"github.com/robalobadob/onebit/internal/daily"
	"github.com/robalobadob/onebit/internal/game"
	"github.com/robalobadob/onebit/internal/progress"
	"github.com/robalobadob/onebit/internal/puzzles"
)

// openProgress returns the configured KV and a func that releases it.
func openProgress(c *config.Config) (progress.KV, func(), error) {
	if c.Storage.Ephemeral {
		log.Debug().Msg("progress: in-memory")
		return progress.NewMemoryKV(), func() {}, nil
	}
	db, err := progress.OpenSQLite(c.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("path", c.Storage.DBPath).Msg("progress: sqlite")
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close progress db")
		}
	}, nil
}

// loadPuzzles reads the configured puzzle set.
func loadPuzzles(c *config.Config) ([]game.Puzzle, error) {
	set, err := puzzles.Load(c.Game.PuzzlesFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("puzzles", len(set)).Str("file", c.Game.PuzzlesFile).Msg("puzzles loaded")
	return set, nil
}

// gameOptions builds engine options for one session.
func gameOptions(c *config.Config, kv progress.KV, limit int, reset, dividers, today bool) game.Options {
	opts := game.Options{
		Limit:    limit,
		Reset:    reset,
		Progress: progress.NewTracker(kv),
		Dividers: dividers,
	}
	if today {
		now := time.Now()
		opts.Rand = daily.Rand(now, c.Game.DailySalt)
		log.Debug().Str("date", daily.DateKey(now)).Msg("daily order")
	}
	return opts
}
