// main.go
//
// onebit: a one-syllable word guessing game in a chat.
// Commands:
//   - play    terminal chat (default when no command is given)
//   - serve   HTTP + WebSocket host
//   - build   compile puzzles/*.txt into the JSON set
//   - verify  check puzzles against the vocabulary
//   - reset   forget solved puzzles
//   - config  write the default onebit.yaml
//
// Settings come from onebit.yaml (or $ONEBIT_CONFIG), then the environment
// (a .env file is loaded first), then flags.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/onebit/internal/config"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "onebit",
	Short: "Guess one-syllable words from one-syllable clues",
	Long: `onebit is a word guessing game played as a chat.

Every secret word is one syllable long, and so is every word of every clue.
Type a guess, or "hint" for another clue.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		c, err := config.Load(config.Path())
		if err != nil {
			return err
		}
		cfg = c
		return setupLogging(cmd.ErrOrStderr())
	},
	RunE: runPlay,
}

// setupLogging applies the configured level. verbose forces debug.
func setupLogging(w io.Writer) error {
	lvl, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	return nil
}

// logToFile sends logs to the configured file, or nowhere, while a
// full-screen UI owns the terminal. The returned func closes the file.
func logToFile() func() {
	if cfg.Logging.File == "" {
		log.Logger = log.Logger.Output(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = log.Logger.Output(io.Discard)
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
