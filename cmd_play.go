package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/robalobadob/onebit/internal/chat"
	"github.com/robalobadob/onebit/internal/game"
)

var (
	playLimit     int
	playReset     bool
	playPlain     bool
	playEphemeral bool
	playDaily     bool
	playDividers  bool
)

// playCmd runs a session in the terminal.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a session in the terminal chat.

Solved puzzles are remembered between runs and skipped until every puzzle
has been solved. Use --new to start over.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&playLimit, "n", "n", 0, "Number of puzzles this session (default: all)")
	cmd.Flags().BoolVar(&playReset, "new", false, "Forget solved puzzles before starting")
	cmd.Flags().BoolVar(&playPlain, "plain", false, "Line-based input and output instead of the full-screen chat")
	cmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "Keep progress in memory only")
	cmd.Flags().BoolVar(&playDaily, "daily", false, "Use today's puzzle order")
	cmd.Flags().BoolVar(&playDividers, "dividers", false, `Show "puzzle i of k" between puzzles`)
}

func init() {
	addPlayFlags(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if playEphemeral {
		cfg.Storage.Ephemeral = true
	}
	limit := cfg.Game.Limit
	if cmd.Flags().Changed("n") {
		limit = playLimit
	}
	dividers := cfg.Game.Dividers || playDividers

	set, err := loadPuzzles(cfg)
	if err != nil {
		return err
	}
	kv, closeKV, err := openProgress(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	ctx := cmd.Context()
	first, err := game.New(ctx, set, gameOptions(cfg, kv, limit, playReset, dividers, playDaily))
	if err != nil {
		return err
	}

	if playPlain {
		return chat.RunPlain(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), first)
	}

	// Later sessions keep progress; only the first honors --new.
	next := func(ctx context.Context) (*game.Game, error) {
		return game.New(ctx, set, gameOptions(cfg, kv, limit, false, dividers, false))
	}
	defer logToFile()()
	return chat.Run(ctx, first, next)
}
