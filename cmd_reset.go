package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/onebit/internal/progress"
)

// resetCmd forgets every solved puzzle.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget solved puzzles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, closeKV, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer closeKV()
		if err := progress.NewTracker(kv).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "progress cleared")
		return nil
	},
}
