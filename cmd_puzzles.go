package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/onebit/internal/puzzles"
	"github.com/robalobadob/onebit/internal/words"
)

var (
	puzzleDir  string
	buildOut   string
	buildWatch bool
	wordsFile  string
)

var errVerifyFailed = errors.New("some puzzles failed verification")

// buildCmd compiles the text puzzles into the JSON set.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile puzzle text files into the JSON puzzle set",
	Long: `Read every *.txt file in the puzzle directory and write the JSON set.

Each file holds the secret word on its first line and one clue per line
after it. With --watch, the set is rebuilt whenever a file changes.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

// verifyCmd checks puzzles against the vocabulary.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check puzzles against the one-syllable vocabulary",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	buildCmd.Flags().StringVar(&puzzleDir, "dir", "puzzles", "Directory of puzzle text files")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", filepath.Join("assets", "puzzles.json"), "Output file")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild on change until interrupted")

	verifyCmd.Flags().StringVar(&puzzleDir, "dir", "puzzles", "Directory of puzzle text files")
	verifyCmd.Flags().StringVar(&wordsFile, "words", "", "Vocabulary file (default: game.words_file, then the built-in list)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	n, err := puzzles.Build(puzzleDir, buildOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d puzzles to %s\n", n, buildOut)
	if !buildWatch {
		return nil
	}
	return puzzles.Watch(cmd.Context(), puzzleDir, 0, func() error {
		_, err := puzzles.Build(puzzleDir, buildOut)
		return err
	})
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := wordsFile
	if path == "" {
		path = cfg.Game.WordsFile
	}
	vocab, err := words.Load(path)
	if err != nil {
		return err
	}
	srcs, err := puzzles.ReadDir(puzzleDir)
	if err != nil {
		return err
	}
	log.Debug().Int("words", vocab.Len()).Int("files", len(srcs)).Msg("verifying")

	out := cmd.OutOrStdout()
	failed := 0
	for i, rep := range puzzles.Verify(puzzles.Set(srcs), vocab) {
		if rep.OK() {
			fmt.Fprintf(out, "%s: OK\n", srcs[i].Path)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s: FAIL\n", srcs[i].Path)
		for _, p := range rep.Problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
	}
	fmt.Fprintf(out, "%d of %d puzzles OK\n", len(srcs)-failed, len(srcs))
	if failed > 0 {
		return errVerifyFailed
	}
	return nil
}
