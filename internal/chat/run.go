package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/onebit/internal/game"
)

// Run starts the full-screen chat and blocks until the player quits or ctx
// is cancelled.
func Run(ctx context.Context, g *game.Game, next Factory) error {
	p := tea.NewProgram(New(ctx, g, next), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// RunPlain plays g as a line-oriented console session: each new message is
// printed on its own line and each input line is one SubmitGuess. It returns
// when the session finishes, r reaches EOF, or ctx is cancelled.
func RunPlain(ctx context.Context, r io.Reader, w io.Writer, g *game.Game) error {
	out := bufio.NewWriter(w)
	defer out.Flush()

	for _, m := range g.Messages() {
		writeLine(out, m)
	}

	sc := bufio.NewScanner(r)
	for g.Phase() != game.PhaseFinished {
		fmt.Fprint(out, "> ")
		if err := out.Flush(); err != nil {
			return err
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nbye. you got %d out of %d.\n", g.Solved(), g.Total())
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		_, appended := g.SubmitGuess(ctx, sc.Text())
		for _, m := range appended {
			if m.Type == game.TypeUser {
				continue // already on screen as typed
			}
			writeLine(out, m)
		}
	}
	return nil
}

func writeLine(w io.Writer, m game.Message) {
	switch {
	case m.Type == game.TypeUser:
		fmt.Fprintf(w, "> %s\n", m.Text)
	case m.Variant == game.VariantClue:
		fmt.Fprintf(w, "clue: %s\n", m.Text)
	case m.Variant == game.VariantDivider:
		fmt.Fprintf(w, "--- %s ---\n", m.Text)
	default:
		fmt.Fprintln(w, m.Text)
	}
}
