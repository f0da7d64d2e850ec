// internal/game/engine.go
//
// Core state machine for a single one-bit session.
// Responsibilities:
//   - Pick the session's puzzles: skip solved ones, shuffle, apply the limit.
//   - Reveal clues in a per-puzzle shuffled order, one per hint request.
//   - Evaluate guesses and advance through the puzzles.
//   - Record solved secrets through the injected Progress capability.
//
// State transitions:
//   guessing → finished, exactly once, when the last session puzzle is solved.
//
// Notes:
//   - The engine is synchronous and not safe for concurrent use; hosts that
//     share a Game between goroutines must serialize access.
//   - Message ids come from a per-game counter starting at 1.

package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"
)

// HintToken is the reserved input that requests the next clue instead of
// being evaluated as a guess.
const HintToken = "hint"

const (
	introText   = "guess the word. it has just one bit, like it is just one beat when you say it. i will give clues."
	correctText = "yes!"
	wrongText   = "nope."
	noHintsText = "no more hints. think hard!"
)

// Progress is the persisted solved-set capability used by the engine.
// Implementations treat absent or unreadable data as an empty set.
type Progress interface {
	Load(ctx context.Context) (mapset.Set[string], error)
	// Add records one solved secret and returns the stored set, which may
	// include solves recorded by other sessions.
	Add(ctx context.Context, secret string) (mapset.Set[string], error)
	Clear(ctx context.Context) error
}

// Options tune how a session is built.
type Options struct {
	// Limit caps the number of session puzzles. Values outside 1..len(set)
	// select the full pool.
	Limit int
	// Reset clears persisted progress before the session is built.
	Reset bool
	// Progress persists solved secrets. Nil keeps progress in memory only.
	Progress Progress
	// Rand drives every shuffle. Nil uses a time-seeded source.
	Rand *rand.Rand
	// Dividers appends a "puzzle i of k" divider before each new puzzle.
	Dividers bool
}

// Game holds the state of one session.
type Game struct {
	ID string

	all         []Puzzle // full set, used for the finish tally
	puzzles     []Puzzle // this session's shuffled subset
	puzzleIndex int
	clues       []string // current puzzle's clues, shuffled
	clueIndex   int
	solved      mapset.Set[string]
	phase       Phase
	messages    []Message
	nextID      int

	rng      *rand.Rand
	progress Progress
	dividers bool
}

// New builds a session over set. The intro message and the first clue are
// already in the transcript when New returns.
func New(ctx context.Context, set []Puzzle, opts Options) (*Game, error) {
	if len(set) == 0 {
		return nil, ErrNoPuzzles
	}
	all := make([]Puzzle, 0, len(set))
	for i, p := range set {
		secret := normalize(p.Secret)
		if secret == "" || len(p.Clues) == 0 {
			return nil, fmt.Errorf("%w: puzzle %d", ErrInvalidPuzzle, i)
		}
		all = append(all, Puzzle{Secret: secret, Clues: p.Clues})
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		ID:       uuid.NewString(),
		all:      all,
		phase:    PhaseGuessing,
		nextID:   1,
		rng:      rng,
		progress: opts.Progress,
		dividers: opts.Dividers,
	}
	g.solved = g.loadSolved(ctx, opts.Reset)

	pool := make([]Puzzle, 0, len(all))
	for _, p := range all {
		if !g.solved.Has(p.Secret) {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		pool = all
	}

	limit := opts.Limit
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	g.puzzles = shuffled(g.rng, pool)
	if limit < len(g.puzzles) {
		g.puzzles = g.puzzles[:limit]
	}

	g.clues = shuffled(g.rng, g.puzzles[0].Clues)
	g.push(TypeSystem, introText, VariantNone)
	g.push(TypeSystem, g.clues[0], VariantClue)
	return g, nil
}

// loadSolved reads persisted progress. Failures degrade to an empty set.
func (g *Game) loadSolved(ctx context.Context, reset bool) mapset.Set[string] {
	if g.progress == nil {
		return mapset.New[string]()
	}
	if reset {
		if err := g.progress.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("clear progress")
		}
	}
	solved, err := g.progress.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load progress")
		return mapset.New[string]()
	}
	return solved
}

// SubmitGuess applies one line of player input and returns what happened
// together with the messages it appended.
//
// Input is trimmed and lowercased. Empty input and input after the game has
// finished are ignored. The reserved HintToken requests a hint instead.
func (g *Game) SubmitGuess(ctx context.Context, raw string) (Outcome, []Message) {
	if g.phase == PhaseFinished {
		return OutcomeIgnored, nil
	}
	text := normalize(raw)
	if text == "" {
		return OutcomeIgnored, nil
	}
	if text == HintToken {
		return g.RequestHint()
	}

	start := len(g.messages)
	g.push(TypeUser, text, VariantNone)

	secret := g.puzzles[g.puzzleIndex].Secret
	if text != secret {
		g.push(TypeSystem, wrongText, VariantWrong)
		return OutcomeWrong, g.since(start)
	}

	g.solved.Put(secret)
	g.recordSolved(ctx, secret)
	g.push(TypeSystem, correctText, VariantCorrect)

	next := g.puzzleIndex + 1
	if next >= len(g.puzzles) {
		g.push(TypeSystem, fmt.Sprintf("done! you got %d out of %d.", g.solved.Size(), len(g.all)), VariantFinish)
		g.phase = PhaseFinished
		return OutcomeFinished, g.since(start)
	}

	g.puzzleIndex = next
	g.clues = shuffled(g.rng, g.puzzles[next].Clues)
	g.clueIndex = 0
	if g.dividers {
		g.push(TypeSystem, fmt.Sprintf("puzzle %d of %d", next+1, len(g.puzzles)), VariantDivider)
	}
	g.push(TypeSystem, g.clues[0], VariantClue)
	return OutcomeCorrect, g.since(start)
}

// RequestHint reveals the next clue of the current puzzle, or appends a
// "no more hints" notice when every clue is already out.
func (g *Game) RequestHint() (Outcome, []Message) {
	if g.phase == PhaseFinished {
		return OutcomeIgnored, nil
	}
	start := len(g.messages)
	if g.clueIndex < len(g.clues)-1 {
		g.clueIndex++
		g.push(TypeSystem, g.clues[g.clueIndex], VariantClue)
		return OutcomeHint, g.since(start)
	}
	g.push(TypeSystem, noHintsText, VariantNone)
	return OutcomeNoMoreHints, g.since(start)
}

// recordSolved persists one solve and adopts the stored set, so the tally
// also counts puzzles solved elsewhere since the session started.
func (g *Game) recordSolved(ctx context.Context, secret string) {
	if g.progress == nil {
		return
	}
	stored, err := g.progress.Add(ctx, secret)
	if err != nil {
		log.Warn().Err(err).Str("game", g.ID).Msg("save progress")
		return
	}
	stored.Put(secret)
	g.solved = stored
}

func (g *Game) push(typ MessageType, text string, variant Variant) {
	g.messages = append(g.messages, Message{ID: g.nextID, Type: typ, Text: text, Variant: variant})
	g.nextID++
}

// since copies the messages appended after index start.
func (g *Game) since(start int) []Message {
	out := make([]Message, len(g.messages)-start)
	copy(out, g.messages[start:])
	return out
}

// Phase reports the current phase.
func (g *Game) Phase() Phase { return g.phase }

// PuzzleIndex is the position of the current puzzle in the session.
func (g *Game) PuzzleIndex() int { return g.puzzleIndex }

// ClueIndex is the position of the last revealed clue of the current puzzle.
func (g *Game) ClueIndex() int { return g.clueIndex }

// Solved is the number of solved secrets, including earlier sessions.
func (g *Game) Solved() int { return g.solved.Size() }

// Total is the size of the full puzzle set.
func (g *Game) Total() int { return len(g.all) }

// Messages returns a copy of the transcript.
func (g *Game) Messages() []Message { return g.since(0) }

// Snapshot captures the state needed to render the session.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:          g.ID,
		Phase:       g.phase,
		Messages:    g.Messages(),
		Solved:      g.solved.Size(),
		Total:       len(g.all),
		PuzzleIndex: g.puzzleIndex,
		ClueIndex:   g.clueIndex,
		Session:     len(g.puzzles),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
