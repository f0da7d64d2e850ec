// internal/game/types.go
//
// Core type definitions for the one-bit game engine.
// Defines:
//   - Puzzle: a secret word and its clues.
//   - Message: one entry of the append-only chat transcript.
//   - Phase / Outcome: coarse session state and the result of one input.
//   - Snapshot: the read-only view consumed by the chat, console and HTTP hosts.

package game

import (
	"encoding/json"
	"errors"
)

var (
	// ErrNoPuzzles is returned by New when the puzzle set is empty.
	ErrNoPuzzles = errors.New("game: no puzzles")
	// ErrInvalidPuzzle is returned by New when a puzzle has no secret or no clues.
	ErrInvalidPuzzle = errors.New("game: invalid puzzle")
)

// Puzzle is one secret word and the clues that describe it.
// Secrets are compared in lowercase; clues are revealed in shuffled order.
type Puzzle struct {
	Secret string   `json:"secret"`
	Clues  []string `json:"clues"`
}

// MessageType tells who authored a transcript entry.
type MessageType string

const (
	TypeUser   MessageType = "user"
	TypeSystem MessageType = "system"
)

// Variant selects the visual treatment of a system message.
// The zero value is a plain message and encodes as JSON null.
type Variant string

const (
	VariantNone    Variant = ""
	VariantClue    Variant = "clue"
	VariantCorrect Variant = "correct"
	VariantWrong   Variant = "wrong"
	VariantFinish  Variant = "finish"
	VariantDivider Variant = "divider"
)

// MarshalJSON encodes VariantNone as null.
func (v Variant) MarshalJSON() ([]byte, error) {
	if v == VariantNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

// UnmarshalJSON accepts null as VariantNone.
func (v *Variant) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = VariantNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = Variant(s)
	return nil
}

// Message is one entry of the chat transcript. Messages are never mutated
// after they are appended.
type Message struct {
	ID      int         `json:"id"`
	Type    MessageType `json:"type"`
	Text    string      `json:"text"`
	Variant Variant     `json:"variant"`
}

// Phase is the coarse state of a session. PhaseFinished is terminal.
type Phase string

const (
	PhaseGuessing Phase = "guessing"
	PhaseFinished Phase = "finished"
)

// Outcome reports what a single SubmitGuess or RequestHint call did.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored" // empty input or game already finished
	OutcomeHint        Outcome = "hint"    // a new clue was revealed
	OutcomeNoMoreHints Outcome = "no_more_hints"
	OutcomeWrong       Outcome = "wrong"
	OutcomeCorrect     Outcome = "correct"  // solved, next puzzle is up
	OutcomeFinished    Outcome = "finished" // solved the last puzzle
)

// Snapshot is a consistent copy of the state a view layer renders.
type Snapshot struct {
	ID          string    `json:"id"`
	Phase       Phase     `json:"phase"`
	Messages    []Message `json:"messages"`
	Solved      int       `json:"solved"` // size of the solved set, across sessions
	Total       int       `json:"total"`  // size of the full puzzle set
	PuzzleIndex int       `json:"puzzleIndex"`
	ClueIndex   int       `json:"clueIndex"`
	Session     int       `json:"sessionPuzzles"` // puzzles in this session
}
