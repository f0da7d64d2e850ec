// internal/chat/model.go
//
// Terminal chat host for a game session (bubbletea).
// Responsibilities:
//   - Render the transcript as chat bubbles in a scrolling viewport.
//   - Turn the text input into SubmitGuess calls; tab sends the hint token.
//   - Offer "play again" once the session is finished.
//
// Keys:
//   enter   guess / play again        tab   hint
//   ?       toggle rules              esc   close rules, else quit
//   ctrl+c  quit                      q     quit (finished only)

package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/onebit/internal/game"
)

const (
	headerHeight = 2 // title line + blank line
	footerHeight = 4 // bordered input (3) + help line
)

// Factory builds a fresh session for "play again".
type Factory func(ctx context.Context) (*game.Game, error)

// newGameMsg carries the result of Factory back into Update.
type newGameMsg struct {
	game *game.Game
	err  error
}

// Model is the bubbletea model of one terminal chat.
type Model struct {
	ctx  context.Context
	game *game.Game
	next Factory

	input    textinput.Model
	viewport viewport.Model
	styles   styles

	ready     bool
	width     int
	height    int
	showRules bool
	rules     string
	err       error
}

// New returns a Model hosting g. next builds the session started by
// "play again"; nil disables it.
func New(ctx context.Context, g *game.Game, next Factory) Model {
	in := textinput.New()
	in.Placeholder = "your guess"
	in.Prompt = "› "
	in.CharLimit = 64
	in.Focus()

	return Model{
		ctx:    ctx,
		game:   g,
		next:   next,
		input:  in,
		styles: defaultStyles(),
	}
}

// Game returns the hosted session.
func (m Model) Game() *game.Game { return m.game }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case newGameMsg:
		if msg.err != nil {
			m.err = msg.err
			log.Error().Err(msg.err).Msg("new session")
			return m, nil
		}
		m.game = msg.game
		m.err = nil
		m.input.Reset()
		m.refresh()
		return m, m.input.Focus()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	finished := m.game.Phase() == game.PhaseFinished

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.showRules {
			m.showRules = false
			m.refresh()
			return m, nil
		}
		return m, tea.Quit

	case "?":
		m.showRules = !m.showRules
		if m.showRules && m.rules == "" {
			m.rules = renderRules(m.width)
		}
		m.refresh()
		if m.showRules {
			m.viewport.GotoTop()
		}
		return m, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "q":
		if finished {
			return m, tea.Quit
		}

	case "tab":
		if !finished {
			m.apply(game.HintToken)
		}
		return m, nil

	case "enter":
		if finished {
			return m, m.playAgain()
		}
		m.apply(m.input.Value())
		m.input.Reset()
		return m, nil
	}

	if finished {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply submits one line of input and scrolls to the newest message.
func (m *Model) apply(text string) {
	outcome, appended := m.game.SubmitGuess(m.ctx, text)
	if outcome == game.OutcomeIgnored {
		return
	}
	log.Debug().Str("outcome", string(outcome)).Int("messages", len(appended)).Msg("input applied")
	if outcome == game.OutcomeFinished {
		m.input.Blur()
	}
	m.showRules = false
	m.refresh()
}

func (m Model) playAgain() tea.Cmd {
	if m.next == nil {
		return tea.Quit
	}
	ctx, next := m.ctx, m.next
	return func() tea.Msg {
		g, err := next(ctx)
		return newGameMsg{game: g, err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vh := height - headerHeight - footerHeight
	if vh < 1 {
		vh = 1
	}
	vw := width
	if vw < 1 {
		vw = 1
	}
	if !m.ready {
		m.viewport = viewport.New(vw, vh)
		m.ready = true
	} else {
		m.viewport.Width = vw
		m.viewport.Height = vh
	}
	m.input.Width = max(vw-8, 1)
	if m.rules != "" {
		m.rules = renderRules(width)
	}
	m.refresh()
}

// refresh re-renders the viewport content.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	if m.showRules {
		m.viewport.SetContent(m.rules)
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) score() string {
	return fmt.Sprintf("%d of %d solved", m.game.Solved(), m.game.Total())
}
