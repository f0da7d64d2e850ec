package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/onebit/internal/game"
)

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	title := m.styles.Title.Render("one bit")
	score := m.styles.Score.Render(m.score())
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(score)
	header := title + strings.Repeat(" ", max(gap, 1)) + score

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		m.footer(),
	)
}

func (m Model) footer() string {
	var box, help string
	switch {
	case m.game.Phase() == game.PhaseFinished:
		box = m.styles.Input.Render("play again? enter = yes, q = quit")
		help = "enter play again • q quit"
	default:
		box = m.styles.Input.Render(m.input.View())
		help = "enter guess • tab hint • ? rules • esc quit"
	}
	if m.err != nil {
		help = m.styles.Error.Render(m.err.Error())
	} else {
		help = m.styles.Help.Render(help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, help)
}

// renderTranscript renders every message as a bubble: user messages on the
// right, system messages on the left, dividers centered.
func (m Model) renderTranscript() string {
	width := m.viewport.Width
	maxBubble := max(width*3/4, 10)

	var sb strings.Builder
	for _, msg := range m.game.Messages() {
		sb.WriteString(m.renderMessage(msg, width, maxBubble))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderMessage(msg game.Message, width, maxBubble int) string {
	if msg.Variant == game.VariantDivider {
		line := m.styles.Divider.Render("── " + msg.Text + " ──")
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}

	style := m.bubbleStyle(msg)
	text := msg.Text
	if lipgloss.Width(text)+4 > maxBubble {
		style = style.Width(maxBubble - 2)
	}
	bubble := style.Render(text)

	if msg.Type == game.TypeUser {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	return bubble
}

func (m Model) bubbleStyle(msg game.Message) lipgloss.Style {
	if msg.Type == game.TypeUser {
		return m.styles.User
	}
	switch msg.Variant {
	case game.VariantClue:
		return m.styles.Clue
	case game.VariantCorrect:
		return m.styles.Correct
	case game.VariantWrong:
		return m.styles.Wrong
	case game.VariantFinish:
		return m.styles.Finish
	default:
		return m.styles.System
	}
}
