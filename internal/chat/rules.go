package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

const rulesMarkdown = `# one bit

Every secret is a word with **one bit**: one beat when you say it.

- A clue shows up at the start of each puzzle.
- Type a guess and press **enter**.
- Press **tab** (or type ` + "`hint`" + `) for one more clue.
- Solved words are kept, so the next game skips them.

| key | action |
|-----|--------|
| enter | guess, or play again when done |
| tab | hint |
| ? | show or hide these rules |
| esc | close rules, or quit |
| q | quit when done |
`

// renderRules renders the rules for the given width. Rendering failures fall
// back to the raw markdown.
func renderRules(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		log.Debug().Err(err).Msg("rules renderer")
		return rulesMarkdown
	}
	out, err := r.Render(rulesMarkdown)
	if err != nil {
		log.Debug().Err(err).Msg("render rules")
		return rulesMarkdown
	}
	return strings.TrimRight(out, "\n")
}
