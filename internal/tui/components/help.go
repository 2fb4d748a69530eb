package components

import (
	"strings"

	"github.com/emiliopalmerini/sprintsheet/internal/tui/theme"
)

// KeyBinding is one key hint in the footer of the grid editor.
type KeyBinding struct {
	Key  string
	Desc string
}

// HelpBar lists the keys the grid and project views accept.
type HelpBar struct {
	Bindings []KeyBinding
	styles   *theme.Styles
}

func NewHelpBar(bindings ...KeyBinding) HelpBar {
	return HelpBar{
		Bindings: bindings,
		styles:   theme.Default(),
	}
}

// View renders the hints on one line, separated by spaces.
func (h HelpBar) View() string {
	var parts []string
	for _, kb := range h.Bindings {
		parts = append(parts,
			h.styles.HelpKey.Render(kb.Key)+
				h.styles.Muted.Render(":"+kb.Desc))
	}
	return strings.Join(parts, " ")
}
