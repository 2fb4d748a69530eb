package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/tui/theme"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

const (
	nameWidth       = 16
	defaultBarWidth = 30
)

// BarChart draws one horizontal bar per chart row, scaled to the largest.
type BarChart struct {
	Rows     []domain.ChartRow
	BarWidth int
	styles   *theme.Styles
}

// NewBarChart creates a chart with the default bar width.
func NewBarChart(rows []domain.ChartRow) BarChart {
	return BarChart{Rows: rows, BarWidth: defaultBarWidth, styles: theme.Default()}
}

// View renders name, bar, hours and story points per row.
func (c BarChart) View() string {
	if len(c.Rows) == 0 {
		return c.styles.Muted.Render("Nessuna attività registrata")
	}

	max := 0.0
	for _, r := range c.Rows {
		if r.Hours > max {
			max = r.Hours
		}
	}

	lines := make([]string, 0, len(c.Rows))
	for _, r := range c.Rows {
		name := lipgloss.NewStyle().Width(nameWidth).Render(util.Truncate(r.Name, nameWidth-1))
		bar := c.styles.Bar.Render(util.Bar(r.Hours, max, c.BarWidth))
		pad := strings.Repeat(" ", c.BarWidth-lipgloss.Width(bar)+1)
		lines = append(lines, fmt.Sprintf("%s %s%s%5sh  %s SP", name, bar, pad, util.FormatHours(r.Hours), r.StoryPointsLabel()))
	}
	return strings.Join(lines, "\n")
}
