// Package tui is the terminal editor for the sprint timesheet.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/tui/components"
	"github.com/emiliopalmerini/sprintsheet/internal/tui/theme"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

const cellWidth = 12

type mode int

const (
	modeGrid mode = iota
	modeAddProject
)

// Model edits the active week of a Store. Every edit goes through the Store,
// so it is persisted the same way as from the CLI or the web page.
type Model struct {
	ctx    context.Context
	store  *timesheet.Store
	snap   timesheet.Snapshot
	row    int // time slot index
	col    int // day index
	mode   mode
	input  textinput.Model
	status string
	err    error
	styles *theme.Styles
	help   components.HelpBar
	width  int
}

// New creates a model over an initialised store.
func New(ctx context.Context, store *timesheet.Store) Model {
	input := textinput.New()
	input.Placeholder = "Aggiungi nuovo progetto"
	input.CharLimit = 64

	return Model{
		ctx:    ctx,
		store:  store,
		snap:   store.Snapshot(),
		input:  input,
		styles: theme.Default(),
		help: components.NewHelpBar(
			components.KeyBinding{Key: "tab", Desc: "settimana"},
			components.KeyBinding{Key: "←↑↓→", Desc: "cella"},
			components.KeyBinding{Key: "enter", Desc: "progetto successivo"},
			components.KeyBinding{Key: "x", Desc: "svuota"},
			components.KeyBinding{Key: "a", Desc: "aggiungi progetto"},
			components.KeyBinding{Key: "d", Desc: "rimuovi progetto"},
			components.KeyBinding{Key: "q", Desc: "esci"},
		),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAddProject {
			return m.updateAddProject(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.err = "", nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		next := domain.Week2
		if m.snap.ActiveWeek == domain.Week2 {
			next = domain.Week1
		}
		m.err = m.store.SetActiveWeek(next)
	case "up", "k":
		m.row = (m.row - 1 + len(domain.TimeSlots)) % len(domain.TimeSlots)
	case "down", "j":
		m.row = (m.row + 1) % len(domain.TimeSlots)
	case "left", "h":
		m.col = (m.col - 1 + len(domain.Days)) % len(domain.Days)
	case "right", "l":
		m.col = (m.col + 1) % len(domain.Days)
	case "enter", " ":
		m.setCell(m.nextValue())
	case "x", "backspace", "delete":
		m.setCell("")
	case "a":
		m.mode = modeAddProject
		m.input.SetValue("")
		return m, m.input.Focus()
	case "d":
		m.removeProjectUnderCursor()
	}

	m.snap = m.store.Snapshot()
	return m, nil
}

func (m Model) updateAddProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	case "enter":
		name := m.input.Value()
		before := len(m.snap.Projects)
		m.store.AddProject(m.ctx, name)
		m.snap = m.store.Snapshot()
		if len(m.snap.Projects) > before {
			m.status = fmt.Sprintf("Progetto %q aggiunto", name)
		}
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) cursorCell() (string, string) {
	return domain.Days[m.col], domain.TimeSlots[m.row]
}

func (m *Model) currentValue() string {
	day, slot := m.cursorCell()
	return m.snap.Assignments.Get(m.snap.ActiveWeek, day, slot)
}

// nextValue cycles "" -> projects... -> "". A value outside the project
// list restarts the cycle from "".
func (m *Model) nextValue() string {
	options := append([]string{""}, m.snap.Projects...)
	current := m.currentValue()
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func (m *Model) setCell(value string) {
	day, slot := m.cursorCell()
	if _, err := m.store.SetActivity(m.ctx, m.snap.ActiveWeek, day, slot, value); err != nil {
		m.err = err
	}
}

func (m *Model) removeProjectUnderCursor() {
	name := m.currentValue()
	if !domain.ContainsProject(m.snap.Projects, name) {
		m.status = "Nessun progetto nella cella selezionata"
		return
	}
	m.store.RemoveProject(m.ctx, name)
	m.status = fmt.Sprintf("Progetto %q rimosso", name)
}

// View implements tea.Model
func (m Model) View() string {
	sections := []string{
		m.styles.Title.Render("Gestione Timesheet Sprint"),
		m.viewProjects(),
		"",
		m.viewTabs(),
		m.viewGrid(),
		"",
		m.viewSummary(),
	}

	switch {
	case m.mode == modeAddProject:
		sections = append(sections, "", m.input.View())
	case m.err != nil:
		sections = append(sections, "", m.styles.Error.Render(fmt.Sprintf("Errore: %v", m.err)))
	case m.status != "":
		sections = append(sections, "", m.styles.Success.Render(m.status))
	}

	sections = append(sections, m.styles.Help.Render(m.help.View()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewProjects() string {
	if len(m.snap.Projects) == 0 {
		return m.styles.Muted.Render("Progetti: nessuno (premi a per aggiungerne uno)")
	}
	return m.styles.Subtitle.Render("Progetti: ") + strings.Join(m.snap.Projects, ", ")
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.Weeks))
	for _, w := range domain.Weeks {
		style := m.styles.TabInactive
		if w == m.snap.ActiveWeek {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(w.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewGrid() string {
	pad := lipgloss.NewStyle().Width(cellWidth)

	header := []string{m.styles.Header.Render(pad.Render("Ore"))}
	for _, d := range domain.Days {
		header = append(header, m.styles.Header.Render(pad.Render(d)))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for r, slot := range domain.TimeSlots {
		cells := []string{m.styles.Muted.Render(pad.Render(slot))}
		for c, day := range domain.Days {
			value := m.snap.Assignments.Get(m.snap.ActiveWeek, day, slot)
			text, style := value, m.styles.Cell
			switch {
			case value == "":
				text, style = "-", m.styles.CellEmpty
			case !domain.ContainsProject(m.snap.Projects, value):
				style = m.styles.CellOrphan
			}
			if r == m.row && c == m.col {
				style = m.styles.Cursor
			}
			cells = append(cells, style.Render(pad.Render(util.Truncate(text, cellWidth-1))))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewSummary() string {
	chart := components.NewBarChart(m.snap.ChartRows).View()
	totals := fmt.Sprintf("Ore Totali: %s   Story Points Totali: %s",
		util.FormatHours(m.snap.TotalHours), domain.FormatOneDecimal(m.snap.TotalStoryPoints))

	return m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Subtitle.Render("Riepilogo Sprint"),
		chart,
		"",
		m.styles.Bold.Render(totals),
	))
}

// Run starts the editor on the terminal and blocks until the user quits.
func Run(ctx context.Context, store *timesheet.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
