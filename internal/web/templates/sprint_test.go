package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, p Page, partial bool) string {
	t.Helper()
	var buf bytes.Buffer
	c := SprintPage(p)
	if partial {
		c = Sheet(p)
	}
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func samplePage() Page {
	return Page{
		Projects:   []string{"Alpha", "<b>Beta</b>"},
		ActiveWeek: "week1",
		Weeks:      []WeekTab{{ID: "week1", Label: "Settimana 1", Active: true}, {ID: "week2", Label: "Settimana 2"}},
		Days:       []string{"Lunedì"},
		Rows: []GridRow{{
			Slot: "09:00-10:00",
			Cells: []Cell{
				{Day: "Lunedì", Slot: "09:00-10:00", Value: "Alpha"},
			},
		}},
		Summary: SummaryView{
			Rows:       []SummaryRow{{Name: "Alpha", Hours: 1, StoryPoints: "0.1"}},
			TotalHours: 1, TotalStoryPoints: 0.1, MaxHours: 1,
		},
	}
}

func TestSprintPage_FullDocument(t *testing.T) {
	html := render(t, samplePage(), false)

	for _, want := range []string{
		"<!doctype html>",
		`<link rel="stylesheet" href="/static/sprint.css">`,
		"Gestione Timesheet Sprint",
		"Settimana 1",
		"Riepilogo Sprint",
		"Ore Totali:",
		`<option value="Alpha" selected>Alpha</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestSheet_IsPartial(t *testing.T) {
	html := render(t, samplePage(), true)

	if strings.Contains(html, "<html") {
		t.Error("partial must not contain the document shell")
	}
	if !strings.HasPrefix(html, `<div id="sheet">`) {
		t.Errorf("expected sheet wrapper, got %.40s", html)
	}
}

func TestSheet_EscapesUserInput(t *testing.T) {
	html := render(t, samplePage(), true)

	if strings.Contains(html, "<b>Beta</b>") {
		t.Error("project names must be escaped")
	}
	if !strings.Contains(html, "&lt;b&gt;Beta&lt;/b&gt;") {
		t.Error("expected escaped project name")
	}
}

func TestSheet_SummaryHiddenWhenEmpty(t *testing.T) {
	p := samplePage()
	p.Summary = SummaryView{}

	if strings.Contains(render(t, p, true), "Riepilogo Sprint") {
		t.Error("summary must be hidden without rows")
	}
}

func TestGrid_OrphanValueIsSelectable(t *testing.T) {
	p := samplePage()
	p.Rows[0].Cells[0] = Cell{Day: "Lunedì", Slot: "09:00-10:00", Value: "Alpha/Gamma", Orphan: true}

	html := render(t, p, true)

	if !strings.Contains(html, `<option value="Alpha/Gamma" selected>Alpha/Gamma</option>`) {
		t.Error("expected the stored value to stay selected")
	}
	if !strings.Contains(html, `class="orphan"`) {
		t.Error("expected orphan marker")
	}
}

func TestWeekTabs_MarksActiveWeek(t *testing.T) {
	html := render(t, samplePage(), true)

	if !strings.Contains(html, `<button type="submit" name="week" value="week1" class="active">Settimana 1</button>`) {
		t.Error("expected the first week to be active")
	}
	if !strings.Contains(html, `<button type="submit" name="week" value="week2">Settimana 2</button>`) {
		t.Error("expected the second week to be a plain tab")
	}
}

func TestSummary_BarsAndTotals(t *testing.T) {
	p := samplePage()
	p.Summary = SummaryView{
		Rows: []SummaryRow{
			{Name: "Alpha", Hours: 4, StoryPoints: "0.5"},
			{Name: "Beta", Hours: 2, StoryPoints: "0.3"},
		},
		TotalHours: 6, TotalStoryPoints: 0.8, MaxHours: 4,
	}

	html := render(t, p, true)

	for _, want := range []string{
		`<meter min="0" max="4.0" value="4.0"></meter>`,
		`<meter min="0" max="4.0" value="2.0"></meter>`,
		`<span>Story Points:</span><span>0.3</span>`,
		`<span>Ore Totali:</span><span>6.0</span>`,
		`<span>Story Points Totali:</span><span>0.8</span>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
}

func TestArchives_ListsRecentSprints(t *testing.T) {
	p := samplePage()
	p.Archives = []ArchiveItem{{ID: "a1", Label: "Sprint <42>", TotalHours: 16, TotalStoryPoints: 2}}

	html := render(t, p, true)

	if !strings.Contains(html, `<td title="a1">Sprint &lt;42&gt;</td>`) {
		t.Error("expected the escaped archive label")
	}
	if !strings.Contains(html, "<td>16.0</td><td>2.0</td>") {
		t.Error("expected archive totals")
	}
}

func TestSheet_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := Sheet(samplePage()).Render(ctx, &buf); err == nil {
		t.Error("expected the cancelled context error")
	}
}
