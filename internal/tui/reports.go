package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/manageros/internal/report"
	"github.com/sadopc/manageros/internal/store"
)

type reportMode int

const (
	reportSummary reportMode = iota
	reportChart
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode   reportMode
	rpt    report.Report
	scroll int

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	rpt report.Report
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return reportsDataMsg{rpt: buildReport(r.store)}
	}
}

// buildReport gathers everything the summary needs from the store. Shared
// with the export path so the file on disk matches the preview.
func buildReport(s *store.Store) report.Report {
	initiatives, _ := s.ListInitiatives(false)
	activities, _ := s.ListActivities("", false)
	logs, _ := s.LogsByActivity(activities)
	teams, _ := s.ListTeams(true)
	people, _ := s.ListPeople()
	return report.Build(time.Now(), initiatives, activities, logs, teams, people)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.rpt = msg.rpt
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if r.mode == reportSummary {
				r.mode = reportChart
			} else {
				r.mode = reportSummary
			}
			r.scroll = 0
			return r, nil
		case key.Matches(msg, keys.Up):
			if r.scroll > 0 {
				r.scroll--
			}
		case key.Matches(msg, keys.Down):
			r.scroll++
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, b := range r.rpt.Blocks {
		style := successStyle
		if b.Progress < 100 {
			style = lipgloss.NewStyle().Foreground(colorPrimary)
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(b.Title, 10),
			Values: []barchart.BarValue{{
				Name:  b.Title,
				Value: float64(b.Progress),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "none",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	summaryTab := inactiveTabStyle.Render("Summary")
	chartTab := inactiveTabStyle.Render("Progress")
	if r.mode == reportSummary {
		summaryTab = activeTabStyle.Render("Summary")
	} else {
		chartTab = activeTabStyle.Render("Progress")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", summaryTab, chartTab, "  ",
		mutedStyle.Render(r.rpt.GeneratedAt.Format("2006-01-02 15:04")),
	)

	var body string
	if r.mode == reportChart {
		body = r.chart.View()
	} else {
		body = r.renderSummary(w)
	}

	nav := mutedStyle.Render("  ←/→: switch  ↑/↓: scroll  x: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav),
	)
}

func (r reportsModel) renderSummary(w int) string {
	if len(r.rpt.Blocks) == 0 {
		return mutedStyle.Render("  Nothing to report yet.")
	}

	var lines []string
	for _, b := range r.rpt.Blocks {
		heading := titleStyle.Render(b.Title)
		meta := mutedStyle.Render(fmt.Sprintf("  %s / %s  %d%%", b.TeamName, b.OwnerName, b.Progress))
		lines = append(lines, heading+meta)

		if len(b.Rows) == 0 {
			lines = append(lines, mutedStyle.Render("    "+report.NoUpdatesLine))
			lines = append(lines, "")
			continue
		}
		for _, row := range b.Rows {
			sev := severityStyle(row.Severity)
			lines = append(lines, fmt.Sprintf("    %s %-28s %s",
				sev.Render("●"),
				truncate(row.ActivityTitle, 28),
				sev.Render(row.StatusLabel),
			))
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("      %s  due %s", row.Timestamp, row.EndDate)))
			lines = append(lines, "      "+truncate(row.Message, w-10))
		}
		lines = append(lines, "")
	}

	// Simple scroll window over the rendered lines.
	visible := max(5, r.height-10)
	start := min(r.scroll, max(0, len(lines)-visible))
	end := min(len(lines), start+visible)
	return strings.Join(lines[start:end], "\n")
}

func severityStyle(s report.Severity) lipgloss.Style {
	switch s {
	case report.SeverityGreen:
		return successStyle
	case report.SeverityRed:
		return errorStyle
	default:
		return warningStyle
	}
}
