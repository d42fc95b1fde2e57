package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/manageros/internal/metrics"
	"github.com/sadopc/manageros/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	initiatives []store.Initiative
	activities  []store.Activity
	teams       []store.Team
	people      []store.Person
	windowDays  int

	teamFilter   string // "all" or team id
	ownerFilter  string // "all" or person id; empty until the default owner setting is read
	sortMode     metrics.ActivitySortMode
	showArchived bool
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{
		store:      s,
		teamFilter: "all",
		windowDays: metrics.DefaultDueSoonDays,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	initiatives []store.Initiative
	activities  []store.Activity
	teams       []store.Team
	people      []store.Person
	windowDays  int
	ownerFilter string
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		initiatives, _ := d.store.ListInitiatives(true)
		activities, _ := d.store.ListActivities("", false)
		teams, _ := d.store.ListTeams(true)
		people, _ := d.store.ListPeople()

		owner := d.ownerFilter
		if owner == "" {
			owner = d.store.GetSettingOr(store.SettingDefaultOwner, "all")
		}

		return dashboardDataMsg{
			initiatives: initiatives,
			activities:  activities,
			teams:       teams,
			people:      people,
			windowDays:  d.store.GetSettingInt(store.SettingDueSoonDays, metrics.DefaultDueSoonDays),
			ownerFilter: owner,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.initiatives = msg.initiatives
		d.activities = msg.activities
		d.teams = msg.teams
		d.people = msg.people
		d.windowDays = msg.windowDays
		d.ownerFilter = msg.ownerFilter
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Filter):
			d.teamFilter = d.nextTeamFilter()
			return d, nil
		case key.Matches(msg, keys.Owner):
			d.ownerFilter = d.nextOwnerFilter()
			return d, nil
		case key.Matches(msg, keys.Sort):
			d.sortMode = (d.sortMode + 1) % 3
			return d, nil
		case key.Matches(msg, keys.Archive):
			d.showArchived = !d.showArchived
			return d, nil
		}
	}
	return d, nil
}

func (d dashboardModel) nextTeamFilter() string {
	if d.teamFilter == "all" && len(d.teams) > 0 {
		return d.teams[0].ID
	}
	for i, t := range d.teams {
		if t.ID == d.teamFilter {
			if i+1 < len(d.teams) {
				return d.teams[i+1].ID
			}
			return "all"
		}
	}
	return "all"
}

func (d dashboardModel) nextOwnerFilter() string {
	if d.ownerFilter == "all" && len(d.people) > 0 {
		return d.people[0].ID
	}
	for i, p := range d.people {
		if p.ID == d.ownerFilter {
			if i+1 < len(d.people) {
				return d.people[i+1].ID
			}
			return "all"
		}
	}
	return "all"
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	now := time.Now()

	kpiPanel := d.renderKPIPanel(contentWidth, now)
	watchPanel := d.renderWatchlistPanel(contentWidth, now)
	actionsPanel := d.renderNextActionsPanel(contentWidth, now)

	return lipgloss.JoinVertical(lipgloss.Left, kpiPanel, watchPanel, actionsPanel)
}

func (d dashboardModel) renderKPIPanel(w int, now time.Time) string {
	k := metrics.ComputeKPIs(d.initiatives, now, d.windowDays)

	card := func(label string, value int, style lipgloss.Style) string {
		num := style.Bold(true).Render(fmt.Sprintf("%4d", value))
		return fmt.Sprintf("%s %s", num, mutedStyle.Render(label))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("active", k.Active, highlightStyle), "   ",
		card("blocked", k.Blocked, errorStyle), "   ",
		card("overdue", k.Overdue, errorStyle), "   ",
		card(fmt.Sprintf("due in %dd", d.windowDays), k.DueSoon, warningStyle),
	)

	return panelStyle.Width(w).Render(cards)
}

func (d dashboardModel) renderWatchlistPanel(w int, now time.Time) string {
	title := titleStyle.Render("Watchlist")
	filterLabel := "all teams"
	for _, t := range d.teams {
		if t.ID == d.teamFilter {
			filterLabel = t.Name
		}
	}
	header := fmt.Sprintf("%s  %s", title, mutedStyle.Render("("+filterLabel+")"))

	items := metrics.FilterWatchlist(d.initiatives, d.teamFilter, d.showArchived)
	metrics.SortWatchlist(items)

	if len(items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("Nothing to watch. Press 2 to create an initiative."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	for _, init := range items[:min(len(items), 8)] {
		prio := priorityStyle(string(init.Priority)).Render(string(init.Priority))
		status := statusStyle(string(init.Status)).Render(init.Status.Label())

		flags := ""
		if metrics.IsOverdue(init.EndDate, init.Status, now) {
			flags += errorStyle.Render(" !overdue")
		} else if metrics.IsDueSoon(init.EndDate, init.Status, now, d.windowDays) {
			flags += warningStyle.Render(" !due soon")
		}
		if init.Archived {
			flags += mutedStyle.Render(" [archived]")
		}

		progress := metrics.Progress(init.ID, d.activities)
		row := fmt.Sprintf("  %s %-32s %-12s %s %s%s",
			prio,
			truncate(init.Title, 32),
			status,
			progressBar(progress, 10),
			mutedStyle.Render(dateOrDash(init.EndDate)),
			flags,
		)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  f: team filter  a: archived  o: owner  s: sort"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderNextActionsPanel(w int, now time.Time) string {
	title := titleStyle.Render("Next Actions")
	ownerLabel := "everyone"
	for _, p := range d.people {
		if p.ID == d.ownerFilter {
			ownerLabel = p.Name
		}
	}
	sortLabels := []string{"priority", "start date", "end date"}
	header := fmt.Sprintf("%s  %s", title,
		mutedStyle.Render(fmt.Sprintf("(%s, by %s)", ownerLabel, sortLabels[d.sortMode])))

	actions := metrics.FilterNextActions(d.activities, d.ownerFilter)
	metrics.SortActivities(actions, d.sortMode)

	if len(actions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No open activities."),
		)
		return panelStyle.Width(w).Render(content)
	}

	initTitles := make(map[string]string, len(d.initiatives))
	for _, i := range d.initiatives {
		initTitles[i.ID] = i.Title
	}

	var rows []string
	rows = append(rows, header)
	for _, a := range actions[:min(len(actions), 8)] {
		prio := priorityStyle(string(a.Priority)).Render(string(a.Priority))
		status := statusStyle(string(a.Status)).Render(a.Status.Label())
		due := mutedStyle.Render(dateOrDash(a.EndDate))
		parent := mutedStyle.Render(truncate(initTitles[a.InitiativeID], 20))
		row := fmt.Sprintf("  %s %-32s %-12s %s  %s", prio, truncate(a.Title, 32), status, due, parent)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
