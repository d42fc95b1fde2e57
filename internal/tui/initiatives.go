package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/manageros/internal/store"
)

type initiativesModel struct {
	store  *store.Store
	width  int
	height int

	initiatives  []store.Initiative
	teams        []store.Team
	people       []store.Person
	platforms    []store.Platform
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	confirming bool // archive confirmation

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formTeam        *string
	formOwner       *string
	formPlatform    *string
	formPriority    *string
	formStatus      *string
	formStart       *string
	formEnd         *string
	formTags        *string

	editingID string
}

func newInitiativesModel(s *store.Store) initiativesModel {
	title, desc, team, owner := "", "", "", ""
	platform, prio, status := "", "", ""
	start, end, tags := "", "", ""
	return initiativesModel{
		store:           s,
		formTitle:       &title,
		formDescription: &desc,
		formTeam:        &team,
		formOwner:       &owner,
		formPlatform:    &platform,
		formPriority:    &prio,
		formStatus:      &status,
		formStart:       &start,
		formEnd:         &end,
		formTags:        &tags,
	}
}

func (m *initiativesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type initiativesDataMsg struct {
	initiatives []store.Initiative
	teams       []store.Team
	people      []store.Person
	platforms   []store.Platform
}

func (m initiativesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		initiatives, _ := m.store.ListInitiatives(m.showArchived)
		teams, _ := m.store.ListTeams(true)
		people, _ := m.store.ListPeople()
		platforms, _ := m.store.ListPlatforms()
		return initiativesDataMsg{
			initiatives: initiatives,
			teams:       teams,
			people:      people,
			platforms:   platforms,
		}
	}
}

func (m initiativesModel) update(msg tea.Msg) (initiativesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case initiativesDataMsg:
		m.initiatives = msg.initiatives
		m.teams = msg.teams
		m.people = msg.people
		m.platforms = msg.platforms
		if m.cursor >= len(m.initiatives) {
			m.cursor = max(0, len(m.initiatives)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m initiativesModel) updateList(msg tea.KeyMsg) (initiativesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.initiatives)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showForm("new")
	case key.Matches(msg, keys.Edit):
		if len(m.initiatives) > 0 {
			return m.showForm("edit")
		}
	case key.Matches(msg, keys.Delete):
		if len(m.initiatives) > 0 {
			m.confirming = true
		}
	case key.Matches(msg, keys.Archive):
		m.showArchived = !m.showArchived
		return m, m.refresh()
	}
	return m, nil
}

func (m initiativesModel) updateConfirm(msg tea.KeyMsg) (initiativesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.confirming = false
		init := m.initiatives[m.cursor]
		if err := m.store.ArchiveInitiative(init.ID); err != nil {
			return m, func() tea.Msg { return errStatus("Archive error: %v", err) }
		}
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: "Archived " + init.Title}
		})
	case key.Matches(msg, keys.Back):
		m.confirming = false
	}
	return m, nil
}

func (m initiativesModel) showForm(formType string) (initiativesModel, tea.Cmd) {
	m.formType = formType
	if formType == "edit" {
		init := m.initiatives[m.cursor]
		m.editingID = init.ID
		*m.formTitle = init.Title
		*m.formDescription = init.Description
		*m.formTeam = init.TeamID
		*m.formOwner = init.OwnerID
		*m.formPlatform = init.PlatformID
		*m.formPriority = string(init.Priority)
		*m.formStatus = string(init.Status)
		*m.formStart = init.StartDate
		*m.formEnd = init.EndDate
		*m.formTags = strings.Join(init.Tags, ", ")
	} else {
		m.editingID = ""
		*m.formTitle = ""
		*m.formDescription = ""
		*m.formTeam = ""
		*m.formOwner = m.store.GetSettingOr(store.SettingDefaultOwner, "")
		*m.formPlatform = ""
		*m.formPriority = string(store.PriorityP2)
		*m.formStatus = string(store.StatusNotStarted)
		*m.formStart = ""
		*m.formEnd = ""
		*m.formTags = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewSelect[string]().Title("Team").Options(teamOptions(m.teams)...).Value(m.formTeam),
			huh.NewSelect[string]().Title("Owner").Options(personOptions(m.people)...).Value(m.formOwner),
			huh.NewSelect[string]().Title("Platform").Options(platformOptions(m.platforms)...).Value(m.formPlatform),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(m.formPriority),
			huh.NewSelect[string]().Title("Status").Options(statusOptions()...).Value(m.formStatus),
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(m.formStart),
			huh.NewInput().Title("End date (YYYY-MM-DD)").Value(m.formEnd),
			huh.NewInput().Title("Tags (comma-separated)").Value(m.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m initiativesModel) updateForm(msg tea.Msg) (initiativesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formTitle == "" {
			return m, m.refresh()
		}
		init := &store.Initiative{
			ID:          m.editingID,
			Title:       *m.formTitle,
			Description: *m.formDescription,
			TeamID:      *m.formTeam,
			OwnerID:     *m.formOwner,
			PlatformID:  *m.formPlatform,
			Priority:    store.Priority(*m.formPriority),
			Status:      store.Status(*m.formStatus),
			StartDate:   *m.formStart,
			EndDate:     *m.formEnd,
			Tags:        splitTags(*m.formTags),
		}
		if m.formType == "edit" {
			if prev, _ := m.store.GetInitiative(m.editingID); prev != nil {
				init.Progress = prev.Progress
				init.Archived = prev.Archived
				init.CreatedAt = prev.CreatedAt
			}
		}
		if _, err := m.store.SaveInitiative(init); err != nil {
			return m, func() tea.Msg { return errStatus("Save error: %v", err) }
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m initiativesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Initiative")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Initiative")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.confirming {
		init := m.initiatives[m.cursor]
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Archive Initiative"),
			"",
			fmt.Sprintf("Archive %q and its view of the board?", init.Title),
			"",
			mutedStyle.Render("  enter: archive  esc: cancel"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Initiatives")
	if m.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(m.initiatives) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No initiatives yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	teamNames := make(map[string]string, len(m.teams))
	teamColors := make(map[string]string, len(m.teams))
	for _, t := range m.teams {
		teamNames[t.ID] = t.Name
		teamColors[t.ID] = t.Color
	}
	personNames := make(map[string]string, len(m.people))
	for _, p := range m.people {
		personNames[p.ID] = p.Name
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-30s %-10s %-12s %-16s %-12s %s",
		"", "Title", "Priority", "Status", "Progress", "Team", "Owner")))

	for i, init := range m.initiatives {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := " "
		if c, ok := teamColors[init.TeamID]; ok && c != "" {
			dot = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		}
		archived := ""
		if init.Archived {
			archived = mutedStyle.Render(" [archived]")
		}
		row := style.Render(fmt.Sprintf("%s%s %-30s", cursor, dot, truncate(init.Title, 30))) +
			fmt.Sprintf(" %-10s %-12s %-16s %-12s %s%s",
				priorityStyle(string(init.Priority)).Render(string(init.Priority)),
				statusStyle(string(init.Status)).Render(init.Status.Label()),
				progressBar(init.Progress, 10),
				truncate(teamNames[init.TeamID], 12),
				truncate(personNames[init.OwnerID], 12),
				archived,
			)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  a: show archived  3: board"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// --- Form option helpers, shared with the board and capacity views ---

func splitTags(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func teamOptions(teams []store.Team) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, t := range teams {
		opts = append(opts, huh.NewOption(t.Name, t.ID))
	}
	return opts
}

func personOptions(people []store.Person) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(unassigned)", "")}
	for _, p := range people {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return opts
}

func platformOptions(platforms []store.Platform) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range platforms {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return opts
}

func priorityOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(store.Priorities))
	for i, p := range store.Priorities {
		opts[i] = huh.NewOption(string(p), string(p))
	}
	return opts
}

func statusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(store.Statuses))
	for i, s := range store.Statuses {
		opts[i] = huh.NewOption(s.Label(), string(s))
	}
	return opts
}
