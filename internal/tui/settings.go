package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/manageros/internal/metrics"
	"github.com/sadopc/manageros/internal/store"
)

var teamColors = []string{"#2563EB", "#7C3AED", "#10B981", "#F59E0B", "#EF4444", "#EC4899", "#14B8A6", "#6366F1"}

type settingsSection int

const (
	sectionGeneral settingsSection = iota
	sectionTeams
	sectionPeople
	sectionPlatforms
)

var sectionNames = []string{"General", "Teams", "People", "Platforms"}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	teams     []store.Team
	people    []store.Person
	platforms []store.Platform
	theme     string
	dueSoon   int
	owner     string

	section settingsSection
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string // "team", "edit_team", "person", "edit_person", "platform", "edit_platform", "general"
	confirming bool

	formName    *string
	formColor   *string
	formActive2 *string // team active flag, "yes"/"no"
	formTeams   *string // person team ids, comma-separated
	formDueSoon *string
	formOwner   *string

	editingID string
}

func newSettingsModel(s *store.Store) settingsModel {
	name, color, active := "", teamColors[0], "yes"
	teamIDs, dueSoon, owner := "", "", ""
	return settingsModel{
		store:       s,
		theme:       "dark",
		dueSoon:     metrics.DefaultDueSoonDays,
		formName:    &name,
		formColor:   &color,
		formActive2: &active,
		formTeams:   &teamIDs,
		formDueSoon: &dueSoon,
		formOwner:   &owner,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	teams     []store.Team
	people    []store.Person
	platforms []store.Platform
	theme     string
	dueSoon   int
	owner     string
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		teams, _ := m.store.ListTeams(false)
		people, _ := m.store.ListPeople()
		platforms, _ := m.store.ListPlatforms()
		return settingsDataMsg{
			teams:     teams,
			people:    people,
			platforms: platforms,
			theme:     m.store.GetSettingOr(store.SettingTheme, "dark"),
			dueSoon:   m.store.GetSettingInt(store.SettingDueSoonDays, metrics.DefaultDueSoonDays),
			owner:     m.store.GetSettingOr(store.SettingDefaultOwner, ""),
		}
	}
}

func (m settingsModel) sectionLen() int {
	switch m.section {
	case sectionTeams:
		return len(m.teams)
	case sectionPeople:
		return len(m.people)
	case sectionPlatforms:
		return len(m.platforms)
	}
	return 0
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.teams = msg.teams
		m.people = msg.people
		m.platforms = msg.platforms
		m.theme = msg.theme
		m.dueSoon = msg.dueSoon
		m.owner = msg.owner
		if m.cursor >= m.sectionLen() {
			m.cursor = max(0, m.sectionLen()-1)
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

func (m settingsModel) updateList(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if m.section > 0 {
			m.section--
			m.cursor = 0
		}
	case key.Matches(msg, keys.Right):
		if int(m.section) < len(sectionNames)-1 {
			m.section++
			m.cursor = 0
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.sectionLen()-1 {
			m.cursor++
		}
	case msg.String() == "t":
		return m.toggleTheme()
	case key.Matches(msg, keys.New):
		switch m.section {
		case sectionTeams:
			return m.showTeamForm("team")
		case sectionPeople:
			return m.showPersonForm("person")
		case sectionPlatforms:
			return m.showPlatformForm("platform")
		case sectionGeneral:
			return m.showGeneralForm()
		}
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		switch m.section {
		case sectionGeneral:
			return m.showGeneralForm()
		case sectionTeams:
			if len(m.teams) > 0 {
				return m.showTeamForm("edit_team")
			}
		case sectionPeople:
			if len(m.people) > 0 {
				return m.showPersonForm("edit_person")
			}
		case sectionPlatforms:
			if len(m.platforms) > 0 {
				return m.showPlatformForm("edit_platform")
			}
		}
	case key.Matches(msg, keys.Delete):
		// People and platforms hard-delete; teams only deactivate via edit.
		if (m.section == sectionPeople && len(m.people) > 0) ||
			(m.section == sectionPlatforms && len(m.platforms) > 0) {
			m.confirming = true
		}
	}
	return m, nil
}

func (m settingsModel) toggleTheme() (settingsModel, tea.Cmd) {
	next := "light"
	if m.theme == "light" {
		next = "dark"
	}
	m.theme = next
	if err := m.store.SetSetting(store.SettingTheme, next); err != nil {
		return m, func() tea.Msg { return errStatus("Theme error: %v", err) }
	}
	applyTheme(next)
	return m, func() tea.Msg { return themeChangedMsg{name: next} }
}

func (m settingsModel) updateConfirm(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.confirming = false
		var err error
		switch m.section {
		case sectionPeople:
			err = m.store.DeletePerson(m.people[m.cursor].ID)
		case sectionPlatforms:
			err = m.store.DeletePlatform(m.platforms[m.cursor].ID)
		}
		if err != nil {
			return m, func() tea.Msg { return errStatus("Delete error: %v", err) }
		}
		return m, m.refresh()
	case key.Matches(msg, keys.Back):
		m.confirming = false
	}
	return m, nil
}

func (m settingsModel) showTeamForm(formType string) (settingsModel, tea.Cmd) {
	m.formType = formType
	if formType == "edit_team" {
		t := m.teams[m.cursor]
		m.editingID = t.ID
		*m.formName = t.Name
		*m.formColor = t.Color
		*m.formActive2 = "yes"
		if !t.Active {
			*m.formActive2 = "no"
		}
	} else {
		m.editingID = ""
		*m.formName = ""
		*m.formColor = teamColors[0]
		*m.formActive2 = "yes"
	}

	colorOptions := make([]huh.Option[string], len(teamColors))
	for i, c := range teamColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Team Name").Value(m.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
			huh.NewSelect[string]().Title("Active").
				Options(huh.NewOption("Yes", "yes"), huh.NewOption("No", "no")).
				Value(m.formActive2),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) showPersonForm(formType string) (settingsModel, tea.Cmd) {
	m.formType = formType
	if formType == "edit_person" {
		p := m.people[m.cursor]
		m.editingID = p.ID
		*m.formName = p.Name
		*m.formTeams = strings.Join(p.TeamIDs, ", ")
	} else {
		m.editingID = ""
		*m.formName = ""
		*m.formTeams = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Team IDs (comma-separated)").Value(m.formTeams),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) showPlatformForm(formType string) (settingsModel, tea.Cmd) {
	m.formType = formType
	if formType == "edit_platform" {
		p := m.platforms[m.cursor]
		m.editingID = p.ID
		*m.formName = p.Name
	} else {
		m.editingID = ""
		*m.formName = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Platform Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) showGeneralForm() (settingsModel, tea.Cmd) {
	m.formType = "general"
	*m.formDueSoon = strconv.Itoa(m.dueSoon)
	*m.formOwner = m.owner

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Due-soon window (days)").Value(m.formDueSoon),
			huh.NewSelect[string]().Title("Default owner").
				Options(personOptions(m.people)...).Value(m.formOwner),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		switch m.formType {
		case "team", "edit_team":
			if *m.formName != "" {
				m.store.SaveTeam(&store.Team{
					ID:     m.editingID,
					Name:   *m.formName,
					Color:  *m.formColor,
					Active: *m.formActive2 == "yes",
				})
			}
		case "person", "edit_person":
			if *m.formName != "" {
				m.store.SavePerson(&store.Person{
					ID:      m.editingID,
					Name:    *m.formName,
					TeamIDs: splitTags(*m.formTeams),
				})
			}
		case "platform", "edit_platform":
			if *m.formName != "" {
				m.store.SavePlatform(&store.Platform{
					ID:   m.editingID,
					Name: *m.formName,
				})
			}
		case "general":
			if days, err := strconv.Atoi(strings.TrimSpace(*m.formDueSoon)); err == nil && days > 0 {
				m.store.SetSetting(store.SettingDueSoonDays, strconv.Itoa(days))
			}
			m.store.SetSetting(store.SettingDefaultOwner, *m.formOwner)
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.confirming {
		name := ""
		switch m.section {
		case sectionPeople:
			name = m.people[m.cursor].Name
		case sectionPlatforms:
			name = m.platforms[m.cursor].Name
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Delete"),
			"",
			fmt.Sprintf("Permanently delete %q?", name),
			"",
			mutedStyle.Render("  enter: delete  esc: cancel"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	var tabs []string
	for i, name := range sectionNames {
		if settingsSection(i) == m.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	switch m.section {
	case sectionGeneral:
		rows = append(rows, m.renderGeneral()...)
	case sectionTeams:
		rows = append(rows, m.renderTeams()...)
	case sectionPeople:
		rows = append(rows, m.renderPeople()...)
	case sectionPlatforms:
		rows = append(rows, m.renderPlatforms()...)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: section  n: new  e: edit  d: delete  t: theme"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m settingsModel) renderGeneral() []string {
	ownerName := "(none)"
	for _, p := range m.people {
		if p.ID == m.owner {
			ownerName = p.Name
		}
	}
	return []string{
		fmt.Sprintf("  %-24s %s", "Theme", highlightStyle.Render(m.theme)),
		fmt.Sprintf("  %-24s %s", "Due-soon window", highlightStyle.Render(fmt.Sprintf("%d days", m.dueSoon))),
		fmt.Sprintf("  %-24s %s", "Default owner", highlightStyle.Render(ownerName)),
		"",
		mutedStyle.Render("  Press enter to edit, t to toggle theme."),
	}
}

func (m settingsModel) renderTeams() []string {
	if len(m.teams) == 0 {
		return []string{mutedStyle.Render("  No teams yet.")}
	}
	var rows []string
	for i, t := range m.teams {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		state := ""
		if !t.Active {
			state = mutedStyle.Render(" (inactive)")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s", cursor, dot, t.Name))+state)
	}
	return rows
}

func (m settingsModel) renderPeople() []string {
	if len(m.people) == 0 {
		return []string{mutedStyle.Render("  No people yet.")}
	}
	teamNames := make(map[string]string, len(m.teams))
	for _, t := range m.teams {
		teamNames[t.ID] = t.Name
	}
	var rows []string
	for i, p := range m.people {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		var names []string
		for _, id := range p.TeamIDs {
			if n := teamNames[id]; n != "" {
				names = append(names, n)
			}
		}
		teams := mutedStyle.Render(strings.Join(names, ", "))
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s", cursor, p.Name))+" "+teams)
	}
	return rows
}

func (m settingsModel) renderPlatforms() []string {
	if len(m.platforms) == 0 {
		return []string{mutedStyle.Render("  No platforms yet.")}
	}
	var rows []string
	for i, p := range m.platforms {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s", cursor, p.Name)))
	}
	return rows
}
