package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/manageros/internal/metrics"
	"github.com/sadopc/manageros/internal/store"
)

// copiedCell holds the {initiative, percentage} pairs yanked from one cell,
// pasted elsewhere as brand new assignment rows.
type copiedCell struct {
	pairs []store.CapacityAssignment
}

type capacityModel struct {
	store  *store.Store
	width  int
	height int

	year        int
	people      []store.Person
	teams       []store.Team
	initiatives []store.Initiative
	assignments []store.CapacityAssignment

	teamFilter  string
	personIdx   int
	monthIdx    int
	editingCell bool
	cellCursor  int

	clipboard *copiedCell

	formActive     bool
	form           *huh.Form
	formInitiative *string
	formPercent    *string
}

func newCapacityModel(s *store.Store) capacityModel {
	initiative, percent := "", ""
	return capacityModel{
		store:          s,
		year:           time.Now().Year(),
		teamFilter:     "all",
		formInitiative: &initiative,
		formPercent:    &percent,
	}
}

func (c *capacityModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type capacityDataMsg struct {
	people      []store.Person
	teams       []store.Team
	initiatives []store.Initiative
	assignments []store.CapacityAssignment
}

func (c capacityModel) refresh() tea.Cmd {
	year := c.year
	return func() tea.Msg {
		people, _ := c.store.ListPeople()
		teams, _ := c.store.ListTeams(true)
		initiatives, _ := c.store.ListInitiatives(false)
		assignments, _ := c.store.ListAssignments(year)
		return capacityDataMsg{
			people:      people,
			teams:       teams,
			initiatives: initiatives,
			assignments: assignments,
		}
	}
}

// visiblePeople applies the team filter to the grid rows.
func (c capacityModel) visiblePeople() []store.Person {
	if c.teamFilter == "all" {
		return c.people
	}
	var out []store.Person
	for _, p := range c.people {
		if p.InTeam(c.teamFilter) {
			out = append(out, p)
		}
	}
	return out
}

func (c capacityModel) currentPerson() *store.Person {
	people := c.visiblePeople()
	if len(people) == 0 || c.personIdx >= len(people) {
		return nil
	}
	return &people[c.personIdx]
}

func (c capacityModel) cellAssignments() []store.CapacityAssignment {
	p := c.currentPerson()
	if p == nil {
		return nil
	}
	return metrics.AssignmentsForCell(c.assignments, p.ID, c.year, c.monthIdx+1)
}

func (c capacityModel) update(msg tea.Msg) (capacityModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case capacityDataMsg:
		c.people = msg.people
		c.teams = msg.teams
		c.initiatives = msg.initiatives
		c.assignments = msg.assignments
		if c.personIdx >= len(c.visiblePeople()) {
			c.personIdx = max(0, len(c.visiblePeople())-1)
		}
		return c, nil

	case tea.KeyMsg:
		if c.editingCell {
			return c.updateCellEditor(msg)
		}
		return c.updateGrid(msg)
	}
	return c, nil
}

func (c capacityModel) updateGrid(msg tea.KeyMsg) (capacityModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.personIdx > 0 {
			c.personIdx--
		}
	case key.Matches(msg, keys.Down):
		if c.personIdx < len(c.visiblePeople())-1 {
			c.personIdx++
		}
	case key.Matches(msg, keys.Left):
		if c.monthIdx > 0 {
			c.monthIdx--
		}
	case key.Matches(msg, keys.Right):
		if c.monthIdx < 11 {
			c.monthIdx++
		}
	case msg.String() == "[":
		c.year--
		return c, c.refresh()
	case msg.String() == "]":
		c.year++
		return c, c.refresh()
	case key.Matches(msg, keys.Filter):
		c.teamFilter = c.nextTeamFilter()
		c.personIdx = 0
		return c, nil
	case key.Matches(msg, keys.Enter):
		if c.currentPerson() != nil {
			c.editingCell = true
			c.cellCursor = 0
		}
	case key.Matches(msg, keys.New):
		if c.currentPerson() != nil {
			return c.showAssignmentForm()
		}
	case key.Matches(msg, keys.Yank):
		cell := c.cellAssignments()
		if len(cell) > 0 {
			c.clipboard = &copiedCell{pairs: cell}
			return c, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Copied %d assignment(s)", len(cell))}
			}
		}
	case key.Matches(msg, keys.Paste):
		return c.pasteCell()
	}
	return c, nil
}

// pasteCell inserts the copied {initiative, percentage} pairs into the
// current cell as fresh rows. Existing rows are untouched; duplicates of the
// same initiative are allowed and each counts toward the total.
func (c capacityModel) pasteCell() (capacityModel, tea.Cmd) {
	p := c.currentPerson()
	if p == nil || c.clipboard == nil {
		return c, nil
	}
	for _, src := range c.clipboard.pairs {
		_, err := c.store.SaveAssignment(&store.CapacityAssignment{
			PersonID:     p.ID,
			InitiativeID: src.InitiativeID,
			Year:         c.year,
			Month:        c.monthIdx + 1,
			Percentage:   src.Percentage,
		})
		if err != nil {
			return c, func() tea.Msg { return errStatus("Paste error: %v", err) }
		}
	}
	return c, c.refresh()
}

func (c capacityModel) updateCellEditor(msg tea.KeyMsg) (capacityModel, tea.Cmd) {
	cell := c.cellAssignments()
	switch {
	case key.Matches(msg, keys.Back):
		c.editingCell = false
	case key.Matches(msg, keys.Up):
		if c.cellCursor > 0 {
			c.cellCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.cellCursor < len(cell)-1 {
			c.cellCursor++
		}
	case key.Matches(msg, keys.New):
		return c.showAssignmentForm()
	case key.Matches(msg, keys.Delete):
		if c.cellCursor < len(cell) {
			if err := c.store.DeleteAssignment(cell[c.cellCursor].ID); err != nil {
				return c, func() tea.Msg { return errStatus("Delete error: %v", err) }
			}
			if c.cellCursor > 0 {
				c.cellCursor--
			}
			return c, c.refresh()
		}
	}
	return c, nil
}

func (c capacityModel) nextTeamFilter() string {
	if c.teamFilter == "all" && len(c.teams) > 0 {
		return c.teams[0].ID
	}
	for i, t := range c.teams {
		if t.ID == c.teamFilter {
			if i+1 < len(c.teams) {
				return c.teams[i+1].ID
			}
			return "all"
		}
	}
	return "all"
}

func (c capacityModel) showAssignmentForm() (capacityModel, tea.Cmd) {
	*c.formInitiative = ""
	*c.formPercent = ""

	opts := make([]huh.Option[string], len(c.initiatives))
	for i, init := range c.initiatives {
		opts[i] = huh.NewOption(init.Title, init.ID)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Initiative").Options(opts...).Value(c.formInitiative),
			huh.NewInput().Title("Percentage").Value(c.formPercent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c capacityModel) updateForm(msg tea.Msg) (capacityModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		p := c.currentPerson()
		pct, err := strconv.Atoi(strings.TrimSpace(*c.formPercent))
		if p == nil || *c.formInitiative == "" || err != nil {
			return c, func() tea.Msg { return errStatus("Assignment needs an initiative and a numeric percentage") }
		}
		_, err = c.store.SaveAssignment(&store.CapacityAssignment{
			PersonID:     p.ID,
			InitiativeID: *c.formInitiative,
			Year:         c.year,
			Month:        c.monthIdx + 1,
			Percentage:   pct,
		})
		if err != nil {
			return c, func() tea.Msg { return errStatus("Save error: %v", err) }
		}
		return c, c.refresh()
	}

	return c, cmd
}

func (c capacityModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		p := c.currentPerson()
		name := ""
		if p != nil {
			name = p.Name
		}
		title := titleStyle.Render(fmt.Sprintf("Assign — %s, %s %d", name, monthNames[c.monthIdx], c.year))
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if c.editingCell {
		return c.renderCellEditor(w)
	}
	return c.renderGrid(w)
}

func (c capacityModel) renderGrid(w int) string {
	filterLabel := "all teams"
	for _, t := range c.teams {
		if t.ID == c.teamFilter {
			filterLabel = t.Name
		}
	}
	title := titleStyle.Render(fmt.Sprintf("Capacity %d", c.year)) +
		mutedStyle.Render("  ("+filterLabel+")")

	people := c.visiblePeople()
	if len(people) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No people. Press 6 to add some in Settings."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := fmt.Sprintf("  %-16s", "")
	for _, m := range monthNames {
		header += fmt.Sprintf(" %5s", m)
	}
	rows = append(rows, mutedStyle.Render(header))

	for pi, p := range people {
		nameStyle := normalItemStyle
		if pi == c.personIdx {
			nameStyle = selectedItemStyle
		}
		row := nameStyle.Render(fmt.Sprintf("  %-16s", truncate(p.Name, 16)))
		for mi := 0; mi < 12; mi++ {
			cell := metrics.AssignmentsForCell(c.assignments, p.ID, c.year, mi+1)
			total := metrics.TotalPercentage(cell)
			text := fmt.Sprintf("%4d%%", total)
			style := allocationStyle(total)
			if pi == c.personIdx && mi == c.monthIdx {
				style = style.Bold(true).Underline(true)
			}
			row += " " + style.Render(text)
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit cell  n: assign  y: copy  p: paste  [/]: year  f: team filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c capacityModel) renderCellEditor(w int) string {
	p := c.currentPerson()
	name := ""
	if p != nil {
		name = p.Name
	}
	cell := c.cellAssignments()
	total := metrics.TotalPercentage(cell)

	title := titleStyle.Render(fmt.Sprintf("%s — %s %d", name, monthNames[c.monthIdx], c.year)) +
		"  " + allocationStyle(total).Render(fmt.Sprintf("%d%% (%s)", total, metrics.Classify(total)))

	initTitles := make(map[string]string, len(c.initiatives))
	for _, init := range c.initiatives {
		initTitles[init.ID] = init.Title
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(cell) == 0 {
		rows = append(rows, mutedStyle.Render("No assignments. Press n to add one."))
	}
	for i, a := range cell {
		cursor := "  "
		style := normalItemStyle
		if i == c.cellCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := initTitles[a.InitiativeID]
		if name == "" {
			name = a.InitiativeID
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-32s %4d%%", cursor, truncate(name, 32), a.Percentage)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add  d: delete  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
