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

// boardModel is the kanban view of one initiative's activities: four status
// columns, cards moved between them by direct status set.
type boardModel struct {
	store  *store.Store
	width  int
	height int

	initiatives []store.Initiative
	people      []store.Person
	initCursor  int
	selected    *store.Initiative

	activities []store.Activity
	columns    [4][]store.Activity
	colCursor  int
	cardCursor [4]int

	viewingLogs bool
	logs        []store.ActivityLog

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "comment"
	confirming bool

	formTitle    *string
	formOwner    *string
	formPriority *string
	formStatus   *string
	formStart    *string
	formEnd      *string
	formComment  *string

	editingID string
}

func newBoardModel(s *store.Store) boardModel {
	title, owner, prio, status := "", "", "", ""
	start, end, comment := "", "", ""
	return boardModel{
		store:        s,
		formTitle:    &title,
		formOwner:    &owner,
		formPriority: &prio,
		formStatus:   &status,
		formStart:    &start,
		formEnd:      &end,
		formComment:  &comment,
	}
}

func (b *boardModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

type boardInitiativesMsg struct {
	initiatives []store.Initiative
	people      []store.Person
}

type boardActivitiesMsg struct {
	activities []store.Activity
}

type boardLogsMsg struct {
	logs []store.ActivityLog
}

func (b boardModel) refresh() tea.Cmd {
	if b.selected != nil {
		return b.refreshActivities()
	}
	return func() tea.Msg {
		initiatives, _ := b.store.ListInitiatives(false)
		people, _ := b.store.ListPeople()
		return boardInitiativesMsg{initiatives: initiatives, people: people}
	}
}

func (b boardModel) refreshActivities() tea.Cmd {
	id := b.selected.ID
	return func() tea.Msg {
		activities, _ := b.store.ListActivities(id, false)
		return boardActivitiesMsg{activities: activities}
	}
}

func (b boardModel) refreshLogs() tea.Cmd {
	card := b.selectedCard()
	if card == nil {
		return nil
	}
	id := card.ID
	return func() tea.Msg {
		logs, _ := b.store.ListLogs(id)
		return boardLogsMsg{logs: logs}
	}
}

func (b *boardModel) rebuildColumns() {
	for i := range b.columns {
		b.columns[i] = nil
	}
	for _, a := range b.activities {
		col := columnFor(a.Status)
		b.columns[col] = append(b.columns[col], a)
	}
	for i := range b.cardCursor {
		if b.cardCursor[i] >= len(b.columns[i]) {
			b.cardCursor[i] = max(0, len(b.columns[i])-1)
		}
	}
}

func columnFor(s store.Status) int {
	for i, st := range store.Statuses {
		if st == s {
			return i
		}
	}
	return 0
}

func (b boardModel) selectedCard() *store.Activity {
	col := b.columns[b.colCursor]
	if len(col) == 0 {
		return nil
	}
	card := col[b.cardCursor[b.colCursor]]
	return &card
}

func (b boardModel) update(msg tea.Msg) (boardModel, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	switch msg := msg.(type) {
	case boardInitiativesMsg:
		b.initiatives = msg.initiatives
		b.people = msg.people
		if b.initCursor >= len(b.initiatives) {
			b.initCursor = max(0, len(b.initiatives)-1)
		}
		return b, nil

	case boardActivitiesMsg:
		b.activities = msg.activities
		b.rebuildColumns()
		return b, nil

	case boardLogsMsg:
		b.logs = msg.logs
		return b, nil

	case tea.KeyMsg:
		if b.confirming {
			return b.updateConfirm(msg)
		}
		if b.viewingLogs {
			return b.updateLogView(msg)
		}
		if b.selected == nil {
			return b.updatePicker(msg)
		}
		return b.updateBoard(msg)
	}
	return b, nil
}

func (b boardModel) updatePicker(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if b.initCursor > 0 {
			b.initCursor--
		}
	case key.Matches(msg, keys.Down):
		if b.initCursor < len(b.initiatives)-1 {
			b.initCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(b.initiatives) > 0 {
			init := b.initiatives[b.initCursor]
			b.selected = &init
			b.colCursor = 0
			b.cardCursor = [4]int{}
			return b, b.refreshActivities()
		}
	}
	return b, nil
}

func (b boardModel) updateBoard(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		b.selected = nil
		b.activities = nil
		return b, b.refresh()
	case key.Matches(msg, keys.Left):
		if b.colCursor > 0 {
			b.colCursor--
		}
	case key.Matches(msg, keys.Right):
		if b.colCursor < len(b.columns)-1 {
			b.colCursor++
		}
	case key.Matches(msg, keys.Up):
		if b.cardCursor[b.colCursor] > 0 {
			b.cardCursor[b.colCursor]--
		}
	case key.Matches(msg, keys.Down):
		if b.cardCursor[b.colCursor] < len(b.columns[b.colCursor])-1 {
			b.cardCursor[b.colCursor]++
		}
	case key.Matches(msg, keys.Move):
		return b.moveCard(1)
	case key.Matches(msg, keys.MoveBk):
		return b.moveCard(-1)
	case key.Matches(msg, keys.New):
		return b.showActivityForm("new")
	case key.Matches(msg, keys.Edit):
		if b.selectedCard() != nil {
			return b.showActivityForm("edit")
		}
	case key.Matches(msg, keys.Comment):
		if b.selectedCard() != nil {
			return b.showCommentForm()
		}
	case key.Matches(msg, keys.Enter):
		if b.selectedCard() != nil {
			b.viewingLogs = true
			return b, b.refreshLogs()
		}
	case key.Matches(msg, keys.Delete):
		if b.selectedCard() != nil {
			b.confirming = true
		}
	}
	return b, nil
}

func (b boardModel) updateLogView(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		b.viewingLogs = false
		b.logs = nil
	case key.Matches(msg, keys.Comment):
		return b.showCommentForm()
	}
	return b, nil
}

func (b boardModel) updateConfirm(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		b.confirming = false
		card := b.selectedCard()
		if card == nil {
			return b, nil
		}
		if err := b.store.ArchiveActivity(card.ID); err != nil {
			return b, func() tea.Msg { return errStatus("Archive error: %v", err) }
		}
		return b, b.refreshActivities()
	case key.Matches(msg, keys.Back):
		b.confirming = false
	}
	return b, nil
}

// moveCard sets the selected card's status to the neighboring column. Any
// status can move to any other; the store recomputes the parent's progress.
func (b boardModel) moveCard(dir int) (boardModel, tea.Cmd) {
	card := b.selectedCard()
	if card == nil {
		return b, nil
	}
	target := b.colCursor + dir
	if target < 0 || target >= len(store.Statuses) {
		return b, nil
	}
	card.Status = store.Statuses[target]
	if _, err := b.store.SaveActivity(card); err != nil {
		return b, func() tea.Msg { return errStatus("Move error: %v", err) }
	}
	b.colCursor = target
	return b, b.refreshActivities()
}

func (b boardModel) showActivityForm(formType string) (boardModel, tea.Cmd) {
	b.formType = formType
	if formType == "edit" {
		card := b.selectedCard()
		b.editingID = card.ID
		*b.formTitle = card.Title
		*b.formOwner = card.OwnerID
		*b.formPriority = string(card.Priority)
		*b.formStatus = string(card.Status)
		*b.formStart = card.StartDate
		*b.formEnd = card.EndDate
	} else {
		b.editingID = ""
		*b.formTitle = ""
		*b.formOwner = b.store.GetSettingOr(store.SettingDefaultOwner, "")
		*b.formPriority = string(store.PriorityP2)
		*b.formStatus = string(store.Statuses[b.colCursor])
		*b.formStart = ""
		*b.formEnd = ""
	}

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(b.formTitle),
			huh.NewSelect[string]().Title("Owner").Options(personOptions(b.people)...).Value(b.formOwner),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(b.formPriority),
			huh.NewSelect[string]().Title("Status").Options(statusOptions()...).Value(b.formStatus),
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(b.formStart),
			huh.NewInput().Title("End date (YYYY-MM-DD)").Value(b.formEnd),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) showCommentForm() (boardModel, tea.Cmd) {
	b.formType = "comment"
	*b.formComment = ""

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Comment").Value(b.formComment),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) updateForm(msg tea.Msg) (boardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		switch b.formType {
		case "comment":
			card := b.selectedCard()
			if card != nil && *b.formComment != "" {
				author := b.store.GetSettingOr(store.SettingDefaultOwner, "")
				b.store.AddLog(&store.ActivityLog{
					ActivityID: card.ID,
					AuthorID:   author,
					Message:    *b.formComment,
				})
			}
			if b.viewingLogs {
				return b, b.refreshLogs()
			}
			return b, nil
		default:
			if *b.formTitle == "" {
				return b, nil
			}
			act := &store.Activity{
				ID:           b.editingID,
				InitiativeID: b.selected.ID,
				Title:        *b.formTitle,
				OwnerID:      *b.formOwner,
				Priority:     store.Priority(*b.formPriority),
				Status:       store.Status(*b.formStatus),
				StartDate:    *b.formStart,
				EndDate:      *b.formEnd,
			}
			if b.formType == "edit" {
				if prev, _ := b.store.GetActivity(b.editingID); prev != nil {
					act.Description = prev.Description
					act.Archived = prev.Archived
					act.CreatedAt = prev.CreatedAt
				}
			}
			if _, err := b.store.SaveActivity(act); err != nil {
				return b, func() tea.Msg { return errStatus("Save error: %v", err) }
			}
			return b, b.refreshActivities()
		}
	}

	return b, cmd
}

func (b boardModel) view() string {
	w := b.width - 4

	if b.formActive && b.form != nil {
		title := titleStyle.Render("New Activity")
		switch b.formType {
		case "edit":
			title = titleStyle.Render("Edit Activity")
		case "comment":
			title = titleStyle.Render("Add Comment")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", b.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if b.confirming {
		card := b.selectedCard()
		name := ""
		if card != nil {
			name = card.Title
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Archive Activity"),
			"",
			fmt.Sprintf("Archive %q?", name),
			"",
			mutedStyle.Render("  enter: archive  esc: cancel"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	if b.viewingLogs {
		return b.renderLogView(w)
	}

	if b.selected == nil {
		return b.renderPicker(w)
	}
	return b.renderBoard(w)
}

func (b boardModel) renderPicker(w int) string {
	title := titleStyle.Render("Board — Select Initiative")

	if len(b.initiatives) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No initiatives. Press 2 to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, init := range b.initiatives {
		cursor := "  "
		style := normalItemStyle
		if i == b.initCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-32s", cursor, truncate(init.Title, 32))) +
			fmt.Sprintf(" %s %s",
				statusStyle(string(init.Status)).Render(init.Status.Label()),
				progressBar(init.Progress, 10))
		rows = append(rows, row)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open board"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (b boardModel) renderBoard(w int) string {
	title := titleStyle.Render(b.selected.Title)
	colWidth := max(18, w/len(b.columns)-3)

	var cols []string
	for ci, status := range store.Statuses {
		header := statusStyle(string(status)).Bold(true).Render(
			fmt.Sprintf("%s (%d)", status.Label(), len(b.columns[ci])))

		var cards []string
		cards = append(cards, header)
		for i, a := range b.columns[ci] {
			style := normalItemStyle
			cursor := "  "
			if ci == b.colCursor && i == b.cardCursor[ci] {
				style = selectedItemStyle
				cursor = "> "
			}
			prio := priorityStyle(string(a.Priority)).Render(string(a.Priority))
			line := style.Render(cursor+truncate(a.Title, colWidth-8)) + " " + prio
			if a.EndDate != "" {
				line += "\n" + mutedStyle.Render("    due "+a.EndDate)
			}
			cards = append(cards, line)
		}
		if len(b.columns[ci]) == 0 {
			cards = append(cards, mutedStyle.Render("  (empty)"))
		}

		style := panelStyle
		if ci == b.colCursor {
			style = activePanelStyle
		}
		cols = append(cols, style.Width(colWidth).Render(strings.Join(cards, "\n")))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	hint := mutedStyle.Render("  n: new  e: edit  c: comment  enter: logs  shift+←/→: move  d: archive  esc: back")

	return lipgloss.JoinVertical(lipgloss.Left, " "+title, board, hint)
}

func (b boardModel) renderLogView(w int) string {
	card := b.selectedCard()
	name := ""
	if card != nil {
		name = card.Title
	}
	title := titleStyle.Render("Activity Log — " + name)

	personNames := make(map[string]string, len(b.people))
	for _, p := range b.people {
		personNames[p.ID] = p.Name
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	if len(b.logs) == 0 {
		rows = append(rows, mutedStyle.Render("No comments yet. Press c to add one."))
	}
	for _, l := range b.logs {
		author := personNames[l.AuthorID]
		if author == "" {
			author = "unknown"
		}
		meta := mutedStyle.Render(fmt.Sprintf("%s  %s", l.CreatedAt.Local().Format("2006-01-02 15:04"), author))
		rows = append(rows, meta)
		rows = append(rows, "  "+l.Message)
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("  c: comment  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
