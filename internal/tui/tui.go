// Package tui is the interactive audit dashboard: browse frameworks down to
// questions, record answers, and push the data set to the configured
// GitHub repository.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/db"
	"github.com/n0roo/audit-kit/internal/icon"
	"github.com/n0roo/audit-kit/internal/progress"
	"github.com/n0roo/audit-kit/internal/response"
	"github.com/n0roo/audit-kit/internal/sync"
)

// Level is the current drill-down depth
type Level int

const (
	LevelFrameworks Level = iota
	LevelSections
	LevelSubSections
	LevelQuestions
)

// editField is which response field the text input edits
type editField int

const (
	editNone editField = iota
	editNotes
	editEvidence
)

// Model is the main TUI model
type Model struct {
	stores *Stores

	level  Level
	cursor [4]int
	fwIdx  int
	secIdx int
	subIdx int

	width  int
	height int

	editing editField
	input   textinput.Model

	syncing        bool
	confirmingPull bool
	spinner        spinner.Model
	status         string
	quitting       bool
}

// Stores bundles the open data stores the dashboard works against.
type Stores struct {
	DB        *db.DB
	Content   *content.Store
	Responses *response.Store
}

// syncDoneMsg reports the outcome of a background push or pull
type syncDoneMsg struct {
	pull bool
	err  error
}

// NewModel creates a dashboard over already-open stores
func NewModel(stores *Stores) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	in := textinput.New()
	in.CharLimit = 500
	in.Width = 60

	return Model{stores: stores, spinner: s, input: in}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) frameworks() []content.Framework {
	return m.stores.Content.Frameworks()
}

func (m Model) framework() content.Framework {
	fws := m.frameworks()
	if m.fwIdx >= len(fws) {
		return content.Framework{}
	}
	return fws[m.fwIdx]
}

func (m Model) section() content.Section {
	fw := m.framework()
	if m.secIdx >= len(fw.Sections) {
		return content.Section{}
	}
	return fw.Sections[m.secIdx]
}

func (m Model) subSection() content.SubSection {
	sec := m.section()
	if m.subIdx >= len(sec.SubSections) {
		return content.SubSection{}
	}
	return sec.SubSections[m.subIdx]
}

func (m Model) listLen() int {
	switch m.level {
	case LevelFrameworks:
		return len(m.frameworks())
	case LevelSections:
		return len(m.framework().Sections)
	case LevelSubSections:
		return len(m.section().SubSections)
	default:
		return len(m.subSection().Questions)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case syncDoneMsg:
		m.syncing = false
		switch {
		case msg.err != nil && msg.pull:
			m.status = statusErrorStyle.Render("Pull failed: " + msg.err.Error())
		case msg.err != nil:
			m.status = statusErrorStyle.Render("Push failed: " + msg.err.Error())
		case msg.pull:
			// The tree may have changed shape; start over from the top
			m.level = LevelFrameworks
			m.cursor = [4]int{}
			m.status = statusDoneStyle.Render("✓ Local data replaced from " + sync.RemotePath)
		default:
			m.status = statusDoneStyle.Render("✓ Pushed to " + sync.RemotePath)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmingPull {
		m.confirmingPull = false
		if msg.String() == "y" {
			m.syncing = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.pullCmd())
		}
		m.status = "Pull cancelled"
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor[m.level] > 0 {
			m.cursor[m.level]--
		}

	case "down", "j":
		if m.cursor[m.level] < m.listLen()-1 {
			m.cursor[m.level]++
		}

	case "enter", "l", "right":
		m.status = ""
		switch m.level {
		case LevelFrameworks:
			fws := m.frameworks()
			if m.cursor[m.level] < len(fws) && len(fws[m.cursor[m.level]].Sections) > 0 {
				m.fwIdx = m.cursor[m.level]
				m.level = LevelSections
				m.cursor[m.level] = 0
			}
		case LevelSections:
			if m.cursor[m.level] < len(m.framework().Sections) {
				m.secIdx = m.cursor[m.level]
				m.level = LevelSubSections
				m.cursor[m.level] = 0
			}
		case LevelSubSections:
			if m.cursor[m.level] < len(m.section().SubSections) {
				m.subIdx = m.cursor[m.level]
				m.level = LevelQuestions
				m.cursor[m.level] = 0
			}
		}

	case "esc", "h", "left":
		m.status = ""
		if m.level > LevelFrameworks {
			m.level--
		}

	case "w":
		if m.level == LevelQuestions {
			m.cycleWorkflow()
		}

	case "r", " ":
		if m.level == LevelQuestions {
			m.cycleResult()
		}

	case "n":
		if m.level == LevelQuestions {
			return m.startEditing(editNotes)
		}

	case "e":
		if m.level == LevelQuestions {
			return m.startEditing(editEvidence)
		}

	case "s":
		if !m.syncing {
			m.syncing = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.pushCmd())
		}

	case "p":
		if !m.syncing {
			m.confirmingPull = true
			m.status = statusPendingStyle.Render("Pull overwrites ALL local frameworks and responses. [y] confirm, any other key cancels")
		}
	}

	return m, nil
}

func (m *Model) selectedQuestion() (content.SubSection, content.Question, bool) {
	sub := m.subSection()
	i := m.cursor[LevelQuestions]
	if i >= len(sub.Questions) {
		return sub, content.Question{}, false
	}
	return sub, sub.Questions[i], true
}

func (m *Model) cycleWorkflow() {
	sub, q, ok := m.selectedQuestion()
	if !ok {
		return
	}
	r := m.stores.Responses.Get(sub.ID, q.ID)
	statuses := response.WorkflowStatuses()
	for i, s := range statuses {
		if s == r.WorkflowStatus {
			r.WorkflowStatus = statuses[(i+1)%len(statuses)]
			break
		}
	}
	m.stores.Responses.Set(sub.ID, q.ID, r)
}

func (m *Model) cycleResult() {
	sub, q, ok := m.selectedQuestion()
	if !ok {
		return
	}
	r := m.stores.Responses.Get(sub.ID, q.ID)
	statuses := response.ResultStatuses()
	for i, s := range statuses {
		if s == r.ResultStatus {
			r.ResultStatus = statuses[(i+1)%len(statuses)]
			break
		}
	}
	m.stores.Responses.Set(sub.ID, q.ID, r)
}

func (m Model) startEditing(field editField) (tea.Model, tea.Cmd) {
	sub, q, ok := m.selectedQuestion()
	if !ok {
		return m, nil
	}
	r := m.stores.Responses.Get(sub.ID, q.ID)

	m.editing = field
	if field == editNotes {
		m.input.Placeholder = "Notes"
		m.input.SetValue(r.Notes)
	} else {
		m.input.Placeholder = "Evidence file reference"
		m.input.SetValue(r.Evidence)
	}
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if sub, q, ok := m.selectedQuestion(); ok {
			r := m.stores.Responses.Get(sub.ID, q.ID)
			if m.editing == editNotes {
				r.Notes = m.input.Value()
			} else {
				r.Evidence = m.input.Value()
			}
			m.stores.Responses.Set(sub.ID, q.ID, r)
		}
		m.editing = editNone
		m.input.Blur()
		return m, nil

	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) pushCmd() tea.Cmd {
	svc := sync.NewService(m.stores.DB, m.stores.Content, m.stores.Responses)
	return func() tea.Msg {
		return syncDoneMsg{err: svc.Push(context.Background())}
	}
}

func (m Model) pullCmd() tea.Cmd {
	svc := sync.NewService(m.stores.DB, m.stores.Content, m.stores.Responses)
	return func() tea.Msg {
		// Already confirmed through the key prompt
		return syncDoneMsg{pull: true, err: svc.Pull(context.Background(), nil)}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.level {
	case LevelFrameworks:
		b.WriteString(m.renderFrameworks())
	case LevelSections:
		b.WriteString(m.renderSections())
	case LevelSubSections:
		b.WriteString(m.renderSubSections())
	case LevelQuestions:
		b.WriteString(m.renderQuestions())
	}

	if m.editing != editNone {
		b.WriteString("\n")
		label := "Notes"
		if m.editing == editEvidence {
			label = "Evidence"
		}
		b.WriteString(detailPanelStyle.Render(label + ": " + m.input.View()))
	}

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	if m.syncing {
		b.WriteString("\n" + m.spinner.View() + " Pushing...")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	trail := []string{"AuditKit"}
	if m.level >= LevelSections {
		trail = append(trail, m.framework().Title)
	}
	if m.level >= LevelSubSections {
		trail = append(trail, m.section().Title)
	}
	if m.level >= LevelQuestions {
		trail = append(trail, m.subSection().Title)
	}
	return titleStyle.Render(strings.Join(trail, " › "))
}

func (m Model) renderFrameworks() string {
	var b strings.Builder
	state := m.stores.Responses.State()
	frameworks := m.frameworks()
	counts := progress.AllFrameworks(frameworks, state)

	for i, fw := range frameworks {
		c := counts[fw.ID]
		line := fmt.Sprintf("%s %-32s", icon.Render(fw.Icon), fw.Title)
		if c.Total == 0 {
			line += subtitleStyle.Render("coming soon")
		} else {
			line += fmt.Sprintf("%s %3.0f%%", RenderProgressBar(c.Percent(), 20), c.Percent())
		}
		b.WriteString(m.renderItem(i, line))
	}
	return b.String()
}

func (m Model) renderSections() string {
	var b strings.Builder
	state := m.stores.Responses.State()

	for i, sec := range m.framework().Sections {
		c := progress.Section(sec, state)
		line := fmt.Sprintf("%s %-36s %d/%d", icon.Render(sec.Icon), sec.Title, c.Answered, c.Total)
		b.WriteString(m.renderItem(i, line))
	}
	return b.String()
}

func (m Model) renderSubSections() string {
	var b strings.Builder
	state := m.stores.Responses.State()

	for i, sub := range m.section().SubSections {
		c := progress.SubSection(sub, state)
		line := fmt.Sprintf("%-40s %s %d/%d", sub.Title, RenderProgressBar(c.Percent(), 12), c.Answered, c.Total)
		b.WriteString(m.renderItem(i, line))
	}
	return b.String()
}

func (m Model) renderQuestions() string {
	var b strings.Builder
	sub := m.subSection()

	for i, q := range sub.Questions {
		r := m.stores.Responses.Get(sub.ID, q.ID)
		line := fmt.Sprintf("%s %s %s", WorkflowIcon(r.WorkflowStatus), ResultIcon(r.ResultStatus), q.Text)
		b.WriteString(m.renderItem(i, line))

		if i == m.cursor[m.level] {
			detail := detailLabelStyle.Render("Priority") + string(q.Priority) + "\n" +
				detailLabelStyle.Render("Workflow") + string(r.WorkflowStatus) + "\n" +
				detailLabelStyle.Render("Result") + string(r.ResultStatus)
			if r.Notes != "" {
				detail += "\n" + detailLabelStyle.Render("Notes") + r.Notes
			}
			if r.Evidence != "" {
				detail += "\n" + detailLabelStyle.Render("Evidence") + r.Evidence
			}
			b.WriteString(normalItemStyle.Render(subtitleStyle.Render(detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderItem(i int, line string) string {
	if i == m.cursor[m.level] {
		return selectedItemStyle.Render("› "+line) + "\n"
	}
	return normalItemStyle.Render(line) + "\n"
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.editing != editNone:
		help = "  [Enter] Save  [Esc] Cancel"
	case m.confirmingPull:
		help = "  [y] Confirm pull  [any key] Cancel"
	case m.level == LevelQuestions:
		help = "  [w] Workflow  [r/Space] Result  [n] Notes  [e] Evidence  [Esc] Back  [s] Push  [p] Pull  [q] Quit"
	default:
		help = "  [↑↓] Move  [Enter] Open  [Esc] Back  [s] Push  [p] Pull  [q] Quit"
	}
	return helpStyle.Render(help)
}

// Run starts the dashboard against the database at dbPath
func Run(dbPath string) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	contentStore, err := content.NewStore(database)
	if err != nil {
		return err
	}
	responseStore, err := response.NewStore(database)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewModel(&Stores{DB: database, Content: contentStore, Responses: responseStore}),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
