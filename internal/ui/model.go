package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
	"github.com/nibzard/studyplan/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeHelp
)

// Add form field order.
const (
	fieldSubject = iota
	fieldTopic
	fieldDate
	fieldPriority
	fieldCount
)

// Model is the bubbletea model for the task list.
type Model struct {
	store      *store.Store
	engine     *query.Engine
	dateLayout string
	changes    <-chan kv.Change

	mode   mode
	filter query.Filter
	view   query.ViewModel
	cursor int

	form   []textinput.Model
	focus  int
	edit   textinput.Model
	editID int64

	status    string
	statusErr bool
}

type changeMsg struct {
	err error
}

type watchClosedMsg struct{}

// NewModel returns a model listing every task. A nil changes channel
// disables live reload.
func NewModel(s *store.Store, engine *query.Engine, dateLayout string, changes <-chan kv.Change) *Model {
	if dateLayout == "" {
		dateLayout = query.DefaultDateLayout
	}
	m := &Model{
		store:      s,
		engine:     engine,
		dateLayout: dateLayout,
		changes:    changes,
		filter:     query.FilterAll,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.changes != nil {
		return waitForChange(m.changes)
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		if msg.err != nil {
			m.setError("watch: " + msg.err.Error())
		} else {
			m.reload()
		}
		if m.changes == nil {
			return m, nil
		}
		return m, waitForChange(m.changes)
	case watchClosedMsg:
		m.changes = nil
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Entries)-1 {
			m.cursor++
		}
	case "a":
		return m, m.openAdd()
	case " ", "space", "x":
		if e, ok := m.selected(); ok {
			found, err := m.store.ToggleComplete(e.ID)
			m.afterMutation(found, err, "Toggled "+quote(e.Topic))
		}
	case "e":
		if e, ok := m.selected(); ok {
			return m, m.openEdit(e)
		}
	case "d":
		if e, ok := m.selected(); ok {
			found, err := m.store.Remove(e.ID)
			m.afterMutation(found, err, "Deleted "+quote(e.Topic))
		}
	case "r":
		m.reload()
	case "h", "?":
		m.mode = modeHelp
	case "0", "1", "2", "3":
		m.filter = query.Filters()[int(msg.String()[0]-'0')]
		m.cursor = 0
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "h", "?", "esc", "q":
		m.mode = modeList
	}
	return m, nil
}

func (m *Model) openAdd() tea.Cmd {
	labels := [fieldCount]string{"Subject", "Topic", "Date", "Priority"}
	placeholders := [fieldCount]string{
		task.DefaultSubject,
		"What will you study?",
		task.DateLayout,
		string(m.store.DefaultPriority()),
	}
	m.form = make([]textinput.Model, fieldCount)
	for i := range m.form {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-9s ", labels[i]+":")
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		m.form[i] = in
	}
	m.form[fieldDate].SetValue(m.engine.Now().Format(task.DateLayout))
	m.focus = fieldSubject
	m.mode = modeAdd
	m.clearStatus()
	return m.form[m.focus].Focus()
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focus < fieldCount-1 {
			return m, m.focusField(m.focus + 1)
		}
		m.submitAdd()
		return m, nil
	}
	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.form[m.focus].Blur()
	m.focus = i
	return m.form[m.focus].Focus()
}

func (m *Model) submitAdd() {
	draft := task.Draft{
		Subject:  m.form[fieldSubject].Value(),
		Topic:    m.form[fieldTopic].Value(),
		Date:     m.form[fieldDate].Value(),
		Priority: m.form[fieldPriority].Value(),
	}
	created, err := m.store.Add(draft)
	var inputErr *task.InputError
	if errors.As(err, &inputErr) {
		m.setError(inputErr.Error())
		for i, name := range []string{"subject", "topic", "date", "priority"} {
			if name == inputErr.Field {
				m.focusField(i)
			}
		}
		return
	}
	m.closeForm()
	m.afterMutation(true, err, "Added "+quote(created.Topic))
}

func (m *Model) openEdit(e query.Entry) tea.Cmd {
	in := textinput.New()
	in.Prompt = "Topic: "
	in.CharLimit = 120
	in.SetValue(e.Topic)
	in.CursorEnd()
	m.edit = in
	m.editID = e.ID
	m.mode = modeEdit
	m.clearStatus()
	return m.edit.Focus()
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		return m, nil
	case "enter":
		topic := m.edit.Value()
		if _, err := task.NormalizeTopic(topic); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		found, err := m.store.UpdateTopic(m.editID, topic)
		m.mode = modeList
		m.afterMutation(found, err, "Updated topic")
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
}

// afterMutation refreshes the list and reports the outcome of a store call.
func (m *Model) afterMutation(found bool, err error, done string) {
	m.refresh()
	switch {
	case errors.Is(err, store.ErrPersist):
		m.setError("Warning: " + err.Error())
	case err != nil:
		m.setError(err.Error())
	case !found:
		m.setError("Task no longer exists")
	default:
		m.status, m.statusErr = done, false
	}
}

func (m *Model) reload() {
	m.store.Load()
	m.refresh()
}

// refresh rebuilds the view model and keeps the cursor in range.
func (m *Model) refresh() {
	m.view = m.engine.View(m.filter, m.dateLayout)
	if m.cursor >= len(m.view.Entries) {
		m.cursor = len(m.view.Entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (query.Entry, bool) {
	if len(m.view.Entries) == 0 {
		return query.Entry{}, false
	}
	return m.view.Entries[m.cursor], true
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

func (m *Model) clearStatus() {
	m.status, m.statusErr = "", false
}

func waitForChange(ch <-chan kv.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return changeMsg{err: c.Err}
	}
}

func quote(s string) string {
	return strconv.Quote(truncate(strings.TrimSpace(s), 40))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
