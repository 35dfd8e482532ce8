package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
	"github.com/nibzard/studyplan/internal/task"
)

var today = time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

func clock() time.Time { return today }

// failingKV reads fine but refuses every write.
type failingKV struct{ kv.Store }

func (failingKV) Set(string, string) error { return errors.New("disk full") }

func newTestModel(t *testing.T, backend kv.Store, drafts ...task.Draft) (*Model, *store.Store) {
	t.Helper()
	s := store.New(backend, store.WithClock(clock))
	s.Load()
	for _, d := range drafts {
		if _, err := s.Add(d); err != nil {
			t.Fatalf("Add(%+v): %v", d, err)
		}
	}
	return NewModel(s, query.New(s, clock), "", nil), s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemoryStore())
	out := m.View()
	for _, want := range []string{"Study Planner", query.EmptyMessage, "Total: 0", "Today: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestAddForm(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore())

	press(m, "a")
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add", m.mode)
	}
	if got := m.form[fieldDate].Value(); got != "2024-06-10" {
		t.Errorf("date prefill = %q", got)
	}

	typeText(m, "Math")
	press(m, "tab")
	typeText(m, "Algebra")
	press(m, "enter", "enter")
	typeText(m, "high")
	press(m, "enter")

	if m.mode != modeList {
		t.Fatalf("mode = %v, want list after submit", m.mode)
	}
	if s.Len() != 1 {
		t.Fatalf("store has %d tasks, want 1", s.Len())
	}
	got := s.Tasks()[0]
	if got.Subject != "Math" || got.Topic != "Algebra" || got.Date != "2024-06-10" || got.Priority != task.PriorityHigh {
		t.Errorf("added %+v", got)
	}
	if m.statusErr || !strings.Contains(m.status, "Algebra") {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
	out := m.View()
	if !strings.Contains(out, "[Math]") || !strings.Contains(out, "(High)") || !strings.Contains(out, "Today: Math") {
		t.Errorf("view after add:\n%s", out)
	}
}

func TestAddFormRejectsBlankTopic(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore())

	press(m, "a", "enter", "enter", "enter", "enter")

	if m.mode != modeAdd {
		t.Fatalf("form should stay open, mode = %v", m.mode)
	}
	if s.Len() != 0 {
		t.Errorf("store changed on invalid input: %d tasks", s.Len())
	}
	if !m.statusErr || !strings.Contains(m.status, "topic") {
		t.Errorf("status = %q", m.status)
	}
	if m.focus != fieldTopic {
		t.Errorf("focus = %d, want topic field", m.focus)
	}

	press(m, "esc")
	if m.mode != modeList || m.form != nil {
		t.Errorf("esc should close the form")
	}
}

func TestToggleAndDelete(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore(),
		task.Draft{Subject: "Math", Topic: "Algebra", Date: "2024-06-10"},
		task.Draft{Subject: "Bio", Topic: "Cells", Date: "2024-06-11"},
	)

	press(m, "space")
	if !s.Tasks()[0].Completed {
		t.Fatal("space should toggle the selected task")
	}
	press(m, "x")
	if s.Tasks()[0].Completed {
		t.Fatal("x should toggle the task back")
	}

	press(m, "down", "d")
	if s.Len() != 1 || s.Tasks()[0].Topic != "Algebra" {
		t.Fatalf("delete removed the wrong task: %+v", s.Tasks())
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after deleting the last row", m.cursor)
	}
}

func TestEditTopic(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore(), task.Draft{Topic: "Algebra", Date: "2024-06-10"})

	press(m, "e")
	if m.mode != modeEdit {
		t.Fatalf("mode = %v, want edit", m.mode)
	}
	if m.edit.Value() != "Algebra" {
		t.Errorf("edit prefill = %q", m.edit.Value())
	}

	m.edit.SetValue("   ")
	press(m, "enter")
	if m.mode != modeEdit || !m.statusErr {
		t.Errorf("blank topic should keep the editor open with an error")
	}
	if s.Tasks()[0].Topic != "Algebra" {
		t.Errorf("blank edit changed the topic")
	}

	m.edit.SetValue("  Linear algebra ")
	press(m, "enter")
	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	if got := s.Tasks()[0].Topic; got != "Linear algebra" {
		t.Errorf("topic = %q", got)
	}
}

func TestEditCancel(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore(), task.Draft{Topic: "Algebra", Date: "2024-06-10"})
	press(m, "e")
	typeText(m, " II")
	press(m, "esc")
	if m.mode != modeList || s.Tasks()[0].Topic != "Algebra" {
		t.Errorf("esc should discard the edit")
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemoryStore(),
		task.Draft{Topic: "a", Date: "2024-06-10"},
		task.Draft{Topic: "b", Date: "2024-06-12"},
	)
	press(m, "x")

	tests := []struct {
		key  string
		want query.Filter
		n    int
	}{
		{"1", query.FilterToday, 1},
		{"2", query.FilterPending, 1},
		{"3", query.FilterCompleted, 1},
		{"0", query.FilterAll, 2},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if m.filter != tt.want || len(m.view.Entries) != tt.n {
			t.Errorf("key %s: filter %q with %d entries, want %q with %d", tt.key, m.filter, len(m.view.Entries), tt.want, tt.n)
		}
	}
}

func TestEmptyFilterIgnoresActions(t *testing.T) {
	m, s := newTestModel(t, kv.NewMemoryStore(), task.Draft{Topic: "a", Date: "2024-06-12"})
	press(m, "3", "x", "d", "e")
	if m.mode != modeList || s.Len() != 1 || s.Tasks()[0].Completed {
		t.Errorf("actions on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), query.EmptyMessage) {
		t.Errorf("empty filter should show the empty message")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemoryStore())
	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	press(m, "h")
	if m.mode != modeList {
		t.Errorf("h should close help")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemoryStore())
	if _, cmd := m.Update(key("q")); !isQuit(cmd) {
		t.Error("q should quit")
	}
	press(m, "a", "q")
	if m.mode != modeAdd || m.form[fieldSubject].Value() != "q" {
		t.Error("q inside the form should be typed, not quit")
	}
	if _, cmd := m.Update(key("ctrl+c")); !isQuit(cmd) {
		t.Error("ctrl+c should always quit")
	}
}

func TestPersistFailureShowsWarning(t *testing.T) {
	m, broken := newTestModel(t, failingKV{kv.NewMemoryStore()})

	press(m, "a", "tab")
	typeText(m, "Optics")
	press(m, "enter", "enter", "enter")

	if broken.Len() != 1 {
		t.Fatalf("change should stay applied, got %d tasks", broken.Len())
	}
	if !m.statusErr || !strings.HasPrefix(m.status, "Warning:") {
		t.Errorf("status = %q", m.status)
	}
}

func TestChangeReloads(t *testing.T) {
	backend := kv.NewMemoryStore()
	m, _ := newTestModel(t, backend)

	other := store.New(backend, store.WithClock(clock))
	other.Load()
	if _, err := other.Add(task.Draft{Subject: "Art", Topic: "Color", Date: "2024-06-10"}); err != nil {
		t.Fatal(err)
	}

	ch := make(chan kv.Change, 1)
	m.changes = ch
	_, cmd := m.Update(changeMsg{})
	if len(m.view.Entries) != 1 || m.view.Entries[0].Topic != "Color" {
		t.Fatalf("change did not reload: %+v", m.view.Entries)
	}
	if cmd == nil {
		t.Fatal("expected a command waiting for the next change")
	}

	close(ch)
	if msg := cmd(); msg != (watchClosedMsg{}) {
		t.Errorf("closed channel produced %#v", msg)
	}
	m.Update(watchClosedMsg{})
	if m.changes != nil {
		t.Error("closed watch should be dropped")
	}

	m.Update(changeMsg{err: errors.New("boom")})
	if !m.statusErr || !strings.Contains(m.status, "boom") {
		t.Errorf("status = %q", m.status)
	}
}

func TestInitWithoutWatcher(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemoryStore())
	if cmd := m.Init(); cmd != nil {
		t.Error("Init without a watcher should return nil")
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s := store.New(kv.NewMemoryStore())
	err := RunTUI(ctx, s, query.New(s, nil), WithOutput(&bytes.Buffer{}))
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("RunTUI error = %v", err)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ééééééééééééé", 6); got != "ééé..." {
		t.Errorf("truncate = %q", got)
	}
}
