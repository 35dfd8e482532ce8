package query

import (
	"time"

	"github.com/nibzard/studyplan/internal/task"
)

// DefaultDateLayout is the display layout for due dates.
const DefaultDateLayout = "Jan 2, 2006"

// NoDate is shown for a due date that does not parse.
const NoDate = "No date"

// EmptyMessage is shown when a filter matches nothing.
const EmptyMessage = "No tasks yet. Add your first study task!"

// Entry is one rendered task row.
type Entry struct {
	ID            int64         `json:"id"`
	Topic         string        `json:"topic"`
	Date          string        `json:"date"`
	FormattedDate string        `json:"formatted_date"`
	SubjectBadge  string        `json:"subject"`
	PriorityBadge string        `json:"priority_label"`
	Priority      task.Priority `json:"priority"`
	Completed     bool          `json:"completed"`
	DueToday      bool          `json:"due_today"`
}

// ViewModel is everything a presentation layer needs to draw one screen.
type ViewModel struct {
	Filter       Filter  `json:"filter"`
	Entries      []Entry `json:"tasks"`
	Stats        Stats   `json:"stats"`
	TodaySubject string  `json:"today_subject"`
	EmptyMessage string  `json:"-"`
}

// IsEmpty reports whether the filtered list has no entries.
func (v ViewModel) IsEmpty() bool {
	return len(v.Entries) == 0
}

// View builds the view model for filter f. Dates are rendered with layout;
// blank layout uses DefaultDateLayout.
func (e *Engine) View(f Filter, layout string) ViewModel {
	if layout == "" {
		layout = DefaultDateLayout
	}
	today := e.now()

	filtered := e.Filtered(f)
	entries := make([]Entry, 0, len(filtered))
	for _, t := range filtered {
		entries = append(entries, NewEntry(t, layout, today))
	}

	vm := ViewModel{
		Filter:       f,
		Entries:      entries,
		Stats:        e.Stats(),
		TodaySubject: e.TopSubjectToday(),
	}
	if vm.IsEmpty() {
		vm.EmptyMessage = EmptyMessage
	}
	return vm
}

// NewEntry renders a single task.
func NewEntry(t task.Task, layout string, today time.Time) Entry {
	subject := t.Subject
	if subject == "" {
		subject = task.DefaultSubject
	}
	return Entry{
		ID:            t.ID,
		Topic:         t.Topic,
		Date:          t.Date,
		FormattedDate: FormatDate(t.Date, layout),
		SubjectBadge:  subject,
		PriorityBadge: t.Priority.Label(),
		Priority:      t.Priority,
		Completed:     t.Completed,
		DueToday:      t.DueOn(today),
	}
}

// FormatDate renders a stored date with layout, or NoDate.
func FormatDate(date, layout string) string {
	d, err := task.ParseDate(date)
	if err != nil {
		return NoDate
	}
	return d.Format(layout)
}
