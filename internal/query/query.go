// Package query derives filtered views, statistics, and view models from the
// task collection without modifying it.
package query

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nibzard/studyplan/internal/task"
	"github.com/nibzard/studyplan/internal/utils"
)

// NoSubject is returned by TopSubjectToday when nothing is due today.
const NoSubject = "none"

// Filter names a subset of the collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterToday, FilterPending, FilterCompleted}
}

// ParseFilter parses a filter name. Blank means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(utils.NormalizeName(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterPending, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (expected all|today|pending|completed)", s)
	}
}

// TaskSource provides the collection in insertion order.
type TaskSource interface {
	Tasks() []task.Task
}

// Stats summarizes the collection.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"` // percent, rounded
}

// Engine answers read-only questions about a TaskSource.
type Engine struct {
	src TaskSource
	now func() time.Time
}

// New returns an engine over src. A nil now uses time.Now.
func New(src TaskSource, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{src: src, now: now}
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Filtered returns the tasks matching f sorted by due date, oldest first.
// Equal dates keep insertion order; unparseable dates go last.
func (e *Engine) Filtered(f Filter) []task.Task {
	today := e.now()
	var out []task.Task
	for _, t := range e.src.Tasks() {
		if matches(&t, f, today) {
			out = append(out, t)
		}
	}
	sortByDate(out)
	return out
}

func matches(t *task.Task, f Filter, today time.Time) bool {
	switch f {
	case FilterToday:
		return t.DueOn(today)
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func sortByDate(tasks []task.Task) {
	type keyed struct {
		at time.Time
		ok bool
	}
	keys := make(map[int64]keyed, len(tasks))
	for _, t := range tasks {
		at, err := task.ParseDate(t.Date)
		keys[t.ID] = keyed{at: at, ok: err == nil}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		ki, kj := keys[tasks[i].ID], keys[tasks[j].ID]
		if ki.ok != kj.ok {
			return ki.ok
		}
		return ki.at.Before(kj.at)
	})
}

// Stats counts total and completed tasks.
func (e *Engine) Stats() Stats {
	var st Stats
	for _, t := range e.src.Tasks() {
		st.Total++
		if t.Completed {
			st.Completed++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}

// TopSubjectToday returns the most common subject among pending tasks due
// today. Ties go to the subject seen first in insertion order.
func (e *Engine) TopSubjectToday() string {
	today := e.now()
	counts := map[string]int{}
	var order []string
	for _, t := range e.src.Tasks() {
		if t.Completed || !t.DueOn(today) {
			continue
		}
		if _, seen := counts[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		counts[t.Subject]++
	}

	top, best := NoSubject, 0
	for _, subject := range order {
		if counts[subject] > best {
			top, best = subject, counts[subject]
		}
	}
	return top
}
