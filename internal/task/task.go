// Package task defines study tasks, validates user input, and encodes the
// task collection for storage.
package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the storage format for due dates.
const DateLayout = "2006-01-02"

// DefaultSubject replaces a blank subject.
const DefaultSubject = "General"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid levels from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is one of the enumerated levels.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities(), p)
}

// PriorityNames returns the valid levels joined with "|", for usage text.
func PriorityNames() string {
	names := make([]string, 0, 3)
	for _, p := range Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, "|")
}

// Label returns the capitalized display text, e.g. "High".
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParsePriority parses a priority name case-insensitively.
// A blank value yields def.
func ParsePriority(s string, def Priority) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		if !def.Valid() {
			return "", fmt.Errorf("%w: default %q", ErrInvalidPriority, def)
		}
		return def, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task is a single study item.
type Task struct {
	ID        int64    `json:"id"`
	Subject   string   `json:"subject"`
	Topic     string   `json:"topic"`
	Date      string   `json:"date"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// DueOn reports whether the task's date falls on the same calendar day as day.
// Tasks with unparseable dates are never due.
func (t *Task) DueOn(day time.Time) bool {
	d, err := ParseDate(t.Date)
	if err != nil {
		return false
	}
	return SameDay(d, day.In(time.Local))
}

// ParseDate parses a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// SameDay compares the calendar components of a and b.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
