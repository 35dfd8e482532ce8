package task

import (
	"errors"
	"fmt"
	"strings"
)

// Input errors. Callers match them with errors.Is.
var (
	ErrBlankTopic      = errors.New("topic is required")
	ErrBlankDate       = errors.New("date is required")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidPriority = errors.New("priority must be one of " + PriorityNames())
)

// InputError reports which field of a draft was rejected.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Draft is the raw user input for a new task.
type Draft struct {
	Subject  string
	Topic    string
	Date     string
	Priority string
}

// Normalize trims and validates the draft. On success the returned task has
// every field except ID and Completed filled in.
func (d Draft) Normalize(defaultPriority Priority) (Task, error) {
	topic, err := NormalizeTopic(d.Topic)
	if err != nil {
		return Task{}, &InputError{Field: "topic", Err: err}
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		return Task{}, &InputError{Field: "date", Err: ErrBlankDate}
	}
	parsed, err := ParseDate(date)
	if err != nil {
		return Task{}, &InputError{Field: "date", Err: fmt.Errorf("%w: got %q", ErrInvalidDate, date)}
	}

	priority, err := ParsePriority(d.Priority, defaultPriority)
	if err != nil {
		return Task{}, &InputError{Field: "priority", Err: err}
	}

	subject := strings.TrimSpace(d.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	return Task{
		Subject:  subject,
		Topic:    topic,
		Date:     parsed.Format(DateLayout),
		Priority: priority,
	}, nil
}

// NormalizeTopic trims s and rejects it if nothing is left.
func NormalizeTopic(s string) (string, error) {
	topic := strings.TrimSpace(s)
	if topic == "" {
		return "", ErrBlankTopic
	}
	return topic, nil
}
