// Package store owns the in-memory task collection and persists it through a
// key-value store after every change.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/logging"
	"github.com/nibzard/studyplan/internal/task"
)

// DefaultKey is the storage key holding the whole collection.
const DefaultKey = "smart_study_tasks"

// ErrPersist wraps failures to write the collection. The in-memory change
// that triggered the write is kept.
var ErrPersist = errors.New("could not save tasks")

// Store is the single owner of the task collection. Tasks are kept in
// insertion order. A Store is not safe for concurrent use.
type Store struct {
	backend         kv.Store
	key             string
	now             func() time.Time
	defaultPriority task.Priority
	logger          *log.Logger

	tasks []task.Task
	// rejected holds a saved blob that failed to decode until it is backed
	// up by the first save that would overwrite it.
	rejected string
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultPriority sets the priority used when a draft leaves it blank.
func WithDefaultPriority(p task.Priority) Option {
	return func(s *Store) {
		if p.Valid() {
			s.defaultPriority = p
		}
	}
}

// WithLogger sets the logger for load and save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an empty store over backend. Call Load to read saved tasks.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend:         backend,
		key:             DefaultKey,
		now:             time.Now,
		defaultPriority: task.PriorityMedium,
		logger:          logging.Discard(),
		tasks:           []task.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// DefaultPriority returns the priority applied to drafts without one.
func (s *Store) DefaultPriority() task.Priority {
	return s.defaultPriority
}

// Load replaces the collection with the saved one. A missing, unreadable,
// or malformed blob leaves an empty collection; the cause is logged, never
// returned. A malformed blob is copied to BackupKey before the next save
// replaces it.
func (s *Store) Load() {
	s.tasks = []task.Task{}
	s.rejected = ""

	blob, ok, err := s.backend.Get(s.key)
	if err != nil {
		s.logger.Warn("Could not read saved tasks, starting empty", "key", s.key, "err", err)
		return
	}
	if !ok {
		s.logger.Debug("No saved tasks", "key", s.key)
		return
	}

	tasks, err := task.Decode(blob)
	if err != nil {
		s.logger.Warn("Saved tasks are malformed, starting empty", "key", s.key, "err", err)
		s.rejected = blob
		return
	}
	s.tasks = tasks
	s.logger.Debug("Loaded tasks", "key", s.key, "count", len(tasks))
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (task.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Add validates d and appends a new pending task. Invalid input returns a
// *task.InputError and leaves the collection unchanged.
func (s *Store) Add(d task.Draft) (task.Task, error) {
	t, err := d.Normalize(s.defaultPriority)
	if err != nil {
		return task.Task{}, err
	}
	t.ID = s.nextID()
	t.Completed = false
	s.tasks = append(s.tasks, t)
	s.logger.Debug("Added task", "id", t.ID, "subject", t.Subject, "topic", t.Topic)
	return t, s.save()
}

// ToggleComplete flips the completed flag. It reports false, with no error,
// when id is unknown.
func (s *Store) ToggleComplete(id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("Toggled task", "id", id, "completed", s.tasks[i].Completed)
	return true, s.save()
}

// UpdateTopic replaces the topic of task id. A blank topic or unknown id is
// a no-op reported as false.
func (s *Store) UpdateTopic(id int64, newTopic string) (bool, error) {
	topic, err := task.NormalizeTopic(newTopic)
	if err != nil {
		return false, nil
	}
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Topic = topic
	s.logger.Debug("Updated topic", "id", id, "topic", topic)
	return true, s.save()
}

// Remove deletes task id. It reports false, with no error, when id is unknown.
func (s *Store) Remove(id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("Removed task", "id", id)
	return true, s.save()
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the current Unix millisecond, bumped past every existing id so
// ids stay unique when tasks are created within the same millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// BackupKey returns the key a malformed blob is copied to when it is
// replaced at time t.
func BackupKey(key string, t time.Time) string {
	return fmt.Sprintf("%s.corrupt-%s", key, t.UTC().Format("20060102-150405"))
}

func (s *Store) save() error {
	blob, err := task.Encode(s.tasks)
	if err != nil {
		s.logger.Error("Could not encode tasks", "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if s.rejected != "" {
		backup := BackupKey(s.key, s.now())
		if err := s.backend.Set(backup, s.rejected); err != nil {
			s.logger.Warn("Could not back up malformed tasks", "key", backup, "err", err)
			return fmt.Errorf("%w: back up malformed tasks: %w", ErrPersist, err)
		}
		s.logger.Warn("Backed up malformed tasks", "key", backup)
		s.rejected = ""
	}
	if err := s.backend.Set(s.key, blob); err != nil {
		s.logger.Warn("Could not save tasks", "key", s.key, "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
