// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
)

// Watcher reports changes made to persisted tasks outside this process.
type Watcher interface {
	Watch(ctx context.Context) (<-chan kv.Change, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	dateLayout string
	watcher    Watcher
	output     io.Writer
}

// WithDateLayout sets the layout used to display due dates.
func WithDateLayout(layout string) TUIOption {
	return func(c *tuiConfig) {
		c.dateLayout = layout
	}
}

// WithWatcher reloads the task list whenever w reports a change.
func WithWatcher(w Watcher) TUIOption {
	return func(c *tuiConfig) {
		c.watcher = w
	}
}

// WithOutput sets the terminal the TUI draws on. Defaults to stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI starts the TUI over s and blocks until the user quits.
func RunTUI(ctx context.Context, s *store.Store, engine *query.Engine, opts ...TUIOption) error {
	c := &tuiConfig{
		dateLayout: query.DefaultDateLayout,
		output:     os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan kv.Change
	if c.watcher != nil {
		ch, err := c.watcher.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watch tasks: %w", err)
		}
		changes = ch
	}

	model := NewModel(s, engine, c.dateLayout, changes)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	_, err := program.Run()
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
