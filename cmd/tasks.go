package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
	"github.com/nibzard/studyplan/internal/task"
)

// listCommand prints the filtered task list.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan list", flag.ContinueOnError)
	filterName := fs.String("filter", string(query.FilterAll), "Show all|today|pending|completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	// Allow "studyplan list today" as a shorthand.
	if len(remaining) == 1 {
		*filterName = remaining[0]
	}
	filter, err := query.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	vm := a.engine.View(filter, cfg.DateFormat)
	printSummary(vm)
	if vm.IsEmpty() {
		fmt.Println(vm.EmptyMessage)
		return nil
	}
	fmt.Println(renderTable(vm))
	return nil
}

// addCommand creates a task from flags. A trailing argument is used as the
// topic when -topic is not given.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan add", flag.ContinueOnError)
	subject := fs.String("subject", "", "Subject (default General)")
	topic := fs.String("topic", "", "Topic to study")
	date := fs.String("date", "today", "Due date as YYYY-MM-DD or today")
	priority := fs.String("priority", "", task.PriorityNames())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *topic == "" && fs.NArg() > 0 {
		*topic = strings.Join(fs.Args(), " ")
	} else if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.store.Add(task.Draft{
		Subject:  *subject,
		Topic:    *topic,
		Date:     resolveDate(*date),
		Priority: *priority,
	})
	var inputErr *task.InputError
	if errors.As(err, &inputErr) {
		return fmt.Errorf("invalid task: %w", err)
	}
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return err
	}
	fmt.Printf("Added task %d: %s [%s] due %s (%s)\n",
		created.ID, created.Topic, created.Subject,
		query.FormatDate(created.Date, cfg.DateFormat), created.Priority.Label())
	return err
}

// toggleCommand flips the completed flag of a task.
func toggleCommand(cfg *config.Config, args []string) error {
	id, err := parseID("toggle", args, 1)
	if err != nil {
		return err
	}
	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.store.ToggleComplete(id)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return err
	}
	if !found {
		reportMissing(id)
		return nil
	}
	t, _ := a.store.Get(id)
	state := "pending"
	if t.Completed {
		state = "completed"
	}
	fmt.Printf("Task %d marked %s\n", id, state)
	return err
}

// editCommand replaces the topic of a task.
func editCommand(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: studyplan edit <id> <topic>")
	}
	id, err := parseID("edit", args[:1], 1)
	if err != nil {
		return err
	}
	topic, err := task.NormalizeTopic(strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("invalid topic: %w", err)
	}

	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.store.UpdateTopic(id, topic)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return err
	}
	if !found {
		reportMissing(id)
		return nil
	}
	fmt.Printf("Task %d topic set to %q\n", id, topic)
	return err
}

// removeCommand deletes a task.
func removeCommand(cfg *config.Config, args []string) error {
	id, err := parseID("rm", args, 1)
	if err != nil {
		return err
	}
	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.store.Remove(id)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return err
	}
	if !found {
		reportMissing(id)
		return nil
	}
	fmt.Printf("Deleted task %d\n", id)
	return err
}

// statsCommand prints totals and today's top subject.
func statsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan stats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.engine.Stats()
	subject := a.engine.TopSubjectToday()
	if *asJSON {
		data, err := json.MarshalIndent(struct {
			query.Stats
			TodaySubject string `json:"today_subject"`
		}{st, subject}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Total:     %d\n", st.Total)
	fmt.Printf("Completed: %d\n", st.Completed)
	fmt.Printf("Progress:  %d%%\n", st.CompletionRate)
	fmt.Printf("Today:     %s\n", subject)
	return nil
}

func printSummary(vm query.ViewModel) {
	fmt.Printf("%d tasks, %d completed (%d%%), today: %s [filter: %s]\n\n",
		vm.Stats.Total, vm.Stats.Completed, vm.Stats.CompletionRate, vm.TodaySubject, vm.Filter)
}

func renderTable(vm query.ViewModel) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Done", "Due", "Subject", "Priority", "Topic")
	for _, e := range vm.Entries {
		done := " "
		if e.Completed {
			done = "x"
		}
		t.Row(strconv.FormatInt(e.ID, 10), done, e.FormattedDate, e.SubjectBadge, e.PriorityBadge, e.Topic)
	}
	return t.String()
}

// resolveDate maps "today" to the current local date.
func resolveDate(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return now().Format(task.DateLayout)
	}
	return s
}

func parseID(command string, args []string, want int) (int64, error) {
	if len(args) != want {
		return 0, fmt.Errorf("usage: studyplan %s <id>", command)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// reportMissing notes an unknown id. Acting on a missing task is a no-op,
// not a failure.
func reportMissing(id int64) {
	fmt.Fprintf(os.Stderr, "no task with id %d\n", id)
}
