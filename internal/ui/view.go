package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Faint(true)
	subjectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	todayStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	priorityStyle = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.mode == modeHelp {
		writeHelp(&b)
		return b.String()
	}

	writeOverview(&b, m.view)
	writeFilters(&b, m.filter)

	switch m.mode {
	case modeAdd:
		writeForm(&b, m)
	case modeEdit:
		b.WriteString("Edit task\n\n")
		b.WriteString("  " + m.edit.View() + "\n\n")
		b.WriteString(subtleStyle.Render("enter save | esc cancel") + "\n\n")
	default:
		writeTasks(&b, m.view, m.cursor)
	}

	writeStatus(&b, m.status, m.statusErr)
	writeFooter(&b, m.mode)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Study Planner"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, vm query.ViewModel) {
	fmt.Fprintf(b, "  Total: %d  Completed: %d  Progress: %d%%  Today: %s\n\n",
		vm.Stats.Total,
		vm.Stats.Completed,
		vm.Stats.CompletionRate,
		subjectStyle.Render(vm.TodaySubject),
	)
}

func writeFilters(b *strings.Builder, current query.Filter) {
	parts := make([]string, 0, len(query.Filters()))
	for i, f := range query.Filters() {
		label := fmt.Sprintf("%d %s", i, f)
		if f == current {
			label = titleStyle.Render("[" + label + "]")
		} else {
			label = subtleStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}
	b.WriteString("  " + strings.Join(parts, " ") + "\n\n")
}

func writeTasks(b *strings.Builder, vm query.ViewModel, cursor int) {
	if vm.IsEmpty() {
		b.WriteString("  " + vm.EmptyMessage + "\n\n")
		return
	}
	for i, e := range vm.Entries {
		b.WriteString(formatEntry(e, i == cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatEntry(e query.Entry, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	check := "[ ]"
	topic := e.Topic
	if e.Completed {
		check = "[x]"
		topic = doneStyle.Render(topic)
	}
	date := fmt.Sprintf("%-12s", e.FormattedDate)
	if e.DueToday && !e.Completed {
		date = todayStyle.Render(date)
	}
	style, ok := priorityStyle[e.Priority]
	if !ok {
		style = subtleStyle
	}
	return fmt.Sprintf("%s%s %s %s %s %s",
		pointer,
		check,
		date,
		subjectStyle.Render("["+e.SubjectBadge+"]"),
		topic,
		style.Render("("+e.PriorityBadge+")"),
	)
}

func writeForm(b *strings.Builder, m *Model) {
	b.WriteString("New task\n\n")
	for _, in := range m.form {
		b.WriteString("  " + in.View() + "\n")
	}
	b.WriteString("\n" + subtleStyle.Render("tab/enter next field | enter on priority saves | esc cancel") + "\n\n")
}

func writeStatus(b *strings.Builder, status string, isErr bool) {
	if status == "" {
		return
	}
	if isErr {
		b.WriteString(errorStyle.Render(status) + "\n\n")
		return
	}
	b.WriteString(okStyle.Render(status) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  e            Edit topic\n")
	b.WriteString("  d            Delete task\n")
	b.WriteString("  r            Reload saved tasks\n")
	b.WriteString("  0            Show all tasks\n")
	b.WriteString("  1            Show tasks due today\n")
	b.WriteString("  2            Show pending tasks\n")
	b.WriteString("  3            Show completed tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, md mode) {
	if md != modeList {
		return
	}
	b.WriteString(subtleStyle.Render("Press h for help | a to add | q to quit") + "\n")
}
