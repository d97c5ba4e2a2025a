package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

// printTasks writes view as a numbered list. Numbers are positions in all,
// the stored collection, so they stay valid for toggle and rm whatever the
// filter or sort.
func printTasks(w io.Writer, all []models.Task, view core.View, now time.Time) {
	if view.Total == 0 {
		fmt.Fprintln(w, "No tasks. Add one with: todo add <text> --due YYYY-MM-DD")
		return
	}

	position := make(map[string]int, len(all))
	for i, t := range all {
		position[t.ID] = i + 1
	}

	today := core.Today(now)
	for _, t := range view.Tasks {
		fmt.Fprintf(w, "%3d. %s %s  (due %s%s)\n",
			position[t.ID], checkbox(t.Completed), t.Text, t.DueDate, dueNote(t, today))
	}
	if len(view.Tasks) == 0 {
		fmt.Fprintf(w, "No %s tasks.\n", view.Filter)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%d task(s): %d active, %d completed", view.Total, view.Active, view.Completed)
	if view.Filter != models.FilterAll {
		fmt.Fprintf(&b, "; showing %s", view.Filter)
	}
	if view.SortByDate {
		b.WriteString(", by due date")
	}
	fmt.Fprintln(w, b.String())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// dueNote marks open tasks that are overdue or due today.
func dueNote(t models.Task, today string) string {
	if t.Completed {
		return ""
	}
	due, ok := core.ParseDueDate(t.DueDate)
	if !ok {
		return ""
	}
	ref, _ := core.ParseDueDate(today)
	switch {
	case due.Before(ref):
		return ", overdue"
	case due.Equal(ref):
		return ", today"
	default:
		return ""
	}
}
