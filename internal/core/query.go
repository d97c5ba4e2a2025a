package core

import (
	"slices"
	"strings"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
)

// dueDateLayout is the calendar date form used for due dates (ISO 8601).
const dueDateLayout = "2006-01-02"

// ParseFilter maps user input to a Filter. Matching ignores case and
// surrounding whitespace; anything unrecognised yields FilterAll.
func ParseFilter(s string) models.Filter {
	switch f := models.Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case models.FilterCompleted, models.FilterActive:
		return f
	default:
		return models.FilterAll
	}
}

// FilterByStatus returns the tasks matching filter, preserving order.
// FilterAll and unknown filters return a copy of the whole input.
func FilterByStatus(tasks []models.Task, filter models.Filter) []models.Task {
	switch filter {
	case models.FilterCompleted:
		return filterTasks(tasks, func(t models.Task) bool { return t.Completed })
	case models.FilterActive:
		return filterTasks(tasks, func(t models.Task) bool { return !t.Completed })
	default:
		return slices.Clone(tasks)
	}
}

func filterTasks(tasks []models.Task, keep func(models.Task) bool) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// ParseDueDate parses a due date as a calendar date. It accepts YYYY-MM-DD
// and RFC 3339 timestamps, whose time of day is dropped. The result is
// midnight UTC of that date.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(dueDateLayout, s); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// SortByDueDate returns a copy of tasks ordered by ascending due date.
// The sort is stable. Tasks whose due date cannot be parsed go after every
// valid date and keep their relative order.
func SortByDueDate(tasks []models.Task) []models.Task {
	type keyed struct {
		task  models.Task
		due   time.Time
		valid bool
	}
	items := make([]keyed, len(tasks))
	for i, t := range tasks {
		due, ok := ParseDueDate(t.DueDate)
		items[i] = keyed{task: t, due: due, valid: ok}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.valid && b.valid:
			return a.due.Compare(b.due)
		case a.valid:
			return -1
		case b.valid:
			return 1
		default:
			return 0
		}
	})

	result := make([]models.Task, len(items))
	for i, item := range items {
		result[i] = item.task
	}
	return result
}

// Today returns the date of now in UTC, formatted as a due date.
func Today(now time.Time) string {
	return now.UTC().Format(dueDateLayout)
}
