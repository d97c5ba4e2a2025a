package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
	"pgregory.net/rapid"
)

// Property: Completed Tasks Never Alert
// For any collection, no date alert names a completed task, and every
// overdue alert names a task due strictly before today.
func TestProperty_AlertsOnlyForOpenTasks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		tasks := make(staticTasks, n)
		byID := make(map[string]models.Task, n)
		for i := range tasks {
			offset := rapid.IntRange(-10, 10).Draw(rt, fmt.Sprintf("offset_%d", i))
			tasks[i] = models.Task{
				ID:        fmt.Sprintf("t%d", i),
				Text:      "task",
				DueDate:   alertNow.AddDate(0, 0, offset).Format("2006-01-02"),
				Completed: rapid.Bool().Draw(rt, fmt.Sprintf("completed_%d", i)),
			}
			byID[tasks[i].ID] = tasks[i]
		}
		days := rapid.IntRange(0, 5).Draw(rt, "dueSoonDays")

		engine := newAlertEngine(tasks, AlertThresholds{DueSoonDays: days}, func() time.Time { return alertNow })
		alerts, err := engine.Evaluate()
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		today := alertNow.Format("2006-01-02")
		for _, a := range alerts {
			task, ok := byID[a.TaskID]
			if !ok {
				rt.Fatalf("alert for unknown task %q", a.TaskID)
			}
			if task.Completed {
				rt.Fatalf("alert %s for completed task %s", a.Condition, task.ID)
			}
			if a.Condition == ConditionOverdue && task.DueDate >= today {
				rt.Fatalf("overdue alert for task due %s (today %s)", task.DueDate, today)
			}
			if a.Condition == ConditionDueSoon && task.DueDate < today {
				rt.Fatalf("due-soon alert for past task due %s", task.DueDate)
			}
		}
	})
}
