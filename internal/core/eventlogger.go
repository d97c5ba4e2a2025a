package core

import (
	"github.com/valter-silva-au/todo/pkg/models"
)

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// ChangeListener is called after a mutation has been persisted.
type ChangeListener func(event models.ChangeEvent)

// Event types recorded for task changes.
const (
	EventTaskAdded     = "task.added"
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
	EventTaskDeleted   = "task.deleted"
	EventTasksSeeded   = "tasks.seeded"
	EventTasksSorted   = "tasks.sorted"
)

// NewEventLogListener returns a ChangeListener that records every change in
// the given EventLogger. Write failures are dropped: by the time a listener
// runs the change is already persisted.
func NewEventLogListener(logger EventLogger) ChangeListener {
	return func(event models.ChangeEvent) {
		data := map[string]any{"count": len(event.Tasks)}
		if event.Task != nil {
			data["task_id"] = event.Task.ID
			data["due_date"] = event.Task.DueDate
		}
		_ = logger.LogEvent(eventTypeFor(event), data)
	}
}

func eventTypeFor(event models.ChangeEvent) string {
	switch event.Kind {
	case models.ChangeAdded:
		return EventTaskAdded
	case models.ChangeToggled:
		if event.Task != nil && event.Task.Completed {
			return EventTaskCompleted
		}
		return EventTaskReopened
	case models.ChangeDeleted:
		return EventTaskDeleted
	case models.ChangeSeeded:
		return EventTasksSeeded
	case models.ChangeSorted:
		return EventTasksSorted
	default:
		return "task." + string(event.Kind)
	}
}
