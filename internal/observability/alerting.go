package observability

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionOverdue     = "task_overdue"
	ConditionDueSoon     = "task_due_soon"
	ConditionTooManyOpen = "too_many_open"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TaskID      string        `json:"task_id,omitempty"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	// DueSoonDays is how many days ahead of today an open task counts as due
	// soon. Tasks due today always count.
	DueSoonDays int `yaml:"due_soon_days" json:"due_soon_days"`
	// MaxOpen is the open-task count above which too_many_open fires.
	// Zero disables the check.
	MaxOpen int `yaml:"max_open" json:"max_open"`
}

// DefaultAlertThresholds returns the thresholds used when none are configured.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{DueSoonDays: 1, MaxOpen: 20}
}

// TaskLister provides the current task collection.
type TaskLister interface {
	GetAll() []models.Task
}

// AlertEngine evaluates alert conditions against the task collection.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	tasks      TaskLister
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine over tasks.
func NewAlertEngine(tasks TaskLister, thresholds AlertThresholds) AlertEngine {
	return newAlertEngine(tasks, thresholds, time.Now)
}

func newAlertEngine(tasks TaskLister, thresholds AlertThresholds, now func() time.Time) *alertEngine {
	return &alertEngine{tasks: tasks, thresholds: thresholds, now: now}
}

// Evaluate checks every open task against today's date. Completed tasks and
// tasks whose due date cannot be parsed never raise date alerts. Alerts are
// returned in stored task order, with the open-count alert last.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now().UTC()
	today, _ := core.ParseDueDate(core.Today(now))
	horizon := today.AddDate(0, 0, ae.thresholds.DueSoonDays)

	var alerts []Alert
	open := 0
	for _, task := range ae.tasks.GetAll() {
		if task.Completed {
			continue
		}
		open++

		due, ok := core.ParseDueDate(task.DueDate)
		if !ok {
			continue
		}
		switch {
		case due.Before(today):
			alerts = append(alerts, Alert{
				ID:          "overdue-" + task.ID,
				Condition:   ConditionOverdue,
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("%q was due on %s", task.Text, task.DueDate),
				TaskID:      task.ID,
				TriggeredAt: now,
			})
		case !due.After(horizon):
			alerts = append(alerts, Alert{
				ID:          "due-soon-" + task.ID,
				Condition:   ConditionDueSoon,
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("%q is due on %s", task.Text, task.DueDate),
				TaskID:      task.ID,
				TriggeredAt: now,
			})
		}
	}

	if ae.thresholds.MaxOpen > 0 && open > ae.thresholds.MaxOpen {
		alerts = append(alerts, Alert{
			ID:          "open-count",
			Condition:   ConditionTooManyOpen,
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%d open tasks, exceeding the maximum of %d", open, ae.thresholds.MaxOpen),
			TriggeredAt: now,
		})
	}

	return alerts, nil
}
