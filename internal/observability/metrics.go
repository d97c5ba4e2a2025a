package observability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/todo/internal/core"
)

// Metrics summarises task activity recorded in the event log.
type Metrics struct {
	TasksAdded     int        `json:"tasks_added"`
	TasksCompleted int        `json:"tasks_completed"`
	TasksReopened  int        `json:"tasks_reopened"`
	TasksDeleted   int        `json:"tasks_deleted"`
	TasksSeeded    int        `json:"tasks_seeded"`
	Sorts          int        `json:"sorts"`
	EventCount     int        `json:"event_count"`
	OldestEvent    *time.Time `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}
	for i, event := range events {
		t := event.Time
		if i == 0 {
			m.OldestEvent = &t
		}
		m.NewestEvent = &t

		switch event.Type {
		case core.EventTaskAdded:
			m.TasksAdded++
		case core.EventTaskCompleted:
			m.TasksCompleted++
		case core.EventTaskReopened:
			m.TasksReopened++
		case core.EventTaskDeleted:
			m.TasksDeleted++
		case core.EventTasksSeeded:
			m.TasksSeeded += intField(event.Data, "count")
		case core.EventTasksSorted:
			m.Sorts++
		}
	}
	return m, nil
}

// intField reads a numeric field that may have been decoded from JSON as
// float64.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// ParseSince converts a window such as "7d" or "24h" into the instant that
// far before now. An empty window means seven days.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid day window %q", s)
		}
		return now.AddDate(0, 0, -n), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid window %q (use e.g. 7d, 24h, 90m)", s)
	}
	return now.Add(-d), nil
}
