package models

import "time"

// Task is a single to-do item. ID is assigned once at creation and never
// changes; Text and DueDate are non-empty for every stored task.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	DueDate   string `json:"dueDate" yaml:"due_date"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterActive    Filter = "active"
)

// Filters lists the supported filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// Next returns the filter that follows f in display order, wrapping around.
// Unknown filters advance to FilterAll's successor as if they were FilterAll.
func (f Filter) Next() Filter {
	all := Filters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return all[1]
}

// ChangeKind identifies the mutation that produced a ChangeEvent.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeToggled ChangeKind = "toggled"
	ChangeDeleted ChangeKind = "deleted"
	ChangeSeeded  ChangeKind = "seeded"
	ChangeSorted  ChangeKind = "sorted"
)

// ChangeEvent is published after a mutation has been persisted.
// Task is the affected task for single-task mutations and nil for bulk
// changes. Tasks is the full collection after the change.
type ChangeEvent struct {
	Kind  ChangeKind `json:"kind"`
	Task  *Task      `json:"task,omitempty"`
	Tasks []Task     `json:"tasks"`
	At    time.Time  `json:"at"`
}
