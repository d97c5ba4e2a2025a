package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/valter-silva-au/todo/pkg/models"
)

// Command is a user intent produced by a UI surface and executed by a
// Dispatcher. The concrete commands are the types in this file.
type Command interface {
	CommandName() string
}

// AddTaskCmd creates a task.
type AddTaskCmd struct {
	Text    string
	DueDate string
}

// ToggleCmd flips the completed flag of a task.
type ToggleCmd struct {
	ID string
}

// DeleteCmd removes a task.
type DeleteCmd struct {
	ID string
}

// SetFilterCmd changes the view filter.
type SetFilterCmd struct {
	Filter models.Filter
}

// ToggleSortCmd switches due-date ordering of the view on or off.
type ToggleSortCmd struct{}

// SortAndSaveCmd reorders the stored collection by due date.
type SortAndSaveCmd struct{}

func (AddTaskCmd) CommandName() string     { return "add_task" }
func (ToggleCmd) CommandName() string      { return "toggle" }
func (DeleteCmd) CommandName() string      { return "delete" }
func (SetFilterCmd) CommandName() string   { return "set_filter" }
func (ToggleSortCmd) CommandName() string  { return "toggle_sort" }
func (SortAndSaveCmd) CommandName() string { return "sort_and_save" }

// View is what a UI surface renders: the visible tasks plus view state and
// counts over the whole collection.
type View struct {
	Tasks      []models.Task
	Filter     models.Filter
	SortByDate bool
	Total      int
	Active     int
	Completed  int
}

// Outcome is the result of dispatching a command.
type Outcome struct {
	View View
	// Task is the task affected by an add, toggle or delete.
	Task *models.Task
	// Found is false when a toggle or delete named an unknown task.
	Found bool
}

// Dispatcher executes commands against a TaskStore and holds the view state
// (filter and sort toggle) of one UI session.
type Dispatcher struct {
	store *TaskStore

	mu         sync.Mutex
	filter     models.Filter
	sortByDate bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithFilter sets the initial view filter.
func WithFilter(filter models.Filter) DispatcherOption {
	return func(d *Dispatcher) { d.filter = ParseFilter(string(filter)) }
}

// WithSortByDate sets the initial sort toggle.
func WithSortByDate(on bool) DispatcherOption {
	return func(d *Dispatcher) { d.sortByDate = on }
}

// NewDispatcher creates a Dispatcher showing all tasks in stored order
// unless options say otherwise.
func NewDispatcher(store *TaskStore, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{store: store, filter: models.FilterAll}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the underlying TaskStore.
func (d *Dispatcher) Store() *TaskStore {
	return d.store
}

// Dispatch executes cmd and returns the resulting view. Mutations are
// persisted before Dispatch returns, so the view always reflects stored
// state.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	out := Outcome{Found: true}

	switch c := cmd.(type) {
	case AddTaskCmd:
		task, err := d.store.AddTask(ctx, c.Text, c.DueDate)
		if err != nil {
			return Outcome{View: d.View()}, err
		}
		out.Task = &task
	case ToggleCmd:
		found, err := d.store.ToggleCompleted(ctx, c.ID)
		if err != nil {
			return Outcome{View: d.View(), Found: found}, err
		}
		out.Found = found
		if task, ok := d.store.Get(c.ID); ok {
			out.Task = &task
		}
	case DeleteCmd:
		before, _ := d.store.Get(c.ID)
		found, err := d.store.DeleteTask(ctx, c.ID)
		if err != nil {
			return Outcome{View: d.View(), Found: found}, err
		}
		out.Found = found
		if found {
			out.Task = &before
		}
	case SetFilterCmd:
		d.mu.Lock()
		d.filter = ParseFilter(string(c.Filter))
		d.mu.Unlock()
	case ToggleSortCmd:
		d.mu.Lock()
		d.sortByDate = !d.sortByDate
		d.mu.Unlock()
	case SortAndSaveCmd:
		if err := d.store.SortAndSave(ctx); err != nil {
			return Outcome{View: d.View()}, err
		}
	default:
		return Outcome{View: d.View()}, fmt.Errorf("unknown command %T", cmd)
	}

	out.View = d.View()
	return out, nil
}

// View renders the current view without changing anything.
func (d *Dispatcher) View() View {
	d.mu.Lock()
	filter, sortByDate := d.filter, d.sortByDate
	d.mu.Unlock()

	all := d.store.GetAll()
	visible := FilterByStatus(all, filter)
	if sortByDate {
		visible = SortByDueDate(visible)
	}

	v := View{
		Tasks:      visible,
		Filter:     filter,
		SortByDate: sortByDate,
		Total:      len(all),
	}
	for _, t := range all {
		if t.Completed {
			v.Completed++
		} else {
			v.Active++
		}
	}
	return v
}
