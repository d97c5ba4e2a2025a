package core

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"github.com/valter-silva-au/todo/pkg/models"
)

func genTasks(rt *rapid.T) []models.Task {
	n := rapid.IntRange(0, 20).Draw(rt, "n")
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:        fmt.Sprintf("t%d", i),
			Text:      rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(rt, "text"),
			DueDate:   rapid.SampledFrom([]string{"2024-01-01", "2024-01-02", "2024-02-29", "2023-12-31", "someday"}).Draw(rt, "due"),
			Completed: rapid.Bool().Draw(rt, "completed"),
		}
	}
	return tasks
}

func newPropertyStore(tasks []models.Task) (*TaskStore, *memPersister) {
	p := &memPersister{tasks: tasks}
	s := NewTaskStore(p, &sequenceIDs{}, zerolog.Nop())
	s.Load(context.Background())
	return s, p
}

// Feature: todo, Property 1: Adding a valid task grows the list by one
// and the new task starts incomplete.
func TestProperty_AddTaskGrowsByOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, p := newPropertyStore(genTasks(rt))
		before := s.Len()
		text := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "text")
		due := rapid.StringMatching(`20[0-9]{2}-0[1-9]-[12][0-9]`).Draw(rt, "due")

		task, err := s.AddTask(context.Background(), text, due)
		if err != nil {
			rt.Fatalf("AddTask(%q, %q) failed: %v", text, due, err)
		}
		if s.Len() != before+1 {
			rt.Fatalf("len = %d, want %d", s.Len(), before+1)
		}
		if task.Completed {
			rt.Fatal("new task is completed")
		}
		if !slices.Equal(p.stored(), s.GetAll()) {
			rt.Fatal("persisted state diverged from memory")
		}
	})
}

// Feature: todo, Property 2: Blank text or due date never changes the list.
func TestProperty_BlankInputIsNoOp(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		s, p := newPropertyStore(tasks)
		blank := rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, "blank")
		other := rapid.StringMatching(`[a-z0-9-]{1,10}`).Draw(rt, "other")

		args := [2]string{blank, other}
		if rapid.Bool().Draw(rt, "blankDue") {
			args = [2]string{other, blank}
		}
		if _, err := s.AddTask(context.Background(), args[0], args[1]); err == nil {
			rt.Fatalf("AddTask(%q, %q) succeeded", args[0], args[1])
		}
		if !slices.Equal(s.GetAll(), tasks) || p.saves != 0 {
			rt.Fatal("blank input changed the list")
		}
	})
}

// Feature: todo, Property 3: Toggling a task twice restores it.
func TestProperty_ToggleTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		if len(tasks) == 0 {
			return
		}
		s, _ := newPropertyStore(tasks)
		id := rapid.SampledFrom(ids(tasks)).Draw(rt, "id")
		ctx := context.Background()

		_, _ = s.ToggleCompleted(ctx, id)
		_, _ = s.ToggleCompleted(ctx, id)

		if !slices.Equal(s.GetAll(), tasks) {
			rt.Fatal("double toggle changed the list")
		}
	})
}

// Feature: todo, Property 4: Deleting an unknown id changes nothing.
func TestProperty_DeleteUnknownIsNoOp(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		s, p := newPropertyStore(tasks)
		id := rapid.StringMatching(`x[0-9]{1,4}`).Draw(rt, "id")

		found, err := s.DeleteTask(context.Background(), id)
		if err != nil || found {
			rt.Fatalf("DeleteTask(%q) = %v, %v", id, found, err)
		}
		if !slices.Equal(s.GetAll(), tasks) || p.saves != 0 {
			rt.Fatal("deleting an unknown id changed the list")
		}
	})
}

// Feature: todo, Property 5: The completed and active filters partition the list.
func TestProperty_FiltersPartition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		done := FilterByStatus(tasks, models.FilterCompleted)
		open := FilterByStatus(tasks, models.FilterActive)

		if len(done)+len(open) != len(tasks) {
			rt.Fatalf("%d + %d != %d", len(done), len(open), len(tasks))
		}
		for _, task := range done {
			if !task.Completed || slices.Contains(ids(open), task.ID) {
				rt.Fatalf("task %s misplaced", task.ID)
			}
		}
		for _, task := range open {
			if task.Completed {
				rt.Fatalf("completed task %s in active filter", task.ID)
			}
		}
	})
}

// Feature: todo, Property 6: Sorting is a stable permutation ordered by date.
func TestProperty_SortByDueDate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		sorted := SortByDueDate(tasks)

		if len(sorted) != len(tasks) {
			rt.Fatal("sort changed the length")
		}
		got := ids(sorted)
		want := ids(tasks)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			rt.Fatal("sort is not a permutation")
		}

		index := make(map[string]int, len(tasks))
		for i, task := range tasks {
			index[task.ID] = i
		}
		for i := 1; i < len(sorted); i++ {
			a, aok := ParseDueDate(sorted[i-1].DueDate)
			b, bok := ParseDueDate(sorted[i].DueDate)
			switch {
			case !aok && bok:
				rt.Fatalf("invalid date before valid one at %d", i)
			case aok && bok && a.After(b):
				rt.Fatalf("dates out of order at %d", i)
			case aok == bok && (!aok || a.Equal(b)) && index[sorted[i-1].ID] > index[sorted[i].ID]:
				rt.Fatalf("equal keys reordered at %d", i)
			}
		}
	})
}
