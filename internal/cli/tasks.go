package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

var errStoreNotInitialized = errors.New("task store not initialized")

var (
	addDueFlag  string
	addTodayOpt bool
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task",
	Long: `Add an incomplete task. The words after "add" form the task text.

A due date is required: pass --due YYYY-MM-DD, or --today for today's date.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}

		due := addDueFlag
		if addTodayOpt {
			due = core.Today(time.Now())
		}

		out, err := core.NewDispatcher(Store).Dispatch(cmd.Context(), core.AddTaskCmd{
			Text:    strings.Join(args, " "),
			DueDate: due,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s (due %s)\n", out.View.Total, out.Task.Text, out.Task.DueDate)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:               "toggle <task>",
	Aliases:           []string{"done", "check"},
	Short:             "Mark a task completed, or active again",
	Long:              "Flip a task between completed and active. <task> is the number shown by \"todo list\", a task ID, or a unique ID prefix.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs(nil),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}
		task, err := resolveTaskRef(Store.GetAll(), args[0])
		if err != nil {
			return err
		}

		out, err := core.NewDispatcher(Store).Dispatch(cmd.Context(), core.ToggleCmd{ID: task.ID})
		if err != nil {
			return err
		}
		if !out.Found {
			return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
		}

		state := "active"
		if out.Task.Completed {
			state = "completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %q %s\n", out.Task.Text, state)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:               "rm <task>",
	Aliases:           []string{"delete", "remove"},
	Short:             "Delete a task",
	Long:              "Delete a task permanently. <task> is the number shown by \"todo list\", a task ID, or a unique ID prefix.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs(nil),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}
		task, err := resolveTaskRef(Store.GetAll(), args[0])
		if err != nil {
			return err
		}

		out, err := core.NewDispatcher(Store).Dispatch(cmd.Context(), core.DeleteCmd{ID: task.ID})
		if err != nil {
			return err
		}
		if !out.Found {
			return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", out.Task.Text)
		return nil
	},
}

var (
	listFilterFlag string
	listSortFlag   bool
	listJSONFlag   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks in stored order.

--filter selects all (default), active or completed tasks. --sort orders the
output by due date without changing the stored order; use "todo sort" for
that. Task numbers always refer to the stored position.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}

		view := core.NewDispatcher(Store,
			core.WithFilter(core.ParseFilter(listFilterFlag)),
			core.WithSortByDate(listSortFlag),
		).View()

		if listJSONFlag {
			tasks := view.Tasks
			if tasks == nil {
				tasks = []models.Task{}
			}
			data, err := json.MarshalIndent(tasks, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting tasks as JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		printTasks(cmd.OutOrStdout(), Store.GetAll(), view, time.Now())
		return nil
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Reorder the stored list by due date",
	Long:  "Sort the stored tasks by ascending due date and save that order. Tasks with an unreadable due date move to the end.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}
		out, err := core.NewDispatcher(Store).Dispatch(cmd.Context(), core.SortAndSaveCmd{})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sorted %d task(s) by due date\n", out.View.Total)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDueFlag, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addTodayOpt, "today", false, "due today")

	listCmd.Flags().StringVarP(&listFilterFlag, "filter", "f", string(models.FilterAll), "all, active or completed")
	listCmd.Flags().BoolVarP(&listSortFlag, "sort", "s", false, "order by due date")
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "output as JSON")
	_ = listCmd.RegisterFlagCompletionFunc("filter", completeFilters)

	rootCmd.AddCommand(addCmd, toggleCmd, rmCmd, listCmd, sortCmd)
}

var (
	errTaskNotFound = errors.New("no such task")
	errAmbiguousRef = errors.New("ambiguous task reference")
)

// resolveTaskRef finds a task by 1-based stored position, exact ID, or
// unique ID prefix, in that order.
func resolveTaskRef(tasks []models.Task, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("%w: empty reference", errTaskNotFound)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return models.Task{}, fmt.Errorf("%w: #%d (have %d)", errTaskNotFound, n, len(tasks))
		}
		return tasks[n-1], nil
	}

	var matches []models.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", errTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%w: %s matches %d tasks", errAmbiguousRef, ref, len(matches))
	}
}
