package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

func TestResolveTaskRef(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{"number", "2", tasks[1].ID, nil},
		{"exact id", tasks[2].ID, tasks[2].ID, nil},
		{"unique prefix", "0190a1b2-aaaa", tasks[0].ID, nil},
		{"ambiguous prefix", "0190a1b2-bb", "", errAmbiguousRef},
		{"zero", "0", "", errTaskNotFound},
		{"out of range", "4", "", errTaskNotFound},
		{"unknown id", "ffff", "", errTaskNotFound},
		{"empty", " ", "", errTaskNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTaskRef(tasks, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("resolved %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestAddCommand(t *testing.T) {
	store, out := setupCLI(t)

	if err := runCLI("add", "Buy", "milk", "--due", "2024-03-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tasks := store.GetAll()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != "Buy milk" || tasks[0].DueDate != "2024-03-01" || tasks[0].Completed {
		t.Errorf("unexpected task %+v", tasks[0])
	}
	if !strings.Contains(out.String(), "Added task 1") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestAddCommand_Today(t *testing.T) {
	store, _ := setupCLI(t)

	if err := runCLI("add", "Stretch", "--today"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := core.ParseDueDate(store.GetAll()[0].DueDate); !ok {
		t.Errorf("expected a valid due date, got %q", store.GetAll()[0].DueDate)
	}
}

func TestAddCommand_MissingDue(t *testing.T) {
	store, _ := setupCLI(t)

	err := runCLI("add", "Buy", "milk")
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected no tasks, got %d", store.Len())
	}
}

func TestToggleCommand(t *testing.T) {
	store, out := setupCLI(t, sampleTasks()...)

	if err := runCLI("toggle", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task, _ := store.Get(sampleTasks()[0].ID); !task.Completed {
		t.Error("expected task 1 to be completed")
	}
	if !strings.Contains(out.String(), "completed") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := runCLI("toggle", "9"); !errors.Is(err, errTaskNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRmCommand(t *testing.T) {
	store, _ := setupCLI(t, sampleTasks()...)

	if err := runCLI("rm", "0190a1b2-aaaa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", store.Len())
	}
	if _, ok := store.Get(sampleTasks()[0].ID); ok {
		t.Error("expected task to be deleted")
	}
}

func TestListCommand(t *testing.T) {
	_, out := setupCLI(t, sampleTasks()...)

	if err := runCLI("list", "--filter", "active", "--sort"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.String()
	callBob := strings.Index(text, "Call Bob")
	buyMilk := strings.Index(text, "Buy milk")
	if callBob < 0 || buyMilk < 0 || callBob > buyMilk {
		t.Errorf("expected Call Bob before Buy milk:\n%s", text)
	}
	if strings.Contains(text, "Write report") {
		t.Errorf("completed task shown under active filter:\n%s", text)
	}
	// Numbers refer to stored positions.
	if !strings.Contains(text, "3. [ ] Call Bob") {
		t.Errorf("expected stored position 3 for Call Bob:\n%s", text)
	}
	if !strings.Contains(text, "3 task(s): 2 active, 1 completed") {
		t.Errorf("missing summary:\n%s", text)
	}
}

func TestListCommand_JSON(t *testing.T) {
	_, out := setupCLI(t, sampleTasks()...)

	if err := runCLI("list", "--filter", "completed", "--json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tasks []models.Task
	if err := json.Unmarshal(out.Bytes(), &tasks); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out.String())
	}
	if len(tasks) != 1 || tasks[0].Text != "Write report" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestListCommand_Empty(t *testing.T) {
	_, out := setupCLI(t)

	if err := runCLI("list"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No tasks") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSortCommand(t *testing.T) {
	store, _ := setupCLI(t, sampleTasks()...)

	if err := runCLI("sort"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.GetAll()
	want := []string{"Call Bob", "Write report", "Buy milk"}
	for i, text := range want {
		if got[i].Text != text {
			t.Errorf("position %d = %s, want %s", i, got[i].Text, text)
		}
	}
}

func TestSeedCommand(t *testing.T) {
	store, out := setupCLI(t)
	source := &fakeSeedSource{items: []core.SeedItem{{Title: "A"}, {Title: "B"}, {Title: "C"}}}
	Seeder = core.NewSeedImporter(store, source, core.SeedOptions{})

	if err := runCLI("seed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 tasks, got %d", store.Len())
	}
	if !strings.Contains(out.String(), "Imported 3") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := runCLI("seed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected one fetch, got %d", source.calls)
	}
	if !strings.Contains(out.String(), "nothing imported") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSeedCommand_Failure(t *testing.T) {
	store, _ := setupCLI(t)
	Seeder = core.NewSeedImporter(store, &fakeSeedSource{err: errors.New("boom")}, core.SeedOptions{})

	err := runCLI("seed")
	if !errors.Is(err, core.ErrSeedFailed) {
		t.Fatalf("expected ErrSeedFailed, got %v", err)
	}
}

func TestSeedCommand_Disabled(t *testing.T) {
	store, _ := setupCLI(t)

	err := runCLI("seed")
	if err == nil || !strings.Contains(err.Error(), "seeding is disabled") {
		t.Fatalf("expected seeding disabled error, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestCommandsRequireStore(t *testing.T) {
	setupCLI(t)
	Store = nil

	for _, args := range [][]string{{"list"}, {"sort"}, {"toggle", "1"}, {"add", "x", "--due", "2024-01-01"}} {
		if err := runCLI(args...); !errors.Is(err, errStoreNotInitialized) {
			t.Errorf("%v: expected errStoreNotInitialized, got %v", args, err)
		}
	}
}
