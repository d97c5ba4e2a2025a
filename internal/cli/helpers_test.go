package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

type fakeSeedSource struct {
	items []core.SeedItem
	err   error
	calls int
}

func (f *fakeSeedSource) FetchSeedItems(_ context.Context, limit int) ([]core.SeedItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func newMemoryTaskStore(t *testing.T, tasks ...models.Task) *core.TaskStore {
	t.Helper()
	persister := storage.NewMemoryStore("tasks", nil)
	if err := persister.Save(context.Background(), tasks); err != nil {
		t.Fatal(err)
	}
	store := core.NewTaskStore(persister, core.NewTaskIDGenerator(), zerolog.Nop())
	store.Load(context.Background())
	return store
}

// setupCLI installs a memory-backed store as the package Store and resets
// flag state. The previous globals are restored when the test ends.
func setupCLI(t *testing.T, tasks ...models.Task) (*core.TaskStore, *bytes.Buffer) {
	t.Helper()
	store := newMemoryTaskStore(t, tasks...)

	origStore, origSeeder, origSeedOnStart := Store, Seeder, SeedOnStart
	origAlerts, origMetrics, origNotifier := AlertEngine, MetricsCalc, Notifier
	t.Cleanup(func() {
		Store, Seeder, SeedOnStart = origStore, origSeeder, origSeedOnStart
		AlertEngine, MetricsCalc, Notifier = origAlerts, origMetrics, origNotifier
	})
	Store, Seeder, SeedOnStart = store, nil, false

	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	return store, &out
}

func resetFlags() {
	addDueFlag, addTodayOpt = "", false
	listFilterFlag, listSortFlag, listJSONFlag = string(models.FilterAll), false, false
	metricsJSON, metricsSince = false, "7d"
	alertsNotify, alertsJSON = false, false
	serveAddrFlag = ""
}

func runCLI(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "0190a1b2-aaaa-7000-8000-000000000001", Text: "Buy milk", DueDate: "2024-01-20"},
		{ID: "0190a1b2-bbbb-7000-8000-000000000002", Text: "Write report", DueDate: "2024-01-10", Completed: true},
		{ID: "0190a1b2-bbbc-7000-8000-000000000003", Text: "Call Bob", DueDate: "2024-01-05"},
	}
}
