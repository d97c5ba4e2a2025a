package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/pkg/models"
)

var errDiskFull = errors.New("disk full")

// memPersister is an in-memory Persister that counts writes and can be told
// to fail.
type memPersister struct {
	mu      sync.Mutex
	tasks   []models.Task
	saves   int
	loadErr error
	saveErr error
}

func (p *memPersister) Load(context.Context) ([]models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return slices.Clone(p.tasks), nil
}

func (p *memPersister) Save(_ context.Context, tasks []models.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	p.tasks = slices.Clone(tasks)
	return nil
}

func (p *memPersister) stored() []models.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.tasks)
}

func (p *memPersister) failSaves(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}

// sequenceIDs hands out id-1, id-2, ...
type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDs) GenerateTaskID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

type failingIDs struct{}

func (failingIDs) GenerateTaskID() (string, error) {
	return "", errors.New("entropy exhausted")
}

func newTestStore(t *testing.T, tasks ...models.Task) (*TaskStore, *memPersister) {
	t.Helper()
	p := &memPersister{tasks: tasks}
	s := NewTaskStore(p, &sequenceIDs{}, zerolog.Nop())
	s.Load(context.Background())
	return s, p
}

func task(id, text, due string, completed bool) models.Task {
	return models.Task{ID: id, Text: text, DueDate: due, Completed: completed}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
