package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/pkg/models"
)

// ErrValidation is returned when a task is rejected before any state change,
// e.g. empty text or due date on add.
var ErrValidation = errors.New("validation failed")

// TaskStore owns the ordered task collection and keeps it in step with the
// persistence adapter. Every mutation is written through before it returns;
// when the write fails the in-memory collection is left untouched.
type TaskStore struct {
	mu        sync.Mutex
	tasks     []models.Task
	persister Persister
	idGen     TaskIDGenerator
	logger    zerolog.Logger
	now       func() time.Time
	listeners []ChangeListener
}

// NewTaskStore creates an empty TaskStore. Call Load to read the persisted
// snapshot.
func NewTaskStore(persister Persister, idGen TaskIDGenerator, logger zerolog.Logger) *TaskStore {
	return &TaskStore{
		persister: persister,
		idGen:     idGen,
		logger:    logger.With().Str("component", "store").Logger(),
		now:       time.Now,
	}
}

// Load replaces the in-memory collection with the persisted snapshot.
// A missing or undecodable snapshot leaves the store empty and is logged at
// debug level, never returned. Records that decode but break a task
// invariant are dropped one by one with a warning; the rest are kept.
func (s *TaskStore) Load(ctx context.Context) {
	tasks, err := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Debug().Err(err).Msg("ignoring unreadable task snapshot")
		s.tasks = nil
		return
	}

	kept, dropped := sanitizeSnapshot(tasks)
	for _, reason := range dropped {
		s.logger.Warn().Str("reason", reason).Msg("dropping invalid task record")
	}
	s.tasks = kept
	s.logger.Debug().Int("count", len(s.tasks)).Msg("loaded tasks")
}

// Save writes the current collection to the persistence adapter.
func (s *TaskStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persister.Save(ctx, slices.Clone(s.tasks)); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// GetAll returns a copy of the collection in stored order.
func (s *TaskStore) GetAll() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns a copy of the task with the given ID.
func (s *TaskStore) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx], true
	}
	return models.Task{}, false
}

// Subscribe registers a listener that is called after every persisted change.
// Listeners run synchronously on the mutating goroutine, after the store lock
// has been released.
func (s *TaskStore) Subscribe(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// AddTask creates an incomplete task with a fresh ID and appends it.
// Text and due date are trimmed; if either is empty the call fails with
// ErrValidation and nothing changes.
func (s *TaskStore) AddTask(ctx context.Context, text, dueDate string) (models.Task, error) {
	text = strings.TrimSpace(text)
	dueDate = strings.TrimSpace(dueDate)
	if text == "" {
		return models.Task{}, fmt.Errorf("%w: task text is required", ErrValidation)
	}
	if dueDate == "" {
		return models.Task{}, fmt.Errorf("%w: due date is required", ErrValidation)
	}

	id, err := s.idGen.GenerateTaskID()
	if err != nil {
		return models.Task{}, fmt.Errorf("adding task: %w", err)
	}
	task := models.Task{ID: id, Text: text, DueDate: dueDate}

	s.mu.Lock()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return models.Task{}, fmt.Errorf("adding task: duplicate task id %s", id)
	}
	next := append(slices.Clone(s.tasks), task)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Task{}, fmt.Errorf("adding task: %w", err)
	}
	event := s.changeEvent(models.ChangeAdded, &task)
	s.mu.Unlock()

	s.notify(event)
	s.logger.Debug().Str("task_id", id).Msg("added task")
	return task, nil
}

// ToggleCompleted flips the completed flag of the task with the given ID.
// It reports false without writing anything when no such task exists.
func (s *TaskStore) ToggleCompleted(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Clone(s.tasks)
	next[idx].Completed = !next[idx].Completed
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return true, fmt.Errorf("toggling task %s: %w", id, err)
	}
	task := next[idx]
	event := s.changeEvent(models.ChangeToggled, &task)
	s.mu.Unlock()

	s.notify(event)
	s.logger.Debug().Str("task_id", id).Bool("completed", task.Completed).Msg("toggled task")
	return true, nil
}

// DeleteTask removes the task with the given ID.
// It reports false without writing anything when no such task exists.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	task := s.tasks[idx]
	next := slices.Delete(slices.Clone(s.tasks), idx, idx+1)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return true, fmt.Errorf("deleting task %s: %w", id, err)
	}
	event := s.changeEvent(models.ChangeDeleted, &task)
	s.mu.Unlock()

	s.notify(event)
	s.logger.Debug().Str("task_id", id).Msg("deleted task")
	return true, nil
}

// SortAndSave reorders the stored collection by due date and persists the
// new order.
func (s *TaskStore) SortAndSave(ctx context.Context) error {
	s.mu.Lock()
	next := SortByDueDate(s.tasks)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("sorting tasks: %w", err)
	}
	event := s.changeEvent(models.ChangeSorted, nil)
	s.mu.Unlock()

	s.notify(event)
	return nil
}

// ReplaceIfEmpty stores tasks as the whole collection, but only while the
// store is still empty. It reports whether the tasks were stored.
func (s *TaskStore) ReplaceIfEmpty(ctx context.Context, tasks []models.Task) (bool, error) {
	if err := validateSnapshot(tasks); err != nil {
		return false, err
	}

	s.mu.Lock()
	if len(s.tasks) > 0 {
		s.mu.Unlock()
		return false, nil
	}
	if err := s.commit(ctx, slices.Clone(tasks)); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("storing seed tasks: %w", err)
	}
	event := s.changeEvent(models.ChangeSeeded, nil)
	s.mu.Unlock()

	s.notify(event)
	return true, nil
}

// commit persists next and, only on success, installs it as the collection.
// The caller must hold s.mu.
func (s *TaskStore) commit(ctx context.Context, next []models.Task) error {
	if err := s.persister.Save(ctx, next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

// indexOf returns the position of the task with the given ID, or -1.
// The caller must hold s.mu.
func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

// changeEvent builds an event from the current collection.
// The caller must hold s.mu.
func (s *TaskStore) changeEvent(kind models.ChangeKind, task *models.Task) models.ChangeEvent {
	return models.ChangeEvent{
		Kind:  kind,
		Task:  task,
		Tasks: slices.Clone(s.tasks),
		At:    s.now().UTC(),
	}
}

func (s *TaskStore) notify(event models.ChangeEvent) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// validateSnapshot checks the task invariants: every task has a non-empty,
// unique ID and non-empty text and due date.
func validateSnapshot(tasks []models.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d: empty id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("task %d: duplicate id %s", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("task %s: empty text", t.ID)
		}
		if strings.TrimSpace(t.DueDate) == "" {
			return fmt.Errorf("task %s: empty due date", t.ID)
		}
	}
	return nil
}

// sanitizeSnapshot keeps the records that satisfy the task invariants, in
// order. For duplicate IDs the first record wins. dropped describes each
// discarded record.
func sanitizeSnapshot(tasks []models.Task) (kept []models.Task, dropped []string) {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		var reason string
		switch {
		case t.ID == "":
			reason = fmt.Sprintf("task %d: empty id", i)
		case strings.TrimSpace(t.Text) == "":
			reason = fmt.Sprintf("task %s: empty text", t.ID)
		case strings.TrimSpace(t.DueDate) == "":
			reason = fmt.Sprintf("task %s: empty due date", t.ID)
		}
		if reason == "" {
			if _, dup := seen[t.ID]; dup {
				reason = fmt.Sprintf("task %d: duplicate id %s", i, t.ID)
			}
		}
		if reason != "" {
			dropped = append(dropped, reason)
			continue
		}
		seen[t.ID] = struct{}{}
		kept = append(kept, t)
	}
	return kept, dropped
}
