package core

import (
	"context"

	"github.com/valter-silva-au/todo/pkg/models"
)

// Persister reads and writes the full task collection as one snapshot.
// This interface is defined locally in core to avoid importing storage.
//
// Load returns a nil slice and a nil error when no snapshot exists yet.
// Save replaces the whole snapshot; partial writes must never be visible.
type Persister interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
}
