package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/pkg/models"
)

// DefaultSeedLimit is the number of items requested from the seed source.
const DefaultSeedLimit = 5

// ErrSeedFailed wraps every error that abandons a seed import.
var ErrSeedFailed = errors.New("seed import failed")

// SeedItem is one example item offered by a seed source.
type SeedItem struct {
	Title     string
	Completed bool
}

// SeedSource provides example items for an empty store.
// This interface is defined locally in core to avoid importing integration.
type SeedSource interface {
	FetchSeedItems(ctx context.Context, limit int) ([]SeedItem, error)
}

// SeedResult describes what a seed run did.
type SeedResult struct {
	Imported int
	// Skipped is true when the store already held tasks and nothing was
	// fetched or written.
	Skipped bool
}

// SeedOptions configures a SeedImporter.
type SeedOptions struct {
	Limit  int
	Now    func() time.Time
	Logger zerolog.Logger
}

// SeedImporter populates an empty TaskStore from a SeedSource. It never
// touches a store that already holds tasks, and it writes either the whole
// batch or nothing.
type SeedImporter struct {
	store  *TaskStore
	source SeedSource
	limit  int
	now    func() time.Time
	logger zerolog.Logger
}

// NewSeedImporter creates a SeedImporter. A zero Limit means DefaultSeedLimit
// and a nil Now means time.Now.
func NewSeedImporter(store *TaskStore, source SeedSource, opts SeedOptions) *SeedImporter {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSeedLimit
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SeedImporter{
		store:  store,
		source: source,
		limit:  limit,
		now:    now,
		logger: opts.Logger.With().Str("component", "seed").Logger(),
	}
}

// Run performs a single import attempt. Items are mapped to incomplete or
// completed tasks due today, each with a fresh ID. A fetch error, an item
// without a title, or a failed write abandons the whole batch and returns an
// error wrapping ErrSeedFailed; the store stays empty.
func (i *SeedImporter) Run(ctx context.Context) (SeedResult, error) {
	if i.store.Len() > 0 {
		i.logger.Debug().Msg("store not empty, skipping seed import")
		return SeedResult{Skipped: true}, nil
	}

	items, err := i.source.FetchSeedItems(ctx, i.limit)
	if err != nil {
		return i.fail(fmt.Errorf("%w: fetching items: %w", ErrSeedFailed, err))
	}
	if len(items) > i.limit {
		items = items[:i.limit]
	}

	today := Today(i.now())
	tasks := make([]models.Task, 0, len(items))
	for n, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return i.fail(fmt.Errorf("%w: item %d has no title", ErrSeedFailed, n))
		}
		id, err := i.store.idGen.GenerateTaskID()
		if err != nil {
			return i.fail(fmt.Errorf("%w: %w", ErrSeedFailed, err))
		}
		tasks = append(tasks, models.Task{
			ID:        id,
			Text:      title,
			DueDate:   today,
			Completed: item.Completed,
		})
	}

	if len(tasks) == 0 {
		i.logger.Info().Msg("seed source returned no items")
		return SeedResult{}, nil
	}

	stored, err := i.store.ReplaceIfEmpty(ctx, tasks)
	if err != nil {
		return i.fail(fmt.Errorf("%w: %w", ErrSeedFailed, err))
	}
	if !stored {
		i.logger.Debug().Msg("store filled during seed fetch, discarding batch")
		return SeedResult{Skipped: true}, nil
	}

	i.logger.Info().Int("count", len(tasks)).Msg("seeded tasks")
	return SeedResult{Imported: len(tasks)}, nil
}

func (i *SeedImporter) fail(err error) (SeedResult, error) {
	i.logger.Error().Err(err).Msg("seed import abandoned")
	return SeedResult{}, err
}
