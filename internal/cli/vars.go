package cli

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
)

// Task services, set during app initialization in app.go.
var (
	Store  *core.TaskStore
	Seeder *core.SeedImporter
	// SeedOnStart runs Seeder before task commands when the store is empty.
	SeedOnStart bool
	Logger      = zerolog.Nop()
	BasePath    string
)

// HTTP server settings.
var (
	HTTPAddr            = "127.0.0.1:8080"
	HTTPShutdownTimeout = 5 * time.Second
)

// Observability service instances. Any of them may be nil.
var (
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
