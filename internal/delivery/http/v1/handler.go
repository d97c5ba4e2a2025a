// Package v1 serves the task collection over a JSON HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/internal/core"
)

type Handler interface {
	HandleListTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleSortTasks(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	store  *core.TaskStore
}

func New(logger zerolog.Logger, store *core.TaskStore) Handler {
	return &handlerImpl{
		logger: logger.With().Str("component", "http").Logger(),
		store:  store,
	}
}

// dispatcher returns a fresh dispatcher per request; view state lives in
// query parameters, not on the server.
func (h *handlerImpl) dispatcher(opts ...core.DispatcherOption) *core.Dispatcher {
	return core.NewDispatcher(h.store, opts...)
}
