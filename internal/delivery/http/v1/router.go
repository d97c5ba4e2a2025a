package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter builds the gin engine with the v1 routes mounted under /api/v1.
func NewRouter(logger zerolog.Logger, h Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes mounts the task routes on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	api := router.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.GET("", h.HandleListTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.POST("/sort", h.HandleSortTasks)
	tasks.POST("/:id/toggle", h.HandleToggleTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)
}
