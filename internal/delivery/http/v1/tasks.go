package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

type listTasksResponse struct {
	Tasks      []models.Task `json:"tasks"`
	Filter     models.Filter `json:"filter"`
	SortByDate bool          `json:"sortByDate"`
	Total      int           `json:"total"`
	Active     int           `json:"active"`
	Completed  int           `json:"completed"`
}

func newListTasksResponse(v core.View) listTasksResponse {
	tasks := v.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	return listTasksResponse{
		Tasks:      tasks,
		Filter:     v.Filter,
		SortByDate: v.SortByDate,
		Total:      v.Total,
		Active:     v.Active,
		Completed:  v.Completed,
	}
}

// HandleListTasks serves GET /tasks?filter=all|active|completed&sort=date.
func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	sortByDate := c.Query("sort") == "date"
	if b, err := strconv.ParseBool(c.Query("sort")); err == nil {
		sortByDate = b
	}

	d := h.dispatcher(
		core.WithFilter(core.ParseFilter(c.Query("filter"))),
		core.WithSortByDate(sortByDate),
	)
	view := d.View()

	h.logger.Debug().
		Int("count", len(view.Tasks)).
		Str("filter", string(view.Filter)).
		Msg("listed tasks")
	c.JSON(http.StatusOK, newListTasksResponse(view))
}

type createTaskRequest struct {
	Text    string `json:"text"`
	DueDate string `json:"dueDate"`
}

// HandleCreateTask serves POST /tasks.
func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	out, err := h.dispatcher().Dispatch(c, core.AddTaskCmd{Text: req.Text, DueDate: req.DueDate})
	if err != nil {
		h.abortWithCoreError(c, err, "failed to add task")
		return
	}

	h.logger.Info().
		Str("id", out.Task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, out.Task)
}

// HandleToggleTask serves POST /tasks/:id/toggle.
func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	id := c.Param("id")

	out, err := h.dispatcher().Dispatch(c, core.ToggleCmd{ID: id})
	if err != nil {
		h.abortWithCoreError(c, err, "failed to toggle task")
		return
	}
	if !out.Found {
		h.logger.Warn().
			Str("id", id).
			Msg("task not found")
		abort(c, newNotFoundError(errTaskNotFound.Error()))
		return
	}

	h.logger.Info().
		Str("id", id).
		Bool("completed", out.Task.Completed).
		Msg("toggled task")
	c.JSON(http.StatusOK, out.Task)
}

// HandleDeleteTask serves DELETE /tasks/:id.
func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id := c.Param("id")

	out, err := h.dispatcher().Dispatch(c, core.DeleteCmd{ID: id})
	if err != nil {
		h.abortWithCoreError(c, err, "failed to delete task")
		return
	}
	if !out.Found {
		h.logger.Warn().
			Str("id", id).
			Msg("task not found")
		abort(c, newNotFoundError(errTaskNotFound.Error()))
		return
	}

	h.logger.Info().
		Str("id", id).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}

// HandleSortTasks serves POST /tasks/sort, persisting due-date order.
func (h *handlerImpl) HandleSortTasks(c *gin.Context) {
	out, err := h.dispatcher().Dispatch(c, core.SortAndSaveCmd{})
	if err != nil {
		h.abortWithCoreError(c, err, "failed to sort tasks")
		return
	}

	h.logger.Info().Msg("sorted tasks")
	c.JSON(http.StatusOK, newListTasksResponse(out.View))
}

func (h *handlerImpl) abortWithCoreError(c *gin.Context, err error, msg string) {
	h.logger.Error().
		Err(err).
		Msg(msg)
	switch {
	case errors.Is(err, core.ErrValidation):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
