// Package mcp exposes the task list as MCP (Model Context Protocol) tools so
// AI assistants can read and change it.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/pkg/models"
)

// Server wraps the task store and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	store       *core.TaskStore
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates an MCP server over store. metricsCalc and alertEngine
// may be nil when the event log is disabled.
func NewServer(store *core.TaskStore, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:       store,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "todo", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
}

type listTasksInput struct {
	Filter     string `json:"filter,omitempty" jsonschema:"which tasks to return: all (default), active or completed"`
	SortByDate bool   `json:"sort_by_date,omitempty" jsonschema:"order the result by ascending due date"`
}

type listTasksOutput struct {
	Tasks     []taskOutput `json:"tasks"`
	Count     int          `json:"count"`
	Total     int          `json:"total"`
	Active    int          `json:"active"`
	Completed int          `json:"completed"`
}

type addTaskInput struct {
	Text    string `json:"text" jsonschema:"what needs doing"`
	DueDate string `json:"due_date" jsonschema:"due date as YYYY-MM-DD"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"the task id as returned by list_tasks"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window such as 7d or 24h; defaults to 7d"`
}

type metricsOutput struct {
	TasksAdded     int    `json:"tasks_added"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksReopened  int    `json:"tasks_reopened"`
	TasksDeleted   int    `json:"tasks_deleted"`
	TasksSeeded    int    `json:"tasks_seeded"`
	Sorts          int    `json:"sorts"`
	EventCount     int    `json:"event_count"`
	OldestEvent    string `json:"oldest_event,omitempty"`
	NewestEvent    string `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TaskID      string `json:"task_id,omitempty"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List to-do tasks, optionally filtered by status and sorted by due date.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add an incomplete task with the given text and due date. Both are required.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between completed and active.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Summarise task activity (added, completed, reopened, deleted, seeded) from the event log.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Return overdue and due-soon open tasks, and whether too many tasks are open.",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	view := core.NewDispatcher(s.store,
		core.WithFilter(core.ParseFilter(input.Filter)),
		core.WithSortByDate(input.SortByDate),
	).View()

	out := listTasksOutput{
		Tasks:     make([]taskOutput, len(view.Tasks)),
		Count:     len(view.Tasks),
		Total:     view.Total,
		Active:    view.Active,
		Completed: view.Completed,
	}
	for i, t := range view.Tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	out, err := core.NewDispatcher(s.store).Dispatch(ctx, core.AddTaskCmd{Text: input.Text, DueDate: input.DueDate})
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*out.Task), nil
}

func (s *Server) handleToggleTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	out, err := core.NewDispatcher(s.store).Dispatch(ctx, core.ToggleCmd{ID: input.TaskID})
	if err != nil {
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	if !out.Found {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}
	return nil, taskToOutput(*out.Task), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), deleteTaskOutput{}, nil
	}

	out, err := core.NewDispatcher(s.store).Dispatch(ctx, core.DeleteCmd{ID: input.TaskID})
	if err != nil {
		return errorResult(fmt.Sprintf("deleting task %s: %s", input.TaskID, err)), deleteTaskOutput{}, nil
	}
	if !out.Found {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), deleteTaskOutput{}, nil
	}
	return nil, deleteTaskOutput{Message: fmt.Sprintf("deleted task %s (%s)", input.TaskID, out.Task.Text)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), metricsOutput{}, nil
	}

	since, err := observability.ParseSince(input.Since, time.Now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(since)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		TasksAdded:     metrics.TasksAdded,
		TasksCompleted: metrics.TasksCompleted,
		TasksReopened:  metrics.TasksReopened,
		TasksDeleted:   metrics.TasksDeleted,
		TasksSeeded:    metrics.TasksSeeded,
		Sorts:          metrics.Sorts,
		EventCount:     metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TaskID:      a.TaskID,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:        t.ID,
		Text:      t.Text,
		DueDate:   t.DueDate,
		Completed: t.Completed,
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
