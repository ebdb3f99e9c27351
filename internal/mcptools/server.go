package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "task-manager.com/task-manager/internal/errors"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

const (
	serverName    = "tasks"
	serverVersion = "1.0.0"
)

// Server exposes the task service as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	tasks     *services.TaskService
}

func NewServer(tasks *services.TaskService) *Server {
	s := &Server{tasks: tasks}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Add a task with a title and optional description, deadline and priority"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("deadline", mcp.Description("Deadline as YYYY-MM-DD")),
			mcp.WithString("priority", mcp.Description("Priority: High, Medium or Low (default: Low)")),
		),
		s.handleAddTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks, optionally filtered and sorted"),
			mcp.WithString("priority", mcp.Description("Only tasks with this priority")),
			mcp.WithString("status", mcp.Description("Only tasks with this status: Pending or Completed")),
			mcp.WithString("date", mcp.Description("Only tasks due on this day (YYYY-MM-DD)")),
			mcp.WithString("sort", mcp.Description("Sort by priority or date")),
		),
		s.handleListTasks,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_task",
			mcp.WithDescription("Get one task by id"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleGetTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("edit_task",
			mcp.WithDescription("Update some fields of a task; omitted fields are unchanged"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("deadline", mcp.Description("New deadline as YYYY-MM-DD, or empty to clear")),
			mcp.WithString("priority", mcp.Description("New priority: High, Medium or Low")),
			mcp.WithString("status", mcp.Description("New status: Pending or Completed")),
		),
		s.handleEditTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_task",
			mcp.WithDescription("Mark a task as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleCompleteTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_task",
			mcp.WithDescription("Delete a task permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleDeleteTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("task_stats",
			mcp.WithDescription("Count tasks per priority and status"),
		),
		s.handleStats,
	)
}

func toolError(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %s", action, apperrors.PublicMessage(err)))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(output)), nil
}

func taskID(req mcp.CallToolRequest) (uint, error) {
	id := req.GetFloat("id", -1)
	if id < 1 || id != float64(uint(id)) {
		return 0, apperrors.ErrInvalidTaskID
	}
	return uint(id), nil
}

func (s *Server) handleAddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deadline, err := services.ParseDeadline(req.GetString("deadline", ""))
	if err != nil {
		return toolError("add task", err), nil
	}

	input := services.TaskInput{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Deadline:    deadline,
	}
	if p := req.GetString("priority", ""); p != "" {
		if input.Priority, err = services.ParsePriority(p); err != nil {
			return toolError("add task", err), nil
		}
	}

	task, err := s.tasks.CreateTask(ctx, input)
	if err != nil {
		return toolError("add task", err), nil
	}
	return jsonResult(task)
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		filter = services.ListFilter{Sort: strings.ToLower(req.GetString("sort", ""))}
		err    error
	)
	if v := req.GetString("priority", ""); v != "" {
		if filter.Priority, err = services.ParsePriority(v); err != nil {
			return toolError("list tasks", err), nil
		}
	}
	if v := req.GetString("status", ""); v != "" {
		if filter.Status, err = services.ParseStatus(v); err != nil {
			return toolError("list tasks", err), nil
		}
	}
	if v := req.GetString("date", ""); v != "" {
		if filter.Date, err = services.ParseDeadline(v); err != nil {
			return toolError("list tasks", err), nil
		}
	}

	tasks, err := s.tasks.ListTasks(ctx, filter)
	if err != nil {
		return toolError("list tasks", err), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}
	return jsonResult(tasks)
}

func (s *Server) handleGetTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return toolError("get task", err), nil
	}

	task, found, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return toolError("get task", err), nil
	}
	if !found {
		return toolError("get task", fmt.Errorf("%w: %d", apperrors.ErrTaskNotFound, id)), nil
	}
	return jsonResult(task)
}

func (s *Server) handleEditTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return toolError("edit task", err), nil
	}

	args := req.GetArguments()
	patch := make(map[string]any)
	for _, field := range []string{
		repository.FieldTitle,
		repository.FieldDescription,
		repository.FieldDeadline,
		repository.FieldPriority,
		repository.FieldStatus,
	} {
		if v, ok := args[field]; ok {
			patch[field] = v
		}
	}
	if len(patch) == 0 {
		return toolError("edit task", fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)), nil
	}

	if err := s.requireTask(ctx, id); err != nil {
		return toolError("edit task", err), nil
	}
	if err := s.tasks.EditTask(ctx, id, patch); err != nil {
		return toolError("edit task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d updated.", id)), nil
}

func (s *Server) handleCompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return toolError("complete task", err), nil
	}
	if err := s.requireTask(ctx, id); err != nil {
		return toolError("complete task", err), nil
	}
	if err := s.tasks.MarkComplete(ctx, id); err != nil {
		return toolError("complete task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d marked as completed.", id)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return toolError("delete task", err), nil
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return toolError("delete task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d deleted.", id)), nil
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.tasks.Stats(ctx)
	if err != nil {
		return toolError("compute stats", err), nil
	}
	return jsonResult(stats)
}

func (s *Server) requireTask(ctx context.Context, id uint) error {
	_, found, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %d", apperrors.ErrTaskNotFound, id)
	}
	return nil
}
