package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/repository"
	"github.com/taskforge/api/internal/transport/http/middleware"
	"github.com/taskforge/api/internal/usecase"
)

// taskUsecaser is the subset of TaskUsecase the handler needs.
type taskUsecaser interface {
	Create(ctx context.Context, ownerID string, input usecase.CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]*domain.Task, error)
	GetByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	Update(ctx context.Context, taskID, ownerID string, input usecase.UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) error
	Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error)
}

type TaskHandler struct {
	tasks  taskUsecaser
	logger *slog.Logger
	dev    bool
}

func NewTaskHandler(tasks taskUsecaser, logger *slog.Logger, dev bool) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With("component", "task_handler"),
		dev:    dev,
	}
}

type createTaskRequest struct {
	Title       string     `json:"title"       binding:"required,min=3,max=100"`
	Description string     `json:"description" binding:"omitempty,max=500"`
	Status      string     `json:"status"      binding:"omitempty,oneof=todo in_progress done"`
	Priority    string     `json:"priority"    binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=3,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	Status      *string    `json:"status"      binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority"    binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

type taskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func newTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func newTaskListResponse(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

type statsResponse struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(c, bindingError(err))
		return
	}

	principal := middleware.PrincipalFrom(c)
	task, err := h.tasks.Create(c.Request.Context(), principal.UserID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"task": newTaskResponse(task)})
}

// GET /tasks?status=&priority=
func (h *TaskHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.error(c, err)
		return
	}

	principal := middleware.PrincipalFrom(c)
	tasks, err := h.tasks.List(c.Request.Context(), principal.UserID, filter)
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"tasks": newTaskListResponse(tasks)})
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"), principal.UserID)
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(c, bindingError(err))
		return
	}

	principal := middleware.PrincipalFrom(c)
	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), principal.UserID, usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      (*domain.Status)(req.Status),
		Priority:    (*domain.Priority)(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	if err := h.tasks.Delete(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GET /tasks/stats
func (h *TaskHandler) Stats(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	stats, err := h.tasks.Stats(c.Request.Context(), principal.UserID)
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"stats": statsResponse{
		Total:      stats.Total,
		Todo:       stats.Todo,
		InProgress: stats.InProgress,
		Done:       stats.Done,
	}})
}

func listFilter(c *gin.Context) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{}

	switch status := c.Query("status"); status {
	case "", string(domain.StatusTodo), string(domain.StatusInProgress), string(domain.StatusDone):
		filter.Status = domain.Status(status)
	default:
		return filter, &domain.Error{
			Kind:    domain.KindValidation,
			Message: "Validation failed",
			Details: []domain.FieldError{{Field: "status", Message: "must be one of: todo in_progress done"}},
		}
	}

	switch priority := c.Query("priority"); priority {
	case "", string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh):
		filter.Priority = domain.Priority(priority)
	default:
		return filter, &domain.Error{
			Kind:    domain.KindValidation,
			Message: "Validation failed",
			Details: []domain.FieldError{{Field: "priority", Message: "must be one of: low medium high"}},
		}
	}

	return filter, nil
}

func (h *TaskHandler) error(c *gin.Context, err error) {
	writeError(c, h.logger, h.dev, err)
}
